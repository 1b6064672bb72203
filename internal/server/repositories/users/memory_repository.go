package users

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/learnpoke/internal/common"
	"github.com/dmitrijs2005/learnpoke/internal/server/models"
	"github.com/google/uuid"
)

// InMemoryRepository keeps users in a map. It is used by tests and by
// memory:// deployments; data does not survive a restart.
type InMemoryRepository struct {
	mu    sync.RWMutex
	users map[string]models.User
	now   func() time.Time
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{users: make(map[string]models.User), now: time.Now}
}

func (r *InMemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.UserName]; ok {
		return nil, common.ErrorAlreadyExists
	}

	user.ID = uuid.NewString()
	user.CreatedAt = r.now()
	r.users[user.UserName] = *user

	return user, nil
}

func (r *InMemoryRepository) Exists(ctx context.Context, userName string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.users[userName]
	return ok, nil
}

func (r *InMemoryRepository) GetUserByLogin(ctx context.Context, userName string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[userName]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &u, nil
}

func (r *InMemoryRepository) UpdateVerifier(ctx context.Context, userName string, verifier string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[userName]
	if !ok {
		return common.ErrorNotFound
	}
	u.Verifier = verifier
	r.users[userName] = u

	return nil
}
