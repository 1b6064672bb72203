package repomanager

import (
	"context"

	"github.com/dmitrijs2005/learnpoke/internal/server/repositories/users"
)

// InMemoryRepositoryManager serves a process-local store.
type InMemoryRepositoryManager struct {
	users *users.InMemoryRepository
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{users: users.NewInMemoryRepository()}
}

func (m *InMemoryRepositoryManager) Users() users.Repository { return m.users }

func (m *InMemoryRepositoryManager) RunMigrations(context.Context) error { return nil }

func (m *InMemoryRepositoryManager) Close(context.Context) error { return nil }
