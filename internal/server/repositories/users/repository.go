// Package users holds the credential store: one record per username.
package users

import (
	"context"

	"github.com/dmitrijs2005/learnpoke/internal/server/models"
)

// Repository is the credential store contract used by the auth service.
//
// Create fails with common.ErrorAlreadyExists when the username is taken;
// implementations enforce this at the storage layer. GetUserByLogin and
// UpdateVerifier fail with common.ErrorNotFound for unknown usernames.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	Exists(ctx context.Context, login string) (bool, error)
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
	UpdateVerifier(ctx context.Context, login string, verifier string) error
}
