// Package repomanager opens the configured credential store and hands out
// its repositories.
package repomanager

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/learnpoke/internal/server/repositories/users"
)

// RepositoryManager owns a storage backend connection.
type RepositoryManager interface {
	// RunMigrations prepares the schema or indexes the repositories rely on,
	// including the unique username constraint.
	RunMigrations(ctx context.Context) error
	Users() users.Repository
	Close(ctx context.Context) error
}

// New selects the backend from the DSN scheme: postgres:// or
// postgresql:// for Postgres, mongodb:// or mongodb+srv:// for MongoDB and
// memory:// for a process-local store.
func New(dsn string) (RepositoryManager, error) {
	scheme, _, found := strings.Cut(dsn, "://")
	if !found {
		return nil, fmt.Errorf("invalid database dsn: missing scheme")
	}

	switch strings.ToLower(scheme) {
	case "postgres", "postgresql":
		m, err := NewPostgresRepositoryManager(dsn)
		if err != nil {
			return nil, err
		}
		return m, nil
	case "mongodb", "mongodb+srv":
		m, err := NewMongoRepositoryManager(dsn)
		if err != nil {
			return nil, err
		}
		return m, nil
	case "memory":
		return NewInMemoryRepositoryManager(), nil
	default:
		return nil, fmt.Errorf("unsupported database dsn scheme %q", scheme)
	}
}
