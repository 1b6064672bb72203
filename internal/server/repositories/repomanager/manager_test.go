package repomanager

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_SelectsBackendByScheme(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		dsn  string
		want any
	}{
		{dsn: "postgres://u:p@localhost:5432/db?sslmode=disable", want: &PostgresRepositoryManager{}},
		{dsn: "postgresql://localhost/db", want: &PostgresRepositoryManager{}},
		{dsn: "mongodb://localhost:27017", want: &MongoRepositoryManager{}},
		{dsn: "memory://", want: &InMemoryRepositoryManager{}},
	}

	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			m, err := New(tt.dsn)
			require.NoError(t, err)
			t.Cleanup(func() { _ = m.Close(ctx) })

			assert.IsType(t, tt.want, m)
			assert.NotNil(t, m.Users())
		})
	}
}

func TestNew_RejectsUnknownDSN(t *testing.T) {
	for _, dsn := range []string{"", "localhost:5432", "redis://localhost"} {
		m, err := New(dsn)
		assert.Error(t, err, "dsn %q", dsn)
		assert.Nil(t, m)
	}
}

func TestInMemoryRepositoryManager(t *testing.T) {
	ctx := context.Background()
	m := NewInMemoryRepositoryManager()

	require.NoError(t, m.RunMigrations(ctx))
	assert.Same(t, m.Users(), m.Users(), "the store must be shared between calls")
	require.NoError(t, m.Close(ctx))
}

func TestNewMongoRepositoryManager_ConnectsLazily(t *testing.T) {
	ctx := context.Background()

	m, err := NewMongoRepositoryManager("mongodb://127.0.0.1:1")
	require.NoError(t, err, "no server round trip before RunMigrations")
	assert.NotNil(t, m.Users())
	require.NoError(t, m.Close(ctx))
}
