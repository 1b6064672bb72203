package repomanager

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/learnpoke/internal/server/repositories/users"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	mongoDatabase   = "pokesharpC"
	mongoCollection = "Users"
)

// MongoRepositoryManager vends MongoDB-backed repositories.
type MongoRepositoryManager struct {
	client *mongo.Client
	users  *users.MongoRepository
}

// NewMongoRepositoryManager creates a client for dsn. The driver connects
// lazily; RunMigrations is the first call that needs the server.
func NewMongoRepositoryManager(dsn string) (*MongoRepositoryManager, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(dsn))
	if err != nil {
		return nil, fmt.Errorf("mongo connect error: %w", err)
	}

	coll := client.Database(mongoDatabase).Collection(mongoCollection)

	return &MongoRepositoryManager{client: client, users: users.NewMongoRepository(coll)}, nil
}

func (m *MongoRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *MongoRepositoryManager) RunMigrations(ctx context.Context) error {
	return m.users.EnsureIndexes(ctx)
}

func (m *MongoRepositoryManager) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
