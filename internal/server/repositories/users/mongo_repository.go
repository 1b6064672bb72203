package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/learnpoke/internal/common"
	"github.com/dmitrijs2005/learnpoke/internal/server/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Field names follow the documents already stored in the Users collection.
const (
	mongoFieldUserName = "Username"
	mongoFieldVerifier = "UserPass"
)

type userDocument struct {
	ID             bson.ObjectID `bson:"_id,omitempty"`
	UserName       string        `bson:"Username"`
	Verifier       string        `bson:"UserPass"`
	RecoveryAnswer string        `bson:"FavAnime"`
	CreatedAt      time.Time     `bson:"CreatedAt,omitempty"`
}

func toDocument(u *models.User) userDocument {
	doc := userDocument{
		UserName:       u.UserName,
		Verifier:       u.Verifier,
		RecoveryAnswer: u.RecoveryAnswer,
		CreatedAt:      u.CreatedAt,
	}
	if id, err := bson.ObjectIDFromHex(u.ID); err == nil {
		doc.ID = id
	}
	return doc
}

func (d userDocument) toModel() *models.User {
	u := &models.User{
		UserName:       d.UserName,
		Verifier:       d.Verifier,
		RecoveryAnswer: d.RecoveryAnswer,
		CreatedAt:      d.CreatedAt,
	}
	if !d.ID.IsZero() {
		u.ID = d.ID.Hex()
	}
	return u
}

func byUserName(userName string) bson.D {
	return bson.D{{Key: mongoFieldUserName, Value: userName}}
}

// MongoRepository stores users as documents in a MongoDB collection.
type MongoRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewMongoRepository(coll *mongo.Collection) *MongoRepository {
	return &MongoRepository{coll: coll, now: time.Now}
}

// EnsureIndexes creates the unique username index that makes Create safe
// against concurrent registrations.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: mongoFieldUserName, Value: 1}},
		Options: options.Index().SetUnique(true).SetName("username_unique"),
	})
	if err != nil {
		return fmt.Errorf("mongo error: %w", err)
	}
	return nil
}

func (r *MongoRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	user.CreatedAt = r.now().UTC()
	doc := toDocument(user)

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("mongo error: %w", err)
	}

	if id, ok := res.InsertedID.(bson.ObjectID); ok {
		user.ID = id.Hex()
	}

	return user, nil
}

func (r *MongoRepository) Exists(ctx context.Context, userName string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, byUserName(userName), options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("mongo error: %w", err)
	}
	return n > 0, nil
}

func (r *MongoRepository) GetUserByLogin(ctx context.Context, userName string) (*models.User, error) {
	var doc userDocument
	err := r.coll.FindOne(ctx, byUserName(userName)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("mongo error: %w", err)
	}
	return doc.toModel(), nil
}

func (r *MongoRepository) UpdateVerifier(ctx context.Context, userName string, verifier string) error {
	update := bson.D{{Key: "$set", Value: bson.D{{Key: mongoFieldVerifier, Value: verifier}}}}

	res, err := r.coll.UpdateOne(ctx, byUserName(userName), update)
	if err != nil {
		return fmt.Errorf("mongo error: %w", err)
	}
	if res.MatchedCount == 0 {
		return common.ErrorNotFound
	}
	return nil
}
