package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rahulm/restaurant-backend/internal/models"
)

// MongoUserStore persists users in a MongoDB collection. A unique index on
// username makes duplicate registration a store-level conflict rather than a
// racy check-then-insert.
type MongoUserStore struct {
	col *mongo.Collection
}

func NewMongoUserStore(ctx context.Context, db *mongo.Database) (*MongoUserStore, error) {
	col := db.Collection("users")
	_, err := col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, err
	}
	return &MongoUserStore{col: col}, nil
}

func (s *MongoUserStore) CreateUser(ctx context.Context, username, passwordHash, role string) (*models.User, error) {
	now := time.Now()
	u := &models.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := s.col.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return u, nil
}

func (s *MongoUserStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := s.col.FindOne(ctx, bson.M{"username": username}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
