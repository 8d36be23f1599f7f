package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"livemart/internal/models"
	"livemart/internal/store"
)

func (s *Store) GetCart(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	var cart models.Cart
	err := s.db.Collection(cartsCollection).FindOne(ctx, bson.M{"user": userID}).Decode(&cart)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// SaveCart upserts the whole item list keyed by owner. The unique index on
// user keeps it one cart per account even under concurrent first writes.
func (s *Store) SaveCart(ctx context.Context, cart *models.Cart) error {
	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"items":     cart.Items,
			"updatedAt": now,
		},
		"$setOnInsert": bson.M{
			"user":      cart.User,
			"createdAt": now,
		},
	}

	opts := options.Update().SetUpsert(true)
	res, err := s.db.Collection(cartsCollection).UpdateOne(ctx, bson.M{"user": cart.User}, update, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return store.ErrDuplicate
		}
		return err
	}
	if id, ok := res.UpsertedID.(primitive.ObjectID); ok {
		cart.ID = id
	}
	cart.UpdatedAt = now
	return nil
}

func (s *Store) ClearCart(ctx context.Context, userID primitive.ObjectID) error {
	update := bson.M{"$set": bson.M{"items": []models.CartItem{}, "updatedAt": time.Now()}}
	_, err := s.db.Collection(cartsCollection).UpdateOne(ctx, bson.M{"user": userID}, update)
	return err
}
