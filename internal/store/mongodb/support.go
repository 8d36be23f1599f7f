package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"livemart/internal/models"
	"livemart/internal/store"
)

func (s *Store) CreateFeedback(ctx context.Context, fb *models.Feedback) error {
	res, err := s.db.Collection(feedbackCollection).InsertOne(ctx, fb)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		fb.ID = id
	}
	return nil
}

func (s *Store) ListFeedback(ctx context.Context, q store.FeedbackQuery) ([]models.Feedback, error) {
	filter := bson.M{}
	if q.Product != nil {
		filter["product"] = *q.Product
	}
	if q.User != nil {
		filter["user"] = *q.User
	}
	if q.Status != "" {
		filter["status"] = q.Status
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := s.db.Collection(feedbackCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]models.Feedback, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CreateQuery(ctx context.Context, query *models.Query) error {
	res, err := s.db.Collection(queriesCollection).InsertOne(ctx, query)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		query.ID = id
	}
	return nil
}

func (s *Store) GetQuery(ctx context.Context, id primitive.ObjectID) (*models.Query, error) {
	var query models.Query
	err := s.db.Collection(queriesCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&query)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &query, nil
}

func (s *Store) ListQueries(ctx context.Context, userID *primitive.ObjectID) ([]models.Query, error) {
	filter := bson.M{}
	if userID != nil {
		filter["user"] = *userID
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := s.db.Collection(queriesCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	queries := make([]models.Query, 0)
	if err := cursor.All(ctx, &queries); err != nil {
		return nil, err
	}
	return queries, nil
}

func (s *Store) UpdateQuery(ctx context.Context, query *models.Query) error {
	res, err := s.db.Collection(queriesCollection).ReplaceOne(ctx, bson.M{"_id": query.ID}, query)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}
