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

// PlaceOrder commits the order insert and every stock decrement in a single
// transaction. Each decrement is a conditional update (stock >= quantity), so
// concurrent placements for the same product can never drive stock negative:
// the loser's update matches nothing and the whole transaction aborts.
func (s *Store) PlaceOrder(ctx context.Context, order *models.Order, decrements []store.StockDecrement) error {
	session, err := s.db.Client().StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	var orderID primitive.ObjectID
	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		for _, dec := range decrements {
			filter := bson.M{
				"_id":   dec.ProductID,
				"stock": bson.M{"$gte": dec.Quantity},
			}
			update := bson.M{"$inc": bson.M{"stock": -dec.Quantity}}

			res, err := s.db.Collection(productsCollection).UpdateOne(sessCtx, filter, update)
			if err != nil {
				return nil, err
			}
			if res.MatchedCount == 0 {
				return nil, store.ErrInsufficientStock
			}
		}

		res, err := s.db.Collection(ordersCollection).InsertOne(sessCtx, order)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return nil, store.ErrDuplicate
			}
			return nil, err
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			orderID = id
		}
		return nil, nil
	})
	if err != nil {
		return err
	}

	if !orderID.IsZero() {
		order.ID = orderID
	}
	return nil
}

func (s *Store) GetOrder(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	err := s.db.Collection(ordersCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *Store) ListOrders(ctx context.Context, q store.OrderQuery) ([]models.Order, error) {
	clauses := make([]bson.M, 0, 3)
	if q.Customer != nil {
		clauses = append(clauses, bson.M{"customer": *q.Customer})
	}
	if q.Retailer != nil {
		clauses = append(clauses, bson.M{"retailer": *q.Retailer})
	}
	if len(q.SellerProducts) > 0 {
		clauses = append(clauses, bson.M{"items.product": bson.M{"$in": q.SellerProducts}})
	}

	filter := bson.M{}
	if len(clauses) == 1 {
		filter = clauses[0]
	} else if len(clauses) > 1 {
		filter = bson.M{"$or": clauses}
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := s.db.Collection(ordersCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	orders := make([]models.Order, 0)
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *Store) UpdateOrder(ctx context.Context, order *models.Order) error {
	res, err := s.db.Collection(ordersCollection).ReplaceOne(ctx, bson.M{"_id": order.ID}, order)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}
