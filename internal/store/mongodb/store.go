// Package mongodb implements store.Store on top of the mongo driver.
package mongodb

import (
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	usersCollection    = "users"
	productsCollection = "products"
	cartsCollection    = "carts"
	ordersCollection   = "orders"
	feedbackCollection = "feedback"
	queriesCollection  = "queries"
)

type Store struct {
	db *mongo.Database
}

func New(db *mongo.Database) *Store {
	return &Store{db: db}
}
