// Package store defines the persistence boundary for the marketplace. The
// mongodb subpackage is the production implementation; the memory subpackage
// backs unit tests and dev mode.
package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"livemart/internal/models"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrDuplicate         = errors.New("duplicate key")
)

// StockDecrement asks for product stock to be reduced by Quantity, but only
// if the current stock is at least Quantity.
type StockDecrement struct {
	ProductID primitive.ObjectID
	Quantity  int
}

// ProductQuery is the coarse persisted-side filter; the fine-grained catalog
// filtering (text, price, geo, pagination) happens in the catalog package.
type ProductQuery struct {
	Status string
	Seller *primitive.ObjectID
}

// OrderQuery selects orders visible to a principal: orders they placed,
// orders placed on their behalf, or orders containing their products.
type OrderQuery struct {
	Customer       *primitive.ObjectID
	Retailer       *primitive.ObjectID
	SellerProducts []primitive.ObjectID
}

// FeedbackQuery filters feedback listings.
type FeedbackQuery struct {
	Product *primitive.ObjectID
	User    *primitive.ObjectID
	Status  string
}

// Store is the document-store collaborator. PlaceOrder is the single atomic
// commit point: every stock decrement is conditional (stock >= quantity) and
// applied together with the order insert, or not at all.
type Store interface {
	// Users
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListSellers(ctx context.Context) ([]models.User, error)

	// Products
	CreateProduct(ctx context.Context, product *models.Product) error
	GetProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	ListProducts(ctx context.Context, q ProductQuery) ([]models.Product, error)
	ListProductsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id primitive.ObjectID) error

	// Carts
	GetCart(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error)
	SaveCart(ctx context.Context, cart *models.Cart) error
	ClearCart(ctx context.Context, userID primitive.ObjectID) error

	// Orders
	PlaceOrder(ctx context.Context, order *models.Order, decrements []StockDecrement) error
	GetOrder(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	ListOrders(ctx context.Context, q OrderQuery) ([]models.Order, error)
	UpdateOrder(ctx context.Context, order *models.Order) error

	// Feedback and support queries
	CreateFeedback(ctx context.Context, fb *models.Feedback) error
	ListFeedback(ctx context.Context, q FeedbackQuery) ([]models.Feedback, error)
	CreateQuery(ctx context.Context, query *models.Query) error
	GetQuery(ctx context.Context, id primitive.ObjectID) (*models.Query, error)
	ListQueries(ctx context.Context, userID *primitive.ObjectID) ([]models.Query, error)
	UpdateQuery(ctx context.Context, query *models.Query) error
}
