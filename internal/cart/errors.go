package cart

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrSelfPurchase rejects a cart owner adding their own listing.
var ErrSelfPurchase = errors.New("you cannot order your own product")

type InsufficientStockError struct {
	ProductID primitive.ObjectID
	Available int
	Requested int
}

func (e InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: %d available, %d requested", e.Available, e.Requested)
}

type BelowMinimumOrderError struct {
	ProductID primitive.ObjectID
	Name      string
	Minimum   int
}

func (e BelowMinimumOrderError) Error() string {
	return fmt.Sprintf("minimum order quantity for %s is %d", e.Name, e.Minimum)
}
