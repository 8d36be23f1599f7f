// Package cart validates and merges line items against product constraints.
package cart

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"livemart/internal/models"
	"livemart/internal/store"
)

type Aggregator struct {
	store store.Store
}

func NewAggregator(st store.Store) *Aggregator {
	return &Aggregator{store: st}
}

// Get returns the owner's cart, creating an empty one on first access.
func (a *Aggregator) Get(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	cart, err := a.store.GetCart(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if err != store.ErrNotFound {
		return nil, err
	}

	cart = &models.Cart{
		User:      userID,
		Items:     []models.CartItem{},
		CreatedAt: time.Now(),
	}
	if err := a.store.SaveCart(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// AddItem validates the product constraints and merges the quantity into an
// existing line or appends a new one. The merged total is deliberately not
// re-validated against stock here; order placement re-checks every line
// against live product state.
func (a *Aggregator) AddItem(ctx context.Context, principal models.Principal, productID primitive.ObjectID, quantity int) (*models.Cart, error) {
	product, err := a.store.GetProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("product %s: %w", productID.Hex(), err)
	}

	if quantity > product.Stock {
		return nil, InsufficientStockError{
			ProductID: productID,
			Available: product.Stock,
			Requested: quantity,
		}
	}

	if quantity < product.EffectiveMinOrderQuantity() {
		return nil, BelowMinimumOrderError{
			ProductID: productID,
			Name:      product.Name,
			Minimum:   product.EffectiveMinOrderQuantity(),
		}
	}

	if product.Seller == principal.ID {
		return nil, ErrSelfPurchase
	}

	cart, err := a.Get(ctx, principal.ID)
	if err != nil {
		return nil, err
	}

	merged := false
	for i := range cart.Items {
		if cart.Items[i].Product == productID {
			cart.Items[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		cart.Items = append(cart.Items, models.CartItem{Product: productID, Quantity: quantity})
	}

	if err := a.store.SaveCart(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// RemoveItem drops the line for productID. Removing an absent item is a
// no-op, not an error.
func (a *Aggregator) RemoveItem(ctx context.Context, userID, productID primitive.ObjectID) (*models.Cart, error) {
	cart, err := a.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	kept := cart.Items[:0]
	for _, item := range cart.Items {
		if item.Product != productID {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(cart.Items) {
		return cart, nil
	}
	cart.Items = kept

	if err := a.store.SaveCart(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// ReplaceItems swaps the whole line list, last write wins. Each item is
// validated against its product's minimum order quantity; items whose
// product no longer resolves are accepted as-is and drop out of totals
// later.
func (a *Aggregator) ReplaceItems(ctx context.Context, userID primitive.ObjectID, items []models.CartItem) (*models.Cart, error) {
	for _, item := range items {
		product, err := a.store.GetProduct(ctx, item.Product)
		if err == store.ErrNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		if item.Quantity < product.EffectiveMinOrderQuantity() {
			return nil, BelowMinimumOrderError{
				ProductID: product.ID,
				Name:      product.Name,
				Minimum:   product.EffectiveMinOrderQuantity(),
			}
		}
	}

	cart, err := a.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if items == nil {
		items = []models.CartItem{}
	}
	cart.Items = items

	if err := a.store.SaveCart(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Quote prices the cart with current product prices. Items referencing
// deleted products are silently excluded from the totals.
func (a *Aggregator) Quote(ctx context.Context, userID primitive.ObjectID, fulfillmentMethod string) (Totals, error) {
	cart, err := a.Get(ctx, userID)
	if err != nil {
		return Totals{}, err
	}

	lines := make([]TotalLine, 0, len(cart.Items))
	for _, item := range cart.Items {
		product, err := a.store.GetProduct(ctx, item.Product)
		if err == store.ErrNotFound {
			continue
		}
		if err != nil {
			return Totals{}, err
		}
		lines = append(lines, TotalLine{UnitPrice: product.Price, Quantity: item.Quantity})
	}

	return ComputeTotals(lines, fulfillmentMethod), nil
}
