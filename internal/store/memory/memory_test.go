package memory

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"livemart/internal/models"
	"livemart/internal/store"
)

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	st := New()

	first := models.User{Name: "A", Email: "shop@example.com", Role: models.RoleRetailer}
	if err := st.CreateUser(context.Background(), &first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second := models.User{Name: "B", Email: "Shop@Example.com", Role: models.RoleCustomer}
	if err := st.CreateUser(context.Background(), &second); err != store.ErrDuplicate {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestPlaceOrderIsAllOrNothing(t *testing.T) {
	st := New()

	full := models.Product{Name: "full", Price: 10, Stock: 5, Status: models.ProductActive}
	empty := models.Product{Name: "empty", Price: 10, Stock: 1, Status: models.ProductActive}
	if err := st.CreateProduct(context.Background(), &full); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := st.CreateProduct(context.Background(), &empty); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	order := models.Order{OrderNumber: "ORD-1", Customer: primitive.NewObjectID()}
	err := st.PlaceOrder(context.Background(), &order, []store.StockDecrement{
		{ProductID: full.ID, Quantity: 2},
		{ProductID: empty.ID, Quantity: 3},
	})
	if err != store.ErrInsufficientStock {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	// The passing line must not have been decremented.
	kept, err := st.GetProduct(context.Background(), full.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if kept.Stock != 5 {
		t.Fatalf("expected stock 5, got %d", kept.Stock)
	}

	if _, err := st.GetOrder(context.Background(), order.ID); err != store.ErrNotFound {
		t.Fatalf("expected order not to be persisted, got %v", err)
	}
}

func TestPlaceOrderRejectsDuplicateOrderNumber(t *testing.T) {
	st := New()

	first := models.Order{OrderNumber: "ORD-42", Customer: primitive.NewObjectID()}
	if err := st.PlaceOrder(context.Background(), &first, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second := models.Order{OrderNumber: "ORD-42", Customer: primitive.NewObjectID()}
	if err := st.PlaceOrder(context.Background(), &second, nil); err != store.ErrDuplicate {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestClearCartKeepsDocument(t *testing.T) {
	st := New()
	user := primitive.NewObjectID()

	cart := models.Cart{User: user, Items: []models.CartItem{{Product: primitive.NewObjectID(), Quantity: 2}}}
	if err := st.SaveCart(context.Background(), &cart); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := st.ClearCart(context.Background(), user); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	current, err := st.GetCart(context.Background(), user)
	if err != nil {
		t.Fatalf("expected cart to survive clearing, got %v", err)
	}
	if len(current.Items) != 0 {
		t.Fatalf("expected empty cart, got %d items", len(current.Items))
	}
}
