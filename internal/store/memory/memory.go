// Package memory is an in-process Store used by unit tests and dev mode. All
// operations take a single lock, which makes PlaceOrder naturally atomic: the
// conditional stock checks and the order insert happen under one critical
// section, mirroring the transaction the mongodb store uses.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"livemart/internal/models"
	"livemart/internal/store"
)

type Store struct {
	mu       sync.RWMutex
	users    map[primitive.ObjectID]models.User
	products map[primitive.ObjectID]models.Product
	carts    map[primitive.ObjectID]models.Cart
	orders   map[primitive.ObjectID]models.Order
	feedback map[primitive.ObjectID]models.Feedback
	queries  map[primitive.ObjectID]models.Query
}

func New() *Store {
	return &Store{
		users:    map[primitive.ObjectID]models.User{},
		products: map[primitive.ObjectID]models.Product{},
		carts:    map[primitive.ObjectID]models.Cart{},
		orders:   map[primitive.ObjectID]models.Order{},
		feedback: map[primitive.ObjectID]models.Feedback{},
		queries:  map[primitive.ObjectID]models.Query{},
	}
}

/* =========================
   USERS
========================= */

func (s *Store) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(strings.TrimSpace(user.Email))
	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, email) {
			return store.ErrDuplicate
		}
	}

	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.Email = email
	s.users[user.ID] = *user
	return nil
}

func (s *Store) GetUser(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &user, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if strings.EqualFold(user.Email, strings.TrimSpace(email)) {
			u := user
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) ListSellers(_ context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sellers := make([]models.User, 0)
	for _, user := range s.users {
		if user.IsSeller() {
			sellers = append(sellers, user)
		}
	}
	return sellers, nil
}

/* =========================
   PRODUCTS
========================= */

func (s *Store) CreateProduct(_ context.Context, product *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	s.products[product.ID] = cloneProduct(*product)
	return nil
}

func (s *Store) GetProduct(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, ok := s.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	p := cloneProduct(product)
	return &p, nil
}

func (s *Store) ListProducts(_ context.Context, q store.ProductQuery) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]models.Product, 0)
	for _, product := range s.products {
		if q.Status != "" && product.Status != q.Status {
			continue
		}
		if q.Seller != nil && product.Seller != *q.Seller {
			continue
		}
		products = append(products, cloneProduct(product))
	}
	return products, nil
}

func (s *Store) ListProductsByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		if product, ok := s.products[id]; ok {
			products = append(products, cloneProduct(product))
		}
	}
	return products, nil
}

func (s *Store) UpdateProduct(_ context.Context, product *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[product.ID]; !ok {
		return store.ErrNotFound
	}
	s.products[product.ID] = cloneProduct(*product)
	return nil
}

func (s *Store) DeleteProduct(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.products, id)
	return nil
}

/* =========================
   CARTS
========================= */

func (s *Store) GetCart(_ context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cart, ok := s.carts[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	c := cloneCart(cart)
	return &c, nil
}

func (s *Store) SaveCart(_ context.Context, cart *models.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cart.ID.IsZero() {
		cart.ID = primitive.NewObjectID()
	}
	cart.UpdatedAt = time.Now()
	s.carts[cart.User] = cloneCart(*cart)
	return nil
}

func (s *Store) ClearCart(_ context.Context, userID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, ok := s.carts[userID]
	if !ok {
		return nil
	}
	cart.Items = []models.CartItem{}
	cart.UpdatedAt = time.Now()
	s.carts[userID] = cart
	return nil
}

/* =========================
   ORDERS
========================= */

func (s *Store) PlaceOrder(_ context.Context, order *models.Order, decrements []store.StockDecrement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.orders {
		if existing.OrderNumber == order.OrderNumber {
			return store.ErrDuplicate
		}
	}

	// Validate every decrement before applying any, so a failure leaves no
	// partial mutation visible.
	for _, dec := range decrements {
		product, ok := s.products[dec.ProductID]
		if !ok {
			return store.ErrNotFound
		}
		if product.Stock < dec.Quantity {
			return store.ErrInsufficientStock
		}
	}

	for _, dec := range decrements {
		product := s.products[dec.ProductID]
		product.Stock -= dec.Quantity
		s.products[dec.ProductID] = product
	}

	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	s.orders[order.ID] = cloneOrder(*order)
	return nil
}

func (s *Store) GetOrder(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	o := cloneOrder(order)
	return &o, nil
}

func (s *Store) ListOrders(_ context.Context, q store.OrderQuery) ([]models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sellerProducts := map[primitive.ObjectID]struct{}{}
	for _, id := range q.SellerProducts {
		sellerProducts[id] = struct{}{}
	}

	orders := make([]models.Order, 0)
	for _, order := range s.orders {
		if s.orderMatches(order, q, sellerProducts) {
			orders = append(orders, cloneOrder(order))
		}
	}
	return orders, nil
}

func (s *Store) orderMatches(order models.Order, q store.OrderQuery, sellerProducts map[primitive.ObjectID]struct{}) bool {
	if q.Customer == nil && q.Retailer == nil && len(sellerProducts) == 0 {
		return true
	}
	if q.Customer != nil && order.Customer == *q.Customer {
		return true
	}
	if q.Retailer != nil && order.Retailer != nil && *order.Retailer == *q.Retailer {
		return true
	}
	for _, item := range order.Items {
		if _, ok := sellerProducts[item.Product]; ok {
			return true
		}
	}
	return false
}

func (s *Store) UpdateOrder(_ context.Context, order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[order.ID]; !ok {
		return store.ErrNotFound
	}
	order.UpdatedAt = time.Now()
	s.orders[order.ID] = cloneOrder(*order)
	return nil
}

/* =========================
   FEEDBACK / QUERIES
========================= */

func (s *Store) CreateFeedback(_ context.Context, fb *models.Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if fb.ID.IsZero() {
		fb.ID = primitive.NewObjectID()
	}
	s.feedback[fb.ID] = *fb
	return nil
}

func (s *Store) ListFeedback(_ context.Context, q store.FeedbackQuery) ([]models.Feedback, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]models.Feedback, 0)
	for _, fb := range s.feedback {
		if q.Product != nil && (fb.Product == nil || *fb.Product != *q.Product) {
			continue
		}
		if q.User != nil && fb.User != *q.User {
			continue
		}
		if q.Status != "" && fb.Status != q.Status {
			continue
		}
		items = append(items, fb)
	}
	return items, nil
}

func (s *Store) CreateQuery(_ context.Context, query *models.Query) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if query.ID.IsZero() {
		query.ID = primitive.NewObjectID()
	}
	s.queries[query.ID] = cloneQuery(*query)
	return nil
}

func (s *Store) GetQuery(_ context.Context, id primitive.ObjectID) (*models.Query, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query, ok := s.queries[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	q := cloneQuery(query)
	return &q, nil
}

func (s *Store) ListQueries(_ context.Context, userID *primitive.ObjectID) ([]models.Query, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	queries := make([]models.Query, 0)
	for _, query := range s.queries {
		if userID != nil && query.User != *userID {
			continue
		}
		queries = append(queries, cloneQuery(query))
	}
	return queries, nil
}

func (s *Store) UpdateQuery(_ context.Context, query *models.Query) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.queries[query.ID]; !ok {
		return store.ErrNotFound
	}
	query.UpdatedAt = time.Now()
	s.queries[query.ID] = cloneQuery(*query)
	return nil
}

/* =========================
   CLONE HELPERS
========================= */

func cloneProduct(p models.Product) models.Product {
	p.Images = append([]string(nil), p.Images...)
	p.Tags = append(models.StringList(nil), p.Tags...)
	return p
}

func cloneCart(c models.Cart) models.Cart {
	c.Items = append([]models.CartItem(nil), c.Items...)
	return c
}

func cloneOrder(o models.Order) models.Order {
	o.Items = append([]models.OrderItem(nil), o.Items...)
	return o
}

func cloneQuery(q models.Query) models.Query {
	q.Responses = append([]models.QueryResponse(nil), q.Responses...)
	return q
}
