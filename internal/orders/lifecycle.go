// Package orders owns the order lifecycle: placement with atomic stock
// reservation, the status state machine, and payment reconciliation.
package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"livemart/internal/cart"
	"livemart/internal/models"
	"livemart/internal/notify"
	"livemart/internal/store"
)

// Payment outcomes reported by the gateway collaborator.
const (
	OutcomePaid   = "paid"
	OutcomeFailed = "failed"
)

type Service struct {
	store    store.Store
	notifier notify.Notifier
}

func NewService(st store.Store, notifier notify.Notifier) *Service {
	if notifier == nil {
		notifier = notify.Noop{}
	}
	return &Service{store: st, notifier: notifier}
}

type LineItemInput struct {
	ProductID primitive.ObjectID
	Quantity  int
}

// PlaceOrderInput carries everything needed to commit an order.
// RetailerContext is set when a retailer places the order on behalf of a
// wholesale relationship: the counterpart becomes the order's customer, the
// placing retailer is recorded in Retailer, and the retailer's own cart is
// left untouched.
type PlaceOrderInput struct {
	Items             []LineItemInput
	ShippingAddress   models.ShippingAddress
	PaymentMethod     string
	FulfillmentMethod string
	ScheduledDate     *time.Time
	Notes             string
	RetailerContext   *primitive.ObjectID
}

// PlaceOrder re-validates every line against live product state, snapshots
// prices into immutable line items, and commits the order together with the
// conditional stock decrements in one store transaction. On success the
// placing user's cart is cleared (direct purchases only) and an order
// confirmation is sent fire-and-forget.
func (s *Service) PlaceOrder(ctx context.Context, principal models.Principal, input PlaceOrderInput) (*models.Order, error) {
	if len(input.Items) == 0 {
		return nil, ErrEmptyCart
	}

	items := make([]models.OrderItem, 0, len(input.Items))
	lines := make([]cart.TotalLine, 0, len(input.Items))
	decrements := make([]store.StockDecrement, 0, len(input.Items))

	for _, line := range input.Items {
		product, err := s.store.GetProduct(ctx, line.ProductID)
		if err != nil {
			return nil, fmt.Errorf("product %s: %w", line.ProductID.Hex(), err)
		}

		// Point-in-time check; the conditional decrement below is what
		// actually guards against concurrent oversell.
		if product.Stock < line.Quantity {
			return nil, InsufficientStockError{
				ProductID: product.ID,
				Name:      product.Name,
				Available: product.Stock,
				Requested: line.Quantity,
			}
		}

		items = append(items, models.OrderItem{
			Product:  product.ID,
			Name:     product.Name,
			Quantity: line.Quantity,
			Price:    product.Price,
			Total:    product.Price * float64(line.Quantity),
		})
		lines = append(lines, cart.TotalLine{UnitPrice: product.Price, Quantity: line.Quantity})
		decrements = append(decrements, store.StockDecrement{ProductID: product.ID, Quantity: line.Quantity})
	}

	totals := cart.ComputeTotals(lines, input.FulfillmentMethod)

	paymentMethod := input.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = models.PayCOD
	}
	fulfillmentMethod := input.FulfillmentMethod
	if fulfillmentMethod == "" {
		fulfillmentMethod = models.FulfillDelivery
	}

	customer := principal.ID
	var retailer *primitive.ObjectID
	if input.RetailerContext != nil {
		customer = *input.RetailerContext
		placedBy := principal.ID
		retailer = &placedBy
	}

	now := time.Now()
	order := &models.Order{
		OrderNumber:       GenerateOrderNumber(),
		Customer:          customer,
		Items:             items,
		Subtotal:          totals.Subtotal,
		Tax:               totals.Tax,
		Shipping:          totals.Shipping,
		Total:             totals.Total,
		Status:            models.OrderPending,
		PaymentStatus:     models.PaymentPending,
		PaymentMethod:     paymentMethod,
		FulfillmentMethod: fulfillmentMethod,
		ShippingAddress:   input.ShippingAddress,
		ScheduledDate:     input.ScheduledDate,
		Notes:             input.Notes,
		Retailer:          retailer,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.store.PlaceOrder(ctx, order, decrements); err != nil {
		return nil, err
	}

	if input.RetailerContext == nil {
		if err := s.store.ClearCart(ctx, principal.ID); err != nil {
			log.Warn().Err(err).Str("order", order.OrderNumber).Msg("failed to clear cart after order")
		}
	}

	if contact, err := s.contactFor(ctx, customer); err == nil {
		if err := s.notifier.SendOrderConfirmation(ctx, contact, order.OrderNumber, order.Items); err != nil {
			log.Warn().Err(err).Str("order", order.OrderNumber).Msg("order confirmation notification failed")
		}
	}

	log.Info().Str("order", order.OrderNumber).Str("customer", customer.Hex()).Msg("order placed")
	return order, nil
}

type UpdateStatusInput struct {
	Status         string
	TrackingNumber string
	DeliveryDate   *time.Time
}

// UpdateStatus advances the state machine. Only a seller of at least one
// line item may update an order. Transitioning to delivered while payment is
// still pending marks the order paid: for cash and offline orders, delivery
// is the proof of settlement.
func (s *Service) UpdateStatus(ctx context.Context, principal models.Principal, orderID primitive.ObjectID, input UpdateStatusInput) (*models.Order, error) {
	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	owns, err := s.IsOwnerOfAnyLineItem(ctx, principal.ID, order)
	if err != nil {
		return nil, err
	}
	if !owns {
		return nil, ErrForbidden
	}

	delivered := false
	if input.Status != "" && input.Status != order.Status {
		if !CanTransition(order.Status, input.Status) {
			return nil, InvalidTransitionError{From: order.Status, To: input.Status}
		}
		order.Status = input.Status

		if input.Status == models.OrderDelivered {
			delivered = true
			if order.PaymentStatus == models.PaymentPending {
				order.PaymentStatus = models.PaymentPaid
			}
		}
	}

	if input.TrackingNumber != "" {
		order.TrackingNumber = input.TrackingNumber
	}
	if input.DeliveryDate != nil {
		order.DeliveryDate = input.DeliveryDate
	}
	order.UpdatedAt = time.Now()

	if err := s.store.UpdateOrder(ctx, order); err != nil {
		return nil, err
	}

	if delivered {
		if contact, err := s.contactFor(ctx, order.Customer); err == nil {
			if err := s.notifier.SendDeliveryNotification(ctx, contact, order.OrderNumber, order.TrackingNumber); err != nil {
				log.Warn().Err(err).Str("order", order.OrderNumber).Msg("delivery notification failed")
			}
		}
	}

	return order, nil
}

// MarkPaymentResult records the gateway's verdict. A successful payment
// against a still-pending order confirms it.
func (s *Service) MarkPaymentResult(ctx context.Context, orderID primitive.ObjectID, outcome, externalPaymentID string) (*models.Order, error) {
	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	switch outcome {
	case OutcomePaid:
		order.PaymentStatus = models.PaymentPaid
		order.PaymentID = externalPaymentID
		if order.Status == models.OrderPending {
			order.Status = models.OrderConfirmed
		}
	case OutcomeFailed:
		order.PaymentStatus = models.PaymentFailed
		order.PaymentID = externalPaymentID
	default:
		return nil, fmt.Errorf("unknown payment outcome %q", outcome)
	}
	order.UpdatedAt = time.Now()

	if err := s.store.UpdateOrder(ctx, order); err != nil {
		return nil, err
	}

	log.Info().Str("order", order.OrderNumber).Str("outcome", outcome).Msg("payment result recorded")
	return order, nil
}

// GetOrder enforces visibility: the customer, the recorded retailer, or a
// seller of any line item may view an order.
func (s *Service) GetOrder(ctx context.Context, principal models.Principal, orderID primitive.ObjectID) (*models.Order, error) {
	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.Customer == principal.ID {
		return order, nil
	}
	if order.Retailer != nil && *order.Retailer == principal.ID {
		return order, nil
	}

	owns, err := s.IsOwnerOfAnyLineItem(ctx, principal.ID, order)
	if err != nil {
		return nil, err
	}
	if !owns {
		return nil, ErrForbidden
	}
	return order, nil
}

// ListOrders returns the orders visible to the principal, role dependent:
// customers see their own purchases; retailers additionally see orders they
// placed with wholesalers and orders containing their products; wholesalers
// see retailer orders and orders containing their products.
func (s *Service) ListOrders(ctx context.Context, principal models.Principal) ([]models.Order, error) {
	id := principal.ID
	q := store.OrderQuery{}

	switch principal.Role {
	case models.RoleRetailer:
		q.Customer = &id
		q.Retailer = &id
	case models.RoleWholesaler:
		q.Retailer = &id
	default:
		q.Customer = &id
	}

	if principal.Role == models.RoleRetailer || principal.Role == models.RoleWholesaler {
		ids, err := s.sellerProductIDs(ctx, id)
		if err != nil {
			return nil, err
		}
		q.SellerProducts = ids
	}

	return s.store.ListOrders(ctx, q)
}

// IsOwnerOfAnyLineItem is the single ownership capability used everywhere a
// seller-side permission check is needed. Ownership is per line item, not
// per order: an order may span products from several sellers.
func (s *Service) IsOwnerOfAnyLineItem(ctx context.Context, actorID primitive.ObjectID, order *models.Order) (bool, error) {
	ids := make([]primitive.ObjectID, 0, len(order.Items))
	for _, item := range order.Items {
		ids = append(ids, item.Product)
	}

	products, err := s.store.ListProductsByIDs(ctx, ids)
	if err != nil {
		return false, err
	}

	for _, product := range products {
		if product.Seller == actorID {
			return true, nil
		}
	}
	return false, nil
}

func (s *Service) sellerProductIDs(ctx context.Context, sellerID primitive.ObjectID) ([]primitive.ObjectID, error) {
	products, err := s.store.ListProducts(ctx, store.ProductQuery{Seller: &sellerID})
	if err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(products))
	for _, product := range products {
		ids = append(ids, product.ID)
	}
	return ids, nil
}

func (s *Service) contactFor(ctx context.Context, userID primitive.ObjectID) (notify.Contact, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Warn().Err(err).Str("user", userID.Hex()).Msg("failed to resolve notification contact")
		}
		return notify.Contact{}, err
	}
	return notify.Contact{Name: user.Name, Email: user.Email, Phone: user.Phone}, nil
}
