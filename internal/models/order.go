package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order statuses. Delivered and cancelled are terminal.
const (
	OrderPending    = "pending"
	OrderConfirmed  = "confirmed"
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)

// Payment statuses.
const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentFailed   = "failed"
	PaymentRefunded = "refunded"
)

// Payment methods.
const (
	PayOnline  = "online"
	PayOffline = "offline"
	PayCOD     = "cod"
)

// Fulfillment methods. Pickup orders ship for free.
const (
	FulfillDelivery = "delivery"
	FulfillPickup   = "pickup"
)

// OrderItem is an immutable snapshot of a product at order time. Later price
// or name changes on the product never affect placed orders.
type OrderItem struct {
	Product  primitive.ObjectID `bson:"product" json:"product"`
	Name     string             `bson:"name" json:"name"`
	Quantity int                `bson:"quantity" json:"quantity"`
	Price    float64            `bson:"price" json:"price"`
	Total    float64            `bson:"total" json:"total"`
}

// ShippingAddress is copied into the order at creation.
type ShippingAddress struct {
	Address string `bson:"address" json:"address"`
	City    string `bson:"city" json:"city"`
	State   string `bson:"state" json:"state"`
	ZipCode string `bson:"zipCode" json:"zipCode"`
	Phone   string `bson:"phone" json:"phone"`
}

// Order defines the persisted order document. Totals are computed once at
// creation; only status, payment state, tracking and dates mutate afterwards.
type Order struct {
	ID                primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	OrderNumber       string              `bson:"orderNumber" json:"orderNumber"`
	Customer          primitive.ObjectID  `bson:"customer" json:"customer"`
	Items             []OrderItem         `bson:"items" json:"items"`
	Subtotal          float64             `bson:"subtotal" json:"subtotal"`
	Tax               float64             `bson:"tax" json:"tax"`
	Shipping          float64             `bson:"shipping" json:"shipping"`
	Total             float64             `bson:"total" json:"total"`
	Status            string              `bson:"status" json:"status"`
	PaymentStatus     string              `bson:"paymentStatus" json:"paymentStatus"`
	PaymentMethod     string              `bson:"paymentMethod" json:"paymentMethod"`
	FulfillmentMethod string              `bson:"fulfillmentMethod" json:"fulfillmentMethod"`
	PaymentID         string              `bson:"paymentId,omitempty" json:"paymentId,omitempty"`
	ShippingAddress   ShippingAddress     `bson:"shippingAddress" json:"shippingAddress"`
	DeliveryDate      *time.Time          `bson:"deliveryDate,omitempty" json:"deliveryDate,omitempty"`
	ScheduledDate     *time.Time          `bson:"scheduledDate,omitempty" json:"scheduledDate,omitempty"`
	TrackingNumber    string              `bson:"trackingNumber,omitempty" json:"trackingNumber,omitempty"`
	Notes             string              `bson:"notes,omitempty" json:"notes,omitempty"`
	Retailer          *primitive.ObjectID `bson:"retailer,omitempty" json:"retailer,omitempty"`
	CreatedAt         time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// IsTerminalStatus reports whether no further status transitions are allowed.
func IsTerminalStatus(status string) bool {
	return status == OrderDelivered || status == OrderCancelled
}
