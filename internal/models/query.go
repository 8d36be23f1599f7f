package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Support query statuses.
const (
	QueryOpen       = "open"
	QueryInProgress = "in_progress"
	QueryResolved   = "resolved"
	QueryClosed     = "closed"
)

type QueryResponse struct {
	ID        string             `bson:"id" json:"id"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	Message   string             `bson:"message" json:"message"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// Query is a customer support thread, optionally tied to an order or product.
type Query struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	User      primitive.ObjectID  `bson:"user" json:"user"`
	Order     *primitive.ObjectID `bson:"order,omitempty" json:"order,omitempty"`
	Product   *primitive.ObjectID `bson:"product,omitempty" json:"product,omitempty"`
	Subject   string              `bson:"subject" json:"subject"`
	Message   string              `bson:"message" json:"message"`
	Status    string              `bson:"status" json:"status"`
	Responses []QueryResponse     `bson:"responses" json:"responses"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time           `bson:"updatedAt" json:"updatedAt"`
}
