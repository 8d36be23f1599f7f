package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Feedback types and moderation statuses.
const (
	FeedbackProduct = "product"
	FeedbackService = "service"
	FeedbackGeneral = "general"

	FeedbackPending  = "pending"
	FeedbackApproved = "approved"
	FeedbackRejected = "rejected"
)

type Feedback struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	User      primitive.ObjectID  `bson:"user" json:"user"`
	Product   *primitive.ObjectID `bson:"product,omitempty" json:"product,omitempty"`
	Order     *primitive.ObjectID `bson:"order,omitempty" json:"order,omitempty"`
	Type      string              `bson:"type" json:"type"`
	Rating    int                 `bson:"rating" json:"rating"`
	Comment   string              `bson:"comment" json:"comment"`
	Status    string              `bson:"status" json:"status"`
	Response  string              `bson:"response,omitempty" json:"response,omitempty"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time           `bson:"updatedAt" json:"updatedAt"`
}
