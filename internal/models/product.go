package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product statuses. Only active products are visible in the catalog.
const (
	ProductActive     = "active"
	ProductInactive   = "inactive"
	ProductOutOfStock = "out_of_stock"
)

type Product struct {
	ID               primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name             string              `bson:"name" json:"name"`
	Description      string              `bson:"description" json:"description"`
	Category         string              `bson:"category" json:"category"`
	Subcategory      string              `bson:"subcategory,omitempty" json:"subcategory,omitempty"`
	Images           []string            `bson:"images,omitempty" json:"images,omitempty"`
	Price            float64             `bson:"price" json:"price"`
	Stock            int                 `bson:"stock" json:"stock"`
	MinOrderQuantity int                 `bson:"minOrderQuantity" json:"minOrderQuantity"`
	Seller           primitive.ObjectID  `bson:"seller" json:"seller"`
	SellerType       string              `bson:"sellerType" json:"sellerType"`
	IsProxy          bool                `bson:"isProxy" json:"isProxy"`
	ProxySource      *primitive.ObjectID `bson:"proxySource,omitempty" json:"proxySource,omitempty"`
	Status           string              `bson:"status" json:"status"`
	Tags             StringList          `bson:"tags,omitempty" json:"tags,omitempty"`
	CreatedAt        time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// EffectiveMinOrderQuantity treats legacy documents without the field as MOQ 1.
func (p Product) EffectiveMinOrderQuantity() int {
	if p.MinOrderQuantity < 1 {
		return 1
	}
	return p.MinOrderQuantity
}
