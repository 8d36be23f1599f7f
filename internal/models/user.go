package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles a user account can hold. Retailers and wholesalers are both sellers;
// a retailer may additionally buy from wholesalers.
const (
	RoleCustomer   = "customer"
	RoleRetailer   = "retailer"
	RoleWholesaler = "wholesaler"
)

// Coordinates is a geographic point used for proximity queries.
type Coordinates struct {
	Lat float64 `bson:"lat" json:"lat"`
	Lng float64 `bson:"lng" json:"lng"`
}

// ShopLocation is the seller's address, geocoded at registration time.
// Coordinates stay nil when geocoding found no match; such sellers are
// excluded from geo-filtered results.
type ShopLocation struct {
	Address     string       `bson:"address" json:"address"`
	City        string       `bson:"city" json:"city"`
	State       string       `bson:"state" json:"state"`
	ZipCode     string       `bson:"zipCode" json:"zipCode"`
	Coordinates *Coordinates `bson:"coordinates,omitempty" json:"coordinates,omitempty"`
}

// User represents any account: customer, retailer or wholesaler.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	Phone        string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Role         string             `bson:"role" json:"role"`
	BusinessName string             `bson:"businessName,omitempty" json:"businessName,omitempty"`
	Location     *ShopLocation      `bson:"location,omitempty" json:"location,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// IsSeller reports whether the account may list products.
func (u User) IsSeller() bool {
	return u.Role == RoleRetailer || u.Role == RoleWholesaler
}

// Principal is the authenticated identity handed to core operations. It is
// built by the auth middleware; core packages never look it up themselves.
type Principal struct {
	ID   primitive.ObjectID
	Role string
}
