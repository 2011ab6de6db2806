package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type ProductStatus string

const (
	ProductStatusPending  ProductStatus = "pending"
	ProductStatusApproved ProductStatus = "approved"
	ProductStatusRejected ProductStatus = "rejected"
)

func (s ProductStatus) Valid() bool {
	switch s {
	case ProductStatusPending, ProductStatusApproved, ProductStatusRejected:
		return true
	}
	return false
}

type VehicleCompatibility struct {
	Make  string `bson:"make" json:"make"`
	Model string `bson:"model" json:"model"`
	Year  int    `bson:"year" json:"year"`
}

type Product struct {
	Id            bson.ObjectID          `bson:"_id,omitempty" json:"id"`
	Title         string                 `bson:"title" json:"title"`
	Description   string                 `bson:"description" json:"description"`
	Price         float64                `bson:"price" json:"price"`
	CategoryId    bson.ObjectID          `bson:"category" json:"category"`
	OemNumber     string                 `bson:"oemNumber" json:"oemNumber"`
	Compatibility []VehicleCompatibility `bson:"compatibility" json:"compatibility"`
	Images        []string               `bson:"images" json:"images"`
	SellerId      bson.ObjectID          `bson:"seller" json:"-"` // never expose
	Status        ProductStatus          `bson:"status" json:"status"`
	CreatedAt     time.Time              `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time              `bson:"updatedAt" json:"updatedAt"`
}
