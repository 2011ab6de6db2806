package dto

import (
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/gearhub/gearhub-backend/models"
)

// CreateProductDTO carries the raw submission; validation happens in the
// service so every invalid field is reported in one pass.
type CreateProductDTO struct {
	Title         string                        `json:"title"`
	Description   string                        `json:"description"`
	Price         float64                       `json:"price"`
	Category      string                        `json:"category"`
	OemNumber     string                        `json:"oemNumber"`
	Compatibility []models.VehicleCompatibility `json:"compatibility"`
	Images        []string                      `json:"images"`
}

// UpdateProductDTO — all fields optional pointers; status changes go through
// the admin endpoint only.
type UpdateProductDTO struct {
	Title         *string                        `json:"title,omitempty"`
	Description   *string                        `json:"description,omitempty"`
	Price         *float64                       `json:"price,omitempty"`
	Category      *string                        `json:"category,omitempty"`
	OemNumber     *string                        `json:"oemNumber,omitempty"`
	Compatibility *[]models.VehicleCompatibility `json:"compatibility,omitempty"`
	Images        *[]string                      `json:"images,omitempty"`
}

type UpdateProductStatusDTO struct {
	Status string `json:"status"`
}

type CategoryRef struct {
	Id   bson.ObjectID `json:"id"`
	Name string        `json:"name"`
}

type SellerRef struct {
	Id    bson.ObjectID `json:"id"`
	Email string        `json:"email"`
}

// ProductView is the read-side representation with category and seller
// references expanded. The seller's internal id never appears; only the
// expanded id+email pair does.
type ProductView struct {
	Id            bson.ObjectID                 `json:"id"`
	Title         string                        `json:"title"`
	Description   string                        `json:"description"`
	Price         float64                       `json:"price"`
	Images        []string                      `json:"images"`
	Category      *CategoryRef                  `json:"category,omitempty"`
	Seller        *SellerRef                    `json:"seller,omitempty"`
	Status        models.ProductStatus          `json:"status,omitempty"`
	OemNumber     string                        `json:"oemNumber,omitempty"`
	Compatibility []models.VehicleCompatibility `json:"compatibility,omitempty"`
}
