package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Category struct {
	Id          bson.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name        string         `bson:"name" json:"name"`
	Slug        string         `bson:"slug" json:"slug"`
	Description string         `bson:"description" json:"description"`
	ParentId    *bson.ObjectID `bson:"parentId,omitempty" json:"parentId,omitempty"`
	ImageUrl    string         `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`

	// SubcategoryIds is a write-time convenience list appended to when a child
	// is created. The authoritative relation is the ParentId back-reference;
	// tree construction and delete checks never read this field.
	SubcategoryIds []bson.ObjectID `bson:"subcategories,omitempty" json:"subcategories,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
