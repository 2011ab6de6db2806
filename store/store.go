// Package store abstracts persistence for the catalog. Services depend on
// these interfaces only; Mongo-backed implementations live in mongo.go and
// in-memory implementations used by tests in memory.go.
package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/gearhub/gearhub-backend/models"
)

var (
	ErrNotFound  = errors.New("store: not found")
	ErrDuplicate = errors.New("store: duplicate key")
)

type CategoryStore interface {
	Insert(ctx context.Context, cat *models.Category) (bson.ObjectID, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*models.Category, error)
	// FindAll returns every category in insertion order.
	FindAll(ctx context.Context) ([]models.Category, error)
	FindByNameAndParent(ctx context.Context, name string, parentID *bson.ObjectID) (*models.Category, error)
	// FindByText matches name or description by case-insensitive substring.
	FindByText(ctx context.Context, query string) ([]models.Category, error)
	FindByIDs(ctx context.Context, ids []bson.ObjectID) ([]models.Category, error)
	Replace(ctx context.Context, cat *models.Category) error
	PushSubcategory(ctx context.Context, parentID, childID bson.ObjectID) error
	CountChildren(ctx context.Context, parentID bson.ObjectID) (int64, error)
	Count(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id bson.ObjectID) error
}

type ProductStore interface {
	Insert(ctx context.Context, p *models.Product) (bson.ObjectID, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*models.Product, error)
	FindAll(ctx context.Context) ([]models.Product, error)
	// FindByText matches title or description by case-insensitive substring.
	FindByText(ctx context.Context, query string) ([]models.Product, error)
	UpdateFields(ctx context.Context, id bson.ObjectID, set bson.M) error
	Delete(ctx context.Context, id bson.ObjectID) error
}

type UserStore interface {
	Insert(ctx context.Context, u *models.User) (bson.ObjectID, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByIDs(ctx context.Context, ids []bson.ObjectID) ([]models.User, error)
	UpdatePassword(ctx context.Context, id bson.ObjectID, passwordHash string) error
}
