package store

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/gearhub/gearhub-backend/models"
)

type MongoCategoryStore struct {
	col *mongo.Collection
}

func NewMongoCategoryStore(col *mongo.Collection) *MongoCategoryStore {
	return &MongoCategoryStore{col: col}
}

func (s *MongoCategoryStore) Insert(ctx context.Context, cat *models.Category) (bson.ObjectID, error) {
	res, err := s.col.InsertOne(ctx, cat)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return bson.NilObjectID, ErrDuplicate
		}
		return bson.NilObjectID, err
	}
	id, _ := res.InsertedID.(bson.ObjectID)
	return id, nil
}

func (s *MongoCategoryStore) FindByID(ctx context.Context, id bson.ObjectID) (*models.Category, error) {
	var cat models.Category
	if err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&cat); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &cat, nil
}

func (s *MongoCategoryStore) FindAll(ctx context.Context) ([]models.Category, error) {
	cursor, err := s.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]models.Category, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *MongoCategoryStore) FindByNameAndParent(ctx context.Context, name string, parentID *bson.ObjectID) (*models.Category, error) {
	filter := bson.M{"name": name}
	if parentID == nil {
		// a null query also matches documents with no parentId field
		filter["parentId"] = nil
	} else {
		filter["parentId"] = *parentID
	}

	var cat models.Category
	if err := s.col.FindOne(ctx, filter).Decode(&cat); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &cat, nil
}

func (s *MongoCategoryStore) FindByText(ctx context.Context, query string) ([]models.Category, error) {
	// QuoteMeta keeps regex metacharacters in user input from changing the
	// substring-match semantics.
	pattern := regexp.QuoteMeta(query)
	filter := bson.M{"$or": []bson.M{
		{"name": bson.M{"$regex": pattern, "$options": "i"}},
		{"description": bson.M{"$regex": pattern, "$options": "i"}},
	}}

	cursor, err := s.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]models.Category, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *MongoCategoryStore) FindByIDs(ctx context.Context, ids []bson.ObjectID) ([]models.Category, error) {
	if len(ids) == 0 {
		return []models.Category{}, nil
	}
	cursor, err := s.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]models.Category, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *MongoCategoryStore) Replace(ctx context.Context, cat *models.Category) error {
	res, err := s.col.ReplaceOne(ctx, bson.M{"_id": cat.Id}, cat)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoCategoryStore) PushSubcategory(ctx context.Context, parentID, childID bson.ObjectID) error {
	_, err := s.col.UpdateByID(ctx, parentID, bson.M{"$push": bson.M{"subcategories": childID}})
	return err
}

func (s *MongoCategoryStore) CountChildren(ctx context.Context, parentID bson.ObjectID) (int64, error) {
	return s.col.CountDocuments(ctx, bson.M{"parentId": parentID})
}

func (s *MongoCategoryStore) Count(ctx context.Context) (int64, error) {
	return s.col.CountDocuments(ctx, bson.M{})
}

func (s *MongoCategoryStore) Delete(ctx context.Context, id bson.ObjectID) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

type MongoProductStore struct {
	col *mongo.Collection
}

func NewMongoProductStore(col *mongo.Collection) *MongoProductStore {
	return &MongoProductStore{col: col}
}

func (s *MongoProductStore) Insert(ctx context.Context, p *models.Product) (bson.ObjectID, error) {
	res, err := s.col.InsertOne(ctx, p)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return bson.NilObjectID, ErrDuplicate
		}
		return bson.NilObjectID, err
	}
	id, _ := res.InsertedID.(bson.ObjectID)
	return id, nil
}

func (s *MongoProductStore) FindByID(ctx context.Context, id bson.ObjectID) (*models.Product, error) {
	var p models.Product
	if err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *MongoProductStore) FindAll(ctx context.Context) ([]models.Product, error) {
	cursor, err := s.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]models.Product, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *MongoProductStore) FindByText(ctx context.Context, query string) ([]models.Product, error) {
	pattern := regexp.QuoteMeta(query)
	filter := bson.M{"$or": []bson.M{
		{"title": bson.M{"$regex": pattern, "$options": "i"}},
		{"description": bson.M{"$regex": pattern, "$options": "i"}},
	}}

	cursor, err := s.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]models.Product, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *MongoProductStore) UpdateFields(ctx context.Context, id bson.ObjectID, set bson.M) error {
	res, err := s.col.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoProductStore) Delete(ctx context.Context, id bson.ObjectID) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

type MongoUserStore struct {
	col *mongo.Collection
}

func NewMongoUserStore(col *mongo.Collection) *MongoUserStore {
	return &MongoUserStore{col: col}
}

func (s *MongoUserStore) Insert(ctx context.Context, u *models.User) (bson.ObjectID, error) {
	res, err := s.col.InsertOne(ctx, u)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return bson.NilObjectID, ErrDuplicate
		}
		return bson.NilObjectID, err
	}
	id, _ := res.InsertedID.(bson.ObjectID)
	return id, nil
}

func (s *MongoUserStore) FindByID(ctx context.Context, id bson.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *MongoUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.col.FindOne(ctx, bson.M{"email": email}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *MongoUserStore) FindByIDs(ctx context.Context, ids []bson.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	cursor, err := s.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]models.User, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *MongoUserStore) UpdatePassword(ctx context.Context, id bson.ObjectID, passwordHash string) error {
	res, err := s.col.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"passwordHash": passwordHash,
		"updatedAt":    time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
