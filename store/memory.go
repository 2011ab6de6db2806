package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/gearhub/gearhub-backend/models"
)

// In-memory store implementations. They mirror the Mongo implementations'
// observable behavior, including the unique constraints created by
// database.EnsureIndexes, and are what the service tests run against.

type MemoryCategoryStore struct {
	mu    sync.Mutex
	items []models.Category
}

func NewMemoryCategoryStore() *MemoryCategoryStore {
	return &MemoryCategoryStore{items: make([]models.Category, 0)}
}

func sameParent(a, b *bson.ObjectID) bool {
	aRoot := a == nil || a.IsZero()
	bRoot := b == nil || b.IsZero()
	if aRoot || bRoot {
		return aRoot == bRoot
	}
	return *a == *b
}

func (s *MemoryCategoryStore) Insert(_ context.Context, cat *models.Category) (bson.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.items {
		if existing.Name == cat.Name && sameParent(existing.ParentId, cat.ParentId) {
			return bson.NilObjectID, ErrDuplicate
		}
	}

	stored := *cat
	if stored.Id.IsZero() {
		stored.Id = bson.NewObjectID()
	}
	s.items = append(s.items, stored)
	return stored.Id, nil
}

func (s *MemoryCategoryStore) FindByID(_ context.Context, id bson.ObjectID) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].Id == id {
			cat := s.items[i]
			return &cat, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryCategoryStore) FindAll(_ context.Context) ([]models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Category, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *MemoryCategoryStore) FindByNameAndParent(_ context.Context, name string, parentID *bson.ObjectID) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].Name == name && sameParent(s.items[i].ParentId, parentID) {
			cat := s.items[i]
			return &cat, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryCategoryStore) FindByText(_ context.Context, query string) ([]models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := strings.ToLower(query)
	out := make([]models.Category, 0)
	for _, cat := range s.items {
		if strings.Contains(strings.ToLower(cat.Name), q) || strings.Contains(strings.ToLower(cat.Description), q) {
			out = append(out, cat)
		}
	}
	return out, nil
}

func (s *MemoryCategoryStore) FindByIDs(_ context.Context, ids []bson.ObjectID) ([]models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wanted := make(map[bson.ObjectID]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	out := make([]models.Category, 0, len(ids))
	for _, cat := range s.items {
		if _, ok := wanted[cat.Id]; ok {
			out = append(out, cat)
		}
	}
	return out, nil
}

func (s *MemoryCategoryStore) Replace(_ context.Context, cat *models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].Id == cat.Id {
			for j := range s.items {
				if j != i && s.items[j].Name == cat.Name && sameParent(s.items[j].ParentId, cat.ParentId) {
					return ErrDuplicate
				}
			}
			s.items[i] = *cat
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryCategoryStore) PushSubcategory(_ context.Context, parentID, childID bson.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].Id == parentID {
			s.items[i].SubcategoryIds = append(s.items[i].SubcategoryIds, childID)
			return nil
		}
	}
	return nil
}

func (s *MemoryCategoryStore) CountChildren(_ context.Context, parentID bson.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for _, cat := range s.items {
		if cat.ParentId != nil && *cat.ParentId == parentID {
			n++
		}
	}
	return n, nil
}

func (s *MemoryCategoryStore) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.items)), nil
}

func (s *MemoryCategoryStore) Delete(_ context.Context, id bson.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].Id == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

type MemoryProductStore struct {
	mu    sync.Mutex
	items []models.Product
}

func NewMemoryProductStore() *MemoryProductStore {
	return &MemoryProductStore{items: make([]models.Product, 0)}
}

func (s *MemoryProductStore) Insert(_ context.Context, p *models.Product) (bson.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *p
	if stored.Id.IsZero() {
		stored.Id = bson.NewObjectID()
	}
	s.items = append(s.items, stored)
	return stored.Id, nil
}

func (s *MemoryProductStore) FindByID(_ context.Context, id bson.ObjectID) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].Id == id {
			p := s.items[i]
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryProductStore) FindAll(_ context.Context) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Product, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *MemoryProductStore) FindByText(_ context.Context, query string) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := strings.ToLower(query)
	out := make([]models.Product, 0)
	for _, p := range s.items {
		if strings.Contains(strings.ToLower(p.Title), q) || strings.Contains(strings.ToLower(p.Description), q) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *MemoryProductStore) UpdateFields(_ context.Context, id bson.ObjectID, set bson.M) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].Id != id {
			continue
		}
		p := &s.items[i]
		for key, value := range set {
			switch key {
			case "title":
				p.Title = value.(string)
			case "description":
				p.Description = value.(string)
			case "price":
				p.Price = value.(float64)
			case "category":
				p.CategoryId = value.(bson.ObjectID)
			case "oemNumber":
				p.OemNumber = value.(string)
			case "compatibility":
				p.Compatibility = value.([]models.VehicleCompatibility)
			case "images":
				p.Images = value.([]string)
			case "status":
				p.Status = value.(models.ProductStatus)
			case "updatedAt":
				p.UpdatedAt = value.(time.Time)
			}
		}
		return nil
	}
	return ErrNotFound
}

func (s *MemoryProductStore) Delete(_ context.Context, id bson.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].Id == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

type MemoryUserStore struct {
	mu    sync.Mutex
	items []models.User
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{items: make([]models.User, 0)}
}

func (s *MemoryUserStore) Insert(_ context.Context, u *models.User) (bson.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.items {
		if existing.Email == u.Email {
			return bson.NilObjectID, ErrDuplicate
		}
	}

	stored := *u
	if stored.ID.IsZero() {
		stored.ID = bson.NewObjectID()
	}
	s.items = append(s.items, stored)
	return stored.ID, nil
}

func (s *MemoryUserStore) FindByID(_ context.Context, id bson.ObjectID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id {
			u := s.items[i]
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].Email == email {
			u := s.items[i]
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryUserStore) FindByIDs(_ context.Context, ids []bson.ObjectID) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wanted := make(map[bson.ObjectID]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	out := make([]models.User, 0, len(ids))
	for _, u := range s.items {
		if _, ok := wanted[u.ID]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *MemoryUserStore) UpdatePassword(_ context.Context, id bson.ObjectID, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].PasswordHash = passwordHash
			s.items[i].UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return ErrNotFound
}
