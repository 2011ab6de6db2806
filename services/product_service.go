package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/gearhub/gearhub-backend/apperrors"
	"github.com/gearhub/gearhub-backend/dto"
	"github.com/gearhub/gearhub-backend/models"
	"github.com/gearhub/gearhub-backend/store"
)

type ProductService struct {
	products   store.ProductStore
	categories store.CategoryStore
	users      store.UserStore
}

func NewProductService(products store.ProductStore, categories store.CategoryStore, users store.UserStore) *ProductService {
	return &ProductService{products: products, categories: categories, users: users}
}

// Create validates the submission as a whole and reports every invalid field
// in a single ValidationError rather than failing on the first. New products
// always enter the moderation queue as pending.
func (s *ProductService) Create(ctx context.Context, sellerID bson.ObjectID, in dto.CreateProductDTO) (*models.Product, error) {
	fields := make(map[string]string)

	title := strings.TrimSpace(in.Title)
	if len(title) < 5 {
		fields["title"] = "Title is required and must be at least 5 characters"
	}

	description := strings.TrimSpace(in.Description)
	if len(description) < 20 {
		fields["description"] = "Description is required and must be at least 20 characters"
	}

	if in.Price <= 0 {
		fields["price"] = "Price is required and must be greater than zero"
	}

	var categoryID bson.ObjectID
	if strings.TrimSpace(in.Category) == "" {
		fields["category"] = "Category is required"
	} else {
		id, err := bson.ObjectIDFromHex(strings.TrimSpace(in.Category))
		if err != nil {
			fields["category"] = "Category is required"
		} else {
			categoryID = id
		}
	}

	if strings.TrimSpace(in.OemNumber) == "" {
		fields["oem"] = "OEM number is required"
	}

	if len(in.Images) < 3 {
		fields["images"] = "At least 3 images are required"
	}

	if len(in.Compatibility) == 0 {
		fields["compatibility"] = "At least one vehicle compatibility entry is required"
	} else {
		for _, entry := range in.Compatibility {
			if entry.Make == "" || entry.Model == "" || entry.Year == 0 {
				fields["compatibility"] = "All vehicle compatibility fields are required"
				break
			}
		}
	}

	if len(fields) > 0 {
		return nil, &apperrors.ValidationError{Fields: fields}
	}

	now := time.Now().UTC()
	product := &models.Product{
		Title:         title,
		Description:   description,
		Price:         in.Price,
		CategoryId:    categoryID,
		OemNumber:     strings.TrimSpace(in.OemNumber),
		Compatibility: in.Compatibility,
		Images:        in.Images,
		SellerId:      sellerID,
		Status:        models.ProductStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	id, err := s.products.Insert(ctx, product)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	product.Id = id
	return product, nil
}

// List returns the seller-facing projection: title, description, price and
// images with category and seller references expanded.
func (s *ProductService) List(ctx context.Context) ([]dto.ProductView, error) {
	products, err := s.products.FindAll(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.expand(ctx, products, false)
}

// Search matches title or description by case-insensitive substring.
func (s *ProductService) Search(ctx context.Context, query string) ([]dto.ProductView, error) {
	products, err := s.products.FindByText(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.expand(ctx, products, false)
}

// AdminList includes moderation status, OEM number and compatibility on top
// of the seller-facing projection.
func (s *ProductService) AdminList(ctx context.Context) ([]dto.ProductView, error) {
	products, err := s.products.FindAll(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.expand(ctx, products, true)
}

func (s *ProductService) Update(ctx context.Context, id bson.ObjectID, in dto.UpdateProductDTO) (*models.Product, error) {
	set := bson.M{}
	if in.Title != nil {
		set["title"] = *in.Title
	}
	if in.Description != nil {
		set["description"] = *in.Description
	}
	if in.Price != nil {
		set["price"] = *in.Price
	}
	if in.Category != nil {
		categoryID, err := bson.ObjectIDFromHex(*in.Category)
		if err != nil {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid category id")
		}
		set["category"] = categoryID
	}
	if in.OemNumber != nil {
		set["oemNumber"] = *in.OemNumber
	}
	if in.Compatibility != nil {
		set["compatibility"] = *in.Compatibility
	}
	if in.Images != nil {
		set["images"] = *in.Images
	}

	if len(set) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "no updates provided")
	}
	set["updatedAt"] = time.Now().UTC()

	if err := s.products.UpdateFields(ctx, id, set); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return product, nil
}

func (s *ProductService) Delete(ctx context.Context, id bson.ObjectID) error {
	if err := s.products.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.ErrProductNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// UpdateStatus is the moderation transition. Status must be one of pending,
// approved or rejected; route middleware restricts callers to admins.
func (s *ProductService) UpdateStatus(ctx context.Context, id bson.ObjectID, status string) (*models.Product, error) {
	next := models.ProductStatus(status)
	if !next.Valid() {
		return nil, apperrors.ErrInvalidStatus
	}

	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	set := bson.M{"status": next, "updatedAt": time.Now().UTC()}
	if err := s.products.UpdateFields(ctx, id, set); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	product.Status = next
	return product, nil
}

// expand resolves category and seller references into id+name / id+email
// pairs. Missing references are left nil rather than failing the read.
func (s *ProductService) expand(ctx context.Context, products []models.Product, admin bool) ([]dto.ProductView, error) {
	categoryIDs := make([]bson.ObjectID, 0, len(products))
	sellerIDs := make([]bson.ObjectID, 0, len(products))
	seenCat := make(map[bson.ObjectID]struct{})
	seenSeller := make(map[bson.ObjectID]struct{})
	for _, p := range products {
		if !p.CategoryId.IsZero() {
			if _, ok := seenCat[p.CategoryId]; !ok {
				seenCat[p.CategoryId] = struct{}{}
				categoryIDs = append(categoryIDs, p.CategoryId)
			}
		}
		if !p.SellerId.IsZero() {
			if _, ok := seenSeller[p.SellerId]; !ok {
				seenSeller[p.SellerId] = struct{}{}
				sellerIDs = append(sellerIDs, p.SellerId)
			}
		}
	}

	categories, err := s.categories.FindByIDs(ctx, categoryIDs)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	categoryByID := make(map[bson.ObjectID]models.Category, len(categories))
	for _, cat := range categories {
		categoryByID[cat.Id] = cat
	}

	sellers, err := s.users.FindByIDs(ctx, sellerIDs)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	sellerByID := make(map[bson.ObjectID]models.User, len(sellers))
	for _, u := range sellers {
		sellerByID[u.ID] = u
	}

	views := make([]dto.ProductView, 0, len(products))
	for _, p := range products {
		view := dto.ProductView{
			Id:          p.Id,
			Title:       p.Title,
			Description: p.Description,
			Price:       p.Price,
			Images:      p.Images,
		}
		if cat, ok := categoryByID[p.CategoryId]; ok {
			view.Category = &dto.CategoryRef{Id: cat.Id, Name: cat.Name}
		}
		if seller, ok := sellerByID[p.SellerId]; ok {
			view.Seller = &dto.SellerRef{Id: seller.ID, Email: seller.Email}
		}
		if admin {
			view.Status = p.Status
			view.OemNumber = p.OemNumber
			view.Compatibility = p.Compatibility
		}
		views = append(views, view)
	}
	return views, nil
}
