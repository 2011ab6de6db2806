package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/gearhub/gearhub-backend/apperrors"
	"github.com/gearhub/gearhub-backend/dto"
	"github.com/gearhub/gearhub-backend/logger"
	"github.com/gearhub/gearhub-backend/models"
	"github.com/gearhub/gearhub-backend/store"
	"github.com/gearhub/gearhub-backend/utils"
)

// CategoryDetail is the single-category read shape with the parent's name
// resolved, not the full parent object.
type CategoryDetail struct {
	models.Category
	ParentName string `json:"parentName,omitempty"`
}

// SearchResult carries the context tree plus the number of direct text
// matches. Count deliberately excludes ancestors pulled in for context, so a
// caller can tell "how many matched" apart from "how many nodes are shown".
type SearchResult struct {
	Results []*CategoryNode `json:"results"`
	Count   int             `json:"count"`
	Query   string          `json:"query"`
}

type CategoryService struct {
	categories store.CategoryStore
}

func NewCategoryService(categories store.CategoryStore) *CategoryService {
	return &CategoryService{categories: categories}
}

// Tree returns the full catalog as a forest of root categories.
func (s *CategoryService) Tree(ctx context.Context) ([]*CategoryNode, error) {
	records, err := s.categories.FindAll(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return BuildTree(records, nil), nil
}

// Search finds categories whose name or description contains the query
// (case-insensitive) and unions in the direct parent of every match so the
// result tree renders each match in context. Grandparents are not pulled in
// unless they match on their own.
func (s *CategoryService) Search(ctx context.Context, query string) (*SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Search query is required")
	}

	matches, err := s.categories.FindByText(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	matched := make(map[bson.ObjectID]struct{}, len(matches))
	for _, m := range matches {
		matched[m.Id] = struct{}{}
	}

	parentIDs := make([]bson.ObjectID, 0)
	seen := make(map[bson.ObjectID]struct{})
	for _, m := range matches {
		if m.ParentId == nil || m.ParentId.IsZero() {
			continue
		}
		pid := *m.ParentId
		if _, ok := matched[pid]; ok {
			continue
		}
		if _, ok := seen[pid]; ok {
			continue
		}
		seen[pid] = struct{}{}
		parentIDs = append(parentIDs, pid)
	}

	combined := matches
	if len(parentIDs) > 0 {
		parents, err := s.categories.FindByIDs(ctx, parentIDs)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		combined = make([]models.Category, 0, len(matches)+len(parents))
		combined = append(combined, matches...)
		combined = append(combined, parents...)
	}

	return &SearchResult{
		Results: BuildTree(combined, nil),
		Count:   len(matches),
		Query:   query,
	}, nil
}

func (s *CategoryService) Create(ctx context.Context, in dto.CreateCategoryDTO) (*models.Category, error) {
	name := strings.TrimSpace(in.Name)
	description := strings.TrimSpace(in.Description)
	if name == "" || description == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Name and description are required")
	}

	var parentID *bson.ObjectID
	if pidStr := strings.TrimSpace(in.ParentId); pidStr != "" {
		pid, err := bson.ObjectIDFromHex(pidStr)
		if err != nil {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid parent id")
		}
		if _, err := s.categories.FindByID(ctx, pid); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "parent category not found")
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		parentID = &pid
	}

	existing, err := s.categories.FindByNameAndParent(ctx, name, parentID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if existing != nil {
		return nil, apperrors.ErrDuplicateCategory
	}

	now := time.Now().UTC()
	cat := &models.Category{
		Name:        name,
		Slug:        utils.GenerateSlug(name),
		Description: description,
		ParentId:    parentID,
		ImageUrl:    strings.TrimSpace(in.ImageUrl),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	id, err := s.categories.Insert(ctx, cat)
	if err != nil {
		// the unique name+parentId index catches writers that raced past the
		// existence check above
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperrors.ErrDuplicateCategory
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	cat.Id = id

	if parentID != nil {
		// best effort; the tree never reads this list
		if err := s.categories.PushSubcategory(ctx, *parentID, id); err != nil {
			logger.Get().Warnw("append subcategory id", "parent", parentID.Hex(), "error", err)
		}
	}

	return cat, nil
}

func (s *CategoryService) Get(ctx context.Context, id bson.ObjectID) (*CategoryDetail, error) {
	cat, err := s.categories.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	detail := &CategoryDetail{Category: *cat}
	if cat.ParentId != nil && !cat.ParentId.IsZero() {
		if parent, err := s.categories.FindByID(ctx, *cat.ParentId); err == nil {
			detail.ParentName = parent.Name
		}
	}
	return detail, nil
}

func (s *CategoryService) Update(ctx context.Context, id bson.ObjectID, in dto.UpdateCategoryDTO) (*models.Category, error) {
	cat, err := s.categories.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if name := strings.TrimSpace(in.Name); name != "" {
		cat.Name = name
		cat.Slug = utils.GenerateSlug(name)
	}
	if description := strings.TrimSpace(in.Description); description != "" {
		cat.Description = description
	}
	if imageUrl := strings.TrimSpace(in.ImageUrl); imageUrl != "" {
		cat.ImageUrl = imageUrl
	}
	if pidStr := strings.TrimSpace(in.ParentId); pidStr != "" {
		pid, err := bson.ObjectIDFromHex(pidStr)
		if err != nil {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid parent id")
		}
		if err := s.ensureNoCycle(ctx, cat.Id, pid); err != nil {
			return nil, err
		}
		cat.ParentId = &pid
	}

	cat.UpdatedAt = time.Now().UTC()

	if err := s.categories.Replace(ctx, cat); err != nil {
		switch {
		case errors.Is(err, store.ErrDuplicate):
			return nil, apperrors.ErrDuplicateCategory
		case errors.Is(err, store.ErrNotFound):
			return nil, apperrors.ErrCategoryNotFound
		default:
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return cat, nil
}

// ensureNoCycle walks the ancestor chain of the proposed parent and rejects
// the reparent if the node being updated appears in it. Without this a cycled
// subtree would silently vanish from every tree build.
func (s *CategoryService) ensureNoCycle(ctx context.Context, nodeID, parentID bson.ObjectID) error {
	cur := parentID
	visited := make(map[bson.ObjectID]struct{})
	for {
		if cur == nodeID {
			return apperrors.ErrCategoryCycle
		}
		if _, ok := visited[cur]; ok {
			return nil
		}
		visited[cur] = struct{}{}

		parent, err := s.categories.FindByID(ctx, cur)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return apperrors.WithMessage(apperrors.ErrInvalidInput, "parent category not found")
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if parent.ParentId == nil || parent.ParentId.IsZero() {
			return nil
		}
		cur = *parent.ParentId
	}
}

func (s *CategoryService) Delete(ctx context.Context, id bson.ObjectID) error {
	if _, err := s.categories.FindByID(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.ErrCategoryNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	children, err := s.categories.CountChildren(ctx, id)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if children > 0 {
		return apperrors.ErrCategoryHasChildren
	}

	if err := s.categories.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.ErrCategoryNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func (s *CategoryService) Count(ctx context.Context) (int64, error) {
	n, err := s.categories.Count(ctx)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return n, nil
}
