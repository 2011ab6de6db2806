package services

import (
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/gearhub/gearhub-backend/models"
)

// CategoryNode is a category with its children nested underneath. The outer
// Subcategories field shadows the embedded denormalized id list in JSON, so
// callers only ever see the recursively built children.
type CategoryNode struct {
	models.Category
	Subcategories []*CategoryNode `json:"subcategories"`
}

// BuildTree turns a flat category slice into a forest rooted at parentID
// (nil for root). The hierarchy is derived solely from each record's ParentId
// back-reference; the denormalized child-id list is ignored. Sibling order
// follows input order, and records whose parent is absent from the input are
// omitted.
//
// Each recursion level re-scans the full slice, which is quadratic in the
// number of categories. Catalogs are expected in the low thousands, so this
// is fast enough; a parent-to-children index can replace it without changing
// the contract.
func BuildTree(records []models.Category, parentID *bson.ObjectID) []*CategoryNode {
	target := parentKey(parentID)
	nodes := make([]*CategoryNode, 0)
	for _, rec := range records {
		if parentKey(rec.ParentId) != target {
			continue
		}
		id := rec.Id
		nodes = append(nodes, &CategoryNode{
			Category:      rec,
			Subcategories: BuildTree(records, &id),
		})
	}
	return nodes
}

// parentKey normalizes an id reference for comparison: nil and the zero
// ObjectID both mean "root".
func parentKey(id *bson.ObjectID) string {
	if id == nil || id.IsZero() {
		return ""
	}
	return id.Hex()
}
