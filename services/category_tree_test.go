package services

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/gearhub/gearhub-backend/models"
)

func makeCategory(name string, parent *bson.ObjectID) models.Category {
	return models.Category{
		Id:          bson.NewObjectID(),
		Name:        name,
		Description: name + " parts",
		ParentId:    parent,
	}
}

func countNodes(nodes []*CategoryNode) int {
	n := 0
	for _, node := range nodes {
		n += 1 + countNodes(node.Subcategories)
	}
	return n
}

func TestBuildTree(t *testing.T) {
	t.Run("empty_input", func(t *testing.T) {
		tree := BuildTree(nil, nil)
		assert.NotNil(t, tree)
		assert.Len(t, tree, 0)
	})

	t.Run("single_root", func(t *testing.T) {
		root := makeCategory("Engine", nil)
		tree := BuildTree([]models.Category{root}, nil)

		require.Len(t, tree, 1)
		assert.Equal(t, root.Id, tree[0].Id)
		assert.Len(t, tree[0].Subcategories, 0)
	})

	t.Run("every_record_appears_once", func(t *testing.T) {
		engine := makeCategory("Engine", nil)
		brakes := makeCategory("Brakes", nil)
		pistons := makeCategory("Pistons", &engine.Id)
		rings := makeCategory("Piston Rings", &pistons.Id)
		pads := makeCategory("Brake Pads", &brakes.Id)
		records := []models.Category{engine, brakes, pistons, rings, pads}

		tree := BuildTree(records, nil)

		assert.Equal(t, len(records), countNodes(tree))
		require.Len(t, tree, 2)
		require.Len(t, tree[0].Subcategories, 1)
		assert.Equal(t, pistons.Id, tree[0].Subcategories[0].Id)
		require.Len(t, tree[0].Subcategories[0].Subcategories, 1)
		assert.Equal(t, rings.Id, tree[0].Subcategories[0].Subcategories[0].Id)
		require.Len(t, tree[1].Subcategories, 1)
		assert.Equal(t, pads.Id, tree[1].Subcategories[0].Id)
	})

	t.Run("children_match_parent_reference", func(t *testing.T) {
		root := makeCategory("Suspension", nil)
		a := makeCategory("Shocks", &root.Id)
		b := makeCategory("Springs", &root.Id)
		other := makeCategory("Exhaust", nil)

		tree := BuildTree([]models.Category{root, a, b, other}, nil)

		require.Len(t, tree, 2)
		require.Len(t, tree[0].Subcategories, 2)
		assert.Equal(t, a.Id, tree[0].Subcategories[0].Id)
		assert.Equal(t, b.Id, tree[0].Subcategories[1].Id)
		assert.Len(t, tree[1].Subcategories, 0)
	})

	t.Run("sibling_order_follows_input", func(t *testing.T) {
		first := makeCategory("Filters", nil)
		second := makeCategory("Belts", nil)
		third := makeCategory("Hoses", nil)

		tree := BuildTree([]models.Category{first, second, third}, nil)

		require.Len(t, tree, 3)
		assert.Equal(t, first.Id, tree[0].Id)
		assert.Equal(t, second.Id, tree[1].Id)
		assert.Equal(t, third.Id, tree[2].Id)
	})

	t.Run("orphan_silently_omitted", func(t *testing.T) {
		missing := bson.NewObjectID()
		root := makeCategory("Lighting", nil)
		orphan := makeCategory("Headlights", &missing)

		tree := BuildTree([]models.Category{root, orphan}, nil)

		require.Len(t, tree, 1)
		assert.Equal(t, root.Id, tree[0].Id)
		assert.Equal(t, 1, countNodes(tree))
	})

	t.Run("zero_parent_id_is_root", func(t *testing.T) {
		zero := bson.NilObjectID
		cat := makeCategory("Wipers", &zero)

		tree := BuildTree([]models.Category{cat}, nil)

		require.Len(t, tree, 1)
		assert.Equal(t, cat.Id, tree[0].Id)
	})

	t.Run("nested_children_replace_denormalized_ids_in_json", func(t *testing.T) {
		root := makeCategory("Transmission", nil)
		child := makeCategory("Clutches", &root.Id)
		// stale denormalized entry must not leak into the payload
		root.SubcategoryIds = []bson.ObjectID{bson.NewObjectID()}

		tree := BuildTree([]models.Category{root, child}, nil)
		payload, err := json.Marshal(tree)
		require.NoError(t, err)

		var decoded []map[string]any
		require.NoError(t, json.Unmarshal(payload, &decoded))
		require.Len(t, decoded, 1)

		subs, ok := decoded[0]["subcategories"].([]any)
		require.True(t, ok)
		require.Len(t, subs, 1)
		childJSON, ok := subs[0].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, child.Id.Hex(), childJSON["id"])
	})
}
