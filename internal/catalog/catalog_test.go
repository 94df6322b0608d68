package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minifignet/internal/domain"
)

func baseItems() []domain.Item {
	return []domain.Item{
		{ID: 1, Name: "Red Brick", Type: domain.ItemTypeItem},
		{ID: 2, Name: "Gear", Type: domain.ItemTypeItem},
		{ID: 3, Name: "Builder Badge", Type: domain.ItemTypeBadge},
		{ID: 4, Name: "Thumbs Up Sticker", Type: domain.ItemTypeSticker},
		{ID: 20, Name: "Windmill Blueprint", Type: domain.ItemTypeBlueprint},
		{ID: 21, Name: "Windmill", Type: domain.ItemTypeItem},
	}
}

func TestNewBuildsLookups(t *testing.T) {
	cat, err := New(
		baseItems(),
		[]domain.Blueprint{{
			ItemID:      20,
			BuildItemID: 21,
			Requirements: []domain.BlueprintRequirement{
				{ItemID: 1, Quantity: 4},
				{ItemID: 2, Quantity: 1},
			},
		}},
		[]domain.MessageBody{
			{ID: 1, Subject: "Hello", Text: "Hi!", EasyReplies: []int{2}},
			{ID: 2, Subject: "Thanks", Text: "Thank you!"},
		},
		[]domain.StartingStack{{ItemID: 1, Quantity: 5}},
	)
	require.NoError(t, err)

	item, ok := cat.Item(1)
	require.True(t, ok)
	assert.Equal(t, "Red Brick", item.Name)

	bp, ok := cat.Blueprint(20)
	require.True(t, ok)
	assert.Equal(t, 21, bp.BuildItemID)
	assert.Len(t, bp.Requirements, 2)

	body, ok := cat.MessageBody(1)
	require.True(t, ok)
	assert.True(t, body.HasEasyReply(2))
	assert.False(t, body.HasEasyReply(1))

	_, ok = cat.Item(99)
	assert.False(t, ok)

	assert.Equal(t, 6, cat.ItemCount())
	assert.Len(t, cat.StartingStacks(), 1)
}

func TestNewRejectsBadItems(t *testing.T) {
	tests := []struct {
		name  string
		items []domain.Item
	}{
		{
			name:  "non-positive id",
			items: []domain.Item{{ID: 0, Name: "Ghost", Type: domain.ItemTypeItem}},
		},
		{
			name:  "unknown type",
			items: []domain.Item{{ID: 1, Name: "Ghost", Type: "POTION"}},
		},
		{
			name: "duplicate id",
			items: []domain.Item{
				{ID: 1, Name: "Red Brick", Type: domain.ItemTypeItem},
				{ID: 1, Name: "Blue Brick", Type: domain.ItemTypeItem},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.items, nil, nil, nil)
			assert.Error(t, err)
		})
	}
}

func TestNewRejectsBadBlueprints(t *testing.T) {
	tests := []struct {
		name string
		bp   domain.Blueprint
	}{
		{
			name: "unknown blueprint item",
			bp:   domain.Blueprint{ItemID: 99, BuildItemID: 21},
		},
		{
			name: "blueprint item is not a blueprint",
			bp:   domain.Blueprint{ItemID: 1, BuildItemID: 21},
		},
		{
			name: "builds unknown item",
			bp:   domain.Blueprint{ItemID: 20, BuildItemID: 99},
		},
		{
			name: "builds a sticker",
			bp:   domain.Blueprint{ItemID: 20, BuildItemID: 4},
		},
		{
			name: "builds another blueprint",
			bp:   domain.Blueprint{ItemID: 20, BuildItemID: 20},
		},
		{
			name: "requires unknown item",
			bp: domain.Blueprint{ItemID: 20, BuildItemID: 21,
				Requirements: []domain.BlueprintRequirement{{ItemID: 99, Quantity: 1}}},
		},
		{
			name: "requires a sticker",
			bp: domain.Blueprint{ItemID: 20, BuildItemID: 21,
				Requirements: []domain.BlueprintRequirement{{ItemID: 4, Quantity: 1}}},
		},
		{
			name: "non-positive requirement quantity",
			bp: domain.Blueprint{ItemID: 20, BuildItemID: 21,
				Requirements: []domain.BlueprintRequirement{{ItemID: 1, Quantity: 0}}},
		},
		{
			name: "duplicate requirement item",
			bp: domain.Blueprint{ItemID: 20, BuildItemID: 21,
				Requirements: []domain.BlueprintRequirement{
					{ItemID: 1, Quantity: 1},
					{ItemID: 1, Quantity: 2},
				}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(baseItems(), []domain.Blueprint{tt.bp}, nil, nil)
			assert.Error(t, err)
		})
	}
}

func TestNewAllowsBadgeRequirement(t *testing.T) {
	_, err := New(baseItems(), []domain.Blueprint{{
		ItemID:      20,
		BuildItemID: 21,
		Requirements: []domain.BlueprintRequirement{
			{ItemID: 3, Quantity: 1},
		},
	}}, nil, nil)
	assert.NoError(t, err)
}

func TestNewRejectsBadBodies(t *testing.T) {
	tests := []struct {
		name   string
		bodies []domain.MessageBody
	}{
		{
			name:   "non-positive id",
			bodies: []domain.MessageBody{{ID: 0, Subject: "x", Text: "y"}},
		},
		{
			name: "duplicate id",
			bodies: []domain.MessageBody{
				{ID: 1, Subject: "a", Text: "b"},
				{ID: 1, Subject: "c", Text: "d"},
			},
		},
		{
			name:   "unknown easy reply",
			bodies: []domain.MessageBody{{ID: 1, Subject: "a", Text: "b", EasyReplies: []int{99}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(nil, nil, tt.bodies, nil)
			assert.Error(t, err)
		})
	}
}

func TestNewRejectsBadStartingStacks(t *testing.T) {
	_, err := New(baseItems(), nil, nil, []domain.StartingStack{{ItemID: 99, Quantity: 1}})
	assert.Error(t, err)

	_, err = New(baseItems(), nil, nil, []domain.StartingStack{{ItemID: 1, Quantity: 0}})
	assert.Error(t, err)
}

func writeCatalogDir(t *testing.T, items, blueprints, bodies string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "schemas"), 0755))

	files := map[string]string{
		ItemsFile:         items,
		BlueprintsFile:    blueprints,
		MessageBodiesFile: bodies,
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
		// Permissive schemas; Load level tests exercise plumbing, New
		// level tests cover the constraints.
		schema := `{"$schema": "https://json-schema.org/draft/2020-12/schema", "type": "object"}`
		require.NoError(t, os.WriteFile(filepath.Join(dir, "schemas", schemaName(name)), []byte(schema), 0644))
	}
	return dir
}

func TestLoadReadsAllFiles(t *testing.T) {
	dir := writeCatalogDir(t,
		`{"version": "1.0", "items": [
			{"item_id": 1, "name": "Red Brick", "type": "ITEM"},
			{"item_id": 20, "name": "Windmill Blueprint", "type": "BLUEPRINT"},
			{"item_id": 21, "name": "Windmill", "type": "ITEM"}
		], "starting_stacks": [{"item_id": 1, "quantity": 5}]}`,
		`{"version": "1.0", "blueprints": [
			{"item_id": 20, "build_item_id": 21, "requirements": [{"item_id": 1, "quantity": 4}]}
		]}`,
		`{"version": "1.0", "bodies": [
			{"body_id": 1, "subject": "Hello", "text": "Hi!", "easy_replies": [2]},
			{"body_id": 2, "subject": "Thanks", "text": "Thank you!"}
		]}`,
	)

	cat, err := NewLoader().Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 3, cat.ItemCount())
	_, ok := cat.Blueprint(20)
	assert.True(t, ok)
	body, ok := cat.MessageBody(1)
	require.True(t, ok)
	assert.True(t, body.HasEasyReply(2))
	assert.Len(t, cat.StartingStacks(), 1)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	dir := writeCatalogDir(t,
		`{"version": "1.0", "items": [], "extra_field": true}`,
		`{"version": "1.0", "blueprints": []}`,
		`{"version": "1.0", "bodies": []}`,
	)

	_, err := NewLoader().Load(dir)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	dir := writeCatalogDir(t,
		`{"version": "1.0", "items": []}`,
		`{"version": "1.0", "blueprints": []}`,
		`{"version": "1.0", "bodies": []}`,
	)
	require.NoError(t, os.Remove(filepath.Join(dir, BlueprintsFile)))

	_, err := NewLoader().Load(dir)
	assert.Error(t, err)
}

func TestLoadSchemaViolation(t *testing.T) {
	dir := writeCatalogDir(t,
		`{"version": "1.0", "items": []}`,
		`{"version": "1.0", "blueprints": []}`,
		`{"version": "1.0", "bodies": []}`,
	)
	strict := `{"$schema": "https://json-schema.org/draft/2020-12/schema", "type": "object", "required": ["version", "items", "never_present"]}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "schemas", schemaName(ItemsFile)), []byte(strict), 0644))

	_, err := NewLoader().Load(dir)
	assert.Error(t, err)
}

func TestShippedCatalogLoads(t *testing.T) {
	cat, err := NewLoader().Load(filepath.Join("..", "..", "configs", "catalog"))
	require.NoError(t, err)
	assert.Greater(t, cat.ItemCount(), 0)
	assert.NotEmpty(t, cat.StartingStacks())
}
