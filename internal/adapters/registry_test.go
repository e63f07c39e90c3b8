package adapters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docref/internal/document"
)

func TestModelRegistryLookupAndFind(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.InsertMany(t.Context(), "users", document.FromMaps([]map[string]any{
		{"_id": "u1", "name": "Ann"},
	})))

	registry := NewModelRegistry(baseSchemaFile(), store)

	model, ok := registry.Lookup("users")
	require.True(t, ok)
	assert.Equal(t, "users", model.Name())

	docs, err := model.Find(t.Context(), map[string]any{"_id": "u1"}, nil)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	name, _ := docs[0].Get("name")
	assert.Equal(t, "Ann", name)

	info, ok := model.Schema().PathInfo("avatar")
	require.True(t, ok)
	assert.Equal(t, "media", info.Ref)

	_, ok = registry.Lookup("unknown")
	assert.False(t, ok)
}

func TestModelRegistryCollections(t *testing.T) {
	registry := NewModelRegistry(baseSchemaFile(), NewMemoryStore())
	assert.Equal(t, []string{"media", "posts", "users"}, registry.Collections())
}

func TestModelRegistrySchemaFor(t *testing.T) {
	registry := NewModelRegistry(baseSchemaFile(), NewMemoryStore())

	schema, ok := registry.SchemaFor("users")
	require.True(t, ok)
	virt, ok := schema.VirtualInfo("posts")
	require.True(t, ok)
	assert.Equal(t, "author", virt.ForeignField)

	_, ok = registry.SchemaFor("unknown")
	assert.False(t, ok)
}
