package adapters

import (
	"context"

	"docref/internal/document"
	"docref/internal/ports"
	"docref/internal/shared"
	"docref/internal/types"
)

// Model binds one collection name to its schema and the backing store.
type Model struct {
	name   string
	schema SchemaAdapter
	store  ports.DocumentStorePort
}

func (m Model) Name() string {
	return m.name
}

func (m Model) Schema() ports.SchemaPort {
	return m.schema
}

func (m Model) Find(ctx context.Context, filter map[string]any, projection map[string]int) ([]*document.Document, error) {
	return m.store.Find(ctx, m.name, filter, projection)
}

// ModelRegistry derives one model per collection declared in a schema
// file, all reading from the same store. It is a plain value; handing
// different registries to different engines keeps them fully isolated.
type ModelRegistry struct {
	models map[string]Model
}

func NewModelRegistry(file types.SchemaFile, store ports.DocumentStorePort) ModelRegistry {
	models := make(map[string]Model, len(file.Collections))
	for name, schema := range file.Collections {
		models[name] = Model{name: name, schema: NewSchemaAdapter(schema), store: store}
	}
	return ModelRegistry{models: models}
}

func (r ModelRegistry) Lookup(collection string) (ports.ModelPort, bool) {
	m, ok := r.models[collection]
	if !ok {
		return nil, false
	}
	return m, true
}

func (r ModelRegistry) Collections() []string {
	return shared.SortedKeys(r.models)
}

// SchemaFor returns the schema of a registered collection, for callers
// that need a root schema to start a population from.
func (r ModelRegistry) SchemaFor(collection string) (ports.SchemaPort, bool) {
	m, ok := r.models[collection]
	if !ok {
		return nil, false
	}
	return m.schema, true
}

var _ ports.ModelRegistryPort = ModelRegistry{}
