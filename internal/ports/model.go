package ports

import (
	"context"

	"docref/internal/document"
)

// ModelPort is one registered collection: its name, its schema and a
// filtered read operation. Find returns matching documents with the
// projection applied; implementations must hand out copies the caller
// may mutate freely.
type ModelPort interface {
	Name() string
	Schema() SchemaPort
	Find(ctx context.Context, filter map[string]any, projection map[string]int) ([]*document.Document, error)
}

// ModelRegistryPort resolves a collection name to its model. Registries
// are plain values handed to the engine, never process-wide state, so
// independent engines can run against independent registries.
type ModelRegistryPort interface {
	// Lookup returns the model registered under collection, ok=false when
	// none is.
	Lookup(collection string) (ModelPort, bool)

	// Collections lists the registered collection names in sorted order.
	Collections() []string
}
