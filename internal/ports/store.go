package ports

import (
	"context"

	"docref/internal/document"
)

// DocumentStorePort is the persistence backend documents are read from.
// Filters are mongo-shaped maps; see the adapters package for the
// supported operator subset. Find must return copies so callers can
// mutate results without corrupting the store.
type DocumentStorePort interface {
	Find(ctx context.Context, collection string, filter map[string]any, projection map[string]int) ([]*document.Document, error)
	InsertMany(ctx context.Context, collection string, docs []*document.Document) error
	Collections(ctx context.Context) ([]string, error)
	Count(ctx context.Context, collection string) (int, error)
	Close() error
}
