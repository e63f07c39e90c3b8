package adapters

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"docref/internal/document"
	"docref/internal/ports"
	"docref/internal/shared"
)

// MemoryStore keeps every collection in process memory. Documents are
// cloned on the way in and out, so callers never share state with the
// store. Insertion order is preserved per collection, which keeps query
// results deterministic.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string][]*document.Document
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: map[string][]*document.Document{}}
}

// InsertMany stores clones of docs. A document without an _id is
// assigned a generated one, visible to the caller, the way a database
// driver would.
func (s *MemoryStore) InsertMany(ctx context.Context, collection string, docs []*document.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		if _, ok := document.CanonicalID(doc.ID()); !ok {
			doc.Set("_id", uuid.NewString())
		}
		s.collections[collection] = append(s.collections[collection], doc.Clone())
	}
	return nil
}

func (s *MemoryStore) Find(ctx context.Context, collection string, filter map[string]any, projection map[string]int) ([]*document.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*document.Document{}
	for _, doc := range s.collections[collection] {
		if MatchesFilter(doc, filter) {
			out = append(out, ApplyProjection(doc, projection))
		}
	}
	return out, nil
}

func (s *MemoryStore) Collections(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return shared.SortedKeys(s.collections), nil
}

func (s *MemoryStore) Count(ctx context.Context, collection string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.collections[collection]), nil
}

func (s *MemoryStore) Close() error {
	return nil
}

var _ ports.DocumentStorePort = (*MemoryStore)(nil)
