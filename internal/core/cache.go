package core

import "docref/internal/document"

// fetchCache is the call-scoped record store. Records are keyed by
// canonical id string per target collection. attempted remembers every id
// already sent to the store, hits and misses alike, so no id is queried
// twice within one population call.
type fetchCache struct {
	records   map[string]map[string]*document.Document
	attempted map[string]map[string]struct{}
}

func newFetchCache() *fetchCache {
	return &fetchCache{
		records:   map[string]map[string]*document.Document{},
		attempted: map[string]map[string]struct{}{},
	}
}

func (c *fetchCache) get(collection, id string) (*document.Document, bool) {
	rec, ok := c.records[collection][id]
	return rec, ok
}

func (c *fetchCache) put(collection, id string, rec *document.Document) {
	bucket := c.records[collection]
	if bucket == nil {
		bucket = map[string]*document.Document{}
		c.records[collection] = bucket
	}
	bucket[id] = rec
}

// uncached returns the subset of ids neither cached nor previously
// attempted, preserving input order.
func (c *fetchCache) uncached(collection string, ids []string) []string {
	var out []string
	for _, id := range ids {
		if _, ok := c.records[collection][id]; ok {
			continue
		}
		if _, ok := c.attempted[collection][id]; ok {
			continue
		}
		out = append(out, id)
	}
	return out
}

func (c *fetchCache) markAttempted(collection string, ids []string) {
	bucket := c.attempted[collection]
	if bucket == nil {
		bucket = map[string]struct{}{}
		c.attempted[collection] = bucket
	}
	for _, id := range ids {
		bucket[id] = struct{}{}
	}
}
