package core

import "docref/internal/document"

// Depopulate restores path on doc to its pre-population raw value and
// drops the tracking entry. Paths without an entry are left untouched,
// which makes depopulating a virtual path a no-op: virtuals never
// overwrite a stored value. No store access happens here.
func Depopulate(doc *document.Document, path string) {
	if doc == nil {
		return
	}
	orig, ok := doc.PopulatedOriginal(path)
	if !ok {
		return
	}
	doc.Set(path, orig)
	doc.ClearPopulated(path)
}

// DepopulateAll restores every tracked path on doc.
func DepopulateAll(doc *document.Document) {
	if doc == nil {
		return
	}
	for _, path := range doc.PopulatedPaths() {
		Depopulate(doc, path)
	}
}

// DepopulateMany restores path on every document in docs.
func DepopulateMany(docs []*document.Document, path string) {
	for _, doc := range docs {
		Depopulate(doc, path)
	}
}

// IsPopulated reports whether path currently holds populated documents.
// The tracking map decides whenever an entry exists; only untracked
// paths fall back to inspecting the current value for materialized
// documents.
func IsPopulated(doc *document.Document, path string) bool {
	if doc == nil {
		return false
	}
	if _, ok := doc.PopulatedOriginal(path); ok {
		return true
	}
	v, ok := doc.Get(path)
	if !ok {
		return false
	}
	return looksPopulated(v)
}

func looksPopulated(v any) bool {
	switch val := v.(type) {
	case *document.Document:
		return true
	case []*document.Document:
		return len(val) > 0
	case []any:
		for _, e := range val {
			if _, ok := e.(*document.Document); ok {
				return true
			}
		}
	}
	return false
}
