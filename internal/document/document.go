// Package document provides the schemaless record type the population
// engine reads and writes. Fields are addressed by dot path; populated
// paths keep their original raw value so the operation can be reversed.
package document

import (
	"strings"

	"github.com/ohler55/ojg/oj"
)

// Document is a single record with dot-addressable fields. Construct with
// New, FromMap or FromJSON; the zero value is not usable.
type Document struct {
	data      map[string]any
	originals map[string]any
}

// New returns an empty document.
func New() *Document {
	return &Document{data: map[string]any{}}
}

// FromMap wraps m without copying it. Mutations through the document are
// visible in m and vice versa; use Clone for an independent copy.
func FromMap(m map[string]any) *Document {
	if m == nil {
		m = map[string]any{}
	}
	return &Document{data: m}
}

// FromMaps wraps each map in ms.
func FromMaps(ms []map[string]any) []*Document {
	docs := make([]*Document, 0, len(ms))
	for _, m := range ms {
		docs = append(docs, FromMap(m))
	}
	return docs
}

// FromJSON parses a JSON object into a document.
func FromJSON(s string) (*Document, error) {
	v, err := oj.ParseString(s)
	if err != nil {
		return nil, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		m = map[string]any{}
	}
	return FromMap(m), nil
}

// ID returns the _id field, nil when absent.
func (d *Document) ID() any {
	if d == nil {
		return nil
	}
	return d.data["_id"]
}

// Map returns the underlying field map. Mutations are visible to the
// document.
func (d *Document) Map() map[string]any {
	if d == nil {
		return nil
	}
	return d.data
}

// Get reads the value at a dot path. The walk descends plain objects and
// populated sub-documents; any other intermediate value, including an
// array, ends the walk with ok=false.
func (d *Document) Get(path string) (any, bool) {
	if d == nil || path == "" {
		return nil, false
	}
	var cur any = d.data
	for _, part := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]any:
			v, ok := node[part]
			if !ok {
				return nil, false
			}
			cur = v
		case *Document:
			v, ok := node.data[part]
			if !ok {
				return nil, false
			}
			cur = v
		default:
			return nil, false
		}
	}
	return cur, true
}

// Has reports whether path resolves to a value.
func (d *Document) Has(path string) bool {
	_, ok := d.Get(path)
	return ok
}

// Set writes v at a dot path. Missing intermediate segments are created
// as empty objects; an intermediate that is neither an object nor a
// sub-document is replaced by one.
func (d *Document) Set(path string, v any) {
	if d == nil || path == "" {
		return
	}
	parts := strings.Split(path, ".")
	node := d.data
	for _, part := range parts[:len(parts)-1] {
		switch child := node[part].(type) {
		case map[string]any:
			node = child
		case *Document:
			node = child.data
		default:
			next := map[string]any{}
			node[part] = next
			node = next
		}
	}
	node[parts[len(parts)-1]] = v
}

// Unset removes the value at a dot path. Missing segments are a no-op.
func (d *Document) Unset(path string) {
	if d == nil || path == "" {
		return
	}
	parts := strings.Split(path, ".")
	node := d.data
	for _, part := range parts[:len(parts)-1] {
		switch child := node[part].(type) {
		case map[string]any:
			node = child
		case *Document:
			node = child.data
		default:
			return
		}
	}
	delete(node, parts[len(parts)-1])
}

// Clone returns a deep copy of the document, including its population
// tracking. Populated sub-documents are cloned recursively.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := &Document{data: cloneMap(d.data)}
	if d.originals != nil {
		out.originals = make(map[string]any, len(d.originals))
		for k, v := range d.originals {
			out.originals[k] = cloneValue(v)
		}
	}
	return out
}

// Plain returns the document as nested plain maps, with populated
// sub-documents flattened back into maps. The result shares nothing with
// the document and is safe to serialize.
func (d *Document) Plain() map[string]any {
	if d == nil {
		return nil
	}
	return plainMap(d.data)
}

// MarshalJSON encodes the document as a plain JSON object.
func (d *Document) MarshalJSON() ([]byte, error) {
	return oj.Marshal(d.Plain())
}

// CloneValue deep-copies a field value: objects, arrays and
// sub-documents are copied recursively, scalars pass through.
func CloneValue(v any) any {
	return cloneValue(v)
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return cloneMap(val)
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = cloneValue(e)
		}
		return out
	case *Document:
		return val.Clone()
	default:
		return v
	}
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func plainValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return plainMap(val)
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = plainValue(e)
		}
		return out
	case *Document:
		return val.Plain()
	default:
		return v
	}
}

func plainMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = plainValue(v)
	}
	return out
}
