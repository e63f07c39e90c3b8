package types

import "docref/internal/document"

// Transform rewrites a fetched document before it is assigned to the
// parent path. Returning an error aborts the population call.
type Transform func(doc *document.Document) (any, error)

// PopulationRequest is the normalized form every accepted path spec is
// reduced to. Only Path is mandatory.
type PopulationRequest struct {
	// Path is the document path to populate, dot notation allowed.
	Path string `json:"path" yaml:"path"`

	// Select limits the fields fetched for the referenced documents.
	// Mongoose-style strings are accepted: "title -body".
	Select string `json:"select,omitempty" yaml:"select,omitempty"`

	// Match is an extra filter merged into the fetch query.
	Match map[string]any `json:"match,omitempty" yaml:"match,omitempty"`

	// Model overrides the target collection derived from the schema.
	Model string `json:"model,omitempty" yaml:"model,omitempty"`

	// Nested populates paths on the referenced documents themselves.
	Nested []PopulationRequest `json:"populate,omitempty" yaml:"populate,omitempty"`

	// JustOne overrides the cardinality of a virtual join. Nil keeps the
	// cardinality the virtual definition declares.
	JustOne *bool `json:"justOne,omitempty" yaml:"justOne,omitempty"`

	// LocalField and ForeignField force a virtual join regardless of what
	// the schema declares for Path.
	LocalField   string `json:"localField,omitempty" yaml:"localField,omitempty"`
	ForeignField string `json:"foreignField,omitempty" yaml:"foreignField,omitempty"`

	// PerDocumentLimit caps how many joined documents each parent keeps.
	// Zero means unlimited.
	PerDocumentLimit int `json:"perDocumentLimit,omitempty" yaml:"perDocumentLimit,omitempty"`

	// Transform rewrites each fetched document before assignment. Not
	// representable in request files, only settable from Go.
	Transform Transform `json:"-" yaml:"-"`

	// Strict surfaces unresolved paths and missing models as errors for
	// this request even when the call itself is lenient.
	Strict bool `json:"strict,omitempty" yaml:"strict,omitempty"`

	// Skip disables the request without removing it from the file it
	// came from.
	Skip bool `json:"skip,omitempty" yaml:"skip,omitempty"`
}
