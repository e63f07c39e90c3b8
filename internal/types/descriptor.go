package types

// ReferenceDescriptor is the resolved identity of a single population path:
// which collection it points at and how the join is performed.
type ReferenceDescriptor struct {
	// Path is the leaf path name on the parent document.
	Path string

	// Kind distinguishes direct id references from virtual reverse joins.
	// Unresolved descriptors carry no join information.
	Kind RefKind

	// Collection is the target collection the referenced documents live in.
	Collection string

	// IsArray is set for direct references whose schema declares an array
	// of ids rather than a single id.
	IsArray bool

	// LocalField and ForeignField describe a virtual reverse join. For
	// direct references LocalField equals Path and ForeignField is "_id".
	LocalField   string
	ForeignField string

	// JustOne collapses a virtual join to a single document per parent.
	JustOne bool

	// MatchFilter is an extra filter a virtual definition contributes to
	// the join query.
	MatchFilter map[string]any
}

// Unresolved reports whether the descriptor failed to resolve to a target.
func (d ReferenceDescriptor) Unresolved() bool {
	return d.Kind == RefKindUnresolved
}
