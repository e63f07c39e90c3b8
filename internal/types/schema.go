package types

// FieldDef declares a single schema path of a collection. Only the
// properties the population engine consults are modeled; anything else a
// schema language would carry (validators, defaults) is out of scope.
type FieldDef struct {
	// Type is the declared value type: "objectid", "string", "number",
	// "bool", "array", "object". Informational except for "array".
	Type string `yaml:"type,omitempty" json:"type,omitempty"`

	// Ref names the collection this path references. A non-empty Ref
	// makes the path a direct reference.
	Ref string `yaml:"ref,omitempty" json:"ref,omitempty"`

	// Array marks the path as holding an array of values. Combined with
	// Ref it declares an array of ids.
	Array bool `yaml:"array,omitempty" json:"array,omitempty"`
}

// VirtualDef declares a reverse join: documents in Ref whose ForeignField
// matches this document's LocalField.
type VirtualDef struct {
	// Ref is the collection the virtual pulls documents from.
	Ref string `yaml:"ref" json:"ref"`

	// LocalField is the path on this document holding the join value.
	// Defaults to "_id".
	LocalField string `yaml:"localField,omitempty" json:"localField,omitempty"`

	// ForeignField is the path on the referenced documents compared
	// against LocalField.
	ForeignField string `yaml:"foreignField" json:"foreignField"`

	// JustOne assigns a single document instead of an array.
	JustOne bool `yaml:"justOne,omitempty" json:"justOne,omitempty"`

	// Match is an extra filter applied to the join query.
	Match map[string]any `yaml:"match,omitempty" json:"match,omitempty"`
}

// CollectionSchema is the population-relevant schema of one collection:
// its declared paths and virtuals.
type CollectionSchema struct {
	// Fields maps path names (dot notation allowed) to their definitions.
	Fields map[string]FieldDef `yaml:"fields,omitempty" json:"fields,omitempty"`

	// Virtuals maps virtual names to reverse-join definitions.
	Virtuals map[string]VirtualDef `yaml:"virtuals,omitempty" json:"virtuals,omitempty"`
}

// SchemaFile is the top-level structure of a schema.yaml file. It declares
// every collection of a dataset so references can be resolved across them.
type SchemaFile struct {
	// SchemaVersion identifies the file format version.
	SchemaVersion string `yaml:"schema_version"`

	// Collections maps collection names to their schemas.
	Collections map[string]CollectionSchema `yaml:"collections"`
}

// PathInfo is the resolver's view of a direct schema path.
type PathInfo struct {
	// Ref is the referenced collection, empty for plain paths.
	Ref string

	// IsArray is set when the path holds an array of values.
	IsArray bool
}

// VirtualInfo is the resolver's view of a virtual definition, with the
// localField default already applied.
type VirtualInfo struct {
	Ref          string
	LocalField   string
	ForeignField string
	JustOne      bool
	Match        map[string]any
}
