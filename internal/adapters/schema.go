package adapters

import (
	"strings"

	"docref/internal/ports"
	"docref/internal/types"
)

// SchemaAdapter exposes one collection's declared schema to the engine.
type SchemaAdapter struct {
	schema types.CollectionSchema
}

func NewSchemaAdapter(schema types.CollectionSchema) SchemaAdapter {
	return SchemaAdapter{schema: schema}
}

func (a SchemaAdapter) PathInfo(name string) (types.PathInfo, bool) {
	def, ok := a.schema.Fields[name]
	if !ok {
		return types.PathInfo{}, false
	}
	return types.PathInfo{
		Ref:     def.Ref,
		IsArray: def.Array || strings.EqualFold(def.Type, "array"),
	}, true
}

func (a SchemaAdapter) VirtualInfo(name string) (types.VirtualInfo, bool) {
	def, ok := a.schema.Virtuals[name]
	if !ok {
		return types.VirtualInfo{}, false
	}
	info := types.VirtualInfo{
		Ref:          def.Ref,
		LocalField:   def.LocalField,
		ForeignField: def.ForeignField,
		JustOne:      def.JustOne,
		Match:        def.Match,
	}
	if info.LocalField == "" {
		info.LocalField = "_id"
	}
	return info, true
}

var _ ports.SchemaPort = SchemaAdapter{}
