package core

import (
	"docref/internal/ports"
	"docref/internal/types"
)

// resolveReference classifies one population request against the owning
// collection's schema. Resolution order, first match wins:
//
//  1. explicit localField+foreignField on the request forces a virtual
//     join using those fields verbatim
//  2. a registered virtual under the path name
//  3. direct path metadata carrying a reference
//
// Anything else is unresolved. A model override on the request replaces
// the target collection in every case.
func resolveReference(req types.PopulationRequest, schema ports.SchemaPort) types.ReferenceDescriptor {
	desc := types.ReferenceDescriptor{Path: req.Path, Kind: types.RefKindUnresolved}

	if req.LocalField != "" && req.ForeignField != "" {
		desc.Kind = types.RefKindVirtual
		desc.Collection = req.Model
		desc.LocalField = req.LocalField
		desc.ForeignField = req.ForeignField
		if req.JustOne != nil {
			desc.JustOne = *req.JustOne
		}
		return desc
	}

	if schema == nil {
		return desc
	}

	if v, ok := schema.VirtualInfo(req.Path); ok && v.ForeignField != "" {
		desc.Kind = types.RefKindVirtual
		desc.Collection = v.Ref
		if req.Model != "" {
			desc.Collection = req.Model
		}
		desc.LocalField = v.LocalField
		if desc.LocalField == "" {
			desc.LocalField = "_id"
		}
		desc.ForeignField = v.ForeignField
		desc.JustOne = v.JustOne
		if req.JustOne != nil {
			desc.JustOne = *req.JustOne
		}
		desc.MatchFilter = v.Match
		return desc
	}

	if p, ok := schema.PathInfo(req.Path); ok && p.Ref != "" {
		desc.Kind = types.RefKindDirect
		desc.Collection = p.Ref
		if req.Model != "" {
			desc.Collection = req.Model
		}
		desc.IsArray = p.IsArray
		desc.LocalField = req.Path
		desc.ForeignField = "_id"
		return desc
	}

	return desc
}
