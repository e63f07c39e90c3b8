package core

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"docref/internal/types"
)

// NormalizePathSpec reduces every accepted path spec shape to a flat list
// of population requests. Accepted shapes: a path name, a space-separated
// path list, a PopulationRequest, or a slice mixing any of these. Empty
// tokens and requests without a path are dropped; nil yields an empty
// list. Nested requests stay attached to their parent, they are expanded
// during recursion, not here.
func NormalizePathSpec(spec any) ([]types.PopulationRequest, error) {
	switch v := spec.(type) {
	case nil:
		return nil, nil
	case string:
		return requestsFromString(v), nil
	case types.PopulationRequest:
		if strings.TrimSpace(v.Path) == "" {
			return nil, nil
		}
		return []types.PopulationRequest{v}, nil
	case *types.PopulationRequest:
		if v == nil {
			return nil, nil
		}
		return NormalizePathSpec(*v)
	case []string:
		var out []types.PopulationRequest
		for _, s := range v {
			out = append(out, requestsFromString(s)...)
		}
		return out, nil
	case []types.PopulationRequest:
		out := make([]types.PopulationRequest, 0, len(v))
		for _, r := range v {
			if strings.TrimSpace(r.Path) == "" {
				continue
			}
			out = append(out, r)
		}
		return out, nil
	case []any:
		var out []types.PopulationRequest
		for _, e := range v {
			sub, err := NormalizePathSpec(e)
			if err != nil {
				return nil, err
			}
			out = append(out, sub...)
		}
		return out, nil
	default:
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unsupported path spec type %T", spec))
	}
}

func requestsFromString(s string) []types.PopulationRequest {
	var out []types.PopulationRequest
	for _, tok := range strings.Fields(s) {
		out = append(out, types.PopulationRequest{Path: tok})
	}
	return out
}
