package adapters

import (
	"reflect"
	"strings"

	"docref/internal/document"
)

// MatchesFilter evaluates a mongo-shaped filter against a document.
// Top-level keys are ANDed. A condition is either a literal compared for
// loose equality or an operator map supporting $in, $eq, $ne, $gt, $gte,
// $lt, $lte and $exists. When the document value is an array and the
// condition is scalar, any element may satisfy it.
func MatchesFilter(doc *document.Document, filter map[string]any) bool {
	if doc == nil {
		return false
	}
	for key, cond := range filter {
		if !matchesCondition(doc, key, cond) {
			return false
		}
	}
	return true
}

func matchesCondition(doc *document.Document, key string, cond any) bool {
	raw, present := doc.Get(key)
	ops, isOps := operatorMap(cond)
	if !isOps {
		return present && matchesValue(raw, cond)
	}
	for op, arg := range ops {
		switch op {
		case "$in":
			list, ok := arg.([]any)
			if !ok || !present || !matchesAny(raw, list) {
				return false
			}
		case "$eq":
			if !present || !matchesValue(raw, arg) {
				return false
			}
		case "$ne":
			if present && matchesValue(raw, arg) {
				return false
			}
		case "$gt":
			c, ok := compareValues(raw, arg)
			if !present || !ok || c <= 0 {
				return false
			}
		case "$gte":
			c, ok := compareValues(raw, arg)
			if !present || !ok || c < 0 {
				return false
			}
		case "$lt":
			c, ok := compareValues(raw, arg)
			if !present || !ok || c >= 0 {
				return false
			}
		case "$lte":
			c, ok := compareValues(raw, arg)
			if !present || !ok || c > 0 {
				return false
			}
		case "$exists":
			want, _ := arg.(bool)
			if present != want {
				return false
			}
		default:
			// Unknown operators never match; surfacing them as a silent
			// empty result is how the stores behave on malformed filters.
			return false
		}
	}
	return true
}

// operatorMap reports whether cond is an operator document, i.e. a map
// whose keys all start with a dollar sign.
func operatorMap(cond any) (map[string]any, bool) {
	m, ok := cond.(map[string]any)
	if !ok || len(m) == 0 {
		return nil, false
	}
	for k := range m {
		if !strings.HasPrefix(k, "$") {
			return nil, false
		}
	}
	return m, true
}

func matchesAny(raw any, list []any) bool {
	for _, v := range list {
		if matchesValue(raw, v) {
			return true
		}
	}
	return false
}

// matchesValue compares a document value against a literal. Array values
// match when any element does.
func matchesValue(raw, want any) bool {
	if list, ok := raw.([]any); ok {
		if _, wantList := want.([]any); !wantList {
			for _, e := range list {
				if looseEqual(e, want) {
					return true
				}
			}
			return false
		}
	}
	return looseEqual(raw, want)
}

// looseEqual compares across the numeric and id representations the
// decoders produce: JSON int64, YAML int and float64 forms of the same
// number compare equal, and a number against any other type still falls
// through to the canonical-id comparison, so a stored int64 id matches
// its stringified form in an engine-built filter.
func looseEqual(a, b any) bool {
	if af, aok := toFloat64(a); aok {
		if bf, bok := toFloat64(b); bok {
			return af == bf
		}
	}
	ka, aok := document.CanonicalID(a)
	kb, bok := document.CanonicalID(b)
	if aok && bok {
		return ka == kb
	}
	return reflect.DeepEqual(a, b)
}

// compareValues orders two values of the same family: numbers
// numerically, strings lexicographically. ok is false for pairs that
// cannot be ordered; range operators never match those.
func compareValues(a, b any) (int, bool) {
	if af, aok := toFloat64(a); aok {
		bf, bok := toFloat64(b)
		if !bok {
			return 0, false
		}
		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		default:
			return 0, true
		}
	}
	as, aok := a.(string)
	bs, bok := b.(string)
	if aok && bok {
		return strings.Compare(as, bs), true
	}
	return 0, false
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// ApplyProjection returns an independent copy of doc narrowed to the
// projection: inclusion mode keeps the listed paths plus _id unless _id
// is explicitly excluded, exclusion mode drops the listed paths. A nil
// or empty projection copies the whole document.
func ApplyProjection(doc *document.Document, projection map[string]int) *document.Document {
	if len(projection) == 0 {
		return doc.Clone()
	}
	inclusion := false
	for path, mode := range projection {
		if mode == 1 && path != "_id" {
			inclusion = true
			break
		}
	}
	if !inclusion {
		out := doc.Clone()
		for path, mode := range projection {
			if mode == 0 {
				out.Unset(path)
			}
		}
		return out
	}
	out := document.New()
	if mode, ok := projection["_id"]; !ok || mode != 0 {
		if id, ok := doc.Get("_id"); ok {
			out.Set("_id", id)
		}
	}
	for path, mode := range projection {
		if mode != 1 {
			continue
		}
		if v, ok := doc.Get(path); ok {
			out.Set(path, document.CloneValue(v))
		}
	}
	return out
}
