package document

import (
	"fmt"
	"math"
	"strconv"
)

// Hexer is implemented by object-id style values exposing a hex form.
type Hexer interface {
	Hex() string
}

// CanonicalID reduces an id-like value to its canonical string form so
// that differently typed representations of the same id compare equal:
// int 1, int64 1, float64 1 and "1" all canonicalize to "1". A populated
// sub-document stands in for its own _id. ok is false for nil, empty
// strings and unset references.
func CanonicalID(v any) (string, bool) {
	switch id := v.(type) {
	case nil:
		return "", false
	case string:
		if id == "" {
			return "", false
		}
		return id, true
	case *Document:
		return CanonicalID(id.ID())
	case Hexer:
		return id.Hex(), true
	case fmt.Stringer:
		return id.String(), true
	case int:
		return strconv.FormatInt(int64(id), 10), true
	case int8:
		return strconv.FormatInt(int64(id), 10), true
	case int16:
		return strconv.FormatInt(int64(id), 10), true
	case int32:
		return strconv.FormatInt(int64(id), 10), true
	case int64:
		return strconv.FormatInt(id, 10), true
	case uint:
		return strconv.FormatUint(uint64(id), 10), true
	case uint8:
		return strconv.FormatUint(uint64(id), 10), true
	case uint16:
		return strconv.FormatUint(uint64(id), 10), true
	case uint32:
		return strconv.FormatUint(uint64(id), 10), true
	case uint64:
		return strconv.FormatUint(id, 10), true
	case float32:
		return canonicalFloat(float64(id)), true
	case float64:
		return canonicalFloat(id), true
	case bool:
		return strconv.FormatBool(id), true
	default:
		return fmt.Sprintf("%v", id), true
	}
}

// canonicalFloat formats integral floats without a fraction so JSON and
// YAML decoders that disagree on number types still produce the same key.
func canonicalFloat(f float64) string {
	if f == math.Trunc(f) && !math.IsInf(f, 0) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// CanonicalIDs canonicalizes each value in vs, dropping unset ones, and
// returns the distinct keys in first-seen order.
func CanonicalIDs(vs []any) []string {
	seen := make(map[string]struct{}, len(vs))
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		key, ok := CanonicalID(v)
		if !ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}
