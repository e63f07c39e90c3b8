// Package shared provides common utility functions used across multiple
// packages in the docref codebase.
package shared

import (
	"fmt"
	"sort"
	"strings"
)

// SplitPaths flattens space-separated path lists into single path
// tokens, dropping empty entries. "author reviewers" and the pair
// ["author", "reviewers"] produce the same result.
func SplitPaths(specs []string) []string {
	var out []string
	for _, spec := range specs {
		out = append(out, strings.Fields(spec)...)
	}
	return out
}

// SortedKeys returns the keys of a map sorted by their string form.
func SortedKeys[K comparable, V any](input map[K]V) []K {
	keys := make([]K, 0, len(input))
	for key := range input {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		return fmt.Sprint(keys[i]) < fmt.Sprint(keys[j])
	})
	return keys
}
