package core

import "strings"

// ParseSelect turns a mongoose-style select string into a projection map:
// "title -body" includes title and excludes body, a leading plus forces
// inclusion. Values are 1 for include and 0 for exclude; stores apply the
// map, treating any included field as switching to inclusion mode. Empty
// input yields a nil projection meaning all fields.
func ParseSelect(sel string) map[string]int {
	fields := strings.Fields(sel)
	if len(fields) == 0 {
		return nil
	}
	proj := make(map[string]int, len(fields))
	for _, f := range fields {
		if name, ok := strings.CutPrefix(f, "-"); ok {
			if name != "" {
				proj[name] = 0
			}
			continue
		}
		if name, ok := strings.CutPrefix(f, "+"); ok {
			if name != "" {
				proj[name] = 1
			}
			continue
		}
		proj[f] = 1
	}
	if len(proj) == 0 {
		return nil
	}
	return proj
}
