package document

import "sort"

// MarkPopulated records the raw value a path held before its first
// population. Re-populating an already tracked path keeps the first
// recorded value, so reversal always restores the true original.
func (d *Document) MarkPopulated(path string, original any) {
	if d == nil || path == "" {
		return
	}
	if d.originals == nil {
		d.originals = map[string]any{}
	}
	if _, exists := d.originals[path]; exists {
		return
	}
	d.originals[path] = original
}

// PopulatedOriginal returns the recorded pre-population value for path.
func (d *Document) PopulatedOriginal(path string) (any, bool) {
	if d == nil || d.originals == nil {
		return nil, false
	}
	v, ok := d.originals[path]
	return v, ok
}

// ClearPopulated drops the tracking entry for path.
func (d *Document) ClearPopulated(path string) {
	if d == nil || d.originals == nil {
		return
	}
	delete(d.originals, path)
}

// PopulatedPaths lists every tracked path in sorted order.
func (d *Document) PopulatedPaths() []string {
	if d == nil || len(d.originals) == 0 {
		return nil
	}
	paths := make([]string, 0, len(d.originals))
	for p := range d.originals {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
