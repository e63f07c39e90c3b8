package core

// circularGuard is a reentrancy lock per path name. It is deliberately
// coarse: identical path names at different nesting depths share one
// lock, which is what bounds recursion through self-referential schemas.
type circularGuard struct {
	active map[string]struct{}
}

func newCircularGuard() *circularGuard {
	return &circularGuard{active: map[string]struct{}{}}
}

// enter marks path as being resolved. ok is false when the path is
// already active higher up the call chain.
func (g *circularGuard) enter(path string) bool {
	if _, busy := g.active[path]; busy {
		return false
	}
	g.active[path] = struct{}{}
	return true
}

func (g *circularGuard) exit(path string) {
	delete(g.active, path)
}
