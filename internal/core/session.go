package core

import (
	"docref/internal/document"
	"docref/internal/policies"
	"docref/internal/ports"
)

// session is the state shared by every nested population below a single
// Populate call: the fetch cache, the reentrancy guard, the failure
// policy and the root document set kept for diagnostics. Sessions live
// for exactly one call; sharing one is what lets sibling paths reuse
// records fetched for the same target collection.
type session struct {
	cache  *fetchCache
	guard  *circularGuard
	policy ports.PopulationPolicyPort
	roots  []*document.Document
}

func newSession(roots []*document.Document, opts Options) *session {
	return &session{
		cache:  newFetchCache(),
		guard:  newCircularGuard(),
		policy: policies.NewPopulationPolicy(opts.Strict),
		roots:  roots,
	}
}
