// Package policies holds the failure-disposition rules the population
// engine consults. Keeping them out of the core makes the lenient-versus-
// strict behavior a single testable value instead of scattered branches.
package policies

import (
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// PopulationPolicy maps resolution failures to their disposition. A
// path runs strictly when either the call or the request opted in;
// strict failures abort the call, lenient ones skip the path. Fetch
// failures are never escalated here: the fetchers degrade them to zero
// records so one bad reference cannot block an otherwise good read.
type PopulationPolicy struct {
	Strict bool
}

func NewPopulationPolicy(strict bool) PopulationPolicy {
	return PopulationPolicy{Strict: strict}
}

// EffectiveStrict combines the call-level flag with a request-level one.
func (p PopulationPolicy) EffectiveStrict(requestStrict bool) bool {
	return p.Strict || requestStrict
}

// UnresolvedReference returns the error to propagate when a path has no
// reference metadata, or nil when the path is skipped instead.
func (p PopulationPolicy) UnresolvedReference(path string, requestStrict bool) error {
	if !p.EffectiveStrict(requestStrict) {
		return nil
	}
	return errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg(fmt.Sprintf("no reference metadata for path %q", path))
}

// MissingModel returns the error to propagate when a resolved path
// targets an unregistered collection, or nil when the path is skipped.
func (p PopulationPolicy) MissingModel(path string, collection string, requestStrict bool) error {
	if !p.EffectiveStrict(requestStrict) {
		return nil
	}
	return errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg(fmt.Sprintf("no model registered for collection %q", collection))
}
