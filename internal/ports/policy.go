package ports

// PopulationPolicyPort decides how the engine disposes of resolution
// failures: an error aborts the population call, nil means the affected
// path is skipped and the rest of the call proceeds.
type PopulationPolicyPort interface {
	// UnresolvedReference is consulted when no reference metadata exists
	// for a requested path.
	UnresolvedReference(path string, requestStrict bool) error

	// MissingModel is consulted when the target collection of a resolved
	// path has no registered model.
	MissingModel(path string, collection string, requestStrict bool) error
}
