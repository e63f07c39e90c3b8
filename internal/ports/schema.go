package ports

import "docref/internal/types"

// SchemaPort exposes the reference metadata of one collection. The
// population engine consults it to classify each requested path.
type SchemaPort interface {
	// PathInfo reports the direct-reference metadata of a schema path.
	// ok is false when the schema does not declare the path.
	PathInfo(name string) (types.PathInfo, bool)

	// VirtualInfo reports the reverse-join metadata of a virtual name.
	// ok is false when no virtual is registered under name.
	VirtualInfo(name string) (types.VirtualInfo, bool)
}
