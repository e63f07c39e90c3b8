package ports

import (
	"context"

	"docref/internal/types"
)

type SchemaSourcePort interface {
	Load(path string) (types.SchemaFile, error)
	Validate(ctx context.Context, file types.SchemaFile) error
}
