package ports

import "context"

type DatasetPort interface {
	Load(ctx context.Context, store DocumentStorePort) (map[string]int, error)
}
