package ports

import "docref/internal/types"

type RequestSourcePort interface {
	Load(path string) ([]types.PopulationRequest, error)
}
