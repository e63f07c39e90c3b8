package app

import (
	"time"

	"docref/internal/adapters"
	"docref/internal/ports"
)

type Service struct {
	SchemaSource  ports.SchemaSourcePort
	RequestSource ports.RequestSourcePort
	Clock         func() time.Time
}

func NewService() Service {
	return Service{
		SchemaSource:  adapters.NewSchemaFileAdapter(),
		RequestSource: adapters.NewRequestFileAdapter(),
		Clock:         time.Now,
	}
}
