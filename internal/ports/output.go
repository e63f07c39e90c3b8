package ports

import (
	"docref/internal/document"
	"docref/internal/types"
)

type OutputPort interface {
	WriteDocuments(name string, docs []*document.Document, format types.OutputFormat) (string, error)
}
