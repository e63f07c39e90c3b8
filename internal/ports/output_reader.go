package ports

import "docref/internal/document"

type OutputReaderPort interface {
	ReadDocuments(path string) ([]*document.Document, error)
}
