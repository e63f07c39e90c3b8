package adapters

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/ohler55/ojg/oj"
	"gopkg.in/yaml.v3"

	"docref/internal/document"
	"docref/internal/ports"
)

// OutputReaderAdapter loads files written by OutputFileAdapter back into
// documents. Verification flows use it to check that written output
// round-trips into the same document set.
type OutputReaderAdapter struct{}

func NewOutputReaderAdapter() OutputReaderAdapter {
	return OutputReaderAdapter{}
}

// ReadDocuments parses a populated output file. The format is taken
// from the file extension: .json bodies are parsed with the JSON codec,
// .yaml and .yml with the YAML one.
func (a OutputReaderAdapter) ReadDocuments(path string) ([]*document.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("output file %s not found", path)).
			WithCause(err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return a.readJSON(path, raw)
	case ".yaml", ".yml":
		return a.readYAML(path, raw)
	default:
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unsupported output extension on %s", path))
	}
}

func (a OutputReaderAdapter) readJSON(path string, raw []byte) ([]*document.Document, error) {
	parsed, err := oj.Parse(raw)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("failed to parse output file %s", path)).
			WithCause(err)
	}
	list, ok := parsed.([]any)
	if !ok {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("output file %s must hold a document array", path))
	}
	docs := make([]*document.Document, 0, len(list))
	for _, entry := range list {
		m, ok := entry.(map[string]any)
		if !ok {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("output file %s holds a non-object entry", path))
		}
		docs = append(docs, document.FromMap(m))
	}
	return docs, nil
}

func (a OutputReaderAdapter) readYAML(path string, raw []byte) ([]*document.Document, error) {
	var rows []map[string]any
	if err := yaml.Unmarshal(raw, &rows); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("failed to parse output file %s", path)).
			WithCause(err)
	}
	return document.FromMaps(rows), nil
}

var _ ports.OutputReaderPort = OutputReaderAdapter{}
