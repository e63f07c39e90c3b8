package adapters

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/ohler55/ojg"
	"github.com/ohler55/ojg/oj"
	"gopkg.in/yaml.v3"

	"docref/internal/document"
	"docref/internal/ports"
	"docref/internal/types"
)

// OutputFileAdapter writes populated documents under a single output
// directory, one file per request name.
type OutputFileAdapter struct {
	Dir string
}

func NewOutputFileAdapter(dir string) OutputFileAdapter {
	return OutputFileAdapter{Dir: dir}
}

// WriteDocuments renders docs as a JSON or YAML array and writes them to
// <name>.populated.<ext>. JSON output is indented and key-sorted so repeated
// runs over the same data produce identical files.
func (a OutputFileAdapter) WriteDocuments(name string, docs []*document.Document, format types.OutputFormat) (string, error) {
	if err := a.ensurePath(); err != nil {
		return "", err
	}
	plain := make([]any, 0, len(docs))
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		plain = append(plain, doc.Plain())
	}
	var data []byte
	var ext string
	switch format {
	case types.OutputFormatYAML:
		raw, err := yaml.Marshal(plain)
		if err != nil {
			return "", errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to marshal documents as YAML").
				WithCause(err)
		}
		data = raw
		ext = "yaml"
	default:
		data = []byte(oj.JSON(plain, &ojg.Options{Indent: 2, Sort: true}))
		ext = "json"
	}
	path := filepath.Join(a.Dir, fmt.Sprintf("%s.populated.%s", name, ext))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to write %s", path)).
			WithCause(err)
	}
	return path, nil
}

func (a OutputFileAdapter) ensurePath() error {
	if a.Dir == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("output directory is empty")
	}
	if err := os.MkdirAll(a.Dir, 0755); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create output directory").
			WithCause(err)
	}
	return nil
}

var _ ports.OutputPort = OutputFileAdapter{}
