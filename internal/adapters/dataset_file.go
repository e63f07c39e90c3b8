package adapters

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"docref/internal/document"
	"docref/internal/ports"
)

// DatasetFileAdapter seeds a document store from a directory of collection
// files. Every *.yaml, *.yml or *.json file holds a list of documents for
// the collection named after the file stem, so posts.yaml fills "posts".
type DatasetFileAdapter struct {
	Dir string
}

func NewDatasetFileAdapter(dir string) DatasetFileAdapter {
	return DatasetFileAdapter{Dir: dir}
}

// Load inserts every collection file into the store and reports how many
// documents each collection received. Files are processed in name order.
func (a DatasetFileAdapter) Load(ctx context.Context, store ports.DocumentStorePort) (map[string]int, error) {
	if a.Dir == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("dataset directory is empty")
	}
	entries, err := os.ReadDir(a.Dir)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("failed to read dataset directory %s", a.Dir)).
			WithCause(err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".yaml", ".yml", ".json":
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	counts := make(map[string]int, len(names))
	for _, name := range names {
		collection := strings.TrimSuffix(name, filepath.Ext(name))
		raw, err := os.ReadFile(filepath.Join(a.Dir, name))
		if err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg(fmt.Sprintf("failed to read dataset file %s", name)).
				WithCause(err)
		}
		var rows []map[string]any
		if err := yaml.Unmarshal(raw, &rows); err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("failed to parse dataset file %s", name)).
				WithCause(err)
		}
		if err := store.InsertMany(ctx, collection, document.FromMaps(rows)); err != nil {
			return nil, err
		}
		counts[collection] += len(rows)
		log.Ctx(ctx).Debug().
			Str("collection", collection).
			Int("documents", len(rows)).
			Msg("dataset collection loaded")
	}
	return counts, nil
}

var _ ports.DatasetPort = DatasetFileAdapter{}
