package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"docref/internal/adapters"
	"docref/internal/shared"
	"docref/internal/types"
)

// Inspect summarizes a schema: every collection with its document count
// and the references, direct and virtual, that populate can resolve.
func (s Service) Inspect(ctx context.Context, req InspectRequest) (InspectResult, error) {
	schemaPath := strings.TrimSpace(req.SchemaPath)
	if schemaPath == "" {
		return InspectResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("schema file path is required")
	}
	file, err := s.SchemaSource.Load(schemaPath)
	if err != nil {
		return InspectResult{}, err
	}
	if err := s.SchemaSource.Validate(ctx, file); err != nil {
		return InspectResult{}, err
	}

	counts := map[string]int{}
	if dataDir := strings.TrimSpace(req.DataDir); dataDir != "" {
		counts, err = adapters.NewDatasetFileAdapter(dataDir).Load(ctx, adapters.NewMemoryStore())
		if err != nil {
			return InspectResult{}, err
		}
	}

	var summaries []InspectCollectionSummary
	for _, name := range shared.SortedKeys(file.Collections) {
		schema := file.Collections[name]
		var refs []InspectReference
		for _, field := range shared.SortedKeys(schema.Fields) {
			def := schema.Fields[field]
			if def.Ref == "" {
				continue
			}
			refs = append(refs, InspectReference{
				Path:       field,
				Kind:       types.RefKindDirect,
				Collection: def.Ref,
			})
		}
		for _, virtual := range shared.SortedKeys(schema.Virtuals) {
			refs = append(refs, InspectReference{
				Path:       virtual,
				Kind:       types.RefKindVirtual,
				Collection: schema.Virtuals[virtual].Ref,
			})
		}
		summaries = append(summaries, InspectCollectionSummary{
			Name:       name,
			Documents:  counts[name],
			References: refs,
		})
	}
	return InspectResult{
		SchemaVersion: file.SchemaVersion,
		Collections:   summaries,
	}, nil
}
