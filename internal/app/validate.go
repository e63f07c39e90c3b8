package app

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"docref/internal/adapters"
	"docref/internal/shared"
)

func (s Service) Validate(ctx context.Context, req ValidateRequest) (ValidateResult, error) {
	schemaPath := strings.TrimSpace(req.SchemaPath)
	if schemaPath == "" {
		return ValidateResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("schema file path is required")
	}
	file, err := s.SchemaSource.Load(schemaPath)
	if err != nil {
		return ValidateResult{}, err
	}
	if err := s.SchemaSource.Validate(ctx, file); err != nil {
		return ValidateResult{}, err
	}

	var direct, virtuals int
	names := make([]string, 0, len(file.Collections))
	for name, schema := range file.Collections {
		names = append(names, name)
		for _, def := range schema.Fields {
			if def.Ref != "" {
				direct++
			}
		}
		virtuals += len(schema.Virtuals)
	}
	sort.Strings(names)

	// A data directory is optional; when given, every dataset file must
	// belong to a declared collection.
	if dataDir := strings.TrimSpace(req.DataDir); dataDir != "" {
		counts, err := adapters.NewDatasetFileAdapter(dataDir).Load(ctx, adapters.NewMemoryStore())
		if err != nil {
			return ValidateResult{}, err
		}
		for _, collection := range shared.SortedKeys(counts) {
			if _, ok := file.Collections[collection]; !ok {
				return ValidateResult{}, errbuilder.New().
					WithCode(errbuilder.CodeInvalidArgument).
					WithMsg(fmt.Sprintf("dataset collection %q is not declared in the schema", collection))
			}
		}
	}

	return ValidateResult{
		SchemaVersion: file.SchemaVersion,
		Collections:   names,
		DirectRefs:    direct,
		Virtuals:      virtuals,
	}, nil
}
