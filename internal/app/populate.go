package app

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"docref/internal/adapters"
	"docref/internal/core"
	"docref/internal/document"
	"docref/internal/ports"
	"docref/internal/shared"
	"docref/internal/types"
)

func (s Service) Populate(ctx context.Context, req PopulateRequest) (PopulateResult, error) {
	schemaPath := strings.TrimSpace(req.SchemaPath)
	if schemaPath == "" {
		return PopulateResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("schema file path is required")
	}
	dataDir := strings.TrimSpace(req.DataDir)
	if dataDir == "" {
		return PopulateResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("data directory is required")
	}
	collection := strings.TrimSpace(req.Collection)
	if collection == "" {
		return PopulateResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("collection is required")
	}
	switch req.Format {
	case "", types.OutputFormatJSON, types.OutputFormatYAML:
	default:
		return PopulateResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unknown output format %q", req.Format))
	}
	start := s.now()

	file, err := s.SchemaSource.Load(schemaPath)
	if err != nil {
		return PopulateResult{}, err
	}
	if err := s.SchemaSource.Validate(ctx, file); err != nil {
		return PopulateResult{}, err
	}

	store, err := openStore(ctx, req.Store, req.SQLitePath, req.PostgresDSN)
	if err != nil {
		return PopulateResult{}, err
	}
	defer store.Close()

	if _, err := adapters.NewDatasetFileAdapter(dataDir).Load(ctx, store); err != nil {
		return PopulateResult{}, err
	}

	registry := adapters.NewModelRegistry(file, store)
	model, ok := registry.Lookup(collection)
	if !ok {
		return PopulateResult{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("collection %q is not declared in the schema", collection))
	}

	var requests []types.PopulationRequest
	if path := strings.TrimSpace(req.RequestsPath); path != "" {
		loaded, err := s.RequestSource.Load(path)
		if err != nil {
			return PopulateResult{}, err
		}
		requests = append(requests, loaded...)
	}
	for _, tok := range shared.SplitPaths(req.Paths) {
		requests = append(requests, types.PopulationRequest{Path: tok})
	}
	if len(requests) == 0 {
		return PopulateResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("no population paths given")
	}

	docs, err := model.Find(ctx, nil, nil)
	if err != nil {
		return PopulateResult{}, err
	}

	var snapshots []*document.Document
	if req.VerifyRoundTrip {
		snapshots = make([]*document.Document, len(docs))
		for i, doc := range docs {
			snapshots[i] = doc.Clone()
		}
	}

	engine := core.NewEngine(registry)
	if err := engine.Populate(ctx, docs, requests, model.Schema(), core.Options{Strict: req.Strict}); err != nil {
		return PopulateResult{}, err
	}

	var outputPath string
	if dir := strings.TrimSpace(req.OutputDir); dir != "" {
		outputPath, err = adapters.NewOutputFileAdapter(dir).WriteDocuments(collection, docs, req.Format)
		if err != nil {
			return PopulateResult{}, err
		}
	}

	seen := map[string]struct{}{}
	for _, request := range requests {
		for _, doc := range docs {
			if core.IsPopulated(doc, request.Path) {
				seen[request.Path] = struct{}{}
				break
			}
		}
	}
	populated := shared.SortedKeys(seen)

	verified := false
	if req.VerifyRoundTrip {
		if err := verifyDepopulation(docs, snapshots); err != nil {
			return PopulateResult{}, err
		}
		verified = true
	}

	return PopulateResult{
		Collection:        collection,
		Documents:         len(docs),
		Populated:         populated,
		OutputPath:        outputPath,
		RoundTripVerified: verified,
		Elapsed:           s.now().Sub(start),
	}, nil
}

// verifyDepopulation reverses every populated path and checks each
// restored raw value against the pre-population snapshot. It runs after
// the output is written, so consuming the documents is acceptable.
func verifyDepopulation(docs, snapshots []*document.Document) error {
	for i, doc := range docs {
		for _, path := range doc.PopulatedPaths() {
			core.Depopulate(doc, path)
			restored, _ := doc.Get(path)
			want, _ := snapshots[i].Get(path)
			if !reflect.DeepEqual(restored, want) {
				return errbuilder.New().
					WithCode(errbuilder.CodeInternal).
					WithMsg(fmt.Sprintf("depopulation failed to restore path %q", path))
			}
		}
	}
	return nil
}

func (s Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

func openStore(ctx context.Context, kind types.StoreKind, sqlitePath, postgresDSN string) (ports.DocumentStorePort, error) {
	switch kind {
	case "", types.StoreKindMemory:
		return adapters.NewMemoryStore(), nil
	case types.StoreKindSQLite:
		path := strings.TrimSpace(sqlitePath)
		if path == "" {
			path = ":memory:"
		}
		return adapters.NewSQLiteStore(path)
	case types.StoreKindPostgres:
		dsn := strings.TrimSpace(postgresDSN)
		if dsn == "" {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("postgres store requires a connection string")
		}
		return adapters.NewPostgresStore(ctx, dsn)
	default:
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unknown store kind %q", kind))
	}
}
