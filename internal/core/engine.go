package core

import (
	"context"

	"github.com/rs/zerolog/log"

	"docref/internal/document"
	"docref/internal/ports"
	"docref/internal/types"
)

// Options tune one population call.
type Options struct {
	// Strict surfaces unresolved references and missing models as errors
	// instead of skipping the affected path with a warning.
	Strict bool
}

// Engine resolves references between documents: direct id references are
// fetched in batched, deduplicated queries and virtual reverse joins are
// resolved with one grouped query per path. All writes happen in place on
// the documents handed in; Depopulate reverses them.
type Engine struct {
	registry ports.ModelRegistryPort
}

// NewEngine returns an engine reading referenced collections from
// registry. The registry is an explicit dependency so independent
// engines can run against independent model sets.
func NewEngine(registry ports.ModelRegistryPort) *Engine {
	return &Engine{registry: registry}
}

// Populate resolves pathSpec on docs in place. pathSpec accepts a path
// name, a space-separated path list, a PopulationRequest, or a slice
// mixing any of these; schema describes the collection docs belong to.
// Under lenient options unresolved paths are skipped; fetch failures
// always degrade to empty results for the affected path only.
func (e *Engine) Populate(ctx context.Context, docs []*document.Document, pathSpec any, schema ports.SchemaPort, opts Options) error {
	reqs, err := NormalizePathSpec(pathSpec)
	if err != nil {
		return err
	}
	live := make([]*document.Document, 0, len(docs))
	for _, d := range docs {
		if d != nil {
			live = append(live, d)
		}
	}
	if len(live) == 0 || len(reqs) == 0 {
		return nil
	}
	ses := newSession(live, opts)
	return e.populate(ctx, ses, live, reqs, schema)
}

// PopulateOne is Populate for a single document.
func (e *Engine) PopulateOne(ctx context.Context, doc *document.Document, pathSpec any, schema ports.SchemaPort, opts Options) error {
	if doc == nil {
		return nil
	}
	return e.Populate(ctx, []*document.Document{doc}, pathSpec, schema, opts)
}

// populate runs one request list against docs within an existing
// session. Requests run sequentially: each completes, nested requests
// included, before the next starts.
func (e *Engine) populate(ctx context.Context, ses *session, docs []*document.Document, reqs []types.PopulationRequest, schema ports.SchemaPort) error {
	for _, req := range reqs {
		if err := e.populatePath(ctx, ses, docs, req, schema); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) populatePath(ctx context.Context, ses *session, docs []*document.Document, req types.PopulationRequest, schema ports.SchemaPort) error {
	if req.Skip {
		log.Ctx(ctx).Debug().Str("path", req.Path).Msg("population request disabled, skipping")
		return nil
	}
	if !ses.guard.enter(req.Path) {
		log.Ctx(ctx).Warn().Str("path", req.Path).Msg("circular population detected, path skipped")
		return nil
	}
	defer ses.guard.exit(req.Path)

	desc := resolveReference(req, schema)
	if desc.Unresolved() {
		if err := ses.policy.UnresolvedReference(req.Path, req.Strict); err != nil {
			return err
		}
		log.Ctx(ctx).Warn().Str("path", req.Path).Msg("no reference metadata, path skipped")
		return nil
	}
	model, ok := e.registry.Lookup(desc.Collection)
	if !ok {
		if err := ses.policy.MissingModel(req.Path, desc.Collection, req.Strict); err != nil {
			return err
		}
		log.Ctx(ctx).Warn().
			Str("path", req.Path).
			Str("collection", desc.Collection).
			Msg("model not registered, path skipped")
		return nil
	}

	var (
		assigned []*document.Document
		err      error
	)
	switch desc.Kind {
	case types.RefKindDirect:
		assigned, err = e.populateDirect(ctx, ses, docs, req, desc, model)
	case types.RefKindVirtual:
		assigned, err = e.populateVirtual(ctx, ses, docs, req, desc, model)
	}
	if err != nil {
		return err
	}

	if len(req.Nested) == 0 || len(assigned) == 0 {
		return nil
	}
	return e.populate(ctx, ses, assigned, req.Nested, model.Schema())
}
