package core

import (
	"context"

	"github.com/rs/zerolog/log"

	"docref/internal/document"
	"docref/internal/ports"
	"docref/internal/types"
)

// populateDirect resolves one direct-reference path across all documents:
// it gathers the distinct referenced ids, fetches the uncached subset in
// a single batched query and writes the records back preserving each
// document's single or array shape. Missing ids are dropped from arrays
// and resolve to nil for single references. Returns the sub-documents it
// assigned so nested requests can recurse into them.
func (e *Engine) populateDirect(ctx context.Context, ses *session, docs []*document.Document, req types.PopulationRequest, desc types.ReferenceDescriptor, model ports.ModelPort) ([]*document.Document, error) {
	collection := model.Name()

	type target struct {
		doc *document.Document
		raw any
		ids []any
		has bool
	}
	targets := make([]target, 0, len(docs))
	var all []any
	for _, doc := range docs {
		raw, ok := doc.Get(desc.Path)
		if !ok {
			// Path absent on this document, leave it untouched.
			targets = append(targets, target{doc: doc})
			continue
		}
		ids := rawIDList(raw)
		targets = append(targets, target{doc: doc, raw: raw, ids: ids, has: true})
		all = append(all, ids...)
	}

	distinct := document.CanonicalIDs(all)
	uncached := ses.cache.uncached(collection, distinct)
	if len(uncached) > 0 {
		// Mark before querying: a failed fetch must not be retried for
		// the same ids later in this call.
		ses.cache.markAttempted(collection, uncached)
		filter := map[string]any{"_id": map[string]any{"$in": anySlice(uncached)}}
		records, err := model.Find(ctx, filter, ParseSelect(req.Select))
		if err != nil {
			log.Ctx(ctx).Warn().Err(err).
				Str("path", desc.Path).
				Str("collection", collection).
				Msg("reference fetch failed, resolving to zero records")
		}
		for _, rec := range records {
			if key, ok := document.CanonicalID(rec.ID()); ok {
				ses.cache.put(collection, key, rec)
			}
		}
	}

	var assigned []*document.Document
	seen := map[*document.Document]struct{}{}
	for _, tgt := range targets {
		if !tgt.has {
			continue
		}
		resolved := make([]any, 0, len(tgt.ids))
		for _, id := range tgt.ids {
			key, ok := document.CanonicalID(id)
			if !ok {
				continue
			}
			rec, ok := ses.cache.get(collection, key)
			if !ok {
				continue
			}
			value := any(rec)
			if req.Transform != nil {
				out, err := req.Transform(rec)
				if err != nil {
					return nil, err
				}
				value = out
			}
			resolved = append(resolved, value)
		}

		tgt.doc.MarkPopulated(desc.Path, tgt.raw)
		var final []any
		if desc.IsArray {
			tgt.doc.Set(desc.Path, resolved)
			final = resolved
		} else if len(resolved) > 0 {
			tgt.doc.Set(desc.Path, resolved[0])
			final = resolved[:1]
		} else {
			tgt.doc.Set(desc.Path, nil)
		}
		for _, v := range final {
			sub, ok := v.(*document.Document)
			if !ok {
				continue
			}
			if _, dup := seen[sub]; dup {
				continue
			}
			seen[sub] = struct{}{}
			assigned = append(assigned, sub)
		}
	}

	log.Ctx(ctx).Debug().
		Str("path", desc.Path).
		Str("collection", collection).
		Int("distinctIds", len(distinct)).
		Int("fetched", len(uncached)).
		Msg("direct references resolved")
	return assigned, nil
}

// rawIDList flattens a raw reference value into its id elements. A
// scalar is a single id; nil means present but unset.
func rawIDList(raw any) []any {
	switch v := raw.(type) {
	case nil:
		return nil
	case []any:
		return v
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out
	default:
		return []any{v}
	}
}

func anySlice(ids []string) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}
