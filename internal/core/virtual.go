package core

import (
	"context"

	"github.com/rs/zerolog/log"

	"docref/internal/document"
	"docref/internal/ports"
	"docref/internal/types"
)

// populateVirtual resolves one reverse-join path: it collects the
// distinct local-field values across all documents, issues one query
// filtering the foreign field by that set, groups the results by
// canonical foreign value and assigns each document its matches honoring
// justOne and perDocumentLimit. Virtual paths overwrite no stored value,
// so nothing is recorded for depopulation.
func (e *Engine) populateVirtual(ctx context.Context, ses *session, docs []*document.Document, req types.PopulationRequest, desc types.ReferenceDescriptor, model ports.ModelPort) ([]*document.Document, error) {
	collection := model.Name()

	type target struct {
		doc *document.Document
		key string
		ok  bool
	}
	targets := make([]target, 0, len(docs))
	var locals []any
	for _, doc := range docs {
		raw, _ := doc.Get(desc.LocalField)
		key, ok := document.CanonicalID(raw)
		targets = append(targets, target{doc: doc, key: key, ok: ok})
		if ok {
			locals = append(locals, raw)
		}
	}

	var records []*document.Document
	distinct := document.CanonicalIDs(locals)
	if len(distinct) > 0 {
		filter := map[string]any{desc.ForeignField: map[string]any{"$in": anySlice(distinct)}}
		for k, v := range desc.MatchFilter {
			filter[k] = v
		}
		for k, v := range req.Match {
			filter[k] = v
		}
		var err error
		records, err = model.Find(ctx, filter, ParseSelect(req.Select))
		if err != nil {
			log.Ctx(ctx).Warn().Err(err).
				Str("path", desc.Path).
				Str("collection", collection).
				Msg("virtual join fetch failed, resolving to zero records")
			records = nil
		}
	}

	// Group by canonical foreign value; array-valued foreign fields count
	// for each of their elements. Records also enter the fetch cache so a
	// later direct reference to the same collection reuses them.
	groups := make(map[string][]*document.Document, len(records))
	for _, rec := range records {
		raw, _ := rec.Get(desc.ForeignField)
		for _, fv := range rawIDList(raw) {
			if key, ok := document.CanonicalID(fv); ok {
				groups[key] = append(groups[key], rec)
			}
		}
		if key, ok := document.CanonicalID(rec.ID()); ok {
			ses.cache.put(collection, key, rec)
		}
	}

	var assigned []*document.Document
	seen := map[*document.Document]struct{}{}
	for _, tgt := range targets {
		var matches []*document.Document
		if tgt.ok {
			matches = groups[tgt.key]
		}
		values := make([]any, 0, len(matches))
		for _, rec := range matches {
			value := any(rec)
			if req.Transform != nil {
				out, err := req.Transform(rec)
				if err != nil {
					return nil, err
				}
				value = out
			}
			values = append(values, value)
		}
		if req.PerDocumentLimit > 0 && len(values) > req.PerDocumentLimit {
			values = values[:req.PerDocumentLimit]
		}
		if desc.JustOne {
			if len(values) > 0 {
				tgt.doc.Set(desc.Path, values[0])
				values = values[:1]
			} else {
				tgt.doc.Set(desc.Path, nil)
				values = nil
			}
		} else {
			tgt.doc.Set(desc.Path, values)
		}
		for _, v := range values {
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
		Int("localValues", len(distinct)).
		Int("matched", len(records)).
		Msg("virtual join resolved")
	return assigned, nil
}
