package core

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docref/internal/document"
	"docref/internal/ports"
	"docref/internal/types"
)

type fakeSchema struct {
	paths    map[string]types.PathInfo
	virtuals map[string]types.VirtualInfo
}

func (s fakeSchema) PathInfo(name string) (types.PathInfo, bool) {
	p, ok := s.paths[name]
	return p, ok
}

func (s fakeSchema) VirtualInfo(name string) (types.VirtualInfo, bool) {
	v, ok := s.virtuals[name]
	return v, ok
}

type fakeModel struct {
	name    string
	schema  fakeSchema
	rows    []map[string]any
	finds   int
	filters []map[string]any
	err     error
}

func (m *fakeModel) Name() string { return m.name }

func (m *fakeModel) Schema() ports.SchemaPort { return m.schema }

func (m *fakeModel) Find(_ context.Context, filter map[string]any, _ map[string]int) ([]*document.Document, error) {
	m.finds++
	m.filters = append(m.filters, filter)
	if m.err != nil {
		return nil, m.err
	}
	var out []*document.Document
	for _, raw := range m.rows {
		doc := document.FromMap(raw)
		if matchesFakeFilter(doc, filter) {
			out = append(out, doc.Clone())
		}
	}
	return out, nil
}

func matchesFakeFilter(doc *document.Document, filter map[string]any) bool {
	for key, cond := range filter {
		raw, _ := doc.Get(key)
		switch c := cond.(type) {
		case map[string]any:
			vals, _ := c["$in"].([]any)
			if !fakeInList(vals, raw) {
				return false
			}
		default:
			want, ok := document.CanonicalID(c)
			if !ok || !fakeHasCanonical(raw, want) {
				return false
			}
		}
	}
	return true
}

func fakeInList(vals []any, raw any) bool {
	for _, v := range vals {
		if want, ok := document.CanonicalID(v); ok && fakeHasCanonical(raw, want) {
			return true
		}
	}
	return false
}

func fakeHasCanonical(raw any, want string) bool {
	for _, e := range rawIDList(raw) {
		if key, ok := document.CanonicalID(e); ok && key == want {
			return true
		}
	}
	return false
}

type fakeRegistry struct {
	models map[string]*fakeModel
}

func (r fakeRegistry) Lookup(collection string) (ports.ModelPort, bool) {
	m, ok := r.models[collection]
	if !ok {
		return nil, false
	}
	return m, true
}

func (r fakeRegistry) Collections() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func blogFixture() (fakeRegistry, fakeSchema) {
	users := &fakeModel{
		name: "users",
		schema: fakeSchema{
			paths: map[string]types.PathInfo{
				"avatar": {Ref: "media"},
			},
			virtuals: map[string]types.VirtualInfo{
				"posts": {Ref: "posts", LocalField: "_id", ForeignField: "author"},
			},
		},
		rows: []map[string]any{
			{"_id": "u1", "name": "Ann", "avatar": "m1"},
			{"_id": "u2", "name": "Ben", "avatar": "m2"},
		},
	}
	media := &fakeModel{
		name: "media",
		rows: []map[string]any{
			{"_id": "m1", "url": "https://cdn/ann.png"},
			{"_id": "m2", "url": "https://cdn/ben.png"},
		},
	}
	posts := &fakeModel{
		name: "posts",
		schema: fakeSchema{
			paths: map[string]types.PathInfo{
				"author":    {Ref: "users"},
				"reviewers": {Ref: "users", IsArray: true},
			},
		},
		rows: []map[string]any{
			{"_id": "p1", "title": "first", "author": "u1"},
			{"_id": "p2", "title": "second", "author": "u1"},
			{"_id": "p3", "title": "third", "author": "u2"},
		},
	}
	registry := fakeRegistry{models: map[string]*fakeModel{
		"users": users,
		"media": media,
		"posts": posts,
	}}
	postSchema := posts.schema
	return registry, postSchema
}

func TestPopulateSingleDirectReference(t *testing.T) {
	registry, postSchema := blogFixture()
	eng := NewEngine(registry)

	doc := document.FromMap(map[string]any{"_id": "p1", "title": "first", "author": "u1"})
	err := eng.PopulateOne(t.Context(), doc, "author", postSchema, Options{})
	require.NoError(t, err)

	v, ok := doc.Get("author")
	require.True(t, ok)
	author, ok := v.(*document.Document)
	require.True(t, ok, "author should be materialized")
	name, _ := author.Get("name")
	assert.Equal(t, "Ann", name)

	Depopulate(doc, "author")
	v, _ = doc.Get("author")
	assert.Equal(t, "u1", v)
}

func TestPopulateBatchesAndDedups(t *testing.T) {
	registry, postSchema := blogFixture()
	eng := NewEngine(registry)

	docs := []*document.Document{
		document.FromMap(map[string]any{"_id": "p1", "author": "u1"}),
		document.FromMap(map[string]any{"_id": "p2", "author": "u1"}),
		document.FromMap(map[string]any{"_id": "p3", "author": "u2"}),
	}
	err := eng.Populate(t.Context(), docs, "author", postSchema, Options{})
	require.NoError(t, err)

	users := registry.models["users"]
	assert.Equal(t, 1, users.finds, "all authors must come from one batched query")

	for _, doc := range docs {
		v, _ := doc.Get("author")
		_, ok := v.(*document.Document)
		assert.True(t, ok)
	}
}

func TestPopulateArrayReferenceDropsMissing(t *testing.T) {
	registry, postSchema := blogFixture()
	eng := NewEngine(registry)

	doc := document.FromMap(map[string]any{
		"_id":       "p1",
		"reviewers": []any{"u1", "ghost", "u2"},
	})
	err := eng.PopulateOne(t.Context(), doc, "reviewers", postSchema, Options{})
	require.NoError(t, err)

	v, _ := doc.Get("reviewers")
	list, ok := v.([]any)
	require.True(t, ok)
	require.Len(t, list, 2, "missing ids are dropped, not null-padded")

	Depopulate(doc, "reviewers")
	v, _ = doc.Get("reviewers")
	assert.Equal(t, []any{"u1", "ghost", "u2"}, v)
}

func TestPopulateSingleMissingResolvesToNil(t *testing.T) {
	registry, postSchema := blogFixture()
	eng := NewEngine(registry)

	doc := document.FromMap(map[string]any{"_id": "p9", "author": "ghost"})
	err := eng.PopulateOne(t.Context(), doc, "author", postSchema, Options{})
	require.NoError(t, err)

	v, ok := doc.Get("author")
	require.True(t, ok)
	assert.Nil(t, v)
	assert.True(t, IsPopulated(doc, "author"))
}

func TestPopulateAbsentPathIssuesNoQuery(t *testing.T) {
	registry, postSchema := blogFixture()
	eng := NewEngine(registry)

	doc := document.FromMap(map[string]any{"_id": "p1", "title": "no author"})
	err := eng.PopulateOne(t.Context(), doc, "author", postSchema, Options{})
	require.NoError(t, err)

	assert.Equal(t, 0, registry.models["users"].finds)
	assert.False(t, doc.Has("author"))
	assert.False(t, IsPopulated(doc, "author"))
}

func TestPopulateVirtualGroupsMatches(t *testing.T) {
	registry, _ := blogFixture()
	eng := NewEngine(registry)
	userSchema := registry.models["users"].schema

	ann := document.FromMap(map[string]any{"_id": "u1", "name": "Ann"})
	ben := document.FromMap(map[string]any{"_id": "u2", "name": "Ben"})
	err := eng.Populate(t.Context(), []*document.Document{ann, ben}, "posts", userSchema, Options{})
	require.NoError(t, err)

	assert.Equal(t, 1, registry.models["posts"].finds)

	v, _ := ann.Get("posts")
	list, ok := v.([]any)
	require.True(t, ok)
	require.Len(t, list, 2)
	for _, e := range list {
		post, ok := e.(*document.Document)
		require.True(t, ok)
		author, _ := post.Get("author")
		assert.Equal(t, "u1", author)
	}

	v, _ = ben.Get("posts")
	list, ok = v.([]any)
	require.True(t, ok)
	require.Len(t, list, 1)
}

func TestPopulateVirtualJustOne(t *testing.T) {
	registry, _ := blogFixture()
	eng := NewEngine(registry)
	userSchema := registry.models["users"].schema

	justOne := true
	doc := document.FromMap(map[string]any{"_id": "u1"})
	err := eng.PopulateOne(t.Context(), doc, types.PopulationRequest{Path: "posts", JustOne: &justOne}, userSchema, Options{})
	require.NoError(t, err)

	v, ok := doc.Get("posts")
	require.True(t, ok)
	_, isDoc := v.(*document.Document)
	assert.True(t, isDoc, "justOne must assign a single record, not a list")
}

func TestPopulateVirtualNoMatchesAssignsEmpty(t *testing.T) {
	registry, _ := blogFixture()
	eng := NewEngine(registry)
	userSchema := registry.models["users"].schema

	doc := document.FromMap(map[string]any{"_id": "u9"})
	err := eng.PopulateOne(t.Context(), doc, "posts", userSchema, Options{})
	require.NoError(t, err)

	v, ok := doc.Get("posts")
	require.True(t, ok)
	list, isList := v.([]any)
	require.True(t, isList)
	assert.Empty(t, list)
}

func TestPopulateVirtualPerDocumentLimit(t *testing.T) {
	registry, _ := blogFixture()
	eng := NewEngine(registry)
	userSchema := registry.models["users"].schema

	doc := document.FromMap(map[string]any{"_id": "u1"})
	err := eng.PopulateOne(t.Context(), doc, types.PopulationRequest{Path: "posts", PerDocumentLimit: 1}, userSchema, Options{})
	require.NoError(t, err)

	v, _ := doc.Get("posts")
	list, ok := v.([]any)
	require.True(t, ok)
	assert.Len(t, list, 1)
}

func TestPopulateExplicitLocalForeignFields(t *testing.T) {
	registry, _ := blogFixture()
	eng := NewEngine(registry)

	// No schema at all: the explicit fields force a virtual join.
	doc := document.FromMap(map[string]any{"_id": "ignored", "slug": "u2"})
	req := types.PopulationRequest{
		Path:         "written",
		Model:        "posts",
		LocalField:   "slug",
		ForeignField: "author",
	}
	err := eng.PopulateOne(t.Context(), doc, req, nil, Options{})
	require.NoError(t, err)

	v, _ := doc.Get("written")
	list, ok := v.([]any)
	require.True(t, ok)
	require.Len(t, list, 1)
	post := list[0].(*document.Document)
	title, _ := post.Get("title")
	assert.Equal(t, "third", title)
}

func TestPopulateModelOverrideOnDirectRef(t *testing.T) {
	registry, postSchema := blogFixture()
	// Point the author path at a different collection than the schema says.
	registry.models["editors"] = &fakeModel{
		name: "editors",
		rows: []map[string]any{{"_id": "u1", "name": "Editor Ann"}},
	}
	eng := NewEngine(registry)

	doc := document.FromMap(map[string]any{"_id": "p1", "author": "u1"})
	err := eng.PopulateOne(t.Context(), doc, types.PopulationRequest{Path: "author", Model: "editors"}, postSchema, Options{})
	require.NoError(t, err)

	v, _ := doc.Get("author")
	author := v.(*document.Document)
	name, _ := author.Get("name")
	assert.Equal(t, "Editor Ann", name)
	assert.Equal(t, 0, registry.models["users"].finds)
}

func TestPopulateNestedRecursesWithTargetSchema(t *testing.T) {
	registry, postSchema := blogFixture()
	eng := NewEngine(registry)

	doc := document.FromMap(map[string]any{"_id": "p1", "author": "u1"})
	req := types.PopulationRequest{
		Path:   "author",
		Nested: []types.PopulationRequest{{Path: "avatar"}},
	}
	err := eng.PopulateOne(t.Context(), doc, req, postSchema, Options{})
	require.NoError(t, err)

	v, _ := doc.Get("author.avatar")
	avatar, ok := v.(*document.Document)
	require.True(t, ok, "nested path must resolve against the target schema")
	url, _ := avatar.Get("url")
	assert.Equal(t, "https://cdn/ann.png", url)
}

func TestPopulateSharedCacheAcrossSiblingPaths(t *testing.T) {
	registry, postSchema := blogFixture()
	eng := NewEngine(registry)

	doc := document.FromMap(map[string]any{
		"_id":       "p1",
		"author":    "u1",
		"reviewers": []any{"u1", "u2"},
	})
	err := eng.PopulateOne(t.Context(), doc, "author reviewers", postSchema, Options{})
	require.NoError(t, err)

	users := registry.models["users"]
	// author fetched u1; reviewers only needs u2 on top of the cache.
	require.Equal(t, 2, users.finds)
	second := users.filters[1]
	in := second["_id"].(map[string]any)["$in"].([]any)
	assert.Equal(t, []any{"u2"}, in)
}

func TestPopulateCycleTerminates(t *testing.T) {
	registry, postSchema := blogFixture()
	eng := NewEngine(registry)

	doc := document.FromMap(map[string]any{"_id": "p1", "author": "u1"})
	req := types.PopulationRequest{
		Path: "author",
		Nested: []types.PopulationRequest{{
			Path: "posts",
			Nested: []types.PopulationRequest{{
				Path: "author",
			}},
		}},
	}
	err := eng.PopulateOne(t.Context(), doc, req, postSchema, Options{})
	require.NoError(t, err)

	// The inner author request re-enters the active "author" guard and is
	// skipped, so users is queried exactly once.
	assert.Equal(t, 1, registry.models["users"].finds)
	assert.Equal(t, 1, registry.models["posts"].finds)

	v, _ := doc.Get("author")
	author := v.(*document.Document)
	posts, _ := author.Get("posts")
	list := posts.([]any)
	require.NotEmpty(t, list)
	inner := list[0].(*document.Document)
	innerAuthor, _ := inner.Get("author")
	assert.Equal(t, "u1", innerAuthor, "cycled path must stay a raw id")
}

func TestPopulateStrictUnresolvedFails(t *testing.T) {
	registry, postSchema := blogFixture()
	eng := NewEngine(registry)

	doc := document.FromMap(map[string]any{"_id": "p1", "mystery": "x"})
	err := eng.PopulateOne(t.Context(), doc, "mystery", postSchema, Options{Strict: true})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeFailedPrecondition, errbuilder.CodeOf(err))
}

func TestPopulateLenientUnresolvedSkips(t *testing.T) {
	registry, postSchema := blogFixture()
	eng := NewEngine(registry)

	doc := document.FromMap(map[string]any{"_id": "p1", "mystery": "x"})
	err := eng.PopulateOne(t.Context(), doc, "mystery", postSchema, Options{})
	require.NoError(t, err)

	v, _ := doc.Get("mystery")
	assert.Equal(t, "x", v, "unresolved path must stay untouched")
}

func TestPopulateStrictPerRequest(t *testing.T) {
	registry, postSchema := blogFixture()
	eng := NewEngine(registry)

	doc := document.FromMap(map[string]any{"_id": "p1", "mystery": "x"})
	err := eng.PopulateOne(t.Context(), doc, types.PopulationRequest{Path: "mystery", Strict: true}, postSchema, Options{})
	require.Error(t, err)
}

func TestPopulateStrictModelNotFound(t *testing.T) {
	registry, _ := blogFixture()
	delete(registry.models, "users")
	eng := NewEngine(registry)
	postSchema := registry.models["posts"].schema

	doc := document.FromMap(map[string]any{"_id": "p1", "author": "u1"})
	err := eng.PopulateOne(t.Context(), doc, types.PopulationRequest{Path: "author", Strict: true}, postSchema, Options{})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))

	// Lenient mode skips the path instead.
	doc2 := document.FromMap(map[string]any{"_id": "p1", "author": "u1"})
	err = eng.PopulateOne(t.Context(), doc2, "author", postSchema, Options{})
	require.NoError(t, err)
	v, _ := doc2.Get("author")
	assert.Equal(t, "u1", v)
}

func TestPopulateFetchFailureDegradesToEmpty(t *testing.T) {
	registry, postSchema := blogFixture()
	registry.models["users"].err = errors.New("store down")
	eng := NewEngine(registry)

	single := document.FromMap(map[string]any{"_id": "p1", "author": "u1"})
	many := document.FromMap(map[string]any{"_id": "p2", "reviewers": []any{"u1", "u2"}})
	err := eng.Populate(t.Context(), []*document.Document{single, many}, "author reviewers", postSchema, Options{Strict: true})
	require.NoError(t, err, "fetch failures degrade instead of failing the call")

	v, ok := single.Get("author")
	require.True(t, ok)
	assert.Nil(t, v)

	v, _ = many.Get("reviewers")
	assert.Empty(t, v.([]any))

	// Depopulation still restores the raw references.
	Depopulate(single, "author")
	v, _ = single.Get("author")
	assert.Equal(t, "u1", v)
}

func TestPopulateFetchFailureNotRetriedWithinCall(t *testing.T) {
	registry, postSchema := blogFixture()
	users := registry.models["users"]
	users.err = errors.New("store down")
	eng := NewEngine(registry)

	doc := document.FromMap(map[string]any{"_id": "p1", "author": "u1", "reviewers": []any{"u1"}})
	err := eng.PopulateOne(t.Context(), doc, "author reviewers", postSchema, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, users.finds, "failed ids must not be re-queried in the same call")
}

func TestPopulateTransformErrorPropagates(t *testing.T) {
	registry, postSchema := blogFixture()
	eng := NewEngine(registry)

	boom := errors.New("boom")
	doc := document.FromMap(map[string]any{"_id": "p1", "author": "u1"})
	req := types.PopulationRequest{
		Path: "author",
		Transform: func(*document.Document) (any, error) {
			return nil, boom
		},
	}
	err := eng.PopulateOne(t.Context(), doc, req, postSchema, Options{})
	require.ErrorIs(t, err, boom)
}

func TestPopulateTransformRewritesValue(t *testing.T) {
	registry, postSchema := blogFixture()
	eng := NewEngine(registry)

	doc := document.FromMap(map[string]any{"_id": "p1", "author": "u1"})
	req := types.PopulationRequest{
		Path: "author",
		Transform: func(rec *document.Document) (any, error) {
			name, _ := rec.Get("name")
			return name, nil
		},
	}
	err := eng.PopulateOne(t.Context(), doc, req, postSchema, Options{})
	require.NoError(t, err)

	v, _ := doc.Get("author")
	assert.Equal(t, "Ann", v)
}

func TestPopulateSkipFlag(t *testing.T) {
	registry, postSchema := blogFixture()
	eng := NewEngine(registry)

	doc := document.FromMap(map[string]any{"_id": "p1", "author": "u1"})
	err := eng.PopulateOne(t.Context(), doc, types.PopulationRequest{Path: "author", Skip: true}, postSchema, Options{})
	require.NoError(t, err)

	v, _ := doc.Get("author")
	assert.Equal(t, "u1", v)
	assert.Equal(t, 0, registry.models["users"].finds)
}

func TestPopulateRepopulateIsStable(t *testing.T) {
	registry, postSchema := blogFixture()
	eng := NewEngine(registry)

	doc := document.FromMap(map[string]any{"_id": "p1", "author": "u1"})
	require.NoError(t, eng.PopulateOne(t.Context(), doc, "author", postSchema, Options{}))
	require.NoError(t, eng.PopulateOne(t.Context(), doc, "author", postSchema, Options{}))

	v, _ := doc.Get("author")
	author, ok := v.(*document.Document)
	require.True(t, ok, "a populated value canonicalizes to its own id on refetch")
	name, _ := author.Get("name")
	assert.Equal(t, "Ann", name)

	// Depopulation restores the original raw id, not a document.
	Depopulate(doc, "author")
	v, _ = doc.Get("author")
	assert.Equal(t, "u1", v)
}

func TestPopulateNilAndEmptyInputs(t *testing.T) {
	registry, postSchema := blogFixture()
	eng := NewEngine(registry)

	require.NoError(t, eng.Populate(t.Context(), nil, "author", postSchema, Options{}))
	require.NoError(t, eng.PopulateOne(t.Context(), nil, "author", postSchema, Options{}))

	doc := document.FromMap(map[string]any{"_id": "p1", "author": "u1"})
	require.NoError(t, eng.PopulateOne(t.Context(), doc, nil, postSchema, Options{}))
	v, _ := doc.Get("author")
	assert.Equal(t, "u1", v)
}
