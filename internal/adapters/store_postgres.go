package adapters

import (
	"context"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ohler55/ojg/oj"

	"docref/internal/document"
	"docref/internal/ports"
)

// PostgresStore persists collections in a single JSONB-bodied table.
// Like the SQLite store it evaluates filters in Go, trading pushdown for
// identical operator semantics across backends.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to dsn and ensures the documents table
// exists.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to connect to postgres").
			WithCause(err)
	}
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		collection TEXT NOT NULL,
		id TEXT NOT NULL,
		body JSONB NOT NULL,
		PRIMARY KEY (collection, id)
	);`
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create documents table").
			WithCause(err)
	}
	return &PostgresStore{pool: pool}, nil
}

// InsertMany upserts docs by id. New documents without an _id get a
// generated one, visible to the caller.
func (s *PostgresStore) InsertMany(ctx context.Context, collection string, docs []*document.Document) error {
	batch := &pgx.Batch{}
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		if _, ok := document.CanonicalID(doc.ID()); !ok {
			doc.Set("_id", uuid.NewString())
		}
		key, _ := document.CanonicalID(doc.ID())
		batch.Queue(
			`INSERT INTO documents (collection, id, body) VALUES ($1, $2, $3)
			 ON CONFLICT (collection, id) DO UPDATE SET body = EXCLUDED.body`,
			collection, key, oj.JSON(doc.Plain()),
		)
	}
	if batch.Len() == 0 {
		return nil
	}
	if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to insert documents").
			WithCause(err)
	}
	return nil
}

func (s *PostgresStore) Find(ctx context.Context, collection string, filter map[string]any, projection map[string]int) ([]*document.Document, error) {
	rows, err := s.pool.Query(ctx, `SELECT body::text FROM documents WHERE collection = $1 ORDER BY id`, collection)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to query documents").
			WithCause(err)
	}
	defer rows.Close()

	out := []*document.Document{}
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to scan document row").
				WithCause(err)
		}
		doc, err := document.FromJSON(body)
		if err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("corrupt document body").
				WithCause(err)
		}
		if MatchesFilter(doc, filter) {
			out = append(out, ApplyProjection(doc, projection))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to iterate documents").
			WithCause(err)
	}
	return out, nil
}

func (s *PostgresStore) Collections(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT DISTINCT collection FROM documents ORDER BY collection`)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to list collections").
			WithCause(err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to scan collection name").
				WithCause(err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *PostgresStore) Count(ctx context.Context, collection string) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM documents WHERE collection = $1`, collection).Scan(&count)
	if err != nil {
		return 0, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to count documents").
			WithCause(err)
	}
	return count, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

var _ ports.DocumentStorePort = (*PostgresStore)(nil)
