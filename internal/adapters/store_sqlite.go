package adapters

import (
	"context"
	"database/sql"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/uuid"
	"github.com/ohler55/ojg/oj"
	_ "modernc.org/sqlite"

	"docref/internal/document"
	"docref/internal/ports"
)

// SQLiteStore persists collections in a single-file SQLite database.
// Documents are stored as JSON bodies keyed by (collection, id); filters
// are evaluated in Go so operator behavior matches every other store
// exactly.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database at path. ":memory:" gives
// a throwaway store.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to open sqlite database").
			WithCause(err)
	}
	// An in-memory database exists per connection, so the pool must not
	// grow past one.
	db.SetMaxOpenConns(1)
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		collection TEXT NOT NULL,
		id TEXT NOT NULL,
		body TEXT NOT NULL,
		PRIMARY KEY (collection, id)
	);`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create documents table").
			WithCause(err)
	}
	return &SQLiteStore{db: db}, nil
}

// InsertMany upserts docs by id. A document without an _id is assigned a
// generated one, visible to the caller.
func (s *SQLiteStore) InsertMany(ctx context.Context, collection string, docs []*document.Document) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to begin transaction").
			WithCause(err)
	}
	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO documents (collection, id, body) VALUES (?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to prepare insert").
			WithCause(err)
	}
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		if _, ok := document.CanonicalID(doc.ID()); !ok {
			doc.Set("_id", uuid.NewString())
		}
		key, _ := document.CanonicalID(doc.ID())
		if _, err := stmt.ExecContext(ctx, collection, key, oj.JSON(doc.Plain())); err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to insert document").
				WithCause(err)
		}
	}
	_ = stmt.Close()
	if err := tx.Commit(); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to commit inserts").
			WithCause(err)
	}
	return nil
}

func (s *SQLiteStore) Find(ctx context.Context, collection string, filter map[string]any, projection map[string]int) ([]*document.Document, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT body FROM documents WHERE collection = ? ORDER BY id`, collection)
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

func (s *SQLiteStore) Collections(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT collection FROM documents ORDER BY collection`)
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

func (s *SQLiteStore) Count(ctx context.Context, collection string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents WHERE collection = ?`, collection).Scan(&count)
	if err != nil {
		return 0, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to count documents").
			WithCause(err)
	}
	return count, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var _ ports.DocumentStorePort = (*SQLiteStore)(nil)
