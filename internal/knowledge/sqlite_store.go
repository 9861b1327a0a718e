package knowledge

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists knowledge documents in a local SQLite database.
// Unlike MemoryStore, identifiers come from an autoincrement key, so
// concurrent inserts cannot collide.
type SQLiteStore struct {
	db *sql.DB

	schemaOnce sync.Once
	schemaErr  error
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) ensureSchema() error {
	if s == nil || s.db == nil {
		return fmt.Errorf("db is nil")
	}
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.Exec(`
CREATE TABLE IF NOT EXISTS knowledge_docs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    content TEXT NOT NULL,
    metadata TEXT NOT NULL DEFAULT '{}',
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`)
	})
	return s.schemaErr
}

func (s *SQLiteStore) Query(ctx context.Context, text string, topK int) ([]Snippet, error) {
	if s == nil {
		return nil, fmt.Errorf("store is nil")
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyQuery
	}
	if topK <= 0 {
		topK = DefaultTopK
	}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT content, metadata FROM knowledge_docs ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	type doc struct {
		text     string
		metadata map[string]string
	}
	var docs []doc
	var vectors []termVector
	for rows.Next() {
		var content, metaJSON string
		if err := rows.Scan(&content, &metaJSON); err != nil {
			return nil, err
		}
		meta := map[string]string{}
		_ = json.Unmarshal([]byte(metaJSON), &meta)
		docs = append(docs, doc{text: content, metadata: meta})
		vectors = append(vectors, vectorize(content))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	query := vectorize(text)
	out := make([]Snippet, 0, topK)
	for _, r := range rankVectors(query, vectors, topK) {
		out = append(out, Snippet{
			Text:     docs[r.idx].text,
			Metadata: docs[r.idx].metadata,
			Distance: r.distance,
		})
	}
	return out, nil
}

func (s *SQLiteStore) Insert(ctx context.Context, text string, metadata map[string]string) (string, error) {
	if s == nil {
		return "", fmt.Errorf("store is nil")
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("document text is required")
	}
	if err := s.ensureSchema(); err != nil {
		return "", err
	}
	metaJSON, err := json.Marshal(metadata)
	if err != nil {
		return "", err
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO knowledge_docs (content, metadata) VALUES (?, ?)`, text, string(metaJSON))
	if err != nil {
		return "", err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("doc_%d", id), nil
}

func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	if s == nil {
		return 0, fmt.Errorf("store is nil")
	}
	if err := s.ensureSchema(); err != nil {
		return 0, err
	}
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM knowledge_docs`).Scan(&n)
	return n, err
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
