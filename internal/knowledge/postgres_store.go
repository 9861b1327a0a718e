package knowledge

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresStore persists knowledge documents in Postgres for deployments
// where the corpus must be shared across instances.
type PostgresStore struct {
	db *sql.DB

	schemaOnce sync.Once
	schemaErr  error
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn is required")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) ensureSchema() error {
	if s == nil || s.db == nil {
		return fmt.Errorf("db is nil")
	}
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.Exec(`
CREATE TABLE IF NOT EXISTS knowledge_docs (
    id SERIAL PRIMARY KEY,
    content TEXT NOT NULL,
    metadata JSONB NOT NULL DEFAULT '{}'::jsonb,
    created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);
`)
	})
	return s.schemaErr
}

func (s *PostgresStore) Query(ctx context.Context, text string, topK int) ([]Snippet, error) {
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
		var content string
		var metaJSON []byte
		if err := rows.Scan(&content, &metaJSON); err != nil {
			return nil, err
		}
		meta := map[string]string{}
		_ = json.Unmarshal(metaJSON, &meta)
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

func (s *PostgresStore) Insert(ctx context.Context, text string, metadata map[string]string) (string, error) {
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
	var id int64
	err = s.db.QueryRowContext(ctx,
		`INSERT INTO knowledge_docs (content, metadata) VALUES ($1, $2) RETURNING id`,
		text, metaJSON).Scan(&id)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("doc_%d", id), nil
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
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

func (s *PostgresStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

var _ Store = (*PostgresStore)(nil)
var _ Store = (*SQLiteStore)(nil)
var _ Store = (*MemoryStore)(nil)
