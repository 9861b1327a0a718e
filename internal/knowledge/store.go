// Package knowledge implements the knowledge-store capability behind the
// retrieval stage: ranked snippet lookup over a small corpus of hardware
// design notes. Ranking is a lexical stand-in (hashed bag-of-words cosine
// distance), not a production vector index; it lives behind the Store
// interface so a real index can replace it without touching callers.
package knowledge

import (
	"context"
	"errors"
)

// Snippet is one retrieved context entry. Distance is a dissimilarity in
// [0,2]; lower is a better match.
type Snippet struct {
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata"`
	Distance float64           `json:"distance"`
}

// Store is the persistence + lookup contract for knowledge documents.
type Store interface {
	// Query returns up to topK snippets ranked by increasing distance.
	// Ties preserve insertion order.
	Query(ctx context.Context, text string, topK int) ([]Snippet, error)
	// Insert adds a document and returns its assigned identifier.
	Insert(ctx context.Context, text string, metadata map[string]string) (string, error)
	// Count reports the number of stored documents.
	Count(ctx context.Context) (int, error)
	Close() error
}

var ErrEmptyQuery = errors.New("knowledge: empty query text")

// DefaultTopK bounds query results when the caller passes topK <= 0.
const DefaultTopK = 3
