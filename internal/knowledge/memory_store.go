package knowledge

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

type memoryDoc struct {
	id       string
	text     string
	metadata map[string]string
	vector   termVector
}

// MemoryStore keeps documents in process memory. Identifiers are derived
// from the current document count ("doc_N"), which is not safe under
// concurrent writers; treat insertion as single-writer.
type MemoryStore struct {
	mu   sync.RWMutex
	docs []memoryDoc
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Query(_ context.Context, text string, topK int) ([]Snippet, error) {
	if s == nil {
		return nil, fmt.Errorf("store is nil")
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyQuery
	}
	if topK <= 0 {
		topK = DefaultTopK
	}
	query := vectorize(text)

	s.mu.RLock()
	defer s.mu.RUnlock()
	vectors := make([]termVector, len(s.docs))
	for i, d := range s.docs {
		vectors[i] = d.vector
	}
	out := make([]Snippet, 0, topK)
	for _, r := range rankVectors(query, vectors, topK) {
		doc := s.docs[r.idx]
		out = append(out, Snippet{
			Text:     doc.text,
			Metadata: copyMetadata(doc.metadata),
			Distance: r.distance,
		})
	}
	return out, nil
}

func (s *MemoryStore) Insert(_ context.Context, text string, metadata map[string]string) (string, error) {
	if s == nil {
		return "", fmt.Errorf("store is nil")
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("document text is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id := fmt.Sprintf("doc_%d", len(s.docs)+1)
	s.docs = append(s.docs, memoryDoc{
		id:       id,
		text:     text,
		metadata: copyMetadata(metadata),
		vector:   vectorize(text),
	})
	return id, nil
}

func (s *MemoryStore) Count(_ context.Context) (int, error) {
	if s == nil {
		return 0, fmt.Errorf("store is nil")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs), nil
}

func (s *MemoryStore) Close() error { return nil }

func copyMetadata(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
