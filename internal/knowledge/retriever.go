package knowledge

import (
	"context"
	"fmt"
	"log"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Retriever wraps a Store and makes retrieval advisory: any store failure
// is logged and surfaced as an empty result, never an error. A small LRU
// cache short-circuits repeated queries.
type Retriever struct {
	store Store
	cache *lru.Cache[string, []Snippet]
	log   *log.Logger
}

const retrieverCacheSize = 256

func NewRetriever(store Store, logger *log.Logger) *Retriever {
	if logger == nil {
		logger = log.Default()
	}
	cache, err := lru.New[string, []Snippet](retrieverCacheSize)
	if err != nil {
		// lru.New only fails on size <= 0.
		cache = nil
	}
	return &Retriever{store: store, cache: cache, log: logger}
}

// Retrieve returns up to topK ranked snippets for the query text. An
// unavailable or failing store yields an empty slice plus a logged warning.
func (r *Retriever) Retrieve(ctx context.Context, text string, topK int) []Snippet {
	if r == nil || r.store == nil {
		return []Snippet{}
	}
	if strings.TrimSpace(text) == "" {
		return []Snippet{}
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	key := fmt.Sprintf("%d|%s", topK, text)
	if r.cache != nil {
		if hit, ok := r.cache.Get(key); ok {
			return hit
		}
	}

	snippets, err := r.store.Query(ctx, text, topK)
	if err != nil {
		r.log.Printf("knowledge: query failed, continuing without context: %v", err)
		return []Snippet{}
	}
	if snippets == nil {
		snippets = []Snippet{}
	}
	if r.cache != nil {
		r.cache.Add(key, snippets)
	}
	return snippets
}

// AddDocument inserts a new document into the underlying store.
func (r *Retriever) AddDocument(ctx context.Context, text string, metadata map[string]string) (string, error) {
	if r == nil || r.store == nil {
		return "", fmt.Errorf("knowledge store not configured")
	}
	id, err := r.store.Insert(ctx, text, metadata)
	if err != nil {
		return "", err
	}
	if r.cache != nil {
		r.cache.Purge()
	}
	return id, nil
}

// Texts projects snippets onto their raw texts, in rank order.
func Texts(snippets []Snippet) []string {
	out := make([]string, 0, len(snippets))
	for _, s := range snippets {
		out = append(out, s.Text)
	}
	return out
}
