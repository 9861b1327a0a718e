package knowledge

import (
	"context"
	"errors"
	"log"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryStore_QueryRanksByDistance(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, Seed(ctx, s))

	out, err := s.Query(ctx, "uart serial baud rate", 2)
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Contains(t, out[0].Text, "UART")
	require.LessOrEqual(t, out[0].Distance, out[1].Distance)
}

func TestMemoryStore_TopKBoundsResults(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, Seed(ctx, s))

	out, err := s.Query(ctx, "protocol", 1)
	require.NoError(t, err)
	require.Len(t, out, 1)
}

func TestMemoryStore_InsertAssignsSequentialIDs(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	id1, err := s.Insert(ctx, "first doc", nil)
	require.NoError(t, err)
	id2, err := s.Insert(ctx, "second doc", nil)
	require.NoError(t, err)
	require.Equal(t, "doc_1", id1)
	require.Equal(t, "doc_2", id2)
}

func TestSeed_Idempotent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, Seed(ctx, s))
	require.NoError(t, Seed(ctx, s))

	n, err := s.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, len(seedDocs), n)
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "kb.db"))
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, Seed(ctx, s))
	n, err := s.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, len(seedDocs), n)

	out, err := s.Query(ctx, "clock gating power", 3)
	require.NoError(t, err)
	require.Len(t, out, 3)
	require.Contains(t, out[0].Text, "PPA")
	require.Equal(t, "optimization", out[0].Metadata["type"])
}

type failingStore struct{}

func (failingStore) Query(context.Context, string, int) ([]Snippet, error) {
	return nil, errors.New("index unavailable")
}
func (failingStore) Insert(context.Context, string, map[string]string) (string, error) {
	return "", errors.New("index unavailable")
}
func (failingStore) Count(context.Context) (int, error) { return 0, errors.New("index unavailable") }
func (failingStore) Close() error                       { return nil }

func TestRetriever_DegradesToEmptyOnStoreFailure(t *testing.T) {
	r := NewRetriever(failingStore{}, log.New(nopWriter{}, "", 0))
	out := r.Retrieve(context.Background(), "axi burst", 3)
	require.NotNil(t, out)
	require.Empty(t, out)
}

func TestRetriever_CachesQueries(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, Seed(ctx, s))
	r := NewRetriever(s, nil)

	first := r.Retrieve(ctx, "uart", 2)
	// A later insert is invisible to the cached query until purge.
	_, err := s.Insert(ctx, "uart receiver oversampling at 16x baud", map[string]string{"type": "note"})
	require.NoError(t, err)
	second := r.Retrieve(ctx, "uart", 2)
	require.Equal(t, first, second)

	// AddDocument through the retriever purges the cache.
	_, err = r.AddDocument(ctx, "uart flow control with rts cts", nil)
	require.NoError(t, err)
	third := r.Retrieve(ctx, "uart", 2)
	require.NotEqual(t, first, third)
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
