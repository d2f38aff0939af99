package embedcache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type countingEmbedder struct {
	calls int
}

func (c *countingEmbedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	c.calls++
	return []float32{float32(len(text)), 0.5}, nil
}

func (c *countingEmbedder) ModelName() string {
	return "counting-model"
}

func TestLruEmbedder_CachesRepeatedText(t *testing.T) {
	backend := &countingEmbedder{}
	embedder := WrapLruCacheToEmbedder(backend, 16, time.Minute)

	first, err := embedder.Embed(context.Background(), "same text", "RETRIEVAL_DOCUMENT")
	require.NoError(t, err)
	second, err := embedder.Embed(context.Background(), "same text", "RETRIEVAL_DOCUMENT")
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, 1, backend.calls)
}

func TestLruEmbedder_TaskTypeSeparatesEntries(t *testing.T) {
	backend := &countingEmbedder{}
	embedder := WrapLruCacheToEmbedder(backend, 16, time.Minute)

	_, err := embedder.Embed(context.Background(), "query text", "RETRIEVAL_DOCUMENT")
	require.NoError(t, err)
	_, err = embedder.Embed(context.Background(), "query text", "RETRIEVAL_QUERY")
	require.NoError(t, err)

	require.Equal(t, 2, backend.calls)
}

func TestLruEmbedder_CachedVectorIsIsolated(t *testing.T) {
	backend := &countingEmbedder{}
	embedder := WrapLruCacheToEmbedder(backend, 16, time.Minute)

	first, err := embedder.Embed(context.Background(), "text", "RETRIEVAL_DOCUMENT")
	require.NoError(t, err)
	first[0] = -999

	second, err := embedder.Embed(context.Background(), "text", "RETRIEVAL_DOCUMENT")
	require.NoError(t, err)
	if second[0] == -999 {
		t.Fatal("cache returned a shared slice")
	}
}

func TestWrapLruCacheToEmbedder_DisabledPassthrough(t *testing.T) {
	backend := &countingEmbedder{}
	require.Equal(t, backend, WrapLruCacheToEmbedder(backend, 0, time.Minute))
	require.Equal(t, backend, WrapLruCacheToEmbedder(backend, 16, 0))
}
