package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/asrvd/video-indexing-and-search/internal/model"
	appErr "github.com/asrvd/video-indexing-and-search/internal/pkg/errors"
)

func captionEntries(n int) []model.CaptionEntry {
	entries := make([]model.CaptionEntry, 0, n)
	for i := 0; i < n; i++ {
		entries = append(entries, model.CaptionEntry{
			Text:     fmt.Sprintf("caption line %d", i),
			Start:    float64(i) * 2,
			Duration: 2,
		})
	}
	return entries
}

func TestChunkID(t *testing.T) {
	require.Equal(t, "abc123_chunk_0", ChunkID("abc123", 0))
	require.Equal(t, "abc123_chunk_7", ChunkID("abc123", 7))
}

func TestIndexVideo(t *testing.T) {
	fetcher := &fakeFetcher{entries: map[string][]model.CaptionEntry{
		"vid1": captionEntries(7),
	}}
	vectors := newMemStore()
	catalog := newMemCatalog()
	svc := NewIndexService(fetcher, &hashEmbedder{}, vectors, catalog, nil, 3, 2)

	summary, err := svc.IndexVideo(context.Background(), "vid1", "test video")
	require.NoError(t, err)
	require.Equal(t, "vid1", summary.VideoID)
	require.Equal(t, 3, summary.ChunkCount)

	require.Equal(t, []string{"vid1_chunk_0", "vid1_chunk_1", "vid1_chunk_2"}, vectors.ids())

	video, err := catalog.Get(context.Background(), "vid1")
	require.NoError(t, err)
	require.Equal(t, "test video", video.Title)
	require.Equal(t, 3, video.ChunkCount)
	require.Equal(t, 3, video.ChunkSize)
}

func TestIndexVideoIdempotent(t *testing.T) {
	fetcher := &fakeFetcher{entries: map[string][]model.CaptionEntry{
		"vid1": captionEntries(6),
	}}
	vectors := newMemStore()
	svc := NewIndexService(fetcher, &hashEmbedder{}, vectors, newMemCatalog(), nil, 3, 2)

	_, err := svc.IndexVideo(context.Background(), "vid1", "v")
	require.NoError(t, err)
	first := vectors.ids()

	_, err = svc.IndexVideo(context.Background(), "vid1", "v")
	require.NoError(t, err)
	require.Equal(t, first, vectors.ids())
}

func TestIndexVideoRemovesStaleChunks(t *testing.T) {
	fetcher := &fakeFetcher{entries: map[string][]model.CaptionEntry{
		"vid1": captionEntries(9),
	}}
	vectors := newMemStore()
	catalog := newMemCatalog()
	svc := NewIndexService(fetcher, &hashEmbedder{}, vectors, catalog, nil, 3, 2)

	_, err := svc.IndexVideo(context.Background(), "vid1", "v")
	require.NoError(t, err)
	count, err := vectors.CountByVideo(context.Background(), "vid1")
	require.NoError(t, err)
	require.Equal(t, 3, count)

	// Shorter transcript on re-index, leftover ordinals must go away.
	fetcher.entries["vid1"] = captionEntries(3)
	summary, err := svc.IndexVideo(context.Background(), "vid1", "v")
	require.NoError(t, err)
	require.Equal(t, 1, summary.ChunkCount)
	require.Equal(t, int64(2), summary.Removed)
	require.Equal(t, []string{"vid1_chunk_0"}, vectors.ids())
}

func TestIndexVideoEmptyTranscript(t *testing.T) {
	fetcher := &fakeFetcher{entries: map[string][]model.CaptionEntry{
		"vid1": {},
	}}
	vectors := newMemStore()
	svc := NewIndexService(fetcher, &hashEmbedder{}, vectors, newMemCatalog(), nil, 3, 2)

	summary, err := svc.IndexVideo(context.Background(), "vid1", "v")
	require.NoError(t, err)
	require.Equal(t, 0, summary.ChunkCount)
	count, err := vectors.CountByVideo(context.Background(), "vid1")
	require.NoError(t, err)
	require.Equal(t, 0, count)
}

func TestIndexVideoTranscriptUnavailable(t *testing.T) {
	svc := NewIndexService(&fakeFetcher{}, &hashEmbedder{}, newMemStore(), newMemCatalog(), nil, 3, 2)
	_, err := svc.IndexVideo(context.Background(), "missing", "v")
	require.True(t, appErr.IsTranscriptUnavailable(err))
}

func TestIndexVideoEmbedFailureReportsOrdinal(t *testing.T) {
	entries := captionEntries(9)
	fetcher := &fakeFetcher{entries: map[string][]model.CaptionEntry{"vid1": entries}}
	embedder := &hashEmbedder{
		// Fail the second chunk's text.
		failOn: entries[3].Text + " " + entries[4].Text + " " + entries[5].Text,
	}
	svc := NewIndexService(fetcher, embedder, newMemStore(), newMemCatalog(), nil, 3, 1)

	_, err := svc.IndexVideo(context.Background(), "vid1", "v")
	require.Error(t, err)
	var idxErr *appErr.IndexingError
	require.ErrorAs(t, err, &idxErr)
	require.Equal(t, "vid1", idxErr.VideoID)
	require.Equal(t, 1, idxErr.Ordinal)
}

func TestDeleteVideo(t *testing.T) {
	fetcher := &fakeFetcher{entries: map[string][]model.CaptionEntry{
		"vid1": captionEntries(6),
	}}
	vectors := newMemStore()
	catalog := newMemCatalog()
	svc := NewIndexService(fetcher, &hashEmbedder{}, vectors, catalog, nil, 3, 2)

	_, err := svc.IndexVideo(context.Background(), "vid1", "v")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteVideo(context.Background(), "vid1"))
	require.Empty(t, vectors.ids())
	_, err = catalog.Get(context.Background(), "vid1")
	require.ErrorIs(t, err, appErr.ErrNotFound)

	err = svc.DeleteVideo(context.Background(), "vid1")
	require.ErrorIs(t, err, appErr.ErrNotFound)
}
