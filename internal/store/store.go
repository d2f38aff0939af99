package store

import (
	"context"

	"github.com/asrvd/video-indexing-and-search/internal/model"
)

// Match is one hit from a similarity query, ranked by descending score.
type Match struct {
	Meta  model.ChunkMetadata
	Score float32
}

// VectorStore is the nearest-neighbor index the pipeline writes to and
// queries. Upsert overwrites any existing vector at the same id, which is
// what makes re-indexing a video idempotent.
type VectorStore interface {
	Upsert(ctx context.Context, id string, ordinal int, vector []float32, meta model.ChunkMetadata) error
	Query(ctx context.Context, vector []float32, topK int) ([]Match, error)
	DeleteVideo(ctx context.Context, videoID string) error
	// DeleteFrom removes chunks of a video at or beyond the given ordinal,
	// clearing stale entries left behind when a re-index produced fewer chunks.
	DeleteFrom(ctx context.Context, videoID string, fromOrdinal int) (int64, error)
	CountByVideo(ctx context.Context, videoID string) (int, error)
}
