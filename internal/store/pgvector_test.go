package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/asrvd/video-indexing-and-search/internal/config"
	"github.com/asrvd/video-indexing-and-search/internal/db"
	"github.com/asrvd/video-indexing-and-search/internal/model"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	host := os.Getenv("TEST_DB_HOST")
	if host == "" {
		t.Skip("TEST_DB_HOST not set, skipping postgres test")
	}
	conn, err := db.Open(config.DatabaseConfig{
		Host:     host,
		Port:     5432,
		User:     "vidsearch",
		Password: "vidsearch_pass",
		DBName:   "vidsearch_test",
		SSLMode:  "disable",
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.ApplyMigrations(conn); err != nil {
		t.Fatalf("migrations: %v", err)
	}
	t.Cleanup(func() {
		_, _ = conn.Exec(`DELETE FROM transcript_chunks WHERE video_id LIKE 'test_%'`)
		_ = conn.Close()
	})
	return conn
}

func testVector(seed float32) []float32 {
	v := make([]float32, 768)
	v[0] = seed
	v[1] = 1
	return v
}

func testMeta(videoID, text string) model.ChunkMetadata {
	return model.ChunkMetadata{
		VideoID:        videoID,
		Text:           text,
		StartTime:      0,
		EndTime:        5.5,
		StartFormatted: "0:00:00",
		EndFormatted:   "0:00:05",
	}
}

func TestPgVectorStore_UpsertIsIdempotent(t *testing.T) {
	conn := openTestDB(t)
	s := NewPgVectorStore(conn)
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, "test_vid_chunk_0", 0, testVector(1), testMeta("test_vid", "first")))
	require.NoError(t, s.Upsert(ctx, "test_vid_chunk_0", 0, testVector(1), testMeta("test_vid", "rewritten")))

	count, err := s.CountByVideo(ctx, "test_vid")
	require.NoError(t, err)
	require.Equal(t, 1, count)

	matches, err := s.Query(ctx, testVector(1), 5)
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	require.Equal(t, "rewritten", matches[0].Meta.Text)
}

func TestPgVectorStore_QueryRanksByCosineSimilarity(t *testing.T) {
	conn := openTestDB(t)
	s := NewPgVectorStore(conn)
	ctx := context.Background()

	near := testVector(1)
	far := testVector(-1)
	require.NoError(t, s.Upsert(ctx, "test_rank_chunk_0", 0, near, testMeta("test_rank", "near")))
	require.NoError(t, s.Upsert(ctx, "test_rank_chunk_1", 1, far, testMeta("test_rank", "far")))

	matches, err := s.Query(ctx, near, 2)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	require.Equal(t, "near", matches[0].Meta.Text)
	if matches[0].Score < matches[1].Score {
		t.Fatalf("scores not descending: %v then %v", matches[0].Score, matches[1].Score)
	}
}

func TestPgVectorStore_DeleteFrom(t *testing.T) {
	conn := openTestDB(t)
	s := NewPgVectorStore(conn)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		require.NoError(t, s.Upsert(ctx, chunkTestID("test_del", i), i, testVector(float32(i)), testMeta("test_del", "chunk")))
	}
	removed, err := s.DeleteFrom(ctx, "test_del", 2)
	require.NoError(t, err)
	require.Equal(t, int64(2), removed)

	count, err := s.CountByVideo(ctx, "test_del")
	require.NoError(t, err)
	require.Equal(t, 2, count)
}

func chunkTestID(videoID string, ordinal int) string {
	return fmt.Sprintf("%s_chunk_%d", videoID, ordinal)
}
