package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/didi/gendry/builder"
	"github.com/pgvector/pgvector-go"

	"github.com/asrvd/video-indexing-and-search/internal/model"
	"github.com/asrvd/video-indexing-and-search/internal/pkg/dbutil"
)

// PgVectorStore keeps chunk vectors in a Postgres table with a pgvector
// column. Similarity is cosine: ordering uses the <=> distance operator and
// the reported score is 1 - distance, so higher is closer.
type PgVectorStore struct {
	db *sql.DB
}

func NewPgVectorStore(conn *sql.DB) *PgVectorStore {
	return &PgVectorStore{db: conn}
}

func (s *PgVectorStore) Upsert(ctx context.Context, id string, ordinal int, vector []float32, meta model.ChunkMetadata) error {
	const query = `
		INSERT INTO transcript_chunks
			(id, video_id, ordinal, text, start_time, end_time, start_formatted, end_formatted, embedding, mtime)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			video_id = EXCLUDED.video_id,
			ordinal = EXCLUDED.ordinal,
			text = EXCLUDED.text,
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			start_formatted = EXCLUDED.start_formatted,
			end_formatted = EXCLUDED.end_formatted,
			embedding = EXCLUDED.embedding,
			mtime = EXCLUDED.mtime
	`
	_, err := s.db.ExecContext(ctx, query,
		id,
		meta.VideoID,
		ordinal,
		meta.Text,
		meta.StartTime,
		meta.EndTime,
		meta.StartFormatted,
		meta.EndFormatted,
		pgvector.NewVector(vector),
		time.Now().Unix(),
	)
	return err
}

func (s *PgVectorStore) Query(ctx context.Context, vector []float32, topK int) ([]Match, error) {
	const query = `
		SELECT video_id, text, start_time, end_time, start_formatted, end_formatted,
			1 - (embedding <=> $1) AS score
		FROM transcript_chunks
		ORDER BY embedding <=> $1
		LIMIT $2
	`
	rows, err := s.db.QueryContext(ctx, query, pgvector.NewVector(vector), topK)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var matches []Match
	for rows.Next() {
		var m Match
		if err := rows.Scan(
			&m.Meta.VideoID,
			&m.Meta.Text,
			&m.Meta.StartTime,
			&m.Meta.EndTime,
			&m.Meta.StartFormatted,
			&m.Meta.EndFormatted,
			&m.Score,
		); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func (s *PgVectorStore) DeleteVideo(ctx context.Context, videoID string) error {
	where := map[string]interface{}{"video_id": videoID}
	sqlStr, args, err := builder.BuildDelete("transcript_chunks", where)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = s.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (s *PgVectorStore) DeleteFrom(ctx context.Context, videoID string, fromOrdinal int) (int64, error) {
	where := map[string]interface{}{
		"video_id":   videoID,
		"ordinal >=": fromOrdinal,
	}
	sqlStr, args, err := builder.BuildDelete("transcript_chunks", where)
	if err != nil {
		return 0, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	res, err := s.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *PgVectorStore) CountByVideo(ctx context.Context, videoID string) (int, error) {
	const query = `SELECT COUNT(*) FROM transcript_chunks WHERE video_id = $1`
	row := s.db.QueryRowContext(ctx, query, videoID)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
