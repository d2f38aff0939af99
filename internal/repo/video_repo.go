package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"
	"github.com/jmoiron/sqlx"

	"github.com/asrvd/video-indexing-and-search/internal/model"
	"github.com/asrvd/video-indexing-and-search/internal/pkg/dbutil"
	appErr "github.com/asrvd/video-indexing-and-search/internal/pkg/errors"
)

type VideoRepo struct {
	db *sql.DB
}

func NewVideoRepo(conn *sql.DB) *VideoRepo {
	return &VideoRepo{db: conn}
}

func (r *VideoRepo) Upsert(ctx context.Context, video *model.Video) error {
	const query = `
		INSERT INTO videos (id, title, chunk_count, chunk_size, ctime, mtime)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			chunk_count = EXCLUDED.chunk_count,
			chunk_size = EXCLUDED.chunk_size,
			mtime = EXCLUDED.mtime
	`
	_, err := r.db.ExecContext(ctx, query,
		video.ID,
		video.Title,
		video.ChunkCount,
		video.ChunkSize,
		video.Ctime,
		video.Mtime,
	)
	return err
}

func (r *VideoRepo) Get(ctx context.Context, videoID string) (*model.Video, error) {
	where := map[string]interface{}{"id": videoID}
	sqlStr, args, err := builder.BuildSelect("videos", where, []string{"id", "title", "chunk_count", "chunk_size", "ctime", "mtime"})
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	row := r.db.QueryRowContext(ctx, sqlStr, args...)
	var video model.Video
	if err := row.Scan(&video.ID, &video.Title, &video.ChunkCount, &video.ChunkSize, &video.Ctime, &video.Mtime); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErr.ErrNotFound
		}
		return nil, err
	}
	return &video, nil
}

func (r *VideoRepo) List(ctx context.Context) ([]model.Video, error) {
	where := map[string]interface{}{"_orderby": "mtime desc"}
	sqlStr, args, err := builder.BuildSelect("videos", where, []string{"id", "title", "chunk_count", "chunk_size", "ctime", "mtime"})
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var videos []model.Video
	for rows.Next() {
		var video model.Video
		if err := rows.Scan(&video.ID, &video.Title, &video.ChunkCount, &video.ChunkSize, &video.Ctime, &video.Mtime); err != nil {
			return nil, err
		}
		videos = append(videos, video)
	}
	return videos, rows.Err()
}

func (r *VideoRepo) ListByIDs(ctx context.Context, videoIDs []string) (map[string]model.Video, error) {
	if len(videoIDs) == 0 {
		return map[string]model.Video{}, nil
	}
	query := `SELECT id, title, chunk_count, chunk_size, ctime, mtime FROM videos WHERE id IN (?)`
	query, args, err := sqlx.In(query, videoIDs)
	if err != nil {
		return nil, err
	}
	query = sqlx.Rebind(sqlx.DOLLAR, query)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make(map[string]model.Video)
	for rows.Next() {
		var video model.Video
		if err := rows.Scan(&video.ID, &video.Title, &video.ChunkCount, &video.ChunkSize, &video.Ctime, &video.Mtime); err != nil {
			return nil, err
		}
		result[video.ID] = video
	}
	return result, rows.Err()
}

func (r *VideoRepo) Delete(ctx context.Context, videoID string) error {
	where := map[string]interface{}{"id": videoID}
	sqlStr, args, err := builder.BuildDelete("videos", where)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}
