package job

import (
	"context"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/asrvd/video-indexing-and-search/internal/repo"
	"github.com/asrvd/video-indexing-and-search/internal/store"
)

// StaleChunkCleanupJob removes chunk rows whose ordinal is past the video's
// recorded chunk count. Such rows appear when the in-line cleanup after a
// re-index fails; this sweep is the backstop.
type StaleChunkCleanupJob struct {
	videos  *repo.VideoRepo
	vectors store.VectorStore
}

func NewStaleChunkCleanupJob(videos *repo.VideoRepo, vectors store.VectorStore) *StaleChunkCleanupJob {
	return &StaleChunkCleanupJob{videos: videos, vectors: vectors}
}

func (j *StaleChunkCleanupJob) Name() string {
	return "stale_chunk_cleanup"
}

func (j *StaleChunkCleanupJob) Run(ctx context.Context) error {
	if j.videos == nil || j.vectors == nil {
		return nil
	}
	videos, err := j.videos.List(ctx)
	if err != nil {
		return err
	}
	logger := logutil.GetLogger(ctx)
	var total int64
	for _, video := range videos {
		removed, err := j.vectors.DeleteFrom(ctx, video.ID, video.ChunkCount)
		if err != nil {
			logger.Error("stale chunk sweep failed for video",
				zap.String("video_id", video.ID),
				zap.Error(err),
			)
			continue
		}
		if removed > 0 {
			logger.Info("removed stale chunks",
				zap.String("video_id", video.ID),
				zap.Int64("removed", removed),
			)
		}
		total += removed
	}
	if total > 0 {
		logger.Info("stale chunk sweep done", zap.Int64("total_removed", total))
	}
	return nil
}
