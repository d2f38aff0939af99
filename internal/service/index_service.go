package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/asrvd/video-indexing-and-search/internal/ai"
	"github.com/asrvd/video-indexing-and-search/internal/chunker"
	"github.com/asrvd/video-indexing-and-search/internal/filestore"
	"github.com/asrvd/video-indexing-and-search/internal/model"
	appErr "github.com/asrvd/video-indexing-and-search/internal/pkg/errors"
	"github.com/asrvd/video-indexing-and-search/internal/store"
	"github.com/asrvd/video-indexing-and-search/internal/transcript"
)

// videoCatalog is the subset of the video repo the indexer needs.
type videoCatalog interface {
	Upsert(ctx context.Context, video *model.Video) error
	Get(ctx context.Context, videoID string) (*model.Video, error)
	List(ctx context.Context) ([]model.Video, error)
	Delete(ctx context.Context, videoID string) error
}

type IndexSummary struct {
	VideoID    string `json:"video_id"`
	ChunkCount int    `json:"chunk_count"`
	Removed    int64  `json:"removed_stale_chunks"`
}

type IndexService struct {
	fetcher   transcript.Fetcher
	embedder  ai.IEmbedder
	vectors   store.VectorStore
	videos    videoCatalog
	archive   filestore.Store
	chunkSize int
	workers   int
}

func NewIndexService(
	fetcher transcript.Fetcher,
	embedder ai.IEmbedder,
	vectors store.VectorStore,
	videos videoCatalog,
	archive filestore.Store,
	chunkSize int,
	workers int,
) *IndexService {
	if chunkSize <= 0 {
		chunkSize = chunker.DefaultChunkSize
	}
	if workers <= 0 {
		workers = 4
	}
	return &IndexService{
		fetcher:   fetcher,
		embedder:  embedder,
		vectors:   vectors,
		videos:    videos,
		archive:   archive,
		chunkSize: chunkSize,
		workers:   workers,
	}
}

// IndexVideo fetches a video's transcript, chunks it and upserts one vector
// per chunk. Chunk ids are <video_id>_chunk_<ordinal>, so re-running with the
// same chunk size overwrites in place. Stale chunks past the new count are
// deleted after a successful run; partial progress on failure is not rolled
// back.
func (s *IndexService) IndexVideo(ctx context.Context, videoID string, title string) (*IndexSummary, error) {
	logger := logutil.GetLogger(ctx).With(zap.String("video_id", videoID))

	entries, err := s.fetcher.Fetch(ctx, videoID)
	if err != nil {
		logger.Error("failed to fetch transcript", zap.Error(err))
		return nil, err
	}
	s.archiveTranscript(ctx, videoID, entries)

	chunks, err := chunker.Chunk(entries, s.chunkSize)
	if err != nil {
		return nil, err
	}
	logger.Info("indexing transcript",
		zap.Int("entries", len(entries)),
		zap.Int("chunks", len(chunks)),
		zap.Int("chunk_size", s.chunkSize),
	)

	if err := s.indexChunks(ctx, videoID, chunks); err != nil {
		logger.Error("indexing failed", zap.Error(err))
		return nil, err
	}

	removed, err := s.vectors.DeleteFrom(ctx, videoID, len(chunks))
	if err != nil {
		logger.Warn("stale chunk cleanup failed, cron sweep will retry", zap.Error(err))
		removed = 0
	}

	now := time.Now().Unix()
	ctime := now
	if prior, err := s.videos.Get(ctx, videoID); err == nil {
		ctime = prior.Ctime
	}
	if err := s.videos.Upsert(ctx, &model.Video{
		ID:         videoID,
		Title:      title,
		ChunkCount: len(chunks),
		ChunkSize:  s.chunkSize,
		Ctime:      ctime,
		Mtime:      now,
	}); err != nil {
		return nil, fmt.Errorf("record video %s: %w", videoID, err)
	}

	logger.Info("video indexed", zap.Int("chunks", len(chunks)), zap.Int64("removed_stale", removed))
	return &IndexSummary{VideoID: videoID, ChunkCount: len(chunks), Removed: removed}, nil
}

type chunkFailure struct {
	ordinal int
	err     error
}

// indexChunks runs the embed+upsert loop over a bounded worker pool. The
// first failure cancels the remaining work; its ordinal is reported so the
// caller knows where coverage stops.
func (s *IndexService) indexChunks(ctx context.Context, videoID string, chunks []model.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	workers := s.workers
	if workers > len(chunks) {
		workers = len(chunks)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan int)
	failures := make(chan chunkFailure, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ordinal := range jobs {
				if err := s.indexOne(ctx, videoID, ordinal, chunks[ordinal]); err != nil {
					failures <- chunkFailure{ordinal: ordinal, err: err}
					cancel()
					return
				}
			}
		}()
	}

feed:
	for i := range chunks {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()
	close(failures)

	var first *chunkFailure
	for failure := range failures {
		failure := failure
		if first == nil || failure.ordinal < first.ordinal {
			first = &failure
		}
	}
	if first != nil {
		return &appErr.IndexingError{VideoID: videoID, Ordinal: first.ordinal, Err: first.err}
	}
	// No recorded failure but the context died: the caller cancelled while
	// chunks were still queued. Surface it rather than report a clean run.
	if err := ctx.Err(); err != nil {
		return &appErr.IndexingError{VideoID: videoID, Ordinal: -1, Err: err}
	}
	return nil
}

func (s *IndexService) indexOne(ctx context.Context, videoID string, ordinal int, chunk model.Chunk) error {
	vector, err := s.embedder.Embed(ctx, chunk.Text, ai.TaskTypeDocument)
	if err != nil {
		return err
	}
	meta := model.ChunkMetadata{
		VideoID:        videoID,
		Text:           chunk.Text,
		StartTime:      chunk.StartTime,
		EndTime:        chunk.EndTime,
		StartFormatted: chunk.StartFormatted,
		EndFormatted:   chunk.EndFormatted,
	}
	return s.vectors.Upsert(ctx, ChunkID(videoID, ordinal), ordinal, vector, meta)
}

func (s *IndexService) archiveTranscript(ctx context.Context, videoID string, entries []model.CaptionEntry) {
	if s.archive == nil {
		return
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return
	}
	if err := s.archive.Save(ctx, videoID+".json", data); err != nil {
		logutil.GetLogger(ctx).Warn("failed to archive transcript",
			zap.String("video_id", videoID),
			zap.Error(err),
		)
	}
}

func (s *IndexService) ListVideos(ctx context.Context) ([]model.Video, error) {
	return s.videos.List(ctx)
}

func (s *IndexService) DeleteVideo(ctx context.Context, videoID string) error {
	if _, err := s.videos.Get(ctx, videoID); err != nil {
		return err
	}
	if err := s.vectors.DeleteVideo(ctx, videoID); err != nil {
		return fmt.Errorf("delete vectors for video %s: %w", videoID, err)
	}
	return s.videos.Delete(ctx, videoID)
}
