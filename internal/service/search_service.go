package service

import (
	"context"
	"fmt"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/asrvd/video-indexing-and-search/internal/ai"
	"github.com/asrvd/video-indexing-and-search/internal/model"
	appErr "github.com/asrvd/video-indexing-and-search/internal/pkg/errors"
	"github.com/asrvd/video-indexing-and-search/internal/store"
)

type SearchService struct {
	embedder    ai.IEmbedder
	vectors     store.VectorStore
	defaultTopK int
}

func NewSearchService(embedder ai.IEmbedder, vectors store.VectorStore, defaultTopK int) *SearchService {
	if defaultTopK <= 0 {
		defaultTopK = 5
	}
	return &SearchService{embedder: embedder, vectors: vectors, defaultTopK: defaultTopK}
}

func (s *SearchService) DefaultTopK() int {
	return s.defaultTopK
}

// Search embeds the query and returns up to topK chunks ranked by descending
// cosine similarity, in the order the store returned them. An empty result
// set is a valid answer.
func (s *SearchService) Search(ctx context.Context, query string, topK int) ([]model.SearchResult, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", appErr.ErrInvalidConfiguration)
	}
	if topK <= 0 {
		return nil, fmt.Errorf("%w: top_k must be positive, got %d", appErr.ErrInvalidConfiguration, topK)
	}
	logger := logutil.GetLogger(ctx).With(zap.String("query", query), zap.Int("top_k", topK))

	vector, err := s.embedder.Embed(ctx, query, ai.TaskTypeQuery)
	if err != nil {
		logger.Error("failed to embed query", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", appErr.ErrQueryService, err)
	}
	matches, err := s.vectors.Query(ctx, vector, topK)
	if err != nil {
		logger.Error("vector query failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", appErr.ErrQueryService, err)
	}

	results := make([]model.SearchResult, 0, len(matches))
	for _, match := range matches {
		results = append(results, model.SearchResult{
			VideoID:        match.Meta.VideoID,
			Text:           match.Meta.Text,
			StartTime:      match.Meta.StartTime,
			EndTime:        match.Meta.EndTime,
			StartFormatted: match.Meta.StartFormatted,
			EndFormatted:   match.Meta.EndFormatted,
			Score:          match.Score,
		})
	}
	logger.Debug("search completed", zap.Int("results", len(results)))
	return results, nil
}
