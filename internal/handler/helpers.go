package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/asrvd/video-indexing-and-search/internal/pkg/errcode"
	appErr "github.com/asrvd/video-indexing-and-search/internal/pkg/errors"
	"github.com/asrvd/video-indexing-and-search/internal/pkg/response"
)

func handleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	logutil.GetLogger(c.Request.Context()).Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	var idxErr *appErr.IndexingError
	switch {
	case errors.Is(err, appErr.ErrNotFound):
		response.Error(c, errcode.ErrNotFound, "not found")
	case errors.Is(err, appErr.ErrInvalidConfiguration):
		response.Error(c, errcode.ErrInvalid, "invalid request")
	case errors.Is(err, appErr.ErrTranscriptUnavailable):
		response.Error(c, errcode.ErrTranscriptUnavailable, "transcript unavailable")
	case errors.As(err, &idxErr):
		response.Error(c, errcode.ErrIndexingFailed, idxErr.Error())
	case errors.Is(err, appErr.ErrEmbeddingService):
		response.Error(c, errcode.ErrEmbeddingFailed, "embedding failed")
	case errors.Is(err, appErr.ErrQueryService):
		response.Error(c, errcode.ErrSearchFailed, "search failed")
	default:
		response.Error(c, errcode.ErrInternal, "internal error")
	}
}
