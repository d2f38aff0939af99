package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/asrvd/video-indexing-and-search/internal/pkg/errcode"
	"github.com/asrvd/video-indexing-and-search/internal/pkg/response"
	"github.com/asrvd/video-indexing-and-search/internal/service"
	"github.com/asrvd/video-indexing-and-search/internal/transcript"
)

type VideoHandler struct {
	index *service.IndexService
}

func NewVideoHandler(index *service.IndexService) *VideoHandler {
	return &VideoHandler{index: index}
}

type indexVideoRequest struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

func (h *VideoHandler) Index(c *gin.Context) {
	var req indexVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	videoID, err := transcript.ExtractVideoID(req.URL)
	if err != nil {
		response.Error(c, errcode.ErrInvalid, "unrecognized video url")
		return
	}
	summary, err := h.index.IndexVideo(c.Request.Context(), videoID, req.Title)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, summary)
}

func (h *VideoHandler) List(c *gin.Context) {
	videos, err := h.index.ListVideos(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"items": videos})
}

func (h *VideoHandler) Delete(c *gin.Context) {
	videoID := c.Param("id")
	if videoID == "" {
		response.Error(c, errcode.ErrInvalid, "video id required")
		return
	}
	if err := h.index.DeleteVideo(c.Request.Context(), videoID); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": videoID})
}
