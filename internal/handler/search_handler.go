package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/asrvd/video-indexing-and-search/internal/pkg/errcode"
	"github.com/asrvd/video-indexing-and-search/internal/pkg/response"
	"github.com/asrvd/video-indexing-and-search/internal/service"
)

const maxTopK = 100

type SearchHandler struct {
	search *service.SearchService
}

func NewSearchHandler(search *service.SearchService) *SearchHandler {
	return &SearchHandler{search: search}
}

func (h *SearchHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		response.Error(c, errcode.ErrInvalid, "query required")
		return
	}
	topK := h.search.DefaultTopK()
	if raw := c.Query("top_k"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			response.Error(c, errcode.ErrInvalid, "top_k must be a positive integer")
			return
		}
		topK = parsed
	}
	if topK > maxTopK {
		topK = maxTopK
	}
	results, err := h.search.Search(c.Request.Context(), query, topK)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"items": results})
}
