package jikan

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/binhbb2204/Anime-Hub-Group13/pkg/models"
	"github.com/gin-gonic/gin"
)

// Queries shorter than this return nothing without calling upstream.
const MinSearchLength = 3

type Handler struct {
	source Source
}

func NewHandler(source Source) *Handler {
	return &Handler{source: source}
}

func (h *Handler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if len([]rune(query)) < MinSearchLength {
		c.JSON(http.StatusOK, gin.H{"results": []models.AnimeMeta{}, "total": 0})
		return
	}

	limit := DefaultSearchLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 25 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 25"})
			return
		}
		limit = n
	}

	results, err := h.source.Search(c.Request.Context(), query, limit)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Anime search is unavailable right now"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results, "total": len(results)})
}
