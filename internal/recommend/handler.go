package recommend

import (
	"context"
	"net/http"

	"github.com/binhbb2204/Anime-Hub-Group13/pkg/logger"
	"github.com/binhbb2204/Anime-Hub-Group13/pkg/models"
	"github.com/gin-gonic/gin"
)

type EntryLister interface {
	List(ctx context.Context, userID string, status *models.AnimeStatus) ([]models.AnimeListEntry, error)
}

type PremiumChecker interface {
	IsPremium(ctx context.Context, userID string) (bool, error)
}

type Handler struct {
	engine  *Engine
	entries EntryLister
	premium PremiumChecker
	log     *logger.Logger
}

func NewHandler(engine *Engine, entries EntryLister, premium PremiumChecker) *Handler {
	return &Handler{
		engine:  engine,
		entries: entries,
		premium: premium,
		log:     logger.WithContext("component", "recommend"),
	}
}

// GetRecommendations is premium only. Other users get the empty structure
// flagged with premium_required.
func (h *Handler) GetRecommendations(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.GetString("user_id")

	premium, err := h.premium.IsPremium(ctx, userID)
	if err != nil {
		h.log.Warn("premium_lookup_failed", "user_id", userID, "error", err.Error())
	}
	if !premium {
		res := models.EmptyRecommendationResult()
		res.PremiumRequired = true
		c.JSON(http.StatusOK, res)
		return
	}

	entries, err := h.entries.List(ctx, userID, nil)
	if err != nil {
		h.log.Warn("recommend_list_failed", "user_id", userID, "error", err.Error())
		entries = nil
	}
	c.JSON(http.StatusOK, h.engine.Recommend(ctx, entries))
}

// GetGenres summarises the user's taste for the profile page.
func (h *Handler) GetGenres(c *gin.Context) {
	userID := c.GetString("user_id")
	entries, err := h.entries.List(c.Request.Context(), userID, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load anime list"})
		return
	}
	titles := make([]string, 0, len(entries))
	for _, e := range entries {
		titles = append(titles, e.Title)
	}
	c.JSON(http.StatusOK, gin.H{"genres": TopGenres(titles, ProfileGenreCount)})
}
