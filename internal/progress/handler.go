package progress

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/binhbb2204/Anime-Hub-Group13/internal/achievement"
	"github.com/binhbb2204/Anime-Hub-Group13/internal/animelist"
	"github.com/binhbb2204/Anime-Hub-Group13/internal/notify"
	"github.com/binhbb2204/Anime-Hub-Group13/pkg/logger"
	"github.com/binhbb2204/Anime-Hub-Group13/pkg/metrics"
	"github.com/binhbb2204/Anime-Hub-Group13/pkg/models"
	"github.com/gin-gonic/gin"
)

type PremiumChecker interface {
	IsPremium(ctx context.Context, userID string) (bool, error)
}

type Handler struct {
	progress     Store
	entries      animelist.Store
	achievements achievement.Store
	premium      PremiumChecker
	notifier     notify.Publisher
	log          *logger.Logger
}

func NewHandler(progress Store, entries animelist.Store, achievements achievement.Store, premium PremiumChecker, notifier notify.Publisher) *Handler {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	return &Handler{
		progress:     progress,
		entries:      entries,
		achievements: achievements,
		premium:      premium,
		notifier:     notifier,
		log:          logger.WithContext("component", "progress"),
	}
}

func (h *Handler) GetProgress(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.GetString("user_id")
	entry, err := h.entries.Get(ctx, userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, animelist.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Anime not found in your list"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load progress"})
		return
	}

	p, err := h.progress.Get(ctx, userID, entry.ID)
	if errors.Is(err, ErrNotFound) {
		total := 0
		if entry.Episodes != nil {
			total = *entry.Episodes
		}
		c.JSON(http.StatusOK, models.AnimeProgress{UserID: userID, AnimeListID: entry.ID, TotalEpisodes: total})
		return
	}
	if err != nil {
		h.log.Error("progress_fetch_failed", "user_id", userID, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load progress"})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) UpdateProgress(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.GetString("user_id")

	var req models.UpdateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.entries.Get(ctx, userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, animelist.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Anime not found in your list"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update progress"})
		return
	}

	total := 0
	switch {
	case req.TotalEpisodes != nil:
		total = *req.TotalEpisodes
	case entry.Episodes != nil:
		total = *entry.Episodes
	}

	p := models.AnimeProgress{UserID: userID, AnimeListID: entry.ID}
	if existing, err := h.progress.Get(ctx, userID, entry.ID); err == nil {
		p = *existing
	}
	Apply(&p, *req.CurrentEpisode, total, time.Now())

	saved, err := h.progress.Upsert(ctx, p)
	if err != nil {
		h.log.Error("progress_save_failed", "user_id", userID, "entry_id", entry.ID, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update progress"})
		return
	}

	resp := models.ProgressResponse{Progress: *saved}
	if saved.Completed {
		if entry.Status != models.StatusCompleted {
			if err := h.entries.SetStatus(ctx, userID, entry.ID, models.StatusCompleted); err != nil {
				h.log.Warn("progress_status_sync_failed", "entry_id", entry.ID, "error", err.Error())
			}
		}
		resp.AchievementAwarded = h.awardCompletion(ctx, userID, entry)
	}

	h.notifier.Publish(userID, notify.EventProgressUpdated, progressMessage(entry.Title, saved), saved)
	c.JSON(http.StatusOK, resp)
}

// awardCompletion records the per-anime completion achievement for premium
// users. Duplicates are ignored.
func (h *Handler) awardCompletion(ctx context.Context, userID string, entry *models.AnimeListEntry) bool {
	if h.premium == nil || h.achievements == nil {
		return false
	}
	premium, err := h.premium.IsPremium(ctx, userID)
	if err != nil || !premium {
		return false
	}

	animeID := entry.AnimeID
	if animeID == "" {
		animeID = entry.ID
	}
	added, err := h.achievements.Record(ctx, models.UserAchievement{
		UserID:          userID,
		AchievementType: achievement.Completion,
		AnimeID:         animeID,
		AnimeTitle:      entry.Title,
		AnimeIcon:       entry.Image,
	})
	if err != nil {
		h.log.Warn("completion_record_failed", "user_id", userID, "anime_id", animeID, "error", err.Error())
		return false
	}
	if added {
		metrics.AchievementsUnlocked.WithLabelValues(achievement.Completion).Inc()
		h.notifier.Publish(userID, notify.EventAchievementUnlocked, "You completed "+entry.Title+" and earned an achievement!", gin.H{"anime_id": animeID})
	}
	return added
}

func progressMessage(title string, p *models.AnimeProgress) string {
	if p.Completed {
		return "Completed " + title + "!"
	}
	return "Progress saved for " + title
}
