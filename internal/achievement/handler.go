package achievement

import (
	"context"
	"net/http"

	"github.com/binhbb2204/Anime-Hub-Group13/internal/notify"
	"github.com/binhbb2204/Anime-Hub-Group13/pkg/logger"
	"github.com/binhbb2204/Anime-Hub-Group13/pkg/metrics"
	"github.com/binhbb2204/Anime-Hub-Group13/pkg/models"
	"github.com/gin-gonic/gin"
)

const dashboardPreview = 4

type EntryLister interface {
	List(ctx context.Context, userID string, status *models.AnimeStatus) ([]models.AnimeListEntry, error)
}

type PremiumChecker interface {
	IsPremium(ctx context.Context, userID string) (bool, error)
}

type Handler struct {
	entries  EntryLister
	store    Store
	premium  PremiumChecker
	notifier notify.Publisher
	log      *logger.Logger
}

func NewHandler(entries EntryLister, store Store, premium PremiumChecker, notifier notify.Publisher) *Handler {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	return &Handler{
		entries:  entries,
		store:    store,
		premium:  premium,
		notifier: notifier,
		log:      logger.WithContext("component", "achievement"),
	}
}

func (h *Handler) GetStats(c *gin.Context) {
	userID := c.GetString("user_id")
	all, err := h.entries.List(c.Request.Context(), userID, nil)
	if err != nil {
		h.log.Error("stats_list_failed", "user_id", userID, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load statistics"})
		return
	}

	stats := ComputeStats(all)
	resp := models.DashboardStats{
		TotalCompleted:    stats.TotalCompleted,
		TotalWatching:     stats.TotalWatching,
		TotalPlanned:      stats.TotalPlanned,
		TotalHours:        stats.TotalHours,
		AverageRating:     stats.AverageRating,
		Level:             Level(stats.TotalCompleted),
		NextLevelProgress: NextLevelProgress(stats.TotalCompleted),
		RecentCompleted:   []models.AnimeListEntry{},
		Planned:           []models.AnimeListEntry{},
	}
	for _, e := range all {
		if e.Status == models.StatusCompleted && len(resp.RecentCompleted) < dashboardPreview {
			resp.RecentCompleted = append(resp.RecentCompleted, e)
		}
		if e.Status == models.StatusPlanToWatch && len(resp.Planned) < dashboardPreview {
			resp.Planned = append(resp.Planned, e)
		}
	}
	c.JSON(http.StatusOK, resp)
}

// GetAchievements evaluates the table and records anything newly met so a
// later drop in counts cannot take it away.
func (h *Handler) GetAchievements(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.GetString("user_id")

	all, err := h.entries.List(ctx, userID, nil)
	if err != nil {
		h.log.Error("achievements_list_failed", "user_id", userID, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load achievements"})
		return
	}
	records, err := h.store.List(ctx, userID)
	if err != nil {
		h.log.Error("achievements_records_failed", "user_id", userID, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load achievements"})
		return
	}
	isPremium := false
	if h.premium != nil {
		if isPremium, err = h.premium.IsPremium(ctx, userID); err != nil {
			h.log.Warn("premium_lookup_failed", "user_id", userID, "error", err.Error())
		}
	}

	unlocked := make(map[string]bool, len(records))
	for _, r := range records {
		unlocked[r.AchievementType] = true
	}

	statuses := Evaluate(ComputeStats(all), unlocked, isPremium)
	for i, s := range statuses {
		if !s.IsAchieved || !s.CanUnlock || s.Recorded {
			continue
		}
		added, err := h.store.Record(ctx, models.UserAchievement{UserID: userID, AchievementType: s.ID})
		if err != nil {
			h.log.Warn("achievement_record_failed", "user_id", userID, "achievement", s.ID, "error", err.Error())
			continue
		}
		statuses[i].Recorded = true
		if added {
			metrics.AchievementsUnlocked.WithLabelValues(s.ID).Inc()
			h.notifier.Publish(userID, notify.EventAchievementUnlocked, "Achievement unlocked: "+s.Name, s.Definition)
		}
	}

	unlockedCount := 0
	for _, s := range statuses {
		if s.IsUnlocked {
			unlockedCount++
		}
	}

	completions := []models.UserAchievement{}
	for _, r := range records {
		if r.AchievementType == Completion {
			completions = append(completions, r)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"achievements":   statuses,
		"completions":    completions,
		"unlocked_count": unlockedCount,
		"total":          len(statuses),
		"is_premium":     isPremium,
	})
}
