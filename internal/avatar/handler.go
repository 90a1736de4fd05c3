package avatar

import (
	"context"
	"database/sql"
	"fmt"
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

type ProfileStore interface {
	SetAvatar(ctx context.Context, userID, url string) error
}

type SQLProfileStore struct {
	db *sql.DB
}

func NewSQLProfileStore(db *sql.DB) *SQLProfileStore {
	return &SQLProfileStore{db: db}
}

func (s *SQLProfileStore) SetAvatar(ctx context.Context, userID, url string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE users SET avatar_url = ? WHERE id = ?`, url, userID)
	if err != nil {
		return fmt.Errorf("set avatar: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

type Handler struct {
	store    ObjectStore
	entries  EntryLister
	premium  PremiumChecker
	profiles ProfileStore
	log      *logger.Logger
}

func NewHandler(store ObjectStore, entries EntryLister, premium PremiumChecker, profiles ProfileStore) *Handler {
	return &Handler{
		store:    store,
		entries:  entries,
		premium:  premium,
		profiles: profiles,
		log:      logger.WithContext("component", "avatar"),
	}
}

// options evaluates the gate fresh from the current list and subscription.
func (h *Handler) options(ctx context.Context, userID string) ([]models.AvatarOption, bool, error) {
	free, err := h.store.List(ctx, FreePrefix)
	if err != nil {
		return nil, false, err
	}
	premiumIcons, err := h.store.List(ctx, PremiumPrefix)
	if err != nil {
		return nil, false, err
	}

	isPremium, err := h.premium.IsPremium(ctx, userID)
	if err != nil {
		h.log.Warn("premium_lookup_failed", "user_id", userID, "error", err.Error())
		isPremium = false
	}

	st := models.StatusCompleted
	completed, err := h.entries.List(ctx, userID, &st)
	if err != nil {
		return nil, false, err
	}
	return BuildOptions(h.store, free, premiumIcons, isPremium, CompletedSet(completed)), isPremium, nil
}

func (h *Handler) ListAvatars(c *gin.Context) {
	userID := c.GetString("user_id")
	opts, _, err := h.options(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("avatar_list_failed", "user_id", userID, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load avatars"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"avatars": opts})
}

type progressItem struct {
	Filename   string `json:"filename"`
	URL        string `json:"url"`
	AnimeID    string `json:"anime_id"`
	AnimeTitle string `json:"anime_title"`
	Completed  bool   `json:"completed"`
	IsUnlocked bool   `json:"is_unlocked"`
}

// GetProgress lists premium icons tied to an anime and whether each is earned.
// Free users get an empty list.
func (h *Handler) GetProgress(c *gin.Context) {
	userID := c.GetString("user_id")
	opts, isPremium, err := h.options(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("avatar_progress_failed", "user_id", userID, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load avatar progress"})
		return
	}

	items := []progressItem{}
	unlocked := 0
	if isPremium {
		for _, o := range opts {
			if !o.IsPremium || o.AnimeID == "" {
				continue
			}
			items = append(items, progressItem{
				Filename:   o.Filename,
				URL:        o.URL,
				AnimeID:    o.AnimeID,
				AnimeTitle: o.AnimeTitle,
				Completed:  o.IsUnlocked,
				IsUnlocked: o.IsUnlocked,
			})
			if o.IsUnlocked {
				unlocked++
			}
		}
	}
	c.JSON(http.StatusOK, gin.H{"progress": items, "unlocked": unlocked, "total": len(items)})
}

func (h *Handler) SetAvatar(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.GetString("user_id")

	var req models.UpdateAvatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	opts, _, err := h.options(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load avatars"})
		return
	}

	var chosen *models.AvatarOption
	for i := range opts {
		if opts[i].URL == req.URL {
			chosen = &opts[i]
			break
		}
	}
	if chosen == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown avatar"})
		return
	}
	if !chosen.IsUnlocked {
		c.JSON(http.StatusForbidden, gin.H{"error": "Avatar is locked"})
		return
	}

	if err := h.profiles.SetAvatar(ctx, userID, chosen.URL); err != nil {
		h.log.Error("avatar_update_failed", "user_id", userID, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update avatar"})
		return
	}
	h.log.Info("avatar_updated", "user_id", userID, "avatar", chosen.Filename)
	c.JSON(http.StatusOK, gin.H{"message": "Avatar updated", "avatar_url": chosen.URL})
}
