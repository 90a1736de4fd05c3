package animelist

import (
	"errors"
	"net/http"

	"github.com/binhbb2204/Anime-Hub-Group13/internal/notify"
	"github.com/binhbb2204/Anime-Hub-Group13/pkg/logger"
	"github.com/binhbb2204/Anime-Hub-Group13/pkg/models"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	store    Store
	notifier notify.Publisher
	log      *logger.Logger
}

func NewHandler(store Store, notifier notify.Publisher) *Handler {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	return &Handler{
		store:    store,
		notifier: notifier,
		log:      logger.WithContext("component", "animelist"),
	}
}

// GetList returns the user's entries, newest first. With ?grouped=true the
// entries come back split by status.
func (h *Handler) GetList(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var filter *models.AnimeStatus
	if raw := c.Query("status"); raw != "" {
		st, err := models.ParseAnimeStatus(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		filter = &st
	}

	entries, err := h.store.List(c.Request.Context(), userID, filter)
	if err != nil {
		h.log.Error("list_fetch_failed", "user_id", userID, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load anime list"})
		return
	}

	if c.Query("grouped") == "true" {
		c.JSON(http.StatusOK, Group(entries))
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries, "total": len(entries)})
}

func (h *Handler) GetEntry(c *gin.Context) {
	userID := c.GetString("user_id")
	entry, err := h.store.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *Handler) AddAnime(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req models.AddAnimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.store.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.log.Info("anime_added", "user_id", userID, "entry_id", entry.ID, "status", string(entry.Status))
	h.notifier.Publish(userID, notify.EventAnimeAdded, "Added "+entry.Title+" to your list", entry)
	c.JSON(http.StatusCreated, entry)
}

func (h *Handler) UpdateAnime(c *gin.Context) {
	userID := c.GetString("user_id")
	var req models.UpdateAnimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.store.Update(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.notifier.Publish(userID, notify.EventAnimeUpdated, "Updated "+entry.Title, entry)
	c.JSON(http.StatusOK, entry)
}

func (h *Handler) RemoveAnime(c *gin.Context) {
	userID := c.GetString("user_id")
	id := c.Param("id")
	if err := h.store.Delete(c.Request.Context(), userID, id); err != nil {
		h.writeError(c, err)
		return
	}

	h.log.Info("anime_removed", "user_id", userID, "entry_id", id)
	h.notifier.Publish(userID, notify.EventAnimeRemoved, "Removed from your list", gin.H{"id": id})
	c.JSON(http.StatusOK, gin.H{"message": "Anime removed from list"})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Anime not found in your list"})
	case errors.Is(err, models.ErrInvalidStatus), errors.Is(err, ErrEmptyTitle):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.log.Error("list_store_failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update anime list"})
	}
}
