package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

// Upstream reports the metadata API breaker state. An open breaker degrades
// search and recommendations but does not make the service unready.
type Upstream interface {
	BreakerState() string
}

type Handler struct {
	db       Pinger
	upstream Upstream
}

func NewHandler(db Pinger, upstream Upstream) *Handler {
	return &Handler{db: db, upstream: upstream}
}

func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}

func (h *Handler) Readyz(c *gin.Context) {
	if h.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "reason": "database_not_initialized"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.db.PingContext(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "reason": "database_ping_failed"})
		return
	}

	resp := gin.H{"status": "ready"}
	if h.upstream != nil {
		resp["jikan"] = h.upstream.BreakerState()
	}
	c.JSON(http.StatusOK, resp)
}
