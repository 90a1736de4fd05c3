package metrics

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handler struct {
	prom http.Handler
}

func NewHandler() *Handler {
	return &Handler{prom: promhttp.Handler()}
}

// Metrics serves the Prometheus exposition format.
func (h *Handler) Metrics(c *gin.Context) {
	h.prom.ServeHTTP(c.Writer, c.Request)
}

func (h *Handler) Summary(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"broadcasts_total":      GetBroadcasts(),
		"broadcast_fails_total": GetBroadcastFails(),
		"active_connections":    GetActiveConnections(),
		"sse_connections":       GetSSEConnections(),
		"websocket_connections": GetWebSocketConnections(),
		"uptime_seconds":        int64(GetUptime() / time.Second),
	})
}

// Middleware records request counts and latency keyed by the matched route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		ObserveHTTP(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
