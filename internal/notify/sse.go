package notify

import (
	"fmt"
	"net/http"
	"time"

	"github.com/binhbb2204/Anime-Hub-Group13/pkg/metrics"
	"github.com/gin-gonic/gin"
)

var HeartbeatInterval = 30 * time.Second

// ServeSSE streams the signed-in user's events as Server-Sent Events.
func (b *Broker) ServeSSE(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	messages, unsubscribe := b.Subscribe(userID)
	defer unsubscribe()
	metrics.IncrementConnectionCount("sse")
	defer metrics.DecrementConnectionCount("sse")

	if hello, err := encodeEvent(EventConnected, "Connected to AnimeHub notifications", nil); err == nil {
		fmt.Fprintf(c.Writer, "data: %s\n\n", hello)
		c.Writer.Flush()
	}

	ticker := time.NewTicker(HeartbeatInterval)
	defer ticker.Stop()

	done := c.Request.Context().Done()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if hb, err := encodeEvent(EventHeartbeat, "", nil); err == nil {
				fmt.Fprintf(c.Writer, "data: %s\n\n", hb)
				c.Writer.Flush()
			}
		case msg, ok := <-messages:
			if !ok {
				return
			}
			fmt.Fprintf(c.Writer, "data: %s\n\n", msg)
			c.Writer.Flush()
		}
	}
}
