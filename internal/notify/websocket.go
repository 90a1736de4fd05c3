package notify

import (
	"net/http"
	"time"

	"github.com/binhbb2204/Anime-Hub-Group13/internal/auth"
	"github.com/binhbb2204/Anime-Hub-Group13/pkg/logger"
	"github.com/binhbb2204/Anime-Hub-Group13/pkg/metrics"
	"github.com/binhbb2204/Anime-Hub-Group13/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	pingPeriod     = 30 * time.Second
	pongWait       = 60 * time.Second
	writeWait      = 10 * time.Second
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WSServer struct {
	broker    *Broker
	jwtSecret string
	revoked   *auth.Revoker
}

func NewWSServer(broker *Broker, jwtSecret string, revoked *auth.Revoker) *WSServer {
	return &WSServer{broker: broker, jwtSecret: jwtSecret, revoked: revoked}
}

// HandleWebSocket authenticates with ?token= since browsers cannot set
// headers on the upgrade request.
func (s *WSServer) HandleWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token required"})
		return
	}
	claims, err := utils.ValidateJWT(token, s.jwtSecret)
	if err != nil || (s.revoked != nil && s.revoked.IsRevoked(claims.ID)) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Error("ws_upgrade_failed", "error", err.Error())
		return
	}

	messages, unsubscribe := s.broker.Subscribe(claims.UserID)
	metrics.IncrementConnectionCount("websocket")
	logger.Debug("ws_client_connected", "user_id", claims.UserID)

	closed := make(chan struct{})
	go readPump(conn, closed)
	writePump(conn, messages, closed)

	unsubscribe()
	metrics.DecrementConnectionCount("websocket")
	logger.Debug("ws_client_disconnected", "user_id", claims.UserID)
}

// readPump drains client frames so pongs and close frames are processed.
func readPump(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)
	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func writePump(conn *websocket.Conn, messages <-chan []byte, closed <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	if hello, err := encodeEvent(EventConnected, "Connected to AnimeHub notifications", nil); err == nil {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, hello); err != nil {
			return
		}
	}

	for {
		select {
		case <-closed:
			return
		case msg, ok := <-messages:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
