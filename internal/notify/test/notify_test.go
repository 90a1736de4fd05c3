package notify_test

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/binhbb2204/Anime-Hub-Group13/internal/auth"
	"github.com/binhbb2204/Anime-Hub-Group13/internal/notify"
	"github.com/binhbb2204/Anime-Hub-Group13/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrokerDeliversOnlyToOwner(t *testing.T) {
	b := notify.NewBroker()
	alice, stopAlice := b.Subscribe("alice")
	defer stopAlice()
	bob, stopBob := b.Subscribe("bob")
	defer stopBob()

	b.Publish("alice", notify.EventAnimeAdded, "Added Frieren", map[string]string{"id": "1"})

	select {
	case msg := <-alice:
		var ev notify.Event
		require.NoError(t, json.Unmarshal(msg, &ev))
		assert.Equal(t, notify.EventAnimeAdded, ev.Type)
		assert.Equal(t, "Added Frieren", ev.Message)
	case <-time.After(time.Second):
		t.Fatal("alice got nothing")
	}

	select {
	case msg := <-bob:
		t.Fatalf("bob received %s", msg)
	default:
	}
}

func TestBrokerPublishNeverBlocks(t *testing.T) {
	b := notify.NewBroker()
	_, stop := b.Subscribe("u1")
	defer stop()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			b.Publish("u1", notify.EventAnimeUpdated, "x", nil)
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	b := notify.NewBroker()
	_, stop := b.Subscribe("u1")
	assert.Equal(t, 1, b.ClientCount("u1"))
	stop()
	stop()
	assert.Equal(t, 0, b.ClientCount("u1"))
	assert.Equal(t, 0, b.TotalClients())
}

func TestWebSocketPushesUserEvents(t *testing.T) {
	gin.SetMode(gin.TestMode)
	secret := "test-secret"
	b := notify.NewBroker()
	ws := notify.NewWSServer(b, secret, auth.NewRevoker())

	r := gin.New()
	r.GET("/ws", ws.HandleWebSocket)
	srv := httptest.NewServer(r)
	defer srv.Close()

	token, err := utils.GenerateJWT("user-1", "watcher", secret)
	require.NoError(t, err)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, hello, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(hello), notify.EventConnected)

	require.Eventually(t, func() bool { return b.ClientCount("user-1") == 1 }, time.Second, 10*time.Millisecond)
	b.Publish("user-1", notify.EventAchievementUnlocked, "Unlocked", nil)

	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	var ev notify.Event
	require.NoError(t, json.Unmarshal(msg, &ev))
	assert.Equal(t, notify.EventAchievementUnlocked, ev.Type)
}

func TestWebSocketRejectsMissingToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ws := notify.NewWSServer(notify.NewBroker(), "s", nil)
	r := gin.New()
	r.GET("/ws", ws.HandleWebSocket)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/ws", nil))
	assert.Equal(t, 401, w.Code)
}
