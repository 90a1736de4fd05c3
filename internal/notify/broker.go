package notify

import (
	"sync"
	"time"

	"github.com/binhbb2204/Anime-Hub-Group13/pkg/metrics"
	"github.com/goccy/go-json"
)

const (
	EventConnected           = "connected"
	EventHeartbeat           = "heartbeat"
	EventAnimeAdded          = "anime_added"
	EventAnimeUpdated        = "anime_updated"
	EventAnimeRemoved        = "anime_removed"
	EventProgressUpdated     = "progress_updated"
	EventAchievementUnlocked = "achievement_unlocked"
	EventSubscriptionChanged = "subscription_changed"
)

const clientBuffer = 16

type Event struct {
	Type      string      `json:"type"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// Publisher is what feature handlers depend on.
type Publisher interface {
	Publish(userID, eventType, message string, data interface{})
}

// Broker fans events out to every open stream of one user.
type Broker struct {
	mu      sync.RWMutex
	clients map[string]map[chan []byte]struct{}
}

func NewBroker() *Broker {
	return &Broker{clients: make(map[string]map[chan []byte]struct{})}
}

// Subscribe registers a stream for userID. The returned func must be called
// once the stream ends.
func (b *Broker) Subscribe(userID string) (<-chan []byte, func()) {
	ch := make(chan []byte, clientBuffer)
	b.mu.Lock()
	set, ok := b.clients[userID]
	if !ok {
		set = make(map[chan []byte]struct{})
		b.clients[userID] = set
	}
	set[ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			if set, ok := b.clients[userID]; ok {
				delete(set, ch)
				if len(set) == 0 {
					delete(b.clients, userID)
				}
			}
			close(ch)
			b.mu.Unlock()
		})
	}
}

// Publish never blocks: a full client buffer drops the event for that client.
func (b *Broker) Publish(userID, eventType, message string, data interface{}) {
	payload, err := encodeEvent(eventType, message, data)
	if err != nil {
		return
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.clients[userID] {
		select {
		case ch <- payload:
			metrics.IncrementBroadcasts()
		default:
			metrics.IncrementBroadcastFails()
		}
	}
}

func (b *Broker) ClientCount(userID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients[userID])
}

func (b *Broker) TotalClients() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n := 0
	for _, set := range b.clients {
		n += len(set)
	}
	return n
}

func encodeEvent(eventType, message string, data interface{}) ([]byte, error) {
	return json.Marshal(Event{
		Type:      eventType,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().Unix(),
	})
}

// Discard is a Publisher that drops everything.
type Discard struct{}

func (Discard) Publish(string, string, string, interface{}) {}
