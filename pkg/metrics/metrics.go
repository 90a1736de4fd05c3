package metrics

import (
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "animehub_http_requests_total",
			Help: "HTTP requests by route, method and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "animehub_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// JikanRequestsTotal counts upstream metadata calls. outcome is one of
	// ok, error, cache_hit or circuit_open.
	JikanRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "animehub_jikan_requests_total",
			Help: "Calls to the anime metadata API",
		},
		[]string{"endpoint", "outcome"},
	)

	// JikanBreakerState is 0 closed, 1 half-open, 2 open.
	JikanBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "animehub_jikan_breaker_state",
			Help: "Circuit breaker state for the anime metadata API",
		},
	)

	RecommendationsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "animehub_recommendations_total",
			Help: "Recommendation results served, by source of the genre list",
		},
		[]string{"source"},
	)

	AchievementsUnlocked = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "animehub_achievements_unlocked_total",
			Help: "Achievements persisted for users",
		},
		[]string{"achievement"},
	)

	notificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "animehub_notifications_total",
			Help: "Notification deliveries to live streams",
		},
		[]string{"result"},
	)
)

var (
	broadcastsTotal     atomic.Int64
	broadcastFailsTotal atomic.Int64
	startedAt           = time.Now()
)

func ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func RecordJikan(endpoint, outcome string) {
	JikanRequestsTotal.WithLabelValues(endpoint, outcome).Inc()
}

func SetBreakerState(state int) {
	JikanBreakerState.Set(float64(state))
}

func IncrementBroadcasts() {
	broadcastsTotal.Add(1)
	notificationsTotal.WithLabelValues("delivered").Inc()
}

// IncrementBroadcastFails records a notification dropped because the
// subscriber's buffer was full.
func IncrementBroadcastFails() {
	broadcastFailsTotal.Add(1)
	notificationsTotal.WithLabelValues("dropped").Inc()
}

func GetBroadcasts() int64 {
	return broadcastsTotal.Load()
}

func GetBroadcastFails() int64 {
	return broadcastFailsTotal.Load()
}

func GetUptime() time.Duration {
	return time.Since(startedAt)
}

// Reset zeroes the in-process counters. Prometheus series are left alone.
func Reset() {
	broadcastsTotal.Store(0)
	broadcastFailsTotal.Store(0)
	resetConnections()
}
