package metrics

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var activeStreams = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "animehub_active_streams",
		Help: "Open notification streams by transport",
	},
	[]string{"transport"},
)

var (
	sseConnections       atomic.Int64
	websocketConnections atomic.Int64
)

func counterFor(transport string) *atomic.Int64 {
	switch transport {
	case "sse":
		return &sseConnections
	case "websocket":
		return &websocketConnections
	}
	return nil
}

func IncrementConnectionCount(transport string) {
	if c := counterFor(transport); c != nil {
		c.Add(1)
		activeStreams.WithLabelValues(transport).Inc()
	}
}

func DecrementConnectionCount(transport string) {
	if c := counterFor(transport); c != nil {
		c.Add(-1)
		activeStreams.WithLabelValues(transport).Dec()
	}
}

func GetSSEConnections() int64 {
	return sseConnections.Load()
}

func GetWebSocketConnections() int64 {
	return websocketConnections.Load()
}

func GetActiveConnections() int64 {
	return sseConnections.Load() + websocketConnections.Load()
}

func resetConnections() {
	sseConnections.Store(0)
	websocketConnections.Store(0)
	activeStreams.Reset()
}
