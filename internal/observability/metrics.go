package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	controlRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "refereectl",
			Subsystem: "control",
			Name:      "requests_total",
			Help:      "Remote-control requests by outcome.",
		},
		[]string{"outcome"},
	)
	controlDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "refereectl",
			Subsystem: "control",
			Name:      "request_duration_seconds",
			Help:      "Validate-and-apply duration per request.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)
	commandsApplied = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "refereectl",
			Subsystem: "control",
			Name:      "commands_total",
			Help:      "Accepted referee commands by name.",
		},
		[]string{"command"},
	)
	activeSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "refereectl",
			Subsystem: "control",
			Name:      "sessions_active",
			Help:      "Open remote-control connections.",
		},
	)
	broadcastDrops = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "refereectl",
			Subsystem: "broadcast",
			Name:      "subscribers_dropped_total",
			Help:      "Subscribers dropped for not keeping up.",
		},
		[]string{"subscriber"},
	)
	detectionFrames = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "refereectl",
			Subsystem: "vision",
			Name:      "frames_total",
			Help:      "Detection frames ingested per camera.",
		},
		[]string{"camera"},
	)
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "refereectl",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total admin HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "refereectl",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Admin HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			controlRequests, controlDuration, commandsApplied, activeSessions,
			broadcastDrops, detectionFrames, httpRequests, httpDuration,
		)
	})
}

func RecordControlRequest(outcome string, duration time.Duration) {
	RegisterMetrics()
	controlRequests.WithLabelValues(outcome).Inc()
	controlDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

func RecordCommandApplied(command string) {
	RegisterMetrics()
	commandsApplied.WithLabelValues(command).Inc()
}

func SessionOpened() {
	RegisterMetrics()
	activeSessions.Inc()
}

func SessionClosed() {
	RegisterMetrics()
	activeSessions.Dec()
}

func RecordBroadcastDrop(subscriber string) {
	RegisterMetrics()
	broadcastDrops.WithLabelValues(subscriber).Inc()
}

func RecordDetectionFrame(cameraID uint32) {
	RegisterMetrics()
	detectionFrames.WithLabelValues(strconv.FormatUint(uint64(cameraID), 10)).Inc()
}

func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(method, path, statusLabel).Observe(duration.Seconds())
}
