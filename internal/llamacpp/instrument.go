package llamacpp

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	upstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "llamamcp",
			Subsystem: "upstream",
			Name:      "requests_total",
			Help:      "Total number of requests issued to llama-server",
		},
		[]string{"path", "status"},
	)

	upstreamRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "llamamcp",
			Subsystem: "upstream",
			Name:      "request_duration_seconds",
			Help:      "Duration of llama-server requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"path"},
	)
)

func init() {
	prometheus.MustRegister(upstreamRequestsTotal, upstreamRequestDuration)
}

// observeRequest records one upstream round trip. status is the
// numeric HTTP status, or "error" when no response arrived.
func observeRequest(path, status string, dur time.Duration) {
	upstreamRequestsTotal.WithLabelValues(path, status).Inc()
	upstreamRequestDuration.WithLabelValues(path).Observe(dur.Seconds())
}
