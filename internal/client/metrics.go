package client

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the Prometheus collectors for API calls.
type Metrics struct {
	Requests      *prometheus.CounterVec
	Duration      *prometheus.HistogramVec
	DigestOmitted prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "channels_requests_total",
			Help: "Total signed API requests sent",
		}, []string{"method", "endpoint", "status"}),
		Duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "channels_request_duration_seconds",
			Help:    "Latency distribution of signed API requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "endpoint"}),
		DigestOmitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "channels_body_digest_omitted_total",
			Help: "Requests signed without body_md5 because the primitive lacks MD5",
		}),
	}
}
