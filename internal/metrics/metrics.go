package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// VINDecodes counts decode attempts by outcome:
	// ok, bad_length, incomplete, bad_year, error, stale.
	VINDecodes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "garage_vin_decodes_total",
			Help: "Total number of VIN decode attempts by result.",
		},
		[]string{"result"},
	)

	VINDecodeLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "garage_vin_decode_latency_seconds",
			Help:    "Latency of vPIC DecodeVin lookups.",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Estimates counts estimate calculations: ok, invalid_year, no_services.
	Estimates = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "garage_estimates_total",
			Help: "Total number of estimate calculations by result.",
		},
		[]string{"result"},
	)

	// EstimatesSent counts outbound estimate deliveries by channel and status.
	EstimatesSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "garage_estimates_sent_total",
			Help: "Total number of estimates delivered through Twilio or SendGrid.",
		},
		[]string{"channel", "status"},
	)

	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "garage_active_sessions",
			Help: "Number of estimator sessions currently held in memory.",
		},
	)
)

func init() {
	prometheus.MustRegister(VINDecodes, VINDecodeLatency, Estimates, EstimatesSent, ActiveSessions)
}
