// Package metrics holds the Prometheus collectors for Telegram traffic and
// the listener that exposes them together with a health probe.
package metrics

import (
	"github.com/m3rciful/groupbot/core/buildinfo"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// updatesTotal counts incoming updates by kind (message, callback, other).
	updatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tg_updates_total",
			Help: "Total number of Telegram updates received.",
		},
		[]string{"kind"},
	)

	// handlerTotal counts finished handler runs. Handler names come from the
	// registry, so cardinality is bounded by registered routes.
	handlerTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tg_handler_total",
			Help: "Total number of handled updates by handler and outcome.",
		},
		[]string{"handler", "outcome"},
	)

	handlerDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tg_handler_duration_seconds",
			Help:    "Duration of Telegram handlers in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"handler"},
	)

	messagesSent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tg_messages_sent_total",
			Help: "Total number of messages sent or edited by handlers.",
		},
	)

	buildInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "groupbot_build_info",
			Help: "Build metadata; the value is always 1.",
		},
		[]string{"version", "commit"},
	)
)

func init() {
	prometheus.MustRegister(updatesTotal, handlerTotal, handlerDuration, messagesSent, buildInfo)
	buildInfo.WithLabelValues(buildinfo.Version, buildinfo.Commit).Set(1)
}

// ObserveUpdate counts one incoming update of the given kind.
func ObserveUpdate(kind string) {
	if kind == "" {
		kind = "other"
	}
	updatesTotal.WithLabelValues(kind).Inc()
}

// ObserveHandler records a finished handler run.
func ObserveHandler(handler, outcome string, seconds float64) {
	handlerTotal.WithLabelValues(handler, outcome).Inc()
	handlerDuration.WithLabelValues(handler).Observe(seconds)
}

// ObserveMessageSent counts one outgoing message.
func ObserveMessageSent() {
	messagesSent.Inc()
}
