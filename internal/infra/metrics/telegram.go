package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		telegramUpdatesTotal,
		telegramAccessChecksTotal,
		telegramCommandsTotal,
		telegramOutboundErrorsTotal,
		telegramHandlerDuration,
		telegramUpdatesDroppedTotal,
	)
}

var (
	telegramUpdatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telegram_updates_total",
			Help: "Inbound updates by event kind.",
		},
		[]string{"kind"}, // message, callback, inline_query, unknown
	)

	telegramAccessChecksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telegram_access_checks_total",
			Help: "Membership gate decisions.",
		},
		[]string{"result"}, // granted, denied, error
	)

	telegramCommandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telegram_commands_total",
			Help: "Commands received from authorized users.",
		},
		[]string{"command"}, // help, start, unknown
	)

	telegramOutboundErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telegram_outbound_errors_total",
			Help: "Failed Bot API calls by method.",
		},
		[]string{"method"},
	)

	telegramHandlerDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "telegram_handler_duration_seconds",
			Help:    "Time spent handling one update.",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"kind", "success"},
	)

	telegramUpdatesDroppedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "telegram_updates_dropped_total",
			Help: "Updates rejected because the worker queue was full.",
		},
	)
)

func IncUpdate(kind string) {
	telegramUpdatesTotal.WithLabelValues(norm(kind)).Inc()
}

func IncAccessCheck(result string) {
	telegramAccessChecksTotal.WithLabelValues(norm(result)).Inc()
}

func IncCommand(command string) {
	telegramCommandsTotal.WithLabelValues(norm(command)).Inc()
}

func IncOutboundError(method string) {
	telegramOutboundErrorsTotal.WithLabelValues(method).Inc()
}

func ObserveHandler(kind string, took time.Duration, success bool) {
	s := "true"
	if !success {
		s = "false"
	}
	telegramHandlerDuration.WithLabelValues(norm(kind), s).Observe(took.Seconds())
}

func IncUpdateDropped() {
	telegramUpdatesDroppedTotal.Inc()
}
