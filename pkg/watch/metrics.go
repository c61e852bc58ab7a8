package watch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricPollTicks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kubeterm",
			Name:      "watch_poll_ticks_total",
			Help:      "Poll queries issued against the external system",
		},
		[]string{"final_state"},
	)

	metricCompletions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kubeterm",
			Name:      "watch_completions_total",
			Help:      "Poller completions by outcome",
		},
		[]string{"outcome"},
	)

	metricActivePollers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "kubeterm",
			Name:      "watch_active_pollers",
			Help:      "Pollers currently tracking a resource",
		},
	)
)
