// Package metrics exposes Prometheus instrumentation for the poll
// engine. Collectors register against the default registry; serve them
// with promhttp.Handler().
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "livepoll",
		Name:      "connections_active",
		Help:      "Currently open websocket connections.",
	})

	ConnectionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "livepoll",
		Name:      "connections_total",
		Help:      "Total websocket connections accepted.",
	})

	CommandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "livepoll",
		Name:      "commands_total",
		Help:      "Inbound client commands processed, by event.",
	}, []string{"event"})

	CommandsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "livepoll",
		Name:      "commands_dropped_total",
		Help:      "Inbound commands silently dropped, by reason.",
	}, []string{"reason"})

	BroadcastsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "livepoll",
		Name:      "broadcasts_total",
		Help:      "Events fanned out to all connections.",
	})

	MessagesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "livepoll",
		Name:      "messages_dropped_total",
		Help:      "Outbound messages dropped because a client's send buffer was full.",
	})

	PollsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "livepoll",
		Name:      "polls_created_total",
		Help:      "Polls started by a moderator.",
	})

	PollsClosed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "livepoll",
		Name:      "polls_closed_total",
		Help:      "Polls closed and archived.",
	})

	AnswersRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "livepoll",
		Name:      "answers_recorded_total",
		Help:      "Answers accepted into the live tally.",
	})
)
