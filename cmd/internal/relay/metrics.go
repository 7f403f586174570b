package relay

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	connectionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "raggate_relay_connections_total",
		Help: "WebSocket connections accepted.",
	})

	messagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "raggate_relay_messages_total",
		Help: "Relayed queries by outcome.",
	}, []string{"outcome"})
)
