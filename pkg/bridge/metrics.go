package bridge

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	tokensResolved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tokenlists_bridge_tokens_resolved_total",
			Help: "Total number of origin tokens mapped to a target chain address",
		}, []string{"chain"})

	tokensDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tokenlists_bridge_tokens_dropped_total",
			Help: "Total number of origin tokens dropped by reason",
		}, []string{"chain", "reason"})

	generations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tokenlists_bridge_generations_total",
			Help: "Total number of bridged list generations by result",
		}, []string{"chain", "result"})
)
