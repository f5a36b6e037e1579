package multicall

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	batches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tokenlists_multicall_batches_total",
			Help: "Total number of multicall eth_calls by result",
		}, []string{"result"})

	batchLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tokenlists_multicall_duration_seconds",
			Help:    "Latency of multicall eth_calls",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
		})
)
