package tokenlist

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var listsWritten = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "tokenlists_lists_written_total",
		Help: "Total number of token list files written",
	})
