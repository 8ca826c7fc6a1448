package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Ledger metrics. Registered once at package load on the default registry
// and exposed through the router's /metrics endpoint.
var (
	AccountsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bankledger_accounts_created_total",
		Help: "Total number of accounts created",
	})

	TransfersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bankledger_transfers_created_total",
		Help: "Total number of committed transfers",
	})

	TransferErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bankledger_transfer_errors_total",
			Help: "Total number of failed transfers by error kind",
		},
		[]string{"kind"},
	)

	TransferDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bankledger_transfer_duration_seconds",
		Help:    "Duration of transfer operations including retries",
		Buckets: prometheus.DefBuckets,
	})

	TransferAmount = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bankledger_transfer_amount",
		Help:    "Transfer amounts in minor units",
		Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
	})

	EngineRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bankledger_engine_retries_total",
		Help: "Total number of transfer attempts re-run after a store conflict",
	})
)
