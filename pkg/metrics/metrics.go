package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TransactionsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookkeeping_transactions_recorded_total",
			Help: "Total number of recorded transactions",
		},
		[]string{"type"},
	)

	StockMovements = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookkeeping_stock_movements_total",
			Help: "Total number of appended stock ledger entries",
		},
		[]string{"reason"},
	)

	ItemsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookkeeping_items_created_total",
			Help: "Total number of catalog items created",
		},
	)
)
