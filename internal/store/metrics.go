package store

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics.
var (
	storeOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movie_store_operations_total",
			Help: "Total number of movie store operations by outcome",
		},
		[]string{"operation", "result"},
	)

	storeRecords = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "movie_store_records",
			Help: "Number of movies held by the store",
		},
		[]string{"path"},
	)
)

// resultLabel maps an operation error to a low-cardinality metric label.
func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrDuplicateKey):
		return "duplicate"
	case errors.Is(err, ErrEmptyStore):
		return "empty"
	case errors.Is(err, ErrNoNeighbor):
		return "boundary"
	case errors.Is(err, ErrIDMismatch):
		return "id_mismatch"
	case errors.Is(err, ErrPersistence):
		return "persistence_error"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}

func observe(operation string, err error) {
	storeOperationsTotal.WithLabelValues(operation, resultLabel(err)).Inc()
}
