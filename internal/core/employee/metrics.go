package employee

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	hierarchyMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hierarchy",
		Subsystem: "engine",
		Name:      "mutations_total",
		Help:      "Total number of hierarchy mutations broken down by operation and result.",
	}, []string{"op", "result"})

	hierarchyRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hierarchy",
		Subsystem: "engine",
		Name:      "rejections_total",
		Help:      "Total number of rejected hierarchy operations broken down by reason.",
	}, []string{"reason"})

	hierarchyForestNodes = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "hierarchy",
		Subsystem: "forest",
		Name:      "nodes",
		Help:      "Number of employees materialized per forest build.",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
	})
)

func recordMutation(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	hierarchyMutations.WithLabelValues(op, result).Inc()
	if err != nil {
		hierarchyRejections.WithLabelValues(rejectionReason(err)).Inc()
	}
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, ErrValidationFailed):
		return "validation"
	case errors.Is(err, ErrDuplicateEmployeeID):
		return "duplicate_employee_id"
	case errors.Is(err, ErrDuplicateEmail):
		return "duplicate_email"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrSelfReference):
		return "self_reference"
	case errors.Is(err, ErrCycleDetected):
		return "cycle"
	case errors.Is(err, ErrBackingStoreUnavailable):
		return "unavailable"
	default:
		return "other"
	}
}
