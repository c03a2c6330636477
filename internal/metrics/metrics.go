// Package metrics holds the prometheus instrumentation for the backend.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AllocationsSubmitted counts medicine allocations that were accepted.
	AllocationsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "munisuite",
		Subsystem: "medicine",
		Name:      "allocations_submitted_total",
		Help:      "Total number of accepted medicine allocation submissions",
	})

	// ItemsRejected counts request items that were rejected or referred, by status.
	ItemsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "munisuite",
		Subsystem: "medicine",
		Name:      "request_items_closed_total",
		Help:      "Total number of request items rejected or referred",
	}, []string{"status"})

	// SchedulesAutoArchived counts waste collection schedules archived because
	// their date has passed.
	SchedulesAutoArchived = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "munisuite",
		Subsystem: "waste",
		Name:      "schedules_auto_archived_total",
		Help:      "Total number of waste collection schedules archived automatically",
	})
)
