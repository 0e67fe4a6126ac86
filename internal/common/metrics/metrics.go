// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QueriesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_queries_processed_total",
			Help: "Total number of queries processed, by intent",
		},
		[]string{"intent"},
	)

	QueriesFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_queries_failed_total",
			Help: "Total number of failed queries, by intent and error code",
		},
		[]string{"intent", "error_code"},
	)

	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "assistant_query_duration_seconds",
			Help: "Duration of query processing in seconds",
		},
		[]string{"intent"},
	)

	ErpCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_erp_calls_total",
			Help: "Total number of ERP gateway calls, by resource and method",
		},
		[]string{"resource", "method"},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "assistant_active_sessions",
			Help: "Number of active user sessions",
		},
	)
)
