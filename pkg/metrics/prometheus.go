package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	AuditEventsLogged   prometheus.Counter
	AuditWriteFailures  prometheus.Counter
	AssetUploads        prometheus.Counter
	AssetDeleteFailures prometheus.Counter
	LogsPurged          prometheus.Counter
	RequestDuration     *prometheus.HistogramVec
	ErrorsCount         *prometheus.CounterVec
}

// NewMetrics creates new prometheus metrics
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		AuditEventsLogged: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_events_logged_total",
			Help:      "The total number of activity-log entries written",
		}),
		AuditWriteFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_write_failures_total",
			Help:      "The total number of activity-log writes that failed and were swallowed",
		}),
		AssetUploads: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "asset_uploads_total",
			Help:      "The total number of images uploaded to the asset store",
		}),
		AssetDeleteFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "asset_delete_failures_total",
			Help:      "The total number of best-effort asset deletions that failed",
		}),
		LogsPurged: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "command_logs_purged_total",
			Help:      "The total number of command logs removed by the retention job",
		}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Time taken to serve HTTP requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "status"}),
		ErrorsCount: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "The total number of errors",
		}, []string{"operation"}),
	}
}
