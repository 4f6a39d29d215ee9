package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "autofolio_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "autofolio_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	saveOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "autofolio_save_operations_total",
		Help: "Count of item save operations by kind and result",
	}, []string{"kind", "result"})

	reorderOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "autofolio_reorder_operations_total",
		Help: "Count of reorder operations by kind and result",
	}, []string{"kind", "result"})

	publicViews = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "autofolio_public_views_total",
		Help: "Count of public projection reads by kind",
	}, []string{"kind"})

	authFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "autofolio_auth_failures_total",
		Help: "Count of rejected credentials by failure class",
	}, []string{"reason"})

	resumeImports = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "autofolio_resume_imports_total",
		Help: "Count of resume parse/import attempts by result",
	}, []string{"result"})

	messagesNotified = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "autofolio_messages_notified_total",
		Help: "Count of contact-message notification e-mails by result",
	}, []string{"result"})

	pendingNotifications = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "autofolio_pending_notifications",
		Help: "Messages waiting for a notification e-mail (last sweep)",
	})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveSave increments the save counter for the given kind and result.
func ObserveSave(kind, result string) {
	saveOperations.WithLabelValues(kind, result).Inc()
}

// ObserveReorder increments the reorder counter for the given kind and result.
func ObserveReorder(kind, result string) {
	reorderOperations.WithLabelValues(kind, result).Inc()
}

// ObservePublicView increments the public projection counter.
func ObservePublicView(kind string) {
	publicViews.WithLabelValues(kind).Inc()
}

// ObserveAuthFailure increments the rejected-credential counter.
func ObserveAuthFailure(reason string) {
	authFailures.WithLabelValues(reason).Inc()
}

// ObserveResumeImport records a resume parse/import attempt.
func ObserveResumeImport(result string) {
	resumeImports.WithLabelValues(result).Inc()
}

// ObserveNotification records a notification e-mail attempt.
func ObserveNotification(result string) {
	messagesNotified.WithLabelValues(result).Inc()
}

// SetPendingNotifications sets the pending-notification gauge.
func SetPendingNotifications(count int) {
	if count < 0 {
		count = 0
	}
	pendingNotifications.Set(float64(count))
}
