package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BusinessMetrics holds Prometheus metrics for business-level observability.
// Quote metrics carry a domain label ("curtains" or "tile").
type BusinessMetrics struct {
	// Quoting funnel
	QuotePreviews       *prometheus.CounterVec
	QuotationsFinalized *prometheus.CounterVec
	QuotationValue      *prometheus.HistogramVec
	InvalidPricingLines *prometheus.CounterVec

	// Delivery
	PDFsRendered *prometheus.CounterVec
	EmailsSent   prometheus.Counter
	EmailsFailed prometheus.Counter

	// Background jobs
	JobsProcessed *prometheus.CounterVec
	JobsFailed    *prometheus.CounterVec
	JobDuration   *prometheus.HistogramVec
}

// NewBusinessMetrics creates and registers all business metrics.
func NewBusinessMetrics(namespace string) *BusinessMetrics {
	if namespace == "" {
		namespace = "quoteworks"
	}

	subsystem := "business"

	return &BusinessMetrics{
		QuotePreviews: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "quote_previews_total",
			Help:      "Pricing previews computed, by domain",
		}, []string{"domain"}),

		QuotationsFinalized: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "quotations_finalized_total",
			Help:      "Quotations finalized and persisted, by domain",
		}, []string{"domain"}),

		QuotationValue: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "quotation_value",
			Help:      "Grand total of finalized quotations, by domain",
			Buckets:   []float64{100, 250, 500, 1000, 2500, 5000, 10000, 25000, 50000},
		}, []string{"domain"}),

		InvalidPricingLines: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "invalid_pricing_lines_total",
			Help:      "Quote lines rejected by the pricing validity gate, by reason",
		}, []string{"reason"}),

		PDFsRendered: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "pdfs_rendered_total",
			Help:      "Quotation PDFs rendered, by domain",
		}, []string{"domain"}),

		EmailsSent: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "emails_sent_total",
			Help:      "Quotation emails sent successfully",
		}),

		EmailsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "emails_failed_total",
			Help:      "Quotation emails that failed to send",
		}),

		JobsProcessed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "jobs_processed_total",
			Help:      "Background jobs processed successfully, by type",
		}, []string{"type"}),

		JobsFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "jobs_failed_total",
			Help:      "Background jobs that failed, by type",
		}, []string{"type"}),

		JobDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "job_duration_seconds",
			Help:      "Background job processing duration, by type",
			Buckets:   prometheus.DefBuckets,
		}, []string{"type"}),
	}
}
