package prometheus

import (
	"time"

	"catalog-service/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   prometheus.CounterVec
	HttpRequestDuration prometheus.HistogramVec

	// Database operation metrics
	DbOperationDuration prometheus.HistogramVec

	// Catalog metrics
	ProductOperationsCounter      prometheus.CounterVec
	PresentationOperationsCounter prometheus.CounterVec

	// Attachment metrics
	AttachmentUploadsCounter   prometheus.Counter
	AttachmentUploadBytesTotal prometheus.Counter
	AttachmentDownloadsCounter prometheus.Counter
)

// InitMetrics initializes Prometheus metrics with configuration
func InitMetrics(config *config.Config) {
	prefix := config.Metrics.Prefix

	HttpRequestsTotal = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	DbOperationDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)

	ProductOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_product_operations_total",
			Help: "Total number of product operations",
		},
		[]string{"operation"},
	)

	PresentationOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_presentation_operations_total",
			Help: "Total number of presentation operations",
		},
		[]string{"operation"},
	)

	AttachmentUploadsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_attachment_uploads_total",
			Help: "Total number of stored attachments",
		},
	)

	AttachmentUploadBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_attachment_upload_bytes_total",
			Help: "Total bytes of stored attachments",
		},
	)

	AttachmentDownloadsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_attachment_downloads_total",
			Help: "Total number of attachment downloads",
		},
	)
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		if DbOperationDuration.MetricVec == nil {
			return
		}
		duration := time.Since(startTime).Seconds()
		DbOperationDuration.WithLabelValues(operationType).Observe(duration)
	}
}

// RecordProductOperation increments the counter for product operations
func RecordProductOperation(operation string) {
	if ProductOperationsCounter.MetricVec == nil {
		return
	}
	ProductOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordPresentationOperation increments the counter for presentation operations
func RecordPresentationOperation(operation string) {
	if PresentationOperationsCounter.MetricVec == nil {
		return
	}
	PresentationOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordAttachmentUpload increments the upload counters
func RecordAttachmentUpload(size int64) {
	if AttachmentUploadsCounter == nil {
		return
	}
	AttachmentUploadsCounter.Inc()
	AttachmentUploadBytesTotal.Add(float64(size))
}

// RecordAttachmentDownload increments the download counter
func RecordAttachmentDownload() {
	if AttachmentDownloadsCounter == nil {
		return
	}
	AttachmentDownloadsCounter.Inc()
}
