package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// IngestMetrics records metadata for report uploads.
type IngestMetrics struct {
	duration *prometheus.HistogramVec
	parsed   *prometheus.CounterVec
	rejected *prometheus.CounterVec
	failures *prometheus.CounterVec
}

// NewIngestMetrics registers the ingest metrics on the provided registerer.
func NewIngestMetrics(reg prometheus.Registerer) *IngestMetrics {
	if reg == nil {
		return &IngestMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "report_upload_duration_seconds",
		Help:    "Duration of report uploads in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"pharmacy"})
	parsed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "report_rows_parsed",
		Help: "Debtor rows successfully parsed from uploaded reports.",
	}, []string{"pharmacy"})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "report_rows_rejected",
		Help: "Report rows rejected during parsing, by reason.",
	}, []string{"pharmacy", "reason"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "report_upload_failures",
		Help: "Uploads that failed before reconciliation committed.",
	}, []string{"pharmacy"})
	reg.MustRegister(duration, parsed, rejected, failures)
	return &IngestMetrics{
		duration: duration,
		parsed:   parsed,
		rejected: rejected,
		failures: failures,
	}
}

// ObserveUpload records the duration of one upload for the pharmacy.
func (m *IngestMetrics) ObserveUpload(pharmacy string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(pharmacy)).Observe(duration.Seconds())
}

// AddParsed counts successfully parsed rows for the pharmacy.
func (m *IngestMetrics) AddParsed(pharmacy string, count int) {
	if m == nil || m.parsed == nil || count <= 0 {
		return
	}
	m.parsed.WithLabelValues(normalizeLabel(pharmacy)).Add(float64(count))
}

// IncRejected counts one rejected row with its rejection reason.
func (m *IngestMetrics) IncRejected(pharmacy, reason string) {
	if m == nil || m.rejected == nil {
		return
	}
	m.rejected.WithLabelValues(normalizeLabel(pharmacy), normalizeLabel(reason)).Inc()
}

// IncFailure counts one upload that aborted with no state change.
func (m *IngestMetrics) IncFailure(pharmacy string) {
	if m == nil || m.failures == nil {
		return
	}
	m.failures.WithLabelValues(normalizeLabel(pharmacy)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
