// Package metrics holds the document domain Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"hrdocs/internal/model"
)

// DocumentMetrics counts document activity. A nil *DocumentMetrics is valid
// and records nothing.
type DocumentMetrics struct {
	uploads       *prometheus.CounterVec
	transitions   *prometheus.CounterVec
	deletes       prometheus.Counter
	decodeSkipped prometheus.Counter
}

// NewDocumentMetrics creates the collectors and registers them on reg.
func NewDocumentMetrics(reg prometheus.Registerer) (*DocumentMetrics, error) {
	m := &DocumentMetrics{
		uploads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "hrdocs",
				Subsystem: "documents",
				Name:      "uploads_total",
				Help:      "Accepted document uploads by document type.",
			},
			[]string{"type"},
		),
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "hrdocs",
				Subsystem: "documents",
				Name:      "transitions_total",
				Help:      "Workflow transitions by target status.",
			},
			[]string{"to"},
		),
		deletes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hrdocs",
			Subsystem: "documents",
			Name:      "deletes_total",
			Help:      "Deleted document records.",
		}),
		decodeSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hrdocs",
			Subsystem: "documents",
			Name:      "decode_skipped_total",
			Help:      "Stored entries dropped from the index because they could not be decoded.",
		}),
	}

	for _, c := range []prometheus.Collector{m.uploads, m.transitions, m.deletes, m.decodeSkipped} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *DocumentMetrics) Uploaded(t model.DocumentType) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues(string(t)).Inc()
}

func (m *DocumentMetrics) Transitioned(to model.Status) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(string(to)).Inc()
}

func (m *DocumentMetrics) Deleted() {
	if m == nil {
		return
	}
	m.deletes.Inc()
}

// DecodeSkipped adds n dropped entries; n <= 0 is ignored.
func (m *DocumentMetrics) DecodeSkipped(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.decodeSkipped.Add(float64(n))
}
