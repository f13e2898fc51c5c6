package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrdocs/internal/model"
)

func TestDocumentMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewDocumentMetrics(reg)
	require.NoError(t, err)

	m.Uploaded(model.TypePhoto)
	m.Uploaded(model.TypePhoto)
	m.Uploaded(model.TypeOfferLetter)
	m.Transitioned(model.StatusVerified)
	m.Deleted()
	m.DecodeSkipped(3)
	m.DecodeSkipped(0)
	m.DecodeSkipped(-1)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.uploads.WithLabelValues("photo")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.uploads.WithLabelValues("offer_letter")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.transitions.WithLabelValues("Verified")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.deletes))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.decodeSkipped))
}

func TestNewDocumentMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewDocumentMetrics(reg)
	require.NoError(t, err)

	_, err = NewDocumentMetrics(reg)
	assert.Error(t, err)
}

func TestDocumentMetrics_NilSafe(t *testing.T) {
	var m *DocumentMetrics
	assert.NotPanics(t, func() {
		m.Uploaded(model.TypePhoto)
		m.Transitioned(model.StatusRejected)
		m.Deleted()
		m.DecodeSkipped(1)
	})
}
