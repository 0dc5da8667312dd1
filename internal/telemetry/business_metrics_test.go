package telemetry_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tilbury/quoteworks/internal/telemetry"
)

func Test_NewBusinessMetrics_RegistersAndCounts(t *testing.T) {
	m := telemetry.NewBusinessMetrics("quoteworks")
	require.NotNil(t, m)

	m.QuotePreviews.WithLabelValues("curtains").Inc()
	m.QuotePreviews.WithLabelValues("curtains").Inc()
	m.QuotationsFinalized.WithLabelValues("tile").Inc()
	m.EmailsSent.Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.QuotePreviews.WithLabelValues("curtains")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.QuotationsFinalized.WithLabelValues("tile")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EmailsSent))
}
