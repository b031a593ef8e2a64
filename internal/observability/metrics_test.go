package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRecordRequest(t *testing.T) {
	m := NewMetrics("helpdesk")

	m.RecordRequest("/users/login", "POST", 200, 15*time.Millisecond)
	m.RecordRequest("/users/login", "POST", 200, 20*time.Millisecond)
	m.RecordError("/users/login", "POST", "INVALID_CREDENTIALS")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestCount.WithLabelValues("/users/login", "POST", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errorCount.WithLabelValues("/users/login", "POST", "INVALID_CREDENTIALS")))
}

func TestMetricsNilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRequest("/", "GET", 200, time.Millisecond)
		m.RecordError("/", "GET", "X")
	})
}
