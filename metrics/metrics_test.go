package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func delta(t *testing.T, collector prometheus.Collector, observe func()) float64 {
	t.Helper()

	before := testutil.ToFloat64(collector)
	observe()
	after := testutil.ToFloat64(collector)
	return after - before
}

func TestPollerRecords(t *testing.T) {
	m := NewPoller("")
	start := time.Now().Add(-time.Second)

	assert.Equal(t, 1.0, delta(t, pollTotal.WithLabelValues("unknown", "success"), func() {
		m.ObservePoll(nil, start)
	}))
	assert.Equal(t, 1.0, delta(t, pollTotal.WithLabelValues("unknown", "error"), func() {
		m.ObservePoll(errors.New("boom"), start)
	}))
	assert.Equal(t, 2.0, delta(t, updatesTotal.WithLabelValues("unknown", "channelUpdate"), func() {
		m.ObserveUpdate("channelUpdate")
		m.ObserveUpdate("channelUpdate")
	}))
	assert.Equal(t, 1.0, delta(t, logoutsTotal.WithLabelValues("unknown"), func() {
		m.ObserveLogout()
	}))

	m.ObserveBatch(3, 42)
	assert.Equal(t, 42.0, testutil.ToFloat64(cursor.WithLabelValues("unknown")))
}

func TestNewPoller_labels(t *testing.T) {
	m := NewPoller("http://localhost:7000")
	m.ObserveBatch(1, 7)
	assert.Equal(t, 7.0, testutil.ToFloat64(cursor.WithLabelValues("http://localhost:7000")))
}
