// Package metrics exposes wallet client metrics collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/stellar/starlight/walletclient/client"
)

var _ client.Metrics = &Poller{}

var (
	pollTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "starlight_wallet",
		Subsystem: "poller",
		Name:      "polls_total",
		Help:      "Count of update requests to the agent.",
	}, []string{"agent", "status"})

	pollDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "starlight_wallet",
		Subsystem: "poller",
		Name:      "poll_duration_seconds",
		Help:      "Duration of update requests, including the agent's long poll.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"agent", "status"})

	batchSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "starlight_wallet",
		Subsystem: "poller",
		Name:      "batch_size",
		Help:      "Number of updates applied per batch.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 8), // 1..128
	}, []string{"agent"})

	updatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "starlight_wallet",
		Subsystem: "poller",
		Name:      "updates_total",
		Help:      "Count of updates emitted, by update type.",
	}, []string{"agent", "type"})

	cursor = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "starlight_wallet",
		Subsystem: "poller",
		Name:      "cursor",
		Help:      "Next update number the poller will request.",
	}, []string{"agent"})

	logoutsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "starlight_wallet",
		Subsystem: "poller",
		Name:      "logouts_total",
		Help:      "Count of sessions lost while polling.",
	}, []string{"agent"})
)

// Poller tracks metrics for the update poller of one agent.
type Poller struct {
	agent string
}

// NewPoller constructs a Poller labeled with the agent URL.
func NewPoller(agent string) *Poller {
	if agent == "" {
		agent = "unknown"
	}
	return &Poller{agent: agent}
}

// ObservePoll records the outcome and duration of an update request.
func (m Poller) ObservePoll(err error, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}
	pollTotal.WithLabelValues(m.agent, status).Inc()
	pollDuration.WithLabelValues(m.agent, status).Observe(time.Since(started).Seconds())
}

// ObserveBatch records a batch of updates applied and the cursor after it.
func (m Poller) ObserveBatch(events int, next uint64) {
	batchSize.WithLabelValues(m.agent).Observe(float64(events))
	cursor.WithLabelValues(m.agent).Set(float64(next))
}

// ObserveUpdate records an update emitted to the consumer.
func (m Poller) ObserveUpdate(updateType string) {
	updatesTotal.WithLabelValues(m.agent, updateType).Inc()
}

// ObserveLogout records a lost session.
func (m Poller) ObserveLogout() {
	logoutsTotal.WithLabelValues(m.agent).Inc()
}
