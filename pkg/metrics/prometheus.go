// Package metrics exposes Prometheus metrics for the reminder poller.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Stage update outcomes.
const (
	UpdateAdvanced = "advanced"
	UpdateRejected = "rejected"
	UpdateNotFound = "not_found"
	UpdateFailed   = "failed"
)

// Manager owns the poller metrics.
type Manager struct {
	namespace string
	buckets   []float64
	registry  *prometheus.Registry

	passes           *prometheus.CounterVec
	passDuration     *prometheus.HistogramVec
	tenantFailures   *prometheus.CounterVec
	remindersSent    *prometheus.CounterVec
	deliveryFailures prometheus.Counter
	stageUpdates     *prometheus.CounterVec
	eventsMissed     prometheus.Counter
	summariesSent    prometheus.Counter
}

// NewManager creates and registers all metrics.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "jadwal",
		buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}

	m.passes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "poll_passes_total",
		Help:      "Completed poll passes by trigger.",
	}, []string{"trigger"})
	m.passDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "poll_pass_duration_seconds",
		Help:      "Wall time of a poll pass across all tenants.",
		Buckets:   m.buckets,
	}, []string{"trigger"})
	m.tenantFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "tenant_failures_total",
		Help:      "Tenants whose pass aborted, by trigger.",
	}, []string{"trigger"})
	m.remindersSent = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "reminders_sent_total",
		Help:      "Reminders delivered, by notification class.",
	}, []string{"class"})
	m.deliveryFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "delivery_failures_total",
		Help:      "Notifications that were not confirmed sent.",
	})
	m.stageUpdates = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "stage_updates_total",
		Help:      "Stage transitions by outcome.",
	}, []string{"result"})
	m.eventsMissed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "events_missed_total",
		Help:      "Events skipped because they were past the grace window.",
	})
	m.summariesSent = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "daily_summaries_sent_total",
		Help:      "Per-person daily summary messages delivered.",
	})

	m.registry.MustRegister(
		m.passes,
		m.passDuration,
		m.tenantFailures,
		m.remindersSent,
		m.deliveryFailures,
		m.stageUpdates,
		m.eventsMissed,
		m.summariesSent,
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Manager) PassCompleted(trigger string, elapsed time.Duration) {
	m.passes.WithLabelValues(trigger).Inc()
	m.passDuration.WithLabelValues(trigger).Observe(elapsed.Seconds())
}

func (m *Manager) TenantFailed(trigger string) {
	m.tenantFailures.WithLabelValues(trigger).Inc()
}

func (m *Manager) ReminderSent(class string) {
	m.remindersSent.WithLabelValues(class).Inc()
}

func (m *Manager) DeliveryFailed() {
	m.deliveryFailures.Inc()
}

func (m *Manager) StageUpdate(result string) {
	m.stageUpdates.WithLabelValues(result).Inc()
}

func (m *Manager) EventMissed() {
	m.eventsMissed.Inc()
}

func (m *Manager) SummarySent() {
	m.summariesSent.Inc()
}
