// Package metric provides Prometheus metrics for ipadmin-cli.
package metric

import (
	"fmt"
	"io"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/common/expfmt"
)

const namespace = "ipadmin"

// Refresh outcomes recorded by RecordRefresh.
const (
	RefreshSuccess = "success"
	RefreshFailure = "failure"
)

// Registry holds all client metrics on a private prometheus registry.
type Registry struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RefreshTotal    *prometheus.CounterVec
	Notifications   *prometheus.CounterVec
	SessionActive   prometheus.Gauge
}

// NewRegistry creates a registry with the client metrics plus Go runtime
// and process collectors.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "API requests sent, by method, endpoint and response status.",
		}, []string{"method", "endpoint", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "API request latency in seconds.",
			Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"method", "endpoint"}),
		RefreshTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "token_refresh_total",
			Help:      "Access token refresh attempts, by outcome.",
		}, []string{"outcome"}),
		Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "User notifications shown, by kind.",
		}, []string{"kind"}),
		SessionActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "session_active",
			Help:      "1 when an access token is held, 0 otherwise.",
		}),
	}

	reg.MustRegister(
		r.RequestsTotal,
		r.RequestDuration,
		r.RefreshTotal,
		r.Notifications,
		r.SessionActive,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return r
}

var (
	globalOnce sync.Once
	global     *Registry
)

// Global returns the process-wide registry.
func Global() *Registry {
	globalOnce.Do(func() {
		global = NewRegistry()
	})
	return global
}

// RecordRequest counts one completed API request. status is the HTTP
// status code, or "error" when no response arrived.
func (r *Registry) RecordRequest(method, endpoint, status string, seconds float64) {
	r.RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	r.RequestDuration.WithLabelValues(method, endpoint).Observe(seconds)
}

// RecordRefresh counts a token refresh attempt.
func (r *Registry) RecordRefresh(outcome string) {
	r.RefreshTotal.WithLabelValues(outcome).Inc()
}

// RecordNotification counts a notification of the given kind.
func (r *Registry) RecordNotification(kind string) {
	r.Notifications.WithLabelValues(kind).Inc()
}

// SetSessionActive records whether a token is currently held.
func (r *Registry) SetSessionActive(active bool) {
	if active {
		r.SessionActive.Set(1)
		return
	}
	r.SessionActive.Set(0)
}

// WriteText writes the ipadmin_* metric families in the Prometheus text
// exposition format. Runtime metrics are included when all is true.
func (r *Registry) WriteText(w io.Writer, all bool) error {
	families, err := r.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if !all && !hasNamespace(mf.GetName()) {
			continue
		}
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("encode %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

func hasNamespace(name string) bool {
	return len(name) > len(namespace) && name[:len(namespace)+1] == namespace+"_"
}
