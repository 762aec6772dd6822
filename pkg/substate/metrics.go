package substate

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Scope label values.
const (
	scopeStore = "store"
	scopeKey   = "key"
)

// metrics holds the Prometheus collectors of an engine. A nil *metrics
// records nothing.
type metrics struct {
	updates       *prometheus.CounterVec
	notifications *prometheus.CounterVec
	subscribers   *prometheus.GaugeVec
}

// newMetrics registers the engine collectors on cfg.Registerer.
// Returns nil when metrics are disabled.
func newMetrics(cfg Config) *metrics {
	if cfg.Registerer == nil {
		return nil
	}

	return &metrics{
		updates: register(cfg.Registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Name:        "updates_total",
			Help:        "Total number of store updates by scope",
			ConstLabels: cfg.ConstLabels,
		}, []string{"scope"})),

		notifications: register(cfg.Registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Name:        "notifications_total",
			Help:        "Total number of listener notifications by scope",
			ConstLabels: cfg.ConstLabels,
		}, []string{"scope"})),

		subscribers: register(cfg.Registerer, prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   cfg.Namespace,
			Name:        "subscribers",
			Help:        "Number of live subscriptions by scope",
			ConstLabels: cfg.ConstLabels,
		}, []string{"scope"})),
	}
}

// register registers c, or returns the collector already registered under
// the same descriptor.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

func (m *metrics) updated(scope string) {
	if m == nil {
		return
	}
	m.updates.WithLabelValues(scope).Inc()
}

func (m *metrics) notified(scope string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.notifications.WithLabelValues(scope).Add(float64(n))
}

func (m *metrics) subscribed(scope string, delta int) {
	if m == nil {
		return
	}
	m.subscribers.WithLabelValues(scope).Add(float64(delta))
}
