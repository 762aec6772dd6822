package substate

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsDisabledByDefault(t *testing.T) {
	e := New(nil)
	if e.metrics != nil {
		t.Error("Expected no metrics without a registerer")
	}
	// Should not panic
	e.Subscribe(At("k"), func() {})()
	e.Update(At("k"), 1)
}

func TestMetricsRecorded(t *testing.T) {
	reg := prometheus.NewRegistry()
	e := New(nil, WithRegisterer(reg), WithNamespace("test"))

	unsubscribe := e.Subscribe(At("k"), func() {})
	e.Subscribe(At("k"), func() {})
	e.Subscribe(Whole, func() {})

	if got := testutil.ToFloat64(e.metrics.subscribers.WithLabelValues(scopeKey)); got != 2 {
		t.Errorf("key subscribers = %v, want 2", got)
	}

	e.Update(At("k"), 1)
	e.Update(At("other"), 1)
	e.Update(Whole, Store{})

	if got := testutil.ToFloat64(e.metrics.updates.WithLabelValues(scopeKey)); got != 2 {
		t.Errorf("key updates = %v, want 2", got)
	}
	if got := testutil.ToFloat64(e.metrics.updates.WithLabelValues(scopeStore)); got != 1 {
		t.Errorf("store updates = %v, want 1", got)
	}
	if got := testutil.ToFloat64(e.metrics.notifications.WithLabelValues(scopeKey)); got != 2 {
		t.Errorf("key notifications = %v, want 2", got)
	}

	unsubscribe()
	unsubscribe()
	if got := testutil.ToFloat64(e.metrics.subscribers.WithLabelValues(scopeKey)); got != 1 {
		t.Errorf("key subscribers after unsubscribe = %v, want 1", got)
	}

	e.Close()
	if got := testutil.ToFloat64(e.metrics.subscribers.WithLabelValues(scopeKey)); got != 0 {
		t.Errorf("key subscribers after close = %v, want 0", got)
	}
	if got := testutil.ToFloat64(e.metrics.subscribers.WithLabelValues(scopeStore)); got != 0 {
		t.Errorf("store subscribers after close = %v, want 0", got)
	}
}

func TestMetricsSharedRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	a := New(nil, WithRegisterer(reg))
	b := New(nil, WithRegisterer(reg))

	a.Update(At("k"), 1)
	b.Update(At("k"), 1)

	if a.metrics.updates != b.metrics.updates {
		t.Error("engines on one registry should share collectors")
	}
	if got := testutil.ToFloat64(a.metrics.updates.WithLabelValues(scopeKey)); got != 2 {
		t.Errorf("shared key updates = %v, want 2", got)
	}
}

func TestMetricsConstLabels(t *testing.T) {
	reg := prometheus.NewRegistry()
	e := New(nil, WithRegisterer(reg), WithConstLabels(prometheus.Labels{"tree": "main"}))
	e.Update(At("k"), 1)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	found := false
	for _, mf := range families {
		if mf.GetName() != "substate_updates_total" {
			continue
		}
		found = true
		for _, m := range mf.GetMetric() {
			hasTree := false
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "tree" && lp.GetValue() == "main" {
					hasTree = true
				}
			}
			if !hasTree {
				t.Error("Expected const label tree=main")
			}
		}
	}
	if !found {
		t.Error("substate_updates_total not gathered")
	}
}
