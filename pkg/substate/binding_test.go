package substate

import "testing"

func TestBindingLifecycle(t *testing.T) {
	e := New(nil)
	calls := 0
	b := NewBinding(e, At("k"), func() { calls++ })

	if b.State() != Unattached {
		t.Fatalf("Expected unattached, got %s", b.State())
	}
	if !b.Attach() {
		t.Error("first Attach should report true")
	}
	if b.Attach() {
		t.Error("second Attach should report false")
	}
	if e.Subscribers(At("k")) != 1 {
		t.Errorf("binding must hold exactly one registration, got %d", e.Subscribers(At("k")))
	}

	b.Set(1)
	if calls != 1 {
		t.Errorf("Expected 1 notification, got %d", calls)
	}

	if !b.Detach() {
		t.Error("first Detach should report true")
	}
	if b.Detach() {
		t.Error("second Detach should report false")
	}
	if b.State() != Detached {
		t.Errorf("Expected detached, got %s", b.State())
	}
	if b.Attach() {
		t.Error("a detached binding must not re-attach")
	}

	b.Set(2)
	if calls != 1 {
		t.Errorf("detached binding was notified, calls=%d", calls)
	}
	if e.Subscribers(At("k")) != 0 {
		t.Errorf("Expected no registrations, got %d", e.Subscribers(At("k")))
	}
}

func TestBindingDetachUnattached(t *testing.T) {
	e := New(nil)
	b := NewBinding(e, At("k"), func() {})

	if !b.Detach() {
		t.Error("Detach of an unattached binding should report true")
	}
	if e.Subscribers(At("k")) != 0 {
		t.Error("unattached binding must never register")
	}
}

func TestBindingInitialValueBeforeAttach(t *testing.T) {
	e := New(nil)
	b := NewBinding(e, At("name"), func() {}, "anon")

	if b.Value() != "anon" {
		t.Errorf("Expected initial value before attach, got %v", b.Value())
	}
	if _, ok := e.Get(At("name")); ok {
		t.Error("store should not be seeded before attach")
	}

	b.Attach()
	if v, _ := e.Get(At("name")); v != "anon" {
		t.Errorf("Expected store seeded on attach, got %v", v)
	}

	b.Set("bob")
	if b.Value() != "bob" {
		t.Errorf("Expected 'bob', got %v", b.Value())
	}
}

func TestBindingFunctionalInitial(t *testing.T) {
	e := New(Store{"n": 2})
	b := NewBinding(e, At("n"), func() {}, func(prev any) any { return prev.(int) * 10 })

	if b.Value() != 20 {
		t.Errorf("Expected 20 before attach, got %v", b.Value())
	}
	if v, _ := e.Get(At("n")); v != 2 {
		t.Errorf("pre-attach read must not write, got %v", v)
	}

	b.Attach()
	if b.Value() != 20 {
		t.Errorf("Expected 20 after attach, got %v", b.Value())
	}
}

func TestBindingWholeStore(t *testing.T) {
	e := New(Store{"count": 0})
	calls := 0
	b := NewBinding(e, Whole, func() { calls++ })
	b.Attach()

	e.Update(At("count"), 1)
	if calls != 0 {
		t.Errorf("key update notified a whole-store binding, calls=%d", calls)
	}

	b.Set(Store{"count": 5})
	if calls != 1 {
		t.Errorf("Expected 1 notification, got %d", calls)
	}
	store, ok := b.Value().(Store)
	if !ok || store["count"] != 5 {
		t.Errorf("Expected whole store {count:5}, got %v", b.Value())
	}
}

func TestStateString(t *testing.T) {
	tests := map[State]string{
		Unattached: "unattached",
		Attached:   "attached",
		Detached:   "detached",
		State(9):   "unknown",
	}
	for s, want := range tests {
		if s.String() != want {
			t.Errorf("State(%d).String() = %q, want %q", s, s.String(), want)
		}
	}
}

func TestBindingTypedFunctionalInitial(t *testing.T) {
	e := New(Store{"n": 2})
	b := NewBinding(e, At("n"), func() {}, func(prev int) int { return prev + 1 })

	if b.Value() != 3 {
		t.Errorf("Expected 3 before attach, got %v", b.Value())
	}

	b.Attach()
	if v, _ := e.Get(At("n")); v != 3 {
		t.Errorf("Expected attach to seed 3, got %v", v)
	}
}
