package reactive

import "testing"

func TestLayoutEffectRunsAfterRender(t *testing.T) {
	owner := NewOwner(nil)
	defer owner.Dispose()

	runs := 0
	WithOwner(owner, func() {
		owner.StartRender()
		UseLayoutEffect(func() Cleanup {
			runs++
			return nil
		})
		owner.EndRender()
	})

	if runs != 0 {
		t.Fatalf("effect ran during render, runs=%d", runs)
	}

	owner.RunPendingEffects()
	if runs != 1 {
		t.Fatalf("expected 1 effect run after commit, got %d", runs)
	}
}

func TestLayoutEffectDeps(t *testing.T) {
	owner := NewOwner(nil)

	var log []string
	render := func(dep string) *Effect {
		var e *Effect
		WithOwner(owner, func() {
			owner.StartRender()
			e = UseLayoutEffect(func() Cleanup {
				log = append(log, "run "+dep)
				return func() { log = append(log, "cleanup "+dep) }
			}, dep)
			owner.EndRender()
		})
		owner.RunPendingEffects()
		return e
	}

	e1 := render("a")
	e2 := render("a")
	if e1 != e2 {
		t.Error("effect did not persist across renders")
	}
	render("b")
	owner.Dispose()

	want := []string{"run a", "cleanup a", "run b", "cleanup b"}
	if len(log) != len(want) {
		t.Fatalf("log = %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("log = %v, want %v", log, want)
		}
	}
	if e1.Runs() != 2 {
		t.Errorf("Expected 2 runs, got %d", e1.Runs())
	}
}

func TestLayoutEffectDisposedBeforeRun(t *testing.T) {
	owner := NewOwner(nil)

	runs := 0
	WithOwner(owner, func() {
		owner.StartRender()
		UseLayoutEffect(func() Cleanup {
			runs++
			return nil
		})
		owner.EndRender()
	})

	owner.Dispose()
	owner.RunPendingEffects()

	if runs != 0 {
		t.Errorf("pending effect ran after dispose, runs=%d", runs)
	}
}

func TestLayoutEffectOutsideRender(t *testing.T) {
	ran := false
	UseLayoutEffect(func() Cleanup {
		ran = true
		return nil
	})
	if !ran {
		t.Error("effect outside a render should run immediately")
	}
}

func TestDepsEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b []any
		want bool
	}{
		{"both empty", nil, nil, true},
		{"same ints", []any{1, 2}, []any{1, 2}, true},
		{"different length", []any{1}, []any{1, 2}, false},
		{"different value", []any{"a"}, []any{"b"}, false},
		{"different type", []any{1}, []any{int64(1)}, false},
		{"nil vs value", []any{nil}, []any{0}, false},
		{"both nil", []any{nil}, []any{nil}, true},
		{"not comparable", []any{[]int{1}}, []any{[]int{1}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := depsEqual(tt.a, tt.b); got != tt.want {
				t.Errorf("depsEqual(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestUseRefStable(t *testing.T) {
	owner := NewOwner(nil)
	defer owner.Dispose()

	var first, second *Ref[int]
	WithOwner(owner, func() {
		owner.StartRender()
		first = UseRef(1)
		owner.EndRender()

		first.Set(5)

		owner.StartRender()
		second = UseRef(99)
		owner.EndRender()
	})

	if first != second {
		t.Error("ref did not persist across renders")
	}
	if second.Current() != 5 {
		t.Errorf("ref reinitialized on rerender, got %d want 5", second.Current())
	}
}

func TestOnUnmount(t *testing.T) {
	owner := NewOwner(nil)
	ran := false
	WithOwner(owner, func() {
		OnUnmount(func() { ran = true })
	})
	if ran {
		t.Fatal("OnUnmount ran before dispose")
	}
	owner.Dispose()
	if !ran {
		t.Error("OnUnmount did not run on dispose")
	}
}
