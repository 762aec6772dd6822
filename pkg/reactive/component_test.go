package reactive

import (
	"io"
	"log/slog"
	"testing"
)

func TestMountRendersOnce(t *testing.T) {
	root := NewRoot(Headless)
	defer root.Dispose()

	renders := 0
	c := root.Mount(func() { renders++ })

	if renders != 1 || c.Renders() != 1 {
		t.Errorf("Expected 1 render, got %d", renders)
	}
	if c.Owner().Parent() != root.Owner() {
		t.Error("component owner should be a child of the root owner")
	}
}

func TestMarkDirtyAndFlush(t *testing.T) {
	root := NewRoot(Headless)
	defer root.Dispose()

	c := root.Mount(func() {})

	c.MarkDirty()
	c.MarkDirty()
	if root.Pending() != 1 {
		t.Errorf("Expected 1 pending component, got %d", root.Pending())
	}

	if n := root.Flush(); n != 1 {
		t.Errorf("Expected 1 render from Flush, got %d", n)
	}
	if c.Renders() != 2 {
		t.Errorf("Expected 2 renders, got %d", c.Renders())
	}
	if n := root.Flush(); n != 0 {
		t.Errorf("Expected empty flush, got %d renders", n)
	}
}

func TestUseInvalidate(t *testing.T) {
	root := NewRoot(Headless)
	defer root.Dispose()

	var invalidate func()
	c := root.Mount(func() {
		invalidate = UseInvalidate()
	})

	invalidate()
	root.Flush()
	if c.Renders() != 2 {
		t.Errorf("Expected invalidate to cause a re-render, renders=%d", c.Renders())
	}

	UseInvalidate()() // outside a component: no-op
}

func TestHeadlessRunsEffectsOnRender(t *testing.T) {
	root := NewRoot(Headless)
	defer root.Dispose()

	runs := 0
	root.Mount(func() {
		UseLayoutEffect(func() Cleanup {
			runs++
			return nil
		})
	})

	if runs != 1 {
		t.Errorf("Expected effect to run with the render in headless mode, runs=%d", runs)
	}
}

func TestVisualDefersEffectsToPaint(t *testing.T) {
	root := NewRoot(Visual)
	defer root.Dispose()

	runs := 0
	root.Mount(func() {
		UseLayoutEffect(func() Cleanup {
			runs++
			return nil
		})
	})

	if runs != 0 {
		t.Fatalf("effect ran before paint in visual mode, runs=%d", runs)
	}
	if !root.Owner().HasPendingEffects() {
		t.Error("Expected pending effects before paint")
	}

	if !root.Paint() {
		t.Error("Paint should report the deferred effect")
	}
	if runs != 1 {
		t.Errorf("Expected effect to run on paint, runs=%d", runs)
	}

	if root.Paint() {
		t.Error("second Paint should have nothing to run")
	}
	if runs != 1 {
		t.Errorf("Expected no re-run on second paint, runs=%d", runs)
	}
}

func TestPaintHeadlessIsNoop(t *testing.T) {
	root := NewRoot(Headless)
	defer root.Dispose()

	runs := 0
	root.Mount(func() {
		UseLayoutEffect(func() Cleanup {
			runs++
			return nil
		})
	})

	if runs != 1 {
		t.Fatalf("Expected effect to run after render, runs=%d", runs)
	}
	if root.Paint() {
		t.Error("Paint in headless mode should have nothing to run")
	}
}

func TestChildComponentSeesContext(t *testing.T) {
	ctx := CreateContext("none")
	root := NewRoot(Headless)
	defer root.Dispose()

	parent := root.Mount(func() {
		ctx.Provide("parent")
	})

	var seen string
	parent.Mount(func() {
		seen = ctx.Use()
	})

	if seen != "parent" {
		t.Errorf("Expected 'parent', got %q", seen)
	}
}

func TestUnmountStopsRenders(t *testing.T) {
	root := NewRoot(Headless)
	defer root.Dispose()

	cleaned := false
	c := root.Mount(func() {
		UseLayoutEffect(func() Cleanup {
			return func() { cleaned = true }
		})
	})

	c.MarkDirty()
	c.Unmount()
	root.Flush()

	if !cleaned {
		t.Error("effect cleanup did not run on unmount")
	}
	if c.Renders() != 1 {
		t.Errorf("unmounted component re-rendered, renders=%d", c.Renders())
	}

	c.MarkDirty()
	if root.Pending() != 0 {
		t.Error("unmounted component should not be queued")
	}
}

func TestFlushPassLimit(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	root := NewRoot(Headless, WithLogger(logger), WithMaxFlushPasses(3))
	defer root.Dispose()

	var c *Component
	c = root.Mount(func() {
		if c != nil {
			c.MarkDirty()
		}
	})

	c.MarkDirty()
	if n := root.Flush(); n != 3 {
		t.Errorf("Expected flush to stop after 3 renders, got %d", n)
	}
	if root.Pending() != 0 {
		t.Errorf("Expected queue to be dropped, %d pending", root.Pending())
	}
}

func TestModeString(t *testing.T) {
	if Headless.String() != "headless" || Visual.String() != "visual" {
		t.Error("unexpected mode names")
	}
	if Mode(9).String() != "unknown" {
		t.Error("Expected unknown for invalid mode")
	}
}
