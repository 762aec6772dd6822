package reactive

import (
	"reflect"
	"sync/atomic"
)

// Effect is a layout effect: a side effect that runs after the render that
// scheduled it is committed, and again whenever its dependency list changes.
//
// The Cleanup returned by the effect function runs before the next run and
// when the owning Owner is disposed, so every acquisition made by a run is
// released exactly once.
type Effect struct {
	id uint64

	fn      func() Cleanup
	cleanup Cleanup

	// deps is the dependency list from the render that last scheduled a run.
	deps []any

	owner *Owner

	// pending indicates the effect is scheduled for a run.
	pending atomic.Bool

	disposed atomic.Bool

	runs int
}

// ID returns the unique identifier for this effect.
func (e *Effect) ID() uint64 {
	return e.id
}

// Runs reports how many times the effect function has run.
func (e *Effect) Runs() int {
	return e.runs
}

// run executes the effect function after releasing the previous run.
func (e *Effect) run() {
	if e.disposed.Load() {
		return
	}

	e.pending.Store(false)

	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}

	old := setCurrentOwner(e.owner)
	defer setCurrentOwner(old)

	e.runs++
	e.cleanup = e.fn()
}

// dispose releases the last run. A pending run is dropped.
func (e *Effect) dispose() {
	if e.disposed.Swap(true) {
		return
	}

	e.pending.Store(false)

	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}
}

// schedule marks the effect pending and queues it on its owner.
func (e *Effect) schedule() {
	if e.disposed.Load() {
		return
	}
	if e.pending.CompareAndSwap(false, true) && e.owner != nil {
		e.owner.scheduleEffect(e)
	}
}

// UseLayoutEffect registers fn to run after the current render is committed.
// With no deps the effect runs once, on mount. With deps it runs again after
// any render whose deps differ from the previous render's; the previous run's
// Cleanup is called first.
//
// Called outside of a render, fn runs immediately and its Cleanup is dropped.
//
// Example:
//
//	reactive.UseLayoutEffect(func() reactive.Cleanup {
//	    unsubscribe := engine.Subscribe(key, invalidate)
//	    return unsubscribe
//	}, key)
func UseLayoutEffect(fn func() Cleanup, deps ...any) *Effect {
	owner := getCurrentOwner()
	if owner == nil {
		e := &Effect{id: nextID(), fn: fn}
		e.run()
		return e
	}

	if slot := owner.UseHookSlot(); slot != nil {
		e := slot.(*Effect)
		e.fn = fn
		if !depsEqual(e.deps, deps) {
			e.deps = deps
			e.schedule()
		}
		return e
	}

	e := &Effect{
		id:    nextID(),
		fn:    fn,
		deps:  deps,
		owner: owner,
	}
	owner.SetHookSlot(e)
	owner.registerEffect(e)
	e.schedule()
	return e
}

// OnUnmount registers fn to run when the current owner is disposed.
func OnUnmount(fn func()) {
	if owner := getCurrentOwner(); owner != nil {
		owner.OnCleanup(fn)
	}
}

// depsEqual reports whether two dependency lists are the same. Values that are
// not comparable always count as changed.
func depsEqual(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !sameDep(a[i], b[i]) {
			return false
		}
	}
	return true
}

func sameDep(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}
