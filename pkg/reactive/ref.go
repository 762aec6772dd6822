package reactive

import "sync"

// Ref holds a mutable value that keeps its identity across renders.
// Writing a Ref never triggers a re-render.
//
// Ref[T] is safe for concurrent access.
type Ref[T any] struct {
	value T
	mu    sync.RWMutex
}

// UseRef returns the Ref stored in the current hook slot, creating it with
// initial on the first render. Outside of a render a fresh Ref is returned.
//
// Example:
//
//	rendered := reactive.UseRef(false)
//	if !rendered.Current() {
//	    ...
//	}
func UseRef[T any](initial T) *Ref[T] {
	owner := getCurrentOwner()
	if owner == nil {
		return &Ref[T]{value: initial}
	}

	if slot := owner.UseHookSlot(); slot != nil {
		return slot.(*Ref[T])
	}

	r := &Ref[T]{value: initial}
	owner.SetHookSlot(r)
	return r
}

// Current returns the current value of the ref.
func (r *Ref[T]) Current() T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.value
}

// Set sets the ref's value.
func (r *Ref[T]) Set(value T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.value = value
}
