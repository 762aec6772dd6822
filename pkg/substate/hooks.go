package substate

import "github.com/vango-dev/substate/pkg/reactive"

// engineContext carries the engine from a provider to its descendants.
var engineContext = reactive.CreateContext[*Engine](nil)

// UseProvider creates the engine of the current component on its first
// render and provides it to the component's descendants. Later renders
// return the same engine with its state untouched. The engine is closed when
// the component unmounts.
//
// This is a hook and must be called unconditionally during render.
//
// Example:
//
//	app := root.Mount(func() {
//	    substate.UseProvider(substate.Store{"count": 0})
//	})
func UseProvider(initial Store, opts ...Option) *Engine {
	ref := reactive.UseRef[*Engine](nil)
	e := ref.Current()
	if e == nil {
		e = New(initial, opts...)
		ref.Set(e)
		reactive.OnUnmount(e.Close)
	}
	Provide(e)
	return e
}

// Provide makes an existing engine available to the current component's
// descendants. The caller keeps ownership of the engine.
func Provide(e *Engine) {
	engineContext.Provide(e)
}

// FromContext returns the engine provided above the current component, or
// ErrNoProvider.
func FromContext() (*Engine, error) {
	e, ok := engineContext.Lookup()
	if !ok || e == nil {
		return nil, ErrNoProvider
	}
	return e, nil
}

// UseEngine returns the engine provided above the current component, for
// direct access to the raw store and update function. It panics with an
// error wrapping ErrNoProvider when there is none.
func UseEngine() *Engine {
	e, err := FromContext()
	if err != nil {
		misuse("E001", err, "substate hooks must run below UseProvider or Provide")
	}
	return e
}

// Setter writes to the scope a consumer hook is bound to.
type Setter[T any] struct {
	engine *Engine
	key    Key
}

// Set replaces the value.
func (s Setter[T]) Set(value T) {
	s.engine.Update(s.key, value)
}

// Update replaces the value with fn applied to the current value.
func (s Setter[T]) Update(fn func(T) T) {
	s.engine.Update(s.key, func(current any) any {
		return fn(as[T](current))
	})
}

// Use binds the current component to key and returns the current value and
// a setter. The component re-renders on every update to key's scope.
//
// The key must stay the same for the lifetime of the call site; a different
// key on a later render detaches the old binding and attaches a new one.
//
// Example:
//
//	count, setCount := substate.Use[int](substate.At("count"))
//	everything, _ := substate.Use[substate.Store](substate.Whole)
func Use[T any](key Key) (T, Setter[T]) {
	return use[T](key, nil)
}

// UseInit is Use with an initial value that seeds the store when the
// binding attaches, and is returned until then.
func UseInit[T any](key Key, initial T) (T, Setter[T]) {
	return use[T](key, initial)
}

// UseInitFunc is Use with an initial value computed from the current value.
func UseInitFunc[T any](key Key, fn func(T) T) (T, Setter[T]) {
	return use[T](key, func(current any) any {
		return fn(as[T](current))
	})
}

func use[T any](key Key, initial any) (T, Setter[T]) {
	b := useBinding(key, initial)
	return as[T](b.Value()), Setter[T]{engine: b.engine, key: key}
}

// useBinding keeps one Binding per call site. The binding attaches in a
// layout effect and is detached by the effect cleanup, which runs when the
// key changes and when the component unmounts.
func useBinding(key Key, initial any) *Binding {
	engine := UseEngine()
	invalidate := reactive.UseInvalidate()

	ref := reactive.UseRef[*Binding](nil)
	b := ref.Current()
	if b == nil || b.Key() != key || b.Engine() != engine {
		b = NewBinding(engine, key, invalidate, initial)
		ref.Set(b)
	}

	reactive.UseLayoutEffect(func() reactive.Cleanup {
		b.Attach()
		return func() { b.Detach() }
	}, key, engine)

	return b
}

// as converts v to T, returning the zero value when v is absent or of
// another type.
func as[T any](v any) T {
	t, _ := v.(T)
	return t
}
