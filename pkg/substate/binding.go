package substate

import "sync"

// State is the lifecycle state of a Binding.
type State uint8

const (
	// Unattached bindings have not registered a listener yet.
	Unattached State = iota
	// Attached bindings hold exactly one registration.
	Attached
	// Detached bindings have released their registration. Detached is
	// terminal; re-attaching means creating a new Binding.
	Detached
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case Unattached:
		return "unattached"
	case Attached:
		return "attached"
	case Detached:
		return "detached"
	default:
		return "unknown"
	}
}

// Binding is one consumer's attachment to an engine, scoped to one key or
// to the whole store.
//
// A Binding moves Unattached → Attached → Detached. Attach registers notify
// with the engine and seeds the store with the initial value, if any. Detach
// releases the registration exactly once no matter how often, or from which
// path, it is called.
type Binding struct {
	engine     *Engine
	key        Key
	notify     func()
	initial    any
	hasInitial bool

	mu          sync.Mutex
	state       State
	unsubscribe func()
}

// NewBinding creates an unattached binding. notify is called once per update
// to key's scope while the binding is attached. A nil initial value counts
// as no initial value.
func NewBinding(engine *Engine, key Key, notify func(), initial ...any) *Binding {
	b := &Binding{
		engine: engine,
		key:    key,
		notify: notify,
	}
	if len(initial) > 0 && initial[0] != nil {
		b.initial = initial[0]
		b.hasInitial = true
	}
	return b
}

// Engine returns the engine the binding attaches to.
func (b *Binding) Engine() *Engine {
	return b.engine
}

// Key returns the scope the binding watches.
func (b *Binding) Key() Key {
	return b.key
}

// State returns the lifecycle state.
func (b *Binding) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Attach registers the binding's listener. It reports whether the binding
// moved to Attached; attaching an attached or detached binding does nothing.
func (b *Binding) Attach() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state != Unattached {
		return false
	}
	if b.hasInitial {
		b.unsubscribe = b.engine.Subscribe(b.key, b.notify, b.initial)
	} else {
		b.unsubscribe = b.engine.Subscribe(b.key, b.notify)
	}
	b.state = Attached
	return true
}

// Detach releases the registration. It reports whether this call moved the
// binding to Detached. An unattached binding detaches without ever
// registering.
func (b *Binding) Detach() bool {
	b.mu.Lock()
	if b.state == Detached {
		b.mu.Unlock()
		return false
	}
	unsubscribe := b.unsubscribe
	b.unsubscribe = nil
	b.state = Detached
	b.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	return true
}

// Value returns the current value of the watched scope.
//
// Until the binding has attached, the initial value is returned instead so
// that the first render shows it even though the store is only seeded on
// attach. A functional initial value is applied to the current value for
// this read without writing the result.
func (b *Binding) Value() any {
	if b.hasInitial && b.State() == Unattached {
		if isFunc(b.initial) {
			current, _ := b.engine.Get(b.key)
			return apply(b.initial, current)
		}
		return b.initial
	}
	v, _ := b.engine.Get(b.key)
	return v
}

// Set forwards to the engine's Update for the watched scope.
func (b *Binding) Set(value any) {
	b.engine.Update(b.key, value)
}
