package substate

import (
	"context"
	"log/slog"
	"maps"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Store is the shared key-value state of an Engine.
type Store map[string]any

// Engine owns a Store and the listeners subscribed to it.
//
// The Store reference returned by Store stays the same for the lifetime of
// the engine; whole-store updates replace its contents in place.
//
// An Engine is meant to be driven from the single goroutine that runs its
// component tree. Internal locks keep it memory-safe under concurrent use,
// but updates from several goroutines are not ordered with respect to each
// other.
type Engine struct {
	logger  *slog.Logger
	metrics *metrics
	tracer  trace.Tracer
	fanOut  bool

	mu     sync.RWMutex
	store  Store
	closed bool

	// lastID is the last subscriber id handed out by this engine.
	lastID atomic.Uint64

	storeSubs *registry
	keySubs   *xsync.MapOf[string, *registry]
}

// New creates an engine seeded with a copy of initial (which may be nil).
//
// Example:
//
//	engine := substate.New(substate.Store{"count": 0},
//	    substate.WithLogger(logger),
//	)
func New(initial Store, opts ...Option) *Engine {
	cfg := Config{InitialValue: initial}
	for _, opt := range opts {
		opt(&cfg)
	}
	return NewWithConfig(cfg)
}

// NewWithConfig creates an engine from a Config.
func NewWithConfig(cfg Config) *Engine {
	cfg = cfg.withDefaults()

	store := make(Store, len(cfg.InitialValue))
	maps.Copy(store, cfg.InitialValue)

	return &Engine{
		logger:    cfg.Logger,
		metrics:   newMetrics(cfg),
		tracer:    cfg.Tracer,
		fanOut:    cfg.WholeStoreFanOut,
		store:     store,
		storeSubs: newRegistry(),
		keySubs:   xsync.NewMapOf[string, *registry](),
	}
}

// Store returns the live store. Its contents change with every update; use
// Snapshot for a stable copy.
func (e *Engine) Store() Store {
	return e.store
}

// Snapshot returns a copy of the store's current contents.
func (e *Engine) Snapshot() Store {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return maps.Clone(e.store)
}

// Get returns the value at key. For Whole it returns the live store.
// The boolean is false when key has never been written.
func (e *Engine) Get(key Key) (any, bool) {
	if key.IsWhole() {
		return e.store, true
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	v, ok := e.store[key.name]
	return v, ok
}

// Update writes value to the target selected by key and then notifies every
// listener subscribed to exactly that scope, in registration order. With
// WholeStoreFanOut, whole-store listeners are notified after the key's.
//
// If value is a function of one argument and one result, such as
// func(any) any or func(int) int, it is applied to the current target value
// and its result is written. An absent target is passed as the zero value of
// the argument type. For Whole, value must be a Store, a map[string]any, nil
// (empties the store) or a function returning one of those; anything else
// panics.
func (e *Engine) Update(key Key, value any) {
	e.UpdateContext(context.Background(), key, value)
}

// UpdateContext is Update recorded as a span under ctx.
func (e *Engine) UpdateContext(ctx context.Context, key Key, value any) {
	scope := key.scope()
	_, span := e.tracer.Start(ctx, "substate.update",
		trace.WithAttributes(
			attribute.String("substate.scope", scope),
			attribute.String("substate.key", key.Name()),
		))
	defer span.End()

	e.write(key, value)
	e.metrics.updated(scope)

	n := 0
	if reg := e.registryFor(key, false); reg != nil {
		n = reg.notify()
	}
	if e.fanOut && !key.IsWhole() {
		n += e.storeSubs.notify()
	}
	e.metrics.notified(scope, n)
	span.SetAttributes(attribute.Int("substate.listeners", n))

	e.logger.Debug("substate: update",
		"key", key.String(),
		"listeners", n)
}

// Subscribe registers notify for the scope selected by key and returns the
// function that removes it. The returned function may be called any number
// of times, including after Close; only the first call has an effect.
//
// If an initial value is given (and is not nil) the target is seeded with it
// first, following the same rules as Update. Seeding notifies nobody.
func (e *Engine) Subscribe(key Key, notify func(), initial ...any) (unsubscribe func()) {
	if notify == nil {
		misuse("E004", ErrNilListener, "cannot subscribe to %s", key)
	}
	id := e.lastID.Add(1)

	if len(initial) > 0 && initial[0] != nil {
		e.write(key, initial[0])
	}

	e.mu.RLock()
	closed := e.closed
	e.mu.RUnlock()
	if closed {
		return func() {}
	}

	reg := e.registryFor(key, true)
	reg.add(id, notify)

	scope := key.scope()
	e.metrics.subscribed(scope, 1)
	e.logger.Debug("substate: subscribe",
		"key", key.String(),
		"id", id)

	var once sync.Once
	return func() {
		once.Do(func() {
			if !reg.remove(id) {
				return
			}
			e.metrics.subscribed(scope, -1)
			e.logger.Debug("substate: unsubscribe",
				"key", key.String(),
				"id", id)
		})
	}
}

// Subscribers returns the number of listeners subscribed to the scope
// selected by key.
func (e *Engine) Subscribers(key Key) int {
	reg := e.registryFor(key, false)
	if reg == nil {
		return 0
	}
	return reg.len()
}

// Close drops every subscription. It is called when the engine's owner is
// torn down; unsubscribe functions called afterwards do nothing, and later
// subscriptions are not registered. The store stays readable.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.mu.Unlock()

	e.metrics.subscribed(scopeStore, -e.storeSubs.clear())
	e.keySubs.Range(func(_ string, reg *registry) bool {
		e.metrics.subscribed(scopeKey, -reg.clear())
		return true
	})
}

// registryFor returns the registry for key's scope. Key buckets are created
// on first subscription when create is set and are never removed.
func (e *Engine) registryFor(key Key, create bool) *registry {
	if key.IsWhole() {
		return e.storeSubs
	}
	if !create {
		reg, _ := e.keySubs.Load(key.name)
		return reg
	}
	reg, _ := e.keySubs.LoadOrCompute(key.name, newRegistry)
	return reg
}

// write applies value to the target selected by key without notifying.
func (e *Engine) write(key Key, value any) {
	if key.IsWhole() {
		e.replace(value)
		return
	}

	if isFunc(value) {
		e.mu.RLock()
		current := e.store[key.name]
		e.mu.RUnlock()
		value = apply(value, current)
	}

	e.mu.Lock()
	e.store[key.name] = value
	e.mu.Unlock()
}

// replace swaps the contents of the store for the Store described by value.
func (e *Engine) replace(value any) {
	if isFunc(value) {
		value = apply(value, e.store)
	}

	var next Store
	switch v := value.(type) {
	case nil:
	case Store:
		next = maps.Clone(v)
	case map[string]any:
		next = maps.Clone(v)
	default:
		misuse("E002", ErrNotAStore, "cannot replace the store with a %T", value)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	clear(e.store)
	maps.Copy(e.store, next)
}

func isFunc(v any) bool {
	if _, ok := v.(func(any) any); ok {
		return true
	}
	return v != nil && reflect.TypeOf(v).Kind() == reflect.Func
}

// apply calls the unary function fn with current. A function of another
// shape, or one whose argument type does not accept current, panics.
func apply(fn, current any) any {
	if f, ok := fn.(func(any) any); ok {
		return f(current)
	}

	v := reflect.ValueOf(fn)
	t := v.Type()
	if t.NumIn() != 1 || t.NumOut() != 1 || t.IsVariadic() {
		misuse("E003", ErrBadUpdateFunc, "cannot apply a %s", t)
	}

	in := reflect.Zero(t.In(0))
	if current != nil {
		cv := reflect.ValueOf(current)
		if !cv.Type().AssignableTo(t.In(0)) {
			misuse("E003", ErrBadUpdateFunc, "cannot pass a %T to a %s", current, t)
		}
		in = cv
	}

	out := v.Call([]reflect.Value{in})[0]
	if out.Kind() == reflect.Interface && out.IsNil() {
		return nil
	}
	return out.Interface()
}
