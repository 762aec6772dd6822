package reactive

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

// Mode selects when layout effects run relative to a render.
type Mode uint8

const (
	// Headless runs layout effects synchronously right after each render.
	// There is no frame to paint, so nothing can flicker.
	Headless Mode = iota

	// Visual defers layout effects until Root.Paint.
	Visual
)

// String returns a human-readable name for the mode.
func (m Mode) String() string {
	switch m {
	case Headless:
		return "headless"
	case Visual:
		return "visual"
	default:
		return "unknown"
	}
}

// DefaultMaxFlushPasses bounds how many rounds of re-renders one Flush runs
// before it gives up on a component tree that keeps invalidating itself.
const DefaultMaxFlushPasses = 100

// RootOption configures a Root.
type RootOption func(*Root)

// WithLogger sets the logger used by the root. Default: slog.Default().
func WithLogger(logger *slog.Logger) RootOption {
	return func(r *Root) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithMaxFlushPasses sets the re-render round limit for Flush.
func WithMaxFlushPasses(n int) RootOption {
	return func(r *Root) {
		if n > 0 {
			r.maxPasses = n
		}
	}
}

// Root is the top of a component tree. It owns the root Owner and the queue
// of components waiting to re-render.
type Root struct {
	owner     *Owner
	mode      Mode
	logger    *slog.Logger
	maxPasses int

	mu    sync.Mutex
	queue []*Component
}

// NewRoot creates an empty component tree running in the given mode.
func NewRoot(mode Mode, opts ...RootOption) *Root {
	r := &Root{
		owner:     NewOwner(nil),
		mode:      mode,
		logger:    slog.Default(),
		maxPasses: DefaultMaxFlushPasses,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Owner returns the root Owner. Context values set on it are visible to every
// component in the tree.
func (r *Root) Owner() *Owner {
	return r.owner
}

// Mode returns the effect timing mode of this tree.
func (r *Root) Mode() Mode {
	return r.mode
}

// Mount creates a top-level component and renders it once.
func (r *Root) Mount(render func()) *Component {
	return r.mount(r.owner, render)
}

func (r *Root) mount(parent *Owner, render func()) *Component {
	c := &Component{
		id:     nextID(),
		root:   r,
		owner:  NewOwner(parent),
		render: render,
	}
	c.owner.invalidate = c.MarkDirty
	c.Render()
	return c
}

func (r *Root) enqueue(c *Component) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queue = append(r.queue, c)
}

// Pending returns the number of components waiting to re-render.
func (r *Root) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.queue)
}

// Flush re-renders dirty components, in the order they were invalidated,
// until no component is dirty. Components invalidated during a flush are
// rendered in a later round of the same flush. Returns the number of renders.
func (r *Root) Flush() int {
	rendered := 0
	for pass := 0; ; pass++ {
		r.mu.Lock()
		batch := r.queue
		r.queue = nil
		r.mu.Unlock()

		if len(batch) == 0 {
			return rendered
		}

		if pass >= r.maxPasses {
			r.logger.Warn("reactive: flush pass limit reached, dropping re-renders",
				"passes", pass,
				"dropped", len(batch))
			for _, c := range batch {
				c.dirty.Store(false)
			}
			return rendered
		}

		for _, c := range batch {
			if c.owner.IsDisposed() || !c.dirty.Load() {
				continue
			}
			c.Render()
			rendered++
		}
	}
}

// Paint runs the layout effects deferred in Visual mode and reports whether
// there were any. In Headless mode there is normally nothing left to run.
func (r *Root) Paint() bool {
	if !r.owner.HasPendingEffects() {
		return false
	}
	r.owner.RunPendingEffects()
	return true
}

// Dispose unmounts every component in the tree.
func (r *Root) Dispose() {
	r.owner.Dispose()

	r.mu.Lock()
	r.queue = nil
	r.mu.Unlock()

	if getCurrentOwner() == nil {
		releaseGoroutineContext()
	}
}

// Component is a render function bound to an Owner. Hooks called by the
// render function keep their state in the owner's hook slots.
type Component struct {
	id     uint64
	root   *Root
	owner  *Owner
	render func()

	dirty   atomic.Bool
	renders int
}

// Mount creates a child component of c and renders it once. The child sees
// every context value provided by c and c's ancestors.
func (c *Component) Mount(render func()) *Component {
	return c.root.mount(c.owner, render)
}

// ID returns the unique identifier for this component.
func (c *Component) ID() uint64 {
	return c.id
}

// Owner returns the component's owner.
func (c *Component) Owner() *Owner {
	return c.owner
}

// Renders returns how many times the component has rendered.
func (c *Component) Renders() int {
	return c.renders
}

// MarkDirty queues the component for re-render on the next Flush.
// Repeated calls before the re-render queue it once.
func (c *Component) MarkDirty() {
	if c.owner.IsDisposed() {
		return
	}
	if c.dirty.CompareAndSwap(false, true) {
		c.root.enqueue(c)
	}
}

// Render runs the render function now and commits it. In Headless mode the
// layout effects scheduled by the render run before Render returns.
func (c *Component) Render() {
	if c.owner.IsDisposed() {
		return
	}
	c.dirty.Store(false)

	WithOwner(c.owner, func() {
		c.owner.StartRender()
		defer c.owner.EndRender()
		c.render()
	})
	c.renders++

	if c.root.mode == Headless {
		c.owner.RunPendingEffects()
	}
}

// Unmount disposes the component and its descendants.
func (c *Component) Unmount() {
	c.owner.Dispose()
}

// UseInvalidate returns the re-render trigger of the component being
// rendered. Outside of a component it returns a no-op.
func UseInvalidate() func() {
	owner := getCurrentOwner()
	if owner == nil {
		return func() {}
	}
	return owner.Invalidate
}
