package reactive

import (
	"runtime"
	"sync"
)

// trackingContext holds the reactive state for one goroutine.
type trackingContext struct {
	// currentOwner is the Owner whose render (or effect) is executing.
	// Hooks read their slots from it.
	currentOwner *Owner
}

// trackingContexts stores per-goroutine tracking contexts.
var trackingContexts sync.Map

// getGoroutineID returns the numeric id of the calling goroutine, parsed from
// the "goroutine <id> " prefix of its stack trace.
func getGoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	var id uint64
	for i := 10; i < n; i++ {
		if buf[i] == ' ' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

// getTrackingContext returns the tracking context for the current goroutine,
// creating it on first use.
func getTrackingContext() *trackingContext {
	gid := getGoroutineID()

	if ctx, ok := trackingContexts.Load(gid); ok {
		return ctx.(*trackingContext)
	}

	ctx := &trackingContext{}
	trackingContexts.Store(gid, ctx)
	return ctx
}

// getCurrentOwner returns the current owner for the goroutine, or nil.
func getCurrentOwner() *Owner {
	return getTrackingContext().currentOwner
}

// setCurrentOwner sets the current owner and returns the previous one so it
// can be restored.
func setCurrentOwner(o *Owner) *Owner {
	ctx := getTrackingContext()
	old := ctx.currentOwner
	ctx.currentOwner = o
	return old
}

// CurrentOwner returns the owner whose render is executing on this goroutine,
// or nil outside of a render.
func CurrentOwner() *Owner {
	return getCurrentOwner()
}

// WithOwner runs fn with owner as the current owner.
// Hooks called inside fn bind to owner's slots and context values.
//
// Example:
//
//	WithOwner(owner, func() {
//	    ThemeContext.Provide("dark")
//	})
func WithOwner(owner *Owner, fn func()) {
	old := setCurrentOwner(owner)
	defer setCurrentOwner(old)
	fn()
}

// releaseGoroutineContext removes the tracking context for the current
// goroutine. Contexts are small; this only matters for long-lived pools.
func releaseGoroutineContext() {
	trackingContexts.Delete(getGoroutineID())
}
