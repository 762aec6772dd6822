// Package reactive is the component runtime that hosts substate bindings.
//
// It models the small set of primitives a hook-based UI framework provides:
// an Owner tree that scopes state and cleanup, hook slots that give values a
// stable identity across renders, Context for dependency injection down the
// tree, layout effects that run after a render is committed, and Components
// whose invalidation trigger queues a re-render.
//
// # Rendering
//
// A Root owns the top of the tree and a queue of dirty components:
//
//	root := reactive.NewRoot(reactive.Headless)
//	defer root.Dispose()
//
//	counter := root.Mount(func() {
//	    n := reactive.UseRef(0)
//	    reactive.UseLayoutEffect(func() reactive.Cleanup {
//	        fmt.Println("mounted")
//	        return func() { fmt.Println("unmounted") }
//	    })
//	    _ = n.Current()
//	})
//
//	counter.MarkDirty()
//	root.Flush() // re-renders counter
//
// # Effect timing
//
// In Headless mode layout effects run synchronously right after the render
// that scheduled them. In Visual mode they stay pending until Root.Paint, which
// the host calls once the frame is on screen.
//
// # Thread Safety
//
// The tracking context (current owner) is per-goroutine. Renders, effects and
// flushes for one Root are expected to run on a single goroutine.
package reactive
