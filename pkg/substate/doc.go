// Package substate shares a key-value store between independent components
// and re-renders each component only when the slice of state it watches
// changes.
//
// An Engine owns the store and two subscription registries: one for listeners
// bound to the whole store, and one bucket per key for listeners bound to that
// key. An update notifies exactly the listeners of the scope it wrote, in
// registration order, synchronously.
//
// Bindings attach a component to an engine. The hooks in this package create
// the engine once per provider component, make it available to descendants,
// and manage each consumer's binding across renders.
//
// Usage:
//
//	root := reactive.NewRoot(reactive.Headless)
//
//	app := root.Mount(func() {
//	    substate.UseProvider(substate.Store{"count": 0})
//	})
//
//	app.Mount(func() {
//	    count, setCount := substate.Use[int](substate.At("count"))
//	    fmt.Println("count is", count)
//	    _ = setCount // setCount.Update(func(n int) int { return n + 1 })
//	})
//
// # Keys
//
// Whole selects the whole store. At and Index select one key; At("") and
// Index(0) are ordinary keys and never mean the whole store.
//
// # Functional updates
//
// A value of type func(any) any passed to Update is applied to the current
// value of the target. For the whole store a func(Store) Store is accepted as
// well. Every other value is stored as-is.
package substate
