package reactive

// Context provides dependency injection through the owner tree.
// Create a context with CreateContext, provide a value with Provide during a
// render, and read it from any descendant with Use or Lookup.
//
// Example:
//
//	var ThemeContext = reactive.CreateContext("light")
//
//	root.Mount(func() {
//	    ThemeContext.Provide("dark")
//	})
//
//	// in a descendant component
//	theme := ThemeContext.Use()
type Context[T any] struct {
	// key uniquely identifies this context in the owner value map
	key any

	// defaultValue is returned by Use when no provider is found
	defaultValue T
}

type contextKey[T any] struct {
	ctx *Context[T]
}

// CreateContext creates a new context with the given default value.
func CreateContext[T any](defaultValue T) *Context[T] {
	ctx := &Context[T]{
		defaultValue: defaultValue,
	}
	ctx.key = contextKey[T]{ctx: ctx}
	return ctx
}

// Provide stores value on the current owner, making it visible to the owner
// and all of its descendants. Outside of a render it does nothing.
func (c *Context[T]) Provide(value T) {
	if owner := getCurrentOwner(); owner != nil {
		owner.SetValue(c.key, value)
	}
}

// Use retrieves the value from the nearest provider, or the default value if
// there is none.
func (c *Context[T]) Use() T {
	if v, ok := c.Lookup(); ok {
		return v
	}
	return c.defaultValue
}

// Lookup retrieves the value from the nearest provider. The boolean is false
// when no owner in the current hierarchy provides a value of type T.
func (c *Context[T]) Lookup() (T, bool) {
	var zero T
	owner := getCurrentOwner()
	if owner == nil {
		return zero, false
	}
	value, ok := owner.lookupValue(c.key)
	if !ok {
		return zero, false
	}
	typed, ok := value.(T)
	return typed, ok
}

// Default returns the default value for this context.
func (c *Context[T]) Default() T {
	return c.defaultValue
}

// SetValue sets a value on this Owner.
func (o *Owner) SetValue(key, value any) {
	o.valuesMu.Lock()
	defer o.valuesMu.Unlock()

	if o.values == nil {
		o.values = make(map[any]any)
	}
	o.values[key] = value
}

func (o *Owner) lookupValue(key any) (any, bool) {
	o.valuesMu.RLock()
	if o.values != nil {
		if val, ok := o.values[key]; ok {
			o.valuesMu.RUnlock()
			return val, true
		}
	}
	o.valuesMu.RUnlock()

	if o.parent != nil {
		return o.parent.lookupValue(key)
	}
	return nil, false
}
