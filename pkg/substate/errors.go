package substate

import (
	"errors"
	"fmt"
)

// ErrNoProvider is returned (or wrapped in a panic) when a consumer hook runs
// in a component that has no engine provider above it.
var ErrNoProvider = errors.New("substate: no engine provider in component tree")

// ErrNotAStore is wrapped in the panic raised when a whole-store update is
// given a value that is neither a Store nor a function producing one.
var ErrNotAStore = errors.New("substate: whole-store value is not a Store")

// ErrBadUpdateFunc is wrapped in the panic raised when an update is given a
// function that cannot be applied to the current value.
var ErrBadUpdateFunc = errors.New("substate: update function must take and return one value of the target's type")

// ErrNilListener is wrapped in the panic raised when Subscribe is given a nil
// notify function.
var ErrNilListener = errors.New("substate: nil listener")

// misuse panics with a coded message wrapping err.
func misuse(code string, err error, format string, args ...any) {
	panic(fmt.Errorf("[SUBSTATE %s] %s: %w", code, fmt.Sprintf(format, args...), err))
}
