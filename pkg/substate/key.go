package substate

import "strconv"

// Key selects the target of a read, update or subscription: either one entry
// of the store or the whole store.
//
// The zero Key is Whole.
type Key struct {
	name  string
	keyed bool
}

// Whole selects the whole store.
var Whole = Key{}

// At selects the entry stored under name. The empty string is a valid name.
func At(name string) Key {
	return Key{name: name, keyed: true}
}

// Index selects a numeric entry. Numeric keys share the string key space:
// Index(3) and At("3") select the same entry.
func Index(n int) Key {
	return At(strconv.Itoa(n))
}

// IsWhole reports whether k selects the whole store.
func (k Key) IsWhole() bool {
	return !k.keyed
}

// Name returns the entry name. It is empty for Whole.
func (k Key) Name() string {
	return k.name
}

// String returns the entry name quoted, or "<whole>".
func (k Key) String() string {
	if !k.keyed {
		return "<whole>"
	}
	return strconv.Quote(k.name)
}

// scope returns the metrics/tracing label for k.
func (k Key) scope() string {
	if !k.keyed {
		return scopeStore
	}
	return scopeKey
}
