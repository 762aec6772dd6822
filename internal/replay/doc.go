// Package replay runs scripted scenarios against a substate engine hosted in
// a reactive component tree.
//
// A script is a JSON document listing the initial store and a sequence of
// steps. Consumers are components bound to one key (or the whole store);
// the runner records how often each one renders and the value it last
// rendered with.
//
//	{
//	  "initial": {"count": 0},
//	  "steps": [
//	    {"op": "mount", "id": "A", "key": "count"},
//	    {"op": "mount", "id": "W"},
//	    {"op": "add", "key": "count", "delta": 1},
//	    {"op": "flush"},
//	    {"op": "expect", "id": "A", "value": 1}
//	  ]
//	}
//
// Step operations:
//
//	mount    mount consumer id bound to key (whole store when key is absent),
//	         optionally below another consumer (parent) and with an initial value
//	unmount  unmount consumer id and its descendants
//	set      write value to key
//	add      add delta to the number stored under key
//	replace  replace the whole store with value
//	flush    re-render invalidated consumers
//	paint    run deferred layout effects (visual mode)
//	expect   compare a consumer's last rendered value, or the stored value
//	         under key when id is absent
package replay
