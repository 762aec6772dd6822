// Package errors provides structured, actionable errors for the substate CLI.
//
// Each error has a code (e.g., "R001") registered with a category, a short
// message and a longer explanation. Errors raised while running a replay
// script carry the script and step they came from.
//
// # Usage
//
//	err := errors.New("R002").
//	    At("counter.json", 4, "update").
//	    WithSuggestion(`mount the consumer first: {"op": "mount", "id": "A"}`)
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR R002: Unknown consumer
//	//
//	//   counter.json step 4 (update)
//	//
//	//   The step refers to a consumer id that was never mounted or was
//	//   already unmounted.
//	//
//	//   Hint: mount the consumer first: {"op": "mount", "id": "A"}
package errors
