package reactive

// Cleanup is a function returned by effects to release what they acquired.
// It is called before the effect re-runs and when the effect is disposed.
type Cleanup func()
