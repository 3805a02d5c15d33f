// Package bridge provides a protected-execution primitive for code that calls
// into lower-level runtimes which signal failure by panicking.
//
// Protect runs a unit of work, intercepts a structured exception signal (a
// recoverable panic) raised while it runs, hands the captured Signal to a
// handler, and always runs a finalizer. TryCatch and TryFinally are the two
// reduced call shapes. Run and Call map a captured signal into a plain error
// return value for callers that prefer Go's error idiom.
//
// The bridge holds no state between calls and raises nothing of its own.
//
// Only recoverable panics raised on the calling goroutine are intercepted.
// Fatal runtime errors (concurrent map writes, out of memory, stack
// exhaustion) terminate the process and cannot be observed here.
// runtime.Goexit, which t.FailNow and t.SkipNow use, is not a panic either: it
// is never handed to a catch block, but finalizers still run while it unwinds.
package bridge
