// Package registry is the table behind closure-registered tests.
//
// A Registry maps test names to the closures that implement them, in the
// order they were registered, and synthesizes an EntryPoint for each one.
// Registration happens while a suite is being constructed. The first
// enumeration closes the registry: from then on the table is read-only, which
// keeps discovery idempotent and makes concurrent readers safe.
//
// The registry never recovers panics raised by the closures it stores.
package registry
