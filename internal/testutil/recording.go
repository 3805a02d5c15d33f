// Package testutil holds test doubles shared by the package tests.
package testutil

import (
	"fmt"
	"runtime"
	"strings"
	"sync"
	"testing"
)

// RecordingT is a testing.TB that records failures, skips, and logs instead
// of reporting them to the enclosing test. It lets a test observe an entry
// point that is expected to fail.
//
// Methods not overridden here panic through the nil embedded TB.
type RecordingT struct {
	testing.TB

	name string

	mu       sync.Mutex
	failed   bool
	skipped  bool
	errors   []string
	logs     []string
	cleanups []func()
}

// NewRecordingT creates a recorder reporting name from Name.
func NewRecordingT(name string) *RecordingT {
	return &RecordingT{name: name}
}

// Run calls f with the recorder on a fresh goroutine, so that FailNow and
// SkipNow end f the way they end a real test, then runs registered cleanups
// in reverse order.
func (r *RecordingT) Run(f func(testing.TB)) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		f(r)
	}()
	<-done

	r.mu.Lock()
	cleanups := r.cleanups
	r.cleanups = nil
	r.mu.Unlock()

	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
}

func (r *RecordingT) Name() string { return r.name }
func (r *RecordingT) Helper()      {}

func (r *RecordingT) Cleanup(f func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cleanups = append(r.cleanups, f)
}

func (r *RecordingT) Log(args ...any) { r.record(&r.logs, fmt.Sprintln(args...)) }

func (r *RecordingT) Logf(format string, args ...any) { r.record(&r.logs, fmt.Sprintf(format, args...)) }

func (r *RecordingT) Error(args ...any) {
	r.record(&r.errors, fmt.Sprintln(args...))
	r.Fail()
}

func (r *RecordingT) Errorf(format string, args ...any) {
	r.record(&r.errors, fmt.Sprintf(format, args...))
	r.Fail()
}

func (r *RecordingT) Fatal(args ...any) {
	r.Error(args...)
	r.FailNow()
}

func (r *RecordingT) Fatalf(format string, args ...any) {
	r.Errorf(format, args...)
	r.FailNow()
}

func (r *RecordingT) Fail() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed = true
}

func (r *RecordingT) FailNow() {
	r.Fail()
	runtime.Goexit()
}

func (r *RecordingT) Failed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.failed
}

func (r *RecordingT) Skip(args ...any) {
	r.Log(args...)
	r.SkipNow()
}

func (r *RecordingT) Skipf(format string, args ...any) {
	r.Logf(format, args...)
	r.SkipNow()
}

func (r *RecordingT) SkipNow() {
	r.mu.Lock()
	r.skipped = true
	r.mu.Unlock()
	runtime.Goexit()
}

func (r *RecordingT) Skipped() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.skipped
}

// Errors returns the recorded failure messages.
func (r *RecordingT) Errors() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.errors...)
}

// Logs returns everything logged, including skip messages.
func (r *RecordingT) Logs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.logs...)
}

// Output joins the failure messages.
func (r *RecordingT) Output() string {
	return strings.Join(r.Errors(), "\n")
}

func (r *RecordingT) record(dst *[]string, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	*dst = append(*dst, strings.TrimSuffix(msg, "\n"))
}
