package bridge

import (
	"errors"
	"fmt"
	"maps"
	"runtime"
	"runtime/debug"
	"slices"
	"strings"
)

const (
	// RuntimeErrorName is the signal name given to recovered runtime.Error values.
	RuntimeErrorName = "runtime.Error"
	// PanicName is the signal name given to recovered values that are neither
	// signals nor errors.
	PanicName = "panic"
)

// Signal is a captured structured exception. It is produced from the
// recovered panic value and is read-only to handlers.
type Signal struct {
	// Name identifies the kind of exception.
	Name string
	// Reason is the human-readable cause.
	Reason string
	// Info carries optional context supplied by the raiser.
	Info map[string]any
	// Value is the raw recovered value.
	Value any
	// Stack is the goroutine stack at the point of interception.
	Stack []byte
}

// Raise panics with a new structured exception. It is the raising side of the
// bridge and stands in for platform code that signals failure by panicking.
func Raise(name, reason string, info map[string]any) {
	panic(&Signal{Name: name, Reason: reason, Info: info})
}

// Throw re-raises a previously captured signal.
func Throw(sig *Signal) {
	panic(sig)
}

// Error implements the error interface.
func (s *Signal) Error() string {
	if s.Reason == "" {
		return s.Name
	}
	return s.Name + ": " + s.Reason
}

// Unwrap returns the recovered value when it was an error.
func (s *Signal) Unwrap() error {
	if _, self := s.Value.(*Signal); self {
		return nil
	}
	err, _ := s.Value.(error)
	return err
}

// Is reports whether target is a *Signal with the same name, so that
// errors.Is(err, &Signal{Name: "X"}) matches any X signal.
func (s *Signal) Is(target error) bool {
	t, ok := target.(*Signal)
	if !ok {
		return false
	}
	return t.Name == s.Name
}

// String renders the signal together with its info keys, if any.
func (s *Signal) String() string {
	if len(s.Info) == 0 {
		return s.Error()
	}
	var b strings.Builder
	b.WriteString(s.Error())
	b.WriteString(" {")
	for i, k := range slices.Sorted(maps.Keys(s.Info)) {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s=%v", k, s.Info[k])
	}
	b.WriteString("}")
	return b.String()
}

// AsSignal returns the first *Signal in err's chain.
func AsSignal(err error) (*Signal, bool) {
	var sig *Signal
	if errors.As(err, &sig) {
		return sig, true
	}
	return nil, false
}

// newSignal converts a recovered panic value into a Signal.
func newSignal(r any) *Signal {
	stack := debug.Stack()

	switch v := r.(type) {
	case *Signal:
		if v.Stack == nil {
			v.Stack = stack
		}
		if v.Value == nil {
			v.Value = v
		}
		return v
	case runtime.Error:
		return &Signal{Name: RuntimeErrorName, Reason: v.Error(), Value: r, Stack: stack}
	case error:
		return &Signal{Name: fmt.Sprintf("%T", v), Reason: v.Error(), Value: r, Stack: stack}
	case string:
		return &Signal{Name: PanicName, Reason: v, Value: r, Stack: stack}
	case fmt.Stringer:
		return &Signal{Name: PanicName, Reason: v.String(), Value: r, Stack: stack}
	default:
		return &Signal{Name: PanicName, Reason: fmt.Sprint(v), Value: r, Stack: stack}
	}
}
