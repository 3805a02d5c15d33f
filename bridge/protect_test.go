package bridge

import (
	"errors"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// recorder collects the order in which the closures passed to Protect ran.
type recorder struct {
	calls  []string
	caught *Signal
}

func (r *recorder) try(fn func()) func() {
	return func() {
		r.calls = append(r.calls, "try")
		if fn != nil {
			fn()
		}
	}
}

func (r *recorder) catch(sig *Signal) {
	r.calls = append(r.calls, "catch")
	r.caught = sig
}

func (r *recorder) finally() {
	r.calls = append(r.calls, "finally")
}

func TestProtect_NoSignal(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	rec := &recorder{}

	// --- Act ---
	Protect(rec.try(nil), rec.catch, rec.finally)

	// --- Assert ---
	require.Equal(t, []string{"try", "finally"}, rec.calls, "catch must never run without a signal")
	require.Nil(t, rec.caught)
}

func TestProtect_SignalHandledThenFinalized(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	rec := &recorder{}
	raise := func() { Raise("InvalidArgument", "bad index", map[string]any{"index": 7}) }

	// --- Act ---
	require.NotPanics(t, func() {
		Protect(rec.try(raise), rec.catch, rec.finally)
	})

	// --- Assert ---
	require.Equal(t, []string{"try", "catch", "finally"}, rec.calls)
	require.NotNil(t, rec.caught)
	assert.Equal(t, "InvalidArgument", rec.caught.Name)
	assert.Equal(t, "bad index", rec.caught.Reason)
	assert.Equal(t, 7, rec.caught.Info["index"])
	assert.NotEmpty(t, rec.caught.Stack, "intercepted signals carry the stack")
}

func TestTryCatch_NoFinalizer(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	TryCatch(rec.try(func() { panic("boom") }), rec.catch)

	require.Equal(t, []string{"try", "catch"}, rec.calls)
	require.Equal(t, PanicName, rec.caught.Name)
	require.Equal(t, "boom", rec.caught.Reason)
}

func TestTryFinally_PropagatesAfterFinalizer(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	rec := &recorder{}
	original := errors.New("platform failure")

	// --- Act & Assert ---
	require.PanicsWithValue(t, original, func() {
		TryFinally(rec.try(func() { panic(original) }), rec.finally)
	}, "the original panic value must escape untouched")
	require.Equal(t, []string{"try", "finally"}, rec.calls)
}

func TestProtect_FinallyRunsWhenCatchPanics(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	rethrow := func(sig *Signal) {
		rec.catch(sig)
		Throw(sig)
	}

	require.Panics(t, func() {
		Protect(rec.try(func() { Raise("X", "first", nil) }), rethrow, rec.finally)
	})
	require.Equal(t, []string{"try", "catch", "finally"}, rec.calls)
}

func TestProtect_FinallyRunsOnGoexit(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	rec := &recorder{}
	done := make(chan struct{})

	// --- Act ---
	// runtime.Goexit is what t.FailNow uses; it is not a recoverable panic.
	go func() {
		defer close(done)
		Protect(rec.try(runtime.Goexit), rec.catch, rec.finally)
		rec.calls = append(rec.calls, "unreachable")
	}()
	<-done

	// --- Assert ---
	require.Equal(t, []string{"try", "finally"}, rec.calls)
}

func TestProtect_NilTryStillFinalizes(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	Protect(nil, rec.catch, rec.finally)
	TryFinally(nil, rec.finally)

	require.Equal(t, []string{"finally", "finally"}, rec.calls)
}

func TestProtect_FinallyRunsExactlyOncePerCall(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		try   func()
		catch bool
	}{
		{name: "normal", try: func() {}, catch: true},
		{name: "handled", try: func() { Raise("X", "", nil) }, catch: true},
		{name: "unhandled", try: func() { Raise("X", "", nil) }, catch: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			finals, catches := 0, 0
			var catch func(*Signal)
			if tc.catch {
				catch = func(*Signal) { catches++ }
			}

			func() {
				defer func() { _ = recover() }()
				Protect(tc.try, catch, func() { finals++ })
			}()

			require.Equal(t, 1, finals)
			require.LessOrEqual(t, catches, 1)
		})
	}
}

func TestRun_ReturnsSignalAsError(t *testing.T) {
	t.Parallel()

	err := Run(func() { Raise("X", "reason", nil) })
	require.Error(t, err)
	require.EqualError(t, err, "X: reason")
	require.True(t, errors.Is(err, &Signal{Name: "X"}))
	require.False(t, errors.Is(err, &Signal{Name: "Y"}))

	require.NoError(t, Run(func() {}))
}

func TestCall(t *testing.T) {
	t.Parallel()

	t.Run("value", func(t *testing.T) {
		v, err := Call(func() (int, error) { return 42, nil })
		require.NoError(t, err)
		require.Equal(t, 42, v)
	})

	t.Run("plain error is returned unchanged", func(t *testing.T) {
		want := errors.New("nope")
		_, err := Call(func() (int, error) { return 1, want })
		require.ErrorIs(t, err, want)
		_, isSignal := AsSignal(err)
		require.False(t, isSignal)
	})

	t.Run("signal becomes the error", func(t *testing.T) {
		v, err := Call(func() (string, error) {
			Raise("Timeout", "deadline", nil)
			return "unreachable", nil
		})
		require.Empty(t, v)
		sig, ok := AsSignal(err)
		require.True(t, ok)
		require.Equal(t, "Timeout", sig.Name)
	})
}
