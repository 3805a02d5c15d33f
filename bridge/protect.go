package bridge

// Protect runs try. If try panics and catch is non-nil, the panic is recovered
// and catch receives the captured Signal exactly once. If catch is nil the
// panic is left alone and keeps propagating with its original value and stack.
//
// finally, when non-nil, runs exactly once after try and catch on every exit
// path, including a panic raised by catch itself and runtime.Goexit.
func Protect(try func(), catch func(*Signal), finally func()) {
	if finally != nil {
		defer finally()
	}
	if catch == nil {
		if try != nil {
			try()
		}
		return
	}
	if sig := capture(try); sig != nil {
		catch(sig)
	}
}

// TryCatch is Protect without a finalizer.
func TryCatch(try func(), catch func(*Signal)) {
	Protect(try, catch, nil)
}

// TryFinally is Protect without a handler: a panic raised by try propagates
// after finally has run.
func TryFinally(try func(), finally func()) {
	Protect(try, nil, finally)
}

// Run executes try and returns the intercepted signal as an error, or nil
// when try completed normally.
func Run(try func()) error {
	if sig := capture(try); sig != nil {
		return sig
	}
	return nil
}

// Call executes fn and returns its results. A signal raised by fn is returned
// as the error together with the zero value of T.
func Call[T any](fn func() (T, error)) (T, error) {
	var (
		val T
		err error
	)
	if sig := capture(func() { val, err = fn() }); sig != nil {
		var zero T
		return zero, sig
	}
	return val, err
}

// capture runs try and converts a recovered panic into a Signal.
func capture(try func()) (sig *Signal) {
	if try == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			sig = newSignal(r)
		}
	}()
	try()
	return nil
}
