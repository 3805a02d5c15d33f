package blocktest

import (
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/blocktest/bridge"
)

// TestCase is implemented by every suite case type, usually by embedding Case.
type TestCase interface {
	SetT(testing.TB)
	T() testing.TB
	SetLogger(*slog.Logger)
}

// Optional hooks a case type may implement.
type (
	setUpper interface{ SetUp() }
	tearDowner interface{ TearDown() }
	suiteSetUpper interface{ SetUpSuite() }
	suiteTearDowner interface{ TearDownSuite() }
)

// Case is the test context handed to every test block. It gives access to
// the running test and to testify assertions bound to it.
type Case struct {
	t       testing.TB
	logger  *slog.Logger
	assert  *assert.Assertions
	require *require.Assertions
}

// SetT binds the running test.
func (c *Case) SetT(t testing.TB) {
	c.t = t
	c.assert = nil
	c.require = nil
}

// T returns the running test.
func (c *Case) T() testing.TB { return c.t }

// SetLogger sets the logger returned by Logger.
func (c *Case) SetLogger(logger *slog.Logger) { c.logger = logger }

// Logger returns the suite logger, tagged with the suite and test names.
func (c *Case) Logger() *slog.Logger {
	if c.logger == nil {
		return slog.Default()
	}
	return c.logger
}

// Assert returns assertions that mark the test failed and continue.
func (c *Case) Assert() *assert.Assertions {
	if c.assert == nil {
		c.assert = assert.New(c.t)
	}
	return c.assert
}

// Require returns assertions that stop the test on failure.
func (c *Case) Require() *require.Assertions {
	if c.require == nil {
		c.require = require.New(c.t)
	}
	return c.require
}

// NoSignal asserts that fn completes without raising a structured exception.
func (c *Case) NoSignal(fn func(), msgAndArgs ...any) bool {
	c.t.Helper()
	err := bridge.Run(fn)
	if err == nil {
		return true
	}
	sig, _ := bridge.AsSignal(err)
	return assert.Fail(c.t, fmt.Sprintf("unexpected signal %s", sig.String()), msgAndArgs...)
}

// RaisesSignal asserts that fn raises a structured exception named name and
// returns it. An empty name accepts any signal. It returns nil and marks the
// test failed when nothing was raised.
func (c *Case) RaisesSignal(name string, fn func(), msgAndArgs ...any) *bridge.Signal {
	c.t.Helper()
	var got *bridge.Signal
	bridge.TryCatch(fn, func(sig *bridge.Signal) { got = sig })

	if got == nil {
		assert.Fail(c.t, fmt.Sprintf("expected signal %q, none was raised", name), msgAndArgs...)
		return nil
	}
	if name != "" && got.Name != name {
		assert.Fail(c.t, fmt.Sprintf("expected signal %q, got %s", name, got.String()), msgAndArgs...)
	}
	return got
}
