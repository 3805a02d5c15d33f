package blocktest

import (
	"testing"
)

// Test is the entry point synthesized for one registration. The host runs it
// like any statically declared test.
type Test struct {
	Suite         string
	Name          string
	CorrelationID string
	// Static is true for TestXxx methods of the case type.
	Static bool
	// Skip is set when a manifest marks the test skipped.
	Skip       bool
	SkipReason string

	run func(testing.TB)
}

// FullName is the name the test carries in the host's flat namespace.
func (t *Test) FullName() string {
	return t.Suite + "." + t.Name
}

// Invoke runs the test against tb: a new case value, SetUp, the block, and
// TearDown.
func (t *Test) Invoke(tb testing.TB) {
	tb.Helper()
	t.run(tb)
}

// InternalTest returns the test in the shape testing.Main expects.
func (t *Test) InternalTest() testing.InternalTest {
	return testing.InternalTest{
		Name: t.FullName(),
		F:    func(tt *testing.T) { t.Invoke(tt) },
	}
}
