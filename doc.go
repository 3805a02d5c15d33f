// Package blocktest registers test cases from closures at runtime and runs
// them through the go test host next to statically declared test methods.
//
// A suite binds a test-case type to a registry. Exported methods named
// TestXxx on the case type are discovered by reflection; closures are added
// with AddTest, usually from an init function or from a RegisterTests hook on
// the case type. Every entry becomes a subtest of the host test that calls Run:
//
//	type PromiseCase struct{ blocktest.Case }
//
//	func (c *PromiseCase) TestSuccess() { c.Require().True(true) }
//
//	var promises = blocktest.New("PromiseSuite", func() *PromiseCase { return &PromiseCase{} })
//
//	func init() {
//		promises.AddTest("chained completion", func(c *PromiseCase) {
//			c.Assert().Equal(2, 1+1)
//		})
//	}
//
//	func TestPromiseSuite(t *testing.T) { promises.Run(t) }
//
// Each entry runs on a fresh case value produced by the factory; under Run it
// starts as a copy of the value SetUpSuite ran on. Structured
// exceptions (panics) raised by a test body are intercepted with the bridge
// package and reported as a failure of that test alone, so one panicking
// entry does not abort the test binary. Registration closes once discovery
// begins; later registrations fail.
//
// Suites read BLOCKTEST_LOG_LEVEL, BLOCKTEST_LOG_FORMAT, BLOCKTEST_MANIFEST and
// BLOCKTEST_RECOVER from the environment. Options passed to New take
// precedence.
package blocktest
