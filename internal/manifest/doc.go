// Package manifest loads HCL test manifests and checks them against the tests
// a suite registered in Go.
//
// A manifest cross-references registered tests with an external naming scheme
// through correlation ids, marks tests as skipped, and can require that every
// registered test is declared. Manifests are read once, before discovery, and
// the parity check runs when the suite is enumerated, so a mismatch between
// the Go code and the manifest fails the suite before any test body runs.
//
//	suite "PromiseSuite" {
//	  strict = true
//
//	  test "TestSuccess" {
//	    correlation_id = "FK-101"
//	  }
//	  test "slow chain" {
//	    skip        = lookup(env, "CI", "") == "true"
//	    skip_reason = "too slow for CI"
//	  }
//	}
//
// Expressions are evaluated with an `env` map holding the process
// environment.
package manifest
