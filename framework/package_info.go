// Package framework contains the low-level test harness infrastructure that does not know
// anything about posts.
//
// The general model is:
//
// 1. The test harness talks to a target service over HTTP. Before any test runs, it polls a
// status resource on the target until the target answers, so that a slow-starting server does
// not make the first tests fail.
//
// 2. There is a general notion of a test context which is similar to Go's *testing.T, allowing
// pieces of test logic to be associated with a test identifier and to accumulate success/failure
// results, plus per-test debug output that is only shown when it is wanted.
//
// The domain-specific code that knows what is being tested is responsible for deciding which
// requests to send and what to assert about the responses.
package framework
