// Package testutil holds small test helpers shared between asyncqueue and
// rwlock's test suites.
package testutil

import (
	"runtime"
	"testing"
	"time"
)

// CheckNumGoroutines returns a func to be called (typically via defer,
// immediately) that fails t if the number of live goroutines hasn't settled
// back down to at most its pre-call count within timeout. It is meant to
// wrap a test body that should leave no goroutines behind:
//
//	defer CheckNumGoroutines(time.Second*3)(t)
//
// Grounded on the identical pattern used across the pack for the same
// purpose (go-microbatch, go-eventloop): sample runtime.NumGoroutine after a
// runtime.GC, retrying on a short interval until it matches the baseline or
// timeout elapses.
func CheckNumGoroutines(timeout time.Duration) func(t *testing.T) {
	runtime.GC()
	before := runtime.NumGoroutine()
	return func(t *testing.T) {
		t.Helper()
		deadline := time.Now().Add(timeout)
		for {
			runtime.GC()
			after := runtime.NumGoroutine()
			if after <= before {
				return
			}
			if time.Now().After(deadline) {
				t.Errorf("goroutine leak: before=%d after=%d", before, after)
				return
			}
			time.Sleep(time.Millisecond * 20)
		}
	}
}
