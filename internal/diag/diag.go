// Package diag is the shared diagnostics wiring for asyncqueue and rwlock.
//
// Both packages accept an optional *logiface.Logger[logiface.Event], in the
// style of go-eventloop's Loop (which takes a logger obtained by calling
// .Logger() on a concretely-typed logiface.Logger[E]). Every method on a nil
// or writer-less *logiface.Logger[E] is a safe no-op (logiface.Logger.Build
// and logiface.Builder's methods all guard against a nil/disabled receiver
// before doing any work), so callers that don't configure a logger pay only
// the cost of a level check.
package diag

import "github.com/joeycumines/logiface"

// Logger is the diagnostics sink used by asyncqueue and rwlock. The zero
// value is not meaningful; use NewDisabled or a logger obtained via
// logiface.Logger[E].Logger().
type Logger = logiface.Logger[logiface.Event]

// NewDisabled returns a writer-less logger: safe to call, never writes
// anything. This is the default used when no WithLogger option is given.
func NewDisabled() *Logger {
	return logiface.New[logiface.Event]()
}
