package asyncqueue

import (
	"context"
	"sync"
)

// Future is a one-shot value-or-error cell: the Go rendering of the spec's
// "deferred" external collaborator. It is produced by [Queue.Get], and
// either already holds a value (if a Put value was buffered) or settles
// later: when a matching Put/PutFuture arrives, or, for a future buffered
// by PutFuture, when its producer resolves it.
//
// Grounded on go-microbatch's batcherState/JobResult pair: a channel closed
// exactly once on settlement, guarded by a mutex so a second settle is a
// no-op rather than a second close panic.
type Future[T any] struct {
	mu        sync.Mutex
	done      chan struct{}
	val       T
	err       error
	settled   bool
	observers []func(T, error)
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

func newSettledFuture[T any](v T, err error) *Future[T] {
	f := newFuture[T]()
	f.settle(v, err)
	return f
}

// settle resolves the future. Only the first call has any effect; later
// calls (there should be none, in correct use, but PutFuture lets a caller
// hand us a future they also hold a reference to) are silently ignored.
func (f *Future[T]) settle(v T, err error) {
	f.mu.Lock()
	if f.settled {
		f.mu.Unlock()
		return
	}
	f.settled = true
	f.val, f.err = v, err
	observers := f.observers
	f.observers = nil
	close(f.done)
	f.mu.Unlock()

	for _, o := range observers {
		o(v, err)
	}
}

// onSettle invokes cb when f settles, immediately if it already has.
func (f *Future[T]) onSettle(cb func(T, error)) {
	f.mu.Lock()
	if f.settled {
		v, err := f.val, f.err
		f.mu.Unlock()
		cb(v, err)
		return
	}
	f.observers = append(f.observers, cb)
	f.mu.Unlock()
}

// Done returns a channel that is closed once the future has settled, for use
// in a select alongside other channels.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the future settles, or ctx is done, whichever happens
// first. A nil ctx is treated as context.Background.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	select {
	case <-f.done:
		return f.val, f.err
	default:
	}

	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
