// Package asyncqueue implements an unbounded FIFO rendezvous queue between
// Put and Get callers: a Get that arrives before any matching Put parks and
// is handed the next value the moment one is available, in the order the
// Get calls themselves arrived.
package asyncqueue

import (
	"sync"

	"github.com/joeycumines/go-asyncrw/internal/diag"
)

// Queue is a FIFO put/get rendezvous queue of T. The zero value is not
// usable; construct one with New.
type Queue[T any] struct {
	mu        sync.Mutex
	available []*Future[T]
	pending   []*Future[T]
	log       *diag.Logger
}

// Option configures a Queue at construction time.
type Option[T any] func(*Queue[T])

// WithLogger injects a diagnostics logger. The default is an inert,
// writer-less logger.
func WithLogger[T any](l *diag.Logger) Option[T] {
	return func(q *Queue[T]) {
		if l != nil {
			q.log = l
		}
	}
}

// New constructs a Queue, optionally pre-loaded with initial values (already
// available to the first Get callers, in slice order). initial may be nil.
func New[T any](initial []T, opts ...Option[T]) *Queue[T] {
	q := &Queue[T]{log: diag.NewDisabled()}
	for _, o := range opts {
		o(q)
	}
	for _, v := range initial {
		q.available = append(q.available, newSettledFuture[T](v, nil))
	}
	return q
}

// Put makes v available to the queue, immediately satisfying the
// longest-waiting parked Get, if any, otherwise buffering it for a future
// Get.
func (q *Queue[T]) Put(v T) {
	q.putFuture(newSettledFuture[T](v, nil))
}

// PutFuture makes f's eventual value available to the queue, exactly like
// Put, except the value itself may not be known yet: a Get that is handed f
// (directly, or by being parked until f settles) observes f settle whenever
// the original producer resolves it. A nil f is ignored.
func (q *Queue[T]) PutFuture(f *Future[T]) {
	if f == nil {
		return
	}
	q.putFuture(f)
}

func (q *Queue[T]) putFuture(f *Future[T]) {
	q.mu.Lock()
	if len(q.pending) > 0 {
		consumer := q.pending[0]
		q.pending = q.pending[1:]
		q.mu.Unlock()
		q.log.Debug().Log("asyncqueue: put woke a parked consumer")
		f.onSettle(consumer.settle)
		return
	}
	q.available = append(q.available, f)
	q.mu.Unlock()
}

// Get returns a Future for the next value in FIFO order. If something was
// buffered, that buffered future itself is returned: already settled for a
// value given to Put, or settling whenever the producer resolves it for a
// future given to PutFuture. Otherwise the returned future is parked until
// the matching Put/PutFuture arrives.
func (q *Queue[T]) Get() *Future[T] {
	q.mu.Lock()
	if len(q.available) > 0 {
		f := q.available[0]
		q.available = q.available[1:]
		q.mu.Unlock()
		return f
	}
	f := newFuture[T]()
	q.pending = append(q.pending, f)
	q.mu.Unlock()
	q.log.Debug().Log("asyncqueue: get parked, buffer empty")
	return f
}

// Len returns the queue's signed size: a positive count of buffered values
// waiting for a Get, a negative count of parked Gets waiting for a Put (the
// absolute value), or zero if both sides are empty.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	switch {
	case len(q.available) > 0:
		return len(q.available)
	case len(q.pending) > 0:
		return -len(q.pending)
	default:
		return 0
	}
}
