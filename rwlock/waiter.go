package rwlock

import (
	"context"

	"github.com/joeycumines/go-asyncrw/internal/dlist"
)

// waiter is a parked acquire request. It is pushed onto exactly one of the
// lock's four role queues; reschedule pops it, builds the handle the caller
// will receive, stashes that handle in result, and closes ready — all while
// still holding the lock's mutex, so a goroutine woken from the select below
// never observes a state where the waiter is "resolved" but the lock's
// census hasn't caught up yet.
//
// ready only ever closes on success: cancellation is handled without it,
// by excising the waiter from its queue directly (see acquireWait).
type waiter struct {
	ready  chan struct{}
	result any
	node   *dlist.Node[*waiter]
}

func newWaiter() *waiter {
	return &waiter{ready: make(chan struct{})}
}

// acquireWait blocks until w wins admission (w.ready closes) or ctx is done,
// racing the two outcomes under l.mu the same way golang.org/x/sync's
// semaphore implementation does: losing the select on ctx.Done() is not
// final, because a reschedule may have already popped w off queue (and be
// about to, or have already, closed w.ready) concurrently. Once l.mu is
// held, !w.node.Queued() is proof reschedule already claimed w — at that
// point cancellation is a no-op and we fall through to the normal success
// path; otherwise, we are the one removing w from queue and ctx.Err() wins.
func acquireWait[H any](ctx context.Context, l *Lock, w *waiter, queue *dlist.List[*waiter], build func() H) (H, error) {
	select {
	case <-w.ready:
		return build(), nil
	case <-ctx.Done():
	}

	l.mu.Lock()
	if !w.node.Queued() {
		l.mu.Unlock()
		<-w.ready
		return build(), nil
	}
	queue.Remove(w.node)
	l.mu.Unlock()

	var zero H
	return zero, ctx.Err()
}
