// Package rwlock implements a reader/writer/upgradeable-reader lock with
// four coordinated roles: plain readers, a single upgradeable reader that
// may atomically promote to a writer, plain writers, and the promoted
// ("upgraded") writer that results from an upgrade. Acquisition is fair:
// writers never starve behind a steady stream of new readers, and an
// in-flight upgrade is admitted ahead of any newly arriving upgradeable
// reader.
package rwlock

import (
	"context"
	"sync"

	"github.com/joeycumines/go-asyncrw/internal/diag"
	"github.com/joeycumines/go-asyncrw/internal/dlist"
)

// Lock is a reader/writer/upgrade lock. The zero value is not usable;
// construct one with New.
type Lock struct {
	mu sync.Mutex

	// count encodes the census: 0 idle, >0 that many readers (the
	// upgradeable reader, if any, counts as one), -1 one exclusive holder
	// (a plain writer, or the upgraded writer).
	count int
	// upgradeable is the current upgradeable reader's identity, or nil.
	upgradeable *UpgradeableHandle
	// upgraded is set only while upgradeable is set and count == -1.
	upgraded *WriteHandle

	readers      dlist.List[*waiter]
	upgradeables dlist.List[*waiter]
	upgrades     dlist.List[*waiter]
	writers      dlist.List[*waiter]

	log *diag.Logger
}

// Option configures a Lock at construction time.
type Option func(*Lock)

// WithLogger injects a diagnostics logger. The default is an inert,
// writer-less logger, so omitting this option costs nothing beyond a
// disabled-level check on the waiter lifecycle paths (never on the
// synchronous fast path).
func WithLogger(l *diag.Logger) Option {
	return func(lock *Lock) {
		if l != nil {
			lock.log = l
		}
	}
}

// New constructs an idle Lock.
func New(opts ...Option) *Lock {
	l := &Lock{log: diag.NewDisabled()}
	for _, o := range opts {
		o(l)
	}
	return l
}

func normalizeCtx(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

func (l *Lock) canTakeReadLocked() bool {
	return l.count >= 0 && l.writers.Len() == 0 && l.upgrades.Len() == 0
}

func (l *Lock) canTakeUpgradeableReadLocked() bool {
	return l.count >= 0 && l.upgradeable == nil
}

func (l *Lock) canTakeWriteLocked() bool {
	return l.count == 0
}

func (l *Lock) canTakeUpgradeLocked() bool {
	return l.count == 1 && l.upgradeable != nil && l.upgraded == nil
}

// Read acquires a non-exclusive read handle, blocking until admitted or
// ctx is done. A new reader is not admitted while a writer holds the lock,
// or while a writer or an upgrade is queued ahead of it. A nil ctx behaves
// as context.Background (never cancelled).
func (l *Lock) Read(ctx context.Context) (*ReadHandle, error) {
	ctx = normalizeCtx(ctx)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	if l.canTakeReadLocked() {
		l.count++
		l.mu.Unlock()
		return &ReadHandle{lock: l}, nil
	}
	w := newWaiter()
	w.node = l.readers.PushBack(w)
	l.mu.Unlock()
	l.log.Debug().Log("rwlock: read parked")

	h, err := acquireWait(ctx, l, w, &l.readers, func() *ReadHandle { return w.result.(*ReadHandle) })
	if err != nil {
		l.log.Debug().Log("rwlock: read cancelled while parked")
	}
	return h, err
}

// UpgradeableRead acquires the singleton upgradeable-reader role: a
// non-exclusive holder like Read, but one that may later call Upgrade to
// atomically promote to an exclusive writer. At most one upgradeable
// reader exists at a time.
func (l *Lock) UpgradeableRead(ctx context.Context) (*UpgradeableHandle, error) {
	ctx = normalizeCtx(ctx)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	if l.canTakeUpgradeableReadLocked() {
		l.count++
		h := &UpgradeableHandle{lock: l}
		l.upgradeable = h
		l.mu.Unlock()
		return h, nil
	}
	w := newWaiter()
	w.node = l.upgradeables.PushBack(w)
	l.mu.Unlock()
	l.log.Debug().Log("rwlock: upgradeable read parked")

	h, err := acquireWait(ctx, l, w, &l.upgradeables, func() *UpgradeableHandle { return w.result.(*UpgradeableHandle) })
	if err != nil {
		l.log.Debug().Log("rwlock: upgradeable read cancelled while parked")
	}
	return h, err
}

// Write acquires the exclusive writer role, blocking until no reader,
// writer, upgradeable reader, or upgraded writer is active.
func (l *Lock) Write(ctx context.Context) (*WriteHandle, error) {
	ctx = normalizeCtx(ctx)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	if l.canTakeWriteLocked() {
		l.count = -1
		l.mu.Unlock()
		return &WriteHandle{lock: l}, nil
	}
	w := newWaiter()
	w.node = l.writers.PushBack(w)
	l.mu.Unlock()
	l.log.Debug().Log("rwlock: write parked")

	h, err := acquireWait(ctx, l, w, &l.writers, func() *WriteHandle { return w.result.(*WriteHandle) })
	if err != nil {
		l.log.Debug().Log("rwlock: write cancelled while parked")
	}
	return h, err
}

// reschedule re-evaluates admission after any release, waking at most one
// of: a writer, an in-flight upgrade, an upgradeable reader, or (as a
// batch) every admissible queued reader — in that priority order, stopping
// at the first step that wakes anything. Must be called with l.mu held.
func (l *Lock) reschedule() {
	if l.canTakeWriteLocked() && l.writers.Len() > 0 {
		w, _ := l.writers.PopFront()
		l.count = -1
		h := &WriteHandle{lock: l}
		w.result = h
		close(w.ready)
		l.log.Trace().Log("rwlock: woke a queued writer")
		return
	}

	if l.canTakeUpgradeLocked() && l.upgrades.Len() > 0 {
		w, _ := l.upgrades.PopFront()
		l.count = -1
		h := &WriteHandle{lock: l, upgradeable: l.upgradeable}
		l.upgraded = h
		w.result = h
		close(w.ready)
		l.log.Trace().Log("rwlock: woke a queued upgrade")
		return
	}

	if l.canTakeUpgradeableReadLocked() && l.upgradeables.Len() > 0 {
		w, _ := l.upgradeables.PopFront()
		l.count++
		h := &UpgradeableHandle{lock: l}
		l.upgradeable = h
		w.result = h
		close(w.ready)
		l.log.Trace().Log("rwlock: woke a queued upgradeable read")
		return
	}

	if l.canTakeReadLocked() && l.readers.Len() > 0 {
		for {
			w, ok := l.readers.PopFront()
			if !ok {
				break
			}
			l.count++
			w.result = &ReadHandle{lock: l}
			close(w.ready)
		}
		l.log.Trace().Log("rwlock: woke a batch of queued readers")
	}
}

// Stats is a read-only snapshot of the lock's internal census and queue
// depths, useful for tests and for callers building their own metrics.
type Stats struct {
	Count              int
	HasUpgradeable     bool
	HasUpgraded        bool
	QueuedReaders      int
	QueuedUpgradeables int
	QueuedUpgrades     int
	QueuedWriters      int
}

// Stats returns a snapshot of the lock's current state.
func (l *Lock) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Stats{
		Count:              l.count,
		HasUpgradeable:     l.upgradeable != nil,
		HasUpgraded:        l.upgraded != nil,
		QueuedReaders:      l.readers.Len(),
		QueuedUpgradeables: l.upgradeables.Len(),
		QueuedUpgrades:     l.upgrades.Len(),
		QueuedWriters:      l.writers.Len(),
	}
}
