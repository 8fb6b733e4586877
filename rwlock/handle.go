package rwlock

import (
	"context"
	"sync"
)

// ReadHandle is a single-use, non-exclusive acquisition produced by
// [Lock.Read]. Release it exactly once, typically via defer.
type ReadHandle struct {
	lock *Lock

	mu       sync.Mutex
	released bool
}

// Release gives up the read handle. A second call returns
// ErrAlreadyReleased.
func (h *ReadHandle) Release() error {
	h.mu.Lock()
	if h.released {
		h.mu.Unlock()
		return ErrAlreadyReleased
	}
	h.released = true
	h.mu.Unlock()

	l := h.lock
	l.mu.Lock()
	l.count--
	l.reschedule()
	l.mu.Unlock()
	return nil
}

// UpgradeableHandle is the single-use handle produced by
// [Lock.UpgradeableRead]. It behaves like a read handle, with the added
// ability to atomically promote to an exclusive writer via Upgrade.
type UpgradeableHandle struct {
	lock *Lock
}

// Release gives up the upgradeable-reader role. If called while this
// handle also holds the promoted writer role (i.e. Upgrade was called and
// not yet released), both are released together: the census returns to
// idle and any WriteHandle returned by Upgrade becomes stale (its Release
// then reports ErrAlreadyReleased).
//
// Returns ErrAlreadyReleased if h is no longer the lock's current
// upgradeable holder (already released, or superseded).
func (h *UpgradeableHandle) Release() error {
	l := h.lock
	l.mu.Lock()
	if l.upgradeable != h {
		l.mu.Unlock()
		return ErrAlreadyReleased
	}

	if l.count == -1 {
		// Releasing the upgradeable handle while it is still in the
		// upgraded state: an implicit release of both roles at once,
		// rather than a programmer error. See DESIGN.md for the
		// rationale behind choosing the lenient path here.
		l.count = 0
	} else {
		l.count--
	}
	l.upgraded = nil
	l.upgradeable = nil
	l.reschedule()
	l.mu.Unlock()
	return nil
}

// Upgrade blocks until h is the sole remaining holder of the lock, then
// atomically promotes it to an exclusive writer, returning a WriteHandle.
// It resolves as soon as every other reader has released, regardless of
// readers or writers that arrive afterward — they queue behind the
// pending upgrade. A nil ctx behaves as context.Background.
//
// Returns ErrAlreadyReleased if h is no longer the lock's current
// upgradeable holder.
func (h *UpgradeableHandle) Upgrade(ctx context.Context) (*WriteHandle, error) {
	ctx = normalizeCtx(ctx)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l := h.lock
	l.mu.Lock()
	if l.upgradeable != h {
		l.mu.Unlock()
		return nil, ErrAlreadyReleased
	}
	if l.canTakeUpgradeLocked() {
		l.count = -1
		wh := &WriteHandle{lock: l, upgradeable: h}
		l.upgraded = wh
		l.mu.Unlock()
		return wh, nil
	}
	w := newWaiter()
	w.node = l.upgrades.PushBack(w)
	l.mu.Unlock()
	l.log.Debug().Log("rwlock: upgrade parked")

	wh, err := acquireWait(ctx, l, w, &l.upgrades, func() *WriteHandle { return w.result.(*WriteHandle) })
	if err != nil {
		l.log.Debug().Log("rwlock: upgrade cancelled while parked")
	}
	return wh, err
}

// WriteHandle is the single-use exclusive handle produced by [Lock.Write]
// or by [UpgradeableHandle.Upgrade].
type WriteHandle struct {
	lock *Lock
	// upgradeable is non-nil when this handle resulted from Upgrade,
	// which changes what Release restores the census to.
	upgradeable *UpgradeableHandle

	// released is only ever read/written while lock.mu is held: for a
	// handle that resulted from Upgrade, double-release detection has to
	// share a critical section with the l.upgraded identity check below,
	// so there is no separate handle-local mutex here (unlike ReadHandle).
	released bool
}

// Release gives up the exclusive writer role. If this handle resulted
// from an upgrade, release restores the upgradeable-reader census (the
// upgradeable handle itself remains live and may still be released
// separately); otherwise it returns the lock fully to idle. A second call
// returns ErrAlreadyReleased.
//
// If this handle resulted from Upgrade, it may also have already been
// implicitly released by the upgradeable handle's own Release (the
// lenient path documented there tears down both roles at once); that
// case is detected here by rechecking identity against l.upgraded, the
// same way UpgradeableHandle.Release checks identity against
// l.upgradeable, and also reports ErrAlreadyReleased.
func (h *WriteHandle) Release() error {
	l := h.lock
	l.mu.Lock()

	stale := h.released || (h.upgradeable != nil && l.upgraded != h)
	h.released = true
	if stale {
		l.mu.Unlock()
		return ErrAlreadyReleased
	}

	if h.upgradeable != nil {
		l.upgraded = nil
		l.count = 1
	} else {
		l.count = 0
	}
	l.reschedule()
	l.mu.Unlock()
	return nil
}
