package rwlock

import "errors"

// ErrAlreadyReleased is returned by Release (on any handle) or Upgrade when
// the handle is no longer current: either it was already released once, or
// (for the upgradeable handle specifically) a different upgradeable reader
// has since taken its place. This is a programmer-error condition, not a
// transient one — the caller is misusing a handle past its lifetime.
var ErrAlreadyReleased = errors.New("rwlock: handle already released")
