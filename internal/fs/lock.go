package fs

import (
	"errors"
	"fmt"

	"github.com/gofrs/flock"
)

// ErrLockHeld reports that another process already holds the run lock
// for the output directory.
var ErrLockHeld = errors.New("run lock held by another process")

// Lock is an advisory file lock serializing runs against a single
// output directory. Concurrent invocations fail fast instead of racing
// on the latest pointer or the retention scan.
type Lock struct {
	fl *flock.Flock
}

// AcquireLock takes the advisory lock at path without blocking.
// The lock file is created if missing and is never removed; only the
// flock on it matters.
func AcquireLock(path string) (*Lock, error) {
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("locking %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, ErrLockHeld)
	}
	return &Lock{fl: fl}, nil
}

// Release drops the lock. Safe to call exactly once, typically deferred.
func (l *Lock) Release() error {
	return l.fl.Unlock()
}
