package fs

import (
	"errors"
	"syscall"
)

// isTransient decides whether a filesystem error is worth retrying.
// Snapshot output directories are commonly on ZFS datasets or NFS
// mounts where momentary EBUSY and timeout conditions clear on their
// own; anything else fails the operation immediately.
func isTransient(err error) bool {
	return errors.Is(err, syscall.EAGAIN) ||
		errors.Is(err, syscall.EBUSY) ||
		errors.Is(err, syscall.ETIMEDOUT)
}
