// Package fs wraps the handful of filesystem operations the pipeline
// depends on for correctness: atomic rename of the staged snapshot and
// the advisory lock serializing runs against one output directory.
package fs

import (
	"context"
	"os"
)

// Rename wraps os.Rename with retry on transient errors.
// It is the commit step: staged snapshots become visible atomically.
func Rename(ctx context.Context, oldPath, newPath string) error {
	return retry(ctx, "rename", func() error {
		return os.Rename(oldPath, newPath)
	})
}
