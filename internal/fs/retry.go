package fs

import (
	"context"
	"fmt"
	"time"
)

// Bounded retry with exponential backoff. Only the commit rename goes
// through here: a finished archive that hits a transient EBUSY on the
// output directory should not cost an entire capture cycle.

const (
	maxAttempts  = 5
	backoffStart = 100 * time.Millisecond
)

func retry(ctx context.Context, opName string, fn func() error) error {
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		err := fn()
		if err == nil {
			return nil
		}

		lastErr = err

		if !isTransient(err) {
			return fmt.Errorf("%s failed permanently: %w", opName, err)
		}

		if attempt == maxAttempts {
			break
		}

		time.Sleep(backoffStart * (1 << (attempt - 1)))
	}

	return fmt.Errorf("%s failed after %d retries: %w", opName, maxAttempts, lastErr)
}
