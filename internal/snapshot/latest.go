package snapshot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FindLatest resolves the latest pointer in dir to its target path.
// A missing pointer means no prior snapshot and is not an error.
// Any other read failure is surfaced: without the prior snapshot the
// committer cannot decide same-vs-different and must not guess.
func FindLatest(dir, prefix string) (string, bool, error) {
	latest := filepath.Join(dir, LatestName(prefix))

	target, err := os.Readlink(latest)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("resolving latest pointer %s: %w", latest, err)
	}

	if !filepath.IsAbs(target) {
		target = filepath.Join(dir, target)
	}
	return target, true, nil
}
