// Package snapshot builds staged zone-configuration archives and
// commits them into the output directory when their content changed.
package snapshot

import (
	"fmt"
	"os"
)

// Staged is a snapshot archive written to a temporary file inside the
// output directory. Staging in the output directory keeps it on the
// same filesystem as the final name, so commit is a rename.
// A Staged belongs to the current run until committed or discarded.
type Staged struct {
	Path string
	done bool
}

// Discard removes the staging file. It is a no-op once the file was
// renamed into place by Commit, or on a second call.
func (s *Staged) Discard() error {
	if s.done {
		return nil
	}
	s.done = true
	if err := os.Remove(s.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing staged snapshot %s: %w", s.Path, err)
	}
	return nil
}

func (s *Staged) markCommitted() { s.done = true }

// CommittedName returns the snapshot filename for a commit at unix
// timestamp ts. Retention depends on this exact shape: the timestamp
// sits right after the prefix and carries the chronological order.
func CommittedName(prefix string, ts int64) string {
	return fmt.Sprintf("%s_%d.zones.tar.zst", prefix, ts)
}

// LatestName returns the filename of the latest pointer for prefix.
func LatestName(prefix string) string {
	return prefix + "_latest"
}
