package snapshot

import (
	"crypto/sha256"
	"io"
	"os"
)

// fingerprintFile returns the SHA-256 digest of the file's content.
// Snapshots are content-addressed for dedup: equal digests mean the
// staged archive is byte-for-byte the previous one. Comparing the
// compressed bytes is enough because archive layout and encoder output
// are stable for a fixed zone set and level; if the codec ever changes
// its output, dedup degrades to always-commit, which is harmless.
func fingerprintFile(path string) ([sha256.Size]byte, error) {
	var sum [sha256.Size]byte

	f, err := os.Open(path)
	if err != nil {
		return sum, err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return sum, err
	}

	copy(sum[:], h.Sum(nil))
	return sum, nil
}
