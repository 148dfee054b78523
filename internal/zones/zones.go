// Package zones abstracts zone enumeration and configuration
// extraction so the pipeline can be tested without the real system
// tools.
package zones

import "context"

// System lists configured zones and extracts their configuration.
type System interface {
	// List returns the identifiers of all configured zones, one per
	// entry, no surrounding whitespace. A List failure aborts the
	// whole run.
	List(ctx context.Context) ([]string, error)

	// Config returns the raw configuration text of one zone. It fails
	// when the zone vanished between enumeration and extraction;
	// callers treat that as a per-zone condition, not a run failure.
	Config(ctx context.Context, zone string) ([]byte, error)
}
