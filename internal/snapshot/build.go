package snapshot

import (
	"archive/tar"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/klauspost/compress/zstd"
	"go.uber.org/zap"

	"github.com/raoulx24/zonecfg-archiver/internal/zones"
)

// Build enumerates zones, extracts each configuration and streams the
// results as tar entries through a zstd encoder into a staging file in
// dir. A zone whose extraction fails is logged and skipped; a failing
// enumeration aborts before any file is created, since an empty
// archive would be indistinguishable from a valid empty backup.
func Build(ctx context.Context, log *zap.Logger, sys zones.System, dir string, level int) (*Staged, error) {
	ids, err := sys.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("enumerating zones: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".staged-*")
	if err != nil {
		return nil, fmt.Errorf("creating staging file in %s: %w", dir, err)
	}
	staged := &Staged{Path: tmp.Name()}

	fail := func(err error) (*Staged, error) {
		tmp.Close()
		if derr := staged.Discard(); derr != nil {
			log.Error("staging cleanup failed", zap.Error(derr))
		}
		return nil, err
	}

	// Concurrency 1 keeps the compressed bytes stable for identical
	// input; the dedup check compares final archive bytes.
	enc, err := zstd.NewWriter(tmp,
		zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)),
		zstd.WithEncoderConcurrency(1),
	)
	if err != nil {
		return fail(fmt.Errorf("creating zstd encoder: %w", err))
	}

	tw := tar.NewWriter(enc)
	for _, zone := range ids {
		info, err := sys.Config(ctx, zone)
		if err != nil {
			// perhaps the zone no longer exists, log and move on
			log.Warn("no info for zone", zap.String("zone", zone), zap.Error(err))
			continue
		}

		// fixed mtime: archive bytes must be identical across runs
		// for an unchanged zone set
		hdr := &tar.Header{
			Name:    zone + ".zone",
			Mode:    0o644,
			Size:    int64(len(info)),
			ModTime: time.Unix(0, 0),
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return fail(fmt.Errorf("writing header for %s: %w", zone, err))
		}
		if _, err := tw.Write(info); err != nil {
			return fail(fmt.Errorf("writing config for %s: %w", zone, err))
		}
		log.Info("appending zone", zap.String("zone", zone))
	}

	if err := tw.Close(); err != nil {
		return fail(fmt.Errorf("finishing archive: %w", err))
	}
	if err := enc.Close(); err != nil {
		return fail(fmt.Errorf("finishing compression: %w", err))
	}
	if err := tmp.Close(); err != nil {
		return fail(fmt.Errorf("closing staging file: %w", err))
	}

	return staged, nil
}
