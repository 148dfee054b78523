package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const prefix = "zonecfg-backup"

// stage writes data to a temp file in dir, as Build would.
func stage(t *testing.T, dir string, data []byte) *Staged {
	t.Helper()
	f, err := os.CreateTemp(dir, ".staged-*")
	require.NoError(t, err)
	_, err = f.Write(data)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return &Staged{Path: f.Name()}
}

func atTime(t *testing.T, unix int64) {
	t.Helper()
	old := timeNow
	timeNow = func() time.Time { return time.Unix(unix, 0) }
	t.Cleanup(func() { timeNow = old })
}

func snapshots(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasSuffix(name, ".zones.tar.zst") {
			names = append(names, name)
		}
	}
	return names
}

func TestCommit_FirstRun(t *testing.T) {
	dir := t.TempDir()
	atTime(t, 1000)

	staged := stage(t, dir, []byte("archive-v1"))
	res, err := Commit(context.Background(), zap.NewNop(), staged, dir, prefix)
	require.NoError(t, err)
	require.Equal(t, StatusCommitted, res.Status)

	want := filepath.Join(dir, "zonecfg-backup_1000.zones.tar.zst")
	require.Equal(t, want, res.Path)

	data, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	require.Equal(t, "archive-v1", string(data))

	target, ok, err := FindLatest(dir, prefix)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, want, target)

	// staged file gone; only the committed snapshot remains
	require.Len(t, snapshots(t, dir), 1)
	_, err = os.Stat(staged.Path)
	require.True(t, os.IsNotExist(err))
}

func TestCommit_SkipsIdenticalContent(t *testing.T) {
	dir := t.TempDir()
	atTime(t, 1000)

	first := stage(t, dir, []byte("archive-v1"))
	res1, err := Commit(context.Background(), zap.NewNop(), first, dir, prefix)
	require.NoError(t, err)

	atTime(t, 2000)
	second := stage(t, dir, []byte("archive-v1"))
	res2, err := Commit(context.Background(), zap.NewNop(), second, dir, prefix)
	require.NoError(t, err)
	require.Equal(t, StatusSkipped, res2.Status)
	require.Empty(t, res2.Path)

	// nothing was touched: one snapshot, pointer unchanged, staged gone
	require.Len(t, snapshots(t, dir), 1)
	target, ok, err := FindLatest(dir, prefix)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, res1.Path, target)
	_, err = os.Stat(second.Path)
	require.True(t, os.IsNotExist(err))
}

func TestCommit_CommitsChangedContent(t *testing.T) {
	dir := t.TempDir()
	atTime(t, 1000)

	first := stage(t, dir, []byte("archive-v1"))
	res1, err := Commit(context.Background(), zap.NewNop(), first, dir, prefix)
	require.NoError(t, err)

	atTime(t, 2000)
	second := stage(t, dir, []byte("archive-v2"))
	res2, err := Commit(context.Background(), zap.NewNop(), second, dir, prefix)
	require.NoError(t, err)
	require.Equal(t, StatusCommitted, res2.Status)
	require.NotEqual(t, res1.Path, res2.Path)

	// both snapshots on disk, pointer moved to the newer one
	require.Len(t, snapshots(t, dir), 2)
	target, ok, err := FindLatest(dir, prefix)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, res2.Path, target)
}

func TestCommit_SameSecondCollisionIsFatal(t *testing.T) {
	dir := t.TempDir()
	atTime(t, 1000)

	first := stage(t, dir, []byte("archive-v1"))
	res1, err := Commit(context.Background(), zap.NewNop(), first, dir, prefix)
	require.NoError(t, err)

	// clock has not ticked: a differing commit would land on the same name
	second := stage(t, dir, []byte("archive-v2"))
	_, err = Commit(context.Background(), zap.NewNop(), second, dir, prefix)
	require.Error(t, err)
	require.Contains(t, err.Error(), "already exists")

	// the committed snapshot is untouched and still the pointer target
	data, err := os.ReadFile(res1.Path)
	require.NoError(t, err)
	require.Equal(t, "archive-v1", string(data))
	target, ok, err := FindLatest(dir, prefix)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, res1.Path, target)

	// like a rename failure, the staged file stays for inspection
	_, err = os.Stat(second.Path)
	require.NoError(t, err)
}

func TestCommit_DanglingPointerIsFatal(t *testing.T) {
	dir := t.TempDir()

	// pointer exists but its target does not: the committer cannot
	// decide same-vs-different and must not guess
	gone := filepath.Join(dir, "zonecfg-backup_1.zones.tar.zst")
	require.NoError(t, os.Symlink(gone, filepath.Join(dir, LatestName(prefix))))

	staged := stage(t, dir, []byte("archive-v1"))
	_, err := Commit(context.Background(), zap.NewNop(), staged, dir, prefix)
	require.Error(t, err)

	// not the rename sub-case, so the staged file was cleaned up
	_, err = os.Stat(staged.Path)
	require.True(t, os.IsNotExist(err))
}

func TestCommit_NoPointerChangeWithoutRename(t *testing.T) {
	// a staged file that is never committed must not affect the
	// output directory: simulates a crash between staging and rename
	dir := t.TempDir()
	staged := stage(t, dir, []byte("archive-v1"))

	_, ok, err := FindLatest(dir, prefix)
	require.NoError(t, err)
	require.False(t, ok)
	require.Empty(t, snapshots(t, dir))

	require.NoError(t, staged.Discard())
}
