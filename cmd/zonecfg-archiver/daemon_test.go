package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDaemon_WatcherOnlyTriggerFailureIsFatal(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	if err := os.Mkdir(out, 0o755); err != nil {
		t.Fatal(err)
	}

	// no schedule, so the watcher is the only trigger source, and its
	// directory does not exist: starting it must take the daemon down
	// instead of leaving it running with nothing to wake it
	cfgPath := filepath.Join(dir, "config.yaml")
	content := fmt.Sprintf(`
output:
  dir: %s
  numberOfBackups: 1
daemon:
  watch:
    enabled: true
    mode: fsnotify
    dir: %s
`, out, filepath.Join(dir, "missing"))
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	daemonCmd.SetContext(ctx)

	err := runDaemon(daemonCmd, []string{cfgPath})
	if err == nil {
		t.Fatal("expected daemon to fail when its only trigger source cannot start")
	}
	if !strings.Contains(err.Error(), "watcher") {
		t.Errorf("error %q does not mention the watcher", err)
	}
}
