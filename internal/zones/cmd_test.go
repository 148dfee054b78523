package zones

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/raoulx24/zonecfg-archiver/internal/config"
)

// script materializes a fake system tool in a temp dir.
func script(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestList(t *testing.T) {
	sys := NewCommandSystem(config.ZonesConfig{
		Zoneadm: script(t, "zoneadm", "echo web\necho db\n"),
	})

	ids, err := sys.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(ids) != 2 || ids[0] != "web" || ids[1] != "db" {
		t.Errorf("ids = %v", ids)
	}
}

func TestList_NoZones(t *testing.T) {
	sys := NewCommandSystem(config.ZonesConfig{
		Zoneadm: script(t, "zoneadm", "exit 0\n"),
	})

	ids, err := sys.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("ids = %v, want none", ids)
	}
}

func TestList_CommandFailure(t *testing.T) {
	sys := NewCommandSystem(config.ZonesConfig{
		Zoneadm: script(t, "zoneadm", "echo 'boom' >&2\nexit 1\n"),
	})

	_, err := sys.List(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("error %q should carry the tool's stderr", err)
	}
}

func TestConfig(t *testing.T) {
	// zonecfg is invoked as: zonecfg -z <zone> info
	sys := NewCommandSystem(config.ZonesConfig{
		Zonecfg: script(t, "zonecfg", `echo "zonename: $2"`+"\n"),
	})

	out, err := sys.Config(context.Background(), "web")
	if err != nil {
		t.Fatalf("Config: %v", err)
	}
	if string(out) != "zonename: web\n" {
		t.Errorf("out = %q", out)
	}
}

func TestConfig_EmptyOutputIsFailure(t *testing.T) {
	sys := NewCommandSystem(config.ZonesConfig{
		Zonecfg: script(t, "zonecfg", "exit 0\n"),
	})

	if _, err := sys.Config(context.Background(), "web"); err == nil {
		t.Fatal("expected error for empty output")
	}
}

func TestConfig_CommandFailure(t *testing.T) {
	sys := NewCommandSystem(config.ZonesConfig{
		Zonecfg: script(t, "zonecfg", "echo 'no such zone' >&2\nexit 1\n"),
	})

	if _, err := sys.Config(context.Background(), "gone"); err == nil {
		t.Fatal("expected error")
	}
}
