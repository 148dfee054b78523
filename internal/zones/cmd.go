package zones

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"

	"github.com/raoulx24/zonecfg-archiver/internal/config"
)

// CommandSystem implements System by shelling out to zoneadm and
// zonecfg. Both commands run with a cleared environment so locale or
// PATH surprises cannot change their output.
type CommandSystem struct {
	zoneadm string
	zonecfg string
}

func NewCommandSystem(cfg config.ZonesConfig) *CommandSystem {
	return &CommandSystem{
		zoneadm: cfg.Zoneadm,
		zonecfg: cfg.Zonecfg,
	}
}

// List runs `zoneadm list -n -c` and returns one identifier per line.
func (s *CommandSystem) List(ctx context.Context) ([]string, error) {
	cmd := exec.CommandContext(ctx, s.zoneadm, "list", "-n", "-c")
	cmd.Env = []string{}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("exec %s: %w -- %s", s.zoneadm, err, stderr.String())
	}

	var ids []string
	sc := bufio.NewScanner(&stdout)
	for sc.Scan() {
		if line := sc.Text(); line != "" {
			ids = append(ids, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("parsing %s output: %w", s.zoneadm, err)
	}

	return ids, nil
}

// Config runs `zonecfg -z <zone> info` and returns its stdout.
// Empty output counts as a failure; a zone always has some
// configuration, so nothing back means the zone is gone.
func (s *CommandSystem) Config(ctx context.Context, zone string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, s.zonecfg, "-z", zone, "info")
	cmd.Env = []string{}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("exec %s: %w -- %s", s.zonecfg, err, stderr.String())
	}

	if stdout.Len() == 0 {
		return nil, fmt.Errorf("no zonecfg info for %s", zone)
	}

	return stdout.Bytes(), nil
}
