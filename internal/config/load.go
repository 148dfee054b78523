package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// matches $(VAR_NAME)
var envPattern = regexp.MustCompile(`\$\(([A-Za-z0-9_]+)\)`)

// replaces $(VAR) with os.Getenv(VAR)
func expandEnvVars(s string) string {
	return envPattern.ReplaceAllStringFunc(s, func(m string) string {
		key := envPattern.FindStringSubmatch(m)[1]
		return os.Getenv(key)
	})
}

func Load(path string) (*Config, error) {
	// read raw YAML file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// expand $(ENV_VAR) placeholders
	expanded := expandEnvVars(string(data))

	// unmarshal into struct
	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling yaml: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Output.Prefix == "" {
		c.Output.Prefix = DefaultPrefix
	}
	if c.Zones.Zoneadm == "" {
		c.Zones.Zoneadm = DefaultZoneadm
	}
	if c.Zones.Zonecfg == "" {
		c.Zones.Zonecfg = DefaultZonecfg
	}
	if c.Daemon.Watch.Dir == "" {
		c.Daemon.Watch.Dir = "/etc/zones"
	}
	if c.Daemon.Watch.Mode == "" {
		c.Daemon.Watch.Mode = "auto"
	}
	if c.Daemon.Watch.PollInterval == 0 {
		c.Daemon.Watch.PollInterval = Duration(30 * time.Second)
	}
	if c.Daemon.Watch.DebounceWindow == 0 {
		c.Daemon.Watch.DebounceWindow = Duration(2 * time.Second)
	}
}

// Validate rejects configurations before any pipeline work starts.
func (c *Config) Validate() error {
	if c.Output.Dir == "" {
		return fmt.Errorf("output.dir is required")
	}
	if c.Output.NumberOfBackups == nil {
		return fmt.Errorf("output.numberOfBackups is required")
	}
	if *c.Output.NumberOfBackups < 0 {
		return fmt.Errorf("output.numberOfBackups must not be negative, got %d", *c.Output.NumberOfBackups)
	}
	if l := c.Output.CompressionLevel; l != nil && (*l < 1 || *l > 21) {
		return fmt.Errorf("output.compressionLevel must be between 1-21, got %d", *l)
	}
	switch c.Daemon.Watch.Mode {
	case "auto", "poll", "fsnotify":
	default:
		return fmt.Errorf("daemon.watch.mode must be auto, poll or fsnotify, got %q", c.Daemon.Watch.Mode)
	}
	return nil
}
