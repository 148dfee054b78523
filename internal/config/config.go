package config

const (
	DefaultPrefix           = "zonecfg-backup"
	DefaultCompressionLevel = 10

	DefaultZoneadm = "/usr/sbin/zoneadm"
	DefaultZonecfg = "/usr/sbin/zonecfg"
)

type Config struct {
	Output  OutputConfig  `yaml:"output"`
	Zones   ZonesConfig   `yaml:"zones"`
	Logging LoggingConfig `yaml:"logging"`
	Daemon  DaemonConfig  `yaml:"daemon"`
}

type OutputConfig struct {
	Dir    string `yaml:"dir"`
	Prefix string `yaml:"prefix"`
	// Both counters are pointers so a missing key can be told apart
	// from an explicit zero: numberOfBackups allows 0, while an
	// explicit compressionLevel of 0 is out of range and rejected.
	NumberOfBackups  *int `yaml:"numberOfBackups"`
	CompressionLevel *int `yaml:"compressionLevel"`
}

type ZonesConfig struct {
	Zoneadm string `yaml:"zoneadm"`
	Zonecfg string `yaml:"zonecfg"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // "info", "debug", etc.
	Format string `yaml:"format"` // "json", "text"
}

type DaemonConfig struct {
	Schedule      string      `yaml:"schedule"` // cron expression
	Watch         WatchConfig `yaml:"watch"`
	MetricsListen string      `yaml:"metricsListen"` // e.g. ":9464", empty disables
}

type WatchConfig struct {
	Enabled        bool     `yaml:"enabled"`
	Dir            string   `yaml:"dir"`            // zone configuration directory
	Mode           string   `yaml:"mode"`           // "auto", "poll", "fsnotify"
	PollInterval   Duration `yaml:"pollInterval"`   // e.g. 30s
	DebounceWindow Duration `yaml:"debounceWindow"` // e.g. 2s
}

// Keep returns the number of snapshots retention must preserve.
// Validate guarantees the field is set.
func (o OutputConfig) Keep() int {
	if o.NumberOfBackups == nil {
		return 0
	}
	return *o.NumberOfBackups
}

// Level returns the zstd compression level, defaulting when the key
// was absent. Validate guarantees a present value is in range.
func (o OutputConfig) Level() int {
	if o.CompressionLevel == nil {
		return DefaultCompressionLevel
	}
	return *o.CompressionLevel
}
