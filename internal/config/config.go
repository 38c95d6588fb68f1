package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete pingmon configuration
type Config struct {
	Sampling  SamplingConfig  `mapstructure:"sampling"`
	Collector CollectorConfig `mapstructure:"collector"`
	TUI       TUIConfig       `mapstructure:"tui"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Export    ExportConfig    `mapstructure:"export"`
	// Hosts are monitored at startup
	Hosts []string `mapstructure:"hosts"`
}

// SamplingConfig controls the probe schedule
type SamplingConfig struct {
	// IntervalMs is the sampling interval in milliseconds (default: 1000)
	IntervalMs int `mapstructure:"interval_ms"`
	// MaxConcurrent bounds simultaneously outstanding probes across all hosts (default: 4)
	MaxConcurrent int `mapstructure:"max_concurrent"`
	// HistoryLimit is the number of samples kept per host (default: 300)
	HistoryLimit int `mapstructure:"history_limit"`
}

// CollectorConfig controls how latency samples are obtained
type CollectorConfig struct {
	// Kind selects the collector: "auto", "ping", or "fake" (default: "auto").
	// "auto" uses the system ping command when available and falls back
	// to simulated data otherwise.
	Kind string `mapstructure:"kind"`
	// TimeoutMs is the per-probe timeout in milliseconds (default: 1000)
	TimeoutMs int `mapstructure:"timeout_ms"`
	// FakeSeed seeds the simulated collector; 0 uses a random seed
	FakeSeed int64 `mapstructure:"fake_seed"`
}

// TUIConfig controls the terminal UI behavior
type TUIConfig struct {
	// MaxTableRows limits how many samples the results table shows (default: 300)
	MaxTableRows int `mapstructure:"max_table_rows"`
	// FollowTail keeps the table scrolled to the newest sample on startup (default: true)
	FollowTail bool `mapstructure:"follow_tail"`
	// SidebarWidth is the width of the host panel in columns (default: 28, min: 20, max: 60)
	SidebarWidth int `mapstructure:"sidebar_width"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled controls whether debug logging is enabled (default: true)
	Enabled bool `mapstructure:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level"`
	// MaxSizeMB is the maximum log file size in megabytes before rotation (default: 10)
	MaxSizeMB int `mapstructure:"max_size_mb"`
	// MaxBackups is the number of backup log files to keep (default: 3)
	MaxBackups int `mapstructure:"max_backups"`
}

// ExportConfig controls CSV export behavior
type ExportConfig struct {
	// Dir is the directory exports are written to.
	// Supports ~ for home directory expansion; empty means the working directory.
	Dir string `mapstructure:"dir"`
}

// Interval returns the sampling interval as a time.Duration
func (s *SamplingConfig) Interval() time.Duration {
	return time.Duration(s.IntervalMs) * time.Millisecond
}

// Timeout returns the probe timeout as a time.Duration
func (c *CollectorConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// ResolveDir returns the resolved export directory. An empty Dir resolves
// to the current working directory; a leading ~ expands to the user's home.
func (e *ExportConfig) ResolveDir() string {
	path := e.Dir
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "."
		}
		return wd
	}
	if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
	} else if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Sampling: SamplingConfig{
			IntervalMs:    1000,
			MaxConcurrent: 4,
			HistoryLimit:  300,
		},
		Collector: CollectorConfig{
			Kind:      "auto",
			TimeoutMs: 1000,
			FakeSeed:  0, // Random seed
		},
		TUI: TUIConfig{
			MaxTableRows: 300,
			FollowTail:   true,
			SidebarWidth: 28,
		},
		Logging: LoggingConfig{
			Enabled:    true,
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
		Export: ExportConfig{
			Dir: "", // Empty means the working directory
		},
		Hosts: []string{"google.com", "cloudflare.com", "8.8.8.8"},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Sampling defaults
	viper.SetDefault("sampling.interval_ms", defaults.Sampling.IntervalMs)
	viper.SetDefault("sampling.max_concurrent", defaults.Sampling.MaxConcurrent)
	viper.SetDefault("sampling.history_limit", defaults.Sampling.HistoryLimit)

	// Collector defaults
	viper.SetDefault("collector.kind", defaults.Collector.Kind)
	viper.SetDefault("collector.timeout_ms", defaults.Collector.TimeoutMs)
	viper.SetDefault("collector.fake_seed", defaults.Collector.FakeSeed)

	// TUI defaults
	viper.SetDefault("tui.max_table_rows", defaults.TUI.MaxTableRows)
	viper.SetDefault("tui.follow_tail", defaults.TUI.FollowTail)
	viper.SetDefault("tui.sidebar_width", defaults.TUI.SidebarWidth)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)

	// Export defaults
	viper.SetDefault("export.dir", defaults.Export.Dir)

	// Host defaults
	viper.SetDefault("hosts", defaults.Hosts)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "pingmon")
	}
	// Fall back to ~/.config/pingmon
	home, err := os.UserHomeDir()
	if err != nil {
		return ".pingmon"
	}
	return filepath.Join(home, ".config", "pingmon")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// ValidCollectorKinds returns the list of valid collector kinds
func ValidCollectorKinds() []string {
	return []string{"auto", "ping", "fake"}
}

// IsValidCollectorKind checks if the given kind is valid
func IsValidCollectorKind(kind string) bool {
	for _, valid := range ValidCollectorKinds() {
		if kind == valid {
			return true
		}
	}
	return false
}
