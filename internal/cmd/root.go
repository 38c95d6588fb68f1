package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pingmon/pingmon/internal/collector"
	"github.com/pingmon/pingmon/internal/config"
	"github.com/pingmon/pingmon/internal/logging"
	"github.com/pingmon/pingmon/internal/scheduler"
	"github.com/pingmon/pingmon/internal/tui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "pingmon",
	Short: "Terminal network latency monitor",
	Long: `Pingmon continuously probes a set of hosts and shows latency, jitter
and packet loss in a terminal dashboard. Probes run asynchronously with
a bounded concurrency budget; results from cancelled or reconfigured
runs are discarded rather than applied.`,
	RunE: runRoot,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/pingmon/config.yaml)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))

	rootCmd.Flags().StringSlice("hosts", nil, "hosts to monitor (overrides config)")
	rootCmd.Flags().Int("interval", 0, "sampling interval in milliseconds")
	rootCmd.Flags().String("collector", "", "collector kind: auto, ping or fake")
	_ = viper.BindPFlag("hosts", rootCmd.Flags().Lookup("hosts"))
	_ = viper.BindPFlag("sampling.interval_ms", rootCmd.Flags().Lookup("interval"))
	_ = viper.BindPFlag("collector.kind", rootCmd.Flags().Lookup("collector"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath("$HOME/.config/pingmon")
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("PINGMON")
	// Replace dots with underscores for nested keys in env vars
	// e.g., PINGMON_SAMPLING_INTERVAL_MS for sampling.interval_ms
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}

func runRoot(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer func() { _ = log.Close() }()

	col, fallbackNote := newCollector(cfg)
	sched := scheduler.New(col, scheduler.Options{
		Interval:      cfg.Sampling.Interval(),
		MaxConcurrent: cfg.Sampling.MaxConcurrent,
		HistoryLimit:  cfg.Sampling.HistoryLimit,
		Logger:        log,
	})
	for _, host := range cfg.Hosts {
		sched.AddHost(host)
	}

	log.Info("starting",
		"collector", col.Name(),
		"hosts", len(cfg.Hosts),
		"interval", cfg.Sampling.Interval().String())

	app := tui.New(sched, cfg, log)
	if fallbackNote != "" {
		app.SetStartupNotice(fallbackNote)
	}
	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}

// newLogger builds the file logger from config, or a nop logger when
// logging is disabled.
func newLogger(cfg *config.Config) (*logging.Logger, error) {
	if !cfg.Logging.Enabled {
		return logging.NopLogger(), nil
	}
	level := logging.ParseLevel(cfg.Logging.Level)
	return logging.NewLoggerWithRotation(logFilePath(), level, logging.RotationConfig{
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	})
}

func logFilePath() string {
	return filepath.Join(config.ConfigDir(), "pingmon.log")
}

// newCollector builds the configured collector. The returned note is
// non-empty when the auto collector fell back to simulated data.
func newCollector(cfg *config.Config) (collector.Collector, string) {
	switch cfg.Collector.Kind {
	case collector.KindFake:
		return collector.NewFake(cfg.Collector.FakeSeed), ""
	case collector.KindPing:
		return collector.NewPing(cfg.Collector.TimeoutMs), ""
	default:
		return collector.Detect(cfg.Collector.Kind, cfg.Collector.TimeoutMs)
	}
}
