package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/pingmon/pingmon/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify pingmon configuration",
	Long: `View or modify pingmon configuration.

Without arguments, displays the current configuration.
Use subcommands to modify settings or create a config file.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the user's config file.

Keys use dot notation, e.g.:
  pingmon config set sampling.interval_ms 500
  pingmon config set collector.kind fake
  pingmon config set tui.max_table_rows 500

Valid keys:
  sampling.interval_ms    - Sampling interval in milliseconds
  sampling.max_concurrent - Max simultaneously outstanding probes
  sampling.history_limit  - Samples kept per host
  collector.kind          - Collector: auto, ping or fake
  collector.timeout_ms    - Per-probe timeout in milliseconds
  tui.max_table_rows      - Max rows shown in the results table
  tui.follow_tail         - Keep table scrolled to newest sample (true/false)
  logging.enabled         - Enable debug logging (true/false)
  logging.level           - Log level: debug, info, warn, error`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long:  `Create a default config file at ~/.config/pingmon/config.yaml with all available options.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	RunE:  runConfigPath,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	fmt.Println("Current configuration:")
	fmt.Println()

	// Show where config is being read from
	if viper.ConfigFileUsed() != "" {
		fmt.Printf("Config file: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Printf("Config file: (none - using defaults)\n")
	}
	fmt.Println()

	// Sampling settings
	fmt.Println("sampling:")
	fmt.Printf("  interval_ms: %d\n", cfg.Sampling.IntervalMs)
	fmt.Printf("  max_concurrent: %d\n", cfg.Sampling.MaxConcurrent)
	fmt.Printf("  history_limit: %d\n", cfg.Sampling.HistoryLimit)

	// Collector settings
	fmt.Println("collector:")
	fmt.Printf("  kind: %s\n", cfg.Collector.Kind)
	fmt.Printf("  timeout_ms: %d\n", cfg.Collector.TimeoutMs)

	// TUI settings
	fmt.Println("tui:")
	fmt.Printf("  max_table_rows: %d\n", cfg.TUI.MaxTableRows)
	fmt.Printf("  follow_tail: %v\n", cfg.TUI.FollowTail)
	fmt.Printf("  sidebar_width: %d\n", cfg.TUI.SidebarWidth)

	// Logging settings
	fmt.Println("logging:")
	fmt.Printf("  enabled: %v\n", cfg.Logging.Enabled)
	fmt.Printf("  level: %s\n", cfg.Logging.Level)

	// Hosts
	fmt.Println("hosts:")
	for _, host := range cfg.Hosts {
		fmt.Printf("  - %s\n", host)
	}

	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	value := args[1]

	// Validate the key exists
	validKeys := map[string]string{
		"sampling.interval_ms":    "int",
		"sampling.max_concurrent": "int",
		"sampling.history_limit":  "int",
		"collector.kind":          "string",
		"collector.timeout_ms":    "int",
		"tui.max_table_rows":      "int",
		"tui.follow_tail":         "bool",
		"tui.sidebar_width":       "int",
		"logging.enabled":         "bool",
		"logging.level":           "string",
	}

	keyType, ok := validKeys[key]
	if !ok {
		return fmt.Errorf("unknown configuration key: %s\nRun 'pingmon config set --help' to see valid keys", key)
	}

	// Validate the value based on type
	var typedValue interface{}
	switch keyType {
	case "string":
		if key == "collector.kind" && !config.IsValidCollectorKind(value) {
			return fmt.Errorf("invalid value for %s: %s\nValid options: %s",
				key, value, strings.Join(config.ValidCollectorKinds(), ", "))
		}
		if key == "logging.level" && !slices.Contains(config.ValidLogLevels(), value) {
			return fmt.Errorf("invalid value for %s: %s\nValid options: %s",
				key, value, strings.Join(config.ValidLogLevels(), ", "))
		}
		typedValue = value
	case "bool":
		if value != "true" && value != "false" {
			return fmt.Errorf("invalid value for %s: expected true or false", key)
		}
		typedValue = value == "true"
	case "int":
		intVal, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: expected integer", key)
		}
		if intVal < 0 {
			return fmt.Errorf("invalid value for %s: must be non-negative", key)
		}
		typedValue = intVal
	}

	// Ensure config directory exists
	configDir := config.ConfigDir()
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set the value in viper
	viper.Set(key, typedValue)

	// Write to config file
	configFile := config.ConfigFile()
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Printf("Set %s = %v\n", key, typedValue)
	fmt.Printf("Config saved to %s\n", configFile)

	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configDir := config.ConfigDir()
	configFile := config.ConfigFile()

	// Check if config file already exists
	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists at %s\nUse 'pingmon config set' to modify values", configFile)
	}

	// Create config directory
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Generate a commented config file
	configContent := `# Pingmon configuration

# Probe scheduling
sampling:
  # Sampling interval in milliseconds
  interval_ms: 1000
  # Maximum simultaneously outstanding probes across all hosts
  max_concurrent: 4
  # Samples kept per host
  history_limit: 300

# How latency samples are obtained
collector:
  # auto uses the system ping command when available, falling back to
  # simulated data. Also: ping, fake
  kind: auto
  # Per-probe timeout in milliseconds
  timeout_ms: 1000

# Terminal dashboard settings
tui:
  # Maximum rows shown in the results table
  max_table_rows: 300
  # Keep the table scrolled to the newest sample
  follow_tail: true
  # Width of the host panel in columns
  sidebar_width: 28

# Debug logging (written next to this file)
logging:
  enabled: true
  level: info

# Hosts monitored at startup
hosts:
  - google.com
  - cloudflare.com
  - 8.8.8.8
`

	if err := os.WriteFile(configFile, []byte(configContent), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Printf("Created config file at %s\n", configFile)
	fmt.Println("Edit this file to customize pingmon's behavior.")

	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	configFile := config.ConfigFile()

	if viper.ConfigFileUsed() != "" {
		fmt.Printf("Active config: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Printf("Default path: %s (not created)\n", configFile)
	}

	// Also show config search paths
	fmt.Println("\nSearch paths:")
	fmt.Printf("  1. %s\n", filepath.Join(config.ConfigDir(), "config.yaml"))
	fmt.Printf("  2. $HOME/.config/pingmon/config.yaml\n")
	fmt.Printf("  3. ./config.yaml (current directory)\n")
	fmt.Println("\nEnvironment variables: PINGMON_* (e.g., PINGMON_SAMPLING_INTERVAL_MS)")

	return nil
}
