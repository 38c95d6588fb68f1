package config

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "sampling.interval_ms")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateSampling()...)
	errors = append(errors, c.validateCollector()...)
	errors = append(errors, c.validateTUI()...)
	errors = append(errors, c.validateLogging()...)
	errors = append(errors, c.validateHosts()...)

	return errors
}

// validateSampling validates the SamplingConfig
func (c *Config) validateSampling() []ValidationError {
	var errors []ValidationError

	if c.Sampling.IntervalMs <= 0 {
		errors = append(errors, ValidationError{
			Field:   "sampling.interval_ms",
			Value:   c.Sampling.IntervalMs,
			Message: "must be positive",
		})
	}

	const minIntervalMs = 50
	if c.Sampling.IntervalMs > 0 && c.Sampling.IntervalMs < minIntervalMs {
		errors = append(errors, ValidationError{
			Field:   "sampling.interval_ms",
			Value:   c.Sampling.IntervalMs,
			Message: fmt.Sprintf("must be at least %dms", minIntervalMs),
		})
	}

	if c.Sampling.MaxConcurrent <= 0 {
		errors = append(errors, ValidationError{
			Field:   "sampling.max_concurrent",
			Value:   c.Sampling.MaxConcurrent,
			Message: "must be positive",
		})
	}

	const maxConcurrentLimit = 64
	if c.Sampling.MaxConcurrent > maxConcurrentLimit {
		errors = append(errors, ValidationError{
			Field:   "sampling.max_concurrent",
			Value:   c.Sampling.MaxConcurrent,
			Message: fmt.Sprintf("exceeds maximum of %d", maxConcurrentLimit),
		})
	}

	if c.Sampling.HistoryLimit <= 0 {
		errors = append(errors, ValidationError{
			Field:   "sampling.history_limit",
			Value:   c.Sampling.HistoryLimit,
			Message: "must be positive",
		})
	}

	// Upper bound keeps memory use predictable
	const historyLimitMax = 100000
	if c.Sampling.HistoryLimit > historyLimitMax {
		errors = append(errors, ValidationError{
			Field:   "sampling.history_limit",
			Value:   c.Sampling.HistoryLimit,
			Message: fmt.Sprintf("exceeds maximum of %d", historyLimitMax),
		})
	}

	return errors
}

// validateCollector validates the CollectorConfig
func (c *Config) validateCollector() []ValidationError {
	var errors []ValidationError

	if c.Collector.Kind != "" && !IsValidCollectorKind(c.Collector.Kind) {
		errors = append(errors, ValidationError{
			Field:   "collector.kind",
			Value:   c.Collector.Kind,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidCollectorKinds(), ", ")),
		})
	}

	if c.Collector.TimeoutMs <= 0 {
		errors = append(errors, ValidationError{
			Field:   "collector.timeout_ms",
			Value:   c.Collector.TimeoutMs,
			Message: "must be positive",
		})
	}

	return errors
}

// validateTUI validates the TUIConfig
func (c *Config) validateTUI() []ValidationError {
	var errors []ValidationError

	if c.TUI.MaxTableRows <= 0 {
		errors = append(errors, ValidationError{
			Field:   "tui.max_table_rows",
			Value:   c.TUI.MaxTableRows,
			Message: "must be positive",
		})
	}

	if c.TUI.SidebarWidth != 0 && (c.TUI.SidebarWidth < 20 || c.TUI.SidebarWidth > 60) {
		errors = append(errors, ValidationError{
			Field:   "tui.sidebar_width",
			Value:   c.TUI.SidebarWidth,
			Message: "must be between 20 and 60 columns",
		})
	}

	return errors
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), c.Logging.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	if c.Logging.MaxSizeMB < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: "must be non-negative",
		})
	}

	if c.Logging.MaxBackups < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_backups",
			Value:   c.Logging.MaxBackups,
			Message: "must be non-negative",
		})
	}

	return errors
}

// validateHosts validates the startup host list
func (c *Config) validateHosts() []ValidationError {
	var errors []ValidationError

	seen := make(map[string]bool)
	for i, host := range c.Hosts {
		trimmed := strings.TrimSpace(host)
		if trimmed == "" {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("hosts[%d]", i),
				Value:   host,
				Message: "must not be blank",
			})
			continue
		}
		if strings.ContainsAny(trimmed, " \t") {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("hosts[%d]", i),
				Value:   host,
				Message: "must not contain whitespace",
			})
		}
		if seen[trimmed] {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("hosts[%d]", i),
				Value:   host,
				Message: "duplicate host",
			})
		}
		seen[trimmed] = true
	}

	return errors
}
