package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/harrison/dirwatcher/internal/logger"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the config file.
const (
	EnvInterval = "DIRWATCHER_INTERVAL"
	EnvMarker   = "DIRWATCHER_MARKER"
	EnvLogFile  = "DIRWATCHER_LOG_FILE"
	EnvLogLevel = "DIRWATCHER_LOG_LEVEL"
)

// DefaultConfigPath is where LoadConfigFromDir looks for a config file.
const DefaultConfigPath = ".dirwatcher/config.yaml"

// Config represents dirwatcher configuration options
type Config struct {
	// PollInterval is the sleep between two scans of the watched directory
	PollInterval time.Duration `yaml:"poll_interval"`

	// Marker is the text searched for on every line
	Marker string `yaml:"marker"`

	// MarkerRegex treats Marker as a regular expression instead of a literal
	MarkerRegex bool `yaml:"marker_regex"`

	// LogFile is the append-only event log
	LogFile string `yaml:"log_file"`

	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// Console mirrors log entries to stderr
	Console bool `yaml:"console"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		PollInterval: 2 * time.Second,
		Marker:       "magic",
		MarkerRegex:  false,
		LogFile:      "dirwatcher.log",
		LogLevel:     "info",
		Console:      true,
	}
}

// LoadConfig loads configuration from the specified file path
// The file must exist; keys it leaves out keep their default values
// If the file is missing or malformed, returns an error
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Durations are written as strings ("500ms", "2s") in the file,
	// and pointers tell an explicit false apart from a missing key
	type yamlConfig struct {
		PollInterval string `yaml:"poll_interval"`
		Marker       string `yaml:"marker"`
		MarkerRegex  *bool  `yaml:"marker_regex"`
		LogFile      string `yaml:"log_file"`
		LogLevel     string `yaml:"log_level"`
		Console      *bool  `yaml:"console"`
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply non-zero values from file (merging with defaults)
	if yamlCfg.PollInterval != "" {
		interval, err := ParseInterval(yamlCfg.PollInterval)
		if err != nil {
			return nil, fmt.Errorf("invalid poll_interval format %q: %w", yamlCfg.PollInterval, err)
		}
		cfg.PollInterval = interval
	}
	if yamlCfg.Marker != "" {
		cfg.Marker = yamlCfg.Marker
	}
	if yamlCfg.MarkerRegex != nil {
		cfg.MarkerRegex = *yamlCfg.MarkerRegex
	}
	if yamlCfg.LogFile != "" {
		cfg.LogFile = yamlCfg.LogFile
	}
	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}
	if yamlCfg.Console != nil {
		cfg.Console = *yamlCfg.Console
	}

	return cfg, nil
}

// LoadConfigFromDir loads configuration from .dirwatcher/config.yaml in the specified directory
// If the directory or file doesn't exist, returns default configuration without error
func LoadConfigFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, DefaultConfigPath)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	return LoadConfig(path)
}

// MergeWithEnv applies DIRWATCHER_* environment variables on top of the
// current values. lookup is usually os.LookupEnv.
func (c *Config) MergeWithEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvInterval); ok && v != "" {
		interval, err := ParseInterval(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvInterval, v, err)
		}
		c.PollInterval = interval
	}
	if v, ok := lookup(EnvMarker); ok && v != "" {
		c.Marker = v
	}
	if v, ok := lookup(EnvLogFile); ok && v != "" {
		c.LogFile = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}
	return nil
}

// ParseInterval parses a poll interval the same way for the config file, the
// environment and the --interval flag: a Go duration such as "500ms" or "2s".
func ParseInterval(v string) (time.Duration, error) {
	return time.ParseDuration(v)
}

// MergeWithFlags merges CLI flags into the configuration
// Non-nil flag values override configuration values
// This allows CLI flags to take precedence over config file settings
func (c *Config) MergeWithFlags(interval *time.Duration, marker *string, markerRegex *bool, logFile *string, logLevel *string, console *bool) {
	if interval != nil {
		c.PollInterval = *interval
	}
	if marker != nil {
		c.Marker = *marker
	}
	if markerRegex != nil {
		c.MarkerRegex = *markerRegex
	}
	if logFile != nil {
		c.LogFile = *logFile
	}
	if logLevel != nil {
		c.LogLevel = *logLevel
	}
	if console != nil {
		c.Console = *console
	}
}

// Validate validates the configuration values
// Returns an error if any values are invalid
func (c *Config) Validate() error {
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be > 0, got %v", c.PollInterval)
	}

	if c.Marker == "" {
		return fmt.Errorf("marker cannot be empty")
	}
	if c.MarkerRegex {
		re, err := regexp.Compile(c.Marker)
		if err != nil {
			return fmt.Errorf("invalid marker regex %q: %w", c.Marker, err)
		}
		if re.MatchString("") {
			return fmt.Errorf("marker regex %q matches the empty string", c.Marker)
		}
	}

	if !logger.ValidLevel(c.LogLevel) {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	if c.LogFile == "" {
		return fmt.Errorf("log_file cannot be empty")
	}

	return nil
}

// MarkerPattern compiles the marker. Call Validate first.
func (c *Config) MarkerPattern() (*regexp.Regexp, error) {
	if c.MarkerRegex {
		return regexp.Compile(c.Marker)
	}
	return regexp.Compile(regexp.QuoteMeta(c.Marker))
}
