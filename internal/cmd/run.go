package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/harrison/dirwatcher/internal/config"
	"github.com/harrison/dirwatcher/internal/filelock"
	"github.com/harrison/dirwatcher/internal/logger"
	"github.com/harrison/dirwatcher/internal/scanner"
	"github.com/harrison/dirwatcher/internal/watcher"
	"github.com/spf13/cobra"
)

// runWatch implements the watcher command logic
func runWatch(cmd *cobra.Command, args []string) error {
	dir := args[0]

	cfg, err := loadConfig(cmd)
	if err != nil {
		return &ExitError{Code: 1, Err: err}
	}

	marker, err := cfg.MarkerPattern()
	if err != nil {
		return &ExitError{Code: 1, Err: fmt.Errorf("invalid marker: %w", err)}
	}

	// One watcher per log file; two appending to the same log would interleave runs
	lock, err := filelock.Acquire(cfg.LogFile)
	if err != nil {
		if errors.Is(err, filelock.ErrLocked) {
			return &ExitError{Code: 1, Err: fmt.Errorf("another dirwatcher is already writing %s: %w", cfg.LogFile, err)}
		}
		return &ExitError{Code: 1, Err: err}
	}
	defer lock.Unlock()

	fileLog, err := logger.NewFileLogger(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return &ExitError{Code: 1, Err: fmt.Errorf("failed to create file logger: %w", err)}
	}
	defer fileLog.Close()

	var log logger.Logger = fileLog
	if cfg.Console {
		log = logger.NewMultiLogger(fileLog, logger.NewConsoleLogger(cmd.ErrOrStderr(), cfg.LogLevel))
	}

	w := watcher.New(watcher.Options{
		Scanner:  scanner.New(dir, marker, log),
		Interval: cfg.PollInterval,
		Marker:   cfg.Marker,
		Logger:   log,
	})

	// Registered before the first scan so an early Ctrl+C is not lost
	bridge := watcher.NewSignalBridge(w, log)
	defer bridge.Stop()

	if _, err := w.Run(cmd.Context()); err != nil {
		log.Errorf("fatal: %v", err)
		return &ExitError{Code: 1, Err: err, Reported: cfg.Console}
	}
	return nil
}

// loadConfig builds the effective configuration: defaults, then the config
// file, then DIRWATCHER_* environment variables, then flags that were set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")

	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
	} else {
		cfg, err = config.LoadConfigFromDir(".")
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	if err := cfg.MergeWithEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	// Build flag pointers for merge (only flags the user set)
	var intervalPtr *time.Duration
	if cmd.Flags().Changed("interval") {
		s, _ := cmd.Flags().GetString("interval")
		interval, err := config.ParseInterval(s)
		if err != nil {
			return nil, fmt.Errorf("invalid interval format %q: %w", s, err)
		}
		intervalPtr = &interval
	}

	var markerPtr *string
	if cmd.Flags().Changed("marker") {
		marker, _ := cmd.Flags().GetString("marker")
		markerPtr = &marker
	}

	var regexPtr *bool
	if cmd.Flags().Changed("regex") {
		regex, _ := cmd.Flags().GetBool("regex")
		regexPtr = &regex
	}

	var logFilePtr *string
	if cmd.Flags().Changed("log-file") {
		logFile, _ := cmd.Flags().GetString("log-file")
		logFilePtr = &logFile
	}

	var logLevelPtr *string
	if cmd.Flags().Changed("log-level") {
		logLevel, _ := cmd.Flags().GetString("log-level")
		logLevelPtr = &logLevel
	}

	var consolePtr *bool
	if cmd.Flags().Changed("quiet") {
		quiet, _ := cmd.Flags().GetBool("quiet")
		console := !quiet
		consolePtr = &console
	}

	cfg.MergeWithFlags(intervalPtr, markerPtr, regexPtr, logFilePtr, logLevelPtr, consolePtr)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
