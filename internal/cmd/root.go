package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// ErrUsage is returned when the command line does not name exactly one directory.
var ErrUsage = errors.New("expected exactly one directory argument")

// ExitError carries the process exit code for a failed run. Reported is
// true when the failure has already been written to the console log, so the
// caller should not print it a second time.
type ExitError struct {
	Code     int
	Err      error
	Reported bool
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error for error wrapping support.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewRootCommand creates and returns the root cobra command for dirwatcher
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dirwatcher <directory>",
		Short: "Watch a directory for files and magic text",
		Long: `dirwatcher polls a directory on a fixed interval and logs every change:
files that appear or disappear, and lines that start or stop carrying the
marker text. Each marker occurrence is logged once, when it first appears.

The watcher runs until it receives SIGINT (Ctrl+C) or SIGTERM, then logs
its uptime and exits.

Configuration is loaded from .dirwatcher/config.yaml if present,
then DIRWATCHER_* environment variables, then CLI flags.

Examples:
  dirwatcher ./inbox
  dirwatcher --marker wuddup --interval 500ms ./inbox
  dirwatcher --regex --marker 'TODO\(\w+\)' ./src
  dirwatcher --log-file /var/log/dirwatcher.log --quiet /srv/drop`,
		Version: Version,
		Args:    requireDirectory,
		RunE:    runWatch,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().String("config", "", "Path to config file (default: .dirwatcher/config.yaml)")
	cmd.Flags().String("interval", "", "Poll interval (e.g., 2s, 500ms)")
	cmd.Flags().String("marker", "", "Text to search for on every line (default: magic)")
	cmd.Flags().Bool("regex", false, "Treat --marker as a regular expression")
	cmd.Flags().String("log-file", "", "Append-only event log (default: dirwatcher.log)")
	cmd.Flags().String("log-level", "", "Log level: trace, debug, info, warn, error")
	cmd.Flags().BoolP("quiet", "q", false, "Do not mirror log entries to stderr")

	return cmd
}

// requireDirectory prints usage and fails unless exactly one argument is given.
func requireDirectory(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		return nil
	}
	_ = cmd.Usage()
	return &ExitError{Code: 1, Err: fmt.Errorf("%w, got %d", ErrUsage, len(args))}
}
