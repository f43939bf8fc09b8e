package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// fileTimeFormat is the timestamp prefix of every log line.
const fileTimeFormat = "2006-01-02 15:04:05.000"

// FileLogger appends watcher events to a single text log, one line per event:
//
//	[2006-01-02 15:04:05.000] [INFO] file added: a.txt
//
// The file is opened in append mode and synced after every write so that
// `tail -f` sees events as they happen and nothing is lost on a hard stop.
type FileLogger struct {
	path     string
	file     *os.File
	logLevel string
	mu       sync.Mutex
}

// NewFileLogger opens (or creates) the log file at path for appending.
// The parent directory is created if it doesn't exist.
func NewFileLogger(path string, logLevel string) (*FileLogger, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return &FileLogger{
		path:     path,
		file:     file,
		logLevel: normalizeLogLevel(logLevel),
	}, nil
}

// Path returns the log file path.
func (fl *FileLogger) Path() string {
	return fl.path
}

// Debugf logs a debug-level message.
func (fl *FileLogger) Debugf(format string, args ...interface{}) {
	fl.logWithLevel("DEBUG", fmt.Sprintf(format, args...))
}

// Infof logs an info-level message.
func (fl *FileLogger) Infof(format string, args ...interface{}) {
	fl.logWithLevel("INFO", fmt.Sprintf(format, args...))
}

// Warnf logs a warning-level message.
func (fl *FileLogger) Warnf(format string, args ...interface{}) {
	fl.logWithLevel("WARN", fmt.Sprintf(format, args...))
}

// Errorf logs an error-level message.
func (fl *FileLogger) Errorf(format string, args ...interface{}) {
	fl.logWithLevel("ERROR", fmt.Sprintf(format, args...))
}

// logWithLevel is a helper that logs a message at the specified level if filtering allows it.
func (fl *FileLogger) logWithLevel(level string, message string) {
	if !enabled(fl.logLevel, level) {
		return
	}
	fl.write(fmt.Sprintf("[%s] [%s] %s\n", time.Now().Format(fileTimeFormat), level, message))
}

// Close flushes and closes the log file.
// It should be called when the logger is no longer needed.
func (fl *FileLogger) Close() error {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.file != nil {
		if err := fl.file.Sync(); err != nil {
			return fmt.Errorf("failed to sync log file: %w", err)
		}
		if err := fl.file.Close(); err != nil {
			return fmt.Errorf("failed to close log file: %w", err)
		}
		fl.file = nil
	}

	return nil
}

// write is a thread-safe helper to append a line to the log file.
func (fl *FileLogger) write(line string) {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.file != nil {
		fl.file.WriteString(line)
		fl.file.Sync()
	}
}
