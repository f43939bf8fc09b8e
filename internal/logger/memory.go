package logger

import (
	"fmt"
	"strings"
	"sync"
)

// Entry is one message captured by MemoryLogger.
type Entry struct {
	Level   string
	Message string
}

// MemoryLogger keeps every message in memory. It is the capturing sink used
// when a component's log output needs to be inspected.
type MemoryLogger struct {
	mu      sync.Mutex
	entries []Entry
}

// NewMemoryLogger returns an empty MemoryLogger.
func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (m *MemoryLogger) record(level, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, Entry{Level: level, Message: fmt.Sprintf(format, args...)})
}

// Debugf records a debug-level message.
func (m *MemoryLogger) Debugf(format string, args ...interface{}) {
	m.record("DEBUG", format, args...)
}

// Infof records an info-level message.
func (m *MemoryLogger) Infof(format string, args ...interface{}) {
	m.record("INFO", format, args...)
}

// Warnf records a warning-level message.
func (m *MemoryLogger) Warnf(format string, args ...interface{}) {
	m.record("WARN", format, args...)
}

// Errorf records an error-level message.
func (m *MemoryLogger) Errorf(format string, args ...interface{}) {
	m.record("ERROR", format, args...)
}

// Entries returns a copy of everything recorded so far.
func (m *MemoryLogger) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Messages returns the messages recorded at level, in order.
func (m *MemoryLogger) Messages(level string) []string {
	var out []string
	for _, e := range m.Entries() {
		if e.Level == level {
			out = append(out, e.Message)
		}
	}
	return out
}

// Contains reports whether any recorded message contains substr.
func (m *MemoryLogger) Contains(substr string) bool {
	for _, e := range m.Entries() {
		if strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

// Reset drops all recorded entries.
func (m *MemoryLogger) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = nil
}
