package logger

import (
	"strings"

	"github.com/fatih/color"
)

// levelColors maps each level to the color used for its tag on a terminal.
// Blue: routine events
// Yellow: skipped files and signals
// Red: fatal conditions
var levelColors = map[string]*color.Color{
	"TRACE": color.New(color.FgHiBlack),
	"DEBUG": color.New(color.FgCyan),
	"INFO":  color.New(color.FgBlue),
	"WARN":  color.New(color.FgYellow),
	"ERROR": color.New(color.FgRed, color.Bold),
}

// colorizeLevel wraps the level tag in ANSI color codes.
// Unknown levels are returned unchanged.
func colorizeLevel(level string) string {
	c, ok := levelColors[strings.ToUpper(level)]
	if !ok {
		return level
	}
	return c.Sprint(level)
}
