// Package logger builds the charmbracelet/log loggers used across suggestbox.
// The TUI owns stdout, so application logs go to a file.
package logger

import (
	"io"

	"github.com/charmbracelet/log"
)

// New creates a logger writing to w.
func New(w io.Writer, prefix string, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		Level:           level,
		ReportCaller:    false,
		ReportTimestamp: true,
		Formatter:       log.TextFormatter,
	})
}

// ParseLevel maps a config string onto a log level, defaulting to info.
func ParseLevel(s string) log.Level {
	if s == "" {
		return log.InfoLevel
	}
	lvl, err := log.ParseLevel(s)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
