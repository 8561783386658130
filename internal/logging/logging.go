// Package logging builds the charmbracelet/log logger shared by every
// component.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// Prefix tags every line written by tada.
const Prefix = "tada"

// Options holds configuration for the logger.
type Options struct {
	Level           string
	Format          string
	ReportTimestamp bool
}

// New creates a logger writing to w. Unknown levels or formats are errors
// so a typo in the config is reported instead of silently ignored.
func New(w io.Writer, opts Options) (*log.Logger, error) {
	level := log.WarnLevel
	if opts.Level != "" {
		l, err := log.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		level = l
	}
	formatter, err := ParseFormat(opts.Format)
	if err != nil {
		return nil, err
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Formatter:       formatter,
		ReportTimestamp: opts.ReportTimestamp,
		Prefix:          Prefix,
	}), nil
}

// ParseFormat maps text, json and logfmt to their formatter.
func ParseFormat(s string) (log.Formatter, error) {
	switch strings.ToLower(s) {
	case "", "text":
		return log.TextFormatter, nil
	case "json":
		return log.JSONFormatter, nil
	case "logfmt":
		return log.LogfmtFormatter, nil
	}
	return log.TextFormatter, fmt.Errorf("log format: unknown value %q", s)
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
