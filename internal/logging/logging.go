// Package logging builds the process logger: a charmbracelet/log console
// sink exposed through log/slog.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	charmLog "github.com/charmbracelet/log"
)

// New returns an slog.Logger writing styled records to w at level
// ("debug", "info", "warn" or "error").
func New(w io.Writer, level string) (*slog.Logger, error) {
	lvl, err := charmLog.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse logging level %q: %w", level, err)
	}
	if w == nil {
		w = io.Discard
	}

	handler := charmLog.NewWithOptions(w, charmLog.Options{
		Level:           lvl,
		Prefix:          "leadbook",
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Formatter:       charmLog.TextFormatter,
	})
	return slog.New(handler), nil
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
