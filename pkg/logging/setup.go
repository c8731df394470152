package logging

import (
	"log/slog"
	"os"
)

// Setup installs the process-wide logger. Verbosity 0 shows warnings and
// errors, 1 adds progress summaries, 2 and above adds per-entity detail.
// The returned Capture holds every warning logged afterwards, for
// inclusion in reports.
func Setup(verbosity int) *Capture {
	level := slog.LevelWarn
	switch {
	case verbosity >= 2:
		level = slog.LevelDebug
	case verbosity == 1:
		level = slog.LevelInfo
	}

	capture := NewCapture(128)
	base := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(NewCaptureHandler(base, capture)))
	return capture
}
