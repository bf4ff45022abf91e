package app

import (
	"io"
	"log/slog"
	"sync"
)

var initOnce sync.Once

// Initialize installs the process-wide logger. Only the first call has any
// effect; later calls are no-ops.
func Initialize(w io.Writer, verbose bool) {
	initOnce.Do(func() {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
	})
}
