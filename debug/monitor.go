// Package debug provides runtime monitoring and diagnostics.
package debug

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/drake/minisong/session"
	"github.com/drake/minisong/ui/tui"
)

// Enabled returns true if debug mode is active (MINISONG_DEBUG=1).
func Enabled() bool {
	return os.Getenv("MINISONG_DEBUG") == "1"
}

// Source reports the statistics a Monitor logs. Either func may be nil.
type Source struct {
	Session func() session.Stats
	Frames  func() tui.FrameStats
	Pending func() int
}

// Monitor periodically logs session, MPD and frame statistics when debug
// mode is enabled.
type Monitor struct {
	src      Source
	interval time.Duration
	logger   *slog.Logger
}

// NewMonitor creates a new monitor. If debug mode is not enabled, returns
// nil.
func NewMonitor(src Source, logger *slog.Logger) *Monitor {
	if !Enabled() {
		return nil
	}
	return newMonitor(src, 5*time.Second, logger)
}

func newMonitor(src Source, interval time.Duration, logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{src: src, interval: interval, logger: logger.With("component", "debug")}
}

// Start begins the monitoring loop in a goroutine. It stops when ctx is
// done.
func (m *Monitor) Start(ctx context.Context) {
	if m == nil {
		return
	}
	go m.run(ctx)
}

func (m *Monitor) run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.logger.Debug("monitor started", "interval", m.interval)

	for {
		select {
		case <-ctx.Done():
			m.logger.Debug("monitor stopped")
			return
		case <-ticker.C:
			m.logStats()
		}
	}
}

func (m *Monitor) logStats() {
	attrs := []any{"goroutines", runtime.NumGoroutine()}

	if m.src.Session != nil {
		s := m.src.Session()
		lastCmd := "never"
		if !s.Player.LastCommand.IsZero() {
			lastCmd = time.Since(s.Player.LastCommand).Round(time.Millisecond).String() + " ago"
		}
		attrs = append(attrs,
			slog.Group("session",
				"state", s.State.String(),
				"events", s.Events,
				"reconnects", s.Reconnects,
				"timers", s.PendingTimers,
				"art_cached", s.CachedArtworks,
			),
			slog.Group("mpd",
				"connected", s.Connected,
				"commands", s.Player.Commands,
				"errors", s.Player.Errors,
				"read", s.Player.BytesRead,
				"written", s.Player.BytesWritten,
				"last_command", lastCmd,
			),
		)
	}
	if m.src.Frames != nil {
		f := m.src.Frames()
		attrs = append(attrs, slog.Group("frames",
			"drawn", f.Frames,
			"dropped", f.Dropped,
			"skipped", f.Skipped,
		))
	}
	if m.src.Pending != nil {
		attrs = append(attrs, "pending_commands", m.src.Pending())
	}

	m.logger.Debug("stats", attrs...)
}
