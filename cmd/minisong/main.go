// minisong is a terminal client for the Music Player Daemon.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/drake/minisong/config"
	"github.com/drake/minisong/debug"
	"github.com/drake/minisong/mpd"
	"github.com/drake/minisong/session"
	"github.com/drake/minisong/ui/style"
	"github.com/drake/minisong/ui/tui"
	"github.com/drake/minisong/ui/tui/components"
	"github.com/drake/minisong/ui/tui/widget"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "minisong:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := config.Flags()
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	cfg, err := config.Load(fs)
	if err != nil {
		return err
	}

	// The TUI owns the terminal, so logs go to a file.
	level, _ := cfg.Log.SlogLevel()
	if err := os.MkdirAll(filepath.Dir(cfg.Log.File), 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	logFile, err := tea.LogToFile(cfg.Log.File, "minisong")
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	logger := slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := widget.NewRegistry(logger)
	if err := components.RegisterAll(registry); err != nil {
		return fmt.Errorf("register widgets: %w", err)
	}

	keys := tui.DefaultKeyMap()
	ui := tui.NewBubbleTeaUI(registry, tui.Options{
		Mouse:               cfg.UI.Mouse,
		KeyboardEnhancement: cfg.UI.KeyboardEnhancement,
		Keys:                keys,
		Logger:              logger,
	})

	addr := cfg.MPD.Addr()
	dial := session.MPDDialer(addr, mpd.Options{
		Password: cfg.MPD.Password,
		Timeout:  cfg.MPD.Timeout,
		Logger:   logger,
	})
	s, err := session.New(dial, ui, session.Config{
		Addr:           addr,
		PollInterval:   cfg.UI.PollInterval,
		ReconnectDelay: cfg.UI.ReconnectDelay,
		CallTimeout:    cfg.MPD.Timeout,
		ArtCacheSize:   cfg.UI.ArtCacheSize,
		Keys:           keys,
		Styles:         style.DefaultStyles(),
		Logger:         logger,
	})
	if err != nil {
		return err
	}

	debug.NewMonitor(debug.Source{
		Session: s.Stats,
		Frames:  ui.FrameStats,
		Pending: ui.PendingCommands,
	}, logger).Start(ctx)

	logger.Info("minisong starting", "addr", addr, "log_level", level.String())
	if err := s.Run(ctx); err != nil {
		return err
	}
	logger.Info("minisong exited")
	return nil
}
