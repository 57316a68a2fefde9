package session

import (
	"context"
	"time"

	"github.com/drake/minisong/event"
	"github.com/drake/minisong/mpd"
	"github.com/drake/minisong/ui/tui"
	"github.com/drake/minisong/ui/tui/widget"
)

// Player is the MPD connection the session drives. *mpd.Client
// implements it.
type Player interface {
	Status(ctx context.Context) (mpd.Status, error)
	CurrentSong(ctx context.Context) (mpd.Song, bool, error)
	TogglePause(ctx context.Context) error
	Next(ctx context.Context) error
	Previous(ctx context.Context) error
	SeekCur(ctx context.Context, d time.Duration, relative bool) error
	SetVolume(ctx context.Context, volume int) error
	Repeat(ctx context.Context, on bool) error
	Random(ctx context.Context, on bool) error
	Single(ctx context.Context, on bool) error
	Consume(ctx context.Context, on bool) error
	AlbumArt(ctx context.Context, uri string) ([]byte, error)
	Close() error
}

// Dialer opens a player connection.
type Dialer func(ctx context.Context) (Player, error)

// MPDDialer dials the MPD server at addr.
func MPDDialer(addr string, opts mpd.Options) Dialer {
	return func(ctx context.Context) (Player, error) {
		c, err := mpd.Dial(ctx, addr, opts)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

// UI is the terminal layer. Screens are changed only through queued tree
// commands.
type UI interface {
	Queue(cmds ...widget.Command)
	Events() <-chan event.Event
	Run(ctx context.Context) error
	Quit()
	Done() <-chan struct{}
}

// Compile-time interface checks
var (
	_ Player = (*mpd.Client)(nil)
	_ UI     = (*tui.BubbleTeaUI)(nil)
)
