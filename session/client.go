package session

import (
	"context"
	"errors"
	"image"
	"time"

	"github.com/drake/minisong/event"
	"github.com/drake/minisong/mpd"
	"github.com/drake/minisong/ui/tui/components/albumart"
	"github.com/drake/minisong/ui/tui/widget"
)

const (
	volumeStep = 5
	seekStep   = 5 * time.Second
)

// connect shows the connecting screen and dials in the background. While
// retrying after a failure the error screen stays up.
func (s *Session) connect() {
	if s.player != nil || s.dialing {
		return
	}
	s.dialing = true
	s.setState(StateConnecting)
	if !s.failing {
		s.ui.Queue(widget.DespawnAll, s.screen.connecting(s.cfg.Addr))
	}

	ctx := s.ctx
	go func() {
		p, err := s.dial(ctx)
		posted := s.post(event.Event{
			Type: event.AsyncResult,
			Callback: func() {
				s.onConnected(p, err)
			},
		})
		if !posted && p != nil {
			p.Close()
		}
	}()
}

func (s *Session) onConnected(p Player, err error) {
	s.dialing = false
	if err != nil {
		s.logger.Warn("mpd connect failed", "addr", s.cfg.Addr, "error", err)
		s.failing = true
		s.ui.Queue(widget.DespawnAll, s.screen.connectError(err))
		s.timer.After(timerReconnect, s.cfg.ReconnectDelay)
		return
	}

	s.logger.Info("mpd connected", "addr", s.cfg.Addr)
	s.failing = false
	s.player = p
	s.connected.Store(true)
	s.view = clientView{}
	s.artURI = ""
	s.showClient()
	s.pollID = s.timer.Every(timerPoll, s.cfg.PollInterval)
	s.refresh()
}

// lost drops the connection and starts reconnecting.
func (s *Session) lost(err error) {
	s.logger.Warn("mpd connection lost", "error", err)
	s.timer.Cancel(s.pollID)
	s.pollID = 0
	s.closePlayer()
	s.reconnects.Add(1)
	s.connect()
}

// fail handles a failed player call. Server errors leave the connection
// usable; anything else means it is gone.
func (s *Session) fail(op string, err error) {
	var ack *mpd.Error
	if errors.As(err, &ack) {
		s.logger.Warn("mpd command rejected", "op", op, "code", ack.Code, "message", ack.Message)
		return
	}
	s.lost(err)
}

func (s *Session) showClient() {
	s.setState(StateClient)
	s.ui.Queue(widget.DespawnAll, s.screen.client(s.view))
}

func (s *Session) showHelp() {
	s.setState(StateHelp)
	s.ui.Queue(widget.DespawnAll, s.screen.help())
}

// refresh reads status and the current song and updates the screen.
func (s *Session) refresh() {
	var (
		st      mpd.Status
		song    mpd.Song
		hasSong bool
	)
	err := s.call(func(ctx context.Context) error {
		var err error
		if st, err = s.player.Status(ctx); err != nil {
			return err
		}
		song, hasSong, err = s.player.CurrentSong(ctx)
		return err
	})
	if err != nil {
		s.fail("status", err)
		return
	}

	s.view.status = st
	s.view.song = song
	s.view.hasSong = hasSong
	if sp, ok := s.player.(interface{ Stats() mpd.Stats }); ok {
		ps := sp.Stats()
		s.playerStats.Store(&ps)
	}

	if s.state == StateClient {
		s.ui.Queue(s.screen.updateClient(s.view))
	}
	s.syncArt()
}

// syncArt starts an album art fetch when the song file changed.
func (s *Session) syncArt() {
	uri := ""
	if s.view.hasSong {
		uri = s.view.song.File
	}
	if uri == s.artURI {
		return
	}
	s.artURI = uri

	if uri == "" {
		s.setArt(nil)
		return
	}
	if img, ok := s.artCache.Get(uri); ok {
		s.setArt(img)
		return
	}

	s.view.art, s.view.artImage = artLoading, nil
	s.queueArt()

	p, ctx := s.player, s.ctx
	go func() {
		img, err := s.fetchArt(ctx, p, uri)
		s.post(event.Event{
			Type: event.AsyncResult,
			Callback: func() {
				s.onArt(p, uri, img, err)
			},
		})
	}()
}

func (s *Session) fetchArt(ctx context.Context, p Player, uri string) (image.Image, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.CallTimeout)
	defer cancel()
	data, err := p.AlbumArt(ctx, uri)
	if err != nil {
		return nil, err
	}
	return albumart.Decode(data)
}

func (s *Session) onArt(p Player, uri string, img image.Image, err error) {
	switch {
	case err == nil:
		s.artCache.Add(uri, img)
	case errors.Is(err, mpd.ErrClosed):
		if p == s.player {
			s.lost(err)
		}
		return
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		s.logger.Warn("album art timed out", "uri", uri)
		// Retry on the next refresh.
		if uri == s.artURI {
			s.artURI = ""
		}
		return
	default:
		if !errors.Is(err, mpd.ErrNoArt) {
			s.logger.Warn("album art unavailable", "uri", uri, "error", err)
		}
		s.artCache.Add(uri, nil)
	}

	// A newer song took over while fetching.
	if uri != s.artURI {
		return
	}
	s.setArt(img)
}

func (s *Session) setArt(img image.Image) {
	if img == nil {
		s.view.art, s.view.artImage = artNone, nil
	} else {
		s.view.art, s.view.artImage = artReady, img
	}
	s.queueArt()
}

func (s *Session) queueArt() {
	if s.state == StateClient {
		s.ui.Queue(s.screen.updateArt(s.view))
	}
}

// handleAction runs a user action for the current state.
func (s *Session) handleAction(a event.Action) {
	if a == event.ActionQuit {
		s.shutdown()
		return
	}

	switch s.state {
	case StateHelp:
		if a == event.ActionBack || a == event.ActionHelp {
			s.showClient()
		}
		return
	case StateClient:
	default:
		return
	}

	if a == event.ActionHelp {
		s.showHelp()
		return
	}
	if s.player == nil {
		return
	}

	err := s.call(func(ctx context.Context) error {
		return s.apply(ctx, a)
	})
	if err != nil {
		s.fail(a.String(), err)
		return
	}
	s.refresh()
}

// apply maps an action to player commands against the last known status.
func (s *Session) apply(ctx context.Context, a event.Action) error {
	p, st := s.player, s.view.status
	switch a {
	case event.ActionTogglePause:
		return p.TogglePause(ctx)
	case event.ActionNext:
		return p.Next(ctx)
	case event.ActionPrevious:
		return p.Previous(ctx)
	case event.ActionSeekForward, event.ActionSeekBackward:
		if st.State == mpd.StateStop {
			return nil
		}
		d := seekStep
		if a == event.ActionSeekBackward {
			d = -d
		}
		return p.SeekCur(ctx, d, true)
	case event.ActionVolumeUp, event.ActionVolumeDown:
		// No mixer.
		if st.Volume < 0 {
			return nil
		}
		v := st.Volume + volumeStep
		if a == event.ActionVolumeDown {
			v = st.Volume - volumeStep
		}
		return p.SetVolume(ctx, min(max(v, 0), 100))
	case event.ActionToggleRepeat:
		return p.Repeat(ctx, !st.Repeat)
	case event.ActionToggleRandom:
		return p.Random(ctx, !st.Random)
	case event.ActionToggleSingle:
		return p.Single(ctx, !st.Single)
	case event.ActionToggleConsume:
		return p.Consume(ctx, !st.Consume)
	}
	return nil
}
