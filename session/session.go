// Package session owns the application state and drives the UI from a
// single event loop.
package session

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/drake/minisong/event"
	"github.com/drake/minisong/internal/buffer"
	"github.com/drake/minisong/mpd"
	"github.com/drake/minisong/timer"
	"github.com/drake/minisong/ui/style"
	"github.com/drake/minisong/ui/tui"
	"github.com/drake/minisong/ui/tui/components/albumart"
)

// Timer names
const (
	timerPoll      = "poll"
	timerReconnect = "reconnect"
)

// Config holds session configuration.
type Config struct {
	Addr           string // Shown while connecting
	PollInterval   time.Duration
	ReconnectDelay time.Duration
	CallTimeout    time.Duration
	ArtCacheSize   int
	Keys           tui.KeyMap
	Styles         style.Styles
	Logger         *slog.Logger
}

// State is the screen the session is on.
type State int

const (
	StateConnecting State = iota
	StateClient
	StateHelp
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateClient:
		return "client"
	case StateHelp:
		return "help"
	}
	return "unknown"
}

// Stats holds session statistics for monitoring.
type Stats struct {
	State          State
	Connected      bool
	Events         uint64
	Reconnects     uint64
	PendingTimers  int
	CachedArtworks int
	Player         mpd.Stats
}

// Session orchestrates the MPD connection and the UI.
type Session struct {
	// Components
	dial   Dialer
	ui     UI
	timer  *timer.Service
	logger *slog.Logger
	cfg    Config
	screen screens

	// Channels
	in          chan<- event.Event
	events      <-chan event.Event
	timerEvents chan timer.Event

	// Loop-owned state
	state    State
	player   Player
	view     clientView
	artURI   string
	artCache *albumart.Cache
	pollID   int
	ctx      context.Context

	dialing bool
	failing bool

	stateVal    atomic.Int32
	connected   atomic.Bool
	playerStats atomic.Pointer[mpd.Stats]

	eventsProcessed atomic.Uint64
	reconnects      atomic.Uint64

	// Shutdown coordination
	done      chan struct{}
	closeOnce sync.Once
}

// New creates a new Session. It is passive; no goroutines start here
// except the event bus.
func New(dial Dialer, ui UI, cfg Config) (*Session, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 500 * time.Millisecond
	}
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = 2 * time.Second
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = mpd.DefaultTimeout
	}
	if cfg.ArtCacheSize <= 0 {
		cfg.ArtCacheSize = 32
	}
	if len(cfg.Keys.Quit.Keys()) == 0 {
		cfg.Keys = tui.DefaultKeyMap()
	}

	cache, err := albumart.NewCache(cfg.ArtCacheSize)
	if err != nil {
		return nil, err
	}

	timerEvents := make(chan timer.Event, 64)
	in, out := buffer.Unbounded[event.Event](64, 4096, cfg.Logger)

	return &Session{
		dial:        dial,
		ui:          ui,
		timer:       timer.NewService(timerEvents),
		logger:      cfg.Logger,
		cfg:         cfg,
		screen:      screens{styles: cfg.Styles, keys: cfg.Keys},
		in:          in,
		events:      out,
		timerEvents: timerEvents,
		artCache:    cache,
		ctx:         context.Background(),
		done:        make(chan struct{}),
	}, nil
}

// Run starts the session and blocks until the UI exits.
func (s *Session) Run(ctx context.Context) error {
	s.ctx = ctx

	go s.processEvents()
	s.post(event.Event{
		Type:    event.SystemControl,
		Control: event.ControlOp{Action: event.ControlConnect},
	})

	// Block on UI
	err := s.ui.Run(ctx)
	// Ensure shutdown of goroutines/resources when UI exits
	s.shutdown()
	return err
}

// processEvents is the main event loop.
func (s *Session) processEvents() {
	for {
		select {
		case <-s.done:
			s.closePlayer()
			return
		case ev := <-s.events:
			s.handleEvent(ev)
		case ev := <-s.ui.Events():
			s.handleEvent(ev)
		case ev := <-s.timerEvents:
			s.handleTimer(ev)
		}
	}
}

// handleEvent executes a single event on the session loop.
func (s *Session) handleEvent(ev event.Event) {
	s.eventsProcessed.Add(1)
	switch ev.Type {
	case event.UserAction:
		s.handleAction(ev.Action)

	case event.AsyncResult:
		if ev.Callback != nil {
			ev.Callback()
		}

	case event.SystemControl:
		s.handleControl(ev.Control)
	}
}

// handleControl processes system control events.
func (s *Session) handleControl(ctrl event.ControlOp) {
	switch ctrl.Action {
	case event.ControlQuit:
		s.shutdown()
	case event.ControlConnect:
		s.connect()
	}
}

func (s *Session) handleTimer(ev timer.Event) {
	s.eventsProcessed.Add(1)
	switch ev.Name {
	case timerPoll:
		if s.player != nil {
			s.refresh()
		}
	case timerReconnect:
		s.connect()
	}
}

// post enqueues an event for the loop. It gives up once the session is
// shutting down.
func (s *Session) post(ev event.Event) bool {
	select {
	case <-s.done:
		return false
	case s.in <- ev:
		return true
	}
}

// Quit asks the session to exit. Safe to call from any goroutine.
func (s *Session) Quit() {
	s.post(event.Event{
		Type:    event.SystemControl,
		Control: event.ControlOp{Action: event.ControlQuit},
	})
}

// shutdown attempts a coordinated shutdown of goroutines, timers, the
// connection and the UI.
func (s *Session) shutdown() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.timer.CancelAll()
		s.ui.Quit()
	})
}

// Done returns a channel that closes when the session shuts down.
func (s *Session) Done() <-chan struct{} { return s.done }

func (s *Session) setState(st State) {
	s.state = st
	s.stateVal.Store(int32(st))
}

func (s *Session) closePlayer() {
	if s.player == nil {
		return
	}
	if err := s.player.Close(); err != nil {
		s.logger.Debug("close player", "error", err)
	}
	s.player = nil
	s.connected.Store(false)
	s.playerStats.Store(nil)
}

// Stats returns current session statistics. Safe to call from any
// goroutine.
func (s *Session) Stats() Stats {
	st := Stats{
		State:          State(s.stateVal.Load()),
		Connected:      s.connected.Load(),
		Events:         s.eventsProcessed.Load(),
		Reconnects:     s.reconnects.Load(),
		PendingTimers:  s.timer.Pending(),
		CachedArtworks: s.artCache.Len(),
	}
	if ps := s.playerStats.Load(); ps != nil {
		st.Player = *ps
	}
	return st
}

// call bounds one player call by the configured timeout.
func (s *Session) call(fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(s.ctx, s.cfg.CallTimeout)
	defer cancel()
	return fn(ctx)
}
