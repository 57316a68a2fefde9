package session

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drake/minisong/event"
	"github.com/drake/minisong/mpd"
	"github.com/drake/minisong/timer"
	"github.com/drake/minisong/ui/style"
	"github.com/drake/minisong/ui/tui"
	"github.com/drake/minisong/ui/tui/components"
	"github.com/drake/minisong/ui/tui/widget"
	"github.com/drake/minisong/ui/tui/widget/widgettest"
)

// fakeUI applies queued commands to its own tree on demand.
type fakeUI struct {
	commands widget.Commands
	tree     *widget.Tree
	events   chan event.Event
	done     chan struct{}
	once     sync.Once
}

func newFakeUI() *fakeUI {
	return &fakeUI{
		tree:   widget.NewTree(),
		events: make(chan event.Event, 16),
		done:   make(chan struct{}),
	}
}

func (f *fakeUI) Queue(cmds ...widget.Command) { f.commands.Queue(cmds...) }
func (f *fakeUI) Events() <-chan event.Event   { return f.events }
func (f *fakeUI) Done() <-chan struct{}        { return f.done }
func (f *fakeUI) Quit()                        { f.once.Do(func() { close(f.done) }) }

func (f *fakeUI) Run(ctx context.Context) error {
	select {
	case <-ctx.Done():
	case <-f.done:
	}
	return nil
}

// screen applies pending commands and renders the tree as text.
func (f *fakeUI) screen(t *testing.T) string {
	t.Helper()
	f.commands.Apply(f.tree)
	h := widgettest.New(t, components.RegisterAll)
	return h.Render(t, 80, 20, f.tree).String()
}

// fakePlayer records calls and serves canned replies.
type fakePlayer struct {
	mu      sync.Mutex
	status  mpd.Status
	song    mpd.Song
	hasSong bool
	art     map[string][]byte
	errs    map[string]error
	calls   []string
	closed  bool
}

func newFakePlayer() *fakePlayer {
	return &fakePlayer{
		status: mpd.Status{State: mpd.StateStop, Volume: 50, Song: -1},
		art:    map[string][]byte{},
		errs:   map[string]error{},
	}
}

func (p *fakePlayer) record(call string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, call)
	name, _, _ := strings.Cut(call, " ")
	return p.errs[name]
}

func (p *fakePlayer) Calls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.calls...)
}

func (p *fakePlayer) resetCalls() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = nil
}

func (p *fakePlayer) setErr(cmd string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.errs[cmd] = err
}

func (p *fakePlayer) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

func (p *fakePlayer) Status(ctx context.Context) (mpd.Status, error) {
	err := p.record("status")
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status, err
}

func (p *fakePlayer) CurrentSong(ctx context.Context) (mpd.Song, bool, error) {
	err := p.record("currentsong")
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.song, p.hasSong, err
}

func (p *fakePlayer) TogglePause(ctx context.Context) error { return p.record("pause") }
func (p *fakePlayer) Next(ctx context.Context) error        { return p.record("next") }
func (p *fakePlayer) Previous(ctx context.Context) error    { return p.record("previous") }

func (p *fakePlayer) SeekCur(ctx context.Context, d time.Duration, relative bool) error {
	return p.record(fmt.Sprintf("seekcur %v %v", d, relative))
}

func (p *fakePlayer) SetVolume(ctx context.Context, v int) error {
	return p.record(fmt.Sprintf("setvol %d", v))
}

func (p *fakePlayer) Repeat(ctx context.Context, on bool) error {
	return p.record(fmt.Sprintf("repeat %v", on))
}

func (p *fakePlayer) Random(ctx context.Context, on bool) error {
	return p.record(fmt.Sprintf("random %v", on))
}

func (p *fakePlayer) Single(ctx context.Context, on bool) error {
	return p.record(fmt.Sprintf("single %v", on))
}

func (p *fakePlayer) Consume(ctx context.Context, on bool) error {
	return p.record(fmt.Sprintf("consume %v", on))
}

func (p *fakePlayer) AlbumArt(ctx context.Context, uri string) ([]byte, error) {
	if err := p.record("albumart " + uri); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	data, ok := p.art[uri]
	if !ok {
		return nil, mpd.ErrNoArt
	}
	return data, nil
}

func (p *fakePlayer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// fakeDialer hands out players, or errors, in order.
type fakeDialer struct {
	mu      sync.Mutex
	results []any
	dials   int
}

func (d *fakeDialer) dial(ctx context.Context) (Player, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dials++
	if len(d.results) == 0 {
		return nil, errors.New("no server")
	}
	r := d.results[0]
	d.results = d.results[1:]
	if err, ok := r.(error); ok {
		return nil, err
	}
	return r.(Player), nil
}

func (d *fakeDialer) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dials
}

func newTestSession(t *testing.T, results ...any) (*Session, *fakeUI, *fakeDialer) {
	t.Helper()
	ui := newFakeUI()
	d := &fakeDialer{results: results}
	s, err := New(d.dial, ui, Config{
		Addr:           "localhost:6600",
		PollInterval:   time.Hour,
		ReconnectDelay: time.Hour,
		Styles:         style.DefaultStyles(),
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	t.Cleanup(s.shutdown)
	return s, ui, d
}

// step runs the next internal event on the loop.
func step(t *testing.T, s *Session) {
	t.Helper()
	select {
	case ev := <-s.events:
		s.handleEvent(ev)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for session event")
	}
}

func connect(t *testing.T, s *Session) {
	t.Helper()
	s.handleControl(event.ControlOp{Action: event.ControlConnect})
	step(t, s)
}

func action(s *Session, a event.Action) {
	s.handleEvent(event.Event{Type: event.UserAction, Action: a})
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := range 4 {
		for x := range 4 {
			img.Set(x, y, color.RGBA{R: 255, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func playing() *fakePlayer {
	p := newFakePlayer()
	p.status = mpd.Status{
		State:          mpd.StatePlay,
		Volume:         50,
		Song:           0,
		PlaylistLength: 3,
		Elapsed:        65 * time.Second,
		Duration:       200 * time.Second,
	}
	p.song = mpd.Song{File: "a/song.flac", Title: "Song", Album: "Album", Artist: []string{"Artist"}}
	p.hasSong = true
	return p
}

func TestConnectingScreen(t *testing.T) {
	s, ui, _ := newTestSession(t, newFakePlayer())

	s.handleControl(event.ControlOp{Action: event.ControlConnect})
	assert.Equal(t, StateConnecting, s.state)
	assert.Contains(t, ui.screen(t), "Connecting to localhost:6600..")
}

func TestConnectShowsClientScreen(t *testing.T) {
	p := playing()
	s, ui, _ := newTestSession(t, p)

	connect(t, s)
	require.Equal(t, StateClient, s.state)
	assert.Equal(t, []string{"status", "currentsong"}, p.Calls()[:2])

	out := ui.screen(t)
	assert.Contains(t, out, "Song")
	assert.Contains(t, out, "Album")
	assert.Contains(t, out, "Artist")
	assert.Contains(t, out, "≡ 1 / 3")
	assert.Contains(t, out, "01:05")
	assert.Contains(t, out, "03:20")
	assert.Contains(t, out, "Loading album art..")

	stats := s.Stats()
	assert.True(t, stats.Connected)
	assert.Equal(t, StateClient, stats.State)
	assert.Equal(t, 1, stats.PendingTimers)

	// Art fetch reports no art.
	step(t, s)
	assert.Contains(t, ui.screen(t), "No album art")
	assert.Equal(t, 1, s.Stats().CachedArtworks)
}

func TestNothingPlaying(t *testing.T) {
	s, ui, _ := newTestSession(t, newFakePlayer())

	connect(t, s)
	out := ui.screen(t)
	assert.Contains(t, out, nothingPlaying)
	assert.Contains(t, out, "No album art")
	assert.Contains(t, out, "≡ -")
}

func TestAlbumArtIsDrawnAndCached(t *testing.T) {
	p := playing()
	p.art["a/song.flac"] = pngBytes(t)
	s, ui, _ := newTestSession(t, p)

	connect(t, s)
	step(t, s)
	assert.Equal(t, artReady, s.view.art)
	assert.Contains(t, ui.screen(t), "▀")

	// Same song again: served from the cache.
	s.artURI = ""
	p.resetCalls()
	s.refresh()
	assert.Equal(t, []string{"status", "currentsong"}, p.Calls())
	assert.Equal(t, artReady, s.view.art)
}

func TestStaleAlbumArtIsIgnored(t *testing.T) {
	p := playing()
	s, _, _ := newTestSession(t, p)
	connect(t, s)
	step(t, s)

	s.artURI = "b/other.flac"
	s.view.art = artLoading
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	s.onArt(p, "a/old.flac", img, nil)

	assert.Equal(t, artLoading, s.view.art)
	cached, ok := s.artCache.Get("a/old.flac")
	require.True(t, ok)
	assert.Equal(t, image.Image(img), cached)
}

func TestActions(t *testing.T) {
	tests := []struct {
		name   string
		status func(*mpd.Status)
		action event.Action
		want   string // empty when no command is sent
	}{
		{"toggle pause", nil, event.ActionTogglePause, "pause"},
		{"next", nil, event.ActionNext, "next"},
		{"previous", nil, event.ActionPrevious, "previous"},
		{"seek forward", nil, event.ActionSeekForward, "seekcur 5s true"},
		{"seek backward", nil, event.ActionSeekBackward, "seekcur -5s true"},
		{"seek while stopped", func(st *mpd.Status) { st.State = mpd.StateStop }, event.ActionSeekForward, ""},
		{"volume up", nil, event.ActionVolumeUp, "setvol 55"},
		{"volume down", nil, event.ActionVolumeDown, "setvol 45"},
		{"volume capped", func(st *mpd.Status) { st.Volume = 98 }, event.ActionVolumeUp, "setvol 100"},
		{"volume floored", func(st *mpd.Status) { st.Volume = 3 }, event.ActionVolumeDown, "setvol 0"},
		{"no mixer", func(st *mpd.Status) { st.Volume = -1 }, event.ActionVolumeUp, ""},
		{"repeat", nil, event.ActionToggleRepeat, "repeat true"},
		{"random off", func(st *mpd.Status) { st.Random = true }, event.ActionToggleRandom, "random false"},
		{"single", nil, event.ActionToggleSingle, "single true"},
		{"consume", nil, event.ActionToggleConsume, "consume true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := playing()
			if tt.status != nil {
				tt.status(&p.status)
			}
			s, _, _ := newTestSession(t, p)
			connect(t, s)
			step(t, s) // art
			p.resetCalls()

			action(s, tt.action)

			want := []string{"status", "currentsong"}
			if tt.want != "" {
				want = append([]string{tt.want}, want...)
			}
			assert.Equal(t, want, p.Calls())
		})
	}
}

func TestServerErrorKeepsConnection(t *testing.T) {
	p := playing()
	s, _, d := newTestSession(t, p)
	connect(t, s)
	step(t, s) // art

	p.setErr("next", &mpd.Error{Code: mpd.AckPlayerSync, Command: "next", Message: "not playing"})
	action(s, event.ActionNext)

	assert.Equal(t, StateClient, s.state)
	assert.False(t, p.isClosed())
	assert.Equal(t, 1, d.count())
}

func TestLostConnectionReconnects(t *testing.T) {
	p1, p2 := playing(), playing()
	s, ui, d := newTestSession(t, p1, p2)
	connect(t, s)
	step(t, s) // art

	p1.setErr("status", fmt.Errorf("%w: status: broken pipe", mpd.ErrClosed))
	s.handleTimer(timer.Event{Name: timerPoll})

	assert.True(t, p1.isClosed())
	assert.Equal(t, StateConnecting, s.state)
	assert.Equal(t, uint64(1), s.Stats().Reconnects)
	assert.Contains(t, ui.screen(t), "Connecting to")

	step(t, s)
	assert.Equal(t, 2, d.count())
	assert.Equal(t, StateClient, s.state)
	assert.True(t, s.Stats().Connected)
}

func TestConnectFailureRetries(t *testing.T) {
	p := playing()
	s, ui, d := newTestSession(t, errors.New("connection refused"), p)

	connect(t, s)
	assert.Equal(t, StateConnecting, s.state)
	out := ui.screen(t)
	assert.Contains(t, out, "Error while connecting to MPD:")
	assert.Contains(t, out, "connection refused")
	assert.Contains(t, out, "Retrying..")
	assert.Equal(t, 1, s.Stats().PendingTimers)

	// Retrying keeps the error screen up.
	s.handleTimer(timer.Event{Name: timerReconnect})
	assert.Contains(t, ui.screen(t), "connection refused")

	step(t, s)
	assert.Equal(t, 2, d.count())
	assert.Equal(t, StateClient, s.state)
	assert.Contains(t, ui.screen(t), "Song")
}

func TestDuplicateConnectIsIgnored(t *testing.T) {
	s, _, d := newTestSession(t, newFakePlayer())

	s.handleControl(event.ControlOp{Action: event.ControlConnect})
	s.handleControl(event.ControlOp{Action: event.ControlConnect})
	step(t, s)

	assert.Equal(t, 1, d.count())
	assert.Equal(t, StateClient, s.state)
}

func TestHelpScreen(t *testing.T) {
	p := playing()
	s, ui, _ := newTestSession(t, p)
	connect(t, s)
	step(t, s) // art

	action(s, event.ActionHelp)
	require.Equal(t, StateHelp, s.state)
	out := ui.screen(t)
	assert.Contains(t, out, "Help")
	assert.Contains(t, out, "volume up")

	// Player actions are ignored while help is shown.
	p.resetCalls()
	action(s, event.ActionNext)
	assert.Empty(t, p.Calls())

	action(s, event.ActionBack)
	assert.Equal(t, StateClient, s.state)
	assert.Contains(t, ui.screen(t), "Song")
}

func TestQuitFromAnyState(t *testing.T) {
	s, ui, _ := newTestSession(t)

	s.handleControl(event.ControlOp{Action: event.ControlConnect})
	action(s, event.ActionQuit)

	select {
	case <-s.Done():
	default:
		t.Fatal("session still running")
	}
	select {
	case <-ui.Done():
	default:
		t.Fatal("ui not told to quit")
	}
}

func TestRunConnectsAndQuits(t *testing.T) {
	p := playing()
	s, ui, _ := newTestSession(t, p)

	errc := make(chan error, 1)
	go func() { errc <- s.Run(context.Background()) }()

	require.Eventually(t, func() bool {
		return s.Stats().State == StateClient
	}, 2*time.Second, 10*time.Millisecond)

	ui.events <- event.Event{Type: event.UserAction, Action: event.ActionQuit}

	select {
	case err := <-errc:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}
	require.Eventually(t, p.isClosed, 2*time.Second, 10*time.Millisecond)
}

func TestClientUpdatesReplacePaneContent(t *testing.T) {
	sc := screens{styles: style.DefaultStyles(), keys: tui.DefaultKeyMap()}
	tree := widget.NewTree()
	h := widgettest.New(t, components.RegisterAll)

	v := clientView{
		status:  playing().status,
		song:    playing().song,
		hasSong: true,
		art:     artLoading,
	}
	sc.client(v)(tree)
	nodes := tree.Len()

	titles := []string{"First", "Second", "Third"}
	for i, title := range titles {
		v.song.Title = title
		v.status.Song = i
		v.status.Elapsed = time.Duration(i+1) * time.Second
		sc.updateClient(v)(tree)
		if i%2 == 0 {
			v.art = artNone
		} else {
			v.art = artLoading
		}
		sc.updateArt(v)(tree)

		player, ok := tree.Marked(markPlayer)
		require.True(t, ok)
		require.Len(t, tree.Children(player), 3, "track, spacer and progress")
		art, ok := tree.Marked(markArt)
		require.True(t, ok)
		require.Len(t, tree.Children(art), 1)
		bar, ok := tree.Marked(markStatus)
		require.True(t, ok)
		require.Len(t, tree.Children(bar), len(v.bar().Sections(sc.styles)))
		require.Equal(t, nodes, tree.Len(), "update %d leaked nodes", i)

		out := h.Render(t, 80, 20, tree).String()
		assert.Contains(t, out, title)
		for _, old := range titles[:i] {
			assert.NotContains(t, out, old)
		}
		assert.Contains(t, out, fmt.Sprintf("≡ %d / 3", i+1))
	}
}
