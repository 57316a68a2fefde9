package session

import (
	"image"

	"github.com/drake/minisong/mpd"
	"github.com/drake/minisong/ui/style"
	"github.com/drake/minisong/ui/tui"
	"github.com/drake/minisong/ui/tui/components/albumart"
	"github.com/drake/minisong/ui/tui/components/block"
	"github.com/drake/minisong/ui/tui/components/keyhelp"
	"github.com/drake/minisong/ui/tui/components/label"
	"github.com/drake/minisong/ui/tui/components/progress"
	"github.com/drake/minisong/ui/tui/components/status"
	"github.com/drake/minisong/ui/tui/components/throbber"
	"github.com/drake/minisong/ui/tui/layout"
	"github.com/drake/minisong/ui/tui/widget"
)

// Tree markers for nodes updated in place on the client screen.
const (
	markStatus = "status"
	markArt    = "art"
	markPlayer = "player"
)

const nothingPlaying = "Nothing is playing..."

// artState is what the album art pane shows.
type artState int

const (
	artNone artState = iota
	artLoading
	artReady
)

// clientView is a snapshot of everything the client screen shows. Commands
// capture a copy so the tree never reads session state.
type clientView struct {
	status  mpd.Status
	song    mpd.Song
	hasSong bool

	art      artState
	artImage image.Image
}

func (v clientView) bar() status.Bar {
	return status.Bar{
		Volume:  v.status.Volume,
		Pos:     v.status.Song,
		Len:     v.status.PlaylistLength,
		Repeat:  v.status.Repeat,
		Random:  v.status.Random,
		Single:  v.status.Single,
		Consume: v.status.Consume,
	}
}

// screens builds the tree commands for every session state.
type screens struct {
	styles style.Styles
	keys   tui.KeyMap
}

func (sc screens) connecting(addr string) widget.Command {
	return func(t *widget.Tree) {
		root := t.Spawn(block.New(), widget.NewStyle())
		t.SpawnChild(root, throbber.New("Connecting to "+addr+"..", sc.styles.Throbber), widget.Centered())
	}
}

func (sc screens) connectError(err error) widget.Command {
	msg := label.New(
		label.NewLine(label.Raw("Error while connecting to MPD:")),
		label.NewLine(label.Styled(err.Error(), sc.styles.Error)),
	).Centered()
	return func(t *widget.Tree) {
		root := t.Spawn(block.New(), widget.NewStyle().WithFlex(layout.FlexCenter))
		t.SpawnChild(root, msg, widget.Centered().WithConstraint(layout.Fixed(2)))
		t.SpawnChild(root, block.New(), widget.NewStyle().WithConstraint(layout.Fixed(1)))
		t.SpawnChild(root, throbber.New("Retrying..", sc.styles.Throbber), widget.Centered().WithConstraint(layout.Fixed(1)))
	}
}

func (sc screens) client(v clientView) widget.Command {
	return func(t *widget.Tree) {
		root := t.Spawn(block.New(), widget.NewStyle())

		bar := status.Spawn(t, root, v.bar(), sc.styles)
		t.Mark(bar, markStatus)

		body := t.SpawnChild(root, block.New(), widget.NewStyle().WithDirection(layout.Horizontal))
		art := t.SpawnChild(body, block.New(), widget.NewStyle().WithConstraint(layout.Percentage(50)))
		t.Mark(art, markArt)
		sc.fillArt(t, art, v)

		panel := block.Rounded("")
		panel.Style = sc.styles.Border
		right := t.SpawnChild(body, panel, widget.NewStyle().
			WithConstraint(layout.Percentage(50)).
			WithDirection(layout.Horizontal))
		t.SpawnChild(right, block.New(), widget.NewStyle().WithConstraint(layout.Fixed(2)))
		player := t.SpawnChild(right, block.New(), widget.NewStyle().WithFlex(layout.FlexCenter))
		t.SpawnChild(right, block.New(), widget.NewStyle().WithConstraint(layout.Fixed(2)))
		t.Mark(player, markPlayer)
		sc.fillPlayer(t, player, v)

		hints := keyhelp.Hints(sc.keys.ShortHelp()...)
		hints.KeyStyle, hints.DescStyle = sc.styles.KeyHint, sc.styles.KeyDesc
		t.SpawnChild(root, hints, widget.Centered().WithConstraint(layout.Fixed(1)))
	}
}

// updateClient refreshes the status bar and player pane in place.
func (sc screens) updateClient(v clientView) widget.Command {
	return func(t *widget.Tree) {
		if bar, ok := t.Marked(markStatus); ok {
			status.Refresh(t, bar, v.bar(), sc.styles)
		}
		if player, ok := t.Marked(markPlayer); ok {
			t.DespawnChildren(player)
			sc.fillPlayer(t, player, v)
		}
	}
}

// updateArt replaces the album art pane content.
func (sc screens) updateArt(v clientView) widget.Command {
	return func(t *widget.Tree) {
		if art, ok := t.Marked(markArt); ok {
			t.DespawnChildren(art)
			sc.fillArt(t, art, v)
		}
	}
}

func (sc screens) fillArt(t *widget.Tree, art widget.Entity, v clientView) {
	switch v.art {
	case artLoading:
		t.SpawnChild(art, throbber.New("Loading album art..", sc.styles.Throbber), widget.Centered())
	case artReady:
		t.SpawnChild(art, albumart.New(v.artImage), widget.Centered())
	default:
		t.SpawnChild(art, label.Text("No album art", sc.styles.Muted), widget.Centered())
	}
}

func (sc screens) fillPlayer(t *widget.Tree, player widget.Entity, v clientView) {
	if !v.hasSong {
		t.SpawnChild(player, label.Text(nothingPlaying, sc.styles.Muted), widget.Centered())
		return
	}

	track := label.New(
		label.NewLine(label.Styled(v.song.DisplayTitle(), sc.styles.Title)),
		label.NewLine(label.Styled(v.song.Album, sc.styles.Album)),
		label.NewLine(label.Styled(v.song.Artists(), sc.styles.Artist)),
	).Centered()
	t.SpawnChild(player, track, widget.Centered().WithConstraint(layout.Fixed(3)))
	t.SpawnChild(player, block.New(), widget.NewStyle().WithConstraint(layout.Fixed(1)))

	total := v.status.Duration
	if total == 0 {
		total = v.song.Duration
	}
	t.SpawnChild(player, progress.Progress{
		Elapsed: v.status.Elapsed,
		Total:   total,
		Paused:  v.status.State != mpd.StatePlay,
		Times:   true,
		Filled:  sc.styles.ProgressFilled,
		Empty:   sc.styles.ProgressEmpty,
		Time:    sc.styles.Time,
		State:   sc.styles.PlayState,
	}, widget.NewStyle().WithConstraint(layout.Fixed(2)))
}

func (sc screens) help() widget.Command {
	table := keyhelp.Table(sc.keys.FullHelp()...)
	table.KeyStyle, table.DescStyle = sc.styles.KeyHint, sc.styles.KeyDesc
	return func(t *widget.Tree) {
		frame := block.Rounded("Help")
		frame.Style = sc.styles.Border
		root := t.Spawn(frame, widget.NewStyle())
		t.SpawnChild(root, table, widget.Centered())
	}
}
