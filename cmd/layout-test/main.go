// layout-test is a testbed for the widget tree and layout engine. It
// shows a fixed scenario without an MPD server.
package main

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/drake/minisong/event"
	"github.com/drake/minisong/ui/style"
	"github.com/drake/minisong/ui/tui"
	"github.com/drake/minisong/ui/tui/components"
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

var scenarios = map[string]func(tui.KeyMap, style.Styles) widget.Command{
	"default": playerScenario,
	"flex":    flexScenario,
	"borders": bordersScenario,
}

func main() {
	scenario := pflag.StringP("scenario", "s", "default", "layout scenario ("+names()+")")
	pflag.Parse()

	build, ok := scenarios[*scenario]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown scenario: %s\n", *scenario)
		fmt.Fprintln(os.Stderr, "Available:", names())
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry := widget.NewRegistry(logger)
	if err := components.RegisterAll(registry); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	keys := tui.DefaultKeyMap()
	ui := tui.NewBubbleTeaUI(registry, tui.Options{Mouse: true, Keys: keys, Logger: logger})
	ui.Queue(build(keys, style.DefaultStyles()))

	// Quit on q; every other action is echoed in place of the footer.
	go func() {
		for {
			select {
			case <-ui.Done():
				return
			case ev := <-ui.Events():
				if ev.Action == event.ActionQuit {
					ui.Quit()
					return
				}
				ui.Queue(echo(ev.Action))
			}
		}
	}()

	if err := ui.Run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func names() string {
	out := make([]string, 0, len(scenarios))
	for n := range scenarios {
		out = append(out, n)
	}
	slices.Sort(out)
	return strings.Join(out, ", ")
}

func echo(a event.Action) widget.Command {
	return func(t *widget.Tree) {
		e, ok := t.Marked("footer")
		if !ok {
			return
		}
		t.DespawnChildren(e)
		t.SpawnChild(e, label.Text("action: "+a.String(), style.DefaultStyles().Muted), widget.Centered())
	}
}

// gradient is a stand-in cover.
func gradient(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.RGBA{R: uint8(255 * x / w), G: uint8(255 * y / h), B: 160, A: 255})
		}
	}
	return img
}

func playerScenario(keys tui.KeyMap, st style.Styles) widget.Command {
	return func(t *widget.Tree) {
		root := t.Spawn(block.New(), widget.NewStyle())
		status.Spawn(t, root, status.Bar{Volume: 72, Pos: 4, Len: 12, Repeat: true, Consume: true}, st)

		body := t.SpawnChild(root, block.New(), widget.NewStyle().WithDirection(layout.Horizontal))
		t.SpawnChild(body, albumart.New(gradient(64, 64)), widget.Centered().WithConstraint(layout.Percentage(50)))

		right := t.SpawnChild(body, block.New(), widget.NewStyle().
			WithConstraint(layout.Percentage(50)).
			WithFlex(layout.FlexCenter))
		track := label.New(
			label.NewLine(label.Styled("Windowlicker", st.Title)),
			label.NewLine(label.Styled("Windowlicker EP", st.Album)),
			label.NewLine(label.Styled("Aphex Twin", st.Artist)),
		).Centered()
		t.SpawnChild(right, track, widget.Centered().WithConstraint(layout.Fixed(3)))
		t.SpawnChild(right, block.New(), widget.NewStyle().WithConstraint(layout.Fixed(1)))
		t.SpawnChild(right, progress.Progress{
			Elapsed: 2*time.Minute + 14*time.Second,
			Total:   6*time.Minute + 7*time.Second,
			Times:   true,
			Filled:  st.ProgressFilled,
			Empty:   st.ProgressEmpty,
			Time:    st.Time,
			State:   st.PlayState,
		}, widget.NewStyle().WithConstraint(layout.Fixed(2)))

		footer := t.SpawnChild(root, block.New(), widget.NewStyle().WithConstraint(layout.Fixed(1)))
		t.Mark(footer, "footer")
		hints := keyhelp.Hints(keys.ShortHelp()...)
		hints.KeyStyle, hints.DescStyle = st.KeyHint, st.KeyDesc
		t.SpawnChild(footer, hints, widget.Centered())
	}
}

func flexScenario(keys tui.KeyMap, st style.Styles) widget.Command {
	flexes := []layout.Flex{
		layout.FlexStart, layout.FlexCenter, layout.FlexEnd,
		layout.FlexSpaceBetween, layout.FlexSpaceAround, layout.FlexSpaceEvenly,
	}
	return func(t *widget.Tree) {
		root := t.Spawn(block.New(), widget.NewStyle())
		for _, f := range flexes {
			row := t.SpawnChild(root, block.New(), widget.NewStyle().
				WithConstraint(layout.Fixed(1)).
				WithDirection(layout.Horizontal).
				WithFlex(f))
			t.SpawnChild(row, label.Text(f.String(), st.Title), widget.NewStyle().WithConstraint(layout.Fixed(14)))
			for i := range 3 {
				t.SpawnChild(row, label.Text(fmt.Sprintf("[%d]", i), st.Muted), widget.NewStyle().WithConstraint(layout.Fixed(3)))
			}
		}
		t.SpawnChild(root, throbber.New("filling the rest..", st.Throbber), widget.Centered())
		footer := t.SpawnChild(root, block.New(), widget.NewStyle().WithConstraint(layout.Fixed(1)))
		t.Mark(footer, "footer")
	}
}

func bordersScenario(keys tui.KeyMap, st style.Styles) widget.Command {
	return func(t *widget.Tree) {
		root := t.Spawn(block.New(), widget.NewStyle().WithDirection(layout.Horizontal))

		help := block.Rounded("Help")
		help.Style = st.Border
		left := t.SpawnChild(root, help, widget.NewStyle().WithConstraint(layout.Percentage(60)))
		table := keyhelp.Table(keys.FullHelp()...)
		table.KeyStyle, table.DescStyle = st.KeyHint, st.KeyDesc
		t.SpawnChild(left, table, widget.Centered())

		right := t.SpawnChild(root, block.New(), widget.NewStyle())
		for _, b := range []block.Block{block.Rounded("rounded"), block.Rounded("second")} {
			b.Style = st.Border
			t.SpawnChild(right, b, widget.NewStyle().WithConstraint(layout.Fill(1)))
		}
		footer := t.SpawnChild(right, block.New(), widget.NewStyle().WithConstraint(layout.Fixed(1)))
		t.Mark(footer, "footer")
	}
}
