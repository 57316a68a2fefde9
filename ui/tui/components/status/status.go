// Package status builds the player status bar: volume, queue position and
// playback option flags, spread across one row.
package status

import (
	"fmt"

	"github.com/drake/minisong/ui/style"
	"github.com/drake/minisong/ui/tui/components/block"
	"github.com/drake/minisong/ui/tui/components/label"
	"github.com/drake/minisong/ui/tui/layout"
	"github.com/drake/minisong/ui/tui/widget"
)

const flagOff = "·"

// Bar is the player state shown in the status bar.
type Bar struct {
	// Volume is 0-100, or negative when the output has no mixer.
	Volume int
	// Pos is the zero-based queue position of the current song, or
	// negative when nothing is selected.
	Pos int
	Len int

	Repeat  bool
	Random  bool
	Single  bool
	Consume bool
}

// VolumeIcon picks a speaker glyph for volume.
func VolumeIcon(volume int) string {
	switch {
	case volume <= 33:
		return "🔈"
	case volume <= 66:
		return "🔉"
	default:
		return "🔊"
	}
}

func flag(on bool, glyph string) string {
	if on {
		return glyph
	}
	return flagOff
}

// Sections returns the three bar sections, left to right.
func (b Bar) Sections(st style.Styles) []label.Label {
	vol := "🔇 n/a"
	if b.Volume >= 0 {
		vol = fmt.Sprintf("%s %d%%", VolumeIcon(b.Volume), b.Volume)
	}

	pos := "-"
	if b.Pos >= 0 {
		pos = fmt.Sprint(b.Pos + 1)
	}
	queue := fmt.Sprintf("≡ %s / %d", pos, b.Len)

	flags := []label.Span{
		styledFlag(b.Repeat, "🔁", st),
		label.Raw(" "),
		styledFlag(b.Random, "🔀", st),
		label.Raw(" "),
		styledFlag(b.Single, "🔂", st),
		label.Raw(" "),
		styledFlag(b.Consume, "🗑", st),
	}

	return []label.Label{
		{Lines: []label.Line{label.NewLine(label.Styled(vol, st.VolumeLevel))}, Style: st.StatusBar},
		{Lines: []label.Line{label.NewLine(label.Raw(queue))}, Style: st.StatusBar},
		{Lines: []label.Line{label.NewLine(flags...)}, Style: st.StatusBar},
	}
}

func styledFlag(on bool, glyph string, st style.Styles) label.Span {
	if on {
		return label.Styled(glyph, st.FlagOn)
	}
	return label.Styled(flagOff, st.FlagOff)
}

// Spawn adds the status bar under parent and returns its container. The
// container is one row tall.
func Spawn(t *widget.Tree, parent widget.Entity, b Bar, st style.Styles) widget.Entity {
	bar := t.SpawnChild(parent, block.New(), widget.NewStyle().
		WithConstraint(layout.Fixed(1)).
		WithDirection(layout.Horizontal).
		WithFlex(layout.FlexSpaceBetween))
	fill(t, bar, b, st)
	return bar
}

// Refresh replaces the sections of a bar created by Spawn.
func Refresh(t *widget.Tree, bar widget.Entity, b Bar, st style.Styles) {
	if !t.Alive(bar) {
		return
	}
	t.DespawnChildren(bar)
	fill(t, bar, b, st)
}

func fill(t *widget.Tree, bar widget.Entity, b Bar, st style.Styles) {
	for _, l := range b.Sections(st) {
		t.SpawnChild(bar, l, widget.NewStyle().WithConstraint(layout.Fixed(l.Size().Width)))
	}
}
