package tui

import (
	"fmt"

	"github.com/drake/minisong/ui/tui/surface"
)

// viewScreen keeps the last committed frame as the string bubbletea
// writes out from View.
type viewScreen struct {
	width, height int
	view          string
}

func newViewScreen(width, height int) *viewScreen {
	return &viewScreen{width: width, height: height}
}

func (s *viewScreen) Size() (int, int) { return s.width, s.height }

func (s *viewScreen) Resize(width, height int) {
	s.width, s.height = max(width, 0), max(height, 0)
}

// Commit renders buf. A buffer that no longer matches the screen size is
// rejected so a stale frame is never shown after a resize.
func (s *viewScreen) Commit(buf *surface.Buffer) error {
	area := buf.Area()
	if area.Width != s.width || area.Height != s.height {
		return fmt.Errorf("frame is %dx%d, screen is %dx%d", area.Width, area.Height, s.width, s.height)
	}
	s.view = buf.Render()
	return nil
}

func (s *viewScreen) View() string { return s.view }
