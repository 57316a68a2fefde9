// Package albumart draws cover images with half-block characters, two
// pixel rows per terminal cell.
package albumart

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder

	"github.com/charmbracelet/lipgloss"
	_ "golang.org/x/image/bmp"  // register decoder
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff" // register decoder
	_ "golang.org/x/image/webp" // register decoder

	"github.com/drake/minisong/ui/tui/layout"
	"github.com/drake/minisong/ui/tui/surface"
	"github.com/drake/minisong/ui/tui/widget"
)

// Kind is the widget kind of Art.
const Kind widget.Kind = "albumart"

const halfBlock = "▀"

// Decode parses an encoded cover image. The format is sniffed from the
// data.
func Decode(data []byte) (image.Image, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode album art: %w", err)
	}
	if b := img.Bounds(); b.Empty() {
		return nil, fmt.Errorf("decode album art: empty %s image", format)
	}
	return img, nil
}

// Art is the widget data for a cover image. Copies share the scaled
// grid, which is recomputed only when the drawn size changes.
type Art struct {
	Image image.Image
	// Scaler resamples the image. Nil uses draw.CatmullRom.
	Scaler xdraw.Scaler

	memo *memo
}

type memo struct {
	size layout.Size
	grid *image.RGBA
}

// Kind implements widget.Widget.
func (Art) Kind() widget.Kind { return Kind }

// New wraps img for drawing.
func New(img image.Image) Art {
	return Art{Image: img, memo: &memo{}}
}

// Register adds the album art draw operation.
func Register(reg *widget.Registry) error {
	return widget.Register(reg, Kind, draw)
}

func draw(ctx *widget.Context, a Art) {
	if a.Image == nil {
		return
	}
	size := Fit(a.Image.Bounds().Size(), ctx.Rect().Size())
	if size.Width == 0 || size.Height == 0 {
		return
	}
	grid := a.scaled(size)
	ctx.DrawSized(size, func(c *surface.Canvas, area layout.Rect) {
		for y := 0; y < area.Height; y++ {
			for x := 0; x < area.Width; x++ {
				top := grid.RGBAAt(x, 2*y)
				bottom := grid.RGBAAt(x, 2*y+1)
				c.SetCell(area.X+x, area.Y+y, halfBlock, surface.Style{
					Fg: hex(top.R, top.G, top.B),
					Bg: hex(bottom.R, bottom.G, bottom.B),
				})
			}
		}
	})
}

// scaled returns the image resampled to size cells, two pixel rows per
// cell.
func (a Art) scaled(size layout.Size) *image.RGBA {
	if a.memo != nil && a.memo.grid != nil && a.memo.size == size {
		return a.memo.grid
	}
	scaler := a.Scaler
	if scaler == nil {
		scaler = xdraw.CatmullRom
	}
	dst := image.NewRGBA(image.Rect(0, 0, size.Width, size.Height*2))
	scaler.Scale(dst, dst.Bounds(), a.Image, a.Image.Bounds(), xdraw.Src, nil)
	if a.memo != nil {
		a.memo.size, a.memo.grid = size, dst
	}
	return dst
}

// Fit returns the largest cell size that shows an image of px pixels
// inside avail cells without distorting it. A cell is one pixel wide and
// two pixels tall.
func Fit(px image.Point, avail layout.Size) layout.Size {
	if px.X <= 0 || px.Y <= 0 || avail.Width <= 0 || avail.Height <= 0 {
		return layout.Size{}
	}
	maxW, maxH := avail.Width, avail.Height*2
	w, h := maxW, px.Y*maxW/px.X
	if h > maxH {
		w, h = px.X*maxH/px.Y, maxH
	}
	return layout.Size{Width: max(w, 1), Height: max(h/2, 1)}
}

func hex(r, g, b uint8) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r, g, b))
}
