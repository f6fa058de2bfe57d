package screen

import (
	"image"
	"log/slog"

	"github.com/dasdy/neoclock/model"
	"github.com/dasdy/neoclock/part"
)

// Drawable receives a rendered canvas one pixel at a time.
type Drawable interface {
	SetPixel(x, y int, r, g, b uint8)
}

// Compositor paints every visible part over the background in configuration order.
type Compositor struct {
	width, height int
	background    model.Color
	parts         part.Table
}

func NewCompositor(width, height int, background model.Color, parts part.Table) *Compositor {
	return &Compositor{width: width, height: height, background: background, parts: parts}
}

func (c *Compositor) Render() *image.RGBA {
	canvas := model.NewCanvas(c.width, c.height, c.background)

	for i, p := range c.parts {
		snap, ok := readPart(p)
		if !ok {
			slog.Warn("Skipping widget that could not be read", "widget", i)

			continue
		}

		if !snap.Visible || snap.Image == nil {
			continue
		}

		model.BlendOver(canvas, snap.Image, clampOffset(snap.X), clampOffset(snap.Y))
	}

	return canvas
}

func (c *Compositor) RenderTo(d Drawable) {
	canvas := c.Render()

	for y := range c.height {
		for x := range c.width {
			i := canvas.PixOffset(x, y)
			d.SetPixel(x, y, canvas.Pix[i], canvas.Pix[i+1], canvas.Pix[i+2])
		}
	}
}

// readPart takes a snapshot, treating a panicking read as nothing to draw.
func readPart(p *part.State) (snap part.Snapshot, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Panic while reading widget state", "panic", r)

			ok = false
		}
	}()

	return p.Snapshot(), true
}

// Positions are unsigned; anything past the int range is off screen anyway.
func clampOffset(v uint32) int {
	return int(min(v, 1<<30))
}
