// Package sink holds the pixel outputs a composed frame can be pushed to.
package sink

import (
	"image"
	"image/color"
)

// Sink receives one frame pixel by pixel and presents it on Show.
type Sink interface {
	SetPixel(x, y int, r, g, b uint8)
	Show() error
	Close() error
}

// Memory keeps the last shown frame.
type Memory struct {
	pending *image.RGBA
	shown   *image.RGBA
	shows   int
}

func NewMemory(width, height int) *Memory {
	return &Memory{pending: image.NewRGBA(image.Rect(0, 0, width, height))}
}

func (m *Memory) SetPixel(x, y int, r, g, b uint8) {
	m.pending.SetRGBA(x, y, color.RGBA{r, g, b, 255})
}

func (m *Memory) Show() error {
	shown := image.NewRGBA(m.pending.Rect)
	copy(shown.Pix, m.pending.Pix)
	m.shown = shown
	m.shows++

	return nil
}

// Frame returns the last shown frame, nil before the first Show.
func (m *Memory) Frame() *image.RGBA {
	return m.shown
}

// Shows counts the frames presented so far.
func (m *Memory) Shows() int {
	return m.shows
}

func (m *Memory) Close() error {
	return nil
}
