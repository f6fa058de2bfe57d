package routes_test

import (
	"context"
	"image"
	"image/color"

	"github.com/dasdy/neoclock/message"
	"github.com/dasdy/neoclock/screen"
)

// DisplayMock is a hand-written stand-in for a running screen.
type DisplayMock struct {
	Canvas    *image.RGBA
	Infos     []screen.WidgetInfo
	SendError error
	Sent      []message.Envelope
}

func newDisplayMock() *DisplayMock {
	canvas := image.NewRGBA(image.Rect(0, 0, 4, 2))
	for i := range canvas.Pix {
		canvas.Pix[i] = 255
	}

	canvas.SetRGBA(1, 0, color.RGBA{255, 0, 0, 255})

	return &DisplayMock{
		Canvas: canvas,
		Infos: []screen.WidgetInfo{
			{Index: 0, Kind: "Solid", Visible: true, HasImage: true, Width: 4, Height: 2},
			{Index: 1, Kind: "Clock", X: 1, Y: 1},
		},
	}
}

func (m *DisplayMock) Size() (int, int) {
	b := m.Canvas.Bounds()

	return b.Dx(), b.Dy()
}

func (m *DisplayMock) Render() *image.RGBA {
	return m.Canvas
}

func (m *DisplayMock) Widgets() []screen.WidgetInfo {
	return m.Infos
}

func (m *DisplayMock) Send(_ context.Context, env message.Envelope) error {
	if m.SendError != nil {
		return m.SendError
	}

	m.Sent = append(m.Sent, env)

	return nil
}
