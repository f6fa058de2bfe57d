package widgets

import (
	"context"
	"image"
	"time"

	"github.com/dasdy/neoclock/model"
)

// Solid is a filled rectangle.
type Solid struct {
	Width  int         `json:"width"  toml:"width"`
	Height int         `json:"height" toml:"height"`
	Color  model.Color `json:"color"  toml:"color"`
}

func (s *Solid) Kind() Kind { return KindSolid }

func (s *Solid) newDriver() driver { return &solidDriver{cfg: *s} }

type solidDriver struct {
	cfg   Solid
	frame *image.NRGBA
}

func (d *solidDriver) init(context.Context) error {
	d.redraw()

	return nil
}

func (d *solidDriver) redraw() {
	d.frame = model.NewFrame(d.cfg.Width, d.cfg.Height)
	model.Fill(d.frame, d.cfg.Color)
}

func (d *solidDriver) tick(time.Time) (*image.NRGBA, time.Duration) {
	return d.frame, idleInterval
}

func (d *solidDriver) handle(_ context.Context, _ time.Time, payload []byte) error {
	var msg struct {
		Color *model.Color `json:"color"`
	}

	if err := decodePayload(payload, &msg); err != nil {
		return err
	}

	if msg.Color != nil {
		d.cfg.Color = *msg.Color
		d.redraw()
	}

	return nil
}
