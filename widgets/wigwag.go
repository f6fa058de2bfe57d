package widgets

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/dasdy/neoclock/animation"
	"github.com/dasdy/neoclock/text"
)

// Wigwag swings a text banner back and forth inside its frame.
type Wigwag struct {
	TextStyle
	Text  string `json:"text"  toml:"text"`
	Speed int    `json:"speed" toml:"speed"`
}

func (w *Wigwag) Kind() Kind { return KindWigwag }

func (w *Wigwag) newDriver() driver { return &wigwagDriver{cfg: *w} }

type wigwagDriver struct {
	cfg      Wigwag
	renderer *text.Renderer
	gen      *animation.Wigwag
}

func (d *wigwagDriver) init(context.Context) error {
	r, err := text.Load(d.cfg.Options)
	if err != nil {
		return fmt.Errorf("could not load font: %w", err)
	}

	d.renderer = r
	d.reset()

	return nil
}

func (d *wigwagDriver) reset() {
	label := d.renderer.Render(d.cfg.Text, d.cfg.TextColor, d.cfg.BackgroundColor)
	b := label.Bounds()

	width, height := d.cfg.Width, d.cfg.Height
	if width <= 0 {
		width = b.Dx()
	}

	if height <= 0 {
		height = b.Dy()
	}

	d.gen = animation.NewWigwag(label, width, height)
}

func (d *wigwagDriver) tick(time.Time) (*image.NRGBA, time.Duration) {
	return d.gen.Next(), speedInterval(d.cfg.Speed)
}

func (d *wigwagDriver) handle(_ context.Context, _ time.Time, payload []byte) error {
	var msg struct {
		Text *string `json:"text"`
		colorUpdate
	}

	if err := decodePayload(payload, &msg); err != nil {
		return err
	}

	if msg.Text != nil {
		d.cfg.Text = *msg.Text
	}

	msg.apply(&d.cfg.TextStyle)
	d.reset()

	return nil
}
