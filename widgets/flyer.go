package widgets

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/dasdy/neoclock/animation"
	"github.com/dasdy/neoclock/model"
	"github.com/dasdy/neoclock/text"
)

// Flyer is a ticker: every message scrolls right to left on its own line until
// its time to live runs out.
type Flyer struct {
	TextStyle
	// Text, if set, is shown permanently on the first line.
	Text  string `json:"text"  toml:"text"`
	Speed int    `json:"speed" toml:"speed"`
}

func (f *Flyer) Kind() Kind { return KindFlyer }

func (f *Flyer) newDriver() driver { return &flyerDriver{cfg: *f} }

type flyerLine struct {
	scroll *animation.Scroll
	// Zero means the line never expires.
	expires time.Time
}

func (l flyerLine) alive(now time.Time) bool {
	return l.expires.IsZero() || now.Before(l.expires)
}

type flyerDriver struct {
	cfg      Flyer
	renderer *text.Renderer
	lines    []flyerLine
}

func (d *flyerDriver) init(context.Context) error {
	r, err := text.Load(d.cfg.Options)
	if err != nil {
		return fmt.Errorf("could not load font: %w", err)
	}

	d.renderer = r

	if d.cfg.Text != "" {
		d.lines = append(d.lines, d.newLine(d.cfg.Text, time.Time{}))
	}

	return nil
}

func (d *flyerDriver) newLine(s string, expires time.Time) flyerLine {
	label := d.renderer.Render(s, d.cfg.TextColor, d.cfg.BackgroundColor)

	return flyerLine{
		scroll:  animation.NewScroll(label, d.cfg.Width, d.renderer.Height(), -1, 0),
		expires: expires,
	}
}

func (d *flyerDriver) tick(now time.Time) (*image.NRGBA, time.Duration) {
	alive := d.lines[:0]

	for _, l := range d.lines {
		if l.alive(now) {
			alive = append(alive, l)
		}
	}

	d.lines = alive

	if len(d.lines) == 0 {
		return nil, speedInterval(d.cfg.Speed)
	}

	lineHeight := d.renderer.Height()

	height := d.cfg.Height
	if height <= 0 {
		height = lineHeight * len(d.lines)
	}

	frame := model.NewFrame(d.cfg.Width, height)
	for i, l := range d.lines {
		model.Blit(frame, l.scroll.Next(), 0, i*lineHeight)
	}

	return frame, speedInterval(d.cfg.Speed)
}

func (d *flyerDriver) handle(_ context.Context, now time.Time, payload []byte) error {
	var msg struct {
		Text string `json:"text"`
		// Seconds.
		TTL int `json:"ttl"`
	}

	if err := decodePayload(payload, &msg); err != nil {
		return err
	}

	if msg.TTL <= 0 {
		return fmt.Errorf("%w: ttl must be positive, got %d", ErrBadPayload, msg.TTL)
	}

	d.lines = append(d.lines, d.newLine(msg.Text, now.Add(time.Duration(msg.TTL)*time.Second)))

	return nil
}
