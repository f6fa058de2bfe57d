package widgets

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/dasdy/neoclock/model"
	"github.com/dasdy/neoclock/text"
)

// Clock shows hours and minutes; the separator blinks once per second.
type Clock struct {
	TextStyle
}

func (c *Clock) Kind() Kind { return KindClock }

func (c *Clock) newDriver() driver {
	return &timeTextDriver{style: c.TextStyle, format: clockText, wait: untilNext(time.Second)}
}

// Calendar shows the month, day of month and weekday.
type Calendar struct {
	TextStyle
}

func (c *Calendar) Kind() Kind { return KindCalendar }

func (c *Calendar) newDriver() driver {
	return &timeTextDriver{style: c.TextStyle, format: calendarText, wait: untilNext(time.Minute)}
}

func clockText(now time.Time) string {
	if now.Second()%2 == 0 {
		return now.Format("15 04")
	}

	return now.Format("15:04")
}

func calendarText(now time.Time) string {
	return now.Format("Jan 02 Mon")
}

// untilNext returns the wait until the next whole multiple of d.
func untilNext(d time.Duration) func(time.Time) time.Duration {
	return func(now time.Time) time.Duration {
		return now.Truncate(d).Add(d).Sub(now)
	}
}

type timeTextDriver struct {
	style    TextStyle
	format   func(time.Time) string
	wait     func(time.Time) time.Duration
	renderer *text.Renderer
}

func (d *timeTextDriver) init(context.Context) error {
	r, err := text.Load(d.style.Options)
	if err != nil {
		return fmt.Errorf("could not load font: %w", err)
	}

	d.renderer = r

	return nil
}

func (d *timeTextDriver) tick(now time.Time) (*image.NRGBA, time.Duration) {
	label := d.renderer.Render(d.format(now), d.style.TextColor, d.style.BackgroundColor)

	return d.style.place(label), d.wait(now)
}

func (d *timeTextDriver) handle(_ context.Context, _ time.Time, payload []byte) error {
	var msg colorUpdate
	if err := decodePayload(payload, &msg); err != nil {
		return err
	}

	msg.apply(&d.style)

	return nil
}

// place centres label on a background-filled frame of the configured size.
// Without a configured size the label is returned as is.
func (s TextStyle) place(label *image.NRGBA) *image.NRGBA {
	if s.Width <= 0 || s.Height <= 0 {
		return label
	}

	frame := model.NewFrame(s.Width, s.Height)
	model.Fill(frame, s.BackgroundColor)

	b := label.Bounds()
	model.Blit(frame, label, (s.Width-b.Dx())/2, (s.Height-b.Dy())/2)

	return frame
}
