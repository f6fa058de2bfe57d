// Package widgets implements the per-widget workers that keep a part's frame
// up to date, one driver per widget kind.
package widgets

import (
	"context"
	"errors"
	"image"
	"slices"
	"time"

	"github.com/dasdy/neoclock/model"
	"github.com/dasdy/neoclock/text"
)

type Kind string

const (
	KindSolid      Kind = "Solid"
	KindClock      Kind = "Clock"
	KindCalendar   Kind = "Calendar"
	KindGif        Kind = "Gif"
	KindMatrixRain Kind = "MatrixRain"
	KindFlyer      Kind = "Flyer"
	KindWigwag     Kind = "Wigwag"
)

// ErrBadPayload marks control payloads a driver could not decode. They are dropped quietly.
var ErrBadPayload = errors.New("malformed control payload")

const idleInterval = time.Hour

// Widget is the kind-specific configuration of one widget. Each kind's
// configuration knows how to build its driver; the set of kinds is closed.
type Widget interface {
	Kind() Kind
	newDriver() driver
}

// driver is the kind-specific part of a worker. Drivers are only ever used from
// their worker's goroutine.
type driver interface {
	// init loads resources. An error is fatal for the widget.
	init(ctx context.Context) error
	// tick returns the frame to publish (nil for none) and how long to wait before the next tick.
	tick(now time.Time) (*image.NRGBA, time.Duration)
	// handle applies a control payload. On error the driver keeps its previous state.
	handle(ctx context.Context, now time.Time, payload []byte) error
}

// Spec is one entry of the layout: where the widget starts and what it is.
type Spec struct {
	X, Y    uint32
	Visible bool
	Widget  Widget
}

var registry = map[Kind]func() Widget{
	KindSolid:      func() Widget { return &Solid{Width: 64, Height: 64, Color: model.Transparent} },
	KindClock:      func() Widget { return &Clock{TextStyle: clockStyle()} },
	KindCalendar:   func() Widget { return &Calendar{TextStyle: calendarStyle()} },
	KindGif:        func() Widget { return &Gif{} },
	KindMatrixRain: func() Widget { return defaultMatrixRain() },
	KindFlyer:      func() Widget { return &Flyer{TextStyle: bannerStyle(), Speed: defaultSpeed} },
	KindWigwag:     func() Widget { return &Wigwag{TextStyle: bannerStyle(), Speed: defaultSpeed} },
}

// New returns the default configuration for kind, ready to be decoded into.
func New(kind Kind) (Widget, bool) {
	ctor, ok := registry[kind]
	if !ok {
		return nil, false
	}

	return ctor(), true
}

// Kinds lists every known kind, sorted.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(registry))
	for k := range registry {
		kinds = append(kinds, k)
	}

	slices.Sort(kinds)

	return kinds
}

// TextStyle is shared by the kinds that draw text.
type TextStyle struct {
	Width           int         `json:"width"            toml:"width"`
	Height          int         `json:"height"           toml:"height"`
	TextColor       model.Color `json:"text_color"       toml:"text_color"`
	BackgroundColor model.Color `json:"background_color" toml:"background_color"`
	text.Options
}

func clockStyle() TextStyle {
	return TextStyle{
		TextColor: model.Yellow,
		Options:   text.Options{Height: 20.5, ScaleX: 1.2, ScaleY: 1},
	}
}

func calendarStyle() TextStyle {
	return TextStyle{
		TextColor: model.Yellow,
		Options:   text.Options{Height: text.DefaultHeight, ScaleX: 1, ScaleY: 1},
	}
}

func bannerStyle() TextStyle {
	return TextStyle{
		Width:     64,
		TextColor: model.White,
		Options:   text.Options{Height: text.DefaultHeight, ScaleX: 1, ScaleY: 1},
	}
}

// colorUpdate is the control payload of the text kinds that only restyle.
type colorUpdate struct {
	TextColor       *model.Color `json:"text_color"`
	BackgroundColor *model.Color `json:"background_color"`
}

func (u colorUpdate) apply(style *TextStyle) {
	if u.TextColor != nil {
		style.TextColor = *u.TextColor
	}

	if u.BackgroundColor != nil {
		style.BackgroundColor = *u.BackgroundColor
	}
}

const defaultSpeed = 100

// speedInterval converts a speed in ticks per second into a tick interval.
func speedInterval(speed int) time.Duration {
	if speed <= 0 {
		speed = defaultSpeed
	}

	return time.Second / time.Duration(speed)
}
