package widgets

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math/rand/v2"
	"time"

	"github.com/dasdy/neoclock/model"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

const rainTrail = 15

// fades maps the configured fade name to the curve the trail alpha follows.
var fades = map[string]ease.TweenFunc{
	"linear": ease.Linear,
	"quad":   ease.InQuad,
	"cubic":  ease.InCubic,
	"sine":   ease.InSine,
}

// MatrixRain drops fading columns of light from the top edge.
type MatrixRain struct {
	Width  int         `json:"width"  toml:"width"`
	Height int         `json:"height" toml:"height"`
	Color  model.Color `json:"color"  toml:"color"`
	// Ticks per second.
	Speed int `json:"speed" toml:"speed"`
	// Rows over which a trail fades out; also how far past the bottom a drop travels.
	Steps int    `json:"steps" toml:"steps"`
	Fade  string `json:"fade"  toml:"fade"`
}

func defaultMatrixRain() *MatrixRain {
	return &MatrixRain{Width: 64, Height: 64, Color: model.Green, Speed: defaultSpeed, Steps: 20, Fade: "linear"}
}

func (m *MatrixRain) Kind() Kind { return KindMatrixRain }

func (m *MatrixRain) newDriver() driver {
	return &rainDriver{cfg: *m, rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

type drop struct {
	x, head int
}

type rainDriver struct {
	cfg      MatrixRain
	rng      *rand.Rand
	fade     *gween.Tween
	drops    []drop
	cooldown int
}

func (d *rainDriver) init(context.Context) error {
	if d.cfg.Width <= 0 || d.cfg.Height <= 0 {
		return fmt.Errorf("matrix rain needs a positive size, got %dx%d", d.cfg.Width, d.cfg.Height)
	}

	if d.cfg.Steps <= 0 {
		d.cfg.Steps = 1
	}

	return d.setFade(d.cfg.Fade)
}

func (d *rainDriver) setFade(name string) error {
	if name == "" {
		name = "linear"
	}

	fn, ok := fades[name]
	if !ok {
		return fmt.Errorf("unknown fade %q", name)
	}

	d.cfg.Fade = name
	d.fade = gween.New(float32(d.cfg.Color.A), 0, float32(d.cfg.Steps), fn)

	return nil
}

// alpha of the trail pixel i rows above the head.
func (d *rainDriver) alpha(i int) uint8 {
	v, _ := d.fade.Set(float32(i))

	return uint8(min(max(v, 0), 255))
}

func (d *rainDriver) tick(time.Time) (*image.NRGBA, time.Duration) {
	if d.cooldown == 0 {
		d.drops = append(d.drops, drop{x: d.rng.IntN(d.cfg.Width)})
		d.cooldown = 2 + d.rng.IntN(6)
	}

	d.cooldown--

	frame := model.NewFrame(d.cfg.Width, d.cfg.Height)
	c := d.cfg.Color

	for _, dr := range d.drops {
		for i := range rainTrail {
			y := dr.head - i
			if y < 0 || y >= d.cfg.Height {
				continue
			}

			if a := d.alpha(i); a > 0 {
				frame.SetNRGBA(dr.x, y, color.NRGBA{R: c.R, G: c.G, B: c.B, A: a})
			}
		}
	}

	kept := d.drops[:0]

	for _, dr := range d.drops {
		dr.head++
		if dr.head <= d.cfg.Steps+d.cfg.Height {
			kept = append(kept, dr)
		}
	}

	d.drops = kept

	return frame, speedInterval(d.cfg.Speed)
}

func (d *rainDriver) handle(_ context.Context, _ time.Time, payload []byte) error {
	var msg struct {
		Color *model.Color `json:"color"`
		Speed *int         `json:"speed"`
		Fade  *string      `json:"fade"`
	}

	if err := decodePayload(payload, &msg); err != nil {
		return err
	}

	fade := d.cfg.Fade
	if msg.Fade != nil {
		fade = *msg.Fade
		if _, ok := fades[fade]; !ok {
			return fmt.Errorf("%w: unknown fade %q", ErrBadPayload, fade)
		}
	}

	if msg.Speed != nil {
		d.cfg.Speed = *msg.Speed
	}

	if msg.Color != nil {
		d.cfg.Color = *msg.Color
	}

	return d.setFade(fade)
}
