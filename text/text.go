// Package text rasterizes single lines of text into frames.
package text

import (
	"errors"
	"fmt"
	"image"
	"math"
	"os"

	"github.com/dasdy/neoclock/model"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

var ErrBadFont = errors.New("unusable font")

const DefaultHeight = 12.4

// Options select the font and its pixel size. A zero value means the embedded
// Go Mono face at DefaultHeight.
type Options struct {
	Path   string  `json:"font_path"    toml:"font_path"`
	Height float64 `json:"font_height"  toml:"font_height"`
	ScaleX float64 `json:"font_scale_x" toml:"font_scale_x"`
	ScaleY float64 `json:"font_scale_y" toml:"font_scale_y"`
}

func (o Options) withDefaults() Options {
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}

	if o.ScaleX <= 0 {
		o.ScaleX = 1
	}

	if o.ScaleY <= 0 {
		o.ScaleY = 1
	}

	return o
}

// Renderer draws text with one face. It is not safe for concurrent use; every
// widget loads its own.
type Renderer struct {
	face    font.Face
	ascent  fixed.Int26_6
	height  int
	stretch float64
}

func Load(opts Options) (*Renderer, error) {
	opts = opts.withDefaults()

	data := gomono.TTF

	if opts.Path != "" {
		var err error

		data, err = os.ReadFile(opts.Path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBadFont, err)
		}
	}

	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: could not parse %q: %w", ErrBadFont, opts.Path, err)
	}

	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    opts.Height * opts.ScaleY,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadFont, err)
	}

	metrics := face.Metrics()

	return &Renderer{
		face:    face,
		ascent:  metrics.Ascent,
		height:  (metrics.Ascent + metrics.Descent).Ceil(),
		stretch: opts.ScaleX / opts.ScaleY,
	}, nil
}

// Height is the pixel height of every rendered line.
func (r *Renderer) Height() int {
	return r.height
}

// Render draws s in fg on a bg-filled frame sized to the text.
func (r *Renderer) Render(s string, fg, bg model.Color) *image.NRGBA {
	width := font.MeasureString(r.face, s).Ceil()

	frame := model.NewFrame(width, r.height)
	model.Fill(frame, bg)

	d := font.Drawer{
		Dst:  frame,
		Src:  image.NewUniform(fg.NRGBA()),
		Face: r.face,
		Dot:  fixed.Point26_6{X: 0, Y: r.ascent},
	}
	d.DrawString(s)

	if r.stretch == 1 || width == 0 {
		return frame
	}

	stretched := model.NewFrame(int(math.Round(float64(width)*r.stretch)), r.height)
	xdraw.ApproxBiLinear.Scale(stretched, stretched.Bounds(), frame, frame.Bounds(), xdraw.Src, nil)

	return stretched
}

func (r *Renderer) Close() error {
	return r.face.Close()
}
