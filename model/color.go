package model

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

var ErrBadColor = errors.New("malformed color")

// Color is a straight (non-premultiplied) alpha RGBA color.
type Color struct {
	R, G, B, A uint8
}

var (
	Black       = Color{0, 0, 0, 255}
	White       = Color{255, 255, 255, 255}
	Red         = Color{255, 0, 0, 255}
	Green       = Color{0, 255, 0, 255}
	Blue        = Color{0, 0, 255, 255}
	Yellow      = Color{255, 255, 0, 255}
	Transparent = Color{}
)

var namedColors = map[string]Color{
	"black":       Black,
	"white":       White,
	"red":         Red,
	"green":       {0, 128, 0, 255},
	"lime":        Green,
	"blue":        Blue,
	"yellow":      Yellow,
	"transparent": Transparent,
}

// ParseColor accepts rgb(r, g, b), rgba(r, g, b, a) with a in [0, 1],
// #rgb / #rrggbb hex and a handful of CSS color names.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(strings.ToLower(s))

	switch {
	case strings.HasPrefix(s, "rgba(") && strings.HasSuffix(s, ")"):
		return parseFunctional(s[len("rgba("):len(s)-1], 4)
	case strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")"):
		return parseFunctional(s[len("rgb("):len(s)-1], 3)
	case strings.HasPrefix(s, "#"):
		c, err := colorful.Hex(s)
		if err != nil {
			return Color{}, fmt.Errorf("%w: %q: %w", ErrBadColor, s, err)
		}

		r, g, b := c.RGB255()

		return Color{r, g, b, 255}, nil
	}

	if c, ok := namedColors[s]; ok {
		return c, nil
	}

	return Color{}, fmt.Errorf("%w: %q", ErrBadColor, s)
}

func parseFunctional(body string, want int) (Color, error) {
	parts := strings.Split(body, ",")
	if len(parts) != want {
		return Color{}, fmt.Errorf("%w: expected %d components, got %d", ErrBadColor, want, len(parts))
	}

	var channels [3]uint8

	for i := range 3 {
		v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil || v < 0 || v > 255 {
			return Color{}, fmt.Errorf("%w: channel %q out of range", ErrBadColor, parts[i])
		}

		channels[i] = uint8(v)
	}

	c := Color{channels[0], channels[1], channels[2], 255}

	if want == 4 {
		a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil || a < 0 || a > 1 {
			return Color{}, fmt.Errorf("%w: alpha %q must be within [0, 1]", ErrBadColor, parts[3])
		}

		// Truncated, so 0.5 maps to 127. The epsilon keeps k/255 stable
		// across a format and parse round trip.
		c.A = uint8(a*255 + 1e-9)
	}

	return c, nil
}

func (c Color) String() string {
	if c.A == 255 {
		return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
	}

	return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.R, c.G, c.B,
		strconv.FormatFloat(float64(c.A)/255, 'f', -1, 64))
}

func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}

	*c = parsed

	return nil
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}
