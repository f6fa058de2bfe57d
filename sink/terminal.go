package sink

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	halfBlock  = "▀"
	cursorHome = "\x1b[H"
	clearAll   = "\x1b[2J"
)

// Terminal draws two pixel rows per text row: the upper one as foreground of
// a half block, the lower one as its background. Each Show redraws in place.
type Terminal struct {
	out    io.Writer
	width  int
	height int
	pix    []uint8
	drawn  bool
}

func NewTerminal(out io.Writer, width, height int) *Terminal {
	return &Terminal{
		out:    out,
		width:  width,
		height: height,
		pix:    make([]uint8, width*height*3),
	}
}

func (t *Terminal) SetPixel(x, y int, r, g, b uint8) {
	if x < 0 || y < 0 || x >= t.width || y >= t.height {
		return
	}

	i := (y*t.width + x) * 3
	t.pix[i], t.pix[i+1], t.pix[i+2] = r, g, b
}

func (t *Terminal) hex(x, y int) lipgloss.Color {
	i := (y*t.width + x) * 3

	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", t.pix[i], t.pix[i+1], t.pix[i+2]))
}

func (t *Terminal) Show() error {
	var sb strings.Builder

	if !t.drawn {
		sb.WriteString(clearAll)
		t.drawn = true
	}

	sb.WriteString(cursorHome)

	for y := 0; y < t.height; y += 2 {
		for x := range t.width {
			style := lipgloss.NewStyle().Foreground(t.hex(x, y))
			if y+1 < t.height {
				style = style.Background(t.hex(x, y+1))
			}

			sb.WriteString(style.Render(halfBlock))
		}

		sb.WriteString("\n")
	}

	if _, err := io.WriteString(t.out, sb.String()); err != nil {
		return fmt.Errorf("could not draw frame: %w", err)
	}

	return nil
}

func (t *Terminal) Close() error {
	return nil
}
