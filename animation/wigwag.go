package animation

import (
	"image"

	"github.com/dasdy/neoclock/model"
)

// axis bounces an offset within [lo, hi] one pixel at a time.
type axis struct {
	lo, hi int
	cur    int
	step   int
}

func newAxis(source, target int) axis {
	diff := target - source
	a := axis{lo: min(0, diff), hi: max(0, diff)}

	switch {
	case source > target:
		a.step = -1
	case source < target:
		a.step = 1
	}

	return a
}

func (a *axis) advance() {
	if next := a.cur + a.step; next < a.lo || next > a.hi {
		a.step = -a.step
	}

	a.cur += a.step
}

// Wigwag moves a source back and forth inside the target so that the source
// always either fits inside the target or fully covers it along each axis.
// The direction flips before the offset would leave its range, so the offset
// never leaves [min(0, T-S), max(0, T-S)].
type Wigwag struct {
	source        *image.NRGBA
	width, height int
	x, y          axis
}

func NewWigwag(source *image.NRGBA, width, height int) *Wigwag {
	src := cloneFrame(source)
	b := src.Bounds()

	return &Wigwag{
		source: src,
		width:  width,
		height: height,
		x:      newAxis(b.Dx(), width),
		y:      newAxis(b.Dy(), height),
	}
}

// Offset is where the next frame places the source.
func (w *Wigwag) Offset() image.Point {
	return image.Pt(w.x.cur, w.y.cur)
}

// Bounds is the range the offset moves within, Min and Max both inclusive.
func (w *Wigwag) Bounds() image.Rectangle {
	return image.Rectangle{Min: image.Pt(w.x.lo, w.y.lo), Max: image.Pt(w.x.hi, w.y.hi)}
}

func (w *Wigwag) Next() *image.NRGBA {
	frame := model.NewFrame(w.width, w.height)
	model.Blit(frame, w.source, w.x.cur, w.y.cur)

	w.x.advance()
	w.y.advance()

	return frame
}
