// Package animation turns a fixed source bitmap into an endless sequence of
// frames of a fixed target size.
package animation

import (
	"image"

	"github.com/dasdy/neoclock/model"
)

// Generator yields a fresh frame on every call.
type Generator interface {
	Next() *image.NRGBA
}

// Scroll slides a source across the target with a constant step per axis and
// wraps around once the source has fully left the target.
//
// For a negative step the source enters from the far edge (origin starts at
// the target extent); for a positive step it starts at 0 and re-enters from
// the near edge (origin -source extent) after leaving. With a step of one the
// sequence repeats every source+target ticks.
type Scroll struct {
	source        *image.NRGBA
	width, height int
	step          image.Point
	origin        image.Point
}

func NewScroll(source *image.NRGBA, width, height, stepX, stepY int) *Scroll {
	s := &Scroll{
		source: cloneFrame(source),
		width:  width,
		height: height,
		step:   image.Pt(stepX, stepY),
	}
	s.Reset()

	return s
}

func (s *Scroll) Reset() {
	s.origin = image.Pt(
		scrollStart(s.step.X, s.width),
		scrollStart(s.step.Y, s.height),
	)
}

// Origin is the offset the next frame will be drawn at.
func (s *Scroll) Origin() image.Point {
	return s.origin
}

func (s *Scroll) Next() *image.NRGBA {
	frame := model.NewFrame(s.width, s.height)
	model.Blit(frame, s.source, s.origin.X, s.origin.Y)

	bounds := s.source.Bounds()
	s.origin.X = scrollAdvance(s.origin.X, s.step.X, bounds.Dx(), s.width)
	s.origin.Y = scrollAdvance(s.origin.Y, s.step.Y, bounds.Dy(), s.height)

	return frame
}

func scrollStart(step, target int) int {
	if step < 0 {
		return target
	}

	return 0
}

func scrollAdvance(origin, step, source, target int) int {
	if step == 0 {
		return origin
	}

	origin += step
	if origin > -source && origin < target {
		return origin
	}

	if step < 0 {
		return target
	}

	return -source
}

func cloneFrame(src *image.NRGBA) *image.NRGBA {
	if src == nil {
		return model.NewFrame(0, 0)
	}

	b := src.Bounds()
	dst := model.NewFrame(b.Dx(), b.Dy())
	model.Blit(dst, src, 0, 0)

	return dst
}
