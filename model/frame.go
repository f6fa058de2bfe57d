package model

import "image"

// NewFrame allocates a fully transparent straight-alpha frame.
func NewFrame(width, height int) *image.NRGBA {
	return image.NewNRGBA(image.Rect(0, 0, max(width, 0), max(height, 0)))
}

// NewCanvas allocates an opaque canvas filled with bg. The alpha of bg is ignored.
func NewCanvas(width, height int, bg Color) *image.RGBA {
	canvas := image.NewRGBA(image.Rect(0, 0, max(width, 0), max(height, 0)))

	for i := 0; i < len(canvas.Pix); i += 4 {
		canvas.Pix[i] = bg.R
		canvas.Pix[i+1] = bg.G
		canvas.Pix[i+2] = bg.B
		canvas.Pix[i+3] = 255
	}

	return canvas
}

func Fill(frame *image.NRGBA, c Color) {
	b := frame.Bounds()

	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := frame.PixOffset(b.Min.X, y)

		for x := 0; x < b.Dx(); x++ {
			i := row + 4*x
			frame.Pix[i] = c.R
			frame.Pix[i+1] = c.G
			frame.Pix[i+2] = c.B
			frame.Pix[i+3] = c.A
		}
	}
}

// Blit copies src onto dst with its top-left corner at (x, y), replacing the
// covered pixels. Offsets may be negative; whatever falls outside dst is dropped.
func Blit(dst, src *image.NRGBA, x, y int) {
	visible, srcMin := clip(dst.Bounds(), src.Bounds(), x, y)
	if visible.Empty() {
		return
	}

	w := 4 * visible.Dx()

	for row := 0; row < visible.Dy(); row++ {
		di := dst.PixOffset(visible.Min.X, visible.Min.Y+row)
		si := src.PixOffset(srcMin.X, srcMin.Y+row)
		copy(dst.Pix[di:di+w], src.Pix[si:si+w])
	}
}

// BlendOver composites a straight-alpha frame onto an opaque canvas at (x, y):
// dst = (src*a + dst*(255-a)) / 255 per channel, integer truncation.
func BlendOver(canvas *image.RGBA, src *image.NRGBA, x, y int) {
	visible, srcMin := clip(canvas.Bounds(), src.Bounds(), x, y)

	for row := 0; row < visible.Dy(); row++ {
		di := canvas.PixOffset(visible.Min.X, visible.Min.Y+row)
		si := src.PixOffset(srcMin.X, srcMin.Y+row)

		for col := 0; col < visible.Dx(); col++ {
			d := canvas.Pix[di+4*col : di+4*col+4 : di+4*col+4]
			s := src.Pix[si+4*col : si+4*col+4 : si+4*col+4]

			a := uint32(s[3])
			if a == 0 {
				continue
			}

			for c := range 3 {
				d[c] = uint8((uint32(s[c])*a + uint32(d[c])*(255-a)) / 255)
			}

			d[3] = 255
		}
	}
}

// clip returns the part of dst covered by src placed at (x, y), and the source
// point matching its top-left corner.
func clip(dst, src image.Rectangle, x, y int) (image.Rectangle, image.Point) {
	placed := image.Rect(x, y, x+src.Dx(), y+src.Dy())
	visible := placed.Intersect(dst)

	if visible.Empty() {
		return image.Rectangle{}, image.Point{}
	}

	return visible, src.Min.Add(visible.Min.Sub(placed.Min))
}
