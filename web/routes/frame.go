package routes

import (
	"bytes"
	"image"
	"image/png"
	"log/slog"
	"net/http"
	"strconv"

	xdraw "golang.org/x/image/draw"
)

const (
	DefaultScale = 8
	MaxScale     = 32
)

// ParseScale reads the scale query value; empty means DefaultScale.
func ParseScale(raw string) (int, bool) {
	if raw == "" {
		return DefaultScale, true
	}

	scale, err := strconv.Atoi(raw)
	if err != nil || scale < 1 || scale > MaxScale {
		return 0, false
	}

	return scale, true
}

func scaleCanvas(src *image.RGBA, scale int) *image.RGBA {
	if scale == 1 {
		return src
	}

	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)

	return dst
}

// FrameHandle serves the composed canvas as PNG.
func (s *ServerHandler) FrameHandle(w http.ResponseWriter, r *http.Request) {
	scale, ok := ParseScale(r.URL.Query().Get("scale"))
	if !ok {
		http.Error(w, "scale must be an integer between 1 and 32", http.StatusBadRequest)

		return
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaleCanvas(s.Display.Render(), scale)); err != nil {
		slog.Error("Failed to encode frame", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "image/png")

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write response", "error", err)
	}
}
