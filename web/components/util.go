package components

import "fmt"

// FrameURL is the preview image address at the given scale.
func FrameURL(scale int) string {
	return fmt.Sprintf("/frame.png?scale=%d", scale)
}

func PositionLabel(w Widget) string {
	return fmt.Sprintf("%d, %d", w.X, w.Y)
}

// SizeLabel is "-" for a widget that has not published an image yet.
func SizeLabel(w Widget) string {
	if w.Width == 0 && w.Height == 0 {
		return "-"
	}

	return fmt.Sprintf("%dx%d", w.Width, w.Height)
}

func visibilityLabel(visible bool) string {
	if visible {
		return "shown"
	}

	return "hidden"
}
