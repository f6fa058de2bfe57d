package components

import "time"

// Widget is one row of the widget table.
type Widget struct {
	Index   int
	Kind    string
	X, Y    uint32
	Visible bool
	Width   int
	Height  int
}

type RenderContext struct {
	Width, Height int
	Scale         int
	Refresh       time.Duration
	Widgets       []Widget
}
