package routes

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log/slog"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/dasdy/neoclock/message"
	"github.com/dasdy/neoclock/screen"
)

// Display is the part of a running screen the handlers need.
type Display interface {
	Size() (int, int)
	Render() *image.RGBA
	Widgets() []screen.WidgetInfo
	Send(ctx context.Context, env message.Envelope) error
}

// ServerHandler holds all dependencies needed for the web server handlers.
type ServerHandler struct {
	Display Display
	// How often the page reloads the preview image.
	Refresh time.Duration
	// How long a control request may wait for room in the router queue.
	SendTimeout time.Duration
}

// SafeRenderTemplate safely renders a templ component to an http.ResponseWriter.
func SafeRenderTemplate(component templ.Component, w http.ResponseWriter) error {
	// Do not write to w because it implies 200 status
	var buf bytes.Buffer

	err := component.Render(context.Background(), &buf)
	if err != nil {
		return fmt.Errorf("could not render template: %w", err)
	}

	w.Header().Set("Content-Type", "text/html; charset=UTF-8")

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write response", "error", err)

		return fmt.Errorf("could not write to response writer: %w", err)
	}

	return nil
}
