package routes

import (
	"encoding/json"
	"log/slog"
	"net/http"

	cs "github.com/dasdy/neoclock/web/components"
)

// WidgetsHandle lists the current widget snapshots as JSON.
func (s *ServerHandler) WidgetsHandle(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(s.Display.Widgets()); err != nil {
		slog.Error("Failed to write widgets", "error", err)
	}
}

// BuildRenderContext builds the render context for the index page.
func (s *ServerHandler) BuildRenderContext(scale int) cs.RenderContext {
	width, height := s.Display.Size()
	infos := s.Display.Widgets()

	items := make([]cs.Widget, 0, len(infos))
	for _, info := range infos {
		items = append(items, cs.Widget{
			Index:   info.Index,
			Kind:    string(info.Kind),
			X:       info.X,
			Y:       info.Y,
			Visible: info.Visible,
			Width:   info.Width,
			Height:  info.Height,
		})
	}

	return cs.RenderContext{Width: width, Height: height, Scale: scale, Refresh: s.Refresh, Widgets: items}
}

// IndexHandle renders the preview page.
func (s *ServerHandler) IndexHandle(w http.ResponseWriter, r *http.Request) {
	slog.Debug("Handling index page request")

	scale, ok := ParseScale(r.URL.Query().Get("scale"))
	if !ok {
		scale = DefaultScale
	}

	renderContext := s.BuildRenderContext(scale)

	if err := SafeRenderTemplate(cs.Page(&renderContext), w); err != nil {
		slog.Error("Failed to render index page", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
