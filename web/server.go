// Package web serves a live preview of the display and accepts control messages over HTTP.
package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dasdy/neoclock/web/routes"
)

const shutdownTimeout = 5 * time.Second

func disableCacheInDevMode(dev bool, next http.Handler) http.Handler {
	if !dev {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

func BuildServer(display routes.Display, refresh time.Duration, dev bool) *http.ServeMux {
	handler := routes.ServerHandler{Display: display, Refresh: refresh}

	mux := http.NewServeMux()
	mux.Handle("GET /frame.png", disableCacheInDevMode(true, http.HandlerFunc(handler.FrameHandle)))
	mux.Handle("GET /widgets", disableCacheInDevMode(dev, http.HandlerFunc(handler.WidgetsHandle)))
	mux.Handle("POST /control", http.HandlerFunc(handler.ControlHandle))
	mux.Handle("GET /{$}", disableCacheInDevMode(dev, http.HandlerFunc(handler.IndexHandle)))

	return mux
}

// StartServer serves the preview on port until ctx ends.
func StartServer(ctx context.Context, port int, display routes.Display, refresh time.Duration, dev bool) error {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           BuildServer(display, refresh, dev),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Could not stop preview server", "error", err)
		}
	}()

	slog.Info("Running preview server", "port", port)

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("could not run server: %w", err)
	}

	return nil
}
