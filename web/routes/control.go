package routes

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/dasdy/neoclock/message"
)

const (
	maxControlBody     = 64 << 10
	defaultSendTimeout = time.Second
)

// ControlHandle accepts one control envelope and queues it for the router.
func (s *ServerHandler) ControlHandle(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxControlBody))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}

	env, err := message.Decode(body)
	if err != nil {
		slog.Warn("Rejected control message", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}

	timeout := s.SendTimeout
	if timeout <= 0 {
		timeout = defaultSendTimeout
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	if err := s.Display.Send(ctx, env); err != nil {
		slog.Warn("Could not queue control message", "type", env.Type, "error", err)
		http.Error(w, err.Error(), http.StatusServiceUnavailable)

		return
	}

	w.WriteHeader(http.StatusAccepted)
}
