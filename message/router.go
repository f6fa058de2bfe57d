package message

import (
	"context"
	"log/slog"

	"github.com/dasdy/neoclock/logging"
	"github.com/dasdy/neoclock/part"
	"github.com/dasdy/neoclock/widgets"
)

// Route is everything the router needs to reach one widget.
type Route struct {
	Kind  widgets.Kind
	State *part.State
	// Inbox must stay open for as long as the router runs.
	Inbox chan<- []byte
}

// Router applies Show/Hide/Move directly to the widget state and forwards
// kind-specific payloads to the widget's inbox without ever blocking.
type Router struct {
	routes    []Route
	input     <-chan Envelope
	delivered func(context.Context, Envelope)
}

func NewRouter(routes []Route, input <-chan Envelope) *Router {
	return &Router{routes: routes, input: input}
}

// WithDelivered registers fn to run, on the router goroutine, for every
// envelope Serve delivers. Dropped envelopes never reach it.
func (r *Router) WithDelivered(fn func(context.Context, Envelope)) *Router {
	r.delivered = fn

	return r
}

func (r *Router) String() string {
	return "control router"
}

func (r *Router) Serve(ctx context.Context) error {
	ctx = logging.PackageCtx(ctx, "router")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case env := <-r.input:
			if r.Dispatch(ctx, env) && r.delivered != nil {
				r.delivered(ctx, env)
			}
		}
	}
}

// Dispatch applies one envelope and reports whether it reached its widget.
func (r *Router) Dispatch(ctx context.Context, env Envelope) bool {
	if env.ID < 0 || env.ID >= len(r.routes) {
		slog.DebugContext(ctx, "Dropping message for unknown widget", "type", env.Type, "id", env.ID)

		return false
	}

	route := r.routes[env.ID]

	if env.Generic() {
		switch env.Type {
		case TypeShow:
			route.State.Show()
		case TypeHide:
			route.State.Hide()
		case TypeMove:
			route.State.Move(env.X, env.Y)
		}

		return true
	}

	if widgets.Kind(env.Type) != route.Kind {
		slog.DebugContext(ctx, "Dropping message for a widget of another kind",
			"type", env.Type, "id", env.ID, "kind", route.Kind)

		return false
	}

	select {
	case route.Inbox <- env.Payload:
	default:
		slog.DebugContext(ctx, "Widget inbox full, dropping message", "type", env.Type, "id", env.ID)

		return false
	}

	return true
}
