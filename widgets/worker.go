package widgets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dasdy/neoclock/logging"
	"github.com/dasdy/neoclock/part"
	"github.com/thejerf/suture/v4"
)

// Worker keeps one part's image current. It runs as a suture service: a panic
// restarts it without repeating initialization, a failed initialization stops
// it for good and leaves the part without an image.
type Worker struct {
	index  int
	kind   Kind
	state  *part.State
	inbox  <-chan []byte
	driver driver
	clock  func() time.Time

	initialized bool
}

func NewWorker(index int, w Widget, state *part.State, inbox <-chan []byte) *Worker {
	return &Worker{
		index:  index,
		kind:   w.Kind(),
		state:  state,
		inbox:  inbox,
		driver: w.newDriver(),
		clock:  time.Now,
	}
}

// WithClock replaces the wall clock, for tests.
func (w *Worker) WithClock(clock func() time.Time) *Worker {
	w.clock = clock

	return w
}

func (w *Worker) String() string {
	return fmt.Sprintf("widget %d (%s)", w.index, w.kind)
}

func (w *Worker) Serve(ctx context.Context) error {
	ctx = logging.WidgetCtx(ctx, w.index, string(w.kind))

	if !w.initialized {
		if err := w.driver.init(ctx); err != nil {
			slog.ErrorContext(ctx, "Widget failed to initialize, it will stay blank", "error", err)

			return suture.ErrDoNotRestart
		}

		w.initialized = true

		slog.DebugContext(ctx, "Widget initialized")
	}

	for {
		frame, interval := w.driver.tick(w.clock())
		w.state.SetImage(frame)

		timer := time.NewTimer(interval)

		select {
		case <-ctx.Done():
			timer.Stop()

			return ctx.Err()
		case payload := <-w.inbox:
			timer.Stop()
			w.apply(ctx, payload)
		case <-timer.C:
		}
	}
}

func (w *Worker) apply(ctx context.Context, payload []byte) {
	err := w.driver.handle(ctx, w.clock(), payload)

	switch {
	case err == nil:
		slog.DebugContext(ctx, "Applied control message")
	case errors.Is(err, ErrBadPayload):
		slog.DebugContext(ctx, "Ignoring control message", "error", err)
	default:
		slog.WarnContext(ctx, "Could not apply control message, keeping previous state", "error", err)
	}
}

func decodePayload(payload []byte, v any) error {
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("%w: %w", ErrBadPayload, err)
	}

	return nil
}
