// Package screen ties widget workers, the control router and the compositor
// together into one display.
package screen

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"

	"github.com/dasdy/neoclock/message"
	"github.com/dasdy/neoclock/model"
	"github.com/dasdy/neoclock/part"
	"github.com/dasdy/neoclock/widgets"
	"github.com/thejerf/suture/v4"
)

const (
	DefaultInboxSize = 8
	DefaultQueueSize = 16
)

type Options struct {
	Width, Height int
	Background    model.Color
	// Capacity of each widget's control inbox.
	InboxSize int
	// Capacity of the router's input queue.
	QueueSize int
	// Delivered, when set, sees every control message the router applied or
	// handed to a widget inbox.
	Delivered func(context.Context, message.Envelope)
}

// WidgetInfo describes one widget for status pages.
type WidgetInfo struct {
	Index    int          `json:"index"`
	Kind     widgets.Kind `json:"kind"`
	X        uint32       `json:"x"`
	Y        uint32       `json:"y"`
	Visible  bool         `json:"visible"`
	HasImage bool         `json:"has_image"`
	Width    int          `json:"width"`
	Height   int          `json:"height"`
}

type Screen struct {
	width, height int
	compositor    *Compositor
	parts         part.Table
	kinds         []widgets.Kind
	commands      chan message.Envelope
	supervisor    *suture.Supervisor

	cancel   context.CancelFunc
	done     <-chan error
	stopOnce sync.Once
	stopErr  error
}

func New(opts Options, specs []widgets.Spec) *Screen {
	if opts.InboxSize <= 0 {
		opts.InboxSize = DefaultInboxSize
	}

	if opts.QueueSize <= 0 {
		opts.QueueSize = DefaultQueueSize
	}

	s := &Screen{
		width:    opts.Width,
		height:   opts.Height,
		parts:    make(part.Table, len(specs)),
		kinds:    make([]widgets.Kind, len(specs)),
		commands: make(chan message.Envelope, opts.QueueSize),
		supervisor: suture.New("screen", suture.Spec{
			EventHook: func(e suture.Event) {
				slog.Warn("Supervisor event", "event", e.String())
			},
		}),
	}

	routes := make([]message.Route, len(specs))

	for i, spec := range specs {
		state := part.New(spec.X, spec.Y, spec.Visible)
		inbox := make(chan []byte, opts.InboxSize)

		s.parts[i] = state
		s.kinds[i] = spec.Widget.Kind()
		routes[i] = message.Route{Kind: spec.Widget.Kind(), State: state, Inbox: inbox}

		s.supervisor.Add(widgets.NewWorker(i, spec.Widget, state, inbox))
	}

	s.supervisor.Add(message.NewRouter(routes, s.commands).WithDelivered(opts.Delivered))
	s.compositor = NewCompositor(opts.Width, opts.Height, opts.Background, s.parts)

	return s
}

// Start launches every worker and the router in the background.
func (s *Screen) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = s.supervisor.ServeBackground(ctx)

	slog.Info("Screen started", "widgets", len(s.parts), "width", s.width, "height", s.height)
}

// Stop cancels all workers and waits for them to return. Later calls return
// the first call's result.
func (s *Screen) Stop() error {
	if s.cancel == nil {
		return nil
	}

	s.stopOnce.Do(func() {
		s.cancel()

		if err := <-s.done; err != nil && !errors.Is(err, context.Canceled) {
			s.stopErr = fmt.Errorf("screen stopped with error: %w", err)
		}
	})

	return s.stopErr
}

// Send queues a control message for the router, waiting for room until ctx ends.
func (s *Screen) Send(ctx context.Context, env message.Envelope) error {
	select {
	case s.commands <- env:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("could not queue %s message: %w", env.Type, ctx.Err())
	}
}

func (s *Screen) Size() (int, int) {
	return s.width, s.height
}

func (s *Screen) Render() *image.RGBA {
	return s.compositor.Render()
}

func (s *Screen) RenderTo(d Drawable) {
	s.compositor.RenderTo(d)
}

func (s *Screen) Widgets() []WidgetInfo {
	infos := make([]WidgetInfo, len(s.parts))

	for i, p := range s.parts {
		snap := p.Snapshot()
		info := WidgetInfo{Index: i, Kind: s.kinds[i], X: snap.X, Y: snap.Y, Visible: snap.Visible}

		if snap.Image != nil {
			info.HasImage = true
			info.Width = snap.Image.Bounds().Dx()
			info.Height = snap.Image.Bounds().Dy()
		}

		infos[i] = info
	}

	return infos
}
