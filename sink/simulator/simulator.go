//go:build simulator

// Package simulator shows the display in a desktop window.
package simulator

import (
	"context"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
)

const DefaultScale = 10

// Window is a sink backed by an ebiten game. Run must be called from the
// main goroutine.
type Window struct {
	width  int
	height int
	scale  int

	mu      sync.Mutex
	pending []byte
	shown   []byte
	dirty   bool

	closed chan struct{}
	once   sync.Once

	img *ebiten.Image
}

func New(width, height, scale int) *Window {
	if scale <= 0 {
		scale = DefaultScale
	}

	return &Window{
		width:   width,
		height:  height,
		scale:   scale,
		pending: make([]byte, width*height*4),
		shown:   make([]byte, width*height*4),
		closed:  make(chan struct{}),
	}
}

func (w *Window) SetPixel(x, y int, r, g, b uint8) {
	if x < 0 || y < 0 || x >= w.width || y >= w.height {
		return
	}

	i := (y*w.width + x) * 4

	w.mu.Lock()
	w.pending[i], w.pending[i+1], w.pending[i+2], w.pending[i+3] = r, g, b, 255
	w.mu.Unlock()
}

func (w *Window) Show() error {
	w.mu.Lock()
	copy(w.shown, w.pending)
	w.dirty = true
	w.mu.Unlock()

	return nil
}

func (w *Window) Close() error {
	w.once.Do(func() { close(w.closed) })

	return nil
}

// Run opens the window and blocks until it is closed or ctx ends.
func (w *Window) Run(ctx context.Context) error {
	go func() {
		select {
		case <-ctx.Done():
			_ = w.Close()
		case <-w.closed:
		}
	}()

	ebiten.SetWindowTitle("neoclock")
	ebiten.SetWindowSize(w.width*w.scale, w.height*w.scale)

	return ebiten.RunGame(w)
}

func (w *Window) Update() error {
	select {
	case <-w.closed:
		return ebiten.Termination
	default:
		return nil
	}
}

func (w *Window) Draw(screen *ebiten.Image) {
	if w.img == nil {
		w.img = ebiten.NewImage(w.width, w.height)
	}

	w.mu.Lock()
	if w.dirty {
		w.img.WritePixels(w.shown)
		w.dirty = false
	}
	w.mu.Unlock()

	screen.DrawImage(w.img, nil)
}

func (w *Window) Layout(_, _ int) (int, int) {
	return w.width, w.height
}
