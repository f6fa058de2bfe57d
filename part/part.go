// Package part holds the shared per-widget display state: where a widget is,
// whether it is shown and the last frame its worker published.
package part

import (
	"image"
	"sync"
)

// State is written by two parties: the widget worker owns the image, the
// control router owns position and visibility. The compositor only reads.
type State struct {
	lock    sync.RWMutex
	x, y    uint32
	visible bool
	image   *image.NRGBA
}

// Snapshot is a consistent copy of a State. Image is shared and must not be mutated.
type Snapshot struct {
	X, Y    uint32
	Visible bool
	Image   *image.NRGBA
}

func New(x, y uint32, visible bool) *State {
	return &State{x: x, y: y, visible: visible}
}

func (s *State) Snapshot() Snapshot {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return Snapshot{X: s.x, Y: s.y, Visible: s.visible, Image: s.image}
}

// SetImage publishes a new frame, nil clears it. Frames are never modified after publication.
func (s *State) SetImage(frame *image.NRGBA) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.image = frame
}

func (s *State) Show() {
	s.setVisible(true)
}

func (s *State) Hide() {
	s.setVisible(false)
}

func (s *State) setVisible(v bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.visible = v
}

func (s *State) Move(x, y uint32) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.x, s.y = x, y
}

// Table is the fixed set of widget states, indexed by configuration order.
type Table []*State

func (t Table) At(i int) (*State, bool) {
	if i < 0 || i >= len(t) {
		return nil, false
	}

	return t[i], true
}
