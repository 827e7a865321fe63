package view

import (
	"sync"

	"github.com/opd-ai/go-cannon/pkg/physics"
)

// Input is one tick's worth of normalized pointer input
type Input struct {
	// ScrollDelta counts wheel steps since the last reset. Positive
	// means the wheel turned toward the user, which zooms out.
	ScrollDelta    int
	ScrollPosition physics.Vector2D
	Dragging       bool
	// DragDelta accumulates previous minus current pointer position
	// while dragging.
	DragDelta physics.Vector2D
}

// InputState accumulates raw pointer events between ticks. Event
// handlers and the loop may run on different goroutines.
type InputState struct {
	mu       sync.Mutex
	scroll   int
	scrollAt physics.Vector2D
	dragging bool
	delta    physics.Vector2D
	last     physics.Vector2D
}

// NewInputState returns an idle input accumulator
func NewInputState() *InputState {
	return &InputState{}
}

// Scroll records a wheel event at position. Only the sign of dy matters.
func (s *InputState) Scroll(dy float64, position physics.Vector2D) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scrollAt = position
	switch {
	case dy > 0:
		s.scroll++
	case dy < 0:
		s.scroll--
	}
}

// MouseDown starts a drag at position
func (s *InputState) MouseDown(position physics.Vector2D) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dragging = true
	s.last = position
}

// MouseUp ends the current drag
func (s *InputState) MouseUp() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dragging = false
}

// MouseMove tracks the pointer; while dragging it accumulates the delta
func (s *InputState) MouseMove(position physics.Vector2D) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scrollAt = position
	if !s.dragging {
		return
	}
	s.delta = s.delta.Add(s.last.Sub(position))
	s.last = position
}

// Snapshot returns the accumulated input without resetting it
func (s *InputState) Snapshot() Input {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Input{
		ScrollDelta:    s.scroll,
		ScrollPosition: s.scrollAt,
		Dragging:       s.dragging,
		DragDelta:      s.delta,
	}
}

// ResetScroll clears the scroll counter
func (s *InputState) ResetScroll() {
	s.mu.Lock()
	s.scroll = 0
	s.mu.Unlock()
}

// ResetDrag clears the accumulated drag delta
func (s *InputState) ResetDrag() {
	s.mu.Lock()
	s.delta = physics.Vector2D{}
	s.mu.Unlock()
}

// Consume returns the snapshot and resets scroll and drag, which is what
// a loop does once per tick.
func (s *InputState) Consume() Input {
	s.mu.Lock()
	defer s.mu.Unlock()
	in := Input{
		ScrollDelta:    s.scroll,
		ScrollPosition: s.scrollAt,
		Dragging:       s.dragging,
		DragDelta:      s.delta,
	}
	s.scroll = 0
	s.delta = physics.Vector2D{}
	return in
}
