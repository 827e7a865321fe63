// Package view maps simulation space (meters, y up) to display space
// (pixels or terminal cells, y down) and back. It is the only place the
// y axis is flipped.
package view

import (
	"errors"
	"fmt"
	"math"

	"github.com/opd-ai/go-cannon/pkg/physics"
)

// Zoom and scale limits in display units per meter.
const (
	DefaultZoomFactor = 1.1
	DefaultScale      = 100.0
	MinScale          = 1e-3
	MaxScale          = 1e7
)

// ErrInvalidScale is returned for a scale or zoom factor that is not a
// positive finite number.
var ErrInvalidScale = errors.New("invalid view scale")

// Transform places the simulation origin at Center and draws Scale
// display units per meter.
type Transform struct {
	center     physics.Vector2D
	scale      float64
	zoomFactor float64
}

// TransformOption customizes a Transform at construction
type TransformOption func(*Transform)

// WithZoomFactor sets the multiplier applied per scroll step. Values that
// are not finite or not above 1 are ignored.
func WithZoomFactor(factor float64) TransformOption {
	return func(t *Transform) {
		if factor > 1 && !math.IsInf(factor, 0) {
			t.zoomFactor = factor
		}
	}
}

// NewTransform centers the origin in a viewport of the given size
func NewTransform(viewport physics.Vector2D, scale float64, opts ...TransformOption) (*Transform, error) {
	if !viewport.IsFinite() {
		return nil, fmt.Errorf("%w: viewport %v", ErrInvalidScale, viewport)
	}
	t := &Transform{
		center:     viewport.Scale(0.5),
		zoomFactor: DefaultZoomFactor,
	}
	for _, opt := range opts {
		opt(t)
	}
	if err := t.SetScale(scale); err != nil {
		return nil, err
	}
	return t, nil
}

// Center returns the display position of the simulation origin
func (t *Transform) Center() physics.Vector2D {
	return t.center
}

// SetCenter moves the simulation origin to a display position
func (t *Transform) SetCenter(center physics.Vector2D) {
	if center.IsFinite() {
		t.center = center
	}
}

// Scale returns display units per meter
func (t *Transform) Scale() float64 {
	return t.scale
}

// ZoomFactor returns the multiplier applied per scroll step
func (t *Transform) ZoomFactor() float64 {
	return t.zoomFactor
}

// SetScale sets display units per meter. The value must be positive and
// finite; it is then clamped to [MinScale, MaxScale].
func (t *Transform) SetScale(scale float64) error {
	if math.IsNaN(scale) || math.IsInf(scale, 0) || scale <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidScale, scale)
	}
	t.scale = clampScale(scale)
	return nil
}

// ScreenScale converts a length in meters to display units
func (t *Transform) ScreenScale(meters float64) float64 {
	return meters * t.scale
}

// SimulationScale converts a length in display units to meters
func (t *Transform) SimulationScale(length float64) float64 {
	return length / t.scale
}

// ToScreen maps a simulation point to display space
func (t *Transform) ToScreen(p physics.Vector2D) physics.Vector2D {
	return physics.V2(
		t.center.X+t.scale*p.X,
		t.center.Y-t.scale*p.Y,
	)
}

// ToSimulation maps a display point to simulation space
func (t *Transform) ToSimulation(q physics.Vector2D) physics.Vector2D {
	return physics.V2(
		(q.X-t.center.X)/t.scale,
		-(q.Y-t.center.Y)/t.scale,
	)
}

// Pan moves the view by a display-space offset
func (t *Transform) Pan(offset physics.Vector2D) {
	t.SetCenter(t.center.Add(offset))
}

// ZoomAt changes the scale while keeping the simulation point under
// anchor fixed on screen. It returns the scale actually applied, which
// may differ from the request when the clamp engages.
func (t *Transform) ZoomAt(anchor physics.Vector2D, scale float64) float64 {
	if math.IsNaN(scale) || scale <= 0 || !anchor.IsFinite() {
		return t.scale
	}
	next := clampScale(scale)
	ratio := next / t.scale
	t.center = t.center.Add(t.center.Sub(anchor).Scale(ratio - 1))
	t.scale = next
	return next
}

// Update applies one tick of input. Dragging moves the view by the
// negated drag delta. A positive scroll zooms out by one step and a
// negative scroll zooms in, anchored at the scroll position.
func (t *Transform) Update(in Input) {
	if in.Dragging {
		t.Pan(in.DragDelta.Neg())
	}

	switch {
	case in.ScrollDelta > 0:
		t.ZoomAt(in.ScrollPosition, t.scale/t.zoomFactor)
	case in.ScrollDelta < 0:
		t.ZoomAt(in.ScrollPosition, t.scale*t.zoomFactor)
	}
}

// VisibleBounds returns the simulation-space rectangle covered by a
// viewport of the given display size whose top-left corner is (0, 0).
func (t *Transform) VisibleBounds(viewport physics.Vector2D) physics.Rect {
	return physics.RectFromCorners(
		t.ToSimulation(physics.Vector2D{}),
		t.ToSimulation(viewport),
	)
}

// Reset restores the origin to the viewport center and the given scale
func (t *Transform) Reset(viewport physics.Vector2D, scale float64) error {
	if err := t.SetScale(scale); err != nil {
		return err
	}
	t.SetCenter(viewport.Scale(0.5))
	return nil
}

func clampScale(scale float64) float64 {
	return math.Max(MinScale, math.Min(MaxScale, scale))
}
