// Package prediction computes the drag-free ballistic path of a shot in
// closed form. It is used to draw the expected trajectory next to the
// simulated one and never feeds back into the simulation.
package prediction

import (
	"errors"
	"fmt"
	"math"

	"github.com/opd-ai/go-cannon/pkg/physics"
)

var (
	// ErrNoRealSolution is returned when the parabola never reaches y = 0
	// at or after launch: a muzzle far below ground with almost no speed,
	// or one below ground aimed further down.
	ErrNoRealSolution = errors.New("trajectory never reaches the ground")
	// ErrInvalidInput is returned for non-finite inputs or non-positive gravity.
	ErrInvalidInput = errors.New("invalid trajectory input")
)

// Projection is the analytic trajectory of a drag-free shot fired from
// (OriginX, Height).
type Projection struct {
	Top           physics.Vector2D `json:"top"`
	TopTime       float64          `json:"topTime"`
	End           physics.Vector2D `json:"end"`
	EndTime       float64          `json:"endTime"`
	StartVelocity physics.Vector2D `json:"startVelocity"`
	Acceleration  float64          `json:"acceleration"`
	Height        float64          `json:"height"`
	OriginX       float64          `json:"originX"`
}

// Emitter is anything that can report a barrel angle (radians, measured
// from vertical) and a muzzle height.
type Emitter interface {
	Angle() float64
	Height() float64
}

// Predict solves y(t) = a·t² + b·t + c with a = -g/2, b = speed·sin(angle)
// and c = height. angle is the elevation above the horizontal. A ground
// crossing that would only happen before launch (t < 0) is reported as
// ErrNoRealSolution rather than as a landing behind the muzzle.
func Predict(angle, height, speed, g float64) (Projection, error) {
	for _, v := range []float64{angle, height, speed, g} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Projection{}, fmt.Errorf("%w: non-finite value %v", ErrInvalidInput, v)
		}
	}
	if g <= 0 {
		return Projection{}, fmt.Errorf("%w: gravity must be positive, got %v", ErrInvalidInput, g)
	}

	vx := speed * math.Cos(angle)
	vy := speed * math.Sin(angle)

	a := -0.5 * g
	b := vy
	c := height

	topTime := -b / (2 * a)
	top := physics.V2(vx*topTime, a*topTime*topTime+b*topTime+c)

	d := b*b - 4*a*c
	if d < 0 {
		return Projection{}, fmt.Errorf("%w: discriminant %v", ErrNoRealSolution, d)
	}

	// a < 0, so this root is the later one.
	endTime := (-b - math.Sqrt(d)) / (2 * a)
	if endTime < 0 {
		return Projection{}, fmt.Errorf("%w: ground crossing at t=%v is before launch", ErrNoRealSolution, endTime)
	}

	return Projection{
		Top:           top,
		TopTime:       topTime,
		End:           physics.V2(vx*endTime, 0),
		EndTime:       endTime,
		StartVelocity: physics.V2(vx, vy),
		Acceleration:  g,
		Height:        height,
	}, nil
}

// ElevationFromBarrel converts a barrel angle measured from vertical into
// an elevation angle measured from the horizontal.
func ElevationFromBarrel(barrel float64) float64 {
	return math.Pi/2 - barrel
}

// PredictFromCannon predicts the shot an emitter would fire at speed.
func PredictFromCannon(e Emitter, speed, g float64) (Projection, error) {
	return Predict(ElevationFromBarrel(e.Angle()), e.Height(), speed, g)
}

// At returns the same shot fired from horizontal position x
func (p Projection) At(x float64) Projection {
	dx := x - p.OriginX
	p.OriginX = x
	p.Top.X += dx
	p.End.X += dx
	return p
}

// PositionAt returns the drag-free position t seconds after launch
func (p Projection) PositionAt(t float64) physics.Vector2D {
	return physics.V2(
		p.OriginX+p.StartVelocity.X*t,
		-0.5*p.Acceleration*t*t+p.StartVelocity.Y*t+p.Height,
	)
}

// HeightAt returns the height of the curve at horizontal distance x. It
// reports false for a vertical shot, where y is not a function of x.
func (p Projection) HeightAt(x float64) (float64, bool) {
	if p.StartVelocity.X == 0 {
		return 0, false
	}
	t := (x - p.OriginX) / p.StartVelocity.X
	return p.PositionAt(t).Y, true
}

// Sample returns n evenly spaced points from launch to landing. n < 2
// yields just the launch and landing points.
func (p Projection) Sample(n int) []physics.Vector2D {
	if n < 2 {
		n = 2
	}
	points := make([]physics.Vector2D, n)
	step := p.EndTime / float64(n-1)
	for i := range points {
		points[i] = p.PositionAt(step * float64(i))
	}
	points[n-1] = p.End
	return points
}

// Range is the horizontal distance covered before landing.
func (p Projection) Range() float64 {
	return p.End.X - p.OriginX
}
