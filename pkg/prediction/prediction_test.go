package prediction

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/go-cannon/pkg/physics"
)

const g = physics.GravityAcceleration

func TestPredict_FortyFiveDegrees(t *testing.T) {
	p, err := Predict(math.Pi/4, 0, 10, g)
	require.NoError(t, err)

	vy := 10 * math.Sin(math.Pi/4)
	assert.InDelta(t, vy/g, p.TopTime, 1e-12)
	assert.InDelta(t, 0.7201, p.TopTime, 1e-3)
	assert.InDelta(t, 2.546, p.Top.Y, 1e-3)
	assert.InDelta(t, 2*p.TopTime, p.EndTime, 1e-12)
	assert.InDelta(t, 1.4401, p.EndTime, 1e-3)
	assert.InDelta(t, 100/g, p.End.X, 1e-9)
	assert.InDelta(t, 10.18, p.End.X, 1e-2)
	assert.Equal(t, 0.0, p.End.Y)
	assert.InDelta(t, p.End.X/2, p.Top.X, 1e-12)

	assert.Equal(t, g, p.Acceleration)
	assert.Equal(t, 0.0, p.Height)
	assert.InDelta(t, vy, p.StartVelocity.Y, 1e-12)
	assert.InDelta(t, 10*math.Cos(math.Pi/4), p.StartVelocity.X, 1e-12)
}

func TestPredict_FromHeight(t *testing.T) {
	// Horizontal shot from 4.91 m falls for exactly one second.
	p, err := Predict(0, 4.91, 3, g)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, p.EndTime, 1e-12)
	assert.InDelta(t, 3.0, p.End.X, 1e-12)
	assert.Equal(t, 0.0, p.TopTime)
	assert.InDelta(t, 4.91, p.Top.Y, 1e-12)
}

func TestPredict_NoRealSolution(t *testing.T) {
	tests := []struct {
		name                 string
		angle, height, speed float64
	}{
		{"discriminant below zero", 0, -1000, 0.001},
		{"below ground aimed down", -math.Pi / 4, -1, 10},
		{"below ground aimed flat", 0, -0.5, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Predict(tt.angle, tt.height, tt.speed, g)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrNoRealSolution)
			assert.Equal(t, Projection{}, p)
		})
	}
}

func TestPredict_BelowGroundAimedUpLands(t *testing.T) {
	p, err := Predict(math.Pi/4, -0.5, 10, g)
	require.NoError(t, err)
	assert.Greater(t, p.EndTime, 0.0)
	assert.Greater(t, p.End.X, 0.0)
}

func TestPredict_InvalidInput(t *testing.T) {
	tests := []struct {
		name                       string
		angle, height, speed, grav float64
	}{
		{"zero gravity", 0.5, 0, 10, 0},
		{"negative gravity", 0.5, 0, 10, -9.82},
		{"nan angle", math.NaN(), 0, 10, g},
		{"inf speed", 0.5, 0, math.Inf(1), g},
		{"nan height", 0.5, math.NaN(), 10, g},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Predict(tt.angle, tt.height, tt.speed, tt.grav)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestPredict_LandingIsRoot(t *testing.T) {
	cases := []struct {
		angle, height, speed float64
	}{
		{math.Pi / 6, 0, 20},
		{math.Pi / 3, 1.5, 7},
		{-math.Pi / 8, 10, 4},
		{math.Pi / 2, 0, 12},
	}

	for _, c := range cases {
		p, err := Predict(c.angle, c.height, c.speed, g)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, p.EndTime, 0.0)
		assert.InDelta(t, 0.0, p.PositionAt(p.EndTime).Y, 1e-9)
		assert.InDelta(t, p.Top.Y, p.PositionAt(p.TopTime).Y, 1e-12)
		assert.GreaterOrEqual(t, p.Top.Y, p.PositionAt(p.EndTime/3).Y-1e-12)
	}
}

func TestElevationFromBarrel(t *testing.T) {
	assert.InDelta(t, math.Pi/2, ElevationFromBarrel(0), 1e-15)
	assert.InDelta(t, math.Pi/4, ElevationFromBarrel(math.Pi/4), 1e-15)
	assert.InDelta(t, 0.0, ElevationFromBarrel(math.Pi/2), 1e-15)
}

type fixedEmitter struct{ angle, height float64 }

func (f fixedEmitter) Angle() float64  { return f.angle }
func (f fixedEmitter) Height() float64 { return f.height }

func TestPredictFromCannon(t *testing.T) {
	// A barrel tilted 30 degrees from vertical fires at 60 degrees elevation.
	barrel := physics.DegreesToRadians(30)
	fromCannon, err := PredictFromCannon(fixedEmitter{angle: barrel, height: 0.2}, 8, g)
	require.NoError(t, err)

	direct, err := Predict(physics.DegreesToRadians(60), 0.2, 8, g)
	require.NoError(t, err)

	assert.InDelta(t, direct.EndTime, fromCannon.EndTime, 1e-12)
	assert.InDelta(t, direct.End.X, fromCannon.End.X, 1e-12)

	// Same launch velocity as a Cannonball: (sin(barrel)·v, cos(barrel)·v).
	assert.InDelta(t, math.Sin(barrel)*8, fromCannon.StartVelocity.X, 1e-12)
	assert.InDelta(t, math.Cos(barrel)*8, fromCannon.StartVelocity.Y, 1e-12)
}

func TestProjection_HeightAt(t *testing.T) {
	p, err := Predict(math.Pi/4, 1, 10, g)
	require.NoError(t, err)

	y, ok := p.HeightAt(0)
	require.True(t, ok)
	assert.InDelta(t, 1.0, y, 1e-12)

	y, ok = p.HeightAt(p.Top.X)
	require.True(t, ok)
	assert.InDelta(t, p.Top.Y, y, 1e-12)

	y, ok = p.HeightAt(p.End.X)
	require.True(t, ok)
	assert.InDelta(t, 0.0, y, 1e-9)

	vertical, err := Predict(math.Pi/2, 0, 10, g)
	require.NoError(t, err)
	_, ok = vertical.HeightAt(1)
	assert.False(t, ok)
}

func TestProjection_Sample(t *testing.T) {
	p, err := Predict(math.Pi/3, 0.5, 12, g)
	require.NoError(t, err)

	points := p.Sample(50)
	require.Len(t, points, 50)
	assert.Equal(t, physics.V2(0, 0.5), points[0])
	assert.Equal(t, p.End, points[49])
	for i := 1; i < len(points); i++ {
		assert.Greater(t, points[i].X, points[i-1].X)
	}

	assert.Len(t, p.Sample(0), 2)
	assert.InDelta(t, p.End.X, p.Range(), 0)
}

func TestProjection_At(t *testing.T) {
	p, err := Predict(math.Pi/4, 1, 10, g)
	require.NoError(t, err)

	shifted := p.At(3)
	assert.Equal(t, 3.0, shifted.OriginX)
	assert.InDelta(t, p.Top.X+3, shifted.Top.X, 1e-12)
	assert.InDelta(t, p.End.X+3, shifted.End.X, 1e-12)
	assert.InDelta(t, p.Range(), shifted.Range(), 1e-12)
	assert.Equal(t, physics.V2(3, 1), shifted.PositionAt(0))

	y, ok := shifted.HeightAt(shifted.Top.X)
	require.True(t, ok)
	assert.InDelta(t, p.Top.Y, y, 1e-12)

	back := shifted.At(0)
	assert.InDelta(t, p.End.X, back.End.X, 1e-12)
}
