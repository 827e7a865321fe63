// pkg/entity/cannonball_test.go
package entity

import (
	"errors"
	"math"
	"testing"

	"github.com/opd-ai/go-cannon/pkg/physics"
	"github.com/opd-ai/go-cannon/pkg/prediction"
)

// flyUntilDone ticks b with a fixed step and fails the test if it never lands.
func flyUntilDone(t *testing.T, b *Cannonball, dt float64) {
	t.Helper()
	for i := 0; i < 10_000_000 && !b.IsDone(); i++ {
		b.Update(dt)
	}
	if !b.IsDone() {
		t.Fatal("cannonball never landed")
	}
}

func TestNewCannonball_InitialState(t *testing.T) {
	angle := math.Pi / 6
	b, err := NewCannonball(physics.V2(1, 2), angle, 10, nil)
	if err != nil {
		t.Fatalf("NewCannonball() error: %v", err)
	}

	want := physics.V2(math.Sin(angle)*10, math.Cos(angle)*10)
	if math.Abs(b.Velocity.X-want.X) > 1e-12 || math.Abs(b.Velocity.Y-want.Y) > 1e-12 {
		t.Errorf("velocity = %v, want %v", b.Velocity, want)
	}
	if b.Mass() != DefaultMass || b.Radius() != DefaultRadius {
		t.Errorf("mass/radius = %v/%v, want defaults", b.Mass(), b.Radius())
	}
	if b.IsDone() || b.ElapsedTime() != 0 || b.HistoryLen() != 0 {
		t.Errorf("new ball not fresh: done=%v elapsed=%v history=%d", b.IsDone(), b.ElapsedTime(), b.HistoryLen())
	}
	if b.Apex().Position != physics.V2(1, 2) || b.Apex().Time != 0 {
		t.Errorf("initial apex = %+v, want launch point at t=0", b.Apex())
	}
	if b.DragMode() != physics.DragOff {
		t.Errorf("nil air resistance should mean DragOff, got %v", b.DragMode())
	}
	if b.LaunchMode() != physics.DragOff {
		t.Errorf("nil air resistance should launch with DragOff, got %v", b.LaunchMode())
	}
	if b.Origin() != physics.V2(1, 2) {
		t.Errorf("Origin() = %v, want launch point", b.Origin())
	}
}

func TestNewCannonball_InvalidConfiguration(t *testing.T) {
	tests := []struct {
		name string
		opts []CannonballOption
	}{
		{"zero_mass", []CannonballOption{WithMass(0)}},
		{"negative_mass", []CannonballOption{WithMass(-1)}},
		{"nan_mass", []CannonballOption{WithMass(math.NaN())}},
		{"zero_radius", []CannonballOption{WithRadius(0)}},
		{"inf_radius", []CannonballOption{WithRadius(math.Inf(1))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCannonball(physics.Vector2D{}, 0, 10, nil, tt.opts...)
			if !errors.Is(err, ErrInvalidConfiguration) {
				t.Errorf("error = %v, want ErrInvalidConfiguration", err)
			}
		})
	}

	if _, err := NewCannonball(physics.Vector2D{}, 0, math.NaN(), nil); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("NaN speed error = %v, want ErrInvalidConfiguration", err)
	}
}

func TestCannonball_SingleStep(t *testing.T) {
	b, err := NewCannonball(physics.V2(0, 1), 0, 10, nil)
	if err != nil {
		t.Fatal(err)
	}

	b.Update(0.1)

	// v = 10 - 9.82·0.1, then y = 1 + v·0.1
	wantVY := 10 - physics.GravityAcceleration*0.1
	if math.Abs(b.Velocity.Y-wantVY) > 1e-12 {
		t.Errorf("vy = %v, want %v", b.Velocity.Y, wantVY)
	}
	if math.Abs(b.Position.Y-(1+wantVY*0.1)) > 1e-12 {
		t.Errorf("y = %v, want %v", b.Position.Y, 1+wantVY*0.1)
	}
	if b.ElapsedTime() != 0.1 {
		t.Errorf("elapsed = %v, want 0.1", b.ElapsedTime())
	}
	if h := b.History(); len(h) != 1 || h[0] != physics.V2(0, 1) {
		t.Errorf("history = %v, want [launch point]", h)
	}
	if b.Apex().Position != b.Position || b.Apex().Time != 0.1 {
		t.Errorf("apex = %+v, want current position at 0.1s", b.Apex())
	}
}

func TestCannonball_DoneIsPermanent(t *testing.T) {
	b, err := NewCannonball(physics.V2(0, 0.5), math.Pi/4, 3, NewAirResistance(physics.DragRealistic, physics.DefaultMedium()))
	if err != nil {
		t.Fatal(err)
	}

	flyUntilDone(t, b, 0.01)

	landed := b.Position
	historyLen := b.HistoryLen()
	elapsed := b.ElapsedTime()

	if landed.Y >= 0 {
		t.Errorf("done with y = %v, want below ground", landed.Y)
	}
	h := b.History()
	if h[len(h)-1] != landed {
		t.Errorf("last history sample %v, want landing position %v", h[len(h)-1], landed)
	}
	if h[len(h)-2].Y < 0 {
		t.Errorf("sample before landing %v already below ground", h[len(h)-2])
	}

	for i := 0; i < 100; i++ {
		b.Update(0.01)
		if !b.IsDone() {
			t.Fatal("ball became airborne again")
		}
	}

	if b.Position != landed {
		t.Errorf("position moved after landing: %v -> %v", landed, b.Position)
	}
	if b.HistoryLen() != historyLen {
		t.Errorf("history grew after landing: %d -> %d", historyLen, b.HistoryLen())
	}
	if b.ElapsedTime() != elapsed {
		t.Errorf("elapsed advanced after landing: %v -> %v", elapsed, b.ElapsedTime())
	}
}

func TestCannonball_StartsBelowGround(t *testing.T) {
	b, err := NewCannonball(physics.V2(2, -1), 0, 10, nil)
	if err != nil {
		t.Fatal(err)
	}

	b.Update(0.01)

	if !b.IsDone() {
		t.Error("ball below ground should be done after one update")
	}
	if b.Position != physics.V2(2, -1) {
		t.Errorf("position = %v, want unchanged", b.Position)
	}
	if b.HistoryLen() != 1 || b.ElapsedTime() != 0 {
		t.Errorf("history=%d elapsed=%v, want 1 and 0", b.HistoryLen(), b.ElapsedTime())
	}
}

func TestCannonball_Touchdown(t *testing.T) {
	t.Run("no_history", func(t *testing.T) {
		b, _ := NewCannonball(physics.V2(1, 1), 0, 1, nil)
		got, ok := b.Touchdown()
		if ok || got != b.Position {
			t.Errorf("Touchdown() = %v, %v; want current position, false", got, ok)
		}
	})

	t.Run("degenerate_equal_heights", func(t *testing.T) {
		b, _ := NewCannonball(physics.V2(1, 1), 0, 1, nil)
		b.Update(0)
		b.Update(0)
		got, ok := b.Touchdown()
		if ok || got != b.Position {
			t.Errorf("Touchdown() = %v, %v; want current position, false", got, ok)
		}
		if !got.IsFinite() {
			t.Errorf("Touchdown() produced non-finite %v", got)
		}
	})

	t.Run("interpolated_landing", func(t *testing.T) {
		// Horizontal shot at 3 m/s from 4.91 m lands at x = 3 without drag.
		b, _ := NewCannonball(physics.V2(0, 4.91), math.Pi/2, 3, nil)
		flyUntilDone(t, b, 0.001)

		got, ok := b.Touchdown()
		if !ok {
			t.Fatal("Touchdown() not available after landing")
		}
		if got.Y != 0 {
			t.Errorf("touchdown y = %v, want 0", got.Y)
		}
		if math.Abs(got.X-3) > 1e-2 {
			t.Errorf("touchdown x = %v, want about 3", got.X)
		}
		h := b.History()
		p1, p2 := h[len(h)-2], h[len(h)-1]
		if got.X < p1.X || got.X > p2.X {
			t.Errorf("touchdown %v not between last samples %v and %v", got, p1, p2)
		}
	})
}

func TestCannonball_ApexMatchesPrediction(t *testing.T) {
	tests := []struct {
		name   string
		barrel float64
		speed  float64
	}{
		{"forty_five", math.Pi / 4, 10},
		{"steep", math.Pi / 12, 15},
		{"shallow", math.Pi / 3, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewCannonball(physics.Vector2D{}, tt.barrel, tt.speed, NewAirResistance(physics.DragOff, physics.DefaultMedium()))
			if err != nil {
				t.Fatal(err)
			}
			flyUntilDone(t, b, 1e-4)

			want, err := prediction.Predict(prediction.ElevationFromBarrel(tt.barrel), 0, tt.speed, physics.GravityAcceleration)
			if err != nil {
				t.Fatal(err)
			}

			apex := b.Apex()
			if rel := math.Abs(apex.Position.Y-want.Top.Y) / want.Top.Y; rel > 1e-2 {
				t.Errorf("apex y = %v, predicted %v (rel err %v)", apex.Position.Y, want.Top.Y, rel)
			}
			if rel := math.Abs(apex.Time-want.TopTime) / want.TopTime; rel > 1e-2 {
				t.Errorf("apex time = %v, predicted %v (rel err %v)", apex.Time, want.TopTime, rel)
			}

			touchdown, ok := b.Touchdown()
			if !ok {
				t.Fatal("no touchdown estimate")
			}
			if rel := math.Abs(touchdown.X-want.End.X) / want.End.X; rel > 1e-2 {
				t.Errorf("range = %v, predicted %v (rel err %v)", touchdown.X, want.End.X, rel)
			}
		})
	}
}

func TestCannonball_DragOffFollowsPredictedPath(t *testing.T) {
	const dt = 1e-3
	barrel := math.Pi / 5
	b, err := NewCannonball(physics.V2(0, 1.5), barrel, 12, nil)
	if err != nil {
		t.Fatal(err)
	}
	p, err := prediction.Predict(prediction.ElevationFromBarrel(barrel), 1.5, 12, physics.GravityAcceleration)
	if err != nil {
		t.Fatal(err)
	}

	for !b.IsDone() {
		b.Update(dt)
		if b.IsDone() {
			break
		}
		want := p.PositionAt(b.ElapsedTime())
		if b.Position.Distance(want) > 2e-2 {
			t.Fatalf("at t=%v position %v, predicted %v", b.ElapsedTime(), b.Position, want)
		}
	}
}

func TestCannonball_RangeOrderingByDragMode(t *testing.T) {
	ranges := make(map[physics.DragMode]float64)
	for _, mode := range []physics.DragMode{physics.DragOff, physics.DragRealistic, physics.DragExaggerated} {
		b, err := NewCannonball(physics.V2(0, 0.1), math.Pi/4, 7, NewAirResistance(mode, physics.DefaultMedium()))
		if err != nil {
			t.Fatal(err)
		}
		flyUntilDone(t, b, 1e-3)
		td, ok := b.Touchdown()
		if !ok {
			t.Fatalf("%v: no touchdown", mode)
		}
		ranges[mode] = td.X
	}

	if !(ranges[physics.DragOff] > ranges[physics.DragRealistic]) {
		t.Errorf("off range %v not greater than realistic %v", ranges[physics.DragOff], ranges[physics.DragRealistic])
	}
	if !(ranges[physics.DragRealistic] > ranges[physics.DragExaggerated]) {
		t.Errorf("realistic range %v not greater than exaggerated %v", ranges[physics.DragRealistic], ranges[physics.DragExaggerated])
	}
}

func TestCannonball_DragModeChangesMidFlight(t *testing.T) {
	air := NewAirResistance(physics.DragOff, physics.DefaultMedium())
	b, err := NewCannonball(physics.Vector2D{}, math.Pi/4, 10, air)
	if err != nil {
		t.Fatal(err)
	}

	b.Update(0.01)
	if prev := air.SetMode(physics.DragExaggerated); prev != physics.DragOff {
		t.Errorf("SetMode returned previous %v, want off", prev)
	}
	if b.DragMode() != physics.DragExaggerated {
		t.Errorf("ball sees %v, want exaggerated", b.DragMode())
	}
	if b.LaunchMode() != physics.DragOff {
		t.Errorf("LaunchMode() = %v, want off", b.LaunchMode())
	}

	vx := b.Velocity.X
	b.Update(0.01)
	if b.Velocity.X >= vx {
		t.Errorf("vx did not decrease under drag: %v -> %v", vx, b.Velocity.X)
	}
}

func TestCannonball_HistoryIsCopy(t *testing.T) {
	b, _ := NewCannonball(physics.V2(0, 1), 0, 5, nil)
	b.Update(0.01)
	h := b.History()
	h[0] = physics.V2(99, 99)
	if b.History()[0] == physics.V2(99, 99) {
		t.Error("History() exposes internal slice")
	}
}

func BenchmarkCannonball_Update(b *testing.B) {
	air := NewAirResistance(physics.DragRealistic, physics.DefaultMedium())
	ball, _ := NewCannonball(physics.V2(0, 1e9), math.Pi/4, 10, air)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ball.Update(1e-6)
	}
}
