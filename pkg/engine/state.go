// pkg/engine/state.go
package engine

import (
	"github.com/EngoEngine/ecs"

	"github.com/opd-ai/go-cannon/pkg/entity"
	"github.com/opd-ai/go-cannon/pkg/physics"
)

// State is a point-in-time copy of the simulation for renderers, HUDs
// and tests.
type State struct {
	Tick           uint64
	Elapsed        float64
	Running        bool
	DragMode       physics.DragMode
	LaunchSpeed    float64
	Elevation      float64
	Height         float64
	ShowPrediction bool
	Pending        int
	Balls          []BallState
}

// BallState represents a snapshot of one cannonball
type BallState struct {
	ID        entity.ID
	Position  physics.Vector2D
	Velocity  physics.Vector2D
	Done      bool
	Elapsed   float64
	Apex      entity.Apex
	Touchdown physics.Vector2D
	Landed    bool
	Range     float64
	DragMode  physics.DragMode
}

// Airborne counts balls still in flight
func (st State) Airborne() int {
	n := 0
	for _, b := range st.Balls {
		if !b.Done {
			n++
		}
	}
	return n
}

// Snapshot returns a copy of the current state. Queued balls are counted
// in Pending but not listed until they join the world.
func (s *Simulation) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := State{
		Tick:           s.tick,
		Elapsed:        s.elapsed,
		Running:        s.running,
		DragMode:       s.air.Mode(),
		LaunchSpeed:    s.launchSpeed,
		Elevation:      s.Cannon.ElevationDegrees(),
		Height:         s.Profile.Height(),
		ShowPrediction: s.showPrediction,
		Pending:        len(s.pending),
		Balls:          make([]BallState, 0, s.balls.Len()),
	}

	s.balls.Each(func(_ ecs.BasicEntity, ball *entity.Cannonball) {
		bs := BallState{
			ID:       ball.GetID(),
			Position: ball.GetPosition(),
			Velocity: ball.GetVelocity(),
			Done:     ball.IsDone(),
			Elapsed:  ball.ElapsedTime(),
			Apex:     ball.Apex(),
			DragMode: ball.DragMode(),
		}
		if bs.Done {
			bs.Touchdown, bs.Landed = ball.Touchdown()
			bs.Range = bs.Touchdown.X - ball.Origin().X
		}
		st.Balls = append(st.Balls, bs)
	})

	return st
}
