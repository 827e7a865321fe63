// pkg/engine/simulation.go
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/EngoEngine/ecs"

	"github.com/opd-ai/go-cannon/pkg/config"
	"github.com/opd-ai/go-cannon/pkg/entity"
	"github.com/opd-ai/go-cannon/pkg/event"
	"github.com/opd-ai/go-cannon/pkg/logging"
	"github.com/opd-ai/go-cannon/pkg/physics"
	"github.com/opd-ai/go-cannon/pkg/prediction"
	"github.com/opd-ai/go-cannon/pkg/telemetry"
	"github.com/opd-ai/go-cannon/pkg/validation"
)

// Simulation owns the cannon, the balls in flight and the clock that
// steps them. Newly fired balls wait in a queue and join the world at
// the start of the next Tick or Render.
type Simulation struct {
	Config   *config.SimulationConfig
	Cannon   *entity.Cannon
	Profile  *entity.ExperimentProfile
	EventBus *event.Bus

	mu       sync.Mutex
	air      *entity.AirResistance
	world    ecs.World
	balls    *CannonballSystem
	pending  []*entity.Cannonball
	outbox   []event.Event
	runID    string
	logger   *logging.Logger
	recorder *telemetry.Recorder
	now      func() time.Time

	launchSpeed    float64
	showPrediction bool
	running        bool
	tick           uint64
	elapsed        float64
	lastUpdate     time.Time
}

// Option customizes a Simulation
type Option func(*Simulation)

// WithLogger replaces the default stdout logger
func WithLogger(logger *logging.Logger) Option {
	return func(s *Simulation) { s.logger = logger }
}

// WithRecorder replaces the recorder built on the global meter provider
func WithRecorder(recorder *telemetry.Recorder) Option {
	return func(s *Simulation) { s.recorder = recorder }
}

// WithEventBus publishes to an existing bus
func WithEventBus(bus *event.Bus) Option {
	return func(s *Simulation) { s.EventBus = bus }
}

// WithClock sets the time source used by Update
func WithClock(now func() time.Time) Option {
	return func(s *Simulation) { s.now = now }
}

// NewSimulation creates a simulation with the specified configuration.
// A nil cfg means config.DefaultConfig().
func NewSimulation(cfg *config.SimulationConfig, opts ...Option) (*Simulation, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	profile, err := entity.NewExperimentProfile(cfg.Cannon.AngleDegrees, cfg.Cannon.Height)
	if err != nil {
		return nil, fmt.Errorf("cannon profile: %w", err)
	}

	s := &Simulation{
		Config:         cfg,
		Cannon:         entity.NewCannon(physics.V2(cfg.Cannon.X, cfg.Cannon.Y), profile),
		Profile:        profile,
		air:            entity.NewAirResistance(cfg.Launch.DragMode, cfg.Physics.Medium()),
		balls:          NewCannonballSystem(cfg.Loop.MaxFlightTime),
		runID:          logging.NewRunID(),
		now:            time.Now,
		launchSpeed:    cfg.Launch.Speed,
		showPrediction: cfg.Launch.ShowPrediction,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.EventBus == nil {
		s.EventBus = event.NewEventBus()
	}
	if s.logger == nil {
		s.logger = logging.NewLogger()
	}
	s.logger = s.logger.With("simulation", cfg.Name)
	if s.recorder == nil {
		if s.recorder, err = telemetry.NewDefaultRecorder(); err != nil {
			return nil, fmt.Errorf("telemetry: %w", err)
		}
	}

	s.balls.observer = s
	s.world.AddSystem(s.balls)
	s.lastUpdate = s.now()

	return s, nil
}

// RunID identifies this simulation in log lines
func (s *Simulation) RunID() string {
	return s.runID
}

// Context returns ctx carrying this simulation's run ID unless it
// already has one.
func (s *Simulation) Context(ctx context.Context) context.Context {
	if logging.GetRunID(ctx) != "" {
		return ctx
	}
	return logging.WithRunID(ctx, s.runID)
}

func (s *Simulation) runContext() context.Context {
	return logging.WithRunID(context.Background(), s.runID)
}

// Start marks the simulation running and resets the wall clock
func (s *Simulation) Start() {
	s.mu.Lock()
	s.running = true
	s.lastUpdate = s.now()
	tick, balls := s.tick, s.countLocked()
	s.mu.Unlock()

	s.logger.Info(s.runContext(), "simulation started",
		"drag_mode", s.air.Mode().String(),
		"launch_speed", s.LaunchSpeed())
	s.EventBus.Publish(event.NewSimulationEvent(event.SimulationStarted, s, tick, balls))
}

// Stop marks the simulation stopped. Tick still works; Stop only
// affects IsRunning and listeners.
func (s *Simulation) Stop() {
	s.mu.Lock()
	s.running = false
	tick, balls := s.tick, s.countLocked()
	s.mu.Unlock()

	s.logger.Info(s.runContext(), "simulation stopped", "tick", tick, "balls", balls)
	s.EventBus.Publish(event.NewSimulationEvent(event.SimulationStopped, s, tick, balls))
}

// IsRunning reports whether Start was called more recently than Stop
func (s *Simulation) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Update advances the simulation by the wall-clock time since the last
// Update or Start.
func (s *Simulation) Update() {
	s.mu.Lock()
	deltaTime := s.calculateDeltaTime()
	s.mu.Unlock()

	s.Tick(deltaTime)
}

// calculateDeltaTime returns the time since the last update, capped by
// Loop.MaxDeltaTime when that is set.
func (s *Simulation) calculateDeltaTime() float64 {
	now := s.now()
	deltaTime := now.Sub(s.lastUpdate).Seconds()
	s.lastUpdate = now

	if limit := s.Config.Loop.MaxDeltaTime; limit > 0 && deltaTime > limit {
		deltaTime = limit
	}
	return deltaTime
}

// Tick advances every ball by deltaTime seconds. Queued balls join the
// world first. A non-positive or NaN deltaTime only flushes the queue.
func (s *Simulation) Tick(deltaTime float64) {
	s.mu.Lock()
	s.flushPending()
	if deltaTime > 0 {
		s.world.Update(float32(deltaTime))
		for _, basic := range s.balls.Expired() {
			s.world.RemoveEntity(basic)
		}
		s.elapsed += deltaTime
	}
	s.tick++
	events := s.outbox
	s.outbox = nil
	s.mu.Unlock()

	for _, e := range events {
		s.EventBus.Publish(e)
	}
}

// flushPending moves queued balls into the world
func (s *Simulation) flushPending() {
	for _, ball := range s.pending {
		basic := ecs.NewBasic()
		s.balls.Add(&basic, ball)
	}
	s.pending = nil
}

// Fire launches a ball from the cannon's muzzle with the current speed,
// aim and drag mode. The ball is queued and starts moving on the next
// Tick.
func (s *Simulation) Fire(ctx context.Context) (*entity.Cannonball, error) {
	ctx = s.Context(ctx)

	s.mu.Lock()
	ball, err := s.Cannon.Fire(s.launchSpeed, s.air,
		entity.WithMass(s.Config.Projectile.Mass),
		entity.WithRadius(s.Config.Projectile.Radius),
	)
	if err != nil {
		s.mu.Unlock()
		s.logger.Error(ctx, "failed to fire cannonball", err)
		return nil, err
	}
	s.pending = append(s.pending, ball)
	elapsed := s.elapsed
	s.mu.Unlock()

	mode := ball.LaunchMode()
	s.recorder.RecordLaunch(ctx, mode)
	s.logger.Info(ctx, "cannonball fired",
		"ball_id", uint64(ball.GetID()),
		"angle_degrees", s.Cannon.ElevationDegrees(),
		"speed", ball.GetVelocity().Length(),
		"drag_mode", mode.String())
	s.EventBus.Publish(event.NewCannonballEvent(
		event.CannonballFired, s, uint64(ball.GetID()),
		ball.GetPosition(), ball.GetVelocity(), elapsed,
	))

	return ball, nil
}

// Render draws the cannon, the predicted path when enabled and every
// ball, framed by Clear and Present.
func (s *Simulation) Render(r entity.Renderer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.flushPending()

	r.Clear()
	s.Cannon.Render(r)
	if s.showPrediction {
		if p, err := s.projectionLocked(); err == nil {
			r.RenderPrediction(p)
		}
	}
	s.balls.Each(func(_ ecs.BasicEntity, ball *entity.Cannonball) {
		ball.Render(r)
	})
	r.Present()
}

// RemoveWhere drops every ball, queued or in the world, for which pred
// returns true, and returns how many were dropped.
func (s *Simulation) RemoveWhere(pred func(*entity.Cannonball) bool) int {
	s.mu.Lock()
	removed, airborne := s.removeWhereLocked(pred)
	s.mu.Unlock()

	ctx := s.runContext()
	for mode, n := range airborne {
		s.recorder.RecordRemoved(ctx, mode, n)
	}
	return removed
}

func (s *Simulation) removeWhereLocked(pred func(*entity.Cannonball) bool) (int, map[physics.DragMode]int) {
	removed := 0
	airborne := make(map[physics.DragMode]int)

	kept := s.pending[:0]
	for _, ball := range s.pending {
		if pred(ball) {
			removed++
			airborne[ball.LaunchMode()]++
			continue
		}
		kept = append(kept, ball)
	}
	s.pending = kept

	var doomed []ecs.BasicEntity
	s.balls.Each(func(basic ecs.BasicEntity, ball *entity.Cannonball) {
		if !pred(ball) {
			return
		}
		doomed = append(doomed, basic)
		if !ball.IsDone() {
			airborne[ball.LaunchMode()]++
		}
	})
	for _, basic := range doomed {
		s.world.RemoveEntity(basic)
	}
	removed += len(doomed)

	return removed, airborne
}

// ClearLanded drops balls that have hit the ground
func (s *Simulation) ClearLanded() int {
	return s.clear(func(b *entity.Cannonball) bool { return b.IsDone() })
}

// Clear drops every ball
func (s *Simulation) Clear() int {
	return s.clear(func(*entity.Cannonball) bool { return true })
}

func (s *Simulation) clear(pred func(*entity.Cannonball) bool) int {
	removed := s.RemoveWhere(pred)
	if removed == 0 {
		return 0
	}

	s.mu.Lock()
	tick, balls := s.tick, s.countLocked()
	s.mu.Unlock()

	s.logger.Debug(s.runContext(), "cannonballs cleared", "removed", removed, "remaining", balls)
	s.EventBus.Publish(event.NewSimulationEvent(event.CannonballsCleared, s, tick, balls))
	return removed
}

// Projection predicts the drag-free path of the next shot
func (s *Simulation) Projection() (prediction.Projection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.projectionLocked()
}

func (s *Simulation) projectionLocked() (prediction.Projection, error) {
	muzzle := s.Cannon.Muzzle()
	p, err := prediction.Predict(
		prediction.ElevationFromBarrel(s.Profile.Angle()),
		muzzle.Y,
		s.launchSpeed,
		s.Config.Physics.Gravity,
	)
	if err != nil {
		return prediction.Projection{}, err
	}
	return p.At(muzzle.X), nil
}

// SetDragMode changes the drag applied to every ball from the next step
// on and returns the previous mode.
func (s *Simulation) SetDragMode(mode physics.DragMode) (physics.DragMode, error) {
	if !mode.Valid() {
		return s.air.Mode(), fmt.Errorf("unknown drag mode %v", mode)
	}
	prev := s.air.SetMode(mode)
	if prev != mode {
		s.logger.Info(s.runContext(), "drag mode changed",
			"previous", prev.String(),
			"current", mode.String())
		s.EventBus.Publish(event.NewDragModeEvent(s, prev, mode))
	}
	return prev, nil
}

// CycleDragMode switches to the next drag mode
func (s *Simulation) CycleDragMode() physics.DragMode {
	next := s.air.Mode().Next()
	_, _ = s.SetDragMode(next)
	return next
}

// DragMode returns the current drag mode
func (s *Simulation) DragMode() physics.DragMode {
	return s.air.Mode()
}

// SetShowPrediction toggles drawing of the predicted path
func (s *Simulation) SetShowPrediction(show bool) {
	s.mu.Lock()
	s.showPrediction = show
	s.mu.Unlock()
}

// ShowPrediction reports whether the predicted path is drawn
func (s *Simulation) ShowPrediction() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.showPrediction
}

// SetLaunchSpeed sets the muzzle speed used by later shots
func (s *Simulation) SetLaunchSpeed(speed float64) error {
	if err := validation.ValidateLaunchSpeed(speed); err != nil {
		return err
	}
	s.mu.Lock()
	s.launchSpeed = speed
	s.mu.Unlock()
	return nil
}

// LaunchSpeed returns the muzzle speed used by later shots
func (s *Simulation) LaunchSpeed() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.launchSpeed
}

// Aim sets the barrel elevation above the horizontal in degrees
func (s *Simulation) Aim(elevationDegrees float64) error {
	return s.Profile.SetAngleDegrees(90 - elevationDegrees)
}

// SetHeight moves the muzzle up or down
func (s *Simulation) SetHeight(height float64) error {
	return s.Profile.SetHeight(height)
}

func (s *Simulation) countLocked() int {
	return s.balls.Len() + len(s.pending)
}

func (s *Simulation) apexReached(ball *entity.Cannonball) {
	apex := ball.Apex()
	s.logger.Debug(s.runContext(), "cannonball reached apex",
		"ball_id", uint64(ball.GetID()),
		"height", apex.Position.Y,
		"time", apex.Time)
	s.outbox = append(s.outbox, event.NewCannonballEvent(
		event.ApexReached, s, uint64(ball.GetID()),
		apex.Position, ball.GetVelocity(), apex.Time,
	))
}

func (s *Simulation) landed(ball *entity.Cannonball) {
	ctx := s.runContext()
	touchdown, interpolated := ball.Touchdown()

	landing := telemetry.Landing{
		Mode:       ball.LaunchMode(),
		FlightTime: ball.ElapsedTime(),
		Range:      touchdown.X - ball.Origin().X,
		Apex:       ball.Apex().Position.Y,
	}
	s.recorder.RecordLanding(ctx, landing)
	s.logger.Info(ctx, "cannonball landed",
		"ball_id", uint64(ball.GetID()),
		"range", landing.Range,
		"flight_time", landing.FlightTime,
		"apex", landing.Apex,
		"drag_mode", landing.Mode.String(),
		"interpolated", interpolated)
	s.outbox = append(s.outbox, event.NewCannonballEvent(
		event.CannonballLanded, s, uint64(ball.GetID()),
		touchdown, ball.GetVelocity(), ball.ElapsedTime(),
	))
}

func (s *Simulation) expired(ball *entity.Cannonball) {
	ctx := s.runContext()
	s.logger.Warn(ctx, "cannonball exceeded flight time limit",
		"ball_id", uint64(ball.GetID()),
		"elapsed", ball.ElapsedTime(),
		"limit", s.Config.Loop.MaxFlightTime)
	s.recorder.RecordRemoved(ctx, ball.LaunchMode(), 1)
}
