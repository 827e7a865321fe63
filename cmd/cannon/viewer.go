// cmd/cannon/viewer.go
package main

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/opd-ai/go-cannon/pkg/engine"
	"github.com/opd-ai/go-cannon/pkg/logging"
	"github.com/opd-ai/go-cannon/pkg/physics"
	"github.com/opd-ai/go-cannon/pkg/render"
	"github.com/opd-ai/go-cannon/pkg/view"
)

// Keyboard adjustment steps
const (
	angleStep  = 1.0
	speedStep  = 0.5
	heightStep = 0.05
	frameTime  = 16 * time.Millisecond
)

// viewer connects a tcell screen to a simulation: it turns terminal
// events into simulation and view changes and draws a frame per tick.
type viewer struct {
	screen    tcell.Screen
	sim       *engine.Simulation
	transform *view.Transform
	input     *view.InputState
	renderer  *render.TerminalRenderer
	logger    *logging.Logger
	scale     float64
	dragging  bool
	grid      bool
}

func newViewer(screen tcell.Screen, sim *engine.Simulation, logger *logging.Logger) (*viewer, error) {
	w, h := screen.Size()
	viewport := physics.V2(float64(w), float64(h*render.CellAspect))

	// Terminal cells are much coarser than pixels.
	scale := sim.Config.View.Scale / 10
	transform, err := view.NewTransform(viewport, scale, view.WithZoomFactor(sim.Config.View.ZoomFactor))
	if err != nil {
		return nil, fmt.Errorf("view transform: %w", err)
	}
	// Put the ground near the bottom and the cannon near the left edge.
	transform.SetCenter(physics.V2(viewport.X/5, viewport.Y*0.8))

	return &viewer{
		screen:    screen,
		sim:       sim,
		transform: transform,
		input:     view.NewInputState(),
		renderer:  render.NewTerminalRenderer(screen, transform),
		logger:    logger,
		scale:     scale,
		grid:      true,
	}, nil
}

// run drives the loop until ctx is done or the user quits
func (v *viewer) run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ticker := time.NewTicker(frameTime)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go pollEvents(ctx, v.screen, eventChan)

	v.sim.Start()
	defer v.sim.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-eventChan:
			if !v.handleEvent(ctx, ev) {
				return
			}
		case <-ticker.C:
			v.frame()
		}
	}
}

// pollEvents forwards screen events to out until the screen is finalized
// or ctx is done.
func pollEvents(ctx context.Context, screen tcell.Screen, out chan<- tcell.Event) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case out <- ev:
		case <-ctx.Done():
			return
		}
	}
}

// frame applies pending view input, advances the simulation by wall
// time and draws.
func (v *viewer) frame() {
	v.transform.Update(v.input.Consume())
	v.sim.Update()
	v.renderer.SetHUD(v.hud()...)
	v.sim.Render(v.renderer)
}

// handleEvent reacts to one terminal event. It returns false to quit.
func (v *viewer) handleEvent(ctx context.Context, ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return v.handleKey(ctx, ev)
	case *tcell.EventMouse:
		v.handleMouse(ev)
	case *tcell.EventResize:
		v.screen.Sync()
	}
	return true
}

func (v *viewer) handleKey(ctx context.Context, ev *tcell.EventKey) bool {
	snap := v.sim.Snapshot()

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyUp:
		v.report(ctx, "aim", v.sim.Aim(snap.Elevation+angleStep))
	case tcell.KeyDown:
		v.report(ctx, "aim", v.sim.Aim(snap.Elevation-angleStep))
	case tcell.KeyPgUp:
		v.report(ctx, "height", v.sim.SetHeight(snap.Height+heightStep))
	case tcell.KeyPgDn:
		v.report(ctx, "height", v.sim.SetHeight(math.Max(0, snap.Height-heightStep)))
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return false
		case ' ':
			_, err := v.sim.Fire(ctx)
			v.report(ctx, "fire", err)
		case '+', '=':
			v.report(ctx, "speed", v.sim.SetLaunchSpeed(snap.LaunchSpeed+speedStep))
		case '-', '_':
			v.report(ctx, "speed", v.sim.SetLaunchSpeed(math.Max(0, snap.LaunchSpeed-speedStep)))
		case 'd':
			v.sim.CycleDragMode()
		case 'p':
			v.sim.SetShowPrediction(!snap.ShowPrediction)
		case 'c':
			v.sim.Clear()
		case 'l':
			v.sim.ClearLanded()
		case 'g':
			v.toggleGrid()
		case 'r':
			v.resetView(ctx)
		}
	}
	return true
}

// handleMouse feeds wheel and left-button drags into the input state
func (v *viewer) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	pos := render.CellToDisplay(x, y)
	buttons := ev.Buttons()

	switch {
	case buttons&tcell.WheelUp != 0:
		v.input.Scroll(-1, pos)
	case buttons&tcell.WheelDown != 0:
		v.input.Scroll(1, pos)
	}

	switch {
	case buttons&tcell.Button1 != 0 && !v.dragging:
		v.dragging = true
		v.input.MouseDown(pos)
	case buttons&tcell.Button1 != 0:
		v.input.MouseMove(pos)
	case v.dragging:
		v.input.MouseMove(pos)
		v.dragging = false
		v.input.MouseUp()
	default:
		v.input.MouseMove(pos)
	}
}

func (v *viewer) toggleGrid() {
	v.grid = !v.grid
	v.renderer.SetGrid(v.grid)
}

func (v *viewer) resetView(ctx context.Context) {
	viewport := v.renderer.Viewport()
	if err := v.transform.Reset(viewport, v.scale); err != nil {
		v.report(ctx, "reset view", err)
		return
	}
	v.transform.SetCenter(physics.V2(viewport.X/5, viewport.Y*0.8))
}

func (v *viewer) report(ctx context.Context, action string, err error) {
	if err != nil {
		v.logger.Warn(ctx, "input rejected", "action", action, "error", err.Error())
	}
}

// hud returns the status lines: aim and settings, then the last landing
func (v *viewer) hud() []string {
	snap := v.sim.Snapshot()
	prediction := "off"
	if snap.ShowPrediction {
		prediction = "on"
	}
	lines := []string{fmt.Sprintf(
		" angle %.0f°  speed %.1f m/s  height %.2f m  drag %s  prediction %s  balls %d  zoom %.3g px/m",
		snap.Elevation, snap.LaunchSpeed, snap.Height, snap.DragMode, prediction,
		len(snap.Balls)+snap.Pending, v.transform.Scale(),
	)}

	measured := " measured: -"
	for i := len(snap.Balls) - 1; i >= 0; i-- {
		if b := snap.Balls[i]; b.Done {
			measured = fmt.Sprintf(" measured: range %.3f m  apex %.3f m  time %.3f s",
				b.Range, b.Apex.Position.Y, b.Elapsed)
			break
		}
	}
	lines = append(lines, measured)

	if snap.ShowPrediction {
		if p, err := v.sim.Projection(); err == nil {
			lines = append(lines, fmt.Sprintf(" calculated: range %.3f m  apex %.3f m  time %.3f s",
				p.Range(), p.Top.Y, p.EndTime))
		} else {
			lines = append(lines, " calculated: no landing point")
		}
	}
	return lines
}
