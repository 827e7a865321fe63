// pkg/render/renderer.go
package render

import (
	"context"

	"github.com/opd-ai/go-cannon/pkg/entity"
	"github.com/opd-ai/go-cannon/pkg/logging"
	"github.com/opd-ai/go-cannon/pkg/prediction"
)

// NullRenderer is an entity.Renderer that only logs what it is asked to
// draw. Headless runs use it.
type NullRenderer struct {
	logger *logging.Logger
}

// NewNullRenderer creates a new NullRenderer with structured logging.
func NewNullRenderer() *NullRenderer {
	return NewNullRendererWithLogger(logging.NewLogger())
}

// NewNullRendererWithLogger creates a NullRenderer that logs to logger
func NewNullRendererWithLogger(logger *logging.Logger) *NullRenderer {
	return &NullRenderer{logger: logger}
}

func (d *NullRenderer) log() *logging.Logger {
	if d.logger == nil {
		d.logger = logging.NewLogger()
	}
	return d.logger
}

// Clear implements entity.Renderer.
func (d *NullRenderer) Clear() {
	d.log().Debug(context.Background(), "Clear called")
}

// Present implements entity.Renderer.
func (d *NullRenderer) Present() {
	d.log().Debug(context.Background(), "Present called")
}

// RenderCannon implements entity.Renderer.
func (d *NullRenderer) RenderCannon(cannon *entity.Cannon) {
	ctx := context.Background()
	if cannon == nil {
		d.log().Debug(ctx, "RenderCannon called with nil cannon")
		return
	}
	d.log().Debug(ctx, "RenderCannon called",
		"cannon_id", uint64(cannon.ID),
		"elevation", cannon.ElevationDegrees(),
		"height", cannon.Profile.Height(),
	)
}

// RenderCannonball implements entity.Renderer.
func (d *NullRenderer) RenderCannonball(ball *entity.Cannonball) {
	ctx := context.Background()
	if ball == nil {
		d.log().Debug(ctx, "RenderCannonball called with nil cannonball")
		return
	}
	d.log().Debug(ctx, "RenderCannonball called",
		"ball_id", uint64(ball.ID),
		"x", ball.Position.X,
		"y", ball.Position.Y,
		"done", ball.IsDone(),
	)
}

// RenderPrediction implements entity.Renderer.
func (d *NullRenderer) RenderPrediction(p prediction.Projection) {
	d.log().Debug(context.Background(), "RenderPrediction called",
		"top_y", p.Top.Y,
		"range", p.Range(),
		"flight_time", p.EndTime,
	)
}

var _ entity.Renderer = (*NullRenderer)(nil)
