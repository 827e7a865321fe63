// Package plot renders trajectories into a static chart with gonum/plot.
// Each Clear..Present frame is added to the figure, so several runs can
// share one chart.
package plot

import (
	"errors"
	"fmt"
	"image/color"
	"io"

	gplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/opd-ai/go-cannon/pkg/entity"
	"github.com/opd-ai/go-cannon/pkg/physics"
	"github.com/opd-ai/go-cannon/pkg/prediction"
)

// PredictionSamples is how many points the predicted curve is drawn with
const PredictionSamples = 200

// ErrEmpty is returned when saving a figure with nothing drawn on it
var ErrEmpty = errors.New("nothing to plot")

var modeColors = map[physics.DragMode]color.Color{
	physics.DragOff:         color.RGBA{R: 31, G: 119, B: 180, A: 255},
	physics.DragRealistic:   color.RGBA{R: 44, G: 160, B: 44, A: 255},
	physics.DragExaggerated: color.RGBA{R: 214, G: 39, B: 40, A: 255},
}

var (
	predictionColor = color.RGBA{R: 127, G: 127, B: 127, A: 255}
	markerColor     = color.RGBA{R: 255, G: 127, B: 14, A: 255}
	cannonColor     = color.Black
)

// Trail is one ball's recorded path
type Trail struct {
	Label     string
	Mode      physics.DragMode
	Points    plotter.XYs
	Apex      physics.Vector2D
	Touchdown physics.Vector2D
	Landed    bool
}

type frame struct {
	trails      []Trail
	predictions []plotter.XYs
	barrels     []plotter.XYs
}

// Renderer implements entity.Renderer by collecting plot data
type Renderer struct {
	Title   string
	frames  []frame
	current *frame
}

// NewRenderer creates an empty figure
func NewRenderer(title string) *Renderer {
	return &Renderer{Title: title}
}

// Clear implements entity.Renderer. It starts a new frame.
func (r *Renderer) Clear() {
	r.current = &frame{}
}

func (r *Renderer) active() *frame {
	if r.current == nil {
		r.Clear()
	}
	return r.current
}

// Present implements entity.Renderer. It adds the frame to the figure.
func (r *Renderer) Present() {
	if r.current == nil {
		return
	}
	r.frames = append(r.frames, *r.current)
	r.current = nil
}

// Reset drops every frame
func (r *Renderer) Reset() {
	r.frames = nil
	r.current = nil
}

// RenderCannon implements entity.Renderer. The barrel is drawn as a short
// segment from the muzzle.
func (r *Renderer) RenderCannon(c *entity.Cannon) {
	if c == nil {
		return
	}
	muzzle, tip := c.Muzzle(), c.BarrelTip()
	f := r.active()
	f.barrels = append(f.barrels, plotter.XYs{{X: muzzle.X, Y: muzzle.Y}, {X: tip.X, Y: tip.Y}})
}

// RenderCannonball implements entity.Renderer
func (r *Renderer) RenderCannonball(b *entity.Cannonball) {
	if b == nil {
		return
	}
	history := b.History()
	points := make(plotter.XYs, 0, len(history)+1)
	for _, p := range history {
		points = append(points, plotter.XY{X: p.X, Y: p.Y})
	}
	if !b.IsDone() {
		pos := b.GetPosition()
		points = append(points, plotter.XY{X: pos.X, Y: pos.Y})
	}

	t := Trail{
		Label:  fmt.Sprintf("drag %s", b.DragMode()),
		Mode:   b.DragMode(),
		Points: points,
		Apex:   b.Apex().Position,
	}
	if b.IsDone() {
		t.Touchdown, t.Landed = b.Touchdown()
	}
	f := r.active()
	f.trails = append(f.trails, t)
}

// RenderPrediction implements entity.Renderer
func (r *Renderer) RenderPrediction(p prediction.Projection) {
	samples := p.Sample(PredictionSamples)
	points := make(plotter.XYs, len(samples))
	for i, s := range samples {
		points[i] = plotter.XY{X: s.X, Y: s.Y}
	}
	f := r.active()
	f.predictions = append(f.predictions, points)
}

// Trails returns every trail in the figure, oldest frame first
func (r *Renderer) Trails() []Trail {
	var out []Trail
	for _, f := range r.frames {
		out = append(out, f.trails...)
	}
	return out
}

// Plot builds the chart
func (r *Renderer) Plot() (*gplot.Plot, error) {
	if len(r.frames) == 0 {
		return nil, ErrEmpty
	}

	p := gplot.New()
	p.Title.Text = r.Title
	p.X.Label.Text = "x (m)"
	p.Y.Label.Text = "y (m)"
	p.Add(plotter.NewGrid())

	var markers plotter.XYs
	for _, f := range r.frames {
		for _, pts := range f.predictions {
			line, err := plotter.NewLine(pts)
			if err != nil {
				return nil, fmt.Errorf("prediction line: %w", err)
			}
			line.Color = predictionColor
			line.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
			p.Add(line)
			p.Legend.Add("predicted", line)
		}

		for _, pts := range f.barrels {
			line, err := plotter.NewLine(pts)
			if err != nil {
				return nil, fmt.Errorf("barrel line: %w", err)
			}
			line.Color = cannonColor
			line.Width = vg.Points(3)
			p.Add(line)
		}

		for _, t := range f.trails {
			if len(t.Points) == 0 {
				continue
			}
			line, err := plotter.NewLine(t.Points)
			if err != nil {
				return nil, fmt.Errorf("trail %q: %w", t.Label, err)
			}
			if c, ok := modeColors[t.Mode]; ok {
				line.Color = c
			}
			p.Add(line)
			p.Legend.Add(t.Label, line)

			markers = append(markers, plotter.XY{X: t.Apex.X, Y: t.Apex.Y})
			if t.Landed {
				markers = append(markers, plotter.XY{X: t.Touchdown.X, Y: t.Touchdown.Y})
			}
		}
	}

	if len(markers) > 0 {
		scatter, err := plotter.NewScatter(markers)
		if err != nil {
			return nil, fmt.Errorf("markers: %w", err)
		}
		scatter.GlyphStyle.Shape = draw.CrossGlyph{}
		scatter.GlyphStyle.Color = markerColor
		p.Add(scatter)
	}

	return p, nil
}

// Save writes the chart to path. The format follows the extension
// (.png, .svg, .pdf, ...).
func (r *Renderer) Save(path string, width, height vg.Length) error {
	p, err := r.Plot()
	if err != nil {
		return err
	}
	if err := p.Save(width, height, path); err != nil {
		return fmt.Errorf("failed to save plot: %w", err)
	}
	return nil
}

// Encode writes the chart in the given format ("png", "svg", ...) to w
func (r *Renderer) Encode(w io.Writer, width, height vg.Length, format string) error {
	p, err := r.Plot()
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(width, height, format)
	if err != nil {
		return fmt.Errorf("failed to render plot: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write plot: %w", err)
	}
	return nil
}

var _ entity.Renderer = (*Renderer)(nil)
