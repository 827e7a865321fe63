// pkg/render/terminal.go
package render

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/opd-ai/go-cannon/pkg/entity"
	"github.com/opd-ai/go-cannon/pkg/physics"
	"github.com/opd-ai/go-cannon/pkg/prediction"
	"github.com/opd-ai/go-cannon/pkg/view"
)

// CellAspect is how many display units tall one terminal cell is. A cell
// is one unit wide, so a view.Transform for a w×h terminal works on a
// w×(h·CellAspect) viewport and circles stay round.
const CellAspect = 2

// Styles used by the terminal renderer
var (
	StyleGrid       = tcell.StyleDefault.Foreground(tcell.ColorDarkSlateGray)
	StyleAxis       = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	StyleLabel      = tcell.StyleDefault.Foreground(tcell.ColorGray)
	StyleCannon     = tcell.StyleDefault.Foreground(tcell.ColorOrange).Bold(true)
	StyleBall       = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	StyleTrail      = tcell.StyleDefault.Foreground(tcell.ColorTeal)
	StyleMarker     = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	StylePrediction = tcell.StyleDefault.Foreground(tcell.ColorFuchsia)
	StyleHUD        = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorSilver)
)

// Glyphs drawn by the terminal renderer
const (
	GlyphBall       = 'o'
	GlyphTrail      = '.'
	GlyphTouchdown  = 'X'
	GlyphApex       = '^'
	GlyphPrediction = ':'
	GlyphPredicted  = '*'
	GlyphWheel      = 'O'
)

// TerminalRenderer draws the simulation onto a tcell screen through a
// view.Transform. Draw calls between Clear and Present go to the
// screen's back buffer; Present shows it.
type TerminalRenderer struct {
	screen    tcell.Screen
	transform *view.Transform
	hud       []string
	showGrid  bool
}

// NewTerminalRenderer creates a renderer drawing on screen
func NewTerminalRenderer(screen tcell.Screen, transform *view.Transform) *TerminalRenderer {
	return &TerminalRenderer{
		screen:    screen,
		transform: transform,
		showGrid:  true,
	}
}

// Viewport returns the display size of the screen in transform units
func (r *TerminalRenderer) Viewport() physics.Vector2D {
	w, h := r.screen.Size()
	return physics.V2(float64(w), float64(h*CellAspect))
}

// CellToDisplay converts a cell coordinate, such as a mouse position,
// into transform display units at the cell's center.
func CellToDisplay(x, y int) physics.Vector2D {
	return physics.V2(float64(x)+0.5, (float64(y)+0.5)*CellAspect)
}

// DisplayToCell returns the cell containing a display-space point
func DisplayToCell(q physics.Vector2D) (int, int) {
	return int(math.Floor(q.X)), int(math.Floor(q.Y / CellAspect))
}

// SetHUD replaces the status lines drawn at the top of the screen
func (r *TerminalRenderer) SetHUD(lines ...string) {
	r.hud = append(r.hud[:0], lines...)
}

// SetGrid toggles the background grid
func (r *TerminalRenderer) SetGrid(show bool) {
	r.showGrid = show
}

// Clear implements entity.Renderer. It wipes the screen and draws the grid
// and axes.
func (r *TerminalRenderer) Clear() {
	r.screen.Clear()
	if r.showGrid {
		r.drawGrid()
	}
}

// Present implements entity.Renderer
func (r *TerminalRenderer) Present() {
	r.drawHUD()
	r.screen.Show()
}

// RenderCannon implements entity.Renderer. The barrel is drawn from the
// muzzle along its direction with a glyph matching its slope.
func (r *TerminalRenderer) RenderCannon(c *entity.Cannon) {
	if c == nil {
		return
	}
	glyph := barrelGlyph(c.ElevationDegrees())
	r.line(c.Muzzle(), c.BarrelTip(), glyph, StyleCannon)
	r.plot(c.Position, '|', StyleCannon)
	r.plot(c.Position.Add(physics.V2(0, c.Profile.WheelRadius())), GlyphWheel, StyleCannon)
}

// RenderCannonball implements entity.Renderer. It draws the trail, the
// apex marker, the ball and, once landed, the touchdown marker.
func (r *TerminalRenderer) RenderCannonball(b *entity.Cannonball) {
	if b == nil {
		return
	}
	for _, p := range b.History() {
		r.plot(p, GlyphTrail, StyleTrail)
	}

	apex := b.Apex()
	if apex.Time > 0 {
		r.plot(apex.Position, GlyphApex, StyleMarker)
	}

	if b.IsDone() {
		if touchdown, ok := b.Touchdown(); ok {
			r.plot(touchdown, GlyphTouchdown, StyleMarker)
			return
		}
	}
	r.plot(b.GetPosition(), GlyphBall, StyleBall)
}

// RenderPrediction implements entity.Renderer. The curve is sampled at
// roughly two points per column across its horizontal extent.
func (r *TerminalRenderer) RenderPrediction(p prediction.Projection) {
	columns := math.Abs(r.transform.ScreenScale(p.Range()))
	n := int(math.Min(2*columns, 4000)) + 2
	for _, pt := range p.Sample(n) {
		r.plot(pt, GlyphPrediction, StylePrediction)
	}
	r.plot(p.Top, GlyphPredicted, StylePrediction)
	r.plot(p.End, GlyphPredicted, StylePrediction)
}

// plot sets the cell containing simulation point p, ignoring points
// outside the screen.
func (r *TerminalRenderer) plot(p physics.Vector2D, glyph rune, style tcell.Style) {
	if !p.IsFinite() {
		return
	}
	x, y := DisplayToCell(r.transform.ToScreen(p))
	r.setCell(x, y, glyph, style)
}

func (r *TerminalRenderer) setCell(x, y int, glyph rune, style tcell.Style) {
	w, h := r.screen.Size()
	if x < 0 || y < 0 || x >= w || y >= h {
		return
	}
	r.screen.SetContent(x, y, glyph, nil, style)
}

// line draws the cells between two simulation points
func (r *TerminalRenderer) line(from, to physics.Vector2D, glyph rune, style tcell.Style) {
	x0, y0 := DisplayToCell(r.transform.ToScreen(from))
	x1, y1 := DisplayToCell(r.transform.ToScreen(to))
	steps := max(abs(x1-x0), abs(y1-y0))
	if steps > 4096 {
		steps = 4096
	}
	for i := 0; i <= steps; i++ {
		t := 0.0
		if steps > 0 {
			t = float64(i) / float64(steps)
		}
		x := x0 + int(math.Round(t*float64(x1-x0)))
		y := y0 + int(math.Round(t*float64(y1-y0)))
		r.setCell(x, y, glyph, style)
	}
}

// drawGrid draws grid lines at the spacing picked for the visible width,
// then the axes through the origin, then labels along the bottom and
// left edges.
func (r *TerminalRenderer) drawGrid() {
	w, h := r.screen.Size()
	if w == 0 || h == 0 {
		return
	}
	bounds := r.transform.VisibleBounds(r.Viewport())
	lo, hi := bounds.Min(), bounds.Max()
	grid := view.GridSpacing(bounds.Width)

	xs := grid.Lines(lo.X, hi.X)
	ys := grid.Lines(lo.Y, hi.Y)

	for _, x := range xs {
		col, _ := DisplayToCell(r.transform.ToScreen(physics.V2(x, 0)))
		style := StyleGrid
		if isOrigin(x, grid.Step) {
			style = StyleAxis
		}
		for row := 0; row < h; row++ {
			r.setCell(col, row, '|', style)
		}
	}
	for _, y := range ys {
		_, row := DisplayToCell(r.transform.ToScreen(physics.V2(0, y)))
		style := StyleGrid
		if isOrigin(y, grid.Step) {
			style = StyleAxis
		}
		for col := 0; col < w; col++ {
			glyph := '-'
			if mainc, _, _, _ := r.screen.GetContent(col, row); mainc == '|' {
				glyph = '+'
			}
			r.setCell(col, row, glyph, style)
		}
	}

	for _, x := range xs {
		col, _ := DisplayToCell(r.transform.ToScreen(physics.V2(x, 0)))
		r.text(col+1, h-1, grid.Label(x), StyleLabel)
	}
	for _, y := range ys {
		_, row := DisplayToCell(r.transform.ToScreen(physics.V2(0, y)))
		r.text(0, row, grid.Label(y), StyleLabel)
	}
}

func (r *TerminalRenderer) drawHUD() {
	w, _ := r.screen.Size()
	for row, line := range r.hud {
		for col := 0; col < w; col++ {
			r.setCell(col, row, ' ', StyleHUD)
		}
		r.text(0, row, line, StyleHUD)
	}
}

// text writes s starting at (x, y), clipped to the screen
func (r *TerminalRenderer) text(x, y int, s string, style tcell.Style) {
	for _, ch := range s {
		r.setCell(x, y, ch, style)
		x++
	}
}

// barrelGlyph picks a line character for a barrel at the given elevation
func barrelGlyph(elevation float64) rune {
	e := math.Mod(elevation, 180)
	if e < 0 {
		e += 180
	}
	switch {
	case e < 22.5 || e >= 157.5:
		return '='
	case e < 67.5:
		return '/'
	case e < 112.5:
		return '|'
	default:
		return '\\'
	}
}

func isOrigin(v, step float64) bool {
	return math.Abs(v) < step*1e-6
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

var _ entity.Renderer = (*TerminalRenderer)(nil)
