package view

import (
	"fmt"
	"math"
)

// Grid is a spacing for grid lines together with how to label them
type Grid struct {
	Step     float64 // meters between lines
	Unit     string
	Decimals int // power of ten converting meters into Unit
}

var gridLadder = []struct {
	below float64
	grid  Grid
}{
	{0.01, Grid{0.001, "mm", 3}},
	{0.02, Grid{0.002, "mm", 3}},
	{0.05, Grid{0.005, "mm", 3}},
	{0.1, Grid{0.01, "cm", 2}},
	{0.2, Grid{0.02, "cm", 2}},
	{0.5, Grid{0.05, "cm", 2}},
	{1, Grid{0.1, "cm", 2}},
	{2, Grid{0.2, "cm", 2}},
	{5, Grid{0.5, "cm", 2}},
	{10, Grid{1, "m", 0}},
	{20, Grid{2, "m", 0}},
	{50, Grid{5, "m", 0}},
	{100, Grid{10, "m", 0}},
	{200, Grid{20, "m", 0}},
	{500, Grid{50, "m", 0}},
	{1000, Grid{100, "m", 0}},
}

// GridSpacing picks a grid for a visible span in meters, roughly ten
// lines across it.
func GridSpacing(span float64) Grid {
	span = math.Abs(span)
	for _, rung := range gridLadder {
		if span < rung.below {
			return rung.grid
		}
	}
	return Grid{200, "m", 0}
}

// Label formats a coordinate in the grid's unit, e.g. "20cm"
func (g Grid) Label(meters float64) string {
	return fmt.Sprintf("%d%s", int64(math.Round(meters*math.Pow10(g.Decimals))), g.Unit)
}

// Lines returns the grid coordinates inside [min, max]
func (g Grid) Lines(min, max float64) []float64 {
	if g.Step <= 0 || max < min {
		return nil
	}
	first := math.Ceil(min/g.Step) * g.Step
	var lines []float64
	for i := 0; ; i++ {
		v := first + float64(i)*g.Step
		if v > max || i > 10000 {
			break
		}
		lines = append(lines, v)
	}
	return lines
}
