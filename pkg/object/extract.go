package object

import (
	"slices"

	"github.com/matzehuels/gridrule/pkg/grid"
)

// Extract returns the blocks of g. With no values given every
// non-background color is labeled; otherwise only the listed colors are.
func Extract(g grid.Grid, values ...int) []Block {
	colors := g.Colors()
	if len(values) > 0 {
		colors = slices.DeleteFunc(colors, func(v int) bool { return !slices.Contains(values, v) })
	}

	var blocks []Block
	for _, v := range colors {
		for _, comp := range Label(g, func(c int) bool { return c == v }) {
			blocks = append(blocks, NewBlock(v, comp))
		}
	}
	return blocks
}

// Locate returns one cell per requested color: the last cell of that color
// in row-major order. Colors absent from g are missing from the result.
func Locate(g grid.Grid, values ...int) map[int]grid.Point {
	out := make(map[int]grid.Point, len(values))
	for _, v := range values {
		if pts := g.Points(v); len(pts) > 0 {
			out[v] = pts[len(pts)-1]
		}
	}
	return out
}
