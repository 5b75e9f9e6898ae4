package object

import "github.com/matzehuels/gridrule/pkg/grid"

// neighbors4 are the row/col offsets of the 4-connected neighborhood.
var neighbors4 = [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

// Label returns the 4-connected components of cells whose color satisfies
// keep. Components are ordered by the raster position of their first cell;
// each component's points are in row-major order.
func Label(g grid.Grid, keep func(v int) bool) [][]grid.Point {
	rows, cols := g.Rows(), g.Cols()
	seen := make([]bool, rows*cols)
	var comps [][]grid.Point

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			start := grid.Point{Row: r, Col: c}
			if seen[r*cols+c] || !keep(g.At(start)) {
				continue
			}
			comps = append(comps, flood(g, start, keep, seen))
		}
	}
	return comps
}

// flood collects the component containing start with an explicit stack.
func flood(g grid.Grid, start grid.Point, keep func(v int) bool, seen []bool) []grid.Point {
	cols := g.Cols()
	seen[start.Row*cols+start.Col] = true
	stack := []grid.Point{start}
	var comp []grid.Point

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		comp = append(comp, p)

		for _, d := range neighbors4 {
			n := p.Add(d[0], d[1])
			if !g.InBounds(n) || seen[n.Row*cols+n.Col] || !keep(g.At(n)) {
				continue
			}
			seen[n.Row*cols+n.Col] = true
			stack = append(stack, n)
		}
	}
	sortPoints(comp)
	return comp
}
