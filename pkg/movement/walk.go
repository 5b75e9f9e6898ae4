package movement

import "github.com/matzehuels/gridrule/pkg/grid"

// Path returns the cells visited walking from start toward end along each
// axis of order in turn. start itself is not included. An axis on which
// start and end already agree contributes no cells.
func Path(start, end grid.Point, order []Axis) []grid.Point {
	var path []grid.Point
	cur := start
	for _, axis := range order {
		switch axis {
		case Horizontal:
			for cur.Col != end.Col {
				d := Right
				if cur.Col > end.Col {
					d = Left
				}
				dr, dc := d.Delta()
				cur = cur.Add(dr, dc)
				path = append(path, cur)
			}
		case Vertical:
			for cur.Row != end.Row {
				d := Down
				if cur.Row > end.Row {
					d = Up
				}
				dr, dc := d.Delta()
				cur = cur.Add(dr, dc)
				path = append(path, cur)
			}
		}
	}
	return path
}

// Walk returns a copy of g with every cell of Path(start, end, order)
// painted trail, except cells listed in occupied.
func Walk(g grid.Grid, start, end grid.Point, order []Axis, occupied map[grid.Point]bool, trail int) grid.Grid {
	out := g.Clone()
	for _, p := range Path(start, end, order) {
		if occupied[p] {
			continue
		}
		out.Set(p, trail)
	}
	return out
}
