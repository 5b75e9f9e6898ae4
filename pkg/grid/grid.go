package grid

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/matzehuels/gridrule/pkg/errors"
)

// Background is the color code of empty cells.
const Background = 0

// Point addresses one cell.
type Point struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Add returns p translated by (dr, dc).
func (p Point) Add(dr, dc int) Point { return Point{Row: p.Row + dr, Col: p.Col + dc} }

// String formats p as "(row,col)".
func (p Point) String() string { return fmt.Sprintf("(%d,%d)", p.Row, p.Col) }

// Grid is a rectangular matrix of color codes stored row-major.
// The zero value is an empty grid.
type Grid struct {
	rows, cols int
	cells      []int
}

// New returns an all-background grid of the given shape.
func New(rows, cols int) Grid {
	if rows < 0 || cols < 0 {
		rows, cols = 0, 0
	}
	return Grid{rows: rows, cols: cols, cells: make([]int, rows*cols)}
}

// FromRows builds a grid from nested rows, validating shape and colors.
func FromRows(rows [][]int) (Grid, error) {
	if len(rows) == 0 {
		return Grid{}, errors.ValidateShape(0, 0)
	}
	cols := len(rows[0])
	if err := errors.ValidateShape(len(rows), cols); err != nil {
		return Grid{}, err
	}
	g := New(len(rows), cols)
	for r, row := range rows {
		if len(row) != cols {
			return Grid{}, errors.New(errors.ErrCodeInvalidGrid, "row %d has %d cells, want %d", r, len(row), cols)
		}
		for c, v := range row {
			if err := errors.ValidateColor(v); err != nil {
				return Grid{}, errors.Wrap(errors.ErrCodeInvalidGrid, err, "cell (%d,%d)", r, c)
			}
			g.cells[r*cols+c] = v
		}
	}
	return g, nil
}

// MustFromRows is like FromRows but panics on invalid input.
// Intended for literals in tests and examples.
func MustFromRows(rows [][]int) Grid {
	g, err := FromRows(rows)
	if err != nil {
		panic(err)
	}
	return g
}

// Rows returns the number of rows.
func (g Grid) Rows() int { return g.rows }

// Cols returns the number of columns.
func (g Grid) Cols() int { return g.cols }

// Empty reports whether the grid has no cells.
func (g Grid) Empty() bool { return g.rows == 0 || g.cols == 0 }

// SameShape reports whether g and o have identical dimensions.
func (g Grid) SameShape(o Grid) bool { return g.rows == o.rows && g.cols == o.cols }

// InBounds reports whether p addresses a cell of g.
func (g Grid) InBounds(p Point) bool {
	return p.Row >= 0 && p.Row < g.rows && p.Col >= 0 && p.Col < g.cols
}

// At returns the color at p. It panics if p is out of bounds.
func (g Grid) At(p Point) int {
	if !g.InBounds(p) {
		panic(fmt.Sprintf("grid: point %v out of bounds %dx%d", p, g.rows, g.cols))
	}
	return g.cells[p.Row*g.cols+p.Col]
}

// Set writes v at p. Out-of-bounds writes are dropped and reported as false.
// Set mutates g; callers only use it on grids they created.
func (g *Grid) Set(p Point, v int) bool {
	if !g.InBounds(p) {
		return false
	}
	g.cells[p.Row*g.cols+p.Col] = v
	return true
}

// Clone returns an independent copy of g.
func (g Grid) Clone() Grid {
	cells := make([]int, len(g.cells))
	copy(cells, g.cells)
	return Grid{rows: g.rows, cols: g.cols, cells: cells}
}

// Equal reports whether g and o have the same shape and cells.
func (g Grid) Equal(o Grid) bool {
	if !g.SameShape(o) {
		return false
	}
	for i := range g.cells {
		if g.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}

// Sub returns a copy of the h×w window whose top-left cell is at.
// Cells outside g read as background.
func (g Grid) Sub(at Point, h, w int) Grid {
	out := New(h, w)
	for r := 0; r < h; r++ {
		for c := 0; c < w; c++ {
			src := at.Add(r, c)
			if g.InBounds(src) {
				out.cells[r*w+c] = g.At(src)
			}
		}
	}
	return out
}

// Paste copies src into g with src's top-left cell at at.
// Cells falling outside g are dropped.
func (g *Grid) Paste(src Grid, at Point) {
	for r := 0; r < src.rows; r++ {
		for c := 0; c < src.cols; c++ {
			g.Set(at.Add(r, c), src.cells[r*src.cols+c])
		}
	}
}

// Cells returns a copy of the row-major cell sequence.
func (g Grid) Cells() []int {
	out := make([]int, len(g.cells))
	copy(out, g.cells)
	return out
}

// ToRows returns the grid as nested rows.
func (g Grid) ToRows() [][]int {
	out := make([][]int, g.rows)
	for r := range out {
		out[r] = make([]int, g.cols)
		copy(out[r], g.cells[r*g.cols:(r+1)*g.cols])
	}
	return out
}

// Colors returns the distinct non-background colors of g in ascending order.
func (g Grid) Colors() []int {
	seen := make(map[int]bool)
	for _, v := range g.cells {
		if v != Background {
			seen[v] = true
		}
	}
	out := make([]int, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

// Points returns every cell holding color v, in row-major order.
func (g Grid) Points(v int) []Point {
	var out []Point
	for i, c := range g.cells {
		if c == v {
			out = append(out, Point{Row: i / g.cols, Col: i % g.cols})
		}
	}
	return out
}

// String renders g as space-separated rows.
func (g Grid) String() string {
	var b strings.Builder
	for r := 0; r < g.rows; r++ {
		if r > 0 {
			b.WriteByte('\n')
		}
		for c := 0; c < g.cols; c++ {
			if c > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%d", g.cells[r*g.cols+c])
		}
	}
	return b.String()
}

// MarshalJSON encodes g as nested rows.
func (g Grid) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.ToRows())
}

// UnmarshalJSON decodes nested rows, applying the same checks as FromRows.
func (g *Grid) UnmarshalJSON(data []byte) error {
	var rows [][]int
	if err := json.Unmarshal(data, &rows); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidGrid, err, "decode grid")
	}
	parsed, err := FromRows(rows)
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}
