package object

import (
	"sort"

	"github.com/matzehuels/gridrule/pkg/grid"
)

// Block is one 4-connected region of a single color.
// The bounding box fields are derived from Coords by [NewBlock].
type Block struct {
	Value  int          `json:"value"`
	Coords []grid.Point `json:"coords"`
	MinRow int          `json:"min_row"`
	MinCol int          `json:"min_col"`
	Height int          `json:"height"`
	Width  int          `json:"width"`
}

// NewBlock builds a block from its cells, computing the bounding box.
// coords must be non-empty; they are copied and sorted row-major.
func NewBlock(value int, coords []grid.Point) Block {
	pts := make([]grid.Point, len(coords))
	copy(pts, coords)
	sortPoints(pts)

	minR, minC := pts[0].Row, pts[0].Col
	maxR, maxC := minR, minC
	for _, p := range pts[1:] {
		minR, maxR = min(minR, p.Row), max(maxR, p.Row)
		minC, maxC = min(minC, p.Col), max(maxC, p.Col)
	}
	return Block{
		Value:  value,
		Coords: pts,
		MinRow: minR,
		MinCol: minC,
		Height: maxR - minR + 1,
		Width:  maxC - minC + 1,
	}
}

// Origin returns the top-left corner of the bounding box.
func (b Block) Origin() grid.Point { return grid.Point{Row: b.MinRow, Col: b.MinCol} }

// Size returns the number of cells in the block.
func (b Block) Size() int { return len(b.Coords) }

// Contains reports whether p is one of the block's cells.
func (b Block) Contains(p grid.Point) bool {
	i := sort.Search(len(b.Coords), func(i int) bool { return !less(b.Coords[i], p) })
	return i < len(b.Coords) && b.Coords[i] == p
}

// Translate returns the block's cells moved so the bounding box's top-left
// corner lands on to.
func (b Block) Translate(to grid.Point) []grid.Point {
	dr, dc := to.Row-b.MinRow, to.Col-b.MinCol
	out := make([]grid.Point, len(b.Coords))
	for i, p := range b.Coords {
		out[i] = p.Add(dr, dc)
	}
	return out
}

// SortByMinCol orders blocks by the left edge of their bounding box,
// keeping extraction order among equal columns.
func SortByMinCol(blocks []Block) {
	sort.SliceStable(blocks, func(i, j int) bool { return blocks[i].MinCol < blocks[j].MinCol })
}

func less(a, b grid.Point) bool {
	if a.Row != b.Row {
		return a.Row < b.Row
	}
	return a.Col < b.Col
}

func sortPoints(pts []grid.Point) {
	sort.Slice(pts, func(i, j int) bool { return less(pts[i], pts[j]) })
}
