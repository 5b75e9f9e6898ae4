package denoise

import (
	"fmt"
	"strings"

	"github.com/matzehuels/gridrule/pkg/grid"
	"github.com/matzehuels/gridrule/pkg/object"
)

// Tile is the bounding-box window of one connected region.
type Tile struct {
	Content grid.Grid  `json:"content"`
	Origin  grid.Point `json:"origin"`
}

// Signature identifies a tile's exact content, shape included.
func (t Tile) Signature() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%dx%d:", t.Content.Rows(), t.Content.Cols())
	for i, v := range t.Content.Cells() {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%d", v)
	}
	return b.String()
}

// ExtractTiles cuts out the bounding box of every 4-connected region of
// non-background cells that is at least minRows tall and minCols wide.
// Windows include whatever else lies inside the box, gaps and neighbors
// alike. Tiles are returned in the raster order of their regions.
func ExtractTiles(g grid.Grid, minRows, minCols int) []Tile {
	var tiles []Tile
	for _, comp := range object.Label(g, func(v int) bool { return v != grid.Background }) {
		b := object.NewBlock(0, comp)
		if b.Height < minRows || b.Width < minCols {
			continue
		}
		tiles = append(tiles, Tile{
			Content: g.Sub(b.Origin(), b.Height, b.Width),
			Origin:  b.Origin(),
		})
	}
	return tiles
}

// FindTemplate returns the content shared by the most tiles. Ties go to the
// content that was extracted first. It reports false when tiles is empty.
func FindTemplate(tiles []Tile) (grid.Grid, bool) {
	if len(tiles) == 0 {
		return grid.Grid{}, false
	}
	sigs := make([]string, len(tiles))
	counts := make(map[string]int, len(tiles))
	for i, t := range tiles {
		sigs[i] = t.Signature()
		counts[sigs[i]]++
	}

	best := 0
	for i, s := range sigs {
		if counts[s] > counts[sigs[best]] {
			best = i
		}
	}
	return tiles[best].Content, true
}

// Similarity returns the fraction of equal cells between two grids of the
// same shape, or 0 when the shapes differ.
func Similarity(a, b grid.Grid) float64 {
	if !a.SameShape(b) || a.Empty() {
		return 0
	}
	ac, bc := a.Cells(), b.Cells()
	same := 0
	for i := range ac {
		if ac[i] == bc[i] {
			same++
		}
	}
	return float64(same) / float64(len(ac))
}
