package stacking

import (
	"github.com/matzehuels/gridrule/pkg/errors"
	"github.com/matzehuels/gridrule/pkg/grid"
	"github.com/matzehuels/gridrule/pkg/object"
	"github.com/matzehuels/gridrule/pkg/rule"
)

// DefaultFallback is where the first object goes when the rule is not
// anchored at the origin.
var DefaultFallback = grid.Point{Row: 2, Col: 2}

// Rule re-lays a grid's objects according to a learned pattern.
type Rule struct {
	AnchorAtOrigin bool       `json:"anchor_at_origin"`
	Pattern        Pattern    `json:"pattern"`
	Fallback       grid.Point `json:"fallback"`
}

var _ rule.Rule = Rule{}

// Kind returns rule.KindStacking.
func (Rule) Kind() rule.Kind { return rule.KindStacking }

// Validate checks the pattern is known and the fallback lies inside the
// non-negative quadrant.
func (r Rule) Validate() error {
	if r.Pattern < Diagonal || r.Pattern > Vertical {
		return errors.New(errors.ErrCodeInvalidOption, "unknown stacking pattern %d", int(r.Pattern))
	}
	if r.Fallback.Row < 0 || r.Fallback.Col < 0 {
		return errors.New(errors.ErrCodeInvalidOption, "fallback %v must be non-negative", r.Fallback)
	}
	return nil
}

// Start returns the corner of the first placed object.
func (r Rule) Start() grid.Point {
	if r.AnchorAtOrigin {
		return grid.Point{}
	}
	return r.Fallback
}

// Apply extracts in's objects, orders them by left edge and packs them into
// a fresh background grid of the same shape. Cells pushed outside the grid
// are dropped.
func (r Rule) Apply(in grid.Grid) grid.Grid {
	blocks := object.Extract(in)
	object.SortByMinCol(blocks)

	out := grid.New(in.Rows(), in.Cols())
	at := r.Start()
	for _, b := range blocks {
		for _, p := range b.Translate(at) {
			out.Set(p, b.Value)
		}
		dr, dc := r.Pattern.Advance(b.Height, b.Width)
		at = at.Add(dr, dc)
	}
	return out
}
