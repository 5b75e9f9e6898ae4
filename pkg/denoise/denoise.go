package denoise

import (
	"github.com/matzehuels/gridrule/pkg/errors"
	"github.com/matzehuels/gridrule/pkg/grid"
	"github.com/matzehuels/gridrule/pkg/rule"
)

// Defaults for tile filtering and template matching.
const (
	DefaultMinRows   = 4
	DefaultMinCols   = 4
	DefaultThreshold = 0.85
)

// Options configures denoising.
type Options struct {
	MinRows   int     `json:"min_rows" toml:"min_rows"`
	MinCols   int     `json:"min_cols" toml:"min_cols"`
	Threshold float64 `json:"threshold" toml:"threshold"`
}

// DefaultOptions returns the standard 4×4 minimum tile and 0.85 threshold.
func DefaultOptions() Options {
	return Options{MinRows: DefaultMinRows, MinCols: DefaultMinCols, Threshold: DefaultThreshold}
}

// Validate checks that the options are usable.
func (o Options) Validate() error {
	if o.MinRows < 1 || o.MinCols < 1 {
		return errors.New(errors.ErrCodeInvalidOption, "minimum tile size %dx%d must be at least 1x1", o.MinRows, o.MinCols)
	}
	return errors.ValidateThreshold(o.Threshold)
}

// Reconstruct returns a background grid shaped like g with template stamped
// over every tile of the same shape whose similarity to it is at least
// threshold.
func Reconstruct(g grid.Grid, tiles []Tile, template grid.Grid, threshold float64) grid.Grid {
	out := grid.New(g.Rows(), g.Cols())
	for _, t := range tiles {
		if !t.Content.SameShape(template) || Similarity(t.Content, template) < threshold {
			continue
		}
		out.Paste(template, t.Origin)
	}
	return out
}

// Denoise runs tile extraction, template selection and reconstruction.
// A grid without qualifying tiles is returned unchanged.
func Denoise(g grid.Grid, opts Options) grid.Grid {
	tiles := ExtractTiles(g, opts.MinRows, opts.MinCols)
	template, ok := FindTemplate(tiles)
	if !ok {
		return g.Clone()
	}
	return Reconstruct(g, tiles, template, opts.Threshold)
}

// Rule adapts Denoise to the rule.Rule interface. It learns nothing from
// training pairs; its behavior is fixed by Options.
type Rule struct {
	Options Options `json:"options"`
}

var _ rule.Rule = Rule{}

// Kind returns rule.KindDenoise.
func (Rule) Kind() rule.Kind { return rule.KindDenoise }

// Validate checks the rule's options.
func (r Rule) Validate() error { return r.Options.Validate() }

// Apply denoises in.
func (r Rule) Apply(in grid.Grid) grid.Grid { return Denoise(in, r.Options) }
