package movement

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/gridrule/pkg/errors"
	"github.com/matzehuels/gridrule/pkg/grid"
	"github.com/matzehuels/gridrule/pkg/object"
	"github.com/matzehuels/gridrule/pkg/rule"
	"github.com/matzehuels/gridrule/pkg/task"
)

// Default marker chain and trail color.
var DefaultMarkers = []int{2, 4, 3}

const DefaultTrail = 5

// Options configures movement inference.
type Options struct {
	// Markers is the chain of marker colors; one leg per consecutive pair.
	Markers []int
	// Trail is the color painted along each path.
	Trail int
	// Logger receives per-pair diagnostics. Nil disables logging.
	Logger *log.Logger
}

func (o Options) withDefaults() Options {
	if len(o.Markers) == 0 {
		o.Markers = DefaultMarkers
	}
	if o.Trail == 0 {
		o.Trail = DefaultTrail
	}
	return o
}

// Leg is the learned path between two consecutive markers.
type Leg struct {
	From  int    `json:"from"`
	To    int    `json:"to"`
	Order []Axis `json:"order"`
}

// Rule replays learned legs on new grids.
type Rule struct {
	Legs []Leg `json:"legs"`
	// Chain is the full tracked marker chain. Markers of legs that were
	// never learned still occupy their cells.
	Chain []int `json:"markers,omitempty"`
	Trail int   `json:"trail"`
}

var _ rule.Rule = Rule{}

// Kind returns rule.KindMovement.
func (Rule) Kind() rule.Kind { return rule.KindMovement }

// Markers returns the tracked chain followed by any other marker color the
// rule's legs reference.
func (r Rule) Markers() []int {
	var out []int
	seen := make(map[int]bool)
	add := func(v int) {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	for _, v := range r.Chain {
		add(v)
	}
	for _, l := range r.Legs {
		add(l.From)
		add(l.To)
	}
	return out
}

// Validate checks that the trail and every marker are distinct non-zero
// colors.
func (r Rule) Validate() error {
	if r.Trail == 0 {
		return errors.New(errors.ErrCodeInvalidOption, "trail color must be non-zero")
	}
	if err := errors.ValidateColor(r.Trail); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidOption, err, "trail")
	}
	for _, v := range r.Markers() {
		if v == 0 {
			return errors.New(errors.ErrCodeInvalidOption, "marker color must be non-zero")
		}
		if err := errors.ValidateColor(v); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidOption, err, "marker")
		}
		if v == r.Trail {
			return errors.New(errors.ErrCodeInvalidOption, "trail color %d is also a marker", v)
		}
	}
	for i, l := range r.Legs {
		if len(l.Order) == 0 {
			return errors.New(errors.ErrCodeInvalidOption, "leg %d (%d→%d) has no axis order", i, l.From, l.To)
		}
	}
	return nil
}

// Apply walks each leg in turn. Legs whose markers are absent from in are
// skipped. Marker cells are never painted over.
func (r Rule) Apply(in grid.Grid) grid.Grid {
	pos := object.Locate(in, r.Markers()...)
	occupied := make(map[grid.Point]bool, len(pos))
	for _, p := range pos {
		occupied[p] = true
	}

	out := in.Clone()
	for _, l := range r.Legs {
		from, ok1 := pos[l.From]
		to, ok2 := pos[l.To]
		if !ok1 || !ok2 {
			continue
		}
		out = Walk(out, from, to, l.Order, occupied, r.Trail)
	}
	return out
}

// Infer learns one leg per consecutive marker pair. A leg's axis order is
// read from the first training pair whose input holds both markers; it is
// an error when no leg can be learned.
func Infer(pairs []task.Pair, opts Options) (Rule, error) {
	opts = opts.withDefaults()
	if len(opts.Markers) < 2 {
		return Rule{}, errors.New(errors.ErrCodeInvalidOption, "movement needs at least two markers, got %d", len(opts.Markers))
	}

	r := Rule{Chain: append([]int(nil), opts.Markers...), Trail: opts.Trail}
	for i := 0; i+1 < len(opts.Markers); i++ {
		from, to := opts.Markers[i], opts.Markers[i+1]
		leg, ok := inferLeg(pairs, from, to, opts.Logger)
		if !ok {
			if opts.Logger != nil {
				opts.Logger.Debug("leg not inferred", "from", from, "to", to)
			}
			continue
		}
		r.Legs = append(r.Legs, leg)
	}
	if len(r.Legs) == 0 {
		return Rule{}, errors.New(errors.ErrCodeNoRule, "no training pair contains a marker pair from %v", opts.Markers)
	}
	return r, nil
}

func inferLeg(pairs []task.Pair, from, to int, logger *log.Logger) (Leg, bool) {
	for i, p := range pairs {
		pos := object.Locate(p.Input, from, to)
		a, ok1 := pos[from]
		b, ok2 := pos[to]
		if !ok1 || !ok2 {
			continue
		}
		steps := Relate(a, b)
		if logger != nil {
			logger.Debug("inferred relation", "pair", i, "from", from, "to", to, "steps", steps)
		}
		return Leg{From: from, To: to, Order: AxisOrder(steps)}, true
	}
	return Leg{}, false
}
