package stacking

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/gridrule/pkg/errors"
	"github.com/matzehuels/gridrule/pkg/object"
	"github.com/matzehuels/gridrule/pkg/task"
)

// Tally is the evidence gathered from training pairs.
type Tally struct {
	// Pairs is the number of pairs with at least one matched object.
	Pairs int `json:"pairs"`
	// Skipped is the number of pairs without any matched object.
	Skipped int `json:"skipped"`
	// AtOrigin counts pairs whose first output object sits at (0,0).
	AtOrigin int `json:"at_origin"`
	// Votes counts classified transitions per pattern.
	Votes [3]int `json:"votes"`
	// Transitions counts all consecutive object pairs, classified or not.
	Transitions int `json:"transitions"`
}

// Ordered returns the matched objects of one training pair in stacking
// order: by the input block's left edge, extraction order breaking ties.
func Ordered(p task.Pair) []object.Pair {
	matched := object.Match(object.Extract(p.Input), object.Extract(p.Output))
	inputs := make([]object.Block, len(matched))
	byValue := make(map[int]object.Pair, len(matched))
	for i, m := range matched {
		inputs[i] = m.Input
		byValue[m.Value] = m
	}
	object.SortByMinCol(inputs)

	out := make([]object.Pair, len(inputs))
	for i, b := range inputs {
		out[i] = byValue[b.Value]
	}
	return out
}

// TallyPairs gathers origin and pattern evidence from pairs.
func TallyPairs(pairs []task.Pair, logger *log.Logger) Tally {
	var t Tally
	for i, p := range pairs {
		seq := Ordered(p)
		if len(seq) == 0 {
			t.Skipped++
			if logger != nil {
				logger.Debug("no matched objects", "pair", i)
			}
			continue
		}
		t.Pairs++

		first := seq[0].Output
		if first.MinRow == 0 && first.MinCol == 0 {
			t.AtOrigin++
		}

		for j := 1; j < len(seq); j++ {
			prev, curr := seq[j-1].Output, seq[j].Output
			t.Transitions++
			pat, ok := Classify(prev.Height, prev.Width, curr.MinRow-prev.MinRow, curr.MinCol-prev.MinCol)
			if !ok {
				continue
			}
			t.Votes[pat]++
		}
	}
	return t
}

// Winner returns the pattern with the most votes, ties going to the
// earliest pattern in [Patterns] order.
func (t Tally) Winner() Pattern {
	best := Diagonal
	for _, p := range Patterns() {
		if t.Votes[p] > t.Votes[best] {
			best = p
		}
	}
	return best
}

// Infer derives a stacking rule from training pairs. Pairs without any
// matched object are skipped; it is an error when every pair is skipped.
// AnchorAtOrigin holds when every usable pair, not every training pair,
// places its first output object at the origin.
func Infer(pairs []task.Pair, logger *log.Logger) (Rule, Tally, error) {
	t := TallyPairs(pairs, logger)
	if t.Pairs == 0 {
		return Rule{}, t, errors.New(errors.ErrCodeNoRule, "no training pair has objects present in both input and output")
	}
	r := Rule{
		AnchorAtOrigin: t.AtOrigin == t.Pairs,
		Pattern:        t.Winner(),
		Fallback:       DefaultFallback,
	}
	if logger != nil {
		logger.Debug("stacking tally",
			"pairs", t.Pairs,
			"at_origin", t.AtOrigin,
			"votes", t.Votes,
			"pattern", r.Pattern)
	}
	return r, t, nil
}
