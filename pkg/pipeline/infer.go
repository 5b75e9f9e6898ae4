package pipeline

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/gridrule/pkg/denoise"
	"github.com/matzehuels/gridrule/pkg/errors"
	"github.com/matzehuels/gridrule/pkg/movement"
	"github.com/matzehuels/gridrule/pkg/rule"
	"github.com/matzehuels/gridrule/pkg/stacking"
	"github.com/matzehuels/gridrule/pkg/task"
)

// InferKind derives a rule of one family from pairs. opts must have
// defaults applied.
func InferKind(pairs []task.Pair, kind rule.Kind, opts Options) (rule.Rule, error) {
	switch kind {
	case rule.KindMovement:
		return movement.Infer(pairs, movement.Options{
			Markers: opts.Markers,
			Trail:   opts.Trail,
			Logger:  opts.Logger,
		})
	case rule.KindStacking:
		r, _, err := stacking.Infer(pairs, opts.Logger)
		if err != nil {
			return nil, err
		}
		r.Fallback = *opts.Fallback
		return r, nil
	case rule.KindDenoise:
		if err := opts.Denoise.Validate(); err != nil {
			return nil, err
		}
		return denoise.Rule{Options: opts.Denoise}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidSolver, "unknown rule kind %s", kind)
}

// Infer tries every family selected by opts and returns the best-scoring
// rule with the full candidate list. Families without evidence are
// recorded and skipped; any other failure aborts.
func Infer(pairs []task.Pair, opts Options) (rule.Rule, []Candidate, error) {
	opts.SetDefaults()
	logger := opts.Logger

	var (
		best      rule.Rule
		bestScore = -1.0
		cands     []Candidate
	)
	for _, kind := range opts.Kinds() {
		r, err := InferKind(pairs, kind, opts)
		if errors.Is(err, errors.ErrCodeNoRule) {
			cands = append(cands, Candidate{Kind: kind, Error: errors.UserMessage(err)})
			logger.Debug("no evidence", "solver", kind, "reason", errors.UserMessage(err))
			continue
		}
		if err != nil {
			return nil, cands, err
		}

		score := rule.Score(r, pairs)
		cands = append(cands, Candidate{Kind: kind, Score: score})
		logCandidate(logger, kind, score)
		if score > bestScore {
			best, bestScore = r, score
		}
	}
	if best == nil {
		return nil, cands, errors.New(errors.ErrCodeNoRule, "no solver found evidence in %d training pairs", len(pairs))
	}
	return best, cands, nil
}

func logCandidate(logger *log.Logger, kind rule.Kind, score float64) {
	logger.Debug("candidate rule", "solver", kind, "train_score", score)
}

// TrainScore returns the score recorded for kind in cands.
func TrainScore(cands []Candidate, kind rule.Kind) float64 {
	for _, c := range cands {
		if c.Kind == kind && c.Error == "" {
			return c.Score
		}
	}
	return 0
}
