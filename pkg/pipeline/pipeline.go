// Package pipeline provides the infer → apply pipeline shared by the CLI and
// the HTTP server.
//
// # Architecture
//
// A solve run has two stages:
//
//  1. Infer: derive one immutable rule.Rule from the task's training pairs
//  2. Apply: run the rule on every test input, in order
//
// Each stage is cached by content hash (see package cache), so re-running a
// task with the same options is free.
//
// # Solvers
//
// Options.Solver selects the rule family: "movement", "stacking" or
// "denoise". The default, "auto", infers every family that finds evidence
// in the training pairs, scores each candidate by how many training output
// cells it reproduces, and keeps the best. Equal scores go to the family
// listed first in rule.Kinds.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, t, pipeline.Options{Solver: "auto"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, g := range result.Predictions {
//	    fmt.Println(g)
//	}
package pipeline

import (
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gridrule/pkg/cache"
	"github.com/matzehuels/gridrule/pkg/denoise"
	"github.com/matzehuels/gridrule/pkg/errors"
	"github.com/matzehuels/gridrule/pkg/grid"
	"github.com/matzehuels/gridrule/pkg/movement"
	"github.com/matzehuels/gridrule/pkg/rule"
	"github.com/matzehuels/gridrule/pkg/stacking"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, Config and Server
// =============================================================================

// SolverAuto selects the best-scoring rule family.
const SolverAuto = "auto"

// DefaultSolver is the solver used when none is given.
const DefaultSolver = SolverAuto

// ValidSolvers is the set of accepted solver names.
var ValidSolvers = map[string]bool{
	SolverAuto:                 true,
	rule.KindMovement.String(): true,
	rule.KindStacking.String(): true,
	rule.KindDenoise.String():  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures a solve run. It supports JSON for HTTP requests.
type Options struct {
	Solver string `json:"solver,omitempty"`

	// Movement options
	Markers []int `json:"markers,omitempty"`
	Trail   int   `json:"trail,omitempty"`

	// Stacking options
	Fallback *grid.Point `json:"fallback,omitempty"`

	// Denoise options
	Denoise denoise.Options `json:"denoise,omitempty"`

	// Refresh bypasses cached rules and predictions.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// SetDefaults fills unset fields. It is idempotent.
func (o *Options) SetDefaults() {
	if o.Solver == "" {
		o.Solver = DefaultSolver
	}
	if len(o.Markers) == 0 {
		o.Markers = slices.Clone(movement.DefaultMarkers)
	}
	if o.Trail == 0 {
		o.Trail = movement.DefaultTrail
	}
	if o.Fallback == nil {
		fb := stacking.DefaultFallback
		o.Fallback = &fb
	}
	if o.Denoise.MinRows == 0 {
		o.Denoise.MinRows = denoise.DefaultMinRows
	}
	if o.Denoise.MinCols == 0 {
		o.Denoise.MinCols = denoise.DefaultMinCols
	}
	if o.Denoise.Threshold == 0 {
		o.Denoise.Threshold = denoise.DefaultThreshold
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateAndSetDefaults applies defaults and checks every field.
func (o *Options) ValidateAndSetDefaults() error {
	o.SetDefaults()
	if err := ValidateSolver(o.Solver); err != nil {
		return err
	}
	if len(o.Markers) < 2 {
		return errors.New(errors.ErrCodeInvalidOption, "markers: need at least two colors, got %v", o.Markers)
	}
	for _, m := range append(slices.Clone(o.Markers), o.Trail) {
		if err := errors.ValidateColor(m); err != nil || m == grid.Background {
			return errors.New(errors.ErrCodeInvalidOption, "marker and trail colors must be in [1, %d], got %d", errors.MaxColor, m)
		}
	}
	if slices.Contains(o.Markers, o.Trail) {
		return errors.New(errors.ErrCodeInvalidOption, "trail color %d is also a marker", o.Trail)
	}
	if o.Fallback.Row < 0 || o.Fallback.Col < 0 {
		return errors.New(errors.ErrCodeInvalidOption, "fallback %v must not be negative", *o.Fallback)
	}
	return o.Denoise.Validate()
}

// ValidateSolver checks that a solver name is valid.
func ValidateSolver(s string) error {
	if !ValidSolvers[s] {
		return errors.New(errors.ErrCodeInvalidSolver, "invalid solver: %q (must be one of: auto, movement, stacking, denoise)", s)
	}
	return nil
}

// Kinds returns the rule kinds the solver setting asks for.
func (o *Options) Kinds() []rule.Kind {
	if o.Solver == SolverAuto || o.Solver == "" {
		return rule.Kinds()
	}
	k, err := rule.ParseKind(o.Solver)
	if err != nil {
		return nil
	}
	return []rule.Kind{k}
}

// RuleKeyOpts returns the cache key options for rule inference.
func (o *Options) RuleKeyOpts() cache.RuleKeyOpts {
	return cache.RuleKeyOpts{
		Solver:    o.Solver,
		Markers:   o.Markers,
		Trail:     o.Trail,
		Fallback:  [2]int{o.Fallback.Row, o.Fallback.Col},
		MinRows:   o.Denoise.MinRows,
		MinCols:   o.Denoise.MinCols,
		Threshold: o.Denoise.Threshold,
	}
}

// =============================================================================
// Results
// =============================================================================

// Candidate records how one rule family fared during inference.
type Candidate struct {
	Kind  rule.Kind `json:"kind"`
	Score float64   `json:"score"`
	Error string    `json:"error,omitempty"`
}

// Result contains the outputs of a solve run.
type Result struct {
	// RunID uniquely identifies this run in logs and reports.
	RunID string

	// TaskID is copied from the task.
	TaskID string

	// Rule is the inferred rule.
	Rule rule.Rule

	// Candidates lists every family tried, in rule.Kinds order.
	Candidates []Candidate

	// TrainScore is the chosen rule's cell accuracy on the training pairs.
	TrainScore float64

	// Predictions holds one grid per test input, in input order.
	Predictions []grid.Grid

	// Solved counts predictions equal to the test outputs, when the task
	// carries them; Checked is the number compared.
	Solved, Checked int

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	TrainPairs int
	TestGrids  int
	InferTime  time.Duration
	ApplyTime  time.Duration
}

// CacheInfo tracks cache hits for each stage.
type CacheInfo struct {
	RuleHit        bool // Whether the rule came from cache
	PredictionHits int  // How many predictions came from cache
}
