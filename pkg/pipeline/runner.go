package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/gridrule/pkg/cache"
	"github.com/matzehuels/gridrule/pkg/errors"
	"github.com/matzehuels/gridrule/pkg/grid"
	"github.com/matzehuels/gridrule/pkg/observability"
	"github.com/matzehuels/gridrule/pkg/rule"
	"github.com/matzehuels/gridrule/pkg/task"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete infer → apply pipeline on t with caching.
func (r *Runner) Execute(ctx context.Context, t task.Task, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	result := &Result{
		RunID:  uuid.NewString(),
		TaskID: t.ID,
	}
	logger := r.Logger.With("run", result.RunID[:8])

	// Stage 1: Infer
	pairs := t.Pairs()
	inferStart := time.Now()
	rl, cands, ruleHit, err := r.InferWithCacheInfo(ctx, pairs, opts)
	if err != nil {
		return nil, fmt.Errorf("infer: %w", err)
	}
	result.Rule = rl
	result.Candidates = cands
	result.TrainScore = TrainScore(cands, rl.Kind())
	result.Stats.TrainPairs = len(pairs)
	result.Stats.InferTime = time.Since(inferStart)
	result.CacheInfo.RuleHit = ruleHit

	logger.Info("inferred rule",
		"solver", rl.Kind(),
		"train_score", fmt.Sprintf("%.3f", result.TrainScore),
		"cached", ruleHit,
		"duration", result.Stats.InferTime)

	// Stage 2: Apply
	inputs := t.TestInputs()
	applyStart := time.Now()
	preds, hits, err := r.ApplyWithCacheInfo(ctx, rl, inputs, opts)
	if err != nil {
		return nil, fmt.Errorf("apply: %w", err)
	}
	result.Predictions = preds
	result.Stats.TestGrids = len(inputs)
	result.Stats.ApplyTime = time.Since(applyStart)
	result.CacheInfo.PredictionHits = hits

	if want, ok := t.Expected(); ok {
		result.Checked = len(want)
		for i := range want {
			if preds[i].Equal(want[i]) {
				result.Solved++
			}
		}
	}

	logger.Info("applied rule",
		"grids", len(preds),
		"cached", hits,
		"duration", result.Stats.ApplyTime)

	return result, nil
}

// ruleRecord is the cached form of an inference result.
type ruleRecord struct {
	Rule       Envelope    `json:"rule"`
	Candidates []Candidate `json:"candidates"`
}

// InferWithCacheInfo infers a rule with caching and returns cache hit info.
func (r *Runner) InferWithCacheInfo(ctx context.Context, pairs []task.Pair, opts Options) (rule.Rule, []Candidate, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, nil, false, err
	}
	if len(pairs) == 0 {
		return nil, nil, false, errors.New(errors.ErrCodeInvalidTask, "no training pairs")
	}

	trainHash, err := cache.HashJSON(pairs)
	if err != nil {
		return nil, nil, false, fmt.Errorf("hash training pairs: %w", err)
	}
	cacheKey := r.Keyer.RuleKey(trainHash, opts.RuleKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if rl, cands, ok := r.cachedRule(ctx, cacheKey); ok {
			return rl, cands, true, nil
		}
	}

	hooks := observability.Pipeline()
	hooks.OnInferStart(ctx, opts.Solver, len(pairs))
	start := time.Now()
	rl, cands, err := Infer(pairs, opts)
	hooks.OnInferComplete(ctx, opts.Solver, time.Since(start), err)
	if err != nil {
		return nil, cands, false, err
	}

	env, err := Wrap(rl)
	if err != nil {
		return nil, cands, false, err
	}
	if data, err := json.Marshal(ruleRecord{Rule: env, Candidates: cands}); err == nil {
		r.store(ctx, cacheKey, data, cache.TTLRule)
	}

	return rl, cands, false, nil // Cache miss
}

// Infer is a convenience wrapper that calls InferWithCacheInfo and discards the cache hit info.
func (r *Runner) Infer(ctx context.Context, pairs []task.Pair, opts Options) (rule.Rule, error) {
	rl, _, _, err := r.InferWithCacheInfo(ctx, pairs, opts)
	return rl, err
}

// ApplyWithCacheInfo runs rl on every input in order and returns how many
// predictions came from cache. It stops at the first grid boundary after
// ctx is done.
func (r *Runner) ApplyWithCacheInfo(ctx context.Context, rl rule.Rule, inputs []grid.Grid, opts Options) ([]grid.Grid, int, error) {
	ruleData, err := MarshalRule(rl)
	if err != nil {
		return nil, 0, err
	}
	ruleHash := cache.Hash(ruleData)

	hooks := observability.Pipeline()
	kind := rl.Kind().String()
	hooks.OnApplyStart(ctx, kind, len(inputs))
	start := time.Now()

	preds := make([]grid.Grid, len(inputs))
	hits := 0
	for i, in := range inputs {
		if err := ctx.Err(); err != nil {
			return nil, hits, err
		}

		inputHash, err := cache.HashJSON(in)
		if err != nil {
			return nil, hits, fmt.Errorf("hash test input %d: %w", i, err)
		}
		cacheKey := r.Keyer.PredictionKey(ruleHash, inputHash)

		if !opts.Refresh {
			if g, ok := r.cachedGrid(ctx, cacheKey); ok {
				preds[i] = g
				hits++
				continue
			}
		}

		preds[i] = rl.Apply(in)
		if data, err := json.Marshal(preds[i]); err == nil {
			r.store(ctx, cacheKey, data, cache.TTLPrediction)
		}
	}

	hooks.OnApplyComplete(ctx, kind, time.Since(start))
	return preds, hits, nil
}

// Apply is a convenience wrapper that calls ApplyWithCacheInfo and discards the cache hit info.
func (r *Runner) Apply(ctx context.Context, rl rule.Rule, inputs []grid.Grid, opts Options) ([]grid.Grid, error) {
	preds, _, err := r.ApplyWithCacheInfo(ctx, rl, inputs, opts)
	return preds, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) cachedRule(ctx context.Context, key string) (rule.Rule, []Candidate, bool) {
	data, ok := r.lookup(ctx, key)
	if !ok {
		return nil, nil, false
	}
	var rec ruleRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		r.Logger.Debug("discarding unreadable cached rule", "key", key, "error", err)
		return nil, nil, false
	}
	rl, err := rec.Rule.Unwrap()
	if err != nil {
		return nil, nil, false
	}
	return rl, rec.Candidates, true
}

func (r *Runner) cachedGrid(ctx context.Context, key string) (grid.Grid, bool) {
	data, ok := r.lookup(ctx, key)
	if !ok {
		return grid.Grid{}, false
	}
	var g grid.Grid
	if err := json.Unmarshal(data, &g); err != nil {
		return grid.Grid{}, false
	}
	return g, true
}

// lookup reads key from the cache. Backend errors count as misses.
func (r *Runner) lookup(ctx context.Context, key string) ([]byte, bool) {
	hooks := observability.Cache()
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Debug("cache read failed", "key", key, "error", err)
	}
	if err != nil || !hit {
		hooks.OnCacheMiss(ctx, key)
		return nil, false
	}
	hooks.OnCacheHit(ctx, key)
	return data, true
}

func (r *Runner) store(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Debug("cache write failed", "key", key, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, key, len(data))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
