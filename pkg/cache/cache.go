// Package cache memoizes inferred rules and predictions.
//
// Inference and application are deterministic, so their results can be keyed
// by a content hash of their inputs and reused across runs. The CLI uses a
// [FileCache] under the XDG cache directory, the HTTP server can share a
// [RedisCache], and [NullCache] disables caching.
//
// Keys are produced by a [Keyer]; [ScopedKeyer] prefixes them for
// multi-tenant deployments.
package cache

import (
	"context"
	"time"
)

// Cache TTLs by entry type.
const (
	// TTLRule is how long an inferred rule stays valid.
	TTLRule = 7 * 24 * time.Hour

	// TTLPrediction is how long a predicted grid stays valid.
	TTLPrediction = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// RuleKeyOpts holds the inference options that change the inferred rule.
type RuleKeyOpts struct {
	Solver    string  `json:"solver"`
	Markers   []int   `json:"markers,omitempty"`
	Trail     int     `json:"trail,omitempty"`
	Fallback  [2]int  `json:"fallback,omitempty"`
	MinRows   int     `json:"min_rows,omitempty"`
	MinCols   int     `json:"min_cols,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// RuleKey keys the rule inferred from a set of training pairs.
	RuleKey(trainHash string, opts RuleKeyOpts) string
	// PredictionKey keys the output of a rule applied to one grid.
	PredictionKey(ruleHash, inputHash string) string
}

// DefaultKeyer produces unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// RuleKey hashes the training data hash together with opts.
func (DefaultKeyer) RuleKey(trainHash string, opts RuleKeyOpts) string {
	return hashKey("rule", trainHash, opts)
}

// PredictionKey combines the rule and input hashes.
func (DefaultKeyer) PredictionKey(ruleHash, inputHash string) string {
	return "prediction:" + ruleHash + ":" + inputHash
}
