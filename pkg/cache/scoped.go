package cache

// ScopedKeyer wraps a Keyer with a prefix so several tenants or datasets
// can share one backend without colliding.
//
//	evalKeyer := NewScopedKeyer(NewDefaultKeyer(), "eval:2024:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// RuleKey generates a prefixed rule key.
func (k *ScopedKeyer) RuleKey(trainHash string, opts RuleKeyOpts) string {
	return k.prefix + k.inner.RuleKey(trainHash, opts)
}

// PredictionKey generates a prefixed prediction key.
func (k *ScopedKeyer) PredictionKey(ruleHash, inputHash string) string {
	return k.prefix + k.inner.PredictionKey(ruleHash, inputHash)
}
