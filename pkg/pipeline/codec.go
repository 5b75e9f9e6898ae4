package pipeline

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/gridrule/pkg/denoise"
	"github.com/matzehuels/gridrule/pkg/errors"
	"github.com/matzehuels/gridrule/pkg/grid"
	"github.com/matzehuels/gridrule/pkg/movement"
	"github.com/matzehuels/gridrule/pkg/rule"
	"github.com/matzehuels/gridrule/pkg/stacking"
)

// Envelope is the tagged JSON form of a rule.Rule. Exactly one variant
// field is set, matching Kind.
type Envelope struct {
	Kind     rule.Kind      `json:"kind"`
	Movement *movement.Rule `json:"movement,omitempty"`
	Stacking *stacking.Rule `json:"stacking,omitempty"`
	Denoise  *denoise.Rule  `json:"denoise,omitempty"`
}

// Wrap puts r into an envelope.
func Wrap(r rule.Rule) (Envelope, error) {
	switch v := r.(type) {
	case movement.Rule:
		return Envelope{Kind: rule.KindMovement, Movement: &v}, nil
	case stacking.Rule:
		return Envelope{Kind: rule.KindStacking, Stacking: &v}, nil
	case denoise.Rule:
		return Envelope{Kind: rule.KindDenoise, Denoise: &v}, nil
	}
	return Envelope{}, errors.New(errors.ErrCodeUnsupported, "unsupported rule type %T", r)
}

// Unwrap returns the rule held by e after validating its body.
func (e Envelope) Unwrap() (rule.Rule, error) {
	var r interface {
		rule.Rule
		Validate() error
	}
	switch {
	case e.Kind == rule.KindMovement && e.Movement != nil:
		r = *e.Movement
	case e.Kind == rule.KindStacking && e.Stacking != nil:
		r = *e.Stacking
	case e.Kind == rule.KindDenoise && e.Denoise != nil:
		r = *e.Denoise
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "rule envelope of kind %s has no matching body", e.Kind)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// MarshalRule encodes r as an envelope.
func MarshalRule(r rule.Rule) ([]byte, error) {
	env, err := Wrap(r)
	if err != nil {
		return nil, err
	}
	return json.Marshal(env)
}

// UnmarshalRule decodes an envelope produced by MarshalRule.
func UnmarshalRule(data []byte) (rule.Rule, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode rule: %w", err)
	}
	return env.Unwrap()
}

// Report is the JSON document written for a solve run.
type Report struct {
	RunID       string      `json:"run_id"`
	TaskID      string      `json:"task_id,omitempty"`
	Rule        Envelope    `json:"rule"`
	Candidates  []Candidate `json:"candidates,omitempty"`
	TrainScore  float64     `json:"train_score"`
	Predictions []grid.Grid `json:"predictions"`
	Solved      *int        `json:"solved,omitempty"`
	Checked     int         `json:"checked,omitempty"`
}

// Report converts the result into its JSON document.
func (r *Result) Report() (Report, error) {
	env, err := Wrap(r.Rule)
	if err != nil {
		return Report{}, err
	}
	rep := Report{
		RunID:       r.RunID,
		TaskID:      r.TaskID,
		Rule:        env,
		Candidates:  r.Candidates,
		TrainScore:  r.TrainScore,
		Predictions: r.Predictions,
		Checked:     r.Checked,
	}
	if r.Checked > 0 {
		solved := r.Solved
		rep.Solved = &solved
	}
	return rep, nil
}
