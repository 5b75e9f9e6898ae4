// Package task models the puzzle records the engine learns from and
// predicts for, and reads and writes them as JSON.
//
// A task file is a JSON object with "train" and "test" arrays:
//
//	{
//	  "train": [{"input": [[0,2],[4,0]], "output": [[5,2],[4,0]]}],
//	  "test":  [{"input": [[2,0],[0,4]]}]
//	}
//
// Training examples must carry an output; test outputs are optional and are
// ignored by inference.
package task

import (
	"github.com/matzehuels/gridrule/pkg/errors"
	"github.com/matzehuels/gridrule/pkg/grid"
)

// Pair is a training example: an input grid and its expected output.
type Pair struct {
	Input  grid.Grid `json:"input"`
	Output grid.Grid `json:"output"`
}

// Example is one element of a task's train or test collection.
type Example struct {
	Input  grid.Grid  `json:"input"`
	Output *grid.Grid `json:"output,omitempty"`
}

// Task is a set of training examples plus test inputs.
type Task struct {
	ID    string    `json:"id,omitempty"`
	Train []Example `json:"train"`
	Test  []Example `json:"test"`
}

// Validate checks that the task has training data, that every training
// example has an output and every grid is non-empty.
func (t Task) Validate() error {
	if len(t.Train) == 0 {
		return errors.New(errors.ErrCodeInvalidTask, "task has no training examples")
	}
	for i, ex := range t.Train {
		if ex.Input.Empty() {
			return errors.New(errors.ErrCodeInvalidTask, "train[%d]: missing input", i)
		}
		if ex.Output == nil || ex.Output.Empty() {
			return errors.New(errors.ErrCodeInvalidTask, "train[%d]: missing output", i)
		}
	}
	for i, ex := range t.Test {
		if ex.Input.Empty() {
			return errors.New(errors.ErrCodeInvalidTask, "test[%d]: missing input", i)
		}
	}
	return nil
}

// Pairs returns the training examples as pairs. Call Validate first;
// examples without an output are skipped.
func (t Task) Pairs() []Pair {
	pairs := make([]Pair, 0, len(t.Train))
	for _, ex := range t.Train {
		if ex.Output == nil {
			continue
		}
		pairs = append(pairs, Pair{Input: ex.Input, Output: *ex.Output})
	}
	return pairs
}

// TestInputs returns the test input grids in order.
func (t Task) TestInputs() []grid.Grid {
	out := make([]grid.Grid, len(t.Test))
	for i, ex := range t.Test {
		out[i] = ex.Input
	}
	return out
}

// Expected returns the test outputs when every test example carries one.
func (t Task) Expected() ([]grid.Grid, bool) {
	out := make([]grid.Grid, len(t.Test))
	for i, ex := range t.Test {
		if ex.Output == nil {
			return nil, false
		}
		out[i] = *ex.Output
	}
	return out, len(out) > 0
}
