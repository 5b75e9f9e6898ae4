// Package rule defines the contract shared by every inferred transformation.
//
// A Rule is derived once from a task's training pairs and then applied,
// unchanged, to each test grid. Concrete rules live in the movement,
// stacking and denoise packages; the pipeline package owns their JSON
// envelope.
package rule

import (
	"fmt"

	"github.com/matzehuels/gridrule/pkg/errors"
	"github.com/matzehuels/gridrule/pkg/grid"
	"github.com/matzehuels/gridrule/pkg/task"
)

// Kind identifies a rule variant. The declaration order is also the
// preference order when two solvers score equally.
type Kind int

const (
	KindMovement Kind = iota
	KindStacking
	KindDenoise
)

var kindNames = [...]string{
	KindMovement: "movement",
	KindStacking: "stacking",
	KindDenoise:  "denoise",
}

// Kinds lists every rule kind in preference order.
func Kinds() []Kind { return []Kind{KindMovement, KindStacking, KindDenoise} }

// String returns the kind's lowercase name.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind maps a name produced by String back to its Kind.
func ParseKind(s string) (Kind, error) {
	for i, name := range kindNames {
		if name == s {
			return Kind(i), nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidSolver, "unknown rule kind %q (must be one of: movement, stacking, denoise)", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Rule is an immutable inferred transformation.
type Rule interface {
	Kind() Kind
	// Apply returns the predicted output for in. It never modifies in.
	Apply(in grid.Grid) grid.Grid
}

// Score returns the fraction of cells r reproduces across the training
// pairs. A prediction whose shape differs from the expected output scores
// zero for that pair. Score returns 0 for an empty pair list.
func Score(r Rule, pairs []task.Pair) float64 {
	if len(pairs) == 0 {
		return 0
	}
	total := 0.0
	for _, p := range pairs {
		total += CellAccuracy(r.Apply(p.Input), p.Output)
	}
	return total / float64(len(pairs))
}

// CellAccuracy returns the fraction of equal cells between two grids of the
// same shape, or 0 when the shapes differ.
func CellAccuracy(got, want grid.Grid) float64 {
	if !got.SameShape(want) || want.Empty() {
		return 0
	}
	a, b := got.Cells(), want.Cells()
	same := 0
	for i := range a {
		if a[i] == b[i] {
			same++
		}
	}
	return float64(same) / float64(len(a))
}
