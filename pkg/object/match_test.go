package object

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/gridrule/pkg/grid"
)

func TestMatchFirstOccurrenceWins(t *testing.T) {
	in := Extract(grid.MustFromRows([][]int{
		{1, 0, 1},
		{0, 2, 0},
	}))
	out := Extract(grid.MustFromRows([][]int{
		{0, 0, 3},
		{1, 0, 1},
	}))

	pairs := Match(in, out)
	if len(pairs) != 1 {
		t.Fatalf("Match() returned %d pairs, want 1", len(pairs))
	}
	p := pairs[0]
	if p.Value != 1 {
		t.Errorf("Value = %d, want 1", p.Value)
	}
	if p.Input.Origin() != (grid.Point{Row: 0, Col: 0}) {
		t.Errorf("input block origin = %v, want first block (0,0)", p.Input.Origin())
	}
	if p.Output.Origin() != (grid.Point{Row: 1, Col: 0}) {
		t.Errorf("output block origin = %v, want first block (1,0)", p.Output.Origin())
	}
}

func TestMatchOrderFollowsInput(t *testing.T) {
	in := []Block{{Value: 5}, {Value: 2}, {Value: 5}, {Value: 9}}
	out := []Block{{Value: 9}, {Value: 2}, {Value: 5}}

	var got []int
	for _, p := range Match(in, out) {
		got = append(got, p.Value)
	}
	if diff := cmp.Diff([]int{5, 2, 9}, got); diff != "" {
		t.Errorf("Match() order mismatch (-want +got):\n%s", diff)
	}
}

func TestMatchDeterministic(t *testing.T) {
	in := Extract(grid.MustFromRows([][]int{
		{1, 2, 3, 4},
		{4, 3, 2, 1},
	}))
	out := Extract(grid.MustFromRows([][]int{
		{4, 0, 0, 1},
		{0, 2, 3, 0},
	}))

	first := Match(in, out)
	second := Match(in, out)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Match() not deterministic (-first +second):\n%s", diff)
	}
}

func TestMatchEmpty(t *testing.T) {
	if got := Match(nil, []Block{{Value: 1}}); len(got) != 0 {
		t.Errorf("Match(nil, ...) = %v, want empty", got)
	}
}
