package stacking

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/gridrule/pkg/errors"
	"github.com/matzehuels/gridrule/pkg/grid"
	"github.com/matzehuels/gridrule/pkg/task"
)

func pair(in, out [][]int) task.Pair {
	return task.Pair{Input: grid.MustFromRows(in), Output: grid.MustFromRows(out)}
}

// horizontalPairs places scattered objects flush left-to-right from (0,0).
func horizontalPairs() []task.Pair {
	return []task.Pair{
		pair(
			[][]int{
				{0, 0, 0, 0, 0, 0},
				{0, 1, 0, 0, 2, 2},
				{0, 1, 0, 0, 0, 0},
				{0, 0, 0, 0, 0, 0},
			},
			[][]int{
				{1, 2, 2, 0, 0, 0},
				{1, 0, 0, 0, 0, 0},
				{0, 0, 0, 0, 0, 0},
				{0, 0, 0, 0, 0, 0},
			},
		),
		pair(
			[][]int{
				{3, 3, 0, 0, 0, 0},
				{0, 0, 0, 4, 0, 0},
				{0, 0, 0, 0, 0, 6},
				{0, 0, 0, 0, 0, 6},
			},
			[][]int{
				{3, 3, 4, 6, 0, 0},
				{0, 0, 0, 6, 0, 0},
				{0, 0, 0, 0, 0, 0},
				{0, 0, 0, 0, 0, 0},
			},
		),
		pair(
			[][]int{
				{0, 0, 0, 0, 0, 0},
				{0, 0, 0, 0, 0, 0},
				{7, 7, 0, 8, 8, 8},
				{0, 0, 0, 0, 0, 0},
			},
			[][]int{
				{7, 7, 8, 8, 8, 0},
				{0, 0, 0, 0, 0, 0},
				{0, 0, 0, 0, 0, 0},
				{0, 0, 0, 0, 0, 0},
			},
		),
	}
}

func TestInferHorizontal(t *testing.T) {
	r, tally, err := Infer(horizontalPairs(), nil)
	if err != nil {
		t.Fatalf("Infer() error = %v", err)
	}
	if r.Pattern != Horizontal {
		t.Errorf("Pattern = %v, want horizontal", r.Pattern)
	}
	if !r.AnchorAtOrigin {
		t.Error("AnchorAtOrigin = false, want true")
	}
	if diff := cmp.Diff([3]int{0, 4, 0}, tally.Votes); diff != "" {
		t.Errorf("Votes mismatch (-want +got):\n%s", diff)
	}
	if tally.Pairs != 3 || tally.AtOrigin != 3 || tally.Transitions != 4 {
		t.Errorf("tally = %+v", tally)
	}
}

func TestAnchorRequiresEveryPair(t *testing.T) {
	pairs := horizontalPairs()
	pairs = append(pairs, pair(
		[][]int{
			{0, 0, 0},
			{0, 0, 9},
			{0, 0, 0},
		},
		[][]int{
			{0, 0, 0},
			{0, 9, 0},
			{0, 0, 0},
		},
	))
	r, tally, err := Infer(pairs, nil)
	if err != nil {
		t.Fatalf("Infer() error = %v", err)
	}
	if r.AnchorAtOrigin {
		t.Error("AnchorAtOrigin = true with one pair off origin")
	}
	if tally.AtOrigin != 3 || tally.Pairs != 4 {
		t.Errorf("tally = %+v", tally)
	}
}

func TestInferSkipsUnmatchedPairs(t *testing.T) {
	pairs := append(horizontalPairs(), pair([][]int{{1}}, [][]int{{2}}))
	r, tally, err := Infer(pairs, nil)
	if err != nil {
		t.Fatalf("Infer() error = %v", err)
	}
	if tally.Skipped != 1 || !r.AnchorAtOrigin {
		t.Errorf("skipped pair changed the result: rule %+v tally %+v", r, tally)
	}

	_, _, err = Infer([]task.Pair{pair([][]int{{1}}, [][]int{{2}})}, nil)
	if !errors.Is(err, errors.ErrCodeNoRule) {
		t.Errorf("Infer() error = %v, want NO_RULE", err)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name           string
		h, w, dr, dc   int
		want           Pattern
		wantClassified bool
	}{
		{"diagonal", 3, 2, 2, 1, Diagonal, true},
		{"horizontal", 3, 2, 0, 2, Horizontal, true},
		{"vertical", 3, 2, 3, 0, Vertical, true},
		{"gap", 3, 2, 0, 3, 0, false},
		{"single row prefers diagonal", 1, 2, 0, 1, Diagonal, true},
		{"single cell overlap is diagonal", 1, 1, 0, 0, Diagonal, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Classify(tt.h, tt.w, tt.dr, tt.dc)
			if ok != tt.wantClassified || (ok && got != tt.want) {
				t.Errorf("Classify() = %v, %v; want %v, %v", got, ok, tt.want, tt.wantClassified)
			}
		})
	}
}

func TestWinnerTieBreak(t *testing.T) {
	tests := []struct {
		votes [3]int
		want  Pattern
	}{
		{[3]int{0, 0, 0}, Diagonal},
		{[3]int{1, 1, 1}, Diagonal},
		{[3]int{0, 2, 2}, Horizontal},
		{[3]int{0, 1, 2}, Vertical},
	}
	for _, tt := range tests {
		if got := (Tally{Votes: tt.votes}).Winner(); got != tt.want {
			t.Errorf("Winner(%v) = %v, want %v", tt.votes, got, tt.want)
		}
	}
}

func TestApply(t *testing.T) {
	in := grid.MustFromRows([][]int{
		{0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 5, 0},
		{0, 4, 4, 0, 5, 0},
		{0, 4, 4, 0, 0, 0},
		{0, 0, 0, 0, 0, 0},
	})

	tests := []struct {
		name string
		rule Rule
		want [][]int
	}{
		{
			name: "horizontal at origin",
			rule: Rule{AnchorAtOrigin: true, Pattern: Horizontal, Fallback: DefaultFallback},
			want: [][]int{
				{4, 4, 5, 0, 0, 0},
				{4, 4, 5, 0, 0, 0},
				{0, 0, 0, 0, 0, 0},
				{0, 0, 0, 0, 0, 0},
				{0, 0, 0, 0, 0, 0},
			},
		},
		{
			name: "vertical at origin",
			rule: Rule{AnchorAtOrigin: true, Pattern: Vertical, Fallback: DefaultFallback},
			want: [][]int{
				{4, 4, 0, 0, 0, 0},
				{4, 4, 0, 0, 0, 0},
				{5, 0, 0, 0, 0, 0},
				{5, 0, 0, 0, 0, 0},
				{0, 0, 0, 0, 0, 0},
			},
		},
		{
			name: "diagonal from fallback overlaps corners",
			rule: Rule{Pattern: Diagonal, Fallback: DefaultFallback},
			want: [][]int{
				{0, 0, 0, 0, 0, 0},
				{0, 0, 0, 0, 0, 0},
				{0, 0, 4, 4, 0, 0},
				{0, 0, 4, 5, 0, 0},
				{0, 0, 0, 5, 0, 0},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.rule.Apply(in)
			if diff := cmp.Diff(tt.want, got.ToRows()); diff != "" {
				t.Errorf("Apply() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestInferredRuleReproducesTraining(t *testing.T) {
	pairs := horizontalPairs()
	r, _, err := Infer(pairs, nil)
	if err != nil {
		t.Fatal(err)
	}
	for i, p := range pairs {
		if got := r.Apply(p.Input); !got.Equal(p.Output) {
			t.Errorf("pair %d: Apply() =\n%v\nwant\n%v", i, got, p.Output)
		}
	}
}

func TestRuleJSON(t *testing.T) {
	r := Rule{AnchorAtOrigin: true, Pattern: Vertical, Fallback: DefaultFallback}
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"anchor_at_origin":true,"pattern":"vertical","fallback":{"row":2,"col":2}}`
	if string(data) != want {
		t.Errorf("Marshal = %s, want %s", data, want)
	}
	var back Rule
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back != r {
		t.Errorf("round trip = %+v, want %+v", back, r)
	}
}

func TestApplyDropsOutOfBounds(t *testing.T) {
	in := grid.MustFromRows([][]int{
		{0, 0, 0},
		{0, 0, 0},
		{0, 1, 1},
	})
	got := Rule{Pattern: Horizontal, Fallback: DefaultFallback}.Apply(in)
	want := [][]int{
		{0, 0, 0},
		{0, 0, 0},
		{0, 0, 1},
	}
	if diff := cmp.Diff(want, got.ToRows()); diff != "" {
		t.Errorf("Apply() mismatch (-want +got):\n%s", diff)
	}
}

func TestRuleValidate(t *testing.T) {
	tests := []struct {
		name    string
		rule    Rule
		wantErr bool
	}{
		{"valid", Rule{Pattern: Vertical, Fallback: DefaultFallback}, false},
		{"anchored", Rule{AnchorAtOrigin: true, Pattern: Diagonal}, false},
		{"negative fallback row", Rule{Pattern: Horizontal, Fallback: grid.Point{Row: -1, Col: 2}}, true},
		{"negative fallback col", Rule{Pattern: Horizontal, Fallback: grid.Point{Row: 2, Col: -3}}, true},
		{"unknown pattern", Rule{Pattern: Pattern(7)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rule.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidOption) {
				t.Errorf("Validate() code = %s, want INVALID_OPTION", errors.GetCode(err))
			}
		})
	}
}
