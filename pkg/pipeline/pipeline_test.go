package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/gridrule/pkg/errors"
	"github.com/matzehuels/gridrule/pkg/grid"
	"github.com/matzehuels/gridrule/pkg/movement"
	"github.com/matzehuels/gridrule/pkg/rule"
	"github.com/matzehuels/gridrule/pkg/stacking"
	"github.com/matzehuels/gridrule/pkg/task"
)

func example(in [][]int, out [][]int) task.Example {
	ex := task.Example{Input: grid.MustFromRows(in)}
	if out != nil {
		g := grid.MustFromRows(out)
		ex.Output = &g
	}
	return ex
}

// markerTask connects marker 2 to marker 4, horizontal leg first.
func markerTask() task.Task {
	return task.Task{
		ID: "markers",
		Train: []task.Example{
			example(
				[][]int{{0, 2, 0}, {0, 0, 0}, {0, 0, 4}},
				[][]int{{0, 2, 5}, {0, 0, 5}, {0, 0, 4}},
			),
		},
		Test: []task.Example{
			example(
				[][]int{{0, 0, 4}, {0, 0, 0}, {2, 0, 0}},
				[][]int{{0, 0, 4}, {0, 0, 5}, {2, 5, 5}},
			),
		},
	}
}

// memCache is an in-memory cache.Cache that counts operations.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemCache() *memCache { return &memCache{data: make(map[string][]byte)} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	c.sets++
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

func TestValidateSolver(t *testing.T) {
	tests := []struct {
		solver  string
		wantErr bool
	}{
		{"auto", false},
		{"movement", false},
		{"stacking", false},
		{"denoise", false},
		{"Movement", true}, // case-sensitive
		{"", true},
		{"flood", true},
	}

	for _, tt := range tests {
		err := ValidateSolver(tt.solver)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateSolver(%q) error = %v, wantErr %v", tt.solver, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidSolver) {
			t.Errorf("ValidateSolver(%q) code = %s", tt.solver, errors.GetCode(err))
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}
	if opts.Solver != SolverAuto {
		t.Errorf("Solver = %q, want auto", opts.Solver)
	}
	if diff := cmp.Diff(movement.DefaultMarkers, opts.Markers); diff != "" {
		t.Errorf("Markers mismatch (-want +got):\n%s", diff)
	}
	if opts.Trail != movement.DefaultTrail || *opts.Fallback != stacking.DefaultFallback {
		t.Errorf("Trail = %d, Fallback = %v", opts.Trail, *opts.Fallback)
	}
	if opts.Denoise.MinRows != 4 || opts.Denoise.MinCols != 4 || opts.Denoise.Threshold != 0.85 {
		t.Errorf("Denoise = %+v", opts.Denoise)
	}

	// Defaults must not alias the package-level marker slice.
	opts.Markers[0] = 9
	if movement.DefaultMarkers[0] == 9 {
		t.Error("SetDefaults() aliased movement.DefaultMarkers")
	}
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"unknown solver", Options{Solver: "magic"}, errors.ErrCodeInvalidSolver},
		{"single marker", Options{Markers: []int{2}}, errors.ErrCodeInvalidOption},
		{"background marker", Options{Markers: []int{0, 2}}, errors.ErrCodeInvalidOption},
		{"trail is marker", Options{Markers: []int{2, 5}, Trail: 5}, errors.ErrCodeInvalidOption},
		{"negative fallback", Options{Fallback: &grid.Point{Row: -1}}, errors.ErrCodeInvalidOption},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("ValidateAndSetDefaults() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestExecuteAuto(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	result, err := runner.Execute(context.Background(), markerTask(), Options{})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if result.Rule.Kind() != rule.KindMovement {
		t.Fatalf("Rule.Kind() = %v, want movement", result.Rule.Kind())
	}
	if result.TrainScore != 1 {
		t.Errorf("TrainScore = %v, want 1", result.TrainScore)
	}
	if len(result.Candidates) != len(rule.Kinds()) {
		t.Errorf("Candidates = %+v, want one per kind", result.Candidates)
	}
	want := [][]int{{0, 0, 4}, {0, 0, 5}, {2, 5, 5}}
	if diff := cmp.Diff(want, result.Predictions[0].ToRows()); diff != "" {
		t.Errorf("prediction mismatch (-want +got):\n%s", diff)
	}
	if result.Solved != 1 || result.Checked != 1 {
		t.Errorf("Solved/Checked = %d/%d, want 1/1", result.Solved, result.Checked)
	}
	if result.RunID == "" || result.TaskID != "markers" {
		t.Errorf("RunID = %q, TaskID = %q", result.RunID, result.TaskID)
	}
}

func TestExecuteForcedSolver(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	result, err := runner.Execute(context.Background(), markerTask(), Options{Solver: "denoise"})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result.Rule.Kind() != rule.KindDenoise {
		t.Errorf("Rule.Kind() = %v, want denoise", result.Rule.Kind())
	}
	// No tile meets the size filter, so the test input comes back unchanged.
	if !result.Predictions[0].Equal(markerTask().Test[0].Input) {
		t.Errorf("prediction = \n%v", result.Predictions[0])
	}
	if result.Solved != 0 {
		t.Errorf("Solved = %d, want 0", result.Solved)
	}
}

func TestExecuteNoRule(t *testing.T) {
	tk := markerTask()
	tk.Train = []task.Example{example([][]int{{1, 0}}, [][]int{{1, 0}})}

	runner := NewRunner(nil, nil, nil)
	_, err := runner.Execute(context.Background(), tk, Options{Solver: "movement"})
	if !errors.Is(err, errors.ErrCodeNoRule) {
		t.Errorf("Execute() error = %v, want NO_RULE", err)
	}
}

func TestExecuteInvalidTask(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	_, err := runner.Execute(context.Background(), task.Task{}, Options{})
	if !errors.Is(err, errors.ErrCodeInvalidTask) {
		t.Errorf("Execute() error = %v, want INVALID_TASK", err)
	}
}

func TestExecuteCaches(t *testing.T) {
	c := newMemCache()
	runner := NewRunner(c, nil, nil)
	ctx := context.Background()

	first, err := runner.Execute(ctx, markerTask(), Options{})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if first.CacheInfo.RuleHit || first.CacheInfo.PredictionHits != 0 {
		t.Errorf("first run CacheInfo = %+v, want all misses", first.CacheInfo)
	}
	if c.sets != 2 {
		t.Errorf("cache sets = %d, want 2", c.sets)
	}

	second, err := runner.Execute(ctx, markerTask(), Options{})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !second.CacheInfo.RuleHit || second.CacheInfo.PredictionHits != 1 {
		t.Errorf("second run CacheInfo = %+v, want all hits", second.CacheInfo)
	}
	if diff := cmp.Diff(first.Candidates, second.Candidates); diff != "" {
		t.Errorf("cached candidates mismatch (-first +second):\n%s", diff)
	}
	if !second.Predictions[0].Equal(first.Predictions[0]) {
		t.Error("cached prediction differs")
	}
	if first.RunID == second.RunID {
		t.Error("runs share a RunID")
	}

	refreshed, err := runner.Execute(ctx, markerTask(), Options{Refresh: true})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if refreshed.CacheInfo.RuleHit || refreshed.CacheInfo.PredictionHits != 0 {
		t.Errorf("refresh CacheInfo = %+v, want all misses", refreshed.CacheInfo)
	}
}

func TestApplyHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := NewRunner(nil, nil, nil)
	r := stacking.Rule{Pattern: stacking.Horizontal, Fallback: stacking.DefaultFallback}
	_, err := runner.Apply(ctx, r, []grid.Grid{grid.New(2, 2)}, Options{})
	if err != context.Canceled {
		t.Errorf("Apply() error = %v, want context.Canceled", err)
	}
}

func TestRuleEnvelope(t *testing.T) {
	r := movement.Rule{
		Legs:  []movement.Leg{{From: 2, To: 4, Order: []movement.Axis{movement.Vertical, movement.Horizontal}}},
		Trail: 5,
	}
	data, err := MarshalRule(r)
	if err != nil {
		t.Fatalf("MarshalRule() error = %v", err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	if string(raw["kind"]) != `"movement"` || raw["stacking"] != nil {
		t.Errorf("envelope = %s", data)
	}

	back, err := UnmarshalRule(data)
	if err != nil {
		t.Fatalf("UnmarshalRule() error = %v", err)
	}
	if diff := cmp.Diff(rule.Rule(r), back); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	if _, err := UnmarshalRule([]byte(`{"kind":"stacking"}`)); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("UnmarshalRule() of empty body error = %v, want INVALID_INPUT", err)
	}
}

func TestUnwrapValidatesBody(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"negative trail", `{"kind":"movement","movement":{"legs":[{"from":2,"to":4,"order":["horizontal"]}],"trail":-7}}`},
		{"zero marker", `{"kind":"movement","movement":{"legs":[{"from":0,"to":4,"order":["horizontal"]}],"trail":5}}`},
		{"negative fallback", `{"kind":"stacking","stacking":{"anchor_at_origin":false,"pattern":"vertical","fallback":{"row":-1,"col":0}}}`},
		{"denoise threshold", `{"kind":"denoise","denoise":{"options":{"min_rows":0,"min_cols":4,"threshold":7}}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalRule([]byte(tt.json))
			if !errors.Is(err, errors.ErrCodeInvalidOption) {
				t.Errorf("UnmarshalRule() error = %v, want INVALID_OPTION", err)
			}
		})
	}
}

func TestReport(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	result, err := runner.Execute(context.Background(), markerTask(), Options{})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	rep, err := result.Report()
	if err != nil {
		t.Fatalf("Report() error = %v", err)
	}
	if rep.Rule.Kind != rule.KindMovement || rep.Rule.Movement == nil {
		t.Errorf("Report().Rule = %+v", rep.Rule)
	}
	if rep.Solved == nil || *rep.Solved != 1 {
		t.Errorf("Report().Solved = %v, want 1", rep.Solved)
	}
}

func ExampleRunner_Execute() {
	tk := markerTask()
	runner := NewRunner(nil, nil, nil)
	result, err := runner.Execute(context.Background(), tk, Options{Solver: "movement"})
	if err != nil {
		panic(err)
	}
	fmt.Println(result.Rule.Kind())
	fmt.Println(result.Predictions[0])
	// Output:
	// movement
	// 0 0 4
	// 0 0 5
	// 2 5 5
}
