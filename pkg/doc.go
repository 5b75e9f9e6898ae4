// Package pkg provides the core libraries for gridrule, a rule-induction
// engine for small colored grids.
//
// # Overview
//
// gridrule learns a transformation from a handful of input/output grid
// pairs and applies it to new inputs. The pkg directory is organized into
// three areas:
//
//  1. Domain: [grid], [object], [movement], [stacking], [denoise], [rule], [task]
//  2. Orchestration: [pipeline] (infer → apply), [config]
//  3. Infrastructure: [cache], [errors], [observability], [buildinfo]
//
// # Architecture
//
// The typical data flow through gridrule:
//
//	Task file (train pairs + test inputs)
//	         ↓
//	    [object] package (connected components, marker positions)
//	         ↓
//	    [movement] / [stacking] / [denoise] (infer one rule per family)
//	         ↓
//	    [pipeline] package (score candidates, keep the best, cache)
//	         ↓
//	    Predicted grids / JSON report
//
// # Quick Start
//
//	t, _ := task.Import("task.json")
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, err := runner.Execute(ctx, t, pipeline.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Rule.Kind(), result.Predictions[0])
//
// [grid]: github.com/matzehuels/gridrule/pkg/grid
// [object]: github.com/matzehuels/gridrule/pkg/object
// [movement]: github.com/matzehuels/gridrule/pkg/movement
// [stacking]: github.com/matzehuels/gridrule/pkg/stacking
// [denoise]: github.com/matzehuels/gridrule/pkg/denoise
// [rule]: github.com/matzehuels/gridrule/pkg/rule
// [task]: github.com/matzehuels/gridrule/pkg/task
// [pipeline]: github.com/matzehuels/gridrule/pkg/pipeline
// [config]: github.com/matzehuels/gridrule/pkg/config
// [cache]: github.com/matzehuels/gridrule/pkg/cache
// [errors]: github.com/matzehuels/gridrule/pkg/errors
// [observability]: github.com/matzehuels/gridrule/pkg/observability
// [buildinfo]: github.com/matzehuels/gridrule/pkg/buildinfo
package pkg
