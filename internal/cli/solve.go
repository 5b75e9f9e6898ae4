package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gridrule/pkg/denoise"
	"github.com/matzehuels/gridrule/pkg/grid"
	"github.com/matzehuels/gridrule/pkg/movement"
	"github.com/matzehuels/gridrule/pkg/pipeline"
	"github.com/matzehuels/gridrule/pkg/rule"
	"github.com/matzehuels/gridrule/pkg/stacking"
	"github.com/matzehuels/gridrule/pkg/task"
)

// solveOpts holds the command-line flags for the solve command.
type solveOpts struct {
	solverFlags
	output string // report file, or directory when solving several tasks
	quiet  bool   // skip grid rendering
}

// solveCommand creates the solve command: infer a rule from each task's
// training pairs and predict its test outputs.
func (c *CLI) solveCommand() *cobra.Command {
	var opts solveOpts

	cmd := &cobra.Command{
		Use:   "solve [task.json...]",
		Short: "Infer a rule from training pairs and predict test outputs",
		Long: `Solve reads one or more task files, infers a transformation rule from
each task's training pairs and applies it to the test inputs.

With a single task, --output names the report file. With several tasks it
names a directory that receives one <task-id>.json report per task.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSolve(cmd.Context(), args, &opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the JSON report to this file (or directory)")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "do not print grids")

	return cmd
}

func (c *CLI) runSolve(ctx context.Context, paths []string, opts *solveOpts) error {
	popts, err := opts.options(c)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	if len(paths) > 1 && opts.output != "" {
		if err := os.MkdirAll(opts.output, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	prog := newProgress(c.Logger)
	var solved, checked, failed int
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}

		result, err := c.solveOne(ctx, runner, path, popts, opts)
		if err != nil {
			if len(paths) == 1 {
				return err
			}
			printError("%s: %v", path, err)
			failed++
			continue
		}
		if result.Checked > 0 {
			checked++
			if result.Solved == result.Checked {
				solved++
			}
		}
	}

	if len(paths) > 1 {
		printNewline()
		prog.done(fmt.Sprintf("Processed %d tasks", len(paths)))
		printKeyValue("Solved", fmt.Sprintf("%d/%d with known outputs", solved, checked))
		if failed > 0 {
			printWarning("%d tasks failed", failed)
		}
	}
	return nil
}

func (c *CLI) solveOne(ctx context.Context, runner *pipeline.Runner, path string, popts pipeline.Options, opts *solveOpts) (*pipeline.Result, error) {
	t, err := task.Import(path)
	if err != nil {
		return nil, err
	}

	result, err := runner.Execute(ctx, t, popts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", t.ID, err)
	}

	printSuccess("%s %s %s", StyleTitle.Render(t.ID), iconArrow, StyleHighlight.Render(result.Rule.Kind().String()))
	printDetail("%s", describeRule(result.Rule))
	stats := []string{
		fmt.Sprintf("train %.0f%%", result.TrainScore*100),
		fmt.Sprintf("%d test grids", result.Stats.TestGrids),
	}
	if result.Checked > 0 {
		stats = append(stats, fmt.Sprintf("%d/%d correct", result.Solved, result.Checked))
	}
	printStats(stats, result.CacheInfo.RuleHit)

	if !opts.quiet {
		p := c.palette()
		for i, in := range t.TestInputs() {
			fmt.Println(renderPanels(p,
				[]string{fmt.Sprintf("test %d", i+1), "prediction"},
				[]grid.Grid{in, result.Predictions[i]}))
		}
	}

	if opts.output != "" {
		out := opts.output
		if info, err := os.Stat(out); err == nil && info.IsDir() {
			out = filepath.Join(out, t.ID+".json")
		}
		rep, err := result.Report()
		if err != nil {
			return nil, err
		}
		if err := task.Export(rep, out); err != nil {
			return nil, err
		}
		printFile(out)
	}
	return result, nil
}

// describeRule summarizes a rule on one line.
func describeRule(r rule.Rule) string {
	switch v := r.(type) {
	case movement.Rule:
		legs := make([]string, len(v.Legs))
		for i, l := range v.Legs {
			order := make([]string, len(l.Order))
			for j, a := range l.Order {
				order[j] = a.String()
			}
			legs[i] = fmt.Sprintf("%d %s %d (%s)", l.From, iconArrow, l.To, strings.Join(order, " then "))
		}
		return fmt.Sprintf("%s; trail %d", strings.Join(legs, ", "), v.Trail)
	case stacking.Rule:
		return fmt.Sprintf("%s stacking from %s", v.Pattern, v.Start())
	case denoise.Rule:
		return fmt.Sprintf("template tiles ≥ %dx%d, threshold %.2f", v.Options.MinRows, v.Options.MinCols, v.Options.Threshold)
	}
	return r.Kind().String()
}
