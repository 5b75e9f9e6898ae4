package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gridrule/pkg/pipeline"
	"github.com/matzehuels/gridrule/pkg/task"
)

// inferOpts holds the command-line flags for the infer command.
type inferOpts struct {
	solverFlags
	output string // rule file
	json   bool   // print the rule as JSON instead of a summary
}

// inferCommand creates the infer command, which learns a rule without
// applying it.
func (c *CLI) inferCommand() *cobra.Command {
	var opts inferOpts

	cmd := &cobra.Command{
		Use:   "infer [task.json]",
		Short: "Infer a rule from training pairs and report how each solver scored",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInfer(cmd.Context(), args[0], &opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the rule as JSON to this file")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the rule as JSON")

	return cmd
}

func (c *CLI) runInfer(ctx context.Context, path string, opts *inferOpts) error {
	popts, err := opts.options(c)
	if err != nil {
		return err
	}
	t, err := task.Import(path)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	rl, cands, hit, err := runner.InferWithCacheInfo(ctx, t.Pairs(), popts)
	if err != nil {
		return err
	}
	env, err := pipeline.Wrap(rl)
	if err != nil {
		return err
	}

	if opts.json {
		return task.Write(os.Stdout, env)
	}

	printSuccess("%s %s %s", StyleTitle.Render(t.ID), iconArrow, StyleHighlight.Render(rl.Kind().String()))
	printDetail("%s", describeRule(rl))
	printStats([]string{fmt.Sprintf("%d training pairs", len(t.Train))}, hit)
	printNewline()
	fmt.Println(candidateTable(cands, rl.Kind().String()))

	if opts.output != "" {
		if err := task.Export(env, opts.output); err != nil {
			return err
		}
		printFile(opts.output)
	}
	return nil
}

// candidateTable renders solver scores, highlighting the chosen one.
func candidateTable(cands []pipeline.Candidate, chosen string) string {
	rows := make([][]string, len(cands))
	for i, cd := range cands {
		score := fmt.Sprintf("%.1f%%", cd.Score*100)
		note := ""
		if cd.Error != "" {
			score = "—"
			note = cd.Error
		}
		rows[i] = []string{cd.Kind.String(), score, note}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Solver", "Train", "Note").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if row < len(cands) && cands[row].Kind.String() == chosen {
				return base.Foreground(colorGreen).Bold(true)
			}
			return base.Foreground(colorGray)
		}).
		Render()
}
