package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gridrule/pkg/pipeline"
	"github.com/matzehuels/gridrule/pkg/task"
)

// showOpts holds the command-line flags for the show command.
type showOpts struct {
	solverFlags
	solve bool
}

// showCommand creates the interactive task browser.
func (c *CLI) showCommand() *cobra.Command {
	var opts showOpts

	cmd := &cobra.Command{
		Use:   "show [task.json]",
		Short: "Browse a task's grids interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runShow(cmd.Context(), args[0], &opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().BoolVar(&opts.solve, "solve", false, "solve the task and show predictions next to the test inputs")

	return cmd
}

func (c *CLI) runShow(ctx context.Context, path string, opts *showOpts) error {
	t, err := task.Import(path)
	if err != nil {
		return err
	}

	var result *pipeline.Result
	if opts.solve {
		popts, err := opts.options(c)
		if err != nil {
			return err
		}
		runner, err := c.newRunner(ctx, opts.noCache)
		if err != nil {
			return err
		}
		defer runner.Close()

		spinner := newSpinnerWithContext(ctx, "Solving "+t.ID+"...")
		spinner.Start()
		result, err = runner.Execute(ctx, t, popts)
		if err != nil {
			spinner.StopWithError("Could not solve " + t.ID)
			return err
		}
		spinner.Stop()
		if spinner.Cancelled() {
			return ctx.Err()
		}
	}

	model := newBrowserModel(t, result, c.palette())
	_, err = tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen()).Run()
	return err
}
