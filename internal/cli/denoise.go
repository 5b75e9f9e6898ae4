package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gridrule/pkg/denoise"
	"github.com/matzehuels/gridrule/pkg/grid"
	"github.com/matzehuels/gridrule/pkg/task"
)

// denoiseOpts holds the command-line flags for the denoise command.
type denoiseOpts struct {
	output    string
	minRows   int
	minCols   int
	threshold float64
	quiet     bool
}

// denoiseCommand creates the denoise command, which cleans a single grid
// without any training pairs.
func (c *CLI) denoiseCommand() *cobra.Command {
	var opts denoiseOpts

	cmd := &cobra.Command{
		Use:   "denoise [grid.json]",
		Short: "Repair a tiled grid by stamping its most common tile",
		Long: `Denoise reads a grid stored as nested JSON rows, finds the most common
tile of at least --min-rows x --min-cols cells and replaces every tile
that resembles it closely enough. Everything else becomes background.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDenoise(args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the denoised grid as JSON to this file")
	cmd.Flags().IntVar(&opts.minRows, "min-rows", 0, "minimum tile height (default 4)")
	cmd.Flags().IntVar(&opts.minCols, "min-cols", 0, "minimum tile width (default 4)")
	cmd.Flags().Float64Var(&opts.threshold, "threshold", 0, "similarity needed to keep a tile (default 0.85)")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "do not print grids")

	return cmd
}

func (c *CLI) runDenoise(path string, opts *denoiseOpts) error {
	dopts := c.Config.Denoise
	if opts.minRows != 0 {
		dopts.MinRows = opts.minRows
	}
	if opts.minCols != 0 {
		dopts.MinCols = opts.minCols
	}
	if opts.threshold != 0 {
		dopts.Threshold = opts.threshold
	}
	if err := dopts.Validate(); err != nil {
		return err
	}

	g, err := task.ImportGrid(path)
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	tiles := denoise.ExtractTiles(g, dopts.MinRows, dopts.MinCols)
	out := denoise.Denoise(g, dopts)
	prog.done(fmt.Sprintf("Denoised %dx%d grid", g.Rows(), g.Cols()))

	if len(tiles) == 0 {
		printWarning("No tile of at least %dx%d cells; grid unchanged", dopts.MinRows, dopts.MinCols)
	} else {
		printSuccess("Found %d candidate tiles", len(tiles))
	}
	if !opts.quiet {
		fmt.Println(renderPanels(c.palette(), []string{"input", "denoised"}, []grid.Grid{g, out}))
	}

	if opts.output != "" {
		if err := task.Export(out, opts.output); err != nil {
			return err
		}
		printFile(opts.output)
	}
	return nil
}
