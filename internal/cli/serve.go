package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gridrule/internal/server"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr    string
	noCache bool
}

// serveCommand creates the serve command, which exposes the pipeline over
// HTTP until interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the solver as a JSON HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default :8080 or server.addr from config)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts *serveOpts) error {
	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	addr := opts.addr
	if addr == "" {
		addr = c.Config.Server.Addr
	}

	srv := server.New(runner, server.Options{
		Defaults: c.Config.PipelineOptions(),
		MaxBytes: c.Config.Server.MaxBytes,
		Logger:   c.Logger,
	})
	printInfo("Serving on %s", StyleHighlight.Render(addr))
	printNextStep("Try", "curl -s http://localhost"+portOf(addr)+"/healthz")
	return srv.ListenAndServe(ctx, addr)
}

// portOf returns the ":port" suffix of addr.
func portOf(addr string) string {
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ':' {
			return addr[i:]
		}
	}
	return ""
}
