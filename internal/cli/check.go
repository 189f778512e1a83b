package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nmgraph/pkg/pipeline"
)

// checkOpts holds the command-line flags for the check command.
type checkOpts struct {
	resolve resolveFlags
	strict  bool
}

// checkCommand creates the check command, which resolves a project and
// reports every requirement that could not be bound.
func (c *CLI) checkCommand() *cobra.Command {
	var opts checkOpts

	cmd := &cobra.Command{
		Use:   "check [project-dir]",
		Short: "Report dependencies that do not resolve to an installed package",
		Long: `Resolve a project and list every declared dependency that is missing from
node_modules, has no installed version in range, or carries a malformed range.

With --verify, bindings are also compared against canonical semver matching.`,
		Example: `  nmgraph check ./my-app
  nmgraph check . --dev --strict`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCheck(cmd, projectArg(args), &opts)
		},
	}

	opts.resolve.register(cmd)
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "exit with an error when any diagnostic is reported")

	return cmd
}

func (c *CLI) runCheck(cmd *cobra.Command, dir string, opts *checkOpts) error {
	ctx := cmd.Context()

	popts, err := c.loadOptions(cmd, dir, &opts.resolve)
	if err != nil {
		return err
	}
	// Diagnostics are printed as a table below.
	popts.Logger = newLogger(io.Discard, LogInfo)

	spinner := newSpinner(ctx, cmd.ErrOrStderr(), "Resolving "+dir+"...")
	spinner.Start()
	res, err := pipeline.NewRunner(loggerFromContext(ctx)).Execute(ctx, dir, popts)
	spinner.Stop()
	if err != nil {
		return err
	}

	printStats(res.Stats.Instances, res.Stats.NodeCount, res.Stats.EdgeCount, len(res.Diagnostics))
	if len(res.Diagnostics) == 0 {
		printSuccess("All dependencies of %s resolve", res.Root)
		return nil
	}

	printDiagnostics(res.Diagnostics)
	if opts.strict {
		return fmt.Errorf("%d unresolved dependencies", len(res.Diagnostics))
	}
	printNextStep("Reinstall to fix missing packages", "npm install")
	return nil
}
