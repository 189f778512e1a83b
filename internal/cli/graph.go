package cli

import (
	"context"

	"github.com/spf13/cobra"

	pkgio "github.com/matzehuels/nmgraph/pkg/io"
	"github.com/matzehuels/nmgraph/pkg/observability"
	"github.com/matzehuels/nmgraph/pkg/pipeline"
	"github.com/matzehuels/nmgraph/pkg/render"
)

// graphOpts holds the command-line flags for the graph command.
type graphOpts struct {
	resolve     resolveFlags
	output      string // output file path (stdout if empty)
	table       bool   // write the full boolean table instead of an adjacency list
	metricsFile string // Prometheus textfile written after the run
	detailed    bool
	all         bool
}

// graphCommand creates the graph command.
//
// The output format follows the -o extension: .svg, .pdf and .png are
// rendered as node-link diagrams, anything else is written as JSON.
func (c *CLI) graphCommand() *cobra.Command {
	var opts graphOpts

	cmd := &cobra.Command{
		Use:   "graph [project-dir]",
		Short: "Resolve node_modules into a dependency graph",
		Long: `Resolve a project's installed node_modules into a dependency graph.

Every package is identified as name@version. Each declared dependency is bound
to the highest installed version that satisfies its range.`,
		Example: `  # Adjacency list on stdout
  nmgraph graph ./my-app

  # Include devDependencies and write a diagram
  nmgraph graph ./my-app --dev -o deps.svg

  # Full boolean table plus run metrics
  nmgraph graph . --table -o table.json --metrics-file nmgraph.prom`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGraph(cmd, projectArg(args), &opts)
		},
	}

	opts.resolve.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (.json, .svg, .pdf, .png; stdout if empty)")
	cmd.Flags().BoolVar(&opts.table, "table", false, "write the full boolean table instead of an adjacency list")
	cmd.Flags().StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus metrics for this run to a textfile")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show depth and degree in diagram nodes")
	cmd.Flags().BoolVar(&opts.all, "all", false, "draw packages unreachable from the root")

	return cmd
}

func (c *CLI) runGraph(cmd *cobra.Command, dir string, opts *graphOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	popts, err := c.loadOptions(cmd, dir, &opts.resolve)
	if err != nil {
		return err
	}
	applyRenderFlags(cmd, &popts.Render, opts.detailed, opts.all)

	var prom *observability.PromHooks
	if opts.metricsFile != "" {
		prom = observability.NewPromHooks()
		observability.SetPipelineHooks(prom)
		observability.SetCacheHooks(prom)
		defer observability.Reset()
	}

	runner := pipeline.NewRunner(logger)
	prog := newProgress(logger)
	res, err := runner.Execute(ctx, dir, popts)
	if err != nil {
		return err
	}
	prog.done("Resolved %d packages, %d edges", res.Stats.NodeCount, res.Stats.EdgeCount)

	if err := writeGraph(ctx, runner, res, opts, popts.Render); err != nil {
		return err
	}
	if opts.output != "" {
		logger.Infof("Wrote graph to %s", opts.output)
	}

	if prom != nil {
		if err := prom.WriteTextfile(opts.metricsFile); err != nil {
			return err
		}
		logger.Debugf("Wrote metrics to %s", opts.metricsFile)
	}
	return nil
}

// writeGraph writes res to opts.output, or to stdout when it is empty.
// Image extensions select the renderer; anything else is written as JSON.
func writeGraph(ctx context.Context, runner *pipeline.Runner, res *pipeline.Result, opts *graphOpts, ro pipeline.RenderOptions) error {
	if format, ok := render.FormatFromPath(opts.output); ok {
		data, err := runner.Render(ctx, res.Matrix, res.Root, format, ro)
		if err != nil {
			return err
		}
		return writeOutput(opts.output, data)
	}

	switch {
	case opts.output == "" && opts.table:
		return pkgio.WriteTable(res.Matrix, stdout)
	case opts.output == "":
		return pkgio.WriteJSON(res.Matrix, stdout)
	case opts.table:
		return pkgio.ExportTable(res.Matrix, opts.output)
	default:
		return pkgio.ExportJSON(res.Matrix, opts.output)
	}
}

// applyRenderFlags overrides configured render options with explicit flags.
func applyRenderFlags(cmd *cobra.Command, ro *pipeline.RenderOptions, detailed, all bool) {
	if cmd.Flags().Changed("detailed") {
		ro.Detailed = detailed
	}
	if cmd.Flags().Changed("all") {
		ro.IncludeUnreachable = all
	}
}

// projectArg returns the project directory argument, defaulting to ".".
func projectArg(args []string) string {
	if len(args) == 0 {
		return "."
	}
	return args[0]
}
