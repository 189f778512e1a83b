package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nmgraph/pkg/config"
	"github.com/matzehuels/nmgraph/pkg/errors"
	pkgio "github.com/matzehuels/nmgraph/pkg/io"
	"github.com/matzehuels/nmgraph/pkg/pipeline"
	"github.com/matzehuels/nmgraph/pkg/render"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	root     string
	output   string
	detailed bool
	all      bool
}

// renderCommand creates the render command for drawing a saved graph.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <graph.json>",
		Short: "Draw a saved graph as SVG, PDF or PNG",
		Long: `Draw a graph previously written by "nmgraph graph" as a node-link diagram.

Both the adjacency list and the --table form are accepted. Packages are ranked
by their distance from the root.`,
		Example: `  nmgraph render deps.json --root my-app@1.0.0 -o deps.svg
  nmgraph render deps.json -o deps.pdf --detailed`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVar(&opts.root, "root", "", "root identity (default: last entry of the graph, with a warning)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <input>.svg)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show depth and degree in nodes")
	cmd.Flags().BoolVar(&opts.all, "all", false, "draw packages unreachable from the root")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, input string, opts *renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	popts, err := config.Load("", c.configPath, nil)
	if err != nil {
		return err
	}
	applyRenderFlags(cmd, &popts.Render, opts.detailed, opts.all)

	output := opts.output
	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + ".svg"
	}
	format, ok := render.FormatFromPath(output)
	if !ok {
		return fmt.Errorf("unsupported output format %q (use .svg, .pdf or .png)", filepath.Ext(output))
	}

	m, err := pkgio.ImportJSON(input)
	if err != nil {
		return err
	}

	root := opts.root
	if root == "" {
		ids := m.IDs()
		if len(ids) == 0 {
			return fmt.Errorf("%s contains no packages", input)
		}
		root = ids[len(ids)-1]
		// A project whose identity is also installed shares that earlier row,
		// so the last entry is only a guess.
		logger.Warnf("No --root given; assuming %s (last entry of %s)", root, input)
	} else if err := validateIdentity(root); err != nil {
		return err
	}

	prog := newProgress(logger)
	data, err := pipeline.NewRunner(logger).Render(ctx, m, root, format, popts.Render)
	if err != nil {
		return err
	}
	if err := writeOutput(output, data); err != nil {
		return err
	}
	prog.done("Generated %s", output)
	return nil
}

// validateIdentity checks that id has the form name@version with a valid
// npm package name.
func validateIdentity(id string) error {
	i := strings.LastIndex(id, "@")
	if i <= 0 || i == len(id)-1 {
		return errors.New(errors.ErrCodeInvalidPackage, "root %q is not of the form name@version", id)
	}
	return errors.ValidateNpmPackageName(id[:i])
}
