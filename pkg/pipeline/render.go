package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/nmgraph/pkg/graph"
	"github.com/matzehuels/nmgraph/pkg/observability"
	"github.com/matzehuels/nmgraph/pkg/render"
	"github.com/matzehuels/nmgraph/pkg/render/nodelink"
)

// Render draws m as a node-link diagram rooted at root and returns the
// image in format.
func (r *Runner) Render(ctx context.Context, m *graph.Matrix, root string, format render.Format, opts RenderOptions) ([]byte, error) {
	if !m.Contains(root) {
		return nil, fmt.Errorf("root %q is not in the graph", root)
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, string(format))
	start := time.Now()

	out, err := r.render(ctx, m, root, format, opts)
	hooks.OnRenderComplete(ctx, string(format), time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}

	r.Logger.Debug("rendered graph", "format", format, "bytes", len(out), "duration", time.Since(start))
	return out, nil
}

func (r *Runner) render(ctx context.Context, m *graph.Matrix, root string, format render.Format, opts RenderOptions) ([]byte, error) {
	dot := nodelink.ToDOT(m, root, nodelink.Options{
		Detailed:           opts.Detailed,
		IncludeUnreachable: opts.IncludeUnreachable,
	})
	svg, err := nodelink.RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.Convert(ctx, svg, format)
}
