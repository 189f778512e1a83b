package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nmgraph/pkg/deps"
	"github.com/matzehuels/nmgraph/pkg/errors"
	"github.com/matzehuels/nmgraph/pkg/graph"
	"github.com/matzehuels/nmgraph/pkg/observability"
)

// Runner executes the pipeline. It holds no per-run state, so multiple
// goroutines can use the same Runner with different options.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. If logger is nil, log.Default() is used.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Resolve runs the pipeline with default options and returns the
// adjacency table and the root identity.
func Resolve(ctx context.Context, projectRoot string) (map[string]map[string]bool, string, error) {
	opts := Options{}.WithDefaults()
	res, err := NewRunner(opts.Logger).Execute(ctx, projectRoot, opts)
	if err != nil {
		return nil, "", err
	}
	return res.Matrix.Table(), res.Root, nil
}

// Execute runs collect → resolve → build for the project at projectRoot.
//
// A project without node_modules yields a graph containing only the root.
// Unreadable manifests abort the run; per-dependency problems are returned
// in Result.Diagnostics.
func (r *Runner) Execute(ctx context.Context, projectRoot string, opts Options) (*Result, error) {
	if err := errors.ValidateProjectDir(projectRoot); err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	dopts := opts.depsOptions()
	hooks := observability.Pipeline()
	result := &Result{}

	// Stage 1: Collect
	start := time.Now()
	root, err := deps.LoadRoot(projectRoot, dopts)
	if err != nil {
		return nil, err
	}
	insts, err := r.collect(ctx, projectRoot, dopts)
	result.Stats.CollectTime = time.Since(start)
	if err != nil {
		return nil, fmt.Errorf("collect: %w", err)
	}
	result.Stats.Instances = len(insts)
	r.Logger.Debug("collected packages",
		"instances", len(insts),
		"duration", result.Stats.CollectTime)

	pool := deps.NewPool(insts)
	pool.AddRoot(root)
	result.Pool = pool
	result.Root = root.ID()

	// Stage 2: Resolve
	start = time.Now()
	hooks.OnResolveStart(ctx, pool.Len())
	resolver, err := deps.NewResolver(dopts)
	if err != nil {
		return nil, err
	}
	diags, err := resolver.Resolve(ctx, pool)
	result.Stats.ResolveTime = time.Since(start)
	hooks.OnResolveComplete(ctx, countBindings(pool), result.Stats.ResolveTime, err)
	if err != nil {
		return nil, fmt.Errorf("resolve: %w", err)
	}
	result.Diagnostics = diags
	for _, d := range diags {
		hooks.OnDiagnostic(ctx, string(d.Code()))
	}
	result.Stats.CacheHits, result.Stats.CacheMisses = resolver.Parser().Stats()
	observability.Cache().OnCacheStats(ctx, "specifier", result.Stats.CacheHits, result.Stats.CacheMisses)

	// Stage 3: Build
	start = time.Now()
	m := graph.Build(pool)
	result.Stats.BuildTime = time.Since(start)
	result.Matrix = m
	result.Stats.NodeCount = m.Len()
	result.Stats.EdgeCount = m.EdgeCount()
	hooks.OnBuildComplete(ctx, m.Len(), m.EdgeCount(), result.Stats.BuildTime)

	r.Logger.Info("resolved dependency graph",
		"root", result.Root,
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"diagnostics", len(diags),
		"duration", result.Stats.CollectTime+result.Stats.ResolveTime+result.Stats.BuildTime)

	return result, nil
}

// collect walks the project's node_modules, reporting the phase to the
// registered hooks.
func (r *Runner) collect(ctx context.Context, projectRoot string, opts deps.Options) ([]*deps.Instance, error) {
	dir := filepath.Join(projectRoot, deps.ModulesDir)
	hooks := observability.Pipeline()
	hooks.OnCollectStart(ctx, dir)
	start := time.Now()

	info, err := os.Stat(dir)
	switch {
	case os.IsNotExist(err):
		r.Logger.Warn("no installed packages; graph will contain only the project", "dir", dir)
		hooks.OnCollectComplete(ctx, dir, 0, time.Since(start), nil)
		return nil, nil
	case err != nil:
		err = errors.Wrap(errors.ErrCodeInvalidPath, err, "stat %s", dir)
		hooks.OnCollectComplete(ctx, dir, 0, time.Since(start), err)
		return nil, err
	case !info.IsDir():
		err = errors.New(errors.ErrCodeInvalidPath, "%s is not a directory", dir)
		hooks.OnCollectComplete(ctx, dir, 0, time.Since(start), err)
		return nil, err
	}

	insts, err := deps.Collect(ctx, dir, opts)
	hooks.OnCollectComplete(ctx, dir, len(insts), time.Since(start), err)
	return insts, err
}

func countBindings(pool *deps.Pool) int {
	n := 0
	for _, p := range pool.Instances() {
		n += len(p.Resolved)
	}
	return n
}
