// Package pipeline runs the complete collect → resolve → build pipeline for
// an npm project and hands the result to serialization or rendering.
//
// # Architecture
//
// The pipeline consists of three stages, each reported to
// [observability.Pipeline]:
//
//  1. Collect: read the project manifest and every package under node_modules
//  2. Resolve: bind each declared requirement to one installed instance
//  3. Build: materialize the bindings as a square adjacency [graph.Matrix]
//
// Rendering is a separate step so that a saved graph can be drawn without
// re-reading the project.
//
// # Usage
//
//	runner := pipeline.NewRunner(logger)
//	result, err := runner.Execute(ctx, "./my-app", pipeline.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result.Matrix.Has(result.Root, "lib@1.2.0")
//
// The minimal contract, for callers that only need the table:
//
//	table, root, err := pipeline.Resolve(ctx, "./my-app")
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nmgraph/pkg/deps"
	"github.com/matzehuels/nmgraph/pkg/graph"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
// Zero values select the defaults documented on [deps.Options].
type Options struct {
	// Resolve options
	Workers         int  `toml:"workers"`
	IOConcurrency   int  `toml:"io_concurrency"`
	ParseCacheSize  int  `toml:"parse_cache_size"`
	IncludeDev      bool `toml:"include_dev"`
	IncludeOptional bool `toml:"include_optional"`
	VerifySemver    bool `toml:"verify_semver"`

	// Render options
	Render RenderOptions `toml:"render"`

	// Runtime options (not serialized)
	Logger *log.Logger `toml:"-"`
}

// RenderOptions configures node-link rendering.
type RenderOptions struct {
	Detailed           bool `toml:"detailed"`
	IncludeUnreachable bool `toml:"include_unreachable"`
}

// WithDefaults returns a copy of Options with a discarding logger when none
// is set.
func (o Options) WithDefaults() Options {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return o
}

// depsOptions creates deps.Options from pipeline options. Per-dependency
// diagnostics are reported through the logger at warn level.
func (o Options) depsOptions() deps.Options {
	logger := o.Logger
	return deps.Options{
		Workers:         o.Workers,
		IOConcurrency:   o.IOConcurrency,
		ParseCacheSize:  o.ParseCacheSize,
		IncludeDev:      o.IncludeDev,
		IncludeOptional: o.IncludeOptional,
		VerifySemver:    o.VerifySemver,
		Logger: func(format string, args ...any) {
			logger.Warnf(format, args...)
		},
	}
}

// =============================================================================
// Result
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	// Matrix is the adjacency table over every collected identity plus the root.
	Matrix *graph.Matrix

	// Root is the identity of the project's own manifest.
	Root string

	// Diagnostics lists requirements that were skipped or flagged.
	Diagnostics []deps.Diagnostic

	// Pool holds the resolved instances the matrix was built from.
	Pool *deps.Pool

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Instances   int
	NodeCount   int
	EdgeCount   int
	CacheHits   int64
	CacheMisses int64
	CollectTime time.Duration
	ResolveTime time.Duration
	BuildTime   time.Duration
}
