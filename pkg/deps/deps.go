package deps

import (
	"runtime"

	"github.com/matzehuels/nmgraph/pkg/deps/requirement"
)

const (
	DefaultIOConcurrency  = 64                            // Default concurrent file operations during collection
	DefaultParseCacheSize = requirement.DefaultCacheSize // Default memoized specifiers
)

// Options configures collection and resolution.
type Options struct {
	Workers         int                  // Resolution workers (default: GOMAXPROCS)
	IOConcurrency   int                  // Concurrent file operations while collecting (default: 64)
	ParseCacheSize  int                  // Specifier parse cache entries (default: 4096, <0 disables)
	IncludeDev      bool                 // Add the root manifest's devDependencies
	IncludeOptional bool                 // Add optionalDependencies for every instance
	VerifySemver    bool                 // Cross-check bindings with Masterminds/semver
	Logger          func(string, ...any) // Diagnostic callback (optional)
}

// WithDefaults returns a copy of Options with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if opts.IOConcurrency <= 0 {
		opts.IOConcurrency = DefaultIOConcurrency
	}
	if opts.ParseCacheSize == 0 {
		opts.ParseCacheSize = DefaultParseCacheSize
	}
	if opts.Logger == nil {
		opts.Logger = func(string, ...any) {}
	}
	return opts
}
