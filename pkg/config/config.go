// Package config loads pipeline options from a TOML file and the
// environment.
//
// Sources are applied in increasing precedence: built-in defaults, the
// config file, then environment variables. Command-line flags are applied
// last by the CLI.
//
// # File
//
// The file is <project>/.nmgraph.toml unless a path is given explicitly:
//
//	workers = 8
//	io_concurrency = 32
//	parse_cache_size = 4096
//	include_dev = false
//	include_optional = false
//	verify_semver = true
//
//	[render]
//	detailed = false
//	include_unreachable = false
//
// Unknown keys are rejected so that typos do not silently fall back to
// defaults.
//
// # Environment
//
//	NMGRAPH_WORKERS         resolution workers
//	NMGRAPH_IO_CONCURRENCY  concurrent file operations while collecting
//	NMGRAPH_VERIFY_SEMVER   cross-check bindings with canonical semver
//
// [LoadDotEnv] reads a .env file into the process environment without
// overriding variables that are already set.
package config

import (
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/matzehuels/nmgraph/pkg/errors"
	"github.com/matzehuels/nmgraph/pkg/pipeline"
)

// FileName is the per-project config file name.
const FileName = ".nmgraph.toml"

// Environment variable names.
const (
	EnvWorkers       = "NMGRAPH_WORKERS"
	EnvIOConcurrency = "NMGRAPH_IO_CONCURRENCY"
	EnvVerifySemver  = "NMGRAPH_VERIFY_SEMVER"
)

// LookupFunc reports the value of an environment variable.
type LookupFunc func(key string) (string, bool)

// Load builds options for the project at projectDir.
//
// If path is empty, <projectDir>/.nmgraph.toml is read when it exists.
// An explicit path must exist. lookup defaults to os.LookupEnv.
func Load(projectDir, path string, lookup LookupFunc) (pipeline.Options, error) {
	var opts pipeline.Options

	explicit := path != ""
	if !explicit {
		path = filepath.Join(projectDir, FileName)
	}
	if _, err := os.Stat(path); explicit || err == nil {
		if err := LoadFile(path, &opts); err != nil {
			return pipeline.Options{}, err
		}
	}

	if lookup == nil {
		lookup = os.LookupEnv
	}
	if err := ApplyEnv(&opts, lookup); err != nil {
		return pipeline.Options{}, err
	}
	return opts, nil
}

// LoadFile decodes the TOML file at path over opts.
func LoadFile(path string, opts *pipeline.Options) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	md, err := toml.Decode(string(data), opts)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		slices.Sort(keys)
		return errors.New(errors.ErrCodeInvalidConfig, "%s: unknown key(s): %s", path, strings.Join(keys, ", "))
	}
	return validate(path, *opts)
}

// ApplyEnv overrides opts with the NMGRAPH_* variables that are set.
func ApplyEnv(opts *pipeline.Options, lookup LookupFunc) error {
	if v, ok := lookup(EnvWorkers); ok && v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", EnvWorkers)
		}
		opts.Workers = n
	}
	if v, ok := lookup(EnvIOConcurrency); ok && v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", EnvIOConcurrency)
		}
		opts.IOConcurrency = n
	}
	if v, ok := lookup(EnvVerifySemver); ok && v != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", EnvVerifySemver)
		}
		opts.VerifySemver = b
	}
	return validate("environment", *opts)
}

func validate(source string, opts pipeline.Options) error {
	if opts.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "%s: workers must not be negative", source)
	}
	if opts.IOConcurrency < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "%s: io_concurrency must not be negative", source)
	}
	return nil
}

// LoadDotEnv loads the given .env files (default ".env") into the process
// environment. Missing files are skipped; existing variables are kept.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "load %s", f)
		}
	}
	return nil
}
