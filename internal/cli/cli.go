package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/nmgraph/pkg/buildinfo"
	"github.com/matzehuels/nmgraph/pkg/config"
	"github.com/matzehuels/nmgraph/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for commands and display.
const appName = "nmgraph"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	verbose    bool
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "nmgraph turns an installed node_modules tree into a dependency graph",
		Long: `nmgraph reads a project's package.json and its installed node_modules tree,
binds every declared dependency range to the installed copy it resolves to,
and writes the result as an adjacency list or a rendered diagram.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			if err := config.LoadDotEnv(); err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(withLogger(ctx, c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default <project>/"+config.FileName+")")

	// Register all subcommands
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Options Helpers
// =============================================================================

// resolveFlags holds the resolution flags shared by graph and check.
type resolveFlags struct {
	workers       int
	ioConcurrency int
	dev           bool
	optional      bool
	verify        bool
}

func (f *resolveFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.workers, "workers", 0, "resolution workers (default: number of CPUs)")
	cmd.Flags().IntVar(&f.ioConcurrency, "io-concurrency", 0, "concurrent file operations while collecting (default: 64)")
	cmd.Flags().BoolVar(&f.dev, "dev", false, "include the project's devDependencies")
	cmd.Flags().BoolVar(&f.optional, "optional", false, "include optionalDependencies")
	cmd.Flags().BoolVar(&f.verify, "verify", false, "cross-check bindings against canonical semver")
}

// apply overrides opts with the flags that were set explicitly, so that
// config file and environment values survive unset flags.
func (f *resolveFlags) apply(cmd *cobra.Command, opts *pipeline.Options) {
	flags := cmd.Flags()
	if flags.Changed("workers") {
		opts.Workers = f.workers
	}
	if flags.Changed("io-concurrency") {
		opts.IOConcurrency = f.ioConcurrency
	}
	if flags.Changed("dev") {
		opts.IncludeDev = f.dev
	}
	if flags.Changed("optional") {
		opts.IncludeOptional = f.optional
	}
	if flags.Changed("verify") {
		opts.VerifySemver = f.verify
	}
}

// loadOptions merges config file, environment and flags for projectDir.
func (c *CLI) loadOptions(cmd *cobra.Command, projectDir string, flags *resolveFlags) (pipeline.Options, error) {
	opts, err := config.Load(projectDir, c.configPath, nil)
	if err != nil {
		return pipeline.Options{}, err
	}
	flags.apply(cmd, &opts)
	opts.Logger = loggerFromContext(cmd.Context())
	return opts, nil
}
