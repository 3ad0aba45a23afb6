// Package cli implements the recipegen command-line interface.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/recipegen/pkg/buildinfo"
	"github.com/matzehuels/recipegen/pkg/config"
	"github.com/matzehuels/recipegen/pkg/observability"
	"github.com/matzehuels/recipegen/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// defaultEnvFile is loaded into the environment when present.
const defaultEnvFile = ".env"

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
	flags  globalFlags
}

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configPath string
	envFile    string
	out        string
	url        string
	braceMode  string
	normalize  bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		flags:  globalFlags{envFile: defaultEnvFile},
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
// The root command itself runs the full pipeline on one build file.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "recipegen [flags] <dockerfile>",
		Short: "Recipegen dumps conda-forge test fragments for pip packages in a Dockerfile",
		Long: `Recipegen scans a Dockerfile for packages installed with $PIP_INSTALL, downloads
each package's conda-forge feedstock recipe (meta.yaml), and writes the recipe's
test imports, requirements and commands to <out>/imports, <out>/requires and
<out>/commands, one file per package.

One line per package is printed to stdout:
  dumped: <name>
  ERROR: Could not load meta for <name>: <reason>`,
		Version:      buildinfo.Version,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			observability.SetHTTPHooks(&logHooks{logger: c.Logger})
			cmd.SetContext(withLogger(contextOf(cmd), c.Logger))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerate(cmd, args[0])
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	c.bindFlags(root)

	root.AddCommand(c.scanCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// bindFlags registers the persistent configuration flags on root.
func (c *CLI) bindFlags(root *cobra.Command) {
	f := root.PersistentFlags()
	f.StringVarP(&c.flags.configPath, "config", "c", "", "TOML configuration file")
	f.StringVar(&c.flags.envFile, "env-file", c.flags.envFile, "dotenv file with RECIPEGEN_* overrides (ignored if missing)")
	f.StringVarP(&c.flags.out, "out", "o", "", "root directory for fragment files (default \"recipes\")")
	f.StringVar(&c.flags.url, "url", "", "metadata URL template containing {name}")
	f.StringVar(&c.flags.braceMode, "brace-mode", "", "brace collapsing: line or document (default \"line\")")
	f.BoolVar(&c.flags.normalize, "normalize-names", false, "lowercase names and replace underscores in metadata URLs")
}

// =============================================================================
// Configuration
// =============================================================================

// loadConfig resolves the effective configuration for cmd:
// defaults < config file < environment (.env) < flags.
func (c *CLI) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if err := config.LoadDotEnv(c.flags.envFile); err != nil {
		return nil, err
	}
	cfg, err := config.Load(c.flags.configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("out") {
		cfg.Output.Root = c.flags.out
	}
	if flags.Changed("url") {
		cfg.Fetch.URLTemplate = c.flags.url
	}
	if flags.Changed("brace-mode") {
		cfg.Normalize.BraceMode = c.flags.braceMode
	}
	if flags.Changed("normalize-names") {
		cfg.Fetch.NormalizeNames = c.flags.normalize
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner whose outcome lines go to out.
// Each runner logs under its own short run id.
func newRunner(ctx context.Context, cfg *config.Config, out io.Writer) (*pipeline.Runner, *log.Logger, error) {
	logger := loggerFromContext(ctx).With("run", runID())
	runner, err := pipeline.NewFromConfig(cfg, out, logger)
	if err != nil {
		return nil, nil, err
	}
	return runner, logger, nil
}

func runID() string {
	return uuid.NewString()[:8]
}

// contextOf returns the command's context, or context.Background when the
// command was executed without one.
func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// =============================================================================
// Generate
// =============================================================================

// runGenerate runs the full pipeline on path. Package failures are reported
// on stdout and in the summary; only a fatal error is returned.
func (c *CLI) runGenerate(cmd *cobra.Command, path string) error {
	cfg, err := c.loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx := contextOf(cmd)
	runner, logger, err := newRunner(ctx, cfg, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	logger.Debug("starting", "path", path, "out", cfg.Output.Root, "url", cfg.Fetch.URLTemplate)
	start := time.Now()
	report, err := runner.Run(ctx, path)
	if report != nil {
		printSummary(cmd.ErrOrStderr(), report, cfg.Output.Root, time.Since(start))
	}
	return err
}
