package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/autoinstall/pkg/buildinfo"
	"github.com/matzehuels/autoinstall/pkg/config"
	"github.com/matzehuels/autoinstall/pkg/history"
	"github.com/matzehuels/autoinstall/pkg/install"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used in help text and hints.
const appName = config.AppName

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

	// Runner executes installer commands. Nil means the host's processes,
	// with child output going to the command's stdout and stderr.
	Runner install.Runner

	configPath string
	verbose    bool
	quiet      bool
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
		Short: "Autoinstall runs package installers for the manifests it finds",
		Long: `Autoinstall finds tsd.json, bower.json, package.json and requirements.txt files,
then runs tsd, bower, npm (or yarn) and pip in each manifest's directory,
one after another, stopping at the first failure.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := LogInfo
			if c.verbose {
				level = LogDebug
			}
			c.SetLogLevel(level)
			if c.quiet {
				c.Logger.SetOutput(io.Discard)
			}
			registerHooks(c.Logger, c.verbose)
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default ./autoinstall.toml, then ~/.config/autoinstall/config.toml)")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	flags.BoolVarP(&c.quiet, "quiet", "q", false, "disable logging")
	root.MarkFlagsMutuallyExclusive("verbose", "quiet")

	// Register all subcommands
	root.AddCommand(c.runCommand())
	root.AddCommand(c.detectCommand())
	root.AddCommand(c.historyCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Shared Helpers
// =============================================================================

// loadConfig reads and validates the config selected by --config.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if p := cfg.Path(); p != "" {
		c.Logger.Debug("loaded config", "path", p)
	}
	return cfg, nil
}

// openStore opens the configured history backend.
func (c *CLI) openStore(ctx context.Context, cfg *config.Config) (history.Store, error) {
	return history.Open(ctx, cfg.History)
}

// runner returns the installer runner for cmd.
func (c *CLI) runner(cmd *cobra.Command) install.Runner {
	if c.Runner != nil {
		return c.Runner
	}
	return install.NewExecRunner(cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// inputPaths defaults to the working directory.
func inputPaths(args []string) []string {
	if len(args) == 0 {
		return []string{"."}
	}
	return args
}
