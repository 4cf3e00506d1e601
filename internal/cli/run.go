package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/autoinstall/pkg/config"
	"github.com/matzehuels/autoinstall/pkg/errors"
	"github.com/matzehuels/autoinstall/pkg/history"
	"github.com/matzehuels/autoinstall/pkg/install"
	"github.com/matzehuels/autoinstall/pkg/stream"
)

// installFlags holds the flags shared by run and detect. Each one
// overrides the config file only when set on the command line.
type installFlags struct {
	yarn          bool
	production    bool
	ignoreScripts bool
	args          []string
	allowRoot     bool
	noOptional    bool
	exclude       []string
}

func (f *installFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.BoolVar(&f.yarn, "yarn", false, "use yarn instead of npm for package.json")
	fs.BoolVar(&f.production, "production", false, "pass --production to every installer")
	fs.BoolVar(&f.ignoreScripts, "ignore-scripts", false, "pass --ignore-scripts to every installer")
	fs.StringArrayVar(&f.args, "args", nil, "extra installer argument, dashes added as needed (repeatable)")
	fs.BoolVar(&f.allowRoot, "allow-root", false, "pass --allow-root to bower")
	fs.BoolVar(&f.noOptional, "no-optional", false, "pass --no-optional to npm")
	fs.StringArrayVar(&f.exclude, "exclude", nil, "skip files and directories matching this glob (repeatable)")
}

func (f *installFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	fs := cmd.Flags()
	if fs.Changed("yarn") {
		cfg.Yarn = f.yarn
	}
	if fs.Changed("production") {
		cfg.Production = f.production
	}
	if fs.Changed("ignore-scripts") {
		cfg.IgnoreScripts = f.ignoreScripts
	}
	if fs.Changed("args") {
		cfg.Args = f.args
	}
	if fs.Changed("allow-root") {
		cfg.AllowRoot = f.allowRoot
	}
	if fs.Changed("no-optional") {
		cfg.NoOptional = f.noOptional
	}
	cfg.Walk.Exclude = append(cfg.Walk.Exclude, f.exclude...)
	return cfg.WalkOptions().Validate()
}

// runCommand creates the run command.
func (c *CLI) runCommand() *cobra.Command {
	var (
		flags       installFlags
		skipInstall bool
		dryRun      bool
		noHistory   bool
	)

	cmd := &cobra.Command{
		Use:   "run [paths...]",
		Short: "Run the installers for every manifest found",
		Long: `Run walks the given files and directories (default: the current directory),
queues one installer command per recognised manifest, and runs them in order.
The first failing installer stops the run.

node_modules, bower_components and VCS directories are never descended into.`,
		Example: `  autoinstall run
  autoinstall run --yarn --production ./web ./api/requirements.txt
  autoinstall run --args=registry=https://npm.internal --skip-install`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if err := flags.apply(cmd, cfg); err != nil {
				return err
			}
			if cmd.Flags().Changed("skip-install") {
				cfg.SkipInstall = skipInstall
			}
			if dryRun {
				cfg.SkipInstall = true
			}
			return c.runInstall(cmd, cfg, inputPaths(args), !noHistory)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&skipInstall, "skip-install", false, "print the installer commands instead of running them")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "alias for --skip-install")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "do not record this run")

	return cmd
}

func (c *CLI) runInstall(cmd *cobra.Command, cfg *config.Config, paths []string, record bool) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	opts := cfg.InstallOptions()
	opts.Logger = logger
	opts.Runner = c.runner(cmd)
	stage := install.NewStage(opts)

	run := history.NewRun(paths)
	prog := newProgress(logger)

	_, err := stream.Pipe(ctx, stream.Paths(paths, cfg.WalkOptions()), stage)
	if stage.State() == install.StateCollecting {
		// The source failed before anything was flushed.
		return err
	}

	rep := stage.Report()
	run.Finish(rep)
	recorded := record && c.record(ctx, cfg, run)

	out := cmd.OutOrStdout()
	printReport(out, rep)
	if recorded {
		printDetail(out, "run %s", run.ID)
	}
	if rep.Outcome == install.OutcomeInstalled {
		prog.done(fmt.Sprintf("Installed %s", plural(len(rep.Queued), "manifest")))
	}
	return err
}

// record saves run to the configured history backend. Failures are logged,
// never fatal: the installs already happened.
func (c *CLI) record(ctx context.Context, cfg *config.Config, run *history.Run) bool {
	logger := loggerFromContext(ctx)
	if cfg.History.Backend == history.BackendNone {
		return false
	}

	// A cancelled run is still worth recording.
	ctx = context.WithoutCancel(ctx)

	store, err := c.openStore(ctx, cfg)
	if err != nil {
		logger.Warn("run history unavailable", "err", errors.UserMessage(err))
		return false
	}
	defer store.Close()

	if err := history.Record(ctx, store, cfg.History.Backend, run); err != nil {
		logger.Warn("could not record run", "id", run.ID, "err", errors.UserMessage(err))
		return false
	}
	logger.Debug("recorded run", "id", run.ID, "backend", cfg.History.Backend)
	return true
}

// printReport summarises a flushed stage.
func printReport(w io.Writer, rep install.Report) {
	switch rep.Outcome {
	case install.OutcomeIdle:
		printInfo(w, "No installer manifests found")

	case install.OutcomeSkipped:
		printWarning(w, "Skipped %s", plural(len(rep.Queued), "installer"))
		for _, cmd := range rep.Queued {
			printCommand(w, StyleDim.Render(iconSkipped), cmd.String(), cmd.Dir)
		}
		printNextStep(w, "Run manually", install.FormatCommands(rep.Queued))

	case install.OutcomeInstalled:
		printSuccess(w, "Installed %s", plural(len(rep.Queued), "manifest"))
		for _, cmd := range rep.Queued {
			printCommand(w, styleIconSuccess.Render(iconSuccess), cmd.String(), cmd.Dir)
		}

	case install.OutcomeFailed:
		printError(w, "Install failed")
		for i, cmd := range rep.Queued {
			icon := StyleDim.Render(iconSkipped)
			if i < len(rep.Results) {
				icon = styleIconSuccess.Render(iconSuccess)
				if rep.Results[i].Err != nil {
					icon = styleIconError.Render(iconError)
				}
			}
			printCommand(w, icon, cmd.String(), cmd.Dir)
		}
	}
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
