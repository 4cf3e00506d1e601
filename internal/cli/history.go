package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/autoinstall/internal/api"
	"github.com/matzehuels/autoinstall/pkg/errors"
	"github.com/matzehuels/autoinstall/pkg/history"
	"github.com/matzehuels/autoinstall/pkg/install"
)

const timeFormat = "2006-01-02 15:04:05"

// historyCommand creates the run history command.
func (c *CLI) historyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect recorded runs",
	}

	cmd.AddCommand(c.historyListCommand())
	cmd.AddCommand(c.historyShowCommand())
	cmd.AddCommand(c.historyServeCommand())

	return cmd
}

// historyListCommand creates the "history list" subcommand.
func (c *CLI) historyListCommand() *cobra.Command {
	var (
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 1 {
				return errors.New(errors.ErrCodeInvalidInput, "--limit must be at least 1")
			}
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			store, err := c.openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				if runs == nil {
					runs = []*history.Run{}
				}
				return writeJSON(out, runs)
			}
			if len(runs) == 0 {
				printInfo(out, "No runs recorded")
				return nil
			}

			rows := make([][]string, len(runs))
			for i, r := range runs {
				rows[i] = []string{
					r.ID,
					r.StartedAt.Local().Format(timeFormat),
					string(r.Outcome),
					strconv.Itoa(len(r.Commands)),
					r.Duration().Round(time.Millisecond).String(),
				}
			}
			fmt.Fprintln(out, renderTable([]string{"ID", "Started", "Outcome", "Commands", "Duration"}, rows))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", history.DefaultListLimit, "maximum number of runs to list")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the runs as JSON")

	return cmd
}

// historyShowCommand creates the "history show" subcommand.
func (c *CLI) historyShowCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := errors.ValidateRunID(args[0]); err != nil {
				return err
			}
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			store, err := c.openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			run, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, run)
			}
			printRun(out, run)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the run as JSON")

	return cmd
}

// historyServeCommand creates the "history serve" subcommand.
func (c *CLI) historyServeCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve recorded runs over HTTP",
		Long: `Serve exposes the run history as JSON:

  GET /healthz
  GET /runs?limit=N
  GET /runs/{id}`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			store, err := c.openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			srv := api.New(store, loggerFromContext(cmd.Context()))
			return srv.ListenAndServe(cmd.Context(), cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, else 127.0.0.1:8089)")

	return cmd
}

func printRun(w io.Writer, run *history.Run) {
	fmt.Fprintln(w, StyleTitle.Render("Run "+run.ID))
	printKeyValue(w, "Outcome", string(run.Outcome))
	printKeyValue(w, "Started", run.StartedAt.Local().Format(timeFormat))
	printKeyValue(w, "Duration", run.Duration().Round(time.Millisecond).String())
	for _, p := range run.Paths {
		printKeyValue(w, "Path", p)
	}
	if run.Error != "" {
		printKeyValue(w, "Error", run.Error)
	}
	if len(run.Commands) == 0 {
		return
	}

	fmt.Fprintln(w)
	for _, e := range run.Commands {
		icon := StyleDim.Render(iconSkipped)
		switch {
		case e.Ran && e.Error == "":
			icon = styleIconSuccess.Render(iconSuccess)
		case e.Ran:
			icon = styleIconError.Render(iconError)
		}
		printCommand(w, icon, e.Command, e.Dir)
		if e.Ran {
			printDetail(w, "%s %s", iconArrow, entryStatus(e))
		}
	}
	if run.Outcome == install.OutcomeSkipped {
		fmt.Fprintln(w)
		printNextStep(w, "Run manually", skippedCommands(run))
	}
}

func entryStatus(e history.Entry) string {
	d := time.Duration(e.Duration) * time.Millisecond
	switch {
	case e.Error == "":
		return fmt.Sprintf("ok in %s", d)
	case e.ExitCode > 0:
		return fmt.Sprintf("exit status %d after %s", e.ExitCode, d)
	default:
		return e.Error
	}
}

func skippedCommands(run *history.Run) string {
	lines := make([]string, len(run.Commands))
	for i, e := range run.Commands {
		lines[i] = e.Command
	}
	return strings.Join(lines, " && ")
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
