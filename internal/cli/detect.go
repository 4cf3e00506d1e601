package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/autoinstall/pkg/install"
	"github.com/matzehuels/autoinstall/pkg/stream"
)

// detectCommand creates the detect command.
func (c *CLI) detectCommand() *cobra.Command {
	var (
		flags  installFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "detect [paths...]",
		Short: "List the installer commands a run would execute",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if err := flags.apply(cmd, cfg); err != nil {
				return err
			}

			ctx := cmd.Context()
			opts := cfg.InstallOptions()
			opts.Logger = loggerFromContext(ctx)
			stage := install.NewStage(opts)

			// Only Process is used: the stage is never flushed, so nothing runs.
			var rows [][]string
			for f, err := range stream.Paths(inputPaths(args), cfg.WalkOptions()) {
				if err != nil {
					return err
				}
				before := len(stage.Queue())
				if err := stage.Process(ctx, f, func(*stream.File) {}); err != nil {
					return err
				}
				if q := stage.Queue(); len(q) > before {
					queued := q[len(q)-1]
					rows = append(rows, []string{f.Base(), queued.Dir, queued.String()})
				}
			}

			out := cmd.OutOrStdout()
			queue := stage.Queue()
			if asJSON {
				return writeJSON(out, queue)
			}
			if len(queue) == 0 {
				printInfo(out, "No installer manifests found")
				return nil
			}
			fmt.Fprintln(out, renderTable([]string{"Manifest", "Directory", "Command"}, rows))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the commands as JSON")

	return cmd
}
