package main

import (
	"github.com/spf13/cobra"

	"github.com/psaab/jprune/pkg/cli"
	"github.com/psaab/jprune/pkg/sweep"
)

func createShellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell <config-file>",
		Short: "Inspect a configuration interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(configPath)
			if err != nil {
				return err
			}
			g, err := loadGraph(args[0], s.commonSources())
			if err != nil {
				return err
			}

			opts := sweep.Options{
				ExcludeInactive: s.ExcludeInactive,
				Fixpoint:        s.Fixpoint,
			}
			return cli.New(g, opts, args[0]).Run()
		},
	}
}
