package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/psaab/jprune/pkg/depgraph"
)

var dotOutputPath string

func createGraphCmd() *cobra.Command {
	graphCmd := &cobra.Command{
		Use:   "graph <config-file>",
		Short: "Export the dependency graph in Graphviz DOT format",
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

			data, err := depgraph.DOT(g)
			if err != nil {
				return fmt.Errorf("render graph: %w", err)
			}
			if dotOutputPath != "" {
				if err := os.WriteFile(dotOutputPath, data, 0644); err != nil {
					return fmt.Errorf("output: %w", err)
				}
				return nil
			}
			_, err = os.Stdout.Write(data)
			return err
		},
	}

	graphCmd.Flags().StringVarP(&dotOutputPath, "output", "o", "",
		"write DOT to this file instead of stdout")

	return graphCmd
}
