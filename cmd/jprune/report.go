package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/psaab/jprune/pkg/report"
)

func createReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report <config-file>",
		Short: "Show the entity table and dependency summary",
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

			report.Render(os.Stdout, g, report.Options{
				Width: report.TerminalWidth(os.Stdout),
			})
			fmt.Println()
			report.RenderSummary(os.Stdout, g, capture.All())
			return nil
		},
	}
}
