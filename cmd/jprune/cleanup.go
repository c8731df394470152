package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/psaab/jprune/pkg/metrics"
	"github.com/psaab/jprune/pkg/sweep"
)

var (
	reportMode      bool
	excludeInactive bool
	fixpoint        bool
	metricsFile     string
	outputPath      string
)

func createCleanupCmd() *cobra.Command {
	cleanupCmd := &cobra.Command{
		Use:   "cleanup <config-file>",
		Short: "Emit delete directives for unreachable entities",
		Long: `Parse the configuration, sweep for entities nothing references and
print a delete directive for each. The configuration itself is never
modified; feed the directives back to the router to apply them.

Examples:
  jprune cleanup router.conf
  jprune cleanup -c shared.conf --report --fixpoint router.conf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(configPath)
			if err != nil {
				return err
			}
			opts := sweep.Options{
				ExcludeInactive: s.ExcludeInactive,
				Report:          s.Report,
				Fixpoint:        s.Fixpoint,
			}
			if cmd.Flags().Changed("exclude-inactive") {
				opts.ExcludeInactive = excludeInactive
			}
			if cmd.Flags().Changed("report") {
				opts.Report = reportMode
			}
			if cmd.Flags().Changed("fixpoint") {
				opts.Fixpoint = fixpoint
			}
			metricsPath := s.MetricsFile
			if cmd.Flags().Changed("metrics-file") {
				metricsPath = metricsFile
			}

			g, err := loadGraph(args[0], s.commonSources())
			if err != nil {
				return err
			}

			// With -o the directives are buffered and land on disk in one
			// write; a failed run leaves no partial file behind.
			var buf bytes.Buffer
			out := io.Writer(os.Stdout)
			if outputPath != "" {
				out = &buf
			}

			res, err := sweep.New(g, opts, out).Run()
			if err != nil {
				return err
			}
			if outputPath != "" {
				if err := os.WriteFile(outputPath, buf.Bytes(), 0644); err != nil {
					return fmt.Errorf("output: %w", err)
				}
			}

			if metricsPath != "" {
				c := metrics.NewCollector(g, res, capture.Total())
				if err := metrics.WriteTextfile(metricsPath, c); err != nil {
					return fmt.Errorf("write metrics: %w", err)
				}
			}
			return nil
		},
	}

	cleanupCmd.Flags().BoolVar(&reportMode, "report", false,
		"annotate each directive with the candidate and its references")
	cleanupCmd.Flags().BoolVar(&excludeInactive, "exclude-inactive", false,
		"leave inactive entities alone")
	cleanupCmd.Flags().BoolVar(&fixpoint, "fixpoint", false,
		"repeat the sweep until no further entities can be deleted")
	cleanupCmd.Flags().StringVar(&metricsFile, "metrics-file", "",
		"write run metrics to this file in Prometheus textfile format")
	cleanupCmd.Flags().StringVarP(&outputPath, "output", "o", "",
		"write directives to this file instead of stdout")

	return cleanupCmd
}
