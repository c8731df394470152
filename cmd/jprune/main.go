// jprune analyzes Junos-style router configurations.
//
// It builds a dependency graph of groups, policies, prefix lists,
// communities, AS paths, firewall filters and policers, reports on the
// graph and emits delete directives for entities nothing references.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/psaab/jprune/pkg/logging"
)

var (
	commonPaths []string
	verbosity   int
	configPath  string

	// capture holds warn-and-above log records for the report views.
	capture *logging.Capture
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "jprune",
		Short: "jprune - router configuration dependency analyzer",
		Long: `jprune parses Junos-style router configurations, builds the dependency
graph between groups, policy-options, firewall filters and policers, and
finds the entities nothing references so they can be deleted.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			capture = logging.Setup(verbosity)
		},
	}

	rootCmd.PersistentFlags().StringArrayVarP(&commonPaths, "common", "c", nil,
		"configuration source shared across routers (repeatable)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase diagnostic verbosity")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"settings file (default ~/.jprune.yaml)")

	rootCmd.AddCommand(
		createCleanupCmd(),
		createReportCmd(),
		createGraphCmd(),
		createComponentsCmd(),
		createShellCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "jprune: %v\n", err)
		os.Exit(1)
	}
}
