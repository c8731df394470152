package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/psaab/jprune/pkg/config"
	"github.com/psaab/jprune/pkg/depgraph"
)

func createComponentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "components <config-file>",
		Short: "List connected dependency islands, largest first",
		Long: `Group the entities into connected components of the dependency graph.
Each component is an independent island of configuration; its roots are
the entities nothing references, where pruning would start.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(configPath)
			if err != nil {
				return err
			}
			g, err := loadGraph(args[0], s.commonSources())
			if err != nil {
				return err
			}

			comps := depgraph.Components(g)
			if len(comps) == 0 {
				fmt.Println("no linked entities")
				return nil
			}
			for i, comp := range comps {
				roots := make(map[config.Key]bool, len(comp.Roots))
				for _, k := range comp.Roots {
					roots[k] = true
				}
				fmt.Printf("Component %d: %d entities, %d roots\n",
					i+1, len(comp.Members), len(comp.Roots))
				for _, k := range comp.Members {
					if roots[k] {
						fmt.Printf("  %s  [root]\n", k)
					} else {
						fmt.Printf("  %s\n", k)
					}
				}
				fmt.Println()
			}
			return nil
		},
	}
}
