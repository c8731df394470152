// Package cli implements the interactive inspection shell for a parsed
// configuration graph.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/psaab/jprune/pkg/cmdtree"
	"github.com/psaab/jprune/pkg/config"
	"github.com/psaab/jprune/pkg/depgraph"
	"github.com/psaab/jprune/pkg/report"
	"github.com/psaab/jprune/pkg/sweep"
)

// CLI is the interactive shell. Sweeps run against a clone of the graph,
// so the loaded view stays intact between commands.
type CLI struct {
	rl     *readline.Instance
	graph  *config.Graph
	opts   sweep.Options
	source string
	out    io.Writer
	width  int
}

// New creates a shell over a parsed graph. The sweep options become the
// defaults for the sweep command.
func New(g *config.Graph, opts sweep.Options, source string) *CLI {
	return &CLI{
		graph:  g,
		opts:   opts,
		source: source,
		out:    os.Stdout,
		width:  report.TerminalWidth(os.Stdout),
	}
}

// Run starts the interactive loop.
func (c *CLI) Run() error {
	var err error
	c.rl, err = readline.NewEx(&readline.Config{
		Prompt:          "jprune> ",
		HistoryFile:     "/tmp/jprune_history",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    &graphCompleter{cli: c},
		Listener:        helpListener(c),
	})
	if err != nil {
		return fmt.Errorf("readline init: %w", err)
	}
	defer c.rl.Close()

	fmt.Fprintf(c.out, "jprune - configuration dependency inspector\n")
	fmt.Fprintf(c.out, "%d entities loaded from %s\n", c.graph.Len(), c.source)
	fmt.Fprintf(c.out, "Type '?' for help\n\n")

	for {
		line, err := c.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			if err == io.EOF {
				break
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if err := c.dispatch(line); err != nil {
			if err == errExit {
				return nil
			}
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}
	return nil
}

var errExit = fmt.Errorf("exit")

func (c *CLI) dispatch(line string) error {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return nil
	}

	switch parts[0] {
	case "show":
		return c.handleShow(parts[1:])

	case "sweep":
		return c.handleSweep(parts[1:])

	case "quit", "exit":
		return errExit

	case "?", "help":
		c.showHelp()
		return nil

	default:
		return fmt.Errorf("unknown command: %s", parts[0])
	}
}

func (c *CLI) handleShow(args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(c.out, "show: specify what to show")
		cmdtree.WriteHelp(c.out, cmdtree.HelpCandidates(cmdtree.ShellTree["show"].Children))
		return nil
	}

	switch args[0] {
	case "entities":
		opts := report.Options{Width: c.width}
		if len(args) >= 2 {
			k, ok := config.ParseKind(args[1])
			if !ok {
				return fmt.Errorf("unknown kind: %s", args[1])
			}
			opts.Kind = &k
		}
		report.Render(c.out, c.graph, opts)
		return nil

	case "entity":
		if len(args) < 3 {
			return fmt.Errorf("usage: show entity <kind> <name>")
		}
		k, ok := config.ParseKind(args[1])
		if !ok {
			return fmt.Errorf("unknown kind: %s", args[1])
		}
		e, ok := c.graph.Lookup(config.Key{Kind: k, Name: args[2]})
		if !ok {
			return fmt.Errorf("no such entity: %s %s", args[1], args[2])
		}
		report.RenderDetail(c.out, e)
		return nil

	case "unused":
		c.listEntities(report.Unused(c.graph))
		return nil

	case "missing":
		c.listEntities(report.Missing(c.graph))
		return nil

	case "components":
		return c.showComponents()

	default:
		return fmt.Errorf("unknown show target: %s", args[0])
	}
}

func (c *CLI) listEntities(ents []*config.Entity) {
	if len(ents) == 0 {
		fmt.Fprintln(c.out, "None")
		return
	}
	for _, e := range ents {
		fmt.Fprintf(c.out, "%s %s\n", e.Kind, e.Name)
	}
}

func (c *CLI) showComponents() error {
	comps := depgraph.Components(c.graph)
	if len(comps) == 0 {
		fmt.Fprintln(c.out, "None")
		return nil
	}
	for i, comp := range comps {
		fmt.Fprintf(c.out, "Component %d: %d entities, roots: %s\n",
			i+1, len(comp.Members), joinKeys(comp.Roots))
		for _, k := range comp.Members {
			fmt.Fprintf(c.out, "  %s\n", k)
		}
	}
	return nil
}

// handleSweep previews a cleanup run on a clone of the graph and prints
// the directives it would emit.
func (c *CLI) handleSweep(args []string) error {
	opts := c.opts
	if len(args) > 0 {
		if args[0] != "report" {
			return fmt.Errorf("unknown sweep argument: %s", args[0])
		}
		opts.Report = true
	}

	res, err := sweep.New(c.graph.Clone(), opts, c.out).Run()
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%d entities would be deleted in %d passes\n",
		len(res.Deleted), res.Passes)
	return nil
}

func joinKeys(keys []config.Key) string {
	if len(keys) == 0 {
		return "None"
	}
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k.String()
	}
	return strings.Join(parts, ", ")
}

func (c *CLI) showHelp() {
	cmdtree.WriteHelp(c.out, cmdtree.HelpCandidates(cmdtree.ShellTree))
}
