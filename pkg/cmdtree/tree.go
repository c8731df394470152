// Package cmdtree defines the command tree for the interactive shell.
//
// Tab completion and '?' help both derive from this tree, so a new
// command only needs to be added here to appear in both.
package cmdtree

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/psaab/jprune/pkg/config"
)

// Node is one word of the command language. DynamicFn supplies
// candidates computed from the loaded graph, such as entity names.
type Node struct {
	Desc      string
	Children  map[string]*Node
	DynamicFn func(g *config.Graph) []string
}

// Candidate pairs a completion with its description for help display.
type Candidate struct {
	Name string
	Desc string
}

// ShellTree is the shell's command language.
var ShellTree = buildShellTree()

func buildShellTree() map[string]*Node {
	listKinds := make(map[string]*Node, len(config.Kinds()))
	detailKinds := make(map[string]*Node, len(config.Kinds()))
	for _, k := range config.Kinds() {
		listKinds[k.String()] = &Node{Desc: fmt.Sprintf("List only %s entities", k)}
		detailKinds[k.String()] = &Node{
			Desc:      fmt.Sprintf("Show a %s in full", k),
			DynamicFn: declaredNames(k),
		}
	}

	return map[string]*Node{
		"show": {Desc: "Show graph information", Children: map[string]*Node{
			"entities":   {Desc: "List entities with flags and references", Children: listKinds},
			"entity":     {Desc: "Show one entity in full", Children: detailKinds},
			"unused":     {Desc: "List declared entities nothing references"},
			"missing":    {Desc: "List referenced entities never declared"},
			"components": {Desc: "Group entities by connected references"},
		}},
		"sweep": {Desc: "Preview cleanup directives on a copy", Children: map[string]*Node{
			"report": {Desc: "Annotate each directive with its references"},
		}},
		"help": {Desc: "Show command help"},
		"quit": {Desc: "Exit the shell"},
		"exit": {Desc: "Exit the shell"},
	}
}

// declaredNames returns a candidate source over the declared entities
// of one kind; placeholders are not offered.
func declaredNames(kind config.Kind) func(*config.Graph) []string {
	return func(g *config.Graph) []string {
		if g == nil {
			return nil
		}
		var names []string
		g.Walk(func(e *config.Entity) bool {
			if e.Kind == kind && e.Declared {
				names = append(names, e.Name)
			}
			return true
		})
		return names
	}
}

// CandidatesFor walks the tree past the complete words and returns the
// candidates for the word being typed, with descriptions for help
// display. An entity name supplied by a DynamicFn ends the walk;
// nothing completes after it.
func CandidatesFor(tree map[string]*Node, words []string, partial string, g *config.Graph) []Candidate {
	current := tree
	for i, w := range words {
		node, ok := current[w]
		if !ok {
			return nil
		}
		if node.Children == nil {
			if node.DynamicFn != nil && i == len(words)-1 {
				var candidates []Candidate
				for _, name := range node.DynamicFn(g) {
					if strings.HasPrefix(name, partial) {
						candidates = append(candidates, Candidate{Name: name, Desc: "(declared)"})
					}
				}
				return candidates
			}
			return nil
		}
		current = node.Children
	}

	var candidates []Candidate
	for name, node := range current {
		if strings.HasPrefix(name, partial) {
			candidates = append(candidates, Candidate{Name: name, Desc: node.Desc})
		}
	}
	return candidates
}

// HelpCandidates returns the children of a tree level for help display.
func HelpCandidates(tree map[string]*Node) []Candidate {
	candidates := make([]Candidate, 0, len(tree))
	for name, node := range tree {
		candidates = append(candidates, Candidate{Name: name, Desc: node.Desc})
	}
	return candidates
}

// WriteHelp prints aligned completion candidates to w.
// The entire output is built as a single string and written in one call
// so that readline's wrapWriter triggers only one Refresh cycle.
func WriteHelp(w io.Writer, candidates []Candidate) {
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Name < candidates[j].Name })
	maxWidth := 20
	for _, c := range candidates {
		if len(c.Name)+2 > maxWidth {
			maxWidth = len(c.Name) + 2
		}
	}
	var sb strings.Builder
	sb.WriteString("Possible completions:\n")
	for _, c := range candidates {
		if c.Desc != "" {
			fmt.Fprintf(&sb, "  %-*s %s\n", maxWidth, c.Name, c.Desc)
		} else {
			fmt.Fprintf(&sb, "  %s\n", c.Name)
		}
	}
	io.WriteString(w, sb.String())
}

// CommonPrefix returns the longest shared prefix among the given strings.
func CommonPrefix(items []string) string {
	if len(items) == 0 {
		return ""
	}
	prefix := items[0]
	for _, s := range items[1:] {
		for !strings.HasPrefix(s, prefix) {
			prefix = prefix[:len(prefix)-1]
			if prefix == "" {
				return ""
			}
		}
	}
	return prefix
}
