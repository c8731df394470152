// Package report renders human-readable views of a configuration graph:
// the entity table, per-entity detail, and the post-run summary. All
// renderers are pure formatters over a finalized graph.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/psaab/jprune/pkg/config"
)

// Options control table rendering.
type Options struct {
	// Width is the output column limit. Zero means DefaultWidth.
	Width int

	// Kind, when set, limits rows to one entity kind.
	Kind *config.Kind
}

const (
	kindCol  = 16
	nameCol  = 26
	flagCol  = 6
	nbrsCol  = 5
	refFloor = 8
)

// Render writes one row per entity, in sorted key order. The reference
// column absorbs whatever width remains and is truncated to fit.
func Render(w io.Writer, g *config.Graph, opts Options) {
	width := opts.Width
	if width <= 0 {
		width = DefaultWidth
	}
	avail := width - (kindCol + nameCol + flagCol + nbrsCol + 5)
	if avail < refFloor {
		avail = refFloor
	}

	fmt.Fprintf(w, "%-*s %-*s %-*s %*s  %s\n",
		kindCol, "KIND", nameCol, "NAME", flagCol, "FLAGS", nbrsCol, "NBRS", "REFERENCES")
	g.Walk(func(e *config.Entity) bool {
		if opts.Kind != nil && e.Kind != *opts.Kind {
			return true
		}
		fmt.Fprintf(w, "%-*s %-*s %-*s %*d  %s\n",
			kindCol, e.Kind,
			nameCol, truncate(e.Name, nameCol),
			flagCol, flagString(e),
			nbrsCol, e.ActiveNeighbors,
			truncate(joinKeys(e.References), avail))
		return true
	})
}

// RenderDetail writes the full view of a single entity, body included.
func RenderDetail(w io.Writer, e *config.Entity) {
	fmt.Fprintf(w, "%s %s\n", e.Kind, e.Name)
	fmt.Fprintf(w, "  state:         %s\n", stateString(e))
	fmt.Fprintf(w, "  common:        %v\n", e.Common)
	if e.Kind == config.KindGroup {
		fmt.Fprintf(w, "  neighbors:     %d active\n", e.ActiveNeighbors)
	}
	fmt.Fprintf(w, "  references:    %s\n", orNone(joinKeys(e.References)))
	fmt.Fprintf(w, "  referenced by: %s\n", orNone(joinKeys(e.ReferencedBy)))
	if len(e.Body) > 0 {
		fmt.Fprintf(w, "  body:\n")
		for _, line := range e.Body {
			fmt.Fprintf(w, "    %s\n", line)
		}
	}
}

// RenderSummary writes per-kind totals followed by the unused and missing
// entity lists and any warnings captured while parsing.
func RenderSummary(w io.Writer, g *config.Graph, warnings []string) {
	fmt.Fprintf(w, "%-18s %8s %8s %8s\n", "KIND", "TOTAL", "MISSING", "INACTIVE")
	var total, missing, inactive int
	counts := make(map[config.Kind][3]int)
	g.Walk(func(e *config.Entity) bool {
		c := counts[e.Kind]
		c[0]++
		if e.Missing() {
			c[1]++
		}
		if e.Inactive {
			c[2]++
		}
		counts[e.Kind] = c
		total++
		return true
	})
	for _, k := range config.Kinds() {
		c, ok := counts[k]
		if !ok {
			continue
		}
		fmt.Fprintf(w, "%-18s %8d %8d %8d\n", k, c[0], c[1], c[2])
		missing += c[1]
		inactive += c[2]
	}
	fmt.Fprintf(w, "%-18s %8d %8d %8d\n", "total", total, missing, inactive)

	fmt.Fprintf(w, "\nUnused entities:\n")
	writeKeyList(w, entityKeys(Unused(g)))

	fmt.Fprintf(w, "\nMissing entities:\n")
	writeKeyList(w, entityKeys(Missing(g)))

	fmt.Fprintf(w, "\nParse warnings:\n")
	if len(warnings) == 0 {
		fmt.Fprintf(w, "  None\n")
	}
	for _, msg := range warnings {
		fmt.Fprintf(w, "  %s\n", msg)
	}
}

// Unused returns declared entities nothing references, in sorted order.
func Unused(g *config.Graph) []*config.Entity {
	var out []*config.Entity
	g.Walk(func(e *config.Entity) bool {
		if e.Declared && len(e.ReferencedBy) == 0 {
			out = append(out, e)
		}
		return true
	})
	return out
}

// Missing returns placeholders that were referenced but never declared,
// in sorted order.
func Missing(g *config.Graph) []*config.Entity {
	var out []*config.Entity
	g.Walk(func(e *config.Entity) bool {
		if e.Missing() {
			out = append(out, e)
		}
		return true
	})
	return out
}

func entityKeys(ents []*config.Entity) []config.Key {
	keys := make([]config.Key, len(ents))
	for i, e := range ents {
		keys[i] = e.Key()
	}
	return keys
}

func writeKeyList(w io.Writer, keys []config.Key) {
	if len(keys) == 0 {
		fmt.Fprintf(w, "  None\n")
		return
	}
	for _, k := range keys {
		fmt.Fprintf(w, "  %s %s\n", k.Kind, k.Name)
	}
}

func flagString(e *config.Entity) string {
	var b strings.Builder
	if e.Inactive {
		b.WriteByte('I')
	}
	if e.Common {
		b.WriteByte('C')
	}
	if e.Missing() {
		b.WriteByte('M')
	}
	if b.Len() == 0 {
		return "-"
	}
	return b.String()
}

func stateString(e *config.Entity) string {
	switch {
	case e.Missing():
		return "missing"
	case e.Inactive:
		return "inactive"
	default:
		return "active"
	}
}

func joinKeys(keys []config.Key) string {
	if len(keys) == 0 {
		return ""
	}
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k.String()
	}
	return strings.Join(parts, ", ")
}

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
