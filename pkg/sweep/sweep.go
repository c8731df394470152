// Package sweep removes unreachable entities from a configuration graph
// and emits the delete directives that would apply the same change on the
// router itself.
package sweep

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/psaab/jprune/pkg/config"
)

// Options control a cleanup run.
type Options struct {
	// ExcludeInactive keeps inactive entities out of consideration
	// entirely. Without it, the first pass removes exactly the
	// unreferenced inactive ones.
	ExcludeInactive bool

	// Report prefixes every directive with comment lines naming the
	// candidate and what its body referenced.
	Report bool

	// Fixpoint keeps sweeping until a pass deletes nothing, instead of
	// stopping after the second pass. The bounded default mirrors what
	// an operator reviewing diffs expects; fixpoint drains reference
	// chains deeper than two links in one run.
	Fixpoint bool
}

// Result summarizes one cleanup run.
type Result struct {
	// Deleted holds the deleted keys in directive emission order.
	Deleted       []config.Key
	DeletedByKind map[config.Kind]int
	Passes        int
}

// Sweeper walks a graph in sorted key order and deletes entities nothing
// active references. It mutates the graph it was given; callers that need
// the original afterwards sweep a Clone.
type Sweeper struct {
	graph *config.Graph
	opts  Options
	out   io.Writer
}

func New(g *config.Graph, opts Options, out io.Writer) *Sweeper {
	return &Sweeper{graph: g, opts: opts, out: out}
}

// Run performs the sweep and writes one delete directive per removed
// entity to the output. The first pass removes unreferenced inactive
// entities, the second everything unreferenced that remains, so entities
// kept alive only by an inactive referrer fall in the same run.
func (s *Sweeper) Run() (*Result, error) {
	res := &Result{DeletedByKind: make(map[config.Kind]int)}
	deleted := make(map[config.Key]bool)

	if _, err := s.sweepPass(true, deleted, res); err != nil {
		return nil, err
	}
	for {
		n, err := s.sweepPass(false, deleted, res)
		if err != nil {
			return nil, err
		}
		if !s.opts.Fixpoint || n == 0 {
			break
		}
	}

	slog.Info("cleanup sweep complete",
		"deleted", len(res.Deleted), "passes", res.Passes, "remaining", s.graph.Len())
	return res, nil
}

// sweepPass deletes every eligible entity once, in sorted key order, and
// returns how many it removed. The deleted set persists across passes:
// a reference no longer pins its target once the referrer is gone.
func (s *Sweeper) sweepPass(onlyInactive bool, deleted map[config.Key]bool, res *Result) (int, error) {
	count := 0
	for _, key := range s.graph.Keys() {
		ent, ok := s.graph.Lookup(key)
		if !ok {
			continue
		}
		if ent.Common {
			continue
		}
		if s.opts.ExcludeInactive && ent.Inactive {
			continue
		}
		if onlyInactive && !ent.Inactive {
			continue
		}
		if !ent.Deletable() {
			continue
		}
		if s.activeReferrers(ent, deleted) > 0 {
			continue
		}
		if err := s.emit(ent); err != nil {
			return count, err
		}
		s.graph.Delete(key)
		deleted[key] = true
		res.Deleted = append(res.Deleted, key)
		res.DeletedByKind[key.Kind]++
		count++
		slog.Debug("deleted entity", "entity", key.String(), "pass", res.Passes+1)
	}
	res.Passes++
	return count, nil
}

func (s *Sweeper) activeReferrers(e *config.Entity, deleted map[config.Key]bool) int {
	n := 0
	for _, ref := range e.ReferencedBy {
		if !deleted[ref] {
			n++
		}
	}
	return n
}

func (s *Sweeper) emit(e *config.Entity) error {
	if s.opts.Report {
		refs := "None"
		if len(e.References) > 0 {
			parts := make([]string, len(e.References))
			for i, r := range e.References {
				parts[i] = r.String()
			}
			refs = strings.Join(parts, ", ")
		}
		_, err := fmt.Fprintf(s.out, "# delete candidate: %s %s\n# references: %s\n", e.Kind, e.Name, refs)
		if err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(s.out, "delete %s %s\n", e.Kind.DeletePath(), e.Name)
	return err
}
