// Package depgraph bridges the entity graph into gonum for structural
// analysis: Graphviz export and weakly connected component grouping.
package depgraph

import (
	"sort"

	"github.com/psaab/jprune/pkg/config"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// node carries one entity into gonum graphs. IDs are assigned in sorted
// key order so output is stable across runs.
type node struct {
	id       int64
	key      config.Key
	missing  bool
	inactive bool
	common   bool
	synth    bool // the interfaces referrer
}

func (n node) ID() int64 { return n.id }

func (n node) DOTID() string { return n.key.String() }

func (n node) Attributes() []encoding.Attribute {
	var attrs []encoding.Attribute
	switch {
	case n.synth:
		attrs = append(attrs, encoding.Attribute{Key: "shape", Value: "diamond"})
	case n.missing:
		attrs = append(attrs,
			encoding.Attribute{Key: "color", Value: "red"},
			encoding.Attribute{Key: "style", Value: "dashed"})
	case n.inactive:
		attrs = append(attrs, encoding.Attribute{Key: "style", Value: "dashed"})
	}
	if n.common {
		attrs = append(attrs, encoding.Attribute{Key: "shape", Value: "box"})
	}
	return attrs
}

// DOT renders the reference graph in Graphviz form. Missing entities are
// drawn dashed red, inactive ones dashed, common ones boxed. Filters
// applied under interfaces hang off a synthetic diamond node.
func DOT(g *config.Graph) ([]byte, error) {
	dg := simple.NewDirectedGraph()
	nodes := make(map[config.Key]node)
	var id int64

	var ifaceUsed bool
	g.Walk(func(e *config.Entity) bool {
		n := node{
			id:       id,
			key:      e.Key(),
			missing:  e.Missing(),
			inactive: e.Inactive,
			common:   e.Common,
		}
		id++
		nodes[n.key] = n
		dg.AddNode(n)
		for _, ref := range e.ReferencedBy {
			if ref == config.InterfacesKey {
				ifaceUsed = true
			}
		}
		return true
	})

	var iface node
	if ifaceUsed {
		iface = node{id: id, key: config.InterfacesKey, synth: true}
		dg.AddNode(iface)
	}

	g.Walk(func(e *config.Entity) bool {
		from := nodes[e.Key()]
		for _, ref := range e.References {
			// References to entities removed by a sweep, and self
			// references, have no edge to draw.
			to, ok := nodes[ref]
			if !ok || ref == e.Key() {
				continue
			}
			dg.SetEdge(simple.Edge{F: from, T: to})
		}
		for _, ref := range e.ReferencedBy {
			if ref == config.InterfacesKey {
				dg.SetEdge(simple.Edge{F: iface, T: from})
			}
		}
		return true
	})

	return dot.Marshal(dg, "dependencies", "", "  ")
}

// Component is one weakly connected set of entities in the reference
// graph. Roots are the members no other entity references, the natural
// starting points when reviewing why the set is still present.
type Component struct {
	Members []config.Key
	Roots   []config.Key
}

// Components groups entities that reach each other through references,
// ignoring edge direction, and returns the groups largest first. Entities
// with no reference edges at all do not form components; the synthetic
// interfaces referrer does not connect anything.
func Components(g *config.Graph) []Component {
	ug := simple.NewUndirectedGraph()
	nodes := make(map[config.Key]node)
	byID := make(map[int64]config.Key)
	var id int64

	nodeFor := func(k config.Key) node {
		n, ok := nodes[k]
		if !ok {
			n = node{id: id, key: k}
			nodes[k] = n
			byID[n.id] = k
			id++
		}
		return n
	}

	g.Walk(func(e *config.Entity) bool {
		for _, ref := range e.References {
			if ref == e.Key() {
				continue
			}
			if _, ok := g.Lookup(ref); !ok {
				continue
			}
			ug.SetEdge(simple.Edge{F: nodeFor(e.Key()), T: nodeFor(ref)})
		}
		return true
	})

	var out []Component
	for _, members := range topo.ConnectedComponents(ug) {
		c := Component{Members: make([]config.Key, 0, len(members))}
		for _, n := range members {
			c.Members = append(c.Members, byID[n.ID()])
		}
		sort.Slice(c.Members, func(i, j int) bool {
			return keyLess(c.Members[i], c.Members[j])
		})
		for _, k := range c.Members {
			e, ok := g.Lookup(k)
			if ok && len(e.ReferencedBy) == 0 {
				c.Roots = append(c.Roots, k)
			}
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i].Members) != len(out[j].Members) {
			return len(out[i].Members) > len(out[j].Members)
		}
		return keyLess(out[i].Members[0], out[j].Members[0])
	})
	return out
}

func keyLess(a, b config.Key) bool {
	ak, bk := a.Kind.String(), b.Kind.String()
	if ak != bk {
		return ak < bk
	}
	return a.Name < b.Name
}
