package config

import (
	"github.com/tidwall/btree"
)

// Graph holds every entity keyed by (kind, name) and the reference edges
// between them. Entities are kept in a sorted tree so that every walk over
// the graph is deterministic without callers sorting anything.
type Graph struct {
	tree *btree.BTreeG[*Entity]
}

func entityLess(a, b *Entity) bool {
	ak, bk := a.Kind.String(), b.Kind.String()
	if ak != bk {
		return ak < bk
	}
	return a.Name < b.Name
}

func NewGraph() *Graph {
	return &Graph{tree: btree.NewBTreeG[*Entity](entityLess)}
}

// Lookup returns the entity for k, if present.
func (g *Graph) Lookup(k Key) (*Entity, bool) {
	return g.tree.Get(&Entity{Kind: k.Kind, Name: k.Name})
}

// ensure returns the entity for k, creating an undeclared placeholder when
// k has not been seen before.
func (g *Graph) ensure(k Key) *Entity {
	if e, ok := g.Lookup(k); ok {
		return e
	}
	e := &Entity{Kind: k.Kind, Name: k.Name}
	g.tree.Set(e)
	return e
}

// Declare records a declaration of k and returns the entity. Redeclaration
// merges: the newest inactive state wins, common is sticky once set, and
// edges already recorded are kept. The caller owns Body and ActiveNeighbors,
// which it assigns when the declaration's block closes.
func (g *Graph) Declare(k Key, inactive, common bool) *Entity {
	e := g.ensure(k)
	e.Declared = true
	e.Inactive = inactive
	e.Common = e.Common || common
	return e
}

// AddEdge records that from's body references to, updating both directions.
// The target is created as a placeholder when it does not exist yet.
func (g *Graph) AddEdge(from, to Key) {
	src := g.ensure(from)
	dst := g.ensure(to)
	src.References = append(src.References, to)
	dst.ReferencedBy = append(dst.ReferencedBy, from)
}

// AddReferrer records ref against k's referenced-by list without creating a
// forward edge. Used for the synthetic interfaces referrer, which is not an
// entity and holds no reference list of its own.
func (g *Graph) AddReferrer(k, ref Key) {
	e := g.ensure(k)
	e.ReferencedBy = append(e.ReferencedBy, ref)
}

// Delete removes k from the graph. Edges pointing at k in other entities
// are left in place; liveness checks resolve them against the deleted set.
func (g *Graph) Delete(k Key) bool {
	_, ok := g.tree.Delete(&Entity{Kind: k.Kind, Name: k.Name})
	return ok
}

func (g *Graph) Len() int {
	return g.tree.Len()
}

// Walk visits every entity in sorted (kind, name) order until fn returns
// false.
func (g *Graph) Walk(fn func(*Entity) bool) {
	g.tree.Scan(fn)
}

// Keys returns every key in sorted order.
func (g *Graph) Keys() []Key {
	keys := make([]Key, 0, g.tree.Len())
	g.tree.Scan(func(e *Entity) bool {
		keys = append(keys, e.Key())
		return true
	})
	return keys
}

// Entities returns every entity in sorted order.
func (g *Graph) Entities() []*Entity {
	ents := make([]*Entity, 0, g.tree.Len())
	g.tree.Scan(func(e *Entity) bool {
		ents = append(ents, e)
		return true
	})
	return ents
}

// Clone returns a deep copy of the graph. Sweeping a clone leaves the
// original untouched, which is what the interactive shell relies on.
func (g *Graph) Clone() *Graph {
	out := NewGraph()
	g.tree.Scan(func(e *Entity) bool {
		c := *e
		c.References = append([]Key(nil), e.References...)
		c.ReferencedBy = append([]Key(nil), e.ReferencedBy...)
		c.Body = append([]string(nil), e.Body...)
		out.tree.Set(&c)
		return true
	})
	return out
}
