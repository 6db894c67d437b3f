package depgraph

import (
	"sort"

	"github.com/grust-lang/grustc-core/internal/label"
	"github.com/grust-lang/grustc-core/internal/symtab"
)

// Edge is one labelled dependency edge y -> x, per spec.md §3
// DependencyGraph: "directed multigraph, node per Id; edge labels are
// Contract ... or Weight(k)".
type Edge struct {
	From  symtab.ID
	To    symtab.ID
	Label label.Label
}

// Graph is a per-component labelled dependency multigraph.
type Graph struct {
	Nodes []symtab.ID
	Edges []Edge

	nodeSet map[symtab.ID]bool
	outAdj  map[symtab.ID][]Edge
}

// New returns an empty dependency graph.
func New() *Graph {
	return &Graph{nodeSet: map[symtab.ID]bool{}, outAdj: map[symtab.ID][]Edge{}}
}

// AddNode registers id as a graph vertex if it is not already present.
func (g *Graph) AddNode(id symtab.ID) {
	if !g.nodeSet[id] {
		g.nodeSet[id] = true
		g.Nodes = append(g.Nodes, id)
	}
}

// AddEdge records a dependency y -> x with the given label, per spec.md
// §4.4 step 2.
func (g *Graph) AddEdge(from, to symtab.ID, lbl label.Label) {
	g.AddNode(from)
	g.AddNode(to)
	e := Edge{From: from, To: to, Label: lbl}
	g.Edges = append(g.Edges, e)
	g.outAdj[from] = append(g.outAdj[from], e)
}

// Out returns every outgoing edge from id, in insertion order.
func (g *Graph) Out(id symtab.ID) []Edge {
	return g.outAdj[id]
}

// HasNode reports whether id is a vertex of the graph.
func (g *Graph) HasNode(id symtab.ID) bool { return g.nodeSet[id] }

// SortedNodes returns Nodes in a deterministic (ascending Id) order, used
// wherever iteration order must be stable for diagnostics or scheduling
// tie-breaks (spec.md §4.7).
func (g *Graph) SortedNodes() []symtab.ID {
	out := append([]symtab.ID(nil), g.Nodes...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Zero0EdgesFrom returns only the W0 (instantaneous) outgoing edges of id,
// used by the causality checker (spec.md §4.5).
func (g *Graph) Zero0EdgesFrom(id symtab.ID) []Edge {
	var out []Edge
	for _, e := range g.outAdj[id] {
		if !e.Label.IsContract && e.Label.Weight == 0 {
			out = append(out, e)
		}
	}
	return out
}
