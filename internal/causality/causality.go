// Package causality implements spec.md §4.5: a component is causal only
// if its instantaneous (Weight(0)) dependency subgraph has no cycle, and
// the file as a whole is causal only if no set of components call each
// other in a cycle, whether or not a delay sits on it. Signal-level cycle detection
// is grounded on sunholo-data-ailang/internal/elaborate/scc.go's
// CallGraph.SCCs (Tarjan's algorithm over a string call graph),
// generalised to symtab.ID nodes; component-level cycle detection is
// grounded on sunholo-data-ailang/internal/link/topo.go's
// TopoSortFromRoot (visited/inPath DFS with cycle-path reconstruction),
// generalised from module imports to component applications.
package causality

import (
	"fmt"
	"sort"

	"github.com/grust-lang/grustc-core/internal/depgraph"
	"github.com/grust-lang/grustc-core/internal/errors"
	"github.com/grust-lang/grustc-core/internal/ir1"
	"github.com/grust-lang/grustc-core/internal/symtab"
)

// Check runs both causality passes over file, using reg's already-built
// (or lazily built) full dependency graphs.
func Check(file *ir1.File, reg *depgraph.Registry) *errors.Bag {
	bag := errors.NewBag()
	for _, comp := range file.Components {
		checkSignalCycles(comp, reg.Full(comp.ID, bag), bag)
	}
	checkComponentOrder(file, bag)
	return bag
}

// checkSignalCycles reports NotCausalSignal for every strongly connected
// component of size greater than one, or a singleton with a self edge, in
// full's Weight(0) subgraph (spec.md §4.5: "no cycle made entirely of
// Weight(0) edges").
func checkSignalCycles(comp *ir1.Component, full *depgraph.Graph, bag *errors.Bag) {
	adj := map[symtab.ID][]symtab.ID{}
	for _, id := range full.Nodes {
		for _, e := range full.Zero0EdgesFrom(id) {
			adj[id] = append(adj[id], e.To)
		}
	}

	for _, scc := range tarjanSCC(full.SortedNodes(), adj) {
		cyclic := len(scc) > 1
		if !cyclic && len(scc) == 1 {
			for _, to := range adj[scc[0]] {
				if to == scc[0] {
					cyclic = true
					break
				}
			}
		}
		if !cyclic {
			continue
		}
		sorted := append([]symtab.ID(nil), scc...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
		bag.Add(errors.New(errors.KindNotCausalSignal, errors.Location{},
			fmt.Sprintf("component %d has an instantaneous signal cycle through %v", comp.ID, sorted)).
			WithData("component", int(comp.ID)).
			WithData("cycle", sorted))
	}
}

// tarjanSCC computes the strongly connected components of the graph
// described by adj, restricted to nodes, in a deterministic order since
// nodes is already sorted.
func tarjanSCC(nodes []symtab.ID, adj map[symtab.ID][]symtab.ID) [][]symtab.ID {
	index := 0
	var stack []symtab.ID
	indices := map[symtab.ID]int{}
	lowlink := map[symtab.ID]int{}
	onStack := map[symtab.ID]bool{}
	var sccs [][]symtab.ID

	var strongconnect func(symtab.ID)
	strongconnect = func(v symtab.ID) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range adj[v] {
			if _, ok := indices[w]; !ok {
				strongconnect(w)
				if lowlink[w] < lowlink[v] {
					lowlink[v] = lowlink[w]
				}
			} else if onStack[w] {
				if indices[w] < lowlink[v] {
					lowlink[v] = indices[w]
				}
			}
		}

		if lowlink[v] == indices[v] {
			var scc []symtab.ID
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	for _, n := range nodes {
		if _, ok := indices[n]; !ok {
			strongconnect(n)
		}
	}
	return sccs
}
