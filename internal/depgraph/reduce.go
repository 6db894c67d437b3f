package depgraph

import (
	"github.com/grust-lang/grustc-core/internal/label"
	"github.com/grust-lang/grustc-core/internal/symtab"
)

// reduce computes the reduced signature graph of spec.md §4.4: keep only
// the component's input/output nodes, and for every pair connected by at
// least one simple path in full, record an edge labelled with the
// strongest (Contract-dominant, otherwise largest-weight) of that path's
// per-path label across every such path.
func reduce(full *Graph, inputs, outputs []symtab.ID) *Graph {
	isInput := make(map[symtab.ID]bool, len(inputs))
	for _, id := range inputs {
		isInput[id] = true
	}

	out := New()
	for _, id := range inputs {
		out.AddNode(id)
	}
	for _, id := range outputs {
		out.AddNode(id)
	}

	for _, o := range outputs {
		best := map[symtab.ID]label.Label{}
		visited := map[symtab.ID]bool{o: true}
		walkPaths(full, o, nil, visited, isInput, best)
		for target, lbl := range best {
			out.AddEdge(o, target, lbl)
		}
	}
	return out
}

// walkPaths performs a backtracking DFS from the current node over full's
// outgoing edges, recording the PathMax of every simple path that reaches
// an input node into best, combined across alternate paths with
// label.Max.
func walkPaths(full *Graph, node symtab.ID, path []label.Label, visited map[symtab.ID]bool, isInput map[symtab.ID]bool, best map[symtab.ID]label.Label) {
	for _, edge := range full.Out(node) {
		if visited[edge.To] {
			continue
		}
		nextPath := append(append([]label.Label(nil), path...), edge.Label)
		if isInput[edge.To] {
			candidate := label.PathMax(nextPath)
			if cur, ok := best[edge.To]; ok {
				best[edge.To] = label.Max(cur, candidate)
			} else {
				best[edge.To] = candidate
			}
		}
		visited[edge.To] = true
		walkPaths(full, edge.To, nextPath, visited, isInput, best)
		visited[edge.To] = false
	}
}
