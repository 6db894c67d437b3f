// Package schedule implements spec.md §4.7: within each UnitaryComponent,
// order its statements so that every statement computing an instantaneous
// (Weight(0)) dependency of another runs first, breaking ties by the
// smallest id a statement defines, per spec.md's explicit tie-break rule.
// Grounded on sunholo-data-ailang/internal/link/topo.go's dependency-order
// topological sort, adapted from module-level DFS postorder to a Kahn-style
// ready-set walk so the deterministic tie-break can be applied at every
// step rather than only at the outer iteration order.
package schedule

import (
	"github.com/grust-lang/grustc-core/internal/depgraph"
	"github.com/grust-lang/grustc-core/internal/errors"
	"github.com/grust-lang/grustc-core/internal/ir1"
	"github.com/grust-lang/grustc-core/internal/symtab"
)

// Run assigns ScheduleOrder to every UnitaryComponent of every component in
// file, using reg's full dependency graphs (already built by causality).
func Run(file *ir1.File, reg *depgraph.Registry, bag *errors.Bag) {
	for _, comp := range file.Components {
		full := reg.Full(comp.ID, bag)
		for _, uc := range comp.Unitary {
			uc.ScheduleOrder = order(uc.Statements, full)
		}
	}
}

// order topologically sorts stmts by the W(0) edges among the ids they
// define, restricted to full (the owning component's complete dependency
// graph). A cycle here is an internal bug: internal/causality already
// rejected every instantaneous cycle before normalize or schedule ever
// ran, so one surfacing here means an earlier pass let something through.
func order(stmts []*ir1.Statement, full *depgraph.Graph) []*ir1.Statement {
	definedBy := map[symtab.ID]*ir1.Statement{}
	for _, st := range stmts {
		for _, id := range st.DefinedIDs() {
			definedBy[id] = st
		}
	}

	inDegree := make(map[*ir1.Statement]int, len(stmts))
	dependents := map[*ir1.Statement][]*ir1.Statement{}
	seenEdge := map[[2]*ir1.Statement]bool{}
	for _, st := range stmts {
		inDegree[st] = 0
	}
	for _, st := range stmts {
		for _, id := range st.DefinedIDs() {
			for _, e := range full.Zero0EdgesFrom(id) {
				producer, ok := definedBy[e.To]
				if !ok || producer == st {
					continue
				}
				key := [2]*ir1.Statement{producer, st}
				if seenEdge[key] {
					continue
				}
				seenEdge[key] = true
				inDegree[st]++
				dependents[producer] = append(dependents[producer], st)
			}
		}
	}

	scheduled := make(map[*ir1.Statement]bool, len(stmts))
	result := make([]*ir1.Statement, 0, len(stmts))
	for len(result) < len(stmts) {
		var next *ir1.Statement
		var nextID symtab.ID
		for _, st := range stmts {
			if scheduled[st] || inDegree[st] != 0 {
				continue
			}
			m := minDefinedID(st)
			if next == nil || m < nextID {
				next, nextID = st, m
			}
		}
		if next == nil {
			panic("internal: schedule found a statement cycle after causality already passed")
		}
		scheduled[next] = true
		result = append(result, next)
		for _, dep := range dependents[next] {
			inDegree[dep]--
		}
	}
	return result
}

func minDefinedID(st *ir1.Statement) symtab.ID {
	ids := st.DefinedIDs()
	m := ids[0]
	for _, id := range ids[1:] {
		if id < m {
			m = id
		}
	}
	return m
}
