package causality

import (
	"fmt"

	"github.com/grust-lang/grustc-core/internal/errors"
	"github.com/grust-lang/grustc-core/internal/ir1"
	"github.com/grust-lang/grustc-core/internal/symtab"
)

// checkComponentOrder reports NotCausalComponent the first time a
// component's applications form a cycle: GRust expresses feedback with
// `fby` inside one component, never by components calling each other in
// a loop, so any cycle in the raw call graph (regardless of label) is
// illegal (spec.md §4.5, resolved Open Question — see DESIGN.md).
func checkComponentOrder(file *ir1.File, bag *errors.Bag) {
	callees := map[symtab.ID][]symtab.ID{}
	for _, comp := range file.Components {
		for _, st := range comp.Statements {
			walkComponentApplies(st.Expr, func(ca *ir1.ComponentApply) {
				callees[comp.ID] = append(callees[comp.ID], ca.Component)
			})
		}
	}

	visited := map[symtab.ID]bool{}
	inPath := map[symtab.ID]bool{}
	var path []symtab.ID

	var dfs func(symtab.ID) []symtab.ID
	dfs = func(id symtab.ID) []symtab.ID {
		if visited[id] {
			return nil
		}
		if inPath[id] {
			start := 0
			for i, p := range path {
				if p == id {
					start = i
					break
				}
			}
			cycle := append([]symtab.ID(nil), path[start:]...)
			return append(cycle, id)
		}
		inPath[id] = true
		path = append(path, id)
		for _, callee := range callees[id] {
			if cyc := dfs(callee); cyc != nil {
				return cyc
			}
		}
		inPath[id] = false
		path = path[:len(path)-1]
		visited[id] = true
		return nil
	}

	for _, comp := range file.Components {
		if cyc := dfs(comp.ID); cyc != nil {
			bag.Add(errors.New(errors.KindNotCausalComponent, errors.Location{},
				fmt.Sprintf("component call cycle: %v", cyc)).
				WithData("cycle", cyc))
			return
		}
	}
}

// walkComponentApplies calls fn for every ComponentApply reachable inside
// e, mirroring internal/depgraph's compositional walk over every
// expression kind (spec.md §4.4 step 3) but collecting callees instead of
// dependency edges.
func walkComponentApplies(e ir1.Expr, fn func(*ir1.ComponentApply)) {
	switch ex := e.(type) {
	case *ir1.ComponentApply:
		fn(ex)
		for _, arg := range ex.Inputs {
			walkComponentApplies(arg.Value, fn)
		}
	case *ir1.Unop:
		walkComponentApplies(ex.Arg, fn)
	case *ir1.Binop:
		walkComponentApplies(ex.Left, fn)
		walkComponentApplies(ex.Right, fn)
	case *ir1.IfThenElse:
		walkComponentApplies(ex.Cond, fn)
		walkComponentApplies(ex.Then, fn)
		walkComponentApplies(ex.Else, fn)
	case *ir1.Application:
		for _, a := range ex.Args {
			walkComponentApplies(a, fn)
		}
	case *ir1.Array:
		for _, el := range ex.Elems {
			walkComponentApplies(el, fn)
		}
	case *ir1.Tuple:
		for _, el := range ex.Elems {
			walkComponentApplies(el, fn)
		}
	case *ir1.TupleElem:
		walkComponentApplies(ex.Tuple, fn)
	case *ir1.FieldAccess:
		walkComponentApplies(ex.Struct, fn)
	case *ir1.Structure:
		for _, f := range ex.Fields {
			walkComponentApplies(f.Value, fn)
		}
	case *ir1.Map:
		walkComponentApplies(ex.Arr, fn)
		walkComponentApplies(ex.Fn, fn)
	case *ir1.Sort:
		walkComponentApplies(ex.Arr, fn)
		walkComponentApplies(ex.Cmp, fn)
	case *ir1.Fold:
		walkComponentApplies(ex.Init, fn)
		walkComponentApplies(ex.Step, fn)
		walkComponentApplies(ex.Arr, fn)
	case *ir1.Zip:
		for _, a := range ex.Arrs {
			walkComponentApplies(a, fn)
		}
	case *ir1.When:
		walkComponentApplies(ex.Opt, fn)
		walkComponentApplies(ex.Present, fn)
		walkComponentApplies(ex.Default, fn)
	case *ir1.Pure:
		walkComponentApplies(ex.Inner, fn)
	case *ir1.FollowedBy:
		walkComponentApplies(ex.Init, fn)
	case *ir1.SomeEvent:
		walkComponentApplies(ex.Inner, fn)
	case *ir1.RisingEdge:
		walkComponentApplies(ex.Arg, fn)
	}
}
