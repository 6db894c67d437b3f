// Package depgraph builds the per-component labelled dependency graphs
// of spec.md §4.4 and the reduced signature graphs callers consult at a
// component application. Registry keeps both maps, keyed by component
// id, in place of the *Graph fields ir1.Component deliberately does not
// carry (see internal/ir1/component.go) — Registry is the one that must
// import ir1 to walk its node types, so the graph storage has to live
// here, not there.
package depgraph

import (
	"github.com/grust-lang/grustc-core/internal/errors"
	"github.com/grust-lang/grustc-core/internal/ir1"
	"github.com/grust-lang/grustc-core/internal/label"
	"github.com/grust-lang/grustc-core/internal/symtab"
)

// Registry computes and caches every component's full dependency graph
// and its reduced input/output signature graph.
type Registry struct {
	byID     map[symtab.ID]*ir1.Component
	full     map[symtab.ID]*Graph
	reduced  map[symtab.ID]*Graph
	building map[symtab.ID]bool
}

// NewRegistry indexes comps by id so ComponentApply nodes can resolve
// their callee's graph on demand.
func NewRegistry(comps []*ir1.Component) *Registry {
	byID := make(map[symtab.ID]*ir1.Component, len(comps))
	for _, c := range comps {
		byID[c.ID] = c
	}
	return &Registry{
		byID:     byID,
		full:     map[symtab.ID]*Graph{},
		reduced:  map[symtab.ID]*Graph{},
		building: map[symtab.ID]bool{},
	}
}

// BuildAll computes every component's graphs, so later passes can call
// Full/Reduced without caring about build order.
func (r *Registry) BuildAll(bag *errors.Bag) {
	for id := range r.byID {
		r.Full(id, bag)
	}
}

// Full returns component id's full labelled dependency graph, building it
// (and everything it calls) on first request. A component-call cycle —
// reported properly by internal/causality, not here — makes the cyclic
// callee's graph resolve to an empty placeholder rather than recursing
// forever.
func (r *Registry) Full(id symtab.ID, bag *errors.Bag) *Graph {
	if g, ok := r.full[id]; ok {
		return g
	}
	comp, ok := r.byID[id]
	if !ok {
		return New()
	}
	if r.building[id] {
		return New()
	}
	r.building[id] = true

	g := New()
	for _, sig := range comp.Inputs {
		g.AddNode(sig)
	}
	for _, sig := range comp.Outputs {
		g.AddNode(sig)
	}
	for _, st := range comp.Statements {
		deps := r.dependencies(st.Expr, bag)
		for _, y := range ir1.BoundIdents(st.Pattern) {
			g.AddNode(y)
			for _, d := range deps {
				g.AddEdge(y, d.Target, d.Label)
			}
		}
	}
	for _, clause := range comp.Contract {
		ids := dedupeIdents(r.identsMentioned(clause))
		for i := range ids {
			for j := range ids {
				if i != j {
					g.AddEdge(ids[i], ids[j], label.ContractLabel())
				}
			}
		}
	}

	r.building[id] = false
	r.full[id] = g
	r.reduced[id] = reduce(g, comp.Inputs, comp.Outputs)
	return g
}

// Reduced returns component id's reduced input/output signature graph,
// consulted by a caller applying that component (spec.md §4.4 "Reduced
// graph of a component").
func (r *Registry) Reduced(id symtab.ID, bag *errors.Bag) *Graph {
	if g, ok := r.reduced[id]; ok {
		return g
	}
	r.Full(id, bag)
	return r.reduced[id]
}

// dependencies implements spec.md §4.4 step 3's compositional
// `dependencies(e)`.
func (r *Registry) dependencies(e ir1.Expr, bag *errors.Bag) []ir1.DepEdge {
	switch ex := e.(type) {
	case *ir1.Ident:
		if ex.ID == symtab.NoID {
			return nil
		}
		return []ir1.DepEdge{{Target: ex.ID, Label: label.W(0)}}
	case *ir1.Const:
		return nil
	case *ir1.Unop:
		return r.dependencies(ex.Arg, bag)
	case *ir1.Binop:
		return r.union(bag, ex.Left, ex.Right)
	case *ir1.IfThenElse:
		return r.union(bag, ex.Cond, ex.Then, ex.Else)
	case *ir1.Application:
		return r.union(bag, ex.Args...)
	case *ir1.Array:
		return r.union(bag, ex.Elems...)
	case *ir1.Tuple:
		return r.union(bag, ex.Elems...)
	case *ir1.TupleElem:
		return r.dependencies(ex.Tuple, bag)
	case *ir1.FieldAccess:
		return r.dependencies(ex.Struct, bag)
	case *ir1.Structure:
		values := make([]ir1.Expr, len(ex.Fields))
		for i, f := range ex.Fields {
			values[i] = f.Value
		}
		return r.union(bag, values...)
	case *ir1.Enumeration:
		return nil
	case *ir1.Map:
		return r.union(bag, ex.Arr, ex.Fn)
	case *ir1.Sort:
		return r.union(bag, ex.Arr, ex.Cmp)
	case *ir1.Fold:
		return r.union(bag, ex.Init, ex.Step, ex.Arr)
	case *ir1.Zip:
		return r.union(bag, ex.Arrs...)
	case *ir1.When:
		return r.union(bag, ex.Opt, ex.Present, ex.Default)
	case *ir1.Pure:
		return r.dependencies(ex.Inner, bag)
	case *ir1.FollowedBy:
		deps := r.dependencies(ex.Init, bag)
		if ex.Next != symtab.NoID {
			deps = append(deps, ir1.DepEdge{Target: ex.Next, Label: label.W(1)})
		}
		return deps
	case *ir1.SomeEvent:
		return r.dependencies(ex.Inner, bag)
	case *ir1.NoneEvent:
		return nil
	case *ir1.RisingEdge:
		return r.dependencies(ex.Arg, bag)
	case *ir1.ComponentApply:
		return r.componentApplyDeps(ex, bag)
	default:
		return nil
	}
}

func (r *Registry) union(bag *errors.Bag, exprs ...ir1.Expr) []ir1.DepEdge {
	var out []ir1.DepEdge
	for _, e := range exprs {
		out = append(out, r.dependencies(e, bag)...)
	}
	return out
}

// componentApplyDeps implements spec.md §4.4 step 3's ComponentApply
// case: fetch the callee's reduced graph, and for every (output, formal
// input) edge it records, substitute the argument bound to that formal
// input and compose the two labels with Add.
func (r *Registry) componentApplyDeps(c *ir1.ComponentApply, bag *errors.Bag) []ir1.DepEdge {
	if c.SelectedOutput == symtab.NoID {
		return nil
	}
	reduced := r.Reduced(c.Component, bag)
	if reduced == nil {
		return nil
	}
	var out []ir1.DepEdge
	for _, edge := range reduced.Out(c.SelectedOutput) {
		for _, arg := range c.Inputs {
			if arg.Input != edge.To {
				continue
			}
			for _, d := range r.dependencies(arg.Value, bag) {
				out = append(out, ir1.DepEdge{Target: d.Target, Label: label.Add(edge.Label, d.Label)})
			}
		}
	}
	return out
}

// identsMentioned collects every Ident node's resolved id inside a
// contract clause, for the co-scheduling edges of spec.md §4.4 step 4.
func (r *Registry) identsMentioned(e ir1.Expr) []symtab.ID {
	var out []symtab.ID
	var walk func(ir1.Expr)
	walk = func(ex ir1.Expr) {
		switch n := ex.(type) {
		case *ir1.Ident:
			if n.ID != symtab.NoID {
				out = append(out, n.ID)
			}
		case *ir1.Unop:
			walk(n.Arg)
		case *ir1.Binop:
			walk(n.Left)
			walk(n.Right)
		case *ir1.IfThenElse:
			walk(n.Cond)
			walk(n.Then)
			walk(n.Else)
		case *ir1.TupleElem:
			walk(n.Tuple)
		case *ir1.FieldAccess:
			walk(n.Struct)
		case *ir1.Tuple:
			for _, el := range n.Elems {
				walk(el)
			}
		case *ir1.Array:
			for _, el := range n.Elems {
				walk(el)
			}
		}
	}
	walk(e)
	return out
}

func dedupeIdents(ids []symtab.ID) []symtab.ID {
	seen := map[symtab.ID]bool{}
	var out []symtab.ID
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
