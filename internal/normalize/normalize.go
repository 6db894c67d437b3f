// Package normalize implements spec.md §4.6's four sub-passes over a typed,
// dependency-annotated, causality-checked ir1.File: unitary-component
// synthesis, shifted-loop inlining, memorisation, and flattening to normal
// form, plus a post-condition verifier. Each sub-pass gets its own file,
// mirroring original_source/compiler/src/frontend/normalizing/*'s one
// Rust module per sub-pass.
package normalize

import (
	"fmt"

	"github.com/grust-lang/grustc-core/internal/ast"
	"github.com/grust-lang/grustc-core/internal/depgraph"
	"github.com/grust-lang/grustc-core/internal/errors"
	"github.com/grust-lang/grustc-core/internal/ir1"
	"github.com/grust-lang/grustc-core/internal/symtab"
)

// Run executes the four sub-passes in order and verifies the result.
// Normalize reports no user-facing diagnostics of its own (every
// condition it removes — FollowedBy, RisingEdge, nested ComponentApply —
// was already accepted by lowering, typing and causality); a violated
// post-condition panics in Verify.
func Run(file *ir1.File, reg *depgraph.Registry, syms *symtab.SymbolTable, bag *errors.Bag) {
	byID := make(map[symtab.ID]*ir1.Component, len(file.Components))
	for _, c := range file.Components {
		byID[c.ID] = c
	}

	gen := &ir1.IDGen{}
	gen.SeedAfter(maxNodeID(file))

	Synthesize(file, reg, bag)
	InlineShiftedLoops(file, byID, syms, gen)
	MemorizeLocal(file, syms, gen)
	MemorizeCalls(file, byID, syms)
	Flatten(file, syms, gen)

	Verify(file, bag)
}

// maxNodeID scans every expression reachable from file for the largest
// NodeID lowering and typing already minted, so normalize's own generator
// never reuses one (spec.md §9 OnceCell/id discipline).
func maxNodeID(file *ir1.File) uint64 {
	var max uint64
	visit := func(e ir1.Expr) { walkExprNodeIDs(e, &max) }
	for _, fn := range file.Functions {
		visit(fn.Body)
	}
	for _, comp := range file.Components {
		for _, st := range comp.Statements {
			visit(st.Expr)
		}
		for _, clause := range comp.Contract {
			visit(clause)
		}
	}
	return max
}

func walkExprNodeIDs(e ir1.Expr, max *uint64) {
	if e == nil {
		return
	}
	if e.ID() > *max {
		*max = e.ID()
	}
	for _, child := range children(e) {
		walkExprNodeIDs(child, max)
	}
}

// children returns e's immediate Expr operands, reused by maxNodeID and by
// Verify so both stay exhaustive over the same node set without having to
// keep two separate switches in sync (subst.go and flatten.go keep their
// own switches since they rebuild or mutate, not merely visit).
func children(e ir1.Expr) []ir1.Expr {
	switch ex := e.(type) {
	case *ir1.Unop:
		return []ir1.Expr{ex.Arg}
	case *ir1.Binop:
		return []ir1.Expr{ex.Left, ex.Right}
	case *ir1.IfThenElse:
		return []ir1.Expr{ex.Cond, ex.Then, ex.Else}
	case *ir1.Application:
		return ex.Args
	case *ir1.Array:
		return ex.Elems
	case *ir1.Tuple:
		return ex.Elems
	case *ir1.TupleElem:
		return []ir1.Expr{ex.Tuple}
	case *ir1.FieldAccess:
		return []ir1.Expr{ex.Struct}
	case *ir1.Structure:
		out := make([]ir1.Expr, len(ex.Fields))
		for i, f := range ex.Fields {
			out[i] = f.Value
		}
		return out
	case *ir1.Map:
		return []ir1.Expr{ex.Arr, ex.Fn}
	case *ir1.Sort:
		return []ir1.Expr{ex.Arr, ex.Cmp}
	case *ir1.Fold:
		return []ir1.Expr{ex.Init, ex.Step, ex.Arr}
	case *ir1.Zip:
		return ex.Arrs
	case *ir1.When:
		return []ir1.Expr{ex.Opt, ex.Present, ex.Default}
	case *ir1.Pure:
		return []ir1.Expr{ex.Inner}
	case *ir1.FollowedBy:
		return []ir1.Expr{ex.Init}
	case *ir1.SomeEvent:
		return []ir1.Expr{ex.Inner}
	case *ir1.RisingEdge:
		return []ir1.Expr{ex.Arg}
	case *ir1.ComponentApply:
		out := make([]ir1.Expr, len(ex.Inputs))
		for i, a := range ex.Inputs {
			out[i] = a.Value
		}
		return out
	default:
		return nil
	}
}

func primaryDefinedID(st *ir1.Statement) symtab.ID {
	ids := st.DefinedIDs()
	if len(ids) == 0 {
		return symtab.NoID
	}
	return ids[0]
}

func mintMemory(syms *symtab.SymbolTable, forID symtab.ID, kind symtab.Kind, pos ast.Pos) symtab.ID {
	// RegisterMemory's own synthetic name never collides (it panics
	// internally if it ever did); forID drives only the name, not the
	// stored kind.
	id, err := syms.RegisterMemory(forID, kind, pos)
	if err != nil {
		panic(fmt.Sprintf("internal: RegisterMemory(%d) failed: %v", forID, err))
	}
	return id
}
