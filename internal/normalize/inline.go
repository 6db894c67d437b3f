package normalize

import (
	"fmt"

	"github.com/grust-lang/grustc-core/internal/ir1"
	"github.com/grust-lang/grustc-core/internal/symtab"
)

// InlineShiftedLoops implements spec.md §4.6.2: a statement
// `out y = callee(..., y, ...).o;` whose own output y is also fed back in
// as one of the call's arguments is only legal because callee's output is
// produced from memory, never instantaneously from that input — so the
// call cannot be left as an ordinary application (its "output available
// before its own input" shape has no direct lowering) and must instead be
// replaced by a spliced-in copy of the callee's already-synthesized
// unitary body. Grounded on original_source's normalizing/inlining/
// {file.rs,node.rs}, whose canonical example is exactly this: `out fib =
// semi_fib(fib).o;` where semi_fib's output comes from a `fby`.
func InlineShiftedLoops(file *ir1.File, byID map[symtab.ID]*ir1.Component, syms *symtab.SymbolTable, gen *ir1.IDGen) {
	for _, comp := range file.Components {
		for _, uc := range comp.Unitary {
			uc.Statements = inlineStatements(uc.Statements, byID, syms, comp.ID, gen)
		}
	}
}

func inlineStatements(stmts []*ir1.Statement, byID map[symtab.ID]*ir1.Component, syms *symtab.SymbolTable, callerComp symtab.ID, gen *ir1.IDGen) []*ir1.Statement {
	var out []*ir1.Statement
	for _, st := range stmts {
		ca, ok := st.Expr.(*ir1.ComponentApply)
		if !ok || !isShiftedLoop(st, ca) {
			out = append(out, st)
			continue
		}

		callee := byID[ca.Component]
		var calleeUnit *ir1.UnitaryComponent
		if callee != nil {
			calleeUnit = callee.Unitary[ca.SelectedOutput]
		}
		if calleeUnit == nil {
			// Unitary synthesis did not run, or the callee has no such
			// output; leave the call as-is rather than guess.
			out = append(out, st)
			continue
		}

		ctx := map[symtab.ID]ir1.Expr{}
		for _, arg := range ca.Inputs {
			ctx[arg.Input] = arg.Value
		}
		// U's own locals get fresh ids bound into the caller's scope before
		// splicing: the same callee inlined at a second call site, or into
		// a caller with its own same-named local, must never leave two
		// statements in the final body defining the same id.
		renamed := renameCalleeLocals(calleeUnit, syms, callerComp, gen)
		for old, fresh := range renamed {
			ctx[old] = &ir1.Ident{Node: ir1.Node{NodeID: gen.Fresh(), Pos: st.Pos}, ID: fresh}
		}

		for _, cst := range calleeUnit.Statements {
			out = append(out, &ir1.Statement{
				Pattern: renamePattern(cst.Pattern, renamed),
				Expr:    substitute(cst.Expr, ctx, gen),
				Pos:     cst.Pos,
			})
		}

		output := calleeUnit.Output
		if fresh, ok := renamed[output]; ok {
			output = fresh
		}
		ref := &ir1.Ident{Node: ir1.Node{NodeID: gen.Fresh(), Pos: st.Pos}, ID: output}
		if t := st.Expr.Typing(); t != nil {
			ref.SetTyping(t)
		}
		st.Expr = ref
		out = append(out, st)
	}
	return out
}

// renameCalleeLocals mints a fresh id, bound in callerComp's scope, for
// every signal calleeUnit's body defines — the callee's own output and any
// intermediate locals its unitary variant still carries. gen's counter
// disambiguates the synthetic name itself, since the same callee can be
// inlined more than once into one caller.
func renameCalleeLocals(calleeUnit *ir1.UnitaryComponent, syms *symtab.SymbolTable, callerComp symtab.ID, gen *ir1.IDGen) map[symtab.ID]symtab.ID {
	renamed := map[symtab.ID]symtab.ID{}
	for _, cst := range calleeUnit.Statements {
		for _, id := range cst.DefinedIDs() {
			if _, ok := renamed[id]; ok {
				continue
			}
			sym := syms.Get(id)
			name := fmt.Sprintf("__inline_%s_%d", sym.Name, gen.Fresh())
			fresh, err := syms.FreshIn(callerComp, name, sym.Kind, sym.Loc)
			if err != nil {
				panic(fmt.Sprintf("internal: inline rename collision for %q: %v", name, err))
			}
			renamed[id] = fresh
		}
	}
	return renamed
}

// renamePattern rewrites every id renamed binds to its fresh id, leaving
// anything not in renamed untouched.
func renamePattern(p ir1.Pattern, renamed map[symtab.ID]symtab.ID) ir1.Pattern {
	switch pt := p.(type) {
	case *ir1.IdentPattern:
		if fresh, ok := renamed[pt.ID]; ok {
			return &ir1.IdentPattern{ID: fresh}
		}
		return pt
	case *ir1.TuplePattern:
		elems := make([]ir1.Pattern, len(pt.Elems))
		for i, e := range pt.Elems {
			elems[i] = renamePattern(e, renamed)
		}
		return &ir1.TuplePattern{Elems: elems}
	case *ir1.SomePattern:
		return &ir1.SomePattern{Inner: renamePattern(pt.Inner, renamed)}
	default:
		return p
	}
}

// isShiftedLoop reports whether st's pattern binds an id that also
// appears as one of ca's argument values — the syntactic signature of a
// shifted causality loop (spec.md §4.6.2).
func isShiftedLoop(st *ir1.Statement, ca *ir1.ComponentApply) bool {
	defined := st.DefinedIDs()
	for _, arg := range ca.Inputs {
		id, ok := arg.Value.(*ir1.Ident)
		if !ok {
			continue
		}
		for _, y := range defined {
			if id.ID == y {
				return true
			}
		}
	}
	return false
}
