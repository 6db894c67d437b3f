package lower

import (
	"github.com/grust-lang/grustc-core/internal/ast"
	"github.com/grust-lang/grustc-core/internal/errors"
	"github.com/grust-lang/grustc-core/internal/ir1"
	"github.com/grust-lang/grustc-core/internal/symtab"
)

// lowerPattern mints a fresh signal for every leaf binder and binds it
// into the active scope so later statements in the same component can
// resolve it by name. scope classifies the minted signals (Local for an
// ordinary `let`, VeryLocal for names introduced only to destructure an
// event, per spec.md §4.2's event-pattern lowering).
func (l *Lowerer) lowerPattern(p ast.Pattern, scope symtab.SignalScope) ir1.Pattern {
	switch pt := p.(type) {
	case *ast.Ident:
		return l.bindLeaf(pt.Name, nil, scope, pt.Pos)
	case *ast.TypedIdent:
		return l.bindLeaf(pt.Name, pt.Type, scope, pt.Pos)
	case *ast.TuplePattern:
		elems := make([]ir1.Pattern, len(pt.Elems))
		for i, e := range pt.Elems {
			elems[i] = l.lowerPattern(e, scope)
		}
		return &ir1.TuplePattern{Elems: elems}
	case *ast.SomePattern:
		// The inner binder only ever holds a value on ticks where the
		// outer event is present, so it is VeryLocal regardless of the
		// scope the Some() pattern itself was lowered under.
		return &ir1.SomePattern{Inner: l.lowerPattern(pt.Inner, symtab.ScopeVeryLocal)}
	case *ast.NonePattern:
		return &ir1.NonePattern{}
	default:
		return &ir1.IdentPattern{ID: symtab.NoID}
	}
}

// lowerStatementPattern lowers the pattern of a component/function-body
// statement. Unlike an event payload's destructuring pattern, a
// statement's leaf identifiers may name an already-declared output
// signal — the statement is that signal's defining equation, not a fresh
// binding — so every plain or typed leaf first checks the component's
// own scope before minting a new id.
func (l *Lowerer) lowerStatementPattern(p ast.Pattern) ir1.Pattern {
	switch pt := p.(type) {
	case *ast.Ident:
		return l.reuseOrBind(pt.Name, nil, pt.Pos)
	case *ast.TypedIdent:
		return l.reuseOrBind(pt.Name, pt.Type, pt.Pos)
	case *ast.TuplePattern:
		elems := make([]ir1.Pattern, len(pt.Elems))
		for i, e := range pt.Elems {
			elems[i] = l.lowerStatementPattern(e)
		}
		return &ir1.TuplePattern{Elems: elems}
	default:
		// Some(...)/None patterns destructure an event payload and
		// always introduce fresh VeryLocal bindings, never reuse.
		return l.lowerPattern(p, symtab.ScopeVeryLocal)
	}
}

func (l *Lowerer) reuseOrBind(name string, te ast.TypeExpr, pos ast.Pos) ir1.Pattern {
	if id, ok := l.syms.LookupLocal(name); ok {
		if te != nil {
			l.syms.SetType(id, l.resolveType(te))
		}
		return &ir1.IdentPattern{ID: id}
	}
	return l.bindLeaf(name, te, symtab.ScopeLocal, pos)
}

func (l *Lowerer) bindLeaf(name string, te ast.TypeExpr, scope symtab.SignalScope, pos ast.Pos) ir1.Pattern {
	id, err := l.syms.Fresh(name, symtab.KindSignal, pos)
	if err != nil {
		l.redeclared(name, pos, err)
		return &ir1.IdentPattern{ID: symtab.NoID}
	}
	l.syms.Get(id).SignalScope = scope
	if te != nil {
		l.syms.SetType(id, l.resolveType(te))
	}
	return &ir1.IdentPattern{ID: id}
}

// resolveIdent looks up name in the active scope, recording
// KindUnknownIdentifier and returning symtab.NoID on failure so the
// caller can build a poison node and keep lowering (spec.md §7).
func (l *Lowerer) resolveIdent(name string, pos ast.Pos) symtab.ID {
	if id, ok := l.syms.Lookup(name); ok {
		return id
	}
	l.bag.Add(errors.New(errors.KindUnknownIdentifier, l.loc(pos), "unknown identifier "+name))
	return symtab.NoID
}
