// Package tycheck implements the bottom-up type checker of spec.md §4.3:
// every expression node's typing slot is filled exactly once, GRust's
// closed type system needs no unification, so checking an already-
// resolved ir1 tree is a single downward walk consulting the symbol
// table lowering populated. Shape is grounded on
// sunholo-data-ailang/internal/types/typechecker.go's TypeChecker
// (CheckProgram walking declarations against a threaded environment,
// collecting *TypeCheckError instead of stopping at the first one),
// generalised from Hindley-Milner inference to straightforward
// structural type checking since GRust has no polymorphism to solve for.
package tycheck

import (
	"fmt"

	"github.com/grust-lang/grustc-core/internal/ast"
	"github.com/grust-lang/grustc-core/internal/errors"
	"github.com/grust-lang/grustc-core/internal/gtypes"
	"github.com/grust-lang/grustc-core/internal/ir1"
	"github.com/grust-lang/grustc-core/internal/symtab"
)

// Checker threads the populated symbol table and the diagnostic bag
// through every node visit.
type Checker struct {
	syms *symtab.SymbolTable
	bag  *errors.Bag
}

// Check type-checks every function, component, and service flow in file,
// resolving ir1.FieldAccess.Field along the way, and returns the
// diagnostics collected.
func Check(file *ir1.File, syms *symtab.SymbolTable) *errors.Bag {
	c := &Checker{syms: syms, bag: errors.NewBag()}
	for _, fn := range file.Functions {
		c.checkFunction(fn)
	}
	for _, comp := range file.Components {
		c.checkComponent(comp)
	}
	if file.Service != nil {
		c.checkService(file.Service)
	}
	return c.bag
}

func (c *Checker) checkFunction(fn *ir1.Function) {
	sym := c.syms.Get(fn.ID)
	if sym == nil || sym.Function == nil {
		return
	}
	got := c.checkExpr(fn.Body, sym.Function.Output)
	if sym.Function.Output != nil && !isPoisoned(got) && !gtypes.Equal(got, sym.Function.Output) {
		c.incompatible(fn.Body.Position(), sym.Function.Output, got)
	}
}

func (c *Checker) checkComponent(comp *ir1.Component) {
	for _, st := range comp.Statements {
		c.checkStatement(st)
	}
	for _, clause := range comp.Contract {
		got := c.checkExpr(clause, gtypes.Bool{})
		if _, ok := got.(gtypes.Bool); !ok {
			if _, unresolved := got.(gtypes.Unresolved); !unresolved {
				c.incompatible(clause.Position(), gtypes.Bool{}, got)
			}
		}
	}
}

// checkStatement checks the RHS, using the pattern's already-declared
// type (an output or a typed local) as a hint, then checks the pattern
// against the result so every untyped local picks up its type here.
func (c *Checker) checkStatement(s *ir1.Statement) {
	hint := c.patternHint(s.Pattern)
	got := c.checkExpr(s.Expr, hint)
	c.checkPattern(s.Pattern, got)
}

func (c *Checker) checkService(svc *ir1.Service) {
	for _, fs := range svc.Flows {
		c.checkFlow(fs.Flow)
		c.checkPattern(fs.Pattern, nil)
	}
}

func (c *Checker) checkFlow(f ir1.FlowExpr) {
	switch fl := f.(type) {
	case *ir1.FlowComponentApply:
		info := c.syms.Get(fl.Component)
		if info == nil || info.Component == nil {
			return
		}
		for _, arg := range fl.Inputs {
			c.checkExpr(arg.Value, c.syms.GetType(arg.Input))
		}
	case *ir1.FlowOp:
		c.checkFlow(fl.Source)
		if fl.Other != nil {
			c.checkFlow(fl.Other)
		}
	case *ir1.FlowIdent:
		// already resolved by lowering; nothing further to check here.
	}
}

// patternHint returns the declared type already bound to a leaf pattern's
// id, if any, so the RHS can be checked against it instead of resolved
// from scratch.
func (c *Checker) patternHint(p ir1.Pattern) gtypes.Typ {
	switch pt := p.(type) {
	case *ir1.IdentPattern:
		return c.syms.GetType(pt.ID)
	default:
		return nil
	}
}

func (c *Checker) loc(p ast.Pos) errors.Location {
	return errors.Location{FileID: 0, Start: p.Offset, End: p.Offset}
}

func (c *Checker) incompatible(pos ast.Pos, expected, got gtypes.Typ) {
	c.bag.Add(errors.New(errors.KindIncompatibleTypes, c.loc(pos),
		fmt.Sprintf("expected %s, got %s", expected, got)).
		WithData("expected", expected.String()).
		WithData("got", got.String()))
}

func (c *Checker) arityMismatch(pos ast.Pos, want, got int) *errors.Error {
	return errors.New(errors.KindArityMismatch, c.loc(pos),
		fmt.Sprintf("expected %d argument(s), got %d", want, got))
}

// isPoisoned reports whether t stands in for an already-reported failure,
// so a dependent check doesn't cascade a second diagnostic off the first.
func isPoisoned(t gtypes.Typ) bool {
	_, ok := t.(gtypes.Unresolved)
	return ok || t == nil
}

func (c *Checker) expectOption(e ir1.Expr, t gtypes.Typ) (gtypes.Option, bool) {
	opt, ok := t.(gtypes.Option)
	if !ok && !isPoisoned(t) {
		c.bag.Add(errors.New(errors.KindExpectOption, c.loc(e.Position()),
			fmt.Sprintf("expected an event (T?), got %s", t)))
	}
	return opt, ok
}

func functionType(info *symtab.FunctionInfo, syms *symtab.SymbolTable) gtypes.Function {
	params := make([]gtypes.Typ, len(info.Inputs))
	for i, pid := range info.Inputs {
		params[i] = syms.GetType(pid)
	}
	return gtypes.Function{Params: params, Result: info.Output}
}
