package tycheck

import (
	"github.com/grust-lang/grustc-core/internal/gtypes"
	"github.com/grust-lang/grustc-core/internal/ir1"
	"github.com/grust-lang/grustc-core/internal/symtab"
)

func (c *Checker) checkFollowedBy(ex *ir1.FollowedBy, hint gtypes.Typ) gtypes.Typ {
	nextHint := c.syms.GetType(ex.Next)
	if nextHint == nil {
		nextHint = hint
	}
	init := c.checkExpr(ex.Init, nextHint)
	if ex.Next == symtab.NoID {
		return init
	}
	next := c.syms.GetType(ex.Next)
	if next == nil {
		if !isPoisoned(init) {
			c.syms.SetType(ex.Next, init)
		}
		return init
	}
	if !isPoisoned(init) && !gtypes.Equal(init, next) {
		c.incompatible(ex.Init.Position(), next, init)
	}
	return next
}

func (c *Checker) checkSomeEvent(ex *ir1.SomeEvent, hint gtypes.Typ) gtypes.Typ {
	var innerHint gtypes.Typ
	if opt, ok := hint.(gtypes.Option); ok {
		innerHint = opt.Elem
	}
	inner := c.checkExpr(ex.Inner, innerHint)
	return gtypes.Option{Elem: inner}
}

func (c *Checker) checkNoneEvent(ex *ir1.NoneEvent, hint gtypes.Typ) gtypes.Typ {
	if opt, ok := hint.(gtypes.Option); ok {
		return opt
	}
	return gtypes.Option{Elem: gtypes.Unresolved{}}
}

func (c *Checker) checkRisingEdge(ex *ir1.RisingEdge) gtypes.Typ {
	arg := c.checkExpr(ex.Arg, gtypes.Bool{})
	if _, ok := arg.(gtypes.Bool); !ok && !isPoisoned(arg) {
		c.incompatible(ex.Arg.Position(), gtypes.Bool{}, arg)
	}
	return gtypes.Bool{}
}

func (c *Checker) checkWhen(ex *ir1.When, hint gtypes.Typ) gtypes.Typ {
	optT := c.checkExpr(ex.Opt, nil)
	opt, ok := c.expectOption(ex.Opt, optT)
	if ok {
		c.syms.SetType(ex.Binder, opt.Elem)
	}
	present := c.checkExpr(ex.Present, hint)
	def := c.checkExpr(ex.Default, present)
	if isPoisoned(present) {
		return def
	}
	if isPoisoned(def) {
		return present
	}
	if !gtypes.Equal(present, def) {
		c.incompatible(ex.Default.Position(), present, def)
	}
	return present
}

func (c *Checker) checkComponentApply(ex *ir1.ComponentApply) gtypes.Typ {
	comp := c.syms.Get(ex.Component)
	if comp == nil || comp.Component == nil {
		return gtypes.Unresolved{}
	}
	for _, arg := range ex.Inputs {
		want := c.syms.GetType(arg.Input)
		got := c.checkExpr(arg.Value, want)
		if want != nil && !isPoisoned(got) && !gtypes.Equal(want, got) {
			c.incompatible(arg.Value.Position(), want, got)
		}
	}
	if ex.SelectedOutput == symtab.NoID {
		return gtypes.Unresolved{}
	}
	return c.syms.GetType(ex.SelectedOutput)
}
