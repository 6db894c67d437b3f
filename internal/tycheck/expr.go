package tycheck

import (
	"fmt"

	"github.com/grust-lang/grustc-core/internal/ast"
	"github.com/grust-lang/grustc-core/internal/errors"
	"github.com/grust-lang/grustc-core/internal/gtypes"
	"github.com/grust-lang/grustc-core/internal/ir1"
	"github.com/grust-lang/grustc-core/internal/symtab"
)

// checkExpr assigns e's typing slot and returns the resolved type. hint
// carries the type expected by the surrounding context (a statement's
// declared pattern, an if-branch's sibling, ...); most cases ignore it,
// the genuinely ambiguous ones (NoneEvent) depend on it.
func (c *Checker) checkExpr(e ir1.Expr, hint gtypes.Typ) gtypes.Typ {
	var t gtypes.Typ
	switch ex := e.(type) {
	case *ir1.Const:
		t = c.checkConst(ex)
	case *ir1.Ident:
		t = c.checkIdent(ex)
	case *ir1.Unop:
		t = c.checkUnop(ex)
	case *ir1.Binop:
		t = c.checkBinop(ex)
	case *ir1.IfThenElse:
		t = c.checkIfThenElse(ex, hint)
	case *ir1.Application:
		t = c.checkApplication(ex)
	case *ir1.Array:
		t = c.checkArray(ex)
	case *ir1.Tuple:
		t = c.checkTuple(ex)
	case *ir1.TupleElem:
		t = c.checkTupleElem(ex)
	case *ir1.FieldAccess:
		t = c.checkFieldAccess(ex)
	case *ir1.Structure:
		t = c.checkStructure(ex)
	case *ir1.Enumeration:
		t = c.checkEnumeration(ex)
	case *ir1.Map:
		t = c.checkMap(ex)
	case *ir1.Sort:
		t = c.checkSort(ex)
	case *ir1.Fold:
		t = c.checkFold(ex)
	case *ir1.Zip:
		t = c.checkZip(ex)
	case *ir1.When:
		t = c.checkWhen(ex, hint)
	case *ir1.Pure:
		t = c.checkExpr(ex.Inner, hint)
	case *ir1.FollowedBy:
		t = c.checkFollowedBy(ex, hint)
	case *ir1.SomeEvent:
		t = c.checkSomeEvent(ex, hint)
	case *ir1.NoneEvent:
		t = c.checkNoneEvent(ex, hint)
	case *ir1.RisingEdge:
		t = c.checkRisingEdge(ex)
	case *ir1.ComponentApply:
		t = c.checkComponentApply(ex)
	default:
		t = gtypes.Unresolved{}
	}
	if node, ok := e.(interface{ SetTyping(gtypes.Typ) }); ok {
		node.SetTyping(t)
	}
	return t
}

func (c *Checker) checkConst(ex *ir1.Const) gtypes.Typ {
	switch ex.Kind {
	case ir1.ConstInt:
		return gtypes.Int{}
	case ir1.ConstFloat:
		return gtypes.Float{}
	case ir1.ConstBool:
		return gtypes.Bool{}
	default:
		return gtypes.Unit{}
	}
}

func (c *Checker) checkIdent(ex *ir1.Ident) gtypes.Typ {
	if ex.ID == symtab.NoID {
		return gtypes.Unresolved{}
	}
	if t := c.syms.GetType(ex.ID); t != nil {
		return t
	}
	sym := c.syms.Get(ex.ID)
	if sym != nil && sym.Kind == symtab.KindFunction && sym.Function != nil {
		return functionType(sym.Function, c.syms)
	}
	return gtypes.Unresolved{}
}

func (c *Checker) checkUnop(ex *ir1.Unop) gtypes.Typ {
	arg := c.checkExpr(ex.Arg, nil)
	if isPoisoned(arg) {
		return gtypes.Unresolved{}
	}
	switch ex.Op {
	case ir1.OpNeg:
		switch arg.(type) {
		case gtypes.Int, gtypes.Float:
			return arg
		default:
			c.expectArith(ex.Arg.Position(), arg)
			return gtypes.Unresolved{}
		}
	case ir1.OpNot:
		if _, ok := arg.(gtypes.Bool); !ok {
			c.incompatible(ex.Position(), gtypes.Bool{}, arg)
			return gtypes.Unresolved{}
		}
		return gtypes.Bool{}
	default:
		return gtypes.Unresolved{}
	}
}

func (c *Checker) checkBinop(ex *ir1.Binop) gtypes.Typ {
	left := c.checkExpr(ex.Left, nil)
	right := c.checkExpr(ex.Right, left)
	if isPoisoned(left) || isPoisoned(right) {
		return gtypes.Unresolved{}
	}
	switch ex.Op {
	case ir1.OpAdd, ir1.OpSub, ir1.OpMul, ir1.OpDiv:
		if !isArith(left) {
			c.expectArith(ex.Left.Position(), left)
			return gtypes.Unresolved{}
		}
		if !gtypes.Equal(left, right) {
			c.incompatible(ex.Right.Position(), left, right)
			return gtypes.Unresolved{}
		}
		return left
	case ir1.OpLt, ir1.OpLte, ir1.OpGt, ir1.OpGte:
		if !isArith(left) {
			c.expectArith(ex.Left.Position(), left)
			return gtypes.Unresolved{}
		}
		if !gtypes.Equal(left, right) {
			c.incompatible(ex.Right.Position(), left, right)
		}
		return gtypes.Bool{}
	case ir1.OpEq, ir1.OpNeq:
		if !gtypes.Equal(left, right) {
			c.incompatible(ex.Right.Position(), left, right)
		}
		return gtypes.Bool{}
	case ir1.OpAnd, ir1.OpOr:
		if _, ok := left.(gtypes.Bool); !ok {
			c.incompatible(ex.Left.Position(), gtypes.Bool{}, left)
		}
		if _, ok := right.(gtypes.Bool); !ok {
			c.incompatible(ex.Right.Position(), gtypes.Bool{}, right)
		}
		return gtypes.Bool{}
	default:
		return gtypes.Unresolved{}
	}
}

func isArith(t gtypes.Typ) bool {
	switch t.(type) {
	case gtypes.Int, gtypes.Float:
		return true
	default:
		return false
	}
}

func (c *Checker) expectArith(pos ast.Pos, got gtypes.Typ) {
	c.bag.Add(errors.New(errors.KindExpectArith, c.loc(pos),
		fmt.Sprintf("expected Int or Float, got %s", got)))
}

func (c *Checker) checkIfThenElse(ex *ir1.IfThenElse, hint gtypes.Typ) gtypes.Typ {
	cond := c.checkExpr(ex.Cond, gtypes.Bool{})
	if _, ok := cond.(gtypes.Bool); !ok && !isPoisoned(cond) {
		c.incompatible(ex.Cond.Position(), gtypes.Bool{}, cond)
	}
	then := c.checkExpr(ex.Then, hint)
	els := c.checkExpr(ex.Else, then)
	if isPoisoned(then) {
		return els
	}
	if isPoisoned(els) {
		return then
	}
	if !gtypes.Equal(then, els) {
		c.incompatible(ex.Else.Position(), then, els)
	}
	return then
}

func (c *Checker) checkApplication(ex *ir1.Application) gtypes.Typ {
	sym := c.syms.Get(ex.Fn)
	if sym == nil || sym.Function == nil {
		return gtypes.Unresolved{}
	}
	info := sym.Function
	if len(ex.Args) != len(info.Inputs) {
		c.bag.Add(c.arityMismatch(ex.Position(), len(info.Inputs), len(ex.Args)))
	}
	for i, arg := range ex.Args {
		var want gtypes.Typ
		if i < len(info.Inputs) {
			want = c.syms.GetType(info.Inputs[i])
		}
		got := c.checkExpr(arg, want)
		if want != nil && !isPoisoned(got) && !gtypes.Equal(want, got) {
			c.incompatible(arg.Position(), want, got)
		}
	}
	return info.Output
}
