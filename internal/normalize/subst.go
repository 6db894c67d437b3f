package normalize

import (
	"github.com/grust-lang/grustc-core/internal/gtypes"
	"github.com/grust-lang/grustc-core/internal/ir1"
	"github.com/grust-lang/grustc-core/internal/symtab"
)

// substitute rebuilds e with every Ident bound in ctx replaced by its
// mapped expression, minting fresh node ids from gen so the copy never
// aliases the original tree. This is the expression-tree analogue of
// original_source's Dependencies::replace_by_context (inlining/
// dependencies.rs), which substitutes through a dependency set instead of
// an expression tree; here the caller's argument values take the place of
// that context map.
func substitute(e ir1.Expr, ctx map[symtab.ID]ir1.Expr, gen *ir1.IDGen) ir1.Expr {
	if e == nil {
		return nil
	}
	if id, ok := e.(*ir1.Ident); ok {
		if repl, ok := ctx[id.ID]; ok {
			return repl
		}
	}
	result := substituteChildren(e, ctx, gen)
	if t := e.Typing(); t != nil {
		if setter, ok := result.(interface{ SetTyping(gtypes.Typ) }); ok {
			setter.SetTyping(t)
		}
	}
	return result
}

func substituteChildren(e ir1.Expr, ctx map[symtab.ID]ir1.Expr, gen *ir1.IDGen) ir1.Expr {
	fresh := ir1.Node{NodeID: gen.Fresh(), Pos: e.Position()}
	switch ex := e.(type) {
	case *ir1.Ident:
		return &ir1.Ident{Node: fresh, ID: ex.ID}
	case *ir1.Const:
		return &ir1.Const{Node: fresh, Kind: ex.Kind, Int: ex.Int, Float: ex.Float, Bool: ex.Bool}
	case *ir1.Unop:
		return &ir1.Unop{Node: fresh, Op: ex.Op, Arg: substitute(ex.Arg, ctx, gen)}
	case *ir1.Binop:
		return &ir1.Binop{Node: fresh, Op: ex.Op, Left: substitute(ex.Left, ctx, gen), Right: substitute(ex.Right, ctx, gen)}
	case *ir1.IfThenElse:
		return &ir1.IfThenElse{Node: fresh, Cond: substitute(ex.Cond, ctx, gen), Then: substitute(ex.Then, ctx, gen), Else: substitute(ex.Else, ctx, gen)}
	case *ir1.Application:
		args := make([]ir1.Expr, len(ex.Args))
		for i, a := range ex.Args {
			args[i] = substitute(a, ctx, gen)
		}
		return &ir1.Application{Node: fresh, Fn: ex.Fn, Args: args}
	case *ir1.Array:
		elems := make([]ir1.Expr, len(ex.Elems))
		for i, el := range ex.Elems {
			elems[i] = substitute(el, ctx, gen)
		}
		return &ir1.Array{Node: fresh, Elems: elems}
	case *ir1.Tuple:
		elems := make([]ir1.Expr, len(ex.Elems))
		for i, el := range ex.Elems {
			elems[i] = substitute(el, ctx, gen)
		}
		return &ir1.Tuple{Node: fresh, Elems: elems}
	case *ir1.TupleElem:
		return &ir1.TupleElem{Node: fresh, Tuple: substitute(ex.Tuple, ctx, gen), Index: ex.Index}
	case *ir1.FieldAccess:
		return &ir1.FieldAccess{Node: fresh, Struct: substitute(ex.Struct, ctx, gen), FieldName: ex.FieldName, Field: ex.Field}
	case *ir1.Structure:
		fields := make([]ir1.FieldInit, len(ex.Fields))
		for i, f := range ex.Fields {
			fields[i] = ir1.FieldInit{Field: f.Field, Value: substitute(f.Value, ctx, gen)}
		}
		return &ir1.Structure{Node: fresh, Typedef: ex.Typedef, Fields: fields}
	case *ir1.Enumeration:
		return &ir1.Enumeration{Node: fresh, Enum: ex.Enum, Variant: ex.Variant}
	case *ir1.Map:
		return &ir1.Map{Node: fresh, Arr: substitute(ex.Arr, ctx, gen), Fn: substitute(ex.Fn, ctx, gen)}
	case *ir1.Sort:
		return &ir1.Sort{Node: fresh, Arr: substitute(ex.Arr, ctx, gen), Cmp: substitute(ex.Cmp, ctx, gen)}
	case *ir1.Fold:
		return &ir1.Fold{Node: fresh, Init: substitute(ex.Init, ctx, gen), Step: substitute(ex.Step, ctx, gen), Arr: substitute(ex.Arr, ctx, gen)}
	case *ir1.Zip:
		arrs := make([]ir1.Expr, len(ex.Arrs))
		for i, a := range ex.Arrs {
			arrs[i] = substitute(a, ctx, gen)
		}
		return &ir1.Zip{Node: fresh, Arrs: arrs}
	case *ir1.When:
		return &ir1.When{Node: fresh, Opt: substitute(ex.Opt, ctx, gen), Binder: ex.Binder, Present: substitute(ex.Present, ctx, gen), Default: substitute(ex.Default, ctx, gen)}
	case *ir1.Pure:
		return &ir1.Pure{Node: fresh, Inner: substitute(ex.Inner, ctx, gen)}
	case *ir1.FollowedBy:
		return &ir1.FollowedBy{Node: fresh, Init: substitute(ex.Init, ctx, gen), Next: ex.Next}
	case *ir1.SomeEvent:
		return &ir1.SomeEvent{Node: fresh, Inner: substitute(ex.Inner, ctx, gen)}
	case *ir1.NoneEvent:
		return &ir1.NoneEvent{Node: fresh}
	case *ir1.RisingEdge:
		return &ir1.RisingEdge{Node: fresh, Arg: substitute(ex.Arg, ctx, gen)}
	case *ir1.ComponentApply:
		args := make([]ir1.ComponentArg, len(ex.Inputs))
		for i, a := range ex.Inputs {
			args[i] = ir1.ComponentArg{Input: a.Input, Value: substitute(a.Value, ctx, gen)}
		}
		return &ir1.ComponentApply{Node: fresh, Component: ex.Component, Inputs: args, SelectedOutput: ex.SelectedOutput, Memory: ex.Memory}
	default:
		return e
	}
}
