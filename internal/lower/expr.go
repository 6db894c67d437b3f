package lower

import (
	"github.com/grust-lang/grustc-core/internal/ast"
	"github.com/grust-lang/grustc-core/internal/ir1"
	"github.com/grust-lang/grustc-core/internal/symtab"
)

func (l *Lowerer) node(pos ast.Pos) ir1.Node {
	return ir1.Node{NodeID: l.ids.Fresh(), Pos: pos}
}

// lowerExpr dispatches over every pure and stream expression form. Stream
// forms (fby, rising edge, component application, event literals) lower
// unchanged into their ir1 counterparts; memorisation (spec.md §4.6.3) is
// the pass responsible for eliminating them, not lowering.
func (l *Lowerer) lowerExpr(e ast.Expr) ir1.Expr {
	switch ex := e.(type) {
	case *ast.Literal:
		return l.lowerLiteral(ex)
	case *ast.Ident:
		return &ir1.Ident{Node: l.node(ex.Pos), ID: l.resolveIdent(ex.Name, ex.Pos)}
	case *ast.Unop:
		return &ir1.Unop{Node: l.node(ex.Pos), Op: ir1.UnOp(ex.Op), Arg: l.lowerExpr(ex.Expr)}
	case *ast.Binop:
		return &ir1.Binop{Node: l.node(ex.Pos), Op: ir1.BinOp(ex.Op), Left: l.lowerExpr(ex.Left), Right: l.lowerExpr(ex.Right)}
	case *ast.IfThenElse:
		return &ir1.IfThenElse{Node: l.node(ex.Pos), Cond: l.lowerExpr(ex.Cond), Then: l.lowerExpr(ex.Then), Else: l.lowerExpr(ex.Else)}
	case *ast.Application:
		fnID := symtab.NoID
		if id, ok := ex.Fn.(*ast.Ident); ok {
			fnID = l.resolveIdent(id.Name, id.Pos)
		}
		args := make([]ir1.Expr, len(ex.Args))
		for i, a := range ex.Args {
			args[i] = l.lowerExpr(a)
		}
		return &ir1.Application{Node: l.node(ex.Pos), Fn: fnID, Args: args}
	case *ast.Array:
		elems := make([]ir1.Expr, len(ex.Elems))
		for i, el := range ex.Elems {
			elems[i] = l.lowerExpr(el)
		}
		return &ir1.Array{Node: l.node(ex.Pos), Elems: elems}
	case *ast.Tuple:
		elems := make([]ir1.Expr, len(ex.Elems))
		for i, el := range ex.Elems {
			elems[i] = l.lowerExpr(el)
		}
		return &ir1.Tuple{Node: l.node(ex.Pos), Elems: elems}
	case *ast.TupleElem:
		return &ir1.TupleElem{Node: l.node(ex.Pos), Tuple: l.lowerExpr(ex.Tuple), Index: ex.Index}
	case *ast.FieldAccess:
		return &ir1.FieldAccess{Node: l.node(ex.Pos), Struct: l.lowerExpr(ex.Struct), FieldName: ex.Field}
	case *ast.Structure:
		return l.lowerStructure(ex)
	case *ast.Enumeration:
		return &ir1.Enumeration{Node: l.node(ex.Pos), Enum: l.tyID[ex.Enum], Variant: ex.Variant}
	case *ast.Map:
		return &ir1.Map{Node: l.node(ex.Pos), Arr: l.lowerExpr(ex.Arr), Fn: l.lowerExpr(ex.Fn)}
	case *ast.Sort:
		return &ir1.Sort{Node: l.node(ex.Pos), Arr: l.lowerExpr(ex.Arr), Cmp: l.lowerExpr(ex.Cmp)}
	case *ast.Fold:
		return &ir1.Fold{Node: l.node(ex.Pos), Init: l.lowerExpr(ex.Init), Step: l.lowerExpr(ex.Step), Arr: l.lowerExpr(ex.Arr)}
	case *ast.Zip:
		arrs := make([]ir1.Expr, len(ex.Arrs))
		for i, a := range ex.Arrs {
			arrs[i] = l.lowerExpr(a)
		}
		return &ir1.Zip{Node: l.node(ex.Pos), Arrs: arrs}
	case *ast.When:
		return l.lowerWhen(ex)
	case *ast.Pure:
		return &ir1.Pure{Node: l.node(ex.Pos), Inner: l.lowerExpr(ex.Inner)}
	case *ast.FollowedBy:
		return &ir1.FollowedBy{Node: l.node(ex.Pos), Init: l.lowerExpr(ex.Init), Next: l.resolveIdent(ex.Next.Name, ex.Next.Pos)}
	case *ast.SomeEvent:
		return &ir1.SomeEvent{Node: l.node(ex.Pos), Inner: l.lowerExpr(ex.Inner)}
	case *ast.NoneEvent:
		return &ir1.NoneEvent{Node: l.node(ex.Pos)}
	case *ast.RisingEdge:
		return &ir1.RisingEdge{Node: l.node(ex.Pos), Arg: l.lowerExpr(ex.Arg)}
	case *ast.ComponentApply:
		return l.lowerComponentApply(ex)
	default:
		return &ir1.Const{Node: l.node(e.Position()), Kind: ir1.ConstUnit}
	}
}

func (l *Lowerer) lowerLiteral(lit *ast.Literal) *ir1.Const {
	n := l.node(lit.Pos)
	switch lit.Kind {
	case ast.LitInt:
		return &ir1.Const{Node: n, Kind: ir1.ConstInt, Int: lit.Int}
	case ast.LitFloat:
		return &ir1.Const{Node: n, Kind: ir1.ConstFloat, Float: lit.Float}
	case ast.LitBool:
		return &ir1.Const{Node: n, Kind: ir1.ConstBool, Bool: lit.Bool}
	default:
		return &ir1.Const{Node: n, Kind: ir1.ConstUnit}
	}
}

func (l *Lowerer) lowerStructure(s *ast.Structure) *ir1.Structure {
	fields := make([]ir1.FieldInit, len(s.Fields))
	for i, f := range s.Fields {
		fid, ok := l.syms.Lookup(s.Typedef + "." + f.Field)
		if !ok {
			l.unknownField(s.Typedef, f.Field, s.Pos)
		}
		fields[i] = ir1.FieldInit{Field: fid, Value: l.lowerExpr(f.Value)}
	}
	return &ir1.Structure{Node: l.node(s.Pos), Typedef: l.tyID[s.Typedef], Fields: fields}
}

func (l *Lowerer) lowerWhen(w *ast.When) *ir1.When {
	n := l.node(w.Pos)
	opt := l.lowerExpr(w.Opt)
	id, err := l.syms.Fresh(w.Binder, symtab.KindSignal, w.Pos)
	if err != nil {
		l.redeclared(w.Binder, w.Pos, err)
		id = symtab.NoID
	} else {
		l.syms.Get(id).SignalScope = symtab.ScopeVeryLocal
	}
	present := l.lowerExpr(w.Present)
	def := l.lowerExpr(w.Default)
	return &ir1.When{Node: n, Opt: opt, Binder: id, Present: present, Default: def}
}

func (l *Lowerer) lowerComponentApply(c *ast.ComponentApply) *ir1.ComponentApply {
	n := l.node(c.Pos)
	compID := l.resolveIdent(c.Component, c.Pos)
	inputs := make([]ir1.ComponentArg, len(c.Inputs))
	for i, arg := range c.Inputs {
		inputID := symtab.NoID
		if id, ok := l.syms.LookupIn(compID, arg.Input); ok {
			inputID = id
		}
		inputs[i] = ir1.ComponentArg{Input: inputID, Value: l.lowerExpr(arg.Value)}
	}
	selected := symtab.NoID
	if c.SelectedOutput != "" {
		if id, ok := l.syms.LookupIn(compID, c.SelectedOutput); ok {
			selected = id
		}
	}
	return &ir1.ComponentApply{Node: n, Component: compID, Inputs: inputs, SelectedOutput: selected, Memory: symtab.NoID}
}
