package normalize

import (
	"fmt"

	"github.com/grust-lang/grustc-core/internal/ast"
	"github.com/grust-lang/grustc-core/internal/gtypes"
	"github.com/grust-lang/grustc-core/internal/ir1"
	"github.com/grust-lang/grustc-core/internal/symtab"
)

// MemorizeLocal implements the local half of spec.md §4.6.3: every
// FollowedBy becomes a Buffer read, and every RisingEdge is expanded into
// `arg && !(false fby arg)` and memorized in turn. Grounded on the
// Buffer/Memory shapes already declared in internal/ir1/component.go
// (themselves grounded on original_source's normalizing/memorize/*).
func MemorizeLocal(file *ir1.File, syms *symtab.SymbolTable, gen *ir1.IDGen) {
	for _, comp := range file.Components {
		for _, uc := range comp.Unitary {
			memorizeUnitary(uc, syms, gen)
		}
	}
}

func memorizeUnitary(uc *ir1.UnitaryComponent, syms *symtab.SymbolTable, gen *ir1.IDGen) {
	if uc.Memory == nil {
		uc.Memory = ir1.NewMemory()
	}
	var out []*ir1.Statement
	for _, st := range uc.Statements {
		y := primaryDefinedID(st)
		var pre []*ir1.Statement
		st.Expr = memorizeExpr(y, st.Expr, syms, gen, uc.Memory, &pre)
		out = append(out, pre...)
		out = append(out, st)
	}
	uc.Statements = out
}

func memorizeExpr(y symtab.ID, e ir1.Expr, syms *symtab.SymbolTable, gen *ir1.IDGen, mem *ir1.Memory, pre *[]*ir1.Statement) ir1.Expr {
	switch ex := e.(type) {
	case *ir1.FollowedBy:
		ex.Init = memorizeExpr(y, ex.Init, syms, gen, mem, pre)
		return memorizeFollowedBy(y, ex, syms, gen, mem)
	case *ir1.RisingEdge:
		ex.Arg = memorizeExpr(y, ex.Arg, syms, gen, mem, pre)
		return expandRisingEdge(y, ex, syms, gen, mem, pre)
	case *ir1.Unop:
		ex.Arg = memorizeExpr(y, ex.Arg, syms, gen, mem, pre)
		return ex
	case *ir1.Binop:
		ex.Left = memorizeExpr(y, ex.Left, syms, gen, mem, pre)
		ex.Right = memorizeExpr(y, ex.Right, syms, gen, mem, pre)
		return ex
	case *ir1.IfThenElse:
		ex.Cond = memorizeExpr(y, ex.Cond, syms, gen, mem, pre)
		ex.Then = memorizeExpr(y, ex.Then, syms, gen, mem, pre)
		ex.Else = memorizeExpr(y, ex.Else, syms, gen, mem, pre)
		return ex
	case *ir1.Application:
		for i, a := range ex.Args {
			ex.Args[i] = memorizeExpr(y, a, syms, gen, mem, pre)
		}
		return ex
	case *ir1.Array:
		for i, el := range ex.Elems {
			ex.Elems[i] = memorizeExpr(y, el, syms, gen, mem, pre)
		}
		return ex
	case *ir1.Tuple:
		for i, el := range ex.Elems {
			ex.Elems[i] = memorizeExpr(y, el, syms, gen, mem, pre)
		}
		return ex
	case *ir1.TupleElem:
		ex.Tuple = memorizeExpr(y, ex.Tuple, syms, gen, mem, pre)
		return ex
	case *ir1.FieldAccess:
		ex.Struct = memorizeExpr(y, ex.Struct, syms, gen, mem, pre)
		return ex
	case *ir1.Structure:
		for i, f := range ex.Fields {
			ex.Fields[i].Value = memorizeExpr(y, f.Value, syms, gen, mem, pre)
		}
		return ex
	case *ir1.Map:
		ex.Arr = memorizeExpr(y, ex.Arr, syms, gen, mem, pre)
		ex.Fn = memorizeExpr(y, ex.Fn, syms, gen, mem, pre)
		return ex
	case *ir1.Sort:
		ex.Arr = memorizeExpr(y, ex.Arr, syms, gen, mem, pre)
		ex.Cmp = memorizeExpr(y, ex.Cmp, syms, gen, mem, pre)
		return ex
	case *ir1.Fold:
		ex.Init = memorizeExpr(y, ex.Init, syms, gen, mem, pre)
		ex.Step = memorizeExpr(y, ex.Step, syms, gen, mem, pre)
		ex.Arr = memorizeExpr(y, ex.Arr, syms, gen, mem, pre)
		return ex
	case *ir1.Zip:
		for i, a := range ex.Arrs {
			ex.Arrs[i] = memorizeExpr(y, a, syms, gen, mem, pre)
		}
		return ex
	case *ir1.When:
		ex.Opt = memorizeExpr(y, ex.Opt, syms, gen, mem, pre)
		ex.Present = memorizeExpr(y, ex.Present, syms, gen, mem, pre)
		ex.Default = memorizeExpr(y, ex.Default, syms, gen, mem, pre)
		return ex
	case *ir1.Pure:
		ex.Inner = memorizeExpr(y, ex.Inner, syms, gen, mem, pre)
		return ex
	case *ir1.SomeEvent:
		ex.Inner = memorizeExpr(y, ex.Inner, syms, gen, mem, pre)
		return ex
	case *ir1.ComponentApply:
		for i, a := range ex.Inputs {
			ex.Inputs[i].Value = memorizeExpr(y, a.Value, syms, gen, mem, pre)
		}
		return ex
	default:
		return ex
	}
}

// memorizeFollowedBy registers a buffer for fb, keyed by a fresh memory id
// named after y (the statement that reads it this step), and returns the
// Ident that reads the buffer's current value.
func memorizeFollowedBy(y symtab.ID, fb *ir1.FollowedBy, syms *symtab.SymbolTable, gen *ir1.IDGen, mem *ir1.Memory) ir1.Expr {
	memID := mintMemory(syms, y, symtab.KindMemoryBuffer, fb.Position())
	if t := fb.Typing(); t != nil {
		syms.SetType(memID, t)
	}
	mem.Buffers[memID] = &ir1.Buffer{Init: fb.Init, Target: fb.Next}

	ref := &ir1.Ident{Node: ir1.Node{NodeID: gen.Fresh(), Pos: fb.Position()}, ID: memID}
	if t := fb.Typing(); t != nil {
		ref.SetTyping(t)
	}
	return ref
}

// expandRisingEdge rewrites `rising(arg)` into `arg && !(false fby arg)`
// and memorizes the inner fby immediately (spec.md §4.6.3, ir1.RisingEdge
// doc comment). fby's Next field is a bare identifier, so an arg that
// isn't already one is first bound to a fresh local via a statement
// appended to pre.
func expandRisingEdge(y symtab.ID, re *ir1.RisingEdge, syms *symtab.SymbolTable, gen *ir1.IDGen, mem *ir1.Memory, pre *[]*ir1.Statement) ir1.Expr {
	argID := identOf(re.Arg, syms, gen, pre, re.Position())

	fb := &ir1.FollowedBy{Node: ir1.Node{NodeID: gen.Fresh(), Pos: re.Position()}, Init: boolConst(false, gen, re.Position()), Next: argID}
	fb.SetTyping(gtypes.Bool{})
	buffered := memorizeFollowedBy(y, fb, syms, gen, mem)

	notBuffered := &ir1.Unop{Node: ir1.Node{NodeID: gen.Fresh(), Pos: re.Position()}, Op: ir1.OpNot, Arg: buffered}
	notBuffered.SetTyping(gtypes.Bool{})

	argRef := &ir1.Ident{Node: ir1.Node{NodeID: gen.Fresh(), Pos: re.Position()}, ID: argID}
	argRef.SetTyping(gtypes.Bool{})

	result := &ir1.Binop{Node: ir1.Node{NodeID: gen.Fresh(), Pos: re.Position()}, Op: ir1.OpAnd, Left: argRef, Right: notBuffered}
	result.SetTyping(gtypes.Bool{})
	return result
}

func identOf(e ir1.Expr, syms *symtab.SymbolTable, gen *ir1.IDGen, pre *[]*ir1.Statement, pos ast.Pos) symtab.ID {
	if id, ok := e.(*ir1.Ident); ok {
		return id.ID
	}
	name := fmt.Sprintf("__edge_%d", gen.Fresh())
	id, err := syms.Fresh(name, symtab.KindSignal, pos)
	if err != nil {
		panic(fmt.Sprintf("internal: synthetic rising-edge name collision for %q: %v", name, err))
	}
	if t := e.Typing(); t != nil {
		syms.SetType(id, t)
	}
	*pre = append(*pre, &ir1.Statement{Pattern: &ir1.IdentPattern{ID: id}, Expr: e, Pos: pos})
	return id
}

func boolConst(v bool, gen *ir1.IDGen, pos ast.Pos) ir1.Expr {
	c := &ir1.Const{Node: ir1.Node{NodeID: gen.Fresh(), Pos: pos}, Kind: ir1.ConstBool, Bool: v}
	c.SetTyping(gtypes.Bool{})
	return c
}

// MemorizeCalls implements the cross-component half of spec.md §4.6.3: a
// ComponentApply whose callee has any memory of its own (buffers or
// further called components) is not pure, and gets its own memory id
// recording which nested component state it owns. Components are visited
// callee-first so a caller sees its callees' already-finalized Memory
// (causality guarantees the call graph is acyclic, per internal/causality).
func MemorizeCalls(file *ir1.File, byID map[symtab.ID]*ir1.Component, syms *symtab.SymbolTable) {
	for _, comp := range calleeFirstOrder(file) {
		for _, uc := range comp.Unitary {
			for _, st := range uc.Statements {
				ca, ok := st.Expr.(*ir1.ComponentApply)
				if !ok {
					continue
				}
				callee := byID[ca.Component]
				if callee == nil {
					continue
				}
				calleeUnit := callee.Unitary[ca.SelectedOutput]
				if calleeUnit == nil || calleeUnit.Memory == nil {
					continue
				}
				if len(calleeUnit.Memory.Buffers) == 0 && len(calleeUnit.Memory.CalledComponent) == 0 {
					continue
				}
				y := primaryDefinedID(st)
				memID := mintMemory(syms, y, symtab.KindMemoryCalledComponent, st.Pos)
				syms.Get(memID).Memory.CalledComponent = ca.Component
				if uc.Memory == nil {
					uc.Memory = ir1.NewMemory()
				}
				uc.Memory.CalledComponent[memID] = ca.Component
				ca.Memory = memID
			}
		}
	}
}

// calleeFirstOrder returns file's components in DFS postorder over the
// component-application call graph: every callee appears before its
// callers. A cycle (which causality should already have rejected) cannot
// make this loop forever, since a node already on the stack is simply not
// revisited.
func calleeFirstOrder(file *ir1.File) []*ir1.Component {
	byID := make(map[symtab.ID]*ir1.Component, len(file.Components))
	for _, c := range file.Components {
		byID[c.ID] = c
	}
	visited := map[symtab.ID]bool{}
	var order []*ir1.Component
	var visit func(*ir1.Component)
	visit = func(c *ir1.Component) {
		if c == nil || visited[c.ID] {
			return
		}
		visited[c.ID] = true
		for _, callee := range collectCallees(c) {
			visit(byID[callee])
		}
		order = append(order, c)
	}
	for _, c := range file.Components {
		visit(c)
	}
	return order
}

func collectCallees(comp *ir1.Component) []symtab.ID {
	var out []symtab.ID
	var walk func(ir1.Expr)
	walk = func(e ir1.Expr) {
		if ca, ok := e.(*ir1.ComponentApply); ok {
			out = append(out, ca.Component)
		}
		for _, child := range children(e) {
			walk(child)
		}
	}
	for _, st := range comp.Statements {
		walk(st.Expr)
	}
	return out
}
