package normalize

import (
	"fmt"

	"github.com/grust-lang/grustc-core/internal/ir1"
	"github.com/grust-lang/grustc-core/internal/symtab"
)

// Flatten implements spec.md §4.6.4: lift every ComponentApply so that it
// is the entire right-hand side of its own statement, and bind each of its
// argument expressions to a fresh local when it is not already a bare
// identifier. This is the only normal-form obligation this codebase's
// ir1.ComponentApply doc comment names, so flattening only touches
// ComponentApply placement and its argument atoms — arithmetic and other
// operators keep their natural nesting, unlike a full ANF pass. Grounded
// on sunholo-data-ailang/internal/elaborate/elaborate.go's "complex
// sub-expressions get let-bound" pattern and original_source's
// normalizing/normal_form/file.rs.
func Flatten(file *ir1.File, syms *symtab.SymbolTable, gen *ir1.IDGen) {
	for _, comp := range file.Components {
		for _, uc := range comp.Unitary {
			uc.Statements = flattenStatements(uc.Statements, syms, gen)
		}
	}
}

func flattenStatements(stmts []*ir1.Statement, syms *symtab.SymbolTable, gen *ir1.IDGen) []*ir1.Statement {
	var out []*ir1.Statement
	for _, st := range stmts {
		var lifted []*ir1.Statement
		st.Expr = flattenTop(st.Expr, syms, gen, &lifted)
		out = append(out, lifted...)
		out = append(out, st)
	}
	return out
}

// flattenTop flattens e as a statement's own RHS: a ComponentApply may
// stay in place (that is exactly the allowed position) but each of its
// argument values must become a bare ident; anything else is handled by
// flattenNested, which lifts any ComponentApply it finds however deep.
func flattenTop(e ir1.Expr, syms *symtab.SymbolTable, gen *ir1.IDGen, lifted *[]*ir1.Statement) ir1.Expr {
	if ca, ok := e.(*ir1.ComponentApply); ok {
		for i, arg := range ca.Inputs {
			ca.Inputs[i].Value = liftToIdent(flattenNested(arg.Value, syms, gen, lifted), syms, gen, lifted)
		}
		return ca
	}
	return flattenNested(e, syms, gen, lifted)
}

// flattenNested flattens e as someone else's sub-expression: any
// ComponentApply reachable inside it is lifted into its own preceding
// statement, since a ComponentApply may never be a sub-expression in
// normal form.
func flattenNested(e ir1.Expr, syms *symtab.SymbolTable, gen *ir1.IDGen, lifted *[]*ir1.Statement) ir1.Expr {
	switch ex := e.(type) {
	case *ir1.ComponentApply:
		for i, arg := range ex.Inputs {
			ex.Inputs[i].Value = liftToIdent(flattenNested(arg.Value, syms, gen, lifted), syms, gen, lifted)
		}
		return liftToIdent(ex, syms, gen, lifted)
	case *ir1.Unop:
		ex.Arg = flattenNested(ex.Arg, syms, gen, lifted)
		return ex
	case *ir1.Binop:
		ex.Left = flattenNested(ex.Left, syms, gen, lifted)
		ex.Right = flattenNested(ex.Right, syms, gen, lifted)
		return ex
	case *ir1.IfThenElse:
		ex.Cond = flattenNested(ex.Cond, syms, gen, lifted)
		ex.Then = flattenNested(ex.Then, syms, gen, lifted)
		ex.Else = flattenNested(ex.Else, syms, gen, lifted)
		return ex
	case *ir1.Application:
		for i, a := range ex.Args {
			ex.Args[i] = flattenNested(a, syms, gen, lifted)
		}
		return ex
	case *ir1.Array:
		for i, el := range ex.Elems {
			ex.Elems[i] = flattenNested(el, syms, gen, lifted)
		}
		return ex
	case *ir1.Tuple:
		for i, el := range ex.Elems {
			ex.Elems[i] = flattenNested(el, syms, gen, lifted)
		}
		return ex
	case *ir1.TupleElem:
		ex.Tuple = flattenNested(ex.Tuple, syms, gen, lifted)
		return ex
	case *ir1.FieldAccess:
		ex.Struct = flattenNested(ex.Struct, syms, gen, lifted)
		return ex
	case *ir1.Structure:
		for i, f := range ex.Fields {
			ex.Fields[i].Value = flattenNested(f.Value, syms, gen, lifted)
		}
		return ex
	case *ir1.Map:
		ex.Arr = flattenNested(ex.Arr, syms, gen, lifted)
		ex.Fn = flattenNested(ex.Fn, syms, gen, lifted)
		return ex
	case *ir1.Sort:
		ex.Arr = flattenNested(ex.Arr, syms, gen, lifted)
		ex.Cmp = flattenNested(ex.Cmp, syms, gen, lifted)
		return ex
	case *ir1.Fold:
		ex.Init = flattenNested(ex.Init, syms, gen, lifted)
		ex.Step = flattenNested(ex.Step, syms, gen, lifted)
		ex.Arr = flattenNested(ex.Arr, syms, gen, lifted)
		return ex
	case *ir1.Zip:
		for i, a := range ex.Arrs {
			ex.Arrs[i] = flattenNested(a, syms, gen, lifted)
		}
		return ex
	case *ir1.When:
		ex.Opt = flattenNested(ex.Opt, syms, gen, lifted)
		ex.Present = flattenNested(ex.Present, syms, gen, lifted)
		ex.Default = flattenNested(ex.Default, syms, gen, lifted)
		return ex
	case *ir1.Pure:
		ex.Inner = flattenNested(ex.Inner, syms, gen, lifted)
		return ex
	case *ir1.SomeEvent:
		ex.Inner = flattenNested(ex.Inner, syms, gen, lifted)
		return ex
	default:
		return ex
	}
}

// liftToIdent binds e to a fresh local unless it is already a bare Ident,
// appending the binding statement to *lifted.
func liftToIdent(e ir1.Expr, syms *symtab.SymbolTable, gen *ir1.IDGen, lifted *[]*ir1.Statement) ir1.Expr {
	if id, ok := e.(*ir1.Ident); ok {
		return id
	}
	name := fmt.Sprintf("__anf_%d", gen.Fresh())
	id, err := syms.Fresh(name, symtab.KindSignal, e.Position())
	if err != nil {
		panic(fmt.Sprintf("internal: synthetic normal-form name collision for %q: %v", name, err))
	}
	if t := e.Typing(); t != nil {
		syms.SetType(id, t)
	}
	*lifted = append(*lifted, &ir1.Statement{Pattern: &ir1.IdentPattern{ID: id}, Expr: e, Pos: e.Position()})

	ref := &ir1.Ident{Node: ir1.Node{NodeID: gen.Fresh(), Pos: e.Position()}, ID: id}
	if t := e.Typing(); t != nil {
		ref.SetTyping(t)
	}
	return ref
}
