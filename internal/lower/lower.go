// Package lower performs the AST to IR1 lowering pass of spec.md §4.2:
// two sweeps over a file, the first declaring every top-level name so
// forward references resolve, the second lowering statement and
// expression bodies against the populated symbol table. Shape is grounded
// on sunholo-data-ailang/internal/elaborate/elaborate.go's Elaborator
// (a monotonic id counter plus a dispatching normalize/elaborateExpr
// pair), generalised from ANF desugaring to GRust's typed-resolution
// lowering.
package lower

import (
	"fmt"

	"github.com/grust-lang/grustc-core/internal/ast"
	"github.com/grust-lang/grustc-core/internal/errors"
	"github.com/grust-lang/grustc-core/internal/gtypes"
	"github.com/grust-lang/grustc-core/internal/ir1"
	"github.com/grust-lang/grustc-core/internal/symtab"
)

// Lowerer carries the state threaded through both sweeps: the symbol
// table being populated, the shared node-id generator, a lookup table
// from typedef surface name to its resolved gtypes.Typ, and the
// diagnostic bag lowering appends to.
type Lowerer struct {
	syms  *symtab.SymbolTable
	ids   *ir1.IDGen
	bag   *errors.Bag
	types map[string]gtypes.Typ // typedef name -> resolved type
	tyID  map[string]symtab.ID  // typedef name -> declaring symbol id
}

// Lower runs both sweeps over file and returns the IR1 file together with
// every diagnostic collected along the way. The file is returned even
// when the bag holds errors so that a caller analysing "as much as
// possible" (spec.md §7) still has a tree to walk; unresolved references
// become poison symtab.NoID idents.
func Lower(file *ast.File) (*ir1.File, *errors.Bag) {
	out, l := runLower(file)
	return out, l.bag
}

// LowerWithSymbols is Lower plus the populated symbol table, for callers
// (internal/pipeline) that must thread it into every later pass. Lower
// itself keeps its original two-value signature since its existing
// callers never need the table.
func LowerWithSymbols(file *ast.File) (*ir1.File, *symtab.SymbolTable, *errors.Bag) {
	out, l := runLower(file)
	return out, l.syms, l.bag
}

func runLower(file *ast.File) (*ir1.File, *Lowerer) {
	l := &Lowerer{
		syms:  symtab.New(),
		ids:   &ir1.IDGen{},
		bag:   errors.NewBag(),
		types: map[string]gtypes.Typ{},
		tyID:  map[string]symtab.ID{},
	}
	l.declareTypedefs(file.Typedefs)
	l.declareFunctions(file.Functions)
	l.declareComponents(file.Components)
	if file.Service != nil {
		l.declareService(file.Service)
	}

	out := &ir1.File{}
	for _, td := range file.Typedefs {
		out.Typedefs = append(out.Typedefs, &ir1.Typedef{ID: l.tyID[td.Name]})
	}
	for _, fn := range file.Functions {
		out.Functions = append(out.Functions, l.lowerFunction(fn))
	}
	for _, c := range file.Components {
		out.Components = append(out.Components, l.lowerComponent(c))
	}
	if file.Service != nil {
		out.Service = l.lowerService(file.Service)
	}
	return out, l
}

// SymbolTable exposes the populated table to later passes (type checker,
// dependency analyser) that need to resolve an id back to a Symbol.
func (l *Lowerer) SymbolTable() *symtab.SymbolTable { return l.syms }

func (l *Lowerer) loc(p ast.Pos) errors.Location {
	return errors.Location{FileID: 0, Start: p.Offset, End: p.Offset}
}

// --- sweep 1: declare ---

func (l *Lowerer) declareTypedefs(decls []*ast.TypedefDecl) {
	for _, td := range decls {
		switch td.Kind {
		case ast.TypedefStruct:
			id, err := l.syms.Fresh(td.Name, symtab.KindTypedefStruct, td.Pos)
			if err != nil {
				l.redeclared(td.Name, td.Pos, err)
				continue
			}
			l.tyID[td.Name] = id
			var fieldIDs []symtab.ID
			for _, f := range td.Fields {
				// field names are addressed by projection (FieldAccess),
				// never by bare identifier, so the synthetic qualified
				// name here only needs to be collision-free, mirroring
				// symtab.RegisterMemory's "__mem_" convention.
				fid, ferr := l.syms.Fresh(fmt.Sprintf("%s.%s", td.Name, f.Name), symtab.KindStructField, f.Pos)
				if ferr != nil {
					l.redeclared(f.Name, f.Pos, ferr)
					continue
				}
				l.syms.SetType(fid, l.resolveType(f.Type))
				fieldIDs = append(fieldIDs, fid)
			}
			l.syms.Get(id).Typedef = &symtab.TypedefInfo{Fields: fieldIDs}
			l.types[td.Name] = gtypes.Struct{ID: gtypes.StructID(id), Name: td.Name}
		case ast.TypedefEnum:
			id, err := l.syms.Fresh(td.Name, symtab.KindTypedefEnum, td.Pos)
			if err != nil {
				l.redeclared(td.Name, td.Pos, err)
				continue
			}
			l.tyID[td.Name] = id
			l.syms.Get(id).Typedef = &symtab.TypedefInfo{Variants: td.Variants}
			l.types[td.Name] = gtypes.Enum{ID: gtypes.EnumID(id), Name: td.Name}
		case ast.TypedefArrayAlias:
			id, err := l.syms.Fresh(td.Name, symtab.KindTypedefArrayAlias, td.Pos)
			if err != nil {
				l.redeclared(td.Name, td.Pos, err)
				continue
			}
			l.tyID[td.Name] = id
			elem := l.resolveType(td.Elem)
			l.syms.Get(id).Typedef = &symtab.TypedefInfo{Elem: elem, Size: td.Size}
			l.types[td.Name] = gtypes.Array{Elem: elem, Size: td.Size}
		}
	}
}

// declareFunctions mints each function's id plus its formal parameters,
// so that a function declared earlier in the file can already be called
// with the right arity/types by one declared later (spec.md §4.2 "so
// forward references resolve"). Parameters are bound into the function's
// own persistent scope, which lowerFunction re-enters in sweep 2.
func (l *Lowerer) declareFunctions(decls []*ast.FuncDecl) {
	for _, fn := range decls {
		id, err := l.syms.Fresh(fn.Name, symtab.KindFunction, fn.Pos)
		if err != nil {
			l.redeclared(fn.Name, fn.Pos, err)
			continue
		}
		l.syms.Get(id).Function = &symtab.FunctionInfo{}

		l.syms.EnterComponent(id)
		inputs := make([]symtab.ID, len(fn.Params))
		for i, p := range fn.Params {
			pid, perr := l.syms.Fresh(p.Name, symtab.KindFunctionParam, p.Pos)
			if perr != nil {
				l.redeclared(p.Name, p.Pos, perr)
				continue
			}
			l.syms.SetType(pid, l.resolveType(p.Type))
			inputs[i] = pid
		}
		l.syms.LeaveComponent()

		l.syms.Get(id).Function.Inputs = inputs
		l.syms.Get(id).Function.Output = l.resolveType(fn.Return)
	}
}

// declareComponents mints each component's id plus its input/output
// signals, for the same forward-reference reason as declareFunctions:
// the dependency analyser and later callers resolve a callee's formal
// inputs via symtab.LookupIn, which reads ComponentInfo populated here.
func (l *Lowerer) declareComponents(decls []*ast.ComponentDecl) {
	for _, c := range decls {
		id, err := l.syms.Fresh(c.Name, symtab.KindComponent, c.Pos)
		if err != nil {
			l.redeclared(c.Name, c.Pos, err)
			continue
		}
		l.syms.Get(id).Component = &symtab.ComponentInfo{}

		l.syms.EnterComponent(id)
		inputs := l.declareSignals(c.Inputs, symtab.ScopeInput)
		outputs := l.declareSignals(c.Outputs, symtab.ScopeOutput)
		l.syms.LeaveComponent()

		l.syms.Get(id).Component.Inputs = inputs
		l.syms.Get(id).Component.Outputs = outputs
	}
}

func (l *Lowerer) declareService(svc *ast.ServiceDecl) {
	for _, imp := range svc.Imports {
		scope := symtab.ScopeInput
		typ := l.resolveType(imp.Type)
		if imp.IsEvent {
			typ = gtypes.Option{Elem: typ}
		}
		id, err := l.syms.Fresh(imp.Path, symtab.KindSignal, imp.Pos)
		if err != nil {
			l.redeclared(imp.Path, imp.Pos, err)
			continue
		}
		l.syms.Get(id).SignalScope = scope
		l.syms.SetType(id, typ)
	}
}

func (l *Lowerer) unknownField(typedefName, field string, pos ast.Pos) {
	l.bag.Add(errors.New(errors.KindUnknownField, l.loc(pos), fmt.Sprintf("%s has no field %q", typedefName, field)))
}

func (l *Lowerer) redeclared(name string, pos ast.Pos, err error) {
	re, _ := err.(*symtab.RedeclarationError)
	e := l.bag.Add(errors.New(errors.KindRedeclaration, l.loc(pos), fmt.Sprintf("%q is already declared", name)))
	if re != nil {
		e.WithNote("previous declaration here", errors.Location{})
	}
}

// resolveType maps a surface type annotation to a gtypes.Typ. An unknown
// named type reports KindUnknownIdentifier against the naming
// convention used for every other unresolved reference and resolves to
// gtypes.Unresolved so the caller can keep going.
func (l *Lowerer) resolveType(te ast.TypeExpr) gtypes.Typ {
	switch t := te.(type) {
	case nil:
		return gtypes.Unit{}
	case *ast.NamedType:
		switch t.Name {
		case "Int":
			return gtypes.Int{}
		case "Float":
			return gtypes.Float{}
		case "Bool":
			return gtypes.Bool{}
		case "Unit":
			return gtypes.Unit{}
		}
		if typ, ok := l.types[t.Name]; ok {
			return typ
		}
		l.bag.Add(errors.New(errors.KindUnknownIdentifier, l.loc(t.Pos), fmt.Sprintf("unknown type %q", t.Name)))
		return gtypes.Unresolved{}
	case *ast.ArrayType:
		return gtypes.Array{Elem: l.resolveType(t.Elem), Size: t.Size}
	case *ast.TupleType:
		elems := make([]gtypes.Typ, len(t.Elems))
		for i, e := range t.Elems {
			elems[i] = l.resolveType(e)
		}
		return gtypes.Tuple{Elems: elems}
	case *ast.OptionType:
		return gtypes.Option{Elem: l.resolveType(t.Elem)}
	case *ast.FuncType:
		params := make([]gtypes.Typ, len(t.Params))
		for i, p := range t.Params {
			params[i] = l.resolveType(p)
		}
		return gtypes.Function{Params: params, Result: l.resolveType(t.Result)}
	default:
		return gtypes.Unresolved{}
	}
}
