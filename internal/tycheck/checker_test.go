package tycheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grust-lang/grustc-core/internal/ast"
	"github.com/grust-lang/grustc-core/internal/errors"
	"github.com/grust-lang/grustc-core/internal/gtypes"
	"github.com/grust-lang/grustc-core/internal/ir1"
	"github.com/grust-lang/grustc-core/internal/symtab"
)

func ident(id symtab.ID) *ir1.Ident { return &ir1.Ident{ID: id} }

func newSyms() *symtab.SymbolTable { return symtab.New() }

// component counter(tick: Int) -> (n: Int) { n = tick fby n; }
func TestFollowedByMatchesInitToNextAndBindsUntypedLocal(t *testing.T) {
	syms := newSyms()
	tick, _ := syms.Fresh("tick", symtab.KindSignal, ast0())
	syms.SetType(tick, gtypes.Int{})
	n, _ := syms.Fresh("n", symtab.KindSignal, ast0())

	comp := &ir1.Component{
		ID:      1,
		Inputs:  []symtab.ID{tick},
		Outputs: []symtab.ID{n},
		Statements: []*ir1.Statement{
			{Pattern: &ir1.IdentPattern{ID: n}, Expr: &ir1.FollowedBy{Init: ident(tick), Next: n}},
		},
	}

	bag := Check(&ir1.File{Components: []*ir1.Component{comp}}, syms)
	assert.Empty(t, bag.Errors())
	assert.Equal(t, gtypes.Int{}, syms.GetType(n))
}

func TestBinopArithmeticMismatchReportsIncompatibleTypes(t *testing.T) {
	syms := newSyms()
	x, _ := syms.Fresh("x", symtab.KindSignal, ast0())
	syms.SetType(x, gtypes.Int{})
	y, _ := syms.Fresh("y", symtab.KindSignal, ast0())

	comp := &ir1.Component{
		ID:      1,
		Inputs:  []symtab.ID{x},
		Outputs: []symtab.ID{y},
		Statements: []*ir1.Statement{
			{Pattern: &ir1.IdentPattern{ID: y}, Expr: &ir1.Binop{
				Op:    ir1.OpAdd,
				Left:  ident(x),
				Right: &ir1.Const{Kind: ir1.ConstFloat, Float: 1.5},
			}},
		},
	}

	bag := Check(&ir1.File{Components: []*ir1.Component{comp}}, syms)
	require.Len(t, bag.Errors(), 1)
	assert.Equal(t, errors.KindIncompatibleTypes, bag.Errors()[0].Kind)
}

func TestUnopNegOnBoolReportsExpectArith(t *testing.T) {
	syms := newSyms()
	id, _ := syms.Fresh("f", symtab.KindFunction, ast0())
	syms.Get(id).Function = &symtab.FunctionInfo{Output: gtypes.Bool{}}
	fn := &ir1.Function{
		ID:   id,
		Body: &ir1.Unop{Op: ir1.OpNeg, Arg: &ir1.Const{Kind: ir1.ConstBool, Bool: true}},
	}

	bag := Check(&ir1.File{Functions: []*ir1.Function{fn}}, syms)
	require.Len(t, bag.Errors(), 1)
	assert.Equal(t, errors.KindExpectArith, bag.Errors()[0].Kind)
}

func TestFieldAccessResolvesDeferredFieldAgainstStructType(t *testing.T) {
	syms := newSyms()
	structID, _ := syms.Fresh("Point", symtab.KindTypedefStruct, ast0())
	xField, _ := syms.Fresh("Point.x", symtab.KindStructField, ast0())
	syms.SetType(xField, gtypes.Int{})
	syms.Get(structID).Typedef = &symtab.TypedefInfo{Fields: []symtab.ID{xField}}

	p, _ := syms.Fresh("p", symtab.KindSignal, ast0())
	syms.SetType(p, gtypes.Struct{ID: gtypes.StructID(structID), Name: "Point"})
	out, _ := syms.Fresh("out", symtab.KindSignal, ast0())

	fa := &ir1.FieldAccess{Struct: ident(p), FieldName: "x"}
	comp := &ir1.Component{
		ID:      1,
		Inputs:  []symtab.ID{p},
		Outputs: []symtab.ID{out},
		Statements: []*ir1.Statement{
			{Pattern: &ir1.IdentPattern{ID: out}, Expr: fa},
		},
	}

	bag := Check(&ir1.File{Components: []*ir1.Component{comp}}, syms)
	assert.Empty(t, bag.Errors())
	assert.Equal(t, xField, fa.Field)
	assert.Equal(t, gtypes.Int{}, syms.GetType(out))
}

func TestFieldAccessUnknownFieldReportsUnknownField(t *testing.T) {
	syms := newSyms()
	structID, _ := syms.Fresh("Point", symtab.KindTypedefStruct, ast0())
	syms.Get(structID).Typedef = &symtab.TypedefInfo{}

	p, _ := syms.Fresh("p", symtab.KindSignal, ast0())
	syms.SetType(p, gtypes.Struct{ID: gtypes.StructID(structID), Name: "Point"})
	out, _ := syms.Fresh("out", symtab.KindSignal, ast0())

	comp := &ir1.Component{
		ID:      1,
		Inputs:  []symtab.ID{p},
		Outputs: []symtab.ID{out},
		Statements: []*ir1.Statement{
			{Pattern: &ir1.IdentPattern{ID: out}, Expr: &ir1.FieldAccess{Struct: ident(p), FieldName: "z"}},
		},
	}

	bag := Check(&ir1.File{Components: []*ir1.Component{comp}}, syms)
	require.Len(t, bag.Errors(), 1)
	assert.Equal(t, errors.KindUnknownField, bag.Errors()[0].Kind)
}

func TestWhenBindsBinderToOptionElementAndUnifiesBranches(t *testing.T) {
	syms := newSyms()
	evt, _ := syms.Fresh("evt", symtab.KindSignal, ast0())
	syms.SetType(evt, gtypes.Option{Elem: gtypes.Int{}})
	binder, _ := syms.Fresh("v", symtab.KindSignal, ast0())
	out, _ := syms.Fresh("out", symtab.KindSignal, ast0())

	w := &ir1.When{
		Opt:     ident(evt),
		Binder:  binder,
		Present: ident(binder),
		Default: &ir1.Const{Kind: ir1.ConstInt, Int: 0},
	}
	comp := &ir1.Component{
		ID:      1,
		Inputs:  []symtab.ID{evt},
		Outputs: []symtab.ID{out},
		Statements: []*ir1.Statement{
			{Pattern: &ir1.IdentPattern{ID: out}, Expr: w},
		},
	}

	bag := Check(&ir1.File{Components: []*ir1.Component{comp}}, syms)
	assert.Empty(t, bag.Errors())
	assert.Equal(t, gtypes.Int{}, syms.GetType(binder))
	assert.Equal(t, gtypes.Int{}, syms.GetType(out))
}

func TestEnumerationUnknownVariantReportsUnknownEnumeration(t *testing.T) {
	syms := newSyms()
	enumID, _ := syms.Fresh("Color", symtab.KindTypedefEnum, ast0())
	syms.Get(enumID).Typedef = &symtab.TypedefInfo{Variants: []string{"Red", "Green"}}
	out, _ := syms.Fresh("out", symtab.KindSignal, ast0())

	comp := &ir1.Component{
		ID:      1,
		Outputs: []symtab.ID{out},
		Statements: []*ir1.Statement{
			{Pattern: &ir1.IdentPattern{ID: out}, Expr: &ir1.Enumeration{Enum: enumID, Variant: "Blue"}},
		},
	}

	bag := Check(&ir1.File{Components: []*ir1.Component{comp}}, syms)
	require.Len(t, bag.Errors(), 1)
	assert.Equal(t, errors.KindUnknownEnumeration, bag.Errors()[0].Kind)
}

func ast0() ast.Pos { return ast.Pos{} }
