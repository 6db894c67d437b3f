package lower

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grust-lang/grustc-core/internal/ast"
	"github.com/grust-lang/grustc-core/internal/errors"
	"github.com/grust-lang/grustc-core/internal/ir1"
)

func intType() *ast.NamedType { return &ast.NamedType{Name: "Int"} }

// component counter(tick: Int) -> (n: Int) { n = tick fby n; }
func counterComponent() *ast.ComponentDecl {
	return &ast.ComponentDecl{
		Name:    "counter",
		Inputs:  []ast.ParamDecl{{Name: "tick", Type: intType()}},
		Outputs: []ast.ParamDecl{{Name: "n", Type: intType()}},
		Statements: []*ast.Statement{
			{
				Pattern: &ast.TypedIdent{Name: "n", Type: intType()},
				Expr: &ast.FollowedBy{
					Init: &ast.Ident{Name: "tick"},
					Next: &ast.Ident{Name: "n"},
				},
			},
		},
	}
}

func TestLowerResolvesComponentIdentifiers(t *testing.T) {
	file := &ast.File{Components: []*ast.ComponentDecl{counterComponent()}}

	out, bag := Lower(file)

	require.Empty(t, bag.All())
	require.Len(t, out.Components, 1)
	comp := out.Components[0]
	require.Len(t, comp.Statements, 1)

	fby, ok := comp.Statements[0].Expr.(*ir1.FollowedBy)
	require.True(t, ok)
	tickID, ok := fby.Init.(*ir1.Ident)
	require.True(t, ok)
	assert.Equal(t, comp.Inputs[0], tickID.ID)
	assert.Equal(t, comp.Outputs[0], fby.Next)

	pattern := comp.Statements[0].Pattern.(*ir1.IdentPattern)
	assert.Equal(t, comp.Outputs[0], pattern.ID, "statement pattern must reuse the declared output id, not mint a new one")
}

func TestLowerUnknownIdentifierIsRecordedAndPoisoned(t *testing.T) {
	file := &ast.File{Components: []*ast.ComponentDecl{
		{
			Name: "bad",
			Statements: []*ast.Statement{
				{Pattern: &ast.Ident{Name: "x"}, Expr: &ast.Ident{Name: "undefined_signal"}},
			},
		},
	}}

	out, bag := Lower(file)

	require.Len(t, bag.Errors(), 1)
	assert.Equal(t, errors.KindUnknownIdentifier, bag.Errors()[0].Kind)

	ident := out.Components[0].Statements[0].Expr.(*ir1.Ident)
	assert.Zero(t, ident.ID)
}

func TestLowerForwardReferenceBetweenComponents(t *testing.T) {
	// component b(x: Int) -> (y: Int) { y = a(x); }
	// component a(x: Int) -> (y: Int) { y = x; }
	file := &ast.File{Components: []*ast.ComponentDecl{
		{
			Name:    "b",
			Inputs:  []ast.ParamDecl{{Name: "x", Type: intType()}},
			Outputs: []ast.ParamDecl{{Name: "y", Type: intType()}},
			Statements: []*ast.Statement{
				{
					Pattern: &ast.Ident{Name: "y"},
					Expr: &ast.ComponentApply{
						Component: "a",
						Inputs:    []ast.ComponentArg{{Input: "x", Value: &ast.Ident{Name: "x"}}},
					},
				},
			},
		},
		{
			Name:    "a",
			Inputs:  []ast.ParamDecl{{Name: "x", Type: intType()}},
			Outputs: []ast.ParamDecl{{Name: "y", Type: intType()}},
			Statements: []*ast.Statement{
				{Pattern: &ast.Ident{Name: "y"}, Expr: &ast.Ident{Name: "x"}},
			},
		},
	}}

	out, bag := Lower(file)

	require.Empty(t, bag.All())
	apply := out.Components[0].Statements[0].Expr.(*ir1.ComponentApply)
	assert.NotZero(t, apply.Component)
	require.Len(t, apply.Inputs, 1)
	assert.NotZero(t, apply.Inputs[0].Input)
}

func TestLowerStructFieldAccessDeferredToTypeCheck(t *testing.T) {
	file := &ast.File{
		Typedefs: []*ast.TypedefDecl{
			{Name: "Point", Kind: ast.TypedefStruct, Fields: []ast.FieldDecl{{Name: "x", Type: intType()}}},
		},
		Functions: []*ast.FuncDecl{
			{
				Name:   "getX",
				Params: []ast.ParamDecl{{Name: "p", Type: &ast.NamedType{Name: "Point"}}},
				Return: intType(),
				Body:   &ast.FieldAccess{Struct: &ast.Ident{Name: "p"}, Field: "x"},
			},
		},
	}

	out, bag := Lower(file)

	require.Empty(t, bag.All())
	fa := out.Functions[0].Body.(*ir1.FieldAccess)
	assert.Equal(t, "x", fa.FieldName)
	assert.Zero(t, fa.Field) // left for the type checker to resolve
}

func TestLowerStructureLiteralResolvesFieldEagerly(t *testing.T) {
	file := &ast.File{
		Typedefs: []*ast.TypedefDecl{
			{Name: "Point", Kind: ast.TypedefStruct, Fields: []ast.FieldDecl{{Name: "x", Type: intType()}}},
		},
		Functions: []*ast.FuncDecl{
			{
				Name: "origin",
				Body: &ast.Structure{
					Typedef: "Point",
					Fields:  []ast.StructFieldInit{{Field: "x", Value: &ast.Literal{Kind: ast.LitInt, Int: 0}}},
				},
			},
		},
	}

	out, bag := Lower(file)

	require.Empty(t, bag.All())
	st := out.Functions[0].Body.(*ir1.Structure)
	require.Len(t, st.Fields, 1)
	assert.NotZero(t, st.Fields[0].Field)
}

func TestLowerEventPatternBindsVeryLocalSignal(t *testing.T) {
	file := &ast.File{Components: []*ast.ComponentDecl{
		{
			Name:    "onEvent",
			Inputs:  []ast.ParamDecl{{Name: "e", Type: &ast.OptionType{Elem: intType()}}},
			Outputs: []ast.ParamDecl{{Name: "out", Type: intType()}},
			Statements: []*ast.Statement{
				{
					Pattern: &ast.Ident{Name: "out"},
					Expr: &ast.When{
						Opt:     &ast.Ident{Name: "e"},
						Binder:  "v",
						Present: &ast.Ident{Name: "v"},
						Default: &ast.Literal{Kind: ast.LitInt, Int: 0},
					},
				},
			},
		},
	}}

	out, bag := Lower(file)

	require.Empty(t, bag.All())
	when := out.Components[0].Statements[0].Expr.(*ir1.When)
	assert.NotZero(t, when.Binder)
	presentIdent := when.Present.(*ir1.Ident)
	assert.Equal(t, when.Binder, presentIdent.ID)
}
