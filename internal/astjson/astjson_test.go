package astjson

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/grust-lang/grustc-core/internal/ast"
)

func intType() *ast.NamedType { return &ast.NamedType{Name: "Int"} }

// counterFile mirrors internal/pipeline's S1 fixture: one component with a
// fby-bound buffer, exercising Ident/FollowedBy/NamedType round-tripping.
func counterFile() *ast.File {
	return &ast.File{
		Components: []*ast.ComponentDecl{{
			Name:    "counter",
			Inputs:  []ast.ParamDecl{{Name: "tick", Type: intType()}},
			Outputs: []ast.ParamDecl{{Name: "n", Type: intType()}},
			Statements: []*ast.Statement{{
				Pattern: &ast.TypedIdent{Name: "n", Type: intType()},
				Expr: &ast.FollowedBy{
					Init: &ast.Ident{Name: "tick"},
					Next: &ast.Ident{Name: "n"},
				},
			}},
		}},
	}
}

func TestRoundTripCounterFile(t *testing.T) {
	orig := counterFile()

	data, err := EncodeFile(orig)
	require.NoError(t, err)

	got, err := DecodeFile(data)
	require.NoError(t, err)

	if diff := cmp.Diff(orig, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

// TestRoundTripWideExprCoverage exercises every Expr/Pattern/TypeExpr kind
// the codec knows about in one function body and one typedef, so a new
// kind added to internal/ast without a matching astjson case shows up as
// a round-trip diff or a marshal error rather than silent data loss.
func TestRoundTripWideExprCoverage(t *testing.T) {
	body := &ast.IfThenElse{
		Cond: &ast.Binop{Op: ast.OpLt, Left: &ast.Ident{Name: "x"}, Right: &ast.Literal{Kind: ast.LitInt, Int: 3}},
		Then: &ast.Unop{Op: ast.OpNeg, Expr: &ast.Ident{Name: "x"}},
		Else: &ast.Application{
			Fn: &ast.Ident{Name: "helper"},
			Args: []ast.Expr{
				&ast.Tuple{Elems: []ast.Expr{&ast.Literal{Kind: ast.LitBool, Bool: true}, &ast.Array{Elems: []ast.Expr{&ast.Literal{Kind: ast.LitFloat, Float: 1.5}}}}},
				&ast.TupleElem{Tuple: &ast.Ident{Name: "pair"}, Index: 1},
				&ast.FieldAccess{Struct: &ast.Ident{Name: "s"}, Field: "f"},
				&ast.Structure{Typedef: "Point", Fields: []ast.StructFieldInit{{Field: "x", Value: &ast.Literal{Kind: ast.LitInt, Int: 1}}}},
				&ast.Enumeration{Enum: "Color", Variant: "Red"},
				&ast.Map{Arr: &ast.Ident{Name: "arr"}, Fn: &ast.Ident{Name: "f"}},
				&ast.Sort{Arr: &ast.Ident{Name: "arr"}, Cmp: &ast.Ident{Name: "cmp"}},
				&ast.Fold{Init: &ast.Literal{Kind: ast.LitInt, Int: 0}, Step: &ast.Ident{Name: "add"}, Arr: &ast.Ident{Name: "arr"}},
				&ast.Zip{Arrs: []ast.Expr{&ast.Ident{Name: "a"}, &ast.Ident{Name: "b"}}},
				&ast.When{Opt: &ast.Ident{Name: "evt"}, Binder: "v", Present: &ast.Ident{Name: "v"}, Default: &ast.Literal{Kind: ast.LitInt, Int: 0}},
				&ast.SomeEvent{Inner: &ast.Literal{Kind: ast.LitInt, Int: 1}},
				&ast.NoneEvent{},
				&ast.RisingEdge{Arg: &ast.Ident{Name: "b"}},
				&ast.ComponentApply{Component: "c", SelectedOutput: "out", Inputs: []ast.ComponentArg{{Input: "in", Value: &ast.Ident{Name: "x"}}}},
			},
		},
	}

	file := &ast.File{
		Typedefs: []*ast.TypedefDecl{{
			Name: "Point",
			Kind: ast.TypedefStruct,
			Fields: []ast.FieldDecl{
				{Name: "x", Type: intType()},
				{Name: "y", Type: &ast.OptionType{Elem: intType()}},
			},
		}, {
			Name:     "Color",
			Kind:     ast.TypedefEnum,
			Variants: []string{"Red", "Green", "Blue"},
		}, {
			Name: "Row",
			Kind: ast.TypedefArrayAlias,
			Elem: &ast.TupleType{Elems: []ast.TypeExpr{intType(), intType()}},
			Size: 4,
		}},
		Functions: []*ast.FuncDecl{{
			Name:   "helper",
			Params: []ast.ParamDecl{{Name: "x", Type: intType()}},
			Return: intType(),
			Body:   body,
		}},
		Components: []*ast.ComponentDecl{{
			Name:    "c",
			Inputs:  []ast.ParamDecl{{Name: "in", Type: intType()}},
			Outputs: []ast.ParamDecl{{Name: "out", Type: intType()}},
			Statements: []*ast.Statement{{
				Pattern: &ast.TuplePattern{Elems: []ast.Pattern{&ast.Ident{Name: "out"}, &ast.SomePattern{Inner: &ast.Ident{Name: "e"}}, &ast.NonePattern{}}},
				Expr:    &ast.Pure{Inner: &ast.Ident{Name: "in"}},
			}},
			Contract: []ast.Expr{&ast.Literal{Kind: ast.LitBool, Bool: true}},
		}},
		Service: &ast.ServiceDecl{
			Imports: []*ast.ImportDecl{{IsEvent: true, Path: "/tick", Type: intType()}},
			Exports: []*ast.ExportDecl{{IsEvent: false, Path: "/out", Local: "out"}},
			Flows: []*ast.FlowStatement{{
				Pattern: &ast.Ident{Name: "s"},
				Flow: &ast.FlowOp{
					Kind:     ast.FlowSample,
					Source:   &ast.FlowIdent{Name: "tick"},
					Duration: 1000,
				},
			}, {
				Pattern: &ast.Ident{Name: "m"},
				Flow: &ast.FlowOp{
					Kind:   ast.FlowMerge,
					Source: &ast.FlowIdent{Name: "a"},
					Other:  &ast.FlowIdent{Name: "b"},
				},
			}, {
				Pattern: &ast.Ident{Name: "r"},
				Flow:    &ast.FlowComponentApply{Component: "c", Inputs: []ast.ComponentArg{{Input: "in", Value: &ast.Ident{Name: "s"}}}},
			}},
		},
	}

	data, err := EncodeFile(file)
	require.NoError(t, err)

	got, err := DecodeFile(data)
	require.NoError(t, err)

	if diff := cmp.Diff(file, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}
