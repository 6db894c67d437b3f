package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grust-lang/grustc-core/internal/ast"
	"github.com/grust-lang/grustc-core/internal/astjson"
)

func counterFixture(t *testing.T) []byte {
	t.Helper()
	intType := &ast.NamedType{Name: "Int"}
	file := &ast.File{
		Components: []*ast.ComponentDecl{{
			Name:    "counter",
			Inputs:  []ast.ParamDecl{{Name: "tick", Type: intType}},
			Outputs: []ast.ParamDecl{{Name: "n", Type: intType}},
			Statements: []*ast.Statement{{
				Pattern: &ast.TypedIdent{Name: "n", Type: intType},
				Expr: &ast.FollowedBy{
					Init: &ast.Ident{Name: "tick"},
					Next: &ast.Ident{Name: "n"},
				},
			}},
		}},
	}
	data, err := astjson.EncodeFile(file)
	require.NoError(t, err)
	return data
}

func TestCompileAndReportPrintsSummaryForValidFixture(t *testing.T) {
	var out strings.Builder
	err := compileAndReport(counterFixture(t), &out, &runOptions{})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "materialize")
}

func TestCompileAndReportDumpsYAMLWhenRequested(t *testing.T) {
	var out strings.Builder
	err := compileAndReport(counterFixture(t), &out, &runOptions{dumpYAML: true})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "counter")
}

func TestCompileAndReportReportsErrorsForBadFixture(t *testing.T) {
	file := &ast.File{Components: []*ast.ComponentDecl{{
		Name:    "bad",
		Outputs: []ast.ParamDecl{{Name: "x", Type: &ast.NamedType{Name: "Int"}}},
		Statements: []*ast.Statement{{
			Pattern: &ast.TypedIdent{Name: "x", Type: &ast.NamedType{Name: "Int"}},
			Expr:    &ast.Ident{Name: "undefined_signal"},
		}},
	}}}
	data, err := astjson.EncodeFile(file)
	require.NoError(t, err)

	var out strings.Builder
	err = compileAndReport(data, &out, &runOptions{})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "UnknownIdentifier")
}

func TestCompileAndReportRejectsMalformedJSON(t *testing.T) {
	var out strings.Builder
	err := compileAndReport([]byte("not json"), &out, &runOptions{})
	assert.Error(t, err)
}
