package causality

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grust-lang/grustc-core/internal/depgraph"
	"github.com/grust-lang/grustc-core/internal/errors"
	"github.com/grust-lang/grustc-core/internal/ir1"
	"github.com/grust-lang/grustc-core/internal/symtab"
)

func ident(id symtab.ID) *ir1.Ident { return &ir1.Ident{ID: id} }

// component counter(tick: Int) -> (n: Int) { n = tick fby n; } has no
// instantaneous cycle: the n -> n edge carries Weight(1).
func TestFollowedBySelfEdgeIsNotAnInstantaneousCycle(t *testing.T) {
	tick, n := symtab.ID(1), symtab.ID(2)
	comp := &ir1.Component{
		ID:      10,
		Inputs:  []symtab.ID{tick},
		Outputs: []symtab.ID{n},
		Statements: []*ir1.Statement{
			{Pattern: &ir1.IdentPattern{ID: n}, Expr: &ir1.FollowedBy{Init: ident(tick), Next: n}},
		},
	}
	reg := depgraph.NewRegistry([]*ir1.Component{comp})

	bag := Check(&ir1.File{Components: []*ir1.Component{comp}}, reg)
	assert.Empty(t, bag.Errors())
}

// a = b; b = a; is an instantaneous mutual dependency: illegal.
func TestMutualWeight0DependencyReportsNotCausalSignal(t *testing.T) {
	a, b := symtab.ID(1), symtab.ID(2)
	comp := &ir1.Component{
		ID:      10,
		Outputs: []symtab.ID{a, b},
		Statements: []*ir1.Statement{
			{Pattern: &ir1.IdentPattern{ID: a}, Expr: ident(b)},
			{Pattern: &ir1.IdentPattern{ID: b}, Expr: ident(a)},
		},
	}
	reg := depgraph.NewRegistry([]*ir1.Component{comp})

	bag := Check(&ir1.File{Components: []*ir1.Component{comp}}, reg)
	require.Len(t, bag.Errors(), 1)
	assert.Equal(t, errors.KindNotCausalSignal, bag.Errors()[0].Kind)
}

// component a(..) calls b, component b calls a: illegal regardless of
// what either call is labelled.
func TestComponentMutualCallCycleReportsNotCausalComponent(t *testing.T) {
	x, y := symtab.ID(100), symtab.ID(101)
	p, q := symtab.ID(102), symtab.ID(103)

	compA := &ir1.Component{
		ID:      1,
		Outputs: []symtab.ID{x},
		Statements: []*ir1.Statement{
			{Pattern: &ir1.IdentPattern{ID: x}, Expr: &ir1.ComponentApply{
				Component: 2, Inputs: []ir1.ComponentArg{{Input: p, Value: ident(x)}}, SelectedOutput: q,
			}},
		},
	}
	compB := &ir1.Component{
		ID:      2,
		Outputs: []symtab.ID{y},
		Statements: []*ir1.Statement{
			{Pattern: &ir1.IdentPattern{ID: y}, Expr: &ir1.ComponentApply{
				Component: 1, Inputs: []ir1.ComponentArg{{Input: p, Value: ident(y)}}, SelectedOutput: x,
			}},
		},
	}
	reg := depgraph.NewRegistry([]*ir1.Component{compA, compB})

	bag := Check(&ir1.File{Components: []*ir1.Component{compA, compB}}, reg)
	require.Len(t, bag.Errors(), 1)
	assert.Equal(t, errors.KindNotCausalComponent, bag.Errors()[0].Kind)
}
