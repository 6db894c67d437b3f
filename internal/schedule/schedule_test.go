package schedule

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

// component order3(a: Int) -> (c: Int) { b = a + a; c = b + a; } must
// schedule b before c regardless of declaration order, since c reads b
// instantaneously.
func TestOrderPutsProducerBeforeConsumer(t *testing.T) {
	a, b, c := symtab.ID(1), symtab.ID(2), symtab.ID(3)
	stC := &ir1.Statement{Pattern: &ir1.IdentPattern{ID: c}, Expr: &ir1.Binop{Op: ir1.OpAdd, Left: ident(b), Right: ident(a)}}
	stB := &ir1.Statement{Pattern: &ir1.IdentPattern{ID: b}, Expr: &ir1.Binop{Op: ir1.OpAdd, Left: ident(a), Right: ident(a)}}
	comp := &ir1.Component{
		ID:         10,
		Inputs:     []symtab.ID{a},
		Outputs:    []symtab.ID{c},
		Statements: []*ir1.Statement{stC, stB}, // declared out of dependency order
		Unitary: map[symtab.ID]*ir1.UnitaryComponent{
			c: {Output: c, Inputs: []symtab.ID{a}, Statements: []*ir1.Statement{stC, stB}},
		},
	}
	reg := depgraph.NewRegistry([]*ir1.Component{comp})
	bag := errors.NewBag()

	Run(&ir1.File{Components: []*ir1.Component{comp}}, reg, bag)

	got := comp.Unitary[c].ScheduleOrder
	require.Len(t, got, 2)
	assert.Same(t, stB, got[0])
	assert.Same(t, stC, got[1])
}

// Two statements with no dependency between them tie-break on the smaller
// defined id regardless of declaration order.
func TestOrderTieBreaksOnSmallestDefinedID(t *testing.T) {
	x, y := symtab.ID(5), symtab.ID(2)
	stX := &ir1.Statement{Pattern: &ir1.IdentPattern{ID: x}, Expr: &ir1.Const{Kind: ir1.ConstInt, Int: 1}}
	stY := &ir1.Statement{Pattern: &ir1.IdentPattern{ID: y}, Expr: &ir1.Const{Kind: ir1.ConstInt, Int: 2}}
	comp := &ir1.Component{
		ID:         11,
		Outputs:    []symtab.ID{x, y},
		Statements: []*ir1.Statement{stX, stY},
		Unitary: map[symtab.ID]*ir1.UnitaryComponent{
			x: {Output: x, Statements: []*ir1.Statement{stX, stY}},
		},
	}
	reg := depgraph.NewRegistry([]*ir1.Component{comp})
	bag := errors.NewBag()

	Run(&ir1.File{Components: []*ir1.Component{comp}}, reg, bag)

	got := comp.Unitary[x].ScheduleOrder
	require.Len(t, got, 2)
	assert.Same(t, stY, got[0], "y (id 2) should schedule before x (id 5) despite declaration order")
	assert.Same(t, stX, got[1])
}
