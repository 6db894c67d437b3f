package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grust-lang/grustc-core/internal/ast"
	"github.com/grust-lang/grustc-core/internal/depgraph"
	"github.com/grust-lang/grustc-core/internal/errors"
	"github.com/grust-lang/grustc-core/internal/ir1"
	"github.com/grust-lang/grustc-core/internal/symtab"
)

func ident(id symtab.ID) *ir1.Ident { return &ir1.Ident{ID: id} }

// component splitNode(a, b: Int) -> (sum: Int, diff: Int) { sum = a + b;
// diff = a - b; } splits into two unitary variants, each keeping only the
// statement and inputs its own output needs.
func TestSynthesizeKeepsOnlyTransitivelyNeededStatements(t *testing.T) {
	a, b := symtab.ID(1), symtab.ID(2)
	sum, diff := symtab.ID(3), symtab.ID(4)
	comp := &ir1.Component{
		ID:      10,
		Inputs:  []symtab.ID{a, b},
		Outputs: []symtab.ID{sum, diff},
		Statements: []*ir1.Statement{
			{Pattern: &ir1.IdentPattern{ID: sum}, Expr: &ir1.Binop{Op: ir1.OpAdd, Left: ident(a), Right: ident(b)}},
			{Pattern: &ir1.IdentPattern{ID: diff}, Expr: &ir1.Binop{Op: ir1.OpSub, Left: ident(a), Right: ident(b)}},
		},
	}
	reg := depgraph.NewRegistry([]*ir1.Component{comp})
	bag := errors.NewBag()

	Synthesize(&ir1.File{Components: []*ir1.Component{comp}}, reg, bag)

	require.Contains(t, comp.Unitary, sum)
	require.Contains(t, comp.Unitary, diff)
	assert.Len(t, comp.Unitary[sum].Statements, 1)
	assert.Len(t, comp.Unitary[diff].Statements, 1)
	assert.ElementsMatch(t, comp.Unitary[sum].Inputs, []symtab.ID{a, b})
}

// component semi_fib(i: Int) -> (o: Int) { o = 0 fby i; } called as
// `fib = semi_fib(fib).o;` is a shifted causality loop: the argument fib
// is the caller's own defined id. Inlining must splice semi_fib's body in
// and turn the call statement into a plain read of its output.
func TestInlineShiftedLoopSplicesCalleeBody(t *testing.T) {
	syms := symtab.New()
	i, _ := syms.Fresh("i", symtab.KindSignal, ast.Pos{})
	o, _ := syms.Fresh("o", symtab.KindSignal, ast.Pos{})
	callee := &ir1.Component{
		ID:      20,
		Inputs:  []symtab.ID{i},
		Outputs: []symtab.ID{o},
		Statements: []*ir1.Statement{
			{Pattern: &ir1.IdentPattern{ID: o}, Expr: &ir1.FollowedBy{
				Init: &ir1.Const{Kind: ir1.ConstInt, Int: 0}, Next: i,
			}},
		},
	}

	fib, _ := syms.Fresh("fib", symtab.KindSignal, ast.Pos{})
	caller := &ir1.Component{
		ID:      21,
		Outputs: []symtab.ID{fib},
		Statements: []*ir1.Statement{
			{Pattern: &ir1.IdentPattern{ID: fib}, Expr: &ir1.ComponentApply{
				Component:      20,
				Inputs:         []ir1.ComponentArg{{Input: i, Value: ident(fib)}},
				SelectedOutput: o,
			}},
		},
	}

	reg := depgraph.NewRegistry([]*ir1.Component{callee, caller})
	bag := errors.NewBag()
	file := &ir1.File{Components: []*ir1.Component{callee, caller}}
	Synthesize(file, reg, bag)

	byID := map[symtab.ID]*ir1.Component{20: callee, 21: caller}
	gen := &ir1.IDGen{}
	InlineShiftedLoops(file, byID, syms, gen)

	stmts := caller.Unitary[fib].Statements
	require.Len(t, stmts, 2)
	fb, ok := stmts[0].Expr.(*ir1.FollowedBy)
	require.True(t, ok, "callee's fby should be spliced in verbatim (first statement)")
	assert.Equal(t, i, fb.Next)
	splicedPat, ok := stmts[0].Pattern.(*ir1.IdentPattern)
	require.True(t, ok)
	assert.NotEqual(t, o, splicedPat.ID, "callee's own local output id must be renamed fresh on splice")
	finalRef, ok := stmts[1].Expr.(*ir1.Ident)
	require.True(t, ok, "original call statement should now just read the inlined output")
	assert.Equal(t, splicedPat.ID, finalRef.ID)
}

// `n = tick fby n;` memorizes into a buffer read plus a registered Buffer
// entry; no FollowedBy should remain.
func TestMemorizeLocalConvertsFollowedByToBufferRead(t *testing.T) {
	tick, n := symtab.ID(1), symtab.ID(2)
	uc := &ir1.UnitaryComponent{
		Output: n,
		Inputs: []symtab.ID{tick},
		Statements: []*ir1.Statement{
			{Pattern: &ir1.IdentPattern{ID: n}, Expr: &ir1.FollowedBy{Init: ident(tick), Next: n}},
		},
		Memory: ir1.NewMemory(),
	}
	comp := &ir1.Component{ID: 30, Outputs: []symtab.ID{n}, Unitary: map[symtab.ID]*ir1.UnitaryComponent{n: uc}}
	syms := symtab.New()
	syms.Fresh("tick", symtab.KindSignal, ast.Pos{})
	syms.Fresh("n", symtab.KindSignal, ast.Pos{})
	gen := &ir1.IDGen{}

	MemorizeLocal(&ir1.File{Components: []*ir1.Component{comp}}, syms, gen)

	require.Len(t, uc.Statements, 1)
	ref, ok := uc.Statements[0].Expr.(*ir1.Ident)
	require.True(t, ok)
	assert.Len(t, uc.Memory.Buffers, 1)
	buf, ok := uc.Memory.Buffers[ref.ID]
	require.True(t, ok, "the statement should now read exactly the buffer it registered")
	assert.Equal(t, n, buf.Target)
}

// Inlining the same callee at two call sites in one caller must not let
// the two spliced copies of its local output collide: each splice mints
// its own fresh id, so `fib1 = semi_fib(fib1).o; fib2 = semi_fib(fib2).o;`
// ends up with two independent buffers, not one shared (and wrongly
// aliased) one.
func TestInlineShiftedLoopRenamesEachSpliceIndependently(t *testing.T) {
	syms := symtab.New()
	i, _ := syms.Fresh("i", symtab.KindSignal, ast.Pos{})
	o, _ := syms.Fresh("o", symtab.KindSignal, ast.Pos{})
	callee := &ir1.Component{
		ID:      20,
		Inputs:  []symtab.ID{i},
		Outputs: []symtab.ID{o},
		Statements: []*ir1.Statement{
			{Pattern: &ir1.IdentPattern{ID: o}, Expr: &ir1.FollowedBy{
				Init: &ir1.Const{Kind: ir1.ConstInt, Int: 0}, Next: i,
			}},
		},
	}

	fib1, _ := syms.Fresh("fib1", symtab.KindSignal, ast.Pos{})
	fib2, _ := syms.Fresh("fib2", symtab.KindSignal, ast.Pos{})
	caller := &ir1.Component{
		ID:      21,
		Outputs: []symtab.ID{fib1, fib2},
		Statements: []*ir1.Statement{
			{Pattern: &ir1.IdentPattern{ID: fib1}, Expr: &ir1.ComponentApply{
				Component: 20, Inputs: []ir1.ComponentArg{{Input: i, Value: ident(fib1)}}, SelectedOutput: o,
			}},
			{Pattern: &ir1.IdentPattern{ID: fib2}, Expr: &ir1.ComponentApply{
				Component: 20, Inputs: []ir1.ComponentArg{{Input: i, Value: ident(fib2)}}, SelectedOutput: o,
			}},
		},
	}

	reg := depgraph.NewRegistry([]*ir1.Component{callee, caller})
	bag := errors.NewBag()
	file := &ir1.File{Components: []*ir1.Component{callee, caller}}
	Synthesize(file, reg, bag)

	byID := map[symtab.ID]*ir1.Component{20: callee, 21: caller}
	gen := &ir1.IDGen{}
	assert.NotPanics(t, func() {
		InlineShiftedLoops(file, byID, syms, gen)
	})

	pat1 := caller.Unitary[fib1].Statements[0].Pattern.(*ir1.IdentPattern)
	pat2 := caller.Unitary[fib2].Statements[0].Pattern.(*ir1.IdentPattern)
	assert.NotEqual(t, pat1.ID, pat2.ID, "two inlined copies of the same callee must not share a spliced local id")
}

// rising(b) expands into `b && !(false fby b)`, with the inner fby
// memorized into a buffer.
func TestMemorizeLocalExpandsRisingEdge(t *testing.T) {
	bSig, y := symtab.ID(1), symtab.ID(2)
	uc := &ir1.UnitaryComponent{
		Output: y,
		Statements: []*ir1.Statement{
			{Pattern: &ir1.IdentPattern{ID: y}, Expr: &ir1.RisingEdge{Arg: ident(bSig)}},
		},
		Memory: ir1.NewMemory(),
	}
	comp := &ir1.Component{ID: 31, Outputs: []symtab.ID{y}, Unitary: map[symtab.ID]*ir1.UnitaryComponent{y: uc}}
	syms := symtab.New()
	syms.Fresh("b", symtab.KindSignal, ast.Pos{})
	syms.Fresh("y", symtab.KindSignal, ast.Pos{})
	gen := &ir1.IDGen{}

	MemorizeLocal(&ir1.File{Components: []*ir1.Component{comp}}, syms, gen)

	and, ok := uc.Statements[0].Expr.(*ir1.Binop)
	require.True(t, ok)
	assert.Equal(t, ir1.OpAnd, and.Op)
	assert.Len(t, uc.Memory.Buffers, 1)
}

// y = f(a + b, c).out must have its non-ident argument a + b lifted into
// its own preceding statement, while the bare ident c stays in place.
func TestFlattenLiftsNonIdentComponentApplyArguments(t *testing.T) {
	a, b, c, out := symtab.ID(1), symtab.ID(2), symtab.ID(3), symtab.ID(10)
	y := symtab.ID(4)
	sum := &ir1.Binop{Op: ir1.OpAdd, Left: ident(a), Right: ident(b)}
	uc := &ir1.UnitaryComponent{
		Output: y,
		Statements: []*ir1.Statement{
			{Pattern: &ir1.IdentPattern{ID: y}, Expr: &ir1.ComponentApply{
				Component:      99,
				Inputs:         []ir1.ComponentArg{{Input: 100, Value: sum}, {Input: 101, Value: ident(c)}},
				SelectedOutput: out,
			}},
		},
	}
	comp := &ir1.Component{ID: 40, Outputs: []symtab.ID{y}, Unitary: map[symtab.ID]*ir1.UnitaryComponent{y: uc}}
	syms := symtab.New()
	for _, n := range []string{"a", "b", "c", "y"} {
		syms.Fresh(n, symtab.KindSignal, ast.Pos{})
	}
	gen := &ir1.IDGen{}

	Flatten(&ir1.File{Components: []*ir1.Component{comp}}, syms, gen)

	require.Len(t, uc.Statements, 2, "the sum argument should be lifted into its own preceding statement")
	lifted := uc.Statements[0]
	_, isBinop := lifted.Expr.(*ir1.Binop)
	assert.True(t, isBinop)

	ca, ok := uc.Statements[1].Expr.(*ir1.ComponentApply)
	require.True(t, ok)
	for _, arg := range ca.Inputs {
		_, isIdent := arg.Value.(*ir1.Ident)
		assert.True(t, isIdent, "every ComponentApply argument must be an Ident after flattening")
	}
}

// Two independent components that each happen to declare an output named
// "o" and memorize it (e.g. two copies of `component counter(tick: Int) ->
// (o: Int) { o = tick fby o; }` in one file) must not collide when
// MemorizeLocal registers each one's "__mem_o" buffer: RegisterMemory scopes
// its uniqueness check to the producing signal's owning component, not
// whatever scope is active by the time normalization runs.
func TestMemorizeLocalDoesNotCollideAcrossComponentsWithSameSignalName(t *testing.T) {
	syms := symtab.New()

	compA, _ := syms.Fresh("counterA", symtab.KindComponent, ast.Pos{})
	syms.EnterComponent(compA)
	tickA, _ := syms.Fresh("tick", symtab.KindSignal, ast.Pos{})
	oA, _ := syms.Fresh("o", symtab.KindSignal, ast.Pos{})
	syms.LeaveComponent()
	ucA := &ir1.UnitaryComponent{
		Output: oA,
		Inputs: []symtab.ID{tickA},
		Statements: []*ir1.Statement{
			{Pattern: &ir1.IdentPattern{ID: oA}, Expr: &ir1.FollowedBy{Init: ident(tickA), Next: oA}},
		},
		Memory: ir1.NewMemory(),
	}
	compADef := &ir1.Component{ID: compA, Outputs: []symtab.ID{oA}, Unitary: map[symtab.ID]*ir1.UnitaryComponent{oA: ucA}}

	compB, _ := syms.Fresh("counterB", symtab.KindComponent, ast.Pos{})
	syms.EnterComponent(compB)
	tickB, _ := syms.Fresh("tick", symtab.KindSignal, ast.Pos{})
	oB, _ := syms.Fresh("o", symtab.KindSignal, ast.Pos{})
	syms.LeaveComponent()
	ucB := &ir1.UnitaryComponent{
		Output: oB,
		Inputs: []symtab.ID{tickB},
		Statements: []*ir1.Statement{
			{Pattern: &ir1.IdentPattern{ID: oB}, Expr: &ir1.FollowedBy{Init: ident(tickB), Next: oB}},
		},
		Memory: ir1.NewMemory(),
	}
	compBDef := &ir1.Component{ID: compB, Outputs: []symtab.ID{oB}, Unitary: map[symtab.ID]*ir1.UnitaryComponent{oB: ucB}}

	gen := &ir1.IDGen{}
	file := &ir1.File{Components: []*ir1.Component{compADef, compBDef}}

	assert.NotPanics(t, func() {
		MemorizeLocal(file, syms, gen)
	})

	require.Len(t, ucA.Memory.Buffers, 1)
	require.Len(t, ucB.Memory.Buffers, 1)
	var memA, memB symtab.ID
	for id := range ucA.Memory.Buffers {
		memA = id
	}
	for id := range ucB.Memory.Buffers {
		memB = id
	}
	assert.NotEqual(t, memA, memB, "each component's memory buffer must get a distinct id")
}

func TestVerifyPanicsOnSurvivingFollowedBy(t *testing.T) {
	n := symtab.ID(1)
	uc := &ir1.UnitaryComponent{
		Output: n,
		Statements: []*ir1.Statement{
			{Pattern: &ir1.IdentPattern{ID: n}, Expr: &ir1.FollowedBy{Init: ident(n), Next: n}},
		},
	}
	comp := &ir1.Component{ID: 50, Outputs: []symtab.ID{n}, Unitary: map[symtab.ID]*ir1.UnitaryComponent{n: uc}}

	assert.Panics(t, func() {
		Verify(&ir1.File{Components: []*ir1.Component{comp}}, errors.NewBag())
	})
}
