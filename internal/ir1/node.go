// Package ir1 is the typed intermediate representation produced by
// lowering (spec.md §3, §4.2) and mutated in place by every later pass.
// Node shape is grounded on sunholo-data-ailang/internal/core/core.go's
// CoreNode embedding (a stable id plus span, shared by every node kind)
// generalised from ANF Core to GRust's stream/signal IR.
package ir1

import (
	"github.com/grust-lang/grustc-core/internal/ast"
	"github.com/grust-lang/grustc-core/internal/gtypes"
	"github.com/grust-lang/grustc-core/internal/label"
	"github.com/grust-lang/grustc-core/internal/symtab"
)

// DepEdge is one entry of a node's write-once dependency set: "this node
// depends on target with this label" (spec.md §4.4).
type DepEdge struct {
	Target symtab.ID
	Label  label.Label
}

// DepsCell is the OnceCell<Vec<(usize, Label)>> design from spec.md §9,
// grounded on original_source/compiler/src/hir/dependencies.rs: set
// exactly once by the dependency analyser, read many times by later
// passes. A second Set is an internal invariant violation, never a
// user-facing error.
type DepsCell struct {
	set   bool
	edges []DepEdge
}

// Set records the computed dependency edges. Panics if already set.
func (c *DepsCell) Set(edges []DepEdge) {
	if c.set {
		panic("internal: DepsCell set twice")
	}
	c.edges = edges
	c.set = true
}

// Get returns the recorded edges and whether Set has been called.
func (c *DepsCell) Get() ([]DepEdge, bool) { return c.edges, c.set }

// Node is the base embedded in every IR1 node: a stable id assigned by
// the lowering pass, the originating surface position, and a write-once
// type slot filled by the type checker (spec.md §3 "Every Expr node
// carries an optional typing slot").
type Node struct {
	NodeID  uint64
	Pos     ast.Pos
	typing  gtypes.Typ
	Deps    DepsCell
}

func (n *Node) ID() uint64         { return n.NodeID }
func (n *Node) Position() ast.Pos  { return n.Pos }
func (n *Node) Typing() gtypes.Typ { return n.typing }

// SetTyping assigns this node's type exactly once; a second call with a
// different type is an internal invariant violation (spec.md §4.1 mirrors
// the same rule for symtab.SetType).
func (n *Node) SetTyping(t gtypes.Typ) {
	if n.typing != nil && !gtypes.Equal(n.typing, t) {
		panic("internal: conflicting Expr.SetTyping")
	}
	n.typing = t
}

// Expr is the interface every IR1 expression node implements.
type Expr interface {
	ID() uint64
	Position() ast.Pos
	Typing() gtypes.Typ
	exprNode()
}

// IDGen mints the monotonically increasing NodeIDs shared by every node
// created during lowering and normalisation, mirroring
// elaborate.Elaborator's `nextID uint64` counter.
type IDGen struct{ next uint64 }

func (g *IDGen) Fresh() uint64 {
	g.next++
	return g.next
}

// SeedAfter advances the generator past last, so node ids minted from it
// (by internal/normalize's inlining and flattening sub-passes, which run
// after lowering's own generator has gone out of scope) never collide with
// ids lowering already handed out.
func (g *IDGen) SeedAfter(last uint64) {
	if last > g.next {
		g.next = last
	}
}
