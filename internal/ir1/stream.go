package ir1

import "github.com/grust-lang/grustc-core/internal/symtab"

// StreamExpr adds the synchronous-only forms to Expr (spec.md §3). Every
// StreamExpr is also an Expr so it can be the RHS of a Statement directly.
type StreamExpr interface {
	Expr
	streamExprNode()
}

// Pure wraps a plain Expr as the trivial StreamExpr case.
type Pure struct {
	Node
	Inner Expr
}

func (*Pure) exprNode()       {}
func (*Pure) streamExprNode() {}

// FollowedBy is `init fby next`, eliminated by memorisation (spec.md
// §4.6.3): after normalisation no FollowedBy survives in a component.
type FollowedBy struct {
	Node
	Init Expr
	Next symtab.ID
}

func (*FollowedBy) exprNode()       {}
func (*FollowedBy) streamExprNode() {}

type SomeEvent struct {
	Node
	Inner Expr
}

func (*SomeEvent) exprNode()       {}
func (*SomeEvent) streamExprNode() {}

type NoneEvent struct {
	Node
}

func (*NoneEvent) exprNode()       {}
func (*NoneEvent) streamExprNode() {}

// RisingEdge is expanded during memorisation into `arg && !(false fby
// arg)`; after normalisation no RisingEdge survives (spec.md invariant).
type RisingEdge struct {
	Node
	Arg Expr
}

func (*RisingEdge) exprNode()       {}
func (*RisingEdge) streamExprNode() {}

// ComponentArg binds one formal input to an argument expression.
type ComponentArg struct {
	Input symtab.ID
	Value Expr
}

// ComponentApply invokes a component. Memory is assigned by memorisation;
// SelectedOutput is fixed by unitary-component synthesis. After
// normalisation every ComponentApply is the entire RHS of its statement
// and every Value in Inputs is an *Ident (spec.md §4.6.4 post-condition).
type ComponentApply struct {
	Node
	Component      symtab.ID
	Inputs         []ComponentArg
	SelectedOutput symtab.ID
	Memory         symtab.ID // symtab.NoID until memorisation assigns one
}

func (*ComponentApply) exprNode()       {}
func (*ComponentApply) streamExprNode() {}
