package ir1

import "github.com/grust-lang/grustc-core/internal/symtab"

// Import/Export are service-level endpoint bindings (spec.md §3
// Service/Interface).
type Import struct {
	ID      symtab.ID
	IsEvent bool
	Path    string
}

type Export struct {
	IsEvent bool
	Path    string
	Local   symtab.ID
}

// FlowExpr is the closed variant of service-level flow combinators.
type FlowExpr interface {
	flowExprNode()
}

// FlowComponentApply invokes a component from the service layer.
type FlowComponentApply struct {
	Component symtab.ID
	Inputs    []ComponentArg
}

func (*FlowComponentApply) flowExprNode() {}

type FlowOpKind string

const (
	FlowSample   FlowOpKind = "sample"
	FlowScan     FlowOpKind = "scan"
	FlowTimeout  FlowOpKind = "timeout"
	FlowThrottle FlowOpKind = "throttle"
	FlowOnChange FlowOpKind = "on_change"
	FlowMerge    FlowOpKind = "merge"
)

// FlowOp is a timing/combination operator over one or two flows.
type FlowOp struct {
	Kind     FlowOpKind
	Source   FlowExpr
	Other    FlowExpr // merge's second operand; nil otherwise
	Duration int64     // milliseconds
}

func (*FlowOp) flowExprNode() {}

// FlowIdent references a previously bound flow or an imported endpoint.
type FlowIdent struct {
	ID symtab.ID
}

func (*FlowIdent) flowExprNode() {}

// FlowStatement is `let pattern = flow` at the service level.
type FlowStatement struct {
	Pattern Pattern
	Flow    FlowExpr
}

// Service is the top-level dispatcher wiring external flows and timers to
// component steps (spec.md glossary).
type Service struct {
	Imports []*Import
	Exports []*Export
	Flows   []*FlowStatement
}
