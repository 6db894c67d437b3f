package ast

import "fmt"

// ServiceDecl is the top-level layer wiring components to external
// signal/event endpoints with timing operators.
type ServiceDecl struct {
	Imports []*ImportDecl
	Exports []*ExportDecl
	Flows   []*FlowStatement
	Pos     Pos
}

func (s *ServiceDecl) String() string { return "service" }
func (s *ServiceDecl) Position() Pos  { return s.Pos }

// ImportDecl brings an external signal or event into scope.
type ImportDecl struct {
	IsEvent bool
	Path    string
	Type    TypeExpr
	Pos     Pos
}

func (i *ImportDecl) String() string { return "import " + i.Path }
func (i *ImportDecl) Position() Pos  { return i.Pos }

// ExportDecl sends a local signal or event to an external endpoint.
type ExportDecl struct {
	IsEvent bool
	Path    string
	Local   string
	Pos     Pos
}

func (e *ExportDecl) String() string { return "export " + e.Path }
func (e *ExportDecl) Position() Pos  { return e.Pos }

// FlowStatement is `let pattern = flowExpr` at the service level.
type FlowStatement struct {
	Pattern Pattern
	Flow    FlowExpr
	Pos     Pos
}

func (f *FlowStatement) String() string { return "flow" }
func (f *FlowStatement) Position() Pos  { return f.Pos }

// FlowExpr is the closed variant of service-level flow combinators.
type FlowExpr interface {
	Node
	flowExprNode()
}

// FlowComponentApply invokes a component from the service layer.
type FlowComponentApply struct {
	Component string
	Inputs    []ComponentArg
	Pos       Pos
}

func (f *FlowComponentApply) String() string { return f.Component + "(...)" }
func (f *FlowComponentApply) Position() Pos  { return f.Pos }
func (f *FlowComponentApply) flowExprNode()  {}

// FlowOp is a timing/combination operator over one or two flows:
// sample, timeout, throttle, on_change, scan, merge.
type FlowOp struct {
	Kind     FlowOpKind
	Source   FlowExpr
	Other    FlowExpr // merge's second operand; nil otherwise
	Duration int64     // milliseconds, used by sample/timeout/throttle
	Pos      Pos
}

type FlowOpKind string

const (
	FlowSample   FlowOpKind = "sample"
	FlowScan     FlowOpKind = "scan"
	FlowTimeout  FlowOpKind = "timeout"
	FlowThrottle FlowOpKind = "throttle"
	FlowOnChange FlowOpKind = "on_change"
	FlowMerge    FlowOpKind = "merge"
)

func (f *FlowOp) String() string { return fmt.Sprintf("%s(...)", f.Kind) }
func (f *FlowOp) Position() Pos  { return f.Pos }
func (f *FlowOp) flowExprNode()  {}

// FlowIdent references a previously bound flow or an imported endpoint.
type FlowIdent struct {
	Name string
	Pos  Pos
}

func (f *FlowIdent) String() string { return f.Name }
func (f *FlowIdent) Position() Pos  { return f.Pos }
func (f *FlowIdent) flowExprNode()  {}
