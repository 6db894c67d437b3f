package ast

import "fmt"

// Literal kinds.
type Literal struct {
	Kind  LitKind
	Int   int64
	Float float64
	Bool  bool
	Pos   Pos
}

type LitKind int

const (
	LitInt LitKind = iota
	LitFloat
	LitBool
	LitUnit
)

func (l *Literal) String() string { return fmt.Sprintf("%v", l.Kind) }
func (l *Literal) Position() Pos  { return l.Pos }
func (l *Literal) exprNode()      {}

type BinOp string

const (
	OpAdd BinOp = "+"
	OpSub BinOp = "-"
	OpMul BinOp = "*"
	OpDiv BinOp = "/"
	OpEq  BinOp = "=="
	OpNeq BinOp = "!="
	OpLt  BinOp = "<"
	OpLte BinOp = "<="
	OpGt  BinOp = ">"
	OpGte BinOp = ">="
	OpAnd BinOp = "&&"
	OpOr  BinOp = "||"
)

type UnOp string

const (
	OpNeg UnOp = "-"
	OpNot UnOp = "!"
)

// Binop is a binary operator application.
type Binop struct {
	Op    BinOp
	Left  Expr
	Right Expr
	Pos   Pos
}

func (b *Binop) String() string { return fmt.Sprintf("(%s %s %s)", b.Left, b.Op, b.Right) }
func (b *Binop) Position() Pos  { return b.Pos }
func (b *Binop) exprNode()      {}

// Unop is a unary operator application.
type Unop struct {
	Op   UnOp
	Expr Expr
	Pos  Pos
}

func (u *Unop) String() string { return fmt.Sprintf("(%s%s)", u.Op, u.Expr) }
func (u *Unop) Position() Pos  { return u.Pos }
func (u *Unop) exprNode()      {}

// IfThenElse is a conditional expression.
type IfThenElse struct {
	Cond Expr
	Then Expr
	Else Expr
	Pos  Pos
}

func (i *IfThenElse) String() string { return "if" }
func (i *IfThenElse) Position() Pos  { return i.Pos }
func (i *IfThenElse) exprNode()      {}

// Application is a function call. Fn may be an Ident naming a top-level
// function, or (after lowering a ComponentApply surface form) a component
// name resolved during lowering.
type Application struct {
	Fn   Expr
	Args []Expr
	Pos  Pos
}

func (a *Application) String() string { return fmt.Sprintf("%s(...)", a.Fn) }
func (a *Application) Position() Pos  { return a.Pos }
func (a *Application) exprNode()      {}

// Array is an array literal.
type Array struct {
	Elems []Expr
	Pos   Pos
}

func (a *Array) String() string { return "array" }
func (a *Array) Position() Pos  { return a.Pos }
func (a *Array) exprNode()      {}

// Tuple is a tuple literal.
type Tuple struct {
	Elems []Expr
	Pos   Pos
}

func (t *Tuple) String() string { return "tuple" }
func (t *Tuple) Position() Pos  { return t.Pos }
func (t *Tuple) exprNode()      {}

// TupleElem projects the idx-th element of a tuple-valued expression.
type TupleElem struct {
	Tuple Expr
	Index int
	Pos   Pos
}

func (t *TupleElem) String() string { return fmt.Sprintf("%s.%d", t.Tuple, t.Index) }
func (t *TupleElem) Position() Pos  { return t.Pos }
func (t *TupleElem) exprNode()      {}

// FieldAccess projects a struct field.
type FieldAccess struct {
	Struct Expr
	Field  string
	Pos    Pos
}

func (f *FieldAccess) String() string { return fmt.Sprintf("%s.%s", f.Struct, f.Field) }
func (f *FieldAccess) Position() Pos  { return f.Pos }
func (f *FieldAccess) exprNode()      {}

// Structure is a struct literal.
type Structure struct {
	Typedef string
	Fields  []StructFieldInit
	Pos     Pos
}

type StructFieldInit struct {
	Field string
	Value Expr
}

func (s *Structure) String() string { return s.Typedef + "{...}" }
func (s *Structure) Position() Pos  { return s.Pos }
func (s *Structure) exprNode()      {}

// Enumeration is a reference to an enum variant, e.g. Color::Red.
type Enumeration struct {
	Enum    string
	Variant string
	Pos     Pos
}

func (e *Enumeration) String() string { return e.Enum + "::" + e.Variant }
func (e *Enumeration) Position() Pos  { return e.Pos }
func (e *Enumeration) exprNode()      {}

// Map applies fn elementwise to arr.
type Map struct {
	Arr Expr
	Fn  Expr
	Pos Pos
}

func (m *Map) String() string { return "map" }
func (m *Map) Position() Pos  { return m.Pos }
func (m *Map) exprNode()      {}

// Sort sorts arr according to a comparator function.
type Sort struct {
	Arr Expr
	Cmp Expr
	Pos Pos
}

func (s *Sort) String() string { return "sort" }
func (s *Sort) Position() Pos  { return s.Pos }
func (s *Sort) exprNode()      {}

// Fold left-folds arr with a step function and an initial accumulator.
type Fold struct {
	Init Expr
	Step Expr
	Arr  Expr
	Pos  Pos
}

func (f *Fold) String() string { return "fold" }
func (f *Fold) Position() Pos  { return f.Pos }
func (f *Fold) exprNode()      {}

// Zip combines several arrays elementwise into an array of tuples.
type Zip struct {
	Arrs []Expr
	Pos  Pos
}

func (z *Zip) String() string { return "zip" }
func (z *Zip) Position() Pos  { return z.Pos }
func (z *Zip) exprNode()      {}

// When is the event-eliminator: binder is bound to the present value when
// Opt carries Some, otherwise Default is used.
type When struct {
	Opt     Expr
	Binder  string
	Present Expr
	Default Expr
	Pos     Pos
}

func (w *When) String() string { return "when" }
func (w *When) Position() Pos  { return w.Pos }
func (w *When) exprNode()      {}

// --- stream expressions ---

// Pure wraps a plain Expr as a StreamExpr (the identity embedding used
// whenever a statement's RHS has no stream-only form).
type Pure struct {
	Inner Expr
	Pos   Pos
}

func (p *Pure) String() string    { return p.Inner.String() }
func (p *Pure) Position() Pos     { return p.Pos }
func (p *Pure) exprNode()         {}
func (p *Pure) streamExprNode()   {}

// FollowedBy is `init fby next`: Init at tick 0, next's previous value
// thereafter.
type FollowedBy struct {
	Init Expr
	Next *Ident
	Pos  Pos
}

func (f *FollowedBy) String() string  { return fmt.Sprintf("%s fby %s", f.Init, f.Next) }
func (f *FollowedBy) Position() Pos   { return f.Pos }
func (f *FollowedBy) exprNode()       {}
func (f *FollowedBy) streamExprNode() {}

// SomeEvent / NoneEvent are event literals.
type SomeEvent struct {
	Inner Expr
	Pos   Pos
}

func (s *SomeEvent) String() string  { return fmt.Sprintf("Some(%s)", s.Inner) }
func (s *SomeEvent) Position() Pos   { return s.Pos }
func (s *SomeEvent) exprNode()       {}
func (s *SomeEvent) streamExprNode() {}

type NoneEvent struct {
	Pos Pos
}

func (n *NoneEvent) String() string  { return "None" }
func (n *NoneEvent) Position() Pos   { return n.Pos }
func (n *NoneEvent) exprNode()       {}
func (n *NoneEvent) streamExprNode() {}

// RisingEdge is expanded during normalisation into `arg && !(false fby
// arg)`; it must not survive past memorisation (spec.md invariant).
type RisingEdge struct {
	Arg Expr
	Pos Pos
}

func (r *RisingEdge) String() string  { return fmt.Sprintf("rising_edge(%s)", r.Arg) }
func (r *RisingEdge) Position() Pos   { return r.Pos }
func (r *RisingEdge) exprNode()       {}
func (r *RisingEdge) streamExprNode() {}

// ComponentApply invokes a multi-output component. SelectedOutput names
// the output the application reads, or is empty when none is selected;
// lowering resolves it against the callee's declared outputs.
type ComponentApply struct {
	Component      string
	Inputs         []ComponentArg
	SelectedOutput string // "" when no output is selected
	Pos            Pos
}

type ComponentArg struct {
	Input string
	Value Expr
}

func (c *ComponentApply) String() string  { return c.Component + "(...)" }
func (c *ComponentApply) Position() Pos   { return c.Pos }
func (c *ComponentApply) exprNode()       {}
func (c *ComponentApply) streamExprNode() {}
