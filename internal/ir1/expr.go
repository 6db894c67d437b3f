package ir1

import "github.com/grust-lang/grustc-core/internal/symtab"

// Const is a literal value.
type Const struct {
	Node
	Kind  ConstKind
	Int   int64
	Float float64
	Bool  bool
}

type ConstKind int

const (
	ConstInt ConstKind = iota
	ConstFloat
	ConstBool
	ConstUnit
)

func (*Const) exprNode() {}

// Ident is a resolved reference to a symbol-table entry.
type Ident struct {
	Node
	ID symtab.ID
}

func (*Ident) exprNode() {}

type UnOp string

const (
	OpNeg UnOp = "-"
	OpNot UnOp = "!"
)

type Unop struct {
	Node
	Op  UnOp
	Arg Expr
}

func (*Unop) exprNode() {}

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

type Binop struct {
	Node
	Op          BinOp
	Left, Right Expr
}

func (*Binop) exprNode() {}

type IfThenElse struct {
	Node
	Cond, Then, Else Expr
}

func (*IfThenElse) exprNode() {}

// Application is a pure function call.
type Application struct {
	Node
	Fn   symtab.ID
	Args []Expr
}

func (*Application) exprNode() {}

type Array struct {
	Node
	Elems []Expr
}

func (*Array) exprNode() {}

type Tuple struct {
	Node
	Elems []Expr
}

func (*Tuple) exprNode() {}

type TupleElem struct {
	Node
	Tuple Expr
	Index int
}

func (*TupleElem) exprNode() {}

// FieldAccess projects a struct field. Field cannot be resolved until the
// type checker knows Struct's type, so lowering leaves it symtab.NoID and
// records the surface name in FieldName; the type checker fills Field in
// once it has typed Struct (spec.md §4.3 struct-literal/field rules).
type FieldAccess struct {
	Node
	Struct    Expr
	FieldName string
	Field     symtab.ID
}

func (*FieldAccess) exprNode() {}

type FieldInit struct {
	Field symtab.ID
	Value Expr
}

type Structure struct {
	Node
	Typedef symtab.ID
	Fields  []FieldInit
}

func (*Structure) exprNode() {}

type Enumeration struct {
	Node
	Enum    symtab.ID
	Variant string
}

func (*Enumeration) exprNode() {}

type Map struct {
	Node
	Arr Expr
	Fn  Expr
}

func (*Map) exprNode() {}

type Sort struct {
	Node
	Arr Expr
	Cmp Expr
}

func (*Sort) exprNode() {}

type Fold struct {
	Node
	Init Expr
	Step Expr
	Arr  Expr
}

func (*Fold) exprNode() {}

type Zip struct {
	Node
	Arrs []Expr
}

func (*Zip) exprNode() {}

// When is the event eliminator: Binder is bound to the present value
// while typing/evaluating Present; Default is used when Opt is None.
type When struct {
	Node
	Opt     Expr
	Binder  symtab.ID
	Present Expr
	Default Expr
}

func (*When) exprNode() {}
