package ast

import "fmt"

// NamedType refers to a builtin (Int/Float/Bool/Unit) or user typedef by
// name; resolution to a gtypes.Typ happens during lowering.
type NamedType struct {
	Name string
	Pos  Pos
}

func (n *NamedType) String() string { return n.Name }
func (n *NamedType) Position() Pos  { return n.Pos }
func (n *NamedType) typeNode()      {}

// ArrayType is `[T; n]`.
type ArrayType struct {
	Elem TypeExpr
	Size int
	Pos  Pos
}

func (a *ArrayType) String() string { return fmt.Sprintf("[%s; %d]", a.Elem, a.Size) }
func (a *ArrayType) Position() Pos  { return a.Pos }
func (a *ArrayType) typeNode()      {}

// TupleType is `(T1, T2, ...)`.
type TupleType struct {
	Elems []TypeExpr
	Pos   Pos
}

func (t *TupleType) String() string { return "(...)" }
func (t *TupleType) Position() Pos  { return t.Pos }
func (t *TupleType) typeNode()      {}

// OptionType is `T?`, the surface form for an event.
type OptionType struct {
	Elem TypeExpr
	Pos  Pos
}

func (o *OptionType) String() string { return fmt.Sprintf("%s?", o.Elem) }
func (o *OptionType) Position() Pos  { return o.Pos }
func (o *OptionType) typeNode()      {}

// FuncType is `(T1, T2) -> T`.
type FuncType struct {
	Params []TypeExpr
	Result TypeExpr
	Pos    Pos
}

func (f *FuncType) String() string { return "fn(...)" }
func (f *FuncType) Position() Pos  { return f.Pos }
func (f *FuncType) typeNode()      {}
