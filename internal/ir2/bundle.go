// Package ir2 implements spec.md §4.8: materialising scheduled, normalised
// IR1 into the code-emission-ready structures a separate emitter consumes
// (Input/State struct shapes, init/step bodies, the service dispatcher).
// The core never emits source text itself; it only produces the blueprint
// values below, grounded on sunholo-data-ailang/internal/pipeline/
// pipeline.go's Artifacts/Result bundle (a plain struct holding everything
// a downstream phase needs) generalised from "AST/Core/Typed/Linked" to
// "Input/State/Step/Dispatch".
package ir2

import (
	"github.com/grust-lang/grustc-core/internal/gtypes"
	"github.com/grust-lang/grustc-core/internal/ir1"
	"github.com/grust-lang/grustc-core/internal/symtab"
)

// Field is one named, typed slot of an Input or State struct.
type Field struct {
	Name string
	ID   symtab.ID
	Type gtypes.Typ
}

// CalledField is a State struct field holding a callee's nested state.
type CalledField struct {
	Name         string
	ID           symtab.ID // the memory id minted for this call site
	Callee       symtab.ID // the callee component
	CalleeOutput symtab.ID // which unitary variant of the callee this call site targets
}

// InitAssign is one field-by-field State initialiser, emitted in `init()`.
type InitAssign struct {
	Buffer symtab.ID
	Field  string
	Value  ir1.Expr // closed by construction (spec.md §4.6.3)
}

// BufferUpdate is one post-step State mutation: `self.<Field> =
// <value-of-Target>`, emitted after every user statement in `step()`.
type BufferUpdate struct {
	Buffer symtab.ID
	Field  string
	Target symtab.ID
}

// RefKind classifies what an Ident occurring in a component's scheduled
// statements resolves to once materialised into a step body (spec.md
// §4.8: "rewrite Ident(x) referencing an input as input.x, referencing a
// buffer as self.m, referencing a called-component state as self.mem").
type RefKind int

const (
	// RefLocal is a plain statement-local binding: no rewrite, it stays a
	// local variable of the step function.
	RefLocal RefKind = iota
	RefInput
	RefBuffer
	RefCalledState
)

// Ref is the resolution of one symtab.ID inside a ComponentBlueprint's
// step body.
type Ref struct {
	Kind RefKind
	Name string // field/input name for RefInput, RefBuffer, RefCalledState
}

// ComponentBlueprint is the IR2 materialisation of one UnitaryComponent.
type ComponentBlueprint struct {
	Component symtab.ID
	Output    symtab.ID
	OutputType gtypes.Typ

	Input []Field
	// State mirrors spec.md §4.8: "one field per memory buffer and one
	// nested field per called-component memory typed by that callee's
	// State".
	StateBuffers []Field
	StateCalled  []CalledField

	Init []InitAssign

	// Step is the scheduled statement list (UnitaryComponent.ScheduleOrder)
	// exactly as produced by internal/schedule; materialisation does not
	// rebuild the expression trees, it only supplies Resolve so an emitter
	// knows how each Ident renders.
	Step []*ir1.Statement

	// PostStep are the buffer updates emitted after every Step statement
	// has run (spec.md §4.8 "post-step state update").
	PostStep []BufferUpdate

	inputSet  map[symtab.ID]string
	bufferSet map[symtab.ID]string
	calledSet map[symtab.ID]string
}

// Resolve reports how id, read anywhere in this blueprint's Step
// statements, should render in emitted code.
func (b *ComponentBlueprint) Resolve(id symtab.ID) Ref {
	if name, ok := b.inputSet[id]; ok {
		return Ref{Kind: RefInput, Name: name}
	}
	if name, ok := b.bufferSet[id]; ok {
		return Ref{Kind: RefBuffer, Name: name}
	}
	if name, ok := b.calledSet[id]; ok {
		return Ref{Kind: RefCalledState, Name: name}
	}
	return Ref{Kind: RefLocal}
}

// Bundle is the full-file IR2 output: one ComponentBlueprint per unitary
// variant of every component, plus the service dispatcher blueprint.
type Bundle struct {
	Components []*ComponentBlueprint
	Dispatch   *DispatchBlueprint
}
