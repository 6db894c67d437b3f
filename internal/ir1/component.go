package ir1

import (
	"github.com/grust-lang/grustc-core/internal/ast"
	"github.com/grust-lang/grustc-core/internal/symtab"
)

// Dependency graphs are computed by internal/depgraph, which necessarily
// imports ir1 to walk these node types; ir1 therefore cannot hold a
// *depgraph.Graph field without an import cycle. Instead internal/
// depgraph keeps its own registry keyed by component id — which also
// matches spec.md §5's own description ("reduced graphs are cloned into a
// global ReducedGraphs map when a caller needs one") more directly than an
// embedded field would.

// Statement binds every identifier of Pattern to the (possibly tuple
// shaped) projection of Expr's value (spec.md §3).
type Statement struct {
	Pattern Pattern
	Expr    Expr
	Pos     ast.Pos
}

// DefinedIDs returns the ids this statement's pattern binds, used by the
// scheduler's deterministic tie-break (spec.md §4.7: "minimum defined-Id
// of each statement").
func (s *Statement) DefinedIDs() []symtab.ID { return BoundIdents(s.Pattern) }

// Buffer is the per-component state created by memorisation to represent
// one `fby` (spec.md §4.6.3).
type Buffer struct {
	Init   Expr
	Target symtab.ID // the `next` identifier this buffer tracks
}

// Memory is a component's per-instance state: buffers for `fby`/rising
// edges, plus one nested callee state per non-pure component application.
type Memory struct {
	Buffers         map[symtab.ID]*Buffer
	CalledComponent map[symtab.ID]symtab.ID // memory id -> callee component id
}

func NewMemory() *Memory {
	return &Memory{Buffers: map[symtab.ID]*Buffer{}, CalledComponent: map[symtab.ID]symtab.ID{}}
}

// Component is a synchronous dataflow state machine over named inputs,
// outputs, and local signals (spec.md §3, §4).
type Component struct {
	ID         symtab.ID
	Inputs     []symtab.ID
	Outputs    []symtab.ID
	Statements []*Statement
	Contract   []Expr
	Memory     *Memory

	// Unitary is filled by unitary-component synthesis (spec.md §4.6.1):
	// one entry per original output, keyed by that output's id.
	Unitary map[symtab.ID]*UnitaryComponent

	// ScheduleOrder is filled by the scheduler (spec.md §4.7); it is set
	// per UnitaryComponent, not on the multi-output Component itself,
	// since scheduling only ever runs after unitary synthesis.
}

// UnitaryComponent is a component with exactly one output and only the
// inputs/locals it transitively needs (spec.md glossary).
type UnitaryComponent struct {
	Output        symtab.ID
	Inputs        []symtab.ID // the subset of the original component's inputs this variant needs
	Statements    []*Statement
	Memory        *Memory
	ScheduleOrder []*Statement // filled by internal/schedule
}

// Function is a pure function declaration (spec.md §3).
type Function struct {
	ID     symtab.ID
	Inputs []symtab.ID
	Body   Expr
}

// Typedef mirrors symtab.TypedefInfo but keeps the declaring id at hand
// for IR-level passes that only see a *File.
type Typedef struct {
	ID symtab.ID
}

// File is a fully lowered compilation unit.
type File struct {
	Typedefs   []*Typedef
	Functions  []*Function
	Components []*Component
	Service    *Service
}
