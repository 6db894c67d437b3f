// Package symtab implements the SymbolTable from spec.md §3/§4.1: dense
// integer identities for every named entity, scoped lookup, and the
// enter/leave-local-scope discipline mirrored from
// original_source/compiler/src/common/scope.rs.
package symtab

import (
	"fmt"

	"github.com/grust-lang/grustc-core/internal/ast"
	"github.com/grust-lang/grustc-core/internal/gtypes"
)

// ID is an opaque, dense identifier minted by the table, valid for the
// life of one compilation (spec.md §3).
type ID int

const NoID ID = 0

// SignalScope distinguishes where a Signal-kind entry lives.
type SignalScope int

const (
	ScopeInput SignalScope = iota
	ScopeOutput
	ScopeLocal
	ScopeVeryLocal
)

// Kind is the closed tagged variant of entity kinds from spec.md §3.
type Kind int

const (
	KindSignal Kind = iota
	KindFunctionParam
	KindFunction
	KindComponent
	KindTypedefStruct
	KindTypedefEnum
	KindTypedefArrayAlias
	KindMemoryBuffer
	KindMemoryCalledComponent
	KindStructField
)

func (k Kind) String() string {
	switch k {
	case KindSignal:
		return "Signal"
	case KindFunctionParam:
		return "FunctionParam"
	case KindFunction:
		return "Function"
	case KindComponent:
		return "Component"
	case KindTypedefStruct:
		return "Typedef.Struct"
	case KindTypedefEnum:
		return "Typedef.Enum"
	case KindTypedefArrayAlias:
		return "Typedef.ArrayAlias"
	case KindMemoryBuffer:
		return "Memory.Buffer"
	case KindMemoryCalledComponent:
		return "Memory.CalledComponent"
	case KindStructField:
		return "Typedef.StructField"
	default:
		return "Unknown"
	}
}

// FunctionInfo holds Function-kind specific data.
type FunctionInfo struct {
	Inputs []ID
	Output gtypes.Typ
}

// ComponentInfo holds Component-kind specific data.
type ComponentInfo struct {
	Inputs   []ID
	Outputs  []ID
	Memories []ID
}

// TypedefInfo holds Typedef-kind specific data, discriminated by Kind.
type TypedefInfo struct {
	Fields   []ID       // Struct
	Variants []string   // Enum
	Elem     gtypes.Typ // ArrayAlias
	Size     int        // ArrayAlias
}

// MemoryInfo holds Memory-kind specific data.
type MemoryInfo struct {
	CalledComponent ID // set only for KindMemoryCalledComponent
}

// Symbol is one entry of the table.
type Symbol struct {
	ID              ID
	Name            string
	Kind            Kind
	Type            gtypes.Typ // nil until the type checker assigns one
	SignalScope     SignalScope
	ParentComponent ID // NoID outside a component scope
	Loc             ast.Pos

	Function  *FunctionInfo
	Component *ComponentInfo
	Typedef   *TypedefInfo
	Memory    *MemoryInfo
}

// RedeclarationError is returned by Fresh when name already exists in the
// active scope.
type RedeclarationError struct {
	Name     string
	Previous ID
}

func (e *RedeclarationError) Error() string {
	return fmt.Sprintf("redeclaration of %q (previously id %d)", e.Name, e.Previous)
}

// scope is one frame of the lookup chain: global, or one component's
// locals (inputs+outputs+locals), per original_source's scope.rs.
type scope struct {
	names map[string]ID
}

func newScope() *scope { return &scope{names: map[string]ID{}} }

// SymbolTable owns every Symbol created during one compilation.
type SymbolTable struct {
	symbols   []*Symbol // index 0 unused so zero value ID means "none"
	global    *scope
	stack     []*scope // component-local frames; lookup checks top-of-stack then global
	curParent ID

	// owned persists each component/function's local scope across the
	// declare and lower sweeps: declareComponents binds inputs/outputs
	// while owning the scope, lowerComponent re-enters the same scope to
	// add locals, so names bound in sweep 1 are still visible in sweep 2.
	owned map[ID]*scope
}

// New returns an empty SymbolTable with the global scope active.
func New() *SymbolTable {
	return &SymbolTable{
		symbols: make([]*Symbol, 1),
		global:  newScope(),
		owned:   map[ID]*scope{},
	}
}

func (t *SymbolTable) activeScope() *scope {
	if len(t.stack) > 0 {
		return t.stack[len(t.stack)-1]
	}
	return t.global
}

// Fresh mints a new identifier bound to name in the active scope. A
// duplicate name in the same scope yields a RedeclarationError.
func (t *SymbolTable) Fresh(name string, kind Kind, loc ast.Pos) (ID, error) {
	sc := t.activeScope()
	if prev, ok := sc.names[name]; ok {
		return NoID, &RedeclarationError{Name: name, Previous: prev}
	}
	id := ID(len(t.symbols))
	sym := &Symbol{ID: id, Name: name, Kind: kind, Loc: loc, ParentComponent: t.curParent}
	t.symbols = append(t.symbols, sym)
	sc.names[name] = id
	return id, nil
}

// Lookup resolves name against the active scope first, then the global
// scope, per spec.md §4.1.
func (t *SymbolTable) Lookup(name string) (ID, bool) {
	if len(t.stack) > 0 {
		if id, ok := t.stack[len(t.stack)-1].names[name]; ok {
			return id, true
		}
	}
	id, ok := t.global.names[name]
	return id, ok
}

// LookupLocal resolves name against the active local scope only, without
// falling back to global. Used when lowering a statement pattern that may
// be defining an already-declared output signal rather than introducing
// a new local (spec.md §4.1/§4.2).
func (t *SymbolTable) LookupLocal(name string) (ID, bool) {
	if len(t.stack) == 0 {
		return NoID, false
	}
	id, ok := t.stack[len(t.stack)-1].names[name]
	return id, ok
}

// LookupIn resolves name against a specific component's declared inputs
// and outputs only (used by lowering to resolve a callee's formal inputs
// and selected output without disturbing the caller's active scope).
func (t *SymbolTable) LookupIn(compID ID, name string) (ID, bool) {
	sym := t.Get(compID)
	if sym == nil || sym.Kind != KindComponent {
		return NoID, false
	}
	for _, id := range append(append([]ID{}, sym.Component.Inputs...), sym.Component.Outputs...) {
		if t.Get(id).Name == name {
			return id, true
		}
	}
	return NoID, false
}

// EnterComponent pushes id's local frame, creating it on first entry and
// reusing the same frame on every later entry (declare and lower each
// enter a component's scope once). GRust components do not nest, so at
// most one frame is ever on the stack.
func (t *SymbolTable) EnterComponent(id ID) {
	if len(t.stack) > 0 {
		panic("internal: EnterComponent while a component scope is already active")
	}
	sc, ok := t.owned[id]
	if !ok {
		sc = newScope()
		t.owned[id] = sc
	}
	t.stack = append(t.stack, sc)
	t.curParent = id
}

// LeaveComponent pops the local frame, returning lookup to the global
// scope (spec.md §4.1 leave_local_back_to_global).
func (t *SymbolTable) LeaveComponent() {
	if len(t.stack) == 0 {
		panic("internal: LeaveComponent with no active component scope")
	}
	t.stack = t.stack[:len(t.stack)-1]
	t.curParent = NoID
}

// Bind registers an already-known name -> id mapping in the active scope
// (used when introducing a VeryLocal signal whose id was minted
// elsewhere, e.g. by pattern lowering).
func (t *SymbolTable) Bind(name string, id ID) error {
	sc := t.activeScope()
	if prev, ok := sc.names[name]; ok {
		return &RedeclarationError{Name: name, Previous: prev}
	}
	sc.names[name] = id
	return nil
}

// Get returns the Symbol for id, or nil if id is NoID or out of range.
func (t *SymbolTable) Get(id ID) *Symbol {
	if id == NoID || int(id) >= len(t.symbols) {
		return nil
	}
	return t.symbols[id]
}

// GetType returns the resolved type of id, or nil if unset.
func (t *SymbolTable) GetType(id ID) gtypes.Typ {
	sym := t.Get(id)
	if sym == nil {
		return nil
	}
	return sym.Type
}

// SetType assigns id's type. Setting a type that was already assigned to
// a non-equal value is an internal invariant violation per spec.md §4.1
// and is never surfaced to the user as a diagnostic — it panics.
func (t *SymbolTable) SetType(id ID, typ gtypes.Typ) {
	sym := t.Get(id)
	if sym == nil {
		panic(fmt.Sprintf("internal: SetType on unknown id %d", id))
	}
	if sym.Type != nil && !gtypes.Equal(sym.Type, typ) {
		panic(fmt.Sprintf("internal: SetType(%d) conflicting reassignment: had %s, got %s", id, sym.Type, typ))
	}
	sym.Type = typ
}

// FreshIn mints name in compID's persisted scope regardless of which scope
// happens to be active, reusing EnterComponent/LeaveComponent's existing
// "reuse the same owned frame" machinery rather than disturbing whatever
// frame (if any) is currently on the stack. compID == NoID mints in
// whatever scope is active (global, if none). Normalization runs every one
// of its sub-passes after lowering has already popped every component
// frame back to global, so this is how a pass that needs to bind a new
// name into a specific component's scope — RegisterMemory, or inlining's
// local-signal renaming — does so without colliding with an unrelated
// component that happens to reuse the same name.
func (t *SymbolTable) FreshIn(compID ID, name string, kind Kind, loc ast.Pos) (ID, error) {
	reentered := false
	if compID != NoID && len(t.stack) == 0 {
		t.EnterComponent(compID)
		reentered = true
	}
	id, err := t.Fresh(name, kind, loc)
	if reentered {
		t.LeaveComponent()
	}
	return id, err
}

// RegisterMemory mints a fresh identifier tied to a specific statement's
// producing id, per spec.md §4.1 register_memory. The synthetic name is
// bound in forID's owning component scope via FreshIn, not whatever scope
// happens to be active: two unrelated components are free to each declare
// a signal with the same name, and "__mem_<name>" must not collide across
// them just because both components' frames have since been vacated.
func (t *SymbolTable) RegisterMemory(forID ID, kind Kind, loc ast.Pos) (ID, error) {
	sym := t.Get(forID)
	name := fmt.Sprintf("__mem_%s", sym.Name)

	id, err := t.FreshIn(sym.ParentComponent, name, kind, loc)
	if err != nil {
		// within one component's scope, a name collision here is an
		// internal bug (the producing signal's own name was already
		// unique in that scope), not a user error.
		panic(fmt.Sprintf("internal: synthetic memory name collision for %q: %v", name, err))
	}
	t.symbols[id].Memory = &MemoryInfo{}
	return id, nil
}

// All returns every symbol in creation order (index 0 skipped).
func (t *SymbolTable) All() []*Symbol {
	return append([]*Symbol(nil), t.symbols[1:]...)
}
