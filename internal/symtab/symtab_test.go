package symtab

import (
	"testing"

	"github.com/grust-lang/grustc-core/internal/ast"
	"github.com/grust-lang/grustc-core/internal/gtypes"
)

func TestFreshAssignsDenseIDs(t *testing.T) {
	tab := New()
	a, err := tab.Fresh("a", KindFunction, ast.Pos{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := tab.Fresh("b", KindFunction, ast.Pos{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a == b || a == NoID || b == NoID {
		t.Fatalf("expected distinct non-zero ids, got %d and %d", a, b)
	}
}

func TestFreshRejectsRedeclarationInSameScope(t *testing.T) {
	tab := New()
	if _, err := tab.Fresh("dup", KindFunction, ast.Pos{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := tab.Fresh("dup", KindFunction, ast.Pos{}); err == nil {
		t.Fatalf("expected RedeclarationError")
	} else if _, ok := err.(*RedeclarationError); !ok {
		t.Fatalf("expected *RedeclarationError, got %T", err)
	}
}

func TestComponentScopeShadowsGlobalThenFallsBack(t *testing.T) {
	tab := New()
	global, _ := tab.Fresh("x", KindFunction, ast.Pos{})
	comp, _ := tab.Fresh("c", KindComponent, ast.Pos{})

	tab.EnterComponent(comp)
	local, err := tab.Fresh("x", KindSignal, ast.Pos{})
	if err != nil {
		t.Fatalf("component-local 'x' should shadow global: %v", err)
	}
	got, ok := tab.Lookup("x")
	if !ok || got != local {
		t.Fatalf("Lookup(x) inside component = %v, want local id %v", got, local)
	}
	sym := tab.Get(local)
	if sym.ParentComponent != comp {
		t.Fatalf("local symbol ParentComponent = %v, want %v", sym.ParentComponent, comp)
	}
	tab.LeaveComponent()

	got, ok = tab.Lookup("x")
	if !ok || got != global {
		t.Fatalf("Lookup(x) after LeaveComponent = %v, want global id %v", got, global)
	}
}

func TestEnterComponentReentersSameScope(t *testing.T) {
	tab := New()
	comp, _ := tab.Fresh("c", KindComponent, ast.Pos{})

	tab.EnterComponent(comp)
	in, _ := tab.Fresh("in", KindSignal, ast.Pos{})
	tab.LeaveComponent()

	tab.EnterComponent(comp)
	defer tab.LeaveComponent()
	got, ok := tab.LookupLocal("in")
	if !ok || got != in {
		t.Fatalf("LookupLocal(in) on re-entry = %v,%v, want %v,true", got, ok, in)
	}
}

func TestLookupLocalDoesNotFallBackToGlobal(t *testing.T) {
	tab := New()
	tab.Fresh("x", KindFunction, ast.Pos{})
	comp, _ := tab.Fresh("c", KindComponent, ast.Pos{})

	tab.EnterComponent(comp)
	defer tab.LeaveComponent()
	if _, ok := tab.LookupLocal("x"); ok {
		t.Fatalf("LookupLocal should not see global-only names")
	}
}

func TestSetTypeRejectsConflictingReassignment(t *testing.T) {
	tab := New()
	id, _ := tab.Fresh("s", KindSignal, ast.Pos{})
	tab.SetType(id, gtypes.Int{})
	tab.SetType(id, gtypes.Int{}) // same type twice is fine

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic on conflicting SetType")
		}
	}()
	tab.SetType(id, gtypes.Bool{})
}

func TestRegisterMemoryMintsFreshID(t *testing.T) {
	tab := New()
	target, _ := tab.Fresh("o", KindSignal, ast.Pos{})
	mem, err := tab.RegisterMemory(target, KindMemoryBuffer, ast.Pos{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sym := tab.Get(mem)
	if sym.Kind != KindMemoryBuffer {
		t.Fatalf("memory symbol kind = %v, want KindMemoryBuffer", sym.Kind)
	}
}

// Two unrelated components each declaring a signal named "o" must be able
// to register a "__mem_o" buffer independently: RegisterMemory must scope
// its uniqueness check to the producing signal's owning component, not
// whatever scope happens to be active (global, once lowering has popped
// every component frame) when normalization calls it.
func TestRegisterMemoryDoesNotCollideAcrossComponents(t *testing.T) {
	tab := New()

	compA, _ := tab.Fresh("a", KindComponent, ast.Pos{})
	tab.EnterComponent(compA)
	oA, _ := tab.Fresh("o", KindSignal, ast.Pos{})
	tab.LeaveComponent()

	compB, _ := tab.Fresh("b", KindComponent, ast.Pos{})
	tab.EnterComponent(compB)
	oB, _ := tab.Fresh("o", KindSignal, ast.Pos{})
	tab.LeaveComponent()

	memA, err := tab.RegisterMemory(oA, KindMemoryBuffer, ast.Pos{})
	if err != nil {
		t.Fatalf("unexpected error registering memory for component a: %v", err)
	}
	memB, err := tab.RegisterMemory(oB, KindMemoryBuffer, ast.Pos{})
	if err != nil {
		t.Fatalf("unexpected error registering memory for component b: %v", err)
	}

	if memA == memB {
		t.Fatalf("expected distinct memory ids, got the same id %d for both components", memA)
	}
	if got := len(tab.stack); got != 0 {
		t.Fatalf("RegisterMemory must leave the component scope stack as it found it, got depth %d", got)
	}
}
