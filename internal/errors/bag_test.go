package errors

import "testing"

func TestBagSeparatesErrorsAndWarnings(t *testing.T) {
	b := NewBag()
	b.Add(New(KindUnusedImport, Location{}, "unused import"))
	b.Add(New(KindIncompatibleTypes, Location{}, "type mismatch"))

	if len(b.Warnings()) != 1 {
		t.Fatalf("want 1 warning, got %d", len(b.Warnings()))
	}
	if len(b.Errors()) != 1 {
		t.Fatalf("want 1 error, got %d", len(b.Errors()))
	}
	if !b.HasErrors() {
		t.Fatalf("HasErrors() = false, want true")
	}
}

func TestBagWarningsOnlyHasNoErrors(t *testing.T) {
	b := NewBag()
	b.Add(New(KindUnusedIdent, Location{}, "unused local"))
	if b.HasErrors() {
		t.Fatalf("HasErrors() = true, want false for warnings-only bag")
	}
}

func TestTerminateRequiresNonEmptyBag(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic terminating an empty bag")
		}
	}()
	b := NewBag()
	_ = b.Terminate("should panic")
}

func TestMergePreservesOrder(t *testing.T) {
	a := NewBag()
	a.Add(New(KindUnknownIdentifier, Location{}, "first"))
	b := NewBag()
	b.Add(New(KindArityMismatch, Location{}, "second"))
	a.Merge(b)
	all := a.All()
	if len(all) != 2 || all[0].Message != "first" || all[1].Message != "second" {
		t.Fatalf("Merge did not preserve order: %+v", all)
	}
}

func TestErrorWithNoteAndData(t *testing.T) {
	e := New(KindIncompatibleTypes, Location{FileID: 1, Start: 2, End: 3}, "mismatch").
		WithNote("declared here", Location{FileID: 1, Start: 0, End: 1}).
		WithData("expected", "Int").
		WithData("got", "Float")
	if len(e.Notes) != 1 {
		t.Fatalf("want 1 note, got %d", len(e.Notes))
	}
	if e.Data["expected"] != "Int" || e.Data["got"] != "Float" {
		t.Fatalf("data not attached: %+v", e.Data)
	}
}
