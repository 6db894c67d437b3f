package ir1

import "github.com/grust-lang/grustc-core/internal/symtab"

// Pattern is a typed destructuring pattern (spec.md §3).
type Pattern interface {
	patternNode()
}

// IdentPattern binds a single identifier, already resolved to its
// symtab.ID by lowering.
type IdentPattern struct {
	ID symtab.ID
}

func (*IdentPattern) patternNode() {}

// TuplePattern destructures a tuple positionally.
type TuplePattern struct {
	Elems []Pattern
}

func (*TuplePattern) patternNode() {}

// SomePattern / NonePattern destructure an event value (spec.md §4.2
// event-pattern lowering).
type SomePattern struct {
	Inner Pattern
}

func (*SomePattern) patternNode() {}

type NonePattern struct{}

func (*NonePattern) patternNode() {}

// BoundIdents returns every identifier bound anywhere inside p, in
// left-to-right order, used when a pass needs to know everything a
// statement's pattern produces (spec.md §4.4 step 2).
func BoundIdents(p Pattern) []symtab.ID {
	switch pt := p.(type) {
	case *IdentPattern:
		return []symtab.ID{pt.ID}
	case *TuplePattern:
		var out []symtab.ID
		for _, e := range pt.Elems {
			out = append(out, BoundIdents(e)...)
		}
		return out
	case *SomePattern:
		return BoundIdents(pt.Inner)
	case *NonePattern:
		return nil
	default:
		return nil
	}
}
