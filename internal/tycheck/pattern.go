package tycheck

import (
	"fmt"

	"github.com/grust-lang/grustc-core/internal/errors"
	"github.com/grust-lang/grustc-core/internal/gtypes"
	"github.com/grust-lang/grustc-core/internal/ir1"
	"github.com/grust-lang/grustc-core/internal/symtab"
)

// checkPattern binds every leaf identifier in p that has no declared type
// yet (a local introduced by its own defining statement) to t, and
// verifies one that is already typed (an output, or an explicitly
// annotated local) against t instead.
func (c *Checker) checkPattern(p ir1.Pattern, t gtypes.Typ) {
	switch pt := p.(type) {
	case *ir1.IdentPattern:
		if pt.ID == symtab.NoID || isPoisoned(t) {
			return
		}
		if existing := c.syms.GetType(pt.ID); existing != nil {
			if !gtypes.Equal(existing, t) {
				c.bag.Add(errors.New(errors.KindIncompatibleTypes, errors.Location{},
					fmt.Sprintf("expected %s, got %s", existing, t)).
					WithData("expected", existing.String()).
					WithData("got", t.String()))
			}
			return
		}
		c.syms.SetType(pt.ID, t)
	case *ir1.TuplePattern:
		tup, ok := t.(gtypes.Tuple)
		if !ok {
			if !isPoisoned(t) {
				c.bag.Add(errors.New(errors.KindExpectTuple, errors.Location{},
					fmt.Sprintf("expected a %d-tuple pattern, got %s", len(pt.Elems), t)))
			}
			return
		}
		if len(tup.Elems) != len(pt.Elems) {
			c.bag.Add(errors.New(errors.KindArityMismatch, errors.Location{},
				fmt.Sprintf("pattern has %d elements, value has %d", len(pt.Elems), len(tup.Elems))))
			return
		}
		for i, sub := range pt.Elems {
			c.checkPattern(sub, tup.Elems[i])
		}
	case *ir1.SomePattern:
		opt, ok := t.(gtypes.Option)
		if !ok {
			if !isPoisoned(t) {
				c.bag.Add(errors.New(errors.KindExpectOption, errors.Location{},
					fmt.Sprintf("expected an event (T?) pattern, got %s", t)))
			}
			return
		}
		c.checkPattern(pt.Inner, opt.Elem)
	case *ir1.NonePattern:
		// nothing to bind.
	}
}
