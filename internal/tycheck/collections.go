package tycheck

import (
	"fmt"

	"github.com/grust-lang/grustc-core/internal/errors"
	"github.com/grust-lang/grustc-core/internal/gtypes"
	"github.com/grust-lang/grustc-core/internal/ir1"
	"github.com/grust-lang/grustc-core/internal/symtab"
)

func (c *Checker) checkArray(ex *ir1.Array) gtypes.Typ {
	if len(ex.Elems) == 0 {
		return gtypes.Array{Elem: gtypes.Unresolved{}, Size: 0}
	}
	elem := c.checkExpr(ex.Elems[0], nil)
	for _, e := range ex.Elems[1:] {
		got := c.checkExpr(e, elem)
		if !isPoisoned(got) && !isPoisoned(elem) && !gtypes.Equal(elem, got) {
			c.incompatible(e.Position(), elem, got)
		}
	}
	return gtypes.Array{Elem: elem, Size: len(ex.Elems)}
}

func (c *Checker) checkTuple(ex *ir1.Tuple) gtypes.Typ {
	elems := make([]gtypes.Typ, len(ex.Elems))
	for i, e := range ex.Elems {
		elems[i] = c.checkExpr(e, nil)
	}
	return gtypes.Tuple{Elems: elems}
}

func (c *Checker) checkTupleElem(ex *ir1.TupleElem) gtypes.Typ {
	t := c.checkExpr(ex.Tuple, nil)
	tup, ok := t.(gtypes.Tuple)
	if !ok {
		if !isPoisoned(t) {
			c.bag.Add(errors.New(errors.KindExpectTuple, c.loc(ex.Tuple.Position()),
				fmt.Sprintf("expected a tuple, got %s", t)))
		}
		return gtypes.Unresolved{}
	}
	if ex.Index < 0 || ex.Index >= len(tup.Elems) {
		c.bag.Add(errors.New(errors.KindIndexOutOfBounds, c.loc(ex.Position()),
			fmt.Sprintf("index %d out of bounds for %d-tuple", ex.Index, len(tup.Elems))))
		return gtypes.Unresolved{}
	}
	return tup.Elems[ex.Index]
}

// checkFieldAccess resolves the Field deferred by lowering now that
// Struct's type is known, per ir1.FieldAccess's doc comment.
func (c *Checker) checkFieldAccess(ex *ir1.FieldAccess) gtypes.Typ {
	t := c.checkExpr(ex.Struct, nil)
	st, ok := t.(gtypes.Struct)
	if !ok {
		if !isPoisoned(t) {
			c.bag.Add(errors.New(errors.KindUnknownField, c.loc(ex.Position()),
				fmt.Sprintf("%s has no field %q", t, ex.FieldName)))
		}
		return gtypes.Unresolved{}
	}
	structSym := c.syms.Get(symtab.ID(st.ID))
	if structSym == nil || structSym.Typedef == nil {
		return gtypes.Unresolved{}
	}
	want := structSym.Name + "." + ex.FieldName
	for _, fid := range structSym.Typedef.Fields {
		if fsym := c.syms.Get(fid); fsym != nil && fsym.Name == want {
			ex.Field = fid
			return c.syms.GetType(fid)
		}
	}
	c.bag.Add(errors.New(errors.KindUnknownField, c.loc(ex.Position()),
		fmt.Sprintf("%s has no field %q", st.Name, ex.FieldName)))
	return gtypes.Unresolved{}
}

func (c *Checker) checkStructure(ex *ir1.Structure) gtypes.Typ {
	sym := c.syms.Get(ex.Typedef)
	for _, f := range ex.Fields {
		want := c.syms.GetType(f.Field)
		got := c.checkExpr(f.Value, want)
		if want != nil && !isPoisoned(got) && !gtypes.Equal(want, got) {
			c.incompatible(f.Value.Position(), want, got)
		}
	}
	if sym == nil {
		return gtypes.Unresolved{}
	}
	return gtypes.Struct{ID: gtypes.StructID(ex.Typedef), Name: sym.Name}
}

func (c *Checker) checkEnumeration(ex *ir1.Enumeration) gtypes.Typ {
	sym := c.syms.Get(ex.Enum)
	if sym == nil || sym.Typedef == nil {
		return gtypes.Unresolved{}
	}
	found := false
	for _, v := range sym.Typedef.Variants {
		if v == ex.Variant {
			found = true
			break
		}
	}
	if !found {
		c.bag.Add(errors.New(errors.KindUnknownEnumeration, c.loc(ex.Position()),
			fmt.Sprintf("%s has no variant %q", sym.Name, ex.Variant)))
	}
	return gtypes.Enum{ID: gtypes.EnumID(ex.Enum), Name: sym.Name}
}

func (c *Checker) expectArray(e ir1.Expr, t gtypes.Typ) (gtypes.Array, bool) {
	arr, ok := t.(gtypes.Array)
	if !ok && !isPoisoned(t) {
		c.bag.Add(errors.New(errors.KindExpectArray, c.loc(e.Position()),
			fmt.Sprintf("expected an array, got %s", t)))
	}
	return arr, ok
}

func (c *Checker) checkMap(ex *ir1.Map) gtypes.Typ {
	arrT := c.checkExpr(ex.Arr, nil)
	arr, ok := c.expectArray(ex.Arr, arrT)
	fnT := c.checkExpr(ex.Fn, nil)
	fn, fnOk := fnT.(gtypes.Function)
	if !ok || !fnOk {
		return gtypes.Unresolved{}
	}
	if len(fn.Params) == 1 && !isPoisoned(fn.Params[0]) && !gtypes.Equal(fn.Params[0], arr.Elem) {
		c.incompatible(ex.Fn.Position(), arr.Elem, fn.Params[0])
	}
	return gtypes.Array{Elem: fn.Result, Size: arr.Size}
}

func (c *Checker) checkSort(ex *ir1.Sort) gtypes.Typ {
	arrT := c.checkExpr(ex.Arr, nil)
	arr, ok := c.expectArray(ex.Arr, arrT)
	cmpT := c.checkExpr(ex.Cmp, nil)
	cmp, cmpOk := cmpT.(gtypes.Function)
	if !ok {
		return gtypes.Unresolved{}
	}
	if cmpOk {
		if _, isBool := cmp.Result.(gtypes.Bool); !isBool {
			c.incompatible(ex.Cmp.Position(), gtypes.Bool{}, cmp.Result)
		}
		for _, p := range cmp.Params {
			if !isPoisoned(p) && !gtypes.Equal(p, arr.Elem) {
				c.incompatible(ex.Cmp.Position(), arr.Elem, p)
			}
		}
	}
	return arr
}

func (c *Checker) checkFold(ex *ir1.Fold) gtypes.Typ {
	arrT := c.checkExpr(ex.Arr, nil)
	arr, arrOk := c.expectArray(ex.Arr, arrT)
	init := c.checkExpr(ex.Init, nil)
	stepT := c.checkExpr(ex.Step, nil)
	step, stepOk := stepT.(gtypes.Function)
	if !stepOk {
		return init
	}
	if len(step.Params) == 2 {
		if !isPoisoned(init) && !gtypes.Equal(step.Params[0], init) {
			c.incompatible(ex.Init.Position(), step.Params[0], init)
		}
		if arrOk && !isPoisoned(arr.Elem) && !gtypes.Equal(step.Params[1], arr.Elem) {
			c.incompatible(ex.Arr.Position(), step.Params[1], arr.Elem)
		}
	}
	if !isPoisoned(step.Result) && !isPoisoned(init) && !gtypes.Equal(step.Result, init) {
		c.incompatible(ex.Step.Position(), init, step.Result)
	}
	return init
}

func (c *Checker) checkZip(ex *ir1.Zip) gtypes.Typ {
	if len(ex.Arrs) == 0 {
		return gtypes.Array{Elem: gtypes.Tuple{}, Size: 0}
	}
	elems := make([]gtypes.Typ, len(ex.Arrs))
	size := -1
	for i, a := range ex.Arrs {
		t := c.checkExpr(a, nil)
		arr, ok := c.expectArray(a, t)
		if !ok {
			elems[i] = gtypes.Unresolved{}
			continue
		}
		elems[i] = arr.Elem
		if size == -1 {
			size = arr.Size
		} else if arr.Size != size {
			c.bag.Add(errors.New(errors.KindIncompatibleTypes, c.loc(a.Position()),
				fmt.Sprintf("zipped arrays have mismatched sizes: %d vs %d", size, arr.Size)))
		}
	}
	if size == -1 {
		size = 0
	}
	return gtypes.Array{Elem: gtypes.Tuple{Elems: elems}, Size: size}
}
