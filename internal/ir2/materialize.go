package ir2

import (
	"github.com/grust-lang/grustc-core/internal/errors"
	"github.com/grust-lang/grustc-core/internal/ir1"
	"github.com/grust-lang/grustc-core/internal/symtab"
)

// Materialize builds the IR2 bundle for file. It assumes normalize.Verify
// and schedule.Run have already succeeded for every component; a
// UnitaryComponent with no ScheduleOrder (because schedule never ran)
// falls back to its Statements in declaration order, and no diagnostic is
// reported.
func Materialize(file *ir1.File, syms *symtab.SymbolTable, bag *errors.Bag) *Bundle {
	bundle := &Bundle{}
	for _, comp := range file.Components {
		for _, out := range comp.Outputs {
			uc, ok := comp.Unitary[out]
			if !ok {
				continue
			}
			bundle.Components = append(bundle.Components, materializeOne(comp.ID, uc, syms))
		}
	}
	if file.Service != nil {
		bundle.Dispatch = materializeDispatch(file.Service, syms)
	}
	return bundle
}

func materializeOne(compID symtab.ID, uc *ir1.UnitaryComponent, syms *symtab.SymbolTable) *ComponentBlueprint {
	b := &ComponentBlueprint{
		Component:  compID,
		Output:     uc.Output,
		OutputType: syms.GetType(uc.Output),
		inputSet:   map[symtab.ID]string{},
		bufferSet:  map[symtab.ID]string{},
		calledSet:  map[symtab.ID]string{},
	}

	for _, in := range uc.Inputs {
		name := fieldName(syms, in)
		b.Input = append(b.Input, Field{Name: name, ID: in, Type: syms.GetType(in)})
		b.inputSet[in] = name
	}

	if uc.Memory != nil {
		for memID, buf := range uc.Memory.Buffers {
			name := fieldName(syms, memID)
			b.StateBuffers = append(b.StateBuffers, Field{Name: name, ID: memID, Type: syms.GetType(memID)})
			b.bufferSet[memID] = name
			b.Init = append(b.Init, InitAssign{Buffer: memID, Field: name, Value: buf.Init})
			b.PostStep = append(b.PostStep, BufferUpdate{Buffer: memID, Field: name, Target: buf.Target})
		}
		selectedOutput := calleeOutputsByMemory(uc.Statements)
		for memID, callee := range uc.Memory.CalledComponent {
			name := fieldName(syms, memID)
			b.StateCalled = append(b.StateCalled, CalledField{Name: name, ID: memID, Callee: callee, CalleeOutput: selectedOutput[memID]})
			b.calledSet[memID] = name
		}
	}

	b.Step = uc.ScheduleOrder
	if b.Step == nil {
		b.Step = uc.Statements
	}

	sortFieldsByID(b.Input)
	sortFieldsByID(b.StateBuffers)
	sortCalledByID(b.StateCalled)
	sortInitByBuffer(b.Init)
	sortUpdatesByBuffer(b.PostStep)

	return b
}

// fieldName is the emitted struct-field name for id: the register_memory
// convention already prefixes synthetic ids with "__mem_", which doubles
// as a perfectly good Go-ish field name once title-cased by the emitter,
// so materialisation just carries the symbol table's own name through.
func fieldName(syms *symtab.SymbolTable, id symtab.ID) string {
	sym := syms.Get(id)
	if sym == nil {
		return ""
	}
	return sym.Name
}

// calleeOutputsByMemory maps each non-pure ComponentApply's assigned
// memory id to the output it selects on the callee, by scanning the
// statements that carry that ComponentApply. uc.Memory.CalledComponent
// alone only records the callee component, not which of its unitary
// variants this particular call site targets.
func calleeOutputsByMemory(stmts []*ir1.Statement) map[symtab.ID]symtab.ID {
	out := map[symtab.ID]symtab.ID{}
	for _, st := range stmts {
		ca, ok := st.Expr.(*ir1.ComponentApply)
		if !ok || ca.Memory == symtab.NoID {
			continue
		}
		out[ca.Memory] = ca.SelectedOutput
	}
	return out
}

func sortFieldsByID(fs []Field) {
	for i := 1; i < len(fs); i++ {
		for j := i; j > 0 && fs[j].ID < fs[j-1].ID; j-- {
			fs[j], fs[j-1] = fs[j-1], fs[j]
		}
	}
}

func sortCalledByID(fs []CalledField) {
	for i := 1; i < len(fs); i++ {
		for j := i; j > 0 && fs[j].ID < fs[j-1].ID; j-- {
			fs[j], fs[j-1] = fs[j-1], fs[j]
		}
	}
}

func sortInitByBuffer(a []InitAssign) {
	for i := 1; i < len(a); i++ {
		for j := i; j > 0 && a[j].Buffer < a[j-1].Buffer; j-- {
			a[j], a[j-1] = a[j-1], a[j]
		}
	}
}

func sortUpdatesByBuffer(a []BufferUpdate) {
	for i := 1; i < len(a); i++ {
		for j := i; j > 0 && a[j].Buffer < a[j-1].Buffer; j-- {
			a[j], a[j-1] = a[j-1], a[j]
		}
	}
}
