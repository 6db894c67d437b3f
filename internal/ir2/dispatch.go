package ir2

import (
	"github.com/grust-lang/grustc-core/internal/ir1"
	"github.com/grust-lang/grustc-core/internal/symtab"
)

// TimerKind names which flow operator armed a given timer (spec.md §4.8:
// "Timers derive their period from sample, scan, timeout, throttle,
// on_change operators").
type TimerKind ir1.FlowOpKind

// Timer is one dispatcher-owned deadline, armed by a timing flow operator.
type Timer struct {
	Kind     TimerKind
	Duration int64 // milliseconds
	Source   ir1.FlowExpr
}

// Binding is one `let pattern = flow;` service statement carried through
// to the dispatcher unchanged; the emitter lowers FlowExpr trees itself,
// since service-level combinators are runtime primitives the core only
// preserves the semantics of (spec.md §4 Non-goals).
type Binding struct {
	Pattern ir1.Pattern
	Flow    ir1.FlowExpr
}

// DispatchBlueprint is the outer select-loop shape spec.md §4.8 describes:
// one case per imported channel or armed timer, each driving some
// component's step and routing its output to the bound exports.
type DispatchBlueprint struct {
	Imports []*ir1.Import
	Exports []*ir1.Export
	Timers  []Timer
	Flows   []Binding
}

func materializeDispatch(svc *ir1.Service, syms *symtab.SymbolTable) *DispatchBlueprint {
	d := &DispatchBlueprint{Imports: svc.Imports, Exports: svc.Exports}
	for _, fs := range svc.Flows {
		d.Flows = append(d.Flows, Binding{Pattern: fs.Pattern, Flow: fs.Flow})
		if t, ok := collectTimer(fs.Flow); ok {
			d.Timers = append(d.Timers, t)
		}
	}
	return d
}

// collectTimer recognises the timing operators named in spec.md §4.8 at
// the top level of a flow expression only. A merge is not a timer, and
// timing operators nested inside a merge's operands are not collected.
func collectTimer(flow ir1.FlowExpr) (Timer, bool) {
	op, ok := flow.(*ir1.FlowOp)
	if !ok {
		return Timer{}, false
	}
	switch op.Kind {
	case ir1.FlowSample, ir1.FlowScan, ir1.FlowTimeout, ir1.FlowThrottle, ir1.FlowOnChange:
		return Timer{Kind: TimerKind(op.Kind), Duration: op.Duration, Source: op.Source}, true
	default:
		return Timer{}, false
	}
}
