package lower

import (
	"github.com/grust-lang/grustc-core/internal/ast"
	"github.com/grust-lang/grustc-core/internal/ir1"
	"github.com/grust-lang/grustc-core/internal/symtab"
)

func (l *Lowerer) lowerService(svc *ast.ServiceDecl) *ir1.Service {
	out := &ir1.Service{}
	for _, imp := range svc.Imports {
		id, _ := l.syms.Lookup(imp.Path)
		out.Imports = append(out.Imports, &ir1.Import{ID: id, IsEvent: imp.IsEvent, Path: imp.Path})
	}
	for _, flow := range svc.Flows {
		pattern := l.lowerPattern(flow.Pattern, symtab.ScopeLocal)
		out.Flows = append(out.Flows, &ir1.FlowStatement{Pattern: pattern, Flow: l.lowerFlowExpr(flow.Flow)})
	}
	for _, exp := range svc.Exports {
		out.Exports = append(out.Exports, &ir1.Export{
			IsEvent: exp.IsEvent,
			Path:    exp.Path,
			Local:   l.resolveIdent(exp.Local, exp.Pos),
		})
	}
	return out
}

func (l *Lowerer) lowerFlowExpr(f ast.FlowExpr) ir1.FlowExpr {
	switch fe := f.(type) {
	case *ast.FlowComponentApply:
		compID := l.resolveIdent(fe.Component, fe.Pos)
		inputs := make([]ir1.ComponentArg, len(fe.Inputs))
		for i, arg := range fe.Inputs {
			inputID := symtab.NoID
			if id, ok := l.syms.LookupIn(compID, arg.Input); ok {
				inputID = id
			}
			inputs[i] = ir1.ComponentArg{Input: inputID, Value: l.lowerExpr(arg.Value)}
		}
		return &ir1.FlowComponentApply{Component: compID, Inputs: inputs}
	case *ast.FlowOp:
		var other ir1.FlowExpr
		if fe.Other != nil {
			other = l.lowerFlowExpr(fe.Other)
		}
		return &ir1.FlowOp{
			Kind:     ir1.FlowOpKind(fe.Kind),
			Source:   l.lowerFlowExpr(fe.Source),
			Other:    other,
			Duration: fe.Duration,
		}
	case *ast.FlowIdent:
		return &ir1.FlowIdent{ID: l.resolveIdent(fe.Name, fe.Pos)}
	default:
		return &ir1.FlowIdent{ID: symtab.NoID}
	}
}
