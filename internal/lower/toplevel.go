package lower

import (
	"github.com/grust-lang/grustc-core/internal/ast"
	"github.com/grust-lang/grustc-core/internal/ir1"
	"github.com/grust-lang/grustc-core/internal/symtab"
)

// lowerFunction lowers a pure function body. Its parameters were already
// minted into the function's own scope by declareFunctions; re-entering
// that scope here makes them resolvable by name while lowering Body.
func (l *Lowerer) lowerFunction(fn *ast.FuncDecl) *ir1.Function {
	id, _ := l.syms.Lookup(fn.Name)
	l.syms.EnterComponent(id)
	defer l.syms.LeaveComponent()

	body := l.lowerExpr(fn.Body)
	info := l.syms.Get(id).Function
	return &ir1.Function{ID: id, Inputs: info.Inputs, Body: body}
}

// lowerComponent lowers one component's statements. Its input/output
// signals were already minted into the component's own scope by
// declareComponents; re-entering that scope here makes them resolvable
// by name while every statement is lowered in declaration order.
func (l *Lowerer) lowerComponent(c *ast.ComponentDecl) *ir1.Component {
	id, _ := l.syms.Lookup(c.Name)
	l.syms.EnterComponent(id)
	defer l.syms.LeaveComponent()

	info := l.syms.Get(id).Component
	statements := make([]*ir1.Statement, len(c.Statements))
	for i, s := range c.Statements {
		statements[i] = l.lowerStatement(s)
	}
	contract := make([]ir1.Expr, len(c.Contract))
	for i, e := range c.Contract {
		contract[i] = l.lowerExpr(e)
	}

	return &ir1.Component{
		ID:         id,
		Inputs:     info.Inputs,
		Outputs:    info.Outputs,
		Statements: statements,
		Contract:   contract,
		Memory:     ir1.NewMemory(),
		Unitary:    map[symtab.ID]*ir1.UnitaryComponent{},
	}
}

func (l *Lowerer) declareSignals(params []ast.ParamDecl, scope symtab.SignalScope) []symtab.ID {
	ids := make([]symtab.ID, len(params))
	for i, p := range params {
		id, err := l.syms.Fresh(p.Name, symtab.KindSignal, p.Pos)
		if err != nil {
			l.redeclared(p.Name, p.Pos, err)
			continue
		}
		l.syms.Get(id).SignalScope = scope
		l.syms.SetType(id, l.resolveType(p.Type))
		ids[i] = id
	}
	return ids
}

func (l *Lowerer) lowerStatement(s *ast.Statement) *ir1.Statement {
	// The RHS resolves against names bound by earlier statements before
	// the pattern introduces its own, so lower Expr first.
	expr := l.lowerExpr(s.Expr)
	pattern := l.lowerStatementPattern(s.Pattern)
	return &ir1.Statement{Pattern: pattern, Expr: expr, Pos: s.Pos}
}
