// Package pipeline orchestrates the middle-end's seven passes in the
// collect-don't-throw order spec.md §7 prescribes: lowering, typing,
// dependency analysis, causality, normalisation, scheduling, and IR2
// materialisation, each phase receiving a shared *errors.Bag and
// short-circuiting the whole run only when that phase's errors make the
// next phase meaningless. Grounded on sunholo-data-ailang/internal/
// pipeline/pipeline.go's Config/Result/Run shape and its PhaseTimings
// field, stripped of AILANG's Mode/module-loading branches: GRust has no
// separate compilation or evaluation mode, so Run is one straight-line
// pipeline rather than a dispatcher.
package pipeline

import (
	"time"

	"github.com/grust-lang/grustc-core/internal/ast"
	"github.com/grust-lang/grustc-core/internal/causality"
	"github.com/grust-lang/grustc-core/internal/depgraph"
	"github.com/grust-lang/grustc-core/internal/errors"
	"github.com/grust-lang/grustc-core/internal/ir1"
	"github.com/grust-lang/grustc-core/internal/ir2"
	"github.com/grust-lang/grustc-core/internal/lower"
	"github.com/grust-lang/grustc-core/internal/normalize"
	"github.com/grust-lang/grustc-core/internal/schedule"
	"github.com/grust-lang/grustc-core/internal/symtab"
	"github.com/grust-lang/grustc-core/internal/tycheck"
)

// CompileOptions is the single configuration value threaded through Run,
// replacing the teacher's pipeline.Config/conf::* process globals with an
// explicit struct (spec.md §9 design note: no hidden process-wide state).
type CompileOptions struct {
	DumpIR1         bool
	DumpDepGraph    bool
	DumpNormalised  bool
	DumpSchedule    bool
	// EmitContracts requests export of the optional external proof-tool
	// contract data; the core never implements the proof tool itself
	// (spec.md §4 Non-goals). Neither Run nor the CLI reads this field:
	// setting it has no effect and produces no diagnostic.
	EmitContracts bool
	JSON          bool
	Compact       bool
}

// Result is the pipeline's output bundle: the fully normalised, scheduled
// IR1 file, its populated symbol table, the dependency-graph registry,
// and the IR2 materialisation, per spec.md §6 ("a fully normalised,
// scheduled IR bundle ... plus the populated symbol table").
type Result struct {
	File         *ir1.File
	Symbols      *symtab.SymbolTable
	Dependencies *depgraph.Registry
	IR2          *ir2.Bundle
	PhaseTimings map[string]time.Duration
}

// Run executes every pass over file in order. It returns a partial Result
// and the errors collected up to (and including) whichever phase first
// reported a fatal error — later phases never run once the current one
// has (spec.md §7's per-pass short-circuit policy).
func Run(file *ast.File, opts CompileOptions) (*Result, []*errors.Error) {
	result := &Result{PhaseTimings: map[string]time.Duration{}}

	var bag *errors.Bag
	result.File, result.Symbols, bag = phaseLower(result, file)
	if bag.HasErrors() {
		return result, bag.Errors()
	}

	bag = phaseTypecheck(result)
	if bag.HasErrors() {
		return result, bag.Errors()
	}

	result.Dependencies = depgraph.NewRegistry(result.File.Components)
	bag = phaseDependencies(result)
	if bag.HasErrors() {
		return result, bag.Errors()
	}

	bag = phaseCausality(result)
	if bag.HasErrors() {
		return result, bag.Errors()
	}

	bag = phaseNormalize(result)
	if bag.HasErrors() {
		return result, bag.Errors()
	}

	phaseSchedule(result)
	phaseMaterialize(result)

	return result, nil
}

func timed(result *Result, name string, fn func()) {
	start := time.Now()
	fn()
	result.PhaseTimings[name] = time.Since(start)
}

func phaseLower(result *Result, file *ast.File) (*ir1.File, *symtab.SymbolTable, *errors.Bag) {
	var out *ir1.File
	var syms *symtab.SymbolTable
	var bag *errors.Bag
	timed(result, "lower", func() { out, syms, bag = lower.LowerWithSymbols(file) })
	return out, syms, bag
}

func phaseTypecheck(result *Result) *errors.Bag {
	var bag *errors.Bag
	timed(result, "typecheck", func() { bag = tycheck.Check(result.File, result.Symbols) })
	return bag
}

func phaseDependencies(result *Result) *errors.Bag {
	bag := errors.NewBag()
	timed(result, "dependencies", func() { result.Dependencies.BuildAll(bag) })
	return bag
}

func phaseCausality(result *Result) *errors.Bag {
	var bag *errors.Bag
	timed(result, "causality", func() { bag = causality.Check(result.File, result.Dependencies) })
	return bag
}

func phaseNormalize(result *Result) *errors.Bag {
	bag := errors.NewBag()
	timed(result, "normalize", func() {
		normalize.Run(result.File, result.Dependencies, result.Symbols, bag)
	})
	return bag
}

func phaseSchedule(result *Result) {
	timed(result, "schedule", func() {
		bag := errors.NewBag()
		schedule.Run(result.File, result.Dependencies, bag)
	})
}

func phaseMaterialize(result *Result) {
	timed(result, "materialize", func() {
		bag := errors.NewBag()
		result.IR2 = ir2.Materialize(result.File, result.Symbols, bag)
	})
}
