package normalize

import (
	"github.com/grust-lang/grustc-core/internal/depgraph"
	"github.com/grust-lang/grustc-core/internal/errors"
	"github.com/grust-lang/grustc-core/internal/ir1"
	"github.com/grust-lang/grustc-core/internal/symtab"
)

// Synthesize implements spec.md §4.6.1: split every component into one
// UnitaryComponent per output, keeping only the inputs and statements that
// output transitively needs. Grounded on original_source's
// normalizing/unitary_node/file.rs generate_unitary_nodes, adapted so that
// — unlike the Rust original, which mints a fresh node per output — the
// variant is addressed by (Component, SelectedOutput) rather than by a
// fresh identity, since ir1.ComponentApply already carries SelectedOutput.
func Synthesize(file *ir1.File, reg *depgraph.Registry, bag *errors.Bag) {
	for _, comp := range file.Components {
		full := reg.Full(comp.ID, bag)
		comp.Unitary = make(map[symtab.ID]*ir1.UnitaryComponent, len(comp.Outputs))
		for _, out := range comp.Outputs {
			comp.Unitary[out] = synthesizeOne(comp, out, full)
		}
	}
}

func synthesizeOne(comp *ir1.Component, out symtab.ID, full *depgraph.Graph) *ir1.UnitaryComponent {
	reach := reachableFrom(full, out)

	var inputs []symtab.ID
	for _, in := range comp.Inputs {
		if reach[in] {
			inputs = append(inputs, in)
		}
	}

	var stmts []*ir1.Statement
	seen := map[*ir1.Statement]bool{}
	for _, st := range comp.Statements {
		needed := false
		for _, id := range st.DefinedIDs() {
			if reach[id] {
				needed = true
				break
			}
		}
		if needed && !seen[st] {
			stmts = append(stmts, st)
			seen[st] = true
		}
	}

	return &ir1.UnitaryComponent{
		Output:     out,
		Inputs:     inputs,
		Statements: stmts,
		Memory:     ir1.NewMemory(),
	}
}

// reachableFrom returns every node start's value transitively depends on,
// start included, by following g's edges forward (an edge y -> x means "y
// depends on x", so walking Out(y) walks towards y's dependencies).
func reachableFrom(g *depgraph.Graph, start symtab.ID) map[symtab.ID]bool {
	seen := map[symtab.ID]bool{start: true}
	queue := []symtab.ID{start}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, e := range g.Out(id) {
			if !seen[e.To] {
				seen[e.To] = true
				queue = append(queue, e.To)
			}
		}
	}
	return seen
}
