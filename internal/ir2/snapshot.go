package ir2

import "github.com/grust-lang/grustc-core/internal/symtab"

// Snapshot is a plain-data rendering of a ComponentBlueprint, used by
// `--dump-yaml` (internal/pipeline) and by golden-file tests: every field
// is a string or a slice of strings so gopkg.in/yaml.v3 can marshal and
// unmarshal it without needing to teach the decoder about the gtypes.Typ
// and ir1.Expr interfaces the blueprint itself carries.
type Snapshot struct {
	Component string   `yaml:"component"`
	Output    string   `yaml:"output"`
	Input     []string `yaml:"input"`
	Buffers   []string `yaml:"buffers"`
	Called    []string `yaml:"called"`
	Step      []string `yaml:"step"`
}

// ToSnapshot renders b using syms to resolve every id to its surface name.
func (b *ComponentBlueprint) ToSnapshot(syms *symtab.SymbolTable) Snapshot {
	s := Snapshot{
		Component: fieldName(syms, b.Component),
		Output:    fieldName(syms, b.Output),
	}
	for _, f := range b.Input {
		s.Input = append(s.Input, f.Name)
	}
	for _, f := range b.StateBuffers {
		s.Buffers = append(s.Buffers, f.Name)
	}
	for _, f := range b.StateCalled {
		s.Called = append(s.Called, f.Name)
	}
	for _, st := range b.Step {
		for _, id := range st.DefinedIDs() {
			s.Step = append(s.Step, fieldName(syms, id))
		}
	}
	return s
}
