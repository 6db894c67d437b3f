package pipeline

import (
	"gopkg.in/yaml.v3"
)

// dumpFile is the top-level shape of --dump-yaml's output: one
// ir2.Snapshot per materialised component, named by the component and
// output they belong to. Grounded on the same plain-data rationale as
// internal/ir2's Snapshot: yaml.v3 can't marshal ir1.Expr/gtypes.Typ
// interfaces directly, so the dump only ever carries resolved names.
type dumpFile struct {
	Components []componentDump `yaml:"components"`
}

type componentDump struct {
	Component string   `yaml:"component"`
	Output    string   `yaml:"output"`
	Input     []string `yaml:"input"`
	Buffers   []string `yaml:"buffers"`
	Called    []string `yaml:"called"`
	Step      []string `yaml:"step"`
}

// DumpYAML renders r's IR2 bundle as YAML, for CompileOptions.DumpIR1's
// sibling --dump-yaml CLI flag. Returns an empty string if IR2
// materialisation never ran (an earlier phase short-circuited the run).
func (r *Result) DumpYAML() (string, error) {
	if r.IR2 == nil {
		return "", nil
	}
	df := dumpFile{}
	for _, bp := range r.IR2.Components {
		snap := bp.ToSnapshot(r.Symbols)
		df.Components = append(df.Components, componentDump{
			Component: snap.Component,
			Output:    snap.Output,
			Input:     snap.Input,
			Buffers:   snap.Buffers,
			Called:    snap.Called,
			Step:      snap.Step,
		})
	}
	out, err := yaml.Marshal(df)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
