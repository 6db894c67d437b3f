package pipeline

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// phaseOrder fixes the summary's display order to the pipeline's actual
// execution order, since PhaseTimings is a map and iteration order would
// otherwise be unstable.
var phaseOrder = []string{"lower", "typecheck", "dependencies", "causality", "normalize", "schedule", "materialize"}

// WriteSummary prints one coloured line per phase that actually ran,
// matching the teacher's CLI diagnostic style (color.New(...).Fprintf
// rather than plain fmt.Fprintf) for build-time visibility into which
// phase dominates compile time.
func (r *Result) WriteSummary(w io.Writer) {
	phase := color.New(color.FgCyan)
	dur := color.New(color.FgYellow)

	printed := 0
	for _, name := range phaseOrder {
		d, ok := r.PhaseTimings[name]
		if !ok {
			continue
		}
		phase.Fprintf(w, "%-14s", name)
		dur.Fprintf(w, "%s\n", d)
		printed++
	}
	if printed == 0 {
		fmt.Fprintln(w, "no phases ran")
	}
}
