package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

var (
	errorLabel   = color.New(color.FgRed, color.Bold)
	warningLabel = color.New(color.FgYellow, color.Bold)
	locationHint = color.New(color.FgCyan)
)

// Render renders a single Error the way a terminal-facing diagnostic
// printer would, colorized when color.NoColor is false.
func Render(e *Error) string {
	var b strings.Builder
	if e.IsWarning() {
		b.WriteString(warningLabel.Sprint("warning"))
	} else {
		b.WriteString(errorLabel.Sprint("error"))
	}
	fmt.Fprintf(&b, "[%s]: %s\n", e.Kind, e.Message)
	fmt.Fprintf(&b, "  %s %s\n", locationHint.Sprint("-->"), e.Location)
	for _, n := range e.Notes {
		fmt.Fprintf(&b, "  note: %s (%s)\n", n.Message, n.Location)
	}
	return b.String()
}

// RenderAll renders every finding in a Bag, in insertion order.
func RenderAll(b *Bag) string {
	var out strings.Builder
	for _, e := range b.All() {
		out.WriteString(Render(e))
	}
	return out.String()
}
