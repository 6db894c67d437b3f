package errors

import (
	"fmt"
	"strings"

	"golang.org/x/text/width"
)

// visualWidth returns the terminal column width of r, treating East Asian
// Wide and Fullwidth runes as two columns. Mirrors the teacher's own
// unicode-aware source handling (internal/lexer.Normalize uses
// golang.org/x/text for NFC normalisation at the same boundary); here the
// same family of tables is used to keep an underline aligned under a
// Location's byte range when the source line contains wide runes.
func visualWidth(r rune) int {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	default:
		return 1
	}
}

// RenderWithSource renders e the way Render does, followed by the source
// line e.Location points into with a caret underline spanning
// [Start, End). line must be the raw text of that single line; lineStart is the
// 0-based byte offset of the line's first byte within the file, used to
// translate e.Location's file-relative offsets into a position on line.
func RenderWithSource(e *Error, line string, lineStart int) string {
	var b strings.Builder
	b.WriteString(Render(e))

	from := e.Location.Start - lineStart
	to := e.Location.End - lineStart
	if from < 0 || from > len(line) {
		return b.String()
	}
	if to < from {
		to = from
	}
	if to > len(line) {
		to = len(line)
	}

	fmt.Fprintf(&b, "  %s\n", line)

	col := 0
	for _, r := range line[:from] {
		col += visualWidth(r)
	}
	underline := 0
	for _, r := range line[from:to] {
		underline += visualWidth(r)
	}
	if underline == 0 {
		underline = 1
	}

	b.WriteString("  ")
	b.WriteString(strings.Repeat(" ", col))
	b.WriteString(locationHint.Sprint(strings.Repeat("^", underline)))
	b.WriteString("\n")
	return b.String()
}
