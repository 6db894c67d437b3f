package errors

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderWithSourceUnderlinesSpan(t *testing.T) {
	e := New(KindIncompatibleTypes, Location{FileID: 1, Start: 4, End: 7}, "type mismatch")

	out := RenderWithSource(e, "let xyz = 1", 0)

	assert.True(t, strings.Contains(out, "let xyz = 1"))
	assert.True(t, strings.Contains(out, "^^^"))
}

func TestVisualWidthCountsWideRunesAsTwoColumns(t *testing.T) {
	assert.Equal(t, 1, visualWidth('a'))
	assert.Equal(t, 2, visualWidth('世'))
}
