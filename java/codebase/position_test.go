package codebase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/whatis/java/tree"
)

func TestOffsetAtAndLineColumn(t *testing.T) {
	content := []byte("class A {\n  String s = \"\U0001F600x\";\n}\n")

	tests := []struct {
		line, column, offset int
	}{
		{1, 1, 0},
		{1, 7, 6},
		{2, 3, 12},
		// The emoji is two UTF-16 units and four bytes.
		{2, 15, 24},
		{2, 17, 28},
		{3, 1, 32},
	}
	for _, tt := range tests {
		offset, err := OffsetAt(content, tt.line, tt.column)
		require.NoError(t, err, "%d:%d", tt.line, tt.column)
		assert.Equal(t, tt.offset, offset, "%d:%d", tt.line, tt.column)

		line, column := LineColumn(content, tt.offset)
		assert.Equal(t, tt.line, line, "offset %d", tt.offset)
		assert.Equal(t, tt.column, column, "offset %d", tt.offset)
	}

	_, err := OffsetAt(content, 0, 1)
	assert.ErrorIs(t, err, ErrBadPosition)
	_, err = OffsetAt(content, 9, 1)
	assert.ErrorIs(t, err, ErrBadPosition)
}

func TestLSPRangeIsHalfOpen(t *testing.T) {
	content := []byte("package p;\nclass Name {}\n")
	r := lspRange(content, tree.Range{Begin: 17, End: 20})
	assert.Equal(t, uint32(1), r.Start.Line)
	assert.Equal(t, uint32(6), r.Start.Character)
	assert.Equal(t, uint32(10), r.End.Character)
}
