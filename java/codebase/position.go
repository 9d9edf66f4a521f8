package codebase

import (
	"errors"
	"fmt"
	"unicode/utf16"
	"unicode/utf8"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/whatis/java/tree"
)

var ErrBadPosition = errors.New("position outside file")

// OffsetAt converts a 1-based line and column into a byte offset. Columns
// count UTF-16 code units like LSP clients do; for ASCII that is bytes.
func OffsetAt(content []byte, line, column int) (int, error) {
	if line < 1 || column < 1 {
		return 0, fmt.Errorf("%d:%d: %w", line, column, ErrBadPosition)
	}
	pos := protocol.Position{Line: protocol.UInteger(line - 1), Character: protocol.UInteger(column - 1)}
	offset := pos.IndexIn(string(content))
	if offset == 0 && (line > 1 || column > 1) {
		// IndexIn reports positions past the end as 0.
		return 0, fmt.Errorf("%d:%d: %w", line, column, ErrBadPosition)
	}
	return offset, nil
}

func positionOffset(content []byte, pos protocol.Position) (int, error) {
	return OffsetAt(content, int(pos.Line)+1, int(pos.Character)+1)
}

// LineColumn is the inverse of OffsetAt.
func LineColumn(content []byte, offset int) (line, column int) {
	pos := offsetPosition(content, offset)
	return int(pos.Line) + 1, int(pos.Character) + 1
}

// lspRange converts a closed byte range into a half-open LSP range.
func lspRange(content []byte, r tree.Range) protocol.Range {
	return protocol.Range{
		Start: offsetPosition(content, r.Begin),
		End:   offsetPosition(content, r.End+1),
	}
}

// offsetPosition is the inverse of protocol.Position.IndexIn: it counts
// lines and UTF-16 code units up to a byte offset.
func offsetPosition(content []byte, offset int) protocol.Position {
	if offset > len(content) {
		offset = len(content)
	}
	var pos protocol.Position
	for i := 0; i < offset; {
		r, w := utf8.DecodeRune(content[i:])
		if r == '\n' {
			pos.Line++
			pos.Character = 0
		} else {
			pos.Character += protocol.UInteger(utf16.RuneLen(r))
		}
		i += w
	}
	return pos
}
