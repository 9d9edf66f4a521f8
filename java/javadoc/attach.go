package javadoc

import (
	"bytes"
)

// Before returns the documentation comment attached to the declaration
// whose name starts at offset in src. Only modifiers, annotations and
// types may stand between the comment and the name; a statement or block
// boundary in between means the declaration has no comment.
func Before(src []byte, offset int) (string, bool) {
	if offset > len(src) {
		offset = len(src)
	}
	head := src[:offset]
	end := bytes.LastIndex(head, []byte("*/"))
	if end < 0 {
		return "", false
	}
	start := bytes.LastIndex(head[:end], []byte("/**"))
	if start < 0 || bytes.Contains(head[start+3:end], []byte("/*")) {
		return "", false
	}
	if bytes.ContainsAny(head[end+2:], ";{}") || bytes.Contains(head[end+2:], []byte("//")) {
		return "", false
	}
	return string(head[start : end+2]), true
}
