package tree

import (
	"go/token"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var semanticOnly = cmp.Options{
	cmpopts.IgnoreTypes(Range{}),
	cmp.FilterPath(func(p cmp.Path) bool {
		sf, ok := p.Last().(cmp.StructField)
		return ok && !token.IsExported(sf.Name())
	}, cmp.Ignore()),
}

// Equal compares the semantic fields of two subtrees. Positions, parent
// links and the derived child lists do not take part, so equal code at
// different places in a file compares equal.
func Equal(a, b Node) bool {
	if IsNil(a) || IsNil(b) {
		return IsNil(a) == IsNil(b)
	}
	return cmp.Equal(a, b, semanticOnly)
}

// Diff reports the semantic differences between two subtrees in go-cmp's
// format, empty when Equal holds.
func Diff(a, b Node) string {
	return cmp.Diff(a, b, semanticOnly)
}
