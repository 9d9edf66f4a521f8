package format

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/whatis/java/parser"
)

func TestCSTEncoder(t *testing.T) {
	p := parser.New([]byte("package p;\nclass A { int x = ; }\n"))
	cst := p.CompilationUnit()

	var buf bytes.Buffer
	require.NoError(t, NewCSTEncoder(&buf).Encode(cst))

	var root jsonNode
	require.NoError(t, json.Unmarshal(buf.Bytes(), &root))
	assert.Equal(t, cst.Kind.String(), root.Kind)
	require.NotNil(t, root.Span)
	assert.Equal(t, 1, root.Span.Start.Line)
	assert.Len(t, root.Children, len(cst.Children))

	var tokens []string
	var errs int
	var walk func(n *jsonNode)
	walk = func(n *jsonNode) {
		if n.Token != "" {
			tokens = append(tokens, n.Token)
		}
		if n.Error != nil {
			errs++
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(&root)
	assert.Contains(t, tokens, "A")
	assert.Contains(t, tokens, "x")
	assert.NotEmpty(t, p.Errors())
	assert.Positive(t, errs, "recovered errors appear in the tree")
}
