package codebase

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func callTool(t *testing.T, fn func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (string, bool) {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	res, err := fn(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "got %T", res.Content[0])
	return text.Text, res.IsError
}

func TestResolveSymbolTool(t *testing.T) {
	c, dir := workspace(t)
	h := NewToolHandler(c)

	// "upper" in Strings.upper(dep.name()), line 20.
	text, isErr := callTool(t, h.ResolveSymbol, map[string]any{
		"file":   filepath.Join("app", "Main.java"),
		"line":   float64(20),
		"column": float64(24),
	})
	require.False(t, isErr, text)
	assert.Equal(t, "public static method util.Strings.upper(java.lang.String) : java.lang.String\n"+
		"declared at "+filepath.Join(dir, "util", "Strings.java")+":6:26\n\n"+
		"Upper-cases `s`. @see String#toUpperCase()", text)

	mainPath := filepath.Join(dir, "app", "Main.java")
	text, isErr = callTool(t, h.ResolveSymbol, map[string]any{
		"file":   mainPath,
		"offset": float64(offsetOf(t, c, mainPath, "List;")),
	})
	require.False(t, isErr, text)
	assert.Equal(t, "public interface java.util.List\nextends java.util.Collection", text)

	_, isErr = callTool(t, h.ResolveSymbol, map[string]any{"file": mainPath})
	assert.True(t, isErr)
	_, isErr = callTool(t, h.ResolveSymbol, map[string]any{"file": "missing/Nope.java", "offset": float64(0)})
	assert.True(t, isErr)
	_, isErr = callTool(t, h.ResolveSymbol, map[string]any{})
	assert.True(t, isErr)
}

func TestDescribeClassTool(t *testing.T) {
	c, _ := workspace(t)
	h := NewToolHandler(c)

	text, isErr := callTool(t, h.DescribeClass, map[string]any{"name": "app.Main.Dependency"})
	require.False(t, isErr, text)
	assert.Contains(t, text, "app.Main.Dependency.version() : java.lang.String [public]")

	_, isErr = callTool(t, h.DescribeClass, map[string]any{"name": "no.Such"})
	assert.True(t, isErr)
}

func TestNewMCPServerRegistersTools(t *testing.T) {
	c, _ := workspace(t)
	s := NewMCPServer("test", NewToolHandler(c))
	resp := s.HandleMessage(context.Background(), json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	out, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"name":"resolve_symbol"`)
	assert.Contains(t, string(out), `"name":"describe_class"`)
}
