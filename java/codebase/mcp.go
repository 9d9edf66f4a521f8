package codebase

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/dhamidi/whatis/java/entry"
	"github.com/dhamidi/whatis/java/resolve"
)

// ToolHandler adapts MCP tool calls to codebase queries.
type ToolHandler struct {
	codebase *Codebase
}

func NewToolHandler(c *Codebase) *ToolHandler {
	return &ToolHandler{codebase: c}
}

// NewMCPServer registers the resolve_symbol and describe_class tools.
func NewMCPServer(version string, h *ToolHandler) *server.MCPServer {
	s := server.NewMCPServer(
		lsName,
		version,
		server.WithToolCapabilities(false),
	)

	resolveTool := mcp.NewTool("resolve_symbol",
		mcp.WithDescription("Resolve the Java symbol at a position of a source file to the class, field, method, package or type it denotes."),
		mcp.WithString("file",
			mcp.Required(),
			mcp.Description("Path of the .java file, absolute or relative to the workspace root"),
		),
		mcp.WithNumber("offset",
			mcp.Description("Byte offset into the file; used when line is not given"),
		),
		mcp.WithNumber("line",
			mcp.Description("1-based line"),
		),
		mcp.WithNumber("column",
			mcp.Description("1-based column, required with line"),
		),
	)
	s.AddTool(resolveTool, h.ResolveSymbol)

	describeTool := mcp.NewTool("describe_class",
		mcp.WithDescription("List the supertypes, fields and methods of a class known to the workspace or its classpath."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Binary or dotted class name, e.g. java/util/List or java.util.Map$Entry"),
		),
	)
	s.AddTool(describeTool, h.DescribeClass)

	return s
}

func (h *ToolHandler) ResolveSymbol(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	file, err := req.RequireString("file")
	if err != nil {
		return mcp.NewToolResultError("file is required"), nil
	}
	path := h.path(file)
	f := h.codebase.GetFile(path)
	if f == nil {
		if err := h.codebase.ScanFile(path); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("reading %s: %v", file, err)), nil
		}
		f = h.codebase.GetFile(path)
	}

	offset := req.GetInt("offset", -1)
	if line := req.GetInt("line", 0); line > 0 {
		offset, err = OffsetAt(f.Content, line, req.GetInt("column", 1))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}
	if offset < 0 {
		return mcp.NewToolResultError("offset or line is required"), nil
	}

	res, err := h.codebase.ResolveAt(path, offset)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text := Describe(res)
	if loc, ok := h.codebase.Definition(res); ok {
		if target := h.codebase.GetFile(loc.Path); target != nil {
			line, col := LineColumn(target.Content, loc.Range.Begin)
			text += fmt.Sprintf("\ndeclared at %s:%d:%d", loc.Path, line, col)
		}
	}
	if doc := h.codebase.Doc(res); doc != "" {
		text += "\n\n" + doc
	}
	return mcp.NewToolResultText(text), nil
}

func (h *ToolHandler) DescribeClass(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name is required"), nil
	}
	cls := FindClass(h.codebase.Pool(), name)
	if cls == nil {
		return mcp.NewToolResultError(fmt.Sprintf("class %s not found", name)), nil
	}
	return mcp.NewToolResultText(DescribeClass(cls)), nil
}

func (h *ToolHandler) path(file string) string {
	if filepath.IsAbs(file) {
		return filepath.Clean(file)
	}
	return filepath.Join(h.codebase.RootDir(), file)
}

// FindClass looks a class up by internal name, falling back to dotted
// spellings where any dot may separate a nested class.
func FindClass(pool *entry.Pool, name string) *entry.ClassEntry {
	internal := strings.ReplaceAll(name, ".", "/")
	if cls := pool.Class(internal); cls != nil {
		return cls
	}
	for i := strings.LastIndex(internal, "/"); i >= 0; i = strings.LastIndex(internal, "/") {
		internal = internal[:i] + "$" + internal[i+1:]
		if cls := pool.Class(internal); cls != nil {
			return cls
		}
	}
	return nil
}

// DescribeClass renders a class header followed by its declared members,
// sorted by name.
func DescribeClass(cls *entry.ClassEntry) string {
	var b strings.Builder
	b.WriteString(Describe(resolve.ClassResolution{Class: cls}))
	var lines []string
	for _, f := range cls.Fields() {
		lines = append(lines, memberLine(f))
	}
	for _, m := range cls.Methods() {
		lines = append(lines, memberLine(m))
	}
	sort.Strings(lines)
	for _, l := range lines {
		b.WriteString("\n  " + l)
	}
	return b.String()
}

func memberLine(m entry.Member) string {
	if mods := m.Access().Modifiers(); mods != "" {
		return m.String() + " [" + mods + "]"
	}
	return m.String()
}
