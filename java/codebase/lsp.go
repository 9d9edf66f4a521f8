package codebase

import (
	"context"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/dhamidi/whatis/java/entry"
	"github.com/dhamidi/whatis/java/resolve"

	_ "github.com/tliron/commonlog/simple"
)

const lsName = "whatis"

type LSPServer struct {
	codebase    *Codebase
	base        *entry.Pool
	watch       WatchOptions
	stopWatcher context.CancelFunc
	handler     protocol.Handler
	server      *server.Server
	version     string
}

// NewLSPServer serves hover, definition and completion for the workspace
// the client opens. Sources are layered over base; watch picks up
// changes made outside the editor.
func NewLSPServer(version string, base *entry.Pool, watch WatchOptions) *LSPServer {
	ls := &LSPServer{
		version: version,
		base:    base,
		watch:   watch,
	}

	ls.handler = protocol.Handler{
		Initialize:             ls.initialize,
		Initialized:            ls.initialized,
		Shutdown:               ls.shutdown,
		SetTrace:               ls.setTrace,
		TextDocumentDidOpen:    ls.textDocumentDidOpen,
		TextDocumentDidChange:  ls.textDocumentDidChange,
		TextDocumentDidClose:   ls.textDocumentDidClose,
		TextDocumentDidSave:    ls.textDocumentDidSave,
		TextDocumentHover:      ls.textDocumentHover,
		TextDocumentDefinition: ls.textDocumentDefinition,
		TextDocumentCompletion: ls.textDocumentCompletion,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *LSPServer) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *LSPServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}

	ls.codebase = New(rootDir, ls.base)

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	capabilities.CompletionProvider = &protocol.CompletionOptions{
		TriggerCharacters: []string{"."},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *LSPServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	if err := ls.codebase.ScanAll(); err != nil {
		log.Warningf("scanning %s: %s", ls.codebase.RootDir(), err)
	}
	watchCtx, cancel := context.WithCancel(context.Background())
	ls.stopWatcher = cancel
	if err := Watch(watchCtx, ls.codebase, ls.watch); err != nil {
		log.Warningf("watching %s: %s", ls.codebase.RootDir(), err)
	}
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	if ls.stopWatcher != nil {
		ls.stopWatcher()
	}
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *LSPServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.update(path, []byte(params.TextDocument.Text))
	return nil
}

func (ls *LSPServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			ls.update(path, []byte(textChange.Text))
		}
	}
	return nil
}

func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	return nil
}

func (ls *LSPServer) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if params.Text != nil {
		ls.update(path, []byte(*params.Text))
	} else if err := ls.codebase.ScanFile(path); err != nil {
		log.Warningf("rescan %s: %s", path, err)
	}
	return nil
}

func (ls *LSPServer) update(path string, content []byte) {
	if err := ls.codebase.UpdateFile(path, content); err != nil {
		log.Warningf("update %s: %s", path, err)
	}
}

// resolveAt resolves the symbol under an LSP position.
func (ls *LSPServer) resolveAt(uri protocol.DocumentUri, pos protocol.Position) resolve.Resolution {
	path, err := uriToPath(uri)
	if err != nil {
		return nil
	}
	file := ls.codebase.GetFile(path)
	if file == nil {
		return nil
	}
	offset, err := positionOffset(file.Content, pos)
	if err != nil {
		return nil
	}
	res, err := ls.codebase.ResolveAt(path, offset)
	if err != nil {
		log.Debugf("resolve %s: %s", path, err)
		return nil
	}
	return res
}

func (ls *LSPServer) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	res := ls.resolveAt(params.TextDocument.URI, params.Position)
	if resolve.IsUnknown(res) {
		return nil, nil
	}
	value := "```java\n" + Describe(res) + "\n```"
	if doc := ls.codebase.Doc(res); doc != "" {
		value += "\n\n" + doc
	}
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: value,
		},
	}, nil
}

func (ls *LSPServer) textDocumentDefinition(ctx *glsp.Context, params *protocol.DefinitionParams) (any, error) {
	res := ls.resolveAt(params.TextDocument.URI, params.Position)
	if resolve.IsUnknown(res) {
		return nil, nil
	}
	loc, ok := ls.codebase.Definition(res)
	if !ok {
		return nil, nil
	}
	target := ls.codebase.GetFile(loc.Path)
	if target == nil {
		return nil, nil
	}
	return protocol.Location{
		URI:   pathToURI(loc.Path),
		Range: lspRange(target.Content, loc.Range),
	}, nil
}

func (ls *LSPServer) textDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}

	file := ls.codebase.GetFile(path)
	if file == nil {
		return nil, nil
	}

	offset, err := positionOffset(file.Content, params.Position)
	if err != nil {
		return nil, nil
	}
	dot := findTriggerOffset(file.Content, offset)
	if dot < 0 {
		return nil, nil
	}

	completions, err := ls.codebase.CompletionsAt(path, dot)
	if err != nil || len(completions) == 0 {
		return nil, nil
	}

	var items []protocol.CompletionItem
	for _, c := range completions {
		kind := toProtocolKind(c.Kind)
		detail := c.Detail
		insertText := c.InsertText
		format := protocol.InsertTextFormatSnippet

		items = append(items, protocol.CompletionItem{
			Label:            c.Label,
			Kind:             &kind,
			Detail:           &detail,
			InsertText:       &insertText,
			InsertTextFormat: &format,
		})
	}

	return items, nil
}

// findTriggerOffset returns the offset of the dot the identifier being
// typed at offset follows, or -1 when there is none on the line.
func findTriggerOffset(content []byte, offset int) int {
	if offset > len(content) {
		offset = len(content)
	}
	for i := offset - 1; i >= 0; i-- {
		switch ch := content[i]; {
		case ch == '.':
			return i
		case ch == '_' || ch == '$' || ch >= 0x80 ||
			'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || '0' <= ch && ch <= '9':
		default:
			return -1
		}
	}
	return -1
}

func toProtocolKind(kind CompletionKind) protocol.CompletionItemKind {
	switch kind {
	case CompletionKindMethod:
		return protocol.CompletionItemKindMethod
	case CompletionKindField:
		return protocol.CompletionItemKindField
	case CompletionKindClass:
		return protocol.CompletionItemKindClass
	case CompletionKindPackage:
		return protocol.CompletionItemKindModule
	default:
		return protocol.CompletionItemKindText
	}
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func pathToURI(path string) protocol.DocumentUri {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
