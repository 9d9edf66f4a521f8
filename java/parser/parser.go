// Package parser is a tolerant Java lexer and recursive-descent parser. It
// never gives up on malformed input: unexpected tokens become Error nodes
// and parsing resumes at the next plausible boundary, so every file yields
// a complete concrete syntax tree.
package parser

import (
	"fmt"
	"io"
)

type Parser struct {
	tokens []Token
	pos    int
	errors []*Node
}

func New(src []byte) *Parser {
	return &Parser{tokens: Tokenize(src)}
}

// Parse reads a whole compilation unit.
func Parse(src []byte) *Node {
	return New(src).CompilationUnit()
}

// ParseReader is Parse for an io.Reader; only reading can fail.
func ParseReader(r io.Reader) (*Node, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	return Parse(src), nil
}

func ParseExpression(src []byte) *Node {
	return New(src).Expression()
}

// Errors lists the error nodes produced so far, in source order of
// detection.
func (p *Parser) Errors() []*Node {
	return p.errors
}

func (p *Parser) CompilationUnit() *Node {
	return p.parseCompilationUnit()
}

func (p *Parser) Expression() *Node {
	n := p.parseExpression()
	if !p.atEOF() {
		n = p.wrapError(n, "unexpected trailing input")
	}
	return n
}

func (p *Parser) peek() Token {
	return p.peekN(0)
}

func (p *Parser) peekN(n int) Token {
	if p.pos+n >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+n]
}

func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *Parser) atEOF() bool {
	return p.peek().Kind == TokenEOF
}

// is matches the current keyword or operator token.
func (p *Parser) is(literal string) bool {
	return p.isAt(0, literal)
}

func (p *Parser) isAt(n int, literal string) bool {
	tok := p.peekN(n)
	return (tok.Kind == TokenKeyword || tok.Kind == TokenOperator) && tok.Literal == literal
}

func (p *Parser) isIdent() bool {
	return p.peek().Kind == TokenIdent
}

// isContextual matches an identifier used as a contextual keyword.
func (p *Parser) isContextual(n int, word string) bool {
	return p.peekN(n).Is(TokenIdent, word)
}

func (p *Parser) accept(literal string) bool {
	if p.is(literal) {
		p.advance()
		return true
	}
	return false
}

// expect consumes literal or records an error without consuming.
func (p *Parser) expect(literal string) *Node {
	if p.accept(literal) {
		return nil
	}
	tok := p.peek()
	n := &Node{
		Kind:  KindError,
		Span:  Span{Start: tok.Span.Start, End: tok.Span.Start},
		Error: &Error{Message: fmt.Sprintf("expected %q", literal), Got: tok},
	}
	p.errors = append(p.errors, n)
	return n
}

func (p *Parser) leaf(kind NodeKind) *Node {
	tok := p.advance()
	return &Node{Kind: kind, Span: tok.Span, Token: &tok}
}

func (p *Parser) identifier() *Node {
	if p.isIdent() {
		return p.leaf(KindIdentifier)
	}
	return p.errorNode("expected identifier")
}

func (p *Parser) startNode(kind NodeKind) *Node {
	return &Node{Kind: kind, Span: Span{Start: p.peek().Span.Start}}
}

// startAt opens a node that begins where an already parsed node begins.
func (p *Parser) startAt(kind NodeKind, first *Node) *Node {
	n := &Node{Kind: kind, Span: Span{Start: first.Span.Start}}
	n.AddChild(first)
	return n
}

func (p *Parser) finishNode(n *Node) *Node {
	if p.pos > 0 {
		n.Span.End = p.tokens[p.pos-1].Span.End
	}
	if n.Span.End.Offset < n.Span.Start.Offset {
		n.Span.End = n.Span.Start
	}
	return n
}

// errorNode records an error at the current token and skips it, then
// skips further until one of recoverTo (not consumed) or EOF.
func (p *Parser) errorNode(msg string, recoverTo ...string) *Node {
	tok := p.peek()
	n := &Node{
		Kind:  KindError,
		Span:  Span{Start: tok.Span.Start},
		Error: &Error{Message: msg, Got: tok},
	}
	p.errors = append(p.errors, n)
	if !p.atEOF() {
		p.advance()
	}
	p.recoverTo(recoverTo...)
	return p.finishNode(n)
}

func (p *Parser) recoverTo(literals ...string) {
	if len(literals) == 0 {
		return
	}
	depth := 0
	for !p.atEOF() {
		if depth == 0 {
			for _, l := range literals {
				if p.is(l) {
					return
				}
			}
		}
		switch {
		case p.is("{") || p.is("("):
			depth++
		case p.is("}") || p.is(")"):
			if depth == 0 {
				return
			}
			depth--
		}
		p.advance()
	}
}

func (p *Parser) wrapError(inner *Node, msg string) *Node {
	n := p.startAt(KindError, inner)
	n.Error = &Error{Message: msg, Got: p.peek()}
	p.errors = append(p.errors, n)
	for !p.atEOF() {
		p.advance()
	}
	return p.finishNode(n)
}

// mustProgress guards parse loops: call it at the top of an iteration and
// the returned function at the bottom. If nothing was consumed the
// returned function skips one token and reports false.
func (p *Parser) mustProgress() func() bool {
	saved := p.pos
	return func() bool {
		if p.pos == saved {
			if !p.atEOF() {
				p.advance()
			}
			return false
		}
		return true
	}
}

// speculate runs fn and rewinds when it returns nil.
func (p *Parser) speculate(fn func() *Node) *Node {
	saved, savedErrs := p.pos, len(p.errors)
	n := fn()
	if n == nil {
		p.pos = saved
		p.errors = p.errors[:savedErrs]
	}
	return n
}

func (p *Parser) parseCompilationUnit() *Node {
	n := p.startNode(KindCompilationUnit)
	if p.is("package") || (p.is("@") && p.isAnnotatedPackage()) {
		n.AddChild(p.parsePackageDecl())
	}
	for p.is("import") {
		n.AddChild(p.parseImportDecl())
	}
	for !p.atEOF() {
		done := p.mustProgress()
		switch {
		case p.accept(";"):
		case p.is("import"):
			n.AddChild(p.parseImportDecl())
		default:
			n.AddChild(p.parseTypeDecl())
		}
		done()
	}
	return p.finishNode(n)
}

func (p *Parser) isAnnotatedPackage() bool {
	saved, errs := p.pos, len(p.errors)
	defer func() { p.pos, p.errors = saved, p.errors[:errs] }()
	for p.is("@") && !p.isAt(1, "interface") {
		p.parseAnnotation()
	}
	return p.is("package")
}

func (p *Parser) parsePackageDecl() *Node {
	n := p.startNode(KindPackageDecl)
	for p.is("@") {
		n.AddChild(p.parseAnnotation())
	}
	p.expect("package")
	n.AddChild(p.parseQualifiedName())
	n.AddChild(p.expect(";"))
	return p.finishNode(n)
}

func (p *Parser) parseImportDecl() *Node {
	n := p.startNode(KindImportDecl)
	p.advance()
	if p.is("static") {
		n.AddChild(p.leaf(KindKeyword))
	}
	n.AddChild(p.parseQualifiedName())
	if p.is(".") && p.isAt(1, "*") {
		p.advance()
		n.AddChild(p.leaf(KindKeyword))
	}
	if e := p.expect(";"); e != nil {
		n.AddChild(e)
		p.recoverTo(";", "import", "class", "interface", "enum", "public")
		p.accept(";")
	}
	return p.finishNode(n)
}

func (p *Parser) parseQualifiedName() *Node {
	n := p.startNode(KindQualifiedName)
	n.AddChild(p.identifier())
	for p.is(".") && p.peekN(1).Kind == TokenIdent {
		p.advance()
		n.AddChild(p.leaf(KindIdentifier))
	}
	return p.finishNode(n)
}

func (p *Parser) isTypeDeclStart() bool {
	switch {
	case p.is("class"), p.is("interface"), p.is("enum"):
		return true
	case p.is("@") && p.isAt(1, "interface"):
		return true
	case p.isContextual(0, "record") && p.peekN(1).Kind == TokenIdent:
		return true
	}
	return false
}

func (p *Parser) parseTypeDecl() *Node {
	mods := p.parseModifiers()
	if p.isTypeDeclStart() {
		return p.parseClassDecl(mods)
	}
	return p.errorNode("expected type declaration", "class", "interface", "enum", "@", "public", "final", "abstract")
}
