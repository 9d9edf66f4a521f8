package parser

import "fmt"

type Position struct {
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Span covers [Start, End): End is the position just after the last
// character.
type Span struct {
	Start Position
	End   Position
}

type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenError
	TokenComment
	TokenIdent
	TokenKeyword
	TokenIntLiteral
	TokenLongLiteral
	TokenFloatLiteral
	TokenDoubleLiteral
	TokenCharLiteral
	TokenStringLiteral
	TokenTextBlock
	TokenOperator
)

var tokenKindNames = [...]string{
	TokenEOF:           "EOF",
	TokenError:         "Error",
	TokenComment:       "Comment",
	TokenIdent:         "Ident",
	TokenKeyword:       "Keyword",
	TokenIntLiteral:    "IntLiteral",
	TokenLongLiteral:   "LongLiteral",
	TokenFloatLiteral:  "FloatLiteral",
	TokenDoubleLiteral: "DoubleLiteral",
	TokenCharLiteral:   "CharLiteral",
	TokenStringLiteral: "StringLiteral",
	TokenTextBlock:     "TextBlock",
	TokenOperator:      "Operator",
}

func (k TokenKind) String() string {
	if int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// Token is a lexeme. Keywords and operators are told apart by Literal.
type Token struct {
	Kind    TokenKind
	Span    Span
	Literal string
}

func (t Token) Is(kind TokenKind, literal string) bool {
	return t.Kind == kind && t.Literal == literal
}

// Adjacent reports whether next starts exactly where t ends.
func (t Token) Adjacent(next Token) bool {
	return t.Span.End.Offset == next.Span.Start.Offset
}

func (t Token) String() string {
	if t.Kind == TokenEOF {
		return "EOF"
	}
	return fmt.Sprintf("%s %q", t.Kind, t.Literal)
}

// Reserved keywords. Contextual keywords such as var, record, yield and
// sealed lex as identifiers and are recognised by the parser.
var keywords = map[string]bool{
	"abstract": true, "assert": true, "boolean": true, "break": true, "byte": true,
	"case": true, "catch": true, "char": true, "class": true, "const": true,
	"continue": true, "default": true, "do": true, "double": true, "else": true,
	"enum": true, "extends": true, "final": true, "finally": true, "float": true,
	"for": true, "goto": true, "if": true, "implements": true, "import": true,
	"instanceof": true, "int": true, "interface": true, "long": true, "native": true,
	"new": true, "package": true, "private": true, "protected": true, "public": true,
	"return": true, "short": true, "static": true, "strictfp": true, "super": true,
	"switch": true, "synchronized": true, "this": true, "throw": true, "throws": true,
	"transient": true, "try": true, "void": true, "volatile": true, "while": true,
	"true": true, "false": true, "null": true,
}

var primitiveTypes = map[string]bool{
	"boolean": true, "byte": true, "char": true, "short": true,
	"int": true, "long": true, "float": true, "double": true,
}

// Operators in longest-match order. '>' is always lexed alone so that
// nested type arguments close correctly; the expression parser rejoins
// adjacent '>' tokens into shift and comparison operators.
var operators = []string{
	"<<=", "...", "->", "::", "++", "--", "&&", "||", "==", "!=", "<=",
	"+=", "-=", "*=", "/=", "&=", "|=", "^=", "%=", "<<",
	"(", ")", "{", "}", "[", "]", ";", ",", ".", "@", "=", "<", ">",
	"!", "~", "?", ":", "+", "-", "*", "/", "&", "|", "^", "%",
}
