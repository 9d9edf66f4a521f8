package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type Lexer struct {
	input []byte
	pos   int
	line  int
	col   int
}

func NewLexer(input []byte) *Lexer {
	return &Lexer{input: input, line: 1, col: 1}
}

func (l *Lexer) Position() Position {
	return Position{Offset: l.pos, Line: l.line, Column: l.col}
}

func (l *Lexer) peek() byte { return l.peekN(0) }
func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) advance() {
	if l.pos >= len(l.input) {
		return
	}
	if l.input[l.pos] == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	l.pos++
}

func (l *Lexer) advanceN(n int) {
	for i := 0; i < n; i++ {
		l.advance()
	}
}

// Tokenize lexes all of input, dropping whitespace and comments. The last
// token is always EOF.
func Tokenize(input []byte) []Token {
	l := NewLexer(input)
	var tokens []Token
	for {
		tok := l.NextToken()
		if tok.Kind == TokenComment {
			continue
		}
		tokens = append(tokens, tok)
		if tok.Kind == TokenEOF {
			return tokens
		}
	}
}

func (l *Lexer) NextToken() Token {
	for l.pos < len(l.input) && isSpace(l.peek()) {
		l.advance()
	}
	start := l.Position()
	if l.pos >= len(l.input) {
		return Token{Kind: TokenEOF, Span: Span{Start: start, End: start}}
	}

	ch := l.peek()
	switch {
	case ch == '/' && l.peekN(1) == '/':
		for l.pos < len(l.input) && l.peek() != '\n' {
			l.advance()
		}
		return l.token(TokenComment, start)
	case ch == '/' && l.peekN(1) == '*':
		l.advanceN(2)
		for l.pos < len(l.input) && !(l.peek() == '*' && l.peekN(1) == '/') {
			l.advance()
		}
		l.advanceN(2)
		return l.token(TokenComment, start)
	case ch == '"' && l.peekN(1) == '"' && l.peekN(2) == '"':
		return l.scanTextBlock(start)
	case ch == '"' || ch == '\'':
		return l.scanQuoted(start, ch)
	case isDigit(ch) || (ch == '.' && isDigit(l.peekN(1))):
		return l.scanNumber(start)
	}

	if r, size := utf8.DecodeRune(l.input[l.pos:]); isJavaLetter(r) {
		for isJavaLetter(r) || unicode.IsDigit(r) {
			l.advanceN(size)
			r, size = utf8.DecodeRune(l.input[l.pos:])
		}
		tok := l.token(TokenIdent, start)
		if keywords[tok.Literal] {
			tok.Kind = TokenKeyword
		}
		return tok
	}

	for _, op := range operators {
		if strings.HasPrefix(string(l.input[l.pos:min(l.pos+4, len(l.input))]), op) {
			l.advanceN(len(op))
			return l.token(TokenOperator, start)
		}
	}
	_, size := utf8.DecodeRune(l.input[l.pos:])
	l.advanceN(size)
	return l.token(TokenError, start)
}

func (l *Lexer) scanQuoted(start Position, quote byte) Token {
	l.advance()
	for l.pos < len(l.input) {
		switch l.peek() {
		case '\\':
			l.advanceN(2)
			continue
		case '\n':
			return l.token(TokenError, start)
		case quote:
			l.advance()
			if quote == '\'' {
				return l.token(TokenCharLiteral, start)
			}
			return l.token(TokenStringLiteral, start)
		}
		l.advance()
	}
	return l.token(TokenError, start)
}

func (l *Lexer) scanTextBlock(start Position) Token {
	l.advanceN(3)
	for l.pos < len(l.input) {
		if l.peek() == '\\' {
			l.advanceN(2)
			continue
		}
		if l.peek() == '"' && l.peekN(1) == '"' && l.peekN(2) == '"' {
			l.advanceN(3)
			return l.token(TokenTextBlock, start)
		}
		l.advance()
	}
	return l.token(TokenError, start)
}

func (l *Lexer) scanNumber(start Position) Token {
	kind := TokenIntLiteral
	hex := l.peek() == '0' && (l.peekN(1) == 'x' || l.peekN(1) == 'X')
	if hex || (l.peek() == '0' && (l.peekN(1) == 'b' || l.peekN(1) == 'B')) {
		l.advanceN(2)
	}
	for l.pos < len(l.input) {
		ch := l.peek()
		switch {
		case isDigit(ch) || ch == '_' || (hex && isHexDigit(ch)):
			l.advance()
		case ch == '.' && isDigit(l.peekN(1)) || ch == '.' && kind == TokenIntLiteral && !hex && !isJavaLetter(rune(l.peekN(1))):
			kind = TokenDoubleLiteral
			l.advance()
		case (!hex && (ch == 'e' || ch == 'E')) || (hex && (ch == 'p' || ch == 'P')):
			kind = TokenDoubleLiteral
			l.advance()
			if l.peek() == '+' || l.peek() == '-' {
				l.advance()
			}
		default:
			switch ch {
			case 'l', 'L':
				l.advance()
				return l.token(TokenLongLiteral, start)
			case 'f', 'F':
				l.advance()
				return l.token(TokenFloatLiteral, start)
			case 'd', 'D':
				l.advance()
				return l.token(TokenDoubleLiteral, start)
			}
			return l.token(kind, start)
		}
	}
	return l.token(kind, start)
}

func (l *Lexer) token(kind TokenKind, start Position) Token {
	return Token{
		Kind:    kind,
		Span:    Span{Start: start, End: l.Position()},
		Literal: string(l.input[start.Offset:l.pos]),
	}
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' || ch == '\f'
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isJavaLetter(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}
