// Package mapper turns the concrete syntax tree produced by java/parser
// into the java/tree model. Each Mapper carries its own registry of
// mapping functions keyed by parser node kind, so callers can override how
// a construct is modelled without affecting other sessions.
package mapper

import (
	"errors"
	"fmt"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/whatis/java/parser"
	"github.com/dhamidi/whatis/java/tree"
)

var log = commonlog.GetLogger("whatis.mapper")

var (
	ErrNilNode            = errors.New("nil syntax node")
	ErrNotCompilationUnit = errors.New("not a compilation unit")
)

// Func maps one syntax node. It returns nil for nodes that have no model
// counterpart, such as bare keywords.
type Func func(m *Mapper, n *parser.Node) tree.Node

type Option func(*Mapper)

// WithMapper installs fn for kind, replacing any default.
func WithMapper(kind parser.NodeKind, fn Func) Option {
	return func(m *Mapper) {
		m.funcs[kind] = fn
	}
}

// Mapper is not safe for concurrent use; create one per goroutine.
type Mapper struct {
	funcs   map[parser.NodeKind]Func
	records []*parser.Node
	syntax  []*parser.Node
}

func New(opts ...Option) *Mapper {
	m := &Mapper{funcs: defaultFuncs()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Parse parses src and maps the result with a fresh Mapper.
func Parse(src []byte, opts ...Option) (*tree.CompilationUnit, error) {
	return New(opts...).Parse(src)
}

func (m *Mapper) Parse(src []byte) (*tree.CompilationUnit, error) {
	p := parser.New(src)
	cst := p.CompilationUnit()
	m.syntax = p.Errors()
	if len(m.syntax) > 0 {
		log.Debugf("%d syntax errors, first at %s: %s",
			len(m.syntax), m.syntax[0].Span.Start, m.syntax[0].Error.Message)
	}
	return m.Map(cst)
}

// SyntaxErrors lists the error nodes reported by the last Parse.
func (m *Mapper) SyntaxErrors() []*parser.Node {
	return m.syntax
}

// Map converts a CompilationUnit syntax node.
func (m *Mapper) Map(cst *parser.Node) (*tree.CompilationUnit, error) {
	if cst == nil {
		return nil, ErrNilNode
	}
	if cst.Kind != parser.KindCompilationUnit {
		return nil, fmt.Errorf("map %s: %w", cst.Kind, ErrNotCompilationUnit)
	}
	unit, ok := m.Node(cst).(*tree.CompilationUnit)
	if !ok {
		return nil, fmt.Errorf("mapper for %s returned another node type: %w", cst.Kind, ErrNotCompilationUnit)
	}
	return unit, nil
}

// Node maps n with the registered function for its kind. Kinds without a
// function map to nil.
func (m *Mapper) Node(n *parser.Node) tree.Node {
	if n == nil {
		return nil
	}
	fn, ok := m.funcs[n.Kind]
	if !ok {
		return nil
	}
	return fn(m, n)
}

// ExtractRange converts a half-open parser span into a closed tree range.
// Empty spans have no extent and become UnknownRange.
func ExtractRange(span parser.Span) tree.Range {
	if span.End.Offset <= span.Start.Offset {
		return tree.UnknownRange
	}
	return tree.Range{Begin: span.Start.Offset, End: span.End.Offset - 1}
}

func mapAs[T tree.Node](m *Mapper, n *parser.Node) T {
	var zero T
	if t, ok := m.Node(n).(T); ok {
		return t
	}
	return zero
}

func mapAll[T tree.Node](m *Mapper, ns []*parser.Node) []T {
	var out []T
	for _, n := range ns {
		if t, ok := m.Node(n).(T); ok {
			out = append(out, t)
		}
	}
	return out
}

// expr maps n as an expression. Nodes that map to something else are
// wrapped in an Erroneous expression.
func (m *Mapper) expr(n *parser.Node) tree.Expr {
	switch v := m.Node(n).(type) {
	case nil:
		return nil
	case tree.Expr:
		return v
	default:
		return tree.Build(&tree.Erroneous{Message: "expected expression", Parts: []tree.Node{v}}, v.Range())
	}
}

func (m *Mapper) exprs(ns []*parser.Node) []tree.Expr {
	var out []tree.Expr
	for _, n := range ns {
		if e := m.expr(n); e != nil {
			out = append(out, e)
		}
	}
	return out
}

func (m *Mapper) stmt(n *parser.Node) tree.Stmt {
	switch v := m.Node(n).(type) {
	case nil:
		return nil
	case tree.Stmt:
		return v
	default:
		return tree.Build(&tree.Erroneous{Message: "expected statement", Parts: []tree.Node{v}}, v.Range())
	}
}

func defaultFuncs() map[parser.NodeKind]Func {
	return map[parser.NodeKind]Func{
		parser.KindCompilationUnit: mapCompilationUnit,
		parser.KindPackageDecl:     mapPackageDecl,
		parser.KindImportDecl:      mapImportDecl,
		parser.KindClassDecl:       mapClassDecl,
		parser.KindEnumConstant:    mapEnumConstant,
		parser.KindFieldDecl:       mapFieldDecl,
		parser.KindVarDeclarator:   mapVariable,
		parser.KindMethodDecl:      mapMethodDecl,
		parser.KindConstructorDecl: mapMethodDecl,
		parser.KindParameter:       mapParameter,
		parser.KindInitializer:     mapInitializer,
		parser.KindModifiers:       mapModifiers,
		parser.KindAnnotation:      mapAnnotation,
		parser.KindType:            mapType,
		parser.KindWildcard:        mapWildcard,
		parser.KindTypeParameter:   mapTypeParameter,

		parser.KindBlock:        mapBlock,
		parser.KindLocalVarDecl: mapLocalVarDecl,
		parser.KindExprStmt:     mapExprStmt,
		parser.KindReturnStmt:   mapReturnStmt,
		parser.KindThrowStmt:    mapThrowStmt,
		parser.KindCatchClause:  mapCatchClause,
		parser.KindStatement:    mapCompound,
		parser.KindSwitchExpr:   mapCompound,
		parser.KindError:        mapError,

		parser.KindLiteral:          mapLiteral,
		parser.KindName:             mapName,
		parser.KindFieldAccess:      mapFieldAccess,
		parser.KindCall:             mapCall,
		parser.KindNew:              mapNew,
		parser.KindNewArray:         mapNewArray,
		parser.KindArrayInit:        mapArrayInit,
		parser.KindCast:             mapCast,
		parser.KindInstanceOf:       mapInstanceOf,
		parser.KindArrayAccess:      mapArrayAccess,
		parser.KindThis:             mapThis,
		parser.KindSuper:            mapSuper,
		parser.KindBinary:           mapBinary,
		parser.KindUnary:            mapUnary,
		parser.KindPostfix:          mapUnary,
		parser.KindAssign:           mapAssign,
		parser.KindConditional:      mapConditional,
		parser.KindLambda:           mapLambda,
		parser.KindMethodRef:        mapMethodRef,
		parser.KindClassLiteral:     mapClassLiteral,
		parser.KindParen:            mapParen,
		parser.KindElementValuePair: mapElementValuePair,
	}
}
