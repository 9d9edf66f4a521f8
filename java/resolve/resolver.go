// Package resolve answers "what is at this offset" for a Java compilation
// unit. It walks the tree from the root to the deepest node containing the
// offset and hands that node to the handler registered for its kind.
package resolve

import (
	"errors"
	"fmt"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/whatis/java/entry"
	"github.com/dhamidi/whatis/java/tree"
)

var log = commonlog.GetLogger("whatis.resolve")

var (
	ErrNilNode       = errors.New("nil node")
	ErrNodeNotInTree = errors.New("node is not part of the resolved tree")
	ErrNilArgument   = errors.New("nil argument")
)

// Handler resolves the node a query ended at. It must not panic on
// incomplete trees; it returns Unknown when any step fails.
type Handler func(r *Resolver, n tree.Node) Resolution

type Option func(*Resolver)

// WithHandler adds or replaces the handler for kind.
func WithHandler(kind tree.Kind, h Handler) Option {
	return func(r *Resolver) {
		r.handlers[kind] = h
	}
}

// Resolver is read-only after New and may be shared between goroutines as
// long as the pool is not mutated.
type Resolver struct {
	unit     *tree.CompilationUnit
	pool     *entry.Pool
	handlers map[tree.Kind]Handler
}

func New(unit *tree.CompilationUnit, pool *entry.Pool, opts ...Option) (*Resolver, error) {
	if unit == nil {
		return nil, fmt.Errorf("compilation unit: %w", ErrNilArgument)
	}
	if pool == nil {
		return nil, fmt.Errorf("entry pool: %w", ErrNilArgument)
	}
	r := &Resolver{unit: unit, pool: pool, handlers: defaultHandlers()}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func (r *Resolver) Unit() *tree.CompilationUnit { return r.unit }
func (r *Resolver) Pool() *entry.Pool           { return r.pool }

// ResolveAt resolves the deepest node whose range contains offset.
func (r *Resolver) ResolveAt(offset int) Resolution {
	if !r.unit.Range().Contains(offset) {
		return Unknown{}
	}
	return r.dispatch(tree.PathAt(r.unit, offset).Tail())
}

// Resolve resolves a specific node of the tree, including synthetic nodes
// that have no range of their own and so cannot be found by offset. Nodes
// from another tree are rejected with ErrNodeNotInTree.
func (r *Resolver) Resolve(n tree.Node) (Resolution, error) {
	if tree.IsNil(n) {
		return nil, ErrNilNode
	}
	// Build gives every node exactly one parent, so the parent chain ends at
	// r.unit precisely when a descent from r.unit would reach n.
	if tree.Root(n) != tree.Node(r.unit) {
		return nil, fmt.Errorf("%s %s: %w", n.Kind(), n.Range(), ErrNodeNotInTree)
	}
	return r.dispatch(n), nil
}

// resolve is Resolve for handlers, which only pass nodes of r's tree.
func (r *Resolver) resolve(n tree.Node) Resolution {
	if tree.IsNil(n) {
		return Unknown{}
	}
	res, err := r.Resolve(n)
	if err != nil {
		log.Debugf("resolve %s: %s", n.Kind(), err)
		return Unknown{}
	}
	return res
}

func (r *Resolver) dispatch(n tree.Node) Resolution {
	if tree.IsNil(n) {
		return Unknown{}
	}
	h := r.handlers[n.Kind()]
	if h == nil {
		return Unknown{}
	}
	res := h(r, n)
	if res == nil {
		return Unknown{}
	}
	log.Debugf("%s %s: %s", n.Kind(), n.Range(), res)
	return res
}

func defaultHandlers() map[tree.Kind]Handler {
	return map[tree.Kind]Handler{
		tree.KindCompilationUnit: resolveUnit,
		tree.KindPackageDecl:     resolvePackage,
		tree.KindImportDecl:      resolveImport,
		tree.KindClassDecl:       resolveClassDecl,
		tree.KindMethodDecl:      resolveMethodDecl,
		tree.KindFieldDecl:       resolveFieldDecl,
		tree.KindVariable:        resolveVariable,
		tree.KindEnumConstant:    resolveEnumConstant,
		tree.KindModifiers:       resolveModifiers,
		tree.KindParameter:       resolveParameter,
		tree.KindLocalVarDecl:    resolveLocalVarDecl,
		tree.KindTypeRef:         resolveTypeRef,
		tree.KindAnnotation:      resolveAnnotation,
		tree.KindThrowStmt:       resolveThrow,

		tree.KindName:         resolveName,
		tree.KindFieldAccess:  resolveFieldAccess,
		tree.KindMethodCall:   resolveMethodCall,
		tree.KindNew:          resolveNew,
		tree.KindNewArray:     resolveNewArray,
		tree.KindLiteral:      resolveLiteral,
		tree.KindThis:         resolveThis,
		tree.KindSuper:        resolveSuper,
		tree.KindCast:         resolveCast,
		tree.KindInstanceOf:   resolveInstanceOf,
		tree.KindArrayAccess:  resolveArrayAccess,
		tree.KindClassLiteral: resolveClassLiteral,
		tree.KindParen:        resolveParen,
		tree.KindMethodRef:    resolveMethodRef,
	}
}
