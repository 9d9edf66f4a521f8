// Package tree is the position-addressable syntax model the resolver
// works on. Nodes are built bottom-up by a mapper, one Build call per node,
// and are immutable afterwards.
package tree

import (
	"fmt"
	"reflect"
	"slices"
)

type Kind int

const (
	KindCompilationUnit Kind = iota
	KindPackageDecl
	KindImportDecl
	KindClassDecl
	KindEnumConstant
	KindFieldDecl
	KindVariable
	KindMethodDecl
	KindParameter
	KindInitializer
	KindModifiers
	KindAnnotation
	KindTypeRef
	KindTypeParameter

	KindBlock
	KindLocalVarDecl
	KindExprStmt
	KindReturnStmt
	KindThrowStmt
	KindCatchClause
	KindCompound

	KindName
	KindFieldAccess
	KindMethodCall
	KindNew
	KindNewArray
	KindArrayInit
	KindCast
	KindInstanceOf
	KindArrayAccess
	KindLiteral
	KindThis
	KindSuper
	KindBinary
	KindUnary
	KindAssign
	KindConditional
	KindLambda
	KindMethodRef
	KindClassLiteral
	KindParen
	KindErroneous
)

var kindNames = [...]string{
	KindCompilationUnit: "CompilationUnit",
	KindPackageDecl:     "PackageDecl",
	KindImportDecl:      "ImportDecl",
	KindClassDecl:       "ClassDecl",
	KindEnumConstant:    "EnumConstant",
	KindFieldDecl:       "FieldDecl",
	KindVariable:        "Variable",
	KindMethodDecl:      "MethodDecl",
	KindParameter:       "Parameter",
	KindInitializer:     "Initializer",
	KindModifiers:       "Modifiers",
	KindAnnotation:      "Annotation",
	KindTypeRef:         "TypeRef",
	KindTypeParameter:   "TypeParameter",
	KindBlock:           "Block",
	KindLocalVarDecl:    "LocalVarDecl",
	KindExprStmt:        "ExprStmt",
	KindReturnStmt:      "ReturnStmt",
	KindThrowStmt:       "ThrowStmt",
	KindCatchClause:     "CatchClause",
	KindCompound:        "Compound",
	KindName:            "Name",
	KindFieldAccess:     "FieldAccess",
	KindMethodCall:      "MethodCall",
	KindNew:             "New",
	KindNewArray:        "NewArray",
	KindArrayInit:       "ArrayInit",
	KindCast:            "Cast",
	KindInstanceOf:      "InstanceOf",
	KindArrayAccess:     "ArrayAccess",
	KindLiteral:         "Literal",
	KindThis:            "This",
	KindSuper:           "Super",
	KindBinary:          "Binary",
	KindUnary:           "Unary",
	KindAssign:          "Assign",
	KindConditional:     "Conditional",
	KindLambda:          "Lambda",
	KindMethodRef:       "MethodRef",
	KindClassLiteral:    "ClassLiteral",
	KindParen:           "Paren",
	KindErroneous:       "Erroneous",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Node is implemented by every model type in this package.
type Node interface {
	Kind() Kind
	Range() Range
	// Parent is nil only for the root.
	Parent() Node
	// Children lists the child nodes with known ranges in Range order.
	Children() []Node
	// ChildAt returns the first child whose range contains pos.
	ChildAt(pos int) Node

	base() *Base
	parts() []Node
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Declaration is a node that introduces a named symbol.
type Declaration interface {
	Node
	DeclaredName() string
	NameRange() Range
}

type Base struct {
	rng      Range
	parent   Node
	children []Node
}

func (b *Base) Range() Range     { return b.rng }
func (b *Base) Parent() Node     { return b.parent }
func (b *Base) Children() []Node { return b.children }
func (b *Base) base() *Base      { return b }

func (b *Base) ChildAt(pos int) Node {
	for _, c := range b.children {
		if c.Range().Contains(pos) {
			return c
		}
	}
	return nil
}

// Build finishes construction of n: it records the range, derives the
// generic child list from the typed fields and sets the parent of every
// child, synthetic ones included. Nil children are skipped and children
// with unknown ranges are adopted but not listed. Adopting a node that
// already has a parent panics; each node belongs to exactly one tree
// position.
func Build[T Node](n T, rng Range) T {
	b := n.base()
	b.rng = rng
	b.children = nil
	for _, c := range n.parts() {
		if IsNil(c) {
			continue
		}
		cb := c.base()
		if cb.parent != nil {
			panic(fmt.Sprintf("tree: %s %s already has a parent", c.Kind(), c.Range()))
		}
		cb.parent = n
		if !c.Range().IsUnknown() {
			b.children = append(b.children, c)
		}
	}
	slices.SortStableFunc(b.children, func(x, y Node) int {
		return x.Range().Compare(y.Range())
	})
	return n
}

// IsNil reports a nil interface or a typed nil node pointer.
func IsNil(n Node) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

func one[T Node](n T) []Node {
	if IsNil(n) {
		return nil
	}
	return []Node{n}
}

func many[T Node](ns []T) []Node {
	out := make([]Node, 0, len(ns))
	for _, n := range ns {
		out = append(out, n)
	}
	return out
}

func join(groups ...[]Node) []Node {
	var out []Node
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// ParentOfKind climbs from n's parent and returns the first ancestor whose
// kind is exactly one of kinds, or nil.
func ParentOfKind(n Node, kinds ...Kind) Node {
	if IsNil(n) {
		return nil
	}
	for p := n.Parent(); p != nil; p = p.Parent() {
		if slices.Contains(kinds, p.Kind()) {
			return p
		}
	}
	return nil
}

// Enclosing climbs from n's parent to the first ancestor assignable to T.
// With an interface type such as Declaration it matches every implementing
// node type.
func Enclosing[T Node](n Node) (T, bool) {
	var zero T
	if IsNil(n) {
		return zero, false
	}
	for p := n.Parent(); p != nil; p = p.Parent() {
		if t, ok := p.(T); ok {
			return t, true
		}
	}
	return zero, false
}

// Root climbs to the top of n's tree.
func Root(n Node) Node {
	for !IsNil(n) && n.Parent() != nil {
		n = n.Parent()
	}
	return n
}

// QueryOffset is the offset used to find n again by position: its own
// Begin, or the Begin of the nearest ancestor with a known range.
func QueryOffset(n Node) int {
	for ; !IsNil(n); n = n.Parent() {
		if !n.Range().IsUnknown() {
			return n.Range().Begin
		}
	}
	return UnknownRange.Begin
}

// Walk visits n and its listed children depth-first, pre-order. Returning
// false from fn skips the children of that node.
func Walk(n Node, fn func(Node) bool) {
	if IsNil(n) || !fn(n) {
		return
	}
	for _, c := range n.Children() {
		Walk(c, fn)
	}
}

// Path is a root-to-node chain of nodes.
type Path []Node

func (p Path) Tail() Node {
	if len(p) == 0 {
		return nil
	}
	return p[len(p)-1]
}

// PathAt descends from root choosing ChildAt(pos) at every level. The path
// always starts with root.
func PathAt(root Node, pos int) Path {
	path := Path{root}
	for n := root.ChildAt(pos); n != nil; n = n.ChildAt(pos) {
		path = append(path, n)
	}
	return path
}
