package tree

// Name is a bare identifier in expression position. Whether it denotes a
// variable, a type or a package is decided by the resolver.
type Name struct {
	Base
	Identifier string
}

func (*Name) Kind() Kind    { return KindName }
func (*Name) parts() []Node { return nil }
func (*Name) exprNode()     {}

type FieldAccess struct {
	Base
	X       Expr
	Name    string
	NameRng Range
}

func (*FieldAccess) Kind() Kind      { return KindFieldAccess }
func (f *FieldAccess) parts() []Node { return one(f.X) }
func (*FieldAccess) exprNode()       {}

// QualifiedName flattens a chain of names such as a.b.c, reporting false
// when any qualifier is not a plain name.
func (f *FieldAccess) QualifiedName() (string, bool) {
	switch x := f.X.(type) {
	case *Name:
		return x.Identifier + "." + f.Name, true
	case *FieldAccess:
		if q, ok := x.QualifiedName(); ok {
			return q + "." + f.Name, true
		}
	}
	return "", false
}

type MethodCall struct {
	Base
	// X is nil for unqualified calls.
	X        Expr
	TypeArgs []*TypeRef
	Name     string
	NameRng  Range
	Args     []Expr
}

func (*MethodCall) Kind() Kind { return KindMethodCall }
func (m *MethodCall) parts() []Node {
	return join(one(m.X), many(m.TypeArgs), many(m.Args))
}
func (*MethodCall) exprNode() {}

// IsConstructorCall reports this(...) and super(...) invocations.
func (m *MethodCall) IsConstructorCall() bool {
	return m.X == nil && (m.Name == "this" || m.Name == "super")
}

type New struct {
	Base
	Outer Expr
	Type  *TypeRef
	Args  []Expr
	Body  *ClassDecl
	// KeywordRng is the range of the new keyword.
	KeywordRng Range
}

func (*New) Kind() Kind { return KindNew }
func (n *New) parts() []Node {
	return join(one(n.Outer), one(n.Type), many(n.Args), one(n.Body))
}
func (*New) exprNode() {}

// NewArray creates an array of Dims dimensions over the element Type.
type NewArray struct {
	Base
	Type    *TypeRef
	DimExpr []Expr
	Dims    int
	Init    *ArrayInit
}

func (*NewArray) Kind() Kind { return KindNewArray }
func (n *NewArray) parts() []Node {
	return join(one(n.Type), many(n.DimExpr), one(n.Init))
}
func (*NewArray) exprNode() {}

type ArrayInit struct {
	Base
	Elems []Expr
}

func (*ArrayInit) Kind() Kind      { return KindArrayInit }
func (a *ArrayInit) parts() []Node { return many(a.Elems) }
func (*ArrayInit) exprNode()       {}

type Cast struct {
	Base
	Type *TypeRef
	// Bounds are the additional types of an intersection cast.
	Bounds []*TypeRef
	X      Expr
}

func (*Cast) Kind() Kind      { return KindCast }
func (c *Cast) parts() []Node { return join(one(c.Type), many(c.Bounds), one(c.X)) }
func (*Cast) exprNode()       {}

type InstanceOf struct {
	Base
	X       Expr
	Type    *TypeRef
	Binding *Variable
}

func (*InstanceOf) Kind() Kind      { return KindInstanceOf }
func (i *InstanceOf) parts() []Node { return join(one(i.X), one(i.Type), one(i.Binding)) }
func (*InstanceOf) exprNode()       {}

type ArrayAccess struct {
	Base
	X     Expr
	Index Expr
}

func (*ArrayAccess) Kind() Kind      { return KindArrayAccess }
func (a *ArrayAccess) parts() []Node { return join(one(a.X), one(a.Index)) }
func (*ArrayAccess) exprNode()       {}

type LiteralKind int

const (
	LiteralInt LiteralKind = iota
	LiteralLong
	LiteralFloat
	LiteralDouble
	LiteralChar
	LiteralString
	LiteralBoolean
	LiteralNull
)

type Literal struct {
	Base
	LitKind LiteralKind
	Value   string
}

func (*Literal) Kind() Kind    { return KindLiteral }
func (*Literal) parts() []Node { return nil }
func (*Literal) exprNode()     {}

type This struct {
	Base
	// Qualifier names the outer class in Outer.this.
	Qualifier *TypeRef
}

func (*This) Kind() Kind      { return KindThis }
func (t *This) parts() []Node { return one(t.Qualifier) }
func (*This) exprNode()       {}

type Super struct {
	Base
	Qualifier *TypeRef
}

func (*Super) Kind() Kind      { return KindSuper }
func (s *Super) parts() []Node { return one(s.Qualifier) }
func (*Super) exprNode()       {}

type Binary struct {
	Base
	Op   string
	X, Y Expr
}

func (*Binary) Kind() Kind      { return KindBinary }
func (b *Binary) parts() []Node { return join(one(b.X), one(b.Y)) }
func (*Binary) exprNode()       {}

type Unary struct {
	Base
	Op      string
	Postfix bool
	X       Expr
}

func (*Unary) Kind() Kind      { return KindUnary }
func (u *Unary) parts() []Node { return one(u.X) }
func (*Unary) exprNode()       {}

type Assign struct {
	Base
	Op   string
	X, Y Expr
}

func (*Assign) Kind() Kind      { return KindAssign }
func (a *Assign) parts() []Node { return join(one(a.X), one(a.Y)) }
func (*Assign) exprNode()       {}

type Conditional struct {
	Base
	Cond, Then, Else Expr
}

func (*Conditional) Kind() Kind      { return KindConditional }
func (c *Conditional) parts() []Node { return join(one(c.Cond), one(c.Then), one(c.Else)) }
func (*Conditional) exprNode()       {}

type Lambda struct {
	Base
	Params []*Parameter
	// Body is an Expr or a *Block.
	Body Node
}

func (*Lambda) Kind() Kind      { return KindLambda }
func (l *Lambda) parts() []Node { return join(many(l.Params), one(l.Body)) }
func (*Lambda) exprNode()       {}

type MethodRef struct {
	Base
	// X is an Expr, or a *TypeRef for Type::method forms that cannot be
	// read as expressions.
	X       Node
	Name    string
	NameRng Range
}

func (*MethodRef) Kind() Kind      { return KindMethodRef }
func (m *MethodRef) parts() []Node { return one(m.X) }
func (*MethodRef) exprNode()       {}

type ClassLiteral struct {
	Base
	Type *TypeRef
}

func (*ClassLiteral) Kind() Kind      { return KindClassLiteral }
func (c *ClassLiteral) parts() []Node { return one(c.Type) }
func (*ClassLiteral) exprNode()       {}

type Paren struct {
	Base
	X Expr
}

func (*Paren) Kind() Kind      { return KindParen }
func (p *Paren) parts() []Node { return one(p.X) }
func (*Paren) exprNode()       {}
