package tree

type Block struct {
	Base
	Stmts []Stmt
}

func (*Block) Kind() Kind      { return KindBlock }
func (b *Block) parts() []Node { return many(b.Stmts) }
func (*Block) stmtNode()       {}

type LocalVarDecl struct {
	Base
	Modifiers *Modifiers
	Type      *TypeRef
	Variables []*Variable
}

func (*LocalVarDecl) Kind() Kind { return KindLocalVarDecl }
func (l *LocalVarDecl) parts() []Node {
	return join(one(l.Modifiers), one(l.Type), many(l.Variables))
}
func (*LocalVarDecl) stmtNode() {}

type ExprStmt struct {
	Base
	X Expr
}

func (*ExprStmt) Kind() Kind      { return KindExprStmt }
func (e *ExprStmt) parts() []Node { return one(e.X) }
func (*ExprStmt) stmtNode()       {}

type ReturnStmt struct {
	Base
	X Expr
}

func (*ReturnStmt) Kind() Kind      { return KindReturnStmt }
func (r *ReturnStmt) parts() []Node { return one(r.X) }
func (*ReturnStmt) stmtNode()       {}

type ThrowStmt struct {
	Base
	X Expr
}

func (*ThrowStmt) Kind() Kind      { return KindThrowStmt }
func (t *ThrowStmt) parts() []Node { return one(t.X) }
func (*ThrowStmt) stmtNode()       {}

type CatchClause struct {
	Base
	Param *Parameter
	Body  *Block
}

func (*CatchClause) Kind() Kind      { return KindCatchClause }
func (c *CatchClause) parts() []Node { return join(one(c.Param), one(c.Body)) }

// Compound covers the statement forms the resolver does not look into
// beyond their parts: if, while, do, for, try, switch, synchronized,
// labeled, break, continue, yield, assert and empty statements. Switch
// expressions use it as well.
type Compound struct {
	Base
	Keyword string
	Parts   []Node
}

func (*Compound) Kind() Kind      { return KindCompound }
func (c *Compound) parts() []Node { return c.Parts }
func (*Compound) stmtNode()       {}
func (*Compound) exprNode()       {}

// Erroneous holds whatever could be salvaged from source the parser could
// not make sense of.
type Erroneous struct {
	Base
	Message string
	Parts   []Node
}

func (*Erroneous) Kind() Kind      { return KindErroneous }
func (e *Erroneous) parts() []Node { return e.Parts }
func (*Erroneous) stmtNode()       {}
func (*Erroneous) exprNode()       {}
