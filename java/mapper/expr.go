package mapper

import (
	"github.com/dhamidi/whatis/java/parser"
	"github.com/dhamidi/whatis/java/tree"
)

func mapBlock(m *Mapper, n *parser.Node) tree.Node {
	b := &tree.Block{}
	for _, c := range n.Children {
		if s := m.stmt(c); s != nil {
			b.Stmts = append(b.Stmts, s)
		}
	}
	return tree.Build(b, ExtractRange(n.Span))
}

func mapLocalVarDecl(m *Mapper, n *parser.Node) tree.Node {
	return tree.Build(&tree.LocalVarDecl{
		Modifiers: mapAs[*tree.Modifiers](m, n.FirstChildOfKind(parser.KindModifiers)),
		Type:      mapAs[*tree.TypeRef](m, n.FirstChildOfKind(parser.KindType)),
		Variables: mapAll[*tree.Variable](m, n.ChildrenOfKind(parser.KindVarDeclarator)),
	}, ExtractRange(n.Span))
}

// firstExpr maps the first child that is not a syntax error.
func (m *Mapper) firstExpr(n *parser.Node) tree.Expr {
	for _, c := range n.Children {
		if !c.IsError() {
			return m.expr(c)
		}
	}
	return nil
}

func mapExprStmt(m *Mapper, n *parser.Node) tree.Node {
	return tree.Build(&tree.ExprStmt{X: m.firstExpr(n)}, ExtractRange(n.Span))
}

func mapReturnStmt(m *Mapper, n *parser.Node) tree.Node {
	return tree.Build(&tree.ReturnStmt{X: m.firstExpr(n)}, ExtractRange(n.Span))
}

func mapThrowStmt(m *Mapper, n *parser.Node) tree.Node {
	return tree.Build(&tree.ThrowStmt{X: m.firstExpr(n)}, ExtractRange(n.Span))
}

func mapCatchClause(m *Mapper, n *parser.Node) tree.Node {
	return tree.Build(&tree.CatchClause{
		Param: mapAs[*tree.Parameter](m, n.FirstChildOfKind(parser.KindParameter)),
		Body:  mapAs[*tree.Block](m, n.FirstChildOfKind(parser.KindBlock)),
	}, ExtractRange(n.Span))
}

// mapCompound covers the statements the resolver has no dedicated model
// for (if, loops, try, switch, labels) and switch expressions.
func mapCompound(m *Mapper, n *parser.Node) tree.Node {
	c := &tree.Compound{Keyword: n.TokenLiteral()}
	for _, child := range n.Children {
		if part := m.Node(child); part != nil {
			c.Parts = append(c.Parts, part)
		}
	}
	return tree.Build(c, ExtractRange(n.Span))
}

func mapError(m *Mapper, n *parser.Node) tree.Node {
	e := &tree.Erroneous{}
	if n.Error != nil {
		e.Message = n.Error.Message
	}
	for _, child := range n.Children {
		if part := m.Node(child); part != nil {
			e.Parts = append(e.Parts, part)
		}
	}
	return tree.Build(e, ExtractRange(n.Span))
}

func mapLiteral(m *Mapper, n *parser.Node) tree.Node {
	lit := &tree.Literal{Value: n.TokenLiteral()}
	if n.Token != nil {
		switch n.Token.Kind {
		case parser.TokenIntLiteral:
			lit.LitKind = tree.LiteralInt
		case parser.TokenLongLiteral:
			lit.LitKind = tree.LiteralLong
		case parser.TokenFloatLiteral:
			lit.LitKind = tree.LiteralFloat
		case parser.TokenDoubleLiteral:
			lit.LitKind = tree.LiteralDouble
		case parser.TokenCharLiteral:
			lit.LitKind = tree.LiteralChar
		case parser.TokenStringLiteral, parser.TokenTextBlock:
			lit.LitKind = tree.LiteralString
		case parser.TokenKeyword:
			lit.LitKind = tree.LiteralBoolean
			if lit.Value == "null" {
				lit.LitKind = tree.LiteralNull
			}
		}
	}
	return tree.Build(lit, ExtractRange(n.Span))
}

func mapName(m *Mapper, n *parser.Node) tree.Node {
	return tree.Build(&tree.Name{Identifier: n.TokenLiteral()}, ExtractRange(n.Span))
}

func mapFieldAccess(m *Mapper, n *parser.Node) tree.Node {
	f := &tree.FieldAccess{NameRng: tree.UnknownRange}
	if len(n.Children) > 0 {
		f.X = m.expr(n.Children[0])
	}
	if id := n.FirstChildOfKind(parser.KindIdentifier); id != nil {
		f.Name = id.TokenLiteral()
		f.NameRng = ExtractRange(id.Span)
	}
	return tree.Build(f, ExtractRange(n.Span))
}

// isQualifier reports whether the first child of a call or creation
// expression is the receiver rather than part of the call syntax.
func isQualifier(c *parser.Node) bool {
	switch c.Kind {
	case parser.KindIdentifier, parser.KindTypeArguments, parser.KindArguments, parser.KindType:
		return false
	}
	return true
}

func mapCall(m *Mapper, n *parser.Node) tree.Node {
	call := &tree.MethodCall{NameRng: tree.UnknownRange}
	if len(n.Children) > 0 && isQualifier(n.Children[0]) {
		call.X = m.expr(n.Children[0])
	}
	if targs := n.FirstChildOfKind(parser.KindTypeArguments); targs != nil {
		call.TypeArgs = mapAll[*tree.TypeRef](m, targs.Children)
	}
	if id := n.FirstChildOfKind(parser.KindIdentifier); id != nil {
		call.Name = id.TokenLiteral()
		call.NameRng = ExtractRange(id.Span)
	}
	if args := n.FirstChildOfKind(parser.KindArguments); args != nil {
		call.Args = m.exprs(args.Children)
	}
	return tree.Build(call, ExtractRange(n.Span))
}

func mapNew(m *Mapper, n *parser.Node) tree.Node {
	nw := &tree.New{
		Type:       mapAs[*tree.TypeRef](m, n.FirstChildOfKind(parser.KindType)),
		Body:       m.anonymousClass(n.FirstChildOfKind(parser.KindClassBody)),
		KeywordRng: tree.UnknownRange,
	}
	if len(n.Children) > 0 && isQualifier(n.Children[0]) {
		nw.Outer = m.expr(n.Children[0])
	}
	if n.Token != nil {
		nw.KeywordRng = ExtractRange(n.Token.Span)
	}
	if args := n.FirstChildOfKind(parser.KindArguments); args != nil {
		nw.Args = m.exprs(args.Children)
	}
	return tree.Build(nw, ExtractRange(n.Span))
}

func mapNewArray(m *Mapper, n *parser.Node) tree.Node {
	na := &tree.NewArray{}
	for _, c := range n.Children {
		switch c.Kind {
		case parser.KindType:
			na.Type = mapAs[*tree.TypeRef](m, c)
		case parser.KindArrayInit:
			na.Init = mapAs[*tree.ArrayInit](m, c)
		case parser.KindDims:
			na.Dims += c.Count
		case parser.KindTypeArguments, parser.KindError:
		default:
			if e := m.expr(c); e != nil {
				na.DimExpr = append(na.DimExpr, e)
				na.Dims++
			}
		}
	}
	return tree.Build(na, ExtractRange(n.Span))
}

func mapArrayInit(m *Mapper, n *parser.Node) tree.Node {
	return tree.Build(&tree.ArrayInit{Elems: m.exprs(n.Children)}, ExtractRange(n.Span))
}

func mapCast(m *Mapper, n *parser.Node) tree.Node {
	c := &tree.Cast{}
	for _, child := range n.Children {
		if child.Kind != parser.KindType {
			c.X = m.expr(child)
			continue
		}
		if c.Type == nil {
			c.Type = mapAs[*tree.TypeRef](m, child)
		} else if t := mapAs[*tree.TypeRef](m, child); t != nil {
			c.Bounds = append(c.Bounds, t)
		}
	}
	return tree.Build(c, ExtractRange(n.Span))
}

func mapInstanceOf(m *Mapper, n *parser.Node) tree.Node {
	i := &tree.InstanceOf{
		Type:    mapAs[*tree.TypeRef](m, n.FirstChildOfKind(parser.KindType)),
		Binding: mapAs[*tree.Variable](m, n.FirstChildOfKind(parser.KindVarDeclarator)),
	}
	if len(n.Children) > 0 {
		i.X = m.expr(n.Children[0])
	}
	return tree.Build(i, ExtractRange(n.Span))
}

func mapArrayAccess(m *Mapper, n *parser.Node) tree.Node {
	a := &tree.ArrayAccess{}
	if len(n.Children) > 0 {
		a.X = m.expr(n.Children[0])
	}
	if len(n.Children) > 1 && !n.Children[1].IsError() {
		a.Index = m.expr(n.Children[1])
	}
	return tree.Build(a, ExtractRange(n.Span))
}

func qualifier(n *parser.Node) *tree.TypeRef {
	if len(n.Children) == 0 {
		return nil
	}
	return typeFromExpr(n.Children[0])
}

func mapThis(m *Mapper, n *parser.Node) tree.Node {
	return tree.Build(&tree.This{Qualifier: qualifier(n)}, ExtractRange(n.Span))
}

func mapSuper(m *Mapper, n *parser.Node) tree.Node {
	return tree.Build(&tree.Super{Qualifier: qualifier(n)}, ExtractRange(n.Span))
}

func (m *Mapper) operands(n *parser.Node) (x, y tree.Expr) {
	var ops []tree.Expr
	for _, c := range n.Children {
		if !c.IsError() || len(c.Children) > 0 {
			ops = append(ops, m.expr(c))
		}
	}
	if len(ops) > 0 {
		x = ops[0]
	}
	if len(ops) > 1 {
		y = ops[1]
	}
	return x, y
}

func mapBinary(m *Mapper, n *parser.Node) tree.Node {
	x, y := m.operands(n)
	return tree.Build(&tree.Binary{Op: n.TokenLiteral(), X: x, Y: y}, ExtractRange(n.Span))
}

func mapUnary(m *Mapper, n *parser.Node) tree.Node {
	x, _ := m.operands(n)
	return tree.Build(&tree.Unary{
		Op:      n.TokenLiteral(),
		Postfix: n.Kind == parser.KindPostfix,
		X:       x,
	}, ExtractRange(n.Span))
}

func mapAssign(m *Mapper, n *parser.Node) tree.Node {
	x, y := m.operands(n)
	return tree.Build(&tree.Assign{Op: n.TokenLiteral(), X: x, Y: y}, ExtractRange(n.Span))
}

func mapConditional(m *Mapper, n *parser.Node) tree.Node {
	c := &tree.Conditional{}
	var ops []tree.Expr
	for _, child := range n.Children {
		if child.IsError() && len(child.Children) == 0 {
			continue
		}
		ops = append(ops, m.expr(child))
	}
	for i, e := range ops {
		switch i {
		case 0:
			c.Cond = e
		case 1:
			c.Then = e
		case 2:
			c.Else = e
		}
	}
	return tree.Build(c, ExtractRange(n.Span))
}

func mapLambda(m *Mapper, n *parser.Node) tree.Node {
	l := &tree.Lambda{}
	for _, c := range n.Children {
		switch c.Kind {
		case parser.KindParameters:
			l.Params = mapAll[*tree.Parameter](m, c.Children)
		case parser.KindBlock:
			l.Body = m.Node(c)
		default:
			if l.Body == nil {
				if e := m.expr(c); e != nil {
					l.Body = e
				}
			}
		}
	}
	return tree.Build(l, ExtractRange(n.Span))
}

func mapMethodRef(m *Mapper, n *parser.Node) tree.Node {
	ref := &tree.MethodRef{NameRng: tree.UnknownRange}
	if len(n.Children) > 0 {
		if first := n.Children[0]; first.Kind == parser.KindType {
			ref.X = m.Node(first)
		} else {
			ref.X = m.expr(first)
		}
	}
	if len(n.Children) > 1 {
		last := n.Children[len(n.Children)-1]
		if last.Kind == parser.KindIdentifier || last.Kind == parser.KindKeyword {
			ref.Name = last.TokenLiteral()
			ref.NameRng = ExtractRange(last.Span)
		}
	}
	return tree.Build(ref, ExtractRange(n.Span))
}

func mapClassLiteral(m *Mapper, n *parser.Node) tree.Node {
	c := &tree.ClassLiteral{}
	if len(n.Children) > 0 {
		if first := n.Children[0]; first.Kind == parser.KindType {
			c.Type = mapAs[*tree.TypeRef](m, first)
		} else {
			c.Type = typeFromExpr(first)
		}
	}
	return tree.Build(c, ExtractRange(n.Span))
}

func mapParen(m *Mapper, n *parser.Node) tree.Node {
	return tree.Build(&tree.Paren{X: m.firstExpr(n)}, ExtractRange(n.Span))
}
