package parser

func (p *Parser) parseBlock() *Node {
	n := p.startNode(KindBlock)
	if e := p.expect("{"); e != nil {
		n.AddChild(e)
		return p.finishNode(n)
	}
	p.parseStatementsUntil(n, "}")
	n.AddChild(p.expect("}"))
	return p.finishNode(n)
}

func (p *Parser) parseStatementsUntil(n *Node, stops ...string) {
	for !p.atEOF() {
		for _, s := range stops {
			if p.is(s) {
				return
			}
		}
		done := p.mustProgress()
		n.AddChild(p.parseStatement())
		done()
	}
}

// statement opens a KindStatement node labelled with its leading keyword.
func (p *Parser) statement() *Node {
	n := p.startNode(KindStatement)
	tok := p.advance()
	n.Token = &tok
	return n
}

func (p *Parser) parseStatement() *Node {
	tok := p.peek()
	switch {
	case p.is("{"):
		return p.parseBlock()
	case p.is(";"):
		p.advance()
		return nil
	case p.is("if"):
		n := p.statement()
		n.AddChild(p.parseParenCondition())
		n.AddChild(p.parseStatement())
		if p.accept("else") {
			n.AddChild(p.parseStatement())
		}
		return p.finishNode(n)
	case p.is("while"), p.is("synchronized"):
		n := p.statement()
		n.AddChild(p.parseParenCondition())
		n.AddChild(p.parseStatement())
		return p.finishNode(n)
	case p.is("do"):
		n := p.statement()
		n.AddChild(p.parseStatement())
		n.AddChild(p.expect("while"))
		n.AddChild(p.parseParenCondition())
		n.AddChild(p.expectSemi())
		return p.finishNode(n)
	case p.is("for"):
		return p.parseFor()
	case p.is("try"):
		return p.parseTry()
	case p.is("switch"):
		return p.parseSwitch(KindStatement)
	case p.is("return"), p.is("throw"):
		n := p.startNode(KindReturnStmt)
		if tok.Literal == "throw" {
			n.Kind = KindThrowStmt
		}
		p.advance()
		if !p.is(";") {
			n.AddChild(p.parseExpression())
		}
		n.AddChild(p.expectSemi())
		return p.finishNode(n)
	case p.is("break"), p.is("continue"):
		n := p.statement()
		if p.isIdent() {
			n.AddChild(p.leaf(KindIdentifier))
		}
		n.AddChild(p.expectSemi())
		return p.finishNode(n)
	case p.is("assert"):
		n := p.statement()
		n.AddChild(p.parseExpression())
		if p.accept(":") {
			n.AddChild(p.parseExpression())
		}
		n.AddChild(p.expectSemi())
		return p.finishNode(n)
	case p.isContextual(0, "yield") && !p.isAt(1, "=") && !p.isAt(1, ".") && !p.isAt(1, "(") && !p.isAt(1, "["):
		n := p.statement()
		n.AddChild(p.parseExpression())
		n.AddChild(p.expectSemi())
		return p.finishNode(n)
	case p.isIdent() && p.isAt(1, ":") && !p.isAt(1, "::"):
		n := p.startNode(KindStatement)
		label := Token{Kind: TokenKeyword, Span: tok.Span, Literal: "label"}
		n.Token = &label
		n.AddChild(p.leaf(KindIdentifier))
		p.advance()
		n.AddChild(p.parseStatement())
		return p.finishNode(n)
	case p.is("}"):
		return p.errorNode("unexpected \"}\"")
	}

	if decl := p.parseLocalDeclaration(); decl != nil {
		return decl
	}
	n := p.startNode(KindExprStmt)
	n.AddChild(p.parseExpression())
	n.AddChild(p.expectSemi())
	return p.finishNode(n)
}

// parseLocalDeclaration reads a local class or variable declaration, or
// returns nil without consuming anything.
func (p *Parser) parseLocalDeclaration() *Node {
	return p.speculate(func() *Node {
		mods := p.parseModifiers()
		if p.isTypeDeclStart() {
			return p.parseClassDecl(mods)
		}
		decl := p.parseLocalVarHead(mods)
		if decl == nil {
			return nil
		}
		p.parseDeclarators(decl)
		decl.AddChild(p.expectSemi())
		return p.finishNode(decl)
	})
}

// parseLocalVarHead reads "modifiers Type" when it is followed by a
// variable name, leaving the parser at the name.
func (p *Parser) parseLocalVarHead(mods *Node) *Node {
	typ := p.parseType()
	if typ == nil || !p.isIdent() {
		return nil
	}
	switch next := p.peekN(1); {
	case next.Kind == TokenOperator && (next.Literal == "=" || next.Literal == ";" ||
		next.Literal == "," || next.Literal == "[" || next.Literal == ":" || next.Literal == ")" || next.Literal == "->"):
	case next.Is(TokenIdent, "when"):
	default:
		return nil
	}
	n := p.startAt(KindLocalVarDecl, mods)
	n.AddChild(typ)
	return n
}

func (p *Parser) parseParenCondition() *Node {
	if e := p.expect("("); e != nil {
		return e
	}
	x := p.parseExpression()
	if e := p.expect(")"); e != nil {
		p.recoverTo(")", "{", ";")
		p.accept(")")
	}
	return x
}

func (p *Parser) parseFor() *Node {
	n := p.statement()
	if e := p.expect("("); e != nil {
		n.AddChild(e)
		return p.finishNode(n)
	}
	each := p.speculate(func() *Node {
		decl := p.parseLocalVarHead(p.parseModifiers())
		if decl == nil {
			return nil
		}
		d := p.startNode(KindVarDeclarator)
		d.AddChild(p.leaf(KindIdentifier))
		d.AddChild(p.parseDims())
		decl.AddChild(p.finishNode(d))
		if !p.accept(":") {
			return nil
		}
		return p.finishNode(decl)
	})
	if each != nil {
		n.AddChild(each)
		n.AddChild(p.parseExpression())
	} else {
		if !p.is(";") {
			if decl := p.speculate(func() *Node {
				decl := p.parseLocalVarHead(p.parseModifiers())
				if decl != nil {
					p.parseDeclarators(decl)
					p.finishNode(decl)
				}
				return decl
			}); decl != nil {
				n.AddChild(decl)
			} else {
				p.parseExpressionList(n)
			}
		}
		n.AddChild(p.expect(";"))
		if !p.is(";") {
			n.AddChild(p.parseExpression())
		}
		n.AddChild(p.expect(";"))
		if !p.is(")") {
			p.parseExpressionList(n)
		}
	}
	if e := p.expect(")"); e != nil {
		n.AddChild(e)
		p.recoverTo(")", "{", ";")
		p.accept(")")
	}
	n.AddChild(p.parseStatement())
	return p.finishNode(n)
}

func (p *Parser) parseExpressionList(n *Node) {
	n.AddChild(p.parseExpression())
	for p.accept(",") {
		n.AddChild(p.parseExpression())
	}
}

func (p *Parser) parseTry() *Node {
	n := p.statement()
	if p.accept("(") {
		for !p.is(")") && !p.atEOF() {
			done := p.mustProgress()
			if res := p.speculate(func() *Node {
				decl := p.parseLocalVarHead(p.parseModifiers())
				if decl == nil {
					return nil
				}
				p.parseDeclarators(decl)
				return p.finishNode(decl)
			}); res != nil {
				n.AddChild(res)
			} else {
				n.AddChild(p.parseExpression())
			}
			if !p.accept(";") {
				done()
				break
			}
			done()
		}
		n.AddChild(p.expect(")"))
	}
	n.AddChild(p.parseBlock())
	for p.is("catch") {
		c := p.startNode(KindCatchClause)
		p.advance()
		n.AddChild(p.expect("("))
		param := p.startNode(KindParameter)
		param.AddChild(p.parseModifiers())
		param.AddChild(p.parseRequiredType())
		for p.accept("|") {
			param.AddChild(p.parseRequiredType())
		}
		param.AddChild(p.identifier())
		c.AddChild(p.finishNode(param))
		c.AddChild(p.expect(")"))
		c.AddChild(p.parseBlock())
		n.AddChild(p.finishNode(c))
	}
	if p.is("finally") {
		f := p.statement()
		f.AddChild(p.parseBlock())
		n.AddChild(p.finishNode(f))
	}
	return p.finishNode(n)
}

// parseSwitch reads a switch statement or expression. Each case becomes a
// "case" or "default" Statement holding its labels followed by its body.
func (p *Parser) parseSwitch(kind NodeKind) *Node {
	n := p.statement()
	n.Kind = kind
	n.AddChild(p.parseParenCondition())
	if e := p.expect("{"); e != nil {
		n.AddChild(e)
		return p.finishNode(n)
	}
	for !p.is("}") && !p.atEOF() {
		done := p.mustProgress()
		if !p.is("case") && !p.is("default") {
			n.AddChild(p.errorNode("expected case", "case", "default", "}"))
			continue
		}
		c := p.statement()
		if c.Token.Literal == "case" {
			for {
				c.AddChild(p.parseCaseLabel())
				if !p.accept(",") {
					break
				}
			}
			if p.isContextual(0, "when") {
				p.advance()
				c.AddChild(p.parseExpression())
			}
		}
		switch {
		case p.accept("->"):
			switch {
			case p.is("{"):
				c.AddChild(p.parseBlock())
			case p.is("throw"):
				c.AddChild(p.parseStatement())
			default:
				x := p.startNode(KindExprStmt)
				x.AddChild(p.parseExpression())
				x.AddChild(p.expectSemi())
				c.AddChild(p.finishNode(x))
			}
		default:
			c.AddChild(p.expect(":"))
			p.parseStatementsUntil(c, "case", "default", "}")
		}
		n.AddChild(p.finishNode(c))
		done()
	}
	n.AddChild(p.expect("}"))
	return p.finishNode(n)
}

// parseCaseLabel reads a constant expression, "default", or a type
// pattern, which is represented as a local variable declaration.
func (p *Parser) parseCaseLabel() *Node {
	if p.is("default") || p.is("null") {
		return p.leaf(KindKeyword)
	}
	pattern := p.speculate(func() *Node {
		decl := p.parseLocalVarHead(p.parseModifiers())
		if decl == nil {
			return nil
		}
		d := p.startNode(KindVarDeclarator)
		d.AddChild(p.leaf(KindIdentifier))
		decl.AddChild(p.finishNode(d))
		if !p.is("->") && !p.is(":") && !p.is(",") && !p.isContextual(0, "when") {
			return nil
		}
		return p.finishNode(decl)
	})
	if pattern != nil {
		return pattern
	}
	return p.parseConditional()
}
