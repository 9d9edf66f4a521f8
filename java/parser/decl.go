package parser

var modifierKeywords = map[string]bool{
	"public": true, "protected": true, "private": true, "static": true,
	"final": true, "abstract": true, "native": true, "synchronized": true,
	"transient": true, "volatile": true, "strictfp": true, "default": true,
}

func (p *Parser) parseModifiers() *Node {
	n := p.startNode(KindModifiers)
	for {
		switch {
		case p.peek().Kind == TokenKeyword && modifierKeywords[p.peek().Literal]:
			if p.is("default") && (p.isAt(1, ":") || p.isAt(1, "->")) {
				return p.finishNode(n)
			}
			n.AddChild(p.leaf(KindKeyword))
		case p.is("@") && !p.isAt(1, "interface"):
			n.AddChild(p.parseAnnotation())
		case p.isContextual(0, "sealed") && p.peekN(1).Kind != TokenOperator:
			n.AddChild(p.leaf(KindKeyword))
		case p.isContextual(0, "non") && p.isAt(1, "-") && p.isContextual(2, "sealed"):
			start := p.advance()
			p.advance()
			end := p.advance()
			tok := Token{Kind: TokenKeyword, Span: Span{Start: start.Span.Start, End: end.Span.End}, Literal: "non-sealed"}
			n.AddChild(&Node{Kind: KindKeyword, Span: tok.Span, Token: &tok})
		default:
			return p.finishNode(n)
		}
	}
}

func (p *Parser) parseAnnotation() *Node {
	n := p.startNode(KindAnnotation)
	p.advance()
	n.AddChild(p.parseQualifiedName())
	if p.accept("(") {
		for !p.is(")") && !p.atEOF() {
			done := p.mustProgress()
			if p.isIdent() && p.isAt(1, "=") {
				pair := p.startNode(KindElementValuePair)
				pair.AddChild(p.leaf(KindIdentifier))
				p.advance()
				pair.AddChild(p.parseElementValue())
				n.AddChild(p.finishNode(pair))
			} else {
				n.AddChild(p.parseElementValue())
			}
			if !p.accept(",") {
				break
			}
			done()
		}
		n.AddChild(p.expect(")"))
	}
	return p.finishNode(n)
}

func (p *Parser) parseElementValue() *Node {
	switch {
	case p.is("@"):
		return p.parseAnnotation()
	case p.is("{"):
		return p.parseArrayInit(p.parseElementValue)
	}
	return p.parseConditional()
}

func (p *Parser) parseClassDecl(mods *Node) *Node {
	n := p.startAt(KindClassDecl, mods)
	kw := p.advance()
	if kw.Literal == "@" {
		iface := p.advance()
		kw = Token{Kind: TokenKeyword, Span: Span{Start: kw.Span.Start, End: iface.Span.End}, Literal: "@interface"}
	}
	n.Token = &kw
	n.AddChild(p.identifier())
	if p.is("<") {
		n.AddChild(p.parseTypeParameters())
	}
	if kw.Literal == "record" && p.is("(") {
		header := p.parseParameters()
		header.Kind = KindRecordHeader
		n.AddChild(header)
	}
	for _, clause := range []struct {
		keyword string
		kind    NodeKind
	}{{"extends", KindExtends}, {"implements", KindImplements}, {"permits", KindPermits}} {
		if !p.is(clause.keyword) && !p.isContextual(0, clause.keyword) {
			continue
		}
		c := p.startNode(clause.kind)
		p.advance()
		c.AddChild(p.parseRequiredType())
		for p.accept(",") {
			c.AddChild(p.parseRequiredType())
		}
		n.AddChild(p.finishNode(c))
	}
	n.AddChild(p.parseClassBody(kw.Literal == "enum", n.FirstChildOfKind(KindIdentifier).TokenLiteral()))
	return p.finishNode(n)
}

func (p *Parser) parseClassBody(enum bool, className string) *Node {
	n := p.startNode(KindClassBody)
	if e := p.expect("{"); e != nil {
		n.AddChild(e)
		return p.finishNode(n)
	}
	if enum {
		for p.isIdent() || p.is("@") {
			done := p.mustProgress()
			n.AddChild(p.parseEnumConstant())
			if !p.accept(",") {
				done()
				break
			}
			done()
		}
		if !p.accept(";") && !p.is("}") {
			n.AddChild(p.expect(";"))
		}
	}
	for !p.is("}") && !p.atEOF() {
		done := p.mustProgress()
		if !p.accept(";") {
			n.AddChild(p.parseMember(className))
		}
		done()
	}
	n.AddChild(p.expect("}"))
	return p.finishNode(n)
}

func (p *Parser) parseEnumConstant() *Node {
	n := p.startNode(KindEnumConstant)
	for p.is("@") {
		n.AddChild(p.parseAnnotation())
	}
	n.AddChild(p.identifier())
	if p.is("(") {
		n.AddChild(p.parseArguments())
	}
	if p.is("{") {
		n.AddChild(p.parseClassBody(false, ""))
	}
	return p.finishNode(n)
}

func (p *Parser) parseMember(className string) *Node {
	mods := p.parseModifiers()
	switch {
	case p.is("{"):
		n := p.startAt(KindInitializer, mods)
		n.AddChild(p.parseBlock())
		return p.finishNode(n)
	case p.isTypeDeclStart():
		return p.parseClassDecl(mods)
	}

	var typeParams *Node
	if p.is("<") {
		typeParams = p.parseTypeParameters()
	}
	if p.isIdent() && p.isAt(1, "(") {
		return p.parseMethod(mods, typeParams, nil)
	}
	if p.isIdent() && p.peek().Literal == className && p.isAt(1, "{") {
		// compact canonical constructor of a record
		n := p.startAt(KindConstructorDecl, mods)
		n.AddChild(p.leaf(KindIdentifier))
		n.AddChild(p.parseBlock())
		return p.finishNode(n)
	}

	typ := p.parseType()
	if typ == nil {
		return p.errorNode("expected member declaration", ";", "}")
	}
	if p.isIdent() && p.isAt(1, "(") {
		return p.parseMethod(mods, typeParams, typ)
	}
	n := p.startAt(KindFieldDecl, mods)
	n.AddChild(typ)
	p.parseDeclarators(n)
	n.AddChild(p.expectSemi())
	return p.finishNode(n)
}

// expectSemi requires a ';' and on failure skips to the end of the
// statement.
func (p *Parser) expectSemi() *Node {
	if p.accept(";") {
		return nil
	}
	if p.is("}") || p.atEOF() {
		return p.expect(";")
	}
	e := p.errorNode("expected \";\"", ";", "}")
	p.accept(";")
	return e
}

func (p *Parser) parseDeclarators(n *Node) {
	for {
		d := p.startNode(KindVarDeclarator)
		d.AddChild(p.identifier())
		d.AddChild(p.parseDims())
		if p.accept("=") {
			if p.is("{") {
				d.AddChild(p.parseArrayInit(p.parseVarInit))
			} else {
				d.AddChild(p.parseExpression())
			}
		}
		n.AddChild(p.finishNode(d))
		if !p.accept(",") {
			return
		}
	}
}

func (p *Parser) parseVarInit() *Node {
	if p.is("{") {
		return p.parseArrayInit(p.parseVarInit)
	}
	return p.parseExpression()
}

func (p *Parser) parseMethod(mods, typeParams, result *Node) *Node {
	kind := KindMethodDecl
	if result == nil {
		kind = KindConstructorDecl
	}
	n := p.startAt(kind, mods)
	n.AddChild(typeParams)
	n.AddChild(result)
	n.AddChild(p.leaf(KindIdentifier))
	n.AddChild(p.parseParameters())
	n.AddChild(p.parseDims())
	if p.is("throws") {
		t := p.startNode(KindThrows)
		p.advance()
		t.AddChild(p.parseRequiredType())
		for p.accept(",") {
			t.AddChild(p.parseRequiredType())
		}
		n.AddChild(p.finishNode(t))
	}
	if p.is("default") {
		d := p.startNode(KindDefaultValue)
		p.advance()
		d.AddChild(p.parseElementValue())
		n.AddChild(p.finishNode(d))
	}
	if p.is("{") {
		n.AddChild(p.parseBlock())
	} else {
		n.AddChild(p.expectSemi())
	}
	return p.finishNode(n)
}

func (p *Parser) parseParameters() *Node {
	n := p.startNode(KindParameters)
	if e := p.expect("("); e != nil {
		n.AddChild(e)
		return p.finishNode(n)
	}
	for !p.is(")") && !p.atEOF() {
		done := p.mustProgress()
		n.AddChild(p.parseParameter())
		if !p.accept(",") {
			done()
			break
		}
		done()
	}
	if e := p.expect(")"); e != nil {
		n.AddChild(e)
		p.recoverTo(")", "{", ";")
		p.accept(")")
	}
	return p.finishNode(n)
}

func (p *Parser) parseParameter() *Node {
	n := p.startNode(KindParameter)
	n.AddChild(p.parseModifiers())
	typ := p.parseType()
	if typ == nil {
		return p.errorNode("expected parameter type", ",", ")")
	}
	n.AddChild(typ)
	if p.is("...") {
		n.AddChild(p.leaf(KindKeyword))
	}
	if p.is("this") {
		n.AddChild(p.leaf(KindIdentifier))
	} else {
		n.AddChild(p.identifier())
	}
	n.AddChild(p.parseDims())
	return p.finishNode(n)
}

func (p *Parser) parseTypeParameters() *Node {
	n := p.startNode(KindTypeParameters)
	p.advance()
	for !p.is(">") && !p.atEOF() {
		done := p.mustProgress()
		tp := p.startNode(KindTypeParameter)
		for p.is("@") {
			tp.AddChild(p.parseAnnotation())
		}
		tp.AddChild(p.identifier())
		if p.accept("extends") {
			tp.AddChild(p.parseRequiredType())
			for p.accept("&") {
				tp.AddChild(p.parseRequiredType())
			}
		}
		n.AddChild(p.finishNode(tp))
		if !p.accept(",") {
			done()
			break
		}
		done()
	}
	n.AddChild(p.expect(">"))
	return p.finishNode(n)
}
