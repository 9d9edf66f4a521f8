package parser

// parseType reads a type, including trailing dims. It consumes nothing and
// returns nil when the input does not start with a well-formed type, which
// makes it usable for lookahead.
func (p *Parser) parseType() *Node {
	return p.speculate(func() *Node {
		n := p.parseTypeNoDims()
		if n == nil {
			return nil
		}
		n.AddChild(p.parseDims())
		return p.finishNode(n)
	})
}

func (p *Parser) parseRequiredType() *Node {
	if t := p.parseType(); t != nil {
		return t
	}
	return p.errorNode("expected type", ",", "{", ")", ";", ">")
}

func (p *Parser) parseTypeNoDims() *Node {
	return p.speculate(func() *Node {
		n := p.startNode(KindType)
		for p.is("@") && !p.isAt(1, "interface") {
			n.AddChild(p.parseAnnotation())
		}
		tok := p.peek()
		switch {
		case tok.Kind == TokenKeyword && (primitiveTypes[tok.Literal] || tok.Literal == "void"):
			n.AddChild(p.leaf(KindKeyword))
			return p.finishNode(n)
		case tok.Kind != TokenIdent:
			return nil
		}
		for {
			n.AddChild(p.leaf(KindIdentifier))
			if p.is("<") {
				args := p.parseTypeArguments()
				if args == nil {
					return nil
				}
				n.AddChild(args)
			}
			if !p.is(".") {
				break
			}
			next := 1
			for p.isAt(next, "@") {
				next += 2
			}
			if p.peekN(next).Kind != TokenIdent {
				break
			}
			p.advance()
			for p.is("@") {
				n.AddChild(p.parseAnnotation())
			}
		}
		return p.finishNode(n)
	})
}

func (p *Parser) parseTypeArguments() *Node {
	return p.speculate(func() *Node {
		n := p.startNode(KindTypeArguments)
		p.advance()
		if p.accept(">") {
			return p.finishNode(n)
		}
		for {
			var arg *Node
			if p.is("?") || (p.is("@") && p.wildcardAfterAnnotations()) {
				arg = p.parseWildcard()
			} else {
				arg = p.parseType()
			}
			if arg == nil {
				return nil
			}
			n.AddChild(arg)
			if !p.accept(",") {
				break
			}
		}
		if !p.accept(">") {
			return nil
		}
		return p.finishNode(n)
	})
}

func (p *Parser) wildcardAfterAnnotations() bool {
	i := 0
	for p.isAt(i, "@") {
		i += 2
	}
	return p.isAt(i, "?")
}

func (p *Parser) parseWildcard() *Node {
	n := p.startNode(KindWildcard)
	for p.is("@") {
		n.AddChild(p.parseAnnotation())
	}
	p.advance()
	if p.is("extends") || p.is("super") {
		n.AddChild(p.leaf(KindKeyword))
		bound := p.parseType()
		if bound == nil {
			return nil
		}
		n.AddChild(bound)
	}
	return p.finishNode(n)
}

// parseDims reads a run of "[]" pairs; nil when there are none.
func (p *Parser) parseDims() *Node {
	if !(p.is("[") && p.isAt(1, "]")) && !(p.is("@") && p.annotatedDims()) {
		return nil
	}
	n := p.startNode(KindDims)
	for {
		for p.is("@") && p.annotatedDims() {
			p.parseAnnotation()
		}
		if !(p.is("[") && p.isAt(1, "]")) {
			break
		}
		p.advance()
		p.advance()
		n.Count++
	}
	return p.finishNode(n)
}

func (p *Parser) annotatedDims() bool {
	saved, errs := p.pos, len(p.errors)
	defer func() { p.pos, p.errors = saved, p.errors[:errs] }()
	for p.is("@") {
		p.parseAnnotation()
	}
	return p.is("[") && p.isAt(1, "]")
}
