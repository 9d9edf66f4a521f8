package parser

var assignOps = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"&=": true, "|=": true, "^=": true, "<<=": true, ">>=": true, ">>>=": true,
}

var binaryPrecedence = map[string]int{
	"||": 1, "&&": 2, "|": 3, "^": 4, "&": 5,
	"==": 6, "!=": 6,
	"<": 7, ">": 7, "<=": 7, ">=": 7, "instanceof": 7,
	"<<": 8, ">>": 8, ">>>": 8,
	"+": 9, "-": 9,
	"*": 10, "/": 10, "%": 10,
}

// operator returns the operator at the current position and the number of
// tokens it spans. Adjacent '>' and '=' tokens are joined, since the lexer
// emits '>' on its own.
func (p *Parser) operator() (string, int) {
	tok := p.peek()
	if tok.Kind != TokenOperator && !tok.Is(TokenKeyword, "instanceof") {
		return "", 0
	}
	if tok.Literal != ">" {
		return tok.Literal, 1
	}
	op, width := ">", 1
	for width < 4 {
		next := p.peekN(width)
		prev := p.peekN(width - 1)
		if next.Kind != TokenOperator || !prev.Adjacent(next) {
			break
		}
		switch {
		case next.Literal == ">" && width < 3 && op != ">=":
			op += ">"
		case next.Literal == "=" && op[len(op)-1] == '>':
			op += "="
		default:
			return op, width
		}
		width++
	}
	return op, width
}

func (p *Parser) parseExpression() *Node {
	if p.isLambdaStart() {
		return p.parseLambda()
	}
	lhs := p.parseConditional()
	op, width := p.operator()
	if !assignOps[op] {
		return lhs
	}
	n := p.startAt(KindAssign, lhs)
	tok := p.peek()
	tok.Literal = op
	n.Token = &tok
	for i := 0; i < width; i++ {
		p.advance()
	}
	n.AddChild(p.parseExpression())
	return p.finishNode(n)
}

func (p *Parser) parseConditional() *Node {
	cond := p.parseBinary(1)
	if !p.is("?") {
		return cond
	}
	n := p.startAt(KindConditional, cond)
	p.advance()
	n.AddChild(p.parseExpression())
	n.AddChild(p.expect(":"))
	if p.isLambdaStart() {
		n.AddChild(p.parseLambda())
	} else {
		n.AddChild(p.parseConditional())
	}
	return p.finishNode(n)
}

func (p *Parser) parseBinary(minPrec int) *Node {
	left := p.parseUnary()
	for {
		op, width := p.operator()
		prec, ok := binaryPrecedence[op]
		if !ok || prec < minPrec {
			return left
		}
		tok := p.peek()
		tok.Literal = op
		if op == "instanceof" {
			left = p.parseInstanceOf(left)
			continue
		}
		n := p.startAt(KindBinary, left)
		n.Token = &tok
		for i := 0; i < width; i++ {
			p.advance()
		}
		n.AddChild(p.parseBinary(prec + 1))
		left = p.finishNode(n)
	}
}

func (p *Parser) parseInstanceOf(x *Node) *Node {
	n := p.startAt(KindInstanceOf, x)
	p.advance()
	p.accept("final")
	n.AddChild(p.parseRequiredType())
	switch {
	case p.is("("):
		// record pattern: the components are not modelled
		p.advance()
		p.recoverTo(")")
		p.accept(")")
	case p.isIdent():
		d := p.startNode(KindVarDeclarator)
		d.AddChild(p.leaf(KindIdentifier))
		n.AddChild(p.finishNode(d))
	}
	return p.finishNode(n)
}

func (p *Parser) parseUnary() *Node {
	switch {
	case p.is("+"), p.is("-"), p.is("++"), p.is("--"), p.is("!"), p.is("~"):
		n := p.startNode(KindUnary)
		tok := p.advance()
		n.Token = &tok
		n.AddChild(p.parseUnary())
		return p.finishNode(n)
	case p.is("("):
		if cast := p.speculate(p.parseCast); cast != nil {
			return cast
		}
	}
	return p.parsePostfix(p.parsePrimary())
}

func (p *Parser) parseCast() *Node {
	n := p.startNode(KindCast)
	p.advance()
	typ := p.parseType()
	if typ == nil {
		return nil
	}
	n.AddChild(typ)
	for p.accept("&") {
		bound := p.parseType()
		if bound == nil {
			return nil
		}
		n.AddChild(bound)
	}
	if !p.accept(")") {
		return nil
	}
	primitive := typ.FirstChildOfKind(KindKeyword) != nil && typ.FirstChildOfKind(KindDims) == nil
	next := p.peek()
	switch {
	case p.isLambdaStart():
		n.AddChild(p.parseLambda())
		return p.finishNode(n)
	case primitive && (p.is("+") || p.is("-") || p.is("++") || p.is("--")):
	case p.is("!"), p.is("~"), p.is("("), p.is("this"), p.is("super"), p.is("new"), p.is("switch"):
	case p.is("true"), p.is("false"), p.is("null"):
	case next.Kind == TokenIdent || next.Kind >= TokenIntLiteral && next.Kind <= TokenTextBlock:
	case next.Kind == TokenKeyword && (primitiveTypes[next.Literal] || next.Literal == "void"):
	default:
		return nil
	}
	n.AddChild(p.parseUnary())
	return p.finishNode(n)
}

func (p *Parser) parsePostfix(x *Node) *Node {
	for {
		switch {
		case p.is("."):
			x = p.parseSelector(x)
		case p.is("[") && !p.isAt(1, "]"):
			n := p.startAt(KindArrayAccess, x)
			p.advance()
			n.AddChild(p.parseExpression())
			n.AddChild(p.expect("]"))
			x = p.finishNode(n)
		case p.is("::"):
			x = p.parseMethodRef(x)
		case p.is("++"), p.is("--"):
			n := p.startAt(KindPostfix, x)
			tok := p.advance()
			n.Token = &tok
			x = p.finishNode(n)
		default:
			return x
		}
	}
}

func (p *Parser) parseSelector(x *Node) *Node {
	p.advance()
	switch {
	case p.is("new"):
		return p.parseNew(x)
	case p.is("this"), p.is("super"):
		kind := KindThis
		if p.is("super") {
			kind = KindSuper
		}
		n := p.startAt(kind, x)
		tok := p.advance()
		n.Token = &tok
		return p.finishNode(n)
	case p.is("class"):
		n := p.startAt(KindClassLiteral, x)
		p.advance()
		return p.finishNode(n)
	case p.is("<"):
		n := p.startAt(KindCall, x)
		n.AddChild(p.parseTypeArguments())
		n.AddChild(p.identifier())
		n.AddChild(p.parseArguments())
		return p.finishNode(n)
	case p.isIdent():
		if p.isAt(1, "(") {
			n := p.startAt(KindCall, x)
			n.AddChild(p.leaf(KindIdentifier))
			n.AddChild(p.parseArguments())
			return p.finishNode(n)
		}
		n := p.startAt(KindFieldAccess, x)
		n.AddChild(p.leaf(KindIdentifier))
		return p.finishNode(n)
	}
	n := p.startAt(KindFieldAccess, x)
	n.AddChild(p.errorNode("expected member name after \".\""))
	return p.finishNode(n)
}

func (p *Parser) parseMethodRef(x *Node) *Node {
	n := p.startAt(KindMethodRef, x)
	p.advance()
	if p.is("<") {
		n.AddChild(p.parseTypeArguments())
	}
	if p.is("new") {
		n.AddChild(p.leaf(KindKeyword))
	} else {
		n.AddChild(p.identifier())
	}
	return p.finishNode(n)
}

func (p *Parser) parseArguments() *Node {
	n := p.startNode(KindArguments)
	if e := p.expect("("); e != nil {
		n.AddChild(e)
		return p.finishNode(n)
	}
	for !p.is(")") && !p.atEOF() {
		n.AddChild(p.parseExpression())
		if !p.accept(",") {
			break
		}
	}
	if e := p.expect(")"); e != nil {
		n.AddChild(e)
		p.recoverTo(")", ";", "}")
		p.accept(")")
	}
	return p.finishNode(n)
}

func (p *Parser) parsePrimary() *Node {
	tok := p.peek()
	switch {
	case tok.Kind >= TokenIntLiteral && tok.Kind <= TokenTextBlock,
		p.is("true"), p.is("false"), p.is("null"):
		return p.leaf(KindLiteral)
	case p.is("("):
		n := p.startNode(KindParen)
		p.advance()
		n.AddChild(p.parseExpression())
		n.AddChild(p.expect(")"))
		return p.finishNode(n)
	case p.is("this"), p.is("super"):
		if p.isAt(1, "(") {
			n := p.startNode(KindCall)
			n.AddChild(p.leaf(KindIdentifier))
			n.AddChild(p.parseArguments())
			return p.finishNode(n)
		}
		if tok.Literal == "this" {
			return p.leaf(KindThis)
		}
		return p.leaf(KindSuper)
	case p.is("new"):
		return p.parseNew(nil)
	case p.is("switch"):
		return p.parseSwitch(KindSwitchExpr)
	case tok.Kind == TokenKeyword && (primitiveTypes[tok.Literal] || tok.Literal == "void"), p.is("@"):
		if t := p.speculate(p.parseTypeExpression); t != nil {
			return t
		}
		return p.errorNode("expected .class or :: after type")
	case tok.Kind == TokenIdent:
		if t := p.speculate(p.parseTypeExpression); t != nil {
			return t
		}
		if p.isAt(1, "(") {
			n := p.startNode(KindCall)
			n.AddChild(p.leaf(KindIdentifier))
			n.AddChild(p.parseArguments())
			return p.finishNode(n)
		}
		return p.leaf(KindName)
	}
	switch tok.Literal {
	case ")", "]", "}", ";", ",":
		n := &Node{Kind: KindError, Span: Span{Start: tok.Span.Start, End: tok.Span.Start},
			Error: &Error{Message: "expected expression", Got: tok}}
		p.errors = append(p.errors, n)
		return n
	}
	return p.errorNode("expected expression")
}

// parseTypeExpression reads the forms where a type appears in expression
// position: Type.class, Type[].class and Type::name with type arguments or
// dims. It returns nil for identifiers that are plain names.
func (p *Parser) parseTypeExpression() *Node {
	typ := p.parseType()
	if typ == nil {
		return nil
	}
	if p.is(".") && p.isAt(1, "class") {
		n := p.startAt(KindClassLiteral, typ)
		p.advance()
		p.advance()
		return p.finishNode(n)
	}
	plain := typ.FirstChildOfKind(KindDims) == nil && typ.FirstChildOfKind(KindTypeArguments) == nil &&
		typ.FirstChildOfKind(KindKeyword) == nil
	if p.is("::") && !plain {
		return p.parseMethodRef(typ)
	}
	return nil
}

func (p *Parser) parseNew(outer *Node) *Node {
	n := p.startNode(KindNew)
	if outer != nil {
		n = p.startAt(KindNew, outer)
	}
	tok := p.advance()
	n.Token = &tok
	if p.is("<") {
		n.AddChild(p.parseTypeArguments())
	}
	typ := p.parseTypeNoDims()
	if typ == nil {
		n.AddChild(p.errorNode("expected type after new", ";", ")", "}"))
		return p.finishNode(n)
	}
	if p.is("[") || (p.is("@") && p.annotatedDims()) {
		n.Kind = KindNewArray
		n.AddChild(typ)
		for p.is("[") && !p.isAt(1, "]") {
			p.advance()
			n.AddChild(p.parseExpression())
			n.AddChild(p.expect("]"))
		}
		if dims := p.parseDims(); dims != nil {
			n.AddChild(dims)
		}
		if p.is("{") {
			n.AddChild(p.parseArrayInit(p.parseVarInit))
		}
		return p.finishNode(n)
	}
	n.AddChild(typ)
	n.AddChild(p.parseArguments())
	if p.is("{") {
		n.AddChild(p.parseClassBody(false, ""))
	}
	return p.finishNode(n)
}

func (p *Parser) parseArrayInit(elem func() *Node) *Node {
	n := p.startNode(KindArrayInit)
	p.advance()
	for !p.is("}") && !p.atEOF() {
		n.AddChild(elem())
		if !p.accept(",") {
			break
		}
	}
	n.AddChild(p.expect("}"))
	return p.finishNode(n)
}

func (p *Parser) isLambdaStart() bool {
	if p.isIdent() && p.isAt(1, "->") {
		return true
	}
	if !p.is("(") {
		return false
	}
	depth := 0
	for i := 0; ; i++ {
		tok := p.peekN(i)
		switch {
		case tok.Kind == TokenEOF:
			return false
		case tok.Is(TokenOperator, "("):
			depth++
		case tok.Is(TokenOperator, ")"):
			depth--
			if depth == 0 {
				return p.isAt(i+1, "->")
			}
		}
	}
}

func (p *Parser) parseLambda() *Node {
	n := p.startNode(KindLambda)
	params := p.startNode(KindParameters)
	if p.isIdent() {
		param := p.startNode(KindParameter)
		param.AddChild(p.leaf(KindIdentifier))
		params.AddChild(p.finishNode(param))
	} else {
		p.advance()
		for !p.is(")") && !p.atEOF() {
			if p.isIdent() && (p.isAt(1, ",") || p.isAt(1, ")")) {
				param := p.startNode(KindParameter)
				param.AddChild(p.leaf(KindIdentifier))
				params.AddChild(p.finishNode(param))
			} else {
				params.AddChild(p.parseParameter())
			}
			if !p.accept(",") {
				break
			}
		}
		params.AddChild(p.expect(")"))
	}
	n.AddChild(p.finishNode(params))
	p.expect("->")
	if p.is("{") {
		n.AddChild(p.parseBlock())
	} else {
		n.AddChild(p.parseExpression())
	}
	return p.finishNode(n)
}
