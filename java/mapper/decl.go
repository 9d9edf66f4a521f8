package mapper

import (
	"strings"

	"github.com/dhamidi/whatis/java/parser"
	"github.com/dhamidi/whatis/java/tree"
)

func mapCompilationUnit(m *Mapper, n *parser.Node) tree.Node {
	u := &tree.CompilationUnit{}
	for _, c := range n.Children {
		switch c.Kind {
		case parser.KindPackageDecl:
			u.Package = mapAs[*tree.PackageDecl](m, c)
		case parser.KindImportDecl:
			if imp := mapAs[*tree.ImportDecl](m, c); imp != nil {
				u.Imports = append(u.Imports, imp)
			}
		case parser.KindClassDecl:
			if class := mapAs[*tree.ClassDecl](m, c); class != nil {
				u.Types = append(u.Types, class)
			}
		}
	}
	if u.Package == nil {
		u.Package = tree.Build(&tree.PackageDecl{}, tree.UnknownRange)
	}
	return tree.Build(u, ExtractRange(n.Span))
}

func mapPackageDecl(m *Mapper, n *parser.Node) tree.Node {
	return tree.Build(&tree.PackageDecl{
		Annotations: mapAll[*tree.Annotation](m, n.ChildrenOfKind(parser.KindAnnotation)),
		Name:        n.FirstChildOfKind(parser.KindQualifiedName).Text(),
	}, ExtractRange(n.Span))
}

func mapImportDecl(m *Mapper, n *parser.Node) tree.Node {
	return tree.Build(&tree.ImportDecl{
		Static:   n.HasKeyword("static"),
		Wildcard: n.HasKeyword("*"),
		Name:     n.FirstChildOfKind(parser.KindQualifiedName).Text(),
	}, ExtractRange(n.Span))
}

var variants = map[string]tree.ClassVariant{
	"class":      tree.VariantClass,
	"interface":  tree.VariantInterface,
	"enum":       tree.VariantEnum,
	"record":     tree.VariantRecord,
	"@interface": tree.VariantAnnotation,
}

func mapClassDecl(m *Mapper, n *parser.Node) tree.Node {
	c := &tree.ClassDecl{
		Modifiers: mapAs[*tree.Modifiers](m, n.FirstChildOfKind(parser.KindModifiers)),
		Variant:   variants[n.TokenLiteral()],
		NameRng:   tree.UnknownRange,
	}
	if id := n.FirstChildOfKind(parser.KindIdentifier); id != nil {
		c.Name = id.TokenLiteral()
		c.NameRng = ExtractRange(id.Span)
	}
	if tps := n.FirstChildOfKind(parser.KindTypeParameters); tps != nil {
		c.TypeParams = mapAll[*tree.TypeParameter](m, tps.Children)
	}
	header := n.FirstChildOfKind(parser.KindRecordHeader)
	if header != nil {
		c.Components = mapAll[*tree.Parameter](m, header.Children)
	}
	if ext := n.FirstChildOfKind(parser.KindExtends); ext != nil {
		c.Extends = mapAll[*tree.TypeRef](m, ext.Children)
	}
	if impl := n.FirstChildOfKind(parser.KindImplements); impl != nil {
		c.Implements = mapAll[*tree.TypeRef](m, impl.Children)
	}
	m.records = append(m.records, header)
	m.mapBody(c, n.FirstChildOfKind(parser.KindClassBody))
	m.records = m.records[:len(m.records)-1]
	return tree.Build(c, ExtractRange(n.Span))
}

// anonymousClass models the body of an anonymous class or enum constant.
func (m *Mapper) anonymousClass(body *parser.Node) *tree.ClassDecl {
	if body == nil {
		return nil
	}
	c := &tree.ClassDecl{NameRng: tree.UnknownRange}
	m.records = append(m.records, nil)
	m.mapBody(c, body)
	m.records = m.records[:len(m.records)-1]
	return tree.Build(c, ExtractRange(body.Span))
}

func (m *Mapper) mapBody(c *tree.ClassDecl, body *parser.Node) {
	if body == nil {
		return
	}
	for _, child := range body.Children {
		if child.Kind == parser.KindEnumConstant {
			if ec := mapAs[*tree.EnumConstant](m, child); ec != nil {
				c.Constants = append(c.Constants, ec)
			}
			continue
		}
		if member := m.Node(child); member != nil {
			c.Members = append(c.Members, member)
		}
	}
}

func mapEnumConstant(m *Mapper, n *parser.Node) tree.Node {
	e := &tree.EnumConstant{
		Annotations: mapAll[*tree.Annotation](m, n.ChildrenOfKind(parser.KindAnnotation)),
		NameRng:     tree.UnknownRange,
		Body:        m.anonymousClass(n.FirstChildOfKind(parser.KindClassBody)),
	}
	if id := n.FirstChildOfKind(parser.KindIdentifier); id != nil {
		e.Name = id.TokenLiteral()
		e.NameRng = ExtractRange(id.Span)
	}
	if args := n.FirstChildOfKind(parser.KindArguments); args != nil {
		e.Args = m.exprs(args.Children)
	}
	return tree.Build(e, ExtractRange(n.Span))
}

func mapFieldDecl(m *Mapper, n *parser.Node) tree.Node {
	return tree.Build(&tree.FieldDecl{
		Modifiers: mapAs[*tree.Modifiers](m, n.FirstChildOfKind(parser.KindModifiers)),
		Type:      mapAs[*tree.TypeRef](m, n.FirstChildOfKind(parser.KindType)),
		Variables: mapAll[*tree.Variable](m, n.ChildrenOfKind(parser.KindVarDeclarator)),
	}, ExtractRange(n.Span))
}

func mapVariable(m *Mapper, n *parser.Node) tree.Node {
	v := &tree.Variable{NameRng: tree.UnknownRange}
	for _, c := range n.Children {
		switch c.Kind {
		case parser.KindIdentifier:
			v.Name = c.TokenLiteral()
			v.NameRng = ExtractRange(c.Span)
		case parser.KindDims:
			v.Dims = c.Count
		default:
			if v.Init == nil {
				v.Init = m.expr(c)
			}
		}
	}
	return tree.Build(v, ExtractRange(n.Span))
}

func mapMethodDecl(m *Mapper, n *parser.Node) tree.Node {
	md := &tree.MethodDecl{
		Modifiers:   mapAs[*tree.Modifiers](m, n.FirstChildOfKind(parser.KindModifiers)),
		Result:      mapAs[*tree.TypeRef](m, n.FirstChildOfKind(parser.KindType)),
		Body:        mapAs[*tree.Block](m, n.FirstChildOfKind(parser.KindBlock)),
		Constructor: n.Kind == parser.KindConstructorDecl,
		NameRng:     tree.UnknownRange,
	}
	if id := n.FirstChildOfKind(parser.KindIdentifier); id != nil {
		md.Name = id.TokenLiteral()
		md.NameRng = ExtractRange(id.Span)
	}
	if tps := n.FirstChildOfKind(parser.KindTypeParameters); tps != nil {
		md.TypeParams = mapAll[*tree.TypeParameter](m, tps.Children)
	}
	if params := n.FirstChildOfKind(parser.KindParameters); params != nil {
		md.Params = mapAll[*tree.Parameter](m, params.Children)
	} else if md.Constructor {
		md.Params = m.compactParams()
	}
	if throws := n.FirstChildOfKind(parser.KindThrows); throws != nil {
		md.Throws = mapAll[*tree.TypeRef](m, throws.Children)
	}
	if def := n.FirstChildOfKind(parser.KindDefaultValue); def != nil && len(def.Children) > 0 {
		md.Default = m.expr(def.Children[0])
	}
	return tree.Build(md, ExtractRange(n.Span))
}

// compactParams gives a compact record constructor the parameters of the
// record header. They are synthetic: adopted, but without a range.
func (m *Mapper) compactParams() []*tree.Parameter {
	if len(m.records) == 0 || m.records[len(m.records)-1] == nil {
		return nil
	}
	var out []*tree.Parameter
	for _, c := range m.records[len(m.records)-1].ChildrenOfKind(parser.KindParameter) {
		p := m.parameter(c)
		out = append(out, tree.Build(p, tree.UnknownRange))
	}
	return out
}

func mapParameter(m *Mapper, n *parser.Node) tree.Node {
	return tree.Build(m.parameter(n), ExtractRange(n.Span))
}

func (m *Mapper) parameter(n *parser.Node) *tree.Parameter {
	p := &tree.Parameter{
		Modifiers: mapAs[*tree.Modifiers](m, n.FirstChildOfKind(parser.KindModifiers)),
		Varargs:   n.HasKeyword("..."),
		NameRng:   tree.UnknownRange,
	}
	types := mapAll[*tree.TypeRef](m, n.ChildrenOfKind(parser.KindType))
	if len(types) > 0 {
		p.Type, p.Alternatives = types[0], types[1:]
	}
	if len(p.Alternatives) == 0 {
		p.Alternatives = nil
	}
	if id := n.FirstChildOfKind(parser.KindIdentifier); id != nil {
		p.Name = id.TokenLiteral()
		p.NameRng = ExtractRange(id.Span)
	}
	if dims := n.FirstChildOfKind(parser.KindDims); dims != nil {
		p.Dims = dims.Count
	}
	return p
}

func mapInitializer(m *Mapper, n *parser.Node) tree.Node {
	init := &tree.Initializer{Body: mapAs[*tree.Block](m, n.FirstChildOfKind(parser.KindBlock))}
	if mods := n.FirstChildOfKind(parser.KindModifiers); mods != nil {
		marker := ""
		if mods.HasKeyword("static") {
			marker = tree.StaticInitializerMarker
		}
		init.Modifiers = m.modifiers(mods, marker)
	}
	return tree.Build(init, ExtractRange(n.Span))
}

func mapModifiers(m *Mapper, n *parser.Node) tree.Node {
	if mods := m.modifiers(n, ""); mods != nil {
		return mods
	}
	return nil
}

// modifiers returns nil for an empty modifier list.
func (m *Mapper) modifiers(n *parser.Node, marker string) *tree.Modifiers {
	if len(n.Children) == 0 {
		return nil
	}
	mods := &tree.Modifiers{
		Annotations: mapAll[*tree.Annotation](m, n.ChildrenOfKind(parser.KindAnnotation)),
		Marker:      marker,
	}
	for _, kw := range n.ChildrenOfKind(parser.KindKeyword) {
		mods.Keywords = append(mods.Keywords, kw.TokenLiteral())
	}
	return tree.Build(mods, ExtractRange(n.Span))
}

func mapAnnotation(m *Mapper, n *parser.Node) tree.Node {
	a := &tree.Annotation{}
	for _, c := range n.Children {
		if c.Kind == parser.KindQualifiedName {
			a.Type = tree.Build(&tree.TypeRef{Name: c.Text()}, ExtractRange(c.Span))
			continue
		}
		if e := m.expr(c); e != nil {
			a.Args = append(a.Args, e)
		}
	}
	return tree.Build(a, ExtractRange(n.Span))
}

// mapElementValuePair models "name = value" as an assignment.
func mapElementValuePair(m *Mapper, n *parser.Node) tree.Node {
	a := &tree.Assign{Op: "="}
	for _, c := range n.Children {
		if c.Kind == parser.KindIdentifier {
			a.X = tree.Build(&tree.Name{Identifier: c.TokenLiteral()}, ExtractRange(c.Span))
		} else if a.Y == nil {
			a.Y = m.expr(c)
		}
	}
	return tree.Build(a, ExtractRange(n.Span))
}

func mapType(m *Mapper, n *parser.Node) tree.Node {
	t := &tree.TypeRef{}
	var segments []string
	for _, c := range n.Children {
		switch c.Kind {
		case parser.KindKeyword:
			t.Name = c.TokenLiteral()
			t.Primitive = true
		case parser.KindIdentifier:
			segments = append(segments, c.TokenLiteral())
			t.Args = nil
		case parser.KindTypeArguments:
			t.Args = mapAll[*tree.TypeRef](m, c.Children)
		case parser.KindDims:
			t.Dims = c.Count
		}
	}
	if len(segments) > 0 {
		t.Name = strings.Join(segments, ".")
	}
	return tree.Build(t, ExtractRange(n.Span))
}

func mapWildcard(m *Mapper, n *parser.Node) tree.Node {
	return tree.Build(&tree.TypeRef{
		Name:  "?",
		Bound: mapAs[*tree.TypeRef](m, n.FirstChildOfKind(parser.KindType)),
		Lower: n.HasKeyword("super"),
	}, ExtractRange(n.Span))
}

func mapTypeParameter(m *Mapper, n *parser.Node) tree.Node {
	tp := &tree.TypeParameter{
		Bounds:  mapAll[*tree.TypeRef](m, n.ChildrenOfKind(parser.KindType)),
		NameRng: tree.UnknownRange,
	}
	if id := n.FirstChildOfKind(parser.KindIdentifier); id != nil {
		tp.Name = id.TokenLiteral()
		tp.NameRng = ExtractRange(id.Span)
	}
	return tree.Build(tp, ExtractRange(n.Span))
}

// typeFromExpr reads a qualifier written as an expression, such as the
// Outer in Outer.this, as a type reference.
func typeFromExpr(n *parser.Node) *tree.TypeRef {
	var parts []string
	for cur := n; cur != nil; {
		switch cur.Kind {
		case parser.KindName:
			parts = append([]string{cur.TokenLiteral()}, parts...)
			return tree.Build(&tree.TypeRef{Name: strings.Join(parts, ".")}, ExtractRange(n.Span))
		case parser.KindFieldAccess:
			id := cur.FirstChildOfKind(parser.KindIdentifier)
			if id == nil || len(cur.Children) == 0 {
				return nil
			}
			parts = append([]string{id.TokenLiteral()}, parts...)
			cur = cur.Children[0]
		default:
			return nil
		}
	}
	return nil
}
