package resolve

import (
	"slices"
	"strings"

	"github.com/dhamidi/whatis/java/entry"
	"github.com/dhamidi/whatis/java/tree"
)

const (
	javaLang    = "java/lang/"
	objectClass = "java/lang/Object"
)

func resolveTypeRef(r *Resolver, n tree.Node) Resolution {
	return r.typeResolution(n.(*tree.TypeRef), 0)
}

func resolveAnnotation(r *Resolver, n tree.Node) Resolution {
	return r.typeResolution(n.(*tree.Annotation).Type, 0)
}

func resolveParameter(r *Resolver, n tree.Node) Resolution {
	p := n.(*tree.Parameter)
	if p.Type == nil {
		return Unknown{}
	}
	if len(p.Alternatives) == 0 {
		return Of(r.ParameterType(p))
	}
	classes := make([]*entry.ClassEntry, 0, 1+len(p.Alternatives))
	for _, t := range append([]*tree.TypeRef{p.Type}, p.Alternatives...) {
		if c, ok := r.TypeOf(t, 0).(*entry.ClassEntry); ok {
			classes = append(classes, c)
		}
	}
	if len(classes) == 0 {
		return Unknown{}
	}
	return MultiClassResolution{Classes: classes}
}

// ParameterType is the declared type of p with varargs counted as an
// array dimension, nil when it cannot be resolved.
func (r *Resolver) ParameterType(p *tree.Parameter) entry.Describable {
	dims := p.Dims
	if p.Varargs {
		dims++
	}
	return r.TypeOf(p.Type, dims)
}

func resolveLocalVarDecl(r *Resolver, n tree.Node) Resolution {
	decl := n.(*tree.LocalVarDecl)
	if len(decl.Variables) == 1 {
		return r.dispatch(decl.Variables[0])
	}
	return r.typeResolution(decl.Type, 0)
}

// TypeOf resolves t plus extraDims array dimensions to a single entry, nil
// when the type is unknown or ambiguous.
func (r *Resolver) TypeOf(t *tree.TypeRef, extraDims int) entry.Describable {
	return EntryOf(r.typeResolution(t, extraDims))
}

func (r *Resolver) typeResolution(t *tree.TypeRef, extraDims int) Resolution {
	if t == nil {
		return Unknown{}
	}
	base := r.baseType(t)
	dims := t.Dims + extraDims
	if dims == 0 {
		return base
	}
	elem := EntryOf(base)
	if elem == nil {
		return Unknown{}
	}
	arr, err := entry.NewArray(elem, dims)
	if err != nil {
		return Unknown{}
	}
	return ArrayResolution{Array: arr}
}

func (r *Resolver) baseType(t *tree.TypeRef) Resolution {
	switch {
	case t.IsWildcard():
		if t.Bound != nil && !t.Lower {
			return r.typeResolution(t.Bound, 0)
		}
		return r.named(objectClass)
	case t.Primitive:
		if p := entry.PrimitiveNamed(t.Name); p != nil {
			return PrimitiveResolution{Primitive: p}
		}
		return Unknown{}
	}
	return r.typeName(t.Name, t)
}

func (r *Resolver) named(internal string) Resolution {
	if c := r.pool.Class(internal); c != nil {
		return ClassResolution{Class: c}
	}
	return Unknown{}
}

// typeName resolves a source type name, simple or dotted, as seen from
// ctx. The first segment of a dotted name is looked up in scope and the
// rest as member types; failing that the name is taken as fully
// qualified.
func (r *Resolver) typeName(name string, ctx tree.Node) Resolution {
	first, rest, dotted := strings.Cut(name, ".")
	base := r.simpleTypeName(first, ctx)
	if !dotted {
		return base
	}
	if c, ok := base.(ClassResolution); ok {
		cls := c.Class
		for _, seg := range strings.Split(rest, ".") {
			if cls = r.memberType(cls, seg); cls == nil {
				break
			}
		}
		if cls != nil {
			return ClassResolution{Class: cls}
		}
	}
	if c := r.classByName(entry.InternalPackage(name)); c != nil {
		return ClassResolution{Class: c}
	}
	return Unknown{}
}

// memberType finds a member type declared by cls or inherited from its
// supertypes.
func (r *Resolver) memberType(cls *entry.ClassEntry, name string) *entry.ClassEntry {
	for _, h := range cls.Hierarchy() {
		if c := r.pool.Class(h.Name() + "$" + name); c != nil {
			return c
		}
	}
	return nil
}

// simpleTypeName looks a simple type name up the way javac does: type
// variables and classes in enclosing scopes, then single-type imports,
// the unit's own package, on-demand imports and finally java.lang.
func (r *Resolver) simpleTypeName(name string, ctx tree.Node) Resolution {
	if res, ok := r.scopedType(name, ctx); ok {
		return res
	}
	for _, imp := range r.unit.Imports {
		if imp.Wildcard || imp.SimpleName() != name {
			continue
		}
		if c := r.classByName(entry.InternalPackage(imp.Name)); c != nil {
			return ClassResolution{Class: c}
		}
	}
	if pkg, ok := r.packageName(); ok {
		qualified := name
		if pkg != "" {
			qualified = pkg + "/" + name
		}
		if c := r.pool.Class(qualified); c != nil {
			return ClassResolution{Class: c}
		}
	}
	if res, ok := r.onDemandType(name); ok {
		return res
	}
	return r.named(javaLang + name)
}

func (r *Resolver) scopedType(name string, ctx tree.Node) (Resolution, bool) {
	for p := ctx.Parent(); p != nil; p = p.Parent() {
		switch s := p.(type) {
		case *tree.MethodDecl:
			if tp := typeParam(s.TypeParams, name); tp != nil {
				return r.erasure(tp), true
			}
		case *tree.Block:
			for _, st := range s.Stmts {
				if c, ok := st.(*tree.ClassDecl); ok && c.Name == name {
					return r.dispatch(c), true
				}
			}
		case *tree.ClassDecl:
			if tp := typeParam(s.TypeParams, name); tp != nil {
				return r.erasure(tp), true
			}
			if s.Name == name {
				return r.dispatch(s), true
			}
			if cls := r.classOf(s); cls != nil {
				if m := r.memberType(cls, name); m != nil {
					return ClassResolution{Class: m}, true
				}
			}
		}
	}
	return nil, false
}

func typeParam(params []*tree.TypeParameter, name string) *tree.TypeParameter {
	i := slices.IndexFunc(params, func(tp *tree.TypeParameter) bool { return tp.Name == name })
	if i < 0 {
		return nil
	}
	return params[i]
}

// erasure is the leftmost bound of tp, or Object. A bound that is itself
// a type variable erases to Object.
func (r *Resolver) erasure(tp *tree.TypeParameter) Resolution {
	if len(tp.Bounds) == 0 {
		return r.named(objectClass)
	}
	bound := tp.Bounds[0]
	if !strings.Contains(bound.Name, ".") && r.isTypeVariable(bound.Name, tp) {
		return r.named(objectClass)
	}
	return r.typeResolution(bound, 0)
}

func (r *Resolver) isTypeVariable(name string, ctx tree.Node) bool {
	for p := ctx.Parent(); p != nil; p = p.Parent() {
		switch s := p.(type) {
		case *tree.MethodDecl:
			if typeParam(s.TypeParams, name) != nil {
				return true
			}
		case *tree.ClassDecl:
			if typeParam(s.TypeParams, name) != nil {
				return true
			}
		}
	}
	return false
}

// onDemandType searches the wildcard imports. A name found in more than
// one of them is ambiguous.
func (r *Resolver) onDemandType(name string) (Resolution, bool) {
	var found []*entry.ClassEntry
	for _, imp := range r.unit.Imports {
		if !imp.Wildcard {
			continue
		}
		internal := entry.InternalPackage(imp.Name)
		var c *entry.ClassEntry
		if owner := r.classByName(internal); owner != nil {
			c = r.memberType(owner, name)
		} else if !imp.Static {
			c = r.pool.Class(internal + "/" + name)
		}
		if c != nil && !slices.Contains(found, c) {
			found = append(found, c)
		}
	}
	switch len(found) {
	case 0:
		return nil, false
	case 1:
		return ClassResolution{Class: found[0]}, true
	}
	return MultiClassResolution{Classes: found}, true
}
