package resolve

import (
	"strconv"
	"strings"

	"github.com/dhamidi/whatis/java/entry"
	"github.com/dhamidi/whatis/java/tree"
)

func resolveUnit(r *Resolver, n tree.Node) Resolution {
	return r.resolve(n.(*tree.CompilationUnit).Package)
}

func resolvePackage(r *Resolver, n tree.Node) Resolution {
	pkg := n.(*tree.PackageDecl)
	if pkg.IsDefault() {
		return PackageResolution{Default: true}
	}
	return PackageResolution{Name: pkg.InternalName()}
}

// packageName is the internal name of the unit's package, empty for the
// default package.
func (r *Resolver) packageName() (string, bool) {
	pkg, ok := r.resolve(r.unit.Package).(PackageResolution)
	if !ok {
		return "", false
	}
	return pkg.Name, true
}

// BinaryName returns the internal name javac gives decl: the package and
// the simple name for top-level classes, Outer$Inner for member classes,
// Outer$1Local for local classes and Outer$1 for anonymous classes.
func (r *Resolver) BinaryName(decl *tree.ClassDecl) (string, bool) {
	outer, nested := tree.Enclosing[*tree.ClassDecl](decl)
	if nested {
		outerName, ok := r.BinaryName(outer)
		if !ok {
			return "", false
		}
		return outerName + "$" + NestedName(outer, decl), true
	}
	if decl.Name == "" {
		return "", false
	}
	pkg, ok := r.packageName()
	if !ok {
		return "", false
	}
	if pkg == "" {
		return decl.Name, true
	}
	return pkg + "/" + decl.Name, true
}

// NestedName is the part of decl's binary name after outer's name and the
// '$' separator. Anonymous and local classes are numbered in source order
// within outer, not counting classes nested in other classes.
func NestedName(outer, decl *tree.ClassDecl) string {
	if decl.Parent() == tree.Node(outer) {
		return decl.Name
	}
	index := 0
	done := false
	tree.Walk(outer, func(n tree.Node) bool {
		if done {
			return false
		}
		c, ok := n.(*tree.ClassDecl)
		if !ok || c == outer {
			return true
		}
		if c.Parent() != tree.Node(outer) && c.Name == decl.Name {
			index++
		}
		if c == decl {
			done = true
		}
		return false
	})
	if decl.IsAnonymous() {
		return strconv.Itoa(index)
	}
	return strconv.Itoa(index) + decl.Name
}

func resolveClassDecl(r *Resolver, n tree.Node) Resolution {
	name, ok := r.BinaryName(n.(*tree.ClassDecl))
	if !ok {
		return Unknown{}
	}
	if c := r.pool.Class(name); c != nil {
		return ClassResolution{Class: c}
	}
	return Unknown{}
}

func (r *Resolver) classOf(decl *tree.ClassDecl) *entry.ClassEntry {
	if decl == nil {
		return nil
	}
	if res, ok := r.dispatch(decl).(ClassResolution); ok {
		return res.Class
	}
	return nil
}

func (r *Resolver) enclosingClass(n tree.Node) *entry.ClassEntry {
	decl, ok := tree.Enclosing[*tree.ClassDecl](n)
	if !ok {
		return nil
	}
	return r.classOf(decl)
}

// unique returns the only member named like the query when it is also the
// only one of that name in the whole hierarchy.
func unique[M entry.Member](declared []M, hierarchy map[string]M) (M, bool) {
	if len(declared) == 1 && len(hierarchy) == 1 {
		return declared[0], true
	}
	var zero M
	return zero, false
}

func resolveMethodDecl(r *Resolver, n tree.Node) Resolution {
	md := n.(*tree.MethodDecl)
	owner := r.enclosingClass(md)
	if owner == nil {
		return Unknown{}
	}
	name := md.BinaryName()
	if m, ok := unique(owner.DeclaredMethodsNamed(name), owner.DistinctMethodsByName(name)); ok {
		return MethodResolution{Owner: owner, Method: m}
	}
	desc, ok := r.MethodDescriptor(md)
	if !ok {
		return Unknown{}
	}
	if m := owner.Method(name, desc, nil); m != nil {
		return MethodResolution{Owner: m.Owner(), Method: m}
	}
	return Unknown{}
}

// MethodDescriptor builds the descriptor of md from its resolved parameter
// and result types.
func (r *Resolver) MethodDescriptor(md *tree.MethodDecl) (string, bool) {
	params := make([]string, 0, len(md.Params))
	for _, p := range md.Params {
		t := r.ParameterType(p)
		if t == nil {
			return "", false
		}
		params = append(params, t.Descriptor())
	}
	ret := entry.Void.Descriptor()
	if !md.Constructor {
		t := r.TypeOf(md.Result, 0)
		if t == nil {
			return "", false
		}
		ret = t.Descriptor()
	}
	return entry.MethodDescriptor(params, ret), true
}

func resolveFieldDecl(r *Resolver, n tree.Node) Resolution {
	fd := n.(*tree.FieldDecl)
	if len(fd.Variables) != 1 {
		return Unknown{}
	}
	return r.dispatch(fd.Variables[0])
}

func resolveVariable(r *Resolver, n tree.Node) Resolution {
	v := n.(*tree.Variable)
	if fd, ok := v.Parent().(*tree.FieldDecl); ok {
		if _, member := fd.Parent().(*tree.ClassDecl); member {
			return r.field(v)
		}
	}
	typ, dims := v.DeclaredType()
	if typ == nil {
		return Unknown{}
	}
	if typ.Name == "var" && !typ.Primitive && dims == 0 {
		if _, isType := r.typeName("var", typ).(ClassResolution); !isType {
			return Of(r.typeOf(v.Init))
		}
	}
	return r.typeResolution(typ, dims)
}

func (r *Resolver) field(v *tree.Variable) Resolution {
	owner := r.enclosingClass(v)
	if owner == nil {
		return Unknown{}
	}
	if f, ok := unique(owner.DeclaredFieldsNamed(v.Name), owner.DistinctFieldsByName(v.Name)); ok {
		return FieldResolution{Owner: owner, Field: f}
	}
	typ, dims := v.DeclaredType()
	t := r.TypeOf(typ, dims)
	if t == nil {
		return Unknown{}
	}
	if f := owner.Field(v.Name, t.Descriptor(), nil); f != nil {
		return FieldResolution{Owner: f.Owner(), Field: f}
	}
	return Unknown{}
}

func resolveEnumConstant(r *Resolver, n tree.Node) Resolution {
	ec := n.(*tree.EnumConstant)
	owner := r.enclosingClass(ec)
	if owner == nil {
		return Unknown{}
	}
	if f := owner.Field(ec.Name, owner.Descriptor(), nil); f != nil {
		return FieldResolution{Owner: f.Owner(), Field: f}
	}
	return Unknown{}
}

// resolveModifiers answers for the declaration the modifiers belong to.
// The modifiers of a static initializer stand in for the class
// initializer method.
func resolveModifiers(r *Resolver, n tree.Node) Resolution {
	mods := n.(*tree.Modifiers)
	if mods.Marker != tree.StaticInitializerMarker {
		switch p := mods.Parent().(type) {
		case *tree.ClassDecl, *tree.MethodDecl, *tree.FieldDecl, *tree.LocalVarDecl, *tree.Parameter:
			return r.dispatch(p)
		}
		return Unknown{}
	}
	owner := r.enclosingClass(mods)
	if owner == nil {
		return Unknown{}
	}
	if clinit := owner.DeclaredMethodsNamed(tree.StaticInitializerMarker); len(clinit) > 0 {
		return MethodResolution{Owner: owner, Method: clinit[0]}
	}
	return Unknown{}
}

// classByName looks up an internal name. On a miss it turns the last
// remaining package separator into a nesting separator and retries, so
// that a/b/Outer/Inner finds a/b/Outer$Inner.
func (r *Resolver) classByName(name string) *entry.ClassEntry {
	for {
		if c := r.pool.Class(name); c != nil {
			return c
		}
		i := strings.LastIndexByte(name, '/')
		if i < 0 {
			return nil
		}
		name = name[:i] + "$" + name[i+1:]
	}
}

func resolveImport(r *Resolver, n tree.Node) Resolution {
	imp := n.(*tree.ImportDecl)
	if imp.Name == "" {
		return Unknown{}
	}
	internal := entry.InternalPackage(imp.Name)
	switch {
	case !imp.Static && !imp.Wildcard:
		if c := r.classByName(internal); c != nil {
			return ClassResolution{Class: c}
		}
	case !imp.Static:
		if c := r.classByName(internal); c != nil {
			return ClassResolution{Class: c}
		}
		return PackageResolution{Name: internal}
	case imp.Wildcard:
		if owner := r.classByName(internal); owner != nil {
			return MultiMemberResolution{Owner: owner, Members: owner.StaticMembers()}
		}
	default:
		i := strings.LastIndexByte(internal, '/')
		if i < 0 {
			return Unknown{}
		}
		owner := r.classByName(internal[:i])
		if owner == nil {
			return Unknown{}
		}
		return staticMember(owner, internal[i+1:], r.pool)
	}
	return Unknown{}
}

func isStatic[M entry.Member](m M) bool {
	return m.Access().IsStatic() && !m.Access().IsPrivate()
}

func filter[M any](ms []M, keep func(M) bool) []M {
	var out []M
	for _, m := range ms {
		if keep(m) {
			out = append(out, m)
		}
	}
	return out
}

func members[M entry.Member](ms []M) []entry.Member {
	out := make([]entry.Member, len(ms))
	for i, m := range ms {
		out[i] = m
	}
	return out
}

// staticMember resolves owner.name as written in a single static import:
// fields first, then methods, then a static nested class.
func staticMember(owner *entry.ClassEntry, name string, pool *entry.Pool) Resolution {
	if fields := filter(owner.FieldsNamed(name), isStatic); len(fields) > 0 {
		if len(fields) == 1 {
			return FieldResolution{Owner: fields[0].Owner(), Field: fields[0]}
		}
		return MultiMemberResolution{Owner: owner, Members: members(fields)}
	}
	if methods := filter(owner.MethodsNamed(name), isStatic); len(methods) > 0 {
		if len(methods) == 1 {
			return MethodResolution{Owner: methods[0].Owner(), Method: methods[0]}
		}
		return MultiMemberResolution{Owner: owner, Members: members(methods)}
	}
	if nested := pool.Class(owner.Name() + "$" + name); nested != nil {
		return ClassResolution{Class: nested}
	}
	return Unknown{}
}
