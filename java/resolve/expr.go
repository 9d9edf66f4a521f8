package resolve

import (
	"slices"
	"strings"

	"github.com/dhamidi/whatis/java/entry"
	"github.com/dhamidi/whatis/java/tree"
)

// ValueType is the static type of the value a resolution denotes: the type
// of a field, the return type of a method, or the type itself. It returns
// nil for packages, Unknown and members that disagree on a type.
func (r *Resolver) ValueType(res Resolution) entry.Describable {
	return r.valueType(res)
}

func (r *Resolver) valueType(res Resolution) entry.Describable {
	switch v := res.(type) {
	case ClassResolution:
		return v.Class
	case ArrayResolution:
		return v.Array
	case PrimitiveResolution:
		return v.Primitive
	case NullResolution:
		return entry.Null
	case ThrowingResolution:
		return v.Thrown
	case FieldResolution:
		return r.pool.Describable(v.Field.Descriptor())
	case MethodResolution:
		return r.returnType(v.Method)
	case MultiMemberResolution:
		// Overloads that agree on a return type still give the call a type.
		var ret entry.Describable
		for _, m := range v.Members {
			method, ok := m.(*entry.MethodEntry)
			if !ok {
				return nil
			}
			t := r.returnType(method)
			if t == nil || (ret != nil && ret.Descriptor() != t.Descriptor()) {
				return nil
			}
			ret = t
		}
		return ret
	}
	return nil
}

func (r *Resolver) returnType(m *entry.MethodEntry) entry.Describable {
	if m.IsConstructor() {
		return m.Owner()
	}
	return r.pool.Describable(m.ReturnType())
}

func (r *Resolver) typeOf(n tree.Node) entry.Describable {
	if tree.IsNil(n) {
		return nil
	}
	return r.valueType(r.dispatch(n))
}

func (r *Resolver) classType(n tree.Node) *entry.ClassEntry {
	switch t := r.typeOf(n).(type) {
	case *entry.ClassEntry:
		return t
	case *entry.ArrayEntry:
		return r.pool.Class(objectClass)
	}
	return nil
}

func resolveName(r *Resolver, n tree.Node) Resolution {
	name := n.(*tree.Name)
	return r.name(name.Identifier, name)
}

// name resolves an identifier in expression position: a local variable,
// a field of an enclosing class, a statically imported field, a type and
// finally a package.
func (r *Resolver) name(id string, ctx tree.Node) Resolution {
	child := ctx
	for p := ctx.Parent(); p != nil; child, p = p, p.Parent() {
		if cd, ok := p.(*tree.ClassDecl); ok {
			if cls := r.classOf(cd); cls != nil {
				if f := cls.Field(id, "", nil); f != nil {
					return FieldResolution{Owner: f.Owner(), Field: f}
				}
			}
			continue
		}
		if decl := localIn(p, child, id); decl != nil {
			return r.dispatch(decl)
		}
	}
	if res, ok := r.staticField(id); ok {
		return res
	}
	if res := r.typeName(id, ctx); !IsUnknown(res) {
		return res
	}
	if r.pool.HasPackage(id) {
		return PackageResolution{Name: id}
	}
	return Unknown{}
}

// localIn finds a declaration of id that scope introduces and that is
// visible from child.
func localIn(scope, child tree.Node, id string) tree.Node {
	switch s := scope.(type) {
	case *tree.Block:
		for _, st := range s.Stmts {
			if st == child {
				break
			}
			if v := declaredIn(st, id); v != nil {
				return v
			}
		}
	case *tree.Compound:
		for _, part := range s.Parts {
			if part == child {
				break
			}
			if v := declaredIn(part, id); v != nil {
				return v
			}
			if v := bindingIn(part, id); v != nil {
				return v
			}
		}
	case *tree.Binary:
		if s.Op == "&&" && child == tree.Node(s.Y) {
			if v := bindingIn(s.X, id); v != nil {
				return v
			}
		}
	case *tree.Conditional:
		if child == tree.Node(s.Then) {
			if v := bindingIn(s.Cond, id); v != nil {
				return v
			}
		}
	case *tree.LocalVarDecl:
		// Earlier declarators and the one being initialized are in scope.
		if !slices.ContainsFunc(s.Variables, func(v *tree.Variable) bool { return tree.Node(v) == child }) {
			return nil
		}
		for _, v := range s.Variables {
			if v.Name == id {
				return v
			}
			if tree.Node(v) == child {
				break
			}
		}
	case *tree.MethodDecl:
		return param(s.Params, id)
	case *tree.Lambda:
		return param(s.Params, id)
	case *tree.CatchClause:
		if s.Param != nil && s.Param.Name == id {
			return s.Param
		}
	}
	return nil
}

func param(params []*tree.Parameter, id string) tree.Node {
	for _, p := range params {
		if p.Name == id {
			return p
		}
	}
	return nil
}

func declaredIn(n tree.Node, id string) tree.Node {
	if decl, ok := n.(*tree.LocalVarDecl); ok {
		for _, v := range decl.Variables {
			if v.Name == id {
				return v
			}
		}
	}
	return nil
}

// bindingIn finds a pattern variable named id introduced by an instanceof
// inside n, without entering lambdas or class bodies.
func bindingIn(n tree.Node, id string) tree.Node {
	var found tree.Node
	tree.Walk(n, func(c tree.Node) bool {
		if found != nil {
			return false
		}
		switch c := c.(type) {
		case *tree.Lambda, *tree.ClassDecl:
			return false
		case *tree.InstanceOf:
			if c.Binding != nil && c.Binding.Name == id {
				found = c.Binding
				return false
			}
		}
		return true
	})
	return found
}

// staticOwners lists the classes whose static members named id the
// unit imports, single imports before on-demand ones.
func (r *Resolver) staticOwners(id string) []*entry.ClassEntry {
	var owners []*entry.ClassEntry
	for _, wildcard := range []bool{false, true} {
		for _, imp := range r.unit.Imports {
			if !imp.Static || imp.Wildcard != wildcard || (!wildcard && imp.SimpleName() != id) {
				continue
			}
			ownerName := entry.InternalPackage(imp.Name)
			if !wildcard {
				i := strings.LastIndexByte(ownerName, '/')
				if i < 0 {
					continue
				}
				ownerName = ownerName[:i]
			}
			if owner := r.classByName(ownerName); owner != nil {
				owners = append(owners, owner)
			}
		}
	}
	return owners
}

func (r *Resolver) staticField(id string) (Resolution, bool) {
	for _, owner := range r.staticOwners(id) {
		if fs := filter(owner.FieldsNamed(id), isStatic); len(fs) > 0 {
			return FieldResolution{Owner: fs[0].Owner(), Field: fs[0]}, true
		}
	}
	return nil, false
}

func (r *Resolver) staticMethods(id string) (*entry.ClassEntry, []*entry.MethodEntry) {
	for _, owner := range r.staticOwners(id) {
		if ms := filter(owner.MethodsNamed(id), isStatic); len(ms) > 0 {
			return owner, ms
		}
	}
	return nil, nil
}

func resolveFieldAccess(r *Resolver, n tree.Node) Resolution {
	fa := n.(*tree.FieldAccess)
	q := r.dispatch(fa.X)
	if pkg, ok := q.(PackageResolution); ok {
		qualified := fa.Name
		if pkg.Name != "" {
			qualified = pkg.Name + "/" + fa.Name
		}
		if c := r.pool.Class(qualified); c != nil {
			return ClassResolution{Class: c}
		}
		if r.pool.HasPackage(qualified) {
			return PackageResolution{Name: qualified}
		}
		return Unknown{}
	}
	switch t := r.valueType(q).(type) {
	case *entry.ArrayEntry:
		if fa.Name == "length" {
			return PrimitiveResolution{Primitive: entry.Int}
		}
	case *entry.ClassEntry:
		if t == nil {
			break
		}
		if f := t.Field(fa.Name, "", nil); f != nil {
			return FieldResolution{Owner: f.Owner(), Field: f}
		}
		if _, isClass := q.(ClassResolution); isClass {
			if c := r.memberType(t, fa.Name); c != nil {
				return ClassResolution{Class: c}
			}
		}
	}
	return Unknown{}
}

func resolveMethodCall(r *Resolver, n tree.Node) Resolution {
	call := n.(*tree.MethodCall)
	args := r.argTypes(call.Args)
	if call.IsConstructorCall() {
		cls := r.enclosingClass(call)
		if cls != nil && call.Name == "super" {
			cls = cls.Super()
		}
		if cls == nil {
			return Unknown{}
		}
		return r.pick(cls, cls.DeclaredMethodsNamed("<init>"), args)
	}
	if call.X == nil {
		for p := call.Parent(); p != nil; p = p.Parent() {
			cd, ok := p.(*tree.ClassDecl)
			if !ok {
				continue
			}
			if cls := r.classOf(cd); cls != nil {
				if ms := cls.MethodsNamed(call.Name); len(ms) > 0 {
					return r.pick(cls, ms, args)
				}
			}
		}
		if owner, ms := r.staticMethods(call.Name); owner != nil {
			return r.pick(owner, ms, args)
		}
		return Unknown{}
	}
	recv := r.classType(call.X)
	if recv == nil {
		return Unknown{}
	}
	return r.pick(recv, recv.MethodsNamed(call.Name), args)
}

func (r *Resolver) argTypes(args []tree.Expr) []entry.Describable {
	types := make([]entry.Describable, len(args))
	for i, a := range args {
		types[i] = r.typeOf(a)
	}
	return types
}

// pick narrows overload candidates by arity and then by argument types.
// Unknown argument types match anything, and a filter that would reject
// every candidate is skipped.
func (r *Resolver) pick(owner *entry.ClassEntry, candidates []*entry.MethodEntry, args []entry.Describable) Resolution {
	if len(candidates) == 0 {
		return Unknown{}
	}
	narrowed := candidates
	for _, keep := range []func(*entry.MethodEntry) bool{
		func(m *entry.MethodEntry) bool { return arityMatches(m, len(args)) },
		func(m *entry.MethodEntry) bool { return r.applicable(m, args, false) },
		func(m *entry.MethodEntry) bool { return r.applicable(m, args, true) },
	} {
		if next := filter(narrowed, keep); len(next) > 0 {
			narrowed = next
		}
		if len(narrowed) == 1 {
			return MethodResolution{Owner: narrowed[0].Owner(), Method: narrowed[0]}
		}
	}
	return MultiMemberResolution{Owner: owner, Members: members(narrowed)}
}

func arityMatches(m *entry.MethodEntry, n int) bool {
	params := len(m.Parameters())
	return params == n || (m.Access().IsVarargs() && n >= params-1)
}

// applicable checks each known argument against its parameter. In exact
// mode the descriptors must be equal.
func (r *Resolver) applicable(m *entry.MethodEntry, args []entry.Describable, exact bool) bool {
	params := m.Parameters()
	for i, a := range args {
		if a == nil {
			continue
		}
		desc, ok := paramAt(m, params, i, len(args))
		if !ok {
			return false
		}
		if exact {
			if desc != a.Descriptor() {
				return false
			}
			continue
		}
		if p := r.pool.Describable(desc); p != nil && !p.IsAssignableFrom(a) {
			return false
		}
	}
	return true
}

// paramAt is the descriptor argument i of n is matched against, spreading
// a trailing varargs array over the remaining arguments.
func paramAt(m *entry.MethodEntry, params []string, i, n int) (string, bool) {
	last := len(params) - 1
	if m.Access().IsVarargs() && i >= last && n != len(params) {
		return params[last][1:], true
	}
	if i > last {
		return "", false
	}
	return params[i], true
}

// resolveNew answers the constructor being invoked, or the class when it
// declares no constructor the pool knows about.
func resolveNew(r *Resolver, n tree.Node) Resolution {
	nw := n.(*tree.New)
	var cls *entry.ClassEntry
	switch {
	case nw.Type == nil:
	case nw.Outer != nil:
		if outer := r.classType(nw.Outer); outer != nil {
			cls = r.memberType(outer, nw.Type.Name)
		}
	default:
		cls, _ = r.TypeOf(nw.Type, 0).(*entry.ClassEntry)
	}
	if cls == nil {
		return Unknown{}
	}
	ctors := cls.DeclaredMethodsNamed("<init>")
	if len(ctors) == 0 {
		return ClassResolution{Class: cls}
	}
	return r.pick(cls, ctors, r.argTypes(nw.Args))
}

func resolveNewArray(r *Resolver, n tree.Node) Resolution {
	na := n.(*tree.NewArray)
	if na.Type == nil || na.Dims == 0 {
		return Unknown{}
	}
	return r.typeResolution(na.Type, na.Dims)
}

func resolveLiteral(r *Resolver, n tree.Node) Resolution {
	switch n.(*tree.Literal).LitKind {
	case tree.LiteralInt:
		return PrimitiveResolution{Primitive: entry.Int}
	case tree.LiteralLong:
		return PrimitiveResolution{Primitive: entry.Long}
	case tree.LiteralFloat:
		return PrimitiveResolution{Primitive: entry.Float}
	case tree.LiteralDouble:
		return PrimitiveResolution{Primitive: entry.Double}
	case tree.LiteralChar:
		return PrimitiveResolution{Primitive: entry.Char}
	case tree.LiteralBoolean:
		return PrimitiveResolution{Primitive: entry.Boolean}
	case tree.LiteralString:
		return r.named(javaLang + "String")
	case tree.LiteralNull:
		return NullResolution{}
	}
	return Unknown{}
}

func resolveThis(r *Resolver, n tree.Node) Resolution {
	this := n.(*tree.This)
	if this.Qualifier != nil {
		return r.typeResolution(this.Qualifier, 0)
	}
	if cls := r.enclosingClass(this); cls != nil {
		return ClassResolution{Class: cls}
	}
	return Unknown{}
}

// resolveSuper answers the superclass, except for Iface.super where the
// named interface is meant.
func resolveSuper(r *Resolver, n tree.Node) Resolution {
	super := n.(*tree.Super)
	var cls *entry.ClassEntry
	if super.Qualifier != nil {
		cls, _ = r.TypeOf(super.Qualifier, 0).(*entry.ClassEntry)
		if cls != nil && cls.IsInterface() {
			return ClassResolution{Class: cls}
		}
	} else {
		cls = r.enclosingClass(super)
	}
	if cls == nil || cls.Super() == nil {
		return Unknown{}
	}
	return ClassResolution{Class: cls.Super()}
}

func resolveCast(r *Resolver, n tree.Node) Resolution {
	return r.typeResolution(n.(*tree.Cast).Type, 0)
}

func resolveInstanceOf(*Resolver, tree.Node) Resolution {
	return PrimitiveResolution{Primitive: entry.Boolean}
}

func resolveArrayAccess(r *Resolver, n tree.Node) Resolution {
	if arr, ok := r.typeOf(n.(*tree.ArrayAccess).X).(*entry.ArrayEntry); ok && arr != nil {
		return Of(arr.Component())
	}
	return Unknown{}
}

func resolveClassLiteral(r *Resolver, _ tree.Node) Resolution {
	return r.named(javaLang + "Class")
}

func resolveParen(r *Resolver, n tree.Node) Resolution {
	return r.dispatch(n.(*tree.Paren).X)
}

func resolveMethodRef(r *Resolver, n tree.Node) Resolution {
	ref := n.(*tree.MethodRef)
	var cls *entry.ClassEntry
	if t, ok := ref.X.(*tree.TypeRef); ok {
		cls, _ = r.TypeOf(t, 0).(*entry.ClassEntry)
	} else {
		cls = r.classType(ref.X)
	}
	if cls == nil {
		return Unknown{}
	}
	name := ref.Name
	if name == "new" {
		name = "<init>"
	}
	methods := cls.MethodsNamed(name)
	if name == "<init>" {
		methods = cls.DeclaredMethodsNamed(name)
	}
	switch len(methods) {
	case 0:
		return Unknown{}
	case 1:
		return MethodResolution{Owner: methods[0].Owner(), Method: methods[0]}
	}
	return MultiMemberResolution{Owner: cls, Members: members(methods)}
}

func resolveThrow(r *Resolver, n tree.Node) Resolution {
	if cls, ok := r.typeOf(n.(*tree.ThrowStmt).X).(*entry.ClassEntry); ok && cls != nil {
		return ThrowingResolution{Thrown: cls}
	}
	return Unknown{}
}
