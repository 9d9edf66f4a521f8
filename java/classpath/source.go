package classpath

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/dhamidi/whatis/classfile"
	"github.com/dhamidi/whatis/java/entry"
	"github.com/dhamidi/whatis/java/resolve"
	"github.com/dhamidi/whatis/java/tree"
)

// Location is where a class or member is declared.
type Location struct {
	Path  string
	Range tree.Range
}

// SourceSet turns parsed compilation units into class entries, the way
// javac would see them after compiling the units together.
type SourceSet struct {
	units     map[string]*tree.CompilationUnit
	locations map[string]Location
}

func NewSourceSet() *SourceSet {
	return &SourceSet{
		units:     map[string]*tree.CompilationUnit{},
		locations: map[string]Location{},
	}
}

// Add stores unit under path, replacing an earlier unit for the same path.
func (s *SourceSet) Add(path string, unit *tree.CompilationUnit) {
	if unit != nil {
		s.units[path] = unit
	}
}

func (s *SourceSet) Remove(path string) {
	delete(s.units, path)
}

func (s *SourceSet) Unit(path string) (*tree.CompilationUnit, bool) {
	unit, ok := s.units[path]
	return unit, ok
}

func (s *SourceSet) Paths() []string {
	return slices.Sorted(maps.Keys(s.units))
}

// Location reports where a class, field or method built by the last Build
// is declared.
func (s *SourceSet) Location(d entry.Describable) (Location, bool) {
	var key string
	switch e := d.(type) {
	case *entry.ClassEntry:
		if e == nil {
			return Location{}, false
		}
		key = e.Name()
	case entry.Member:
		if e.Owner() == nil {
			return Location{}, false
		}
		key = memberKey(e.Owner(), e)
	default:
		return Location{}, false
	}
	loc, ok := s.locations[key]
	return loc, ok
}

func memberKey(owner *entry.ClassEntry, m entry.Member) string {
	return owner.Name() + "." + entry.MemberKey(m)
}

type sourceClass struct {
	path  string
	r     *resolve.Resolver
	decl  *tree.ClassDecl
	class *entry.ClassEntry
}

// Build registers an entry for every class declared in the set, anonymous
// and local classes included, and links supertypes and members against
// pool. Entries that cannot be built are skipped and reported in the
// joined error; everything else is still registered.
func (s *SourceSet) Build(pool *entry.Pool) error {
	s.locations = map[string]Location{}
	var errs []error
	var classes []sourceClass
	for _, path := range s.Paths() {
		r, err := resolve.New(s.units[path], pool)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
			continue
		}
		tree.Walk(r.Unit(), func(n tree.Node) bool {
			decl, ok := n.(*tree.ClassDecl)
			if !ok {
				return true
			}
			name, ok := r.BinaryName(decl)
			if !ok {
				return false
			}
			c, err := entry.NewClass(name, classAccess(decl))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", path, err))
				return false
			}
			pool.Register(c)
			s.locations[name] = Location{Path: path, Range: declRange(decl)}
			classes = append(classes, sourceClass{path: path, r: r, decl: decl, class: c})
			return true
		})
	}
	for _, sc := range classes {
		link(pool, sc)
	}
	for _, sc := range classes {
		errs = append(errs, s.members(sc)...)
	}
	log.Debugf("built %d classes from %d source files", len(classes), len(s.units))
	return errors.Join(errs...)
}

func declRange(decl *tree.ClassDecl) tree.Range {
	if decl.IsAnonymous() {
		return decl.Range()
	}
	return decl.NameRange()
}

func isInterface(decl *tree.ClassDecl) bool {
	return decl.Variant == tree.VariantInterface || decl.Variant == tree.VariantAnnotation
}

var modifierFlags = map[string]classfile.AccessFlags{
	"public":       classfile.AccPublic,
	"private":      classfile.AccPrivate,
	"protected":    classfile.AccProtected,
	"static":       classfile.AccStatic,
	"final":        classfile.AccFinal,
	"abstract":     classfile.AccAbstract,
	"synchronized": classfile.AccSynchronized,
	"native":       classfile.AccNative,
	"strictfp":     classfile.AccStrict,
	"volatile":     classfile.AccVolatile,
	"transient":    classfile.AccTransient,
}

func modifierAccess(mods *tree.Modifiers) classfile.AccessFlags {
	var access classfile.AccessFlags
	if mods == nil {
		return access
	}
	for _, kw := range mods.Keywords {
		access |= modifierFlags[kw]
	}
	return access
}

func enclosingDecl(n tree.Node) *tree.ClassDecl {
	decl, _ := tree.Enclosing[*tree.ClassDecl](n)
	return decl
}

func classAccess(decl *tree.ClassDecl) classfile.AccessFlags {
	access := modifierAccess(decl.Modifiers)
	switch decl.Variant {
	case tree.VariantInterface:
		access |= classfile.AccInterface | classfile.AccAbstract
	case tree.VariantAnnotation:
		access |= classfile.AccInterface | classfile.AccAbstract | classfile.AccAnnotation
	case tree.VariantEnum:
		access |= classfile.AccEnum
		if !slices.ContainsFunc(decl.Constants, func(c *tree.EnumConstant) bool { return c.Body != nil }) {
			access |= classfile.AccFinal
		}
	case tree.VariantRecord:
		access |= classfile.AccFinal
	}
	if outer := enclosingDecl(decl); outer != nil && decl.Parent() == tree.Node(outer) {
		if decl.Variant != tree.VariantClass {
			access |= classfile.AccStatic
		}
		if isInterface(outer) {
			access |= classfile.AccPublic | classfile.AccStatic
		}
	}
	return access
}

func classOf(r *resolve.Resolver, decl *tree.ClassDecl) *entry.ClassEntry {
	res, err := r.Resolve(decl)
	if err != nil {
		return nil
	}
	if c, ok := res.(resolve.ClassResolution); ok {
		return c.Class
	}
	return nil
}

func typeClass(r *resolve.Resolver, t *tree.TypeRef) *entry.ClassEntry {
	c, _ := r.TypeOf(t, 0).(*entry.ClassEntry)
	return c
}

// acyclic reports whether super can become a direct supertype of c
// without c reaching itself through its hierarchy.
func acyclic(c, super *entry.ClassEntry) bool {
	return !slices.Contains(super.Hierarchy(), c)
}

// link sets the superclass and interfaces of sc's entry.
func link(pool *entry.Pool, sc sourceClass) {
	decl, c, r := sc.decl, sc.class, sc.r
	object := pool.Class("java/lang/Object")
	var super *entry.ClassEntry
	var interfaces []*tree.TypeRef
	switch {
	case decl.IsAnonymous():
		switch p := decl.Parent().(type) {
		case *tree.EnumConstant:
			super = classOf(r, enclosingDecl(p))
		case *tree.New:
			base := typeClass(r, p.Type)
			if base != nil && base.IsInterface() {
				c.AddInterface(base)
			} else {
				super = base
			}
		}
	case decl.Variant == tree.VariantEnum:
		super = pool.Class("java/lang/Enum")
	case decl.Variant == tree.VariantRecord:
		super = pool.Class("java/lang/Record")
	case isInterface(decl):
		interfaces = decl.Extends
		if decl.Variant == tree.VariantAnnotation {
			c.AddInterface(pool.Class("java/lang/annotation/Annotation"))
		}
	case len(decl.Extends) > 0:
		super = typeClass(r, decl.Extends[0])
	}
	if super != nil && !acyclic(c, super) {
		log.Debugf("%s: cyclic superclass %s, using %s", c.Name(), super.Name(), object.Name())
		super = nil
	}
	if super == nil && c != object {
		super = object
	}
	c.SetSuper(super)
	for _, t := range append(slices.Clone(interfaces), decl.Implements...) {
		if iface := typeClass(r, t); iface != nil && acyclic(c, iface) {
			c.AddInterface(iface)
		} else if iface != nil {
			log.Debugf("%s: dropping cyclic supertype %s", c.Name(), iface.Name())
		} else {
			log.Debugf("%s: unresolved supertype %s", c.Name(), t.Name)
		}
	}
}

// typeDescriptor resolves t, falling back to a class descriptor for the
// name as written so that the member stays reachable by name.
func typeDescriptor(r *resolve.Resolver, t *tree.TypeRef, dims int) string {
	if d := r.TypeOf(t, dims); d != nil {
		return d.Descriptor()
	}
	name := "java.lang.Object"
	if t != nil {
		dims += t.Dims
		if t.Name != "" && !t.Primitive && !t.IsWildcard() {
			name = t.Name
		}
	}
	return strings.Repeat("[", dims) + entry.ClassDescriptor(entry.InternalPackage(name))
}

func methodDescriptor(r *resolve.Resolver, md *tree.MethodDecl) string {
	if desc, ok := r.MethodDescriptor(md); ok {
		return desc
	}
	params := make([]string, len(md.Params))
	for i, p := range md.Params {
		params[i] = paramDescriptor(r, p)
	}
	ret := entry.Void.Descriptor()
	if !md.Constructor {
		ret = typeDescriptor(r, md.Result, 0)
	}
	return entry.MethodDescriptor(params, ret)
}

func paramDescriptor(r *resolve.Resolver, p *tree.Parameter) string {
	dims := p.Dims
	if p.Varargs {
		dims++
	}
	return typeDescriptor(r, p.Type, dims)
}

func methodAccess(md *tree.MethodDecl, owner *tree.ClassDecl) classfile.AccessFlags {
	access := modifierAccess(md.Modifiers)
	if n := len(md.Params); n > 0 && md.Params[n-1].Varargs {
		access |= classfile.AccVarargs
	}
	if isInterface(owner) {
		if !access.IsPrivate() {
			access |= classfile.AccPublic
		}
		if md.Body == nil && !access.IsStatic() && !md.Modifiers.Has("default") && !access.IsPrivate() {
			access |= classfile.AccAbstract
		}
	}
	return access
}

// members adds the declared and implicit members of sc's class.
func (s *SourceSet) members(sc sourceClass) []error {
	decl, c, r := sc.decl, sc.class, sc.r
	var errs []error
	at := func(m entry.Member, rng tree.Range) {
		s.locations[memberKey(c, m)] = Location{Path: sc.path, Range: rng}
	}
	addField := func(name, desc string, access classfile.AccessFlags, rng tree.Range) {
		f, err := entry.NewField(name, desc, access)
		if err == nil {
			err = c.AddField(f)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", sc.path, err))
			return
		}
		at(f, rng)
	}
	addMethod := func(name, desc string, access classfile.AccessFlags, rng tree.Range) {
		m, err := entry.NewMethod(name, desc, access)
		if err == nil {
			err = c.AddMethod(m)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", sc.path, err))
			return
		}
		at(m, rng)
	}
	hasMethod := func(name, desc string) bool {
		return slices.ContainsFunc(c.DeclaredMethodsNamed(name), func(m *entry.MethodEntry) bool {
			return m.Descriptor() == desc
		})
	}

	staticInit := decl.Variant == tree.VariantEnum
	for _, ec := range decl.Constants {
		addField(ec.Name, c.Descriptor(),
			classfile.AccPublic|classfile.AccStatic|classfile.AccFinal|classfile.AccEnum, ec.NameRange())
	}
	for _, comp := range decl.Components {
		addField(comp.Name, paramDescriptor(r, comp), classfile.AccPrivate|classfile.AccFinal, comp.NameRange())
	}
	for _, member := range decl.Members {
		switch m := member.(type) {
		case *tree.FieldDecl:
			access := modifierAccess(m.Modifiers)
			if isInterface(decl) {
				access |= classfile.AccPublic | classfile.AccStatic | classfile.AccFinal
			}
			for _, v := range m.Variables {
				addField(v.Name, typeDescriptor(r, m.Type, v.Dims), access, v.NameRange())
				if access.IsStatic() && v.Init != nil {
					staticInit = true
				}
			}
		case *tree.MethodDecl:
			addMethod(m.BinaryName(), methodDescriptor(r, m), methodAccess(m, decl), m.NameRange())
		case *tree.Initializer:
			if m.IsStatic() {
				staticInit = true
			}
		}
	}

	self := c.Descriptor()
	switch decl.Variant {
	case tree.VariantEnum:
		addMethod("values", "()["+self, classfile.AccPublic|classfile.AccStatic, decl.NameRange())
		addMethod("valueOf", "(Ljava/lang/String;)"+self, classfile.AccPublic|classfile.AccStatic, decl.NameRange())
	case tree.VariantRecord:
		params := make([]string, len(decl.Components))
		for i, comp := range decl.Components {
			params[i] = paramDescriptor(r, comp)
			if !hasMethod(comp.Name, "()"+params[i]) {
				addMethod(comp.Name, "()"+params[i], classfile.AccPublic, comp.NameRange())
			}
		}
		if canonical := entry.MethodDescriptor(params, "V"); !hasMethod("<init>", canonical) {
			addMethod("<init>", canonical, classfile.AccPublic, decl.NameRange())
		}
	}
	if !isInterface(decl) && !decl.IsAnonymous() && len(c.DeclaredMethodsNamed("<init>")) == 0 {
		access := classfile.AccPublic
		if decl.Variant == tree.VariantEnum {
			access = classfile.AccPrivate
		}
		addMethod("<init>", "()V", access, decl.NameRange())
	}
	if staticInit && !hasMethod(tree.StaticInitializerMarker, "()V") {
		addMethod(tree.StaticInitializerMarker, "()V", classfile.AccStatic, decl.NameRange())
	}
	return errs
}
