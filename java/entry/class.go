package entry

import (
	"fmt"
	"strings"

	"github.com/dhamidi/whatis/classfile"
)

// ClassEntry is a class, interface, enum, record or annotation type. The
// linking methods (SetSuper, AddInterface, AddField, AddMethod) are meant
// for the loader that builds the entry; once an entry is shared through a
// Pool it is treated as read-only.
type ClassEntry struct {
	name       string
	access     classfile.AccessFlags
	super      *ClassEntry
	interfaces []*ClassEntry
	fields     []*FieldEntry
	methods    []*MethodEntry
}

func NewClass(name string, access classfile.AccessFlags) (*ClassEntry, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	return &ClassEntry{name: name, access: access}, nil
}

func (c *ClassEntry) Name() string                  { return c.name }
func (c *ClassEntry) Access() classfile.AccessFlags { return c.access }
func (c *ClassEntry) Super() *ClassEntry            { return c.super }
func (c *ClassEntry) Interfaces() []*ClassEntry     { return c.interfaces }
func (c *ClassEntry) Fields() []*FieldEntry         { return c.fields }
func (c *ClassEntry) Methods() []*MethodEntry       { return c.methods }
func (c *ClassEntry) Descriptor() string            { return ClassDescriptor(c.name) }
func (c *ClassEntry) String() string                { return c.SourceName() }
func (*ClassEntry) describable()                    {}

func (c *ClassEntry) IsInterface() bool { return c.access.IsInterface() }

// Package is the internal name of the package, empty for the default
// package.
func (c *ClassEntry) Package() string {
	if i := strings.LastIndexByte(c.name, '/'); i >= 0 {
		return c.name[:i]
	}
	return ""
}

// SimpleName is the name after the last package or nesting separator.
func (c *ClassEntry) SimpleName() string {
	return c.name[strings.LastIndexAny(c.name, "/$")+1:]
}

func (c *ClassEntry) SourceName() string { return SourceName(c.name) }

func (c *ClassEntry) SetSuper(super *ClassEntry) { c.super = super }

func (c *ClassEntry) AddInterface(iface *ClassEntry) {
	if iface != nil {
		c.interfaces = append(c.interfaces, iface)
	}
}

func (c *ClassEntry) AddField(f *FieldEntry) error {
	if f == nil {
		return fmt.Errorf("%s field: %w", c.name, ErrNilEntry)
	}
	f.owner = c
	c.fields = append(c.fields, f)
	return nil
}

func (c *ClassEntry) AddMethod(m *MethodEntry) error {
	if m == nil {
		return fmt.Errorf("%s method: %w", c.name, ErrNilEntry)
	}
	m.owner = c
	c.methods = append(c.methods, m)
	return nil
}

// IsSubclassOf reports whether other is reachable from c through
// superclass and interface links, c itself included.
func (c *ClassEntry) IsSubclassOf(other *ClassEntry) bool {
	for _, h := range c.Hierarchy() {
		if h == other {
			return true
		}
	}
	return false
}

func (c *ClassEntry) IsAssignableFrom(other Describable) bool {
	switch o := other.(type) {
	case *NullEntry:
		return true
	case *ClassEntry:
		return o.IsSubclassOf(c)
	case *ArrayEntry:
		switch c.name {
		case "java/lang/Object", "java/lang/Cloneable", "java/io/Serializable":
			return true
		}
	}
	return false
}

// Hierarchy lists c, its superclasses and all super-interfaces in
// depth-first order (self, then super recursively, then each interface
// recursively), each class once.
func (c *ClassEntry) Hierarchy() []*ClassEntry {
	var out []*ClassEntry
	seen := map[*ClassEntry]bool{}
	var walk func(*ClassEntry)
	walk = func(e *ClassEntry) {
		if e == nil || seen[e] {
			return
		}
		seen[e] = true
		out = append(out, e)
		walk(e.super)
		for _, i := range e.interfaces {
			walk(i)
		}
	}
	walk(c)
	return out
}

func matches[M Member](m M, name, descriptor string, inherited bool, pred func(M) bool) bool {
	return m.Name() == name &&
		(descriptor == "" || m.Descriptor() == descriptor) &&
		!(inherited && m.Access().IsPrivate()) &&
		(pred == nil || pred(m))
}

func lookup[M Member](c *ClassEntry, declared func(*ClassEntry) []M, name, descriptor string, inherited bool, pred func(M) bool) (M, bool) {
	for _, m := range declared(c) {
		if matches(m, name, descriptor, inherited, pred) {
			return m, true
		}
	}
	if c.super != nil {
		if m, ok := lookup(c.super, declared, name, descriptor, true, pred); ok {
			return m, true
		}
	}
	for _, i := range c.interfaces {
		if m, ok := lookup(i, declared, name, descriptor, true, pred); ok {
			return m, true
		}
	}
	var zero M
	return zero, false
}

func declaredFields(c *ClassEntry) []*FieldEntry   { return c.fields }
func declaredMethods(c *ClassEntry) []*MethodEntry { return c.methods }

// Field finds a field by name and, when descriptor is non-empty, by
// descriptor: declared fields first, then non-private fields of the
// superclass chain, then of each interface. pred may be nil.
func (c *ClassEntry) Field(name, descriptor string, pred func(*FieldEntry) bool) *FieldEntry {
	f, _ := lookup(c, declaredFields, name, descriptor, false, pred)
	return f
}

// Method is the method counterpart of Field.
func (c *ClassEntry) Method(name, descriptor string, pred func(*MethodEntry) bool) *MethodEntry {
	m, _ := lookup(c, declaredMethods, name, descriptor, false, pred)
	return m
}

// DeclaredFieldsNamed returns the fields c itself declares with that name.
func (c *ClassEntry) DeclaredFieldsNamed(name string) []*FieldEntry {
	return named(c.fields, name)
}

func (c *ClassEntry) DeclaredMethodsNamed(name string) []*MethodEntry {
	return named(c.methods, name)
}

func named[M Member](members []M, name string) []M {
	var out []M
	for _, m := range members {
		if m.Name() == name {
			out = append(out, m)
		}
	}
	return out
}

// MemberKey identifies a member by descriptor and name.
func MemberKey(m Member) string {
	return m.Descriptor() + " " + m.Name()
}

func distinct[M Member](c *ClassEntry, declared func(*ClassEntry) []M, name string) []M {
	var out []M
	seen := map[string]bool{}
	for _, h := range c.Hierarchy() {
		for _, m := range declared(h) {
			if m.Name() != name || seen[MemberKey(m)] {
				continue
			}
			seen[MemberKey(m)] = true
			out = append(out, m)
		}
	}
	return out
}

// FieldsNamed lists the distinct fields of that name across the whole
// hierarchy in Hierarchy order; a field hidden by a more derived one with
// the same descriptor is omitted.
func (c *ClassEntry) FieldsNamed(name string) []*FieldEntry {
	return distinct(c, declaredFields, name)
}

func (c *ClassEntry) MethodsNamed(name string) []*MethodEntry {
	return distinct(c, declaredMethods, name)
}

// DistinctFieldsByName keys FieldsNamed by MemberKey. A map of size one
// means the name is unambiguous in the hierarchy.
func (c *ClassEntry) DistinctFieldsByName(name string) map[string]*FieldEntry {
	out := map[string]*FieldEntry{}
	for _, f := range c.FieldsNamed(name) {
		out[MemberKey(f)] = f
	}
	return out
}

func (c *ClassEntry) DistinctMethodsByName(name string) map[string]*MethodEntry {
	out := map[string]*MethodEntry{}
	for _, m := range c.MethodsNamed(name) {
		out[MemberKey(m)] = m
	}
	return out
}

// StaticMembers lists every non-private static field and method visible
// through the hierarchy, excluding class initializers.
func (c *ClassEntry) StaticMembers() []Member {
	var out []Member
	seen := map[string]bool{}
	add := func(m Member) {
		if !m.Access().IsStatic() || m.Access().IsPrivate() || seen[MemberKey(m)] {
			return
		}
		seen[MemberKey(m)] = true
		out = append(out, m)
	}
	for _, h := range c.Hierarchy() {
		for _, f := range h.fields {
			add(f)
		}
		for _, m := range h.methods {
			if !m.IsStaticInitializer() {
				add(m)
			}
		}
	}
	return out
}
