package entry

import (
	"fmt"
	"strings"

	"github.com/dhamidi/whatis/classfile"
)

// Member is a field or method entry.
type Member interface {
	Describable
	Name() string
	Access() classfile.AccessFlags
	// Owner is the class that declares the member; nil until the member is
	// added to a class.
	Owner() *ClassEntry
}

type FieldEntry struct {
	name       string
	descriptor string
	access     classfile.AccessFlags
	owner      *ClassEntry
}

func NewField(name, descriptor string, access classfile.AccessFlags) (*FieldEntry, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty field name", ErrInvalidName)
	}
	if err := ValidateFieldDescriptor(descriptor); err != nil {
		return nil, fmt.Errorf("field %s: %w", name, err)
	}
	return &FieldEntry{name: name, descriptor: descriptor, access: access}, nil
}

func (f *FieldEntry) Name() string                  { return f.name }
func (f *FieldEntry) Descriptor() string            { return f.descriptor }
func (f *FieldEntry) Access() classfile.AccessFlags { return f.access }
func (f *FieldEntry) Owner() *ClassEntry            { return f.owner }

func (f *FieldEntry) String() string {
	return qualified(f.owner, f.name) + " : " + TypeName(f.descriptor)
}

// IsAssignableFrom treats members as override-compatible when they share
// kind, name and descriptor.
func (f *FieldEntry) IsAssignableFrom(other Describable) bool {
	o, ok := other.(*FieldEntry)
	return ok && o.name == f.name && o.descriptor == f.descriptor
}

func (*FieldEntry) describable() {}

type MethodEntry struct {
	name       string
	descriptor string
	params     []string
	ret        string
	access     classfile.AccessFlags
	owner      *ClassEntry
}

func NewMethod(name, descriptor string, access classfile.AccessFlags) (*MethodEntry, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty method name", ErrInvalidName)
	}
	params, ret, err := ParseMethodDescriptor(descriptor)
	if err != nil {
		return nil, fmt.Errorf("method %s: %w", name, err)
	}
	return &MethodEntry{name: name, descriptor: descriptor, params: params, ret: ret, access: access}, nil
}

func (m *MethodEntry) Name() string                  { return m.name }
func (m *MethodEntry) Descriptor() string            { return m.descriptor }
func (m *MethodEntry) Access() classfile.AccessFlags { return m.access }
func (m *MethodEntry) Owner() *ClassEntry            { return m.owner }

// Parameters returns the parameter descriptors in declaration order.
func (m *MethodEntry) Parameters() []string { return m.params }
func (m *MethodEntry) ReturnType() string   { return m.ret }

func (m *MethodEntry) IsConstructor() bool       { return m.name == "<init>" }
func (m *MethodEntry) IsStaticInitializer() bool { return m.name == "<clinit>" }

func (m *MethodEntry) String() string {
	params := make([]string, len(m.params))
	for i, p := range m.params {
		params[i] = TypeName(p)
	}
	return qualified(m.owner, m.name) + "(" + strings.Join(params, ", ") + ") : " + TypeName(m.ret)
}

func (m *MethodEntry) IsAssignableFrom(other Describable) bool {
	o, ok := other.(*MethodEntry)
	return ok && o.name == m.name && o.descriptor == m.descriptor
}

func (*MethodEntry) describable() {}

func qualified(owner *ClassEntry, name string) string {
	if owner == nil {
		return name
	}
	return owner.SourceName() + "." + name
}
