package resolve

import (
	"strings"

	"github.com/dhamidi/whatis/java/entry"
)

// Resolution is the result of a symbol query. The set of implementations
// is closed; switch over them exhaustively.
type Resolution interface {
	String() string
	resolution()
}

// Unknown is the only failure value: a query that cannot be answered
// returns Unknown rather than an error.
type Unknown struct{}

type PackageResolution struct {
	// Name is the internal package name; empty for the default package.
	Name    string
	Default bool
}

type ClassResolution struct {
	Class *entry.ClassEntry
}

// FieldResolution names the field together with the class that declares
// it, which may be a supertype of the class the lookup started in.
type FieldResolution struct {
	Owner *entry.ClassEntry
	Field *entry.FieldEntry
}

type MethodResolution struct {
	Owner  *entry.ClassEntry
	Method *entry.MethodEntry
}

type ArrayResolution struct {
	Array *entry.ArrayEntry
}

type PrimitiveResolution struct {
	Primitive *entry.PrimitiveEntry
}

type NullResolution struct{}

// MultiClassResolution lists equally plausible classes, such as a simple
// name matched by two on-demand imports.
type MultiClassResolution struct {
	Classes []*entry.ClassEntry
}

// MultiMemberResolution lists members that could not be narrowed to one,
// for example overloads or the members of a static on-demand import.
type MultiMemberResolution struct {
	Owner   *entry.ClassEntry
	Members []entry.Member
}

// ThrowingResolution is the class of the value a throw statement throws.
type ThrowingResolution struct {
	Thrown *entry.ClassEntry
}

func (Unknown) resolution()               {}
func (PackageResolution) resolution()     {}
func (ClassResolution) resolution()       {}
func (FieldResolution) resolution()       {}
func (MethodResolution) resolution()      {}
func (ArrayResolution) resolution()       {}
func (PrimitiveResolution) resolution()   {}
func (NullResolution) resolution()        {}
func (MultiClassResolution) resolution()  {}
func (MultiMemberResolution) resolution() {}
func (ThrowingResolution) resolution()    {}

func (Unknown) String() string { return "unknown" }

func (p PackageResolution) String() string {
	if p.Default {
		return "package <default>"
	}
	return "package " + entry.SourceName(p.Name)
}

func (c ClassResolution) String() string {
	kind := "class"
	switch {
	case c.Class.Access().IsAnnotation():
		kind = "@interface"
	case c.Class.IsInterface():
		kind = "interface"
	case c.Class.Access().IsEnum():
		kind = "enum"
	}
	return kind + " " + c.Class.String()
}

func (f FieldResolution) String() string { return "field " + f.Field.String() }

func (m MethodResolution) String() string {
	if m.Method.IsConstructor() {
		return "constructor " + m.Method.String()
	}
	return "method " + m.Method.String()
}

func (a ArrayResolution) String() string     { return "array " + a.Array.String() }
func (p PrimitiveResolution) String() string { return "primitive " + p.Primitive.String() }
func (NullResolution) String() string        { return "null" }

func (m MultiClassResolution) String() string {
	names := make([]string, len(m.Classes))
	for i, c := range m.Classes {
		names[i] = c.String()
	}
	return "one of classes " + strings.Join(names, ", ")
}

func (m MultiMemberResolution) String() string {
	names := make([]string, len(m.Members))
	for i, mem := range m.Members {
		names[i] = mem.String()
	}
	return "one of members " + strings.Join(names, ", ")
}

func (t ThrowingResolution) String() string { return "throws " + t.Thrown.String() }

// IsUnknown reports whether res is nil or Unknown.
func IsUnknown(res Resolution) bool {
	if res == nil {
		return true
	}
	_, ok := res.(Unknown)
	return ok
}

// EntryOf returns the entry a resolution denotes. Packages, multi-valued
// resolutions and Unknown denote no single entry and yield nil.
func EntryOf(res Resolution) entry.Describable {
	switch r := res.(type) {
	case ClassResolution:
		return r.Class
	case FieldResolution:
		return r.Field
	case MethodResolution:
		return r.Method
	case ArrayResolution:
		return r.Array
	case PrimitiveResolution:
		return r.Primitive
	case NullResolution:
		return entry.Null
	case ThrowingResolution:
		return r.Thrown
	}
	return nil
}

// Of wraps a describable in the matching resolution.
func Of(d entry.Describable) Resolution {
	switch e := d.(type) {
	case *entry.ClassEntry:
		if e != nil {
			return ClassResolution{Class: e}
		}
	case *entry.ArrayEntry:
		if e != nil {
			return ArrayResolution{Array: e}
		}
	case *entry.PrimitiveEntry:
		if e != nil {
			return PrimitiveResolution{Primitive: e}
		}
	case *entry.NullEntry:
		return NullResolution{}
	case *entry.FieldEntry:
		if e != nil {
			return FieldResolution{Owner: e.Owner(), Field: e}
		}
	case *entry.MethodEntry:
		if e != nil {
			return MethodResolution{Owner: e.Owner(), Method: e}
		}
	}
	return Unknown{}
}
