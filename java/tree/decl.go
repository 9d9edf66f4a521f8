package tree

import (
	"slices"
	"strings"
)

type CompilationUnit struct {
	Base
	// Package is synthetic, with an unknown range, when the source has no
	// package statement.
	Package *PackageDecl
	Imports []*ImportDecl
	Types   []*ClassDecl
}

func (*CompilationUnit) Kind() Kind { return KindCompilationUnit }
func (u *CompilationUnit) parts() []Node {
	return join(one(u.Package), many(u.Imports), many(u.Types))
}

type PackageDecl struct {
	Base
	Annotations []*Annotation
	// Name is dotted, empty for the default package.
	Name string
}

func (*PackageDecl) Kind() Kind             { return KindPackageDecl }
func (p *PackageDecl) parts() []Node        { return many(p.Annotations) }
func (p *PackageDecl) InternalName() string { return strings.ReplaceAll(p.Name, ".", "/") }

// IsDefault reports the unnamed package.
func (p *PackageDecl) IsDefault() bool {
	return p.Name == "" && len(p.Annotations) == 0
}

type ImportDecl struct {
	Base
	Static   bool
	Wildcard bool
	// Name is the dotted name without the trailing ".*".
	Name string
}

func (*ImportDecl) Kind() Kind    { return KindImportDecl }
func (*ImportDecl) parts() []Node { return nil }

// SimpleName is the last segment of a single-type import.
func (i *ImportDecl) SimpleName() string {
	return i.Name[strings.LastIndexByte(i.Name, '.')+1:]
}

type ClassVariant int

const (
	VariantClass ClassVariant = iota
	VariantInterface
	VariantEnum
	VariantRecord
	VariantAnnotation
)

func (v ClassVariant) String() string {
	return [...]string{"class", "interface", "enum", "record", "@interface"}[v]
}

type ClassDecl struct {
	Base
	Modifiers *Modifiers
	Variant   ClassVariant
	// Name is empty for anonymous class bodies.
	Name       string
	NameRng    Range
	TypeParams []*TypeParameter
	Extends    []*TypeRef
	Implements []*TypeRef
	// Components are the header parameters of a record.
	Components []*Parameter
	Constants  []*EnumConstant
	Members    []Node
}

func (*ClassDecl) Kind() Kind { return KindClassDecl }
func (c *ClassDecl) parts() []Node {
	return join(one(c.Modifiers), many(c.TypeParams), many(c.Extends), many(c.Implements),
		many(c.Components), many(c.Constants), c.Members)
}
func (c *ClassDecl) DeclaredName() string { return c.Name }
func (c *ClassDecl) NameRange() Range     { return c.NameRng }
func (*ClassDecl) stmtNode()              {}

func (c *ClassDecl) IsAnonymous() bool { return c.Name == "" }

// IsStatic reports an explicit static modifier; member types of
// interfaces, enums and records are implicitly static as well.
func (c *ClassDecl) IsStatic() bool {
	return c.Modifiers.Has("static") || c.Variant != VariantClass
}

// Core is the declaration's range without leading modifiers and
// annotations.
func (c *ClassDecl) Core() Range {
	return c.Range().Shrink(c.Modifiers)
}

type EnumConstant struct {
	Base
	Annotations []*Annotation
	Name        string
	NameRng     Range
	Args        []Expr
	Body        *ClassDecl
}

func (*EnumConstant) Kind() Kind { return KindEnumConstant }
func (e *EnumConstant) parts() []Node {
	return join(many(e.Annotations), many(e.Args), one(e.Body))
}
func (e *EnumConstant) DeclaredName() string { return e.Name }
func (e *EnumConstant) NameRange() Range     { return e.NameRng }

type FieldDecl struct {
	Base
	Modifiers *Modifiers
	Type      *TypeRef
	Variables []*Variable
}

func (*FieldDecl) Kind() Kind { return KindFieldDecl }
func (f *FieldDecl) parts() []Node {
	return join(one(f.Modifiers), one(f.Type), many(f.Variables))
}

// Variable is one declarator of a field or local variable declaration, or
// an instanceof pattern binding.
type Variable struct {
	Base
	Name    string
	NameRng Range
	// Dims counts brackets written after the name, as in "int xs[]".
	Dims int
	Init Expr
}

func (*Variable) Kind() Kind             { return KindVariable }
func (v *Variable) parts() []Node        { return one(v.Init) }
func (v *Variable) DeclaredName() string { return v.Name }
func (v *Variable) NameRange() Range     { return v.NameRng }

// DeclaredType returns the type written for the declaration v belongs to.
func (v *Variable) DeclaredType() (*TypeRef, int) {
	switch p := v.Parent().(type) {
	case *FieldDecl:
		return p.Type, v.Dims
	case *LocalVarDecl:
		return p.Type, v.Dims
	case *InstanceOf:
		return p.Type, v.Dims
	}
	return nil, v.Dims
}

type MethodDecl struct {
	Base
	Modifiers  *Modifiers
	TypeParams []*TypeParameter
	// Result is nil for constructors.
	Result      *TypeRef
	Name        string
	NameRng     Range
	Params      []*Parameter
	Throws      []*TypeRef
	Body        *Block
	Default     Expr
	Constructor bool
}

func (*MethodDecl) Kind() Kind { return KindMethodDecl }
func (m *MethodDecl) parts() []Node {
	return join(one(m.Modifiers), many(m.TypeParams), one(m.Result), many(m.Params),
		many(m.Throws), one(m.Body), one(m.Default))
}
func (m *MethodDecl) DeclaredName() string { return m.Name }
func (m *MethodDecl) NameRange() Range     { return m.NameRng }

// BinaryName is the name the method has in a class file.
func (m *MethodDecl) BinaryName() string {
	if m.Constructor {
		return "<init>"
	}
	return m.Name
}

type Parameter struct {
	Base
	Modifiers *Modifiers
	// Type is nil for implicitly typed lambda parameters.
	Type    *TypeRef
	Varargs bool
	Name    string
	NameRng Range
	Dims    int
	// Alternatives holds the remaining types of a multi-catch parameter.
	Alternatives []*TypeRef
}

func (*Parameter) Kind() Kind { return KindParameter }
func (p *Parameter) parts() []Node {
	return join(one(p.Modifiers), one(p.Type), many(p.Alternatives))
}
func (p *Parameter) DeclaredName() string { return p.Name }
func (p *Parameter) NameRange() Range     { return p.NameRng }

// Initializer is an instance or static initializer block.
type Initializer struct {
	Base
	// Modifiers spans the static keyword of a static initializer and carries
	// StaticInitializerMarker.
	Modifiers *Modifiers
	Body      *Block
}

func (*Initializer) Kind() Kind       { return KindInitializer }
func (i *Initializer) parts() []Node  { return join(one(i.Modifiers), one(i.Body)) }
func (i *Initializer) IsStatic() bool { return i.Modifiers.Has("static") }

// StaticInitializerMarker is the synthetic name a static initializer's
// modifiers carry; it matches the class-file name of the initializer.
const StaticInitializerMarker = "<clinit>"

type Modifiers struct {
	Base
	Keywords    []string
	Annotations []*Annotation
	Marker      string
}

func (*Modifiers) Kind() Kind      { return KindModifiers }
func (m *Modifiers) parts() []Node { return many(m.Annotations) }

// Has is safe on a nil receiver.
func (m *Modifiers) Has(keyword string) bool {
	return m != nil && slices.Contains(m.Keywords, keyword)
}

type Annotation struct {
	Base
	Type *TypeRef
	Args []Expr
}

func (*Annotation) Kind() Kind      { return KindAnnotation }
func (a *Annotation) parts() []Node { return join(one(a.Type), many(a.Args)) }

// TypeRef is a use of a type. Name is dotted as written ("Map.Entry",
// "int", "var", "?"); Args are type arguments of any segment.
type TypeRef struct {
	Base
	Name      string
	Primitive bool
	Args      []*TypeRef
	Dims      int
	// Bound is the bound of a wildcard; Lower marks "? super".
	Bound *TypeRef
	Lower bool
}

func (*TypeRef) Kind() Kind { return KindTypeRef }
func (t *TypeRef) parts() []Node {
	return join(many(t.Args), one(t.Bound))
}

func (t *TypeRef) IsWildcard() bool { return t.Name == "?" }

type TypeParameter struct {
	Base
	Name    string
	NameRng Range
	Bounds  []*TypeRef
}

func (*TypeParameter) Kind() Kind             { return KindTypeParameter }
func (t *TypeParameter) parts() []Node        { return many(t.Bounds) }
func (t *TypeParameter) DeclaredName() string { return t.Name }
func (t *TypeParameter) NameRange() Range     { return t.NameRng }
