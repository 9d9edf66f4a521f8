package tree

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleUnit builds the model of
//
//	0         1         2         3
//	0123456789012345678901234567890123456
//	package p; class C { int f = 1; }
func sampleUnit() (*CompilationUnit, *ClassDecl, *FieldDecl, *Variable) {
	pkg := Build(&PackageDecl{Name: "p"}, Range{0, 9})
	typ := Build(&TypeRef{Name: "int", Primitive: true}, Range{21, 23})
	lit := Build(&Literal{LitKind: LiteralInt, Value: "1"}, Range{29, 29})
	v := Build(&Variable{Name: "f", NameRng: Range{25, 25}, Init: lit}, Range{25, 29})
	field := Build(&FieldDecl{Type: typ, Variables: []*Variable{v}}, Range{21, 30})
	class := Build(&ClassDecl{Name: "C", NameRng: Range{17, 17}, Members: []Node{field}}, Range{11, 32})
	unit := Build(&CompilationUnit{Package: pkg, Types: []*ClassDecl{class}}, Range{0, 32})
	return unit, class, field, v
}

func TestBuildDerivesChildren(t *testing.T) {
	unit, class, field, v := sampleUnit()

	assert.Equal(t, []Node{unit.Package, class}, unit.Children())
	assert.Equal(t, []Node{field.Type, v}, field.Children())
	assert.Same(t, field, v.Parent())
	assert.Same(t, unit, class.Parent())
	assert.Nil(t, unit.Parent())
}

func TestBuildSortsAndFilters(t *testing.T) {
	late := Build(&Name{Identifier: "b"}, Range{8, 8})
	early := Build(&Name{Identifier: "a"}, Range{2, 2})
	synthetic := Build(&Name{Identifier: "s"}, UnknownRange)
	block := Build(&Compound{Keyword: "if", Parts: []Node{late, nil, synthetic, early}}, Range{0, 10})

	assert.Equal(t, []Node{early, late}, block.Children())
	assert.Same(t, block, synthetic.Parent(), "synthetic children still get a parent")
}

func TestBuildSyntheticPackage(t *testing.T) {
	pkg := Build(&PackageDecl{}, UnknownRange)
	unit := Build(&CompilationUnit{Package: pkg}, Range{0, 5})
	assert.Empty(t, unit.Children())
	assert.Same(t, unit, pkg.Parent())
	assert.True(t, pkg.IsDefault())
	assert.Equal(t, 0, QueryOffset(pkg))
}

func TestBuildRejectsSecondParent(t *testing.T) {
	n := Build(&Name{Identifier: "x"}, Range{0, 0})
	Build(&ExprStmt{X: n}, Range{0, 1})
	assert.Panics(t, func() { Build(&ReturnStmt{X: n}, Range{0, 1}) })
}

func TestChildAt(t *testing.T) {
	unit, class, field, v := sampleUnit()
	assert.Same(t, class, unit.ChildAt(17))
	assert.Same(t, field, class.ChildAt(21))
	assert.Same(t, v, field.ChildAt(25))
	assert.Nil(t, class.ChildAt(12))
	assert.Nil(t, unit.ChildAt(40))

	// overlapping children: the earlier one in Range order wins
	outer := Build(&Name{Identifier: "outer"}, Range{0, 9})
	inner := Build(&Name{Identifier: "inner"}, Range{0, 3})
	parent := Build(&Compound{Parts: []Node{inner, outer}}, Range{0, 9})
	assert.Same(t, outer, parent.ChildAt(2))
}

func TestPathAt(t *testing.T) {
	unit, class, field, v := sampleUnit()
	path := PathAt(unit, 29)
	require.Len(t, path, 5)
	assert.Equal(t, Path{unit, class, field, v, v.Init}, path)
	assert.Same(t, v.Init, path.Tail())

	assert.Equal(t, Path{unit}, PathAt(unit, 100))
	assert.Nil(t, Path{}.Tail())
}

func TestAncestors(t *testing.T) {
	unit, class, field, v := sampleUnit()

	assert.Same(t, class, ParentOfKind(v, KindClassDecl))
	assert.Same(t, field, ParentOfKind(v, KindClassDecl, KindFieldDecl))
	assert.Nil(t, ParentOfKind(v, KindMethodDecl))
	assert.Nil(t, ParentOfKind(class, KindClassDecl), "the node itself is not its own ancestor")
	assert.Nil(t, ParentOfKind(nil, KindClassDecl))

	decl, ok := Enclosing[Declaration](v.Init)
	require.True(t, ok)
	assert.Same(t, v, decl)

	found, ok := Enclosing[*ClassDecl](v)
	require.True(t, ok)
	assert.Same(t, class, found)

	_, ok = Enclosing[*MethodDecl](v)
	assert.False(t, ok)

	assert.Same(t, unit, Root(v.Init))
}

func TestWalk(t *testing.T) {
	unit, _, _, _ := sampleUnit()
	var kinds []Kind
	Walk(unit, func(n Node) bool {
		kinds = append(kinds, n.Kind())
		return n.Kind() != KindFieldDecl
	})
	assert.Equal(t, []Kind{KindCompilationUnit, KindPackageDecl, KindClassDecl, KindFieldDecl}, kinds)
}

func TestEqualIgnoresPositions(t *testing.T) {
	a, _, _, _ := sampleUnit()
	b, _, _, _ := sampleUnit()
	assert.True(t, Equal(a, b))

	shifted := Build(&Literal{LitKind: LiteralInt, Value: "1"}, Range{100, 100})
	assert.True(t, Equal(a.Types[0].Members[0].(*FieldDecl).Variables[0].Init, shifted))

	other := Build(&Literal{LitKind: LiteralInt, Value: "2"}, Range{29, 29})
	assert.False(t, Equal(a.Types[0].Members[0].(*FieldDecl).Variables[0].Init, other))
	assert.NotEmpty(t, Diff(shifted, other))
	assert.True(t, Equal(nil, nil))
	assert.False(t, Equal(a, nil))
}

func TestFprint(t *testing.T) {
	unit, _, _, _ := sampleUnit()
	var buf bytes.Buffer
	require.NoError(t, Fprint(&buf, unit))
	assert.Equal(t, `CompilationUnit [0,32]
  PackageDecl [0,9] p
  ClassDecl [11,32] class C
    FieldDecl [21,30]
      TypeRef [21,23] int
      Variable [25,29] f
        Literal [29,29] 1
`, buf.String())
}
