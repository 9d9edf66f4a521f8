package resolve

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/whatis/classfile"
	"github.com/dhamidi/whatis/java/entry"
	"github.com/dhamidi/whatis/java/mapper"
	"github.com/dhamidi/whatis/java/tree"
)

const sampleSrc = `package sample;

import java.util.List;
import static sample.Util.max;

class C {
    static int FIELD = 1;
    String name;
    static { FIELD = 2; }
    C(int x) { this.name = "a"; }
    int get(int a) { return a; }
    int get(String s) { return 0; }
    void run(List<String> xs, Object o) {
        int n = get(3);
        int[] arr = new int[n];
        if (o instanceof String s && s.isEmpty()) {
            n = arr.length + arr[0] + max(1, 2);
        }
        throw new IllegalStateException();
    }
}
`

type poolBuilder struct {
	t    *testing.T
	pool *entry.Pool
}

func newPoolBuilder(t *testing.T) *poolBuilder {
	b := &poolBuilder{t: t, pool: entry.NewPool()}
	b.class("java/lang/Object", classfile.AccPublic, nil)
	return b
}

func (b *poolBuilder) class(name string, access classfile.AccessFlags, super *entry.ClassEntry) *entry.ClassEntry {
	b.t.Helper()
	c, err := entry.NewClass(name, access)
	require.NoError(b.t, err)
	if super == nil && name != "java/lang/Object" {
		super = b.pool.Class("java/lang/Object")
	}
	c.SetSuper(super)
	b.pool.Register(c)
	return c
}

func (b *poolBuilder) field(c *entry.ClassEntry, name, desc string, access classfile.AccessFlags) *entry.FieldEntry {
	b.t.Helper()
	f, err := entry.NewField(name, desc, access)
	require.NoError(b.t, err)
	require.NoError(b.t, c.AddField(f))
	return f
}

func (b *poolBuilder) method(c *entry.ClassEntry, name, desc string, access classfile.AccessFlags) *entry.MethodEntry {
	b.t.Helper()
	m, err := entry.NewMethod(name, desc, access)
	require.NoError(b.t, err)
	require.NoError(b.t, c.AddMethod(m))
	return m
}

func samplePool(t *testing.T) *entry.Pool {
	b := newPoolBuilder(t)
	str := b.class("java/lang/String", classfile.AccPublic|classfile.AccFinal, nil)
	b.method(str, "isEmpty", "()Z", classfile.AccPublic)
	b.class("java/lang/Class", classfile.AccPublic|classfile.AccFinal, nil)
	b.class("java/lang/IllegalStateException", classfile.AccPublic, nil)
	b.class("java/util/List", classfile.AccPublic|classfile.AccInterface|classfile.AccAbstract, nil)

	c := b.class("sample/C", 0, nil)
	b.field(c, "FIELD", "I", classfile.AccStatic)
	b.field(c, "name", "Ljava/lang/String;", 0)
	b.method(c, "<clinit>", "()V", classfile.AccStatic)
	b.method(c, "<init>", "(I)V", 0)
	b.method(c, "get", "(I)I", 0)
	b.method(c, "get", "(Ljava/lang/String;)I", 0)
	b.method(c, "run", "(Ljava/util/List;Ljava/lang/Object;)V", 0)

	util := b.class("sample/Util", classfile.AccPublic, nil)
	b.method(util, "max", "(II)I", classfile.AccPublic|classfile.AccStatic)
	b.method(util, "max", "(JJ)J", classfile.AccPublic|classfile.AccStatic)
	return b.pool
}

func newResolver(t *testing.T, src string, pool *entry.Pool, opts ...Option) *Resolver {
	t.Helper()
	unit, err := mapper.Parse([]byte(src))
	require.NoError(t, err)
	r, err := New(unit, pool, opts...)
	require.NoError(t, err)
	return r
}

// offset is the position of needle in src, moved by shift.
func offset(t *testing.T, src, needle string, shift int) int {
	t.Helper()
	i := strings.Index(src, needle)
	require.GreaterOrEqual(t, i, 0, "%q not in source", needle)
	return i + shift
}

func TestResolveAtDeclarations(t *testing.T) {
	r := newResolver(t, sampleSrc, samplePool(t))

	pkg := r.ResolveAt(0)
	assert.Equal(t, PackageResolution{Name: "sample"}, pkg)
	assert.Equal(t, "package sample", pkg.String())

	list := r.ResolveAt(offset(t, sampleSrc, "java.util.List", 0))
	require.IsType(t, ClassResolution{}, list)
	assert.Equal(t, "java/util/List", list.(ClassResolution).Class.Name())
	assert.Equal(t, "interface java.util.List", list.String())

	maxes := r.ResolveAt(offset(t, sampleSrc, "sample.Util.max", 0))
	require.IsType(t, MultiMemberResolution{}, maxes)
	assert.Len(t, maxes.(MultiMemberResolution).Members, 2)

	class := r.ResolveAt(offset(t, sampleSrc, "class C", 6))
	require.IsType(t, ClassResolution{}, class)
	assert.Equal(t, "sample/C", class.(ClassResolution).Class.Name())

	tests := []struct {
		name   string
		needle string
		shift  int
		member string
		desc   string
	}{
		{"static field", "FIELD = 1", 0, "FIELD", "I"},
		{"field modifiers", "static int FIELD", 0, "FIELD", "I"},
		{"field", "name;", 0, "name", "Ljava/lang/String;"},
		{"static initializer", "static {", 0, "<clinit>", "()V"},
		{"constructor", "C(int x)", 0, "<init>", "(I)V"},
		{"overload by int", "get(int a)", 0, "get", "(I)I"},
		{"overload by String", "get(String s)", 0, "get", "(Ljava/lang/String;)I"},
		{"method", "run(", 0, "run", "(Ljava/util/List;Ljava/lang/Object;)V"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := r.ResolveAt(offset(t, sampleSrc, tt.needle, tt.shift))
			e := EntryOf(res)
			require.NotNil(t, e, "got %s", res)
			member, ok := e.(entry.Member)
			require.True(t, ok, "got %s", res)
			assert.Equal(t, tt.member, member.Name())
			assert.Equal(t, tt.desc, member.Descriptor())
			assert.Equal(t, "sample/C", member.Owner().Name())
		})
	}
}

func TestResolveAtExpressions(t *testing.T) {
	r := newResolver(t, sampleSrc, samplePool(t))

	tests := []struct {
		name   string
		needle string
		shift  int
		want   string
	}{
		{"parameter type", "xs,", 0, "Ljava/util/List;"},
		{"object parameter", "o)", 0, "Ljava/lang/Object;"},
		{"overloaded call", "get(3)", 0, "(I)I"},
		{"int literal", "get(3)", 4, "I"},
		{"string literal", `"a"`, 0, "Ljava/lang/String;"},
		{"field through this", "name = ", 0, "Ljava/lang/String;"},
		{"this", "this.name", 0, "Lsample/C;"},
		{"new array", "new int[n]", 0, "[I"},
		{"local variable", "n = arr", 0, "I"},
		{"array length", "length", 0, "I"},
		{"array element", "[0]", 0, "I"},
		{"pattern binding", "s.isEmpty", 0, "Ljava/lang/String;"},
		{"method on binding", "isEmpty", 0, "()Z"},
		{"statically imported overload", "max(1, 2)", 0, "(II)I"},
		{"instanceof", "instanceof", 0, "Z"},
		{"created class", "new IllegalStateException", 0, "Ljava/lang/IllegalStateException;"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := r.ResolveAt(offset(t, sampleSrc, tt.needle, tt.shift))
			e := EntryOf(res)
			require.NotNil(t, e, "got %s", res)
			assert.Equal(t, tt.want, e.Descriptor())
		})
	}

	thrown := r.ResolveAt(offset(t, sampleSrc, "throw new", 0))
	require.IsType(t, ThrowingResolution{}, thrown)
	assert.Equal(t, "java/lang/IllegalStateException", thrown.(ThrowingResolution).Thrown.Name())
}

func TestResolveAtOutsideUnit(t *testing.T) {
	r := newResolver(t, sampleSrc, samplePool(t))
	for _, pos := range []int{-1, len(sampleSrc) + 10} {
		res := r.ResolveAt(pos)
		assert.True(t, IsUnknown(res), "offset %d: %s", pos, res)
	}
}

func TestResolveUnknownClass(t *testing.T) {
	r := newResolver(t, sampleSrc, newPoolBuilder(t).pool)
	assert.Equal(t, Unknown{}, r.ResolveAt(offset(t, sampleSrc, "class C", 6)))
	assert.Equal(t, Unknown{}, r.ResolveAt(offset(t, sampleSrc, "get(3)", 0)))
}

func TestResolveSyntheticPackage(t *testing.T) {
	src := "class C {}"
	r := newResolver(t, src, newPoolBuilder(t).pool)

	require.NotNil(t, r.Unit().Package)
	assert.Equal(t, tree.UnknownRange, r.Unit().Package.Range())

	res, err := r.Resolve(r.Unit().Package)
	require.NoError(t, err)
	assert.Equal(t, PackageResolution{Default: true}, res)
	assert.Equal(t, "package <default>", res.String())

	res, err = r.Resolve(r.Unit())
	require.NoError(t, err)
	assert.Equal(t, PackageResolution{Default: true}, res)
}

func TestResolveContract(t *testing.T) {
	pool := samplePool(t)
	r := newResolver(t, sampleSrc, pool)
	other := newResolver(t, sampleSrc, pool)

	_, err := r.Resolve(nil)
	assert.ErrorIs(t, err, ErrNilNode)

	var typedNil *tree.ClassDecl
	_, err = r.Resolve(typedNil)
	assert.ErrorIs(t, err, ErrNilNode)

	_, err = r.Resolve(other.Unit().Types[0])
	assert.ErrorIs(t, err, ErrNodeNotInTree)

	res, err := r.Resolve(r.Unit().Types[0])
	require.NoError(t, err)
	assert.Equal(t, "sample/C", res.(ClassResolution).Class.Name())

	_, err = New(nil, pool)
	assert.ErrorIs(t, err, ErrNilArgument)
	_, err = New(r.Unit(), nil)
	assert.ErrorIs(t, err, ErrNilArgument)
}

func TestWithHandlerIsPerResolver(t *testing.T) {
	pool := samplePool(t)
	pos := offset(t, sampleSrc, "get(3)", 4)

	custom := newResolver(t, sampleSrc, pool, WithHandler(tree.KindLiteral, func(*Resolver, tree.Node) Resolution {
		return NullResolution{}
	}))
	plain := newResolver(t, sampleSrc, pool)

	assert.Equal(t, NullResolution{}, custom.ResolveAt(pos))
	assert.Equal(t, PrimitiveResolution{Primitive: entry.Int}, plain.ResolveAt(pos))

	dropped := newResolver(t, sampleSrc, pool, WithHandler(tree.KindClassDecl, nil))
	assert.Equal(t, Unknown{}, dropped.ResolveAt(offset(t, sampleSrc, "class C", 6)))
}

func classDecls(unit *tree.CompilationUnit) []*tree.ClassDecl {
	var decls []*tree.ClassDecl
	tree.Walk(unit, func(n tree.Node) bool {
		if c, ok := n.(*tree.ClassDecl); ok {
			decls = append(decls, c)
		}
		return true
	})
	return decls
}

func TestBinaryName(t *testing.T) {
	src := `package p;
class O {
    class M {}
    void f() {
        Runnable r = new Runnable() { public void run() {} };
        class L {}
        Object o = new Object() {};
    }
    void g() { class L { Object x = new Object() {}; } }
}
`
	r := newResolver(t, src, newPoolBuilder(t).pool)
	var names []string
	for _, decl := range classDecls(r.Unit()) {
		name, ok := r.BinaryName(decl)
		require.True(t, ok)
		names = append(names, name)
	}
	assert.Equal(t, []string{"p/O", "p/O$M", "p/O$1", "p/O$1L", "p/O$2", "p/O$2L", "p/O$2L$1"}, names)
}

func TestNestedImports(t *testing.T) {
	src := `import a.b.Outer.Inner;
import static a.b.Outer.*;
import a.b.*;
class C { Inner i; Deep d; }
`
	b := newPoolBuilder(t)
	outer := b.class("a/b/Outer", classfile.AccPublic, nil)
	b.field(outer, "LIMIT", "I", classfile.AccPublic|classfile.AccStatic)
	b.method(outer, "reset", "()V", classfile.AccPublic|classfile.AccStatic)
	b.method(outer, "size", "()I", classfile.AccPublic)
	b.class("a/b/Outer$Inner", classfile.AccPublic|classfile.AccStatic, nil)
	b.class("a/b/Outer$Deep", classfile.AccPublic|classfile.AccStatic, nil)
	r := newResolver(t, src, b.pool)

	inner := r.ResolveAt(offset(t, src, "a.b.Outer.Inner", 0))
	require.IsType(t, ClassResolution{}, inner)
	assert.Equal(t, "a/b/Outer$Inner", inner.(ClassResolution).Class.Name())

	statics := r.ResolveAt(offset(t, src, "a.b.Outer.*", 0))
	require.IsType(t, MultiMemberResolution{}, statics)
	var names []string
	for _, m := range statics.(MultiMemberResolution).Members {
		names = append(names, m.Name())
	}
	assert.ElementsMatch(t, []string{"LIMIT", "reset"}, names)

	assert.Equal(t, PackageResolution{Name: "a/b"}, r.ResolveAt(offset(t, src, "a.b.*", 0)))

	field := r.ResolveAt(offset(t, src, "Inner i", 0))
	assert.Equal(t, "La/b/Outer$Inner;", EntryOf(field).Descriptor())
	deep := r.ResolveAt(offset(t, src, "Deep d", 0))
	assert.Equal(t, "La/b/Outer$Deep;", EntryOf(deep).Descriptor())
}

func TestAmbiguousOnDemandType(t *testing.T) {
	src := `import a.*;
import b.*;
class C { Thing t; }
`
	b := newPoolBuilder(t)
	b.class("a/Thing", classfile.AccPublic, nil)
	b.class("b/Thing", classfile.AccPublic, nil)
	r := newResolver(t, src, b.pool)

	res := r.ResolveAt(offset(t, src, "Thing t", 0))
	require.IsType(t, MultiClassResolution{}, res)
	assert.Len(t, res.(MultiClassResolution).Classes, 2)
}

func TestClassByNameRetriesNesting(t *testing.T) {
	b := newPoolBuilder(t)
	b.class("a/B$C$D", 0, nil)
	r := newResolver(t, "class X {}", b.pool)

	require.NotNil(t, r.classByName("a/B/C/D"))
	assert.Equal(t, "a/B$C$D", r.classByName("a/B/C/D").Name())
	assert.Nil(t, r.classByName("a/B/C/E"))
	assert.Nil(t, r.classByName("Missing"))
}

func TestGenericMethodDescriptor(t *testing.T) {
	src := `class G<T extends Number> {
    <U> U pick(U u, T t, String... rest) { return u; }
}
`
	b := newPoolBuilder(t)
	b.class("java/lang/Number", classfile.AccPublic|classfile.AccAbstract, nil)
	b.class("java/lang/String", classfile.AccPublic, nil)
	g := b.class("G", 0, nil)
	b.method(g, "pick", "(Ljava/lang/Object;Ljava/lang/Number;[Ljava/lang/String;)Ljava/lang/Object;", classfile.AccVarargs)
	b.method(g, "pick", "()V", 0)
	r := newResolver(t, src, b.pool)

	md := r.Unit().Types[0].Members[0].(*tree.MethodDecl)
	desc, ok := r.MethodDescriptor(md)
	require.True(t, ok)
	assert.Equal(t, "(Ljava/lang/Object;Ljava/lang/Number;[Ljava/lang/String;)Ljava/lang/Object;", desc)

	res := r.ResolveAt(offset(t, src, "pick", 0))
	require.IsType(t, MethodResolution{}, res)
	assert.Equal(t, desc, res.(MethodResolution).Method.Descriptor())
}

func TestResolveAtIsRepeatable(t *testing.T) {
	r := newResolver(t, sampleSrc, samplePool(t))

	var offsets []int
	for pos := 0; pos < len(sampleSrc); pos += 3 {
		offsets = append(offsets, pos)
	}
	first := make([]Resolution, len(offsets))
	for i, pos := range offsets {
		first[i] = r.ResolveAt(pos)
	}
	for i := len(offsets) - 1; i >= 0; i-- {
		again := r.ResolveAt(offsets[i])
		assert.Equal(t, first[i], again, "offset %d", offsets[i])
		assert.Equal(t, first[i].String(), again.String(), "offset %d", offsets[i])
	}
}

func TestResolveAtUnhandledNodes(t *testing.T) {
	const src = `class C {
    int f(int a) { return a + 1; }
    Runnable r = () -> {};
}
`
	b := newPoolBuilder(t)
	c := b.class("C", 0, nil)
	b.method(c, "f", "(I)I", 0)
	b.field(c, "r", "Ljava/lang/Runnable;", 0)
	r := newResolver(t, src, b.pool)

	tests := []struct {
		name   string
		needle string
	}{
		{"binary operator", "+ 1"},
		{"lambda arrow", "-> {}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var res Resolution
			require.NotPanics(t, func() { res = r.ResolveAt(offset(t, src, tt.needle, 0)) })
			assert.True(t, IsUnknown(res), "got %s", res)
		})
	}

	for pos := -1; pos <= len(src); pos++ {
		assert.NotPanics(t, func() { r.ResolveAt(pos) }, "offset %d", pos)
	}
}

func TestSingleSegmentStaticImport(t *testing.T) {
	const src = "import static X;\nclass C { int f() { return X; } int g() { return X(1); } }\n"
	b := newPoolBuilder(t)
	c := b.class("C", 0, nil)
	b.method(c, "f", "()I", 0)
	b.method(c, "g", "()I", 0)
	r := newResolver(t, src, b.pool)

	tests := []struct {
		name   string
		needle string
	}{
		{"name", "X; }"},
		{"call", "X(1)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var res Resolution
			require.NotPanics(t, func() { res = r.ResolveAt(offset(t, src, tt.needle, 0)) })
			assert.True(t, IsUnknown(res), "got %s", res)
		})
	}
}

func TestDefaultPackageClass(t *testing.T) {
	const src = "class Foo {}\n"
	b := newPoolBuilder(t)
	b.class("Foo", 0, nil)
	r := newResolver(t, src, b.pool)

	res := r.ResolveAt(offset(t, src, "Foo", 0))
	require.IsType(t, ClassResolution{}, res)
	assert.Equal(t, "Foo", res.(ClassResolution).Class.Name())
}

func TestFieldShadowingSuperclassField(t *testing.T) {
	const src = "class Base { int x; }\nclass Sub extends Base { String x; }\n"
	b := newPoolBuilder(t)
	b.class("java/lang/String", classfile.AccPublic|classfile.AccFinal, nil)
	base := b.class("Base", 0, nil)
	b.field(base, "x", "I", 0)
	sub := b.class("Sub", 0, base)
	b.field(sub, "x", "Ljava/lang/String;", 0)
	r := newResolver(t, src, b.pool)

	tests := []struct {
		name   string
		needle string
		shift  int
		owner  string
		desc   string
	}{
		{"superclass field", "int x", 4, "Base", "I"},
		{"shadowing field", "String x", 7, "Sub", "Ljava/lang/String;"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := r.ResolveAt(offset(t, src, tt.needle, tt.shift))
			require.IsType(t, FieldResolution{}, res)
			f := res.(FieldResolution)
			assert.Equal(t, tt.owner, f.Owner.Name())
			assert.Equal(t, tt.desc, f.Field.Descriptor())
		})
	}
}

func TestLocalInSameDeclaration(t *testing.T) {
	const src = `class C {
    String a;
    void f() { int a = 1, b = a; }
}
`
	b := newPoolBuilder(t)
	b.class("java/lang/String", classfile.AccPublic|classfile.AccFinal, nil)
	c := b.class("C", 0, nil)
	b.field(c, "a", "Ljava/lang/String;", 0)
	b.method(c, "f", "()V", 0)
	r := newResolver(t, src, b.pool)

	res := r.ResolveAt(offset(t, src, "= a;", 2))
	e := EntryOf(res)
	require.NotNil(t, e, "got %s", res)
	assert.Equal(t, "I", e.Descriptor())
	assert.IsType(t, PrimitiveResolution{}, res)
}

func TestValueType(t *testing.T) {
	r := newResolver(t, sampleSrc, samplePool(t))

	tests := []struct {
		name string
		res  Resolution
		want string
	}{
		{"field", r.ResolveAt(offset(t, sampleSrc, "name;", 0)), "Ljava/lang/String;"},
		{"method", r.ResolveAt(offset(t, sampleSrc, "get(3)", 0)), "I"},
		{"class", r.ResolveAt(offset(t, sampleSrc, "class C", 6)), "Lsample/C;"},
		{"package", r.ResolveAt(0), ""},
		{"unknown", Unknown{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.ValueType(tt.res)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Descriptor())
		})
	}
}
