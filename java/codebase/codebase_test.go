package codebase

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/dhamidi/whatis/java/classpath"
	"github.com/dhamidi/whatis/java/resolve"
)

// workspace writes the fixture archive into a fresh directory and returns
// a scanned codebase over it.
func workspace(t *testing.T) (*Codebase, string) {
	t.Helper()
	archive, err := txtar.ParseFile("testdata/workspace.txtar")
	require.NoError(t, err)
	dir := t.TempDir()
	for _, f := range archive.Files {
		path := filepath.Join(dir, filepath.FromSlash(f.Name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, f.Data, 0o644))
	}
	base, err := classpath.Bootstrap()
	require.NoError(t, err)
	c := New(dir, base)
	require.NoError(t, c.ScanAll())
	return c, dir
}

func offsetOf(t *testing.T, c *Codebase, path, needle string) int {
	t.Helper()
	f := c.GetFile(path)
	require.NotNil(t, f, path)
	i := strings.Index(string(f.Content), needle)
	require.GreaterOrEqual(t, i, 0, "%q not in %s", needle, path)
	return i
}

func labels(items []CompletionItem) map[string]CompletionKind {
	out := make(map[string]CompletionKind)
	for _, it := range items {
		out[it.Label] = it.Kind
	}
	return out
}

func TestScanAll(t *testing.T) {
	c, dir := workspace(t)

	assert.Equal(t, []string{
		filepath.Join(dir, "app", "Main.java"),
		filepath.Join(dir, "util", "Strings.java"),
	}, c.Paths())
	assert.NotNil(t, c.Pool().Class("app/Main$Dependency"))
	assert.Nil(t, c.Pool().Class("hidden/Ignored"))
	assert.NotNil(t, c.Pool().Class("java/lang/String"), "bootstrap classes stay visible")
}

func TestResolveAtAcrossFiles(t *testing.T) {
	c, dir := workspace(t)
	mainPath := filepath.Join(dir, "app", "Main.java")
	stringsPath := filepath.Join(dir, "util", "Strings.java")

	res, err := c.ResolveAt(mainPath, offsetOf(t, c, mainPath, "upper("))
	require.NoError(t, err)
	m, ok := res.(resolve.MethodResolution)
	require.True(t, ok, "got %s", res)
	assert.Equal(t, "util/Strings", m.Owner.Name())
	assert.Equal(t, "(Ljava/lang/String;)Ljava/lang/String;", m.Method.Descriptor())

	loc, ok := c.Definition(res)
	require.True(t, ok)
	assert.Equal(t, stringsPath, loc.Path)
	assert.Equal(t, offsetOf(t, c, stringsPath, "upper("), loc.Range.Begin)

	res, err = c.ResolveAt(mainPath, offsetOf(t, c, mainPath, "name())"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.String(), "method app.Main.Dependency.name"), res.String())

	_, err = c.ResolveAt(filepath.Join(dir, "Nope.java"), 0)
	assert.ErrorIs(t, err, ErrUnknownFile)
}

func TestDefinitionOutsideSources(t *testing.T) {
	c, _ := workspace(t)
	_, ok := c.Definition(resolve.ClassResolution{Class: c.Pool().Class("java/lang/String")})
	assert.False(t, ok)
	_, ok = c.Definition(resolve.Unknown{})
	assert.False(t, ok)
}

func TestUpdateAndRemoveFile(t *testing.T) {
	c, dir := workspace(t)
	stringsPath := filepath.Join(dir, "util", "Strings.java")
	before := c.Pool()

	require.NoError(t, c.UpdateFile(stringsPath, []byte(`package util;

public final class Strings {
    public static String lower(String s) { return s.toLowerCase(); }
}
`)))
	after := c.Pool()
	assert.NotSame(t, before, after)
	assert.NotNil(t, before.Class("util/Strings").Method("upper", "", nil), "old pools are not mutated")
	assert.Nil(t, after.Class("util/Strings").Method("upper", "", nil))
	assert.NotNil(t, after.Class("util/Strings").Method("lower", "", nil))

	c.RemoveFile(stringsPath)
	assert.Nil(t, c.Pool().Class("util/Strings"))
	assert.Nil(t, c.GetFile(stringsPath))
}

func TestUpdateFileWithSyntaxErrors(t *testing.T) {
	c, dir := workspace(t)
	path := filepath.Join(dir, "util", "Broken.java")
	require.NoError(t, c.UpdateFile(path, []byte("package util;\npublic class Broken { int x = ; }\n")))

	f := c.GetFile(path)
	require.NotNil(t, f)
	assert.NotNil(t, f.Unit)
	assert.Positive(t, f.SyntaxErrors)
	assert.NotNil(t, c.Pool().Class("util/Broken"))
}

func TestCompletionsForRecordComponents(t *testing.T) {
	c, dir := workspace(t)
	mainPath := filepath.Join(dir, "app", "Main.java")

	items, err := c.CompletionsAt(mainPath, offsetOf(t, c, mainPath, "dep.name")+len("dep"))
	require.NoError(t, err)
	assert.Contains(t, items, CompletionItem{
		Label: "name", Kind: CompletionKindMethod, Detail: "java.lang.String name()", InsertText: "name()",
	})
	assert.Contains(t, items, CompletionItem{
		Label: "version", Kind: CompletionKindMethod, Detail: "java.lang.String version()", InsertText: "version()",
	})
	assert.Contains(t, items, CompletionItem{
		Label: "name", Kind: CompletionKindField, Detail: "java.lang.String", InsertText: "name",
	}, "private component fields are visible inside the record's file")
	got := labels(items)
	assert.Contains(t, got, "hashCode", "inherited from java.lang.Object")
	assert.NotContains(t, got, "<init>")
}

func TestCompletionsForStaticsPackagesAndArrays(t *testing.T) {
	c, dir := workspace(t)
	mainPath := filepath.Join(dir, "app", "Main.java")

	items, err := c.CompletionsAt(mainPath, offsetOf(t, c, mainPath, "Strings.upper")+len("Strings"))
	require.NoError(t, err)
	upper := labels(items)
	assert.Contains(t, upper, "upper")
	for _, it := range items {
		if it.Label == "upper" {
			assert.Equal(t, "upper(${1:java.lang.String})", it.InsertText)
		}
	}

	items, err = c.CompletionsAt(mainPath, offsetOf(t, c, mainPath, "java.util.Objects")+len("java.util"))
	require.NoError(t, err)
	pkg := labels(items)
	assert.Equal(t, CompletionKindClass, pkg["Objects"])
	assert.Equal(t, CompletionKindPackage, pkg["function"])
	assert.NotContains(t, pkg, "Map$Entry")

	items, err = c.CompletionsAt(mainPath, offsetOf(t, c, mainPath, "counts.length")+len("counts"))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "length", items[0].Label)
}

func TestDescribe(t *testing.T) {
	c, _ := workspace(t)
	pool := c.Pool()

	assert.Equal(t, "public final class java.lang.String\nextends java.lang.Object\n"+
		"implements java.io.Serializable, java.lang.Comparable, java.lang.CharSequence",
		Describe(resolve.ClassResolution{Class: pool.Class("java/lang/String")}))

	upper := pool.Class("util/Strings").Method("upper", "", nil)
	require.NotNil(t, upper)
	assert.Equal(t, "public static "+resolve.Of(upper).String(), Describe(resolve.Of(upper)))

	assert.Equal(t, "unknown", Describe(nil))
	assert.Equal(t, "unknown", Describe(resolve.Unknown{}))
}

func TestDoc(t *testing.T) {
	c, dir := workspace(t)
	mainPath := filepath.Join(dir, "app", "Main.java")

	res, err := c.ResolveAt(mainPath, offsetOf(t, c, mainPath, "upper("))
	require.NoError(t, err)
	assert.Equal(t, "Upper-cases `s`. @see String#toUpperCase()", c.Doc(res))

	res, err = c.ResolveAt(mainPath, offsetOf(t, c, mainPath, "name())"))
	require.NoError(t, err)
	assert.Empty(t, c.Doc(res))
	assert.Empty(t, c.Doc(resolve.ClassResolution{Class: c.Pool().Class("java/lang/String")}))
}

func TestFindAndDescribeClass(t *testing.T) {
	c, _ := workspace(t)
	pool := c.Pool()

	assert.Equal(t, pool.Class("app/Main$Dependency"), FindClass(pool, "app.Main.Dependency"))
	assert.Equal(t, pool.Class("app/Main$Dependency"), FindClass(pool, "app/Main$Dependency"))
	assert.Nil(t, FindClass(pool, "app.Missing"))

	text := DescribeClass(pool.Class("util/Strings"))
	lines := strings.Split(text, "\n")
	assert.Equal(t, "public final class util.Strings", lines[0])
	assert.Contains(t, text, "util.Strings.upper(java.lang.String) : java.lang.String [public static]")
}
