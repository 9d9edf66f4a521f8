package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	toks := Tokenize([]byte("int x = 0x1F + 2L; // done\nString s = \"a\\\"b\";"))
	var got []string
	for _, tok := range toks {
		got = append(got, tok.String())
	}
	assert.Equal(t, []string{
		`Keyword "int"`, `Ident "x"`, `Operator "="`, `IntLiteral "0x1F"`, `Operator "+"`,
		`LongLiteral "2L"`, `Operator ";"`,
		`Ident "String"`, `Ident "s"`, `Operator "="`, `StringLiteral "\"a\\\"b\""`, `Operator ";"`,
		"EOF",
	}, got)
}

func TestTokenizePositions(t *testing.T) {
	toks := Tokenize([]byte("a\n  bc"))
	require.Len(t, toks, 3)
	assert.Equal(t, Position{Offset: 3, Line: 2, Column: 3}, toks[1].Span.Start)
	assert.Equal(t, 5, toks[1].Span.End.Offset)
}

func TestTokenizeSplitsClosingAngles(t *testing.T) {
	toks := Tokenize([]byte("a>>=b"))
	require.Len(t, toks, 6)
	assert.Equal(t, ">", toks[1].Literal)
	assert.Equal(t, ">", toks[2].Literal)
	assert.Equal(t, "=", toks[3].Literal)
	assert.True(t, toks[1].Adjacent(toks[2]))
}

func TestParseCompilationUnit(t *testing.T) {
	src := `package p.q;
import java.util.List;
import static java.lang.Math.*;
public class C<T> extends B implements I, J {
  private int f = 1, g[];
  static { f = 2; }
  C(int x) { super(x); }
  public <U> List<U> m(final String s, int... rest) throws E { return null; }
}`
	root := Parse([]byte(src))
	require.Equal(t, KindCompilationUnit, root.Kind)

	pkg := root.FirstChildOfKind(KindPackageDecl)
	require.NotNil(t, pkg)
	assert.Equal(t, "p.q", pkg.FirstChildOfKind(KindQualifiedName).Text())

	imports := root.ChildrenOfKind(KindImportDecl)
	require.Len(t, imports, 2)
	assert.False(t, imports[0].HasKeyword("static"))
	assert.True(t, imports[1].HasKeyword("static"))
	assert.True(t, imports[1].HasKeyword("*"))
	assert.Equal(t, "java.lang.Math", imports[1].FirstChildOfKind(KindQualifiedName).Text())

	class := root.FirstChildOfKind(KindClassDecl)
	require.NotNil(t, class)
	assert.Equal(t, "class", class.TokenLiteral())
	assert.Equal(t, "C", class.FirstChildOfKind(KindIdentifier).TokenLiteral())
	assert.NotNil(t, class.FirstChildOfKind(KindTypeParameters))
	assert.Len(t, class.FirstChildOfKind(KindImplements).Children, 2)

	body := class.FirstChildOfKind(KindClassBody)
	require.NotNil(t, body)
	fields := body.ChildrenOfKind(KindFieldDecl)
	require.Len(t, fields, 1)
	assert.Len(t, fields[0].ChildrenOfKind(KindVarDeclarator), 2)
	assert.Len(t, body.ChildrenOfKind(KindInitializer), 1)
	assert.Len(t, body.ChildrenOfKind(KindConstructorDecl), 1)

	method := body.FirstChildOfKind(KindMethodDecl)
	require.NotNil(t, method)
	assert.Equal(t, "m", method.FirstChildOfKind(KindIdentifier).TokenLiteral())
	params := method.FirstChildOfKind(KindParameters).ChildrenOfKind(KindParameter)
	require.Len(t, params, 2)
	assert.True(t, params[1].HasKeyword("..."))
	assert.NotNil(t, method.FirstChildOfKind(KindThrows))

	assert.Equal(t, len(src), root.Span.End.Offset)
}

func TestParseClassVariants(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"interface", "interface I { void m(); default int n() { return 1; } }", "interface"},
		{"enum", "enum E { A, B(1) { }, C; int x; }", "enum"},
		{"record", "record R(int a, String b) { R { } }", "record"},
		{"annotation", "@interface A { int value() default 1; }", "@interface"},
		{"sealed", "sealed interface S permits X, Y { }", "interface"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New([]byte(tt.src))
			root := p.CompilationUnit()
			assert.Empty(t, p.Errors())
			class := root.FirstChildOfKind(KindClassDecl)
			require.NotNil(t, class)
			assert.Equal(t, tt.want, class.TokenLiteral())
		})
	}
}

func TestParseEnumConstants(t *testing.T) {
	root := Parse([]byte("enum E { A, B(1) { void m() {} }; int x; }"))
	body := root.FirstChildOfKind(KindClassDecl).FirstChildOfKind(KindClassBody)
	constants := body.ChildrenOfKind(KindEnumConstant)
	require.Len(t, constants, 2)
	assert.NotNil(t, constants[1].FirstChildOfKind(KindArguments))
	assert.NotNil(t, constants[1].FirstChildOfKind(KindClassBody))
	assert.Len(t, body.ChildrenOfKind(KindFieldDecl), 1)
}

func TestParseExpression(t *testing.T) {
	tests := []struct {
		src  string
		kind NodeKind
		op   string
	}{
		{"a + b * c", KindBinary, "+"},
		{"a = b", KindAssign, "="},
		{"a >>>= 2", KindAssign, ">>>="},
		{"a >> 2", KindBinary, ">>"},
		{"a >= b", KindBinary, ">="},
		{"a > b", KindBinary, ">"},
		{"x ? y : z", KindConditional, ""},
		{"(String) o", KindCast, ""},
		{"(int) -1", KindCast, ""},
		{"(a) - 1", KindBinary, "-"},
		{"o instanceof String s", KindInstanceOf, ""},
		{"x -> x + 1", KindLambda, ""},
		{"(a, b) -> { return a; }", KindLambda, ""},
		{"String::valueOf", KindMethodRef, ""},
		{"int[]::new", KindMethodRef, ""},
		{"List<String>::size", KindMethodRef, ""},
		{"String.class", KindClassLiteral, ""},
		{"int.class", KindClassLiteral, ""},
		{"a.b.c", KindFieldAccess, ""},
		{"a.b(c)", KindCall, ""},
		{"a[0]", KindArrayAccess, ""},
		{"new int[3][]", KindNewArray, ""},
		{"new int[] {1, 2}", KindNewArray, ""},
		{"new Foo<>(1) { }", KindNew, ""},
		{"outer.new Inner()", KindNew, ""},
		{"Outer.this", KindThis, ""},
		{"i++", KindPostfix, "++"},
		{"!done", KindUnary, "!"},
		{"\"s\"", KindLiteral, ""},
		{"null", KindLiteral, ""},
		{"i < n", KindBinary, "<"},
		{"Collections.<String>emptyList()", KindCall, ""},
		{"switch (x) { case 1 -> 2; default -> 3; }", KindSwitchExpr, ""},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			p := New([]byte(tt.src))
			n := p.Expression()
			assert.Empty(t, p.Errors(), n.String())
			assert.Equal(t, tt.kind, n.Kind, n.String())
			if tt.op != "" {
				assert.Equal(t, tt.op, n.TokenLiteral())
			}
			assert.Equal(t, len(tt.src), n.Span.End.Offset)
		})
	}
}

func TestParsePrecedence(t *testing.T) {
	n := ParseExpression([]byte("a || b && c == d + e * f"))
	require.Equal(t, KindBinary, n.Kind)
	assert.Equal(t, "||", n.TokenLiteral())
	rhs := n.Children[1]
	assert.Equal(t, "&&", rhs.TokenLiteral())
	assert.Equal(t, "==", rhs.Children[1].TokenLiteral())
	assert.Equal(t, "+", rhs.Children[1].Children[1].TokenLiteral())
	assert.Equal(t, "*", rhs.Children[1].Children[1].Children[1].TokenLiteral())
}

func TestParseStatements(t *testing.T) {
	src := `class C { void m() {
  int x = 1;
  final List<String> xs = new ArrayList<>();
  for (String s : xs) { x++; }
  for (int i = 0; i < 3; i++) ;
  try (var r = open()) { throw new E(); } catch (A | B e) { } finally { }
  switch (x) { case 1: break; default: return; }
  label: while (true) { continue label; }
  if (o instanceof String s && !s.isEmpty()) x = 2; else x = 3;
  Runnable r = () -> {};
  assert x > 0 : "positive";
}}`
	p := New([]byte(src))
	root := p.CompilationUnit()
	assert.Empty(t, p.Errors(), root.String())

	block := root.FirstChildOfKind(KindClassDecl).
		FirstChildOfKind(KindClassBody).
		FirstChildOfKind(KindMethodDecl).
		FirstChildOfKind(KindBlock)
	require.NotNil(t, block)
	assert.Len(t, block.ChildrenOfKind(KindLocalVarDecl), 3)

	var catches, throws int
	walk(block, func(n *Node) {
		switch n.Kind {
		case KindCatchClause:
			catches++
		case KindThrowStmt:
			throws++
		}
	})
	assert.Equal(t, 1, catches)
	assert.Equal(t, 1, throws)
}

func TestParseRecoversFromErrors(t *testing.T) {
	src := `class C {
  int f = ;
  void m() { foo(; }
  int g;
}`
	p := New([]byte(src))
	root := p.CompilationUnit()
	assert.NotEmpty(t, p.Errors())

	body := root.FirstChildOfKind(KindClassDecl).FirstChildOfKind(KindClassBody)
	require.NotNil(t, body)
	var names []string
	for _, f := range body.ChildrenOfKind(KindFieldDecl) {
		for _, d := range f.ChildrenOfKind(KindVarDeclarator) {
			names = append(names, d.FirstChildOfKind(KindIdentifier).TokenLiteral())
		}
	}
	assert.Equal(t, []string{"f", "g"}, names)
	assert.NotNil(t, body.FirstChildOfKind(KindMethodDecl))
}

func TestParseTerminatesOnGarbage(t *testing.T) {
	for _, src := range []string{
		"}}}}", "class", "class C {", "class C { void m( }", "@", "import ;",
		"class C { int x = (((; }", "enum E { , }", "class C { <T> }",
	} {
		root := Parse([]byte(src))
		assert.NotNil(t, root, src)
	}
}

func TestParseReader(t *testing.T) {
	root, err := ParseReader(strings.NewReader("class C {}"))
	require.NoError(t, err)
	assert.NotNil(t, root.FirstChildOfKind(KindClassDecl))
}

func walk(n *Node, fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		walk(c, fn)
	}
}
