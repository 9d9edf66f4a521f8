package javadoc

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const getDoc = `/**
     * Returns the element at {@code index}.
     *
     * @param index position of the element
     *        to return
     * @return the element
     * @throws IndexOutOfBoundsException if out of range
     */`

func TestParseBlockTags(t *testing.T) {
	c := Parse(getDoc)

	require.Len(t, c.Tags, 3)
	assert.Equal(t, Tag{Name: "param", Arg: "index", Body: []Node{Text{Content: "position of the element\n       to return\n"}}}, c.Tags[0])
	assert.Equal(t, "return", c.Tags[1].Name)
	assert.Equal(t, "IndexOutOfBoundsException", c.Tags[2].Arg)
	assert.Len(t, c.Tagged("throws"), 1)
}

func TestParseInlineCode(t *testing.T) {
	tests := []struct {
		comment string
		code    string
	}{
		{"/** Use {@code Map<String, List<Integer>>} for this. */", "Map<String, List<Integer>>"},
		{"/** Use {@code class Foo { int x; }} for this. */", "class Foo { int x; }"},
	}
	for _, tt := range tests {
		c := Parse(tt.comment)
		require.Len(t, c.Body, 3, tt.comment)
		assert.Equal(t, Code{Content: tt.code}, c.Body[1])
	}
}

func TestAtSignInsideInlineTag(t *testing.T) {
	c := Parse("/**\n * Annotate with {@code\n * @Override} when needed.\n */")
	assert.Empty(t, c.Tags)
}

func TestMarkdown(t *testing.T) {
	assert.Equal(t, "Returns the element at `index`.\n\n"+
		"**Parameters:**\n- `index` position of the element to return\n\n"+
		"**Returns:**\n- the element\n\n"+
		"**Throws:**\n- `IndexOutOfBoundsException` if out of range",
		Markdown(Parse(getDoc)))

	assert.Equal(t, "Uses `List.get(int)` or the map.\n\nA <b> c.",
		Markdown(Parse("/** Uses {@link java.util.List#get(int)} or {@linkplain Map the map}.<p>A &lt;b&gt; c. */")))

	assert.Equal(t, "Example:\n\n```\nList<String> xs = List.of();\n```",
		Markdown(Parse("/**\n * Example:\n * <pre>{@code\n * List<String> xs = List.of();\n * }</pre>\n */")))

	assert.Equal(t, "Old.\n\n**Deprecated.** use `other`",
		Markdown(Parse("/** Old.\n * @deprecated use {@link #other}\n */")))

	assert.Empty(t, Markdown(nil))
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "Returns the element at index.", Summary(Parse(getDoc)))
	assert.Equal(t, "Version 1.2 of the format.", Summary(Parse("/** Version 1.2 of the format. More here. */")))
	assert.Equal(t, "No period", Summary(Parse("/** No period */")))
}

func TestBefore(t *testing.T) {
	src := []byte(`class A {
    /** Counts things. */
    @Deprecated
    public static int count;

    int other;

    /** Lost. */ /* note */ int x;
}
`)
	at := func(name string) int {
		i := bytes.Index(src, []byte(name+";"))
		require.GreaterOrEqual(t, i, 0, name)
		return i
	}

	doc, ok := Before(src, at("count"))
	require.True(t, ok)
	assert.Equal(t, "/** Counts things. */", doc)

	_, ok = Before(src, at("other"))
	assert.False(t, ok, "a statement ends between the comment and the name")

	_, ok = Before(src, at("x"))
	assert.False(t, ok, "a plain comment sits in between")

	_, ok = Before(src, 0)
	assert.False(t, ok)
}
