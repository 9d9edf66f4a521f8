// Package javadoc reads the documentation comment attached to a Java
// declaration and renders it as Markdown for hover text.
package javadoc

// Node is a piece of comment text: plain text, an inline tag or an
// HTML element.
type Node interface {
	node()
}

type Text struct {
	Content string
}

// Code is {@code ...} or {@literal ...}; Literal is set for the latter.
type Code struct {
	Content string
	Literal bool
}

// Link is {@link ...}, {@linkplain ...} or {@value ...}.
type Link struct {
	Reference string
	Label     []Node
}

// Element is an HTML start or end tag. End is set for </name>.
type Element struct {
	Name string
	End  bool
}

// Entity is an HTML character reference without & and ;.
type Entity struct {
	Name string
}

func (Text) node()    {}
func (Code) node()    {}
func (Link) node()    {}
func (Element) node() {}
func (Entity) node()  {}

// Tag is a block tag. Arg holds the leading word of tags that take one
// (@param, @throws, @exception, @see with a reference).
type Tag struct {
	Name string
	Arg  string
	Body []Node
}

// Comment is a parsed documentation comment.
type Comment struct {
	Body []Node
	Tags []Tag
}

// Tagged returns the block tags named name in declaration order.
func (c *Comment) Tagged(name string) []Tag {
	var tags []Tag
	for _, t := range c.Tags {
		if t.Name == name || name == "throws" && t.Name == "exception" {
			tags = append(tags, t)
		}
	}
	return tags
}
