package javadoc

import (
	"strings"
)

// Markdown renders the comment for an editor hover: the description, then
// parameters, return value, exceptions and references as lists.
func Markdown(c *Comment) string {
	if c == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(tidy(markdown(c.Body)))

	section := func(title string, tags []Tag, withArg bool) {
		if len(tags) == 0 {
			return
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString("**" + title + "**")
		for _, t := range tags {
			b.WriteString("\n- ")
			if withArg && t.Arg != "" {
				b.WriteString("`" + t.Arg + "` ")
			}
			b.WriteString(oneLine(markdown(t.Body)))
		}
	}
	if dep := c.Tagged("deprecated"); len(dep) > 0 {
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(strings.TrimSpace("**Deprecated.** " + oneLine(markdown(dep[0].Body))))
	}
	section("Parameters:", c.Tagged("param"), true)
	section("Returns:", c.Tagged("return"), false)
	section("Throws:", c.Tagged("throws"), true)
	section("See also:", c.Tagged("see"), true)
	section("Since:", c.Tagged("since"), false)
	return strings.TrimSpace(b.String())
}

// Summary is the first sentence of the description as plain text.
func Summary(c *Comment) string {
	if c == nil {
		return ""
	}
	text := oneLine(plainText(c.Body))
	for i := 0; i < len(text); i++ {
		if text[i] == '.' && (i+1 == len(text) || text[i+1] == ' ') {
			return text[:i+1]
		}
	}
	return text
}

func markdown(nodes []Node) string {
	var b strings.Builder
	inPre := false
	for _, n := range nodes {
		switch n := n.(type) {
		case Text:
			b.WriteString(n.Content)
		case Code:
			switch {
			case inPre:
				b.WriteString(strings.Trim(n.Content, "\n"))
			case n.Literal:
				b.WriteString(n.Content)
			case strings.Contains(strings.TrimSpace(n.Content), "\n"):
				b.WriteString("\n```java\n" + strings.TrimSpace(n.Content) + "\n```\n")
			default:
				b.WriteString("`" + strings.TrimSpace(n.Content) + "`")
			}
		case Link:
			if len(n.Label) > 0 {
				b.WriteString(markdown(n.Label))
			} else {
				b.WriteString("`" + displayReference(n.Reference) + "`")
			}
		case Element:
			if n.Name == "pre" {
				inPre = !n.End
			}
			b.WriteString(element(n))
		case Entity:
			b.WriteString(entity(n.Name))
		}
	}
	return b.String()
}

func plainText(nodes []Node) string {
	var b strings.Builder
	for _, n := range nodes {
		switch n := n.(type) {
		case Text:
			b.WriteString(n.Content)
		case Code:
			b.WriteString(n.Content)
		case Link:
			if len(n.Label) > 0 {
				b.WriteString(plainText(n.Label))
			} else {
				b.WriteString(displayReference(n.Reference))
			}
		case Entity:
			b.WriteString(entity(n.Name))
		}
	}
	return b.String()
}

// displayReference shortens java.util.List#add(Object) to List.add(Object).
func displayReference(ref string) string {
	owner, member, hasMember := strings.Cut(ref, "#")
	if i := strings.LastIndex(owner, "."); i >= 0 {
		owner = owner[i+1:]
	}
	if !hasMember {
		return owner
	}
	if owner == "" {
		return member
	}
	return owner + "." + member
}

func element(e Element) string {
	switch e.Name {
	case "p":
		if e.End {
			return ""
		}
		return "\n\n"
	case "br":
		return "\n"
	case "pre":
		return "\n```\n"
	case "code", "tt":
		return "`"
	case "b", "strong":
		return "**"
	case "i", "em":
		return "_"
	case "li":
		if e.End {
			return ""
		}
		return "\n- "
	case "ul", "ol", "dl", "dt", "table", "tr":
		return "\n"
	case "h1", "h2", "h3", "h4", "h5", "h6":
		if e.End {
			return "\n"
		}
		return "\n\n### "
	}
	return ""
}

var entities = map[string]string{
	"lt":     "<",
	"gt":     ">",
	"amp":    "&",
	"quot":   "\"",
	"apos":   "'",
	"nbsp":   " ",
	"#60":    "<",
	"#62":    ">",
	"#38":    "&",
	"#64":    "@",
	"#123":   "{",
	"#125":   "}",
	"#160":   " ",
	"mdash":  "—",
	"ndash":  "–",
	"hellip": "…",
}

func entity(name string) string {
	if s, ok := entities[name]; ok {
		return s
	}
	return "&" + name + ";"
}

// tidy trims every line and collapses runs of blank lines, leaving
// fenced code blocks untouched.
func tidy(s string) string {
	var out []string
	blank, fenced := false, false
	for _, line := range strings.Split(s, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			fenced = !fenced
			out = append(out, strings.TrimSpace(line))
			blank = false
			continue
		}
		if fenced {
			out = append(out, line)
			continue
		}
		line = strings.TrimSpace(line)
		if line == "" {
			if !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}
		out = append(out, line)
		blank = false
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
