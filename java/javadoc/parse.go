package javadoc

import (
	"strings"
	"unicode"
)

// Strip removes the comment delimiters and the leading asterisk of every
// line, leaving the comment text.
func Strip(comment string) string {
	comment = strings.TrimSpace(comment)
	comment = strings.TrimPrefix(comment, "/**")
	comment = strings.TrimSuffix(comment, "*/")
	lines := strings.Split(strings.ReplaceAll(comment, "\r\n", "\n"), "\n")
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		if strings.HasPrefix(trimmed, "*") {
			trimmed = strings.TrimPrefix(trimmed[1:], " ")
			lines[i] = trimmed
		} else if i > 0 {
			lines[i] = trimmed
		}
	}
	return strings.Trim(strings.Join(lines, "\n"), "\n")
}

// argTags take a single word before their description.
var argTags = map[string]bool{
	"param":     true,
	"throws":    true,
	"exception": true,
}

// Parse reads a documentation comment, with or without its delimiters.
func Parse(comment string) *Comment {
	text := Strip(comment)
	c := &Comment{}
	sections := splitBlockTags(text)
	c.Body = parseInline(sections[0])
	for _, section := range sections[1:] {
		name, rest := word(section[1:])
		tag := Tag{Name: name}
		if argTags[name] || name == "see" && !strings.HasPrefix(rest, "<") && !strings.HasPrefix(rest, "\"") {
			tag.Arg, rest = word(rest)
		}
		tag.Body = parseInline(rest)
		c.Tags = append(c.Tags, tag)
	}
	return c
}

// splitBlockTags cuts text before every line that starts with @. The
// first section is the main description; @ inside braces does not count.
func splitBlockTags(text string) []string {
	var sections []string
	var current strings.Builder
	depth := 0
	for _, line := range strings.SplitAfter(text, "\n") {
		if depth == 0 && strings.HasPrefix(strings.TrimLeft(line, " \t"), "@") {
			sections = append(sections, current.String())
			current.Reset()
			line = strings.TrimLeft(line, " \t")
		}
		depth += strings.Count(line, "{") - strings.Count(line, "}")
		if depth < 0 {
			depth = 0
		}
		current.WriteString(line)
	}
	return append(sections, current.String())
}

func word(s string) (string, string) {
	s = strings.TrimLeft(s, " \t")
	end := strings.IndexFunc(s, unicode.IsSpace)
	if end < 0 {
		return s, ""
	}
	return s[:end], strings.TrimLeft(s[end:], " \t")
}

type inlineParser struct {
	input []rune
	pos   int
}

func parseInline(s string) []Node {
	p := &inlineParser{input: []rune(s)}
	return p.content(false)
}

// content reads nodes up to the end of input, or up to the brace closing
// the current inline tag when nested is set.
func (p *inlineParser) content(nested bool) []Node {
	var nodes []Node
	var text strings.Builder
	flush := func() {
		if text.Len() > 0 {
			nodes = append(nodes, Text{Content: text.String()})
			text.Reset()
		}
	}
	depth := 0
	for p.pos < len(p.input) {
		ch := p.input[p.pos]
		switch {
		case ch == '{' && p.at(1) == '@':
			flush()
			nodes = append(nodes, p.inlineTag())
			continue
		case ch == '{':
			depth++
		case ch == '}' && nested:
			if depth == 0 {
				flush()
				return nodes
			}
			depth--
		case ch == '<':
			if el, ok := p.element(); ok {
				flush()
				nodes = append(nodes, el)
				continue
			}
		case ch == '&':
			if ent, ok := p.entity(); ok {
				flush()
				nodes = append(nodes, ent)
				continue
			}
		}
		text.WriteRune(ch)
		p.pos++
	}
	flush()
	return nodes
}

func (p *inlineParser) at(i int) rune {
	if p.pos+i < len(p.input) {
		return p.input[p.pos+i]
	}
	return 0
}

func (p *inlineParser) inlineTag() Node {
	p.pos += 2
	start := p.pos
	for p.pos < len(p.input) && (unicode.IsLetter(p.input[p.pos]) || unicode.IsDigit(p.input[p.pos])) {
		p.pos++
	}
	name := string(p.input[start:p.pos])
	if p.pos < len(p.input) && p.input[p.pos] == ' ' {
		p.pos++
	}

	var n Node
	switch name {
	case "code", "literal":
		n = Code{Content: p.balanced(), Literal: name == "literal"}
	case "link", "linkplain", "value":
		ref := p.reference()
		var label []Node
		if p.at(0) != '}' {
			label = p.content(true)
		}
		n = Link{Reference: ref, Label: label}
	case "summary", "return":
		n = Text{Content: plainText(p.content(true))}
	case "inheritDoc", "docRoot":
		p.balanced()
		n = Text{}
	default:
		n = Text{Content: p.balanced()}
	}
	if p.at(0) == '}' {
		p.pos++
	}
	return n
}

// balanced reads up to the brace closing the current tag, keeping nested
// braces.
func (p *inlineParser) balanced() string {
	start, depth := p.pos, 0
	for ; p.pos < len(p.input); p.pos++ {
		switch p.input[p.pos] {
		case '{':
			depth++
		case '}':
			if depth == 0 {
				return string(p.input[start:p.pos])
			}
			depth--
		}
	}
	return string(p.input[start:])
}

func (p *inlineParser) reference() string {
	start, parens := p.pos, 0
	for ; p.pos < len(p.input); p.pos++ {
		ch := p.input[p.pos]
		if ch == '(' {
			parens++
		} else if ch == ')' {
			parens--
		} else if ch == '}' || parens == 0 && unicode.IsSpace(ch) {
			break
		}
	}
	ref := string(p.input[start:p.pos])
	for p.pos < len(p.input) && unicode.IsSpace(p.input[p.pos]) {
		p.pos++
	}
	return ref
}

func (p *inlineParser) element() (Node, bool) {
	i := p.pos + 1
	end := false
	if i < len(p.input) && p.input[i] == '/' {
		end = true
		i++
	}
	start := i
	for i < len(p.input) && (unicode.IsLetter(p.input[i]) || unicode.IsDigit(p.input[i])) {
		i++
	}
	if i == start {
		return nil, false
	}
	name := strings.ToLower(string(p.input[start:i]))
	for i < len(p.input) && p.input[i] != '>' {
		i++
	}
	if i == len(p.input) {
		return nil, false
	}
	p.pos = i + 1
	return Element{Name: name, End: end}, true
}

func (p *inlineParser) entity() (Node, bool) {
	i := p.pos + 1
	for i < len(p.input) && i-p.pos < 10 && (unicode.IsLetter(p.input[i]) || unicode.IsDigit(p.input[i]) || p.input[i] == '#') {
		i++
	}
	if i == p.pos+1 || i >= len(p.input) || p.input[i] != ';' {
		return nil, false
	}
	name := string(p.input[p.pos+1 : i])
	p.pos = i + 1
	return Entity{Name: name}, true
}
