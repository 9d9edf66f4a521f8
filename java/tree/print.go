package tree

import (
	"fmt"
	"io"
	"strings"
)

// Label is a one-line description of n without its children.
func Label(n Node) string {
	var detail string
	switch n := n.(type) {
	case *PackageDecl:
		detail = n.Name
		if n.IsDefault() {
			detail = "(default)"
		}
	case *ImportDecl:
		detail = n.Name
		if n.Wildcard {
			detail += ".*"
		}
		if n.Static {
			detail = "static " + detail
		}
	case *ClassDecl:
		detail = n.Variant.String() + " " + n.Name
	case *EnumConstant:
		detail = n.Name
	case *Variable:
		detail = n.Name
	case *MethodDecl:
		detail = n.BinaryName()
	case *Parameter:
		detail = n.Name
	case *Modifiers:
		detail = strings.Join(n.Keywords, " ")
		if n.Marker != "" {
			detail += " " + n.Marker
		}
	case *TypeRef:
		detail = n.Name + strings.Repeat("[]", n.Dims)
	case *TypeParameter:
		detail = n.Name
	case *Compound:
		detail = n.Keyword
	case *Erroneous:
		detail = n.Message
	case *Name:
		detail = n.Identifier
	case *FieldAccess:
		detail = n.Name
	case *MethodCall:
		detail = n.Name
	case *MethodRef:
		detail = n.Name
	case *Literal:
		detail = n.Value
	case *Binary:
		detail = n.Op
	case *Unary:
		detail = n.Op
	case *Assign:
		detail = n.Op
	}
	label := n.Kind().String() + " " + n.Range().String()
	if detail != "" {
		label += " " + strings.TrimSpace(detail)
	}
	return label
}

// Fprint writes an indented outline of the subtree rooted at n.
func Fprint(w io.Writer, n Node) error {
	var err error
	var walk func(Node, int)
	walk = func(n Node, depth int) {
		if err != nil {
			return
		}
		_, err = fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), Label(n))
		for _, c := range n.Children() {
			walk(c, depth+1)
		}
	}
	walk(n, 0)
	return err
}
