// Package format writes parse trees for inspection.
package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/whatis/java/parser"
)

// CSTEncoder writes a concrete syntax tree as indented JSON, one object
// per node with its kind, span, token and recovered syntax error.
type CSTEncoder struct {
	w io.Writer
}

func NewCSTEncoder(w io.Writer) *CSTEncoder {
	return &CSTEncoder{w: w}
}

func (e *CSTEncoder) Encode(node *parser.Node) error {
	text, err := MarshalCST(node)
	if err != nil {
		return err
	}
	if _, err := e.w.Write(text); err != nil {
		return err
	}
	_, err = io.WriteString(e.w, "\n")
	return err
}

func MarshalCST(node *parser.Node) ([]byte, error) {
	return json.MarshalIndent(cstNode(node), "", "  ")
}

type jsonNode struct {
	Kind     string      `json:"kind"`
	Span     *jsonSpan   `json:"span,omitempty"`
	Token    string      `json:"token,omitempty"`
	Error    *jsonError  `json:"error,omitempty"`
	Children []*jsonNode `json:"children,omitempty"`
}

type jsonSpan struct {
	Start jsonPosition `json:"start"`
	End   jsonPosition `json:"end"`
}

type jsonPosition struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

type jsonError struct {
	Message string `json:"message"`
	Got     string `json:"got,omitempty"`
}

func position(p parser.Position) jsonPosition {
	return jsonPosition{Offset: p.Offset, Line: p.Line, Column: p.Column}
}

func cstNode(n *parser.Node) *jsonNode {
	if n == nil {
		return nil
	}
	jn := &jsonNode{Kind: n.Kind.String()}
	if n.Span.Start.Line != 0 || n.Span.End.Line != 0 {
		jn.Span = &jsonSpan{Start: position(n.Span.Start), End: position(n.Span.End)}
	}
	if n.Token != nil {
		jn.Token = n.Token.Literal
	}
	if n.Error != nil {
		jn.Error = &jsonError{Message: n.Error.Message, Got: n.Error.Got.Literal}
	}
	for _, child := range n.Children {
		jn.Children = append(jn.Children, cstNode(child))
	}
	return jn
}
