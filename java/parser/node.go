package parser

import "strings"

type NodeKind int

const (
	KindError NodeKind = iota

	KindCompilationUnit
	KindPackageDecl
	KindImportDecl
	KindQualifiedName
	KindIdentifier
	KindKeyword
	KindDims

	KindClassDecl
	KindClassBody
	KindEnumConstant
	KindRecordHeader
	KindExtends
	KindImplements
	KindPermits
	KindFieldDecl
	KindVarDeclarator
	KindMethodDecl
	KindConstructorDecl
	KindParameters
	KindParameter
	KindThrows
	KindDefaultValue
	KindInitializer

	KindModifiers
	KindAnnotation
	KindElementValuePair
	KindType
	KindTypeArguments
	KindWildcard
	KindTypeParameters
	KindTypeParameter

	KindBlock
	KindLocalVarDecl
	KindExprStmt
	KindReturnStmt
	KindThrowStmt
	KindCatchClause
	KindStatement

	KindLiteral
	KindName
	KindFieldAccess
	KindCall
	KindArguments
	KindNew
	KindNewArray
	KindArrayInit
	KindCast
	KindInstanceOf
	KindArrayAccess
	KindThis
	KindSuper
	KindBinary
	KindUnary
	KindPostfix
	KindAssign
	KindConditional
	KindLambda
	KindMethodRef
	KindClassLiteral
	KindParen
	KindSwitchExpr
)

var nodeKindNames = [...]string{
	KindError:            "Error",
	KindCompilationUnit:  "CompilationUnit",
	KindPackageDecl:      "PackageDecl",
	KindImportDecl:       "ImportDecl",
	KindQualifiedName:    "QualifiedName",
	KindIdentifier:       "Identifier",
	KindKeyword:          "Keyword",
	KindDims:             "Dims",
	KindClassDecl:        "ClassDecl",
	KindClassBody:        "ClassBody",
	KindEnumConstant:     "EnumConstant",
	KindRecordHeader:     "RecordHeader",
	KindExtends:          "Extends",
	KindImplements:       "Implements",
	KindPermits:          "Permits",
	KindFieldDecl:        "FieldDecl",
	KindVarDeclarator:    "VarDeclarator",
	KindMethodDecl:       "MethodDecl",
	KindConstructorDecl:  "ConstructorDecl",
	KindParameters:       "Parameters",
	KindParameter:        "Parameter",
	KindThrows:           "Throws",
	KindDefaultValue:     "DefaultValue",
	KindInitializer:      "Initializer",
	KindModifiers:        "Modifiers",
	KindAnnotation:       "Annotation",
	KindElementValuePair: "ElementValuePair",
	KindType:             "Type",
	KindTypeArguments:    "TypeArguments",
	KindWildcard:         "Wildcard",
	KindTypeParameters:   "TypeParameters",
	KindTypeParameter:    "TypeParameter",
	KindBlock:            "Block",
	KindLocalVarDecl:     "LocalVarDecl",
	KindExprStmt:         "ExprStmt",
	KindReturnStmt:       "ReturnStmt",
	KindThrowStmt:        "ThrowStmt",
	KindCatchClause:      "CatchClause",
	KindStatement:        "Statement",
	KindLiteral:          "Literal",
	KindName:             "Name",
	KindFieldAccess:      "FieldAccess",
	KindCall:             "Call",
	KindArguments:        "Arguments",
	KindNew:              "New",
	KindNewArray:         "NewArray",
	KindArrayInit:        "ArrayInit",
	KindCast:             "Cast",
	KindInstanceOf:       "InstanceOf",
	KindArrayAccess:      "ArrayAccess",
	KindThis:             "This",
	KindSuper:            "Super",
	KindBinary:           "Binary",
	KindUnary:            "Unary",
	KindPostfix:          "Postfix",
	KindAssign:           "Assign",
	KindConditional:      "Conditional",
	KindLambda:           "Lambda",
	KindMethodRef:        "MethodRef",
	KindClassLiteral:     "ClassLiteral",
	KindParen:            "Paren",
	KindSwitchExpr:       "SwitchExpr",
}

func (k NodeKind) String() string {
	if int(k) < len(nodeKindNames) && nodeKindNames[k] != "" {
		return nodeKindNames[k]
	}
	return "Unknown"
}

type Error struct {
	Message string
	Got     Token
}

// Node is a concrete syntax tree node. Leaf kinds (Identifier, Keyword,
// Literal, Dims) and operator nodes carry their token; Dims stores the
// bracket count in Count.
type Node struct {
	Kind     NodeKind
	Span     Span
	Children []*Node
	Token    *Token
	Error    *Error
	Count    int
}

func (n *Node) AddChild(child *Node) {
	if child != nil {
		n.Children = append(n.Children, child)
	}
}

func (n *Node) IsError() bool {
	return n.Kind == KindError
}

func (n *Node) FirstChildOfKind(kind NodeKind) *Node {
	if n == nil {
		return nil
	}
	for _, child := range n.Children {
		if child.Kind == kind {
			return child
		}
	}
	return nil
}

func (n *Node) ChildrenOfKind(kind NodeKind) []*Node {
	if n == nil {
		return nil
	}
	var result []*Node
	for _, child := range n.Children {
		if child.Kind == kind {
			result = append(result, child)
		}
	}
	return result
}

func (n *Node) TokenLiteral() string {
	if n != nil && n.Token != nil {
		return n.Token.Literal
	}
	return ""
}

// HasKeyword reports a Keyword child with the given literal.
func (n *Node) HasKeyword(literal string) bool {
	for _, c := range n.ChildrenOfKind(KindKeyword) {
		if c.TokenLiteral() == literal {
			return true
		}
	}
	return false
}

// Text joins the identifiers of a QualifiedName, or returns the token
// literal of a leaf.
func (n *Node) Text() string {
	if n == nil {
		return ""
	}
	if n.Kind == KindQualifiedName {
		parts := make([]string, 0, len(n.Children))
		for _, c := range n.Children {
			parts = append(parts, c.TokenLiteral())
		}
		return strings.Join(parts, ".")
	}
	return n.TokenLiteral()
}

func (n *Node) String() string {
	var sb strings.Builder
	n.write(&sb, 0)
	return sb.String()
}

func (n *Node) write(sb *strings.Builder, indent int) {
	sb.WriteString(strings.Repeat("  ", indent))
	sb.WriteString(n.Kind.String())
	if n.Token != nil {
		sb.WriteString(" " + n.Token.Literal)
	}
	if n.Error != nil {
		sb.WriteString(" ERROR: " + n.Error.Message)
	}
	sb.WriteString("\n")
	for _, child := range n.Children {
		child.write(sb, indent+1)
	}
}
