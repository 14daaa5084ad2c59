// Package ast defines the abstract syntax tree produced by the parser and
// rewritten by transformation passes.
//
// The set of node types is closed: every node carries a NodeType tag and
// exposes its children through Slots, which is what traversal, cloning and
// the code generator build on.
package ast

import "github.com/deepnoodle-ai/morph/internal/token"

// NodeType tags a node with its syntactic kind.
type NodeType string

// Node types
const (
	// TypeAny matches every node type when registering visitor handlers.
	TypeAny NodeType = "*"

	TypeProgram                   NodeType = "Program"
	TypeExpressionStatement       NodeType = "ExpressionStatement"
	TypeVariableDeclaration       NodeType = "VariableDeclaration"
	TypeVariableDeclarator        NodeType = "VariableDeclarator"
	TypeFunctionDeclaration       NodeType = "FunctionDeclaration"
	TypeFunctionExpression        NodeType = "FunctionExpression"
	TypeReturnStatement           NodeType = "ReturnStatement"
	TypeIfStatement               NodeType = "IfStatement"
	TypeBlockStatement            NodeType = "BlockStatement"
	TypeForStatement              NodeType = "ForStatement"
	TypeForInStatement            NodeType = "ForInStatement"
	TypeThrowStatement            NodeType = "ThrowStatement"
	TypeTryStatement              NodeType = "TryStatement"
	TypeCatchClause               NodeType = "CatchClause"
	TypeEmptyStatement            NodeType = "EmptyStatement"
	TypeBreakStatement            NodeType = "BreakStatement"
	TypeContinueStatement         NodeType = "ContinueStatement"
	TypeImportDeclaration         NodeType = "ImportDeclaration"
	TypeImportDefaultSpecifier    NodeType = "ImportDefaultSpecifier"
	TypeImportNamespaceSpecifier  NodeType = "ImportNamespaceSpecifier"
	TypeImportSpecifier           NodeType = "ImportSpecifier"
	TypeIdentifier                NodeType = "Identifier"
	TypeStringLiteral             NodeType = "StringLiteral"
	TypeNumericLiteral            NodeType = "NumericLiteral"
	TypeBooleanLiteral            NodeType = "BooleanLiteral"
	TypeNullLiteral               NodeType = "NullLiteral"
	TypeThisExpression            NodeType = "ThisExpression"
	TypeTemplateLiteral           NodeType = "TemplateLiteral"
	TypeTemplateElement           NodeType = "TemplateElement"
	TypeTaggedTemplateExpression  NodeType = "TaggedTemplateExpression"
	TypeArrayExpression           NodeType = "ArrayExpression"
	TypeObjectExpression          NodeType = "ObjectExpression"
	TypeObjectProperty            NodeType = "ObjectProperty"
	TypeCallExpression            NodeType = "CallExpression"
	TypeNewExpression             NodeType = "NewExpression"
	TypeMemberExpression          NodeType = "MemberExpression"
	TypeUnaryExpression           NodeType = "UnaryExpression"
	TypeUpdateExpression          NodeType = "UpdateExpression"
	TypeBinaryExpression          NodeType = "BinaryExpression"
	TypeLogicalExpression         NodeType = "LogicalExpression"
	TypeAssignmentExpression      NodeType = "AssignmentExpression"
	TypeConditionalExpression     NodeType = "ConditionalExpression"
	TypeSequenceExpression        NodeType = "SequenceExpression"
)

// Node represents a portion of the syntax tree.
type Node interface {
	// Type returns the node's type tag.
	Type() NodeType

	// Meta returns the node's location, comments and annotation flags.
	Meta() *Base
}

// Comment is a line or block comment attached to a node.
type Comment struct {
	Block bool       `json:"block"`
	Value string     `json:"value"`
	Loc   *token.Loc `json:"loc,omitempty"`
}

// Base holds the metadata shared by every node. It is embedded in each
// concrete node type.
type Base struct {
	// Loc is the source span of the node, nil for synthesized nodes.
	Loc *token.Loc

	// InternalLoc is a fallback location for synthesized nodes that were
	// derived from a located node.
	InternalLoc *token.Loc

	LeadingComments  []Comment
	TrailingComments []Comment

	// Generated marks nodes injected by the compiler rather than the user.
	Generated bool

	// Compact requests that the generator print this subtree on one line.
	Compact bool

	// BlockHoist is the insertion priority of a top-level statement. Higher
	// values are hoisted above lower ones; unset means 1.
	BlockHoist    float64
	HasBlockHoist bool
}

// Meta returns the node metadata.
func (b *Base) Meta() *Base { return b }

// SetBlockHoist sets the statement's hoisting priority.
func (b *Base) SetBlockHoist(priority float64) {
	b.BlockHoist = priority
	b.HasBlockHoist = true
}

// Priority returns the statement's hoisting priority, defaulting to 1.
func (b *Base) Priority() float64 {
	if !b.HasBlockHoist {
		return 1
	}
	return b.BlockHoist
}

// Location returns the best known location for the node: its own Loc, or
// the internal fallback location. It returns nil when neither is set.
func Location(n Node) *token.Loc {
	if n == nil {
		return nil
	}
	m := n.Meta()
	if m.Loc != nil {
		return m.Loc
	}
	return m.InternalLoc
}

// IsNil reports whether n is nil or a typed nil pointer.
func IsNil(n Node) bool {
	if n == nil {
		return true
	}
	switch x := n.(type) {
	case *Identifier:
		return x == nil
	case *BlockStatement:
		return x == nil
	case *Program:
		return x == nil
	}
	return false
}

// IsFunction reports whether the node is a function declaration or expression.
func IsFunction(n Node) bool {
	if n == nil {
		return false
	}
	t := n.Type()
	return t == TypeFunctionDeclaration || t == TypeFunctionExpression
}

// IsStatement reports whether the node is a statement.
func IsStatement(n Node) bool {
	if n == nil {
		return false
	}
	switch n.Type() {
	case TypeExpressionStatement, TypeVariableDeclaration, TypeFunctionDeclaration,
		TypeReturnStatement, TypeIfStatement, TypeBlockStatement, TypeForStatement,
		TypeForInStatement, TypeThrowStatement, TypeTryStatement, TypeEmptyStatement,
		TypeBreakStatement, TypeContinueStatement, TypeImportDeclaration:
		return true
	}
	return false
}

// IsIdentifier reports whether n is an identifier, optionally with the
// given name.
func IsIdentifier(n Node, name ...string) bool {
	id, ok := n.(*Identifier)
	if !ok || id == nil {
		return false
	}
	if len(name) > 0 {
		return id.Name == name[0]
	}
	return true
}
