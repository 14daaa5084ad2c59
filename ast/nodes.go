package ast

// Program is the root of a parsed file.
type Program struct {
	Base
	Body []Node
}

type ExpressionStatement struct {
	Base
	Expression Node
}

// VariableDeclaration is a var, let or const statement.
type VariableDeclaration struct {
	Base
	Kind         string
	Declarations []Node
}

type VariableDeclarator struct {
	Base
	ID   Node
	Init Node
}

type FunctionDeclaration struct {
	Base
	ID     Node
	Params []Node
	Body   Node
}

type FunctionExpression struct {
	Base
	ID     Node
	Params []Node
	Body   Node
}

type ReturnStatement struct {
	Base
	Argument Node
}

type IfStatement struct {
	Base
	Test       Node
	Consequent Node
	Alternate  Node
}

type BlockStatement struct {
	Base
	Body []Node
}

type ForStatement struct {
	Base
	Init   Node
	Test   Node
	Update Node
	Body   Node
}

type ForInStatement struct {
	Base
	Left  Node
	Right Node
	Body  Node
}

type ThrowStatement struct {
	Base
	Argument Node
}

type TryStatement struct {
	Base
	Block     Node
	Handler   Node
	Finalizer Node
}

type CatchClause struct {
	Base
	Param Node
	Body  Node
}

type EmptyStatement struct{ Base }

type BreakStatement struct{ Base }

type ContinueStatement struct{ Base }

// ImportDeclaration is `import a, {b as c} from "source"`.
type ImportDeclaration struct {
	Base
	Specifiers []Node
	Source     Node
}

type ImportDefaultSpecifier struct {
	Base
	Local Node
}

type ImportNamespaceSpecifier struct {
	Base
	Local Node
}

type ImportSpecifier struct {
	Base
	Imported Node
	Local    Node
}

type Identifier struct {
	Base
	Name string
}

// StringLiteral holds the decoded string value.
type StringLiteral struct {
	Base
	Value string
}

type NumericLiteral struct {
	Base
	Value float64
	Raw   string
}

type BooleanLiteral struct {
	Base
	Value bool
}

type NullLiteral struct{ Base }

type ThisExpression struct{ Base }

// TemplateLiteral has len(Quasis) == len(Expressions)+1.
type TemplateLiteral struct {
	Base
	Quasis      []Node
	Expressions []Node
}

type TemplateElement struct {
	Base
	Raw    string
	Cooked string
	Tail   bool
}

type TaggedTemplateExpression struct {
	Base
	Tag   Node
	Quasi Node
}

type ArrayExpression struct {
	Base
	Elements []Node
}

type ObjectExpression struct {
	Base
	Properties []Node
}

type ObjectProperty struct {
	Base
	Key      Node
	Value    Node
	Computed bool
}

type CallExpression struct {
	Base
	Callee    Node
	Arguments []Node
}

type NewExpression struct {
	Base
	Callee    Node
	Arguments []Node
}

// MemberExpression is `object.property` or, when Computed, `object[property]`.
type MemberExpression struct {
	Base
	Object   Node
	Property Node
	Computed bool
}

type UnaryExpression struct {
	Base
	Operator string
	Argument Node
}

type UpdateExpression struct {
	Base
	Operator string
	Argument Node
	Prefix   bool
}

type BinaryExpression struct {
	Base
	Operator string
	Left     Node
	Right    Node
}

type LogicalExpression struct {
	Base
	Operator string
	Left     Node
	Right    Node
}

type AssignmentExpression struct {
	Base
	Operator string
	Left     Node
	Right    Node
}

type ConditionalExpression struct {
	Base
	Test       Node
	Consequent Node
	Alternate  Node
}

type SequenceExpression struct {
	Base
	Expressions []Node
}

func (*Program) Type() NodeType { return TypeProgram }
func (*ExpressionStatement) Type() NodeType { return TypeExpressionStatement }
func (*VariableDeclaration) Type() NodeType { return TypeVariableDeclaration }
func (*VariableDeclarator) Type() NodeType { return TypeVariableDeclarator }
func (*FunctionDeclaration) Type() NodeType { return TypeFunctionDeclaration }
func (*FunctionExpression) Type() NodeType { return TypeFunctionExpression }
func (*ReturnStatement) Type() NodeType { return TypeReturnStatement }
func (*IfStatement) Type() NodeType { return TypeIfStatement }
func (*BlockStatement) Type() NodeType { return TypeBlockStatement }
func (*ForStatement) Type() NodeType { return TypeForStatement }
func (*ForInStatement) Type() NodeType { return TypeForInStatement }
func (*ThrowStatement) Type() NodeType { return TypeThrowStatement }
func (*TryStatement) Type() NodeType { return TypeTryStatement }
func (*CatchClause) Type() NodeType { return TypeCatchClause }
func (*EmptyStatement) Type() NodeType { return TypeEmptyStatement }
func (*BreakStatement) Type() NodeType { return TypeBreakStatement }
func (*ContinueStatement) Type() NodeType { return TypeContinueStatement }
func (*ImportDeclaration) Type() NodeType { return TypeImportDeclaration }
func (*ImportDefaultSpecifier) Type() NodeType { return TypeImportDefaultSpecifier }
func (*ImportNamespaceSpecifier) Type() NodeType { return TypeImportNamespaceSpecifier }
func (*ImportSpecifier) Type() NodeType { return TypeImportSpecifier }
func (*Identifier) Type() NodeType { return TypeIdentifier }
func (*StringLiteral) Type() NodeType { return TypeStringLiteral }
func (*NumericLiteral) Type() NodeType { return TypeNumericLiteral }
func (*BooleanLiteral) Type() NodeType { return TypeBooleanLiteral }
func (*NullLiteral) Type() NodeType { return TypeNullLiteral }
func (*ThisExpression) Type() NodeType { return TypeThisExpression }
func (*TemplateLiteral) Type() NodeType { return TypeTemplateLiteral }
func (*TemplateElement) Type() NodeType { return TypeTemplateElement }
func (*TaggedTemplateExpression) Type() NodeType { return TypeTaggedTemplateExpression }
func (*ArrayExpression) Type() NodeType { return TypeArrayExpression }
func (*ObjectExpression) Type() NodeType { return TypeObjectExpression }
func (*ObjectProperty) Type() NodeType { return TypeObjectProperty }
func (*CallExpression) Type() NodeType { return TypeCallExpression }
func (*NewExpression) Type() NodeType { return TypeNewExpression }
func (*MemberExpression) Type() NodeType { return TypeMemberExpression }
func (*UnaryExpression) Type() NodeType { return TypeUnaryExpression }
func (*UpdateExpression) Type() NodeType { return TypeUpdateExpression }
func (*BinaryExpression) Type() NodeType { return TypeBinaryExpression }
func (*LogicalExpression) Type() NodeType { return TypeLogicalExpression }
func (*AssignmentExpression) Type() NodeType { return TypeAssignmentExpression }
func (*ConditionalExpression) Type() NodeType { return TypeConditionalExpression }
func (*SequenceExpression) Type() NodeType { return TypeSequenceExpression }
