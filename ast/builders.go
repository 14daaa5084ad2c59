package ast

// Constructors for synthesized nodes. Nodes built here carry no location.

func NewIdentifier(name string) *Identifier {
	return &Identifier{Name: name}
}

func NewStringLiteral(value string) *StringLiteral {
	return &StringLiteral{Value: value}
}

func NewNumericLiteral(value float64) *NumericLiteral {
	return &NumericLiteral{Value: value}
}

func NewBooleanLiteral(value bool) *BooleanLiteral {
	return &BooleanLiteral{Value: value}
}

func NewExpressionStatement(expr Node) *ExpressionStatement {
	return &ExpressionStatement{Expression: expr}
}

func NewCall(callee Node, args ...Node) *CallExpression {
	if args == nil {
		args = []Node{}
	}
	return &CallExpression{Callee: callee, Arguments: args}
}

// NewMember builds a non-computed member expression `object.property`.
func NewMember(object Node, property string) *MemberExpression {
	return &MemberExpression{Object: object, Property: NewIdentifier(property)}
}

// NewComputedMember builds `object[property]`.
func NewComputedMember(object, property Node) *MemberExpression {
	return &MemberExpression{Object: object, Property: property, Computed: true}
}

func NewArray(elements ...Node) *ArrayExpression {
	if elements == nil {
		elements = []Node{}
	}
	return &ArrayExpression{Elements: elements}
}

func NewAssignment(op string, left, right Node) *AssignmentExpression {
	return &AssignmentExpression{Operator: op, Left: left, Right: right}
}

func NewBinary(op string, left, right Node) *BinaryExpression {
	return &BinaryExpression{Operator: op, Left: left, Right: right}
}

// NewVarDeclaration builds `kind id = init;` with a single declarator.
// A nil init produces a declaration without initializer.
func NewVarDeclaration(kind string, id Node, init Node) *VariableDeclaration {
	return &VariableDeclaration{
		Kind:         kind,
		Declarations: []Node{&VariableDeclarator{ID: id, Init: init}},
	}
}

func NewBlock(body ...Node) *BlockStatement {
	if body == nil {
		body = []Node{}
	}
	return &BlockStatement{Body: body}
}

func NewReturn(argument Node) *ReturnStatement {
	return &ReturnStatement{Argument: argument}
}

// ToDeclaration converts a function expression into a declaration bound to
// id. The body and params are shared with the expression.
func ToDeclaration(fn *FunctionExpression, id *Identifier) *FunctionDeclaration {
	decl := &FunctionDeclaration{ID: id, Params: fn.Params, Body: fn.Body}
	decl.Base = fn.Base
	return decl
}

// ToStatement wraps an expression in a statement unless it already is one.
func ToStatement(n Node) Node {
	if IsStatement(n) {
		return n
	}
	if fn, ok := n.(*FunctionExpression); ok && fn.ID != nil {
		if id, ok := fn.ID.(*Identifier); ok {
			return ToDeclaration(fn, id)
		}
	}
	return NewExpressionStatement(n)
}
