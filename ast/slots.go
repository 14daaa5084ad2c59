package ast

// Slot is one child position of a node: either a single child (Ref) or a
// list of children (List). Key is the field name.
type Slot struct {
	Key  string
	Ref  *Node
	List *[]Node
}

// Slots returns the child positions of n in traversal order.
func Slots(n Node) []Slot {
	switch x := n.(type) {
	case *Program:
		return []Slot{{Key: "body", List: &x.Body}}
	case *ExpressionStatement:
		return []Slot{{Key: "expression", Ref: &x.Expression}}
	case *VariableDeclaration:
		return []Slot{{Key: "declarations", List: &x.Declarations}}
	case *VariableDeclarator:
		return []Slot{{Key: "id", Ref: &x.ID}, {Key: "init", Ref: &x.Init}}
	case *FunctionDeclaration:
		return []Slot{{Key: "id", Ref: &x.ID}, {Key: "params", List: &x.Params}, {Key: "body", Ref: &x.Body}}
	case *FunctionExpression:
		return []Slot{{Key: "id", Ref: &x.ID}, {Key: "params", List: &x.Params}, {Key: "body", Ref: &x.Body}}
	case *ReturnStatement:
		return []Slot{{Key: "argument", Ref: &x.Argument}}
	case *IfStatement:
		return []Slot{{Key: "test", Ref: &x.Test}, {Key: "consequent", Ref: &x.Consequent}, {Key: "alternate", Ref: &x.Alternate}}
	case *BlockStatement:
		return []Slot{{Key: "body", List: &x.Body}}
	case *ForStatement:
		return []Slot{{Key: "init", Ref: &x.Init}, {Key: "test", Ref: &x.Test}, {Key: "update", Ref: &x.Update}, {Key: "body", Ref: &x.Body}}
	case *ForInStatement:
		return []Slot{{Key: "left", Ref: &x.Left}, {Key: "right", Ref: &x.Right}, {Key: "body", Ref: &x.Body}}
	case *ThrowStatement:
		return []Slot{{Key: "argument", Ref: &x.Argument}}
	case *TryStatement:
		return []Slot{{Key: "block", Ref: &x.Block}, {Key: "handler", Ref: &x.Handler}, {Key: "finalizer", Ref: &x.Finalizer}}
	case *CatchClause:
		return []Slot{{Key: "param", Ref: &x.Param}, {Key: "body", Ref: &x.Body}}
	case *ImportDeclaration:
		return []Slot{{Key: "specifiers", List: &x.Specifiers}, {Key: "source", Ref: &x.Source}}
	case *ImportDefaultSpecifier:
		return []Slot{{Key: "local", Ref: &x.Local}}
	case *ImportNamespaceSpecifier:
		return []Slot{{Key: "local", Ref: &x.Local}}
	case *ImportSpecifier:
		return []Slot{{Key: "imported", Ref: &x.Imported}, {Key: "local", Ref: &x.Local}}
	case *TemplateLiteral:
		return []Slot{{Key: "quasis", List: &x.Quasis}, {Key: "expressions", List: &x.Expressions}}
	case *TaggedTemplateExpression:
		return []Slot{{Key: "tag", Ref: &x.Tag}, {Key: "quasi", Ref: &x.Quasi}}
	case *ArrayExpression:
		return []Slot{{Key: "elements", List: &x.Elements}}
	case *ObjectExpression:
		return []Slot{{Key: "properties", List: &x.Properties}}
	case *ObjectProperty:
		return []Slot{{Key: "key", Ref: &x.Key}, {Key: "value", Ref: &x.Value}}
	case *CallExpression:
		return []Slot{{Key: "callee", Ref: &x.Callee}, {Key: "arguments", List: &x.Arguments}}
	case *NewExpression:
		return []Slot{{Key: "callee", Ref: &x.Callee}, {Key: "arguments", List: &x.Arguments}}
	case *MemberExpression:
		return []Slot{{Key: "object", Ref: &x.Object}, {Key: "property", Ref: &x.Property}}
	case *UnaryExpression:
		return []Slot{{Key: "argument", Ref: &x.Argument}}
	case *UpdateExpression:
		return []Slot{{Key: "argument", Ref: &x.Argument}}
	case *BinaryExpression:
		return []Slot{{Key: "left", Ref: &x.Left}, {Key: "right", Ref: &x.Right}}
	case *LogicalExpression:
		return []Slot{{Key: "left", Ref: &x.Left}, {Key: "right", Ref: &x.Right}}
	case *AssignmentExpression:
		return []Slot{{Key: "left", Ref: &x.Left}, {Key: "right", Ref: &x.Right}}
	case *ConditionalExpression:
		return []Slot{{Key: "test", Ref: &x.Test}, {Key: "consequent", Ref: &x.Consequent}, {Key: "alternate", Ref: &x.Alternate}}
	case *SequenceExpression:
		return []Slot{{Key: "expressions", List: &x.Expressions}}
	}
	return nil
}

