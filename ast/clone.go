package ast

func shallowCopy(n Node) Node {
	switch x := n.(type) {
	case *Program:
		c := *x
		return &c
	case *ExpressionStatement:
		c := *x
		return &c
	case *VariableDeclaration:
		c := *x
		return &c
	case *VariableDeclarator:
		c := *x
		return &c
	case *FunctionDeclaration:
		c := *x
		return &c
	case *FunctionExpression:
		c := *x
		return &c
	case *ReturnStatement:
		c := *x
		return &c
	case *IfStatement:
		c := *x
		return &c
	case *BlockStatement:
		c := *x
		return &c
	case *ForStatement:
		c := *x
		return &c
	case *ForInStatement:
		c := *x
		return &c
	case *ThrowStatement:
		c := *x
		return &c
	case *TryStatement:
		c := *x
		return &c
	case *CatchClause:
		c := *x
		return &c
	case *EmptyStatement:
		c := *x
		return &c
	case *BreakStatement:
		c := *x
		return &c
	case *ContinueStatement:
		c := *x
		return &c
	case *ImportDeclaration:
		c := *x
		return &c
	case *ImportDefaultSpecifier:
		c := *x
		return &c
	case *ImportNamespaceSpecifier:
		c := *x
		return &c
	case *ImportSpecifier:
		c := *x
		return &c
	case *Identifier:
		c := *x
		return &c
	case *StringLiteral:
		c := *x
		return &c
	case *NumericLiteral:
		c := *x
		return &c
	case *BooleanLiteral:
		c := *x
		return &c
	case *NullLiteral:
		c := *x
		return &c
	case *ThisExpression:
		c := *x
		return &c
	case *TemplateLiteral:
		c := *x
		return &c
	case *TemplateElement:
		c := *x
		return &c
	case *TaggedTemplateExpression:
		c := *x
		return &c
	case *ArrayExpression:
		c := *x
		return &c
	case *ObjectExpression:
		c := *x
		return &c
	case *ObjectProperty:
		c := *x
		return &c
	case *CallExpression:
		c := *x
		return &c
	case *NewExpression:
		c := *x
		return &c
	case *MemberExpression:
		c := *x
		return &c
	case *UnaryExpression:
		c := *x
		return &c
	case *UpdateExpression:
		c := *x
		return &c
	case *BinaryExpression:
		c := *x
		return &c
	case *LogicalExpression:
		c := *x
		return &c
	case *AssignmentExpression:
		c := *x
		return &c
	case *ConditionalExpression:
		c := *x
		return &c
	case *SequenceExpression:
		c := *x
		return &c
	}
	return n
}

// Clone returns a deep copy of the subtree rooted at n. Metadata is copied
// with the node; comment slices are duplicated.
func Clone(n Node) Node {
	if n == nil {
		return nil
	}
	c := shallowCopy(n)
	m := c.Meta()
	m.LeadingComments = append([]Comment(nil), m.LeadingComments...)
	m.TrailingComments = append([]Comment(nil), m.TrailingComments...)
	for _, slot := range Slots(c) {
		if slot.Ref != nil {
			*slot.Ref = Clone(*slot.Ref)
			continue
		}
		if *slot.List == nil {
			continue
		}
		list := make([]Node, len(*slot.List))
		for i, child := range *slot.List {
			list[i] = Clone(child)
		}
		*slot.List = list
	}
	return c
}
