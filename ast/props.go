package ast

// Props returns the scalar (non-child) fields of n keyed by their JSON name.
func Props(n Node) map[string]any {
	switch x := n.(type) {
	case *VariableDeclaration:
		return map[string]any{"kind": x.Kind}
	case *Identifier:
		return map[string]any{"name": x.Name}
	case *StringLiteral:
		return map[string]any{"value": x.Value}
	case *NumericLiteral:
		return map[string]any{"value": x.Value, "raw": x.Raw}
	case *BooleanLiteral:
		return map[string]any{"value": x.Value}
	case *TemplateElement:
		return map[string]any{"raw": x.Raw, "cooked": x.Cooked, "tail": x.Tail}
	case *ObjectProperty:
		return map[string]any{"computed": x.Computed}
	case *MemberExpression:
		return map[string]any{"computed": x.Computed}
	case *UnaryExpression:
		return map[string]any{"operator": x.Operator}
	case *UpdateExpression:
		return map[string]any{"operator": x.Operator, "prefix": x.Prefix}
	case *BinaryExpression:
		return map[string]any{"operator": x.Operator}
	case *LogicalExpression:
		return map[string]any{"operator": x.Operator}
	case *AssignmentExpression:
		return map[string]any{"operator": x.Operator}
	}
	return nil
}

