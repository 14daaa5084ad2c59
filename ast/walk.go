package ast

import "iter"

// Visitor defines the interface for AST traversal. If Visit returns nil,
// children of the node are not visited. Otherwise, the returned Visitor
// is used to visit children.
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// Walk traverses an AST in depth-first order. It starts by calling
// v.Visit(node); if the returned visitor w is not nil, Walk is invoked
// recursively with visitor w for each of the non-nil children of node.
func Walk(v Visitor, node Node) {
	if v = v.Visit(node); v == nil {
		return
	}
	for _, slot := range Slots(node) {
		if slot.Ref != nil {
			if !IsNil(*slot.Ref) {
				Walk(v, *slot.Ref)
			}
			continue
		}
		for _, child := range *slot.List {
			if !IsNil(child) {
				Walk(v, child)
			}
		}
	}
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}

// Inspect traverses an AST in depth-first order. It starts by calling
// f(node); if f returns true, Inspect invokes f recursively for each of
// the non-nil children of node.
func Inspect(node Node, f func(Node) bool) {
	Walk(inspector(f), node)
}

// Preorder returns an iterator over all the nodes of the syntax tree
// beneath (and including) the specified root, in depth-first preorder.
func Preorder(root Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		var visit func(Node) bool
		visit = func(n Node) bool {
			if !yield(n) {
				return false
			}
			for _, slot := range Slots(n) {
				if slot.Ref != nil {
					if !IsNil(*slot.Ref) && !visit(*slot.Ref) {
						return false
					}
					continue
				}
				for _, child := range *slot.List {
					if !IsNil(child) && !visit(child) {
						return false
					}
				}
			}
			return true
		}
		if !IsNil(root) {
			visit(root)
		}
	}
}

// Find returns the first node in preorder for which match returns true.
func Find(root Node, match func(Node) bool) Node {
	for n := range Preorder(root) {
		if match(n) {
			return n
		}
	}
	return nil
}

// Identifiers returns the set of identifier names referenced in the tree.
func Identifiers(root Node) map[string]bool {
	names := map[string]bool{}
	for n := range Preorder(root) {
		if id, ok := n.(*Identifier); ok {
			names[id.Name] = true
		}
	}
	return names
}
