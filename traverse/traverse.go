// Package traverse walks and rewrites syntax trees.
//
// A walk visits every node depth first, calling the enter handlers a
// Visitor registered for the node's type before its children and the exit
// handlers after them. Handlers receive a Path, which lets them inspect
// the surroundings of the node and mutate the tree in place.
package traverse

import (
	"github.com/deepnoodle-ai/morph/ast"
)

type walker struct {
	visitor *Visitor
	state   any
	stopped bool
}

// Traverse walks root, including root itself, with v. Handlers that were
// not bound to a state by Merge receive state. scope may be nil, in which
// case a program scope is created when root is a program.
//
// Every enter handler registered for a node runs, even when an earlier one
// called Skip or Stop. A handler that removes or replaces the node ends
// dispatch for it. The first handler error aborts the walk and is returned
// unchanged.
func Traverse(root ast.Node, v *Visitor, scope *Scope, state any) error {
	if ast.IsNil(root) || v == nil {
		return nil
	}
	if scope == nil {
		if prog, ok := root.(*ast.Program); ok {
			scope = NewScope(prog)
		}
	}
	w := &walker{visitor: v, state: state}
	p := NewPath(root, scope)
	p.walk = w
	return w.visit(p)
}

func (w *walker) visit(p *Path) error {
	p.tree.push(p)
	defer p.tree.pop()

	if ast.IsFunction(p.Node) && p.Scope != nil && p.Scope.Block != p.Node {
		p.Scope = p.Scope.child(p.Node)
	}
	if err := w.call(p, w.visitor.enter); err != nil {
		return err
	}
	if p.removed || p.skipped || w.stopped {
		return nil
	}
	if err := w.children(p); err != nil {
		return err
	}
	if p.removed || w.stopped {
		return nil
	}
	return w.call(p, w.visitor.exit)
}

func (w *walker) call(p *Path, phase map[ast.NodeType][]binding) error {
	node := p.Node
	for _, b := range w.visitor.handlers(phase, node.Type()) {
		state := w.state
		if b.bound {
			state = b.state
		}
		if err := b.fn(p, state); err != nil {
			return err
		}
		if p.removed || p.Node != node {
			return nil
		}
	}
	return nil
}

func (w *walker) children(p *Path) error {
	for _, slot := range ast.Slots(p.Node) {
		if slot.Ref != nil {
			if ast.IsNil(*slot.Ref) {
				continue
			}
			if err := w.visit(p.child(*slot.Ref, slot.Key, -1, slot.Ref, nil)); err != nil {
				return err
			}
			if w.stopped {
				return nil
			}
			continue
		}
		list := slot.List
		for i := 0; i < len(*list); {
			n := (*list)[i]
			if ast.IsNil(n) {
				i++
				continue
			}
			c := p.child(n, slot.Key, i, nil, list)
			if err := w.visit(c); err != nil {
				return err
			}
			if w.stopped {
				return nil
			}
			if c.removed {
				i = c.Index
			} else {
				i = c.Index + 1
			}
		}
	}
	return nil
}
