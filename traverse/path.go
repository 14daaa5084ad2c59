package traverse

import (
	"github.com/deepnoodle-ai/morph/ast"
)

// Path is a cursor on one node of the tree being walked. It records where
// the node lives in its parent so handlers can replace, remove or insert
// around it.
type Path struct {
	Node   ast.Node
	Parent *Path
	Key    string

	// Index is the position of the node in a list slot, or -1 when the
	// node sits in a single child slot.
	Index int

	Scope *Scope

	tree *Tree
	walk *walker
	ref  *ast.Node
	list *[]ast.Node

	skipped bool
	removed bool
}

// NewPath returns a root path for node with no parent.
func NewPath(node ast.Node, scope *Scope) *Path {
	p := &Path{Node: node, Index: -1, Scope: scope, ref: &node}
	if scope != nil {
		p.tree = scope.tree
	}
	if p.tree == nil {
		p.tree = NewTree()
	}
	return p
}

func (p *Path) child(node ast.Node, key string, index int, ref *ast.Node, list *[]ast.Node) *Path {
	return &Path{
		Node:   node,
		Parent: p,
		Key:    key,
		Index:  index,
		Scope:  p.Scope,
		tree:   p.tree,
		walk:   p.walk,
		ref:    ref,
		list:   list,
	}
}

// ParentNode returns the parent's node, or nil at the root.
func (p *Path) ParentNode() ast.Node {
	if p.Parent == nil {
		return nil
	}
	return p.Parent.Node
}

// Get returns a path to the child of the node in the slot named key. For
// list slots the path addresses the first element, if any.
func (p *Path) Get(key string) *Path {
	for _, slot := range ast.Slots(p.Node) {
		if slot.Key != key {
			continue
		}
		if slot.Ref != nil {
			return p.child(*slot.Ref, key, -1, slot.Ref, nil)
		}
		if len(*slot.List) == 0 {
			return nil
		}
		return p.child((*slot.List)[0], key, 0, nil, slot.List)
	}
	return nil
}

// Find walks up from p (inclusive) and returns the first path for which
// match returns true.
func (p *Path) Find(match func(*Path) bool) *Path {
	for cur := p; cur != nil; cur = cur.Parent {
		if match(cur) {
			return cur
		}
	}
	return nil
}

// Siblings returns the list containing the node, or nil when the node is
// in a single child slot.
func (p *Path) Siblings() []ast.Node {
	if p.list == nil {
		return nil
	}
	return *p.list
}

// InList reports whether the node is an element of a list slot.
func (p *Path) InList() bool {
	return p.list != nil
}

// Replace puts n in place of the current node. The replacement inherits
// the comments of the node it replaces unless it carries its own. An
// expression replacing a statement is wrapped in an expression statement.
// The replacement's children are walked but the replacement itself is not
// visited again.
func (p *Path) Replace(n ast.Node) {
	if p.removed {
		return
	}
	old := p.Node
	if ast.IsStatement(old) && !ast.IsStatement(n) && n.Type() != ast.TypeProgram {
		n = ast.ToStatement(n)
	}
	inheritComments(n, old)
	p.set(n)
	p.Node = n
}

// ReplaceWithMultiple replaces the current node, which must be an element
// of a list slot, with nodes. Nodes after the first are inserted after it
// and will be visited by an active walk.
func (p *Path) ReplaceWithMultiple(nodes ...ast.Node) {
	if len(nodes) == 0 {
		p.Remove()
		return
	}
	if p.list == nil {
		p.Replace(nodes[0])
		return
	}
	if len(nodes) > 1 {
		rest := make([]ast.Node, 0, len(nodes)-1)
		for _, n := range nodes[1:] {
			rest = append(rest, p.coerce(n))
		}
		p.tree.Insert(p.list, p.Index+1, rest...)
	}
	p.Replace(nodes[0])
}

// Remove detaches the node. In a list slot the element is deleted; in a
// single slot the slot is set to nil.
func (p *Path) Remove() {
	if p.removed {
		return
	}
	if p.list != nil {
		p.tree.RemoveAt(p.list, p.Index)
	} else if p.ref != nil {
		*p.ref = nil
	}
	p.removed = true
}

// IsRemoved reports whether the node has been removed.
func (p *Path) IsRemoved() bool {
	return p.removed
}

// InsertBefore inserts nodes before the current list element. Inserted
// nodes are not visited by the active walk.
func (p *Path) InsertBefore(nodes ...ast.Node) {
	if p.list == nil {
		return
	}
	p.tree.Insert(p.list, p.Index, p.coerceAll(nodes)...)
}

// InsertAfter inserts nodes after the current list element. Inserted
// nodes are visited by the active walk.
func (p *Path) InsertAfter(nodes ...ast.Node) {
	if p.list == nil {
		return
	}
	p.tree.Insert(p.list, p.Index+1, p.coerceAll(nodes)...)
}

// UnshiftContainer inserts nodes at the start of the list slot named key
// of the current node.
func (p *Path) UnshiftContainer(key string, nodes ...ast.Node) {
	if list := listSlot(p.Node, key); list != nil {
		p.tree.Insert(list, 0, nodes...)
	}
}

// PushContainer appends nodes to the list slot named key of the current
// node.
func (p *Path) PushContainer(key string, nodes ...ast.Node) {
	if list := listSlot(p.Node, key); list != nil {
		p.tree.Insert(list, len(*list), nodes...)
	}
}

// Skip prevents the walk from descending into the node's children and
// from running its exit handlers.
func (p *Path) Skip() {
	p.skipped = true
}

// Stop ends the walk once the current node's enter handlers have run.
func (p *Path) Stop() {
	p.skipped = true
	if p.walk != nil {
		p.walk.stopped = true
	}
}

func (p *Path) set(n ast.Node) {
	switch {
	case p.list != nil:
		if p.Index >= 0 && p.Index < len(*p.list) {
			(*p.list)[p.Index] = n
		}
	case p.ref != nil:
		*p.ref = n
	}
}

// coerce wraps expressions inserted into a statement list.
func (p *Path) coerce(n ast.Node) ast.Node {
	if ast.IsStatement(p.Node) && !ast.IsStatement(n) {
		return ast.ToStatement(n)
	}
	return n
}

func (p *Path) coerceAll(nodes []ast.Node) []ast.Node {
	out := make([]ast.Node, len(nodes))
	for i, n := range nodes {
		out[i] = p.coerce(n)
	}
	return out
}

func listSlot(n ast.Node, key string) *[]ast.Node {
	for _, slot := range ast.Slots(n) {
		if slot.Key == key && slot.List != nil {
			return slot.List
		}
	}
	return nil
}

func inheritComments(dst, src ast.Node) {
	if ast.IsNil(dst) || ast.IsNil(src) {
		return
	}
	d, s := dst.Meta(), src.Meta()
	if len(d.LeadingComments) == 0 && len(d.TrailingComments) == 0 {
		d.LeadingComments = s.LeadingComments
		d.TrailingComments = s.TrailingComments
		s.LeadingComments = nil
		s.TrailingComments = nil
	}
	if d.Loc == nil && d.InternalLoc == nil {
		d.InternalLoc = ast.Location(src)
	}
}
