package traverse

import (
	"slices"

	"github.com/deepnoodle-ai/morph/ast"
)

// Tree tracks the paths currently being visited. Every insertion into or
// removal from a node list goes through the Tree, which shifts the index
// of each active path on that list so a walk never revisits or skips a
// node because of a mutation elsewhere in the same list.
//
// One Tree is shared by every traversal of a file.
type Tree struct {
	active []*Path
}

// NewTree returns an empty Tree.
func NewTree() *Tree {
	return &Tree{}
}

func (t *Tree) push(p *Path) {
	t.active = append(t.active, p)
}

func (t *Tree) pop() {
	t.active = t.active[:len(t.active)-1]
}

// Insert inserts nodes into list at index.
func (t *Tree) Insert(list *[]ast.Node, index int, nodes ...ast.Node) {
	if len(nodes) == 0 {
		return
	}
	index = max(0, min(index, len(*list)))
	*list = slices.Insert(*list, index, nodes...)
	t.shift(list, index, len(nodes))
}

// RemoveAt removes the node at index from list.
func (t *Tree) RemoveAt(list *[]ast.Node, index int) {
	if index < 0 || index >= len(*list) {
		return
	}
	*list = slices.Delete(*list, index, index+1)
	t.shift(list, index+1, -1)
}

// shift moves every active path on list at or after from by delta.
func (t *Tree) shift(list *[]ast.Node, from, delta int) {
	for _, p := range t.active {
		if p.list == list && p.Index >= from {
			p.Index += delta
		}
	}
}
