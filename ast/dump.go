package ast

import (
	"github.com/goccy/go-json"
)

// ToMap converts the subtree rooted at n into a generic map in the ESTree
// layout: a "type" key, the node's scalar properties, its children by key,
// and "loc" when the node is located.
func ToMap(n Node) map[string]any {
	if IsNil(n) {
		return nil
	}
	out := map[string]any{"type": string(n.Type())}
	for k, v := range Props(n) {
		out[k] = v
	}
	m := n.Meta()
	if m.Loc != nil {
		out["loc"] = m.Loc
	}
	if len(m.LeadingComments) > 0 {
		out["leadingComments"] = m.LeadingComments
	}
	if len(m.TrailingComments) > 0 {
		out["trailingComments"] = m.TrailingComments
	}
	for _, slot := range Slots(n) {
		if slot.Ref != nil {
			if IsNil(*slot.Ref) {
				out[slot.Key] = nil
			} else {
				out[slot.Key] = ToMap(*slot.Ref)
			}
			continue
		}
		list := make([]any, 0, len(*slot.List))
		for _, child := range *slot.List {
			if IsNil(child) {
				list = append(list, nil)
			} else {
				list = append(list, ToMap(child))
			}
		}
		out[slot.Key] = list
	}
	return out
}

// Dump returns the JSON encoding of the subtree rooted at n.
func Dump(n Node, indent bool) ([]byte, error) {
	if indent {
		return json.MarshalIndent(ToMap(n), "", "  ")
	}
	return json.Marshal(ToMap(n))
}
