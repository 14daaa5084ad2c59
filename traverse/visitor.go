package traverse

import "github.com/deepnoodle-ai/morph/ast"

// Handler is called for a node on entry or exit. state is the value the
// handler's visitor was bound to when merged, usually the pass running it.
// Returning an error aborts the traversal.
type Handler func(path *Path, state any) error

type binding struct {
	fn    Handler
	state any
	bound bool
}

// Visitor maps node types to ordered enter and exit handlers. Handlers
// registered for ast.TypeAny run for every node, before the typed ones.
type Visitor struct {
	enter map[ast.NodeType][]binding
	exit  map[ast.NodeType][]binding
	types []ast.NodeType
}

// NewVisitor returns an empty visitor.
func NewVisitor() *Visitor {
	return &Visitor{
		enter: map[ast.NodeType][]binding{},
		exit:  map[ast.NodeType][]binding{},
	}
}

// Enter registers handlers run when a node of type t is entered.
func (v *Visitor) Enter(t ast.NodeType, handlers ...Handler) *Visitor {
	v.track(t)
	for _, h := range handlers {
		v.enter[t] = append(v.enter[t], binding{fn: h})
	}
	return v
}

// Exit registers handlers run after the children of a node of type t.
func (v *Visitor) Exit(t ast.NodeType, handlers ...Handler) *Visitor {
	v.track(t)
	for _, h := range handlers {
		v.exit[t] = append(v.exit[t], binding{fn: h})
	}
	return v
}

func (v *Visitor) track(t ast.NodeType) {
	for _, seen := range v.types {
		if seen == t {
			return
		}
	}
	v.types = append(v.types, t)
}

// Types returns the node types the visitor has handlers for, in the order
// they were first registered.
func (v *Visitor) Types() []ast.NodeType {
	return append([]ast.NodeType(nil), v.types...)
}

// Len returns the number of enter and exit handlers registered.
func (v *Visitor) Len() int {
	n := 0
	for _, hs := range v.enter {
		n += len(hs)
	}
	for _, hs := range v.exit {
		n += len(hs)
	}
	return n
}

// Bind returns a copy of v whose unbound handlers receive state.
func (v *Visitor) Bind(state any) *Visitor {
	return Merge([]*Visitor{v}, []any{state})
}

// Merge combines visitors into one. For every node type the handlers of
// each visitor are concatenated in input order. Handlers not yet bound to
// a state are bound to states[i], the state of the visitor they came
// from; handlers of an already merged visitor keep their binding.
func Merge(visitors []*Visitor, states []any) *Visitor {
	out := NewVisitor()
	for i, v := range visitors {
		if v == nil {
			continue
		}
		var state any
		if i < len(states) {
			state = states[i]
		}
		for _, t := range v.types {
			out.track(t)
			out.enter[t] = appendBound(out.enter[t], v.enter[t], state)
			out.exit[t] = appendBound(out.exit[t], v.exit[t], state)
		}
	}
	return out
}

func appendBound(dst, src []binding, state any) []binding {
	for _, b := range src {
		if !b.bound {
			b.state = state
			b.bound = true
		}
		dst = append(dst, b)
	}
	return dst
}

func (v *Visitor) handlers(phase map[ast.NodeType][]binding, t ast.NodeType) []binding {
	anyHandlers := phase[ast.TypeAny]
	typed := phase[t]
	if len(anyHandlers) == 0 {
		return typed
	}
	if len(typed) == 0 {
		return anyHandlers
	}
	out := make([]binding, 0, len(anyHandlers)+len(typed))
	out = append(out, anyHandlers...)
	return append(out, typed...)
}
