package traverse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/deepnoodle-ai/morph/ast"
	"github.com/deepnoodle-ai/morph/internal/lexer"
	"github.com/deepnoodle-ai/morph/internal/token"
)

// Scope tracks the bindings declared by a program or function and
// generates identifiers that do not collide with anything in the file.
// Generated identifiers and the set of referenced names are kept on the
// program scope.
type Scope struct {
	Block  ast.Node
	Parent *Scope

	tree       *Tree
	bindings   map[string]ast.Node
	references map[string]bool
	uids       map[string]bool
	data       map[string]*ast.VariableDeclaration
}

// NewScope returns the program scope for prog, with its bindings and the
// names referenced anywhere in the program collected.
func NewScope(prog *ast.Program) *Scope {
	s := &Scope{
		Block:      prog,
		tree:       NewTree(),
		bindings:   map[string]ast.Node{},
		references: ast.Identifiers(prog),
		uids:       map[string]bool{},
		data:       map[string]*ast.VariableDeclaration{},
	}
	s.crawl()
	return s
}

func (s *Scope) child(fn ast.Node) *Scope {
	c := &Scope{
		Block:    fn,
		Parent:   s,
		tree:     s.tree,
		bindings: map[string]ast.Node{},
		data:     map[string]*ast.VariableDeclaration{},
	}
	c.crawl()
	return c
}

// Crawl recollects the bindings of the scope from the current tree. On
// the program scope the referenced names are refreshed too; generated
// identifiers stay reserved.
func (s *Scope) Crawl() {
	s.bindings = map[string]ast.Node{}
	s.crawl()
	if prog, ok := s.Block.(*ast.Program); ok && s.Parent == nil {
		for name := range ast.Identifiers(prog) {
			s.references[name] = true
		}
	}
}

// Program returns the outermost scope.
func (s *Scope) Program() *Scope {
	for s.Parent != nil {
		s = s.Parent
	}
	return s
}

// Tree returns the cursor registry shared by every path of the file.
func (s *Scope) Tree() *Tree {
	return s.tree
}

// HasBinding reports whether name is declared in this scope or any
// enclosing one.
func (s *Scope) HasBinding(name string) bool {
	for cur := s; cur != nil; cur = cur.Parent {
		if _, ok := cur.bindings[name]; ok {
			return true
		}
	}
	return false
}

// OwnBinding returns the node declaring name in this scope only.
func (s *Scope) OwnBinding(name string) (ast.Node, bool) {
	n, ok := s.bindings[name]
	return n, ok
}

// HasReference reports whether name appears anywhere in the program or
// has been handed out as a generated identifier.
func (s *Scope) HasReference(name string) bool {
	return s.Program().references[name]
}

// HasUID reports whether name was produced by GenerateUID.
func (s *Scope) HasUID(name string) bool {
	return s.Program().uids[name]
}

// GenerateUID returns a fresh identifier name derived from name. The
// candidates are _name, _name2, _name3 and so on; the first one that is
// not bound, referenced or previously generated is returned and reserved.
func (s *Scope) GenerateUID(name string) string {
	name = strings.TrimLeft(ToIdentifier(name), "_")
	name = trailingDigits.ReplaceAllString(name, "")

	var uid string
	for i := 0; ; i++ {
		uid = "_" + name
		if i > 1 {
			uid += strconv.Itoa(i)
		}
		if !s.HasBinding(uid) && !s.HasReference(uid) && !s.HasUID(uid) {
			break
		}
	}
	program := s.Program()
	program.references[uid] = true
	program.uids[uid] = true
	return uid
}

// GenerateUIDIdentifier is GenerateUID returning an identifier node.
func (s *Scope) GenerateUIDIdentifier(name string) *ast.Identifier {
	return ast.NewIdentifier(s.GenerateUID(name))
}

// PushOptions describes a variable declared by Scope.Push.
type PushOptions struct {
	ID   ast.Node
	Init ast.Node

	// Unique forces a new declaration statement instead of appending to
	// the shared one for the same kind and priority.
	Unique bool

	// Kind is the declaration keyword, "var" when empty.
	Kind string

	// BlockHoist is the priority of the declaration statement, 2 when zero.
	BlockHoist float64

	// Decorate is called on a newly created declaration statement.
	Decorate func(*ast.VariableDeclaration)
}

// Push declares opts.ID at the top of the scope's body. Declarations that
// are not unique share one statement per kind and hoist priority. The
// declaration statement is returned.
func (s *Scope) Push(opts PushOptions) (*ast.VariableDeclaration, error) {
	body := s.body()
	if body == nil {
		return nil, fmt.Errorf("cannot declare variables in %s", s.Block.Type())
	}
	kind := opts.Kind
	if kind == "" {
		kind = "var"
	}
	hoist := opts.BlockHoist
	if hoist == 0 {
		hoist = 2
	}
	key := fmt.Sprintf("declaration:%s:%s", kind, strconv.FormatFloat(hoist, 'g', -1, 64))

	var decl *ast.VariableDeclaration
	if !opts.Unique {
		decl = s.data[key]
	}
	if decl == nil {
		decl = &ast.VariableDeclaration{Kind: kind, Declarations: []ast.Node{}}
		decl.Generated = true
		decl.SetBlockHoist(hoist)
		if opts.Decorate != nil {
			opts.Decorate(decl)
		}
		s.tree.Insert(body, 0, decl)
		if !opts.Unique {
			s.data[key] = decl
		}
	}
	decl.Declarations = append(decl.Declarations, &ast.VariableDeclarator{ID: opts.ID, Init: opts.Init})
	if id, ok := opts.ID.(*ast.Identifier); ok {
		s.bindings[id.Name] = decl
	}
	return decl, nil
}

// body returns the statement list declarations are pushed into.
func (s *Scope) body() *[]ast.Node {
	switch b := s.Block.(type) {
	case *ast.Program:
		return &b.Body
	case *ast.FunctionDeclaration:
		return blockBody(b.Body)
	case *ast.FunctionExpression:
		return blockBody(b.Body)
	}
	return nil
}

func blockBody(n ast.Node) *[]ast.Node {
	if block, ok := n.(*ast.BlockStatement); ok {
		return &block.Body
	}
	return nil
}

// crawl collects the declarations owned by the scope block. Nested
// functions are skipped except for the name of a function declaration.
func (s *Scope) crawl() {
	var root ast.Node = s.Block
	switch fn := s.Block.(type) {
	case *ast.FunctionDeclaration:
		s.registerParams(fn.Params)
		root = fn.Body
	case *ast.FunctionExpression:
		if id, ok := fn.ID.(*ast.Identifier); ok {
			s.bindings[id.Name] = fn
		}
		s.registerParams(fn.Params)
		root = fn.Body
	}
	if ast.IsNil(root) {
		return
	}
	ast.Inspect(root, func(n ast.Node) bool {
		switch x := n.(type) {
		case *ast.FunctionDeclaration:
			if id, ok := x.ID.(*ast.Identifier); ok {
				s.bindings[id.Name] = x
			}
			return false
		case *ast.FunctionExpression:
			return false
		case *ast.VariableDeclarator:
			if id, ok := x.ID.(*ast.Identifier); ok {
				s.bindings[id.Name] = x
			}
		case *ast.CatchClause:
			if id, ok := x.Param.(*ast.Identifier); ok {
				s.bindings[id.Name] = x
			}
		case *ast.ImportDefaultSpecifier:
			s.registerLocal(x.Local, x)
		case *ast.ImportNamespaceSpecifier:
			s.registerLocal(x.Local, x)
		case *ast.ImportSpecifier:
			s.registerLocal(x.Local, x)
		}
		return true
	})
}

func (s *Scope) registerParams(params []ast.Node) {
	for _, param := range params {
		if id, ok := param.(*ast.Identifier); ok {
			s.bindings[id.Name] = param
		}
	}
}

func (s *Scope) registerLocal(local ast.Node, decl ast.Node) {
	if id, ok := local.(*ast.Identifier); ok {
		s.bindings[id.Name] = decl
	}
}

var (
	nonIdentifierChars = regexp.MustCompile(`[^a-zA-Z0-9$_]`)
	leadingDashDigits  = regexp.MustCompile(`^[-0-9]+`)
	dashSeparated      = regexp.MustCompile(`[-\s]+(.)?`)
	trailingDigits     = regexp.MustCompile(`[0-9]+$`)
)

// ToIdentifier turns an arbitrary string into a valid identifier name by
// camel-casing across invalid characters, as in "create-class" to
// "createClass". Reserved words are prefixed with an underscore.
func ToIdentifier(name string) string {
	name = nonIdentifierChars.ReplaceAllString(name, "-")
	name = leadingDashDigits.ReplaceAllString(name, "")
	name = dashSeparated.ReplaceAllStringFunc(name, func(m string) string {
		c := strings.TrimLeft(m, "- \t\n\r\f\v")
		return strings.ToUpper(c)
	})
	if !IsValidIdentifier(name) {
		name = "_" + name
	}
	if name == "" {
		return "_"
	}
	return name
}

// IsValidIdentifier reports whether name can be used as a variable name.
func IsValidIdentifier(name string) bool {
	return lexer.IsIdentifierName(name) && !token.IsReservedWord(name)
}
