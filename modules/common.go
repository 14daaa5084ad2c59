package modules

import (
	"github.com/deepnoodle-ai/morph/ast"
)

// common compiles imports to CommonJS require calls.
type common struct {
	host    Host
	imports []Import

	// refs caches the variable holding each required module for named
	// imports, keyed by source.
	refs map[string]*ast.Identifier
}

func newCommon(host Host) *common {
	return &common{host: host, refs: map[string]*ast.Identifier{}}
}

func (c *common) Kind() Kind { return Common }

func (c *common) Init() error {
	c.imports = collectImports(c.host.Program())
	return nil
}

func (c *common) Imports() []Import { return c.imports }

// ImportDeclaration compiles `import "x"` to `require("x");`.
func (c *common) ImportDeclaration(decl *ast.ImportDeclaration, nodes *[]ast.Node) error {
	*nodes = append(*nodes, ast.NewExpressionStatement(c.require(decl)))
	return nil
}

func (c *common) ImportSpecifier(spec ast.Node, decl *ast.ImportDeclaration, nodes *[]ast.Node) error {
	loose := c.host.IsLoose("es6.modules")
	switch s := spec.(type) {
	case *ast.ImportDefaultSpecifier:
		// var x = _interopRequire(require("x"));
		var init ast.Node = c.require(decl)
		if loose {
			init = ast.NewComputedMember(init, ast.NewStringLiteral("default"))
		} else {
			helper, err := c.host.AddHelper("interop-require")
			if err != nil {
				return err
			}
			init = ast.NewCall(helper, init)
		}
		*nodes = append(*nodes, declare(s.Local, init))
	case *ast.ImportNamespaceSpecifier:
		// var ns = _interopRequireWildcard(require("x"));
		var init ast.Node = c.require(decl)
		if !loose {
			helper, err := c.host.AddHelper("interop-require-wildcard")
			if err != nil {
				return err
			}
			init = ast.NewCall(helper, init)
		}
		*nodes = append(*nodes, declare(s.Local, init))
	case *ast.ImportSpecifier:
		// var _x = require("x"); var b = _x.a;
		source := sourceOf(decl)
		ref, ok := c.refs[source]
		if !ok {
			ref = c.host.Scope().GenerateUIDIdentifier(source)
			c.refs[source] = ref
			*nodes = append(*nodes, declare(ref, c.require(decl)))
		}
		imported := name(s.Imported)
		var member ast.Node
		if imported == "default" {
			member = ast.NewComputedMember(ast.NewIdentifier(ref.Name), ast.NewStringLiteral(imported))
		} else {
			member = ast.NewMember(ast.NewIdentifier(ref.Name), imported)
		}
		*nodes = append(*nodes, declare(s.Local, member))
	}
	return nil
}

func (c *common) require(decl *ast.ImportDeclaration) ast.Node {
	return ast.NewCall(ast.NewIdentifier("require"), ast.NewStringLiteral(sourceOf(decl)))
}

func declare(id ast.Node, init ast.Node) *ast.VariableDeclaration {
	return ast.NewVarDeclaration("var", ast.Clone(id), init)
}
