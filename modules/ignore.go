package modules

import "github.com/deepnoodle-ai/morph/ast"

// ignore removes import declarations from the output.
type ignore struct {
	host    Host
	imports []Import
}

func newIgnore(host Host) *ignore {
	return &ignore{host: host}
}

func (f *ignore) Kind() Kind { return Ignore }

func (f *ignore) Init() error {
	f.imports = collectImports(f.host.Program())
	return nil
}

func (f *ignore) Imports() []Import { return f.imports }

func (f *ignore) ImportDeclaration(*ast.ImportDeclaration, *[]ast.Node) error { return nil }

func (f *ignore) ImportSpecifier(ast.Node, *ast.ImportDeclaration, *[]ast.Node) error { return nil }
