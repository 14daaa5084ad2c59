// Package modules rewrites import declarations for a target module system.
//
// A formatter is selected by name. The built-in variants are "common",
// which turns imports into require calls, and "ignore", which drops them.
// Further formatters can be registered as external variants.
package modules

import (
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/deepnoodle-ai/morph/ast"
	"github.com/deepnoodle-ai/morph/errors"
	"github.com/deepnoodle-ai/morph/traverse"
)

// Kind identifies the formatter variant.
type Kind int

const (
	Common Kind = iota
	Ignore
	External
)

func (k Kind) String() string {
	switch k {
	case Common:
		return "common"
	case Ignore:
		return "ignore"
	case External:
		return "external"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Host is the compilation a formatter works for.
type Host interface {
	Program() *ast.Program
	Scope() *traverse.Scope
	AddHelper(name string) (ast.Node, error)
	IsLoose(key string) bool
}

// Formatter rewrites import declarations. ImportDeclaration handles a
// declaration without specifiers and ImportSpecifier is called once per
// specifier otherwise. Both append the statements replacing the import to
// nodes.
type Formatter interface {
	Kind() Kind

	// Init runs once per file before any pass, when module transformation
	// is enabled.
	Init() error

	ImportDeclaration(decl *ast.ImportDeclaration, nodes *[]ast.Node) error
	ImportSpecifier(spec ast.Node, decl *ast.ImportDeclaration, nodes *[]ast.Node) error

	// Imports returns the import metadata collected by Init.
	Imports() []Import
}

// Factory creates a formatter for one file.
type Factory func(host Host) Formatter

// Import describes one import declaration of a file.
type Import struct {
	Source     string            `json:"source"`
	Imported   []string          `json:"imported"`
	Specifiers []ImportSpecifier `json:"specifiers"`
}

// ImportSpecifier describes one binding introduced by an import.
type ImportSpecifier struct {
	Kind     string `json:"kind"`
	Imported string `json:"imported,omitempty"`
	Local    string `json:"local"`
}

var (
	mu       sync.RWMutex
	external = map[string]Factory{}
)

// Register adds an external formatter under name. Built-in names cannot be
// replaced.
func Register(name string, factory Factory) error {
	if name == "common" || name == "ignore" {
		return fmt.Errorf("module formatter %q is built in", name)
	}
	if factory == nil {
		return fmt.Errorf("module formatter %q has no factory", name)
	}
	mu.Lock()
	defer mu.Unlock()
	external[name] = factory
	return nil
}

// Unregister removes an external formatter.
func Unregister(name string) {
	mu.Lock()
	defer mu.Unlock()
	delete(external, name)
}

// Names returns the names of every available formatter.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(external))
	for name := range external {
		names = append(names, name)
	}
	sort.Strings(names)
	return slices.Concat([]string{"common", "ignore"}, names)
}

// New returns the formatter registered under name for host.
func New(name string, host Host) (Formatter, error) {
	switch name {
	case "", "common":
		return newCommon(host), nil
	case "ignore":
		return newIgnore(host), nil
	}
	mu.RLock()
	factory, ok := external[name]
	mu.RUnlock()
	if !ok {
		return nil, errors.NewUnknownModuleFormatterError(name, Names())
	}
	return factory(host), nil
}

// collectImports returns the metadata of the import declarations at the
// top level of prog.
func collectImports(prog *ast.Program) []Import {
	var imports []Import
	for _, stmt := range prog.Body {
		decl, ok := stmt.(*ast.ImportDeclaration)
		if !ok {
			continue
		}
		imp := Import{Source: sourceOf(decl), Imported: []string{}, Specifiers: []ImportSpecifier{}}
		for _, spec := range decl.Specifiers {
			s := describe(spec)
			imp.Specifiers = append(imp.Specifiers, s)
			if s.Imported != "" {
				imp.Imported = append(imp.Imported, s.Imported)
			}
		}
		imports = append(imports, imp)
	}
	return imports
}

func describe(spec ast.Node) ImportSpecifier {
	switch s := spec.(type) {
	case *ast.ImportDefaultSpecifier:
		return ImportSpecifier{Kind: "default", Imported: "default", Local: name(s.Local)}
	case *ast.ImportNamespaceSpecifier:
		return ImportSpecifier{Kind: "namespace", Local: name(s.Local)}
	case *ast.ImportSpecifier:
		return ImportSpecifier{Kind: "named", Imported: name(s.Imported), Local: name(s.Local)}
	}
	return ImportSpecifier{}
}

func name(n ast.Node) string {
	if id, ok := n.(*ast.Identifier); ok {
		return id.Name
	}
	return ""
}

func sourceOf(decl *ast.ImportDeclaration) string {
	if s, ok := decl.Source.(*ast.StringLiteral); ok {
		return s.Value
	}
	return ""
}
