// Package helpers holds the catalogue of runtime helper functions that
// transformers inject into compiled output.
//
// A Registry maps helper names to templates. Names are kebab-case, for
// example "create-class"; camelCase spellings are accepted everywhere a
// name is looked up.
package helpers

import (
	"context"
	_ "embed"
	"fmt"
	"slices"
	"strings"
	"sync"
	"unicode"

	"github.com/deepnoodle-ai/morph/ast"
	"github.com/deepnoodle-ai/morph/errors"
	"github.com/deepnoodle-ai/morph/parser"
	"gopkg.in/yaml.v3"
)

//go:embed catalogue.yaml
var catalogue []byte

// Helper describes one runtime helper.
type Helper struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Template    string `yaml:"template" json:"-"`

	// Solo helpers are always injected into the file, even when an
	// external helper namespace or generator is configured.
	Solo bool `yaml:"solo,omitempty" json:"solo,omitempty"`
}

type manifest struct {
	Helpers []Helper `yaml:"helpers"`
}

type entry struct {
	Helper
	once sync.Once
	node ast.Node
	err  error
}

// Registry is a set of named helper templates. It is safe for concurrent
// use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
	order   []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: map[string]*entry{}}
}

// Load parses a YAML helper catalogue.
func Load(data []byte) (*Registry, error) {
	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse helper catalogue: %w", err)
	}
	r := NewRegistry()
	for _, h := range m.Helpers {
		if err := r.Register(h); err != nil {
			return nil, err
		}
	}
	return r, nil
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	r, err := Load(catalogue)
	if err != nil {
		panic(err)
	}
	return r
})

// Default returns the registry of built-in helpers. Callers that register
// additional helpers should do so on a Clone.
func Default() *Registry {
	return defaultRegistry()
}

// Register adds a helper. The name must be new and the template non-empty.
func (r *Registry) Register(h Helper) error {
	h.Name = Normalize(h.Name)
	if h.Name == "" {
		return fmt.Errorf("helper name is required")
	}
	if strings.TrimSpace(h.Template) == "" {
		return fmt.Errorf("helper %q has no template", h.Name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[h.Name]; exists {
		return fmt.Errorf("helper %q is already registered", h.Name)
	}
	r.entries[h.Name] = &entry{Helper: h}
	r.order = append(r.order, h.Name)
	return nil
}

// Clone returns a registry with the same helpers as r.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c := NewRegistry()
	for _, name := range r.order {
		c.entries[name] = &entry{Helper: r.entries[name].Helper}
		c.order = append(c.order, name)
	}
	return c
}

// Lookup returns the helper registered under name.
func (r *Registry) Lookup(name string) (Helper, bool) {
	e := r.get(name)
	if e == nil {
		return Helper{}, false
	}
	return e.Helper, true
}

// Has reports whether name is a known helper.
func (r *Registry) Has(name string) bool {
	return r.get(name) != nil
}

// IsSolo reports whether name is a solo helper.
func (r *Registry) IsSolo(name string) bool {
	e := r.get(name)
	return e != nil && e.Solo
}

// Names returns the helper names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.order)
}

// Helpers returns every helper in registration order.
func (r *Registry) Helpers() []Helper {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Helper, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.entries[name].Helper)
	}
	return out
}

// Template returns a fresh copy of the expression a helper expands to.
// Templates are parsed once; the returned tree carries no source
// locations or comments and may be modified by the caller.
func (r *Registry) Template(name string) (ast.Node, error) {
	e := r.get(name)
	if e == nil {
		return nil, errors.NewUnknownHelperError(name, r.Names())
	}
	e.once.Do(func() {
		e.node, e.err = parseTemplate(e.Name, e.Template)
	})
	if e.err != nil {
		return nil, e.err
	}
	return ast.Clone(e.node), nil
}

func (r *Registry) get(name string) *entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.entries[Normalize(name)]
}

func parseTemplate(name, source string) (ast.Node, error) {
	program, err := parser.Parse(context.Background(), source, parser.WithFilename("helper-"+name))
	if err != nil {
		return nil, fmt.Errorf("invalid template for helper %q: %w", name, err)
	}
	if len(program.Body) != 1 {
		return nil, fmt.Errorf("template for helper %q must be a single expression", name)
	}
	stmt, ok := program.Body[0].(*ast.ExpressionStatement)
	if !ok {
		return nil, fmt.Errorf("template for helper %q must be a single expression", name)
	}
	for n := range ast.Preorder(stmt.Expression) {
		m := n.Meta()
		m.Loc = nil
		m.InternalLoc = nil
		m.LeadingComments = nil
		m.TrailingComments = nil
	}
	return stmt.Expression, nil
}

// Normalize converts a camelCase helper name to its kebab-case form.
// Names that are already kebab-case are returned unchanged.
func Normalize(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
