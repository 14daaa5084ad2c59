package transform

import (
	"fmt"
	"strings"

	"github.com/deepnoodle-ai/morph/traverse"
)

// Hook is a lifecycle callback run once per file, before or after every
// pass has walked the tree.
type Hook func(pass *Pass, file *File) error

// Metadata describes how a plugin is scheduled.
type Metadata struct {
	// Group fuses the plugin with every other enabled plugin of the same
	// group into a single tree walk.
	Group string

	// SecondPass runs the plugin again after every other pass.
	SecondPass bool

	// Dependencies names plugins this one relies on. Recorded for
	// diagnostics only; it does not affect ordering.
	Dependencies []string

	// Optional plugins only run when listed in Options.Optional.
	Optional bool

	// Condition is an expression evaluated against the file options. The
	// plugin is disabled when it evaluates to false. See conditionEnv for
	// the variables available.
	Condition string

	// Requires is a semantic version constraint on APIVersion.
	Requires string

	// Plugin marks a dynamically configured plugin as opposed to a
	// statically registered transformer.
	Plugin bool
}

// Plugin is a named visitor plus scheduling metadata. A Plugin is
// immutable once registered and may be shared by concurrent compilations.
type Plugin struct {
	Name     string
	Visitor  *traverse.Visitor
	Metadata Metadata

	// ManipulateOptions may adjust the file options of an enabled plugin
	// before any file is parsed.
	ManipulateOptions func(opts *Options, file *File)

	Pre  Hook
	Post Hook
}

// NewPlugin returns a plugin named name with an empty visitor.
func NewPlugin(name string, meta Metadata) *Plugin {
	return &Plugin{Name: name, Visitor: traverse.NewVisitor(), Metadata: meta}
}

// Position selects where a dynamically configured plugin is inserted
// relative to the static transformers.
type Position string

const (
	Before Position = "before"
	After  Position = "after"
)

// PluginSpec configures one dynamic plugin for a compilation. Either
// Plugin is set, or Name refers to a plugin registered on the Pipeline.
type PluginSpec struct {
	Name     string
	Plugin   *Plugin
	Position Position
	Options  map[string]any
}

// ParsePluginSpec parses "name" or "name:position".
func ParsePluginSpec(s string) PluginSpec {
	name, position, _ := strings.Cut(s, ":")
	return PluginSpec{Name: name, Position: Position(position)}
}

func (s PluginSpec) String() string {
	name := s.Name
	if name == "" && s.Plugin != nil {
		name = s.Plugin.Name
	}
	if s.Position != "" {
		return fmt.Sprintf("%s:%s", name, s.Position)
	}
	return name
}
