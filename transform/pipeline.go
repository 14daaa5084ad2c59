package transform

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/deepnoodle-ai/morph/ast"
	"github.com/deepnoodle-ai/morph/codeframe"
	"github.com/deepnoodle-ai/morph/errors"
	"github.com/deepnoodle-ai/morph/helpers"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// APIVersion is the plugin API version checked against Metadata.Requires.
const APIVersion = "5.8.0"

var apiVersion = semver.MustParse(APIVersion)

// Pipeline holds the statically registered transformers, the named plugins
// available to PluginSpecs and the helper catalogue. Registration must
// happen before the pipeline is used; Transform is safe for concurrent use.
type Pipeline struct {
	mu           sync.RWMutex
	transformers []*Plugin
	plugins      map[string]*Plugin
	helpers      *helpers.Registry
	metrics      *Metrics

	// conditions caches compiled plugin conditions by source.
	conditions sync.Map
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithHelpers replaces the default helper catalogue.
func WithHelpers(r *helpers.Registry) PipelineOption {
	return func(p *Pipeline) {
		p.helpers = r
	}
}

// WithMetrics records pass durations, helper injections and file outcomes.
func WithMetrics(m *Metrics) PipelineOption {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

// NewPipeline returns a pipeline without transformers.
func NewPipeline(opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		plugins: map[string]*Plugin{},
		helpers: helpers.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// AddTransformer appends a static transformer. Transformers run in the
// order they are added.
func (p *Pipeline) AddTransformer(plugin *Plugin) error {
	if err := checkPlugin(plugin); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.hasTransformer(plugin.Name) {
		return errors.NewPluginError(errors.E2004, plugin.Name, "transformer %s is already registered", plugin.Name)
	}
	p.transformers = append(p.transformers, plugin)
	return nil
}

// RegisterPlugin makes plugin available to PluginSpecs by name.
func (p *Pipeline) RegisterPlugin(plugin *Plugin) error {
	if err := checkPlugin(plugin); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.plugins[plugin.Name]; ok || p.hasTransformer(plugin.Name) {
		return errors.NewPluginError(errors.E2004, plugin.Name, "plugin %s is already registered", plugin.Name)
	}
	plugin.Metadata.Plugin = true
	p.plugins[plugin.Name] = plugin
	return nil
}

func (p *Pipeline) hasTransformer(name string) bool {
	return slices.ContainsFunc(p.transformers, func(t *Plugin) bool { return t.Name == name })
}

// Transformers returns the static transformers in run order.
func (p *Pipeline) Transformers() []*Plugin {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return slices.Clone(p.transformers)
}

// Transformer returns the static transformer called name.
func (p *Pipeline) Transformer(name string) (*Plugin, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, t := range p.transformers {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}

// Plugin returns the registered plugin called name.
func (p *Pipeline) Plugin(name string) (*Plugin, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	plugin, ok := p.plugins[name]
	return plugin, ok
}

// PluginNames returns the names of the registered plugins, sorted.
func (p *Pipeline) PluginNames() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	names := make([]string, 0, len(p.plugins))
	for name := range p.plugins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Helpers returns the helper catalogue.
func (p *Pipeline) Helpers() *helpers.Registry {
	return p.helpers
}

// Transform parses and compiles code.
func (p *Pipeline) Transform(ctx context.Context, code string, opts Options) (*Result, error) {
	return p.run(ctx, code, opts, func(f *File) error {
		if err := f.addCode(code); err != nil {
			return err
		}
		return f.parseCode(ctx)
	})
}

// TransformAST compiles an already parsed program. code is the source it
// was parsed from and is used for code frames, quote detection and source
// maps. The program is modified in place.
func (p *Pipeline) TransformAST(ctx context.Context, program *ast.Program, code string, opts Options) (*Result, error) {
	return p.run(ctx, code, opts, func(f *File) error {
		if err := f.addCode(code); err != nil {
			return err
		}
		return f.addAST(program)
	})
}

func (p *Pipeline) run(ctx context.Context, code string, opts Options, load func(*File) error) (*Result, error) {
	file, err := NewFile(opts, p)
	if err != nil {
		p.metrics.countFile("error")
		filename := cmp.Or(opts.Filename, "unknown")
		return nil, errors.Annotate(err, filename, code, codeframe.Options{HighlightCode: opts.HighlightCode})
	}
	result, err := file.Wrap(code, func() (*Result, error) {
		if err := load(file); err != nil {
			return nil, err
		}
		return file.Transform(ctx)
	})
	switch {
	case err != nil:
		p.metrics.countFile("error")
	case result.Ignored:
		p.metrics.countFile("ignored")
	default:
		p.metrics.countFile("ok")
	}
	return result, err
}

// checkPlugin validates a plugin definition and its API requirement.
func checkPlugin(plugin *Plugin) error {
	if plugin == nil || plugin.Name == "" {
		return fmt.Errorf("plugin has no name")
	}
	if plugin.Visitor == nil {
		return errors.NewPluginError(errors.E2005, plugin.Name, "plugin %s has no visitor", plugin.Name)
	}
	if plugin.Metadata.Requires == "" {
		return nil
	}
	constraint, err := semver.NewConstraint(plugin.Metadata.Requires)
	if err != nil {
		return errors.NewPluginError(errors.E2005, plugin.Name,
			"plugin %s has an invalid version requirement %q: %v", plugin.Name, plugin.Metadata.Requires, err)
	}
	if !constraint.Check(apiVersion) {
		return errors.NewPluginError(errors.E2005, plugin.Name,
			"plugin %s requires API version %s but this is %s", plugin.Name, plugin.Metadata.Requires, APIVersion)
	}
	return nil
}

// canTransform decides whether plugin runs for a file. Static transformers
// are filtered by the blacklist, whitelist and optional list; transformers
// under "internal." are exempt from the lists. Dynamic plugins skip the
// lists. Every plugin is then subject to its Condition.
func (p *Pipeline) canTransform(plugin *Plugin, opts *Options, pluginOpts map[string]any, dynamic bool) (bool, error) {
	if !dynamic && !filter(plugin, opts) {
		return false, nil
	}
	if plugin.Metadata.Condition == "" {
		return true, nil
	}
	return p.evalCondition(plugin, conditionEnv(opts, pluginOpts))
}

func filter(plugin *Plugin, opts *Options) bool {
	key := plugin.Name
	if !strings.HasPrefix(key, "internal.") {
		if slices.Contains(opts.Blacklist, key) {
			return false
		}
		if len(opts.Whitelist) > 0 {
			return slices.Contains(opts.Whitelist, key)
		}
	}
	if plugin.Metadata.Optional && !slices.Contains(opts.Optional, key) {
		return false
	}
	return true
}

// conditionEnv is the environment plugin conditions are evaluated in.
func conditionEnv(opts *Options, pluginOpts map[string]any) map[string]any {
	if pluginOpts == nil {
		pluginOpts = map[string]any{}
	}
	return map[string]any{
		"filename":   opts.Filename,
		"basename":   opts.Basename,
		"sourceType": opts.SourceType,
		"modules":    opts.Modules,
		"sourceMaps": string(opts.SourceMaps),
		"compact":    opts.Compact,
		"loose":      opts.Loose,
		"optional":   opts.Optional,
		"options":    pluginOpts,
	}
}

func (p *Pipeline) evalCondition(plugin *Plugin, env map[string]any) (bool, error) {
	source := plugin.Metadata.Condition
	var program *vm.Program
	if cached, ok := p.conditions.Load(source); ok {
		program = cached.(*vm.Program)
	} else {
		compiled, err := expr.Compile(source, expr.Env(env), expr.AsBool())
		if err != nil {
			return false, errors.NewPluginError(errors.E2009, plugin.Name,
				"invalid condition for plugin %s: %v", plugin.Name, err)
		}
		p.conditions.Store(source, compiled)
		program = compiled
	}
	out, err := expr.Run(program, env)
	if err != nil {
		return false, errors.NewPluginError(errors.E2009, plugin.Name,
			"condition for plugin %s failed: %v", plugin.Name, err)
	}
	ok, _ := out.(bool)
	return ok, nil
}
