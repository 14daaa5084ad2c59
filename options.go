package morph

import (
	"github.com/deepnoodle-ai/morph/sourcemap"
	"github.com/deepnoodle-ai/morph/transform"
	"github.com/rs/zerolog"
)

// Option configures a compilation.
type Option func(*options)

type options struct {
	transform   transform.Options
	pipeline    *transform.Pipeline
	concurrency int
}

func collectOptions(opts ...Option) *options {
	o := &options{transform: transform.DefaultOptions(), concurrency: 8}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

func (o *options) getPipeline() *transform.Pipeline {
	if o.pipeline != nil {
		return o.pipeline
	}
	return DefaultPipeline()
}

// WithFilename sets the filename used in error messages, source maps and
// the ignore and only patterns.
func WithFilename(filename string) Option {
	return func(o *options) {
		o.transform.Filename = filename
	}
}

// WithSourceType parses the input as a "module" (the default) or a
// "script".
func WithSourceType(sourceType string) Option {
	return func(o *options) {
		o.transform.SourceType = sourceType
	}
}

// WithSourceMaps enables source map output.
func WithSourceMaps(mode transform.SourceMapMode) Option {
	return func(o *options) {
		o.transform.SourceMaps = mode
	}
}

// WithInputSourceMap provides the map of an input that was itself
// compiled. The output map then points at the original sources.
func WithInputSourceMap(m *sourcemap.Map) Option {
	return func(o *options) {
		o.transform.InputSourceMap = m
	}
}

// WithPlugin adds a plugin to the compilation at the given position.
func WithPlugin(plugin *transform.Plugin, position transform.Position) Option {
	return func(o *options) {
		o.transform.Plugins = append(o.transform.Plugins, transform.PluginSpec{Plugin: plugin, Position: position})
	}
}

// WithPlugins adds plugins configured by spec. This option is additive.
func WithPlugins(specs ...transform.PluginSpec) Option {
	return func(o *options) {
		o.transform.Plugins = append(o.transform.Plugins, specs...)
	}
}

// WithBlacklist disables the named transformers.
func WithBlacklist(keys ...string) Option {
	return func(o *options) {
		o.transform.Blacklist = append(o.transform.Blacklist, keys...)
	}
}

// WithWhitelist runs only the named transformers.
func WithWhitelist(keys ...string) Option {
	return func(o *options) {
		o.transform.Whitelist = append(o.transform.Whitelist, keys...)
	}
}

// WithOptional enables optional transformers.
func WithOptional(keys ...string) Option {
	return func(o *options) {
		o.transform.Optional = append(o.transform.Optional, keys...)
	}
}

// WithLoose compiles the named transformers in loose mode.
func WithLoose(keys ...string) Option {
	return func(o *options) {
		o.transform.Loose = append(o.transform.Loose, keys...)
	}
}

// WithModules selects the module formatter: "common", "ignore" or a
// registered external formatter.
func WithModules(name string) Option {
	return func(o *options) {
		o.transform.Modules = name
	}
}

// WithExternalHelpers references helpers from a global namespace instead
// of injecting them. An empty namespace means babelHelpers.
func WithExternalHelpers(namespace string) Option {
	return func(o *options) {
		o.transform.ExternalHelpers = true
		o.transform.HelpersNamespace = namespace
	}
}

// WithCompact prints the output without optional whitespace.
func WithCompact(compact bool) Option {
	return func(o *options) {
		o.transform.Compact = compact
	}
}

// WithLogger sets the logger compilation events are written to.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.transform.Logger = logger
	}
}

// WithTransformOptions applies fn to the underlying options for settings
// without a dedicated Option.
func WithTransformOptions(fn func(*transform.Options)) Option {
	return func(o *options) {
		fn(&o.transform)
	}
}

// WithPipeline compiles with p instead of the default pipeline.
func WithPipeline(p *transform.Pipeline) Option {
	return func(o *options) {
		o.pipeline = p
	}
}

// WithConcurrency limits the number of files TransformFiles compiles at
// once. The default is 8.
func WithConcurrency(n int) Option {
	return func(o *options) {
		o.concurrency = n
	}
}
