package transform

import (
	"time"

	"github.com/deepnoodle-ai/morph/traverse"
	"github.com/spf13/cast"
)

// Pass is a plugin bound to one file.
type Pass struct {
	Plugin *Plugin
	File   *File

	// Key is the plugin name.
	Key string

	canTransform bool
	options      map[string]any
}

func newPass(plugin *Plugin, file *File, options map[string]any) *Pass {
	if options == nil {
		options = map[string]any{}
	}
	return &Pass{
		Plugin:  plugin,
		File:    file,
		Key:     plugin.Name,
		options: options,
	}
}

// CanTransform reports whether the pass is enabled for its file. The result
// is computed once when the pass is built.
func (p *Pass) CanTransform() bool {
	return p.canTransform
}

// Option returns the raw value of a plugin option.
func (p *Pass) Option(key string) (any, bool) {
	v, ok := p.options[key]
	return v, ok
}

// Options returns every plugin option.
func (p *Pass) Options() map[string]any {
	return p.options
}

func (p *Pass) String(key, fallback string) string {
	if v, ok := p.options[key]; ok {
		return cast.ToString(v)
	}
	return fallback
}

func (p *Pass) Bool(key string, fallback bool) bool {
	if v, ok := p.options[key]; ok {
		return cast.ToBool(v)
	}
	return fallback
}

func (p *Pass) Int(key string, fallback int) int {
	if v, ok := p.options[key]; ok {
		return cast.ToInt(v)
	}
	return fallback
}

func (p *Pass) StringSlice(key string) []string {
	if v, ok := p.options[key]; ok {
		return cast.ToStringSlice(v)
	}
	return nil
}

// Transform walks the file once with the plugin visitor. Handlers receive
// the pass as state unless they were bound to another pass by a merge.
func (p *Pass) Transform() error {
	f := p.File
	if f.Program == nil {
		return nil
	}
	log := f.log.With().Str("pass", p.Key).Logger()
	log.Debug().Msg("Start transformer")
	start := time.Now()

	f.scope.Crawl()
	err := traverse.Traverse(f.Program, p.Plugin.Visitor, f.scope, p)

	f.pipeline.metrics.observePass(p.Key, time.Since(start))
	log.Debug().Dur("elapsed", time.Since(start)).Msg("Finish transformer")
	return err
}
