package transform

import (
	"slices"

	"github.com/deepnoodle-ai/morph/errors"
	"github.com/deepnoodle-ai/morph/traverse"
	"github.com/hashicorp/go-multierror"
)

// buildPasses creates a pass for every static transformer and plugin spec
// and computes the execution stack:
//
//	before plugins, static transformers, after plugins, second passes
//
// Second-pass transformers therefore appear twice. The stack is then
// collapsed by group. Every resolution failure is reported.
func (f *File) buildPasses() error {
	var errs *multierror.Error
	var static, secondary []*Pass

	for _, t := range f.pipeline.Transformers() {
		pass := newPass(t, f, nil)
		f.transformers[t.Name] = pass

		ok, err := f.pipeline.canTransform(t, f.Options, pass.options, false)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		if !ok {
			continue
		}
		pass.canTransform = true
		static = append(static, pass)
		if t.Metadata.SecondPass {
			secondary = append(secondary, pass)
		}
		if t.ManipulateOptions != nil {
			t.ManipulateOptions(f.Options, f)
		}
	}

	var before, after []*Pass
	for _, spec := range f.Options.Plugins {
		pass, position, err := f.addPlugin(spec)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		if !pass.canTransform {
			continue
		}
		if position == After {
			after = append(after, pass)
		} else {
			before = append(before, pass)
		}
	}

	f.uncollapsed = slices.Concat(before, static, after, secondary)
	for _, pass := range f.uncollapsed {
		for _, dep := range pass.Plugin.Metadata.Dependencies {
			f.dependencies[dep] = pass.Key
		}
	}
	f.stack = f.collapseStack(f.uncollapsed)
	return errs.ErrorOrNil()
}

// addPlugin resolves spec to a pass.
func (f *File) addPlugin(spec PluginSpec) (*Pass, Position, error) {
	position := spec.Position
	if position == "" {
		position = Before
	}
	if position != Before && position != After {
		return nil, "", errors.NewPluginError(errors.E2006, spec.Name,
			"%q is not a valid plugin position for %s; use %q or %q", position, spec, Before, After)
	}

	plugin := spec.Plugin
	if plugin == nil {
		var ok bool
		if plugin, ok = f.pipeline.Plugin(spec.Name); !ok {
			return nil, "", errors.NewUnknownPluginError(spec.Name, f.pipeline.PluginNames())
		}
	} else if err := checkPlugin(plugin); err != nil {
		return nil, "", err
	}
	if _, ok := f.transformers[plugin.Name]; ok {
		return nil, "", errors.NewPluginError(errors.E2004, plugin.Name,
			"the key for plugin %s collides with an existing plugin", plugin.Name)
	}

	pass := newPass(plugin, f, spec.Options)
	f.transformers[plugin.Name] = pass
	ok, err := f.pipeline.canTransform(plugin, f.Options, pass.options, true)
	if err != nil {
		return nil, "", err
	}
	pass.canTransform = ok
	return pass, position, nil
}

// collapseStack fuses every enabled pass of a group into one pass at the
// position of the group's first member. Members are collected from the
// whole stack, not only adjacent entries. A second-pass member listed twice
// is fused twice. The fused visitor binds every handler to its original
// pass. The fused pass is keyed "group:<name>" so it cannot be confused
// with a plugin of the same name.
func (f *File) collapseStack(stack []*Pass) []*Pass {
	var out []*Pass
	merged := map[*Pass]bool{}
	for _, pass := range stack {
		if merged[pass] {
			continue
		}
		group := pass.Plugin.Metadata.Group
		if !pass.canTransform || group == "" {
			out = append(out, pass)
			continue
		}
		var visitors []*traverse.Visitor
		var states []any
		for _, other := range stack {
			if other.Plugin.Metadata.Group != group {
				continue
			}
			merged[other] = true
			visitors = append(visitors, other.Plugin.Visitor)
			states = append(states, other)
		}
		plugin := NewPlugin(group, Metadata{})
		plugin.Visitor = traverse.Merge(visitors, states)
		fused := newPass(plugin, f, nil)
		fused.Key = "group:" + group
		fused.canTransform = true
		out = append(out, fused)
	}
	return out
}
