package transform

import (
	"context"
	"testing"

	"github.com/deepnoodle-ai/morph/ast"
	"github.com/deepnoodle-ai/morph/errors"
	"github.com/deepnoodle-ai/morph/traverse"
	"github.com/deepnoodle-ai/wonton/assert"
	"github.com/hashicorp/go-multierror"
)

func newTestPipeline(t *testing.T, transformers ...*Plugin) *Pipeline {
	t.Helper()
	p := NewPipeline()
	for _, tr := range transformers {
		assert.Nil(t, p.AddTransformer(tr))
	}
	return p
}

func keys(passes []*Pass) []string {
	out := make([]string, len(passes))
	for i, p := range passes {
		out[i] = p.Key
	}
	return out
}

func TestBuildPassesOrder(t *testing.T) {
	a := NewPlugin("a", Metadata{})
	b := NewPlugin("b", Metadata{SecondPass: true})
	c := NewPlugin("c", Metadata{})
	p := newTestPipeline(t, a, b, c)

	opts := DefaultOptions()
	opts.Plugins = []PluginSpec{
		{Plugin: NewPlugin("x", Metadata{})},
		{Plugin: NewPlugin("y", Metadata{}), Position: After},
		{Plugin: NewPlugin("z", Metadata{}), Position: Before},
	}
	f, err := NewFile(opts, p)
	assert.Nil(t, err)
	assert.Equal(t, keys(f.uncollapsed), []string{"x", "z", "a", "b", "c", "y", "b"})
	assert.Equal(t, keys(f.Stack()), []string{"x", "z", "a", "b", "c", "y", "b"})
}

func TestDependenciesLastWriterWins(t *testing.T) {
	a := NewPlugin("a", Metadata{Dependencies: []string{"shared", "only-a"}})
	b := NewPlugin("b", Metadata{Dependencies: []string{"shared"}})
	f, err := NewFile(DefaultOptions(), newTestPipeline(t, a, b))
	assert.Nil(t, err)
	assert.Equal(t, f.Dependencies(), map[string]string{"shared": "b", "only-a": "a"})
	assert.Equal(t, keys(f.Stack()), []string{"a", "b"})
}

func TestFilters(t *testing.T) {
	tests := []struct {
		name     string
		opts     func(*Options)
		expected []string
	}{
		{"defaults", func(o *Options) {}, []string{"a", "b", "internal.c"}},
		{"blacklist", func(o *Options) { o.Blacklist = []string{"a", "internal.c"} }, []string{"b", "internal.c"}},
		{"whitelist", func(o *Options) { o.Whitelist = []string{"b"} }, []string{"b", "internal.c"}},
		{"optional", func(o *Options) { o.Optional = []string{"opt"} }, []string{"a", "b", "opt", "internal.c"}},
		{"whitelisted optional", func(o *Options) { o.Whitelist = []string{"opt"} }, []string{"opt", "internal.c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPipeline(t,
				NewPlugin("a", Metadata{}),
				NewPlugin("b", Metadata{}),
				NewPlugin("opt", Metadata{Optional: true}),
				NewPlugin("internal.c", Metadata{}),
			)
			opts := DefaultOptions()
			tt.opts(&opts)
			f, err := NewFile(opts, p)
			assert.Nil(t, err)
			assert.Equal(t, keys(f.Stack()), tt.expected)

			pass, ok := f.Pass("a")
			assert.True(t, ok)
			assert.Equal(t, pass.CanTransform(), contains(tt.expected, "a"))
		})
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func TestDynamicPluginsIgnoreLists(t *testing.T) {
	opts := DefaultOptions()
	opts.Whitelist = []string{"a"}
	opts.Blacklist = []string{"x"}
	opts.Plugins = []PluginSpec{{Plugin: NewPlugin("x", Metadata{})}}
	f, err := NewFile(opts, newTestPipeline(t, NewPlugin("a", Metadata{})))
	assert.Nil(t, err)
	assert.Equal(t, keys(f.Stack()), []string{"x", "a"})
}

func TestCondition(t *testing.T) {
	p := newTestPipeline(t,
		NewPlugin("scripts", Metadata{Condition: `sourceType == "script"`}),
		NewPlugin("loose", Metadata{Condition: `"loose" in loose`}),
	)
	opts := DefaultOptions()
	f, err := NewFile(opts, p)
	assert.Nil(t, err)
	assert.Len(t, f.Stack(), 0)

	opts.SourceType = "script"
	opts.Loose = []string{"loose"}
	f, err = NewFile(opts, p)
	assert.Nil(t, err)
	assert.Equal(t, keys(f.Stack()), []string{"scripts", "loose"})

	opts = DefaultOptions()
	opts.Plugins = []PluginSpec{{
		Plugin:  NewPlugin("opt-in", Metadata{Condition: `options.enabled == true`}),
		Options: map[string]any{"enabled": true},
	}}
	f, err = NewFile(opts, p)
	assert.Nil(t, err)
	assert.Equal(t, keys(f.Stack()), []string{"opt-in"})
}

func TestInvalidCondition(t *testing.T) {
	p := newTestPipeline(t, NewPlugin("broken", Metadata{Condition: `sourceType +`}))
	_, err := NewFile(DefaultOptions(), p)
	assert.NotNil(t, err)
	assert.True(t, errors.Is(err, errors.E2009))
}

func TestRequires(t *testing.T) {
	p := NewPipeline()
	err := p.AddTransformer(NewPlugin("future", Metadata{Requires: ">= 6.0.0"}))
	assert.NotNil(t, err)
	assert.True(t, errors.Is(err, errors.E2005))
	assert.Contains(t, err.Error(), "requires API version")

	err = p.AddTransformer(NewPlugin("bad", Metadata{Requires: "not a version"}))
	assert.True(t, errors.Is(err, errors.E2005))

	assert.Nil(t, p.AddTransformer(NewPlugin("current", Metadata{Requires: "^5.0.0"})))

	opts := DefaultOptions()
	opts.Plugins = []PluginSpec{{Plugin: NewPlugin("inline", Metadata{Requires: "< 5.0.0"})}}
	_, err = NewFile(opts, p)
	assert.True(t, errors.Is(err, errors.E2005))
}

func TestPluginResolutionErrors(t *testing.T) {
	p := newTestPipeline(t, NewPlugin("a", Metadata{}))
	assert.Nil(t, p.RegisterPlugin(NewPlugin("named", Metadata{})))

	opts := DefaultOptions()
	opts.Plugins = []PluginSpec{
		{Name: "missing"},
		{Plugin: NewPlugin("a", Metadata{})},
		{Name: "named", Position: "sideways"},
		ParsePluginSpec("named:after"),
	}
	f, err := NewFile(opts, p)
	assert.Nil(t, f)
	merr, ok := err.(*multierror.Error)
	assert.True(t, ok)
	assert.Len(t, merr.Errors, 3)
	assert.True(t, errors.Is(merr.Errors[0], errors.E2003))
	assert.True(t, errors.Is(merr.Errors[1], errors.E2004))
	assert.True(t, errors.Is(merr.Errors[2], errors.E2006))
	assert.True(t, errors.Is(err, errors.E2006))
}

func TestRegisterPluginDuplicate(t *testing.T) {
	p := newTestPipeline(t, NewPlugin("a", Metadata{}))
	err := p.RegisterPlugin(NewPlugin("a", Metadata{}))
	assert.True(t, errors.Is(err, errors.E2004))
	err = p.AddTransformer(NewPlugin("a", Metadata{}))
	assert.True(t, errors.Is(err, errors.E2004))
	assert.Equal(t, p.PluginNames(), []string{})
}

func TestParsePluginSpec(t *testing.T) {
	assert.Equal(t, ParsePluginSpec("foo"), PluginSpec{Name: "foo"})
	assert.Equal(t, ParsePluginSpec("foo:after"), PluginSpec{Name: "foo", Position: After})
	assert.Equal(t, ParsePluginSpec("foo:after").String(), "foo:after")
}

// recordKeys appends the key of the pass bound to each visited identifier.
func recordKeys(log *[]string) traverse.Handler {
	return func(path *traverse.Path, state any) error {
		*log = append(*log, state.(*Pass).Key+":"+path.Node.(*ast.Identifier).Name)
		return nil
	}
}

func TestCollapseStack(t *testing.T) {
	var log []string
	a := NewPlugin("a", Metadata{Group: "g"})
	a.Visitor.Enter(ast.TypeIdentifier, recordKeys(&log))
	b := NewPlugin("b", Metadata{})
	b.Visitor.Enter(ast.TypeIdentifier, recordKeys(&log))
	c := NewPlugin("c", Metadata{Group: "g"})
	c.Visitor.Enter(ast.TypeIdentifier, recordKeys(&log))
	d := NewPlugin("d", Metadata{Group: "g", Optional: true})
	d.Visitor.Enter(ast.TypeIdentifier, recordKeys(&log))

	p := newTestPipeline(t, a, b, c, d)
	f, err := NewFile(DefaultOptions(), p)
	assert.Nil(t, err)
	assert.Equal(t, keys(f.Stack()), []string{"group:g", "b"})
	assert.Equal(t, f.Stack()[0].Plugin.Name, "g")
	assert.True(t, f.Stack()[0].CanTransform())

	_, err = p.Transform(context.Background(), "x;", DefaultOptions())
	assert.Nil(t, err)
	assert.Equal(t, log, []string{"a:x", "c:x", "b:x"})
}

func TestCollapseSecondPassTwice(t *testing.T) {
	var log []string
	a := NewPlugin("a", Metadata{Group: "g", SecondPass: true})
	a.Visitor.Enter(ast.TypeIdentifier, recordKeys(&log))
	b := NewPlugin("b", Metadata{Group: "g"})
	b.Visitor.Enter(ast.TypeIdentifier, recordKeys(&log))

	p := newTestPipeline(t, a, b)
	f, err := NewFile(DefaultOptions(), p)
	assert.Nil(t, err)
	assert.Equal(t, keys(f.uncollapsed), []string{"a", "b", "a"})
	assert.Equal(t, keys(f.Stack()), []string{"group:g"})

	_, err = p.Transform(context.Background(), "x;", DefaultOptions())
	assert.Nil(t, err)
	assert.Equal(t, log, []string{"a:x", "b:x", "a:x"})
}

func TestCollapseKeyDistinctFromPlugin(t *testing.T) {
	g := NewPlugin("g", Metadata{})
	a := NewPlugin("a", Metadata{Group: "g"})
	f, err := NewFile(DefaultOptions(), newTestPipeline(t, g, a))
	assert.Nil(t, err)
	assert.Equal(t, keys(f.Stack()), []string{"g", "group:g"})
}

func TestPassOptions(t *testing.T) {
	opts := DefaultOptions()
	opts.Plugins = []PluginSpec{{
		Plugin:  NewPlugin("configured", Metadata{}),
		Options: map[string]any{"count": "3", "verbose": "true", "names": []any{"a", "b"}},
	}}
	f, err := NewFile(opts, NewPipeline())
	assert.Nil(t, err)
	pass, ok := f.Pass("configured")
	assert.True(t, ok)
	assert.Equal(t, pass.Int("count", 0), 3)
	assert.True(t, pass.Bool("verbose", false))
	assert.Equal(t, pass.String("missing", "fallback"), "fallback")
	assert.Equal(t, pass.StringSlice("names"), []string{"a", "b"})
	v, ok := pass.Option("count")
	assert.True(t, ok)
	assert.Equal(t, v, any("3"))
}
