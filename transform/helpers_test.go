package transform

import (
	"context"
	"strings"
	"testing"

	"github.com/deepnoodle-ai/morph/ast"
	"github.com/deepnoodle-ai/morph/errors"
	"github.com/deepnoodle-ai/morph/helpers"
	"github.com/deepnoodle-ai/morph/traverse"
	"github.com/deepnoodle-ai/wonton/assert"
)

// usePlugin rewrites `use("name")` into a call of the named helper.
func usePlugin() *Plugin {
	p := NewPlugin("use", Metadata{})
	p.Visitor.Enter(ast.TypeCallExpression, func(path *traverse.Path, state any) error {
		call := path.Node.(*ast.CallExpression)
		if !ast.IsIdentifier(call.Callee, "use") {
			return nil
		}
		name := call.Arguments[0].(*ast.StringLiteral).Value
		helper, err := state.(*Pass).File.AddHelper(name)
		if err != nil {
			return err
		}
		call.Callee = helper
		call.Arguments = nil
		return nil
	})
	return p
}

func runUse(t *testing.T, code string, opts Options, pipelineOpts ...PipelineOption) (*Result, error) {
	t.Helper()
	p := NewPipeline(pipelineOpts...)
	assert.Nil(t, p.AddTransformer(usePlugin()))
	return p.Transform(context.Background(), code, opts)
}

func TestAddHelperInjectsOnce(t *testing.T) {
	result, err := runUse(t, `use("typeof"); use("extends"); use("typeof");`, DefaultOptions())
	assert.Nil(t, err)
	assert.Equal(t, strings.Count(result.Code, "function _typeof("), 1)
	assert.Equal(t, strings.Count(result.Code, "var _extends = "), 1)
	assert.True(t, strings.HasPrefix(result.Code, "var _extends = "))
	assert.True(t, strings.HasSuffix(result.Code, "_typeof();\n_extends();\n_typeof();"))
	assert.Equal(t, result.Metadata.UsedHelpers, []string{"typeof", "extends"})
}

func TestAddHelperCamelCase(t *testing.T) {
	result, err := runUse(t, `use("interopRequire");`, DefaultOptions())
	assert.Nil(t, err)
	assert.Contains(t, result.Code, "function _interopRequire(")
	assert.True(t, strings.HasSuffix(result.Code, "_interopRequire();"))
	assert.Equal(t, result.Metadata.UsedHelpers, []string{"interop-require"})
}

func TestAddHelperAvoidsCollisions(t *testing.T) {
	result, err := runUse(t, `var _typeof = 1; use("typeof");`, DefaultOptions())
	assert.Nil(t, err)
	assert.Contains(t, result.Code, "function _typeof2(")
	assert.Contains(t, result.Code, "_typeof2();")
}

func TestAddHelperUnknown(t *testing.T) {
	_, err := runUse(t, `use("nope");`, DefaultOptions())
	assert.NotNil(t, err)
	assert.True(t, errors.Is(err, errors.E2001))
	assert.Contains(t, err.Error(), "Unknown helper nope")

	f := newTestFile(t, "x;", DefaultOptions())
	_, err = f.AddHelper("nope")
	assert.NotNil(t, err)
	assert.Len(t, f.Program.Body, 1)
	assert.Len(t, f.Metadata.UsedHelpers, 0)
}

func TestExternalHelpers(t *testing.T) {
	opts := DefaultOptions()
	opts.ExternalHelpers = true
	result, err := runUse(t, `use("interop-require"); use("interop-require");`, opts)
	assert.Nil(t, err)
	assert.Equal(t, result.Code, "babelHelpers.interopRequire();\nbabelHelpers.interopRequire();")
	assert.Equal(t, result.Metadata.UsedHelpers, []string{"interop-require"})

	opts.HelpersNamespace = "h"
	result, err = runUse(t, `use("typeof");`, opts)
	assert.Nil(t, err)
	assert.Equal(t, result.Code, "h._typeof();")
}

func TestHelperGenerator(t *testing.T) {
	opts := DefaultOptions()
	opts.HelperGenerator = func(name string) ast.Node {
		return ast.NewMember(ast.NewIdentifier("runtime"), traverse.ToIdentifier(name))
	}
	result, err := runUse(t, `use("create-class");`, opts)
	assert.Nil(t, err)
	assert.Equal(t, result.Code, "runtime.createClass();")
	assert.Equal(t, result.Metadata.UsedHelpers, []string{"create-class"})
}

func TestSoloHelperIgnoresNamespace(t *testing.T) {
	registry := helpers.Default().Clone()
	assert.Nil(t, registry.Register(helpers.Helper{
		Name:     "solo-thing",
		Template: "(function () { return 1; })",
		Solo:     true,
	}))
	opts := DefaultOptions()
	opts.ExternalHelpers = true
	result, err := runUse(t, `use("solo-thing"); use("typeof");`, opts, WithHelpers(registry))
	assert.Nil(t, err)
	assert.Contains(t, result.Code, "function _soloThing(")
	assert.True(t, strings.HasSuffix(result.Code, "_soloThing();\nbabelHelpers._typeof();"))
}

func TestAuxiliaryComments(t *testing.T) {
	opts := DefaultOptions()
	opts.AuxiliaryCommentBefore = "helper"
	result, err := runUse(t, `use("typeof"); use("extends");`, opts)
	assert.Nil(t, err)
	assert.Contains(t, result.Code, "/* helper */\nfunction _typeof(")
	assert.Contains(t, result.Code, "/* helper */\nvar _extends = ")
}

func strs(values ...string) *ast.ArrayExpression {
	elements := make([]ast.Node, len(values))
	for i, v := range values {
		elements[i] = ast.NewStringLiteral(v)
	}
	return ast.NewArray(elements...)
}

func TestAddTemplateObject(t *testing.T) {
	f := newTestFile(t, "x;", DefaultOptions())
	first, err := f.AddTemplateObject("taggedTemplateLiteral", strs("a", "b"), strs("a", "b"))
	assert.Nil(t, err)
	again, err := f.AddTemplateObject("tagged-template-literal", strs("a", "b"), strs("a", "b"))
	assert.Nil(t, err)
	assert.True(t, first == again)
	assert.Equal(t, first.(*ast.Identifier).Name, "_templateObject")

	other, err := f.AddTemplateObject("taggedTemplateLiteral", strs("a"), strs("a"))
	assert.Nil(t, err)
	assert.Equal(t, other.(*ast.Identifier).Name, "_templateObject2")
	assert.Equal(t, f.Metadata.UsedHelpers, []string{"tagged-template-literal"})

	// Both template objects share one declaration above the helper.
	assert.Len(t, f.Program.Body, 3)
	decl := f.Program.Body[0].(*ast.VariableDeclaration)
	assert.Len(t, decl.Declarations, 2)
	assert.Equal(t, decl.Priority(), 1.9)
	assert.Equal(t, f.Program.Body[1].Type(), ast.TypeFunctionDeclaration)

	result, err := f.Transform(context.Background())
	assert.Nil(t, err)
	assert.True(t, strings.HasPrefix(result.Code, "var _templateObject = _taggedTemplateLiteral("))
	assert.Contains(t, result.Code, "_templateObject2 = _taggedTemplateLiteral(")
}

func TestAddTemplateObjectDistinctRaw(t *testing.T) {
	f := newTestFile(t, "x;", DefaultOptions())
	first, err := f.AddTemplateObject("taggedTemplateLiteral", strs("a,b", "c"), strs("a,b", "c"))
	assert.Nil(t, err)
	second, err := f.AddTemplateObject("taggedTemplateLiteral", strs("a", "b,c"), strs("a", "b,c"))
	assert.Nil(t, err)
	assert.True(t, first != second)
	assert.Equal(t, second.(*ast.Identifier).Name, "_templateObject2")

	again, err := f.AddTemplateObject("taggedTemplateLiteral", strs("a", "b,c"), strs("a", "b,c"))
	assert.Nil(t, err)
	assert.True(t, again == second)
}

func TestAddTemplateObjectUnknownHelper(t *testing.T) {
	f := newTestFile(t, "x;", DefaultOptions())
	_, err := f.AddTemplateObject("missing", strs("a"), strs("a"))
	assert.True(t, errors.Is(err, errors.E2001))
	assert.Len(t, f.Program.Body, 1)
}
