package helpers

import (
	"testing"

	"github.com/deepnoodle-ai/morph/ast"
	"github.com/deepnoodle-ai/morph/errors"
	"github.com/deepnoodle-ai/morph/generator"
	"github.com/deepnoodle-ai/wonton/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"createClass", "create-class"},
		{"create-class", "create-class"},
		{"slicedToArrayLoose", "sliced-to-array-loose"},
		{"typeof", "typeof"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, Normalize(tt.input), tt.expected)
	}
}

func TestDefaultCatalogue(t *testing.T) {
	r := Default()
	names := r.Names()
	assert.Len(t, names, 34)
	assert.Equal(t, names[0], "inherits")
	assert.Equal(t, names[len(names)-1], "interop-require")
	assert.True(t, r.Has("taggedTemplateLiteral"))
	assert.True(t, r.Has("tagged-template-literal-loose"))
	assert.False(t, r.Has("does-not-exist"))
	assert.False(t, r.IsSolo("inherits"))
}

func TestEveryTemplateParses(t *testing.T) {
	r := Default()
	for _, name := range r.Names() {
		node, err := r.Template(name)
		assert.Nil(t, err, name)
		assert.NotNil(t, node, name)
		for n := range ast.Preorder(node) {
			assert.Nil(t, n.Meta().Loc, name)
		}
	}
}

func TestTemplateShapes(t *testing.T) {
	r := Default()

	node, err := r.Template("tagged-template-literal")
	assert.Nil(t, err)
	fn, ok := node.(*ast.FunctionExpression)
	assert.True(t, ok)
	assert.Nil(t, fn.ID)
	assert.Len(t, fn.Params, 2)

	node, err = r.Template("createClass")
	assert.Nil(t, err)
	assert.Equal(t, node.Type(), ast.TypeCallExpression)

	node, err = r.Template("get")
	assert.Nil(t, err)
	fn, ok = node.(*ast.FunctionExpression)
	assert.True(t, ok)
	assert.True(t, ast.IsIdentifier(fn.ID, "get"))
}

func TestTemplateReturnsCopies(t *testing.T) {
	r := Default()
	first, err := r.Template("has-own")
	assert.Nil(t, err)
	first.(*ast.MemberExpression).Property = ast.NewIdentifier("changed")

	second, err := r.Template("has-own")
	assert.Nil(t, err)
	result, err := generator.Generate(second, "")
	assert.Nil(t, err)
	assert.Equal(t, result.Code, "Object.prototype.hasOwnProperty")
}

func TestUnknownHelper(t *testing.T) {
	_, err := Default().Template("create-clas")
	assert.NotNil(t, err)
	assert.True(t, errors.Is(err, errors.E2001))
	uh, ok := err.(*errors.UnknownHelperError)
	assert.True(t, ok)
	assert.Equal(t, uh.Name, "create-clas")
	assert.Contains(t, uh.Hint, "create-class")
}

func TestRegister(t *testing.T) {
	r := Default().Clone()
	err := r.Register(Helper{Name: "selfCheck", Template: "(function () { return true; })", Solo: true})
	assert.Nil(t, err)
	assert.True(t, r.IsSolo("self-check"))
	assert.False(t, Default().Has("self-check"))

	assert.NotNil(t, r.Register(Helper{Name: "self-check", Template: "1"}))
	assert.NotNil(t, r.Register(Helper{Name: "empty"}))

	assert.Nil(t, r.Register(Helper{Name: "broken", Template: "var x = 1;"}))
	_, err = r.Template("broken")
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "single expression")
}

func TestLoad(t *testing.T) {
	r, err := Load([]byte("helpers:\n  - name: one\n    template: \"1\"\n    solo: true\n"))
	assert.Nil(t, err)
	h, ok := r.Lookup("one")
	assert.True(t, ok)
	assert.True(t, h.Solo)
	assert.Equal(t, r.Helpers()[0].Name, "one")

	_, err = Load([]byte("helpers: [:"))
	assert.NotNil(t, err)
}
