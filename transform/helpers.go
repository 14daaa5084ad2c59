package transform

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/deepnoodle-ai/morph/ast"
	"github.com/deepnoodle-ai/morph/errors"
	"github.com/deepnoodle-ai/morph/helpers"
	"github.com/deepnoodle-ai/morph/traverse"
)

// AddHelper returns an expression referring to the named runtime helper,
// injecting its declaration into the program on first use. When a helper
// generator or an external helpers namespace is configured, helpers that
// are not solo are referenced from there instead and nothing is injected.
func (f *File) AddHelper(name string) (ast.Node, error) {
	registry := f.pipeline.helpers
	name = helpers.Normalize(name)
	if !registry.Has(name) {
		return nil, errors.NewUnknownHelperError(name, registry.Names())
	}
	if id, ok := f.declarations[name]; ok {
		return id, nil
	}
	f.markUsed(name)

	if !registry.IsSolo(name) {
		if generate, ok := f.Get("helperGenerator").(func(string) ast.Node); ok && generate != nil {
			return generate(name), nil
		}
		if ns, ok := f.Get("helpersNamespace").(ast.Node); ok && !ast.IsNil(ns) {
			return ast.NewMember(ast.Clone(ns), traverse.ToIdentifier(name)), nil
		}
	}

	ref, err := registry.Template(name)
	if err != nil {
		return nil, err
	}
	uid := f.scope.GenerateUIDIdentifier(name)
	f.declarations[name] = uid

	if fn, ok := ref.(*ast.FunctionExpression); ok && ast.IsNil(fn.ID) {
		fn.Body.Meta().Compact = true
		decl := ast.ToDeclaration(fn, uid)
		decl.Generated = true
		f.AttachAuxiliaryComment(decl)
		f.scope.Tree().Insert(&f.Program.Body, 0, decl)
	} else {
		ref.Meta().Compact = true
		if _, err := f.scope.Push(traverse.PushOptions{
			ID:       uid,
			Init:     ref,
			Unique:   true,
			Decorate: f.attachDeclaration,
		}); err != nil {
			return nil, err
		}
	}
	f.pipeline.metrics.countHelper(name)
	return uid, nil
}

func (f *File) markUsed(name string) {
	if f.usedHelpers[name] {
		return
	}
	f.usedHelpers[name] = true
	f.Metadata.UsedHelpers = append(f.Metadata.UsedHelpers, name)
}

// AddTemplateObject returns an identifier holding the frozen strings
// object of a tagged template, declared once per distinct helper and raw
// strings. helperName is the helper that builds the object.
func (f *File) AddTemplateObject(helperName string, cooked, raw *ast.ArrayExpression) (ast.Node, error) {
	helperName = helpers.Normalize(helperName)
	parts := make([]string, len(raw.Elements))
	for i, el := range raw.Elements {
		var value string
		if s, ok := el.(*ast.StringLiteral); ok {
			value = s.Value
		}
		parts[i] = strconv.Quote(value)
	}
	key := fmt.Sprintf("%s_%d_%s", helperName, len(raw.Elements), strings.Join(parts, ","))
	if id, ok := f.declarations[key]; ok {
		return id, nil
	}

	helper, err := f.AddHelper(helperName)
	if err != nil {
		return nil, err
	}
	uid := f.scope.GenerateUIDIdentifier("templateObject")
	f.declarations[key] = uid

	init := ast.NewCall(helper, cooked, raw)
	init.Compact = true
	if _, err := f.scope.Push(traverse.PushOptions{
		ID:         uid,
		Init:       init,
		BlockHoist: 1.9,
		Decorate:   f.attachDeclaration,
	}); err != nil {
		return nil, err
	}
	return uid, nil
}
