package traverse

import (
	"context"
	"errors"
	"testing"

	"github.com/deepnoodle-ai/morph/ast"
	"github.com/deepnoodle-ai/morph/generator"
	"github.com/deepnoodle-ai/morph/parser"
	"github.com/deepnoodle-ai/wonton/assert"
)

func parse(t *testing.T, code string) *ast.Program {
	t.Helper()
	program, err := parser.Parse(context.Background(), code)
	assert.Nil(t, err)
	return program
}

func generate(t *testing.T, node ast.Node) string {
	t.Helper()
	result, err := generator.Generate(node, "")
	assert.Nil(t, err)
	return result.Code
}

type recorder struct {
	name string
	log  *[]string
}

func (r *recorder) handler(label string) Handler {
	return func(path *Path, state any) error {
		rec := state.(*recorder)
		entry := rec.name + ":" + label
		if id, ok := path.Node.(*ast.Identifier); ok {
			entry += ":" + id.Name
		}
		*rec.log = append(*rec.log, entry)
		return nil
	}
}

func TestMergeRunsHandlersInInputOrder(t *testing.T) {
	var log []string
	first := &recorder{name: "first", log: &log}
	second := &recorder{name: "second", log: &log}

	v1 := NewVisitor().Enter(ast.TypeIdentifier, first.handler("enter"))
	v2 := NewVisitor().
		Enter(ast.TypeIdentifier, second.handler("enter")).
		Exit(ast.TypeIdentifier, second.handler("exit"))
	v1.Exit(ast.TypeIdentifier, first.handler("exit"))

	merged := Merge([]*Visitor{v1, v2}, []any{first, second})
	assert.Equal(t, merged.Len(), 4)
	assert.Equal(t, merged.Types(), []ast.NodeType{ast.TypeIdentifier})

	err := Traverse(parse(t, "a;"), merged, nil, nil)
	assert.Nil(t, err)
	assert.Equal(t, log, []string{
		"first:enter:a",
		"second:enter:a",
		"first:exit:a",
		"second:exit:a",
	})
}

func TestMergeKeepsExistingBindings(t *testing.T) {
	var log []string
	inner := &recorder{name: "inner", log: &log}
	outer := &recorder{name: "outer", log: &log}

	bound := NewVisitor().Enter(ast.TypeIdentifier, inner.handler("enter")).Bind(inner)
	merged := Merge([]*Visitor{bound}, []any{outer})

	assert.Nil(t, Traverse(parse(t, "x;"), merged, nil, nil))
	assert.Equal(t, log, []string{"inner:enter:x"})
}

func TestAnyHandlersRunFirst(t *testing.T) {
	var log []string
	r := &recorder{name: "r", log: &log}
	v := NewVisitor().
		Enter(ast.TypeIdentifier, r.handler("typed")).
		Enter(ast.TypeAny, r.handler("any"))

	assert.Nil(t, Traverse(parse(t, "a;"), v, nil, r))
	assert.Equal(t, log, []string{"r:any", "r:any", "r:any:a", "r:typed:a"})
}

func TestSkipStillRunsLaterHandlers(t *testing.T) {
	var calls []string
	v := NewVisitor().
		Enter(ast.TypeExpressionStatement,
			func(path *Path, _ any) error {
				calls = append(calls, "skip")
				path.Skip()
				return nil
			},
			func(path *Path, _ any) error {
				calls = append(calls, "second")
				return nil
			}).
		Exit(ast.TypeExpressionStatement, func(path *Path, _ any) error {
			calls = append(calls, "exit")
			return nil
		}).
		Enter(ast.TypeIdentifier, func(path *Path, _ any) error {
			calls = append(calls, "identifier")
			return nil
		})

	assert.Nil(t, Traverse(parse(t, "a; b;"), v, nil, nil))
	assert.Equal(t, calls, []string{"skip", "second", "skip", "second"})
}

func TestStopHaltsTraversal(t *testing.T) {
	var seen []string
	v := NewVisitor().Enter(ast.TypeIdentifier,
		func(path *Path, _ any) error {
			path.Stop()
			return nil
		},
		func(path *Path, _ any) error {
			seen = append(seen, path.Node.(*ast.Identifier).Name)
			return nil
		})

	assert.Nil(t, Traverse(parse(t, "a; b; c;"), v, nil, nil))
	assert.Equal(t, seen, []string{"a"})
}

func TestRemoveEndsDispatch(t *testing.T) {
	program := parse(t, "a; b;")
	var seen []string
	v := NewVisitor().
		Enter(ast.TypeExpressionStatement,
			func(path *Path, _ any) error {
				if ast.IsIdentifier(path.Node.(*ast.ExpressionStatement).Expression, "a") {
					path.Remove()
				}
				return nil
			},
			func(path *Path, _ any) error {
				seen = append(seen, "after-remove")
				return nil
			}).
		Enter(ast.TypeIdentifier, func(path *Path, _ any) error {
			seen = append(seen, path.Node.(*ast.Identifier).Name)
			return nil
		})

	assert.Nil(t, Traverse(program, v, nil, nil))
	assert.Equal(t, seen, []string{"after-remove", "b"})
	assert.Len(t, program.Body, 1)
	assert.Equal(t, generate(t, program), "b;")
}

func TestHandlerErrorIsReturnedUnchanged(t *testing.T) {
	boom := errors.New("boom")
	v := NewVisitor().Enter(ast.TypeIdentifier, func(*Path, any) error { return boom })
	err := Traverse(parse(t, "a;"), v, nil, nil)
	assert.True(t, err == boom)
}

func TestPushDuringWalkDoesNotRevisit(t *testing.T) {
	program := parse(t, "a; b;")
	scope := NewScope(program)
	visits := 0
	v := NewVisitor().Enter(ast.TypeExpressionStatement, func(path *Path, _ any) error {
		visits++
		_, err := path.Scope.Push(PushOptions{
			ID:     path.Scope.GenerateUIDIdentifier("ref"),
			Unique: true,
		})
		return err
	})

	assert.Nil(t, Traverse(program, v, scope, nil))
	assert.Equal(t, visits, 2)
	assert.Equal(t, generate(t, program), "var _ref2;\nvar _ref;\na;\nb;")
}

func TestInsertAfterIsVisited(t *testing.T) {
	program := parse(t, "a;")
	var seen []string
	v := NewVisitor().Enter(ast.TypeIdentifier, func(path *Path, _ any) error {
		name := path.Node.(*ast.Identifier).Name
		seen = append(seen, name)
		if name == "a" {
			path.Parent.InsertAfter(ast.NewIdentifier("b"))
			path.Parent.InsertBefore(ast.NewIdentifier("z"))
		}
		return nil
	})

	assert.Nil(t, Traverse(program, v, nil, nil))
	assert.Equal(t, seen, []string{"a", "b"})
	assert.Equal(t, generate(t, program), "z;\na;\nb;")
}

func TestReplace(t *testing.T) {
	program := parse(t, "// lead\na + 1;")
	v := NewVisitor().
		Enter(ast.TypeIdentifier, func(path *Path, _ any) error {
			path.Replace(ast.NewStringLiteral("x"))
			return nil
		}).
		Enter(ast.TypeStringLiteral, func(path *Path, _ any) error {
			t.Fatal("replacement should not be visited")
			return nil
		})

	assert.Nil(t, Traverse(program, v, nil, nil))
	assert.Equal(t, generate(t, program), "// lead\n\"x\" + 1;")
}

func TestReplaceStatementWithExpression(t *testing.T) {
	program := parse(t, "// keep\nfoo;")
	v := NewVisitor().Enter(ast.TypeExpressionStatement, func(path *Path, _ any) error {
		path.Replace(ast.NewCall(ast.NewIdentifier("bar")))
		return nil
	})

	assert.Nil(t, Traverse(program, v, nil, nil))
	stmt, ok := program.Body[0].(*ast.ExpressionStatement)
	assert.True(t, ok)
	assert.Len(t, stmt.LeadingComments, 1)
	assert.Equal(t, generate(t, program), "// keep\nbar();")
}

func TestReplaceWithMultiple(t *testing.T) {
	program := parse(t, "a; c;")
	var seen []string
	v := NewVisitor().Enter(ast.TypeIdentifier, func(path *Path, _ any) error {
		name := path.Node.(*ast.Identifier).Name
		seen = append(seen, name)
		if name == "a" {
			path.Parent.ReplaceWithMultiple(ast.NewIdentifier("a1"), ast.NewIdentifier("b"))
		}
		return nil
	})

	assert.Nil(t, Traverse(program, v, nil, nil))
	assert.Equal(t, generate(t, program), "a1;\nb;\nc;")
	assert.Equal(t, seen, []string{"a", "b", "c"})
}

func TestContainerHelpers(t *testing.T) {
	program := parse(t, "b;")
	path := NewPath(program, NewScope(program))
	path.UnshiftContainer("body", ast.NewExpressionStatement(ast.NewIdentifier("a")))
	path.PushContainer("body", ast.NewExpressionStatement(ast.NewIdentifier("c")))
	assert.Equal(t, generate(t, program), "a;\nb;\nc;")

	first := path.Get("body")
	assert.NotNil(t, first)
	assert.Equal(t, first.Index, 0)
	assert.Len(t, first.Siblings(), 3)
	assert.True(t, first.InList())
	assert.True(t, first.ParentNode() == ast.Node(program))
	assert.Nil(t, path.Get("missing"))
}

func TestFind(t *testing.T) {
	program := parse(t, "function f() { return x; }")
	var fn ast.Node
	v := NewVisitor().Enter(ast.TypeIdentifier, func(path *Path, _ any) error {
		if ast.IsIdentifier(path.Node, "x") {
			found := path.Find(func(p *Path) bool { return ast.IsFunction(p.Node) })
			fn = found.Node
		}
		return nil
	})
	assert.Nil(t, Traverse(program, v, nil, nil))
	assert.True(t, fn == program.Body[0])
}

func TestTreeShiftsActiveCursors(t *testing.T) {
	tree := NewTree()
	list := []ast.Node{ast.NewIdentifier("a"), ast.NewIdentifier("b"), ast.NewIdentifier("c")}
	before := &Path{Index: 0, list: &list}
	cursor := &Path{Index: 1, list: &list}
	other := []ast.Node{ast.NewIdentifier("x")}
	unrelated := &Path{Index: 0, list: &other}
	tree.push(before)
	tree.push(cursor)
	tree.push(unrelated)

	tree.Insert(&list, 0, ast.NewIdentifier("z"))
	assert.Equal(t, before.Index, 1)
	assert.Equal(t, cursor.Index, 2)
	assert.Equal(t, unrelated.Index, 0)

	tree.Insert(&list, 3, ast.NewIdentifier("y"))
	assert.Equal(t, cursor.Index, 2)

	tree.RemoveAt(&list, 0)
	assert.Equal(t, before.Index, 0)
	assert.Equal(t, cursor.Index, 1)
	assert.Len(t, list, 4)
	assert.True(t, ast.IsIdentifier(list[cursor.Index], "b"))
}
