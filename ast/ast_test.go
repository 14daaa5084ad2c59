package ast

import (
	"strings"
	"testing"

	"github.com/deepnoodle-ai/morph/internal/token"
	"github.com/deepnoodle-ai/wonton/assert"
)

func TestPriority(t *testing.T) {
	stmt := NewExpressionStatement(NewIdentifier("a"))
	assert.Equal(t, stmt.Priority(), 1.0)
	stmt.SetBlockHoist(1.9)
	assert.Equal(t, stmt.Priority(), 1.9)
	stmt.SetBlockHoist(0)
	assert.Equal(t, stmt.Priority(), 0.0)
}

func TestLocation(t *testing.T) {
	id := NewIdentifier("a")
	assert.Nil(t, Location(id))
	internal := &token.Loc{Start: token.LineCol{Line: 2, Column: 1}}
	id.InternalLoc = internal
	assert.Equal(t, Location(id), internal)
	own := &token.Loc{Start: token.LineCol{Line: 1, Column: 0}}
	id.Loc = own
	assert.Equal(t, Location(id), own)
	assert.Nil(t, Location(nil))
}

func TestPredicates(t *testing.T) {
	assert.True(t, IsFunction(&FunctionDeclaration{}))
	assert.True(t, IsFunction(&FunctionExpression{}))
	assert.False(t, IsFunction(NewIdentifier("f")))
	assert.True(t, IsStatement(NewReturn(nil)))
	assert.False(t, IsStatement(NewCall(NewIdentifier("f"))))
	assert.True(t, IsIdentifier(NewIdentifier("a")))
	assert.True(t, IsIdentifier(NewIdentifier("a"), "a"))
	assert.False(t, IsIdentifier(NewIdentifier("a"), "b"))
	assert.False(t, IsIdentifier(NewStringLiteral("a")))
	var id *Identifier
	assert.True(t, IsNil(id))
	assert.True(t, IsNil(nil))
}

func TestClone(t *testing.T) {
	orig := sampleProgram()
	orig.Body[0].Meta().LeadingComments = []Comment{{Value: " note"}}
	c := Clone(orig).(*Program)

	decl := c.Body[0].(*VariableDeclaration)
	decl.Declarations[0].(*VariableDeclarator).ID.(*Identifier).Name = "y"
	decl.LeadingComments[0].Value = "changed"

	origDecl := orig.Body[0].(*VariableDeclaration)
	assert.Equal(t, origDecl.Declarations[0].(*VariableDeclarator).ID.(*Identifier).Name, "x")
	assert.Equal(t, origDecl.LeadingComments[0].Value, " note")
	assert.Nil(t, Clone(nil))
}

func TestToStatement(t *testing.T) {
	ret := NewReturn(nil)
	assert.Equal(t, ToStatement(ret), Node(ret))

	stmt := ToStatement(NewIdentifier("a"))
	assert.Equal(t, stmt.Type(), TypeExpressionStatement)

	fn := &FunctionExpression{ID: NewIdentifier("f"), Body: NewBlock()}
	decl := ToStatement(fn)
	assert.Equal(t, decl.Type(), TypeFunctionDeclaration)
}

func TestDump(t *testing.T) {
	id := NewIdentifier("a")
	id.Loc = &token.Loc{Start: token.LineCol{Line: 1, Column: 0}, End: token.LineCol{Line: 1, Column: 1}}
	program := &Program{Body: []Node{NewExpressionStatement(id)}}
	data, err := Dump(program, false)
	assert.Nil(t, err)
	s := string(data)
	assert.True(t, strings.Contains(s, `"type":"Program"`))
	assert.True(t, strings.Contains(s, `"name":"a"`))
	assert.True(t, strings.Contains(s, `"loc":{"start":{"line":1,"column":0}`))
}

func TestToMapNilChild(t *testing.T) {
	m := ToMap(NewReturn(nil))
	assert.Equal(t, m["type"], "ReturnStatement")
	v, ok := m["argument"]
	assert.True(t, ok)
	assert.Nil(t, v)
}
