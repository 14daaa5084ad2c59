package token

import (
	"strings"
	"testing"

	"github.com/deepnoodle-ai/wonton/assert"
)

// Test looking up values succeeds, then fails
func TestLookup(t *testing.T) {
	for key, val := range keywords {
		if LookupIdentifier(key) != val {
			t.Errorf("Lookup of %s failed", key)
		}
		// Once the keywords are uppercase they'll no longer
		// match - so we find them as identifiers.
		if LookupIdentifier(strings.ToUpper(key)) != IDENT {
			t.Errorf("Lookup of %s failed", key)
		}
	}
}

func TestPosition(t *testing.T) {
	tok := Token{
		Type:    IDENT,
		Literal: "foo",
		StartPosition: Position{
			Line:   2,
			Column: 0,
		},
	}
	// Switches to 1-indexed
	assert.Equal(t, tok.StartPosition.LineNumber(), 3)
	assert.Equal(t, tok.StartPosition.ColumnNumber(), 1)
}

func TestLocFrom(t *testing.T) {
	start := Position{Char: 4, Line: 0, Column: 4}
	end := Position{Char: 9, Line: 1, Column: 2}
	loc := LocFrom(start, end)
	assert.Equal(t, loc.Start, LineCol{Line: 1, Column: 4})
	assert.Equal(t, loc.End, LineCol{Line: 2, Column: 2})
	assert.Equal(t, loc.Start.String(), "1:4")
}

func TestReservedWords(t *testing.T) {
	assert.True(t, IsReservedWord("default"))
	assert.True(t, IsReservedWord("class"))
	assert.False(t, IsReservedWord("value"))
	assert.True(t, IsKeyword("typeof"))
	assert.False(t, IsKeyword("default"))
}
