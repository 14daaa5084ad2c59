package codeframe

import (
	"regexp"
	"strings"
	"testing"

	"github.com/deepnoodle-ai/wonton/assert"
)

var ansi = regexp.MustCompile("\x1b\\[[0-9;]*m")

func TestRenderCaret(t *testing.T) {
	frame := Render("a\nb\nc\nd\ne", 3, 2, Options{})
	expected := strings.Join([]string{
		"  1 | a",
		"  2 | b",
		"> 3 | c",
		"    |  ^",
		"  4 | d",
		"  5 | e",
	}, "\n")
	assert.Equal(t, frame, expected)
}

func TestRenderWholeFile(t *testing.T) {
	assert.Equal(t, Render("x\ny", 0, 0, Options{}), "  1 | x\n  2 | y")
}

func TestRenderWindow(t *testing.T) {
	var lines []string
	for i := 1; i <= 10; i++ {
		lines = append(lines, "line")
	}
	frame := Render(strings.Join(lines, "\n"), 7, 1, Options{})
	rows := strings.Split(frame, "\n")
	assert.Equal(t, rows[0], "   5 | line")
	assert.Equal(t, rows[2], ">  7 | line")
	assert.Equal(t, rows[3], "     | ^")
	assert.Equal(t, rows[len(rows)-1], "  10 | line")
	assert.False(t, strings.Contains(frame, " 4 |"))
}

func TestRenderNoColumn(t *testing.T) {
	frame := Render("a\nb", 2, 0, Options{})
	assert.Equal(t, frame, "  1 | a\n> 2 | b")
}

func TestRenderCRLF(t *testing.T) {
	frame := Render("a\r\nb", 1, 1, Options{})
	assert.Equal(t, frame, "> 1 | a\n    | ^\n  2 | b")
}

func TestHighlightPreservesText(t *testing.T) {
	code := "var x = 'a'; // note\nf(x, [1, 2]) /* end */"
	assert.Equal(t, ansi.ReplaceAllString(Highlight(code), ""), code)
}

func TestHighlightInvalidInput(t *testing.T) {
	code := "var s = \"unterminated"
	assert.Equal(t, ansi.ReplaceAllString(Highlight(code), ""), code)
}
