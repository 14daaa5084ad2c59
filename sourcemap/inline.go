package sourcemap

import (
	"encoding/base64"
	"regexp"
	"strings"

	"github.com/deepnoodle-ai/morph/errors"
)

const inlinePrefix = "data:application/json;charset=utf-8;base64,"

var inlineComment = regexp.MustCompile(`(?m)^[ \t]*//[#@][ \t]+sourceMappingURL=data:(?:application|text)/json;(?:charset[:=][^;\s]+;)?base64,([A-Za-z0-9+/=]+)[ \t]*\r?$`)

// InlineComment returns a `//# sourceMappingURL=` comment embedding m.
func InlineComment(m *Map) (string, error) {
	data, err := m.JSON()
	if err != nil {
		return "", err
	}
	return "//# sourceMappingURL=" + inlinePrefix + base64.StdEncoding.EncodeToString(data), nil
}

// ExtractInline looks for the last inline source map comment in code. It
// returns the code with the comment removed and the decoded map, or the
// code unchanged and a nil map when there is no such comment.
func ExtractInline(code string) (string, *Map, error) {
	matches := inlineComment.FindAllStringSubmatchIndex(code, -1)
	if len(matches) == 0 {
		return code, nil, nil
	}
	loc := matches[len(matches)-1]
	data, err := base64.StdEncoding.DecodeString(code[loc[2]:loc[3]])
	if err != nil {
		return code, nil, errors.NewOutputError(errors.E3001, "invalid inline source map: %v", err)
	}
	m, err := Parse(data)
	if err != nil {
		return code, nil, err
	}
	stripped := code[:loc[0]] + strings.TrimPrefix(code[loc[1]:], "\n")
	return stripped, m, nil
}
