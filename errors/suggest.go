package errors

import (
	"cmp"
	"slices"
	"strings"
)

const maxSuggestions = 3

var separators = strings.NewReplacer("-", "", "_", "", ".", "")

// foldName lowercases s and drops the separators used in helper, plugin
// and formatter names, so "typeOf", "type-of" and "type_of" compare equal.
func foldName(s string) string {
	return separators.Replace(strings.ToLower(s))
}

// Suggest returns the known names closest to name, best first. A name is
// close when its edit distance from name, after folding, is at most a
// third of name's length (at least one, at most three edits).
func Suggest(name string, known []string) []string {
	target := foldName(name)
	if target == "" {
		return nil
	}
	limit := min(max((len(target)+2)/3, 1), 3)

	type match struct {
		name string
		dist int
	}
	var matches []match
	for _, k := range known {
		if k == "" || k == name {
			continue
		}
		if d := distance(target, foldName(k)); d <= limit {
			matches = append(matches, match{k, d})
		}
	}
	slices.SortFunc(matches, func(a, b match) int {
		return cmp.Or(cmp.Compare(a.dist, b.dist), strings.Compare(a.name, b.name))
	})

	out := make([]string, 0, min(len(matches), maxSuggestions))
	for _, m := range matches[:min(len(matches), maxSuggestions)] {
		out = append(out, m.name)
	}
	return out
}

// hint renders the suggestions for name as a "Did you mean" sentence, or
// returns "" when nothing is close.
func hint(name string, known []string) string {
	names := Suggest(name, known)
	switch len(names) {
	case 0:
		return ""
	case 1:
		return "Did you mean '" + names[0] + "'?"
	}
	return "Did you mean one of: '" + strings.Join(names, "', '") + "'?"
}

// distance is the Levenshtein distance between a and b.
func distance(a, b string) int {
	ar, br := []rune(a), []rune(b)
	row := make([]int, len(br)+1)
	for j := range row {
		row[j] = j
	}
	for i := 1; i <= len(ar); i++ {
		diag := row[0]
		row[0] = i
		for j := 1; j <= len(br); j++ {
			above := row[j]
			cost := 1
			if ar[i-1] == br[j-1] {
				cost = 0
			}
			row[j] = min(above+1, row[j-1]+1, diag+cost)
			diag = above
		}
	}
	return row[len(br)]
}
