package sourcemap

import (
	"sort"

	"github.com/deepnoodle-ai/morph/errors"
)

// Consumer answers position queries against a decoded map.
type Consumer struct {
	m        *Map
	mappings []Mapping
}

// NewConsumer decodes the mappings of m.
func NewConsumer(m *Map) (*Consumer, error) {
	mappings, err := decodeMappings(m)
	if err != nil {
		return nil, err
	}
	return &Consumer{m: m, mappings: mappings}, nil
}

// Mappings returns every decoded mapping in generated order.
func (c *Consumer) Mappings() []Mapping {
	return c.mappings
}

// OriginalPositionFor returns the mapping covering the generated position:
// the last mapping on the same line whose column is not after col.
func (c *Consumer) OriginalPositionFor(line, col int) (Mapping, bool) {
	i := sort.Search(len(c.mappings), func(i int) bool {
		g := c.mappings[i].Generated
		return g.Line > line || (g.Line == line && g.Column > col)
	})
	if i == 0 {
		return Mapping{}, false
	}
	m := c.mappings[i-1]
	if m.Generated.Line != line || !m.HasSource {
		return Mapping{}, false
	}
	return m, true
}

func decodeMappings(m *Map) ([]Mapping, error) {
	var out []Mapping
	s := m.Mappings
	line, col := 1, 0
	var source, origLine, origCol, name int
	for i := 0; i < len(s); {
		switch s[i] {
		case ';':
			line++
			col = 0
			i++
			continue
		case ',':
			i++
			continue
		}
		var fields [5]int
		n := 0
		for i < len(s) && s[i] != ',' && s[i] != ';' {
			if n == len(fields) {
				return nil, errors.NewOutputError(errors.E3001, "invalid source map: segment has too many fields")
			}
			v, next, err := decodeVLQ(s, i)
			if err != nil {
				return nil, errors.NewOutputError(errors.E3001, "invalid source map: %v", err)
			}
			fields[n] = v
			n++
			i = next
		}
		col += fields[0]
		mapping := Mapping{Generated: Position{Line: line, Column: col}}
		switch n {
		case 1:
		case 4, 5:
			source += fields[1]
			origLine += fields[2]
			origCol += fields[3]
			if source < 0 || source >= len(m.Sources) {
				return nil, errors.NewOutputError(errors.E3001, "invalid source map: source index %d out of range", source)
			}
			mapping.HasSource = true
			mapping.Source = m.Sources[source]
			mapping.Original = Position{Line: origLine + 1, Column: origCol}
			if n == 5 {
				name += fields[4]
				if name < 0 || name >= len(m.Names) {
					return nil, errors.NewOutputError(errors.E3001, "invalid source map: name index %d out of range", name)
				}
				mapping.Name = m.Names[name]
			}
		default:
			return nil, errors.NewOutputError(errors.E3001, "invalid source map: segment has %d fields", n)
		}
		out = append(out, mapping)
	}
	return out, nil
}
