package sourcemap

import (
	"sort"
	"strings"
)

// Generator accumulates mappings and encodes them into a Map.
type Generator struct {
	file       string
	sourceRoot string
	sources    []string
	sourceIdx  map[string]int
	contents   map[string]string
	names      []string
	nameIdx    map[string]int
	mappings   []Mapping
}

// NewGenerator returns an empty generator for the given output file.
func NewGenerator(file, sourceRoot string) *Generator {
	return &Generator{
		file:       file,
		sourceRoot: sourceRoot,
		sourceIdx:  map[string]int{},
		contents:   map[string]string{},
		nameIdx:    map[string]int{},
	}
}

// AddMapping records a mapping. Exact duplicates are encoded once.
func (g *Generator) AddMapping(m Mapping) {
	if m.HasSource {
		g.addSource(m.Source)
		if m.Name != "" {
			if _, ok := g.nameIdx[m.Name]; !ok {
				g.nameIdx[m.Name] = len(g.names)
				g.names = append(g.names, m.Name)
			}
		}
	}
	g.mappings = append(g.mappings, m)
}

// SetSourceContent embeds the original text of a source.
func (g *Generator) SetSourceContent(source, content string) {
	g.addSource(source)
	g.contents[source] = content
}

func (g *Generator) addSource(source string) {
	if _, ok := g.sourceIdx[source]; !ok {
		g.sourceIdx[source] = len(g.sources)
		g.sources = append(g.sources, source)
	}
}

// Mappings returns the recorded mappings ordered by generated position.
func (g *Generator) Mappings() []Mapping {
	out := append([]Mapping(nil), g.mappings...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Generated, out[j].Generated
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
	return out
}

// ToMap encodes the mappings.
func (g *Generator) ToMap() *Map {
	m := &Map{
		Version:    3,
		File:       g.file,
		SourceRoot: g.sourceRoot,
		Sources:    append([]string{}, g.sources...),
		Names:      append([]string{}, g.names...),
		Mappings:   g.encode(),
	}
	if len(g.contents) > 0 {
		m.SourcesContent = make([]string, len(g.sources))
		for i, src := range g.sources {
			m.SourcesContent[i] = g.contents[src]
		}
	}
	return m
}

func (g *Generator) encode() string {
	var b strings.Builder
	var prevCol, prevSource, prevLine, prevOrigCol, prevName int
	line := 1
	var prev *Mapping
	for _, m := range g.Mappings() {
		if m.Generated.Line != line {
			prevCol = 0
			for line < m.Generated.Line {
				b.WriteByte(';')
				line++
			}
		} else if prev != nil {
			if sameMapping(*prev, m) {
				continue
			}
			b.WriteByte(',')
		}
		encodeVLQ(&b, m.Generated.Column-prevCol)
		prevCol = m.Generated.Column
		if m.HasSource {
			idx := g.sourceIdx[m.Source]
			encodeVLQ(&b, idx-prevSource)
			prevSource = idx
			encodeVLQ(&b, m.Original.Line-1-prevLine)
			prevLine = m.Original.Line - 1
			encodeVLQ(&b, m.Original.Column-prevOrigCol)
			prevOrigCol = m.Original.Column
			if m.Name != "" {
				idx := g.nameIdx[m.Name]
				encodeVLQ(&b, idx-prevName)
				prevName = idx
			}
		}
		mm := m
		prev = &mm
	}
	return b.String()
}

func sameMapping(a, b Mapping) bool {
	return a.Generated == b.Generated && a.HasSource == b.HasSource &&
		a.Source == b.Source && a.Original == b.Original && a.Name == b.Name
}
