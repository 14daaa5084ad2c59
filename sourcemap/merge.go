package sourcemap

// Merge composes a map of transformed output against its input with the
// map of that input against the original sources. The result points from
// the transformed output straight to the original sources and keeps the
// input map's sources, in order with duplicates dropped, and file. With no input map, generated is returned
// as is.
//
// Generated positions whose input position is not covered by the input
// map are dropped.
func Merge(generated, input *Map) (*Map, error) {
	if input == nil {
		return generated, nil
	}
	outer, err := NewConsumer(generated)
	if err != nil {
		return nil, err
	}
	inner, err := NewConsumer(input)
	if err != nil {
		return nil, err
	}

	g := NewGenerator(input.File, input.SourceRoot)
	for _, src := range input.Sources {
		g.addSource(src)
	}
	for i, content := range input.SourcesContent {
		if i < len(input.Sources) && content != "" {
			g.SetSourceContent(input.Sources[i], content)
		}
	}
	for _, m := range outer.Mappings() {
		if !m.HasSource {
			continue
		}
		orig, ok := inner.OriginalPositionFor(m.Original.Line, m.Original.Column)
		if !ok {
			continue
		}
		name := orig.Name
		if name == "" {
			name = m.Name
		}
		g.AddMapping(Mapping{
			Generated: m.Generated,
			Original:  orig.Original,
			Source:    orig.Source,
			Name:      name,
			HasSource: true,
		})
	}
	merged := g.ToMap()
	merged.File = input.File
	return merged, nil
}
