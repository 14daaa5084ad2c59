// Package sourcemap reads, writes and composes version 3 source maps.
package sourcemap

import (
	"github.com/goccy/go-json"

	"github.com/deepnoodle-ai/morph/errors"
)

// Map is the JSON form of a version 3 source map.
type Map struct {
	Version        int      `json:"version"`
	File           string   `json:"file,omitempty"`
	SourceRoot     string   `json:"sourceRoot,omitempty"`
	Sources        []string `json:"sources"`
	SourcesContent []string `json:"sourcesContent,omitempty"`
	Names          []string `json:"names"`
	Mappings       string   `json:"mappings"`
}

// Position is a 1-based line and 0-based column.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Mapping links a position in generated code to a position in a source.
// Mappings without a source only mark the start of unmapped output.
type Mapping struct {
	Generated Position
	Original  Position
	Source    string
	Name      string
	HasSource bool
}

// Parse decodes a source map from JSON.
func Parse(data []byte) (*Map, error) {
	var m Map
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.NewOutputError(errors.E3001, "invalid source map: %v", err)
	}
	if m.Version != 3 {
		return nil, errors.NewOutputError(errors.E3001, "unsupported source map version %d", m.Version)
	}
	return &m, nil
}

// JSON encodes the map.
func (m *Map) JSON() ([]byte, error) {
	return json.Marshal(m)
}

// Clone returns a deep copy of the map.
func (m *Map) Clone() *Map {
	if m == nil {
		return nil
	}
	out := *m
	out.Sources = append([]string(nil), m.Sources...)
	out.Names = append([]string(nil), m.Names...)
	if m.SourcesContent != nil {
		out.SourcesContent = append([]string(nil), m.SourcesContent...)
	}
	return &out
}
