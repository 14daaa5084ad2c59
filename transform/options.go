package transform

import (
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/deepnoodle-ai/morph/ast"
	"github.com/deepnoodle-ai/morph/sourcemap"
	"github.com/rs/zerolog"
)

// SourceMapMode selects whether and how a source map is produced.
type SourceMapMode string

const (
	SourceMapsOff    SourceMapMode = ""
	SourceMapsOn     SourceMapMode = "true"
	SourceMapsInline SourceMapMode = "inline"
	SourceMapsBoth   SourceMapMode = "both"
)

// DefaultHelpersNamespace is the identifier external helpers are read
// from when ExternalHelpers is set.
const DefaultHelpersNamespace = "babelHelpers"

// Options controls the compilation of one file.
type Options struct {
	Filename         string
	FilenameRelative string
	SourceFileName   string
	SourceMapTarget  string
	SourceRoot       string
	ModuleRoot       string

	// Basename is the filename without directory or extension. It is
	// derived from Filename.
	Basename string

	// SourceType is "module" or "script".
	SourceType string

	// Code, AST and Metadata select the parts of the Result that are
	// populated.
	Code     bool
	AST      bool
	Metadata bool

	SourceMaps SourceMapMode

	// InputSourceMap is the map of the input when it was itself compiled.
	// When nil, an inline map comment at the end of the input is used
	// unless DisableInputSourceMap is set.
	InputSourceMap        *sourcemap.Map
	DisableInputSourceMap bool

	// ExternalHelpers reads helpers from HelpersNamespace instead of
	// injecting them into the file.
	ExternalHelpers  bool
	HelpersNamespace string

	// HelperGenerator, when set, supplies the expression used to refer to
	// a helper and no declaration is injected.
	HelperGenerator func(name string) ast.Node

	Plugins []PluginSpec

	Blacklist []string
	Whitelist []string
	Optional  []string
	Loose     []string

	// Modules is the module formatter name.
	Modules string

	// ResolveModuleSource rewrites the source of imports added during
	// transformation.
	ResolveModuleSource func(source, filename string) string

	// Ignore and Only filter files by name. A file matching Ignore, or not
	// matching any Only pattern when Only is set, is returned unchanged.
	Ignore []*regexp.Regexp
	Only   []*regexp.Regexp

	AuxiliaryCommentBefore string
	AuxiliaryCommentAfter  string

	HighlightCode bool
	Compact       bool
	Comments      bool
	Quotes        string

	Logger zerolog.Logger
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{
		Filename:   "unknown",
		SourceType: "module",
		Code:       true,
		AST:        true,
		Metadata:   true,
		Modules:    "common",
		Comments:   true,
		Logger:     zerolog.Nop(),
	}
}

// normalize fills in derived options.
func (o *Options) normalize() {
	if o.Filename == "" {
		o.Filename = "unknown"
	}
	if o.SourceType == "" {
		o.SourceType = "module"
	}
	if o.Modules == "" {
		o.Modules = "common"
	}
	if o.InputSourceMap != nil {
		if o.SourceMaps == SourceMapsOff {
			o.SourceMaps = SourceMapsOn
		}
	}
	base := filepath.Base(o.Filename)
	o.Basename = strings.TrimSuffix(base, filepath.Ext(base))

	if o.ModuleRoot == "" {
		o.ModuleRoot = o.SourceRoot
	}
	if o.SourceRoot == "" {
		o.SourceRoot = o.ModuleRoot
	}
	if o.FilenameRelative == "" {
		o.FilenameRelative = o.Filename
	}
	relative := filepath.Base(o.FilenameRelative)
	if o.SourceFileName == "" {
		o.SourceFileName = relative
	}
	if o.SourceMapTarget == "" {
		o.SourceMapTarget = relative
	}
	if o.ExternalHelpers && o.HelpersNamespace == "" {
		o.HelpersNamespace = DefaultHelpersNamespace
	}
}

// shouldIgnore reports whether the file is excluded by Ignore or Only.
func (o *Options) shouldIgnore() bool {
	filename := filepath.ToSlash(o.Filename)
	for _, re := range o.Ignore {
		if re.MatchString(filename) {
			return true
		}
	}
	if len(o.Only) > 0 {
		for _, re := range o.Only {
			if re.MatchString(filename) {
				return false
			}
		}
		return true
	}
	return false
}

// CompilePatterns compiles filename patterns for Ignore and Only.
func CompilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	var out []*regexp.Regexp
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, err
		}
		out = append(out, re)
	}
	return out, nil
}

func (o *Options) isLoose(key string) bool {
	return slices.Contains(o.Loose, key)
}
