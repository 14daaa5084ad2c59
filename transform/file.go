package transform

import (
	"context"
	"regexp"

	"github.com/deepnoodle-ai/morph/ast"
	"github.com/deepnoodle-ai/morph/generator"
	"github.com/deepnoodle-ai/morph/modules"
	"github.com/deepnoodle-ai/morph/parser"
	"github.com/deepnoodle-ai/morph/sourcemap"
	"github.com/deepnoodle-ai/morph/traverse"
	"github.com/rs/zerolog"
)

var shebangRegex = regexp.MustCompile(`^#!.*`)

// File is one compilation: the options, the source, the tree and the
// passes scheduled for it. A File is used by a single goroutine.
type File struct {
	Options  *Options
	Program  *ast.Program
	Code     string
	Shebang  string
	Metadata *Metadata

	pipeline *Pipeline
	log      zerolog.Logger
	scope    *traverse.Scope

	// transformers holds every pass by key, enabled or not.
	transformers map[string]*Pass
	uncollapsed  []*Pass
	stack        []*Pass
	dependencies map[string]string

	// declarations caches injected helper and template object identifiers.
	declarations map[string]*ast.Identifier
	usedHelpers  map[string]bool

	dynamicImportIDs   map[string]*ast.Identifier
	dynamicImportTypes map[string][]*ast.ImportDeclaration
	dynamicImports     []ast.Node

	data        map[string]any
	dynamicData map[string]func() any

	formatter modules.Formatter
}

// NewFile normalizes opts and builds the passes of pipeline for one file.
func NewFile(opts Options, pipeline *Pipeline) (*File, error) {
	opts.normalize()
	f := &File{
		Options:            &opts,
		Metadata:           &Metadata{UsedHelpers: []string{}, Modules: ModuleMetadata{Imports: []modules.Import{}}},
		pipeline:           pipeline,
		log:                opts.Logger.With().Str("file", opts.Filename).Logger(),
		transformers:       map[string]*Pass{},
		dependencies:       map[string]string{},
		declarations:       map[string]*ast.Identifier{},
		usedHelpers:        map[string]bool{},
		dynamicImportIDs:   map[string]*ast.Identifier{},
		dynamicImportTypes: map[string][]*ast.ImportDeclaration{},
		data:               map[string]any{},
		dynamicData:        map[string]func() any{},
	}
	if opts.ExternalHelpers {
		f.Set("helpersNamespace", ast.NewIdentifier(opts.HelpersNamespace))
	}
	if opts.HelperGenerator != nil {
		f.Set("helperGenerator", opts.HelperGenerator)
	}
	if err := f.buildPasses(); err != nil {
		return nil, err
	}
	return f, nil
}

// Pipeline returns the pipeline the file belongs to.
func (f *File) Pipeline() *Pipeline { return f.pipeline }

// Logger returns the file logger.
func (f *File) Logger() zerolog.Logger { return f.log }

// Scope returns the program scope. It is nil until the program is loaded.
func (f *File) Scope() *traverse.Scope { return f.scope }

// Pass returns the pass for key, whether or not it is enabled.
func (f *File) Pass(key string) (*Pass, bool) {
	p, ok := f.transformers[key]
	return p, ok
}

// Stack returns the collapsed passes in execution order.
func (f *File) Stack() []*Pass { return f.stack }

// Dependencies maps each declared dependency to the key of the last pass
// declaring it.
func (f *File) Dependencies() map[string]string { return f.dependencies }

// Formatter returns the module formatter of the file.
func (f *File) Formatter() modules.Formatter { return f.formatter }

// IsLoose reports whether key is compiled in loose mode.
func (f *File) IsLoose(key string) bool {
	return f.Options.isLoose(key)
}

// Set stores val under key and returns it.
func (f *File) Set(key string, val any) any {
	f.data[key] = val
	return val
}

// SetDynamic registers fn to compute the value of key on its first Get.
func (f *File) SetDynamic(key string, fn func() any) {
	f.dynamicData[key] = fn
}

// Get returns the value stored under key. A dynamic value is computed and
// stored the first time it is requested.
func (f *File) Get(key string) any {
	if v, ok := f.data[key]; ok && v != nil {
		return v
	}
	if fn, ok := f.dynamicData[key]; ok {
		return f.Set(key, fn())
	}
	return nil
}

// canTransform reports whether the pass for key exists and is enabled.
func (f *File) canTransform(key string) bool {
	p, ok := f.transformers[key]
	return ok && p.canTransform
}

// ResolveModuleSource applies the configured module source resolver.
func (f *File) ResolveModuleSource(source string) string {
	if resolve := f.Options.ResolveModuleSource; resolve != nil {
		return resolve(source, f.Options.Filename)
	}
	return source
}

// AddImport adds `import name from "source"` to the file and returns the
// local identifier. Imports are deduplicated by name, which defaults to
// source. kind groups the import for DynamicImports.
func (f *File) AddImport(source, name, kind string) (*ast.Identifier, error) {
	if name == "" {
		name = source
	}
	if id, ok := f.dynamicImportIDs[name]; ok {
		return id, nil
	}
	source = f.ResolveModuleSource(source)
	id := f.scope.GenerateUIDIdentifier(name)
	f.dynamicImportIDs[name] = id

	spec := &ast.ImportDefaultSpecifier{Local: id}
	decl := &ast.ImportDeclaration{Specifiers: []ast.Node{spec}, Source: ast.NewStringLiteral(source)}
	decl.Generated = true
	decl.SetBlockHoist(3)
	if kind != "" {
		f.dynamicImportTypes[kind] = append(f.dynamicImportTypes[kind], decl)
	}

	if f.canTransform("es6.modules") {
		var nodes []ast.Node
		if err := f.formatter.ImportSpecifier(spec, decl, &nodes); err != nil {
			return nil, err
		}
		for _, n := range nodes {
			n.Meta().Generated = true
			n.Meta().SetBlockHoist(3)
		}
		f.dynamicImports = append(f.dynamicImports, nodes...)
	} else {
		f.dynamicImports = append(f.dynamicImports, decl)
	}
	return id, nil
}

// DynamicImports returns the imports added with kind.
func (f *File) DynamicImports(kind string) []*ast.ImportDeclaration {
	return f.dynamicImportTypes[kind]
}

// FlushDynamicImports moves the pending dynamic imports to the top of the
// program.
func (f *File) FlushDynamicImports() {
	if len(f.dynamicImports) == 0 || f.Program == nil {
		return
	}
	f.scope.Tree().Insert(&f.Program.Body, 0, f.dynamicImports...)
	f.dynamicImports = nil
}

// AttachAuxiliaryComment adds the configured auxiliary comments to node.
func (f *File) AttachAuxiliaryComment(node ast.Node) ast.Node {
	m := node.Meta()
	if before := f.Options.AuxiliaryCommentBefore; before != "" {
		m.LeadingComments = append(m.LeadingComments, ast.Comment{Block: true, Value: " " + before + " "})
	}
	if after := f.Options.AuxiliaryCommentAfter; after != "" {
		m.TrailingComments = append(m.TrailingComments, ast.Comment{Block: true, Value: " " + after + " "})
	}
	return node
}

func (f *File) attachDeclaration(decl *ast.VariableDeclaration) {
	f.AttachAuxiliaryComment(decl)
}

// addCode records the source and extracts an inline input source map.
func (f *File) addCode(code string) error {
	if !f.Options.DisableInputSourceMap {
		stripped, m, err := sourcemap.ExtractInline(code)
		if err != nil {
			return err
		}
		if m != nil {
			code = stripped
			f.Options.InputSourceMap = m
		}
	}
	f.Code = code
	return nil
}

func (f *File) parseShebang() {
	if shebang := shebangRegex.FindString(f.Code); shebang != "" {
		f.Shebang = shebang
		f.Code = f.Code[len(shebang):]
	}
}

func (f *File) parseCode(ctx context.Context) error {
	f.parseShebang()
	f.log.Debug().Msg("Parse start")
	program, err := parser.Parse(ctx, f.Code,
		parser.WithFilename(f.Options.Filename),
		parser.WithSourceType(f.Options.SourceType),
	)
	if err != nil {
		return err
	}
	f.log.Debug().Msg("Parse stop")
	return f.addAST(program)
}

// addAST installs the program, its scope and the module formatter.
func (f *File) addAST(program *ast.Program) error {
	f.Program = program
	f.scope = traverse.NewScope(program)

	formatter, err := modules.New(f.Options.Modules, f)
	if err != nil {
		return err
	}
	if formatter.Kind() == modules.External {
		f.log.Warn().Str("modules", f.Options.Modules).
			Msg("Custom module formatters are deprecated and will be removed in the next major version")
	}
	f.formatter = formatter
	if f.canTransform("es6.modules") {
		if err := formatter.Init(); err != nil {
			return err
		}
		f.Metadata.Modules.Imports = formatter.Imports()
	}
	return nil
}

// Transform runs the pre hooks, every pass and the post hooks, then
// generates the output. The context is checked between passes.
func (f *File) Transform(ctx context.Context) (*Result, error) {
	if err := f.call(ctx, func(p *Plugin) Hook { return p.Pre }); err != nil {
		return nil, err
	}
	for _, pass := range f.stack {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := pass.Transform(); err != nil {
			return nil, err
		}
	}
	if err := f.call(ctx, func(p *Plugin) Hook { return p.Post }); err != nil {
		return nil, err
	}
	f.FlushDynamicImports()
	return f.generate()
}

// call runs one lifecycle hook of every uncollapsed pass.
func (f *File) call(ctx context.Context, hook func(*Plugin) Hook) error {
	for _, pass := range f.uncollapsed {
		fn := hook(pass.Plugin)
		if fn == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(pass, f); err != nil {
			return err
		}
	}
	return nil
}

func (f *File) generate() (*Result, error) {
	opts := f.Options
	if !opts.Code {
		return f.makeResult(output{}), nil
	}
	f.log.Debug().Msg("Generation start")
	genOpts := []generator.Option{
		generator.WithCompact(opts.Compact),
		generator.WithComments(opts.Comments),
	}
	if opts.Quotes != "" {
		genOpts = append(genOpts, generator.WithQuotes(opts.Quotes))
	}
	if opts.SourceMaps != SourceMapsOff {
		genOpts = append(genOpts, generator.WithSourceMaps(opts.SourceFileName, opts.SourceMapTarget, opts.SourceRoot))
	}
	gen, err := generator.Generate(f.Program, f.Code, genOpts...)
	if err != nil {
		return nil, err
	}
	f.log.Debug().Msg("Generation end")

	out := output{code: gen.Code, mapping: gen.Map}
	if f.Shebang != "" {
		out.code = f.Shebang + "\n" + out.code
	}
	if out.mapping != nil {
		merged, err := sourcemap.Merge(out.mapping, opts.InputSourceMap)
		if err != nil {
			return nil, err
		}
		out.mapping = merged
	}
	if out.mapping != nil && (opts.SourceMaps == SourceMapsInline || opts.SourceMaps == SourceMapsBoth) {
		comment, err := sourcemap.InlineComment(out.mapping)
		if err != nil {
			return nil, err
		}
		out.code += "\n" + comment
	}
	if opts.SourceMaps == SourceMapsInline {
		out.mapping = nil
	}
	return f.makeResult(out), nil
}
