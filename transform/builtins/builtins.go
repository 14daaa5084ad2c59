// Package builtins provides the transformers that are registered on every
// pipeline by default.
package builtins

import "github.com/deepnoodle-ai/morph/transform"

// Transformers returns the builtin transformers in run order.
func Transformers() []*transform.Plugin {
	return []*transform.Plugin{
		RemoveConsole(),
		TemplateLiterals(),
		Modules(),
		MemberExpressionLiterals(),
		PropertyLiterals(),
		BlockHoist(),
	}
}

// Register adds every builtin transformer to p.
func Register(p *transform.Pipeline) error {
	for _, t := range Transformers() {
		if err := p.AddTransformer(t); err != nil {
			return err
		}
	}
	return nil
}

// NewPipeline returns a pipeline with the builtin transformers registered.
func NewPipeline(opts ...transform.PipelineOption) *transform.Pipeline {
	p := transform.NewPipeline(opts...)
	if err := Register(p); err != nil {
		panic(err)
	}
	return p
}
