// Package morph compiles JavaScript source with a configurable pipeline of
// transformation passes.
//
// The default pipeline carries the builtin transformers:
//
//	result, err := morph.Transform(ctx, "var s = `a${b}`;")
//	fmt.Println(result.Code) // var s = "a" + b;
//
// Plugins are added per compilation with WithPlugin, or registered on a
// custom pipeline passed with WithPipeline.
package morph

import (
	"context"
	"os"
	"sync"

	"github.com/deepnoodle-ai/morph/transform"
	"github.com/deepnoodle-ai/morph/transform/builtins"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"
)

// DefaultPipeline returns the shared pipeline with the builtin
// transformers.
var DefaultPipeline = sync.OnceValue(func() *transform.Pipeline {
	return builtins.NewPipeline()
})

// Transform compiles code.
func Transform(ctx context.Context, code string, opts ...Option) (*transform.Result, error) {
	o := collectOptions(opts...)
	return o.getPipeline().Transform(ctx, code, o.transform)
}

// TransformFile reads and compiles the named file. The filename option
// defaults to name.
func TransformFile(ctx context.Context, name string, opts ...Option) (*transform.Result, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	o := collectOptions(append([]Option{WithFilename(name)}, opts...)...)
	return o.getPipeline().Transform(ctx, string(data), o.transform)
}

// TransformFiles compiles the named files concurrently. Results are
// returned in the order of names; the result of a file that failed is
// nil. The returned error combines every failure.
func TransformFiles(ctx context.Context, names []string, opts ...Option) ([]*transform.Result, error) {
	o := collectOptions(opts...)
	results := make([]*transform.Result, len(names))
	errs := make([]error, len(names))

	g, ctx := errgroup.WithContext(ctx)
	if o.concurrency > 0 {
		g.SetLimit(o.concurrency)
	}
	for i, name := range names {
		g.Go(func() error {
			results[i], errs[i] = TransformFile(ctx, name, opts...)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}

	var merr *multierror.Error
	for _, err := range errs {
		if err != nil {
			merr = multierror.Append(merr, err)
		}
	}
	return results, merr.ErrorOrNil()
}
