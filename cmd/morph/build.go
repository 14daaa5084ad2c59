package main

import (
	"cmp"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/deepnoodle-ai/morph"
	"github.com/deepnoodle-ai/morph/transform"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [files...]",
		Short: "Compile files",
		Long: `Compile one or more files. With no files, or "-", the code is read
from stdin. Output goes to stdout unless --out-dir is given.`,
		Example: `  morph build src/app.js
  morph build -d lib -s true src/*.js
  echo 'let x = ` + "`a${b}`" + `' | morph build`,
		RunE: buildHandler,
	}
	addTransformFlags(cmd.Flags())
	cmd.Flags().StringP("out-dir", "d", "", "write compiled files to this directory")
	cmd.Flags().String("filename", "", "filename to use when reading from stdin")
	cmd.Flags().Int("concurrency", 8, "maximum number of files compiled at once")
	return cmd
}

// addTransformFlags registers the flags shared by every command that
// compiles code.
func addTransformFlags(fs *pflag.FlagSet) {
	fs.StringP("source-maps", "s", "", "emit source maps: true, inline or both")
	fs.StringSliceP("blacklist", "b", nil, "transformers to skip")
	fs.StringSliceP("whitelist", "l", nil, "run only these transformers")
	fs.StringSlice("optional", nil, "optional transformers to enable")
	fs.StringSlice("loose", nil, "transformers to run in loose mode")
	fs.StringP("modules", "m", "", "module formatter: common or ignore")
	fs.String("external-helpers", "", "reference helpers from this global instead of inlining them")
	fs.Bool("compact", false, "omit optional whitespace")
}

func buildHandler(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	opts, err := getMorphOptions(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	outDir := viper.GetString("out-dir")

	if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return err
		}
		if name := viper.GetString("filename"); name != "" {
			opts = append(opts, morph.WithFilename(name))
		}
		res, err := morph.Transform(ctx, string(data), opts...)
		if err != nil {
			return err
		}
		if outDir != "" {
			return writeOutput(filepath.Join(outDir, cmp.Or(viper.GetString("filename"), "stdin.js")), res)
		}
		return printResult(cmd.OutOrStdout(), res)
	}

	results, err := morph.TransformFiles(ctx, args, opts...)
	for i, res := range results {
		if res == nil {
			continue
		}
		if outDir == "" {
			if perr := printResult(cmd.OutOrStdout(), res); perr != nil {
				return perr
			}
			continue
		}
		if werr := writeOutput(outputPath(outDir, args[i]), res); werr != nil {
			return werr
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "%s -> %s\n", args[i], outputPath(outDir, args[i]))
	}
	return err
}

func printResult(w io.Writer, res *transform.Result) error {
	_, err := fmt.Fprintln(w, res.Code)
	return err
}

// writeOutput writes the compiled code to path. An external source map is
// written next to it as path.map and referenced from the code.
func writeOutput(path string, res *transform.Result) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	code := res.Code
	if res.Map != nil {
		data, err := res.Map.JSON()
		if err != nil {
			return err
		}
		if err := os.WriteFile(path+".map", data, 0o644); err != nil {
			return err
		}
		code += "\n//# sourceMappingURL=" + filepath.Base(path) + ".map"
	}
	return os.WriteFile(path, []byte(code+"\n"), 0o644)
}
