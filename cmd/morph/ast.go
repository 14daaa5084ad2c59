package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/deepnoodle-ai/morph/ast"
	"github.com/deepnoodle-ai/morph/codeframe"
	morpherrors "github.com/deepnoodle-ai/morph/errors"
	"github.com/deepnoodle-ai/morph/parser"
	"github.com/hokaccha/go-prettyjson"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newASTCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ast [file]",
		Short: "Print the syntax tree of a file as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE:  astHandler,
	}
	cmd.Flags().StringP("code", "c", "", "code to parse")
	cmd.Flags().String("source-type", "module", "source type: module or script")
	cmd.Flags().Bool("compact", false, "print the tree on a single line")
	return cmd
}

func astHandler(cmd *cobra.Command, args []string) error {
	filename, code, err := getCode(cmd, args)
	if err != nil {
		return err
	}
	program, err := parser.Parse(cmd.Context(), code,
		parser.WithFilename(filename),
		parser.WithSourceType(viper.GetString("source-type")))
	if err != nil {
		return morpherrors.Annotate(err, filename, code, codeframe.Options{})
	}

	compact := viper.GetBool("compact")
	data, err := ast.Dump(program, !compact)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if !compact && !viper.GetBool("no-color") && isTerminal(out) {
		if colored, err := prettyjson.Format(data); err == nil {
			data = colored
		}
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

// getCode returns the code given by --code, a file argument or stdin,
// along with a name for it.
func getCode(cmd *cobra.Command, args []string) (string, string, error) {
	codeFlag := cmd.Flags().Lookup("code")
	codeSet := codeFlag != nil && codeFlag.Changed
	if codeSet && len(args) > 0 {
		return "", "", errors.New("multiple input sources specified")
	}
	if codeSet {
		return "code", codeFlag.Value.String(), nil
	}
	if len(args) > 0 && args[0] != "-" {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", err
		}
		return args[0], string(data), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", "", err
	}
	return "stdin", string(data), nil
}
