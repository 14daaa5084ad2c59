package main

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/deepnoodle-ai/morph"
	"github.com/deepnoodle-ai/morph/errors"
	"github.com/deepnoodle-ai/morph/transform"
	"github.com/fatih/color"
	"github.com/goccy/go-json"
	"github.com/hashicorp/go-multierror"
	"github.com/hokaccha/go-prettyjson"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

var envKeyReplacer = strings.NewReplacer("-", "_", ".", "_")

func fatal(msg interface{}) {
	var s string
	switch msg := msg.(type) {
	case string:
		s = msg
	case error:
		s = msg.Error()
	default:
		s = fmt.Sprintf("%v", msg)
	}
	fmt.Fprintf(os.Stderr, "%s\n", red(s))
	os.Exit(1)
}

// printError writes err to stderr. Combined errors are printed one by one.
func printError(err error) {
	errs := []error{err}
	var merr *multierror.Error
	if stderrors.As(err, &merr) {
		errs = merr.Errors
	}
	fmt.Fprint(os.Stderr, errors.NewFormatter(!color.NoColor).FormatAll(errs))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Reads global flags from Viper and adjusts the environment accordingly.
func processGlobalFlags() {
	if viper.GetBool("no-color") {
		color.NoColor = true
	}
}

// writeJSON encodes v to w, colorized when w is a terminal.
func writeJSON(w io.Writer, v any) error {
	var (
		data []byte
		err  error
	)
	if !viper.GetBool("no-color") && isTerminal(w) {
		data, err = prettyjson.Marshal(v)
	} else {
		data, err = json.MarshalIndent(v, "", "  ")
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func newLogger(w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(viper.GetString("log-level"))
	if err != nil || viper.GetString("log-level") == "" {
		level = zerolog.WarnLevel
	}
	out := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    viper.GetBool("no-color") || !isTerminal(w),
		TimeFormat: time.Kitchen,
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// getMorphOptions returns the transform options configured through flags,
// the environment and the config file.
func getMorphOptions(logOut io.Writer) ([]morph.Option, error) {
	opts := []morph.Option{
		morph.WithBlacklist(viper.GetStringSlice("blacklist")...),
		morph.WithWhitelist(viper.GetStringSlice("whitelist")...),
		morph.WithOptional(viper.GetStringSlice("optional")...),
		morph.WithLoose(viper.GetStringSlice("loose")...),
		morph.WithCompact(viper.GetBool("compact")),
		morph.WithLogger(newLogger(logOut)),
	}

	mode, err := parseSourceMapMode(viper.GetString("source-maps"))
	if err != nil {
		return nil, err
	}
	opts = append(opts, morph.WithSourceMaps(mode))

	if name := viper.GetString("modules"); name != "" {
		opts = append(opts, morph.WithModules(name))
	}
	if viper.IsSet("external-helpers") && viper.GetString("external-helpers") != "" {
		opts = append(opts, morph.WithExternalHelpers(viper.GetString("external-helpers")))
	}
	if n := viper.GetInt("concurrency"); n > 0 {
		opts = append(opts, morph.WithConcurrency(n))
	}
	return opts, nil
}

func parseSourceMapMode(s string) (transform.SourceMapMode, error) {
	switch strings.ToLower(s) {
	case "", "false", "none":
		return transform.SourceMapsOff, nil
	case "true", "file":
		return transform.SourceMapsOn, nil
	case "inline":
		return transform.SourceMapsInline, nil
	case "both":
		return transform.SourceMapsBoth, nil
	}
	return transform.SourceMapsOff, fmt.Errorf("invalid source map mode: %q", s)
}

func outputPath(outDir, input string) string {
	return filepath.Join(outDir, filepath.Base(input))
}
