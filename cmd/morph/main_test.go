package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/deepnoodle-ai/morph/transform"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestBuildStdin(t *testing.T) {
	out, _, err := execute(t, "var s = `a${b}c`;", "build", "--no-color")
	require.NoError(t, err)
	require.Equal(t, "var s = \"a\" + b + \"c\";\n", out)
}

func TestBuildFlags(t *testing.T) {
	code := `import a from "a"; a.default;`

	out, _, err := execute(t, code, "build", "--loose", "es6.modules", "--blacklist", "es3.memberExpressionLiterals")
	require.NoError(t, err)
	require.Equal(t, "var a = require(\"a\")[\"default\"];\na.default;\n", out)

	out, _, err = execute(t, code, "build", "-m", "ignore", "--compact")
	require.NoError(t, err)
	require.Equal(t, "a[\"default\"];\n", out)

	out, _, err = execute(t, "console.log(1);", "build", "--optional", "utility.removeConsole")
	require.NoError(t, err)
	require.Equal(t, "\n", out)
}

func TestBuildEnvironment(t *testing.T) {
	t.Setenv("MORPH_BLACKLIST", "es6.templateLiterals")
	viper.Reset()
	viper.SetEnvPrefix("morph")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	opts, err := getMorphOptions(&bytes.Buffer{})
	require.NoError(t, err)
	require.NotEmpty(t, opts)
	require.Equal(t, []string{"es6.templateLiterals"}, viper.GetStringSlice("blacklist"))
}

func TestBuildExternalHelpers(t *testing.T) {
	out, _, err := execute(t, "tag`x`;", "build", "--external-helpers", "h")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "var _templateObject = h.taggedTemplateLiteral("))
	require.NotContains(t, out, "function _taggedTemplateLiteral(")
}

func TestBuildFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.js", "var a = `${x}`;")
	b := writeFile(t, dir, "b.js", "b.default;")
	outDir := filepath.Join(dir, "lib")

	_, stderr, err := execute(t, "", "build", "-d", outDir, "-s", "true", a, b)
	require.NoError(t, err)
	require.Contains(t, stderr, "a.js -> ")

	data, err := os.ReadFile(filepath.Join(outDir, "a.js"))
	require.NoError(t, err)
	require.Equal(t, "var a = \"\" + x;\n//# sourceMappingURL=a.js.map\n", string(data))

	mapData, err := os.ReadFile(filepath.Join(outDir, "a.js.map"))
	require.NoError(t, err)
	require.Contains(t, string(mapData), `"version":3`)

	data, err = os.ReadFile(filepath.Join(outDir, "b.js"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(data), "b[\"default\"];"))
}

func TestBuildErrors(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.js", "x;")
	bad := writeFile(t, dir, "bad.js", "var = ;")

	out, _, err := execute(t, "", "build", good, bad)
	require.Error(t, err)
	require.Contains(t, err.Error(), "bad.js")
	require.Equal(t, "x;\n", out)

	_, _, err = execute(t, "x;", "build", "-s", "sometimes")
	require.ErrorContains(t, err, "invalid source map mode")

	_, _, err = execute(t, "x;", "build", "-m", "amd")
	require.Error(t, err)
}

func TestParseSourceMapMode(t *testing.T) {
	tests := []struct {
		in   string
		want transform.SourceMapMode
	}{
		{"", transform.SourceMapsOff},
		{"false", transform.SourceMapsOff},
		{"true", transform.SourceMapsOn},
		{"inline", transform.SourceMapsInline},
		{"BOTH", transform.SourceMapsBoth},
	}
	for _, tt := range tests {
		got, err := parseSourceMapMode(tt.in)
		require.NoError(t, err)
		require.Equal(t, tt.want, got, tt.in)
	}
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, ".morphrc.yaml", "blacklist:\n  - es6.templateLiterals\n")

	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.SetConfigFile(cfg)
	require.NoError(t, viper.ReadInConfig())

	var stdout bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs([]string{"build"})
	cmd.SetIn(strings.NewReader("x = `a`;"))
	cmd.SetOut(&stdout)
	require.NoError(t, cmd.Execute())
	require.Equal(t, "x = `a`;\n", stdout.String())
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "", "version")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "morph dev (commit unknown"))

	out, _, err = execute(t, "", "version", "-o", "json")
	require.NoError(t, err)
	require.Contains(t, out, `"version": "dev"`)
}
