package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/haiku/internal/cli/config"
	rootutil "github.com/leapstack-labs/haiku/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type runResult struct {
	code   int
	stdout string
	stderr string
}

// run executes the CLI from a fresh temporary working directory.
func run(t *testing.T, stdin string, args ...string) runResult {
	t.Helper()
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	var stdout, stderr bytes.Buffer
	code := Run(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)
	return runResult{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func TestRootCommandHelp(t *testing.T) {
	t.Chdir(t.TempDir())
	res := run(t, "", "--help")
	require.Equal(t, ExitOK, res.code)

	for _, name := range []string{"tokens", "parse", "fmt", "ir", "check", "lint", "rules", "doctor", "repl", "history", "config", "serve", "lsp", "version", "completion"} {
		assert.Contains(t, res.stdout, name)
	}
	for _, flag := range []string{"--error-policy", "--max-errors", "--output", "--workers", "--source-extensions"} {
		assert.Contains(t, res.stdout, flag)
	}
}

func TestRootCommandVersion(t *testing.T) {
	t.Chdir(t.TempDir())
	res := run(t, "", "version")
	require.Equal(t, ExitOK, res.code)
	assert.Contains(t, res.stdout, "haiku v"+Version)

	res = run(t, "", "--version")
	require.Equal(t, ExitOK, res.code)
	assert.Contains(t, res.stdout, "haiku "+Version)
}

func TestRunExitCodes(t *testing.T) {
	t.Chdir(t.TempDir())

	res := run(t, "fn main() -> i32 = 1 + 2;", "ir", "-", "-o", "text")
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "return (+ 1 2)")

	res = run(t, "fn main() { let = 1; }", "ir", "-", "-o", "text")
	assert.Equal(t, ExitSourceErrors, res.code)
	assert.Contains(t, res.stdout, "error[syntax]")
	assert.NotContains(t, res.stderr, "Error:")

	res = run(t, "", "ir", "-", "--error-policy", "sometimes")
	assert.Equal(t, ExitFailure, res.code)
	assert.Contains(t, res.stderr, "Error: invalid configuration")

	res = run(t, "", "frobnicate")
	assert.Equal(t, ExitFailure, res.code)
	assert.Contains(t, res.stderr, "unknown command")
}

func TestRunFlagsOverrideConfigFile(t *testing.T) {
	dir := t.TempDir()
	rootutil.WriteFile(t, filepath.Join(dir, "haiku.yaml"), "error_policy: fail-fast\noutput: json\n")
	t.Chdir(dir)

	res := run(t, "", "config")
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, `"error_policy": "fail-fast"`)

	res = run(t, "", "config", "--error-policy", "collect", "-o", "yaml")
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "error_policy: collect")
	assert.Contains(t, res.stdout, "output: yaml")
}

func TestRunExplicitConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "custom.yaml")
	rootutil.WriteFile(t, cfgPath, "source_extensions: [\".haiku\"]\n")
	rootutil.WriteFile(t, filepath.Join(dir, "src", "a.haiku"), "fn a() = 1;")
	rootutil.WriteFile(t, filepath.Join(dir, "src", "b.hk"), "fn b() { let = 1; }")
	t.Chdir(dir)

	res := run(t, "", "check", "src", "--config", cfgPath, "-o", "text")
	require.Equal(t, ExitOK, res.code, res.stdout+res.stderr)
	assert.Contains(t, res.stderr, "Checked 1 file(s)")
}

func TestVerboseLogging(t *testing.T) {
	t.Chdir(t.TempDir())
	res := run(t, "fn f() = 1;", "parse", "-", "-v", "-o", "text")
	require.Equal(t, ExitOK, res.code)
	assert.Contains(t, res.stderr, "level=DEBUG")
}

func TestCompletionCommand(t *testing.T) {
	t.Chdir(t.TempDir())
	res := run(t, "", "completion", "bash")
	require.Equal(t, ExitOK, res.code)
	assert.Contains(t, res.stdout, "haiku")

	res = run(t, "", "completion", "tcsh")
	assert.Equal(t, ExitFailure, res.code)
}
