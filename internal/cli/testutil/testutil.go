// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"context"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/leapstack-labs/haiku/internal/cli/config"
	"github.com/leapstack-labs/haiku/internal/cli/output"
	rootutil "github.com/leapstack-labs/haiku/internal/testutil"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

// Sources used by SetupTestProject.
const (
	MainSource = `use std::io;
extern fn puts(s: str) -> i32;

fn main() -> i32 {
    let n = square(4);
    puts("done");
    return n;
}
`
	MathSource = `struct Pair { a: i64; b: i64 }

fn square(x: i64) -> i64 = x * x;
`
	BrokenSource = `fn broken() {
    let = 1;
}
`
)

// SetupTestProject creates a temporary project with a src tree of valid
// sources, a hidden directory that discovery must skip and a config file.
func SetupTestProject(t *testing.T) string {
	t.Helper()
	return rootutil.SourceTree(t, map[string]string{
		"haiku.yaml":        "error_policy: collect\nlog_level: warn\n",
		"src/main.hk":       MainSource,
		"src/lib/math.hk":   MathSource,
		"src/README.md":     "# not a source file\n",
		".cache/broken.hk":  BrokenSource,
		"scratch/notes.txt": "",
	})
}

// LoadConfig loads configuration as the root command would, from dir with
// the given flag values set. The loaded config is reset when the test ends.
func LoadConfig(t *testing.T, dir string, flags map[string]string) *config.Config {
	t.Helper()
	t.Chdir(dir)

	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	for name, value := range flags {
		fs.String(name, "", "")
		require.NoError(t, fs.Set(name, value))
	}
	cfg, err := config.LoadConfig("", fs)
	require.NoError(t, err)
	return cfg
}

// CommandResult holds the captured streams of one command execution.
type CommandResult struct {
	Stdout string
	Stderr string
	Err    error
}

// ExecuteCommand runs cmd with args and stdin, capturing both streams. The
// command runs with a logger that writes to the test log.
func ExecuteCommand(t *testing.T, cmd *cobra.Command, stdin string, args ...string) CommandResult {
	t.Helper()

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	ctx := context.WithValue(context.Background(), config.LoggerKey(), rootutil.NewTestLogger(t))
	err := cmd.ExecuteContext(ctx)
	return CommandResult{Stdout: stdout.String(), Stderr: stderr.String(), Err: err}
}

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a new test renderer with the specified mode and TTY state.
// Output is captured in buffers for inspection.
func NewTestRenderer(mode output.OutputMode, isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(out, errOut, isTTY, mode),
		Out:      out,
		ErrOut:   errOut,
	}
}

// NewTestRendererText creates a new test renderer in text mode (simulated TTY).
func NewTestRendererText() *TestRenderer {
	return NewTestRenderer(output.ModeText, true)
}

// NewTestRendererMarkdown creates a new test renderer in markdown mode.
func NewTestRendererMarkdown() *TestRenderer {
	return NewTestRenderer(output.ModeMarkdown, false)
}

// NewTestRendererJSON creates a new test renderer in JSON mode.
func NewTestRendererJSON() *TestRenderer {
	return NewTestRenderer(output.ModeJSON, false)
}

// Output returns the stdout output as a string.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// ErrorOutput returns the stderr output as a string.
func (tr *TestRenderer) ErrorOutput() string {
	return tr.ErrOut.String()
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// AssertValidMarkdown performs basic markdown validation.
// It checks for unclosed code fences and basic structure.
func AssertValidMarkdown(t *testing.T, md string) {
	t.Helper()

	fenceCount := strings.Count(md, "```")
	if fenceCount%2 != 0 {
		t.Errorf("unbalanced code fences in markdown: found %d occurrences", fenceCount)
	}

	lines := strings.Split(md, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") && strings.TrimLeft(trimmed, "# ") == "" {
			t.Errorf("empty header at line %d: %q", i+1, line)
		}
	}
}

// ProjectPath joins a slash-separated path onto a project directory.
func ProjectPath(dir, rel string) string {
	return filepath.Join(dir, filepath.FromSlash(rel))
}
