package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/leapstack-labs/haiku/internal/cli/config"
	"github.com/leapstack-labs/haiku/internal/cli/output"
	"github.com/leapstack-labs/haiku/internal/cli/testutil"
	"github.com/leapstack-labs/haiku/internal/engine"
	rootutil "github.com/leapstack-labs/haiku/internal/testutil"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandDefinitions(t *testing.T) {
	tests := []struct {
		cmd   *cobra.Command
		use   string
		flags []string
	}{
		{cmd: NewTokensCommand(), use: "tokens <file>", flags: []string{"no-comments"}},
		{cmd: NewParseCommand(), use: "parse <file>", flags: []string{"spans"}},
		{cmd: NewIRCommand(), use: "ir <file>"},
		{cmd: NewFmtCommand(), use: "fmt <paths...>", flags: []string{"write", "list", "check"}},
		{cmd: NewCheckCommand(), use: "check [paths...]", flags: []string{"watch", "debounce", "record"}},
		{cmd: NewLintCommand(), use: "lint [paths...]", flags: []string{"disable", "rule", "severity"}},
		{cmd: NewRulesCommand(), use: "rules [rule-id]", flags: []string{"group"}},
		{cmd: NewDoctorCommand(), use: "doctor [paths...]"},
		{cmd: NewHistoryCommand(), use: "history [run-id]", flags: []string{"limit"}},
		{cmd: NewREPLCommand(), use: "repl"},
		{cmd: NewConfigCommand(), use: "config"},
		{cmd: NewServeCommand(), use: "serve", flags: []string{"addr", "watch", "history"}},
		{cmd: NewLSPCommand(), use: "lsp"},
	}
	for _, tt := range tests {
		t.Run(tt.use, func(t *testing.T) {
			assert.Equal(t, tt.use, tt.cmd.Use)
			assert.NotEmpty(t, tt.cmd.Short, "Short should not be empty")
			assert.NotEmpty(t, tt.cmd.Long, "Long should not be empty")
			for _, flag := range tt.flags {
				assert.NotNil(t, tt.cmd.Flags().Lookup(flag), "flag %q should exist", flag)
			}
		})
	}
}

func TestTokensCommand(t *testing.T) {
	dir := t.TempDir()
	testutil.LoadConfig(t, dir, map[string]string{"output": "json"})
	path := filepath.Join(dir, "t.hk")
	rootutil.WriteFile(t, path, "let x = 1; // done\n")

	res := testutil.ExecuteCommand(t, NewTokensCommand(), "", path, "--no-comments")
	require.NoError(t, res.Err)

	var got struct {
		Tokens      []map[string]string      `json:"tokens"`
		Diagnostics []output.DiagnosticRecord `json:"diagnostics"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.Stdout), &got))

	var types []string
	for _, tok := range got.Tokens {
		types = append(types, tok["type"])
	}
	assert.Equal(t, []string{"let", "IDENT", "=", "INT", ";", "EOF"}, types)
	assert.Equal(t, "0..3", got.Tokens[0]["span"])
	assert.Equal(t, "1:1", got.Tokens[0]["position"])
	assert.Equal(t, "x", got.Tokens[1]["text"])
	assert.Empty(t, got.Diagnostics)
}

func TestTokensCommandLexicalError(t *testing.T) {
	testutil.LoadConfig(t, t.TempDir(), map[string]string{"output": "text"})

	res := testutil.ExecuteCommand(t, NewTokensCommand(), "let x = 1 @ 2;", "-")
	require.Error(t, res.Err)
	assert.ErrorIs(t, res.Err, ErrSourceErrors)
	assert.Contains(t, res.Stdout, "IDENT")
	assert.Contains(t, res.Stdout, "error[lexical]")
	assert.Contains(t, res.Stdout, "<stdin>:1:11")
	testutil.AssertNoANSI(t, res.Stdout)
}

func TestParseCommand(t *testing.T) {
	testutil.LoadConfig(t, t.TempDir(), map[string]string{"output": "text"})

	res := testutil.ExecuteCommand(t, NewParseCommand(), "fn main() {}\n", "-")
	require.NoError(t, res.Err)
	assert.Contains(t, res.Stdout, "CompilationUnit")
	assert.Contains(t, res.Stdout, "FuncDecl")
	assert.NotContains(t, res.Stdout, "@0..")

	res = testutil.ExecuteCommand(t, NewParseCommand(), "fn main() {}\n", "-", "--spans")
	require.NoError(t, res.Err)
	assert.Contains(t, res.Stdout, "@0..")
}

func TestParseCommandSyntaxError(t *testing.T) {
	testutil.LoadConfig(t, t.TempDir(), map[string]string{"output": "json"})

	res := testutil.ExecuteCommand(t, NewParseCommand(), testutil.BrokenSource, "-")
	require.ErrorIs(t, res.Err, ErrSourceErrors)

	var got unitRecord
	require.NoError(t, json.Unmarshal([]byte(res.Stdout), &got))
	assert.Equal(t, "<stdin>", got.Path)
	require.Len(t, got.Diagnostics, 1)
	assert.Equal(t, "syntax", got.Diagnostics[0].Kind)
	assert.Equal(t, 2, got.Diagnostics[0].Line)
	assert.Equal(t, "expected variable name after `let`", got.Diagnostics[0].Message)
}

func TestIRCommand(t *testing.T) {
	testutil.LoadConfig(t, t.TempDir(), map[string]string{"output": "text"})

	res := testutil.ExecuteCommand(t, NewIRCommand(), "fn main() -> i32 = 1 + 2;\n", "-")
	require.NoError(t, res.Err)
	assert.Contains(t, res.Stdout, "module <stdin>")
	assert.Contains(t, res.Stdout, "fn #0 main() -> i32")
	assert.Contains(t, res.Stdout, "return (+ 1 2)")
}

func TestIRCommandLoweringError(t *testing.T) {
	testutil.LoadConfig(t, t.TempDir(), map[string]string{"output": "markdown"})

	res := testutil.ExecuteCommand(t, NewIRCommand(), "fn main() { let x = 1; let x = 2; }\n", "-")
	require.ErrorIs(t, res.Err, ErrSourceErrors)
	assert.Contains(t, res.Stdout, "**error** (lowering)")
	assert.Contains(t, res.Stdout, "variable `x` is already declared in this scope")
	testutil.AssertValidMarkdown(t, res.Stdout)
	testutil.AssertNoANSI(t, res.Stdout)
}

func TestCheckCommand(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	testutil.LoadConfig(t, dir, map[string]string{"output": "text"})

	res := testutil.ExecuteCommand(t, NewCheckCommand(), "")
	require.NoError(t, res.Err)
	assert.Contains(t, res.Stderr, "Checked 2 file(s)")
	assert.Empty(t, res.Stdout)
}

func TestCheckCommandReportsErrors(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	rootutil.WriteFile(t, testutil.ProjectPath(dir, "src/broken.hk"), testutil.BrokenSource)
	testutil.LoadConfig(t, dir, map[string]string{"output": "text"})

	res := testutil.ExecuteCommand(t, NewCheckCommand(), "", "src")
	require.ErrorIs(t, res.Err, ErrSourceErrors)
	assert.Contains(t, res.Stdout, "error[syntax]: expected variable name after `let`")
	assert.Contains(t, res.Stdout, filepath.Join("src", "broken.hk")+":2:9")
	assert.Contains(t, res.Stderr, "1 error(s) in 1 of 3 file(s)")
}

func TestCheckCommandJSON(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	testutil.LoadConfig(t, dir, map[string]string{"output": "json"})

	res := testutil.ExecuteCommand(t, NewCheckCommand(), "", "src")
	require.NoError(t, res.Err)

	var reports []fileReport
	require.NoError(t, json.Unmarshal([]byte(res.Stdout), &reports))
	require.Len(t, reports, 2)
	assert.Equal(t, filepath.Join("src", "lib", "math.hk"), reports[0].Path)
	assert.Equal(t, filepath.Join("src", "main.hk"), reports[1].Path)
	for _, r := range reports {
		assert.Zero(t, r.Errors)
		assert.Empty(t, r.Diagnostics)
	}
}

func TestCheckCommandMissingPath(t *testing.T) {
	testutil.LoadConfig(t, t.TempDir(), map[string]string{"output": "text"})

	res := testutil.ExecuteCommand(t, NewCheckCommand(), "", "missing")
	require.Error(t, res.Err)
	assert.NotErrorIs(t, res.Err, ErrSourceErrors)
}

func TestCheckRecordAndHistory(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	rootutil.WriteFile(t, testutil.ProjectPath(dir, "src/broken.hk"), testutil.BrokenSource)
	testutil.LoadConfig(t, dir, map[string]string{"output": "text"})

	res := testutil.ExecuteCommand(t, NewCheckCommand(), "", "src", "--record")
	require.ErrorIs(t, res.Err, ErrSourceErrors)
	assert.Contains(t, res.Stderr, "Recorded run ")
	assert.FileExists(t, testutil.ProjectPath(dir, ".haiku/state.db"))

	res = testutil.ExecuteCommand(t, NewCheckCommand(), "", "src/lib", "--record")
	require.NoError(t, res.Err)

	testutil.LoadConfig(t, dir, map[string]string{"output": "json"})
	res = testutil.ExecuteCommand(t, NewHistoryCommand(), "")
	require.NoError(t, res.Err)

	var runs []runRecord
	require.NoError(t, json.Unmarshal([]byte(res.Stdout), &runs))
	require.Len(t, runs, 2)
	assert.Equal(t, "src/lib", runs[0].Roots)
	assert.Equal(t, "passed", runs[0].Status)
	assert.Equal(t, 1, runs[0].Files)
	assert.Equal(t, "src", runs[1].Roots)
	assert.Equal(t, "failed", runs[1].Status)
	assert.Equal(t, 3, runs[1].Files)
	assert.Equal(t, 1, runs[1].Errors)

	testutil.LoadConfig(t, dir, map[string]string{"output": "text"})
	res = testutil.ExecuteCommand(t, NewHistoryCommand(), "", runs[1].ID[:8])
	require.NoError(t, res.Err)
	assert.Contains(t, res.Stdout, "Run "+runs[1].ID)
	assert.Contains(t, res.Stdout, "status: failed, 3 file(s), 1 error(s)")
	assert.Contains(t, res.Stdout, filepath.Join("src", "broken.hk")+":2:9: error[syntax]: expected variable name after `let`")

	res = testutil.ExecuteCommand(t, NewHistoryCommand(), "", "zzzz")
	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "run not found")
}

func TestConfigCommand(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	testutil.LoadConfig(t, dir, map[string]string{"output": "json", "max-errors": "5"})

	res := testutil.ExecuteCommand(t, NewConfigCommand(), "")
	require.NoError(t, res.Err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.Stdout), &got))
	assert.Equal(t, "collect", got["error_policy"])
	assert.InDelta(t, 5, got["max_errors"], 0)
	assert.Equal(t, "json", got["output"])
	assert.NotContains(t, got, "ProjectRoot")
}

func TestConfigCommandText(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	testutil.LoadConfig(t, dir, map[string]string{"output": "text"})

	res := testutil.ExecuteCommand(t, NewConfigCommand(), "")
	require.NoError(t, res.Err)
	assert.Contains(t, res.Stdout, "haiku.yaml")
	assert.Contains(t, res.Stdout, "error_policy: collect")
	assert.Contains(t, res.Stdout, "source_extensions:")
}

func TestReadSource(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetIn(bytes.NewBufferString("fn f() {}"))
	src, err := readSource(cmd, "-")
	require.NoError(t, err)
	assert.Equal(t, "fn f() {}", src)

	_, err = readSource(cmd, filepath.Join(t.TempDir(), "nope.hk"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	assert.Equal(t, "<stdin>", displayPath("-"))
	assert.Equal(t, "a.hk", displayPath("a.hk"))
}

func newTestSession(t *testing.T) (*replSession, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}

	cmd := NewREPLCommand()
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetContext(context.Background())

	logger := rootutil.NewTestLogger(t)
	eng, err := engine.New(engine.Config{Logger: logger})
	require.NoError(t, err)

	cmdCtx := &CommandContext{
		Cfg:      config.Default(),
		Logger:   logger,
		Engine:   eng,
		Renderer: output.NewRendererWithTTY(out, errOut, false, output.ModeText),
	}
	return newREPLSession(cmd, cmdCtx), out, errOut
}

func TestREPLSessionMultiLine(t *testing.T) {
	s, out, _ := newTestSession(t)

	assert.False(t, s.feed("let x = 1 +"))
	assert.True(t, s.pending())
	assert.Empty(t, out.String())

	assert.False(t, s.feed("2;"))
	assert.False(t, s.pending())
	assert.Contains(t, out.String(), "body main:")
	assert.Contains(t, out.String(), "let x#0 = (+ 1 2)")
}

func TestREPLSessionDeclarations(t *testing.T) {
	s, out, _ := newTestSession(t)

	s.feed("fn twice(n: i32) -> i32 {")
	s.feed("    return n * 2;")
	s.feed("}")
	assert.Contains(t, out.String(), "fn #0 twice(n: i32) -> i32")
	assert.NotContains(t, out.String(), "body main:")
}

func TestREPLSessionModes(t *testing.T) {
	s, out, errOut := newTestSession(t)

	s.feed(".mode")
	assert.Contains(t, out.String(), "mode: ir")

	s.feed(".mode tokens")
	assert.Equal(t, replModeTokens, s.mode)
	s.feed("x;")
	assert.Contains(t, out.String(), "IDENT")

	s.feed(".mode ast")
	s.feed("let y = x; if (y) y = 1;")
	assert.Contains(t, out.String(), "LetStmt y")
	assert.Contains(t, out.String(), "IfStmt")
	assert.NotContains(t, out.String(), "FuncDecl main()")

	s.feed("fn g() = 1;")
	assert.Contains(t, out.String(), "FuncDecl g()")

	s.feed(".mode bogus")
	assert.Equal(t, replModeAST, s.mode)
	assert.Contains(t, errOut.String(), "Unknown mode: bogus")

	s.feed(".frobnicate")
	assert.Contains(t, errOut.String(), "Unknown command: .frobnicate")
}

func TestREPLSessionErrorsKeepRunning(t *testing.T) {
	s, out, errOut := newTestSession(t)

	assert.False(t, s.feed("let = 1;"))
	assert.Contains(t, out.String(), "error[syntax]")
	assert.Empty(t, errOut.String())
	assert.False(t, s.pending())
}

func TestREPLSessionLoadAndQuit(t *testing.T) {
	s, out, errOut := newTestSession(t)
	path := filepath.Join(t.TempDir(), "lib.hk")
	rootutil.WriteFile(t, path, "fn one() = 1;\n")

	assert.False(t, s.feed(".load "+path))
	assert.Contains(t, out.String(), "fn #0 one()")

	s.feed(".load")
	assert.Contains(t, errOut.String(), "Usage: .load <file>")

	s.feed(".help")
	assert.Contains(t, out.String(), ".mode [tokens|ast|ir]")

	assert.True(t, s.feed(".quit"))
	assert.True(t, s.feed(".exit"))
}

func TestInputComplete(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{input: "x;", want: true},
		{input: "let x = 1", want: false},
		{input: "fn f() {", want: false},
		{input: "fn f() {\n}", want: true},
		{input: "if (a) { b; }", want: true},
		{input: `let s = "{";`, want: true},
		{input: `let s = "a\";`, want: false},
		{input: `let s = "a\"";`, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, inputComplete(tt.input))
		})
	}
}

func TestWrapInput(t *testing.T) {
	assert.Equal(t, "fn f() = 1;", wrapInput("fn f() = 1;"))
	assert.Equal(t, "use std::io;", wrapInput("use std::io;"))
	assert.Equal(t, "fn main() {\nx;\n}\n", wrapInput("x;\n"))
}

func TestServeCommandListenError(t *testing.T) {
	testutil.LoadConfig(t, t.TempDir(), map[string]string{"output": "text"})

	res := testutil.ExecuteCommand(t, NewServeCommand(), "", "--addr", "127.0.0.1:-1")
	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "failed to listen on 127.0.0.1:-1")
}

func TestLSPCommand(t *testing.T) {
	testutil.LoadConfig(t, t.TempDir(), nil)

	var in bytes.Buffer
	for _, msg := range []string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"rootUri":"file:///work"}}`,
		`{"jsonrpc":"2.0","id":2,"method":"shutdown"}`,
		`{"jsonrpc":"2.0","method":"exit"}`,
	} {
		in.WriteString("Content-Length: ")
		in.WriteString(strconv.Itoa(len(msg)))
		in.WriteString("\r\n\r\n")
		in.WriteString(msg)
	}

	res := testutil.ExecuteCommand(t, NewLSPCommand(), in.String())
	require.NoError(t, res.Err)
	assert.Contains(t, res.Stdout, `"capabilities"`)
	assert.Contains(t, res.Stdout, `"hoverProvider":true`)
}

func TestFmtCommand(t *testing.T) {
	dir := t.TempDir()
	testutil.LoadConfig(t, dir, map[string]string{"output": "text"})
	path := filepath.Join(dir, "f.hk")
	rootutil.WriteFile(t, path, "fn f()->i32=1+2;")

	res := testutil.ExecuteCommand(t, NewFmtCommand(), "", path)
	require.NoError(t, res.Err)
	assert.Equal(t, "fn f() -> i32 = 1 + 2;\n", res.Stdout)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "fn f()->i32=1+2;", string(data), "printing leaves the file alone")
}

func TestFmtCommandCheckAndWrite(t *testing.T) {
	dir := t.TempDir()
	testutil.LoadConfig(t, dir, map[string]string{"output": "text"})
	messy := filepath.Join(dir, "messy.hk")
	clean := filepath.Join(dir, "clean.hk")
	rootutil.WriteFile(t, messy, "fn f(){return;}")
	rootutil.WriteFile(t, clean, "fn g() = 1;\n")

	res := testutil.ExecuteCommand(t, NewFmtCommand(), "", dir, "--check")
	require.ErrorIs(t, res.Err, ErrUnformatted)
	assert.Equal(t, messy+"\n", res.Stdout)

	res = testutil.ExecuteCommand(t, NewFmtCommand(), "", dir, "-w")
	require.NoError(t, res.Err)
	data, err := os.ReadFile(messy)
	require.NoError(t, err)
	assert.Equal(t, "fn f() {\n    return;\n}\n", string(data))

	res = testutil.ExecuteCommand(t, NewFmtCommand(), "", dir, "--check")
	require.NoError(t, res.Err)
	assert.Empty(t, res.Stdout)
}

func TestFmtCommandStdinAndErrors(t *testing.T) {
	testutil.LoadConfig(t, t.TempDir(), map[string]string{"output": "json"})

	res := testutil.ExecuteCommand(t, NewFmtCommand(), "use a::b ;", "-")
	require.NoError(t, res.Err)
	var records []fmtRecord
	require.NoError(t, json.Unmarshal([]byte(res.Stdout), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "<stdin>", records[0].Path)
	assert.True(t, records[0].Changed)
	assert.Equal(t, "use a::b;\n", records[0].Formatted)

	res = testutil.ExecuteCommand(t, NewFmtCommand(), "fn (", "-")
	require.ErrorIs(t, res.Err, ErrSourceErrors)
	records = nil
	require.NoError(t, json.Unmarshal([]byte(res.Stdout), &records))
	require.Len(t, records, 1)
	assert.NotEmpty(t, records[0].Diagnostics)
}
