package engine

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/haiku/internal/testutil"
	"github.com/leapstack-labs/haiku/pkg/ast"
	"github.com/leapstack-labs/haiku/pkg/diag"
	"github.com/leapstack-labs/haiku/pkg/ir"
	"github.com/leapstack-labs/haiku/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"
)

func newTestEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	cfg.Logger = testutil.NewTestLogger(t)
	e, err := New(cfg)
	require.NoError(t, err)
	return e
}

// TestGolden compiles every testdata/*.txtar archive. An archive holds an
// input.hk file and either an `ir` section with the expected dump or a
// `diagnostics` section with one expected diagnostic per line.
func TestGolden(t *testing.T) {
	archives, err := filepath.Glob(filepath.Join("testdata", "*.txtar"))
	require.NoError(t, err)
	require.NotEmpty(t, archives)

	e := newTestEngine(t, Config{})
	for _, path := range archives {
		t.Run(strings.TrimSuffix(filepath.Base(path), ".txtar"), func(t *testing.T) {
			ar, err := txtar.ParseFile(path)
			require.NoError(t, err)

			sections := make(map[string]string, len(ar.Files))
			for _, f := range ar.Files {
				sections[f.Name] = string(f.Data)
			}
			src, ok := sections["input.hk"]
			require.True(t, ok, "archive has no input.hk")

			result := e.Compile(context.Background(), "input.hk", src)

			if want, ok := sections["ir"]; ok {
				require.NoError(t, result.Err())
				require.NotNil(t, result.Module)
				var buf bytes.Buffer
				require.NoError(t, ir.Dump(&buf, result.Module))
				assert.Equal(t, want, buf.String())
			}
			if want, ok := sections["diagnostics"]; ok {
				var lines []string
				for _, d := range result.Diagnostics {
					lines = append(lines, d.Error())
				}
				assert.Equal(t, want, strings.Join(lines, "\n")+"\n")
			}
		})
	}
}

func TestNew(t *testing.T) {
	e := newTestEngine(t, Config{})
	assert.Equal(t, PolicyCollect, e.Policy())
	assert.Equal(t, DefaultExtensions, e.extensions)
	assert.Positive(t, e.workers)

	_, err := New(Config{Policy: "sometimes"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown error policy "sometimes"`)

	_, err = New(Config{MaxErrors: -1})
	require.Error(t, err)
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    ErrorPolicy
		wantErr bool
	}{
		{in: "", want: PolicyCollect},
		{in: "collect", want: PolicyCollect},
		{in: "fail-fast", want: PolicyFailFast},
		{in: "FAIL-FAST", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePolicy(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

const twoSyntaxErrors = "fn f() { let = 1; let = 2; }"

func TestCompileErrorPolicies(t *testing.T) {
	tests := []struct {
		name  string
		cfg   Config
		count int
	}{
		{name: "collect all", cfg: Config{Policy: PolicyCollect}, count: 2},
		{name: "collect capped", cfg: Config{Policy: PolicyCollect, MaxErrors: 1}, count: 1},
		{name: "fail fast", cfg: Config{Policy: PolicyFailFast}, count: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t, tt.cfg)
			result := e.Compile(context.Background(), "f.hk", twoSyntaxErrors)

			require.Len(t, result.Diagnostics, tt.count)
			assert.True(t, result.HasErrors())
			assert.Nil(t, result.Module, "units with syntax errors are not lowered")
			for _, d := range result.Diagnostics {
				assert.Equal(t, diag.KindSyntax, d.Kind)
				assert.Equal(t, "f.hk", d.Path)
				assert.Equal(t, "expected variable name after `let`", d.Message)
			}
		})
	}
}

func TestCompileSuccess(t *testing.T) {
	e := newTestEngine(t, Config{})
	result := e.Compile(context.Background(), "ok.hk", "fn f() -> i32 = 1;")

	assert.False(t, result.HasErrors())
	require.NoError(t, result.Err())
	require.NotNil(t, result.Unit)
	require.NotNil(t, result.Module)
	assert.Equal(t, "ok", result.Module.Name)
	assert.Len(t, result.Module.Bodies(), 1)
}

func TestParseDoesNotLower(t *testing.T) {
	e := newTestEngine(t, Config{})
	result := e.Parse(context.Background(), "p.hk", "fn main() { let x = 1; let x = 2; }")

	require.NotNil(t, result.Unit)
	assert.Nil(t, result.Module)
	assert.Empty(t, result.Diagnostics)
}

func TestParseStmts(t *testing.T) {
	e := newTestEngine(t, Config{})
	result := e.ParseStmts(context.Background(), "repl.hk", "let x = 1;\nwhile (x) x = x - 1;\n")

	assert.Nil(t, result.Unit)
	require.Len(t, result.Stmts, 2)
	assert.IsType(t, &ast.WhileStmt{}, result.Stmts[1])
	assert.Empty(t, result.Diagnostics)

	result = e.ParseStmts(context.Background(), "repl.hk", "while x {}\n")
	assert.True(t, result.HasErrors())
	assert.Equal(t, "expected `(` after `while`", result.Diagnostics[0].Message)
}

func TestCompileCancelled(t *testing.T) {
	e := newTestEngine(t, Config{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := e.Compile(ctx, "c.hk", "fn f() {}")
	assert.Nil(t, result.Unit)
	assert.Empty(t, result.Diagnostics)
}

func TestTokenize(t *testing.T) {
	e := newTestEngine(t, Config{})
	tokens, diags := e.Tokenize("t.hk", "let x = 1 @ 2;")

	require.Len(t, diags, 1)
	assert.Equal(t, diag.KindLexical, diags[0].Kind)
	assert.Equal(t, token.NewSpan(10, 11), diags[0].Span)
	assert.Equal(t, "t.hk", diags[0].Path)

	var types []token.TokenType
	for _, tok := range tokens {
		types = append(types, tok.Type)
	}
	assert.Equal(t, []token.TokenType{
		token.LET, token.IDENT, token.ASSIGN, token.INT, token.INT, token.SEMICOLON, token.EOF,
	}, types)
}

func TestCompileFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.hk")
	b := filepath.Join(dir, "b.hk")
	c := filepath.Join(dir, "c.hk")
	testutil.WriteFile(t, a, "fn a() = 1;")
	testutil.WriteFile(t, b, "fn b() { let = 2; }")
	testutil.WriteFile(t, c, "fn c() { return a(); }")

	e := newTestEngine(t, Config{Workers: 2})
	results, err := e.CompileFiles(context.Background(), []string{a, b, c})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, a, results[0].Path)
	assert.False(t, results[0].HasErrors())
	assert.Equal(t, b, results[1].Path)
	assert.True(t, results[1].HasErrors())
	assert.Equal(t, c, results[2].Path)
	assert.False(t, results[2].HasErrors(), "units are independent; a() is unresolved, not an error")
}

func TestCompileFilesMissing(t *testing.T) {
	e := newTestEngine(t, Config{})
	_, err := e.CompileFiles(context.Background(), []string{filepath.Join(t.TempDir(), "nope.hk")})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, filepath.Join(dir, "main.hk"), "")
	testutil.WriteFile(t, filepath.Join(dir, "lib", "util.hk"), "")
	testutil.WriteFile(t, filepath.Join(dir, "lib", "notes.txt"), "")
	testutil.WriteFile(t, filepath.Join(dir, ".cache", "old.hk"), "")
	explicit := filepath.Join(dir, "script.txt")
	testutil.WriteFile(t, explicit, "")

	e := newTestEngine(t, Config{})
	files, err := e.Discover([]string{dir, explicit, filepath.Join(dir, "main.hk")})
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(dir, "lib", "util.hk"),
		filepath.Join(dir, "main.hk"),
		explicit,
	}, files)

	_, err = e.Discover([]string{filepath.Join(dir, "missing")})
	require.Error(t, err)
}

func TestDiscoverCustomExtensions(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, filepath.Join(dir, "a.haiku"), "")
	testutil.WriteFile(t, filepath.Join(dir, "b.hk"), "")

	e := newTestEngine(t, Config{Extensions: []string{".haiku"}})
	files, err := e.Discover([]string{dir})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.haiku")}, files)
	assert.True(t, e.IsSource("x.haiku"))
	assert.False(t, e.IsSource("x.hk"))
}
