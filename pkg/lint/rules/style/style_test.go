package style_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/haiku/pkg/lint"
	_ "github.com/leapstack-labs/haiku/pkg/lint/rules" // register rules
	"github.com/leapstack-labs/haiku/pkg/parser"
)

// runRule analyzes src and keeps the findings of one rule.
func runRule(t *testing.T, src, ruleID string, cfg *lint.Config) []lint.Diagnostic {
	t.Helper()
	unit, err := parser.Parse("test.hk", src)
	require.NoError(t, err)

	var filtered []lint.Diagnostic
	for _, d := range lint.NewAnalyzer(cfg).Analyze(unit) {
		if d.RuleID == ruleID {
			filtered = append(filtered, d)
		}
	}
	return filtered
}

func messages(diags []lint.Diagnostic) []string {
	out := make([]string, len(diags))
	for i, d := range diags {
		out[i] = d.Message
	}
	return out
}

func TestHK10_EmptyBlock(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{"empty then", "fn f(a: bool) { if (a) {} else { g(); } }", []string{"empty if block"}},
		{"empty else", "fn f(a: bool) { if (a) { g(); } else {} }", []string{"empty else block"}},
		{"empty while", "fn f(a: bool) { while (a) {} }", []string{"empty while block"}},
		{"empty function is a stub", "fn f() {}", nil},
		{"non-empty", "fn f(a: bool) { if (a) { g(); } }", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, messages(runRule(t, tt.src, "HK10", nil)))
		})
	}
}

func TestHK11_Naming(t *testing.T) {
	src := `
extern fn SDL_Init(flags: u32) -> i32;
struct point_2d { X: i32; y_pos: i32; }
struct Point2d { x: i32; }
fn MakePoint(Width: i32, _h: i32) {
    let tmpValue = 1;
    let _ = 2;
    let ok_name = 3;
}
`
	got := messages(runRule(t, src, "HK11", nil))
	assert.Equal(t, []string{
		"struct `point_2d` should be UpperCamelCase",
		"member `X` should be snake_case",
		"function `MakePoint` should be snake_case",
		"parameter `Width` should be snake_case",
		"variable `tmpValue` should be snake_case",
	}, got)

	cfg := lint.NewConfig().SetOption("HK11", "allow", []any{"MakePoint", "Width"})
	got = messages(runRule(t, src, "HK11", cfg))
	assert.NotContains(t, got, "function `MakePoint` should be snake_case")
	assert.NotContains(t, got, "parameter `Width` should be snake_case")
	assert.Len(t, got, 3)
}

func TestHK12_TooManyParams(t *testing.T) {
	src := `
fn few(a: i32, b: i32) {}
fn many(a: i32, b: i32, c: i32, d: i32, e: i32, f: i32) {}
extern fn ext(a: i32, b: i32, c: i32) -> i32;
`
	got := runRule(t, src, "HK12", nil)
	require.Len(t, got, 1)
	assert.Equal(t, "function `many` has 6 parameters (max 5)", got[0].Message)

	cfg := lint.NewConfig().SetOption("HK12", "max_params", float64(2))
	got = runRule(t, src, "HK12", cfg)
	assert.Equal(t, []string{
		"function `many` has 6 parameters (max 2)",
		"function `ext` has 3 parameters (max 2)",
	}, messages(got))
}
