package commands

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/haiku/internal/cli/testutil"
	rootutil "github.com/leapstack-labs/haiku/internal/testutil"
)

func TestCalculateHealthScore(t *testing.T) {
	tests := []struct {
		name      string
		checks    []HealthCheck
		fileCount int
		minScore  int
		maxScore  int
	}{
		{
			name:      "no checks returns 100",
			fileCount: 10,
			minScore:  100,
			maxScore:  100,
		},
		{
			name: "all passing returns 100",
			checks: []HealthCheck{
				{RuleID: "HK01", Status: "pass"},
				{RuleID: "HK02", Status: "pass"},
			},
			fileCount: 10,
			minScore:  100,
			maxScore:  100,
		},
		{
			name:      "warnings reduce score",
			checks:    []HealthCheck{{RuleID: "HK02", Status: "warn", IssueCount: 2}},
			fileCount: 10,
			minScore:  90,
			maxScore:  90,
		},
		{
			name:      "errors count double",
			checks:    []HealthCheck{{RuleID: compileCheckID, Status: "error", IssueCount: 2}},
			fileCount: 10,
			minScore:  80,
			maxScore:  80,
		},
		{
			name:      "more files means less impact per issue",
			checks:    []HealthCheck{{RuleID: "HK01", Status: "warn", IssueCount: 5}},
			fileCount: 101,
			minScore:  95,
			maxScore:  95,
		},
		{
			name: "many issues clamp to 0",
			checks: []HealthCheck{
				{RuleID: "HK01", Status: "error", IssueCount: 20},
				{RuleID: "HK02", Status: "error", IssueCount: 20},
			},
			fileCount: 5,
			minScore:  0,
			maxScore:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := calculateHealthScore(tt.checks, tt.fileCount)
			assert.GreaterOrEqual(t, score, tt.minScore)
			assert.LessOrEqual(t, score, tt.maxScore)
		})
	}
}

func TestRecommendation(t *testing.T) {
	for _, id := range []string{compileCheckID, "HK01", "HK02", "HK03", "HK04", "HK05", "HK06", "HK10", "HK11", "HK12"} {
		assert.NotEmpty(t, recommendation(id), id)
	}
	assert.Empty(t, recommendation("UNKNOWN"))
}

func TestGenerateRecommendations(t *testing.T) {
	checks := []HealthCheck{
		{RuleID: "HK01", Status: "warn", IssueCount: 1},
		{RuleID: "HK03", Status: "pass"},
		{RuleID: "HK11", Status: "warn", IssueCount: 2},
	}
	recs := generateRecommendations(checks)
	require.Len(t, recs, 2)
	assert.Contains(t, recs[0], "unused variables")
	assert.Contains(t, recs[1], "snake_case")

	var many []HealthCheck
	for _, id := range []string{"HK01", "HK02", "HK03", "HK04", "HK05", "HK06", "HK10"} {
		many = append(many, HealthCheck{RuleID: id, Status: "warn", IssueCount: 1})
	}
	assert.Len(t, generateRecommendations(many), maxRecommendations)
}

func TestDoctorCommand(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	rootutil.WriteFile(t, testutil.ProjectPath(dir, "src/unused.hk"), unusedSource)
	rootutil.WriteFile(t, testutil.ProjectPath(dir, "src/broken.hk"), testutil.BrokenSource)
	testutil.LoadConfig(t, dir, map[string]string{"output": "json"})

	res := testutil.ExecuteCommand(t, NewDoctorCommand(), "", "src")
	require.NoError(t, res.Err, "the report never fails the command")

	var report DoctorOutput
	require.NoError(t, json.Unmarshal([]byte(res.Stdout), &report))
	assert.Equal(t, 4, report.Summary.Files)
	assert.GreaterOrEqual(t, report.Summary.Functions, 3, "main, square and f")
	assert.Equal(t, 1, report.Summary.Externs)
	assert.Equal(t, 1, report.Summary.Structs)
	assert.Equal(t, 1, report.Summary.Uses)

	byID := make(map[string]HealthCheck)
	for _, c := range report.HealthChecks {
		byID[c.RuleID] = c
	}
	assert.Equal(t, "error", byID[compileCheckID].Status)
	assert.Equal(t, "warn", byID["HK01"].Status)
	assert.Equal(t, 1, byID["HK01"].IssueCount)
	assert.Equal(t, "pass", byID["HK12"].Status)
	assert.Equal(t, 2, report.IssueCount)
	assert.Less(t, report.Score, 100)
	assert.NotEmpty(t, report.Recommendations)
}

func TestDoctorCommandMarkdown(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	testutil.LoadConfig(t, dir, map[string]string{"output": "markdown"})

	res := testutil.ExecuteCommand(t, NewDoctorCommand(), "")
	require.NoError(t, res.Err)
	assert.Contains(t, res.Stdout, "# haiku Project Health Report")
	assert.Contains(t, res.Stdout, "- **[PASS]** COMPILE: compiler.errors")
	assert.Contains(t, res.Stdout, "**100/100**")
	assert.NotContains(t, res.Stdout, "## Recommendations")
}
