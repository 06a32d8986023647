package commands

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/haiku/internal/cli/output"
	"github.com/leapstack-labs/haiku/internal/engine"
	"github.com/leapstack-labs/haiku/pkg/ast"
	"github.com/leapstack-labs/haiku/pkg/diag"
	"github.com/leapstack-labs/haiku/pkg/lint"
	"github.com/spf13/cobra"
)

// compileCheckID names the health check for compiler errors.
const compileCheckID = "COMPILE"

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor [paths...]",
		Short: "Run a project health check",
		Long: `Compile and lint every source file under the given paths and print a
health report:
- Project summary (files, declarations, lines)
- Health checks: compiler errors and one check per lint rule
- Health score (0-100)
- Recommendations for the checks that failed

The report never fails the command; use check or lint for that.`,
		Example: `  # Report on the current directory
  haiku doctor

  # Machine-readable report
  haiku doctor src -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"."}
			}
			return runDoctor(cmd, args)
		},
	}
	return cmd
}

// DoctorOutput is the structured output of the doctor command.
type DoctorOutput struct {
	Summary         ProjectSummary `json:"summary" yaml:"summary"`
	HealthChecks    []HealthCheck  `json:"health_checks" yaml:"health_checks"`
	Score           int            `json:"score" yaml:"score"`
	Recommendations []string       `json:"recommendations" yaml:"recommendations"`
	IssueCount      int            `json:"issue_count" yaml:"issue_count"`
}

// ProjectSummary contains project-level statistics.
type ProjectSummary struct {
	Files     int `json:"files" yaml:"files"`
	Lines     int `json:"lines" yaml:"lines"`
	Functions int `json:"functions" yaml:"functions"`
	Externs   int `json:"externs" yaml:"externs"`
	Structs   int `json:"structs" yaml:"structs"`
	Uses      int `json:"uses" yaml:"uses"`
}

// HealthCheck is the result of one check.
type HealthCheck struct {
	RuleID     string   `json:"rule_id" yaml:"rule_id"`
	Name       string   `json:"name" yaml:"name"`
	Group      string   `json:"group" yaml:"group"`
	Status     string   `json:"status" yaml:"status"` // "pass", "warn", "error"
	IssueCount int      `json:"issue_count" yaml:"issue_count"`
	Details    []string `json:"details,omitempty" yaml:"details,omitempty"`
}

func runDoctor(cmd *cobra.Command, paths []string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	lintCfg, err := buildLintConfig(cmdCtx.Cfg, &LintOptions{})
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	files, err := cmdCtx.Engine.Discover(paths)
	if err != nil {
		return err
	}
	results, err := cmdCtx.Engine.CompileFiles(ctx, files)
	if err != nil {
		return err
	}

	report := buildDoctorOutput(results, lint.NewAnalyzer(lintCfg), lintCfg)
	cmdCtx.Logger.Debug("doctor finished", "files", len(files), "issues", report.IssueCount, "score", report.Score)

	r := cmdCtx.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON, output.ModeYAML:
		return r.Data(report)
	case output.ModeMarkdown:
		renderDoctorMarkdown(r.Out(), report)
	default:
		renderDoctorText(r, report)
	}
	return nil
}

func buildDoctorOutput(results []*engine.Result, analyzer *lint.Analyzer, cfg *lint.Config) *DoctorOutput {
	summary := ProjectSummary{Files: len(results)}

	compile := HealthCheck{RuleID: compileCheckID, Name: "compiler.errors", Group: "compiler", Status: "pass"}
	findings := make(map[string][]string)
	for _, result := range results {
		summary.Lines += strings.Count(result.Source, "\n")
		countDecls(&summary, result.Unit)

		for _, d := range result.Diagnostics {
			if d.IsError() {
				compile.IssueCount++
				compile.Details = append(compile.Details, fmt.Sprintf("%s: %s", result.Path, d.Message))
			}
		}
		if !lint.Lintable(result.Diagnostics) {
			continue
		}
		for _, d := range analyzer.Check(result.Path, result.Unit) {
			findings[d.Code] = append(findings[d.Code], fmt.Sprintf("%s: %s", result.Path, d.Message))
		}
	}
	if compile.IssueCount > 0 {
		compile.Status = "error"
	}

	checks := []HealthCheck{compile}
	issues := compile.IssueCount
	for _, rule := range lint.GetAll() {
		if cfg.IsDisabled(rule.ID) {
			continue
		}
		details := findings[rule.ID]
		status := "pass"
		if len(details) > 0 {
			status = "warn"
			if cfg.GetSeverity(rule.ID, rule.Severity) == diag.SeverityError {
				status = "error"
			}
		}
		issues += len(details)
		checks = append(checks, HealthCheck{
			RuleID:     rule.ID,
			Name:       rule.Name,
			Group:      rule.Group,
			Status:     status,
			IssueCount: len(details),
			Details:    details,
		})
	}

	sort.SliceStable(checks, func(i, j int) bool {
		if checks[i].Group != checks[j].Group {
			return checks[i].Group < checks[j].Group
		}
		return checks[i].RuleID < checks[j].RuleID
	})

	return &DoctorOutput{
		Summary:         summary,
		HealthChecks:    checks,
		Score:           calculateHealthScore(checks, summary.Files),
		Recommendations: generateRecommendations(checks),
		IssueCount:      issues,
	}
}

func countDecls(summary *ProjectSummary, unit *ast.CompilationUnit) {
	if unit == nil {
		return
	}
	for _, d := range unit.Decls {
		switch d.(type) {
		case *ast.FuncDecl:
			summary.Functions++
		case *ast.ExternFuncDecl:
			summary.Externs++
		case *ast.StructDecl:
			summary.Structs++
		case *ast.UseDecl:
			summary.Uses++
		}
	}
}

// calculateHealthScore computes a health score from 0-100. Every issue
// costs points, errors twice as many; the more files a project has, the
// less a single issue costs.
func calculateHealthScore(checks []HealthCheck, fileCount int) int {
	penalty := 5.0
	switch {
	case fileCount > 100:
		penalty = 1.0
	case fileCount > 50:
		penalty = 2.0
	case fileCount > 10:
		penalty = 3.0
	}

	score := 100.0
	for _, check := range checks {
		switch check.Status {
		case "error":
			score -= float64(check.IssueCount) * penalty * 2
		case "warn":
			score -= float64(check.IssueCount) * penalty
		}
	}
	return int(max(0, min(100, score)))
}

// maxRecommendations caps the recommendation list.
const maxRecommendations = 5

// generateRecommendations suggests a fix for each failing check.
func generateRecommendations(checks []HealthCheck) []string {
	var recommendations []string
	for _, check := range checks {
		if check.IssueCount == 0 {
			continue
		}
		if rec := recommendation(check.RuleID); rec != "" {
			recommendations = append(recommendations, rec)
		}
	}
	if len(recommendations) > maxRecommendations {
		recommendations = recommendations[:maxRecommendations]
	}
	return recommendations
}

func recommendation(ruleID string) string {
	switch ruleID {
	case compileCheckID:
		return "Fix compiler errors first; run 'haiku check' for the full diagnostics"
	case "HK01":
		return "Remove unused variables or prefix them with an underscore"
	case "HK02":
		return "Drop unused parameters or prefix them with an underscore"
	case "HK03":
		return "Rename shadowing variables so each name has one meaning per function"
	case "HK04":
		return "Delete statements after return, break and continue"
	case "HK05":
		return "Remove self-assignments"
	case "HK06":
		return "Replace constant conditions with the branch that actually runs"
	case "HK10":
		return "Fill in or remove empty blocks"
	case "HK11":
		return "Rename declarations: snake_case for functions and variables, CamelCase for structs"
	case "HK12":
		return "Group long parameter lists into a struct"
	default:
		return ""
	}
}

const reportTitle = "haiku Project Health Report"

func renderDoctorText(r *output.Renderer, out *DoctorOutput) {
	styles := r.Styles()
	w := r.Out()

	_, _ = fmt.Fprintln(w, styles.Header.Render(reportTitle))
	_, _ = fmt.Fprintln(w, styles.Muted.Render(strings.Repeat("=", 55)))
	_, _ = fmt.Fprintln(w)

	_, _ = fmt.Fprintln(w, styles.Header.Render("Project Summary"))
	s := out.Summary
	_, _ = fmt.Fprintf(w, "   Files: %d | Lines: %d\n", s.Files, s.Lines)
	_, _ = fmt.Fprintf(w, "   Functions: %d | Externs: %d | Structs: %d | Uses: %d\n\n", s.Functions, s.Externs, s.Structs, s.Uses)

	_, _ = fmt.Fprintln(w, styles.Header.Render("Health Checks"))
	group := ""
	title := cases.Title(language.English)
	for _, check := range out.HealthChecks {
		if check.Group != group {
			group = check.Group
			_, _ = fmt.Fprintln(w, "   "+title.String(group))
			_, _ = fmt.Fprintln(w, styles.Muted.Render("   "+strings.Repeat("-", 40)))
		}

		icon := styles.Success.Render("✓")
		switch check.Status {
		case "warn":
			icon = styles.Warning.Render("!")
		case "error":
			icon = styles.Error.Render("✗")
		}
		line := fmt.Sprintf("%s %s: %s", icon, check.RuleID, check.Name)
		if check.IssueCount > 0 {
			line += fmt.Sprintf(" (%d issues)", check.IssueCount)
		}
		_, _ = fmt.Fprintln(w, "   "+line)

		for i, detail := range check.Details {
			if i >= 3 {
				_, _ = fmt.Fprintln(w, styles.Muted.Render(fmt.Sprintf("       ... and %d more", len(check.Details)-3)))
				break
			}
			_, _ = fmt.Fprintln(w, styles.Muted.Render("       - "+detail))
		}
	}
	_, _ = fmt.Fprintln(w)

	_, _ = fmt.Fprintln(w, styles.Muted.Render(strings.Repeat("=", 55)))
	scoreStyle := styles.Success
	if out.Score < 70 {
		scoreStyle = styles.Warning
	}
	if out.Score < 50 {
		scoreStyle = styles.Error
	}
	_, _ = fmt.Fprintf(w, "   Health Score: %s\n\n", scoreStyle.Render(fmt.Sprintf("%d/100", out.Score)))

	if len(out.Recommendations) > 0 {
		_, _ = fmt.Fprintln(w, styles.Header.Render("Recommendations"))
		for i, rec := range out.Recommendations {
			_, _ = fmt.Fprintf(w, "   %d. %s\n", i+1, rec)
		}
	}
}

func renderDoctorMarkdown(w io.Writer, out *DoctorOutput) {
	_, _ = fmt.Fprintf(w, "# %s\n\n", reportTitle)

	s := out.Summary
	_, _ = fmt.Fprint(w, "## Project Summary\n\n")
	_, _ = fmt.Fprintf(w, "- **Files**: %d\n- **Lines**: %d\n- **Functions**: %d\n- **Externs**: %d\n- **Structs**: %d\n- **Uses**: %d\n\n",
		s.Files, s.Lines, s.Functions, s.Externs, s.Structs, s.Uses)

	_, _ = fmt.Fprint(w, "## Health Checks\n\n")
	group := ""
	title := cases.Title(language.English)
	for _, check := range out.HealthChecks {
		if check.Group != group {
			group = check.Group
			_, _ = fmt.Fprintf(w, "### %s\n\n", title.String(group))
		}

		_, _ = fmt.Fprintf(w, "- **[%s]** %s: %s", strings.ToUpper(check.Status), check.RuleID, check.Name)
		if check.IssueCount > 0 {
			_, _ = fmt.Fprintf(w, " (%d issues)", check.IssueCount)
		}
		_, _ = fmt.Fprintln(w)
		for _, detail := range check.Details {
			_, _ = fmt.Fprintf(w, "  - %s\n", detail)
		}
	}
	_, _ = fmt.Fprintln(w)

	_, _ = fmt.Fprintf(w, "## Health Score\n\n**%d/100**\n\n", out.Score)

	if len(out.Recommendations) > 0 {
		_, _ = fmt.Fprint(w, "## Recommendations\n\n")
		for i, rec := range out.Recommendations {
			_, _ = fmt.Fprintf(w, "%d. %s\n", i+1, rec)
		}
		_, _ = fmt.Fprintln(w)
	}
}
