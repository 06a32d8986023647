package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/leapstack-labs/haiku/internal/cli/config"
	"github.com/leapstack-labs/haiku/internal/cli/output"
	"github.com/leapstack-labs/haiku/pkg/diag"
	"github.com/leapstack-labs/haiku/pkg/lint"
	_ "github.com/leapstack-labs/haiku/pkg/lint/rules" // register all rules
	"github.com/spf13/cobra"
)

// LintOptions holds options for the lint command.
type LintOptions struct {
	Paths    []string
	Disable  []string // rule IDs to disable
	Rules    []string // run only these rules
	Severity string   // minimum severity to report
}

// NewLintCommand creates the lint command.
func NewLintCommand() *cobra.Command {
	opts := &LintOptions{}
	cmd := &cobra.Command{
		Use:   "lint [paths...]",
		Short: "Run lint rules on source files",
		Long: `Analyze source files for suspicious or unidiomatic code that the
compiler accepts.

Files with lexical or syntax errors are not linted; their errors are
reported instead. Rules are configured in the lint section of haiku.yaml:

  lint:
    disabled: [HK11]
    severity: {HK01: error}
    options: {HK12: {max_params: 4}}

Use 'haiku rules' to list the available rules.`,
		Example: `  # Lint the current directory
  haiku lint

  # Lint one file, skipping the naming rule
  haiku lint main.hk --disable HK11

  # Only run the correctness rules for unused names
  haiku lint --rule HK01,HK02

  # Only report warnings and errors
  haiku lint --severity warning`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Paths = args
			if len(opts.Paths) == 0 {
				opts.Paths = []string{"."}
			}
			return runLint(cmd, opts)
		},
	}

	cmd.Flags().StringSliceVar(&opts.Disable, "disable", nil, "Rule IDs to disable")
	cmd.Flags().StringSliceVar(&opts.Rules, "rule", nil, "Run only specific rules")
	cmd.Flags().StringVar(&opts.Severity, "severity", "note", "Minimum severity: error, warning, note")

	return cmd
}

// lintReport is the structured form of one linted file.
type lintReport struct {
	Path        string                    `json:"path" yaml:"path"`
	Linted      bool                      `json:"linted" yaml:"linted"`
	Diagnostics []output.DiagnosticRecord `json:"diagnostics" yaml:"diagnostics"`
}

func runLint(cmd *cobra.Command, opts *LintOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	threshold, ok := diag.ParseSeverity(opts.Severity)
	if !ok {
		return fmt.Errorf("invalid severity %q (want one of: error, warning, note)", opts.Severity)
	}

	lintCfg, err := buildLintConfig(cmdCtx.Cfg, opts)
	if err != nil {
		return err
	}
	analyzer := lint.NewAnalyzer(lintCfg)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	files, err := cmdCtx.Engine.Discover(opts.Paths)
	if err != nil {
		return err
	}
	results, err := cmdCtx.Engine.CompileFiles(ctx, files)
	if err != nil {
		return err
	}

	r := cmdCtx.Renderer
	reports := make([]lintReport, len(results))
	issues, errs := 0, 0
	for i, result := range results {
		var diags []*diag.Diagnostic
		linted := lint.Lintable(result.Diagnostics)
		if linted {
			for _, d := range analyzer.Check(result.Path, result.Unit) {
				if d.Severity <= threshold {
					diags = append(diags, d)
				}
			}
		} else {
			for _, d := range result.Diagnostics {
				if d.IsError() {
					diags = append(diags, d)
				}
			}
			cmdCtx.Logger.Debug("skipping unit with syntax errors", "path", result.Path)
		}

		for _, d := range diags {
			issues++
			if d.IsError() {
				errs++
			}
		}
		reports[i] = lintReport{
			Path:        result.Path,
			Linted:      linted,
			Diagnostics: output.Records(result.Source, diags),
		}
		if !r.Structured() {
			if err := r.Diagnostics(result.Source, diags); err != nil {
				return err
			}
		}
	}

	if r.Structured() {
		if err := r.Data(reports); err != nil {
			return err
		}
	} else if issues == 0 {
		r.Success("No lint issues in %d file(s)", len(files))
	} else {
		r.Errorf("%d issue(s) in %d file(s)", issues, len(files))
	}

	if errs > 0 {
		return sourceErrors(errs)
	}
	return nil
}

// buildLintConfig layers the command line over the lint section of the
// configuration.
func buildLintConfig(cfg *config.Config, opts *LintOptions) (*lint.Config, error) {
	lintCfg := lint.NewConfig()

	for _, id := range cfg.Lint.Disabled {
		lintCfg.Disable(strings.TrimSpace(id))
	}
	for id, name := range cfg.Lint.Severity {
		sev, ok := diag.ParseSeverity(name)
		if !ok {
			return nil, fmt.Errorf("invalid lint severity %q for %s", name, id)
		}
		lintCfg.SetSeverity(id, sev)
	}
	for id, ruleOpts := range cfg.Lint.Options {
		for key, value := range ruleOpts {
			lintCfg.SetOption(id, key, value)
		}
	}

	for _, id := range opts.Disable {
		lintCfg.Disable(strings.TrimSpace(id))
	}
	if len(opts.Rules) > 0 {
		enabled := make(map[string]bool, len(opts.Rules))
		for _, id := range opts.Rules {
			id = strings.TrimSpace(id)
			if _, ok := lint.GetByID(id); !ok {
				return nil, fmt.Errorf("unknown lint rule %q", id)
			}
			enabled[id] = true
		}
		for _, rule := range lint.GetAll() {
			if !enabled[rule.ID] {
				lintCfg.Disable(rule.ID)
			}
		}
	}

	if err := lintCfg.Validate(); err != nil {
		return nil, err
	}
	return lintCfg, nil
}
