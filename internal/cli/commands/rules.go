package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/haiku/internal/cli/output"
	"github.com/leapstack-labs/haiku/pkg/lint"
	"github.com/spf13/cobra"
)

// RulesOptions holds options for the rules command.
type RulesOptions struct {
	Group string // filter by group
}

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	opts := &RulesOptions{}
	cmd := &cobra.Command{
		Use:   "rules [rule-id]",
		Short: "List available lint rules",
		Long: `List all lint rules with their group and default severity.

Given a rule ID, show its full documentation including examples of the
code it flags and the preferred form.`,
		Example: `  # List all rules
  haiku rules

  # Show details for a specific rule
  haiku rules HK03

  # List the style rules as JSON
  haiku rules --group style -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return showRule(cmd, args[0])
			}
			return listRules(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Group, "group", "g", "", "Filter by group")

	return cmd
}

func listRules(cmd *cobra.Command, opts *RulesOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer

	rules := lint.GetAll()
	if opts.Group != "" {
		rules = lint.GetByGroup(opts.Group)
	}

	if r.Structured() {
		infos := make([]lint.RuleInfo, len(rules))
		for i, rule := range rules {
			infos[i] = rule.Info()
		}
		return r.Data(infos)
	}

	rows := make([][]string, len(rules))
	for i, rule := range rules {
		rows[i] = []string{rule.ID, rule.Name, rule.Severity.String(), rule.Description}
	}
	if err := r.Table([]string{"ID", "NAME", "SEVERITY", "DESCRIPTION"}, rows); err != nil {
		return err
	}
	if r.EffectiveMode() == output.ModeText {
		_, _ = fmt.Fprintln(r.Out(), r.Styles().Muted.Render("Use 'haiku rules <rule-id>' for detailed documentation"))
	}
	return nil
}

func showRule(cmd *cobra.Command, id string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer

	rule, ok := lint.GetByID(strings.ToUpper(id))
	if !ok {
		return fmt.Errorf("rule %q not found", id)
	}

	if r.Structured() {
		return r.Data(ruleDoc{
			RuleInfo:    rule.Info(),
			Rationale:   rule.Rationale,
			BadExample:  rule.BadExample,
			GoodExample: rule.GoodExample,
		})
	}

	out := r.Out()
	r.Header(fmt.Sprintf("%s - %s", rule.ID, rule.Name))
	_, _ = fmt.Fprintf(out, "Group: %s\nSeverity: %s\n", rule.Group, rule.Severity)
	if len(rule.ConfigKeys) > 0 {
		_, _ = fmt.Fprintf(out, "Options: %s\n", strings.Join(rule.ConfigKeys, ", "))
	}
	_, _ = fmt.Fprintf(out, "\n%s\n", rule.Description)
	if rule.Rationale != "" {
		_, _ = fmt.Fprintf(out, "\n%s\n", rule.Rationale)
	}
	if rule.BadExample != "" {
		_, _ = fmt.Fprintln(out, "\nBad:")
		r.Code("haiku", rule.BadExample+"\n")
	}
	if rule.GoodExample != "" {
		_, _ = fmt.Fprintln(out, "\nGood:")
		r.Code("haiku", rule.GoodExample+"\n")
	}
	return nil
}

// ruleDoc is the structured form of a rule's documentation.
type ruleDoc struct {
	lint.RuleInfo `yaml:",inline"`
	Rationale     string `json:"rationale,omitempty" yaml:"rationale,omitempty"`
	BadExample    string `json:"bad_example,omitempty" yaml:"bad_example,omitempty"`
	GoodExample   string `json:"good_example,omitempty" yaml:"good_example,omitempty"`
}
