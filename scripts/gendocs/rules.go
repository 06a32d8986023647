package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/haiku/pkg/lint"
	_ "github.com/leapstack-labs/haiku/pkg/lint/rules" // register all rules
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// generateRuleDocs writes the lint rule reference, one section per group.
func generateRuleDocs(outDir string) error {
	log.Printf("Generating lint rule docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	w := NewMarkdownWriter()
	w.Frontmatter("Lint rules", "Rules checked by haiku lint")
	w.GeneratedMarker()

	w.Header(1, "Lint rules")
	w.Paragraph("`haiku lint` runs these rules on every unit without lexical or syntax errors. " +
		"Rules can be disabled, have their severity changed and take options in the `lint` section of `haiku.yaml`.")

	title := cases.Title(language.English)
	group := ""
	for _, rule := range lint.GetAll() {
		if rule.Group != group {
			group = rule.Group
			w.Header(2, title.String(group))
		}

		w.Header(3, fmt.Sprintf("%s: %s", rule.ID, rule.Name))
		w.Paragraph(rule.Description)

		facts := []string{"Default severity: " + InlineCode(rule.Severity.String())}
		if len(rule.ConfigKeys) > 0 {
			keys := make([]string, len(rule.ConfigKeys))
			for i, k := range rule.ConfigKeys {
				keys[i] = InlineCode(k)
			}
			facts = append(facts, "Options: "+strings.Join(keys, ", "))
		}
		w.BulletList(facts)

		if rule.Rationale != "" {
			w.Paragraph(rule.Rationale)
		}
		if rule.BadExample != "" {
			w.Paragraph("Flagged:")
			w.CodeBlock("haiku", rule.BadExample)
		}
		if rule.GoodExample != "" {
			w.Paragraph("Preferred:")
			w.CodeBlock("haiku", rule.GoodExample)
		}
	}

	filename := filepath.Join(outDir, "lint-rules.md")
	if err := os.WriteFile(filename, w.Bytes(), 0600); err != nil {
		return err
	}
	log.Printf("  Generated lint-rules.md")
	return nil
}
