package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/leapstack-labs/haiku/pkg/token"
)

// generateLiteralDocs writes the numeric literal suffix reference.
func generateLiteralDocs(outDir string) error {
	log.Printf("Generating literal docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	w := NewMarkdownWriter()
	w.Frontmatter("Numeric literals", "Integer and float literal suffixes")
	w.GeneratedMarker()

	w.Header(1, "Numeric literals")
	w.Paragraph("A numeric literal may end in a type suffix. Without one an integer is untyped and must fit in 64 bits, " +
		"and a literal with a fraction or exponent is a 64-bit float. Values that do not fit the suffix type are lexical errors.")

	w.Header(2, "Integer suffixes")
	ints := make([]string, 0, len(token.IntSuffixes))
	for s := range token.IntSuffixes {
		ints = append(ints, s)
	}
	sort.Slice(ints, func(i, j int) bool {
		a, b := token.IntSuffixes[ints[i]], token.IntSuffixes[ints[j]]
		if a.Signed() != b.Signed() {
			return a.Signed()
		}
		return a.Bits() < b.Bits()
	})
	var rows [][]string
	for _, s := range ints {
		k := token.IntSuffixes[s]
		rows = append(rows, []string{InlineCode("1" + s), strconv.Itoa(k.Bits()), strconv.FormatBool(k.Signed())})
	}
	w.Table([]string{"Example", "Bits", "Signed"}, rows)

	w.Header(2, "Float suffixes")
	floats := make([]string, 0, len(token.FloatSuffixes))
	for s := range token.FloatSuffixes {
		floats = append(floats, s)
	}
	sort.Strings(floats)
	rows = nil
	for _, s := range floats {
		rows = append(rows, []string{InlineCode("1.5" + s), strconv.Itoa(token.FloatSuffixes[s].Bits())})
	}
	w.Table([]string{"Example", "Bits"}, rows)

	filename := filepath.Join(outDir, "literals.md")
	if err := os.WriteFile(filename, w.Bytes(), 0600); err != nil {
		return err
	}
	log.Printf("  Generated literals.md")
	return nil
}
