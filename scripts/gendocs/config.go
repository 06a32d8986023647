package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/leapstack-labs/haiku/internal/cli/config"
)

// ConfigField describes one configuration key.
type ConfigField struct {
	Name        string
	Type        string
	Default     string
	Description string
}

var configDescriptions = map[string]string{
	"error_policy":      "How errors are handled: collect recovers and reports all of them, fail-fast stops at the first",
	"max_errors":        "Errors reported per unit before giving up (0 is unlimited)",
	"workers":           "Files compiled in parallel by check (0 uses GOMAXPROCS)",
	"output":            "Output format: auto, text, markdown, json, yaml",
	"verbose":           "Enable debug logging",
	"log_level":         "Log level: debug, info, warn, error",
	"source_extensions": "File extensions picked up when walking directories",
	"history_file":      "REPL history file",
	"state_path":        "SQLite database for recorded check runs, relative to the project root",
	"serve_addr":        "Listen address of the serve command",
	"lint.disabled":     "Lint rule IDs to skip",
	"lint.severity":     "Severity overrides by rule ID: error, warning, note",
	"lint.options":      "Rule-specific options by rule ID",
}

// configFields lists the configuration keys in declaration order, read from
// the koanf tags of config.Config. Nested sections are flattened into
// dotted keys.
func configFields() []ConfigField {
	return structFields(reflect.ValueOf(config.Default()).Elem(), "")
}

func structFields(v reflect.Value, prefix string) []ConfigField {
	typ := v.Type()
	var fields []ConfigField
	for i := range typ.NumField() {
		f := typ.Field(i)
		name := f.Tag.Get("koanf")
		if name == "" || name == "-" {
			continue
		}
		name = prefix + name
		if f.Type.Kind() == reflect.Struct {
			fields = append(fields, structFields(v.Field(i), name+".")...)
			continue
		}
		fields = append(fields, ConfigField{
			Name:        name,
			Type:        typeName(f.Type),
			Default:     defaultValue(v.Field(i)),
			Description: configDescriptions[name],
		})
	}
	return fields
}

func typeName(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Slice:
		return "list of " + t.Elem().Name()
	case reflect.Map:
		return "map of " + typeName(t.Elem())
	case reflect.Interface:
		return "any"
	}
	return t.Name()
}

func defaultValue(v reflect.Value) string {
	switch v.Kind() {
	case reflect.Map:
		if v.Len() == 0 {
			return ""
		}
		return fmt.Sprint(v.Interface())
	case reflect.Slice:
		items := make([]string, v.Len())
		for i := range v.Len() {
			items[i] = fmt.Sprint(v.Index(i).Interface())
		}
		return strings.Join(items, ", ")
	case reflect.String:
		return v.String()
	default:
		return fmt.Sprint(v.Interface())
	}
}

// generateConfigDocs writes the configuration reference.
func generateConfigDocs(outDir string) error {
	log.Printf("Generating configuration docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	w := NewMarkdownWriter()
	w.Frontmatter("Configuration", "Configuration file reference for haiku")
	w.GeneratedMarker()

	w.Header(1, "Configuration")
	w.Paragraph("haiku reads `haiku.yaml` from the working directory or the nearest parent that has one. " +
		"A different file can be named with `--config`. Relative paths in the file are resolved against its directory.")

	w.Header(2, "Keys")
	var rows [][]string
	for _, f := range configFields() {
		def := f.Default
		if def != "" {
			def = InlineCode(def)
		}
		rows = append(rows, []string{InlineCode(f.Name), f.Type, def, f.Description})
	}
	w.Table([]string{"Key", "Type", "Default", "Description"}, rows)

	w.Header(2, "Example")
	w.CodeBlock("yaml", `error_policy: collect
max_errors: 20
source_extensions: [".hk"]
state_path: .haiku/state.db
serve_addr: 127.0.0.1:7878
lint:
  disabled: [HK11]
  severity:
    HK01: error
  options:
    HK12:
      max_params: 4`)

	filename := filepath.Join(outDir, "configuration.md")
	if err := os.WriteFile(filename, w.Bytes(), 0600); err != nil {
		return err
	}
	log.Printf("  Generated configuration.md")
	return nil
}
