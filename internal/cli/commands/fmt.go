package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/leapstack-labs/haiku/internal/cli/output"
	"github.com/leapstack-labs/haiku/pkg/format"
	"github.com/spf13/cobra"
)

// ErrUnformatted is returned by fmt --check when a file is not in
// canonical form.
var ErrUnformatted = errors.New("files are not formatted")

// FmtOptions holds options for the fmt command.
type FmtOptions struct {
	Paths []string
	Write bool
	List  bool
	Check bool
}

// NewFmtCommand creates the fmt command.
func NewFmtCommand() *cobra.Command {
	opts := &FmtOptions{}
	cmd := &cobra.Command{
		Use:   "fmt <paths...>",
		Short: "Format source files",
		Long: `Reformat source files in the canonical layout: four-space indentation,
one statement per line, single spaces around binary operators and only
the parentheses the grammar needs. Comments and literal spellings are
kept as written, as are single blank lines between statements.

Directories are walked like the check command; "-" reads standard input.
Files that do not parse are reported and left untouched.`,
		Example: `  # Print the formatted file
  haiku fmt main.hk

  # Rewrite every source file under src
  haiku fmt -w src

  # Fail when anything needs formatting (for CI)
  haiku fmt --check .`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Paths = args
			return runFmt(cmd, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Write, "write", "w", false, "Write the result back to the source files")
	cmd.Flags().BoolVarP(&opts.List, "list", "l", false, "List files whose formatting differs")
	cmd.Flags().BoolVar(&opts.Check, "check", false, "Exit with status 1 when a file is not formatted")

	return cmd
}

// fmtRecord is the structured form of one formatted file.
type fmtRecord struct {
	Path        string                    `json:"path" yaml:"path"`
	Changed     bool                      `json:"changed" yaml:"changed"`
	Formatted   string                    `json:"formatted,omitempty" yaml:"formatted,omitempty"`
	Diagnostics []output.DiagnosticRecord `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

func runFmt(cmd *cobra.Command, opts *FmtOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer

	paths, err := fmtPaths(cmdCtx, opts.Paths)
	if err != nil {
		return err
	}

	var (
		records []fmtRecord
		invalid int
		changed int
	)
	for _, path := range paths {
		src, err := readSource(cmd, path)
		if err != nil {
			return err
		}
		name := displayPath(path)

		formatted, err := format.Source(name, src)
		if err != nil {
			result := cmdCtx.Engine.Parse(cmd.Context(), name, src)
			invalid++
			if r.Structured() {
				records = append(records, fmtRecord{Path: name, Diagnostics: output.Records(src, result.Diagnostics)})
				continue
			}
			if err := r.Diagnostics(src, result.Diagnostics); err != nil {
				return err
			}
			continue
		}

		rec := fmtRecord{Path: name, Changed: formatted != src}
		if rec.Changed {
			changed++
		}
		cmdCtx.Logger.Debug("formatted", "path", name, "changed", rec.Changed)

		switch {
		case opts.Write && path != "-":
			if rec.Changed {
				if err := writeFormatted(path, formatted); err != nil {
					return err
				}
			}
		case opts.List || opts.Check:
			// report only
		default:
			rec.Formatted = formatted
		}

		if r.Structured() {
			records = append(records, rec)
			continue
		}
		if (opts.List || opts.Check) && rec.Changed {
			_, _ = fmt.Fprintln(r.Out(), name)
		}
		if rec.Formatted != "" {
			r.Code("haiku", rec.Formatted)
		}
	}

	if r.Structured() {
		if err := r.Data(records); err != nil {
			return err
		}
	} else if opts.Write && changed > 0 {
		r.Success("Formatted %d file(s)", changed)
	}

	if invalid > 0 {
		return sourceErrors(invalid)
	}
	if opts.Check && changed > 0 {
		return fmt.Errorf("%w: %d file(s)", ErrUnformatted, changed)
	}
	return nil
}

// fmtPaths expands directories into the source files below them.
func fmtPaths(cmdCtx *CommandContext, args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		if arg == "-" {
			paths = append(paths, arg)
			continue
		}
		found, err := cmdCtx.Engine.Discover([]string{arg})
		if err != nil {
			return nil, err
		}
		paths = append(paths, found...)
	}
	return paths, nil
}

func writeFormatted(path, formatted string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(formatted), info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
