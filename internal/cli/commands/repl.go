package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
)

const (
	replPrompt         = "haiku> "
	replContinuePrompt = "  ...> "
	replPath           = "<repl>"
)

// replMode selects what the REPL prints for each input.
type replMode string

const (
	replModeTokens replMode = "tokens"
	replModeAST    replMode = "ast"
	replModeIR     replMode = "ir"
)

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Interactive tokenizer, parser and lowering shell",
		Long: `Start an interactive shell that compiles each input and prints its
tokens, syntax tree or IR.

Input that starts with a declaration (fn, extern, struct, use) is compiled
as a unit. Other input is parsed as a statement list in ast mode and
wrapped in the body of a function named main otherwise.
Input continues over several lines until its braces balance and it ends
with ';' or '}'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runREPL(cmd)
		},
	}

	return cmd
}

func runREPL(cmd *cobra.Command) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     historyPath(cmdCtx.Cfg.HistoryFile),
		AutoComplete:    newREPLCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(out, "haiku REPL")
	_, _ = fmt.Fprintln(out, "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(out)

	s := newREPLSession(cmd, cmdCtx)
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			s.reset()
			rl.SetPrompt(replPrompt)
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		if s.feed(line) {
			break
		}
		if s.pending() {
			rl.SetPrompt(replContinuePrompt)
		} else {
			rl.SetPrompt(replPrompt)
		}
	}

	return nil
}

// historyPath expands environment variables in the configured history file.
// An empty path disables history.
func historyPath(path string) string {
	if path == "" {
		return ""
	}
	path = os.ExpandEnv(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return ""
	}
	return path
}

// replSession holds the state of one REPL: the print mode and any input
// still waiting for its closing line.
type replSession struct {
	cmd    *cobra.Command
	cmdCtx *CommandContext
	mode   replMode
	buf    strings.Builder
}

func newREPLSession(cmd *cobra.Command, cmdCtx *CommandContext) *replSession {
	return &replSession{cmd: cmd, cmdCtx: cmdCtx, mode: replModeIR}
}

func (s *replSession) reset() {
	s.buf.Reset()
}

func (s *replSession) pending() bool {
	return s.buf.Len() > 0
}

// feed consumes one input line. It returns true when the session should end.
func (s *replSession) feed(line string) bool {
	trimmed := strings.TrimSpace(line)
	if !s.pending() {
		if trimmed == "" {
			return false
		}
		if strings.HasPrefix(trimmed, ".") {
			return s.dot(trimmed)
		}
	}

	s.buf.WriteString(line)
	s.buf.WriteByte('\n')
	input := s.buf.String()
	if !inputComplete(input) {
		return false
	}
	s.buf.Reset()
	s.eval(input)
	return false
}

// inputComplete returns true once braces balance and the input ends a
// statement or block.
func inputComplete(input string) bool {
	depth := 0
	inString := false
	escaped := false
	for _, r := range input {
		switch {
		case escaped:
			escaped = false
		case inString && r == '\\':
			escaped = true
		case r == '"':
			inString = !inString
		case inString:
		case r == '{':
			depth++
		case r == '}':
			depth--
		}
	}
	trimmed := strings.TrimSpace(input)
	return depth <= 0 && !inString && (strings.HasSuffix(trimmed, ";") || strings.HasSuffix(trimmed, "}"))
}

// isDeclInput returns true if src starts with a top-level declaration.
func isDeclInput(src string) bool {
	fields := strings.Fields(src)
	if len(fields) > 0 {
		switch fields[0] {
		case "fn", "extern", "struct", "use":
			return true
		}
	}
	return false
}

// wrapInput returns src as a compilation unit. Bare statements become the
// body of main.
func wrapInput(src string) string {
	if isDeclInput(src) {
		return src
	}
	return "fn main() {\n" + src + "}\n"
}

func (s *replSession) eval(input string) {
	r := s.cmdCtx.Renderer
	eng := s.cmdCtx.Engine
	src := wrapInput(input)

	var err error
	switch s.mode {
	case replModeTokens:
		tokens, diags := eng.Tokenize(replPath, src)
		rows := make([][]string, 0, len(tokens))
		for _, tok := range tokens {
			rows = append(rows, tokenRow(src, tok))
		}
		err = renderTokens(r, src, rows, diags)
	case replModeAST:
		if isDeclInput(input) {
			err = renderTree(r, eng.Parse(s.cmd.Context(), replPath, input), false)
		} else {
			err = renderTree(r, eng.ParseStmts(s.cmd.Context(), replPath, input), false)
		}
	default:
		err = renderIR(r, eng.Compile(s.cmd.Context(), replPath, src))
	}
	if err != nil && !errors.Is(err, ErrSourceErrors) {
		r.Errorf("%v", err)
	}
}

func (s *replSession) dot(line string) bool {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])
	w := s.cmd.OutOrStdout()
	errW := s.cmd.ErrOrStderr()

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printHaikuREPLHelp(w)

	case ".mode":
		if len(parts) < 2 {
			_, _ = fmt.Fprintf(w, "mode: %s\n", s.mode)
			return false
		}
		switch m := replMode(strings.ToLower(parts[1])); m {
		case replModeTokens, replModeAST, replModeIR:
			s.mode = m
			_, _ = fmt.Fprintf(w, "mode: %s\n", s.mode)
		default:
			_, _ = fmt.Fprintf(errW, "Unknown mode: %s (tokens, ast or ir)\n", parts[1])
		}

	case ".load":
		if len(parts) < 2 {
			_, _ = fmt.Fprintln(errW, "Usage: .load <file>")
			return false
		}
		data, err := os.ReadFile(parts[1]) //nolint:gosec // path typed by the user
		if err != nil {
			_, _ = fmt.Fprintf(errW, "Error: %v\n", err)
			return false
		}
		s.eval(string(data))

	case ".clear":
		_, _ = fmt.Fprint(w, "\033[H\033[2J")

	default:
		_, _ = fmt.Fprintf(errW, "Unknown command: %s (type .help for commands)\n", command)
	}
	return false
}

func printHaikuREPLHelp(w io.Writer) {
	help := `
Commands:
  .help                 Show this help message
  .mode [tokens|ast|ir] Show or set what is printed for each input
  .load <file>          Compile a file in the current mode
  .clear                Clear the screen
  .quit / .exit         Exit the REPL

Tips:
  - Declarations (fn, extern, struct, use) are compiled as a unit
  - Other input is shown as statements in ast mode and wrapped in
    fn main() { ... } otherwise
  - Use arrow keys to navigate history`
	_, _ = fmt.Fprintln(w, help)
}

func newREPLCompleter() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem(".help"),
		readline.PcItem(".mode",
			readline.PcItem(string(replModeTokens)),
			readline.PcItem(string(replModeAST)),
			readline.PcItem(string(replModeIR)),
		),
		readline.PcItem(".load"),
		readline.PcItem(".clear"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
}

