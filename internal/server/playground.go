package server

import (
	"embed"
	"fmt"
	"net/http"
	"strings"

	"github.com/leapstack-labs/haiku/internal/cli/output"
	"github.com/leapstack-labs/haiku/pkg/diag"
	"github.com/starfederation/datastar-go/datastar"
)

//go:embed resources/index.html
var resources embed.FS

// Playground modes.
const (
	modeTokens = "tokens"
	modeAST    = "ast"
	modeIR     = "ir"
)

// PlaygroundSignals are the datastar signals exchanged with the playground
// page.
type PlaygroundSignals struct {
	Source      string   `json:"source"`
	Mode        string   `json:"mode"`
	Output      string   `json:"output"`
	Diagnostics []string `json:"diagnostics"`
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	page, err := resources.ReadFile("resources/index.html")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

// handleCompileSSE compiles the playground source and patches the output
// signals.
func (s *Server) handleCompileSSE(w http.ResponseWriter, r *http.Request) {
	// Signals must be read before the SSE generator takes over the response.
	var signals PlaygroundSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		sse := datastar.NewSSE(w, r)
		_ = sse.ConsoleError(fmt.Errorf("failed to read signals: %w", err))
		return
	}

	sse := datastar.NewSSE(w, r)

	out, diags := s.compileForMode(r, signals.Mode, signals.Source)
	if err := sse.MarshalAndPatchSignals(map[string]any{
		"output":      out,
		"diagnostics": diags,
	}); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// handleEventsSSE streams source change notifications to the page until
// the client disconnects.
func (s *Server) handleEventsSSE(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)
	events := s.notifier.Subscribe()
	defer s.notifier.Unsubscribe(events)

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := sse.MarshalAndPatchSignals(map[string]any{
				"changed": ev.Path,
			}); err != nil {
				s.logger.Debug("event stream closed", "error", err)
				return
			}
		}
	}
}

func (s *Server) compileForMode(r *http.Request, mode, src string) (string, []string) {
	const path = "<playground>"

	switch mode {
	case modeTokens:
		toks, diags := s.engine.Tokenize(path, src)
		var sb strings.Builder
		for _, tok := range toks {
			rec := tokenRecord(src, tok)
			fmt.Fprintf(&sb, "%d:%d\t%s\t%q\n", rec.Line, rec.Column, rec.Type, rec.Literal)
		}
		return sb.String(), diagnosticLines(src, diags)
	case modeAST:
		resp := unitResponse(s.engine.Parse(r.Context(), path, src))
		return resp.Tree, recordLines(resp.Diagnostics)
	default:
		resp := unitResponse(s.engine.Compile(r.Context(), path, src))
		return resp.IR, recordLines(resp.Diagnostics)
	}
}

func diagnosticLines(src string, diags []*diag.Diagnostic) []string {
	return recordLines(output.Records(src, diags))
}

func recordLines(recs []output.DiagnosticRecord) []string {
	lines := make([]string, len(recs))
	for i, d := range recs {
		lines[i] = fmt.Sprintf("%d:%d: %s[%s]: %s", d.Line, d.Column, d.Severity, d.Kind, d.Message)
	}
	return lines
}
