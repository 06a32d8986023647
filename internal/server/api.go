package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/leapstack-labs/haiku/internal/cli/output"
	"github.com/leapstack-labs/haiku/internal/engine"
	"github.com/leapstack-labs/haiku/internal/state"
	"github.com/leapstack-labs/haiku/pkg/ast"
	"github.com/leapstack-labs/haiku/pkg/diag"
	"github.com/leapstack-labs/haiku/pkg/ir"
	"github.com/leapstack-labs/haiku/pkg/token"
)

// SourceRequest is the body of the compile endpoints.
type SourceRequest struct {
	Path   string `json:"path"`
	Source string `json:"source"`
}

// TokenRecord is one token in a /api/tokens response.
type TokenRecord struct {
	Type    string `json:"type"`
	Literal string `json:"literal"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Value   string `json:"value,omitempty"`
}

// TokensResponse is the body of a /api/tokens response.
type TokensResponse struct {
	Path        string                    `json:"path"`
	Tokens      []TokenRecord             `json:"tokens"`
	Diagnostics []output.DiagnosticRecord `json:"diagnostics"`
}

// UnitResponse is the body of a /api/parse or /api/ir response.
type UnitResponse struct {
	Path        string                    `json:"path"`
	Tree        string                    `json:"tree,omitempty"`
	IR          string                    `json:"ir,omitempty"`
	Diagnostics []output.DiagnosticRecord `json:"diagnostics"`
	DurationMS  float64                   `json:"duration_ms"`
}

// RunResponse is a recorded check run.
type RunResponse struct {
	ID          string             `json:"id"`
	Roots       string             `json:"roots"`
	Status      string             `json:"status"`
	StartedAt   time.Time          `json:"started_at"`
	DurationMS  float64            `json:"duration_ms"`
	Files       int                `json:"files"`
	Errors      int                `json:"errors"`
	Diagnostics []state.Diagnostic `json:"diagnostics,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleTokens(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeSource(w, r)
	if !ok {
		return
	}

	toks, diags := s.engine.Tokenize(req.Path, req.Source)
	resp := TokensResponse{
		Path:        req.Path,
		Tokens:      make([]TokenRecord, 0, len(toks)),
		Diagnostics: output.Records(req.Source, diags),
	}
	for _, tok := range toks {
		resp.Tokens = append(resp.Tokens, tokenRecord(req.Source, tok))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeSource(w, r)
	if !ok {
		return
	}
	result := s.engine.Parse(r.Context(), req.Path, req.Source)
	writeJSON(w, http.StatusOK, unitResponse(result))
}

func (s *Server) handleIR(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeSource(w, r)
	if !ok {
		return
	}
	result := s.engine.Compile(r.Context(), req.Path, req.Source)
	writeJSON(w, http.StatusOK, unitResponse(result))
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be a positive integer"})
			return
		}
		limit = n
	}

	runs, err := s.store.ListRuns(r.Context(), limit)
	if err != nil {
		s.logger.Error("failed to list runs", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	resp := make([]RunResponse, 0, len(runs))
	for _, run := range runs {
		resp = append(resp, runResponse(run))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.store.GetRun(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, state.ErrRunNotFound) {
			status = http.StatusNotFound
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	diags, err := s.store.RunDiagnostics(r.Context(), run.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	resp := runResponse(run)
	resp.Diagnostics = diags
	writeJSON(w, http.StatusOK, resp)
}

// decodeSource reads a SourceRequest, writing a 400 response on failure.
func (s *Server) decodeSource(w http.ResponseWriter, r *http.Request) (SourceRequest, bool) {
	var req SourceRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSourceBytes))
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid request body: %v", err)})
		return req, false
	}
	if strings.TrimSpace(req.Path) == "" {
		req.Path = "<input>"
	}
	return req, true
}

func unitResponse(result *engine.Result) UnitResponse {
	resp := UnitResponse{
		Path:        result.Path,
		Diagnostics: output.Records(result.Source, result.Diagnostics),
		DurationMS:  float64(result.Duration.Microseconds()) / 1000,
	}
	if result.Unit != nil {
		resp.Tree = ast.Sprint(result.Unit)
	}
	if result.Module != nil {
		var sb strings.Builder
		if err := ir.Dump(&sb, result.Module); err == nil {
			resp.IR = sb.String()
		}
	}
	return resp
}

func runResponse(run *state.Run) RunResponse {
	return RunResponse{
		ID:         run.ID,
		Roots:      run.Roots,
		Status:     string(run.Status),
		StartedAt:  run.StartedAt,
		DurationMS: float64(run.Duration().Microseconds()) / 1000,
		Files:      run.Files,
		Errors:     run.Errors,
	}
}

func tokenRecord(src string, tok token.Token) TokenRecord {
	pos := diag.Locate(src, tok.Span.Start)
	rec := TokenRecord{
		Type:    tok.Type.String(),
		Literal: tok.Literal,
		Start:   tok.Span.Start,
		End:     tok.Span.End,
		Line:    pos.Line,
		Column:  pos.Column,
	}
	switch {
	case tok.Type == token.INT:
		rec.Value = tok.Int.String()
	case tok.Type == token.FLOAT:
		rec.Value = tok.Float.String()
	case tok.Type == token.STRING, token.IsComment(tok.Type):
		rec.Value = tok.Text
	}
	return rec
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
