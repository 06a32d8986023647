// Package engine drives the front-end pipeline over source files.
// It owns the error policy, runs lexing, parsing and lowering for each unit
// and compiles independent units in parallel.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/leapstack-labs/haiku/pkg/ast"
	"github.com/leapstack-labs/haiku/pkg/diag"
	"github.com/leapstack-labs/haiku/pkg/ir"
	"github.com/leapstack-labs/haiku/pkg/lexer"
	"github.com/leapstack-labs/haiku/pkg/parser"
	"github.com/leapstack-labs/haiku/pkg/token"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// ErrorPolicy selects how many errors a unit may report before it stops.
type ErrorPolicy string

// Error policies.
const (
	PolicyCollect  ErrorPolicy = "collect"
	PolicyFailFast ErrorPolicy = "fail-fast"
)

// ParsePolicy validates a policy name.
func ParsePolicy(s string) (ErrorPolicy, error) {
	switch p := ErrorPolicy(s); p {
	case PolicyCollect, PolicyFailFast:
		return p, nil
	case "":
		return PolicyCollect, nil
	}
	return "", fmt.Errorf("unknown error policy %q (want %s or %s)", s, PolicyCollect, PolicyFailFast)
}

// DefaultExtensions lists the file extensions Discover picks up.
var DefaultExtensions = []string{".hk"}

// Config holds engine configuration.
type Config struct {
	// Policy is the error policy applied to every unit.
	Policy ErrorPolicy
	// MaxErrors caps errors per unit under PolicyCollect. Zero is unlimited.
	MaxErrors int
	// Extensions are the source file extensions used by Discover.
	Extensions []string
	// Workers bounds parallel compilation. Zero uses GOMAXPROCS.
	Workers int
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// Engine compiles source units to IR.
type Engine struct {
	logger     *slog.Logger
	policy     ErrorPolicy
	maxErrors  int
	extensions []string
	workers    int
}

// New creates an engine.
func New(cfg Config) (*Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	policy, err := ParsePolicy(string(cfg.Policy))
	if err != nil {
		return nil, err
	}
	if cfg.MaxErrors < 0 {
		return nil, fmt.Errorf("max errors must not be negative, got %d", cfg.MaxErrors)
	}

	extensions := cfg.Extensions
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	logger.Debug("initializing engine", "policy", policy, "max_errors", cfg.MaxErrors, "workers", workers)

	return &Engine{
		logger:     logger,
		policy:     policy,
		maxErrors:  cfg.MaxErrors,
		extensions: extensions,
		workers:    workers,
	}, nil
}

// Policy returns the engine's error policy.
func (e *Engine) Policy() ErrorPolicy {
	return e.policy
}

// NewReporter returns a fresh collector configured for the engine's policy.
func (e *Engine) NewReporter() *diag.Collector {
	if e.policy == PolicyFailFast {
		return diag.NewFailFast()
	}
	return diag.NewCollector(e.maxErrors)
}

// Result is the outcome of compiling one unit.
type Result struct {
	Path        string
	Source      string
	Unit        *ast.CompilationUnit // nil if parsing stopped early
	Stmts       []ast.Stmt           // set by ParseStmts instead of Unit
	Module      *ir.Module           // nil if the unit had syntax errors
	Diagnostics []*diag.Diagnostic
	Duration    time.Duration
}

// HasErrors returns true if any error diagnostic was reported.
func (r *Result) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.IsError() {
			return true
		}
	}
	return false
}

// Err combines the unit's error diagnostics.
func (r *Result) Err() error {
	var err error
	for _, d := range r.Diagnostics {
		if d.IsError() {
			err = multierr.Append(err, d)
		}
	}
	return err
}

// Tokenize lexes src completely. Lexical errors are returned as diagnostics;
// the token list continues past them.
func (e *Engine) Tokenize(path, src string) ([]token.Token, []*diag.Diagnostic) {
	tokens, errs := lexer.Tokenize(src)
	diags := make([]*diag.Diagnostic, len(errs))
	for i, err := range errs {
		d := diag.Wrap(diag.KindLexical, err.Span, err)
		d.Path = path
		diags[i] = d
	}
	return tokens, diags
}

// Parse parses src without lowering it.
func (e *Engine) Parse(ctx context.Context, path, src string) *Result {
	return e.compile(ctx, path, src, false)
}

// ParseStmts parses src as a statement list outside any function. Nothing
// is lowered.
func (e *Engine) ParseStmts(ctx context.Context, path, src string) *Result {
	result := &Result{Path: path, Source: src}
	if ctx.Err() != nil {
		return result
	}
	start := time.Now()
	collector := e.NewReporter()
	p := parser.New(src, parser.Config{
		Path:     path,
		Reporter: collector,
		Logger:   e.logger,
	})
	result.Stmts, _ = p.ParseStmts()
	result.Diagnostics = collector.Diagnostics()
	result.Duration = time.Since(start)
	return result
}

// Compile parses and lowers src. Lowering only runs when parsing reported
// no errors.
func (e *Engine) Compile(ctx context.Context, path, src string) *Result {
	return e.compile(ctx, path, src, true)
}

func (e *Engine) compile(ctx context.Context, path, src string, lower bool) *Result {
	start := time.Now()
	result := &Result{Path: path, Source: src}
	collector := e.NewReporter()
	defer func() {
		result.Diagnostics = collector.Diagnostics()
		result.Duration = time.Since(start)
		e.logger.Debug("compiled unit",
			"path", path,
			"diagnostics", len(result.Diagnostics),
			"duration", result.Duration)
	}()

	if ctx.Err() != nil {
		return result
	}

	p := parser.New(src, parser.Config{
		Path:     path,
		Reporter: collector,
		Logger:   e.logger,
	})
	unit, _ := p.ParseUnit()
	result.Unit = unit
	if !lower || collector.HasErrors() || ctx.Err() != nil {
		return result
	}

	module, err := ir.Lower(unit, ir.Config{Reporter: collector, Logger: e.logger})
	if err != nil {
		e.logger.Debug("lowering reported errors", "path", path, "error", err)
	}
	result.Module = module
	return result
}

// CompileFile reads and compiles one file.
func (e *Engine) CompileFile(ctx context.Context, path string) (*Result, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the user
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return e.Compile(ctx, path, string(data)), nil
}

// CompileFiles compiles every path in parallel. Each unit gets its own
// reporter and module. Results are returned in the order of paths. The error
// is non-nil only if a file could not be read or ctx was cancelled; source
// errors are reported through each Result.
func (e *Engine) CompileFiles(ctx context.Context, paths []string) ([]*Result, error) {
	results := make([]*Result, len(paths))

	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(e.workers)
	for i, path := range paths {
		eg.Go(func() error {
			r, err := e.CompileFile(egctx, path)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.logger.Debug("compiled files", "count", len(paths))
	return results, nil
}
