// Package ir lowers syntax trees into a flat, arena-addressed intermediate
// representation.
//
// A Module owns the state shared by all functions of one compilation unit:
// the string interner, the function table and the function headers. Each
// lowered Function owns arenas for its expressions, statements and
// variables; nodes refer to each other by handle, never by pointer.
//
// Lowering runs in two passes. PreScan registers every top-level function so
// bodies can call functions declared later in the file; LowerFunction then
// lowers one body at a time.
package ir

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/haiku/pkg/ast"
	"github.com/leapstack-labs/haiku/pkg/diag"
	"github.com/leapstack-labs/haiku/pkg/token"
)

// ErrLower is wrapped by errors returned when lowering reported at least one
// error diagnostic.
var ErrLower = errors.New("lowering failed")

// Config holds lowering settings. The zero value is usable.
type Config struct {
	Reporter diag.Reporter // receives diagnostics; defaults to diag.Discard
	Logger   *slog.Logger  // defaults to a discarding logger
}

// Field is a named, typed slot: a parameter or a struct member.
type Field struct {
	Name StringID
	Type StringID
	Span token.Span
}

// FunctionHeader describes a function known to the module.
type FunctionHeader struct {
	Name       StringID
	Span       token.Span
	Params     []Field
	ReturnType StringID // invalid when omitted
	Extern     bool
}

// StructHeader describes a struct declared in the module.
type StructHeader struct {
	Name    StringID
	Span    token.Span
	Members []Field
}

// Module is the lowering context of one compilation unit.
type Module struct {
	Name string

	strings     Interner[string]
	functions   Arena[FunctionHeader]
	funcTable   *SymbolTable[StringID, FuncID]
	structs     Arena[StructHeader]
	structTable *SymbolTable[StringID, StructID]
	uses        []StringID
	bodies      map[FuncID]*Function
	order       []FuncID

	reporter *diag.Counter
	logger   *slog.Logger
	path     string
}

// NewModule creates an empty module. path is used in diagnostics.
func NewModule(name, path string, cfg Config) *Module {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	reporter := cfg.Reporter
	if reporter == nil {
		reporter = diag.Discard
	}
	return &Module{
		Name:        name,
		funcTable:   NewSymbolTable[StringID, FuncID](),
		structTable: NewSymbolTable[StringID, StructID](),
		bodies:      make(map[FuncID]*Function),
		reporter:    &diag.Counter{Reporter: reporter},
		logger:      logger,
		path:        path,
	}
}

// Lower builds a module from a parsed unit: PreScan followed by
// LowerFunction for every function definition.
func Lower(unit *ast.CompilationUnit, cfg Config) (*Module, error) {
	m := NewModule(unit.Name, unit.Path, cfg)
	return m, m.LowerUnit(unit)
}

// ---------- Strings ----------

// Intern returns the handle for s.
func (m *Module) Intern(s string) StringID {
	return m.strings.Intern(s)
}

// String returns the interned string for id.
func (m *Module) String(id StringID) string {
	return m.strings.Get(id)
}

// ---------- Functions and Structs ----------

// GetFunction returns the header for id.
func (m *Module) GetFunction(id FuncID) FunctionHeader {
	return m.functions.Get(id)
}

// LookupFunction finds a function by name.
func (m *Module) LookupFunction(name string) (FuncID, bool) {
	id, ok := m.strings.Lookup(name)
	if !ok {
		return 0, false
	}
	return m.funcTable.Lookup(id)
}

// Functions returns every registered function header in declaration order.
func (m *Module) Functions() []FuncID {
	ids := make([]FuncID, 0, m.functions.Len())
	for id := range m.functions.All() {
		ids = append(ids, id)
	}
	return ids
}

// Body returns the lowered body of a function, if it has been lowered.
func (m *Module) Body(id FuncID) (*Function, bool) {
	fn, ok := m.bodies[id]
	return fn, ok
}

// Bodies returns every lowered function in lowering order.
func (m *Module) Bodies() []*Function {
	out := make([]*Function, len(m.order))
	for i, id := range m.order {
		out[i] = m.bodies[id]
	}
	return out
}

// GetStruct returns the header for id.
func (m *Module) GetStruct(id StructID) StructHeader {
	return m.structs.Get(id)
}

// LookupStruct finds a struct by name.
func (m *Module) LookupStruct(name string) (StructID, bool) {
	id, ok := m.strings.Lookup(name)
	if !ok {
		return 0, false
	}
	return m.structTable.Lookup(id)
}

// Structs returns every struct header in declaration order.
func (m *Module) Structs() []StructID {
	ids := make([]StructID, 0, m.structs.Len())
	for id := range m.structs.All() {
		ids = append(ids, id)
	}
	return ids
}

// Uses returns the module paths imported at top level.
func (m *Module) Uses() []StringID {
	return m.uses
}

// ErrorCount returns the number of error diagnostics reported so far.
func (m *Module) ErrorCount() int {
	return m.reporter.Errors
}

// ---------- Passes ----------

// PreScan registers the top-level declarations of unit: function and
// extern function headers, struct headers and use paths. A function name
// declared twice is reported and the later declaration is ignored.
func (m *Module) PreScan(unit *ast.CompilationUnit) error {
	before := m.reporter.Errors
	for _, decl := range unit.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			m.declareFunction(&d.Signature, d.Span, false)
		case *ast.ExternFuncDecl:
			m.declareFunction(&d.Signature, d.Span, true)
		case *ast.StructDecl:
			m.declareStruct(d)
		case *ast.UseDecl:
			m.uses = append(m.uses, m.Intern(d.Path.String()))
		}
	}
	return m.failed(before, "pre-scan")
}

// LowerUnit runs PreScan and lowers every function definition of unit. It
// keeps going after a failing function so all diagnostics are reported,
// unless the reporter asks to stop.
func (m *Module) LowerUnit(unit *ast.CompilationUnit) error {
	before := m.reporter.Errors
	_ = m.PreScan(unit)
	for _, decl := range unit.Decls {
		if m.reporter.Stopped {
			break
		}
		if fn, ok := decl.(*ast.FuncDecl); ok {
			_, _ = m.LowerFunction(fn)
		}
	}
	m.logger.Debug("lowered unit",
		slog.String("module", m.Name),
		slog.Int("functions", len(m.order)),
		slog.Int("errors", m.reporter.Errors-before))
	return m.failed(before, "unit "+m.Name)
}

func (m *Module) declareFunction(sig *ast.Signature, span token.Span, extern bool) FuncID {
	header := FunctionHeader{
		Name:   m.Intern(sig.Name.Name),
		Span:   span,
		Extern: extern,
		Params: m.fields(sig.Params),
	}
	if sig.ReturnType != nil {
		header.ReturnType = m.Intern(sig.ReturnType.String())
	}

	if prev, ok := m.funcTable.LookupLocal(header.Name); ok {
		m.duplicatef(sig.Name.Span, "function `%s` is already declared at %s",
			sig.Name.Name, spanString(m.functions.Get(prev).Span))
		return 0
	}
	id := m.functions.Alloc(header)
	_ = m.funcTable.Declare(header.Name, id)
	return id
}

func (m *Module) declareStruct(d *ast.StructDecl) {
	header := StructHeader{
		Name:    m.Intern(d.Name.Name),
		Span:    d.Span,
		Members: m.fields(d.Members),
	}
	seen := make(map[StringID]bool, len(header.Members))
	for i, f := range header.Members {
		if seen[f.Name] {
			m.duplicatef(d.Members[i].Name.Span, "member `%s` is already declared in struct `%s`",
				d.Members[i].Name.Name, d.Name.Name)
		}
		seen[f.Name] = true
	}

	if prev, ok := m.structTable.LookupLocal(header.Name); ok {
		m.duplicatef(d.Name.Span, "struct `%s` is already declared at %s",
			d.Name.Name, spanString(m.structs.Get(prev).Span))
		return
	}
	id := m.structs.Alloc(header)
	_ = m.structTable.Declare(header.Name, id)
}

func (m *Module) fields(in []*ast.Field) []Field {
	out := make([]Field, len(in))
	for i, f := range in {
		out[i] = Field{Name: m.Intern(f.Name.Name), Type: m.Intern(f.Type.String()), Span: f.Span}
	}
	return out
}

// duplicatef reports a duplicate declaration. The diagnostic wraps
// ErrDuplicateSymbol.
func (m *Module) duplicatef(span token.Span, format string, args ...any) {
	d := diag.New(diag.KindLowering, span, format, args...)
	d.Path = m.path
	d.Cause = ErrDuplicateSymbol
	m.reporter.Report(d)
}

// failed returns an error if errors were reported since before.
func (m *Module) failed(before int, what string) error {
	if n := m.reporter.Errors - before; n > 0 {
		return fmt.Errorf("%w: %s: %d error(s)", ErrLower, what, n)
	}
	return nil
}
