package ir

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Dump writes a deterministic listing of m to w: imports, struct headers,
// function headers and every lowered body. Statements are printed as an
// indented tree with their handles; expressions as prefix forms.
func Dump(w io.Writer, m *Module) error {
	var sb strings.Builder
	d := &dumper{m: m, out: &sb}

	fmt.Fprintf(&sb, "module %s\n", m.Name)
	for _, u := range m.uses {
		fmt.Fprintf(&sb, "use %s\n", m.String(u))
	}
	for id, s := range m.structs.All() {
		fmt.Fprintf(&sb, "struct %s %s {%s}\n", id, m.String(s.Name), d.fields(s.Members))
	}
	for id, h := range m.functions.All() {
		kind := "fn"
		if h.Extern {
			kind = "extern fn"
		}
		fmt.Fprintf(&sb, "%s %s %s(%s)", kind, id, m.String(h.Name), d.fields(h.Params))
		if h.ReturnType.IsValid() {
			fmt.Fprintf(&sb, " -> %s", m.String(h.ReturnType))
		}
		sb.WriteByte('\n')
	}

	for _, id := range m.order {
		d.function(m.bodies[id])
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// DumpFunction writes the listing of a single lowered function.
func DumpFunction(w io.Writer, m *Module, fn *Function) error {
	var sb strings.Builder
	d := &dumper{m: m, out: &sb}
	d.function(fn)
	_, err := io.WriteString(w, sb.String())
	return err
}

type dumper struct {
	m   *Module
	fn  *Function
	out *strings.Builder
}

func (d *dumper) fields(fs []Field) string {
	parts := make([]string, len(fs))
	for i, f := range fs {
		parts[i] = d.m.String(f.Name) + ": " + d.m.String(f.Type)
	}
	return strings.Join(parts, ", ")
}

func (d *dumper) function(fn *Function) {
	d.fn = fn
	name := "<anonymous>"
	if fn.ID.IsValid() {
		name = d.m.String(d.m.GetFunction(fn.ID).Name)
	}
	fmt.Fprintf(d.out, "\nbody %s:\n", name)
	for id, v := range fn.vars.All() {
		fmt.Fprintf(d.out, "  var %s %s", id, d.m.String(v.Name))
		if v.Type.IsValid() {
			fmt.Fprintf(d.out, ": %s", d.m.String(v.Type))
		}
		if v.Param {
			d.out.WriteString(" param")
		}
		d.out.WriteByte('\n')
	}
	d.stmt(fn.Body, 1)
}

func (d *dumper) stmt(id StmtID, depth int) {
	s := d.fn.GetStmt(id)
	fmt.Fprintf(d.out, "%s%s ", strings.Repeat("  ", depth), id)

	switch k := s.Kind.(type) {
	case Empty:
		d.out.WriteString("empty\n")
	case Eval:
		fmt.Fprintf(d.out, "eval %s\n", d.expr(k.Expr))
	case VarDecl:
		fmt.Fprintf(d.out, "let %s", d.variable(k.Variable))
		if k.Init.IsValid() {
			fmt.Fprintf(d.out, " = %s", d.expr(k.Init))
		}
		d.out.WriteByte('\n')
	case Return:
		d.out.WriteString("return")
		if k.Value.IsValid() {
			fmt.Fprintf(d.out, " %s", d.expr(k.Value))
		}
		d.out.WriteByte('\n')
	case Break:
		d.out.WriteString("break\n")
	case Continue:
		d.out.WriteString("continue\n")
	case Use:
		fmt.Fprintf(d.out, "use %s\n", d.m.String(k.Path))
	case If:
		fmt.Fprintf(d.out, "if %s\n", d.expr(k.Cond))
		d.stmt(k.Then, depth+1)
		if k.Else.IsValid() {
			fmt.Fprintf(d.out, "%selse\n", strings.Repeat("  ", depth))
			d.stmt(k.Else, depth+1)
		}
	case While:
		fmt.Fprintf(d.out, "while %s\n", d.expr(k.Cond))
		d.stmt(k.Body, depth+1)
	case Block:
		d.out.WriteString("block\n")
		for _, child := range k.Stmts {
			d.stmt(child, depth+1)
		}
	}
}

func (d *dumper) variable(id VarID) string {
	return d.m.String(d.fn.GetVariable(id).Name) + id.String()
}

// expr renders an expression tree in prefix form, e.g. `(+ x#0 1)`.
func (d *dumper) expr(id ExprID) string {
	switch k := d.fn.GetExpr(id).Kind.(type) {
	case LoadLiteral:
		return d.literal(k.Literal)
	case LoadVariable:
		return d.variable(k.Variable)
	case LoadFunction:
		return "fn " + d.m.String(d.m.GetFunction(k.Function).Name)
	case Unresolved:
		return "?" + d.m.String(k.Name)
	case Binary:
		return fmt.Sprintf("(%s %s %s)", k.Op, d.expr(k.Left), d.expr(k.Right))
	case Unary:
		return fmt.Sprintf("(%s %s)", k.Op, d.expr(k.Operand))
	case Assign:
		op := "="
		if k.Op != 0 {
			op = k.Op.String() + "="
		}
		return fmt.Sprintf("(%s %s %s)", op, d.expr(k.Target), d.expr(k.Value))
	case Member:
		return fmt.Sprintf("(. %s %s)", d.expr(k.Owner), d.m.String(k.Name))
	case Index:
		return fmt.Sprintf("([] %s %s)", d.expr(k.Owner), d.expr(k.Index))
	case Call:
		parts := make([]string, 0, len(k.Args)+2)
		parts = append(parts, "call", d.expr(k.Callee))
		for _, a := range k.Args {
			parts = append(parts, d.expr(a))
		}
		return "(" + strings.Join(parts, " ") + ")"
	}
	return "<invalid>"
}

func (d *dumper) literal(lit Literal) string {
	switch lit.Kind {
	case LitInt:
		return lit.Int.String()
	case LitFloat:
		return lit.Float.String()
	case LitBool:
		return strconv.FormatBool(lit.Bool)
	case LitString:
		return strconv.Quote(d.m.String(lit.String))
	}
	return "<invalid>"
}
