package output

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Table renders rows under header. Text mode draws a light box, markdown
// mode a pipe table and structured modes a list of objects keyed by header.
func (r *Renderer) Table(header []string, rows [][]string) error {
	if r.Structured() {
		records := make([]map[string]string, len(rows))
		for i, row := range rows {
			rec := make(map[string]string, len(header))
			for j, col := range header {
				if j < len(row) {
					rec[col] = row[j]
				}
			}
			records[i] = rec
		}
		return r.Data(records)
	}

	if len(rows) == 0 {
		_, _ = fmt.Fprintln(r.out, "(0 rows)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)

	headerRow := make(table.Row, len(header))
	for i, col := range header {
		headerRow[i] = col
	}
	t.AppendHeader(headerRow)

	for _, row := range rows {
		tr := make(table.Row, len(row))
		for i, v := range row {
			tr[i] = v
		}
		t.AppendRow(tr)
	}

	if r.EffectiveMode() == ModeMarkdown {
		t.RenderMarkdown()
		_, _ = fmt.Fprintln(r.out)
		return nil
	}
	t.SetStyle(table.StyleLight)
	t.Render()
	return nil
}
