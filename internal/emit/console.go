package emit

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"examtally/internal/aggregate"
)

// Preview renders a compact view of the table: type, question, one column
// per transcript, and the rate. Question text is truncated to textWidth
// runes when textWidth > 0.
func Preview(w io.Writer, t aggregate.Table, labels Labels, textWidth int) error {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := table.Row{labels.Type, labels.Text}
	for _, col := range t.Columns {
		header = append(header, col.Label())
	}
	header = append(header, labels.Rate)
	tw.AppendHeader(header)

	for _, row := range t.Rows {
		r := table.Row{labels.TypeName(row.Question.Type), row.Question.Text}
		for _, cell := range row.Cells {
			if cell.Set {
				r = append(r, strconv.FormatFloat(cell.Value, 'f', -1, 64))
			} else {
				r = append(r, "")
			}
		}
		r = append(r, row.Percent)
		tw.AppendRow(r)
	}

	columns := len(header)
	configs := make([]table.ColumnConfig, 0, columns)
	for i := 1; i <= columns; i++ {
		cfg := table.ColumnConfig{Number: i, Align: text.AlignCenter, AlignHeader: text.AlignCenter}
		if i == 2 {
			cfg.Align = text.AlignLeft
			cfg.WidthMax = textWidth
			cfg.WidthMaxEnforcer = text.Trim
		}
		configs = append(configs, cfg)
	}
	tw.SetColumnConfigs(configs)

	_, err := fmt.Fprintln(w, tw.Render())
	return err
}
