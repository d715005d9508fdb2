// Package aggregate combines per-transcript scores into one row per bank
// question.
package aggregate

import (
	"fmt"

	"examtally/internal/bank"
	"examtally/internal/reconcile"
	"examtally/internal/transcript"
)

// Column identifies one transcript in the table.
type Column struct {
	Source string
	Name   string
	Total  float64
}

// Label is the column heading: the student name and total score.
func (c Column) Label() string {
	return ColumnLabel(c.Name, c.Total)
}

// Row is one bank question with a cell per transcript.
type Row struct {
	Question bank.Question
	Cells    []reconcile.Score
	// Positive counts cells holding a score greater than zero.
	Positive int
	// Rate is Positive divided by the transcript count, 0 with no transcripts.
	Rate    float64
	Percent string
}

// Table is the aggregate handed to an emitter.
type Table struct {
	Columns []Column
	Rows    []Row
}

// Build produces rows for every bank question: single choice, then multiple
// choice, then true/false, each in bucket order.
func Build(b *bank.Bank, results []*transcript.Result) Table {
	table := Table{
		Columns: make([]Column, len(results)),
		Rows:    make([]Row, 0, b.Total()),
	}
	for i, r := range results {
		table.Columns[i] = Column{Source: r.Source, Name: r.StudentName, Total: r.TotalScore}
	}

	for _, t := range bank.Types {
		for _, q := range b.Questions(t) {
			ref := bank.Ref{Type: t, Index: q.Index}
			row := Row{Question: q, Cells: make([]reconcile.Score, len(results))}
			for i, r := range results {
				cell := r.Scores.Get(ref)
				row.Cells[i] = cell
				if cell.Set && cell.Value > 0 {
					row.Positive++
				}
			}
			if len(results) > 0 {
				row.Rate = float64(row.Positive) / float64(len(results))
			}
			row.Percent = FormatPercent(row.Rate)
			table.Rows = append(table.Rows, row)
		}
	}
	return table
}

// FormatPercent renders rate as a whole percentage, rounding halves to even.
func FormatPercent(rate float64) string {
	return fmt.Sprintf("%.0f%%", rate*100)
}

// ColumnLabel formats a transcript heading as name/total.
func ColumnLabel(name string, total float64) string {
	return fmt.Sprintf("%s/%.1f", name, total)
}
