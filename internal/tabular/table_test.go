package tabular

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, path, sheet string, rows [][]any) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			t.Fatalf("rename sheet: %v", err)
		}
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		values := row
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			t.Fatalf("set row %d: %v", i+1, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
}

func TestReadXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank.xlsx")
	writeWorkbook(t, path, "题库", [][]any{
		{"题型", "试题题目", "A", "B", "答案"},
		{"单选题", "What is 2+2?", "3", "4", "B"},
		{"", "", "", "", ""},
		{"判断题", "Water is wet", "", "", "正确"},
		{"多选题", "Pick primes"},
	})

	table, err := Read(path, "")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if table.Sheet != "题库" {
		t.Fatalf("expected first sheet to be selected, got %q", table.Sheet)
	}
	if len(table.Header) != 5 {
		t.Fatalf("unexpected header: %v", table.Header)
	}
	if len(table.Rows) != 3 {
		t.Fatalf("expected blank row to be skipped, got %d rows", len(table.Rows))
	}
	if table.Rows[0].Number != 2 || table.Rows[1].Number != 4 || table.Rows[2].Number != 5 {
		t.Fatalf("unexpected row numbers: %d %d %d", table.Rows[0].Number, table.Rows[1].Number, table.Rows[2].Number)
	}
	if got := table.Rows[0].Cell(3); got != "4" {
		t.Fatalf("unexpected cell value %q", got)
	}
	if got := len(table.Rows[2].Cells); got != 5 {
		t.Fatalf("expected short row padded to header width, got %d cells", got)
	}
	if idx, ok := table.ColumnIndex(" 答案 "); !ok || idx != 4 {
		t.Fatalf("ColumnIndex(答案) = %d, %v", idx, ok)
	}
	if _, ok := table.ColumnIndex("missing"); ok {
		t.Fatal("expected missing column lookup to fail")
	}
}

func TestReadXLSXNamedSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank.xlsx")
	writeWorkbook(t, path, "Sheet1", [][]any{{"题型"}, {"单选题"}})

	if _, err := ReadXLSX(path, "nope"); err == nil {
		t.Fatal("expected error for unknown sheet")
	}
	table, err := ReadXLSX(path, "Sheet1")
	if err != nil {
		t.Fatalf("ReadXLSX: %v", err)
	}
	if len(table.Rows) != 1 {
		t.Fatalf("unexpected rows: %+v", table.Rows)
	}
}

func TestReadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank.csv")
	content := "\ufeff题型,试题题目,答案\n单选题,\"What is 2+2?\nsecond line\",B\n,,\n判断题,Short\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	table, err := Read(path, "")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if table.Header[0] != "题型" {
		t.Fatalf("expected BOM to be stripped, got %q", table.Header[0])
	}
	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(table.Rows))
	}
	if got := table.Rows[0].Cell(1); got != "What is 2+2?\nsecond line" {
		t.Fatalf("unexpected multi-line cell %q", got)
	}
	if got := table.Rows[1].Cell(2); got != "" {
		t.Fatalf("expected padded cell, got %q", got)
	}
	if got := table.Rows[1].Cell(99); got != "" {
		t.Fatalf("out of range cell should be empty, got %q", got)
	}
}

func TestReadUnsupportedExtension(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "bank.ods"), "")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}
