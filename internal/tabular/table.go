package tabular

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned for file extensions with no reader.
var ErrUnsupportedFormat = errors.New("unsupported table format")

// Row is one data row with its 1-based row number in the source file.
type Row struct {
	Number int
	Cells  []string
}

// Cell returns the cell at idx, or "" when the row is shorter.
func (r Row) Cell(idx int) string {
	if idx < 0 || idx >= len(r.Cells) {
		return ""
	}
	return r.Cells[idx]
}

// Table is a header row followed by data rows.
type Table struct {
	Source string
	Sheet  string
	Header []string
	Rows   []Row
}

// ColumnIndex returns the position of the header named name. Header cells
// are compared after trimming surrounding whitespace.
func (t Table) ColumnIndex(name string) (int, bool) {
	name = strings.TrimSpace(name)
	for i, h := range t.Header {
		if strings.TrimSpace(h) == name {
			return i, true
		}
	}
	return -1, false
}

// Read dispatches on the file extension.
func Read(path, sheet string) (Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return ReadXLSX(path, sheet)
	case ".csv":
		return ReadCSV(path)
	default:
		return Table{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// fromRecords turns raw records into a Table. Header is records[0]; data
// rows are padded to the header width and blank rows are dropped.
func fromRecords(source, sheet string, records [][]string) Table {
	t := Table{Source: source, Sheet: sheet}
	if len(records) == 0 {
		return t
	}
	t.Header = append([]string(nil), records[0]...)
	for i, record := range records[1:] {
		if isBlank(record) {
			continue
		}
		cells := append([]string(nil), record...)
		for len(cells) < len(t.Header) {
			cells = append(cells, "")
		}
		t.Rows = append(t.Rows, Row{Number: i + 2, Cells: cells})
	}
	return t
}

func isBlank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
