package tabular

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ReadXLSX reads sheet from the workbook at path. An empty sheet name
// selects the first sheet.
func ReadXLSX(path, sheet string) (Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return Table{}, fmt.Errorf("workbook %s has no sheets", path)
		}
		sheet = sheets[0]
	}

	records, err := f.GetRows(sheet)
	if err != nil {
		return Table{}, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return fromRecords(path, sheet, records), nil
}
