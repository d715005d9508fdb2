package tabular

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

const utf8BOM = "\ufeff"

// ReadCSV reads a comma-separated file. Rows may have differing widths;
// a leading UTF-8 byte order mark (common in spreadsheet exports) is removed.
func ReadCSV(path string) (Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return Table{}, fmt.Errorf("open csv: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	records, err := reader.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) > 0 && len(records[0]) > 0 {
		records[0][0] = strings.TrimPrefix(records[0][0], utf8BOM)
	}
	return fromRecords(path, "", records), nil
}
