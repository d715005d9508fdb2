package emit

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"examtally/internal/aggregate"
)

// CSV writes the table as UTF-8 comma-separated values with a byte order
// mark so spreadsheet applications detect the encoding.
type CSV struct {
	Labels Labels
}

func (c *CSV) Extension() string { return ".csv" }

func (c *CSV) Emit(ctx context.Context, table aggregate.Table, path string) (err error) {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	if _, err := file.WriteString("\ufeff"); err != nil {
		return err
	}
	w := csv.NewWriter(file)
	if err := w.Write(c.Labels.Header(table)); err != nil {
		return err
	}
	for _, row := range table.Rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		values := c.Labels.Cells(row)
		record := make([]string, len(values))
		for i, v := range values {
			record[i] = csvValue(v)
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func csvValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}
