package emit

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"examtally/internal/aggregate"
)

// XLSX writes a single-sheet workbook with every cell centered.
type XLSX struct {
	Labels Labels
	// Sheet defaults to "Sheet1".
	Sheet string
}

func (x *XLSX) Extension() string { return ".xlsx" }

func (x *XLSX) Emit(ctx context.Context, table aggregate.Table, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Sheet1"
	if x.Sheet != "" && x.Sheet != sheet {
		if err := f.SetSheetName(sheet, x.Sheet); err != nil {
			return fmt.Errorf("rename sheet: %w", err)
		}
		sheet = x.Sheet
	}

	header := x.Labels.Header(table)
	headerCells := make([]any, len(header))
	for i, h := range header {
		headerCells[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerCells); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, row := range table.Rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := x.Labels.Cells(row)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	style, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(header), len(table.Rows)+1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return fmt.Errorf("apply alignment: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}
