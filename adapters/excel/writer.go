package excel

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"annexval/domain/table"
	"annexval/ports"

	"github.com/xuri/excelize/v2"
)

// ExportSheet is the single sheet name of exported workbooks.
const ExportSheet = "Validated_Data"

// Writer serializes a dataset snapshot as an xlsx workbook: one sheet,
// header row, then the rows in order. Missing cells stay empty.
type Writer struct{}

// NewWriter creates a workbook writer.
func NewWriter() *Writer {
	return &Writer{}
}

var _ ports.Exporter = (*Writer)(nil)

// Export writes the snapshot to out. Export never inspects findings; the
// operator may download at any point in the session.
func (w *Writer) Export(ctx context.Context, data *table.Table, out io.Writer) error {
	startTime := time.Now()

	f, err := buildWorkbook(data)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	log.Printf("[ExcelWriter] Snapshot exported in %.2fms (%d columns, %d rows)",
		float64(time.Since(startTime).Nanoseconds())/1e6, data.NumColumns(), data.NumRows())
	return nil
}

// ExportFile is a file-path convenience for the CLI.
func (w *Writer) ExportFile(ctx context.Context, data *table.Table, path string) error {
	f, err := buildWorkbook(data)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func buildWorkbook(data *table.Table) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", ExportSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name export sheet: %w", err)
	}

	columns := data.Columns()
	for i, name := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(ExportSheet, cell, name); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write header %q: %w", name, err)
		}
	}

	for r := 0; r < data.NumRows(); r++ {
		row, err := data.Row(r)
		if err != nil {
			f.Close()
			return nil, err
		}
		for c, v := range row {
			if v.IsMissing {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(ExportSheet, cell, v.Export()); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to write cell %s: %w", cell, err)
			}
		}
	}

	return f, nil
}
