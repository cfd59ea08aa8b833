// Package export produces an XLSX workbook from an extraction record,
// one worksheet row per dotted field path.
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/patentlens/patentlens/internal/recovery"
	"github.com/patentlens/patentlens/internal/schema"
	"github.com/patentlens/patentlens/internal/shape"
)

const sheet = "Extraction"

// RecordXLSX flattens the record and writes it as a workbook. Each row
// holds the dotted path, the value, and the fixed field description when
// one exists for the path.
func RecordXLSX(rec recovery.Record) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	headers := []string{"Field Path", "Value", "Description"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}

	row := 2
	for _, pv := range shape.Flatten(rec) {
		write := func(col int, v any) error {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			return f.SetCellValue(sheet, cell, v)
		}
		if err := write(1, pv.Path); err != nil {
			return nil, fmt.Errorf("write row %d: %w", row, err)
		}
		if err := write(2, cellValue(pv.Value)); err != nil {
			return nil, fmt.Errorf("write row %d: %w", row, err)
		}
		if desc, ok := schema.FieldDescriptions[pv.Path]; ok {
			if err := write(3, desc); err != nil {
				return nil, fmt.Errorf("write row %d: %w", row, err)
			}
		}
		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 55)
	_ = f.SetColWidth(sheet, "B", "B", 60)
	_ = f.SetColWidth(sheet, "C", "C", 60)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func cellValue(v any) any {
	if v == nil {
		return ""
	}
	switch v.(type) {
	case string, float64, bool:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}
