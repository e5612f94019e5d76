// Package export serializes survey tables to spreadsheet files.
package export

import (
	"fmt"

	"github.com/KaramelBytes/conectividad/internal/dataset"
	"github.com/xuri/excelize/v2"
)

const (
	// FileName is the download name of the filtered export.
	FileName = "datos_filtrados.xlsx"
	// ContentType is the MIME type of an .xlsx workbook.
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	// SheetName is the single sheet of the workbook.
	SheetName = "Datos filtrados"
)

// XLSX writes t as a single-sheet workbook: the header row followed by every
// row in order. Numeric survey columns are stored as numbers when the cell
// parses; everything else is stored as text. An empty table yields a header
// row only.
func XLSX(t *dataset.Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}
	var header []string
	var rows []dataset.Row
	if t != nil {
		header, rows = t.Header, t.Rows
	}
	if len(header) == 0 {
		header = dataset.RequiredColumns
	}

	hdr := make([]interface{}, len(header))
	numeric := make([]bool, len(header))
	for i, h := range header {
		hdr[i] = h
		numeric[i] = dataset.IsNumericColumn(h)
	}
	if err := f.SetSheetRow(SheetName, "A1", &hdr); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	if err := styleHeader(f, len(header)); err != nil {
		return nil, err
	}

	for i, r := range rows {
		vals := make([]interface{}, len(header))
		for j := range header {
			var cell string
			if j < len(r.Cells) {
				cell = r.Cells[j]
			}
			vals[j] = cell
			if numeric[j] {
				if v, ok := dataset.ParseNumber(cell); ok {
					vals[j] = v
				}
			}
		}
		addr, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		if err := f.SetSheetRow(SheetName, addr, &vals); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func styleHeader(f *excelize.File, ncol int) error {
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(ncol, 1)
	if err != nil {
		return fmt.Errorf("header range: %w", err)
	}
	if err := f.SetCellStyle(SheetName, "A1", last, style); err != nil {
		return fmt.Errorf("apply header style: %w", err)
	}
	lastCol, err := excelize.ColumnNumberToName(ncol)
	if err != nil {
		return fmt.Errorf("header range: %w", err)
	}
	if err := f.SetColWidth(SheetName, "A", lastCol, 18); err != nil {
		return fmt.Errorf("column width: %w", err)
	}
	return nil
}
