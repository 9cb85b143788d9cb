package dataset

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// LoadXLSX reads sheet from an Excel workbook, using the first row as the
// header. An empty sheet name selects the first sheet.
func LoadXLSX(path, sheet string) ([]Row, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: open workbook %s: %w", path, err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("dataset: workbook %s has no sheets", path)
		}
		sheet = sheets[0]
	}

	cells, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("dataset: read sheet %q of %s: %w", sheet, path, err)
	}
	if len(cells) == 0 {
		return nil, fmt.Errorf("dataset: sheet %q of %s is empty", sheet, path)
	}

	header := cleanHeader(cells[0])
	rows := make([]Row, 0, len(cells)-1)
	for _, rec := range cells[1:] {
		if len(rec) == 0 {
			continue
		}
		rows = append(rows, zipRow(header, rec))
	}
	return rows, nil
}
