package export

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

const (
	maxSheetNameLen = 31
	minColumnWidth  = 10.0
	maxColumnWidth  = 60.0
)

// RenderXLSX builds a single-sheet workbook with a bold header row
func RenderXLSX(t Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(t.Title)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#F3F0EA"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	widths := make([]float64, len(t.Columns))
	for col, key := range t.Columns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		label := Label(key)
		if err := f.SetCellValue(sheet, cell, label); err != nil {
			return nil, fmt.Errorf("set header %s: %w", cell, err)
		}
		widths[col] = float64(utf8.RuneCountInString(label))
	}
	if len(t.Columns) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(t.Columns), 1)
		if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
			return nil, fmt.Errorf("set header style: %w", err)
		}
	}

	for r, row := range t.Rows {
		cells := make([]any, len(row))
		for i, v := range row {
			cells[i] = v
			if i < len(widths) {
				if n := float64(utf8.RuneCountInString(v)); n > widths[i] {
					widths[i] = n
				}
			}
		}
		start, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, start, &cells); err != nil {
			return nil, fmt.Errorf("write row %d: %w", r+2, err)
		}
	}

	for i, w := range widths {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		width := w + 2
		if width < minColumnWidth {
			width = minColumnWidth
		} else if width > maxColumnWidth {
			width = maxColumnWidth
		}
		if err := f.SetColWidth(sheet, name, name, width); err != nil {
			return nil, err
		}
	}
	if err := f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return nil, fmt.Errorf("freeze header: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// sheetName trims a title to a valid worksheet name
func sheetName(title string) string {
	clean := make([]rune, 0, maxSheetNameLen)
	for _, r := range title {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			continue
		}
		clean = append(clean, r)
		if len(clean) == maxSheetNameLen {
			break
		}
	}
	if len(clean) == 0 {
		return "Export"
	}
	return string(clean)
}
