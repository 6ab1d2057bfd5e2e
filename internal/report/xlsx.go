package report

import (
	"fmt"
	"io"
	"math"

	"github.com/xuri/excelize/v2"
)

// maxSheetName is the Excel limit on sheet name length
const maxSheetName = 31

// Workbook lays out each table on its own sheet with a bold header row.
func Workbook(tables []Table) (*excelize.File, error) {
	f := excelize.NewFile()

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		f.Close()
		return nil, err
	}

	for i, t := range tables {
		name := sheetName(t.Title, i)
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				f.Close()
				return nil, err
			}
		} else if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, err
		}
		if err := writeSheet(f, name, t, header); err != nil {
			f.Close()
			return nil, fmt.Errorf("sheet %s: %w", name, err)
		}
	}
	f.SetActiveSheet(0)
	return f, nil
}

func writeSheet(f *excelize.File, sheet string, t Table, headerStyle int) error {
	head := make([]any, len(t.Header))
	for i, h := range t.Header {
		head[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &head); err != nil {
		return err
	}
	if len(t.Header) > 0 {
		last, err := excelize.CoordinatesToCellName(len(t.Header), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
			return err
		}
		lastCol, _, err := excelize.SplitCellName(last)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, "A", lastCol, 16); err != nil {
			return err
		}
	}

	for r, row := range t.Rows {
		cells := make([]any, len(row))
		for c, v := range row {
			cells[c] = cellValue(v)
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return err
		}
	}
	return nil
}

// cellValue keeps numbers numeric and writes non-finite values as text
func cellValue(v any) any {
	if x, ok := v.(float64); ok && (math.IsInf(x, 0) || math.IsNaN(x)) {
		return formatCell(x)
	}
	return v
}

func sheetName(title string, i int) string {
	if title == "" {
		title = fmt.Sprintf("Sheet%d", i+1)
	}
	if len(title) > maxSheetName {
		title = title[:maxSheetName]
	}
	return title
}

// WriteWorkbook streams the tables as an XLSX document.
func WriteWorkbook(w io.Writer, tables []Table) error {
	f, err := Workbook(tables)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

// SaveWorkbook writes the tables to an XLSX file.
func SaveWorkbook(filename string, tables []Table) error {
	f, err := Workbook(tables)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(filename)
}
