package tables

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

const maxSheetName = 31

type Sheet struct {
	Name    string
	Records [][]string
}

// WriteWorkbook writes one worksheet per sheet, in order.
func WriteWorkbook(w io.Writer, sheets []Sheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("workbook needs at least one sheet")
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		name := sheetName(sheet.Name)
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return err
		}

		for r, record := range sheet.Records {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				return err
			}
			row := make([]interface{}, len(record))
			for c, v := range record {
				row[c] = v
			}
			if err := f.SetSheetRow(name, cell, &row); err != nil {
				return fmt.Errorf("sheet %s row %d: %w", name, r+1, err)
			}
		}
	}

	_, err := f.WriteTo(w)
	return err
}

func WriteWorkbookFile(path string, sheets []Sheet) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteWorkbook(out, sheets); err != nil {
		out.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return out.Close()
}

func sheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, name)
	if len(name) > maxSheetName {
		name = name[:maxSheetName]
	}
	if name == "" {
		name = "Sheet"
	}
	return name
}
