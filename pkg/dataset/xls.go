package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	xlsx "github.com/360EntSecGroup-Skylar/excelize/v2"
	"github.com/anrid/xls"
)

// ExtractRows feeds every row of f to handler. The format is picked from the
// file extension.
func ExtractRows(f *File, handler func(r []string)) error {
	switch strings.ToLower(f.ext()) {
	case ".xlsx":
		return ExtractDataFromXLSX(f, handler)
	case ".xls":
		return ExtractDataFromXLS(f, handler)
	case ".csv":
		return ExtractDataFromCSV(f, handler)
	}
	return fmt.Errorf("unsupported file type for '%s' (%s)", f.Title, f.Name)
}

func ExtractDataFromCSV(f *File, handler func(r []string)) error {
	Logger.Printf("Loading CSV data: %s\n", f.Name)

	r := csv.NewReader(bytes.NewReader(f.Content))
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return fmt.Errorf("could not read CSV file '%s' (%s): %w", f.Title, f.Name, err)
	}

	for _, row := range rows {
		handler(row)
	}
	return nil
}

func ExtractDataFromXLS(f *File, handler func(r []string)) error {
	Logger.Printf("Loading XLS data: %s\n", f.Name)

	wb, err := xls.OpenReader(bytes.NewReader(f.Content), "utf-8")
	if err != nil {
		return fmt.Errorf("could not read XLS file '%s' (%s): %w", f.Title, f.Name, err)
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return fmt.Errorf("XLS file '%s' (%s) has no sheets", f.Title, f.Name)
	}
	Logger.Printf("Sheet name : %s\n", sheet.Name)
	Logger.Printf("Sheet rows : %d\n", sheet.MaxRow)

	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row != nil {
			var cols []string
			for j := 0; j <= row.LastCol(); j++ {
				cols = append(cols, row.Col(j))
			}
			handler(cols)
		}
	}
	return nil
}

func ExtractDataFromXLSX(f *File, handler func(r []string)) error {
	Logger.Printf("Loading XLSX data: %s\n", f.Name)

	wb, err := xlsx.OpenReader(bytes.NewReader(f.Content))
	if err != nil {
		return fmt.Errorf("could not read XLSX file '%s' (%s): %w", f.Title, f.Name, err)
	}

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return fmt.Errorf("XLSX file '%s' (%s) has no sheets", f.Title, f.Name)
	}
	defaultSheet := sheets[0]

	rows, err := wb.GetRows(defaultSheet)
	if err != nil {
		return fmt.Errorf("could not get rows for default sheet '%s': %w", defaultSheet, err)
	}

	Logger.Printf("Sheet name : %s\n", defaultSheet)
	Logger.Printf("Sheet rows : %d\n", len(rows))

	for _, r := range rows {
		handler(r)
	}
	return nil
}
