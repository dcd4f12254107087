package spreadsheet

import (
	"bytes"
	"fmt"

	extxls "github.com/extrame/xls"
	shxls "github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"
)

// ConvertLegacy turns the bytes of a legacy .xls workbook into an in-memory
// modern workbook holding the first sheet.
//
// Readers are tried in order:
//  1. extrame/xls with the given charset
//  2. shakinm/xlsReader
//  3. excelize, for .xls files that are really xlsx packages
//
// Both legacy readers can panic on damaged input, so each attempt runs
// behind recover.
func ConvertLegacy(data []byte, charset string) (*excelize.File, error) {
	if charset == "" {
		charset = "utf-8"
	}

	rows, primaryErr := readExtrame(data, charset)
	if primaryErr != nil {
		var fallbackErr error
		rows, fallbackErr = readShakinm(data)
		if fallbackErr != nil {
			if f, err := excelize.OpenReader(bytes.NewReader(data)); err == nil {
				return f, nil
			}
			return nil, fmt.Errorf("%w: %v; %v", ErrConversion, primaryErr, fallbackErr)
		}
	}

	f, err := FromRows(rows)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConversion, err)
	}
	return f, nil
}

func readExtrame(data []byte, charset string) (rows [][]string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("xls reader panic: %v", r)
		}
	}()

	book, err := extxls.OpenReader(bytes.NewReader(data), charset)
	if err != nil {
		return nil, fmt.Errorf("error opening XLS file: %w", err)
	}
	if book.NumSheets() == 0 {
		return nil, fmt.Errorf("no sheets found in XLS file")
	}

	sheet := book.GetSheet(0)
	if sheet == nil {
		return nil, fmt.Errorf("could not get first sheet")
	}

	// MaxRow is the index of the last row. Missing rows stay empty so that
	// positions match the source sheet.
	maxRow := int(sheet.MaxRow)
	rows = make([][]string, 0, maxRow+1)
	for i := 0; i <= maxRow; i++ {
		row := sheet.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}

		cells := make([]string, 0, row.LastCol())
		for col := 0; col < row.LastCol(); col++ {
			cells = append(cells, row.Col(col))
		}
		rows = append(rows, cells)
	}

	return rows, nil
}

func readShakinm(data []byte) (rows [][]string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("xls reader panic: %v", r)
		}
	}()

	book, err := shxls.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("error opening XLS file: %w", err)
	}
	if len(book.GetSheets()) == 0 {
		return nil, fmt.Errorf("no sheets found in XLS file")
	}

	sheet, err := book.GetSheet(0)
	if err != nil || sheet == nil {
		return nil, fmt.Errorf("could not get first sheet: %v", err)
	}

	for _, row := range sheet.GetRows() {
		var cells []string
		for _, cell := range row.GetCols() {
			cells = append(cells, cell.GetString())
		}
		rows = append(rows, cells)
	}

	return rows, nil
}
