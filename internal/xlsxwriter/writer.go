// =============================================================================
// BRIVA Splitter - XLSX Writer Module
// =============================================================================
//
// This module generates the consolidated output workbook.
//
// WORKBOOK STRUCTURE:
//
//   | Sheet        | Present when           | Content                          |
//   |--------------|------------------------|----------------------------------|
//   | BRIVA_MATCH  | at least one match     | matched rows, remark = BRIVA     |
//   | LAIN-LAIN    | at least one other row | every other row, remark as-is    |
//   | PREFIX_LIST  | always                 | the prefix reference table       |
//
//   Row sheets have the columns:
//     date | time | remark | debit | credit | TYPE | SOURCE_FILE
//   The first five headers are the source column names of the first file that
//   contributed rows to that sheet.
//
// =============================================================================

package xlsxwriter

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/briva-splitter/internal/statement"
)

// Sheet names of the output workbook.
const (
	SheetMatched  = "BRIVA_MATCH"
	SheetOther    = "LAIN-LAIN"
	SheetPrefixes = "PREFIX_LIST"
)

// Derived column headers.
const (
	ColumnType       = "TYPE"
	ColumnSourceFile = "SOURCE_FILE"
)

// =============================================================================
// OUTPUT STRUCTURE
// =============================================================================

// Output is everything written to the consolidated workbook.
type Output struct {
	Matched []statement.Record
	Other   []statement.Record

	// MatchedColumns and OtherColumns are the five semantic column names
	// used as headers of the row sheets.
	MatchedColumns []string
	OtherColumns   []string

	// Labels are the TYPE column values.
	Labels statement.Labels

	// ReferenceColumns and ReferenceRows are the PREFIX_LIST content.
	ReferenceColumns []string
	ReferenceRows    [][]string
}

// =============================================================================
// GENERATION FUNCTIONS
// =============================================================================

// Generate builds the output workbook.
//
// RETURNS:
//   - The workbook. The caller must Close it.
//   - An error if a sheet cannot be written.
func Generate(out Output) (*excelize.File, error) {
	f := excelize.NewFile()

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	w := &sheetWriter{file: f, headerStyle: headerStyle}

	if len(out.Matched) > 0 {
		w.writeRecords(SheetMatched, out.MatchedColumns, out.Matched, out.Labels)
	}
	if len(out.Other) > 0 {
		w.writeRecords(SheetOther, out.OtherColumns, out.Other, out.Labels)
	}
	w.writeTable(SheetPrefixes, out.ReferenceColumns, out.ReferenceRows)

	if w.err != nil {
		f.Close()
		return nil, w.err
	}

	return f, nil
}

// Write generates the workbook and saves it to path.
func Write(path string, out Output) error {
	f, err := Generate(out)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save output workbook: %w", err)
	}
	return nil
}

// Bytes generates the workbook and returns its serialized content.
func Bytes(out Output) ([]byte, error) {
	f, err := Generate(out)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize output workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// =============================================================================
// SHEET WRITER
// =============================================================================

// sheetWriter keeps the first error so that callers check once.
type sheetWriter struct {
	file        *excelize.File
	headerStyle int
	sheets      int
	err         error
}

// addSheet renames the default sheet for the first call and creates a new
// sheet afterwards.
func (w *sheetWriter) addSheet(name string) bool {
	if w.err != nil {
		return false
	}

	if w.sheets == 0 {
		if err := w.file.SetSheetName(w.file.GetSheetName(0), name); err != nil {
			w.err = fmt.Errorf("failed to rename sheet to %s: %w", name, err)
			return false
		}
	} else if _, err := w.file.NewSheet(name); err != nil {
		w.err = fmt.Errorf("failed to create sheet %s: %w", name, err)
		return false
	}

	w.sheets++
	return true
}

func (w *sheetWriter) writeRecords(name string, columns []string, records []statement.Record, labels statement.Labels) {
	if !w.addSheet(name) {
		return
	}

	header := make([]interface{}, 0, 7)
	for _, c := range semanticHeader(columns) {
		header = append(header, c)
	}
	header = append(header, ColumnType, ColumnSourceFile)
	w.setRow(name, 1, header)
	w.styleHeader(name, len(header))

	for i, rec := range records {
		w.setRow(name, i+2, []interface{}{
			rec.Date,
			rec.Time,
			rec.Remark,
			rec.Debit,
			rec.Credit,
			labels.Label(rec.Type),
			rec.SourceFile,
		})
	}
}

func (w *sheetWriter) writeTable(name string, columns []string, rows [][]string) {
	if !w.addSheet(name) {
		return
	}

	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	w.setRow(name, 1, header)
	w.styleHeader(name, len(header))

	for i, row := range rows {
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		w.setRow(name, i+2, values)
	}
}

func (w *sheetWriter) setRow(sheet string, row int, values []interface{}) {
	if w.err != nil || len(values) == 0 {
		return
	}

	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		w.err = err
		return
	}

	if err := w.file.SetSheetRow(sheet, cell, &values); err != nil {
		w.err = fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
}

func (w *sheetWriter) styleHeader(sheet string, width int) {
	if w.err != nil || width == 0 {
		return
	}

	last, err := excelize.CoordinatesToCellName(width, 1)
	if err != nil {
		w.err = err
		return
	}

	if err := w.file.SetCellStyle(sheet, "A1", last, w.headerStyle); err != nil {
		w.err = fmt.Errorf("failed to style %s header: %w", sheet, err)
	}
}

// semanticHeader returns exactly five header names, falling back to the
// role names when columns is short.
func semanticHeader(columns []string) []string {
	header := []string{"date", "time", "remark", "debit", "credit"}
	for i := range header {
		if i < len(columns) && columns[i] != "" {
			header[i] = columns[i]
		}
	}
	return header
}
