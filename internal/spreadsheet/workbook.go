// =============================================================================
// BRIVA Splitter - Spreadsheet Opener
// =============================================================================
//
// This module opens statement and reference files as excelize workbooks.
//
// SUPPORTED FORMATS:
//   - .xlsx / .xlsm : opened directly
//   - .xls          : converted through a legacy reader (see legacy.go)
//   - .csv          : parsed with csvparser and copied into a new workbook
//
// Converted workbooks exist only in memory. Only the first sheet of a file is
// ever read.
//
// =============================================================================

package spreadsheet

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/briva-splitter/internal/config"
	"github.com/ginjaninja78/briva-splitter/internal/csvparser"
)

var (
	// ErrUnsupportedFormat is returned for extensions that cannot be opened.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrConversion is returned when a legacy or CSV file cannot be turned
	// into a workbook.
	ErrConversion = errors.New("conversion failed")
)

// Format is the detected input format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
	FormatCSV  Format = "csv"
)

// DefaultSheet is the sheet name of converted workbooks.
const DefaultSheet = "Sheet1"

// Options controls how non-xlsx files are decoded.
type Options struct {
	// LegacyCharset is passed to the .xls reader. Empty means "utf-8".
	LegacyCharset string

	// CSV holds the delimiter and encoding of .csv files.
	CSV config.CSVSettings
}

// OptionsFromConfig builds Options from the application configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		LegacyCharset: cfg.LegacyCharset,
		CSV:           cfg.CSV,
	}
}

// =============================================================================
// WORKBOOK
// =============================================================================

// Workbook is an opened spreadsheet.
type Workbook struct {
	File   *excelize.File
	Path   string
	Format Format

	// Converted is true when File was built from a legacy or CSV source.
	Converted bool
}

// Rows returns every row of the first sheet. Empty rows between data rows
// are kept as empty slices so that row positions are preserved.
func (w *Workbook) Rows() ([][]string, error) {
	sheet := w.File.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("workbook %s has no sheets", filepath.Base(w.Path))
	}

	rows, err := w.File.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	return rows, nil
}

// SaveAs writes the workbook to path.
func (w *Workbook) SaveAs(path string) error {
	if err := w.File.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// Close releases the workbook.
func (w *Workbook) Close() error {
	return w.File.Close()
}

// =============================================================================
// OPENERS
// =============================================================================

// DetectFormat maps a file extension to a Format.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".xls":
		return FormatXLS, nil
	case ".csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Open reads the file at path and opens it with OpenBytes.
func Open(path string, opts Options) (*Workbook, error) {
	if _, err := DetectFormat(path); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return OpenBytes(path, data, opts)
}

// OpenBytes opens the content of a file. name is used for format detection
// and error messages only.
//
// RETURNS:
//   - The workbook. The caller must Close it.
//   - ErrUnsupportedFormat for unknown extensions, ErrConversion when a
//     legacy or CSV file cannot be converted.
func OpenBytes(name string, data []byte, opts Options) (*Workbook, error) {
	format, err := DetectFormat(name)
	if err != nil {
		return nil, err
	}

	wb := &Workbook{Path: name, Format: format}

	switch format {
	case FormatXLSX:
		f, err := excelize.OpenReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to open workbook: %w", err)
		}
		wb.File = f

	case FormatXLS:
		f, err := ConvertLegacy(data, opts.LegacyCharset)
		if err != nil {
			return nil, err
		}
		wb.File = f
		wb.Converted = true

	case FormatCSV:
		rows, err := csvparser.Parse(bytes.NewReader(data), opts.CSV)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConversion, err)
		}
		f, err := FromRows(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConversion, err)
		}
		wb.File = f
		wb.Converted = true
	}

	return wb, nil
}

// FromRows copies rows into the first sheet of a new workbook. All values
// are written as text.
func FromRows(rows [][]string) (*excelize.File, error) {
	f := excelize.NewFile()

	for i, row := range rows {
		if len(row) == 0 {
			continue
		}

		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			f.Close()
			return nil, err
		}

		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}

		if err := f.SetSheetRow(DefaultSheet, cell, &values); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	return f, nil
}
