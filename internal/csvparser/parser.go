// =============================================================================
// BRIVA Splitter - CSV Parser Module
// =============================================================================
//
// This module reads CSV statement exports into raw rows. It does not look for
// a header: statements carry banner rows above the table and header detection
// is done by the statement package on the raw grid.
//
// FEATURES:
//   - Different delimiters (comma, semicolon, pipe, tab)
//   - Different encodings (UTF-8 with or without BOM, ISO-8859-1, Windows-1252)
//   - Ragged rows and lazy quotes, as produced by banking exports
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/ginjaninja78/briva-splitter/internal/config"
)

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads every row of a CSV stream.
//
// PARAMETERS:
//   - r: The CSV content.
//   - settings: Delimiter and encoding.
//
// RETURNS:
//   - All rows, banner rows included. Rows may have different lengths.
//     rows[i] is the record that starts on line i+1; blank lines are kept
//     as empty rows so that row numbers match the file.
//   - An error if the encoding is unknown or the content is malformed.
func Parse(r io.Reader, settings config.CSVSettings) ([][]string, error) {
	decoder, err := getDecoder(settings.Encoding)
	if err != nil {
		return nil, err
	}

	reader := transform.NewReader(bufio.NewReader(r), decoder.NewDecoder())

	csvReader := csv.NewReader(reader)
	configureReader(csvReader, settings)

	var rows [][]string
	for {
		record, err := csvReader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}

		// encoding/csv skips blank lines.
		line, _ := csvReader.FieldPos(0)
		for len(rows) < line-1 {
			rows = append(rows, []string{})
		}
		rows = append(rows, record)
	}

	return rows, nil
}

// configureReader configures the CSV reader based on the settings.
func configureReader(reader *csv.Reader, settings config.CSVSettings) {
	switch settings.Delimiter {
	case "\\t", "\t", "tab", "TAB":
		reader.Comma = '\t'
	case "|", "pipe", "PIPE":
		reader.Comma = '|'
	case ";", "semicolon":
		reader.Comma = ';'
	default:
		if len(settings.Delimiter) > 0 {
			reader.Comma = rune(settings.Delimiter[0])
		} else {
			reader.Comma = ','
		}
	}

	// Banner rows above the table usually have fewer fields.
	reader.FieldsPerRecord = -1

	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
}

// getDecoder returns the decoder for an encoding name. The UTF-8 decoder
// strips a leading byte order mark.
func getDecoder(name string) (encoding.Encoding, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "", "UTF-8", "UTF8":
		return unicode.UTF8BOM, nil
	case "ISO-8859-1", "LATIN1", "LATIN-1":
		return charmap.ISO8859_1, nil
	case "ISO-8859-15", "LATIN9":
		return charmap.ISO8859_15, nil
	case "WINDOWS-1252", "CP1252":
		return charmap.Windows1252, nil
	default:
		return nil, fmt.Errorf("unsupported CSV encoding %q", name)
	}
}
