package spreadsheet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/briva-splitter/internal/config"
)

func writeXLSX(t *testing.T, path string, rows [][]string) {
	t.Helper()
	f, err := FromRows(rows)
	require.NoError(t, err)
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path   string
		format Format
	}{
		{"a.xlsx", FormatXLSX},
		{"a.XLSM", FormatXLSX},
		{"a.xls", FormatXLS},
		{"dir/a.Csv", FormatCSV},
	}
	for _, tt := range tests {
		got, err := DetectFormat(tt.path)
		require.NoError(t, err, tt.path)
		assert.Equal(t, tt.format, got, tt.path)
	}

	_, err := DetectFormat("notes.txt")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestOpen_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "statement.xlsx")
	writeXLSX(t, path, [][]string{
		{"BANK STATEMENT"},
		nil,
		{"Date", "Remark"},
		{"01/02/24", "TRF 123"},
	})

	wb, err := Open(path, Options{})
	require.NoError(t, err)
	defer wb.Close()

	assert.Equal(t, FormatXLSX, wb.Format)
	assert.False(t, wb.Converted)

	rows, err := wb.Rows()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Empty(t, rows[1], "empty rows keep their position")
	assert.Equal(t, []string{"Date", "Remark"}, rows[2])
}

func TestOpen_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "statement.csv")
	content := "Tanggal;Remark;Kredit\n01/02/24;TRF 123;\"1.000\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	wb, err := Open(path, Options{CSV: config.CSVSettings{Delimiter: ";"}})
	require.NoError(t, err)
	defer wb.Close()

	assert.Equal(t, FormatCSV, wb.Format)
	assert.True(t, wb.Converted)

	rows, err := wb.Rows()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Tanggal", "Remark", "Kredit"},
		{"01/02/24", "TRF 123", "1.000"},
	}, rows)
}

func TestOpen_LegacyFallsBackToModernPackage(t *testing.T) {
	dir := t.TempDir()
	modern := filepath.Join(dir, "modern.xlsx")
	writeXLSX(t, modern, [][]string{{"Date", "Remark"}})

	data, err := os.ReadFile(modern)
	require.NoError(t, err)

	wb, err := OpenBytes("mislabelled.xls", data, Options{})
	require.NoError(t, err)
	defer wb.Close()

	assert.Equal(t, FormatXLS, wb.Format)
	rows, err := wb.Rows()
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Date", "Remark"}}, rows)
}

func TestOpen_LegacyGarbage(t *testing.T) {
	_, err := OpenBytes("broken.xls", []byte("definitely not a workbook"), Options{})
	assert.ErrorIs(t, err, ErrConversion)
}

func TestOpen_Errors(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.xlsx"), Options{})
	assert.Error(t, err)

	_, err = Open("report.pdf", Options{})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestFromRows_WritesText(t *testing.T) {
	f, err := FromRows([][]string{{"00123", "1,000.00"}})
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue(DefaultSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "00123", v, "leading zeros survive")

	cellType, err := f.GetCellType(DefaultSheet, "B1")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeNumber, cellType)
}
