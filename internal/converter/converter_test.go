package converter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/briva-splitter/internal/briva"
	"github.com/ginjaninja78/briva-splitter/internal/config"
	"github.com/ginjaninja78/briva-splitter/internal/logging"
	"github.com/ginjaninja78/briva-splitter/internal/spreadsheet"
	"github.com/ginjaninja78/briva-splitter/internal/statement"
	"github.com/ginjaninja78/briva-splitter/internal/types"
)

func writeStatement(t *testing.T, path string, rows [][]string) {
	t.Helper()
	f, err := spreadsheet.FromRows(rows)
	require.NoError(t, err)
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
}

// statementB has a two-row banner, three matched rows and two other rows.
func statementB() [][]string {
	return [][]string{
		{"PT BANK RAKYAT INDONESIA"},
		{"Account statement"},
		{"Tanggal / Date", "Time", "Remark", "Debet", "Credit", "Teller"},
		{"01/02/24", "08:00", "BRIVA 12345 0000000001 ACME", "", "1,000.00", "ATM"},
		{"01/02/24", "08:10", "ADMIN FEE", "5,000", "", "SYS"},
		{"01/02/24", "08:20", "VA 7777712345 67890", "", "250", "SYS"},
		{},
		{"01/02/24", "08:30", "TRF 9999900000000001", "", "10", "SYS"},
		{"01/02/24", "08:40", "REF 123450000000002", "", "", "SYS"},
	}
}

func testOptions() Options {
	return Options{HeaderScanRows: statement.HeaderScanRows}
}

func TestRun_Processed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "statement_b.xlsx")
	writeStatement(t, path, statementB())

	registry := briva.FromPrefixes("12345", "77777")
	res := New(path, registry, testOptions(), logging.Discard()).Run()

	require.True(t, res.Success, "error: %v", res.Error)
	assert.Equal(t, "statement_b", res.SourceName)
	assert.Equal(t, spreadsheet.FormatXLSX, res.Format)
	assert.Len(t, res.Checksum, 16)
	assert.Equal(t, 3, res.HeaderRow)
	assert.Equal(t, []string{"Tanggal / Date", "Time", "Remark", "Debet", "Credit"}, res.Columns.Names())

	require.Len(t, res.Matched, 3)
	assert.Equal(t, "123450000000001", res.Matched[0].Remark)
	assert.Equal(t, int64(1000), res.Matched[0].Credit)
	assert.Equal(t, statement.Inbound, res.Matched[0].Type)
	assert.Equal(t, "777771234567890", res.Matched[1].Remark)
	assert.Equal(t, "123450000000002", res.Matched[2].Remark)
	assert.Equal(t, statement.None, res.Matched[2].Type)

	require.Len(t, res.Other, 2)
	assert.Equal(t, "ADMIN FEE", res.Other[0].Remark)
	assert.Equal(t, statement.Outbound, res.Other[0].Type)
	assert.Equal(t, "TRF 9999900000000001", res.Other[1].Remark)
	assert.Equal(t, 8, res.Other[1].RowNumber)

	assert.Equal(t, ProcessingStats{
		RowsProcessed: 5,
		Matched:       3,
		Other:         2,
		Inbound:       3,
		Outbound:      1,
		Unclassified:  1,
	}, withoutTime(res.Stats))
}

func TestRun_Skips(t *testing.T) {
	dir := t.TempDir()
	registry := briva.FromPrefixes("12345")

	t.Run("NoHeader", func(t *testing.T) {
		path := filepath.Join(dir, "statement_a.xlsx")
		writeStatement(t, path, [][]string{
			{"Tanggal", "Uraian", "Debet", "Kredit"},
			{"01/02/24", "BRIVA 123450000000001", "", "10"},
		})

		res := New(path, registry, testOptions(), logging.Discard()).Run()
		assert.False(t, res.Success)
		assert.ErrorIs(t, res.Error, ErrHeaderNotFound)
	})

	t.Run("HeaderBeyondScanBound", func(t *testing.T) {
		rows := make([][]string, 0, 20)
		for i := 0; i < 16; i++ {
			rows = append(rows, []string{"banner"})
		}
		rows = append(rows, []string{"Date", "Time", "Remark", "Debit", "Credit"})

		path := filepath.Join(dir, "deep.xlsx")
		writeStatement(t, path, rows)

		res := New(path, registry, testOptions(), logging.Discard()).Run()
		assert.ErrorIs(t, res.Error, ErrHeaderNotFound)
	})

	t.Run("MissingColumns", func(t *testing.T) {
		path := filepath.Join(dir, "no_time.xlsx")
		writeStatement(t, path, [][]string{
			{"Date", "Remark", "Debit", "Credit"},
			{"01/02/24", "x", "1", ""},
		})

		res := New(path, registry, testOptions(), logging.Discard()).Run()
		assert.ErrorIs(t, res.Error, ErrColumnsIncomplete)
		assert.Contains(t, res.Error.Error(), "time")
		assert.Equal(t, 1, res.HeaderRow)
	})

	t.Run("Unconvertible", func(t *testing.T) {
		path := filepath.Join(dir, "broken.xls")
		require.NoError(t, os.WriteFile(path, []byte("not a workbook"), 0644))

		res := New(path, registry, testOptions(), logging.Discard()).Run()
		assert.False(t, res.Success)
		assert.ErrorIs(t, res.Error, ErrConversion)
		assert.NotEmpty(t, res.Checksum)
	})

	t.Run("Missing", func(t *testing.T) {
		res := New(filepath.Join(dir, "gone.xlsx"), registry, testOptions(), logging.Discard()).Run()
		assert.False(t, res.Success)
		assert.ErrorIs(t, res.Error, ErrConversion)
	})
}

func TestRun_CSVWithWarnings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.csv")
	content := "Date;Time;Remark;Debit;Credit\n" +
		"01/02/24;08:00;BRIVA 123450000000001;;1234.50\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	opts := Options{Spreadsheet: spreadsheet.Options{CSV: config.CSVSettings{Delimiter: ";"}}}
	res := New(path, briva.FromPrefixes("12345"), opts, logging.Discard()).Run()

	require.True(t, res.Success, "error: %v", res.Error)
	assert.Equal(t, spreadsheet.FormatCSV, res.Format)
	assert.Equal(t, 1, res.Stats.ValidationWarnings)
	require.Len(t, res.Matched, 1)
	assert.Equal(t, int64(0), res.Matched[0].Credit)
	assert.Equal(t, statement.None, res.Matched[0].Type)
}

func TestRun_CSVKeepsFileLineNumbers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.csv")
	content := "Rekening Koran\n" +
		"\n" +
		"Date,Time,Remark,Debit,Credit\n" +
		"01/02/24,08:00,BRIVA 123450000000001,,1000\n" +
		"\n" +
		"01/02/24,09:00,ADMIN,500,\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	res := New(path, briva.FromPrefixes("12345"), testOptions(), logging.Discard()).Run()

	require.True(t, res.Success, "error: %v", res.Error)
	assert.Equal(t, 3, res.HeaderRow)
	require.Len(t, res.Matched, 1)
	assert.Equal(t, 4, res.Matched[0].RowNumber)
	require.Len(t, res.Other, 1)
	assert.Equal(t, 6, res.Other[0].RowNumber)
	assert.Equal(t, statement.Outbound, res.Other[0].Type)
}

func TestRun_LegacyStatement(t *testing.T) {
	path := filepath.Join("..", "spreadsheet", "testdata", "statement.xls")

	res := New(path, briva.FromPrefixes("12345"), testOptions(), logging.Discard()).Run()

	require.True(t, res.Success, "error: %v", res.Error)
	assert.Equal(t, spreadsheet.FormatXLS, res.Format)
	assert.Equal(t, 3, res.HeaderRow)

	require.Len(t, res.Matched, 1)
	assert.Equal(t, "123450000000001", res.Matched[0].Remark)
	assert.Equal(t, int64(1000), res.Matched[0].Credit)
	assert.Equal(t, 4, res.Matched[0].RowNumber)

	require.Len(t, res.Other, 1)
	assert.Equal(t, "ADMIN FEE", res.Other[0].Remark)
	assert.Equal(t, int64(5000), res.Other[0].Debit)
	assert.Equal(t, statement.Outbound, res.Other[0].Type)
}

func TestResultReport(t *testing.T) {
	res := Result{FilePath: "a.xlsx", SourceName: "a", Error: ErrHeaderNotFound}
	report := res.Report()
	assert.Equal(t, types.StatusSkipped, report.Status)
	assert.Equal(t, "header row not found", report.Reason)

	res = Result{FilePath: "b.xlsx", Success: true, HeaderRow: 3, Stats: ProcessingStats{Matched: 3, Other: 2}}
	report = res.Report()
	assert.Equal(t, types.StatusProcessed, report.Status)
	assert.Empty(t, report.Reason)
	assert.Equal(t, 3, report.Matched)
}

func TestSourceName(t *testing.T) {
	assert.Equal(t, "jan 2024", SourceName(filepath.Join("in", "jan 2024.xls")))
	assert.Equal(t, "archive.tar", SourceName("archive.tar.csv"))
}

// =============================================================================
// BATCH
// =============================================================================

type recordingObserver struct {
	started  []string
	finished []bool
}

func (o *recordingObserver) FileStarted(index, total int, path string) {
	o.started = append(o.started, filepath.Base(path))
}

func (o *recordingObserver) FileFinished(index, total int, res Result) {
	o.finished = append(o.finished, res.Success)
}

func TestProcess_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	pathA := filepath.Join(dir, "a.xlsx")
	pathB := filepath.Join(dir, "b.xlsx")
	writeStatement(t, pathA, [][]string{{"nothing", "here"}, {"1", "2"}})
	writeStatement(t, pathB, statementB())

	registry, err := briva.New(
		[]string{"Corporate_Code", "Name"},
		[][]string{{"12345", "ACME"}, {"77777", "Globex"}},
		briva.DefaultColumn,
	)
	require.NoError(t, err)

	observer := &recordingObserver{}
	p := NewProcessor(registry, testOptions(), logging.Discard(), observer)

	batch, err := p.Process(context.Background(), []string{pathA, pathB})
	require.NoError(t, err)

	assert.Equal(t, []string{"a.xlsx", "b.xlsx"}, observer.started)
	assert.Equal(t, []bool{false, true}, observer.finished)
	assert.Equal(t, 1, batch.Processed())
	assert.Len(t, batch.Matched(), 3)
	assert.Len(t, batch.Other(), 2)

	reports := batch.Reports()
	require.Len(t, reports, 2)
	assert.Equal(t, types.StatusSkipped, reports[0].Status)
	assert.Equal(t, types.StatusProcessed, reports[1].Status)

	out := batch.Output(registry, statement.Labels{Inbound: "MASUK", Outbound: "KELUAR"})
	assert.Equal(t, []string{"Tanggal / Date", "Time", "Remark", "Debet", "Credit"}, out.MatchedColumns)
	assert.Equal(t, []string{"corporate_code", "name"}, out.ReferenceColumns)
	assert.Len(t, out.ReferenceRows, 2)
}

func TestProcess_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewProcessor(briva.FromPrefixes("12345"), testOptions(), logging.Discard(), nil)
	batch, err := p.Process(ctx, []string{"a.xlsx"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, batch.Results())
}

func TestBatch_FirstContributorColumns(t *testing.T) {
	first := statement.Columns{Date: statement.Column{Name: "Tanggal"}}
	second := statement.Columns{Date: statement.Column{Name: "Date"}}

	b := NewBatch()
	b.Add(Result{Success: true, Columns: first, Other: []statement.Record{{Remark: "x"}}})
	b.Add(Result{Success: true, Columns: second, Matched: []statement.Record{{Remark: "y"}}, Other: []statement.Record{{Remark: "z"}}})
	b.Add(Result{Success: false, Columns: first, Matched: []statement.Record{{Remark: "ignored"}}})

	out := b.Output(briva.FromPrefixes(), statement.DefaultLabels())
	assert.Equal(t, "Date", out.MatchedColumns[0], "first file had no matched rows")
	assert.Equal(t, "Tanggal", out.OtherColumns[0])
	assert.Len(t, out.Matched, 1)
	assert.Len(t, out.Other, 2)
	assert.Len(t, b.Results(), 3)
}

func withoutTime(s ProcessingStats) ProcessingStats {
	s.ProcessingTime = 0
	return s
}
