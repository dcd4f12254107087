package statement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bannerRows(banners int) [][]string {
	var raw [][]string
	for i := 0; i < banners; i++ {
		raw = append(raw, []string{"PT BANK RAKYAT INDONESIA", "", ""})
	}
	raw = append(raw,
		[]string{"Post Date", "Time", "Remark", "Debet", "Credit"},
		[]string{"01/02/25", "10:00", "PAY 88810 1234567890", "0", "150,000.00"},
		[]string{"", "", "", "", ""},
		[]string{"02/02/25", "11:00", "ADMIN FEE", "5,000.00", "0"},
	)
	return raw
}

func TestLocateHeader(t *testing.T) {
	t.Run("HeaderOnFirstRow", func(t *testing.T) {
		table, ok := LocateHeader(bannerRows(0), HeaderScanRows)
		require.True(t, ok)
		assert.Equal(t, 0, table.HeaderOffset)
		assert.Equal(t, []string{"Post Date", "Time", "Remark", "Debet", "Credit"}, table.Columns)
		assert.Len(t, table.Rows, 2, "empty rows are dropped")
	})

	t.Run("HeaderAfterBanners", func(t *testing.T) {
		table, ok := LocateHeader(bannerRows(7), HeaderScanRows)
		require.True(t, ok)
		assert.Equal(t, 7, table.HeaderOffset)
		assert.Equal(t, "ADMIN FEE", table.Cell(1, 2))
	})

	t.Run("LastCandidateOffset", func(t *testing.T) {
		table, ok := LocateHeader(bannerRows(15), HeaderScanRows)
		require.True(t, ok)
		assert.Equal(t, 15, table.HeaderOffset)
	})

	t.Run("BeyondBoundIsSkippedNotDefaulted", func(t *testing.T) {
		table, ok := LocateHeader(bannerRows(16), HeaderScanRows)
		assert.False(t, ok)
		assert.Nil(t, table)
	})

	t.Run("NeedsBothDateAndRemark", func(t *testing.T) {
		raw := [][]string{
			{"Date", "Description", "Debit", "Credit"},
			{"01/02/25", "x", "1", "0"},
		}
		_, ok := LocateHeader(raw, HeaderScanRows)
		assert.False(t, ok)
	})

	t.Run("CaseInsensitive", func(t *testing.T) {
		raw := [][]string{{"TGL / DATE", "REMARKS"}, {"a", "b"}}
		table, ok := LocateHeader(raw, HeaderScanRows)
		require.True(t, ok)
		assert.Equal(t, 0, table.HeaderOffset)
	})

	t.Run("EmptyInput", func(t *testing.T) {
		_, ok := LocateHeader(nil, 0)
		assert.False(t, ok)
	})
}

func TestLocateHeader_PadsAndNamesColumns(t *testing.T) {
	raw := [][]string{
		{"Date", "", "Remark", ""},
		{"01/02/25", "x"},
	}
	table, ok := LocateHeader(raw, HeaderScanRows)
	require.True(t, ok)

	assert.Equal(t, []string{"Date", "Unnamed: 1", "Remark"}, table.Columns)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, []string{"01/02/25", "x", ""}, table.Rows[0])
	assert.Equal(t, "", table.Cell(0, 9))
	assert.Equal(t, "", table.Cell(4, 0))
}

func TestResolveColumn(t *testing.T) {
	columns := []string{"No", " Tanggal Transaksi ", "Post Date", "Jam", "Keterangan", "Remark"}

	t.Run("FirstColumnInTableOrderWins", func(t *testing.T) {
		// "date" is the first keyword but "Tanggal Transaksi" sits further left.
		col, ok := ResolveColumn(columns, DateKeywords)
		require.True(t, ok)
		assert.Equal(t, 1, col.Index)
		assert.Equal(t, " Tanggal Transaksi ", col.Name)
	})

	t.Run("RemarkSynonym", func(t *testing.T) {
		col, ok := ResolveColumn(columns, RemarkKeywords)
		require.True(t, ok)
		assert.Equal(t, "Keterangan", col.Name)
	})

	t.Run("NotFound", func(t *testing.T) {
		col, ok := ResolveColumn(columns, CreditKeywords)
		assert.False(t, ok)
		assert.Equal(t, -1, col.Index)
	})
}

func TestResolveColumns(t *testing.T) {
	t.Run("Complete", func(t *testing.T) {
		cols, missing := ResolveColumns([]string{"Post Date", "Time", "Remark", "Debet", "Credit", "Ledger"})
		assert.Empty(t, missing)
		assert.Equal(t, []string{"Post Date", "Time", "Remark", "Debet", "Credit"}, cols.Names())
		assert.Equal(t, 4, cols.Credit.Index)
	})

	t.Run("Missing", func(t *testing.T) {
		_, missing := ResolveColumns([]string{"Post Date", "Remark", "Debit"})
		assert.Equal(t, []string{"time", "credit"}, missing)
	})
}
