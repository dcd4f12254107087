// =============================================================================
// BRIVA Splitter - Statement Tables
// =============================================================================
//
// This file holds the raw-to-tabular step of the pipeline. Bank statements are
// exported with a varying number of banner/title rows above the real header,
// so the header row is located by scanning instead of being configured.
//
// HEADER DISCOVERY:
//   For each candidate offset (0..HeaderScanRows-1) the row at that offset is
//   treated as the header. The first offset whose column names contain both
//   "date" and "remark" (case-insensitive) wins.
//
// COLUMN DISCOVERY:
//   Semantic columns (date, time, remark, debit, credit) are found by keyword
//   synonyms. The first matching column in left-to-right order wins.
//
// =============================================================================

package statement

import (
	"fmt"
	"strings"
)

// =============================================================================
// CONSTANTS
// =============================================================================

// HeaderScanRows is the default number of candidate header offsets
// (offsets 0 through 15 inclusive).
const HeaderScanRows = 16

// Keywords that identify a header row.
const (
	headerDateKeyword   = "date"
	headerRemarkKeyword = "remark"
)

// Synonym lists used to resolve the semantic columns.
var (
	DateKeywords   = []string{"date", "tanggal"}
	TimeKeywords   = []string{"time", "jam"}
	RemarkKeywords = []string{"remark", "uraian", "deskripsi", "keterangan"}
	DebitKeywords  = []string{"debet", "debit"}
	CreditKeywords = []string{"credit", "kredit"}
)

// =============================================================================
// TABLE STRUCTURE
// =============================================================================

// Table is a header plus data rows read from the first sheet of a source.
type Table struct {
	// Columns contains the header cell of every column.
	// Empty header cells are named "Unnamed: <index>".
	Columns []string

	// Rows contains the data rows below the header. Every row has exactly
	// len(Columns) cells.
	Rows [][]string

	// RowNumbers holds the 1-based sheet row number of every data row.
	RowNumbers []int

	// HeaderOffset is the 0-based row index of the header in the raw sheet.
	HeaderOffset int
}

// Cell returns the value at (row, col), or "" when out of range.
func (t *Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) {
		return ""
	}
	if col < 0 || col >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][col]
}

// Column is a resolved column: its position and original header text.
type Column struct {
	Index int
	Name  string
}

// Columns holds the five semantic columns of a statement.
type Columns struct {
	Date   Column
	Time   Column
	Remark Column
	Debit  Column
	Credit Column
}

// Names returns the header names in output order.
func (c Columns) Names() []string {
	return []string{c.Date.Name, c.Time.Name, c.Remark.Name, c.Debit.Name, c.Credit.Name}
}

// =============================================================================
// HEADER LOCATOR
// =============================================================================

// LocateHeader scans the first maxOffsets rows of raw for the header row.
//
// PARAMETERS:
//   - raw: All rows of the sheet, as returned by the workbook reader.
//   - maxOffsets: Number of candidate offsets. Values <= 0 use HeaderScanRows.
//
// RETURNS:
//   - The table built with the located header, and true.
//   - nil and false if no offset in the bound qualifies. The caller must
//     skip the file; row 0 is never used as a fallback.
func LocateHeader(raw [][]string, maxOffsets int) (*Table, bool) {
	if maxOffsets <= 0 {
		maxOffsets = HeaderScanRows
	}

	for offset := 0; offset < maxOffsets; offset++ {
		table, err := tableAt(raw, offset)
		if err != nil {
			continue
		}
		if isHeader(table.Columns) {
			return table, true
		}
	}

	return nil, false
}

// tableAt builds a table using raw[offset] as the header row.
func tableAt(raw [][]string, offset int) (*Table, error) {
	if offset >= len(raw) {
		return nil, fmt.Errorf("offset %d beyond last row %d", offset, len(raw)-1)
	}

	columns := headerNames(raw[offset])
	if len(columns) == 0 {
		return nil, fmt.Errorf("row %d is empty", offset)
	}

	table := &Table{Columns: columns, HeaderOffset: offset}
	for i := offset + 1; i < len(raw); i++ {
		if isRowEmpty(raw[i]) {
			continue
		}
		row := make([]string, len(columns))
		copy(row, raw[i])
		table.Rows = append(table.Rows, row)
		table.RowNumbers = append(table.RowNumbers, i+1)
	}

	return table, nil
}

// headerNames trims trailing empty cells and names the remaining blanks.
func headerNames(row []string) []string {
	last := len(row) - 1
	for last >= 0 && strings.TrimSpace(row[last]) == "" {
		last--
	}

	names := make([]string, last+1)
	for i := 0; i <= last; i++ {
		name := row[i]
		if strings.TrimSpace(name) == "" {
			name = UnnamedColumn(i)
		}
		names[i] = name
	}
	return names
}

// UnnamedColumn is the name given to a blank header cell at index i.
func UnnamedColumn(i int) string {
	return fmt.Sprintf("Unnamed: %d", i)
}

func isHeader(columns []string) bool {
	var hasDate, hasRemark bool
	for _, c := range columns {
		lower := strings.ToLower(c)
		if strings.Contains(lower, headerDateKeyword) {
			hasDate = true
		}
		if strings.Contains(lower, headerRemarkKeyword) {
			hasRemark = true
		}
	}
	return hasDate && hasRemark
}

// isRowEmpty checks if a row contains only empty cells.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// =============================================================================
// COLUMN RESOLVER
// =============================================================================

// ResolveColumn returns the first column, in table order, whose trimmed and
// lowercased name contains any of the keywords. Keyword order does not give
// priority: a column further left always wins.
func ResolveColumn(columns []string, keywords []string) (Column, bool) {
	for i, name := range columns {
		norm := strings.ToLower(strings.TrimSpace(name))
		for _, key := range keywords {
			if strings.Contains(norm, key) {
				return Column{Index: i, Name: name}, true
			}
		}
	}
	return Column{Index: -1}, false
}

// ResolveColumns resolves all five semantic columns.
//
// RETURNS:
//   - The resolved columns.
//   - The list of semantic names that could not be resolved (empty on success).
func ResolveColumns(columns []string) (Columns, []string) {
	var resolved Columns
	var missing []string

	lookups := []struct {
		name     string
		keywords []string
		target   *Column
	}{
		{"date", DateKeywords, &resolved.Date},
		{"time", TimeKeywords, &resolved.Time},
		{"remark", RemarkKeywords, &resolved.Remark},
		{"debit", DebitKeywords, &resolved.Debit},
		{"credit", CreditKeywords, &resolved.Credit},
	}

	for _, l := range lookups {
		col, ok := ResolveColumn(columns, l.keywords)
		if !ok {
			missing = append(missing, l.name)
			continue
		}
		*l.target = col
	}

	return resolved, missing
}
