// =============================================================================
// BRIVA Splitter - Prefix Registry
// =============================================================================
//
// The registry is the list of corporate BRIVA prefixes loaded from the
// reference workbook (corporate_code.xlsx by default). It is loaded once at
// startup and is read-only afterwards.
//
// The registry serves two purposes:
//   1. Extraction: prefixes are searched in registry order (see extract.go).
//   2. Matching: the first five characters of an extracted reference must be
//      a registry member.
//
// The full reference table is kept so that it can be written back verbatim
// as the PREFIX_LIST sheet of the output workbook.
//
// =============================================================================

package briva

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/ginjaninja78/briva-splitter/internal/spreadsheet"
	"github.com/ginjaninja78/briva-splitter/internal/statement"
)

// DefaultColumn is the normalized name of the prefix column.
const DefaultColumn = "corporate_code"

// ErrColumnNotFound is returned when the reference table has no prefix column.
var ErrColumnNotFound = errors.New("prefix column not found")

// =============================================================================
// REGISTRY STRUCTURE
// =============================================================================

// Registry holds the ordered prefix list.
type Registry struct {
	// prefixes keeps registry order and duplicates.
	prefixes []string

	// patterns holds one compiled search pattern per entry of prefixes.
	patterns []*regexp.Regexp

	members map[string]struct{}

	// columns and rows are the reference table with normalized column names.
	columns []string
	rows    [][]string
}

// =============================================================================
// CONSTRUCTORS
// =============================================================================

// Load reads the reference workbook at path and builds the registry from the
// column whose normalized name equals column.
//
// RETURNS:
//   - The registry.
//   - An error if the file cannot be opened or the column is missing. Both
//     are fatal for the caller: no statement can be processed without the
//     registry.
func Load(path, column string, opts spreadsheet.Options) (*Registry, error) {
	wb, err := spreadsheet.Open(path, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open prefix file %s: %w", path, err)
	}
	defer wb.Close()

	rows, err := wb.Rows()
	if err != nil {
		return nil, fmt.Errorf("failed to read prefix file %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("prefix file %s is empty: %w", path, ErrColumnNotFound)
	}

	registry, err := New(rows[0], rows[1:], column)
	if err != nil {
		return nil, fmt.Errorf("prefix file %s: %w", path, err)
	}
	return registry, nil
}

// New builds a registry from a header row and data rows.
// Column names are trimmed and lowercased before looking up column. The table
// is as wide as its widest row; blank header cells are named like unnamed
// statement columns ("unnamed: 2").
func New(header []string, rows [][]string, column string) (*Registry, error) {
	if column == "" {
		column = DefaultColumn
	}
	column = normalizeName(column)

	width := len(header)
	for _, row := range rows {
		if len(row) > width && !isRowEmpty(row) {
			width = len(row)
		}
	}

	columns := make([]string, width)
	index := -1
	for i := range columns {
		name := ""
		if i < len(header) {
			name = header[i]
		}
		if strings.TrimSpace(name) == "" {
			name = statement.UnnamedColumn(i)
		}
		columns[i] = normalizeName(name)
		if index < 0 && columns[i] == column {
			index = i
		}
	}
	if index < 0 {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, column)
	}

	r := &Registry{
		members: make(map[string]struct{}),
		columns: columns,
	}

	for _, row := range rows {
		if isRowEmpty(row) {
			continue
		}
		cells := make([]string, len(columns))
		copy(cells, row)
		r.rows = append(r.rows, cells)

		prefix := strings.TrimSpace(cells[index])
		if prefix == "" {
			continue
		}
		r.add(prefix)
	}

	return r, nil
}

// FromPrefixes builds a registry from a plain prefix list.
func FromPrefixes(prefixes ...string) *Registry {
	rows := make([][]string, len(prefixes))
	for i, p := range prefixes {
		rows[i] = []string{p}
	}
	r, _ := New([]string{DefaultColumn}, rows, DefaultColumn)
	return r
}

func (r *Registry) add(prefix string) {
	r.prefixes = append(r.prefixes, prefix)
	r.patterns = append(r.patterns, compilePattern(prefix))
	r.members[prefix] = struct{}{}
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Prefixes returns a copy of the prefixes in registry order.
func (r *Registry) Prefixes() []string {
	out := make([]string, len(r.prefixes))
	copy(out, r.prefixes)
	return out
}

// Len returns the number of prefixes, duplicates included.
func (r *Registry) Len() int {
	return len(r.prefixes)
}

// Contains reports whether prefix is a registry member.
func (r *Registry) Contains(prefix string) bool {
	_, ok := r.members[prefix]
	return ok
}

// Table returns the reference table (normalized header and rows).
func (r *Registry) Table() (columns []string, rows [][]string) {
	return r.columns, r.rows
}

// =============================================================================
// HELPERS
// =============================================================================

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
