// =============================================================================
// BRIVA Splitter - Statement Records
// =============================================================================
//
// A Record is one normalized statement row: the five semantic columns plus the
// derived BRIVA, TYPE and SOURCE_FILE values. This file also holds the
// transaction classifier and the matched/other partitioner.
//
// =============================================================================

package statement

// =============================================================================
// DIRECTION
// =============================================================================

// Direction is the TYPE of a transaction row.
type Direction int

const (
	// None means neither credit nor debit is positive.
	None Direction = iota

	// Inbound means money came in (credit > 0).
	Inbound

	// Outbound means money went out (debit > 0 and credit <= 0).
	Outbound
)

// String returns the default label of the direction.
func (d Direction) String() string {
	switch d {
	case Inbound:
		return "inbound"
	case Outbound:
		return "outbound"
	default:
		return ""
	}
}

// Labels maps directions to the text written in the TYPE column.
type Labels struct {
	Inbound  string
	Outbound string
}

// DefaultLabels returns the inbound/outbound labels.
func DefaultLabels() Labels {
	return Labels{Inbound: Inbound.String(), Outbound: Outbound.String()}
}

// Label returns the text for d. None is always "".
func (l Labels) Label(d Direction) string {
	switch d {
	case Inbound:
		return l.Inbound
	case Outbound:
		return l.Outbound
	default:
		return ""
	}
}

// Classify derives the direction from normalized amounts. Credit is checked
// first, so a row with both amounts positive is inbound.
func Classify(debit, credit int64) Direction {
	if credit > 0 {
		return Inbound
	}
	if debit > 0 {
		return Outbound
	}
	return None
}

// =============================================================================
// RECORD
// =============================================================================

// Record is a normalized statement row.
type Record struct {
	Date   string
	Time   string
	Remark string
	Debit  int64
	Credit int64

	// BRIVA is the extracted reference. It is meaningful only when HasBRIVA.
	BRIVA    string
	HasBRIVA bool

	Type       Direction
	SourceFile string

	// RowNumber is the 1-based row number in the source sheet.
	RowNumber int
}

// Extractor finds a BRIVA reference in a remark.
type Extractor interface {
	Extract(remark string) (string, bool)
}

// Normalize turns every data row of table into a Record.
//
// PARAMETERS:
//   - table: The table returned by LocateHeader.
//   - cols: The resolved semantic columns.
//   - extractor: The BRIVA extractor (usually the prefix registry).
//   - sourceFile: The SOURCE_FILE value for every record.
func Normalize(table *Table, cols Columns, extractor Extractor, sourceFile string) []Record {
	records := make([]Record, 0, len(table.Rows))

	for i := range table.Rows {
		rec := Record{
			Date:       table.Cell(i, cols.Date.Index),
			Time:       table.Cell(i, cols.Time.Index),
			Remark:     table.Cell(i, cols.Remark.Index),
			Debit:      NormalizeNominal(table.Cell(i, cols.Debit.Index)),
			Credit:     NormalizeNominal(table.Cell(i, cols.Credit.Index)),
			SourceFile: sourceFile,
			RowNumber:  table.RowNumbers[i],
		}
		rec.BRIVA, rec.HasBRIVA = extractor.Extract(rec.Remark)
		rec.Type = Classify(rec.Debit, rec.Credit)

		records = append(records, rec)
	}

	return records
}

// =============================================================================
// PARTITIONER
// =============================================================================

// MatchPrefixLength is the length of the BRIVA slice checked against the
// registry. It is fixed regardless of the registered prefix lengths.
const MatchPrefixLength = 5

// PrefixSet reports registry membership.
type PrefixSet interface {
	Contains(prefix string) bool
}

// IsMatched reports whether rec belongs to the matched set.
func IsMatched(rec Record, prefixes PrefixSet) bool {
	if !rec.HasBRIVA {
		return false
	}
	head := rec.BRIVA
	if len(head) > MatchPrefixLength {
		head = head[:MatchPrefixLength]
	}
	return prefixes.Contains(head)
}

// Partition splits records into matched and other rows, preserving order.
// Matched rows have their remark replaced by the BRIVA reference; the input
// slice is not modified.
func Partition(records []Record, prefixes PrefixSet) (matched, other []Record) {
	for _, rec := range records {
		if IsMatched(rec, prefixes) {
			rec.Remark = rec.BRIVA
			matched = append(matched, rec)
			continue
		}
		other = append(other, rec)
	}
	return matched, other
}
