// =============================================================================
// BRIVA Splitter - Row Validation
// =============================================================================
//
// This module reports suspicious statement cells. Validation never rejects a
// row and never changes how it is classified: the nominal normalizer already
// fell back to 0, and the warnings only make that visible in the log and the
// run summary.
//
// RULES:
//   - amount_fallback: a non-empty debit/credit cell that normalized to 0
//     because it could not be parsed (e.g. "1234.50", "abc")
//   - both_amounts: debit and credit are both positive; the row is classified
//     as inbound because credit is checked first
//
// =============================================================================

package validation

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/briva-splitter/internal/statement"
)

// SeverityWarning is the severity of every finding. Findings never reject a
// row.
const SeverityWarning = "warning"

// Rule names.
const (
	RuleAmountFallback = "amount_fallback"
	RuleBothAmounts    = "both_amounts"
)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// ValidationError represents a single validation finding.
type ValidationError struct {
	// Severity is SeverityWarning for every rule in this package.
	Severity string

	// Field is the source column name.
	Field string

	// Value is the raw cell text.
	Value string

	Rule    string
	Message string

	// RowNumber is the 1-based row in the source sheet.
	RowNumber int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] Row %d, Field '%s': %s (value: '%s')",
		strings.ToUpper(e.Severity),
		e.RowNumber,
		e.Field,
		e.Message,
		e.Value,
	)
}

// =============================================================================
// VALIDATION RESULT
// =============================================================================

// ValidationResult contains the results of validation.
type ValidationResult struct {
	Errors []*ValidationError

	// WarningCount is the number of warnings.
	WarningCount int

	// RowsValidated is the number of data rows checked.
	RowsValidated int
}

// =============================================================================
// MAIN VALIDATION FUNCTION
// =============================================================================

// Validate checks the amount cells of every data row.
//
// PARAMETERS:
//   - table: The table returned by statement.LocateHeader.
//   - cols: The resolved semantic columns.
//
// RETURNS:
//   - The findings in row order.
func Validate(table *statement.Table, cols statement.Columns) *ValidationResult {
	result := &ValidationResult{
		Errors:        make([]*ValidationError, 0),
		RowsValidated: len(table.Rows),
	}

	for i := range table.Rows {
		row := table.RowNumbers[i]
		debit := table.Cell(i, cols.Debit.Index)
		credit := table.Cell(i, cols.Credit.Index)

		if err := validateAmount(debit, cols.Debit.Name, row); err != nil {
			result.Errors = append(result.Errors, err)
		}
		if err := validateAmount(credit, cols.Credit.Name, row); err != nil {
			result.Errors = append(result.Errors, err)
		}

		if statement.NormalizeNominal(debit) > 0 && statement.NormalizeNominal(credit) > 0 {
			result.Errors = append(result.Errors, &ValidationError{
				Severity:  SeverityWarning,
				Field:     cols.Debit.Name + "/" + cols.Credit.Name,
				Value:     debit + "/" + credit,
				Rule:      RuleBothAmounts,
				Message:   "Both debit and credit are positive; classified as inbound",
				RowNumber: row,
			})
		}
	}

	for _, e := range result.Errors {
		if e.Severity == SeverityWarning {
			result.WarningCount++
		}
	}

	return result
}

// validateAmount returns a warning when raw is not empty but normalizes to 0
// only because it could not be parsed.
func validateAmount(raw, field string, row int) *ValidationError {
	if !statement.IsFallback(raw) {
		return nil
	}

	return &ValidationError{
		Severity:  SeverityWarning,
		Field:     field,
		Value:     raw,
		Rule:      RuleAmountFallback,
		Message:   "Amount could not be parsed and was treated as 0",
		RowNumber: row,
	}
}
