// =============================================================================
// BRIVA Splitter - Converter Module
// =============================================================================
//
// This module contains the per-file pipeline. It turns one uploaded statement
// into its matched and other rows.
//
// CONVERSION PIPELINE:
//   1. Open the file (legacy and CSV sources are converted to a workbook)
//   2. Read the raw rows of the first sheet
//   3. Locate the header row (offsets 0..15)
//   4. Resolve the date, time, remark, debit and credit columns
//   5. Validate amount cells (warnings only)
//   6. Normalize rows: amounts, BRIVA, TYPE, SOURCE_FILE
//   7. Partition into matched and other rows
//
// Steps 1, 3 and 4 can skip the file. A skipped file never stops the batch;
// see batch.go.
//
// =============================================================================

package converter

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ginjaninja78/briva-splitter/internal/briva"
	"github.com/ginjaninja78/briva-splitter/internal/config"
	"github.com/ginjaninja78/briva-splitter/internal/spreadsheet"
	"github.com/ginjaninja78/briva-splitter/internal/statement"
	"github.com/ginjaninja78/briva-splitter/internal/types"
	"github.com/ginjaninja78/briva-splitter/internal/validation"
	"github.com/ginjaninja78/briva-splitter/pkg/utils"
)

// =============================================================================
// SKIP REASONS
// =============================================================================

var (
	// ErrConversion means the file could not be opened or converted.
	ErrConversion = spreadsheet.ErrConversion

	// ErrHeaderNotFound means no header row was found in the scan bound.
	ErrHeaderNotFound = errors.New("header row not found")

	// ErrColumnsIncomplete means a semantic column could not be resolved.
	ErrColumnsIncomplete = errors.New("required columns missing")
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of processing a single file.
type Result struct {
	// FilePath is the path to the input file that was processed.
	FilePath string

	// SourceName is the SOURCE_FILE value of every row of this file.
	SourceName string

	Format   spreadsheet.Format
	Checksum string

	// Success indicates whether the file contributed to the output.
	Success bool

	// Error contains the skip reason when Success is false.
	Error error

	// HeaderRow is the 1-based row number of the located header.
	HeaderRow int

	// Columns are the resolved semantic columns.
	Columns statement.Columns

	// Matched and Other are the partitioned rows, in sheet order.
	Matched []statement.Record
	Other   []statement.Record

	// Warnings are the validation findings.
	Warnings []*validation.ValidationError

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the processing.
type ProcessingStats struct {
	// RowsProcessed is the number of non-empty data rows.
	RowsProcessed int

	Matched int
	Other   int

	Inbound      int
	Outbound     int
	Unclassified int

	// ValidationWarnings is the number of validation warnings.
	ValidationWarnings int

	// ProcessingTime is the time taken to process the file.
	ProcessingTime time.Duration
}

// Report converts the result into its run summary entry.
func (r Result) Report() types.FileReport {
	report := types.FileReport{
		File:         r.FilePath,
		SourceName:   r.SourceName,
		Format:       string(r.Format),
		Checksum:     r.Checksum,
		Status:       types.StatusProcessed,
		HeaderRow:    r.HeaderRow,
		Rows:         r.Stats.RowsProcessed,
		Matched:      r.Stats.Matched,
		Other:        r.Stats.Other,
		Inbound:      r.Stats.Inbound,
		Outbound:     r.Stats.Outbound,
		Unclassified: r.Stats.Unclassified,
		Warnings:     r.Stats.ValidationWarnings,
		Duration:     r.Stats.ProcessingTime,
	}
	if !r.Success {
		report.Status = types.StatusSkipped
		if r.Error != nil {
			report.Reason = r.Error.Error()
		}
	}
	return report
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Options controls how statements are read.
type Options struct {
	Spreadsheet spreadsheet.Options

	// HeaderScanRows is the number of candidate header offsets.
	HeaderScanRows int
}

// OptionsFromConfig builds Options from the application configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Spreadsheet:    spreadsheet.OptionsFromConfig(cfg),
		HeaderScanRows: cfg.HeaderScanRows,
	}
}

// Logger is the logging seam of the converter. *log.Logger from
// charmbracelet/log satisfies it.
type Logger interface {
	Debug(msg interface{}, keyvals ...interface{})
	Info(msg interface{}, keyvals ...interface{})
	Warn(msg interface{}, keyvals ...interface{})
	Error(msg interface{}, keyvals ...interface{})
}

// Converter handles a single statement file.
type Converter struct {
	path     string
	registry *briva.Registry
	opts     Options
	logger   Logger
}

// =============================================================================
// CONSTRUCTOR
// =============================================================================

// New creates a new Converter instance.
//
// PARAMETERS:
//   - path: The statement file.
//   - registry: The loaded prefix registry (read-only).
//   - opts: Reading options.
//   - logger: Destination for diagnostics.
func New(path string, registry *briva.Registry, opts Options, logger Logger) *Converter {
	return &Converter{
		path:     path,
		registry: registry,
		opts:     opts,
		logger:   logger,
	}
}

// SourceName returns the base name of path without its extension.
func SourceName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the pipeline for the file. It never panics: a panic inside a
// reader is reported as a conversion failure of this file.
func (c *Converter) Run() (result Result) {
	startTime := time.Now()
	result = Result{
		FilePath:   c.path,
		SourceName: SourceName(c.path),
	}

	defer func() {
		if r := recover(); r != nil {
			result = Result{
				FilePath:   c.path,
				SourceName: result.SourceName,
				Format:     result.Format,
				Checksum:   result.Checksum,
				Error:      fmt.Errorf("%w: unexpected panic: %v", ErrConversion, r),
			}
		}
		result.Stats.ProcessingTime = time.Since(startTime)
	}()

	if sum, err := utils.FileChecksum(c.path); err != nil {
		c.logger.Warn("failed to checksum file", "file", c.path, "err", err)
	} else {
		result.Checksum = sum
	}

	// =========================================================================
	// STEP 1-2: OPEN AND READ
	// =========================================================================

	wb, err := spreadsheet.Open(c.path, c.opts.Spreadsheet)
	if err != nil {
		result.Error = fmt.Errorf("failed to open statement: %w", asConversion(err))
		return result
	}
	defer wb.Close()

	result.Format = wb.Format
	if wb.Converted {
		c.logger.Info("converted to xlsx before processing", "file", c.path, "format", wb.Format)
	}

	raw, err := wb.Rows()
	if err != nil {
		result.Error = fmt.Errorf("failed to read statement: %w", asConversion(err))
		return result
	}

	// =========================================================================
	// STEP 3: LOCATE HEADER
	// =========================================================================

	table, ok := statement.LocateHeader(raw, c.opts.HeaderScanRows)
	if !ok {
		result.Error = fmt.Errorf("%w in the first %d rows", ErrHeaderNotFound, scanRows(c.opts.HeaderScanRows))
		return result
	}
	result.HeaderRow = table.HeaderOffset + 1
	c.logger.Debug("header located", "file", c.path, "row", result.HeaderRow)

	// =========================================================================
	// STEP 4: RESOLVE COLUMNS
	// =========================================================================

	cols, missing := statement.ResolveColumns(table.Columns)
	if len(missing) > 0 {
		result.Error = fmt.Errorf("%w: %s", ErrColumnsIncomplete, strings.Join(missing, ", "))
		return result
	}
	result.Columns = cols

	// =========================================================================
	// STEP 5: VALIDATE
	// =========================================================================

	validationResult := validation.Validate(table, cols)
	result.Warnings = validationResult.Errors
	result.Stats.ValidationWarnings = validationResult.WarningCount
	for _, w := range validationResult.Errors {
		c.logger.Warn("validation warning", "file", c.path, "row", w.RowNumber, "field", w.Field, "rule", w.Rule, "value", w.Value)
	}

	// =========================================================================
	// STEP 6-7: NORMALIZE AND PARTITION
	// =========================================================================

	records := statement.Normalize(table, cols, c.registry, result.SourceName)
	result.Matched, result.Other = statement.Partition(records, c.registry)

	result.Stats.RowsProcessed = len(records)
	result.Stats.Matched = len(result.Matched)
	result.Stats.Other = len(result.Other)
	for _, rec := range records {
		switch rec.Type {
		case statement.Inbound:
			result.Stats.Inbound++
		case statement.Outbound:
			result.Stats.Outbound++
		default:
			result.Stats.Unclassified++
		}
	}

	result.Success = true
	return result
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// asConversion tags err with ErrConversion unless it already carries it.
func asConversion(err error) error {
	if errors.Is(err, ErrConversion) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrConversion, err)
}

func scanRows(n int) int {
	if n <= 0 {
		return statement.HeaderScanRows
	}
	return n
}
