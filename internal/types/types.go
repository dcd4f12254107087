// =============================================================================
// BRIVA Splitter - Shared Types
// =============================================================================
//
// This package contains the run report types shared by the converter (which
// fills them) and pkg/utils (which serializes them), so that neither package
// has to import the other.
//
// =============================================================================

package types

import "time"

// =============================================================================
// FILE REPORT
// =============================================================================

// FileStatus is the outcome of one input file.
type FileStatus string

const (
	// StatusProcessed means the file contributed its rows to the output.
	StatusProcessed FileStatus = "processed"

	// StatusSkipped means the file was excluded from the output.
	StatusSkipped FileStatus = "skipped"
)

// FileReport describes the processing of a single input file.
type FileReport struct {
	// File is the path as given on the command line or discovered.
	File string `yaml:"file"`

	// SourceName is the SOURCE_FILE value (base name without extension).
	SourceName string `yaml:"source_name"`

	Format   string `yaml:"format,omitempty"`
	Checksum string `yaml:"checksum,omitempty"`

	Status FileStatus `yaml:"status"`

	// Reason explains a skip.
	Reason string `yaml:"reason,omitempty"`

	// HeaderRow is the 1-based row of the detected header, 0 if none.
	HeaderRow int `yaml:"header_row,omitempty"`

	Rows         int `yaml:"rows"`
	Matched      int `yaml:"matched"`
	Other        int `yaml:"other"`
	Inbound      int `yaml:"inbound"`
	Outbound     int `yaml:"outbound"`
	Unclassified int `yaml:"unclassified"`

	// Warnings is the number of amount cells that fell back to 0.
	Warnings int `yaml:"warnings"`

	Duration time.Duration `yaml:"duration"`
}

// =============================================================================
// BATCH REPORT
// =============================================================================

// BatchReport describes one run of the process command.
type BatchReport struct {
	RunID      string    `yaml:"run_id"`
	StartedAt  time.Time `yaml:"started_at"`
	FinishedAt time.Time `yaml:"finished_at"`

	PrefixFile string `yaml:"prefix_file"`
	Prefixes   int    `yaml:"prefixes"`

	// OutputFile is empty for dry runs.
	OutputFile string `yaml:"output_file,omitempty"`

	Files  []FileReport `yaml:"files"`
	Totals Totals       `yaml:"totals"`
}

// Totals aggregates the file reports.
type Totals struct {
	Files     int `yaml:"files"`
	Processed int `yaml:"processed"`
	Skipped   int `yaml:"skipped"`
	Matched   int `yaml:"matched"`
	Other     int `yaml:"other"`
	Warnings  int `yaml:"warnings"`
}

// Summarize recomputes Totals from Files.
func (r *BatchReport) Summarize() {
	t := Totals{Files: len(r.Files)}
	for _, f := range r.Files {
		switch f.Status {
		case StatusProcessed:
			t.Processed++
		case StatusSkipped:
			t.Skipped++
		}
		t.Matched += f.Matched
		t.Other += f.Other
		t.Warnings += f.Warnings
	}
	r.Totals = t
}
