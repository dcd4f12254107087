package converter

import (
	"context"

	"github.com/ginjaninja78/briva-splitter/internal/briva"
	"github.com/ginjaninja78/briva-splitter/internal/statement"
	"github.com/ginjaninja78/briva-splitter/internal/types"
	"github.com/ginjaninja78/briva-splitter/internal/xlsxwriter"
)

// =============================================================================
// BATCH ACCUMULATOR
// =============================================================================

// Batch accumulates per-file results in processing order. It is append-only.
type Batch struct {
	matched []statement.Record
	other   []statement.Record

	// Header names of the first file that contributed to each sheet.
	matchedColumns []string
	otherColumns   []string

	results []Result
}

// NewBatch returns an empty batch.
func NewBatch() *Batch {
	return &Batch{}
}

// Add appends the rows of a successful result. Skipped results are kept for
// reporting only. Empty partitions contribute nothing.
func (b *Batch) Add(res Result) {
	b.results = append(b.results, res)
	if !res.Success {
		return
	}

	if len(res.Matched) > 0 {
		if b.matchedColumns == nil {
			b.matchedColumns = res.Columns.Names()
		}
		b.matched = append(b.matched, res.Matched...)
	}
	if len(res.Other) > 0 {
		if b.otherColumns == nil {
			b.otherColumns = res.Columns.Names()
		}
		b.other = append(b.other, res.Other...)
	}
}

// Matched returns the accumulated matched rows.
func (b *Batch) Matched() []statement.Record { return b.matched }

// Other returns the accumulated other rows.
func (b *Batch) Other() []statement.Record { return b.other }

// Results returns every per-file result in processing order.
func (b *Batch) Results() []Result { return b.results }

// Processed returns the number of files that contributed to the output.
func (b *Batch) Processed() int {
	n := 0
	for _, r := range b.results {
		if r.Success {
			n++
		}
	}
	return n
}

// Reports returns the run summary entry of every file.
func (b *Batch) Reports() []types.FileReport {
	reports := make([]types.FileReport, len(b.results))
	for i, r := range b.results {
		reports[i] = r.Report()
	}
	return reports
}

// Output assembles the consolidated workbook content.
func (b *Batch) Output(registry *briva.Registry, labels statement.Labels) xlsxwriter.Output {
	refColumns, refRows := registry.Table()
	return xlsxwriter.Output{
		Matched:          b.matched,
		Other:            b.other,
		MatchedColumns:   b.matchedColumns,
		OtherColumns:     b.otherColumns,
		Labels:           labels,
		ReferenceColumns: refColumns,
		ReferenceRows:    refRows,
	}
}

// =============================================================================
// PROCESSOR
// =============================================================================

// Observer receives progress events. Indexes are 1-based.
type Observer interface {
	FileStarted(index, total int, path string)
	FileFinished(index, total int, result Result)
}

// Processor runs the converter over a list of files, one at a time.
type Processor struct {
	registry *briva.Registry
	opts     Options
	logger   Logger
	observer Observer
}

// NewProcessor creates a processor. observer may be nil.
func NewProcessor(registry *briva.Registry, opts Options, logger Logger, observer Observer) *Processor {
	return &Processor{
		registry: registry,
		opts:     opts,
		logger:   logger,
		observer: observer,
	}
}

// Process converts paths in order and accumulates the results. A failing
// file is recorded and skipped. Cancelling ctx stops before the next file;
// the batch built so far is returned with ctx.Err().
func (p *Processor) Process(ctx context.Context, paths []string) (*Batch, error) {
	batch := NewBatch()
	total := len(paths)

	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return batch, err
		}

		if p.observer != nil {
			p.observer.FileStarted(i+1, total, path)
		}

		res := New(path, p.registry, p.opts, p.logger).Run()
		if res.Success {
			p.logger.Info("file processed", "file", path, "header_row", res.HeaderRow,
				"matched", res.Stats.Matched, "other", res.Stats.Other)
		} else {
			p.logger.Warn("file skipped", "file", path, "reason", res.Error)
		}

		batch.Add(res)

		if p.observer != nil {
			p.observer.FileFinished(i+1, total, res)
		}
	}

	return batch, nil
}
