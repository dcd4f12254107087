package cmd

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/ginjaninja78/briva-splitter/internal/converter"
)

// progressPrinter prints per-file progress to the terminal. It implements
// converter.Observer.
type progressPrinter struct {
	out io.Writer

	counter *color.Color
	ok      *color.Color
	skip    *color.Color
	info    *color.Color
}

func newProgressPrinter(out io.Writer) *progressPrinter {
	return &progressPrinter{
		out:     out,
		counter: color.New(color.BgBlue, color.FgWhite),
		ok:      color.New(color.FgGreen),
		skip:    color.New(color.FgYellow),
		info:    color.New(color.FgCyan),
	}
}

func (p *progressPrinter) FileStarted(index, total int, path string) {
	p.counter.Fprintf(p.out, " [%2d of %2d] ", index, total)
	fmt.Fprintf(p.out, " Processing %s ...\n", filepath.Base(path))
}

func (p *progressPrinter) FileFinished(index, total int, res converter.Result) {
	name := filepath.Base(res.FilePath)

	if res.Success {
		if res.Format != "" && res.Format != "xlsx" {
			p.info.Fprintf(p.out, "    ℹ %s was converted to xlsx before processing\n", name)
		}
		p.ok.Fprintf(p.out, "    ✓ Header found at row %d", res.HeaderRow)
		fmt.Fprintf(p.out, " (%d matched, %d other", res.Stats.Matched, res.Stats.Other)
		if res.Stats.ValidationWarnings > 0 {
			fmt.Fprintf(p.out, ", %d warnings", res.Stats.ValidationWarnings)
		}
		fmt.Fprintln(p.out, ")")
	} else {
		p.skip.Fprintf(p.out, "    ⚠ %s skipped: %s\n", name, skipReason(res.Error))
	}

	fmt.Fprintf(p.out, "    %d%% done\n", index*100/total)
}

// skipReason turns a per-file error into a short message.
func skipReason(err error) string {
	switch {
	case err == nil:
		return "unknown reason"
	case errors.Is(err, converter.ErrHeaderNotFound):
		return "header not found"
	case errors.Is(err, converter.ErrColumnsIncomplete):
		return fmt.Sprintf("incomplete columns (%v)", err)
	case errors.Is(err, converter.ErrConversion):
		return fmt.Sprintf("conversion failed (%v)", err)
	default:
		return err.Error()
	}
}
