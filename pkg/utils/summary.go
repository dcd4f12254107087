package utils

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/briva-splitter/internal/types"
)

// SummaryPath returns the run summary path that belongs to a workbook:
// "out/rekap_briva.xlsx" becomes "out/rekap_briva.summary.yaml".
func SummaryPath(workbookPath string) string {
	base := workbookPath
	if i := strings.LastIndex(strings.ToLower(base), ".xlsx"); i >= 0 && i == len(base)-len(".xlsx") {
		base = base[:i]
	}
	return base + ".summary.yaml"
}

// WriteSummary writes report as YAML to path. Totals are recomputed first.
func WriteSummary(report *types.BatchReport, path string) error {
	report.Summarize()

	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}

// ReadSummary loads a summary written by WriteSummary.
func ReadSummary(path string) (*types.BatchReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read summary: %w", err)
	}

	var report types.BatchReport
	if err := yaml.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to decode summary: %w", err)
	}
	return &report, nil
}
