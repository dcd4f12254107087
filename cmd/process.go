// =============================================================================
// BRIVA Splitter - Process Command
// =============================================================================
//
// This file defines the 'process' command, the main command of the splitter.
//
// COMMAND USAGE:
//   briva process [files...] [flags]
//
// FLAGS:
//   --prefix-file : Reference workbook with the corporate_code column
//   --input-dir   : Directory scanned when no files are given
//   --output-dir  : Directory of the consolidated workbook
//   --output, -o  : Explicit path of the consolidated workbook
//   --dry-run     : Process without writing any file
//   --no-summary  : Do not write the YAML run summary
//
// PROCESSING PIPELINE:
//   1. Load the prefix registry (fatal on failure)
//   2. Collect the statements (arguments in order, else discovery)
//   3. Run the converter on each statement, one at a time
//   4. Write BRIVA_MATCH, LAIN-LAIN and PREFIX_LIST to one workbook
//   5. Write the run summary and archive processed statements
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/briva-splitter/internal/briva"
	"github.com/ginjaninja78/briva-splitter/internal/converter"
	"github.com/ginjaninja78/briva-splitter/internal/statement"
	"github.com/ginjaninja78/briva-splitter/internal/types"
	"github.com/ginjaninja78/briva-splitter/internal/xlsxwriter"
	"github.com/ginjaninja78/briva-splitter/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	dryRun     bool
	noSummary  bool
	outputPath string
)

// =============================================================================
// PROCESS COMMAND DEFINITION
// =============================================================================

var processCmd = &cobra.Command{
	Use:   "process [files...]",
	Short: "Split statements into BRIVA_MATCH and LAIN-LAIN",
	Long: `The process command reads every given statement (or, without arguments,
every statement in the input directory, sorted by name), locates the header
row, extracts BRIVA references and writes one consolidated workbook.

A statement whose header or columns cannot be found, or that cannot be
converted, is skipped with a warning. Processing continues for the others.

On success:
  - The consolidated workbook is written to the output directory
  - A YAML run summary is written next to it (unless --no-summary)
  - Processed statements are archived when archive_processed is enabled`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess(cmd.Context(), args)
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().String("prefix-file", "", "Reference workbook with the corporate_code column")
	processCmd.Flags().String("input-dir", "", "Directory scanned when no files are given")
	processCmd.Flags().String("output-dir", "", "Directory of the consolidated workbook")

	processCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Explicit path of the consolidated workbook")
	processCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Process without writing any file")
	processCmd.Flags().BoolVar(&noSummary, "no-summary", false, "Do not write the YAML run summary")
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

func runProcess(ctx context.Context, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	report := &types.BatchReport{
		RunID:      uuid.New().String(),
		StartedAt:  time.Now(),
		PrefixFile: appConfig.PrefixFile,
	}

	// =========================================================================
	// STEP 1: LOAD PREFIX REGISTRY
	// =========================================================================

	registry, err := loadRegistry()
	if err != nil {
		return err
	}
	report.Prefixes = registry.Len()

	// =========================================================================
	// STEP 2: COLLECT STATEMENTS
	// =========================================================================

	fm := utils.NewFileManager(appConfig.InputDir, appConfig.OutputDir, appConfig.ArchiveDir)
	fm.UseTimestampSubdirs = appConfig.ArchiveTimestampSubdirs

	inputs := args
	if len(inputs) == 0 {
		inputs, err = fm.DiscoverInputFiles()
		if err != nil {
			return err
		}
	}

	if len(inputs) == 0 {
		fmt.Println("No statement files to process.")
		return nil
	}

	fmt.Printf("=== BRIVA Splitter ===\n")
	fmt.Printf("Run %s: %d prefix(es), %d file(s)\n", report.RunID, registry.Len(), len(inputs))

	// =========================================================================
	// STEP 3: PROCESS SEQUENTIALLY
	// =========================================================================

	processor := converter.NewProcessor(
		registry,
		converter.OptionsFromConfig(appConfig),
		logger,
		newProgressPrinter(os.Stdout),
	)

	batch, err := processor.Process(ctx, inputs)
	if err != nil {
		return fmt.Errorf("processing interrupted: %w", err)
	}

	report.Files = batch.Reports()

	// =========================================================================
	// STEP 4: WRITE OUTPUT
	// =========================================================================

	labels := statement.Labels{
		Inbound:  appConfig.Labels.Inbound,
		Outbound: appConfig.Labels.Outbound,
	}

	if !dryRun {
		if err := appConfig.EnsureDirectories(); err != nil {
			return err
		}

		target := outputPath
		if target == "" {
			target = fm.OutputPath(appConfig.OutputNameFormat)
		}
		if utils.FileExists(target) {
			logger.Warn("overwriting existing output", "path", target)
		}

		if err := xlsxwriter.Write(target, batch.Output(registry, labels)); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		report.OutputFile = target
		logger.Info("output written", "path", target, "matched", len(batch.Matched()), "other", len(batch.Other()))

		// =====================================================================
		// STEP 5: ARCHIVE AND SUMMARY
		// =====================================================================

		if appConfig.ArchiveProcessed {
			archiveProcessed(fm, batch)
		}

		if appConfig.WriteSummary && !noSummary {
			report.FinishedAt = time.Now()
			summaryPath := utils.SummaryPath(target)
			if err := utils.WriteSummary(report, summaryPath); err != nil {
				logger.Warn("failed to write run summary", "err", err)
			}
		}
	}

	report.FinishedAt = time.Now()
	report.Summarize()
	printSummary(report, registry)

	return nil
}

// archiveProcessed moves successfully processed statements. Failures are
// logged only.
func archiveProcessed(fm *utils.FileManager, batch *converter.Batch) {
	for _, res := range batch.Results() {
		if !res.Success {
			continue
		}
		archived, err := fm.ArchiveInputFile(res.FilePath)
		if err != nil {
			logger.Warn("failed to archive statement", "file", res.FilePath, "err", err)
			continue
		}
		logger.Debug("statement archived", "file", res.FilePath, "to", archived)
	}
}

func printSummary(report *types.BatchReport, registry *briva.Registry) {
	fmt.Println("\n=== Processing Complete ===")
	fmt.Printf("Total files:     %d\n", report.Totals.Files)
	fmt.Printf("Processed:       %d\n", report.Totals.Processed)
	fmt.Printf("Skipped:         %d\n", report.Totals.Skipped)
	fmt.Printf("BRIVA_MATCH:     %d row(s)\n", report.Totals.Matched)
	fmt.Printf("LAIN-LAIN:       %d row(s)\n", report.Totals.Other)
	fmt.Printf("PREFIX_LIST:     %d prefix(es)\n", registry.Len())
	fmt.Printf("Time elapsed:    %s\n", report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond))

	if report.OutputFile != "" {
		fmt.Printf("Output:          %s\n", report.OutputFile)
	} else {
		fmt.Println("Dry run: no files written.")
	}
}
