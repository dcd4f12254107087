// =============================================================================
// BRIVA Splitter - Convert Command
// =============================================================================
//
// COMMAND USAGE:
//   briva convert <file> [output.xlsx]
//
// Converts a legacy .xls or .csv statement to .xlsx with the same readers the
// process command uses. Without an output path the result is written next to
// the source as <name>_converted.xlsx.
//
// =============================================================================

package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/briva-splitter/internal/spreadsheet"
)

var convertCmd = &cobra.Command{
	Use:   "convert <file> [output.xlsx]",
	Short: "Convert a legacy or CSV statement to xlsx",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := ""
		if len(args) == 2 {
			target = args[1]
		}
		return runConvert(args[0], target)
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
}

func runConvert(source, target string) error {
	wb, err := spreadsheet.Open(source, spreadsheet.OptionsFromConfig(appConfig))
	if err != nil {
		return err
	}
	defer wb.Close()

	if target == "" {
		target = convertedPath(source)
	}
	if !strings.EqualFold(filepath.Ext(target), ".xlsx") {
		target += ".xlsx"
	}

	if err := wb.SaveAs(target); err != nil {
		return err
	}

	logger.Info("statement converted", "from", source, "format", wb.Format, "to", target)
	fmt.Printf("Converted %s -> %s\n", filepath.Base(source), target)
	return nil
}

// convertedPath returns <dir>/<name>_converted.xlsx for source.
func convertedPath(source string) string {
	base := filepath.Base(source)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(source), name+"_converted.xlsx")
}
