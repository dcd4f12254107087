package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// prefixesCmd lists the corporate prefixes of the configured registry in the
// order they are tried during extraction.
var prefixesCmd = &cobra.Command{
	Use:   "prefixes",
	Short: "List the loaded corporate prefixes",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := loadRegistry()
		if err != nil {
			return err
		}

		color.New(color.Bold).Printf("%d prefix(es) from %s\n", registry.Len(), appConfig.PrefixFile)
		for i, prefix := range registry.Prefixes() {
			fmt.Printf("%4d  %s\n", i+1, prefix)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(prefixesCmd)
	prefixesCmd.Flags().String("prefix-file", "", "Reference workbook with the corporate_code column")
}
