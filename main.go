// =============================================================================
// BRIVA Splitter - Main Entry Point
// =============================================================================
//
// This is the main entry point for the BRIVA Splitter CLI application.
// It delegates command execution to the cmd package.
//
// USAGE:
//   briva process [files...]  - Split statements into BRIVA_MATCH / LAIN-LAIN
//   briva convert <file>      - Convert a legacy or CSV statement to xlsx
//   briva prefixes            - List the loaded corporate prefixes
//   briva version             - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : Core logic (statement, briva, converter, spreadsheet, ...)
//   - pkg/       : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/briva-splitter/cmd"
)

func main() {
	cmd.Execute()
}
