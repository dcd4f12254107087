// =============================================================================
// BRIVA Splitter - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI.
//
// COBRA CLI STRUCTURE:
//   rootCmd (briva)
//   ├── processCmd  (briva process)
//   ├── convertCmd  (briva convert)
//   ├── prefixesCmd (briva prefixes)
//   └── versionCmd  (briva version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --verbose)
//   2. Loading the configuration through viper (file, BRIVA_* env, flags)
//   3. Setting up logging
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ginjaninja78/briva-splitter/internal/briva"
	"github.com/ginjaninja78/briva-splitter/internal/config"
	"github.com/ginjaninja78/briva-splitter/internal/logging"
	"github.com/ginjaninja78/briva-splitter/internal/spreadsheet"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
var cfgFile string

// verbose switches logging to debug level.
var verbose bool

// appConfig and logger are set by loadConfig before any subcommand runs.
var (
	appConfig *config.Config
	logger    *log.Logger
)

// flagBindings maps command-line flags to configuration keys. Flags listed
// here override the config file and environment only when set explicitly.
var flagBindings = map[string]string{
	"prefix-file": "prefix_file",
	"input-dir":   "input_dir",
	"output-dir":  "output_dir",
}

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

var rootCmd = &cobra.Command{
	Use:   "briva",
	Short: "BRIVA Splitter - Separate BRIVA payments from bank statements",
	Long: `BRIVA Splitter reads bank-statement spreadsheets, extracts BRIVA virtual
account references from the remark column and splits every transaction into
BRIVA_MATCH (reference belongs to a registered corporate prefix) or LAIN-LAIN
(everything else). All statements of a run are consolidated into one workbook
together with the PREFIX_LIST reference sheet.

Supported inputs: .xlsx, .xlsm, legacy .xls and .csv.

Example Usage:
  briva process jan.xls feb.xlsx        # Process the given statements in order
  briva process                         # Process every statement in input_dir
  briva process --prefix-file codes.xlsx -o out/rekap.xlsx
  briva prefixes                        # Show the loaded corporate prefixes`,

	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == versionCmd.Name() {
			return nil
		}
		return loadConfig(cmd)
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the configuration file (optional)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// loadConfig builds appConfig and logger for cmd.
func loadConfig(cmd *cobra.Command) error {
	v, err := config.New(cfgFile)
	if err != nil {
		return err
	}

	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		key, ok := flagBindings[f.Name]
		if !ok || bindErr != nil {
			return
		}
		bindErr = v.BindPFlag(key, f)
	})
	if bindErr != nil {
		return fmt.Errorf("failed to bind flags: %w", bindErr)
	}

	if verbose {
		v.Set("log_level", "debug")
	}

	cfg, err := config.Decode(v)
	if err != nil {
		return err
	}

	l, err := logging.Setup(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		return err
	}

	if used := v.ConfigFileUsed(); used != "" {
		l.Debug("using config file", "path", used)
	}

	appConfig = cfg
	logger = l
	return nil
}

// loadRegistry loads the prefix registry. Failure is fatal for every command
// that needs it.
func loadRegistry() (*briva.Registry, error) {
	registry, err := briva.Load(appConfig.PrefixFile, appConfig.PrefixColumn, spreadsheet.OptionsFromConfig(appConfig))
	if err != nil {
		return nil, fmt.Errorf("failed to load prefix registry: %w", err)
	}

	logger.Debug("prefix registry loaded", "file", appConfig.PrefixFile, "prefixes", registry.Len())
	return registry, nil
}
