// =============================================================================
// BRIVA Splitter - Configuration Module
// =============================================================================
//
// This module is responsible for loading the application configuration.
//
// CONFIGURATION SOURCES (later sources override earlier ones):
//   1. Built-in defaults (see setDefaults)
//   2. The YAML config file (config.yaml by default, optional)
//   3. Environment variables prefixed with BRIVA_ (e.g. BRIVA_PREFIX_FILE,
//      BRIVA_CSV_DELIMITER)
//   4. Command-line flags bound by the cmd package
//
// The configuration is decoded into Config and validated on load.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "BRIVA"

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the application configuration.
type Config struct {
	// =========================================================================
	// REFERENCE DATA
	// =========================================================================

	// PrefixFile is the reference workbook with the corporate prefixes.
	// Default: "corporate_code.xlsx"
	PrefixFile string `mapstructure:"prefix_file"`

	// PrefixColumn is the (normalized) name of the prefix column.
	// Default: "corporate_code"
	PrefixColumn string `mapstructure:"prefix_column"`

	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// InputDir is scanned for statements when no files are given.
	// Default: "./input"
	InputDir string `mapstructure:"input_dir"`

	// OutputDir receives the consolidated workbook and the run summary.
	// Default: "./output"
	OutputDir string `mapstructure:"output_dir"`

	// ArchiveDir receives processed statements when ArchiveProcessed is set.
	// Default: "./input_archive"
	ArchiveDir string `mapstructure:"archive_dir"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// OutputNameFormat is the name of the consolidated workbook.
	// Placeholders: {uuid}, {timestamp}, {date}, {time}.
	// Default: "rekap_briva.xlsx"
	OutputNameFormat string `mapstructure:"output_name_format"`

	// WriteSummary writes a YAML run summary next to the workbook.
	// Default: true
	WriteSummary bool `mapstructure:"write_summary"`

	// ArchiveProcessed moves successfully processed statements to ArchiveDir.
	// Default: false
	ArchiveProcessed bool `mapstructure:"archive_processed"`

	// ArchiveTimestampSubdirs archives into dated subdirectories
	// (input_archive/2024/01/15/statement.xlsx).
	// Default: false
	ArchiveTimestampSubdirs bool `mapstructure:"archive_timestamp_subdirs"`

	// Labels are the TYPE column values.
	Labels Labels `mapstructure:"labels"`

	// =========================================================================
	// PARSING SETTINGS
	// =========================================================================

	// HeaderScanRows is the number of candidate header offsets.
	// Default: 16 (offsets 0 through 15)
	HeaderScanRows int `mapstructure:"header_scan_rows"`

	// LegacyCharset is the charset passed to the legacy .xls reader.
	// Default: "utf-8"
	LegacyCharset string `mapstructure:"legacy_charset"`

	// CSV contains the settings for .csv statements.
	CSV CSVSettings `mapstructure:"csv"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `mapstructure:"log_level"`

	// LogFormat selects the log formatter.
	// Valid values: "text", "json", "logfmt"
	// Default: "text"
	LogFormat string `mapstructure:"log_format"`
}

// Labels holds the TYPE column values.
type Labels struct {
	Inbound  string `mapstructure:"inbound"`
	Outbound string `mapstructure:"outbound"`
}

// CSVSettings contains settings for parsing CSV statements.
type CSVSettings struct {
	// Delimiter is the field separator.
	// Common values: "," (comma), ";" (semicolon), "|" (pipe), "\t" or "tab"
	// Default: ","
	Delimiter string `mapstructure:"delimiter"`

	// Encoding is the character encoding of the file.
	// Common values: "UTF-8", "ISO-8859-1", "Windows-1252"
	// Default: "UTF-8"
	Encoding string `mapstructure:"encoding"`
}

// =============================================================================
// LOADING
// =============================================================================

// New returns a viper instance carrying the defaults, the config file (if it
// exists) and environment overrides. Flags can be bound on the returned
// instance before calling Decode.
//
// PARAMETERS:
//   - configPath: Path to the YAML config file. A missing file is not an
//     error; any other read or parse failure is.
func New(configPath string) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath == "" {
		return v, nil
	}

	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		return v, nil
	}

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return v, nil
}

// Decode unmarshals and validates the configuration held by v.
func Decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Load is New followed by Decode.
func Load(configPath string) (*Config, error) {
	v, err := New(configPath)
	if err != nil {
		return nil, err
	}
	return Decode(v)
}

// setDefaults registers the default value of every key. Registering a default
// also makes the key visible to AutomaticEnv during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("prefix_file", "corporate_code.xlsx")
	v.SetDefault("prefix_column", "corporate_code")
	v.SetDefault("input_dir", "./input")
	v.SetDefault("output_dir", "./output")
	v.SetDefault("archive_dir", "./input_archive")
	v.SetDefault("output_name_format", "rekap_briva.xlsx")
	v.SetDefault("write_summary", true)
	v.SetDefault("archive_processed", false)
	v.SetDefault("archive_timestamp_subdirs", false)
	v.SetDefault("labels.inbound", "inbound")
	v.SetDefault("labels.outbound", "outbound")
	v.SetDefault("header_scan_rows", 16)
	v.SetDefault("legacy_charset", "utf-8")
	v.SetDefault("csv.delimiter", ",")
	v.SetDefault("csv.encoding", "UTF-8")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks the decoded configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.PrefixFile) == "" {
		return fmt.Errorf("prefix_file must not be empty")
	}
	if strings.TrimSpace(c.PrefixColumn) == "" {
		return fmt.Errorf("prefix_column must not be empty")
	}
	if c.HeaderScanRows <= 0 {
		return fmt.Errorf("header_scan_rows must be at least 1, got %d", c.HeaderScanRows)
	}
	if c.OutputNameFormat == "" {
		return fmt.Errorf("output_name_format must not be empty")
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}

	switch strings.ToLower(c.LogFormat) {
	case "text", "json", "logfmt":
	default:
		return fmt.Errorf("unknown log_format %q", c.LogFormat)
	}

	return nil
}

// EnsureDirectories creates the output directory, and the archive directory
// when archival is enabled.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.OutputDir}
	if c.ArchiveProcessed {
		dirs = append(dirs, c.ArchiveDir)
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
