// =============================================================================
// BRIVA Splitter - File Manager Utility
// =============================================================================
//
// This module provides file management utilities for the splitter, including:
//   - Statement discovery in the input directory
//   - Output file naming
//   - Archival of processed statements
//   - The YAML run summary (see summary.go)
//   - File checksums (see checksum.go)
//
// ARCHIVAL STRATEGY:
//   - Statements are moved to the archive directory after a successful run
//     when archival is enabled
//   - Skipped statements remain in their original location
//
// =============================================================================

package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultOutputName is the name of the consolidated workbook.
const DefaultOutputName = "rekap_briva.xlsx"

// StatementExtensions are the extensions picked up by discovery.
var StatementExtensions = []string{".xlsx", ".xlsm", ".xls", ".csv"}

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles file operations for the splitter.
type FileManager struct {
	// InputDir is the directory scanned for statements.
	InputDir string

	// OutputDir is the directory where the workbook and summary are placed.
	OutputDir string

	// ArchiveDir is the directory for archived statements.
	ArchiveDir string

	// UseTimestampSubdirs creates date-based subdirectories in the archive.
	// Example: input_archive/2024/01/15/statement.xlsx
	UseTimestampSubdirs bool
}

// NewFileManager creates a new FileManager with the specified directories.
func NewFileManager(inputDir, outputDir, archiveDir string) *FileManager {
	return &FileManager{
		InputDir:   inputDir,
		OutputDir:  outputDir,
		ArchiveDir: archiveDir,
	}
}

// =============================================================================
// FILE DISCOVERY
// =============================================================================

// DiscoverInputFiles lists the statements in the input directory.
//
// RETURNS:
//   - The files with a supported extension, sorted by name. Sorting gives a
//     deterministic processing order. Office lock files ("~$...") and
//     subdirectories are ignored.
//   - An error if the directory cannot be read.
func (fm *FileManager) DiscoverInputFiles() ([]string, error) {
	entries, err := os.ReadDir(fm.InputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan input directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), "~$") {
			continue
		}
		if IsStatementFile(entry.Name()) {
			files = append(files, filepath.Join(fm.InputDir, entry.Name()))
		}
	}

	sort.Strings(files)
	return files, nil
}

// IsStatementFile reports whether name has a supported extension.
func IsStatementFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range StatementExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// =============================================================================
// FILE ARCHIVAL
// =============================================================================

// ArchiveInputFile moves a statement to the archive directory.
//
// RETURNS:
//   - The path to the archived file.
//   - An error if archival fails.
func (fm *FileManager) ArchiveInputFile(filePath string) (string, error) {
	archivePath := fm.getArchivePath(filePath, time.Now())

	if err := os.MkdirAll(filepath.Dir(archivePath), 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	if err := os.Rename(filePath, archivePath); err != nil {
		// If rename fails (e.g., cross-device), try copy and delete.
		if err := copyFile(filePath, archivePath); err != nil {
			return "", fmt.Errorf("failed to copy file to archive: %w", err)
		}
		if err := os.Remove(filePath); err != nil {
			return "", fmt.Errorf("failed to remove original file: %w", err)
		}
	}

	return archivePath, nil
}

// getArchivePath constructs the archive path for a file archived at now.
func (fm *FileManager) getArchivePath(filePath string, now time.Time) string {
	fileName := filepath.Base(filePath)

	if fm.UseTimestampSubdirs {
		return filepath.Join(
			fm.ArchiveDir,
			fmt.Sprintf("%d", now.Year()),
			fmt.Sprintf("%02d", now.Month()),
			fmt.Sprintf("%02d", now.Day()),
			fileName,
		)
	}

	return filepath.Join(fm.ArchiveDir, fileName)
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// OutputPath returns the path of the consolidated workbook for format.
func (fm *FileManager) OutputPath(format string) string {
	return filepath.Join(fm.OutputDir, GenerateOutputFileName(format, time.Now()))
}

// GenerateOutputFileName expands the placeholders of format.
//
// PARAMETERS:
//   - format: The file name format. Placeholders:
//       {uuid}      - A random UUID
//       {timestamp} - YYYYMMDD_HHMMSS
//       {date}      - YYYYMMDD
//       {time}      - HHMMSS
//     An empty format means DefaultOutputName.
//   - now: The time used for the time placeholders.
//
// RETURNS:
//   - The file name, always ending in ".xlsx".
//
// EXAMPLE:
//   format: "rekap_briva_{date}"
//   output: "rekap_briva_20240115.xlsx"
func GenerateOutputFileName(format string, now time.Time) string {
	if format == "" {
		format = DefaultOutputName
	}

	replacer := strings.NewReplacer(
		"{uuid}", uuid.New().String(),
		"{timestamp}", now.Format("20060102_150405"),
		"{date}", now.Format("20060102"),
		"{time}", now.Format("150405"),
	)
	result := replacer.Replace(format)

	if !strings.HasSuffix(strings.ToLower(result), ".xlsx") {
		result += ".xlsx"
	}

	return result
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// copyFile copies a file from src to dst.
func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return err
	}

	return destFile.Sync()
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
