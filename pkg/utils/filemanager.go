// =============================================================================
// Eco-Consumption Analyzer - File Manager Utility
// =============================================================================
//
// This module provides file management utilities for the analyzer, including:
//   - Report file naming and writing
//   - Directory management
//
// OUTPUT STRATEGY:
//   - Every report is written to the output directory under a unique name
//   - Input ledgers are never moved or modified
//
// =============================================================================

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles file operations for the analyzer.
type FileManager struct {
	// OutputDir is the directory where reports are placed.
	OutputDir string

	// FileNameFormat is the report file name format (without extension).
	// See GenerateOutputFileName for placeholders.
	FileNameFormat string
}

// NewFileManager creates a new FileManager.
func NewFileManager(outputDir, fileNameFormat string) *FileManager {
	return &FileManager{
		OutputDir:      outputDir,
		FileNameFormat: fileNameFormat,
	}
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDirectories creates the output directory if it doesn't exist.
//
// RETURNS:
//   - An error if the directory cannot be created.
func (fm *FileManager) EnsureDirectories() error {
	if err := os.MkdirAll(fm.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", fm.OutputDir, err)
	}
	return nil
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// GenerateOutputFileName generates a unique output file name.
//
// PARAMETERS:
//   - format: The format string for the file name.
//             Placeholders:
//               {uuid}      - A random UUID, unless given in params
//               {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
//               {date}      - Current date (YYYYMMDD)
//               {time}      - Current time (HHMMSS)
//               {original}  - Original file name (without extension)
//               {sheet}     - Selected sheet name
//   - params: A map of placeholder values. Values replace path separators
//             so the result is always a single file name.
//   - ext: The extension to ensure, including the dot, e.g. ".json".
//
// RETURNS:
//   - The generated file name.
//
// EXAMPLE:
//   format: "{original}_{timestamp}_{uuid}"
//   params: {"original": "ledger_2026_03", "uuid": "a1b2c3d4"}
//   ext:    ".json"
//   output: "ledger_2026_03_20260301_143022_a1b2c3d4.json"
func GenerateOutputFileName(format string, params map[string]string, ext string) string {
	now := time.Now()

	replacements := map[string]string{
		"{uuid}":      uuid.New().String(),
		"{timestamp}": now.Format("20060102_150405"),
		"{date}":      now.Format("20060102"),
		"{time}":      now.Format("150405"),
	}

	for key, value := range params {
		replacements["{"+key+"}"] = sanitizeFileNamePart(value)
	}

	result := format
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	result = strings.Trim(result, "_- ")
	if result == "" {
		result = "report"
	}

	if ext != "" && !strings.HasSuffix(strings.ToLower(result), strings.ToLower(ext)) {
		result += ext
	}

	return result
}

// sanitizeFileNamePart replaces characters that cannot appear in a file name.
func sanitizeFileNamePart(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, s)
}

// BaseNameWithoutExt returns the file name of path without its extension.
func BaseNameWithoutExt(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// =============================================================================
// OUTPUT WRITING
// =============================================================================

// WriteOutputFile writes data to a file in the output directory, creating
// the directory if needed.
//
// RETURNS:
//   - The path of the written file.
//   - An error if writing fails.
func (fm *FileManager) WriteOutputFile(name string, data []byte) (string, error) {
	if err := fm.EnsureDirectories(); err != nil {
		return "", err
	}

	outputPath := filepath.Join(fm.OutputDir, name)
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return outputPath, nil
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================
