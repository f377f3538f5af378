package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/fdr/schema"
)

// Color variables for console output, one per difficulty tier.
var (
	VeryEasyColor = color.New(color.FgGreen, color.Bold) // VeryEasyColor marks the most favourable fixtures.
	EasyColor     = color.New(color.FgGreen)             // EasyColor marks favourable fixtures.
	MediumColor   = color.New(color.FgYellow)            // MediumColor marks neutral fixtures.
	HardColor     = color.New(color.FgRed)               // HardColor marks difficult fixtures.
	VeryHardColor = color.New(color.FgRed, color.Bold)   // VeryHardColor marks the toughest fixtures.
	UnknownColor  = color.New(color.FgHiBlack)           // UnknownColor marks missing data.
)

// GetPlainLabel returns the human label for a possibly fractional FDR value.
// Averages are rounded to the nearest tier; zero means no data.
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainLabel(fdr float64) string {
	return schema.FDRLabel(schema.RoundFDR(fdr))
}

// GetColorLabel returns a colored text label for console output (table).
// It uses GetPlainLabel to determine the string, and then applies the appropriate color.
func GetColorLabel(fdr float64) string {
	text := GetPlainLabel(fdr)

	switch schema.RoundFDR(fdr) {
	case 1:
		return VeryEasyColor.Sprint(text)
	case 2:
		return EasyColor.Sprint(text)
	case 3:
		return MediumColor.Sprint(text)
	case 4:
		return HardColor.Sprint(text)
	case 5:
		return VeryHardColor.Sprint(text)
	default:
		return UnknownColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for the response cache.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".fdr_cache.db"
	}
	return filepath.Join(homeDir, ".fdr_cache.db")
}

// GetAnalysisDBFilePath returns the path to the SQLite DB file for analysis storage.
func GetAnalysisDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".fdr_analysis.db"
	}
	return filepath.Join(homeDir, ".fdr_analysis.db")
}

// TruncateName truncates a display name to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 to leave room for the "..." and at least one character.
func TruncateName(name string, maxWidth int) string {
	runes := []rune(name)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return name
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
