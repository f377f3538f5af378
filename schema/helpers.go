package schema

import (
	"math"
	"slices"
)

// fdrBand is one entry of the fixed five-entry presentation table.
type fdrBand struct {
	label      string
	colorClass string
}

// fdrBands is indexed by tier; index 0 is unused.
var fdrBands = [...]fdrBand{
	{},
	{"Very Easy", "fdr-very-easy"},
	{"Easy", "fdr-easy"},
	{"Medium", "fdr-medium"},
	{"Hard", "fdr-hard"},
	{"Very Hard", "fdr-very-hard"},
}

// Fallbacks for anything outside 1..5.
const (
	UnknownFDRLabel      = "Unknown"
	UnknownFDRColorClass = "fdr-unknown"
)

// FDRLabel returns the human label for a tier, or "Unknown" when out of range.
func FDRLabel(fdr int) string {
	if fdr < MinTier || fdr > MaxTier {
		return UnknownFDRLabel
	}
	return fdrBands[fdr].label
}

// FDRColorClass returns the category class for a tier, or "fdr-unknown" when out of range.
func FDRColorClass(fdr int) string {
	if fdr < MinTier || fdr > MaxTier {
		return UnknownFDRColorClass
	}
	return fdrBands[fdr].colorClass
}

// RoundFDR rounds an averaged difficulty to the nearest tier for display.
// Zero stays zero so "no data" keeps mapping to Unknown.
func RoundFDR(avg float64) int {
	if avg <= 0 || math.IsNaN(avg) {
		return 0
	}
	return int(math.Round(avg))
}

// IsValidHorizon reports whether h is one of the offered horizons.
func IsValidHorizon(h int) bool {
	return slices.Contains(ValidHorizons, h)
}
