package outwriter

import (
	"os"

	"github.com/huangsam/fdr/internal/contract"
	"golang.org/x/term"
)

// detectWidth returns the configured width override, else the terminal width.
func detectWidth(cfg *contract.Config) int {
	if cfg.Width > 0 {
		return cfg.Width
	}
	detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detectedWidth <= 0 {
		return 80 // Conservative default for narrow terminals and CI
	}
	return detectedWidth
}

// getMaxTableNameWidth calculates the maximum width for team names in table output.
func getMaxTableNameWidth(cfg *contract.Config) int {
	// Rank + Attack + Defence + Label + Variance + Home with borders/padding
	available := detectWidth(cfg) - 70
	if available < 10 {
		return 10
	}
	if available > 30 {
		return 30
	}
	return available
}

// getMaxFixturesWidth calculates the room left for the fixtures column of a schedule.
func getMaxFixturesWidth(cfg *contract.Config, nameWidth int) int {
	// Rank + Avg + Label with borders/padding
	available := detectWidth(cfg) - nameWidth - 35
	if available < 20 {
		return 20
	}
	return available
}
