package core

import (
	"context"
	"fmt"

	"github.com/huangsam/fdr/internal/contract"
	"github.com/huangsam/fdr/schema"
)

// logHeader prints a concise, 2-line header before a calculation.
// Machine-readable output on stdout never gets a header.
func logHeader(ctx context.Context, cfg *contract.Config, title string) {
	if shouldSuppressHeader(ctx) {
		return
	}
	if cfg.Output != schema.TextOut && cfg.OutputFile == "" {
		return
	}
	if cfg.UseEmojis {
		fmt.Printf("⚽ %s\n", title)
		fmt.Printf("📂 Data: %s (season of %d gameweeks)\n", cfg.DataDir, cfg.SeasonGameweeks)
		return
	}
	fmt.Println(title)
	fmt.Printf("Data: %s (season of %d gameweeks)\n", cfg.DataDir, cfg.SeasonGameweeks)
}
