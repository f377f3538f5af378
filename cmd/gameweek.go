package cmd

import (
	"github.com/huangsam/fdr/core"
	"github.com/huangsam/fdr/internal/contract"
	"github.com/spf13/cobra"
)

// gameweekCmd rates every fixture of one gameweek.
var gameweekCmd = &cobra.Command{
	Use:   "gameweek",
	Short: "Rate the difficulty of every fixture in one gameweek.",
	Long: `Rate each team's single fixture in a gameweek from both sides of the ball.

Attack difficulty says how hard it is to score against the opponent;
defence difficulty says how hard it is to keep a clean sheet against them.
Both run from 1 (very easy) to 5 (very hard) and both lists are printed
easiest first. Teams without a fixture in the gameweek are left out.

Examples:
  # Rate the next unfinished gameweek
  fdr gameweek

  # Rate gameweek 12 and show the five easiest teams
  fdr gameweek --gameweek 12 --limit 5

  # Export both lists as JSON
  fdr gameweek -g 12 --output json --output-file gw12.json`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteGameweekFDR(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot rate gameweek", err)
		}
	},
}
